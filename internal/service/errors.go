package service

import (
	"errors"
	"fmt"
)

// Reason identifies which rule rejected a form.
type Reason string

const (
	ReasonEncoding    Reason = "invalid_encoding"
	ReasonRequired    Reason = "required"
	ReasonName        Reason = "invalid_name"
	ReasonStudentID   Reason = "invalid_student_id"
	ReasonEmail       Reason = "invalid_email"
	ReasonContact     Reason = "invalid_contact"
	ReasonDuplicateID Reason = "duplicate_student_id"
	ReasonMalformed   Reason = "malformed_csv"
)

// ValidationError rejects a commit without touching stored state.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a student ID that is no longer stored.
type NotFoundError struct {
	StudentID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("student %q not found", e.StudentID)
}

// PersistenceError wraps a failed read or write of the storage medium.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("roster %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

// ReasonOf returns the validation reason carried by err, or "".
func ReasonOf(err error) Reason {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Reason
	}
	return ""
}
