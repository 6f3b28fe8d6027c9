package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"roster/internal/model"
)

const minContactDigits = 10

var (
	// \s in RE2 is ASCII only; \p{Zs} and U+FEFF add the other spaces a
	// browser regexp treats as whitespace (no-break space among them).
	namePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z\s\p{Zs}\x{FEFF}\x{2028}\x{2029}.]*$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// Form is the buffer behind the four text inputs.
type Form struct {
	StudentName   string
	StudentID     string
	Email         string
	ContactNumber string
}

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		StudentName:   strings.TrimSpace(f.StudentName),
		StudentID:     strings.TrimSpace(f.StudentID),
		Email:         strings.TrimSpace(f.Email),
		ContactNumber: strings.TrimSpace(f.ContactNumber),
	}
}

func (f Form) Record() model.StudentRecord {
	return model.StudentRecord{
		StudentName:   f.StudentName,
		StudentID:     f.StudentID,
		Email:         f.Email,
		ContactNumber: f.ContactNumber,
	}
}

// IsEmpty reports whether every field is blank.
func (f Form) IsEmpty() bool {
	return f.Normalize() == Form{}
}

func FormFromRecord(r model.StudentRecord) Form {
	return Form{
		StudentName:   r.StudentName,
		StudentID:     r.StudentID,
		Email:         r.Email,
		ContactNumber: r.ContactNumber,
	}
}

// Validate applies the field rules in order and returns the first failure.
// The form is expected to be normalized.
func Validate(f Form) error {
	for _, v := range []string{f.StudentName, f.StudentID, f.Email, f.ContactNumber} {
		if !utf8.ValidString(v) {
			return &ValidationError{Reason: ReasonEncoding, Message: "Input must be valid text."}
		}
	}
	if f.StudentName == "" || f.StudentID == "" || f.Email == "" || f.ContactNumber == "" {
		return &ValidationError{Reason: ReasonRequired, Message: "Input proper values"}
	}
	if !namePattern.MatchString(f.StudentName) {
		return &ValidationError{Reason: ReasonName, Message: "Student name must contain letters and spaces only."}
	}
	if !digitsPattern.MatchString(f.StudentID) {
		return &ValidationError{Reason: ReasonStudentID, Message: "Student ID must be a number only."}
	}
	if !emailPattern.MatchString(f.Email) {
		return &ValidationError{Reason: ReasonEmail, Message: "Email must look like name@domain.tld."}
	}
	if !digitsPattern.MatchString(f.ContactNumber) || len(f.ContactNumber) < minContactDigits {
		return &ValidationError{Reason: ReasonContact, Message: "Contact number must be numeric and at least 10 digits."}
	}
	return nil
}

// CheckUnique rejects id when a stored record other than exceptID holds it.
// Pass an empty exceptID for inserts.
func CheckUnique(records []model.StudentRecord, id, exceptID string) error {
	for _, r := range records {
		if r.StudentID != id {
			continue
		}
		if exceptID != "" && r.StudentID == exceptID {
			continue
		}
		return &ValidationError{Reason: ReasonDuplicateID, Message: "Student ID " + id + " already exists."}
	}
	return nil
}
