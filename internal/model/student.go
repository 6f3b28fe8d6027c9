package model

// StudentRecord is one roster entry. StudentID is the primary key.
type StudentRecord struct {
	StudentName   string `json:"studentName" yaml:"studentName"`
	StudentID     string `json:"studentId" yaml:"studentId"`
	Email         string `json:"email" yaml:"email"`
	ContactNumber string `json:"contactNumber" yaml:"contactNumber"`
}
