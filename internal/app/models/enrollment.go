package models

// Confirmation messages returned by enroll/unenroll
const (
	MessageEnrolled   = "Enrolled"
	MessageUnenrolled = "Unenrolled"
)
