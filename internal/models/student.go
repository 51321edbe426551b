package models

// Student represents a learner registered with the service.
type Student struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	ContactDetails    string `json:"contact_details"`
	AttendanceHistory string `json:"attendance_history"`
}

// RecordID returns the primary key.
func (s Student) RecordID() uint64 { return s.ID }
