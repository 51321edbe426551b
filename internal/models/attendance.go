package models

// AttendanceRecord stores a free-text attendance status for a student.
type AttendanceRecord struct {
	ID               uint64 `json:"id"`
	StudentID        uint64 `json:"student_id"`
	AttendanceStatus string `json:"attendance_status"`
}

// RecordID returns the primary key.
func (r AttendanceRecord) RecordID() uint64 { return r.ID }
