package dto

import "github.com/noah-isme/student-records-api/internal/models"

// StudentRequest defines payload for registering or replacing a student.
type StudentRequest struct {
	Name              string `json:"name" validate:"required"`
	ContactDetails    string `json:"contact_details"`
	AttendanceHistory string `json:"attendance_history"`
}

// LectureRequest defines payload for scheduling or replacing a lecture.
type LectureRequest struct {
	StudentID         uint64                    `json:"student_id"`
	LecturerID        uint64                    `json:"lecturer_id"`
	DateTime          uint64                    `json:"date_time"`
	Topic             string                    `json:"topic" validate:"required"`
	MultimediaContent *models.MultiMediaContent `json:"multimedia_content,omitempty"`
}

// AttendanceRequest defines payload for recording or replacing attendance.
// The status is free text and may be empty.
type AttendanceRequest struct {
	StudentID        uint64 `json:"student_id"`
	AttendanceStatus string `json:"attendance_status"`
}

// MessageRequest defines payload for sending or replacing a message.
type MessageRequest struct {
	SenderID          uint64                    `json:"sender_id"`
	ReceiverID        uint64                    `json:"receiver_id"`
	Content           string                    `json:"content" validate:"required"`
	MultimediaContent *models.MultiMediaContent `json:"multimedia_content,omitempty"`
}

// ReminderRequest defines payload for a system reminder to a student.
type ReminderRequest struct {
	Content           string                    `json:"content" validate:"required"`
	MultimediaContent *models.MultiMediaContent `json:"multimedia_content,omitempty"`
}
