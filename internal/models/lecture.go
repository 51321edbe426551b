package models

// Lecture is a scheduled session. StudentID and LecturerID are soft
// references and are never checked against other stores.
type Lecture struct {
	ID                uint64             `json:"id"`
	StudentID         uint64             `json:"student_id"`
	LecturerID        uint64             `json:"lecturer_id"`
	DateTime          uint64             `json:"date_time"`
	Topic             string             `json:"topic"`
	MultimediaContent *MultiMediaContent `json:"multimedia_content,omitempty"`
}

// RecordID returns the primary key.
func (l Lecture) RecordID() uint64 { return l.ID }
