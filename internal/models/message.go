package models

// SystemSenderID marks messages produced by the service itself, such as
// reminders.
const SystemSenderID uint64 = 0

// Message is a note sent between participants.
type Message struct {
	ID                uint64             `json:"id"`
	SenderID          uint64             `json:"sender_id"`
	ReceiverID        uint64             `json:"receiver_id"`
	Content           string             `json:"content"`
	MultimediaContent *MultiMediaContent `json:"multimedia_content,omitempty"`
}

// RecordID returns the primary key.
func (m Message) RecordID() uint64 { return m.ID }

// MultiMediaContent holds optional attachment URLs. URLs are opaque and never
// fetched.
type MultiMediaContent struct {
	ImageURL *string `json:"image_url,omitempty"`
	VideoURL *string `json:"video_url,omitempty"`
	AudioURL *string `json:"audio_url,omitempty"`
}
