package codec

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/noah-isme/student-records-api/internal/models"
)

// EncodeStudent serialises a student.
func EncodeStudent(s models.Student) ([]byte, error) {
	var e encoder
	e.putUint(1, s.ID)
	e.putString(2, s.Name)
	e.putString(3, s.ContactDetails)
	e.putString(4, s.AttendanceHistory)
	return e.finish()
}

// DecodeStudent parses bytes produced by EncodeStudent.
func DecodeStudent(b []byte) (models.Student, error) {
	var s models.Student
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case 1:
			return readUint(typ, b, &s.ID)
		case 2:
			return readString(typ, b, &s.Name)
		case 3:
			return readString(typ, b, &s.ContactDetails)
		case 4:
			return readString(typ, b, &s.AttendanceHistory)
		}
		return 0, false, nil
	})
	return s, err
}

// EncodeLecture serialises a lecture.
func EncodeLecture(l models.Lecture) ([]byte, error) {
	var e encoder
	e.putUint(1, l.ID)
	e.putUint(2, l.StudentID)
	e.putUint(3, l.LecturerID)
	e.putUint(4, l.DateTime)
	e.putString(5, l.Topic)
	if l.MultimediaContent != nil {
		e.putBytes(6, encodeMultimedia(*l.MultimediaContent))
	}
	return e.finish()
}

// DecodeLecture parses bytes produced by EncodeLecture.
func DecodeLecture(b []byte) (models.Lecture, error) {
	var l models.Lecture
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case 1:
			return readUint(typ, b, &l.ID)
		case 2:
			return readUint(typ, b, &l.StudentID)
		case 3:
			return readUint(typ, b, &l.LecturerID)
		case 4:
			return readUint(typ, b, &l.DateTime)
		case 5:
			return readString(typ, b, &l.Topic)
		case 6:
			return readMultimedia(typ, b, &l.MultimediaContent)
		}
		return 0, false, nil
	})
	return l, err
}

// EncodeAttendanceRecord serialises an attendance record.
func EncodeAttendanceRecord(r models.AttendanceRecord) ([]byte, error) {
	var e encoder
	e.putUint(1, r.ID)
	e.putUint(2, r.StudentID)
	e.putString(3, r.AttendanceStatus)
	return e.finish()
}

// DecodeAttendanceRecord parses bytes produced by EncodeAttendanceRecord.
func DecodeAttendanceRecord(b []byte) (models.AttendanceRecord, error) {
	var r models.AttendanceRecord
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case 1:
			return readUint(typ, b, &r.ID)
		case 2:
			return readUint(typ, b, &r.StudentID)
		case 3:
			return readString(typ, b, &r.AttendanceStatus)
		}
		return 0, false, nil
	})
	return r, err
}

// EncodeMessage serialises a message.
func EncodeMessage(m models.Message) ([]byte, error) {
	var e encoder
	e.putUint(1, m.ID)
	e.putUint(2, m.SenderID)
	e.putUint(3, m.ReceiverID)
	e.putString(4, m.Content)
	if m.MultimediaContent != nil {
		e.putBytes(5, encodeMultimedia(*m.MultimediaContent))
	}
	return e.finish()
}

// DecodeMessage parses bytes produced by EncodeMessage.
func DecodeMessage(b []byte) (models.Message, error) {
	var m models.Message
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case 1:
			return readUint(typ, b, &m.ID)
		case 2:
			return readUint(typ, b, &m.SenderID)
		case 3:
			return readUint(typ, b, &m.ReceiverID)
		case 4:
			return readString(typ, b, &m.Content)
		case 5:
			return readMultimedia(typ, b, &m.MultimediaContent)
		}
		return 0, false, nil
	})
	return m, err
}

func encodeMultimedia(mm models.MultiMediaContent) []byte {
	var e encoder
	e.putOptString(1, mm.ImageURL)
	e.putOptString(2, mm.VideoURL)
	e.putOptString(3, mm.AudioURL)
	return e.b
}

func decodeMultimedia(b []byte) (models.MultiMediaContent, error) {
	var mm models.MultiMediaContent
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case 1:
			return readOptString(typ, b, &mm.ImageURL)
		case 2:
			return readOptString(typ, b, &mm.VideoURL)
		case 3:
			return readOptString(typ, b, &mm.AudioURL)
		}
		return 0, false, nil
	})
	return mm, err
}
