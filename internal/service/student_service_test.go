package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/codec"
	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/repository"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
	"github.com/noah-isme/student-records-api/pkg/kvstore"
)

type testServices struct {
	registry   *repository.Registry
	students   *StudentService
	lectures   *LectureService
	attendance *AttendanceService
	messages   *MessageService
}

func newTestServices(t *testing.T, cache *CacheService) testServices {
	t.Helper()
	reg := repository.NewRegistry(kvstore.NewMemory())
	t.Cleanup(func() { _ = reg.Close() })
	v := NewValidator()
	logger := zap.NewNop()
	return testServices{
		registry:   reg,
		students:   NewStudentService(reg.Students, reg.IDs, cache, v, logger),
		lectures:   NewLectureService(reg.Lectures, reg.IDs, cache, v, logger),
		attendance: NewAttendanceService(reg.AttendanceRecords, reg.IDs, cache, logger),
		messages:   NewMessageService(reg.Messages, reg.Students, reg.IDs, cache, v, logger),
	}
}

func requireAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func TestStudentServiceRegisterDeleteScenario(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, nil).students

	ana, err := svc.Register(ctx, dto.StudentRequest{Name: "Ana", ContactDetails: "a@x", AttendanceHistory: ""})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ana.ID)

	bo, err := svc.Register(ctx, dto.StudentRequest{Name: "Bo", ContactDetails: "b@x", AttendanceHistory: "P"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), bo.ID)

	require.NoError(t, svc.Delete(ctx, 1))

	_, err = svc.Get(ctx, 1)
	requireAppError(t, err, appErrors.ErrNotFound.Code, "Student with id=1 not found")

	students, cacheHit, err := svc.List(ctx)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	require.Len(t, students, 1)
	assert.Equal(t, *bo, students[0])
}

func TestStudentServiceRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, nil)

	_, err := s.students.Register(ctx, dto.StudentRequest{ContactDetails: "a@x"})
	requireAppError(t, err, appErrors.ErrInvalidInput.Code, "name cannot be empty")

	current, err := s.registry.IDs.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, current, "rejected input must not consume an id")
}

func TestStudentServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, nil).students

	_, err := svc.Update(ctx, 7, dto.StudentRequest{Name: "Ghost"})
	requireAppError(t, err, appErrors.ErrNotFound.Code, "Student with id=7 not found")

	_, err = svc.Get(ctx, 7)
	requireAppError(t, err, appErrors.ErrNotFound.Code, "")

	ana, err := svc.Register(ctx, dto.StudentRequest{Name: "Ana", ContactDetails: "a@x", AttendanceHistory: "P"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, ana.ID, dto.StudentRequest{Name: ""})
	requireAppError(t, err, appErrors.ErrInvalidInput.Code, "name cannot be empty")

	updated, err := svc.Update(ctx, ana.ID, dto.StudentRequest{Name: "Ana Maria"})
	require.NoError(t, err)
	assert.Equal(t, ana.ID, updated.ID)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Empty(t, updated.ContactDetails, "update replaces every field")

	got, err := svc.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *got)
}

func TestStudentServiceDeleteMissingIsNotFoundRepeatedly(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, nil).students

	ana, err := svc.Register(ctx, dto.StudentRequest{Name: "Ana"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, ana.ID))

	for i := 0; i < 2; i++ {
		requireAppError(t, svc.Delete(ctx, ana.ID), appErrors.ErrNotFound.Code, "")
	}
	_, err = svc.Update(ctx, ana.ID, dto.StudentRequest{Name: "Back"})
	requireAppError(t, err, appErrors.ErrNotFound.Code, "")
}

func TestStudentServiceRejectsOversizedRecords(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, nil).students

	_, err := svc.Register(ctx, dto.StudentRequest{Name: "Ana", AttendanceHistory: strings.Repeat("P", codec.MaxRecordSize)})
	requireAppError(t, err, appErrors.ErrInvalidInput.Code, "")

	students, _, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestIDsIncreaseAcrossCollections(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, nil)

	student, err := s.students.Register(ctx, dto.StudentRequest{Name: "Ana"})
	require.NoError(t, err)
	lecture, err := s.lectures.Schedule(ctx, dto.LectureRequest{Topic: "Algebra"})
	require.NoError(t, err)
	record, err := s.attendance.Record(ctx, dto.AttendanceRequest{StudentID: student.ID})
	require.NoError(t, err)
	msg, err := s.messages.Send(ctx, dto.MessageRequest{SenderID: 1, ReceiverID: 2, Content: "hi"})
	require.NoError(t, err)

	assert.Less(t, student.ID, lecture.ID)
	assert.Less(t, lecture.ID, record.ID)
	assert.Less(t, record.ID, msg.ID)
}
