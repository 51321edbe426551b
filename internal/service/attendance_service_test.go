package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/dto"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

func TestAttendanceServiceUpdateMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, nil)

	_, err := s.attendance.Update(ctx, 99, dto.AttendanceRequest{StudentID: 1, AttendanceStatus: "present"})
	requireAppError(t, err, appErrors.ErrNotFound.Code, "Attendance record with id=99 not found")

	records, _, err := s.attendance.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAttendanceServiceAcceptsEmptyStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, nil)

	record, err := s.attendance.Record(ctx, dto.AttendanceRequest{StudentID: 404})
	require.NoError(t, err)
	assert.Empty(t, record.AttendanceStatus)

	updated, err := s.attendance.Update(ctx, record.ID, dto.AttendanceRequest{StudentID: 404, AttendanceStatus: ""})
	require.NoError(t, err)
	assert.Equal(t, record.ID, updated.ID)

	require.NoError(t, s.attendance.Delete(ctx, record.ID))
	_, err = s.attendance.Get(ctx, record.ID)
	requireAppError(t, err, appErrors.ErrNotFound.Code, "")
}

func TestAttendanceServiceListOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, nil)

	var ids []uint64
	for _, status := range []string{"present", "absent", "late"} {
		rec, err := s.attendance.Record(ctx, dto.AttendanceRequest{StudentID: 1, AttendanceStatus: status})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}
	require.NoError(t, s.attendance.Delete(ctx, ids[1]))

	records, _, err := s.attendance.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ids[0], records[0].ID)
	assert.Equal(t, ids[2], records[1].ID)
	assert.Equal(t, "late", records[1].AttendanceStatus)
}
