package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/repository"
)

// AttendanceService coordinates attendance records. Statuses are free text
// and are stored without validation.
type AttendanceService struct {
	records recordSet[models.AttendanceRecord]
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(store recordStore[models.AttendanceRecord], ids idAllocator, cache *CacheService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		records: newRecordSet(repository.CollectionAttendanceRecords, "Attendance record", store, ids, cache, logger),
	}
}

// Record stores a new attendance record.
func (s *AttendanceService) Record(ctx context.Context, req dto.AttendanceRequest) (*models.AttendanceRecord, error) {
	return s.records.create(ctx, func(id uint64) models.AttendanceRecord {
		return models.AttendanceRecord{ID: id, StudentID: req.StudentID, AttendanceStatus: req.AttendanceStatus}
	})
}

// Get returns the attendance record stored under id.
func (s *AttendanceService) Get(ctx context.Context, id uint64) (*models.AttendanceRecord, error) {
	return s.records.get(ctx, id)
}

// Update replaces an existing attendance record.
func (s *AttendanceService) Update(ctx context.Context, id uint64, req dto.AttendanceRequest) (*models.AttendanceRecord, error) {
	return s.records.replace(ctx, id, models.AttendanceRecord{ID: id, StudentID: req.StudentID, AttendanceStatus: req.AttendanceStatus})
}

// Delete removes an attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id uint64) error {
	return s.records.remove(ctx, id)
}

// List returns all attendance records in ascending id order.
func (s *AttendanceService) List(ctx context.Context) ([]models.AttendanceRecord, bool, error) {
	return s.records.list(ctx)
}
