package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/repository"
)

// StudentService handles student use-cases.
type StudentService struct {
	records   recordSet[models.Student]
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(store recordStore[models.Student], ids idAllocator, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		records:   newRecordSet(repository.CollectionStudents, "Student", store, ids, cache, logger),
		validator: validate,
		logger:    logger,
	}
}

// Register stores a new student under a freshly allocated id.
func (s *StudentService) Register(ctx context.Context, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return s.records.create(ctx, func(id uint64) models.Student {
		return models.Student{
			ID:                id,
			Name:              req.Name,
			ContactDetails:    req.ContactDetails,
			AttendanceHistory: req.AttendanceHistory,
		}
	})
}

// Get returns the student stored under id.
func (s *StudentService) Get(ctx context.Context, id uint64) (*models.Student, error) {
	return s.records.get(ctx, id)
}

// Update replaces every field of an existing student.
func (s *StudentService) Update(ctx context.Context, id uint64, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return s.records.replace(ctx, id, models.Student{
		ID:                id,
		Name:              req.Name,
		ContactDetails:    req.ContactDetails,
		AttendanceHistory: req.AttendanceHistory,
	})
}

// Delete removes a student. Lectures, attendance and messages that refer to
// it are left in place.
func (s *StudentService) Delete(ctx context.Context, id uint64) error {
	return s.records.remove(ctx, id)
}

// List returns all students in ascending id order and whether the result came
// from cache.
func (s *StudentService) List(ctx context.Context) ([]models.Student, bool, error) {
	return s.records.list(ctx)
}
