package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/repository"
)

// LectureService handles lecture scheduling. Student and lecturer ids are not
// checked against any store.
type LectureService struct {
	records   recordSet[models.Lecture]
	validator *validator.Validate
}

// NewLectureService constructs the lecture service.
func NewLectureService(store recordStore[models.Lecture], ids idAllocator, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *LectureService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LectureService{
		records:   newRecordSet(repository.CollectionLectures, "Lecture", store, ids, cache, logger),
		validator: validate,
	}
}

// Schedule stores a new lecture.
func (s *LectureService) Schedule(ctx context.Context, req dto.LectureRequest) (*models.Lecture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return s.records.create(ctx, func(id uint64) models.Lecture {
		return lectureFromRequest(id, req)
	})
}

// Get returns the lecture stored under id.
func (s *LectureService) Get(ctx context.Context, id uint64) (*models.Lecture, error) {
	return s.records.get(ctx, id)
}

// Update replaces every field of an existing lecture.
func (s *LectureService) Update(ctx context.Context, id uint64, req dto.LectureRequest) (*models.Lecture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return s.records.replace(ctx, id, lectureFromRequest(id, req))
}

// Delete removes a lecture.
func (s *LectureService) Delete(ctx context.Context, id uint64) error {
	return s.records.remove(ctx, id)
}

// List returns all lectures in ascending id order.
func (s *LectureService) List(ctx context.Context) ([]models.Lecture, bool, error) {
	return s.records.list(ctx)
}

func lectureFromRequest(id uint64, req dto.LectureRequest) models.Lecture {
	return models.Lecture{
		ID:                id,
		StudentID:         req.StudentID,
		LecturerID:        req.LecturerID,
		DateTime:          req.DateTime,
		Topic:             req.Topic,
		MultimediaContent: req.MultimediaContent,
	}
}
