package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/repository"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type studentReader interface {
	Get(ctx context.Context, id uint64) (*models.Student, error)
}

// MessageService handles messages and system reminders.
type MessageService struct {
	records   recordSet[models.Message]
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs the message service. students is consulted
// only when sending reminders.
func NewMessageService(store recordStore[models.Message], students studentReader, ids idAllocator, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{
		records:   newRecordSet(repository.CollectionMessages, "Message", store, ids, cache, logger),
		students:  students,
		validator: validate,
		logger:    logger,
	}
}

// Send stores a message between two participants.
func (s *MessageService) Send(ctx context.Context, req dto.MessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return s.records.create(ctx, func(id uint64) models.Message {
		return messageFromRequest(id, req)
	})
}

// SendReminder stores a system message addressed to studentID. Content is
// validated before the student is looked up.
func (s *MessageService) SendReminder(ctx context.Context, studentID uint64, req dto.ReminderRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		s.logger.Error("load student for reminder failed", zap.Uint64("student_id", studentID), zap.Error(err))
		return nil, storageError(err, "failed to load student")
	}
	if student == nil {
		return nil, appErrors.NotFoundf("Student", studentID)
	}
	msg, err := s.records.create(ctx, func(id uint64) models.Message {
		return models.Message{
			ID:                id,
			SenderID:          models.SystemSenderID,
			ReceiverID:        studentID,
			Content:           req.Content,
			MultimediaContent: req.MultimediaContent,
		}
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reminder sent", zap.Uint64("student_id", studentID), zap.Uint64("message_id", msg.ID))
	return msg, nil
}

// Get returns the message stored under id.
func (s *MessageService) Get(ctx context.Context, id uint64) (*models.Message, error) {
	return s.records.get(ctx, id)
}

// Update replaces every field of an existing message.
func (s *MessageService) Update(ctx context.Context, id uint64, req dto.MessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	return s.records.replace(ctx, id, messageFromRequest(id, req))
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id uint64) error {
	return s.records.remove(ctx, id)
}

// List returns all messages in ascending id order.
func (s *MessageService) List(ctx context.Context) ([]models.Message, bool, error) {
	return s.records.list(ctx)
}

func messageFromRequest(id uint64, req dto.MessageRequest) models.Message {
	return models.Message{
		ID:                id,
		SenderID:          req.SenderID,
		ReceiverID:        req.ReceiverID,
		Content:           req.Content,
		MultimediaContent: req.MultimediaContent,
	}
}
