package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/response"
)

type studentService interface {
	Register(ctx context.Context, req dto.StudentRequest) (*models.Student, error)
	Get(ctx context.Context, id uint64) (*models.Student, error)
	Update(ctx context.Context, id uint64, req dto.StudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]models.Student, bool, error)
}

type reminderService interface {
	SendReminder(ctx context.Context, studentID uint64, req dto.ReminderRequest) (*models.Message, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students  studentService
	reminders reminderService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, reminders reminderService) *StudentHandler {
	return &StudentHandler{students: students, reminders: reminders}
}

// List returns every student ordered by id.
func (h *StudentHandler) List(c *gin.Context) {
	students, cacheHit, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, students, middleware.ExtractMeta(c))
}

// Get returns a single student.
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Register creates a student.
func (h *StudentHandler) Register(c *gin.Context) {
	var req dto.StudentRequest
	if !bindJSON(c, &req, "student") {
		return
	}
	student, err := h.students.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update replaces a student.
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.StudentRequest
	if !bindJSON(c, &req, "student") {
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Delete removes a student.
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SendReminder stores a system message addressed to the student.
func (h *StudentHandler) SendReminder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ReminderRequest
	if !bindJSON(c, &req, "reminder") {
		return
	}
	msg, err := h.reminders.SendReminder(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}
