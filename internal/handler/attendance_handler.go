package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/response"
)

type attendanceService interface {
	Record(ctx context.Context, req dto.AttendanceRequest) (*models.AttendanceRecord, error)
	Get(ctx context.Context, id uint64) (*models.AttendanceRecord, error)
	Update(ctx context.Context, id uint64, req dto.AttendanceRequest) (*models.AttendanceRecord, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]models.AttendanceRecord, bool, error)
}

// AttendanceHandler exposes attendance record endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List returns every attendance record.
func (h *AttendanceHandler) List(c *gin.Context) {
	records, cacheHit, err := h.attendance.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, records, middleware.ExtractMeta(c))
}

// Get returns a single attendance record.
func (h *AttendanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	record, err := h.attendance.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Record stores a new attendance record.
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req dto.AttendanceRequest
	if !bindJSON(c, &req, "attendance") {
		return
	}
	record, err := h.attendance.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update replaces an attendance record.
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AttendanceRequest
	if !bindJSON(c, &req, "attendance") {
		return
	}
	record, err := h.attendance.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Delete removes an attendance record.
func (h *AttendanceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.attendance.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
