package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/response"
)

type lectureService interface {
	Schedule(ctx context.Context, req dto.LectureRequest) (*models.Lecture, error)
	Get(ctx context.Context, id uint64) (*models.Lecture, error)
	Update(ctx context.Context, id uint64, req dto.LectureRequest) (*models.Lecture, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]models.Lecture, bool, error)
}

// LectureHandler exposes lecture endpoints.
type LectureHandler struct {
	lectures lectureService
}

// NewLectureHandler constructs LectureHandler.
func NewLectureHandler(lectures lectureService) *LectureHandler {
	return &LectureHandler{lectures: lectures}
}

// List returns every lecture ordered by id.
func (h *LectureHandler) List(c *gin.Context) {
	lectures, cacheHit, err := h.lectures.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, lectures, middleware.ExtractMeta(c))
}

// Get returns a single lecture.
func (h *LectureHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	lecture, err := h.lectures.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, lecture)
}

// Schedule creates a lecture.
func (h *LectureHandler) Schedule(c *gin.Context) {
	var req dto.LectureRequest
	if !bindJSON(c, &req, "lecture") {
		return
	}
	lecture, err := h.lectures.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lecture)
}

// Update replaces a lecture.
func (h *LectureHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.LectureRequest
	if !bindJSON(c, &req, "lecture") {
		return
	}
	lecture, err := h.lectures.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, lecture)
}

// Delete removes a lecture.
func (h *LectureHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.lectures.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
