package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/response"
)

type messageService interface {
	Send(ctx context.Context, req dto.MessageRequest) (*models.Message, error)
	Get(ctx context.Context, id uint64) (*models.Message, error)
	Update(ctx context.Context, id uint64, req dto.MessageRequest) (*models.Message, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]models.Message, bool, error)
}

// MessageHandler exposes message endpoints.
type MessageHandler struct {
	messages messageService
}

// NewMessageHandler constructs MessageHandler.
func NewMessageHandler(messages messageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// List returns every message ordered by id.
func (h *MessageHandler) List(c *gin.Context) {
	messages, cacheHit, err := h.messages.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.OK(c, messages, middleware.ExtractMeta(c))
}

// Get returns a single message.
func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	msg, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}

// Send creates a message.
func (h *MessageHandler) Send(c *gin.Context) {
	var req dto.MessageRequest
	if !bindJSON(c, &req, "message") {
		return
	}
	msg, err := h.messages.Send(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Update replaces a message.
func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.MessageRequest
	if !bindJSON(c, &req, "message") {
		return
	}
	msg, err := h.messages.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}

// Delete removes a message.
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
