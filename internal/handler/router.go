package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/middleware"
	"github.com/noah-isme/student-records-api/internal/models"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Students   *StudentHandler
	Lectures   *LectureHandler
	Attendance *AttendanceHandler
	Messages   *MessageHandler
	Metrics    *MetricsHandler
}

// RouterOptions controls route mounting.
type RouterOptions struct {
	APIPrefix string
	// Auth enables bearer authentication on record routes when non-nil.
	Auth           middleware.TokenValidator
	MetricsEnabled bool
	// AuditLogger records successful mutations when non-nil.
	AuditLogger *zap.Logger
}

// RegisterRoutes mounts probes, metrics and the record API on r.
func RegisterRoutes(r *gin.Engine, h Handlers, opts RouterOptions) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if opts.MetricsEnabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(opts.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	if opts.Auth != nil {
		api.Use(middleware.JWT(opts.Auth))
	}
	writeChain := func(resource string) func(gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{}
		if opts.Auth != nil {
			chain = append(chain, middleware.RequireRoles(models.RoleAdmin, models.RoleLecturer))
		}
		if opts.AuditLogger != nil {
			chain = append(chain, middleware.Audit(opts.AuditLogger, resource))
		}
		return func(fn gin.HandlerFunc) []gin.HandlerFunc {
			return append(append([]gin.HandlerFunc{}, chain...), fn)
		}
	}

	guard := writeChain("students")
	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", guard(h.Students.Register)...)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", guard(h.Students.Update)...)
	students.DELETE("/:id", guard(h.Students.Delete)...)
	students.POST("/:id/reminders", guard(h.Students.SendReminder)...)

	guard = writeChain("lectures")
	lectures := api.Group("/lectures")
	lectures.GET("", h.Lectures.List)
	lectures.POST("", guard(h.Lectures.Schedule)...)
	lectures.GET("/:id", h.Lectures.Get)
	lectures.PUT("/:id", guard(h.Lectures.Update)...)
	lectures.DELETE("/:id", guard(h.Lectures.Delete)...)

	guard = writeChain("attendance_records")
	attendance := api.Group("/attendance-records")
	attendance.GET("", h.Attendance.List)
	attendance.POST("", guard(h.Attendance.Record)...)
	attendance.GET("/:id", h.Attendance.Get)
	attendance.PUT("/:id", guard(h.Attendance.Update)...)
	attendance.DELETE("/:id", guard(h.Attendance.Delete)...)

	guard = writeChain("messages")
	messages := api.Group("/messages")
	messages.GET("", h.Messages.List)
	messages.POST("", guard(h.Messages.Send)...)
	messages.GET("/:id", h.Messages.Get)
	messages.PUT("/:id", guard(h.Messages.Update)...)
	messages.DELETE("/:id", guard(h.Messages.Delete)...)
}
