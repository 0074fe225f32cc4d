package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"revivalhub/internal/apperrors"
	"revivalhub/internal/microservices/http-api/dto"
	"revivalhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	svc service.NotificationService
	log *zap.Logger
}

func NewNotificationHandler(svc service.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.PATCH("/:id/read", h.MarkRead)
}

// List returns the caller's newest notifications; ?limit= overrides the default
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer", "code": string(apperrors.KindValidation)})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.svc.List(ctx, actor, limit)
	if err != nil {
		h.log.Error("list notifications failed", zap.String("user_id", actor.UserID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadCount returns how many of the caller's notifications are unread
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	count, err := h.svc.UnreadCount(ctx, actor)
	if err != nil {
		h.log.Error("count unread notifications failed", zap.String("user_id", actor.UserID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notification, err := h.svc.MarkRead(ctx, actor, c.Param("id"))
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindNotFound {
			h.log.Error("mark notification read failed", zap.String("user_id", actor.UserID), zap.Error(err))
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}
