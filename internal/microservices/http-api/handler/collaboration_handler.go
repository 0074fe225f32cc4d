package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"revivalhub/internal/apperrors"
	"revivalhub/internal/microservices/http-api/dto"
	"revivalhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CollaborationHandler struct {
	svc           service.CollaborationService
	createLimiter gin.HandlerFunc
	log           *zap.Logger
}

// NewCollaborationHandler builds the handler. createLimiter guards POST and may be nil.
func NewCollaborationHandler(svc service.CollaborationService, createLimiter gin.HandlerFunc, log *zap.Logger) *CollaborationHandler {
	return &CollaborationHandler{svc: svc, createLimiter: createLimiter, log: log}
}

func (h *CollaborationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	if h.createLimiter != nil {
		rg.POST("", h.createLimiter, h.Create)
	} else {
		rg.POST("", h.Create)
	}
	rg.GET("/incoming", h.ListIncoming)
}

// Create submits a collaboration request or an offer on a listing
func (h *CollaborationHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.CreateCollaborationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": string(apperrors.KindValidation)})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	collab, err := h.svc.Create(ctx, actor, service.CreateCollaborationInput{
		ListingID:   req.ListingID,
		Kind:        req.Kind,
		Message:     req.Message,
		OfferAmount: req.OfferAmount,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotificationPending) && collab != nil {
			c.JSON(http.StatusAccepted, dto.CreateCollaborationResponse{
				Collaboration:       collab,
				NotificationPending: true,
				Warning:             apperrors.MessageOf(err),
			})
			return
		}
		if apperrors.KindOf(err) == apperrors.KindStore || apperrors.KindOf(err) == apperrors.KindInternal {
			h.log.Error("create collaboration failed", zap.String("user_id", actor.UserID), zap.Error(err))
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, collab)
}

// ListIncoming returns pending requests on the caller's listings
func (h *CollaborationHandler) ListIncoming(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	incoming, err := h.svc.ListIncoming(ctx, actor)
	if err != nil {
		h.log.Error("list incoming collaborations failed", zap.String("user_id", actor.UserID), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborations": incoming})
}
