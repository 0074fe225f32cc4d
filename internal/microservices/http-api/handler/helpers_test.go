package handler

import (
	"context"
	"net/http/httptest"
	"time"

	"revivalhub/internal/microservices/http-api/dto"
	"revivalhub/internal/microservices/http-api/middleware"
	"revivalhub/internal/microservices/http-api/models"
	"revivalhub/internal/microservices/http-api/service"
	"revivalhub/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	u1 = "11111111-1111-4111-8111-111111111111"
	u2 = "22222222-2222-4222-8222-222222222222"
	l1 = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
)

var (
	actorU1 = shared.Actor{UserID: u1, Username: "ann"}
	actorU2 = shared.Actor{UserID: u2, Username: "bob"}
)

type MockCollaborationService struct {
	mock.Mock
}

func (m *MockCollaborationService) Create(ctx context.Context, actor shared.Actor, in service.CreateCollaborationInput) (*models.Collaboration, error) {
	args := m.Called(actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collaboration), args.Error(1)
}

func (m *MockCollaborationService) ListIncoming(ctx context.Context, actor shared.Actor) ([]dto.IncomingCollaboration, error) {
	args := m.Called(actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.IncomingCollaboration), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, in service.NotifyInput) (*models.Notification, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationService) Deliver(ctx context.Context, entry *models.NotificationOutbox) error {
	return m.Called(entry).Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, actor shared.Actor, limit int) ([]dto.NotificationResponse, error) {
	args := m.Called(actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.NotificationResponse), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, actor shared.Actor) (int64, error) {
	args := m.Called(actor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, actor shared.Actor, id string) (*models.Notification, error) {
	args := m.Called(actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationService) PruneRead(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// newAPIRouter mounts the collaboration and notification routes behind the
// auth middleware. "Bearer u1" and "Bearer u2" authenticate as ann and bob.
func newAPIRouter(collabs service.CollaborationService, notifications service.NotificationService) *gin.Engine {
	authSvc := new(MockAuthService)
	authSvc.On("ValidateToken", "u1").Return(&service.Claims{UserID: u1, Username: "ann"}, nil)
	authSvc.On("ValidateToken", "u2").Return(&service.Claims{UserID: u2, Username: "bob"}, nil)
	authSvc.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken)

	router := setupRouter()
	api := router.Group("/api/v1", middleware.AuthMiddleware(authSvc))
	NewCollaborationHandler(collabs, nil, zap.NewNop()).RegisterRoutes(api.Group("/collaborations"))
	NewNotificationHandler(notifications, zap.NewNop()).RegisterRoutes(api.Group("/notifications"))
	return router
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

