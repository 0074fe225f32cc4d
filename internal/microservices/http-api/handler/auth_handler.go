package handler

import (
	"errors"
	"net/http"

	"revivalhub/internal/microservices/http-api/dto"
	"revivalhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION"})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if errors.Is(err, service.ErrNameInUse) || errors.Is(err, service.ErrEmailInUse) {
		c.JSON(http.StatusConflict, gin.H{"error": "Account creation failed", "code": "CONFLICT"})
		return
	}
	if err != nil {
		h.log.Error("register failed", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"})
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION"})
		return
	}

	accessToken, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "UNAUTHORIZED"})
		return
	}
	if err != nil {
		h.log.Error("login failed", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		UserID:      user.ID,
		Username:    user.Username,
		ExpiresIn:   int64(h.authService.AccessTokenTTL().Seconds()),
	})
}
