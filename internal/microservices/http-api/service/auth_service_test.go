package service

import (
	"context"
	"testing"
	"time"

	"revivalhub/internal/config"
	"revivalhub/internal/microservices/http-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 15 * time.Minute,
	}
}

func signClaims(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(&models.User{Username: "testuser"}, nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com")

	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&models.User{Email: "test@example.com"}, nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com")

	assert.Equal(t, ErrEmailInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:       "0b7e4d0c-6f1f-4a55-9d5b-0d7f0c1e2a3b",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	accessToken, returnedUser, err := authService.Login(context.Background(), "testuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.Equal(t, user.Username, returnedUser.Username)

	claims, err := authService.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_InvalidPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{ID: "user-id", Username: "testuser", Password: string(hashedPassword)}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	accessToken, returnedUser, err := authService.Login(context.Background(), "testuser", "wrongpassword")

	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, accessToken)
	assert.Nil(t, returnedUser)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "nonexistent").Return(nil, gorm.ErrRecordNotFound)

	accessToken, user, err := authService.Login(context.Background(), "nonexistent", "password123")

	assert.Equal(t, ErrInvalidCredentials, err)
	assert.Empty(t, accessToken)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestValidateToken_Expired(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), testConfig())

	tokenString := signClaims(t, Claims{
		UserID:   "user-id",
		Username: "testuser",
		Type:     "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			Issuer:    tokenIssuer,
			Subject:   "user-id",
		},
	}, "test-secret")

	claims, err := authService.ValidateToken(tokenString)

	assert.Equal(t, ErrExpiredToken, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), testConfig())

	claims, err := authService.ValidateToken("invalid.token.here")

	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), testConfig())

	tokenString := signClaims(t, Claims{
		UserID: "user-id",
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			Issuer:    tokenIssuer,
			Subject:   "user-id",
		},
	}, "another-secret")

	claims, err := authService.ValidateToken(tokenString)

	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestValidateToken_InvalidIssuer(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), testConfig())

	tokenString := signClaims(t, Claims{
		UserID: "user-id",
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			Issuer:    "wrong-issuer",
			Subject:   "user-id",
		},
	}, "test-secret")

	claims, err := authService.ValidateToken(tokenString)

	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}

func TestValidateToken_EmptySubject(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), testConfig())

	tokenString := signClaims(t, Claims{
		UserID: "user-id",
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			Issuer:    tokenIssuer,
		},
	}, "test-secret")

	claims, err := authService.ValidateToken(tokenString)

	assert.Equal(t, ErrInvalidToken, err)
	assert.Nil(t, claims)
}
