package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
	"github.com/yourusername/quiz-api/pkg/auth"
)

// mockUserRepo реализует repository.UserRepository для тестов обработчиков
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func setupAuthRouter(t *testing.T, repo *mockUserRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService, err := auth.NewJWTService("handler-test-secret", 1)
	require.NoError(t, err)
	authService, err := service.NewAuthService(repo, jwtService)
	require.NoError(t, err)

	h := NewAuthHandler(authService)
	router := gin.New()
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register_Created(t *testing.T) {
	// Arrange
	repo := new(mockUserRepo)
	repo.On("GetByUsername", "alice").Return(nil, apperrors.ErrNotFound)
	repo.On("GetByEmail", "alice@example.com").Return(nil, apperrors.ErrNotFound)
	repo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)
	router := setupAuthRouter(t, repo)

	// Act
	w := postJSON(t, router, "/api/auth/register", RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})

	// Assert: пароль не попадает в ответ
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret123")
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	// Arrange
	repo := new(mockUserRepo)
	repo.On("GetByUsername", "alice").Return(&entity.User{ID: 1, Username: "alice"}, nil)
	router := setupAuthRouter(t, repo)

	// Act
	w := postJSON(t, router, "/api/auth/register", RegisterRequest{
		Username: "alice",
		Email:    "new@example.com",
		Password: "secret123",
	})

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_BadPayload(t *testing.T) {
	router := setupAuthRouter(t, new(mockUserRepo))

	w := postJSON(t, router, "/api/auth/register", gin.H{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	// Arrange
	stored := &entity.User{ID: 7, Username: "alice", Role: entity.RoleUser, Password: "secret123"}
	var mockTx *gorm.DB
	require.NoError(t, stored.BeforeSave(mockTx))

	repo := new(mockUserRepo)
	repo.On("GetByUsername", "alice").Return(stored, nil)
	router := setupAuthRouter(t, repo)

	// Act
	w := postJSON(t, router, "/api/auth/login", LoginRequest{Username: "alice", Password: "secret123"})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	// Arrange: и неизвестный пользователь, и неверный пароль дают 401
	stored := &entity.User{ID: 7, Username: "alice", Password: "secret123"}
	var mockTx *gorm.DB
	require.NoError(t, stored.BeforeSave(mockTx))

	repo := new(mockUserRepo)
	repo.On("GetByUsername", "alice").Return(stored, nil)
	repo.On("GetByUsername", "ghost").Return(nil, apperrors.ErrNotFound)
	router := setupAuthRouter(t, repo)

	// Act / Assert
	w := postJSON(t, router, "/api/auth/login", LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, router, "/api/auth/login", LoginRequest{Username: "ghost", Password: "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
