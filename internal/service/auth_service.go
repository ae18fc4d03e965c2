package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/pkg/auth"
)

// AuthService предоставляет методы регистрации и аутентификации
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("userRepo is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// Register регистрирует нового пользователя.
// Повторная регистрация занятого username или email всегда завершается
// ErrUserExists и никогда не перезаписывает существующую запись.
func (s *AuthService) Register(username, email, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", apperrors.ErrValidation)
	}

	// Проверяем занятость username
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: username %q is taken", apperrors.ErrUserExists, username)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Проверяем занятость email
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email %q is taken", apperrors.ErrUserExists, email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password, // Хешируется в BeforeSave
		Role:     entity.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Гонку двух регистраций ловит уникальный индекс
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: username or email is taken", apperrors.ErrUserExists)
		}
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь %q", username)
	return user, nil
}

// UpdateLanguage сохраняет язык, на который пользователю переводятся
// вопросы. Пустое значение отключает перевод для пользователя.
func (s *AuthService) UpdateLanguage(userID uint, language string) error {
	language = strings.ToLower(strings.TrimSpace(language))
	if len(language) > 5 {
		return fmt.Errorf("%w: language code is too long", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	user.Language = language
	return s.userRepo.Update(user)
}

// Login проверяет пару (username, password) и выпускает сессионный токен.
// Для несуществующего пользователя и для неверного пароля возвращается
// одна и та же ErrInvalidCredentials.
func (s *AuthService) Login(username, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	return user, token, nil
}
