package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с хранилищем пользователей
type UserRepository interface {
	// Create создает нового пользователя
	Create(user *entity.User) error

	// GetByID возвращает пользователя по ID
	GetByID(id uint) (*entity.User, error)

	// GetByUsername возвращает пользователя по имени
	GetByUsername(username string) (*entity.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(email string) (*entity.User, error)

	// Update обновляет информацию о пользователе
	Update(user *entity.User) error
}
