package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с банком вопросов
type QuestionRepository interface {
	// Create создает новый вопрос
	Create(question *entity.Question) error

	// GetByID возвращает вопрос по ID
	GetByID(id uint) (*entity.Question, error)

	// GetByFilter возвращает все вопросы категории и сложности
	// в порядке хранения; перемешивание выполняет сессия
	GetByFilter(category, difficulty string) ([]entity.Question, error)

	// Update обновляет вопрос
	Update(question *entity.Question) error

	// Delete удаляет вопрос
	Delete(id uint) error

	// CountByFilter возвращает количество вопросов по фильтру
	CountByFilter(category, difficulty string) (int64, error)
}
