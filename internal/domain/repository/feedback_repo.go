package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// FeedbackRepository определяет методы для работы с отзывами.
// Хранилище append-only: обновления и удаления не предусмотрены.
type FeedbackRepository interface {
	// Create добавляет отзыв
	Create(feedback *entity.Feedback) error

	// ListByUsername возвращает отзывы пользователя (новые первыми)
	ListByUsername(username string, limit int) ([]entity.Feedback, error)
}
