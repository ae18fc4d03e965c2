package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// LeaderboardRepository определяет методы для работы с таблицей лидеров
type LeaderboardRepository interface {
	// Create добавляет запись в таблицу лидеров
	Create(entry *entity.LeaderboardEntry) error

	// GetTop возвращает limit лучших записей: score DESC, равные по порядку вставки
	GetTop(limit int) ([]entity.LeaderboardEntry, error)
}
