package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// LeaderboardRepo реализует repository.LeaderboardRepository
type LeaderboardRepo struct {
	db *gorm.DB
}

// NewLeaderboardRepo создает новый репозиторий таблицы лидеров
func NewLeaderboardRepo(db *gorm.DB) *LeaderboardRepo {
	return &LeaderboardRepo{db: db}
}

// Create добавляет запись в таблицу лидеров
func (r *LeaderboardRepo) Create(entry *entity.LeaderboardEntry) error {
	return r.db.Create(entry).Error
}

// GetTop возвращает limit лучших записей.
// Сортировка score DESC, id ASC: равные счета идут в порядке вставки.
func (r *LeaderboardRepo) GetTop(limit int) ([]entity.LeaderboardEntry, error) {
	var entries []entity.LeaderboardEntry
	err := r.db.Order("score DESC, id ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
