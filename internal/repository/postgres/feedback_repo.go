package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// FeedbackRepo реализует repository.FeedbackRepository
type FeedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo создает новый репозиторий отзывов
func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

// Create добавляет отзыв
func (r *FeedbackRepo) Create(feedback *entity.Feedback) error {
	return r.db.Create(feedback).Error
}

// ListByUsername возвращает отзывы пользователя, новые первыми
func (r *FeedbackRepo) ListByUsername(username string, limit int) ([]entity.Feedback, error) {
	var records []entity.Feedback
	err := r.db.Where("username = ?", username).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
