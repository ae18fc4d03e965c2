package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByFilter возвращает все вопросы категории и сложности в порядке
// хранения (id). Перемешивает сессия, поэтому два последовательных
// вызова с одним фильтром возвращают один и тот же набор.
func (r *QuestionRepo) GetByFilter(category, difficulty string) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("category = ? AND difficulty = ?", category, difficulty).
		Order("id").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Update обновляет вопрос
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}

// CountByFilter возвращает количество вопросов по фильтру
func (r *QuestionRepo) CountByFilter(category, difficulty string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).
		Where("category = ? AND difficulty = ?", category, difficulty).
		Count(&count).Error
	return count, err
}
