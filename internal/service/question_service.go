package service

import (
	"fmt"
	"log"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// QuestionService управляет банком вопросов
type QuestionService struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(questionRepo repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// AddQuestion добавляет вопрос в банк. Доступно только администраторам:
// для остальных ролей возвращается ErrForbidden до каких-либо проверок
// содержимого вопроса.
func (s *QuestionService) AddQuestion(actorRole string, question *entity.Question) error {
	if actorRole != entity.RoleAdmin {
		return fmt.Errorf("%w: only administrators can add questions", apperrors.ErrForbidden)
	}

	if err := question.Validate(); err != nil {
		return err
	}

	if err := s.questionRepo.Create(question); err != nil {
		return fmt.Errorf("failed to store question: %w", err)
	}

	log.Printf("[QuestionService] Добавлен вопрос #%d (%s/%s)", question.ID, question.Category, question.Difficulty)
	return nil
}

// GetQuestions возвращает все вопросы категории и сложности.
// Пустой результат не является ошибкой.
func (s *QuestionService) GetQuestions(category, difficulty string) ([]entity.Question, error) {
	if !entity.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, category)
	}
	if !entity.ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", apperrors.ErrValidation, difficulty)
	}

	questions, err := s.questionRepo.GetByFilter(category, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return questions, nil
}

// CountQuestions возвращает количество вопросов по фильтру.
// Удобно администраторам для оценки наполненности банка.
func (s *QuestionService) CountQuestions(category, difficulty string) (int64, error) {
	if !entity.ValidCategory(category) {
		return 0, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, category)
	}
	if !entity.ValidDifficulty(difficulty) {
		return 0, fmt.Errorf("%w: unknown difficulty %q", apperrors.ErrValidation, difficulty)
	}
	return s.questionRepo.CountByFilter(category, difficulty)
}

// GetQuestion возвращает вопрос по ID
func (s *QuestionService) GetQuestion(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// UpdateQuestion обновляет существующий вопрос. Доступно только администраторам.
func (s *QuestionService) UpdateQuestion(actorRole string, question *entity.Question) error {
	if actorRole != entity.RoleAdmin {
		return fmt.Errorf("%w: only administrators can update questions", apperrors.ErrForbidden)
	}
	if err := question.Validate(); err != nil {
		return err
	}
	return s.questionRepo.Update(question)
}

// DeleteQuestion удаляет вопрос. Доступно только администраторам.
func (s *QuestionService) DeleteQuestion(actorRole string, id uint) error {
	if actorRole != entity.RoleAdmin {
		return fmt.Errorf("%w: only administrators can delete questions", apperrors.ErrForbidden)
	}
	return s.questionRepo.Delete(id)
}
