package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service/quizrunner"
)

// SessionService создает сессии викторины и обслуживает запросы к ним
type SessionService struct {
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
	registry     *quizrunner.Registry
	runner       *quizrunner.Runner
	baseCtx      context.Context
}

// NewSessionService создает сервис сессий. baseCtx ограничивает время
// жизни всех запущенных сессий: его отмена останавливает исполнителей.
func NewSessionService(
	baseCtx context.Context,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	registry *quizrunner.Registry,
	runner *quizrunner.Runner,
) *SessionService {
	return &SessionService{
		questionRepo: questionRepo,
		userRepo:     userRepo,
		registry:     registry,
		runner:       runner,
		baseCtx:      baseCtx,
	}
}

// CreateSession запускает новую сессию викторины для пользователя.
// Вопросы выбранной категории и сложности перемешиваются на каждую
// сессию заново. Пустой набор вопросов допустим: такая сессия сразу
// завершается со счетом 0 из 0.
func (s *SessionService) CreateSession(userID uint, category, difficulty string) (*quizrunner.Session, error) {
	if !entity.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, category)
	}
	if !entity.ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", apperrors.ErrValidation, difficulty)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.GetByFilter(category, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	quizrunner.ShuffleQuestions(questions)

	session := quizrunner.NewSession(user.Username, user.Email, user.Language, category, difficulty, questions)
	s.registry.Put(session)

	go s.runner.Run(s.baseCtx, session)

	log.Printf("[SessionService] Сессия %s создана для %q: %d вопросов (%s/%s)",
		session.ID, user.Username, len(questions), category, difficulty)
	return session, nil
}

// getOwnedSession возвращает сессию, если она принадлежит пользователю
func (s *SessionService) getOwnedSession(sessionID, username string) (*quizrunner.Session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed session id", apperrors.ErrValidation)
	}

	session, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if session.Username != username {
		return nil, fmt.Errorf("%w: session belongs to another user", apperrors.ErrForbidden)
	}
	return session, nil
}

// SubmitAnswer фиксирует выбор пользователя по активному вопросу.
// До истечения отсчета выбор можно менять, учитывается последний.
func (s *SessionService) SubmitAnswer(sessionID, username string, questionIndex int, option string) error {
	session, err := s.getOwnedSession(sessionID, username)
	if err != nil {
		return err
	}
	return session.SubmitAnswer(questionIndex, option)
}

// GetSnapshot возвращает снимок сессии без правильных ответов
func (s *SessionService) GetSnapshot(sessionID, username string) (quizrunner.Snapshot, error) {
	session, err := s.getOwnedSession(sessionID, username)
	if err != nil {
		return quizrunner.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// GetAnswerRecords возвращает пары вопрос-выбор завершенной сессии
// для экспорта
func (s *SessionService) GetAnswerRecords(sessionID, username string) ([]quizrunner.AnswerRecord, error) {
	session, err := s.getOwnedSession(sessionID, username)
	if err != nil {
		return nil, err
	}
	if session.State() != quizrunner.StateFinished {
		return nil, fmt.Errorf("%w: session is still running", apperrors.ErrValidation)
	}
	return session.AnswerRecords(), nil
}

// GetSession возвращает сессию пользователя для подписки на события
func (s *SessionService) GetSession(sessionID, username string) (*quizrunner.Session, error) {
	return s.getOwnedSession(sessionID, username)
}
