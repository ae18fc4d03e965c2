package quizrunner

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// Состояния сессии
const (
	StateRunning  = "running"
	StateFinished = "finished"
)

// Session хранит состояние одного прохождения викторины одним
// пользователем. Все изменяемые поля защищены мьютексом: исполнитель
// пишет из своей горутины, ответы приходят из HTTP-обработчиков.
type Session struct {
	ID         uuid.UUID
	Username   string
	Email      string
	Language   string
	Category   string
	Difficulty string

	mu sync.RWMutex

	// Вопросы в порядке показа (уже перемешаны при создании)
	questions []entity.Question

	// Выбор пользователя по каждому вопросу; пустая строка означает
	// отсутствие ответа. Индексы совпадают с questions.
	selections []string

	index       int
	score       int
	secondsLeft int
	state       string
	createdAt   time.Time
	finishedAt  time.Time

	listeners map[chan Event]struct{}
}

// NewSession создает сессию для пользователя с уже перемешанным набором вопросов
func NewSession(username, email, language, category, difficulty string, questions []entity.Question) *Session {
	return &Session{
		ID:         uuid.New(),
		Username:   username,
		Email:      email,
		Language:   language,
		Category:   category,
		Difficulty: difficulty,
		questions:  questions,
		selections: make([]string, len(questions)),
		state:      StateRunning,
		createdAt:  time.Now(),
		listeners:  make(map[chan Event]struct{}),
	}
}

// Subscribe подписывает получателя на события сессии. Канал буферизован,
// отставший получатель теряет события, но не блокирует исполнителя.
func (s *Session) Subscribe() chan Event {
	ch := make(chan Event, 16)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateFinished {
		// Подписка на завершенную сессию сразу закрывается
		close(ch)
		return ch
	}
	s.listeners[ch] = struct{}{}
	return ch
}

// Unsubscribe отписывает получателя
func (s *Session) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listeners[ch]; ok {
		delete(s.listeners, ch)
		close(ch)
	}
}

// publish рассылает событие всем подписчикам без блокировки
func (s *Session) publish(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubmitAnswer записывает выбор пользователя для вопроса questionIndex.
// Пока вопрос активен, повторная отправка перезаписывает предыдущий
// выбор. Ответы на уже закрытые или еще не показанные вопросы отклоняются.
func (s *Session) SubmitAnswer(questionIndex int, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return fmt.Errorf("%w: session is finished", apperrors.ErrValidation)
	}
	if questionIndex != s.index {
		return fmt.Errorf("%w: question %d is not active", apperrors.ErrValidation, questionIndex)
	}
	if questionIndex < 0 || questionIndex >= len(s.questions) {
		return fmt.Errorf("%w: question index out of range", apperrors.ErrValidation)
	}

	s.selections[questionIndex] = option
	return nil
}

// setSecondsLeft обновляет остаток отсчета по активному вопросу
func (s *Session) setSecondsLeft(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secondsLeft = seconds
}

// closeQuestion атомарно закрывает вопрос: под одной блокировкой
// фиксирует выбор, сверяет его с правильным ответом (точное сравнение,
// с учетом регистра и пробелов) и переводит сессию к следующему
// вопросу. После закрытия SubmitAnswer отклоняет поздние ответы
// проверкой индекса, окна между подсчетом и сдвигом нет.
func (s *Session) closeQuestion(questionIndex int) (correct bool, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if questionIndex >= 0 && questionIndex < len(s.questions) {
		correct = s.questions[questionIndex].IsCorrectAnswer(s.selections[questionIndex])
		if correct {
			s.score++
		}
	}
	s.index++
	s.secondsLeft = 0
	return correct, s.score
}

// finish помечает сессию завершенной и закрывает каналы подписчиков
func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateFinished {
		return
	}
	s.state = StateFinished
	s.finishedAt = time.Now()
	for ch := range s.listeners {
		close(ch)
		delete(s.listeners, ch)
	}
}

// Score возвращает текущий счет
func (s *Session) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

// Total возвращает количество вопросов в сессии
func (s *Session) Total() int {
	return len(s.questions)
}

// State возвращает состояние сессии
func (s *Session) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ExpiredAt сообщает, завершена ли сессия раньше момента deadline
func (s *Session) ExpiredAt(deadline time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateFinished && s.finishedAt.Before(deadline)
}

// AnswerRecord описывает пару вопрос-выбор для экспорта
type AnswerRecord struct {
	Question string
	Selected string
}

// AnswerRecords возвращает по записи на каждый вопрос сессии в порядке
// показа. Вопросы без ответа получают пустой выбор.
func (s *Session) AnswerRecords() []AnswerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]AnswerRecord, len(s.questions))
	for i, q := range s.questions {
		records[i] = AnswerRecord{Question: q.Text, Selected: s.selections[i]}
	}
	return records
}

// Snapshot описывает состояние сессии для клиента. Правильные ответы
// в снимок не попадают.
type Snapshot struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	Category        string   `json:"category"`
	Difficulty      string   `json:"difficulty"`
	State           string   `json:"state"`
	Score           int      `json:"score"`
	Total           int      `json:"total"`
	Progress        float64  `json:"progress"`
	QuestionIndex   int      `json:"question_index"`
	QuestionText    string   `json:"question_text,omitempty"`
	QuestionOptions []string `json:"question_options,omitempty"`
	SecondsLeft     int      `json:"seconds_left"`
}

// Snapshot возвращает снимок текущего состояния сессии
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:            s.ID.String(),
		Username:      s.Username,
		Category:      s.Category,
		Difficulty:    s.Difficulty,
		State:         s.state,
		Score:         s.score,
		Total:         len(s.questions),
		QuestionIndex: s.index,
	}
	switch {
	case s.state == StateFinished:
		snap.Progress = 1
	case len(s.questions) > 0:
		snap.Progress = float64(s.index) / float64(len(s.questions))
	}
	if s.state == StateRunning && s.index < len(s.questions) {
		q := s.questions[s.index]
		snap.QuestionText = q.Text
		snap.QuestionOptions = append([]string(nil), q.Options...)
		snap.SecondsLeft = s.secondsLeft
	}
	return snap
}
