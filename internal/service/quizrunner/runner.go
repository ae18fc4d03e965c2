package quizrunner

import (
	"context"
	"log"
	"math/rand"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// Runner исполняет сессии викторины: показывает вопросы, ведет
// обратный отсчет, подсчитывает очки и фиксирует итог.
type Runner struct {
	config *Config
	deps   *Dependencies
}

// NewRunner создает исполнителя сессий
func NewRunner(config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Runner{config: config, deps: deps}
}

// Run проигрывает сессию от первого вопроса до финализации. Вызывается
// в отдельной горутине; ctx останавливает сессию без записи итога.
func (r *Runner) Run(ctx context.Context, session *Session) {
	total := session.Total()
	log.Printf("[Runner] Сессия %s: старт, %d вопросов (%s/%s)",
		session.ID, total, session.Category, session.Difficulty)

	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			log.Printf("[Runner] Сессия %s: остановлена на вопросе %d", session.ID, i+1)
			return
		}
		r.runQuestion(ctx, session, i)
	}

	r.finalize(ctx, session)
}

// runQuestion показывает один вопрос и ждет истечения отсчета
func (r *Runner) runQuestion(ctx context.Context, session *Session, index int) {
	question := session.shuffleOptions(index)

	// Переводим текст для показа; оригинал в сессии не трогаем.
	// Пользователь без выбранного языка получает язык по умолчанию.
	language := session.Language
	if language == "" {
		language = r.config.DefaultLanguage
	}
	displayText := question.Text
	if r.deps.Translator != nil && language != "" {
		translated, err := r.deps.Translator.Translate(ctx, question.Text, language)
		if err != nil {
			log.Printf("[Runner] Сессия %s: перевод вопроса %d не удался, показываю оригинал: %v",
				session.ID, index+1, err)
		} else {
			displayText = translated
		}
	}

	session.setSecondsLeft(r.config.QuestionSeconds)
	session.publish(Event{
		Type: EventQuestion,
		Data: map[string]interface{}{
			"index":   index,
			"total":   session.Total(),
			"text":    displayText,
			"options": question.Options,
			"seconds": r.config.QuestionSeconds,
		},
	})

	// Отсчет не прерывается досрочным ответом: до нуля вопрос
	// остается открытым и выбор можно менять. Остаток отсчета
	// дублируем в сессии, чтобы он был виден в снимке.
	countdown := NewCountdown(r.config.QuestionSeconds, r.config.TickInterval)
	for secondsLeft := range countdown.Start(ctx) {
		session.setSecondsLeft(secondsLeft)
		session.publish(Event{
			Type: EventTick,
			Data: map[string]interface{}{
				"index":        index,
				"seconds_left": secondsLeft,
			},
		})
	}

	if ctx.Err() != nil {
		return
	}

	r.scoreQuestion(session, index)
}

// scoreQuestion закрывает вопрос и начисляет очко за точное совпадение
func (r *Runner) scoreQuestion(session *Session, index int) {
	correct, score := session.closeQuestion(index)

	session.publish(Event{
		Type: EventScored,
		Data: map[string]interface{}{
			"index":   index,
			"correct": correct,
			"score":   score,
		},
	})
}

// finalize фиксирует итог сессии: запись в таблицу лидеров и письмо
// пользователю. Обе операции не фатальны, их отказ не отменяет итог.
func (r *Runner) finalize(ctx context.Context, session *Session) {
	score := session.Score()
	total := session.Total()

	percent := 0.0
	if total > 0 {
		percent = float64(score) / float64(total) * 100
	}

	if r.deps.Results != nil {
		if err := r.deps.Results.RecordSessionResult(session.Username, score, total); err != nil {
			log.Printf("[Runner] Сессия %s: итог не записан в таблицу лидеров: %v", session.ID, err)
		}
	}

	if r.deps.Notifier != nil && session.Email != "" {
		if err := r.deps.Notifier.SendResults(ctx, session.Email, session.Username, score, total); err != nil {
			log.Printf("[Runner] Сессия %s: письмо с результатами не отправлено: %v", session.ID, err)
		}
	}

	session.publish(Event{
		Type: EventFinished,
		Data: map[string]interface{}{
			"score":   score,
			"total":   total,
			"percent": percent,
		},
	})
	session.finish()

	log.Printf("[Runner] Сессия %s: завершена со счетом %d/%d", session.ID, score, total)
}

// questionView содержит данные вопроса для показа в рамках одного раунда
type questionView struct {
	Text    string
	Options []string
	Answer  string
}

// shuffleOptions перемешивает варианты вопроса и возвращает его
// содержимое с итоговым порядком вариантов
func (s *Session) shuffleOptions(index int) questionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := s.questions[index].Options
	rand.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})

	return questionView{
		Text:    s.questions[index].Text,
		Options: append([]string(nil), opts...),
		Answer:  s.questions[index].Answer,
	}
}

// ShuffleQuestions перемешивает порядок вопросов на месте. Используется
// при создании сессии: порядок показа свой у каждого прохождения.
func ShuffleQuestions(questions []entity.Question) {
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}
