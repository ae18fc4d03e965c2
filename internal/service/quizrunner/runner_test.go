package quizrunner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// fakeTranslator возвращает заранее заданный перевод или ошибку
type fakeTranslator struct {
	result string
	err    error
	calls  int
	target string
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	f.calls++
	f.target = targetLanguage
	if f.err != nil {
		return "", f.err
	}
	if f.result == "" {
		return text, nil
	}
	return f.result, nil
}

// fakeRecorder запоминает зафиксированный итог
type fakeRecorder struct {
	mu       sync.Mutex
	username string
	score    int
	total    int
	calls    int
	err      error
}

func (f *fakeRecorder) RecordSessionResult(username string, score, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.username = username
	f.score = score
	f.total = total
	return f.err
}

// fakeNotifier запоминает отправленное письмо
type fakeNotifier struct {
	mu    sync.Mutex
	email string
	score int
	total int
	calls int
	err   error
}

func (f *fakeNotifier) SendResults(ctx context.Context, email, username string, score, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.email = email
	f.score = score
	f.total = total
	return f.err
}

func fastConfig() *Config {
	return &Config{
		QuestionSeconds: 3,
		TickInterval:    5 * time.Millisecond,
		SessionTTL:      time.Minute,
	}
}

func scienceQuestion() entity.Question {
	return entity.Question{
		ID:         1,
		Text:       "2 + 2 = ?",
		Options:    entity.StringArray{"3", "4", "5"},
		Answer:     "4",
		Category:   entity.CategoryScience,
		Difficulty: entity.DifficultyEasy,
	}
}

// collectEvents читает события из подписки до закрытия канала.
// Подписку нужно оформить до запуска исполнителя, иначе первый
// вопрос может быть опубликован без слушателей.
func collectEvents(t *testing.T, ch chan Event, onQuestion func(index int)) []Event {
	t.Helper()

	var events []Event
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, open := <-ch:
			if !open {
				return events
			}
			events = append(events, ev)
			if ev.Type == EventQuestion && onQuestion != nil {
				onQuestion(ev.Data.(map[string]interface{})["index"].(int))
			}
		case <-deadline:
			t.Fatal("session did not finish in time")
		}
	}
}

func eventsOfType(events []Event, eventType string) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func TestRunner_CorrectAnswerScoresPoint(t *testing.T) {
	// Arrange
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}
	runner := NewRunner(fastConfig(), &Dependencies{Results: recorder, Notifier: notifier})
	session := NewSession("alice", "alice@example.com", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act: отвечаем, пока вопрос открыт
	events := collectEvents(t, ch, func(index int) {
		require.NoError(t, session.SubmitAnswer(index, "4"))
	})

	// Assert
	assert.Equal(t, 1, session.Score())
	assert.Equal(t, StateFinished, session.State())

	finished := eventsOfType(events, EventFinished)
	require.Len(t, finished, 1)
	data := finished[0].Data.(map[string]interface{})
	assert.Equal(t, 1, data["score"])
	assert.Equal(t, 1, data["total"])
	assert.InDelta(t, 100.0, data["percent"], 0.01)

	// Каждый тик наблюдаем отдельным событием
	ticks := eventsOfType(events, EventTick)
	assert.Len(t, ticks, 3)

	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, "alice", recorder.username)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "alice@example.com", notifier.email)
}

func TestRunner_NoAnswerIsIncorrect(t *testing.T) {
	// Arrange
	recorder := &fakeRecorder{}
	runner := NewRunner(fastConfig(), &Dependencies{Results: recorder})
	session := NewSession("bob", "", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act: молчим весь отсчет
	collectEvents(t, ch, nil)

	// Assert
	assert.Equal(t, 0, session.Score())
	assert.Equal(t, 0, recorder.score)
	assert.Equal(t, 1, recorder.total)
}

func TestRunner_LastSubmissionWins(t *testing.T) {
	// Arrange
	runner := NewRunner(fastConfig(), &Dependencies{})
	session := NewSession("carol", "", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act: сначала неверный выбор, затем перезапись верным
	collectEvents(t, ch, func(index int) {
		require.NoError(t, session.SubmitAnswer(index, "3"))
		require.NoError(t, session.SubmitAnswer(index, "4"))
	})

	// Assert
	assert.Equal(t, 1, session.Score())
}

func TestRunner_AnswerAfterFinishRejected(t *testing.T) {
	// Arrange
	runner := NewRunner(fastConfig(), &Dependencies{})
	session := NewSession("dave", "", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)
	collectEvents(t, ch, nil)

	// Act
	err := session.SubmitAnswer(0, "4")

	// Assert: закрытый вопрос не принимает ответов
	assert.Error(t, err)
	assert.Equal(t, 0, session.Score())
}

func TestRunner_EmptyQuestionSetFinishesImmediately(t *testing.T) {
	// Arrange
	recorder := &fakeRecorder{}
	runner := NewRunner(fastConfig(), &Dependencies{Results: recorder})
	session := NewSession("erin", "", "", entity.CategoryHistory, entity.DifficultyHard, nil)

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act
	events := collectEvents(t, ch, nil)

	// Assert: ноль вопросов не приводит к делению на ноль
	finished := eventsOfType(events, EventFinished)
	require.Len(t, finished, 1)
	data := finished[0].Data.(map[string]interface{})
	assert.Equal(t, 0, data["score"])
	assert.Equal(t, 0, data["total"])
	assert.InDelta(t, 0.0, data["percent"], 0.01)
	assert.Equal(t, 0, recorder.total)
	assert.Equal(t, 1, recorder.calls)
	assert.InDelta(t, 1.0, session.Snapshot().Progress, 0.001)
}

func TestRunner_RecorderAndNotifierFailuresAreNotFatal(t *testing.T) {
	// Arrange
	recorder := &fakeRecorder{err: assert.AnError}
	notifier := &fakeNotifier{err: assert.AnError}
	runner := NewRunner(fastConfig(), &Dependencies{Results: recorder, Notifier: notifier})
	session := NewSession("frank", "frank@example.com", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act
	events := collectEvents(t, ch, nil)

	// Assert: отказ побочных эффектов не мешает завершению
	assert.Len(t, eventsOfType(events, EventFinished), 1)
	assert.Equal(t, StateFinished, session.State())
}

func TestRunner_TranslationFailureFallsBackToSource(t *testing.T) {
	// Arrange
	translator := &fakeTranslator{err: assert.AnError}
	runner := NewRunner(fastConfig(), &Dependencies{Translator: translator})
	session := NewSession("grace", "", "de", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act
	events := collectEvents(t, ch, nil)

	// Assert: показан исходный текст
	questions := eventsOfType(events, EventQuestion)
	require.Len(t, questions, 1)
	data := questions[0].Data.(map[string]interface{})
	assert.Equal(t, "2 + 2 = ?", data["text"])
	assert.Equal(t, 1, translator.calls)
}

func TestRunner_TranslatedTextShownButScoringUsesSource(t *testing.T) {
	// Arrange
	translator := &fakeTranslator{result: "2 + 2 = ? (übersetzt)"}
	runner := NewRunner(fastConfig(), &Dependencies{Translator: translator})
	session := NewSession("heidi", "", "de", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act
	events := collectEvents(t, ch, func(index int) {
		require.NoError(t, session.SubmitAnswer(index, "4"))
	})

	// Assert
	questions := eventsOfType(events, EventQuestion)
	require.Len(t, questions, 1)
	data := questions[0].Data.(map[string]interface{})
	assert.Equal(t, "2 + 2 = ? (übersetzt)", data["text"])
	assert.Equal(t, 1, session.Score())

	// Экспортные записи хранят оригинальный текст
	records := session.AnswerRecords()
	require.Len(t, records, 1)
	assert.Equal(t, "2 + 2 = ?", records[0].Question)
	assert.Equal(t, "4", records[0].Selected)
}

func TestRunner_DefaultLanguageUsedWhenUserHasNone(t *testing.T) {
	// Arrange: у пользователя язык не выбран, в конфигурации задан "de"
	translator := &fakeTranslator{result: "2 + 2 = ? (übersetzt)"}
	config := fastConfig()
	config.DefaultLanguage = "de"
	runner := NewRunner(config, &Dependencies{Translator: translator})
	session := NewSession("ken", "", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act
	events := collectEvents(t, ch, nil)

	// Assert: перевод запрошен на язык по умолчанию
	assert.Equal(t, 1, translator.calls)
	assert.Equal(t, "de", translator.target)
	questions := eventsOfType(events, EventQuestion)
	require.Len(t, questions, 1)
	assert.Equal(t, "2 + 2 = ? (übersetzt)", questions[0].Data.(map[string]interface{})["text"])
}

func TestRunner_UserLanguageOverridesDefault(t *testing.T) {
	// Arrange
	translator := &fakeTranslator{}
	config := fastConfig()
	config.DefaultLanguage = "de"
	runner := NewRunner(config, &Dependencies{Translator: translator})
	session := NewSession("lena", "", "fr", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act
	collectEvents(t, ch, nil)

	// Assert
	assert.Equal(t, "fr", translator.target)
}

func TestRunner_MultipleQuestionsPerQuestionRecords(t *testing.T) {
	// Arrange
	runner := NewRunner(fastConfig(), &Dependencies{})
	session := NewSession("ivan", "", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion(), geographyQuestion()})

	ch := session.Subscribe()
	go runner.Run(context.Background(), session)

	// Act: верный ответ на первый вопрос, неверный на второй
	collectEvents(t, ch, func(index int) {
		switch index {
		case 0:
			require.NoError(t, session.SubmitAnswer(index, "4"))
		case 1:
			require.NoError(t, session.SubmitAnswer(index, "Лион"))
		}
	})

	// Assert: по записи на каждый вопрос, выбор не затирается последним
	assert.Equal(t, 1, session.Score())
	records := session.AnswerRecords()
	require.Len(t, records, 2)
	assert.Equal(t, "4", records[0].Selected)
	assert.Equal(t, "Лион", records[1].Selected)
}

func TestShuffleQuestions_PreservesContent(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		{ID: 1, Text: "q1"}, {ID: 2, Text: "q2"}, {ID: 3, Text: "q3"}, {ID: 4, Text: "q4"},
	}

	// Act
	ShuffleQuestions(questions)

	// Assert: состав не меняется
	seen := make(map[uint]bool)
	for _, q := range questions {
		seen[q.ID] = true
	}
	assert.Len(t, seen, 4)
}

func TestSession_ShuffleOptionsPreservesContent(t *testing.T) {
	// Arrange
	session := NewSession("judy", "", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})

	// Act
	view := session.shuffleOptions(0)

	// Assert
	assert.ElementsMatch(t, []string{"3", "4", "5"}, view.Options)
	assert.Equal(t, "4", view.Answer)
}

func TestRegistry_PutGetEvict(t *testing.T) {
	// Arrange
	registry := NewRegistry(time.Minute)
	session := NewSession("alice", "", "", entity.CategoryScience, entity.DifficultyEasy, nil)
	registry.Put(session)

	// Act
	got, err := registry.Get(session.ID)

	// Assert
	require.NoError(t, err)
	assert.Same(t, session, got)

	// Завершенная давно сессия вытесняется
	session.finish()
	session.mu.Lock()
	session.finishedAt = time.Now().Add(-2 * time.Minute)
	session.mu.Unlock()
	registry.evictExpired()
	_, err = registry.Get(session.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, registry.Len())
}
