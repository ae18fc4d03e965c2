package quizrunner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

func geographyQuestion() entity.Question {
	return entity.Question{
		ID:         2,
		Text:       "Столица Франции?",
		Options:    entity.StringArray{"Париж", "Лион"},
		Answer:     "Париж",
		Category:   entity.CategoryScience,
		Difficulty: entity.DifficultyEasy,
	}
}

func TestSession_SnapshotShowsSecondsLeftAndProgress(t *testing.T) {
	// Arrange
	session := NewSession("alice", "", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion(), geographyQuestion()})
	session.setSecondsLeft(7)

	// Act
	snap := session.Snapshot()

	// Assert: первый вопрос открыт, остаток отсчета виден клиенту
	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, 7, snap.SecondsLeft)
	assert.InDelta(t, 0.0, snap.Progress, 0.001)
	assert.Equal(t, 0, snap.QuestionIndex)

	// Закрытие первого вопроса сдвигает прогресс
	session.closeQuestion(0)
	snap = session.Snapshot()
	assert.InDelta(t, 0.5, snap.Progress, 0.001)
	assert.Equal(t, 0, snap.SecondsLeft)
	assert.Equal(t, 1, snap.QuestionIndex)

	// Завершенная сессия: прогресс полный, отсчета нет
	session.closeQuestion(1)
	session.finish()
	snap = session.Snapshot()
	assert.Equal(t, StateFinished, snap.State)
	assert.InDelta(t, 1.0, snap.Progress, 0.001)
	assert.Equal(t, 0, snap.SecondsLeft)
}

func TestSession_CloseQuestionRejectsLateAnswers(t *testing.T) {
	// Arrange
	session := NewSession("bob", "", "", entity.CategoryScience, entity.DifficultyEasy,
		[]entity.Question{scienceQuestion()})
	require.NoError(t, session.SubmitAnswer(0, "4"))

	// Act: вопрос закрывается одной операцией
	correct, score := session.closeQuestion(0)

	// Assert: выбор до закрытия засчитан, после него отклоняется
	assert.True(t, correct)
	assert.Equal(t, 1, score)

	err := session.SubmitAnswer(0, "3")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, 1, session.Score())

	records := session.AnswerRecords()
	require.Len(t, records, 1)
	assert.Equal(t, "4", records[0].Selected)
}
