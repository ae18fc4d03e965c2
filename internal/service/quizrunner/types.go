package quizrunner

import (
	"context"
	"time"
)

// Типы событий, публикуемых сессией
const (
	EventQuestion = "session:question"
	EventTick     = "session:tick"
	EventScored   = "session:scored"
	EventFinished = "session:finished"
)

// Event доставляется подписчикам сессии
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Config содержит настройки исполнителя сессий
type Config struct {
	// Продолжительность показа одного вопроса в секундах
	QuestionSeconds int

	// Интервал между тиками обратного отсчета
	TickInterval time.Duration

	// Время жизни завершенной сессии до вытеснения из реестра
	SessionTTL time.Duration

	// Язык перевода для пользователей без выбранного языка;
	// пустое значение отключает перевод для них
	DefaultLanguage string
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		QuestionSeconds: 10,
		TickInterval:    1 * time.Second,
		SessionTTL:      30 * time.Minute,
	}
}

// Translator переводит текст вопроса на язык пользователя.
// Ошибка перевода не фатальна: исполнитель показывает оригинал.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// ResultRecorder фиксирует итог завершенной сессии
type ResultRecorder interface {
	RecordSessionResult(username string, score, total int) error
}

// Notifier отправляет пользователю письмо с результатами
type Notifier interface {
	SendResults(ctx context.Context, email, username string, score, total int) error
}

// Dependencies содержит внешние зависимости исполнителя сессий
type Dependencies struct {
	Translator Translator
	Results    ResultRecorder
	Notifier   Notifier
}
