package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// Категории вопросов
const (
	CategoryGeneral = "General"
	CategoryScience = "Science"
	CategoryHistory = "History"
	CategoryMath    = "Math"
)

// Уровни сложности
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Categories перечисляет допустимые категории в порядке отображения
var Categories = []string{CategoryGeneral, CategoryScience, CategoryHistory, CategoryMath}

// Difficulties перечисляет допустимые уровни сложности
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ValidCategory проверяет значение категории
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidDifficulty проверяет значение сложности
func ValidDifficulty(difficulty string) bool {
	for _, d := range Difficulties {
		if d == difficulty {
			return true
		}
	}
	return false
}

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос банка викторины.
// Answer хранит правильный вариант как строку, проверка ответа
// выполняется точным сравнением строк с учетом регистра.
type Question struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Text        string      `gorm:"size:500;not null" json:"text"`
	Options     StringArray `gorm:"type:jsonb;not null" json:"options"`
	Answer      string      `gorm:"size:255;not null" json:"-"` // Скрыто от клиента
	Explanation string      `gorm:"size:1000;not null;default:''" json:"explanation"`
	Category    string      `gorm:"size:20;not null;index:idx_questions_filter" json:"category"`
	Difficulty  string      `gorm:"size:10;not null;index:idx_questions_filter" json:"difficulty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Validate проверяет вопрос перед записью в банк. Некорректный вопрос
// отклоняется на входе и не может попасть в сессию.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty question text", apperrors.ErrMalformedQuestion)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: at least 2 options required, got %d", apperrors.ErrMalformedQuestion, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option #%d is empty", apperrors.ErrMalformedQuestion, i+1)
		}
	}
	if !q.HasOption(q.Answer) {
		return fmt.Errorf("%w: correct answer is not among options", apperrors.ErrMalformedQuestion)
	}
	if !ValidCategory(q.Category) {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, q.Category)
	}
	if !ValidDifficulty(q.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", apperrors.ErrValidation, q.Difficulty)
	}
	return nil
}

// HasOption проверяет, входит ли строка в список вариантов
func (q *Question) HasOption(option string) bool {
	for _, opt := range q.Options {
		if opt == option {
			return true
		}
	}
	return false
}

// IsCorrectAnswer проверяет выбранный вариант.
// Точное сравнение строк, без обрезки пробелов и нормализации регистра.
func (q *Question) IsCorrectAnswer(selected string) bool {
	return selected == q.Answer
}
