package entity

import "time"

// Feedback представляет отзыв пользователя. Записи только добавляются,
// путей редактирования или удаления нет.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;index" json:"username"`
	Text      string    `gorm:"size:2000;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Feedback) TableName() string {
	return "feedback"
}
