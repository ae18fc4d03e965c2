package entity

import "time"

// LeaderboardEntry представляет строку таблицы лидеров.
// Запись создается при финализации сессии. Чтение отдает top-N по
// убыванию счета, равные счета упорядочены по порядку вставки (id ASC).
type LeaderboardEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"size:50;not null" json:"username"`
	Score     int       `gorm:"not null;index:idx_leaderboard_score" json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (LeaderboardEntry) TableName() string {
	return "leaderboard"
}
