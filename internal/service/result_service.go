package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service/quizrunner"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 30 * time.Second
)

// ResultService отвечает за отзывы, таблицу лидеров и экспорт ответов
type ResultService struct {
	feedbackRepo    repository.FeedbackRepository
	leaderboardRepo repository.LeaderboardRepository
	cacheRepo       repository.CacheRepository
	leaderboardSize int
}

// NewResultService создает сервис результатов. cacheRepo может быть nil,
// тогда таблица лидеров читается напрямую из хранилища.
func NewResultService(
	feedbackRepo repository.FeedbackRepository,
	leaderboardRepo repository.LeaderboardRepository,
	cacheRepo repository.CacheRepository,
	leaderboardSize int,
) *ResultService {
	if leaderboardSize <= 0 {
		leaderboardSize = 5
	}
	return &ResultService{
		feedbackRepo:    feedbackRepo,
		leaderboardRepo: leaderboardRepo,
		cacheRepo:       cacheRepo,
		leaderboardSize: leaderboardSize,
	}
}

// RecordFeedback сохраняет отзыв пользователя. Хранилище append-only.
func (s *ResultService) RecordFeedback(username, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: feedback text is required", apperrors.ErrValidation)
	}

	feedback := &entity.Feedback{
		Username: username,
		Text:     text,
	}
	if err := s.feedbackRepo.Create(feedback); err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	return nil
}

// GetUserFeedback возвращает последние отзывы пользователя
func (s *ResultService) GetUserFeedback(username string, limit int) ([]entity.Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	feedback, err := s.feedbackRepo.ListByUsername(username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	return feedback, nil
}

// RecordSessionResult фиксирует итог завершенной сессии в таблице
// лидеров и сбрасывает ее кеш
func (s *ResultService) RecordSessionResult(username string, score, total int) error {
	entry := &entity.LeaderboardEntry{
		Username: username,
		Score:    score,
	}
	if err := s.leaderboardRepo.Create(entry); err != nil {
		return fmt.Errorf("failed to store leaderboard entry: %w", err)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.Delete(leaderboardCacheKey); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ResultService] Не удалось сбросить кеш таблицы лидеров: %v", err)
		}
	}

	log.Printf("[ResultService] Итог %q: %d из %d записан в таблицу лидеров", username, score, total)
	return nil
}

// GetLeaderboard возвращает лучшие записи: по убыванию счета, при
// равенстве раньше вставленная запись выше. Результат кешируется.
func (s *ResultService) GetLeaderboard() ([]entity.LeaderboardEntry, error) {
	if s.cacheRepo != nil {
		var cached []entity.LeaderboardEntry
		if err := s.cacheRepo.GetJSON(leaderboardCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ResultService] Кеш таблицы лидеров недоступен: %v", err)
		}
	}

	entries, err := s.leaderboardRepo.GetTop(s.leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(leaderboardCacheKey, entries, leaderboardCacheTTL); err != nil {
			log.Printf("[ResultService] Не удалось закешировать таблицу лидеров: %v", err)
		}
	}
	return entries, nil
}

// ExportCSV выгружает ответы сессии в CSV: по строке на каждый вопрос
// с зафиксированным выбором пользователя
func (s *ResultService) ExportCSV(w io.Writer, records []quizrunner.AnswerRecord) error {
	// BOM для корректного отображения UTF-8 в Excel
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"question", "selected_answer"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write([]string{sanitizeForExcel(r.Question), sanitizeForExcel(r.Selected)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportXLSX выгружает ответы сессии в Excel
func (s *ResultService) ExportXLSX(w io.Writer, records []quizrunner.AnswerRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Answers"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	if err := sw.SetRow("A1", []interface{}{"question", "selected_answer"}); err != nil {
		return err
	}
	for i, r := range records {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{sanitizeForExcel(r.Question), sanitizeForExcel(r.Selected)}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
