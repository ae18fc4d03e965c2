package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// ResultHandler обрабатывает запросы к отзывам и таблице лидеров
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// FeedbackRequest представляет отзыв пользователя
type FeedbackRequest struct {
	Text string `json:"text" binding:"required"`
}

// SubmitFeedback сохраняет отзыв пользователя
// POST /api/feedback
func (h *ResultHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := c.GetString(middleware.ContextUsername)
	if err := h.resultService.RecordFeedback(username, req.Text); err != nil {
		h.handleResultError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"accepted": true})
}

// ListFeedback возвращает последние отзывы текущего пользователя
// GET /api/feedback?limit=20
func (h *ResultHandler) ListFeedback(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	username := c.GetString(middleware.ContextUsername)

	feedback, err := h.resultService.GetUserFeedback(username, limit)
	if err != nil {
		h.handleResultError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// GetLeaderboard возвращает лучшие результаты
// GET /api/leaderboard
func (h *ResultHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.resultService.GetLeaderboard()
	if err != nil {
		h.handleResultError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// handleResultError преобразует ошибки сервиса в HTTP-ответы
func (h *ResultHandler) handleResultError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("[ResultHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
