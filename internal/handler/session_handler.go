package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// SessionHandler обрабатывает запросы к сессиям викторины
type SessionHandler struct {
	sessionService *service.SessionService
	resultService  *service.ResultService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService, resultService *service.ResultService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		resultService:  resultService,
	}
}

// CreateSessionRequest представляет запрос на создание сессии
type CreateSessionRequest struct {
	Category   string `json:"category" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
}

// SubmitAnswerRequest представляет ответ на активный вопрос
type SubmitAnswerRequest struct {
	QuestionIndex int    `json:"question_index" binding:"min=0"`
	Option        string `json:"option" binding:"required"`
}

// CreateSession запускает новую сессию викторины
// POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint(middleware.ContextUserID)
	session, err := h.sessionService.CreateSession(userID, req.Category, req.Difficulty)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session.Snapshot())
}

// GetSession возвращает снимок сессии без правильных ответов
// GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	username := c.GetString(middleware.ContextUsername)
	snapshot, err := h.sessionService.GetSnapshot(c.Param("id"), username)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SubmitAnswer фиксирует выбор пользователя по активному вопросу
// POST /api/sessions/:id/answer
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := c.GetString(middleware.ContextUsername)
	if err := h.sessionService.SubmitAnswer(c.Param("id"), username, req.QuestionIndex, req.Option); err != nil {
		h.handleSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

// ExportAnswers выгружает ответы завершенной сессии в CSV или Excel
// GET /api/sessions/:id/export?format=csv|xlsx
func (h *SessionHandler) ExportAnswers(c *gin.Context) {
	username := c.GetString(middleware.ContextUsername)
	records, err := h.sessionService.GetAnswerRecords(c.Param("id"), username)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz_answers_%s", time.Now().Format("2006-01-02"))
	format := c.DefaultQuery("format", "csv")

	switch format {
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
		if err := h.resultService.ExportXLSX(c.Writer, records); err != nil {
			log.Printf("[SessionHandler] Ошибка экспорта в Excel: %v", err)
		}
	default:
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
		if err := h.resultService.ExportCSV(c.Writer, records); err != nil {
			log.Printf("[SessionHandler] Ошибка экспорта в CSV: %v", err)
		}
	}
}

// handleSessionError преобразует ошибки сервиса в HTTP-ответы
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Session belongs to another user"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("[SessionHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
