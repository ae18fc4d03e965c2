package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// QuestionHandler обрабатывает запросы к банку вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// CreateQuestionRequest представляет запрос на добавление вопроса
type CreateQuestionRequest struct {
	Text        string   `json:"text" binding:"required"`
	Options     []string `json:"options" binding:"required,min=2"`
	Answer      string   `json:"answer" binding:"required"`
	Explanation string   `json:"explanation"`
	Category    string   `json:"category" binding:"required"`
	Difficulty  string   `json:"difficulty" binding:"required"`
}

// QuestionResponse описывает вопрос без правильного ответа
type QuestionResponse struct {
	ID         uint     `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

// CreateQuestion добавляет вопрос в банк. Только для администраторов.
// POST /api/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := &entity.Question{
		Text:        req.Text,
		Options:     entity.StringArray(req.Options),
		Answer:      req.Answer,
		Explanation: req.Explanation,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
	}

	role := c.GetString(middleware.ContextRole)
	if err := h.questionService.AddQuestion(role, question); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": question.ID})
}

// ListQuestions возвращает вопросы категории и сложности без ответов
// GET /api/questions?category=...&difficulty=...
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	category := c.Query("category")
	difficulty := c.Query("difficulty")

	questions, err := h.questionService.GetQuestions(category, difficulty)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	resp := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, QuestionResponse{
			ID:         q.ID,
			Text:       q.Text,
			Options:    q.Options,
			Category:   q.Category,
			Difficulty: q.Difficulty,
		})
	}
	c.JSON(http.StatusOK, gin.H{"questions": resp})
}

// GetQuestion возвращает вопрос целиком, включая правильный ответ.
// Только для администраторов, используется при редактировании банка.
// GET /api/questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	question, err := h.questionService.GetQuestion(uint(id))
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	// Админу ответ нужен, json-тег его скрывает, отдаем явно
	c.JSON(http.StatusOK, gin.H{"question": question, "answer": question.Answer})
}

// UpdateQuestion обновляет вопрос. Только для администраторов.
// PUT /api/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := &entity.Question{
		ID:          uint(id),
		Text:        req.Text,
		Options:     entity.StringArray(req.Options),
		Answer:      req.Answer,
		Explanation: req.Explanation,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
	}

	role := c.GetString(middleware.ContextRole)
	if err := h.questionService.UpdateQuestion(role, question); err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": question.ID})
}

// DeleteQuestion удаляет вопрос. Только для администраторов.
// DELETE /api/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID"})
		return
	}

	role := c.GetString(middleware.ContextRole)
	if err := h.questionService.DeleteQuestion(role, uint(id)); err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// CountQuestions возвращает количество вопросов по фильтру
// GET /api/questions/count?category=...&difficulty=...
func (h *QuestionHandler) CountQuestions(c *gin.Context) {
	count, err := h.questionService.CountQuestions(c.Query("category"), c.Query("difficulty"))
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// handleQuestionError преобразует ошибки сервиса в HTTP-ответы
func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
	case errors.Is(err, apperrors.ErrMalformedQuestion):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
	default:
		log.Printf("[QuestionHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
