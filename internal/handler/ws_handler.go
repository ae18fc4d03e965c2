package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
	"github.com/yourusername/quiz-api/internal/websocket"
	"github.com/yourusername/quiz-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket-подключения к сессиям викторины
type WSHandler struct {
	jwtService     *auth.JWTService
	sessionService *service.SessionService
	feed           *websocket.Feed
}

// NewWSHandler создает новый WebSocket-обработчик
func NewWSHandler(jwtService *auth.JWTService, sessionService *service.SessionService, feed *websocket.Feed) *WSHandler {
	return &WSHandler{
		jwtService:     jwtService,
		sessionService: sessionService,
		feed:           feed,
	}
}

// HandleSessionFeed подключает клиента к потоку событий его сессии
// GET /ws/sessions/:id?token=...
//
// Браузерный WebSocket API не позволяет задать заголовок Authorization,
// поэтому токен принимается и из query-параметра.
func (h *WSHandler) HandleSessionFeed(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
		return
	}

	claims, err := h.jwtService.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	session, err := h.sessionService.GetSession(c.Param("id"), claims.Username)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Session belongs to another user"})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	h.feed.Serve(c.Writer, c.Request, session)
}
