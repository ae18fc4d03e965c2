package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/quiz-api/internal/service/quizrunner"
)

const (
	// Время на запись одного сообщения
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 30 * time.Second

	// Период отправки ping, должен быть меньше pongWait
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Кросс-доменные ограничения обеспечивает CORS на HTTP-слое
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed транслирует события сессии викторины по WebSocket: вопросы,
// каждый тик обратного отсчета, начисление очков и финал.
type Feed struct{}

// NewFeed создает транслятор событий сессий
func NewFeed() *Feed {
	return &Feed{}
}

// Serve апгрейдит соединение и пишет события сессии до ее завершения
// или разрыва соединения
func (f *Feed) Serve(w http.ResponseWriter, r *http.Request, session *quizrunner.Session) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Feed] Ошибка апгрейда соединения: %v", err)
		return
	}

	events := session.Subscribe()
	done := make(chan struct{})

	// Читатель нужен только для обработки pong и закрытия
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go f.writePump(conn, session, events, done)
}

// writePump пишет события и ping в соединение
func (f *Feed) writePump(conn *websocket.Conn, session *quizrunner.Session, events chan quizrunner.Event, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		session.Unsubscribe(events)
		conn.Close()
	}()

	for {
		select {
		case ev, open := <-events:
			if !open {
				// Сессия завершена, закрываем соединение штатно
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session finished"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("[Feed] Ошибка записи события сессии %s: %v", session.ID, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
