package quizrunner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// Registry хранит активные и недавно завершенные сессии в памяти.
// Завершенные сессии живут еще ttl, чтобы клиент успел забрать итог
// и выгрузить экспорт, после чего вытесняются фоновой уборкой.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
}

// NewRegistry создает реестр сессий с заданным временем жизни
// завершенных сессий
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultConfig().SessionTTL
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
	}
}

// Put регистрирует сессию
func (r *Registry) Put(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

// Get возвращает сессию по идентификатору
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, id)
	}
	return session, nil
}

// Len возвращает количество сессий в реестре
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartEviction запускает фоновую уборку завершенных сессий.
// Останавливается по ctx.
func (r *Registry) StartEviction(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.evictExpired()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// evictExpired удаляет сессии, завершенные раньше чем ttl назад
func (r *Registry) evictExpired() {
	deadline := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.ExpiredAt(deadline) {
			delete(r.sessions, id)
			log.Printf("[Registry] Сессия %s вытеснена по TTL", id)
		}
	}
}
