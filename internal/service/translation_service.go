package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/yourusername/quiz-api/internal/domain/repository"
)

// TranslationService переводит текст вопроса на язык пользователя
type TranslationService interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// NoopTranslationService возвращает текст без изменений.
// Используется, когда перевод выключен в конфигурации.
type NoopTranslationService struct{}

func (s *NoopTranslationService) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return text, nil
}

// CachingTranslationService кеширует переводы в Redis. Текст вопросов
// стабилен, повторные сессии не должны ходить к провайдеру заново.
type CachingTranslationService struct {
	inner TranslationService
	cache repository.CacheRepository
	ttl   time.Duration
}

// NewCachingTranslationService оборачивает сервис перевода кешем
func NewCachingTranslationService(inner TranslationService, cache repository.CacheRepository) *CachingTranslationService {
	return &CachingTranslationService{
		inner: inner,
		cache: cache,
		ttl:   24 * time.Hour,
	}
}

func translationCacheKey(text, targetLanguage string) string {
	sum := sha256.Sum256([]byte(text))
	return "translation:" + targetLanguage + ":" + hex.EncodeToString(sum[:16])
}

func (s *CachingTranslationService) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if text == "" || targetLanguage == "" {
		return text, nil
	}

	key := translationCacheKey(text, targetLanguage)
	if cached, err := s.cache.Get(key); err == nil {
		return cached, nil
	}

	translated, err := s.inner.Translate(ctx, text, targetLanguage)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(key, translated, s.ttl); err != nil {
		log.Printf("[TranslationService] Не удалось закешировать перевод: %v", err)
	}
	return translated, nil
}

// LibreTranslationService ходит в LibreTranslate-совместимый REST API
type LibreTranslationService struct {
	providerURL string
	apiKey      string
	httpClient  *http.Client
}

// NewLibreTranslationService создает клиента перевода
func NewLibreTranslationService(providerURL, apiKey string) (*LibreTranslationService, error) {
	if providerURL == "" {
		return nil, fmt.Errorf("translation provider url is required")
	}
	return &LibreTranslationService{
		providerURL: providerURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type translateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate переводит text на targetLanguage. Пустой целевой язык
// означает отсутствие перевода.
func (s *LibreTranslationService) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if text == "" || targetLanguage == "" {
		return text, nil
	}

	payload, err := json.Marshal(translateRequest{
		Query:  text,
		Source: "auto",
		Target: targetLanguage,
		Format: "text",
		APIKey: s.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.providerURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if result.TranslatedText == "" {
		log.Printf("[TranslationService] Провайдер вернул пустой перевод, оставляю оригинал")
		return text, nil
	}
	return result.TranslatedText, nil
}
