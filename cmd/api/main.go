package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/config"
	"github.com/yourusername/quiz-api/internal/handler"
	"github.com/yourusername/quiz-api/internal/middleware"
	pgRepo "github.com/yourusername/quiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quiz-api/internal/repository/redis"
	"github.com/yourusername/quiz-api/internal/service"
	"github.com/yourusername/quiz-api/internal/service/quizrunner"
	ws "github.com/yourusername/quiz-api/internal/websocket"
	"github.com/yourusername/quiz-api/pkg/auth"
	"github.com/yourusername/quiz-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Корневой контекст приложения, отменяется при остановке
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	feedbackRepo := pgRepo.NewFeedbackRepo(db)
	leaderboardRepo := pgRepo.NewLeaderboardRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Сервис отправки писем
	var emailService service.EmailService
	switch cfg.Email.Provider {
	case "resend":
		emailService, err = service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
	default:
		log.Println("Email provider is noop, result emails will only be logged")
		emailService = &service.NoopEmailService{}
	}

	// Сервис перевода
	var translationService service.TranslationService
	if cfg.Translation.Enabled {
		libreService, err := service.NewLibreTranslationService(cfg.Translation.ProviderURL, cfg.Translation.APIKey)
		if err != nil {
			log.Printf("Failed to initialize translation service: %v", err)
			os.Exit(1)
		}
		translationService = service.NewCachingTranslationService(libreService, cacheRepo)
	} else {
		translationService = &service.NoopTranslationService{}
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	questionService := service.NewQuestionService(questionRepo)
	resultService := service.NewResultService(feedbackRepo, leaderboardRepo, cacheRepo, cfg.Quiz.LeaderboardSize)

	// Исполнитель сессий и их реестр
	runnerConfig := quizrunner.DefaultConfig()
	runnerConfig.QuestionSeconds = cfg.Quiz.QuestionSeconds
	runnerConfig.SessionTTL = time.Duration(cfg.Quiz.SessionTTLMinutes) * time.Minute
	if cfg.Translation.Enabled {
		runnerConfig.DefaultLanguage = cfg.Translation.TargetLanguage
	}

	registry := quizrunner.NewRegistry(runnerConfig.SessionTTL)
	registry.StartEviction(ctx, time.Minute)

	runner := quizrunner.NewRunner(runnerConfig, &quizrunner.Dependencies{
		Translator: translationService,
		Results:    resultService,
		Notifier:   emailService,
	})
	sessionService := service.NewSessionService(ctx, questionRepo, userRepo, registry, runner)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	questionHandler := handler.NewQuestionHandler(questionService)
	sessionHandler := handler.NewSessionHandler(sessionService, resultService)
	resultHandler := handler.NewResultHandler(resultService)
	wsHandler := handler.NewWSHandler(jwtService, sessionService, ws.NewFeed())

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Маршруты
	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.PUT("/language", authMiddleware.RequireAuth(), authHandler.UpdateLanguage)
		}

		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth())
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.GET("/count", questionHandler.CountQuestions)
			questions.POST("", authMiddleware.AdminOnly(), questionHandler.CreateQuestion)
			questions.GET("/:id", authMiddleware.AdminOnly(), questionHandler.GetQuestion)
			questions.PUT("/:id", authMiddleware.AdminOnly(), questionHandler.UpdateQuestion)
			questions.DELETE("/:id", authMiddleware.AdminOnly(), questionHandler.DeleteQuestion)
		}

		sessions := api.Group("/sessions")
		sessions.Use(authMiddleware.RequireAuth())
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/answer", sessionHandler.SubmitAnswer)
			sessions.GET("/:id/export", sessionHandler.ExportAnswers)
		}

		api.POST("/feedback", authMiddleware.RequireAuth(), resultHandler.SubmitFeedback)
		api.GET("/feedback", authMiddleware.RequireAuth(), resultHandler.ListFeedback)
		api.GET("/leaderboard", resultHandler.GetLeaderboard)
	}

	// Поток событий сессии: токен передается в query, проверка внутри
	router.GET("/ws/sessions/:id", wsHandler.HandleSessionFeed)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем исполнителей сессий и фоновые горутины
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
