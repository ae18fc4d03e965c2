package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Email       EmailConfig
	Translation TranslationConfig
	Quiz        QuizConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// EmailConfig содержит настройки отправки писем с результатами
type EmailConfig struct {
	// Provider: "resend" или "noop". При "noop" письма только логируются.
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
}

// TranslationConfig содержит настройки перевода текста вопросов
type TranslationConfig struct {
	// Enabled: при false перевод отключен, текст отдается как есть
	Enabled bool `mapstructure:"enabled"`

	// ProviderURL: адрес LibreTranslate-совместимого сервиса
	ProviderURL string `mapstructure:"provider_url"`
	APIKey      string `mapstructure:"api_key"`

	// TargetLanguage: код языка по умолчанию (переопределяется языком пользователя)
	TargetLanguage string `mapstructure:"target_language"`
}

// QuizConfig содержит настройки сессии викторины
type QuizConfig struct {
	// QuestionSeconds: длительность отсчета на вопрос в секундах
	QuestionSeconds int `mapstructure:"question_seconds"`

	// LeaderboardSize: размер отдаваемого топа таблицы лидеров
	LeaderboardSize int `mapstructure:"leaderboard_size"`

	// SessionTTLMinutes: через сколько минут бездействия сессия вычищается из реестра
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 10)
	vip.SetDefault("server.writetimeout", 10)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("email.provider", "noop")
	vip.SetDefault("translation.enabled", false)
	vip.SetDefault("translation.target_language", "en")
	vip.SetDefault("quiz.question_seconds", 10)
	vip.SetDefault("quiz.leaderboard_size", 5)
	vip.SetDefault("quiz.session_ttl_minutes", 30)

	// Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для секции JWT
	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	// Привязка для секции Email
	vip.BindEnv("email.provider", "EMAIL_PROVIDER")
	vip.BindEnv("email.api_key", "EMAIL_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	// Привязка для секции Translation
	vip.BindEnv("translation.enabled", "TRANSLATION_ENABLED")
	vip.BindEnv("translation.provider_url", "TRANSLATION_PROVIDER_URL")
	vip.BindEnv("translation.api_key", "TRANSLATION_API_KEY")
	vip.BindEnv("translation.target_language", "TRANSLATION_TARGET_LANGUAGE")

	// Привязка для секции Quiz
	vip.BindEnv("quiz.question_seconds", "QUIZ_QUESTION_SECONDS")
	vip.BindEnv("quiz.leaderboard_size", "QUIZ_LEADERBOARD_SIZE")
	vip.BindEnv("quiz.session_ttl_minutes", "QUIZ_SESSION_TTL_MINUTES")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// Путь к файлу конфигурации (не страшно, если файла нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("JWT Secret Set: %t", cfg.JWT.Secret != "")
		log.Printf("Email Provider: %s", cfg.Email.Provider)
		log.Printf("Translation Enabled: %t", cfg.Translation.Enabled)
		log.Printf("Quiz Question Seconds: %d", cfg.Quiz.QuestionSeconds)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// Проверка обязательных параметров
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Email.Provider == "resend" && cfg.Email.APIKey == "" {
		return nil, fmt.Errorf("email provider 'resend' requires api key (check EMAIL_API_KEY env var)")
	}
	if cfg.Translation.Enabled && cfg.Translation.ProviderURL == "" {
		return nil, fmt.Errorf("translation is enabled but provider url is empty (check TRANSLATION_PROVIDER_URL env var)")
	}
	if cfg.Quiz.QuestionSeconds <= 0 {
		return nil, fmt.Errorf("quiz.question_seconds must be positive")
	}

	return &cfg, nil
}
