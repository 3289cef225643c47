package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFormat      string        `env:"LOG_FORMAT"`

	// Сессии
	JWTSecret     string        `env:"JWT_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`
	CookieSecure  bool          `env:"COOKIE_SECURE"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL"`

	// Настройки для MinIO (аватары)
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME"`
	MinioRegion          string `env:"MINIO_REGION,required"`
	MinioPublicURL       string `env:"MINIO_PUBLIC_URL"`

	RabbitMQ struct {
		RabbitMQURL     string `env:"RABBITMQ_URL,required"`
		PasteViewsQueue string `env:"RABBITMQ_PASTE_VIEWS_QUEUE" envDefault:"paste_views"`
		AuthEventsQueue string `env:"RABBITMQ_AUTH_EVENTS_QUEUE" envDefault:"auth_events"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB"`
	}

	PresenceInterval time.Duration `env:"PRESENCE_INTERVAL"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults вручную проставляет значения по умолчанию для пустых полей
func (c *Config) applyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.PublicBaseURL == "" {
		c.PublicBaseURL = "http://localhost:" + c.ServerPort
	}
	if c.MinioBucketName == "" {
		c.MinioBucketName = "avatars"
	}
	if c.MinioPublicURL == "" {
		scheme := "http"
		if c.MinioUseSSL {
			scheme = "https"
		}
		c.MinioPublicURL = fmt.Sprintf("%s://%s", scheme, c.MinioEndpoint)
	}
	if c.PresenceInterval <= 0 {
		c.PresenceInterval = 30 * time.Second
	}
}
