package di

import (
	"fmt"
	"io"

	"github.com/GoArmGo/PasteApp/internal/adapter/presence"
	"github.com/GoArmGo/PasteApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/PasteApp/internal/app"
	"github.com/GoArmGo/PasteApp/internal/auth"
	"github.com/GoArmGo/PasteApp/internal/config"
	"github.com/GoArmGo/PasteApp/internal/database/client"
	"github.com/GoArmGo/PasteApp/internal/database/storage"
	"github.com/GoArmGo/PasteApp/internal/handler"
	"github.com/GoArmGo/PasteApp/internal/logger"
	"github.com/GoArmGo/PasteApp/internal/rabbitmq"
	"github.com/GoArmGo/PasteApp/internal/render"
	"github.com/GoArmGo/PasteApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// Если какой-то шаг падает, уже открытые соединения закрываются.
func BuildApp() (_ *app.App, err error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []app.CloserFunc
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				_ = closers[i]()
			}
		}
	}()

	// 2. PostgreSQL и миграции
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, dbClient.Close)

	// 3. Хранилища
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	profileStorage := storage.NewProfileStorage(dbClient.DB, slogger)
	pasteStorage := storage.NewPasteStorage(dbClient.DB, slogger)
	commentStorage := storage.NewCommentStorage(dbClient.DB, slogger)

	// 4. Redis: снимок "онлайн" и отозванные токены
	redisStore, rdb, err := presence.NewRedisClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, rdb.Close)

	// 5. MinIO для аватаров
	fileStorage, err := minio.NewMinioClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 6. RabbitMQ: один клиент и публикует, и потребляет
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, func() error {
		rabbitMQClient.Close()
		return nil
	})

	// 7. Бизнес-логика (usecases)
	profileUseCase := usecase.NewProfileUseCase(profileStorage, pasteStorage, fileStorage, slogger)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.SessionTTL)

	useCases := handler.UseCases{
		Auth: usecase.NewAuthUseCase(
			userStorage,
			profileStorage,
			profileUseCase,
			tokens,
			redisStore,
			rabbitMQClient,
			slogger,
		),
		Profiles: profileUseCase,
		Listing:  usecase.NewListingUseCase(pasteStorage, profileStorage, redisStore, slogger),
		Pastes:   usecase.NewPasteUseCase(pasteStorage, commentStorage, rabbitMQClient, slogger),
		Comments: usecase.NewCommentUseCase(commentStorage, slogger),
		Presence: usecase.NewPresenceUseCase(profileStorage, redisStore, slogger),
	}

	// 8. Шаблоны
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// 9. Сборка итогового приложения
	appClosers := make([]io.Closer, 0, len(closers))
	for _, c := range closers {
		appClosers = append(appClosers, c)
	}
	application := app.NewApp(cfg, slogger, useCases, renderer, rabbitMQClient, appClosers...)

	slogger.Info("all dependencies initialized")
	return application, nil
}
