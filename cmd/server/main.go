package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/cache"
	"github.com/ziggy-data/investimento/internal/config"
	"github.com/ziggy-data/investimento/internal/handler"
	"github.com/ziggy-data/investimento/internal/metrics"
	"github.com/ziggy-data/investimento/internal/repository"
	"github.com/ziggy-data/investimento/internal/service"
	"github.com/ziggy-data/investimento/internal/worker"
)

func main() {
	logger := logrus.New()
	// Уровень логирования (Debug для разработки, Info для продакшена)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загрузка конфигурации приложения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Подключение к PostgreSQL
	db, err := sql.Open("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	))
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Проверка соединения с БД
	if err := db.Ping(); err != nil {
		logger.Fatalf("Ошибка проверки соединения с БД: %v", err)
	}

	// Инициализация репозиториев
	logger.Info("Инициализация репозиториев...")
	userRepo := repository.NewUserRepository(db, logger)
	productRepo := repository.NewProductRepository(db, logger)
	simulationRepo := repository.NewSimulationRepository(db, logger)

	// Кэши с временем жизни до перезапуска процесса
	validationCache := cache.New()
	profileCache := cache.New()
	recommendationCache := cache.New()

	// Пул фоновой персистентности: воркеры по числу ядер,
	// всплеск до 2x, ограниченная очередь
	cores := runtime.NumCPU()
	pool := worker.NewPool(cores, cores*2, cfg.WorkerQueueSize, logger)

	// Реестр метрик для /metrics и эндпоинта телеметрии
	metricsRegistry := metrics.New()

	// Инициализация сервисов
	logger.Info("Инициализация сервисов...")
	notifier := service.NewNotifier(logger)
	keyRateClient := service.NewKeyRateClient(logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenExpiry, logger)
	validationService := service.NewProductValidationService(productRepo, validationCache, logger)
	persistenceService := service.NewSimulationPersistenceService(simulationRepo, profileCache, pool, notifier, logger)
	investmentService := service.NewInvestmentService(simulationRepo, validationService, persistenceService, logger)
	recommendationService := service.NewRecommendationService(productRepo, simulationRepo, profileCache, recommendationCache, logger)
	telemetryService := service.NewTelemetryService(metricsRegistry, keyRateClient, logger)
	catalogSeeder := service.NewCatalogSeeder(productRepo, logger)

	// Сидирование данных при первом старте
	if err := catalogSeeder.SeedProducts(context.Background()); err != nil {
		logger.Fatalf("Ошибка сидирования каталога продуктов: %v", err)
	}
	if err := authService.EnsureAdminUser(context.Background(), cfg.AdminPassword); err != nil {
		logger.Fatalf("Ошибка создания пользователя admin: %v", err)
	}

	// Прогрев кэша рекомендаций, чтобы первый запрос был быстрым
	recommendationService.WarmUpRecommendations(context.Background())

	// Инициализация HTTP обработчиков
	logger.Info("Инициализация обработчиков API...")
	authHandler := handler.NewAuthHandler(authService, logger)
	investmentHandler := handler.NewInvestmentHandler(
		investmentService,
		recommendationService,
		telemetryService,
		logger,
	)

	// Настройка маршрутизатора
	router := mux.NewRouter()
	router.NotFoundHandler = handler.NotFoundHandler(logger)
	router.Use(handler.MetricsMiddleware(metricsRegistry))

	// Экспозиция метрик Prometheus
	router.Handle("/metrics", metricsRegistry.Handler()).Methods("GET")

	// 1. Публичные маршруты для аутентификации
	authRouter := router.PathPrefix("/api/v1/auth").Subrouter()
	authHandler.RegisterRoutes(authRouter)

	// 2. Защищенные API маршруты (требуется JWT токен)
	apiRouter := router.PathPrefix("/api/v1/investimentos").Subrouter()
	apiRouter.Use(handler.AuthMiddleware(authService, logger))
	investmentHandler.RegisterRoutes(apiRouter)

	// Планировщик: ежечасная сводка телеметрии в лог
	logger.Info("Настройка планировщика телеметрии...")
	c := cron.New()
	_, err = c.AddFunc("0 * * * *", func() {
		telemetryService.LogSummary(context.Background())
	})
	if err != nil {
		logger.Fatalf("Ошибка настройки планировщика: %v", err)
	}
	c.Start()

	// Настройка и запуск HTTP сервера
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Infof("Запуск сервера на порту :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание сигналов для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Завершение работы сервера...")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Ошибка при завершении работы сервера: %v", err)
	}

	// Останавливаем планировщик и дожидаемся фоновых задач
	c.Stop()
	pool.Shutdown()

	logger.Info("Сервер успешно остановлен")
}
