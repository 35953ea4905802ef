package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	acceptOfferHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/accept_offer"
	cancelReservationHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/cancel_reservation"
	cancelWaitlistHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/cancel_waitlist"
	declineOfferHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/decline_offer"
	findSlotsHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/find_slots"
	getQueuePositionHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/get_queue_position"
	getWaitlistEntryHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/get_waitlist_entry"
	joinWaitlistHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/join_waitlist"
	"github.com/m04kA/SMC-WaitlistService/internal/api/middleware"
	"github.com/m04kA/SMC-WaitlistService/internal/config"
	reservationRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/reservation"
	timersRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/timers"
	waitlistRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/waitlist"
	notifyServiceClient "github.com/m04kA/SMC-WaitlistService/internal/integrations/notifyservice"
	staffServiceClient "github.com/m04kA/SMC-WaitlistService/internal/integrations/staffservice"
	expiryService "github.com/m04kA/SMC-WaitlistService/internal/service/expiry"
	waitlistService "github.com/m04kA/SMC-WaitlistService/internal/service/waitlist"
	findSlotsUC "github.com/m04kA/SMC-WaitlistService/internal/usecase/find_slots"
	rankAlternativesUC "github.com/m04kA/SMC-WaitlistService/internal/usecase/rank_alternatives"
	releaseSlotUC "github.com/m04kA/SMC-WaitlistService/internal/usecase/release_slot"
	"github.com/m04kA/SMC-WaitlistService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WaitlistService/pkg/logger"
	"github.com/m04kA/SMC-WaitlistService/pkg/metrics"
	"github.com/m04kA/SMC-WaitlistService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-WaitlistService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-WaitlistService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	staffClient := staffServiceClient.NewClient(
		cfg.StaffService.URL,
		time.Duration(cfg.StaffService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (StaffService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.StaffService.URL, cfg.StaffService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		waitlistRepository    *waitlistRepo.Repository
		timersRepository      *timersRepo.Repository
		searchMetrics         findSlotsUC.Metrics
		waitlistMetrics       waitlistService.Metrics
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		txMgr := txmanager.NewTransactionManager(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB, txMgr)
		waitlistRepository = waitlistRepo.NewRepository(wrappedDB, txMgr)
		timersRepository = timersRepo.NewRepository(wrappedDB)
		searchMetrics = metricsCollector
		waitlistMetrics = metricsCollector
	} else {
		txMgr := simpletxmanager.NewTransactionManager(db)
		reservationRepository = reservationRepo.NewRepository(db, txMgr)
		waitlistRepository = waitlistRepo.NewRepository(db, txMgr)
		timersRepository = timersRepo.NewRepository(db)
		searchMetrics = metrics.Noop{}
		waitlistMetrics = metrics.Noop{}
	}

	// Инициализируем планировщик таймеров истечения
	scheduler := expiryService.NewScheduler(timersRepository, expiryService.RealTimeProvider{}, log)

	// Инициализируем координатор листа ожидания
	waitlistSvc := waitlistService.NewService(
		waitlistRepository,
		reservationRepository,
		notifyClient,
		scheduler,
		waitlistService.RealTimeProvider{},
		waitlistMetrics,
		log,
	)

	// Замыкаем цикл планировщик <-> координатор и восстанавливаем таймеры
	scheduler.SetCallback(waitlistSvc.HandleExpiry)
	if err := scheduler.Restore(context.Background()); err != nil {
		log.Fatal("Failed to restore expiry timers: %v", err)
	}

	// Инициализируем use cases
	searchLimits := findSlotsUC.Limits{
		DefaultDaysAhead: cfg.Search.DefaultDaysAhead,
		MaxDaysAhead:     cfg.Search.MaxDaysAhead,
		DefaultResults:   cfg.Search.DefaultResults,
		MaxResults:       cfg.Search.MaxResults,
		Scope:            findSlotsUC.MaxResultsScope(cfg.Search.MaxResultsScope),
	}
	findSlotsUseCase := findSlotsUC.NewUseCase(
		reservationRepository,
		staffClient,
		searchLimits,
		searchMetrics,
		log,
	)
	rankAlternativesUseCase := rankAlternativesUC.NewUseCase()
	releaseSlotUseCase := releaseSlotUC.NewUseCase(
		reservationRepository,
		waitlistSvc,
		log,
	)

	// Инициализируем handlers
	findSlots := findSlotsHandler.NewHandler(findSlotsUseCase, rankAlternativesUseCase, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(waitlistSvc, log)
	getWaitlistEntry := getWaitlistEntryHandler.NewHandler(waitlistSvc, log)
	getQueuePosition := getQueuePositionHandler.NewHandler(waitlistSvc, log)
	acceptOffer := acceptOfferHandler.NewHandler(waitlistSvc, log)
	declineOffer := declineOfferHandler.NewHandler(waitlistSvc, log)
	cancelWaitlist := cancelWaitlistHandler.NewHandler(waitlistSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(releaseSlotUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Поиск доступных слотов с ранжированием по предпочтению
	api.HandleFunc("/salons/{salonId}/services/{serviceId}/available-slots",
		findSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Лист ожидания ---
	// Постановка в очередь
	protected.HandleFunc("/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/waitlist/{entryId}", getWaitlistEntry.Handle).Methods(http.MethodGet)

	// Позиция в очереди
	protected.HandleFunc("/waitlist/{entryId}/position", getQueuePosition.Handle).Methods(http.MethodGet)

	// Принятие предложенного слота
	protected.HandleFunc("/waitlist/{entryId}/accept", acceptOffer.Handle).Methods(http.MethodPost)

	// Отклонение предложенного слота
	protected.HandleFunc("/waitlist/{entryId}/decline", declineOffer.Handle).Methods(http.MethodPost)

	// Снятие с ожидания
	protected.HandleFunc("/waitlist/{entryId}/cancel", cancelWaitlist.Handle).Methods(http.MethodPatch)

	// --- Бронирования ---
	// Отмена бронирования с освобождением слота
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем планировщик: невыполненные таймеры переживут рестарт
	scheduler.Stop()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
