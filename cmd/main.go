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
	"github.com/robfig/cron/v3"

	cancelReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_reservation"
	confirmReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/confirm_reservation"
	createReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_reservation"
	getAvailableDaysHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_available_days"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_available_slots"
	getBusinessReservationsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_business_reservations"
	getCalendarHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_calendar"
	getReservationHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_user_reservations"
	listServicesHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/list_services"
	updateCalendarHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_calendar"
	upsertServiceHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/upsert_service"
	watchReservationsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/watch_reservations"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/availability"
	"github.com/m04kA/SMC-SalonService/internal/config"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/calendar"
	reservationRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/reservation"
	serviceRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonService/internal/infra/watch"
	calendarService "github.com/m04kA/SMC-SalonService/internal/service/calendar"
	catalogService "github.com/m04kA/SMC-SalonService/internal/service/catalog"
	reservationsService "github.com/m04kA/SMC-SalonService/internal/service/reservations"
	createReservationUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_reservation"
	getAvailableDaysUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_days"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
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

	log.Info("Starting SMC-SalonService...")
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

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		calendarRepository    *calendarRepo.Repository
		serviceRepository     *serviceRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		reservationRepository = reservationRepo.NewRepository(db)
		calendarRepository = calendarRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Движок расчета доступности
	engine := availability.NewEngine(cfg.Availability.DefaultTimezone, log)

	// Хаб подписок: каждое изменение рассылает подписчикам полный снапшот
	hub := watch.NewHub(func(ctx context.Context, q watch.Query) ([]*domain.Reservation, error) {
		filter := domain.BusinessReservationsFilter{BusinessID: q.BusinessID}
		if !q.StartDate.IsZero() {
			startDate := q.StartDate
			filter.StartDate = &startDate
		}
		if !q.EndDate.IsZero() {
			endDate := q.EndDate
			filter.EndDate = &endDate
		}
		return reservationRepository.GetByBusinessWithFilter(ctx, filter)
	}, log)

	// Инициализируем сервисы
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		hub,
		&reservationsService.RealTimeProvider{},
		log,
	)
	calendarSvc := calendarService.NewService(
		calendarRepository,
		txMgr,
		hub,
		log,
	)
	catalogSvc := catalogService.NewService(serviceRepository, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		calendarRepository,
		serviceRepository,
		engine,
		log,
	)
	getAvailableDaysUseCase := getAvailableDaysUC.NewUseCase(
		reservationRepository,
		calendarRepository,
		serviceRepository,
		engine,
		log,
	)
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		calendarRepository,
		serviceRepository,
		engine,
		txMgr,
		hub,
		cfg.Availability.HoldTTLMinutes,
		log,
	)

	// Фоновая зачистка истекших hold-записей
	cleanup := cron.New()
	if _, err := cleanup.AddFunc(cfg.Availability.CleanupSchedule, func() {
		if _, err := reservationsSvc.CleanupExpired(context.Background()); err != nil {
			log.Error("Cleanup job failed: %v", err)
		}
	}); err != nil {
		log.Fatal("Failed to schedule cleanup job (%s): %v", cfg.Availability.CleanupSchedule, err)
	}
	cleanup.Start()
	log.Info("Expired holds cleanup scheduled (%s)", cfg.Availability.CleanupSchedule)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDays := getAvailableDaysHandler.NewHandler(getAvailableDaysUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	confirmReservation := confirmReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationsSvc, log)
	getBusinessReservations := getBusinessReservationsHandler.NewHandler(reservationsSvc, log)
	watchReservations := watchReservationsHandler.NewHandler(hub, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	updateCalendar := updateCalendarHandler.NewHandler(calendarSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	upsertService := upsertServiceHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Request ID на каждый запрос
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
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

	// Доступные слоты на дату
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Доступность на диапазон дат
	api.HandleFunc("/businesses/{businessId}/available-days",
		getAvailableDays.Handle).Methods(http.MethodGet)

	// Календарь бизнеса
	api.HandleFunc("/businesses/{businessId}/calendar",
		getCalendar.Handle).Methods(http.MethodGet)

	// Каталог услуг бизнеса
	api.HandleFunc("/businesses/{businessId}/services",
		listServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи (booked или held)
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Подтверждение hold-записи
	protected.HandleFunc("/reservations/{reservationId}/confirm", confirmReservation.Handle).Methods(http.MethodPatch)

	// Отмена записи
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/me/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом ---
	// Список записей бизнеса
	protected.HandleFunc("/businesses/{businessId}/reservations", getBusinessReservations.Handle).Methods(http.MethodGet)

	// Подписка на изменения записей (SSE)
	protected.HandleFunc("/businesses/{businessId}/reservations/watch", watchReservations.Handle).Methods(http.MethodGet)

	// Обновление календаря
	protected.HandleFunc("/businesses/{businessId}/calendar", updateCalendar.Handle).Methods(http.MethodPut)

	// Управление каталогом услуг
	protected.HandleFunc("/businesses/{businessId}/services", upsertService.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}", upsertService.HandleUpdate).Methods(http.MethodPut)

	// Создаем HTTP сервер
	// WriteTimeout из конфига: для стриминга /watch держите его равным 0
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

	// Останавливаем фоновую зачистку
	cleanup.Stop()

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
