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

	cancelBookingHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/cancel_booking"
	createAvailabilityRuleHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/create_availability_rule"
	createBookingHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/create_booking"
	createInstructorHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/create_instructor"
	createTimeOffHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/create_time_off"
	createVehicleHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/create_vehicle"
	deactivateAvailabilityRuleHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/deactivate_availability_rule"
	deactivateInstructorHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/deactivate_instructor"
	deactivateVehicleHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/deactivate_vehicle"
	getAvailabilityRulesHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/get_availability_rules"
	getAvailableSlotsHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/get_booking"
	getCompanyBookingsHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/get_company_bookings"
	getCompanyConfigHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/get_company_config"
	getInstructorsHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/get_instructors"
	getUserBookingsHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/get_user_bookings"
	getVehiclesHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/get_vehicles"
	updateBookingStatusHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/update_booking_status"
	updateCompanyConfigHandler "github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers/update_company_config"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/middleware"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/config"
	bookingRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/booking"
	configRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/config"
	outboxRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/outbox"
	resourceRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/resource"
	scheduleRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/schedule"
	sessionRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/session"
	identityClient "github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/identity"
	paymentsClient "github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/payments"
	outboxPublisher "github.com/wavyvi00/cdltrainingbooking-sub000/internal/outbox"
	bookingsService "github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/bookings"
	scheduleService "github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule"
	createBookingUC "github.com/wavyvi00/cdltrainingbooking-sub000/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/wavyvi00/cdltrainingbooking-sub000/internal/usecase/get_available_slots"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/dbmetrics"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/logger"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/metrics"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/simpletxmanager"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/txmanager"
)

// TxManager интерфейс transaction manager, общий для обеих реализаций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

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

	log.Info("Starting CDL-TrainingBooking service...")
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
	identity := identityClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		log,
	)
	payments := paymentsClient.NewClient(cfg.Stripe.Enabled, cfg.Stripe.SecretKey, log)
	log.Info("Integration clients initialized (IdentityService=%s timeout=%ds, Stripe enabled=%t)",
		cfg.IdentityService.URL, cfg.IdentityService.Timeout, cfg.Stripe.Enabled)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		configRepository   *configRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		resourceRepository *resourceRepo.Repository
		sessionRepository  *sessionRepo.Repository
		outboxRepository   *outboxRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		configRepository = configRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		sessionRepository = sessionRepo.NewRepository(wrappedDB)
		outboxRepository = outboxRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		configRepository = configRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		sessionRepository = sessionRepo.NewRepository(db)
		outboxRepository = outboxRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		sessionRepository,
		outboxRepository,
		identity,
		payments,
		txMgr,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		configRepository,
		scheduleRepository,
		resourceRepository,
		identity,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		configRepository,
		scheduleRepository,
		resourceRepository,
		sessionRepository,
		outboxRepository,
		payments,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		configRepository,
		scheduleRepository,
		resourceRepository,
		sessionRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getCompanyBookings := getCompanyBookingsHandler.NewHandler(bookingSvc, log)
	getCompanyConfig := getCompanyConfigHandler.NewHandler(scheduleSvc, log)
	updateCompanyConfig := updateCompanyConfigHandler.NewHandler(scheduleSvc, log)
	createAvailabilityRule := createAvailabilityRuleHandler.NewHandler(scheduleSvc, log)
	getAvailabilityRules := getAvailabilityRulesHandler.NewHandler(scheduleSvc, log)
	deactivateAvailabilityRule := deactivateAvailabilityRuleHandler.NewHandler(scheduleSvc, log)
	createTimeOff := createTimeOffHandler.NewHandler(scheduleSvc, log)
	getInstructors := getInstructorsHandler.NewHandler(scheduleSvc, log)
	createInstructor := createInstructorHandler.NewHandler(scheduleSvc, log)
	deactivateInstructor := deactivateInstructorHandler.NewHandler(scheduleSvc, log)
	getVehicles := getVehiclesHandler.NewHandler(scheduleSvc, log)
	createVehicle := createVehicleHandler.NewHandler(scheduleSvc, log)
	deactivateVehicle := deactivateVehicleHandler.NewHandler(scheduleSvc, log)

	authMiddleware := middleware.NewAuth(identity, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для бронирования
	api.HandleFunc("/companies/{companyId}/modules/{moduleId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Получение конфигурации политики бронирования компании
	api.HandleFunc("/companies/{companyId}/config",
		getCompanyConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware.Handle)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Смена статуса бронирования (staff)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление компанией (staff и admin) ---
	// Список бронирований компании с фильтрами
	protected.HandleFunc("/companies/{companyId}/bookings", getCompanyBookings.Handle).Methods(http.MethodGet)

	// Создание/обновление конфигурации политики бронирования
	protected.HandleFunc("/companies/{companyId}/config", updateCompanyConfig.Handle).Methods(http.MethodPut)

	// Правила расписания
	protected.HandleFunc("/companies/{companyId}/availability-rules",
		createAvailabilityRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/availability-rules",
		getAvailabilityRules.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/availability-rules/{ruleId}/deactivate",
		deactivateAvailabilityRule.Handle).Methods(http.MethodPatch)

	// Блэкауты
	protected.HandleFunc("/companies/{companyId}/time-off", createTimeOff.Handle).Methods(http.MethodPost)

	// Инструкторы
	protected.HandleFunc("/companies/{companyId}/instructors", getInstructors.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/instructors", createInstructor.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/instructors/{instructorId}/deactivate",
		deactivateInstructor.Handle).Methods(http.MethodPatch)

	// Учебные грузовики
	protected.HandleFunc("/companies/{companyId}/vehicles", getVehicles.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/companies/{companyId}/vehicles", createVehicle.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/companies/{companyId}/vehicles/{vehicleId}/deactivate",
		deactivateVehicle.Handle).Methods(http.MethodPatch)

	// Запускаем публикатор outbox событий (если настроена Kafka)
	publisherCtx, stopPublisher := context.WithCancel(context.Background())
	defer stopPublisher()

	if cfg.Kafka.Enabled {
		publisher := outboxPublisher.NewPublisher(outboxRepository, txMgr, outboxPublisher.Config{
			Brokers:      cfg.Kafka.Brokers,
			PollInterval: time.Duration(cfg.Kafka.PollEvery) * time.Second,
			BatchSize:    cfg.Kafka.BatchSize,
		}, log)
		if publisher != nil {
			go publisher.Run(publisherCtx)
		}
	}

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

	// Останавливаем публикатор outbox событий
	stopPublisher()

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
