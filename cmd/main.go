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

	cancelAppointmentHandler "github.com/m04kA/Salon-BookingService/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/m04kA/Salon-BookingService/internal/api/handlers/complete_appointment"
	findAvailableSlotsHandler "github.com/m04kA/Salon-BookingService/internal/api/handlers/find_available_slots"
	getAppointmentHandler "github.com/m04kA/Salon-BookingService/internal/api/handlers/get_appointment"
	getCatalogHandler "github.com/m04kA/Salon-BookingService/internal/api/handlers/get_catalog"
	getClientAppointmentsHandler "github.com/m04kA/Salon-BookingService/internal/api/handlers/get_client_appointments"
	getStylistAppointmentsHandler "github.com/m04kA/Salon-BookingService/internal/api/handlers/get_stylist_appointments"
	scheduleAppointmentHandler "github.com/m04kA/Salon-BookingService/internal/api/handlers/schedule_appointment"
	"github.com/m04kA/Salon-BookingService/internal/api/middleware"
	"github.com/m04kA/Salon-BookingService/internal/catalog"
	"github.com/m04kA/Salon-BookingService/internal/config"
	appointmentRepo "github.com/m04kA/Salon-BookingService/internal/infra/storage/appointment"
	maillogRepo "github.com/m04kA/Salon-BookingService/internal/infra/storage/maillog"
	mailerClient "github.com/m04kA/Salon-BookingService/internal/integrations/mailer"
	appointmentsService "github.com/m04kA/Salon-BookingService/internal/service/appointments"
	findAvailableSlotsUC "github.com/m04kA/Salon-BookingService/internal/usecase/find_available_slots"
	scheduleAppointmentUC "github.com/m04kA/Salon-BookingService/internal/usecase/schedule_appointment"
	reminderWorker "github.com/m04kA/Salon-BookingService/internal/worker/reminder"
	"github.com/m04kA/Salon-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Salon-BookingService/pkg/logger"
	"github.com/m04kA/Salon-BookingService/pkg/metrics"
	"github.com/m04kA/Salon-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/Salon-BookingService/pkg/txmanager"
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

	log.Info("Starting Salon-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Строим каталог салона из конфигурации
	salonCatalog, err := catalog.New(cfg.Salon, cfg.Booking)
	if err != nil {
		log.Fatal("Failed to build salon catalog: %v", err)
	}
	log.Info("Salon catalog loaded: services=%d, stylists=%d, timezone=%s",
		len(salonCatalog.Services()), len(salonCatalog.Stylists()), salonCatalog.Location())

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

	// Инициализируем клиента почтового сервиса
	mailer := mailerClient.NewClient(
		cfg.Mailer.URL,
		time.Duration(cfg.Mailer.Timeout)*time.Second,
		log,
	)
	log.Info("Mailer client initialized (url=%s, timeout=%ds)", cfg.Mailer.URL, cfg.Mailer.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		maillogRepository     *maillogRepo.Repository
	)

	// Интерфейс менеджера транзакций, общий для обеих реализаций
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		maillogRepository = maillogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		maillogRepository = maillogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &findAvailableSlotsUC.RealTimeProvider{}

	// Инициализируем use cases
	findAvailableSlotsUseCase := findAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		salonCatalog,
		timeProvider,
		log,
	)

	scheduleAppointmentUseCase := scheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		salonCatalog,
		txMgr,
		mailer,
		maillogRepository,
		findAvailableSlotsUseCase,
		timeProvider,
		log,
	)

	// Инициализируем сервис записей
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		salonCatalog,
		log,
	)

	// Инициализируем handlers
	findAvailableSlots := findAvailableSlotsHandler.NewHandler(findAvailableSlotsUseCase, salonCatalog.Location(), log)
	scheduleAppointment := scheduleAppointmentHandler.NewHandler(scheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getStylistAppointments := getStylistAppointmentsHandler.NewHandler(appointmentsSvc, salonCatalog.Location(), log)
	getCatalog := getCatalogHandler.NewHandler(salonCatalog, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Поиск доступных слотов
	api.HandleFunc("/slots", findAvailableSlots.Handle).Methods(http.MethodGet)

	// Каталог салона: услуги, мастера, праздники
	api.HandleFunc("/catalog", getCatalog.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Client-Email header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Записи клиента ---
	// Создание записи
	protected.HandleFunc("/appointments", scheduleAppointment.Handle).Methods(http.MethodPost)

	// История записей клиента
	protected.HandleFunc("/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)

	// --- Администрирование ---
	// Завершение оказанной услуги
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPost)

	// Расписание мастера
	protected.HandleFunc("/stylists/{stylistId}/appointments", getStylistAppointments.Handle).Methods(http.MethodGet)

	// Запускаем воркер напоминаний
	var reminder *reminderWorker.Worker
	if cfg.Reminder.Enabled {
		reminder = reminderWorker.New(
			appointmentRepository,
			salonCatalog,
			mailer,
			maillogRepository,
			cfg.Reminder.HoursBefore,
			cfg.Reminder.Schedule,
			log,
		)
		if err := reminder.Start(); err != nil {
			log.Fatal("Failed to start reminder worker: %v", err)
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

	// Останавливаем воркер напоминаний
	if reminder != nil {
		reminder.Stop()
	}

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
