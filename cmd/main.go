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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/create_booking"
	deletePolicyHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/delete_policy"
	getAvailableSlotsHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/get_booking"
	getPolicyHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/get_policy"
	getScheduleHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/get_schedule"
	getStaffBookingsHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/get_staff_bookings"
	scheduleExceptionHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/schedule_exception"
	updateBookingHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/update_booking"
	updatePolicyHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/update_policy"
	updateScheduleHandler "github.com/m04kA/BMS-SchedulingService/internal/api/handlers/update_schedule"
	"github.com/m04kA/BMS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/BMS-SchedulingService/internal/availability"
	"github.com/m04kA/BMS-SchedulingService/internal/config"
	"github.com/m04kA/BMS-SchedulingService/internal/infra/slotcache"
	bookingRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/booking"
	businessRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/business"
	customerRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/customer"
	policyRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/policy"
	scheduleRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/schedule"
	serviceRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/service"
	staffRepo "github.com/m04kA/BMS-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/BMS-SchedulingService/internal/integrations/notifyservice"
	bookingsService "github.com/m04kA/BMS-SchedulingService/internal/service/bookings"
	policyService "github.com/m04kA/BMS-SchedulingService/internal/service/policy"
	scheduleService "github.com/m04kA/BMS-SchedulingService/internal/service/schedule"
	createBookingUC "github.com/m04kA/BMS-SchedulingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/BMS-SchedulingService/internal/usecase/get_available_slots"
	updateBookingUC "github.com/m04kA/BMS-SchedulingService/internal/usecase/update_booking"
	"github.com/m04kA/BMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/BMS-SchedulingService/pkg/logger"
	"github.com/m04kA/BMS-SchedulingService/pkg/metrics"
	"github.com/m04kA/BMS-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/BMS-SchedulingService/pkg/txmanager"
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

	log.Info("Starting BMS-SchedulingService...")
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
		businessRepository *businessRepo.Repository
		staffRepository    *staffRepo.Repository
		serviceRepository  *serviceRepo.Repository
		customerRepository *customerRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		policyRepository   *policyRepo.Repository
		bookingRepository  *bookingRepo.Repository
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

		businessRepository = businessRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.New(wrappedDB, log)
	} else {
		businessRepository = businessRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.New(db, log)
	}

	// Калькулятор доступности и детектор конфликтов
	slotCalculator := availability.NewCalculator(
		staffRepository,
		scheduleRepository,
		serviceRepository,
		policyRepository,
		bookingRepository,
		log,
	)

	// Кеш слотов: Redis или passthrough, если кеш выключен
	var slotCache getAvailableSlotsUC.SlotCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		cache := slotcache.New(redisClient, slotCalculator, log)
		if cfg.Metrics.Enabled {
			cache = cache.WithMetrics(metricsCollector)
		}
		slotCache = cache
		log.Info("Slot cache enabled (redis addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		slotCache = slotcache.NewPassthrough(slotCalculator)
		log.Info("Slot cache disabled, slots are computed on every request")
	}

	// Клиент сервиса уведомлений (опционален)
	var notifier createBookingUC.Notifier
	if cfg.NotifyService.Enabled {
		notifier = notifyservice.NewClient(
			cfg.NotifyService.URL,
			time.Duration(cfg.NotifyService.Timeout)*time.Second,
			log,
		)
		log.Info("NotifyService client initialized (url=%s, timeout=%ds)",
			cfg.NotifyService.URL, cfg.NotifyService.Timeout)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		serviceRepository,
		policyRepository,
		notifier,
		txMgr,
		log,
	)
	policySvc := policyService.NewService(
		businessRepository,
		policyRepository,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		staffRepository,
		scheduleRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		businessRepository,
		staffRepository,
		serviceRepository,
		customerRepository,
		bookingRepository,
		policyRepository,
		slotCalculator,
		notifier,
		txMgr,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		businessRepository,
		staffRepository,
		serviceRepository,
		bookingRepository,
		policyRepository,
		slotCalculator,
		notifier,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		businessRepository,
		slotCache,
		slotCalculator,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getStaffBookings := getStaffBookingsHandler.NewHandler(bookingSvc, log)
	getPolicy := getPolicyHandler.NewHandler(policySvc, log)
	updatePolicy := updatePolicyHandler.NewHandler(policySvc, log)
	deletePolicy := deletePolicyHandler.NewHandler(policySvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	scheduleException := scheduleExceptionHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Все маршруты требуют X-Business-ID header (проставляется API gateway платформы)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Слоты ---
	api.HandleFunc("/staff/{staffId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", getStaffBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Политика бронирования ---
	api.HandleFunc("/policy", getPolicy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/policy", updatePolicy.Handle).Methods(http.MethodPut)
	api.HandleFunc("/policy", deletePolicy.Handle).Methods(http.MethodDelete)

	// --- Расписания сотрудников ---
	api.HandleFunc("/staff/{staffId}/schedule", getSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)
	api.HandleFunc("/staff/{staffId}/schedule/exceptions/{date}", scheduleException.Handle).Methods(http.MethodPut)
	api.HandleFunc("/staff/{staffId}/schedule/exceptions/{date}", scheduleException.HandleRemove).Methods(http.MethodDelete)

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
