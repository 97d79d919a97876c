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

	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	healthHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/health"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	blockedTimeRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/blockedtime"
	scheduleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/schedule"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/internal/timezone"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s", configPath)

	zone, err := timezone.Load(cfg.Availability.Timezone)
	if err != nil {
		log.Fatal("Failed to load salon timezone: %v", err)
	}
	log.Info("Salon timezone: %s", zone.Name())

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Проверяем соединение; база может подниматься дольше сервиса
	pingPolicy := cfg.Retry.Policy()
	log.Info("Database ping policy: attempts=%d, delays=%v", pingPolicy.MaxAttempts, pingPolicy.Delays())
	attempt := 0
	err = pingPolicy.Do(context.Background(), func(ctx context.Context) error {
		attempt++
		if err := db.PingContext(ctx); err != nil {
			log.Warn("Database ping attempt %d/%d failed: %v", attempt, pingPolicy.MaxAttempts, err)
			return err
		}
		return nil
	})
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var executor dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	appointments, err := appointmentRepo.NewRepository(executor, appointmentRepo.TableAppointments, zone)
	if err != nil {
		log.Fatal("Failed to init appointments repository: %v", err)
	}
	guestAppointments, err := appointmentRepo.NewRepository(executor, appointmentRepo.TableGuestAppointments, zone)
	if err != nil {
		log.Fatal("Failed to init guest appointments repository: %v", err)
	}

	repos := getAvailableSlotsUC.Repositories{
		Schedules:         scheduleRepo.NewRepository(executor),
		BlockedTimes:      blockedTimeRepo.NewRepository(executor, zone),
		Appointments:      appointments,
		GuestAppointments: guestAppointments,
		Services:          serviceRepo.NewRepository(executor),
	}

	// Инициализируем use cases
	ucConfig := getAvailableSlotsUC.Config{
		Zone:                    zone,
		SlotGranularityMinutes:  cfg.Availability.SlotGranularityMinutes,
		MinBookingNoticeMinutes: cfg.Availability.MinBookingNoticeMinutes,
		MaxAdvanceDays:          cfg.Availability.MaxAdvanceDays,
	}
	start, end, ok, err := cfg.Availability.DailyWindowBounds()
	if err != nil {
		log.Fatal("Invalid default daily window: %v", err)
	}
	if ok {
		ucConfig.DefaultDailyWindow = &getAvailableSlotsUC.DailyWindow{Start: start, End: end}
		log.Info("Default daily window: %s-%s", start, end)
	}

	var ucMetrics getAvailableSlotsUC.Metrics
	if cfg.Metrics.Enabled {
		ucMetrics = metricsCollector
	}

	getAvailableSlotsUseCase, err := getAvailableSlotsUC.NewUseCase(ucConfig, repos, ucMetrics, log)
	if err != nil {
		log.Fatal("Failed to init GetAvailableSlots use case: %v", err)
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	health := healthHandler.NewHandler(db, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(time.Duration(cfg.Database.QueryTimeout) * time.Second))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Получение доступных слотов мастера на дату
	api.HandleFunc("/staff/{staffId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

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
	close(stopMetricsCh)

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
