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

	backStepHandler "github.com/proserv/PS-BookingService/internal/api/handlers/back_step"
	confirmReservationHandler "github.com/proserv/PS-BookingService/internal/api/handlers/confirm_reservation"
	createReviewHandler "github.com/proserv/PS-BookingService/internal/api/handlers/create_review"
	getAvailableSlotsHandler "github.com/proserv/PS-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/proserv/PS-BookingService/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/proserv/PS-BookingService/internal/api/handlers/get_booking_history"
	getClientBookingsHandler "github.com/proserv/PS-BookingService/internal/api/handlers/get_client_bookings"
	getProfessionalBookingsHandler "github.com/proserv/PS-BookingService/internal/api/handlers/get_professional_bookings"
	getReservationHandler "github.com/proserv/PS-BookingService/internal/api/handlers/get_reservation"
	startReservationHandler "github.com/proserv/PS-BookingService/internal/api/handlers/start_reservation"
	submitStepHandler "github.com/proserv/PS-BookingService/internal/api/handlers/submit_step"
	transitionBookingHandler "github.com/proserv/PS-BookingService/internal/api/handlers/transition_booking"
	updateScheduleHandler "github.com/proserv/PS-BookingService/internal/api/handlers/update_schedule"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/config"
	"github.com/proserv/PS-BookingService/internal/infra/events"
	"github.com/proserv/PS-BookingService/internal/infra/holds"
	"github.com/proserv/PS-BookingService/internal/infra/sessions"
	availabilityRepo "github.com/proserv/PS-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/proserv/PS-BookingService/internal/infra/storage/booking"
	reviewRepo "github.com/proserv/PS-BookingService/internal/infra/storage/review"
	paymentClient "github.com/proserv/PS-BookingService/internal/integrations/paymentservice"
	lifecycleService "github.com/proserv/PS-BookingService/internal/service/lifecycle"
	reservationService "github.com/proserv/PS-BookingService/internal/service/reservation"
	reviewsService "github.com/proserv/PS-BookingService/internal/service/reviews"
	scheduleService "github.com/proserv/PS-BookingService/internal/service/schedule"
	confirmReservationUC "github.com/proserv/PS-BookingService/internal/usecase/confirm_reservation"
	getAvailableSlotsUC "github.com/proserv/PS-BookingService/internal/usecase/get_available_slots"
	"github.com/proserv/PS-BookingService/pkg/dbmetrics"
	"github.com/proserv/PS-BookingService/pkg/logger"
	"github.com/proserv/PS-BookingService/pkg/metrics"
	"github.com/proserv/PS-BookingService/pkg/simpletxmanager"
	"github.com/proserv/PS-BookingService/pkg/txmanager"
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

	log.Info("Starting PS-BookingService...")
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

	// Подключаемся к Redis (холды слотов и сессии резервирования)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	holdStore := holds.NewStore(redisClient, time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute)
	sessionStore := sessions.NewStore(redisClient, time.Duration(cfg.Booking.SessionTTLMinutes)*time.Minute)

	// Инициализируем издателя событий жизненного цикла
	type EventPublisher interface {
		Publish(ctx context.Context, event events.LifecycleEvent) error
	}
	var eventPublisher EventPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		eventPublisher = kafkaPublisher
		log.Info("Kafka event publisher initialized (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		eventPublisher = events.NopPublisher{}
		log.Info("Kafka disabled, lifecycle events will be dropped")
	}

	// Инициализируем клиента платежного сервиса
	payments := paymentClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Payment client initialized (url=%s, timeout=%ds)",
		cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		reviewRepository       *reviewRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		reviewRepository = reviewRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		reviewRepository = reviewRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	lifecycleSvc := lifecycleService.NewService(
		bookingRepository,
		payments,
		eventPublisher,
		txMgr,
		log,
	)
	reservationSvc := reservationService.NewService(
		sessionStore,
		holdStore,
		availabilityRepository,
		log,
	)
	reviewsSvc := reviewsService.NewService(
		reviewRepository,
		bookingRepository,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		availabilityRepository,
		bookingRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilityRepository,
		holdStore,
		log,
	)
	confirmReservationUseCase := confirmReservationUC.NewUseCase(
		reservationSvc,
		bookingRepository,
		eventPublisher,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	startReservation := startReservationHandler.NewHandler(reservationSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	submitStep := submitStepHandler.NewHandler(reservationSvc, log)
	backStep := backStepHandler.NewHandler(reservationSvc, log)
	confirmReservation := confirmReservationHandler.NewHandler(confirmReservationUseCase, log)
	getBooking := getBookingHandler.NewHandler(lifecycleSvc, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(lifecycleSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(lifecycleSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(lifecycleSvc, log)
	getProfessionalBookings := getProfessionalBookingsHandler.NewHandler(lifecycleSvc, log)
	createReview := createReviewHandler.NewHandler(reviewsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Все маршруты требуют идентификации через X-User-ID и X-User-Role
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание ---
	// Слоты профессионала в диапазоне дат
	protected.HandleFunc("/professionals/{professionalId}/slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Замена расписания профессионала на дату
	protected.HandleFunc("/professionals/{professionalId}/slots",
		updateSchedule.Handle).Methods(http.MethodPut)

	// --- Мастер резервирования ---
	// Открытие сессии резервирования
	protected.HandleFunc("/reservations", startReservation.Handle).Methods(http.MethodPost)

	// Текущее состояние сессии
	protected.HandleFunc("/reservations/{sessionId}", getReservation.Handle).Methods(http.MethodGet)

	// Отправка данных текущего шага
	protected.HandleFunc("/reservations/{sessionId}/steps", submitStep.Handle).Methods(http.MethodPost)

	// Возврат на предыдущий шаг
	protected.HandleFunc("/reservations/{sessionId}/back", backStep.Handle).Methods(http.MethodPost)

	// Подтверждение: черновик становится бронированием
	protected.HandleFunc("/reservations/{sessionId}/confirm", confirmReservation.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// История статусов бронирования
	protected.HandleFunc("/bookings/{bookingId}/history", getBookingHistory.Handle).Methods(http.MethodGet)

	// Переход статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/transition", transitionBooking.Handle).Methods(http.MethodPost)

	// Отзыв о завершенном бронировании
	protected.HandleFunc("/bookings/{bookingId}/review", createReview.Handle).Methods(http.MethodPost)

	// --- Списки бронирований ---
	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// Бронирования профессионала с фильтрацией
	protected.HandleFunc("/professionals/{professionalId}/bookings",
		getProfessionalBookings.Handle).Methods(http.MethodGet)

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
