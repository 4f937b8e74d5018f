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

	addAvailabilityHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/add_availability"
	addCartItemHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/add_cart_item"
	addClosureHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/add_closure"
	cancelBookingHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/cancel_booking"
	cancelSubscriptionHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/cancel_subscription"
	checkoutHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/checkout"
	createBookingHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/create_booking"
	createSubscriptionHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/create_subscription"
	deactivateAvailabilityHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/deactivate_availability"
	deleteClosureHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/delete_closure"
	getActiveSubscriptionHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_active_subscription"
	getAvailableSlotsHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_booking"
	getCartHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_cart"
	getFieldBookingsHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_field_bookings"
	getFieldScheduleHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_field_schedule"
	getOrderHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_order"
	getUserBookingsHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_user_bookings"
	getUserOrdersHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_user_orders"
	getUserSubscriptionsHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/get_user_subscriptions"
	removeCartItemHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/remove_cart_item"
	updateBookingStatusHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/update_booking_status"
	updateCartItemHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/update_cart_item"
	updateOrderStatusHandler "github.com/m04kA/SMC-Marketplace/internal/api/handlers/update_order_status"
	"github.com/m04kA/SMC-Marketplace/internal/api/middleware"
	"github.com/m04kA/SMC-Marketplace/internal/config"
	"github.com/m04kA/SMC-Marketplace/internal/domain"
	bookingRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/booking"
	cartRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/cart"
	fieldRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/field"
	merchantRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/merchant"
	orderRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/order"
	productRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/product"
	subscriptionRepo "github.com/m04kA/SMC-Marketplace/internal/infra/storage/subscription"
	bookingsService "github.com/m04kA/SMC-Marketplace/internal/service/bookings"
	cartService "github.com/m04kA/SMC-Marketplace/internal/service/cart"
	fieldsService "github.com/m04kA/SMC-Marketplace/internal/service/fields"
	ordersService "github.com/m04kA/SMC-Marketplace/internal/service/orders"
	subscriptionsService "github.com/m04kA/SMC-Marketplace/internal/service/subscriptions"
	checkoutUC "github.com/m04kA/SMC-Marketplace/internal/usecase/checkout"
	createBookingUC "github.com/m04kA/SMC-Marketplace/internal/usecase/create_booking"
	createSubscriptionUC "github.com/m04kA/SMC-Marketplace/internal/usecase/create_subscription"
	getAvailableSlotsUC "github.com/m04kA/SMC-Marketplace/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-Marketplace/pkg/dbmetrics"
	"github.com/m04kA/SMC-Marketplace/pkg/logger"
	"github.com/m04kA/SMC-Marketplace/pkg/metrics"
	"github.com/m04kA/SMC-Marketplace/pkg/txmanager"
)

// eventRecorder счетчик бизнес-событий, общий для use cases и сервисов
type eventRecorder interface {
	RecordEvent(event string)
}

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

	log.Info("Starting SMC-Marketplace...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (если включены)
	var metricsCollector *metrics.Metrics
	var events eventRecorder = metrics.Nop{}
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		events = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	txManager := txmanager.NewTransactionManager(wrappedDB, txmanager.WithLockTimeout(cfg.Database.LockTimeout()))

	// Репозитории
	fieldRepository := fieldRepo.NewRepository(wrappedDB)
	merchantRepository := merchantRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	subscriptionRepository := subscriptionRepo.NewRepository(wrappedDB)
	productRepository := productRepo.NewRepository(wrappedDB)
	cartRepository := cartRepo.NewRepository(wrappedDB)
	orderRepository := orderRepo.NewRepository(wrappedDB)

	// Сервисы
	fieldSvc := fieldsService.NewService(fieldRepository, merchantRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, fieldRepository, merchantRepository, txManager, log)
	subscriptionSvc := subscriptionsService.NewService(subscriptionRepository, txManager, events, log)
	cartSvc := cartService.NewService(cartRepository, productRepository, txManager, log)
	orderSvc := ordersService.NewService(orderRepository, merchantRepository, txManager, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		fieldRepository,
		bookingRepository,
		getAvailableSlotsUC.Settings{
			MaxRangeDays:       cfg.Booking.MaxRangeDays,
			DefaultSlotMinutes: cfg.Booking.DefaultSlotMinutes,
		},
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(fieldRepository, bookingRepository, txManager, events, log)
	createSubscriptionUseCase := createSubscriptionUC.NewUseCase(fieldRepository, subscriptionRepository, txManager, events, log)
	checkoutUseCase := checkoutUC.NewUseCase(cartRepository, productRepository, orderRepository, txManager, events, log)

	// Handlers
	getFieldSchedule := getFieldScheduleHandler.NewHandler(fieldSvc, log)
	addAvailability := addAvailabilityHandler.NewHandler(fieldSvc, log)
	deactivateAvailability := deactivateAvailabilityHandler.NewHandler(fieldSvc, log)
	addClosure := addClosureHandler.NewHandler(fieldSvc, log)
	deleteClosure := deleteClosureHandler.NewHandler(fieldSvc, log)

	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getFieldBookings := getFieldBookingsHandler.NewHandler(bookingSvc, log)

	createSubscription := createSubscriptionHandler.NewHandler(createSubscriptionUseCase, log)
	getUserSubscriptions := getUserSubscriptionsHandler.NewHandler(subscriptionSvc, log)
	getActiveSubscription := getActiveSubscriptionHandler.NewHandler(subscriptionSvc, log)
	cancelSubscription := cancelSubscriptionHandler.NewHandler(subscriptionSvc, log)

	getCart := getCartHandler.NewHandler(cartSvc, log)
	addCartItem := addCartItemHandler.NewHandler(cartSvc, log)
	updateCartItem := updateCartItemHandler.NewHandler(cartSvc, log)
	removeCartItem := removeCartItemHandler.NewHandler(cartSvc, log)
	checkout := checkoutHandler.NewHandler(checkoutUseCase, log)

	getOrder := getOrderHandler.NewHandler(orderSvc, log)
	getUserOrders := getUserOrdersHandler.NewHandler(orderSvc, log)
	updateOrderStatus := updateOrderStatusHandler.NewHandler(orderSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/fields/{fieldId}/schedule", getFieldSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/fields/{fieldId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/fields/{fieldId}/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Подписки ---
	protected.HandleFunc("/fields/{fieldId}/subscriptions", createSubscription.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/fields/{fieldId}/subscriptions/active", getActiveSubscription.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/subscriptions", getUserSubscriptions.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/subscriptions/{subscriptionId}/cancel", cancelSubscription.Handle).Methods(http.MethodPatch)

	// --- Корзина и заказы ---
	protected.HandleFunc("/cart", getCart.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/cart/items", addCartItem.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/cart/items/{productId}", updateCartItem.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/cart/items/{productId}", removeCartItem.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/cart/checkout", checkout.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/orders", getUserOrders.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/orders/{orderId}", getOrder.Handle).Methods(http.MethodGet)

	// ============================================================
	// MERCHANT ROUTES (владелец поля/магазина или администратор)
	// ============================================================

	merchant := protected.PathPrefix("").Subrouter()
	merchant.Use(middleware.RequireRole(domain.RoleMerchant, domain.RoleAdmin))

	merchant.HandleFunc("/fields/{fieldId}/bookings", getFieldBookings.Handle).Methods(http.MethodGet)
	merchant.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	merchant.HandleFunc("/fields/{fieldId}/availability", addAvailability.Handle).Methods(http.MethodPost)
	merchant.HandleFunc("/fields/{fieldId}/availability/{availabilityId}", deactivateAvailability.Handle).Methods(http.MethodDelete)
	merchant.HandleFunc("/fields/{fieldId}/closures", addClosure.Handle).Methods(http.MethodPost)
	merchant.HandleFunc("/fields/{fieldId}/closures/{closureId}", deleteClosure.Handle).Methods(http.MethodDelete)
	merchant.HandleFunc("/orders/{orderId}/status", updateOrderStatus.Handle).Methods(http.MethodPatch)

	// HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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
