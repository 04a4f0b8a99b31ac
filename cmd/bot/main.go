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

	activateLicenseHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/activate_license"
	getAutocatchStatusHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/get_autocatch_status"
	getCatchHistoryHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/get_catch_history"
	getRedistributeStatusHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/get_redistribute_status"
	getWarehousesHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/get_warehouses"
	scanDeliveriesHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/scan_deliveries"
	startAutocatchHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/start_autocatch"
	startRedistributeHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/start_redistribute"
	stopAutocatchHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/stop_autocatch"
	stopRedistributeHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/stop_redistribute"
	"github.com/m04kA/WB-SupplyBot/internal/api/middleware"
	"github.com/m04kA/WB-SupplyBot/internal/api/ws"
	"github.com/m04kA/WB-SupplyBot/internal/config"
	"github.com/m04kA/WB-SupplyBot/internal/infra/browser"
	catchesRepo "github.com/m04kA/WB-SupplyBot/internal/infra/storage/catches"
	stateRepo "github.com/m04kA/WB-SupplyBot/internal/infra/storage/state"
	licenseClient "github.com/m04kA/WB-SupplyBot/internal/integrations/license"
	suppliesClient "github.com/m04kA/WB-SupplyBot/internal/integrations/supplies"
	telegramClient "github.com/m04kA/WB-SupplyBot/internal/integrations/telegram"
	"github.com/m04kA/WB-SupplyBot/internal/monitor"
	"github.com/m04kA/WB-SupplyBot/internal/notify"
	"github.com/m04kA/WB-SupplyBot/internal/scrape"
	activationService "github.com/m04kA/WB-SupplyBot/internal/service/activation"
	"github.com/m04kA/WB-SupplyBot/internal/workflow/autocatch"
	"github.com/m04kA/WB-SupplyBot/internal/workflow/poller"
	"github.com/m04kA/WB-SupplyBot/internal/workflow/redistribute"
	"github.com/m04kA/WB-SupplyBot/pkg/logger"
	"github.com/m04kA/WB-SupplyBot/pkg/metrics"
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

	log.Info("Starting WB-SupplyBot...")
	log.Info("Configuration loaded from config.toml")

	// Метрики регистрируются всегда, endpoint и middleware включаются флагом
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Запускаем браузерную сессию
	session, err := browser.NewSession(browser.Options{
		Headless:    cfg.Browser.Headless,
		UserDataDir: cfg.Browser.UserDataDir,
		WindowW:     cfg.Browser.WindowW,
		WindowH:     cfg.Browser.WindowH,
	}, log)
	if err != nil {
		log.Fatal("Failed to start browser session: %v", err)
	}
	defer session.Close()

	ctx := context.Background()
	if cfg.Browser.StartURL != "" {
		if err := session.Navigate(ctx, cfg.Browser.StartURL); err != nil {
			log.Warn("Failed to open start page %s: %v", cfg.Browser.StartURL, err)
		}
	}

	// Инициализируем интеграционных клиентов
	tg := telegramClient.NewClient(
		cfg.Telegram.BotToken,
		cfg.Telegram.ChatID,
		time.Duration(cfg.Telegram.Timeout)*time.Second,
		log,
	)
	supplies := suppliesClient.NewClient(
		cfg.Portal.SuppliesAPIURL,
		cfg.Portal.APIToken,
		time.Duration(cfg.Portal.Timeout)*time.Second,
		log,
	)
	verifier := licenseClient.NewClient(
		cfg.License.VerifyURL,
		time.Duration(cfg.License.Timeout)*time.Second,
		log,
	)

	// Хранилища состояния, истории и уведомления
	store := stateRepo.NewRepository(db)
	history := catchesRepo.NewRepository(db)
	timeProvider := notify.RealTimeProvider{}
	notifier := notify.NewNotifier(tg, store, metricsCollector, timeProvider, log)

	// WebSocket-хаб доменных событий
	hub := ws.NewHub(log)

	// Контроллеры воркфлоу
	extractor := scrape.NewDateExtractor(timeProvider)
	autocatchCtl := autocatch.NewController(
		session,
		extractor,
		poller.New(poller.NewRealClock(), log),
		store,
		history,
		notifier,
		hub,
		metricsCollector,
		timeProvider,
		autocatch.DefaultDelays(),
		log,
	)
	redistributeCtl := redistribute.NewController(
		session,
		store,
		notifier,
		hub,
		metricsCollector,
		redistribute.DefaultDelays(),
		log,
	)

	// Монитор поставок
	scanner := scrape.NewDeliveryScanner(timeProvider, log)
	deliveryMonitor := monitor.New(
		session,
		scanner,
		store,
		store,
		notifier,
		metricsCollector,
		timeProvider,
		monitor.Flags{
			NotifyNewDeliveries: cfg.Monitoring.NotifyNewDelivery,
			NotifyStatusChanges: cfg.Monitoring.NotifyStatusChange,
			NotifyDeadlines:     cfg.Monitoring.NotifyDeadline,
		},
		log,
	)

	// Лицензия: восстанавливаем сохраненный ключ и резюмируем воркфлоу
	activation := activationService.NewService(verifier, store, log)
	activation.Restore(ctx)

	if err := autocatchCtl.Restore(ctx); err != nil {
		log.Warn("Failed to resume autocatch workflow: %v", err)
	}

	if cfg.Monitoring.Enabled {
		interval := time.Duration(cfg.Monitoring.IntervalMinutes) * time.Minute
		if err := deliveryMonitor.Start(ctx, interval); err != nil {
			log.Error("Failed to start delivery monitoring: %v", err)
		}
	}

	// Инициализируем handlers
	startAutocatch := startAutocatchHandler.NewHandler(autocatchCtl, log)
	stopAutocatch := stopAutocatchHandler.NewHandler(autocatchCtl, log)
	getAutocatchStatus := getAutocatchStatusHandler.NewHandler(autocatchCtl, log)
	getCatchHistory := getCatchHistoryHandler.NewHandler(history, log)
	startRedistribute := startRedistributeHandler.NewHandler(redistributeCtl, log)
	stopRedistribute := stopRedistributeHandler.NewHandler(redistributeCtl, log)
	getRedistributeStatus := getRedistributeStatusHandler.NewHandler(redistributeCtl, log)
	scanDeliveries := scanDeliveriesHandler.NewHandler(deliveryMonitor, log)
	getWarehouses := getWarehousesHandler.NewHandler(supplies, store, log)
	activateLicense := activateLicenseHandler.NewHandler(activation, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Публичные операции: активация лицензии и поток событий
	api.HandleFunc("/license/activate", activateLicense.Handle).Methods(http.MethodPost)
	api.HandleFunc("/ws", hub.Handle).Methods(http.MethodGet)

	// Автоматизация доступна только с активной лицензией
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.RequireLicense(activation))

	protected.HandleFunc("/autocatch/start", startAutocatch.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/autocatch/stop", stopAutocatch.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/autocatch/status", getAutocatchStatus.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/autocatch/history", getCatchHistory.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/redistribute/start", startRedistribute.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/redistribute/stop", stopRedistribute.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/redistribute/status", getRedistributeStatus.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/deliveries/scan", scanDeliveries.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/warehouses", getWarehouses.Handle).Methods(http.MethodGet)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	if err := autocatchCtl.Stop(ctx); err != nil && err != autocatch.ErrNotRunning {
		log.Error("Failed to stop autocatch workflow: %v", err)
	}
	if err := redistributeCtl.Stop(ctx); err != nil && err != redistribute.ErrNotRunning {
		log.Error("Failed to stop redistribute workflow: %v", err)
	}
	if err := deliveryMonitor.Stop(); err != nil {
		log.Error("Failed to stop delivery monitoring: %v", err)
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
