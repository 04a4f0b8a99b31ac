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

	deactivateKeyHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/deactivate_key"
	deleteKeyHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/delete_key"
	extendKeyHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/extend_key"
	generateKeyHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/generate_key"
	listKeysHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/list_keys"
	verifyKeyHandler "github.com/m04kA/WB-SupplyBot/internal/api/handlers/verify_key"
	"github.com/m04kA/WB-SupplyBot/internal/config"
	keyRepo "github.com/m04kA/WB-SupplyBot/internal/infra/storage/licensekeys"
	licensesService "github.com/m04kA/WB-SupplyBot/internal/service/licenses"
	"github.com/m04kA/WB-SupplyBot/pkg/logger"
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

	log.Info("Starting WB-SupplyBot license server...")

	if cfg.LicenseServer.AdminPassword == "" {
		log.Fatal("Admin password is not configured")
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозиторий и сервис лицензий
	repository := keyRepo.NewRepository(db)
	service := licensesService.NewService(repository, cfg.LicenseServer.AdminPassword, nil, log)

	// Инициализируем handlers
	generateKey := generateKeyHandler.NewHandler(service, log)
	listKeys := listKeysHandler.NewHandler(service, log)
	deactivateKey := deactivateKeyHandler.NewHandler(service, log)
	extendKey := extendKeyHandler.NewHandler(service, log)
	deleteKey := deleteKeyHandler.NewHandler(service, log)
	verifyKey := verifyKeyHandler.NewHandler(service, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Административные операции защищены паролем в теле запроса
	r.HandleFunc("/admin/generate-key", generateKey.Handle).Methods(http.MethodPost)
	r.HandleFunc("/admin/list-keys", listKeys.Handle).Methods(http.MethodPost)
	r.HandleFunc("/admin/deactivate-key", deactivateKey.Handle).Methods(http.MethodPost)
	r.HandleFunc("/admin/extend-key", extendKey.Handle).Methods(http.MethodPost)
	r.HandleFunc("/admin/delete-key", deleteKey.Handle).Methods(http.MethodPost)

	// Публичная проверка ключа расширением
	r.HandleFunc("/api/verify-license", verifyKey.Handle).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.LicenseServer.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting license server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down license server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("License server stopped gracefully")
}
