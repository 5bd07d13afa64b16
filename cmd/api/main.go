package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/billsplit/docs"
	"github.com/fkhayef/billsplit/internal/config"
	"github.com/fkhayef/billsplit/internal/database"
	"github.com/fkhayef/billsplit/internal/order"
	"github.com/fkhayef/billsplit/internal/receipt"
	"github.com/fkhayef/billsplit/internal/reminder"
	"github.com/fkhayef/billsplit/internal/split"
	"github.com/fkhayef/billsplit/internal/storage"
	"github.com/fkhayef/billsplit/internal/user"
	"github.com/fkhayef/billsplit/pkg/logger"
	mw "github.com/fkhayef/billsplit/pkg/middleware"
)

// @title        Bill Splitter API
// @version      1.0
// @description  Upload receipts, assign items to people and split the bill.
// @BasePath     /api
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Info("No .env file found, using environment variables")
	}

	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection and schema
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Info("Connected to database successfully")

	// External collaborators: image storage, receipt parser, reminder gateway
	store, err := storage.NewS3Store(context.Background(), storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		BaseURL:   cfg.StorageBaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	parser := receipt.NewHTTPClient(cfg.ParserURL)
	sender := reminder.NewLogSender()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Order feature (with receipt intake collaborators injected)
	orderRepo := order.NewRepository(db)
	orderService := order.NewService(orderRepo, userRepo, store, parser)
	orderHandler := order.NewHandler(orderService)

	// Split feature (calculator wired behind the bulk endpoint)
	splitRepo := split.NewRepository(db)
	splitService := split.NewService(splitRepo, orderRepo, userRepo, sender)
	splitHandler := split.NewHandler(splitService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/orders", orderHandler.Routes())
		r.Mount("/splits", splitHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Infof("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
