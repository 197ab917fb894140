package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tapin/internal/auth"
	"tapin/internal/broker"
	"tapin/internal/config"
	"tapin/internal/db"
	"tapin/internal/kitchen"
	"tapin/internal/logger"
	"tapin/internal/menu"
	"tapin/internal/receipt"
	"tapin/internal/router"
	"tapin/internal/settings"
	"tapin/internal/split"
	"tapin/internal/storage"
	"tapin/internal/ticket"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// stores is one backend's set of repositories.
type stores struct {
	users    auth.UserRepository
	menu     menu.Repository
	tickets  ticket.Store
	kitchen  kitchen.Store
	receipts receipt.Store
	settings settings.Store
	close    func()
}

func main() {
	ctx := context.Background()

	// ───────────────────────── ENV ─────────────────────────
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Output:      "stdout",
		Component:   "api",
		Environment: cfg.AppEnv,
	})
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ───────────────────────── STORES ─────────────────────────
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("store init failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer st.close()

	// ───────────────────────── BROKER (optional) ─────────────────────────
	var publisher kitchen.Publisher = kitchen.NopPublisher{}
	health := map[string]func() error{}

	if cfg.AMQPURL != "" {
		mq, err := broker.Dial(cfg.AMQPURL)
		if err != nil {
			log.Error("rabbitmq dial failed", "error", err)
			os.Exit(1)
		}
		defer mq.Close()

		if err := mq.DeclareTopology(); err != nil {
			log.Error("rabbitmq topology failed", "error", err)
			os.Exit(1)
		}
		publisher = mq
		health["broker"] = mq.Ping
		log.Info("kitchen events enabled")
	}

	// ───────────────────────── ARCHIVE (optional) ─────────────────────────
	var archive receipt.Archiver
	if cfg.ArchiveEnabled() {
		r2, err := storage.NewR2Client(ctx, storage.R2Config{
			Endpoint:      cfg.R2Endpoint,
			AccessKey:     cfg.R2AccessKey,
			SecretKey:     cfg.R2SecretKey,
			Bucket:        cfg.R2Bucket,
			PublicBaseURL: cfg.R2PublicBaseURL,
		})
		if err != nil {
			log.Error("R2 init failed", "error", err)
			os.Exit(1)
		}
		archive = r2
		log.Info("receipt archive enabled", "bucket", cfg.R2Bucket)
	}

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	authService := auth.NewService(st.users)
	menuService := menu.NewService(st.menu)
	settingsService := settings.NewService(st.settings)

	kitchenService, err := kitchen.NewService(st.kitchen, publisher, cfg.NodeID, log)
	if err != nil {
		log.Error("kitchen init failed", "error", err)
		os.Exit(1)
	}

	ticketService := ticket.NewService(st.tickets, menuService, kitchenService, log)
	receiptService := receipt.NewService(st.receipts, st.tickets, settingsService, archive, log)
	splitService := split.NewService(st.tickets, receiptService, settingsService, log)

	if cfg.AdminPIN != "" {
		admin, err := authService.BootstrapAdmin(ctx, cfg.AdminName, cfg.AdminPIN)
		if err != nil {
			log.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
		if admin != nil {
			log.Info("bootstrap admin created", "name", admin.Name)
		}
	}

	// ───────────────────────── HTTP ─────────────────────────
	r := router.NewRouter(router.Deps{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Auth:        auth.NewHandler(authService),
		Menu:        menu.NewHandler(menuService),
		Tickets:     ticket.NewHandler(ticketService, settingsService),
		Split:       split.NewHandler(splitService),
		Kitchen:     kitchen.NewHandler(kitchenService),
		Receipts:    receipt.NewHandler(receiptService),
		Settings:    settings.NewHandler(settingsService),
		Health:      health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API listening", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// ───────────────────────── SHUTDOWN ─────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return postgresStores(pool), nil

	case config.BackendFirestore:
		client, err := db.ConnectFirestore(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, err
		}
		return firestoreStores(client), nil
	}

	log.Warn("using in-memory stores; data is lost on restart")
	return &stores{
		users:    auth.NewInMemoryUserRepository(),
		menu:     menu.NewInMemoryRepository(menu.Starter()...),
		tickets:  ticket.NewInMemoryStore(),
		kitchen:  kitchen.NewInMemoryStore(),
		receipts: receipt.NewInMemoryStore(),
		settings: settings.NewInMemoryStore(),
		close:    func() {},
	}, nil
}

func postgresStores(pool *pgxpool.Pool) *stores {
	return &stores{
		users:    auth.NewPostgresUserRepository(pool),
		menu:     menu.NewPostgresRepository(pool),
		tickets:  ticket.NewPostgresStore(pool),
		kitchen:  kitchen.NewPostgresStore(pool),
		receipts: receipt.NewPostgresStore(pool),
		settings: settings.NewPostgresStore(pool),
		close:    pool.Close,
	}
}

func firestoreStores(client *firestore.Client) *stores {
	return &stores{
		users:    auth.NewFirestoreUserRepository(client),
		menu:     menu.NewFirestoreRepository(client),
		tickets:  ticket.NewFirestoreStore(client),
		kitchen:  kitchen.NewFirestoreStore(client),
		receipts: receipt.NewFirestoreStore(client),
		settings: settings.NewFirestoreStore(client),
		close:    func() { _ = client.Close() },
	}
}
