package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"checkers/internal/adapters"
	"checkers/internal/bootstrap"
	gameDelivery "checkers/internal/delivery/game"
	ownMiddleware "checkers/internal/middleware"
	repo "checkers/internal/repository"
	gameuc "checkers/internal/usecase/game"
)

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func (d *dataBaseAdapters) Close(ctx context.Context) {
	if d == nil {
		return
	}
	_ = d.mongoAdapter.Close(ctx)
	_ = d.redisAdapter.Close(ctx)
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", "error", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var databaseAdapters *dataBaseAdapters
	var gameUC *gameuc.GameUseCase

	switch cfg.StoreDriver {
	case bootstrap.StoreMemory:
		store := repo.NewMemoryGameStorage()
		gameUC = gameuc.NewGameUseCase(store, store, logger)
		logger.Info("using in-memory game storage")
	default:
		databaseAdapters = initDatabaseAdapters(ctx, logger, cfg)
		redisClient := databaseAdapters.redisAdapter.GetClient()
		gameUC = gameuc.NewGameUseCase(
			repo.NewGameRepository(*cfg, logger, redisClient, databaseAdapters.mongoAdapter.Database),
			repo.NewSelectionRedisStorage(redisClient, cfg.SelectionTTL),
			logger,
		)
	}
	defer databaseAdapters.Close(context.Background())

	r := chi.NewRouter()
	if cfg.IsLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	gameDelivery.NewGameHandler(logger, gameUC).Routes(r)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Received shutdown signal")
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("Failed to shutdown server", "error", err)
		}
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorw("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize MongoDB", "error", err)
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize Redis", "error", err)
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}
