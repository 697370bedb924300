package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Taze00/chess-coach/internal/adapters"
	"github.com/Taze00/chess-coach/internal/bootstrap"
	analysisDelivery "github.com/Taze00/chess-coach/internal/delivery/analysis"
	ownMiddleware "github.com/Taze00/chess-coach/internal/middleware"
	"github.com/Taze00/chess-coach/internal/progress"
	"github.com/Taze00/chess-coach/internal/repository"
	analysisUsecase "github.com/Taze00/chess-coach/internal/usecase/analysis"
)

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(ctx)
	defer databaseAdapters.redisAdapter.Close(ctx)

	repo := repository.NewAnalysisRepository(cfg, logger, databaseAdapters.mongoAdapter.Database)
	progressStore := progress.NewRedisStore(databaseAdapters.redisAdapter.GetClient())
	usecase := analysisUsecase.NewAnalysisUseCase(cfg, logger, repo, progressStore, analysisUsecase.EngineFactory(cfg, logger))
	handler := analysisDelivery.NewAnalysisHandler(cfg, logger, usecase)

	r := chi.NewRouter()
	Router(r, handler, cfg.IsLocalCors)

	port := ":" + cfg.ServerPort
	logger.Infof("Server is running on port %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func Router(r *chi.Mux, h *analysisDelivery.AnalysisHandler, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)

	r.Post("/api/games", h.HandleImportGame)
	r.Post("/api/analyze", h.HandleAnalyzeGames)
	r.Get("/api/analysis/progress", h.HandleProgress)
	r.Get("/api/analysis/progress/ws", h.HandleProgressWS)
	r.Get("/api/errors", h.HandleListErrors)
	r.Get("/api/errors/{id}", h.HandleErrorByID)
	r.Get("/api/stats", h.HandleStatistics)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("Failed to initialize Redis", zap.Error(err))
	}

	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
	time.Sleep(1 * time.Second) // give connections time to close
}
