package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pipeline "github.com/Taze00/chess-coach/internal/analysis"
	"github.com/Taze00/chess-coach/internal/analysis/classify"
	"github.com/Taze00/chess-coach/internal/bootstrap"
	domain "github.com/Taze00/chess-coach/internal/domain/analysis"
	"github.com/Taze00/chess-coach/internal/domain/game"
	"github.com/Taze00/chess-coach/internal/engine"
	apperrors "github.com/Taze00/chess-coach/internal/errors"
	"github.com/Taze00/chess-coach/internal/progress"
)

// AnalysisStore is what the orchestration needs from persistence.
type AnalysisStore interface {
	SaveGame(ctx context.Context, g game.Game) (string, error)
	GetUnanalyzedGames(ctx context.Context, userID string) ([]game.Game, error)
	MarkGameAnalyzed(ctx context.Context, gameID string) error
	SaveErrorRecords(ctx context.Context, userID, gameID string, records []domain.ErrorRecord) error
	IncrementWeeklyStats(ctx context.Context, userID string, errType domain.Severity, week string) error
	ListErrors(ctx context.Context, userID string, filter domain.ErrorFilter) ([]domain.StoredError, error)
	GetErrorsByUser(ctx context.Context, userID string) ([]domain.StoredError, error)
	GetErrorByID(ctx context.Context, id string) (domain.StoredError, error)
}

// Oracle is one engine session: the pipeline contract plus lifecycle.
type Oracle interface {
	pipeline.Oracle
	NewGame() error
	Close() error
}

// OracleFactory opens a fresh engine session. One session is opened per
// concurrently analyzed game and closed on every exit path; sessions are
// never shared between games.
type OracleFactory func() (Oracle, error)

// EngineFactory builds the production factory around the configured UCI
// binary.
func EngineFactory(cfg *bootstrap.Config, log *zap.SugaredLogger) OracleFactory {
	return func() (Oracle, error) {
		timeout := time.Duration(cfg.EngineTimeoutSec) * time.Second
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		return engine.New(cfg.EnginePath, cfg.EngineDepth, timeout, log)
	}
}

type AnalysisUseCase struct {
	cfg        *bootstrap.Config
	log        *zap.SugaredLogger
	store      AnalysisStore
	progress   progress.Store
	newOracle  OracleFactory
	thresholds classify.Thresholds
}

func NewAnalysisUseCase(cfg *bootstrap.Config, log *zap.SugaredLogger, store AnalysisStore, progressStore progress.Store, factory OracleFactory) *AnalysisUseCase {
	thresholds := classify.Thresholds{
		Blunder:    cfg.BlunderThreshold,
		Mistake:    cfg.MistakeThreshold,
		Inaccuracy: cfg.InaccuracyThreshold,
	}
	if thresholds.Blunder == 0 || thresholds.Mistake == 0 || thresholds.Inaccuracy == 0 {
		thresholds = classify.Default()
	}
	return &AnalysisUseCase{
		cfg:        cfg,
		log:        log,
		store:      store,
		progress:   progressStore,
		newOracle:  factory,
		thresholds: thresholds,
	}
}

// RunSummary reports the outcome of one analysis run.
type RunSummary struct {
	RunID         string `json:"run_id"`
	GamesAnalyzed int    `json:"games_analyzed"`
	ErrorsFound   int    `json:"errors_found"`
}

// ImportGame registers a finished game for later analysis.
func (u *AnalysisUseCase) ImportGame(ctx context.Context, g game.Game) (string, error) {
	return u.store.SaveGame(ctx, g)
}

// AnalyzeUserGames runs the pipeline over every unanalyzed game of the
// user, with one engine session per game and bounded parallelism. Progress
// snapshots are advisory and keyed by user. Any engine failure aborts the
// whole run and leaves the affected games unanalyzed.
func (u *AnalysisUseCase) AnalyzeUserGames(ctx context.Context, userID, colorName string) (*RunSummary, error) {
	color, err := game.ParseColor(colorName)
	if err != nil {
		return nil, err
	}

	games, err := u.store.GetUnanalyzedGames(ctx, userID)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	summary := &RunSummary{RunID: runID}

	var mu sync.Mutex
	completed := 0

	publish := func(snap progress.Snapshot) {
		snap.RunID = runID
		snap.TotalGames = len(games)
		if err := u.progress.Set(ctx, userID, snap); err != nil {
			u.log.Warnw("progress snapshot dropped", "error", err)
		}
	}

	if len(games) == 0 {
		publish(progress.Snapshot{Status: progress.StatusDone, CurrentAction: "nothing to analyze"})
		return summary, nil
	}

	publish(progress.Snapshot{Status: progress.StatusRunning, CurrentAction: "starting analysis"})

	eg, gctx := errgroup.WithContext(ctx)
	limit := u.cfg.MaxConcurrentGames
	if limit <= 0 {
		limit = 1
	}
	eg.SetLimit(limit)

	for _, gm := range games {
		gm := gm
		eg.Go(func() error {
			result, err := u.analyzeOne(gctx, gm, color, publish)
			if err != nil {
				return err
			}

			if err := u.persistResult(gctx, userID, gm, result); err != nil {
				return err
			}

			mu.Lock()
			completed++
			summary.GamesAnalyzed = completed
			summary.ErrorsFound += len(result.Records)
			publish(progress.Snapshot{
				Status:        progress.StatusRunning,
				CurrentGame:   completed,
				ErrorsFound:   summary.ErrorsFound,
				CurrentAction: fmt.Sprintf("analyzed %d/%d games", completed, len(games)),
			})
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		publish(progress.Snapshot{Status: progress.StatusFailed, CurrentAction: err.Error()})
		return nil, err
	}

	publish(progress.Snapshot{
		Status:        progress.StatusDone,
		CurrentGame:   completed,
		ErrorsFound:   summary.ErrorsFound,
		CurrentAction: "analysis complete",
	})
	return summary, nil
}

// analyzeOne runs the pipeline for a single game inside its own engine
// session. A malformed PGN yields an empty result instead of failing: zero
// errors is the valid outcome for an unparsable game.
func (u *AnalysisUseCase) analyzeOne(ctx context.Context, gm game.Game, color chess.Color, publish func(progress.Snapshot)) (*domain.GameAnalysisResult, error) {
	pgnOpt, err := chess.PGN(strings.NewReader(gm.PGN))
	if err != nil {
		u.log.Warnw("unparsable game, recording empty analysis",
			"game_id", gm.ID,
			"error", fmt.Errorf("%w: %v", apperrors.ErrUnparsableGame, err),
		)
		return &domain.GameAnalysisResult{Records: []domain.ErrorRecord{}}, nil
	}
	parsed := chess.NewGame(pgnOpt)

	oracle, err := u.newOracle()
	if err != nil {
		return nil, err
	}
	defer oracle.Close()

	if err := oracle.NewGame(); err != nil {
		return nil, err
	}

	sink := progress.SinkFunc(func(_ context.Context, snap progress.Snapshot) {
		snap.CurrentAction = fmt.Sprintf("analyzing game %s", gm.ID)
		publish(snap)
	})

	pipe := pipeline.NewPipeline(oracle, u.thresholds, sink, u.log)
	return pipe.Analyze(ctx, parsed.Positions()[0], parsed.Moves(), color)
}

func (u *AnalysisUseCase) persistResult(ctx context.Context, userID string, gm game.Game, result *domain.GameAnalysisResult) error {
	if err := u.store.SaveErrorRecords(ctx, userID, gm.ID, result.Records); err != nil {
		return err
	}
	if err := u.store.MarkGameAnalyzed(ctx, gm.ID); err != nil {
		return err
	}

	week := isoWeek(gm.PlayedAt)
	for _, rec := range result.Records {
		if err := u.store.IncrementWeeklyStats(ctx, userID, rec.ErrorType, week); err != nil {
			return err
		}
	}
	return nil
}

func isoWeek(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, week)
}

// Progress returns the latest advisory snapshot for the user's run.
func (u *AnalysisUseCase) Progress(ctx context.Context, userID string) (progress.Snapshot, error) {
	return u.progress.Get(ctx, userID)
}

func (u *AnalysisUseCase) ListErrors(ctx context.Context, userID string, filter domain.ErrorFilter) ([]domain.StoredError, error) {
	return u.store.ListErrors(ctx, userID, filter)
}

func (u *AnalysisUseCase) GetError(ctx context.Context, id string) (domain.StoredError, error) {
	return u.store.GetErrorByID(ctx, id)
}

// UserStatistics aggregates everything stored for the user, bucketed by
// game phase for the reporting consumers.
type UserStatistics struct {
	Stats  domain.Statistics   `json:"stats"`
	Phases domain.PhaseBuckets `json:"phases"`
}

func (u *AnalysisUseCase) Statistics(ctx context.Context, userID string) (*UserStatistics, error) {
	stored, err := u.store.GetErrorsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	records := make([]domain.ErrorRecord, 0, len(stored))
	for _, s := range stored {
		records = append(records, s.ErrorRecord)
	}

	return &UserStatistics{
		Stats:  domain.ComputeStatistics(records),
		Phases: domain.BucketByPhase(records),
	}, nil
}
