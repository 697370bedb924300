package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Taze00/chess-coach/internal/bootstrap"
	domain "github.com/Taze00/chess-coach/internal/domain/analysis"
	"github.com/Taze00/chess-coach/internal/domain/game"
	apperrors "github.com/Taze00/chess-coach/internal/errors"
)

// AnalysisRepository persists imported games, their error records and the
// weekly error statistics in MongoDB. Each ErrorRecord field maps 1:1 onto
// a stored document field.
type AnalysisRepository struct {
	log       *zap.SugaredLogger
	games     *mongo.Collection
	errors    *mongo.Collection
	stats     *mongo.Collection
	pageLimit int64
}

func NewAnalysisRepository(cfg *bootstrap.Config, log *zap.SugaredLogger, db *mongo.Database) *AnalysisRepository {
	limit := int64(cfg.PageLimitErrors)
	if limit <= 0 {
		limit = 50
	}
	return &AnalysisRepository{
		log:       log,
		games:     db.Collection("games"),
		errors:    db.Collection("errors"),
		stats:     db.Collection("error_stats"),
		pageLimit: limit,
	}
}

func (r *AnalysisRepository) SaveGame(ctx context.Context, g game.Game) (string, error) {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	if _, err := r.games.InsertOne(ctx, g); err != nil {
		return "", fmt.Errorf("insert game: %w", err)
	}
	return g.ID, nil
}

func (r *AnalysisRepository) GetGameByID(ctx context.Context, gameID string) (game.Game, error) {
	var g game.Game
	err := r.games.FindOne(ctx, bson.M{"_id": gameID}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, apperrors.ErrGameNotFound
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("find game: %w", err)
	}
	return g, nil
}

func (r *AnalysisRepository) GetUnanalyzedGames(ctx context.Context, userID string) ([]game.Game, error) {
	cursor, err := r.games.Find(ctx, bson.M{"user_id": userID, "analyzed": false})
	if err != nil {
		return nil, fmt.Errorf("find unanalyzed games: %w", err)
	}
	defer cursor.Close(ctx)

	var games []game.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	return games, nil
}

func (r *AnalysisRepository) MarkGameAnalyzed(ctx context.Context, gameID string) error {
	res, err := r.games.UpdateOne(ctx,
		bson.M{"_id": gameID},
		bson.M{"$set": bson.M{"analyzed": true}},
	)
	if err != nil {
		return fmt.Errorf("mark game analyzed: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrGameNotFound
	}
	return nil
}

func (r *AnalysisRepository) SaveErrorRecords(ctx context.Context, userID, gameID string, records []domain.ErrorRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	now := time.Now()
	for _, rec := range records {
		docs = append(docs, domain.StoredError{
			ID:          uuid.New().String(),
			UserID:      userID,
			GameID:      gameID,
			ErrorRecord: rec,
			CreatedAt:   now,
		})
	}

	if _, err := r.errors.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert error records: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) ListErrors(ctx context.Context, userID string, filter domain.ErrorFilter) ([]domain.StoredError, error) {
	query := bson.M{"user_id": userID}
	if filter.ErrorType != "" {
		query["error_type"] = filter.ErrorType
	}
	if filter.Pattern != "" {
		query["tactical_patterns"] = filter.Pattern
	}

	page := filter.Page
	if page < 0 {
		page = 0
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page) * r.pageLimit).
		SetLimit(r.pageLimit)

	cursor, err := r.errors.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find errors: %w", err)
	}
	defer cursor.Close(ctx)

	var stored []domain.StoredError
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, fmt.Errorf("decode errors: %w", err)
	}
	return stored, nil
}

func (r *AnalysisRepository) GetErrorsByUser(ctx context.Context, userID string) ([]domain.StoredError, error) {
	cursor, err := r.errors.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find errors: %w", err)
	}
	defer cursor.Close(ctx)

	var stored []domain.StoredError
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, fmt.Errorf("decode errors: %w", err)
	}
	return stored, nil
}

func (r *AnalysisRepository) GetErrorByID(ctx context.Context, id string) (domain.StoredError, error) {
	var stored domain.StoredError
	err := r.errors.FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.StoredError{}, apperrors.ErrErrorRecordNotFound
	}
	if err != nil {
		return domain.StoredError{}, fmt.Errorf("find error record: %w", err)
	}
	return stored, nil
}

// IncrementWeeklyStats bumps the per-week counter for one error type; the
// progress page reads these buckets.
func (r *AnalysisRepository) IncrementWeeklyStats(ctx context.Context, userID string, errType domain.Severity, week string) error {
	_, err := r.stats.UpdateOne(ctx,
		bson.M{"user_id": userID, "error_type": errType, "week": week},
		bson.M{"$inc": bson.M{"count": 1}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("increment weekly stats: %w", err)
	}
	return nil
}
