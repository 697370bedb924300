package analysis

import (
	"math"
	"time"
)

// Severity is the classification of a single analyzed move.
type Severity string

const (
	SeverityNone       Severity = "none"
	SeverityInaccuracy Severity = "inaccuracy"
	SeverityMistake    Severity = "mistake"
	SeverityBlunder    Severity = "blunder"
)

// TacticalPattern is a tag from the closed motif set. Lists of patterns are
// always ordered by tactical significance, never alphabetically.
type TacticalPattern string

const (
	PatternSmotheredMateThreat TacticalPattern = "smotheredMateThreat"
	PatternBackRankMateThreat  TacticalPattern = "backRankMateThreat"
	PatternDiscoveredCheck     TacticalPattern = "discoveredCheck"
	PatternFork                TacticalPattern = "fork"
	PatternPin                 TacticalPattern = "pin"
	PatternSkewer              TacticalPattern = "skewer"
	PatternDoubleAttack        TacticalPattern = "doubleAttack"
	PatternExchangeSacrifice   TacticalPattern = "exchangeSacrifice"
	PatternLineOpening         TacticalPattern = "lineOpening"
	PatternCastling            TacticalPattern = "castling"
)

// Game phase boundaries in move numbers, used for report bucketing.
const (
	OpeningMaxMove    = 15
	MiddlegameMaxMove = 40
)

// ErrorRecord describes one qualifying move of the analyzed player. It is
// created once by the pipeline and never mutated afterwards. Evaluations are
// stored in pawn units from the analyzed player's perspective; centipawn
// loss is evaluation_before - evaluation_after in that frame and is always
// at least the inaccuracy threshold.
type ErrorRecord struct {
	MoveNumber       int               `bson:"move_number" json:"move_number"`
	Position         string            `bson:"position" json:"position"` // FEN before the move
	MovePlayed       string            `bson:"move_played" json:"move_played"`
	BestMove         string            `bson:"best_move" json:"best_move"`
	EvaluationBefore float64           `bson:"evaluation_before" json:"evaluation_before"`
	EvaluationAfter  float64           `bson:"evaluation_after" json:"evaluation_after"`
	CentipawnLoss    int               `bson:"centipawn_loss" json:"centipawn_loss"`
	ErrorType        Severity          `bson:"error_type" json:"error_type"`
	TacticalPattern  TacticalPattern   `bson:"tactical_pattern,omitempty" json:"tactical_pattern,omitempty"` // legacy single tag
	TacticalPatterns []TacticalPattern `bson:"tactical_patterns,omitempty" json:"tactical_patterns,omitempty"`
	Explanation      string            `bson:"explanation" json:"explanation"`
}

// Statistics aggregates the error records of one game or one query.
type Statistics struct {
	Total            int     `bson:"total" json:"total"`
	Blunders         int     `bson:"blunders" json:"blunders"`
	Mistakes         int     `bson:"mistakes" json:"mistakes"`
	Inaccuracies     int     `bson:"inaccuracies" json:"inaccuracies"`
	AvgCentipawnLoss float64 `bson:"avg_centipawn_loss" json:"avg_centipawn_loss"`
}

// PhaseBuckets splits records into opening / middlegame / endgame by move number.
type PhaseBuckets struct {
	Opening    []ErrorRecord `json:"opening"`
	Middlegame []ErrorRecord `json:"middlegame"`
	Endgame    []ErrorRecord `json:"endgame"`
}

// GameAnalysisResult is the outbound product of one pipeline run.
type GameAnalysisResult struct {
	Records []ErrorRecord `json:"records"`
	Stats   Statistics    `json:"stats"`
	Phases  PhaseBuckets  `json:"phases"`
}

// StoredError is an ErrorRecord as persisted, tied to its game and user.
type StoredError struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	UserID      string `bson:"user_id" json:"user_id"`
	GameID      string `bson:"game_id" json:"game_id"`
	ErrorRecord `bson:",inline"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// ErrorFilter narrows stored-error queries. Zero values mean "any".
type ErrorFilter struct {
	ErrorType Severity
	Pattern   TacticalPattern
	Page      int
}

func ComputeStatistics(records []ErrorRecord) Statistics {
	if len(records) == 0 {
		return Statistics{}
	}

	var stats Statistics
	sum := 0
	for _, rec := range records {
		stats.Total++
		sum += rec.CentipawnLoss
		switch rec.ErrorType {
		case SeverityBlunder:
			stats.Blunders++
		case SeverityMistake:
			stats.Mistakes++
		case SeverityInaccuracy:
			stats.Inaccuracies++
		}
	}
	stats.AvgCentipawnLoss = math.Round(float64(sum)/float64(len(records))*100) / 100
	return stats
}

func BucketByPhase(records []ErrorRecord) PhaseBuckets {
	var buckets PhaseBuckets
	for _, rec := range records {
		switch {
		case rec.MoveNumber <= OpeningMaxMove:
			buckets.Opening = append(buckets.Opening, rec)
		case rec.MoveNumber <= MiddlegameMaxMove:
			buckets.Middlegame = append(buckets.Middlegame, rec)
		default:
			buckets.Endgame = append(buckets.Endgame, rec)
		}
	}
	return buckets
}
