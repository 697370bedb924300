// Package analysis walks a finished game move by move, consults the
// evaluation oracle, classifies the analyzed player's moves and emits
// explainable error records.
package analysis

import (
	"context"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/Taze00/chess-coach/internal/analysis/board"
	"github.com/Taze00/chess-coach/internal/analysis/classify"
	"github.com/Taze00/chess-coach/internal/analysis/detect"
	"github.com/Taze00/chess-coach/internal/analysis/explain"
	"github.com/Taze00/chess-coach/internal/analysis/simulate"
	domain "github.com/Taze00/chess-coach/internal/domain/analysis"
	"github.com/Taze00/chess-coach/internal/engine"
	apperrors "github.com/Taze00/chess-coach/internal/errors"
	"github.com/Taze00/chess-coach/internal/progress"
)

// Oracle is the evaluation contract of the external engine. Scores come
// from the perspective of the side to move in the supplied position; the
// pipeline reframes them to the analyzed player's perspective itself.
type Oracle interface {
	Evaluate(pos *chess.Position) (engine.Score, error)
	BestMove(pos *chess.Position) (*chess.Move, error)
}

// Pipeline analyzes one game at a time against one oracle instance. All
// oracle queries are sequential; the pipeline is not safe for concurrent
// use — run one pipeline (and one oracle) per game.
type Pipeline struct {
	oracle     Oracle
	thresholds classify.Thresholds
	sink       progress.Sink
	log        *zap.SugaredLogger
}

func NewPipeline(oracle Oracle, thresholds classify.Thresholds, sink progress.Sink, log *zap.SugaredLogger) *Pipeline {
	if sink == nil {
		sink = progress.Discard
	}
	return &Pipeline{oracle: oracle, thresholds: thresholds, sink: sink, log: log}
}

// Analyze walks the move list, querying the oracle only on the analyzed
// player's plies. An empty move list is a valid, vacuous game. Any oracle
// failure aborts the run: a partial record set is never returned.
func (p *Pipeline) Analyze(ctx context.Context, start *chess.Position, moves []*chess.Move, player chess.Color) (*domain.GameAnalysisResult, error) {
	if player != chess.White && player != chess.Black {
		return nil, apperrors.ErrAmbiguousColor
	}

	if start == nil {
		start = chess.StartingPosition()
	}

	records := make([]domain.ErrorRecord, 0)
	pos := start

	for i, move := range moves {
		ply := i + 1

		if pos.Turn() != player {
			pos = pos.Update(move)
			continue
		}

		record, after, err := p.analyzePly(pos, move, ply, player)
		if err != nil {
			return nil, err
		}
		if record != nil {
			records = append(records, *record)
		}
		pos = after

		p.sink.Publish(ctx, progress.Snapshot{
			Status:      progress.StatusRunning,
			CurrentPly:  ply,
			TotalPlies:  len(moves),
			ErrorsFound: len(records),
		})
	}

	return &domain.GameAnalysisResult{
		Records: records,
		Stats:   domain.ComputeStatistics(records),
		Phases:  domain.BucketByPhase(records),
	}, nil
}

// analyzePly evaluates one move of the analyzed player and builds an error
// record when the loss qualifies.
func (p *Pipeline) analyzePly(pos *chess.Position, move *chess.Move, ply int, player chess.Color) (*domain.ErrorRecord, *chess.Position, error) {
	scoreBefore, err := p.oracle.Evaluate(pos)
	if err != nil {
		return nil, nil, err
	}
	best, err := p.oracle.BestMove(pos)
	if err != nil {
		return nil, nil, err
	}

	after := pos.Update(move)

	scoreAfter, err := p.evaluateAfter(after)
	if err != nil {
		return nil, nil, err
	}

	// The player was to move before and the opponent is to move after, so
	// the post-move score flips sign in the player's frame.
	signedBefore := scoreBefore.Centipawns()
	signedAfter := -scoreAfter.Centipawns()
	loss := signedBefore - signedAfter

	severity := p.thresholds.Classify(loss)
	if severity == domain.SeverityNone {
		return nil, after, nil
	}

	// The best move's motifs say why it was better; the simulation of the
	// played move says what goes wrong.
	bestPatterns := detect.Patterns(pos, best)
	sim, err := simulate.Run(p.oracle, pos, move)
	if err != nil {
		return nil, nil, err
	}

	facts := p.buildFacts(pos, move, best, ply, player, scoreBefore, bestPatterns, sim, severity, loss)

	record := &domain.ErrorRecord{
		MoveNumber:       ply,
		Position:         pos.String(),
		MovePlayed:       move.String(),
		BestMove:         best.String(),
		EvaluationBefore: float64(signedBefore) / 100,
		EvaluationAfter:  float64(signedAfter) / 100,
		CentipawnLoss:    loss,
		ErrorType:        severity,
		TacticalPatterns: mergePatterns(bestPatterns, sim.ReplyPatterns),
		Explanation:      explain.Compose(facts),
	}
	if len(record.TacticalPatterns) > 0 {
		record.TacticalPattern = record.TacticalPatterns[0]
	}

	p.log.Infow("error recorded",
		"ply", ply,
		"move", record.MovePlayed,
		"severity", severity,
		"centipawn_loss", loss,
	)

	return record, after, nil
}

// evaluateAfter skips the oracle on terminal positions: a delivered mate is
// a known score, and engines return no usable evaluation for it.
func (p *Pipeline) evaluateAfter(after *chess.Position) (engine.Score, error) {
	switch after.Status() {
	case chess.Checkmate:
		// Side to move is mated.
		return engine.Score{Kind: engine.MateIn, Value: 0}, nil
	case chess.Stalemate:
		return engine.Score{Kind: engine.Centipawns, Value: 0}, nil
	default:
		return p.oracle.Evaluate(after)
	}
}

func (p *Pipeline) buildFacts(
	pos *chess.Position,
	move, best *chess.Move,
	ply int,
	player chess.Color,
	scoreBefore engine.Score,
	bestPatterns []domain.TacticalPattern,
	sim *simulate.Report,
	severity domain.Severity,
	loss int,
) explain.Facts {
	mateIn := scoreBefore.MateFor()

	return explain.Facts{
		MoveNumber:      ply,
		PlayedMove:      move.String(),
		BestMove:        best.String(),
		MateIn:          mateIn,
		PlayedMate:      mateIn > 0 && move.String() == best.String(),
		CastleAvailable: castleAvailable(pos),
		KingOnStartFile: kingOnStartFile(pos, player),
		PlayedIsCastle:  isCastle(move),
		BestIsCastle:    isCastle(best),
		BestPatterns:    bestPatterns,
		BestCaptureName: captureName(pos, best),
		BestGivesCheck:  best.HasTag(chess.Check),
		Sim:             sim,
		Severity:        severity,
		CentipawnLoss:   loss,
	}
}

func isCastle(move *chess.Move) bool {
	return move.HasTag(chess.KingSideCastle) || move.HasTag(chess.QueenSideCastle)
}

func castleAvailable(pos *chess.Position) bool {
	for _, m := range pos.ValidMoves() {
		if isCastle(m) {
			return true
		}
	}
	return false
}

func kingOnStartFile(pos *chess.Position, player chess.Color) bool {
	kingSq, ok := board.KingSquare(pos, player)
	return ok && kingSq.File() == chess.FileE
}

func captureName(pos *chess.Position, move *chess.Move) string {
	if !move.HasTag(chess.Capture) {
		return ""
	}
	victim := pos.Board().Piece(move.S2())
	if victim == chess.NoPiece {
		return "pawn" // en passant
	}
	return board.PieceName(victim.Type())
}

// mergePatterns keeps the best move's motifs first, then appends reply
// motifs not already present. Priority order within each list is preserved.
func mergePatterns(primary, secondary []domain.TacticalPattern) []domain.TacticalPattern {
	merged := make([]domain.TacticalPattern, 0, len(primary)+len(secondary))
	seen := make(map[domain.TacticalPattern]bool)
	for _, list := range [][]domain.TacticalPattern{primary, secondary} {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				merged = append(merged, p)
			}
		}
	}
	return merged
}
