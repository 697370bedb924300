// Package simulate runs the engine's one-ply consequence lookahead: apply a
// candidate move, fetch the opponent's best reply, and report what the
// reply does to the analyzed player. Deeper search is the oracle's job.
package simulate

import (
	"github.com/notnil/chess"

	"github.com/Taze00/chess-coach/internal/analysis/board"
	"github.com/Taze00/chess-coach/internal/analysis/detect"
	"github.com/Taze00/chess-coach/internal/domain/analysis"
)

// BestMover is the slice of the oracle contract the simulator needs.
type BestMover interface {
	BestMove(pos *chess.Position) (*chess.Move, error)
}

// CapturedPiece names analyzed-player material the reply takes.
type CapturedPiece struct {
	Name   string
	Square string
	Value  int
}

// ExposedPiece is an analyzed-player piece left with more attackers than
// defenders after the reply.
type ExposedPiece struct {
	Name      string
	Square    string
	Value     int
	Attackers int
	Defenders int
}

// Report collects the facts the explanation composer consumes.
type Report struct {
	Reply         *chess.Move
	Captured      *CapturedPiece
	Exposed       *ExposedPiece
	ReplyPatterns []analysis.TacticalPattern
}

// Run applies the candidate move for the side to move in pos, plays the
// opponent's best reply, and extracts material and threat facts. A terminal
// position after the candidate move yields an empty report.
func Run(oracle BestMover, pos *chess.Position, move *chess.Move) (*Report, error) {
	player := pos.Turn()
	after := pos.Update(move)

	if after.Status() != chess.NoMethod {
		return &Report{}, nil
	}

	reply, err := oracle.BestMove(after)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Reply:         reply,
		ReplyPatterns: detect.Patterns(after, reply),
	}

	if reply.HasTag(chess.Capture) {
		if victim, sq, ok := capturedBy(after, reply); ok && victim.Color() == player {
			report.Captured = &CapturedPiece{
				Name:   board.PieceName(victim.Type()),
				Square: sq.String(),
				Value:  board.Value(victim.Type()),
			}
		}
	}

	afterReply := after.Update(reply)
	report.Exposed = mostExposed(afterReply, player)

	return report, nil
}

// capturedBy resolves the victim of a capture, including en passant, where
// the captured pawn does not sit on the destination square.
func capturedBy(pos *chess.Position, move *chess.Move) (chess.Piece, chess.Square, bool) {
	sq := move.S2()
	if move.HasTag(chess.EnPassant) {
		sq = chess.Square(int(move.S1().Rank())*8 + int(move.S2().File()))
	}
	pc := pos.Board().Piece(sq)
	if pc == chess.NoPiece {
		return chess.NoPiece, sq, false
	}
	return pc, sq, true
}

// mostExposed scans the player's pieces (the king is check, not exposure)
// and returns the most valuable one attacked more often than defended.
// Squares are walked in board order so value ties resolve identically on
// every run.
func mostExposed(pos *chess.Position, player chess.Color) *ExposedPiece {
	var worst *ExposedPiece
	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := pos.Board().Piece(sq)
		if pc == chess.NoPiece || pc.Color() != player || pc.Type() == chess.King {
			continue
		}
		attackers := len(board.Attackers(pos, sq, player.Other()))
		if attackers == 0 {
			continue
		}
		defenders := len(board.Attackers(pos, sq, player))
		if attackers <= defenders {
			continue
		}
		if worst == nil || board.Value(pc.Type()) > worst.Value {
			worst = &ExposedPiece{
				Name:      board.PieceName(pc.Type()),
				Square:    sq.String(),
				Value:     board.Value(pc.Type()),
				Attackers: attackers,
				Defenders: defenders,
			}
		}
	}
	return worst
}
