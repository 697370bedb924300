// Package board implements the geometric query capability the tactical
// detectors are written against: attack sets, attacker counts and ray
// scans over a notnil/chess position. The rules engine owns legality and
// move application; this package only reads piece placement.
package board

import "github.com/notnil/chess"

// Material values for relative comparisons. The king's zero keeps it out of
// every "more valuable than" test without special-casing.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 0
)

func Value(t chess.PieceType) int {
	switch t {
	case chess.Pawn:
		return PawnValue
	case chess.Knight:
		return KnightValue
	case chess.Bishop:
		return BishopValue
	case chess.Rook:
		return RookValue
	case chess.Queen:
		return QueenValue
	default:
		return KingValue
	}
}

func PieceName(t chess.PieceType) string {
	switch t {
	case chess.Pawn:
		return "pawn"
	case chess.Knight:
		return "knight"
	case chess.Bishop:
		return "bishop"
	case chess.Rook:
		return "rook"
	case chess.Queen:
		return "queen"
	case chess.King:
		return "king"
	default:
		return "piece"
	}
}

// Direction is one step on the board, file delta then rank delta.
type Direction struct {
	File int
	Rank int
}

var (
	diagonalDirs   = []Direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonalDirs = []Direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	royalDirs      = append(append([]Direction{}, diagonalDirs...), orthogonalDirs...)

	knightJumps = []Direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// SlidingDirections returns the ray directions of a sliding piece type, or
// nil for non-sliders.
func SlidingDirections(t chess.PieceType) []Direction {
	switch t {
	case chess.Bishop:
		return diagonalDirs
	case chess.Rook:
		return orthogonalDirs
	case chess.Queen:
		return royalDirs
	default:
		return nil
	}
}

func fileOf(sq chess.Square) int { return int(sq.File()) }
func rankOf(sq chess.Square) int { return int(sq.Rank()) }

func squareAt(file, rank int) (chess.Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, false
	}
	return chess.Square(rank*8 + file), true
}

// Offset steps from a square in a direction, reporting false off the board.
func Offset(sq chess.Square, d Direction) (chess.Square, bool) {
	return squareAt(fileOf(sq)+d.File, rankOf(sq)+d.Rank)
}

// NextPieceOnRay walks from a square (exclusive) in a direction and returns
// the first occupied square, or ok=false when the ray leaves the board empty.
func NextPieceOnRay(pos *chess.Position, from chess.Square, d Direction) (chess.Square, chess.Piece, bool) {
	sq := from
	for {
		next, on := Offset(sq, d)
		if !on {
			return 0, chess.NoPiece, false
		}
		if pc := pos.Board().Piece(next); pc != chess.NoPiece {
			return next, pc, true
		}
		sq = next
	}
}

// Adjacent returns the on-board king-neighborhood of a square.
func Adjacent(sq chess.Square) []chess.Square {
	squares := make([]chess.Square, 0, 8)
	for _, d := range royalDirs {
		if next, ok := Offset(sq, d); ok {
			squares = append(squares, next)
		}
	}
	return squares
}

// Attacks returns every square the piece on sq attacks, including occupied
// squares of either color (a friendly occupant counts as defended). An
// empty square yields nil.
func Attacks(pos *chess.Position, sq chess.Square) []chess.Square {
	pc := pos.Board().Piece(sq)
	if pc == chess.NoPiece {
		return nil
	}

	switch pc.Type() {
	case chess.Pawn:
		forward := 1
		if pc.Color() == chess.Black {
			forward = -1
		}
		var squares []chess.Square
		for _, df := range []int{-1, 1} {
			if target, ok := squareAt(fileOf(sq)+df, rankOf(sq)+forward); ok {
				squares = append(squares, target)
			}
		}
		return squares
	case chess.Knight:
		return stepTargets(sq, knightJumps)
	case chess.King:
		return stepTargets(sq, royalDirs)
	default:
		return slideTargets(pos, sq, SlidingDirections(pc.Type()))
	}
}

func stepTargets(sq chess.Square, dirs []Direction) []chess.Square {
	var squares []chess.Square
	for _, d := range dirs {
		if target, ok := Offset(sq, d); ok {
			squares = append(squares, target)
		}
	}
	return squares
}

func slideTargets(pos *chess.Position, sq chess.Square, dirs []Direction) []chess.Square {
	var squares []chess.Square
	for _, d := range dirs {
		cur := sq
		for {
			next, on := Offset(cur, d)
			if !on {
				break
			}
			squares = append(squares, next)
			if pos.Board().Piece(next) != chess.NoPiece {
				break
			}
			cur = next
		}
	}
	return squares
}

// Attackers returns the squares of every piece of the given color that
// attacks the target square.
func Attackers(pos *chess.Position, target chess.Square, by chess.Color) []chess.Square {
	var attackers []chess.Square
	for sq, pc := range pos.Board().SquareMap() {
		if pc.Color() != by {
			continue
		}
		for _, attacked := range Attacks(pos, sq) {
			if attacked == target {
				attackers = append(attackers, sq)
				break
			}
		}
	}
	return attackers
}

func IsAttacked(pos *chess.Position, target chess.Square, by chess.Color) bool {
	return len(Attackers(pos, target, by)) > 0
}

// KingSquare locates the king of a color; ok is false only on malformed
// positions, which the rules engine does not produce.
func KingSquare(pos *chess.Position, color chess.Color) (chess.Square, bool) {
	for sq, pc := range pos.Board().SquareMap() {
		if pc.Type() == chess.King && pc.Color() == color {
			return sq, true
		}
	}
	return 0, false
}

// InCheck reports whether the king of the given color is attacked.
func InCheck(pos *chess.Position, color chess.Color) bool {
	kingSq, ok := KingSquare(pos, color)
	if !ok {
		return false
	}
	return IsAttacked(pos, kingSq, color.Other())
}

// HomeRank is the back rank of a color (rank 1 for White, rank 8 for Black).
func HomeRank(color chess.Color) int {
	if color == chess.White {
		return 0
	}
	return 7
}
