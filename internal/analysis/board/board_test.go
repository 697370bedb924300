package board

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func position(t *testing.T, fen string) *chess.Position {
	t.Helper()
	opt, err := chess.FEN(fen)
	require.NoError(t, err)
	return chess.NewGame(opt).Position()
}

func TestValueAndPieceName(t *testing.T) {
	assert.Equal(t, 100, Value(chess.Pawn))
	assert.Equal(t, 300, Value(chess.Knight))
	assert.Equal(t, 300, Value(chess.Bishop))
	assert.Equal(t, 500, Value(chess.Rook))
	assert.Equal(t, 900, Value(chess.Queen))
	assert.Equal(t, 0, Value(chess.King))

	assert.Equal(t, "queen", PieceName(chess.Queen))
	assert.Equal(t, "knight", PieceName(chess.Knight))
}

func TestKnightAttacks(t *testing.T) {
	pos := position(t, "4k3/8/8/8/3N4/8/8/4K3 w - - 0 1")

	got := Attacks(pos, chess.D4)
	assert.ElementsMatch(t, []chess.Square{
		chess.B3, chess.B5, chess.C2, chess.C6,
		chess.E2, chess.E6, chess.F3, chess.F5,
	}, got)
}

func TestPawnAttacksDirection(t *testing.T) {
	pos := position(t, "4k3/3p4/8/8/8/8/3P4/4K3 w - - 0 1")

	assert.ElementsMatch(t, []chess.Square{chess.C3, chess.E3}, Attacks(pos, chess.D2))
	assert.ElementsMatch(t, []chess.Square{chess.C6, chess.E6}, Attacks(pos, chess.D7))
}

// A slider's attack set includes the first occupied square on each ray but
// nothing behind it.
func TestSliderAttacksStopAtBlocker(t *testing.T) {
	pos := position(t, "4k3/8/8/8/8/3p4/8/3R2K1 w - - 0 1")

	got := Attacks(pos, chess.D1)
	assert.Contains(t, got, chess.D2)
	assert.Contains(t, got, chess.D3) // the blocker itself is attacked
	assert.NotContains(t, got, chess.D4)
	assert.Contains(t, got, chess.A1)
	assert.Contains(t, got, chess.F1)
	assert.NotContains(t, got, chess.H1) // own king blocks, G1 is the last reached
	assert.Contains(t, got, chess.G1)
}

func TestAttacksEmptySquare(t *testing.T) {
	pos := position(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.Nil(t, Attacks(pos, chess.D4))
}

func TestAttackersAndIsAttacked(t *testing.T) {
	// d5 is hit by the white rook on d1 and the white knight on c3.
	pos := position(t, "3qk3/8/8/3n4/8/2N5/8/3RK3 w - - 0 1")

	attackers := Attackers(pos, chess.D5, chess.White)
	assert.ElementsMatch(t, []chess.Square{chess.D1, chess.C3}, attackers)

	// The black queen on d8 defends its knight.
	defenders := Attackers(pos, chess.D5, chess.Black)
	assert.ElementsMatch(t, []chess.Square{chess.D8}, defenders)

	assert.True(t, IsAttacked(pos, chess.D5, chess.White))
	assert.False(t, IsAttacked(pos, chess.A8, chess.White))
}

func TestNextPieceOnRay(t *testing.T) {
	pos := position(t, "4k3/8/8/3n4/8/8/8/3RK3 w - - 0 1")

	sq, pc, ok := NextPieceOnRay(pos, chess.D1, Direction{File: 0, Rank: 1})
	require.True(t, ok)
	assert.Equal(t, chess.D5, sq)
	assert.Equal(t, chess.Knight, pc.Type())
	assert.Equal(t, chess.Black, pc.Color())

	_, _, ok = NextPieceOnRay(pos, chess.D1, Direction{File: -1, Rank: 0})
	assert.False(t, ok)
}

func TestKingSquareAndInCheck(t *testing.T) {
	pos := position(t, "4k3/8/8/8/8/8/8/4R1K1 b - - 0 1")

	kingSq, ok := KingSquare(pos, chess.Black)
	require.True(t, ok)
	assert.Equal(t, chess.E8, kingSq)

	assert.True(t, InCheck(pos, chess.Black))
	assert.False(t, InCheck(pos, chess.White))
}

func TestHomeRank(t *testing.T) {
	assert.Equal(t, 0, HomeRank(chess.White))
	assert.Equal(t, 7, HomeRank(chess.Black))
}

func TestAdjacentCorner(t *testing.T) {
	assert.ElementsMatch(t, []chess.Square{chess.A2, chess.B1, chess.B2}, Adjacent(chess.A1))
	assert.Len(t, Adjacent(chess.E4), 8)
}
