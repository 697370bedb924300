package engine

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeUCI must hand back the tagged move from the legal move list, not the
// bare decoded one: downstream motif detection keys off capture and castle
// tags.
func TestDecodeUCICarriesTags(t *testing.T) {
	opt, err := chess.FEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	require.NoError(t, err)
	pos := chess.NewGame(opt).Position()

	move, err := decodeUCI(pos, "e4d5")
	require.NoError(t, err)
	assert.True(t, move.HasTag(chess.Capture))

	castlePos := func() *chess.Position {
		opt, err := chess.FEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
		require.NoError(t, err)
		return chess.NewGame(opt).Position()
	}()
	castle, err := decodeUCI(castlePos, "e1g1")
	require.NoError(t, err)
	assert.True(t, castle.HasTag(chess.KingSideCastle))
}

func TestDecodeUCIRejectsIllegalMove(t *testing.T) {
	pos := chess.StartingPosition()

	_, err := decodeUCI(pos, "e2e5")
	assert.Error(t, err)
}
