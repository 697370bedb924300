package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCentipawnsPassthrough(t *testing.T) {
	assert.Equal(t, 0, Score{Kind: Centipawns, Value: 0}.Centipawns())
	assert.Equal(t, 37, Score{Kind: Centipawns, Value: 37}.Centipawns())
	assert.Equal(t, -512, Score{Kind: Centipawns, Value: -512}.Centipawns())
}

func TestScoreMateNormalization(t *testing.T) {
	tests := []struct {
		mate int
		want int
	}{
		{1, 9900},
		{3, 9700},
		{10, 9000},
		{-1, -9900},
		{-3, -9700},
		{-10, -9000},
	}
	for _, tt := range tests {
		got := Score{Kind: MateIn, Value: tt.mate}.Centipawns()
		assert.Equal(t, tt.want, got, "mate in %d", tt.mate)
	}
}

// Mate scores must dominate any material evaluation and stay ordered: a
// shallower mate is always more extreme than a deeper one of the same sign.
func TestScoreMateOrdering(t *testing.T) {
	for n := 1; n < 30; n++ {
		closer := Score{Kind: MateIn, Value: n}.Centipawns()
		deeper := Score{Kind: MateIn, Value: n + 1}.Centipawns()
		assert.Greater(t, closer, deeper)
		assert.Greater(t, closer, 3000, "mate score must exceed material range")

		closerLosing := Score{Kind: MateIn, Value: -n}.Centipawns()
		deeperLosing := Score{Kind: MateIn, Value: -(n + 1)}.Centipawns()
		assert.Less(t, closerLosing, deeperLosing)
		assert.Less(t, closerLosing, -3000)
	}
}

func TestScoreMateFor(t *testing.T) {
	assert.Equal(t, 2, Score{Kind: MateIn, Value: 2}.MateFor())
	assert.Equal(t, 0, Score{Kind: MateIn, Value: -2}.MateFor())
	assert.Equal(t, 0, Score{Kind: Centipawns, Value: 9900}.MateFor())
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		line string
		want Score
		ok   bool
	}{
		{"info depth 15 seldepth 21 score cp 34 nodes 12345 pv e2e4", Score{Kind: Centipawns, Value: 34}, true},
		{"info depth 15 score cp -120 nodes 1", Score{Kind: Centipawns, Value: -120}, true},
		{"info depth 20 score mate 3 pv d1h5", Score{Kind: MateIn, Value: 3}, true},
		{"info depth 20 score mate -2", Score{Kind: MateIn, Value: -2}, true},
		{"info depth 15 nodes 12345 pv e2e4", Score{}, false},
		{"bestmove e2e4", Score{}, false},
	}
	for _, tt := range tests {
		got, ok := parseScore(tt.line)
		require.Equal(t, tt.ok, ok, "line %q", tt.line)
		if ok {
			assert.Equal(t, tt.want, got, "line %q", tt.line)
		}
	}
}
