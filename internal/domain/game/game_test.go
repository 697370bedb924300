package game

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/Taze00/chess-coach/internal/errors"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want chess.Color
	}{
		{"white", chess.White},
		{"WHITE", chess.White},
		{"w", chess.White},
		{" White ", chess.White},
		{"black", chess.Black},
		{"b", chess.Black},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseColorAmbiguous(t *testing.T) {
	for _, in := range []string{"", "both", "whiteblack", "1"} {
		got, err := ParseColor(in)
		assert.ErrorIs(t, err, apperrors.ErrAmbiguousColor, "input %q", in)
		assert.Equal(t, chess.NoColor, got)
	}
}
