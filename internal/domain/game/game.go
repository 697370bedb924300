package game

import (
	"strings"
	"time"

	"github.com/notnil/chess"

	"github.com/Taze00/chess-coach/internal/errors"
)

// Game is an imported chess game awaiting or holding analysis. The PGN and
// result come from the import collaborator; this service only reads them.
type Game struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	PGN       string    `bson:"pgn" json:"pgn"`
	Result    string    `bson:"result,omitempty" json:"result,omitempty"` // "win", "loss", "draw"
	PlayedAt  time.Time `bson:"played_at,omitempty" json:"played_at,omitempty"`
	Analyzed  bool      `bson:"analyzed" json:"analyzed"`
	SourceURL string    `bson:"source_url,omitempty" json:"source_url,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ParseColor maps externally supplied color metadata onto a side. Anything
// but an unambiguous "white"/"black" (or "w"/"b") is a precondition failure.
func ParseColor(s string) (chess.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return chess.White, nil
	case "black", "b":
		return chess.Black, nil
	default:
		return chess.NoColor, errors.ErrAmbiguousColor
	}
}
