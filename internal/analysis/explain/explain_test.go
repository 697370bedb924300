package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Taze00/chess-coach/internal/analysis/simulate"
	"github.com/Taze00/chess-coach/internal/domain/analysis"
)

func baseFacts() Facts {
	return Facts{
		MoveNumber:    12,
		PlayedMove:    "d1g4",
		BestMove:      "g1f3",
		Severity:      analysis.SeverityBlunder,
		CentipawnLoss: 700,
	}
}

func TestComposeMissedMateWinsOverEverything(t *testing.T) {
	f := baseFacts()
	f.MateIn = 2
	f.Sim = &simulate.Report{
		Captured: &simulate.CapturedPiece{Name: "queen", Square: "g4", Value: 900},
	}

	got := Compose(f)
	assert.Contains(t, got, "You missed a forced mate in 2.")
	assert.NotContains(t, got, "loses your queen")
}

func TestComposeMateActuallyPlayedIsNotMissed(t *testing.T) {
	f := baseFacts()
	f.MateIn = 1
	f.PlayedMate = true

	assert.NotContains(t, Compose(f), "missed a forced mate")
}

func TestComposeDeepMateIsNotCalledOut(t *testing.T) {
	f := baseFacts()
	f.MateIn = 7

	assert.NotContains(t, Compose(f), "missed a forced mate")
}

func TestComposeCastlingAdvice(t *testing.T) {
	f := baseFacts()
	f.MoveNumber = 9
	f.CastleAvailable = true
	f.KingOnStartFile = true
	f.BestIsCastle = true

	got := Compose(f)
	assert.Contains(t, got, "castling here would have kept it safe")
}

func TestComposeNoCastlingAdviceOutsideOpening(t *testing.T) {
	f := baseFacts()
	f.MoveNumber = analysis.OpeningMaxMove + 1
	f.CastleAvailable = true
	f.KingOnStartFile = true
	f.BestIsCastle = true

	assert.NotContains(t, Compose(f), "castling here")
}

func TestComposeCaptureEnabledByPattern(t *testing.T) {
	f := baseFacts()
	f.Sim = &simulate.Report{
		Captured:      &simulate.CapturedPiece{Name: "rook", Square: "e1", Value: 500},
		ReplyPatterns: []analysis.TacticalPattern{analysis.PatternFork},
	}

	assert.Contains(t, Compose(f), "This loses your rook on e1 to a fork.")
}

func TestComposePlainCapture(t *testing.T) {
	f := baseFacts()
	f.Sim = &simulate.Report{
		Captured: &simulate.CapturedPiece{Name: "queen", Square: "g4", Value: 900},
		// A skewer does not explain the loss of the captured piece itself.
		ReplyPatterns: []analysis.TacticalPattern{analysis.PatternSkewer},
	}

	assert.Contains(t, Compose(f),
		"This leaves your queen on g4 undefended and it is simply taken.")
}

func TestComposeReplyPatternWithoutCapture(t *testing.T) {
	f := baseFacts()
	f.Sim = &simulate.Report{
		ReplyPatterns: []analysis.TacticalPattern{analysis.PatternDiscoveredCheck},
	}

	assert.Contains(t, Compose(f), "This allows a discovered check in reply.")
}

func TestComposeExposedPiece(t *testing.T) {
	f := baseFacts()
	f.Sim = &simulate.Report{
		Exposed: &simulate.ExposedPiece{Name: "knight", Square: "c6", Value: 300, Attackers: 2, Defenders: 1},
	}

	assert.Contains(t, Compose(f),
		"Your knight on c6 is left attacked more often than it is defended.")
}

func TestComposeFallbackLead(t *testing.T) {
	f := baseFacts()
	f.Sim = &simulate.Report{}

	assert.Contains(t, Compose(f),
		"This move weakens your position without creating a threat.")
}

func TestContrastSentenceVariants(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Facts)
		want string
	}{
		{
			"pattern",
			func(f *Facts) { f.BestPatterns = []analysis.TacticalPattern{analysis.PatternFork} },
			"The engine preferred g1f3, which creates a fork.",
		},
		{
			"castle",
			func(f *Facts) { f.BestPatterns = []analysis.TacticalPattern{analysis.PatternCastling} },
			"The engine preferred g1f3, which castles the king to safety.",
		},
		{
			"line opening",
			func(f *Facts) { f.BestPatterns = []analysis.TacticalPattern{analysis.PatternLineOpening} },
			"The engine preferred g1f3, which opens a line for a major piece.",
		},
		{
			"capture",
			func(f *Facts) { f.BestCaptureName = "bishop" },
			"The engine preferred g1f3, which wins the bishop.",
		},
		{
			"check",
			func(f *Facts) { f.BestGivesCheck = true },
			"The engine preferred g1f3, which keeps check.",
		},
		{
			"fallback",
			func(f *Facts) {},
			"The engine preferred g1f3, which stabilizes the position.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := baseFacts()
			tt.mut(&f)
			assert.Contains(t, Compose(f), tt.want)
		})
	}
}

func TestMagnitudeSentence(t *testing.T) {
	f := baseFacts()
	f.Severity = analysis.SeverityMistake
	f.CentipawnLoss = 150

	assert.Contains(t, Compose(f), "This mistake costs about 1.50 pawns.")
}
