// Package explain assembles the deterministic rationale attached to every
// error record. The branch order below is a fixed contract: it resolves
// which fact wins when several could apply, and fixtures key off it.
package explain

import (
	"fmt"
	"strings"

	"github.com/Taze00/chess-coach/internal/analysis/simulate"
	"github.com/Taze00/chess-coach/internal/domain/analysis"
)

// Facts is everything the pipeline gathered about one qualifying move.
type Facts struct {
	MoveNumber int
	PlayedMove string // UCI
	BestMove   string // UCI

	// MateIn is N when the oracle reported a forced mate in N for the
	// analyzed player before the move; zero otherwise.
	MateIn     int
	PlayedMate bool // the played move is that mate

	CastleAvailable bool
	KingOnStartFile bool
	PlayedIsCastle  bool
	BestIsCastle    bool

	// Facts about the oracle's recommended move.
	BestPatterns    []analysis.TacticalPattern
	BestCaptureName string // piece the best move would win, if any
	BestGivesCheck  bool

	// What actually goes wrong after the played move.
	Sim *simulate.Report

	Severity      analysis.Severity
	CentipawnLoss int
}

// Compose builds the explanation: a lead sentence chosen by priority, a
// contrast sentence about the recommended move, and a magnitude sentence.
func Compose(f Facts) string {
	parts := []string{
		leadSentence(f),
		contrastSentence(f),
		magnitudeSentence(f),
	}
	return strings.Join(parts, " ")
}

func leadSentence(f Facts) string {
	if f.MateIn > 0 && f.MateIn <= 3 && !f.PlayedMate {
		return fmt.Sprintf("You missed a forced mate in %d.", f.MateIn)
	}

	if f.CastleAvailable && f.MoveNumber <= analysis.OpeningMaxMove &&
		f.KingOnStartFile && !f.PlayedIsCastle && f.BestIsCastle {
		return "Your king is still in the centre: castling here would have kept it safe."
	}

	sim := f.Sim
	if sim != nil && sim.Captured != nil {
		if pattern, ok := enablingPattern(sim.ReplyPatterns); ok {
			return fmt.Sprintf("This loses your %s on %s to a %s.",
				sim.Captured.Name, sim.Captured.Square, patternPhrase(pattern))
		}
		return fmt.Sprintf("This leaves your %s on %s undefended and it is simply taken.",
			sim.Captured.Name, sim.Captured.Square)
	}

	if sim != nil && len(sim.ReplyPatterns) > 0 {
		return fmt.Sprintf("This allows a %s in reply.", patternPhrase(sim.ReplyPatterns[0]))
	}

	if sim != nil && sim.Exposed != nil {
		return fmt.Sprintf("Your %s on %s is left attacked more often than it is defended.",
			sim.Exposed.Name, sim.Exposed.Square)
	}

	return "This move weakens your position without creating a threat."
}

func contrastSentence(f Facts) string {
	return fmt.Sprintf("The engine preferred %s, which %s.", f.BestMove, bestMoveMerit(f))
}

func bestMoveMerit(f Facts) string {
	if len(f.BestPatterns) > 0 {
		switch p := f.BestPatterns[0]; p {
		case analysis.PatternCastling:
			return "castles the king to safety"
		case analysis.PatternLineOpening:
			return "opens a line for a major piece"
		default:
			return "creates a " + patternPhrase(p)
		}
	}
	if f.BestCaptureName != "" {
		return "wins the " + f.BestCaptureName
	}
	if f.BestGivesCheck {
		return "keeps check"
	}
	return "stabilizes the position"
}

func magnitudeSentence(f Facts) string {
	return fmt.Sprintf("This %s costs about %.2f pawns.",
		f.Severity, float64(f.CentipawnLoss)/100)
}

// enablingPattern picks the motif that explains a material loss, if the
// reply exhibits one.
func enablingPattern(patterns []analysis.TacticalPattern) (analysis.TacticalPattern, bool) {
	for _, p := range patterns {
		switch p {
		case analysis.PatternFork, analysis.PatternPin, analysis.PatternBackRankMateThreat:
			return p, true
		}
	}
	return "", false
}

func patternPhrase(p analysis.TacticalPattern) string {
	switch p {
	case analysis.PatternFork:
		return "fork"
	case analysis.PatternPin:
		return "pin"
	case analysis.PatternSkewer:
		return "skewer"
	case analysis.PatternDiscoveredCheck:
		return "discovered check"
	case analysis.PatternDoubleAttack:
		return "double attack"
	case analysis.PatternBackRankMateThreat:
		return "back-rank mate threat"
	case analysis.PatternSmotheredMateThreat:
		return "smothered mate threat"
	case analysis.PatternLineOpening:
		return "line-opening move"
	case analysis.PatternExchangeSacrifice:
		return "exchange sacrifice"
	case analysis.PatternCastling:
		return "castling move"
	default:
		return string(p)
	}
}
