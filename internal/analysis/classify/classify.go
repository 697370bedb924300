// Package classify maps a centipawn loss onto a severity tag.
package classify

import "github.com/Taze00/chess-coach/internal/domain/analysis"

// Thresholds are configuration constants for one service instance, not
// per-call parameters. Boundary values belong to the higher category.
type Thresholds struct {
	Blunder    int
	Mistake    int
	Inaccuracy int
}

func Default() Thresholds {
	return Thresholds{Blunder: 300, Mistake: 100, Inaccuracy: 50}
}

// Classify buckets a signed centipawn loss. Losses below the inaccuracy
// threshold (including improvements, which are negative) yield none and
// produce no error record.
func (t Thresholds) Classify(centipawnLoss int) analysis.Severity {
	switch {
	case centipawnLoss >= t.Blunder:
		return analysis.SeverityBlunder
	case centipawnLoss >= t.Mistake:
		return analysis.SeverityMistake
	case centipawnLoss >= t.Inaccuracy:
		return analysis.SeverityInaccuracy
	default:
		return analysis.SeverityNone
	}
}
