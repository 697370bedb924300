package engine

// ScoreKind discriminates the two mutually exclusive evaluation shapes a
// UCI engine reports.
type ScoreKind int

const (
	Centipawns ScoreKind = iota
	MateIn
)

// Score is a raw engine evaluation from the perspective of the side to move
// in the evaluated position. Exactly one interpretation of Value applies:
// centipawns for Centipawns, a signed mate distance for MateIn (positive
// means the side to move mates in Value, negative means it gets mated).
type Score struct {
	Kind  ScoreKind
	Value int
}

// mateBase sits outside the range reachable by material evaluation, so
// severity thresholds never misfire on mate scores.
const mateBase = 10000

// Centipawns collapses the score onto a single signed centipawn scale.
// Mate distances map so that deeper mates compare as slightly less extreme
// than shallower ones while preserving ordering within each sign.
func (s Score) Centipawns() int {
	if s.Kind != MateIn {
		return s.Value
	}
	if s.Value > 0 {
		return mateBase - 100*s.Value
	}
	return -mateBase - 100*s.Value
}

// MateFor reports the mate distance when the side to move is delivering
// mate, and zero otherwise.
func (s Score) MateFor() int {
	if s.Kind == MateIn && s.Value > 0 {
		return s.Value
	}
	return 0
}
