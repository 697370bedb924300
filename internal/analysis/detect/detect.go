// Package detect is a library of independent, stateless motif predicates.
// Each predicate inspects the position a candidate move leaves behind and
// answers a single yes/no question about board geometry.
package detect

import (
	"github.com/notnil/chess"

	"github.com/Taze00/chess-coach/internal/analysis/board"
	"github.com/Taze00/chess-coach/internal/domain/analysis"
)

// moveContext bundles what every predicate needs: the position before the
// candidate move, the position it produces, and the mover's color.
type moveContext struct {
	before *chess.Position
	after  *chess.Position
	move   *chess.Move
	mover  chess.Color
}

type predicate struct {
	pattern analysis.TacticalPattern
	fires   func(moveContext) bool
}

// predicates run in fixed priority order, most tactically significant
// first. The order of the returned tags is part of the contract.
var predicates = []predicate{
	{analysis.PatternSmotheredMateThreat, smotheredMateThreat},
	{analysis.PatternBackRankMateThreat, backRankMateThreat},
	{analysis.PatternDiscoveredCheck, discoveredCheck},
	{analysis.PatternFork, fork},
	{analysis.PatternPin, pin},
	{analysis.PatternSkewer, skewer},
	{analysis.PatternDoubleAttack, doubleAttack},
	{analysis.PatternExchangeSacrifice, exchangeSacrifice},
	{analysis.PatternLineOpening, lineOpening},
	{analysis.PatternCastling, castling},
}

// Patterns runs every motif predicate against the position left by the
// candidate move and returns the subset that fires, in priority order.
func Patterns(before *chess.Position, move *chess.Move) []analysis.TacticalPattern {
	mc := moveContext{
		before: before,
		after:  before.Update(move),
		move:   move,
		mover:  before.Turn(),
	}

	var found []analysis.TacticalPattern
	for _, p := range predicates {
		if p.fires(mc) {
			found = append(found, p.pattern)
		}
	}
	return found
}

// forkTarget reports whether a piece type counts as valuable fork prey;
// pawns and kings are excluded.
func forkTarget(t chess.PieceType) bool {
	switch t {
	case chess.Queen, chess.Rook, chess.Knight, chess.Bishop:
		return true
	default:
		return false
	}
}

// fork: the moved piece attacks two or more valuable enemy pieces at once.
func fork(mc moveContext) bool {
	targets := 0
	for _, sq := range board.Attacks(mc.after, mc.move.S2()) {
		pc := mc.after.Board().Piece(sq)
		if pc != chess.NoPiece && pc.Color() == mc.mover.Other() && forkTarget(pc.Type()) {
			targets++
		}
	}
	return targets >= 2
}

// rayPair is one attacked enemy piece and the next piece found behind it on
// the same ray.
type rayPair struct {
	front  chess.Piece
	behind chess.Piece
}

// rayPairs scans every ray of the moved sliding piece: for each enemy piece
// it attacks along a ray, it keeps scanning past that piece and pairs it
// with the next enemy piece behind it (pairs with a friendly piece behind
// are discarded).
func rayPairs(mc moveContext) []rayPair {
	from := mc.move.S2()
	dirs := board.SlidingDirections(mc.after.Board().Piece(from).Type())
	if dirs == nil {
		return nil
	}

	enemy := mc.mover.Other()
	var pairs []rayPair
	for _, d := range dirs {
		frontSq, front, ok := board.NextPieceOnRay(mc.after, from, d)
		if !ok || front.Color() != enemy {
			continue
		}
		_, behind, ok := board.NextPieceOnRay(mc.after, frontSq, d)
		if !ok || behind.Color() != enemy {
			continue
		}
		pairs = append(pairs, rayPair{front: front, behind: behind})
	}
	return pairs
}

// pin: a ray of the moved piece hits an enemy piece shielding its king
// (absolute) or a strictly more valuable enemy piece (relative).
func pin(mc moveContext) bool {
	for _, pair := range rayPairs(mc) {
		if pair.behind.Type() == chess.King {
			return true
		}
		if board.Value(pair.behind.Type()) > board.Value(pair.front.Type()) {
			return true
		}
	}
	return false
}

// skewer: the same ray scan as pin, but the valuable piece stands in front,
// on the attacked square itself.
func skewer(mc moveContext) bool {
	for _, pair := range rayPairs(mc) {
		if board.Value(pair.front.Type()) > board.Value(pair.behind.Type()) {
			return true
		}
	}
	return false
}

// discoveredCheck: the opponent's king is in check and the moved piece is
// not the one giving it.
func discoveredCheck(mc moveContext) bool {
	enemy := mc.mover.Other()
	kingSq, ok := board.KingSquare(mc.after, enemy)
	if !ok || !board.IsAttacked(mc.after, kingSq, mc.mover) {
		return false
	}
	for _, sq := range board.Attacks(mc.after, mc.move.S2()) {
		if sq == kingSq {
			return false
		}
	}
	return true
}

// doubleAttack: some enemy queen or rook is attacked by at least two of the
// mover's pieces.
func doubleAttack(mc moveContext) bool {
	enemy := mc.mover.Other()
	for sq, pc := range mc.after.Board().SquareMap() {
		if pc.Color() != enemy {
			continue
		}
		if pc.Type() != chess.Queen && pc.Type() != chess.Rook {
			continue
		}
		if len(board.Attackers(mc.after, sq, mc.mover)) >= 2 {
			return true
		}
	}
	return false
}

// backRankMateThreat: the defending king sits on its home rank with every
// flight square either blocked by its own piece or covered by the mover,
// while a mover rook or queen attacks the king's square.
func backRankMateThreat(mc moveContext) bool {
	defender := mc.mover.Other()
	kingSq, ok := board.KingSquare(mc.after, defender)
	if !ok || int(kingSq.Rank()) != board.HomeRank(defender) {
		return false
	}

	for _, sq := range board.Adjacent(kingSq) {
		pc := mc.after.Board().Piece(sq)
		if pc != chess.NoPiece && pc.Color() == defender {
			continue
		}
		if !board.IsAttacked(mc.after, sq, mc.mover) {
			return false
		}
	}

	for _, sq := range board.Attackers(mc.after, kingSq, mc.mover) {
		switch mc.after.Board().Piece(sq).Type() {
		case chess.Rook, chess.Queen:
			return true
		}
	}
	return false
}

// smotheredMateThreat: the defending king is fully boxed in by its own
// pieces and a knight gives check.
func smotheredMateThreat(mc moveContext) bool {
	defender := mc.mover.Other()
	kingSq, ok := board.KingSquare(mc.after, defender)
	if !ok {
		return false
	}

	for _, sq := range board.Adjacent(kingSq) {
		pc := mc.after.Board().Piece(sq)
		if pc == chess.NoPiece || pc.Color() != defender {
			return false
		}
	}

	for _, sq := range board.Attackers(mc.after, kingSq, mc.mover) {
		if mc.after.Board().Piece(sq).Type() == chess.Knight {
			return true
		}
	}
	return false
}

// lineOpening: a quiet move vacates a square and one of the mover's sliding
// pieces on the same file or rank now reaches more squares than before.
func lineOpening(mc moveContext) bool {
	if mc.move.HasTag(chess.Capture) {
		return false
	}

	from := mc.move.S1()
	for sq, pc := range mc.after.Board().SquareMap() {
		if sq == mc.move.S2() || pc.Color() != mc.mover {
			continue
		}
		switch pc.Type() {
		case chess.Rook, chess.Bishop, chess.Queen:
		default:
			continue
		}
		if sq.File() != from.File() && sq.Rank() != from.Rank() {
			continue
		}
		// Castling relocates the rook as well; only pieces that stayed put
		// have a comparable before/after attack count.
		if mc.before.Board().Piece(sq) != pc {
			continue
		}
		if len(board.Attacks(mc.after, sq)) > len(board.Attacks(mc.before, sq)) {
			return true
		}
	}
	return false
}

// exchangeSacrifice: a rook captures a bishop or knight. Deliberately
// context-free — no attempt to judge compensation.
func exchangeSacrifice(mc moveContext) bool {
	if !mc.move.HasTag(chess.Capture) {
		return false
	}
	if mc.before.Board().Piece(mc.move.S1()).Type() != chess.Rook {
		return false
	}
	switch mc.before.Board().Piece(mc.move.S2()).Type() {
	case chess.Bishop, chess.Knight:
		return true
	default:
		return false
	}
}

func castling(mc moveContext) bool {
	return mc.move.HasTag(chess.KingSideCastle) || mc.move.HasTag(chess.QueenSideCastle)
}
