package engine

import (
	. "github.com/topas-engine/topas/pkg/chess"
)

const (
	stackSize     = 128
	maxHeight     = stackSize - 1
	valueDraw     = 0
	valueMate     = 30000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - 2*maxHeight
	valueLoss     = -valueWin
)

func winIn(height int) int  { return valueMate - height }
func lossIn(height int) int { return height - valueMate }

// shiftMateScore is the one place that knows how a mate score's distance
// changes as it crosses the boundary between "plies from root" (used during
// search) and "plies from this position" (used in the TT, which is shared
// across positions reached at different heights). valueToTT and
// valueFromTT are the same shift run in opposite directions, so they share
// this instead of each re-deriving the win/loss cases.
func shiftMateScore(v, height, direction int) int {
	switch {
	case v >= valueWin:
		return v + direction*height
	case v <= valueLoss:
		return v - direction*height
	default:
		return v
	}
}

func valueToTT(v, height int) int   { return shiftMateScore(v, height, 1) }
func valueFromTT(v, height int) int { return shiftMateScore(v, height, -1) }

func newUciScore(v int) UciScore {
	switch {
	case v >= valueWin:
		return UciScore{Mate: (valueMate - v + 1) / 2}
	case v <= valueLoss:
		return UciScore{Mate: (-valueMate - v) / 2}
	default:
		return UciScore{Centipawns: v}
	}
}

// isLateEndgame reports whether side has neither a rook/queen nor two minor
// pieces left, the threshold this engine uses to relax pruning near mating
// material.
func isLateEndgame(p *Position, white bool) bool {
	var pieces = p.PiecesByColor(white)
	var hasHeavyPiece = (p.Rooks|p.Queens)&pieces != 0
	var hasTwoMinors = MoreThanOne((p.Knights | p.Bishops) & pieces)
	return !hasHeavyPiece && !hasTwoMinors
}

func isDraw(p *Position) bool {
	return p.IsDraw()
}
