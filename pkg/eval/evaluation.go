package eval

import (
	. "github.com/topas-engine/topas/pkg/chess"
)

const (
	minorPhase = 4
	rookPhase  = 6
	queenPhase = 12
	totalPhase = 2 * (4*minorPhase + 2*rookPhase + queenPhase)
)

const darkSquares = uint64(0xAA55AA55AA55AA55)

const (
	sideWhite = 1
	sideBlack = 0
)

// Evaluator scores a position with tapered piece-square tables, blending a
// middlegame and an endgame value by remaining material and scaling down
// toward a draw when the position is a known-hard-to-win material split.
type Evaluator struct {
	pieceCount [2][King + 1]int
	force      [2]int
}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate returns a centipawn score from the side-to-move's perspective.
func (e *Evaluator) Evaluate(p *Position) int {
	var s Score

	for piece := Pawn; piece <= King; piece++ {
		e.pieceCount[sideWhite][piece] = 0
		e.pieceCount[sideBlack][piece] = 0
	}

	for x := p.White; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.PieceOn(sq)
		s = s.add(pst[sideWhite][piece][sq])
		e.pieceCount[sideWhite][piece]++
	}

	for x := p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.PieceOn(sq)
		s = s.sub(pst[sideBlack][piece][sq])
		e.pieceCount[sideBlack][piece]++
	}

	e.force[sideWhite] = e.materialForce(sideWhite)
	e.force[sideBlack] = e.materialForce(sideBlack)

	if e.pieceCount[sideWhite][Bishop] >= 2 {
		s = s.add(Score{bishopPairBonus, bishopPairBonus})
	}
	if e.pieceCount[sideBlack][Bishop] >= 2 {
		s = s.sub(Score{bishopPairBonus, bishopPairBonus})
	}

	s = s.add(pawnStructureScore(p))

	var result = e.taper(s)

	var ocb = e.force[sideWhite] == minorPhase &&
		e.force[sideBlack] == minorPhase &&
		(p.Bishops&darkSquares) != 0 &&
		(p.Bishops & ^darkSquares) != 0

	var leader = sideWhite
	if result <= 0 {
		leader = sideBlack
	}
	result = result * e.scaleFactor(leader, ocb) / scaleNormal

	if !p.WhiteMove {
		result = -result
	}

	return result
}

// materialForce weighs side's non-pawn material on the same 0..totalPhase
// scale as totalPhase itself, so summing both sides' force values against
// totalPhase tells taper how much middlegame material is still on the board.
func (e *Evaluator) materialForce(side int) int {
	var pc = e.pieceCount[side]
	return minorPhase*(pc[Knight]+pc[Bishop]) + rookPhase*pc[Rook] + queenPhase*pc[Queen]
}

// taper blends a Score's middlegame and endgame halves by the fraction of
// non-pawn material remaining on the board.
func (e *Evaluator) taper(s Score) int {
	var phase = e.force[sideWhite] + e.force[sideBlack]
	if phase > totalPhase {
		phase = totalPhase
	}
	return (s.Mg*phase + s.Eg*(totalPhase-phase)) / totalPhase
}

const (
	scaleDraw   = 0
	scaleHard   = 1
	scaleNormal = 2
)

// scaleHardRules enumerates the material configurations this evaluator
// treats as drawish despite one side's nominal material lead — pawnless
// endings near the fortress threshold, a lone-pawn ending facing a minor
// piece, and opposite-colored-bishop endings with a small pawn gap. scaleFactor
// runs them in order against the side that currently leads and stops at the
// first match, rather than the teacher's nested pawn-count if/else-if.
var scaleHardRules = []func(e *Evaluator, side, other int, ocb bool) bool{
	func(e *Evaluator, side, other int, ocb bool) bool {
		return e.pieceCount[side][Pawn] == 0 && e.force[side] <= minorPhase
	},
	func(e *Evaluator, side, other int, ocb bool) bool {
		return e.pieceCount[side][Pawn] == 0 &&
			e.force[side] == 2*minorPhase && e.pieceCount[side][Knight] == 2 &&
			e.pieceCount[other][Pawn] == 0
	},
	func(e *Evaluator, side, other int, ocb bool) bool {
		return e.pieceCount[side][Pawn] == 0 && e.force[side]-e.force[other] <= minorPhase
	},
	func(e *Evaluator, side, other int, ocb bool) bool {
		return e.pieceCount[side][Pawn] == 1 && e.force[side] <= minorPhase &&
			e.pieceCount[other][Knight]+e.pieceCount[other][Bishop] != 0
	},
	func(e *Evaluator, side, other int, ocb bool) bool {
		return e.pieceCount[side][Pawn] == 1 && e.force[side] == e.force[other] &&
			e.pieceCount[other][Knight]+e.pieceCount[other][Bishop] != 0
	},
	func(e *Evaluator, side, other int, ocb bool) bool {
		return e.pieceCount[side][Pawn] >= 2 &&
			ocb && e.pieceCount[side][Pawn]-e.pieceCount[other][Pawn] <= 2
	},
}

func (e *Evaluator) scaleFactor(side int, ocb bool) int {
	if e.force[side] >= queenPhase+rookPhase {
		return scaleNormal
	}
	var other = side ^ 1
	for _, hard := range scaleHardRules {
		if hard(e, side, other, ocb) {
			return scaleHard
		}
	}
	return scaleNormal
}
