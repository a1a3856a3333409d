package eval

import (
	. "github.com/topas-engine/topas/pkg/chess"
)

const (
	isolatedPawnPenalty = 13
	doubledPawnPenalty  = 11
)

var passedPawnBonus = [8]int{0, 5, 10, 20, 35, 60, 100, 0}

// adjacentFiles[f] is the union of the files bordering f, used to test
// isolation and to widen a pawn's own file into the passed-pawn corridor.
var adjacentFiles [8]uint64

func init() {
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= FileMask[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= FileMask[f+1]
		}
	}
}

// frontSpan is every square strictly ahead of sq on sq's own file and the
// two neighboring files, in the direction the pawn on sq pushes. UpFill and
// DownFill turn a single square into the whole file's fill in one direction;
// shifting by one rank before filling drops sq's own rank from the span.
func frontSpan(sq int, white bool) uint64 {
	var file = File(sq)
	var corridor = FileMask[file] | adjacentFiles[file]
	if white {
		return UpFill(Up(SquareBB(sq))) & corridor
	}
	return DownFill(Down(SquareBB(sq))) & corridor
}

// pawnStructureScore adds isolation, doubling and passed-pawn terms on top
// of the piece-square table's pawn values, which capture placement but not
// a pawn's relationship to the pawns around it.
func pawnStructureScore(p *Position) Score {
	var s Score
	s = s.add(sidePawnStructure(p.Pawns&p.White, p.Pawns&p.Black, true))
	s = s.sub(sidePawnStructure(p.Pawns&p.Black, p.Pawns&p.White, false))
	return s
}

func sidePawnStructure(own, enemy uint64, white bool) Score {
	var s Score
	for x := own; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var file = File(sq)
		var rank = Rank(sq)

		if adjacentFiles[file]&own == 0 {
			s = s.sub(Score{isolatedPawnPenalty, isolatedPawnPenalty})
		}
		if FileFill(SquareBB(sq))&own&^SquareBB(sq) != 0 {
			s = s.sub(Score{doubledPawnPenalty, doubledPawnPenalty})
		}
		if frontSpan(sq, white)&enemy == 0 {
			var step = rank
			if !white {
				step = 7 - rank
			}
			s = s.add(Score{passedPawnBonus[step] / 2, passedPawnBonus[step]})
		}
	}
	return s
}
