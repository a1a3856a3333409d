package engine

import . "github.com/topas-engine/topas/pkg/chess"

const historyMax = 1 << 14

// historyContext binds the two continuation-history slots (the piece moved
// one and two plies ago) for the position currently being searched, so move
// ordering can score a candidate move without re-deriving them each time.
type historyContext struct {
	engine     *Engine
	sideToMove bool
	cont1      int
	cont2      int
}

func (h *historyContext) ReadTotal(m Move) int {
	var score = int(h.engine.mainHistory[sideFromToIndex(h.sideToMove, m)])
	var pieceToIndex = pieceSquareIndex(h.sideToMove, m)
	if h.cont1 != -1 {
		score += int(h.engine.continuationHistory[h.cont1][pieceToIndex])
	}
	if h.cont2 != -1 {
		score += int(h.engine.continuationHistory[h.cont2][pieceToIndex])
	}
	return score
}

func (h *historyContext) Update(quietsSearched []Move, bestMove Move, depth int) {
	var bonus = min(depth*depth, 400)
	var e = h.engine

	for _, m := range quietsSearched {
		var good = m == bestMove

		var fromToIndex = sideFromToIndex(h.sideToMove, m)
		updateHistory(&e.mainHistory[fromToIndex], bonus, good)
		var pieceToIndex = pieceSquareIndex(h.sideToMove, m)
		if h.cont1 != -1 {
			updateHistory(&e.continuationHistory[h.cont1][pieceToIndex], bonus, good)
		}
		if h.cont2 != -1 {
			updateHistory(&e.continuationHistory[h.cont2][pieceToIndex], bonus, good)
		}

		if good {
			break
		}
	}
}

// updateHistory nudges v toward +/-historyMax by an exponential moving
// average rather than an unbounded add, so history scores self-limit.
func updateHistory(v *int16, bonus int, good bool) {
	var newVal int
	if good {
		newVal = historyMax
	} else {
		newVal = -historyMax
	}
	*v += int16((newVal - int(*v)) * bonus / 512)
}

func (e *Engine) clearHistory() {
	for i := range e.mainHistory {
		e.mainHistory[i] = 0
	}
	for i := range e.continuationHistory {
		for j := range e.continuationHistory[i] {
			e.continuationHistory[i][j] = 0
		}
	}
}

func (e *Engine) getHistoryContext(height int) historyContext {
	var sideToMove = e.position.WhiteMove
	var cont1 = -1
	if prev1 := e.stack[height].lastMove; prev1 != MoveEmpty {
		cont1 = pieceSquareIndex(!sideToMove, prev1)
	}
	var cont2 = -1
	if height > 0 {
		if prev2 := e.stack[height-1].lastMove; prev2 != MoveEmpty {
			cont2 = pieceSquareIndex(sideToMove, prev2)
		}
	}
	return historyContext{engine: e, sideToMove: sideToMove, cont1: cont1, cont2: cont2}
}

func pieceSquareIndex(side bool, move Move) int {
	var result = (move.MovingPiece() << 6) | move.To()
	if side {
		result |= 1 << 9
	}
	return result
}

func sideFromToIndex(side bool, move Move) int {
	var result = (move.From() << 6) | move.To()
	if side {
		result |= 1 << 12
	}
	return result
}
