package engine

import (
	. "github.com/topas-engine/topas/pkg/chess"
)

const pawnValue = 100

// deltaMargin is the safety buffer added on top of a capture's material
// gain in quiescence delta pruning: a margin instead of an exact cutoff
// leaves room for the captured square also opening a discovered attack or
// passed pawn the static eval undervalues.
const deltaMargin = 200

// captureValueCp estimates a quiescence capture's material gain in
// centipawns for delta pruning: SEE already judges whether the exchange
// itself is sound, so this only needs to be in the right ballpark, not
// exact.
var captureValueCp = [King + 1]int{Pawn: 100, Knight: 320, Bishop: 330, Rook: 500, Queen: 900}

func captureGain(move Move) int {
	var gain = captureValueCp[move.CapturedPiece()]
	if promotion := move.Promotion(); promotion != Empty {
		gain += captureValueCp[promotion] - captureValueCp[Pawn]
	}
	return gain
}

// searchStackEntry holds the per-height state that used to live on a
// per-height Position copy in the teacher's search; this engine's Position
// mutates in place via an undo stack, so only the ancillary bookkeeping
// (principal variation, killers, repetition markers) needs its own slot.
type searchStackEntry struct {
	moveList       [MaxMoves]OrderedMove
	quietsSearched [MaxMoves]Move
	pv             pv
	staticEval     int
	killer1        Move
	killer2        Move
	key            uint64
	rule50         int
	lastMove       Move
}

type pv struct {
	items [stackSize]Move
	size  int
}

func (pv *pv) clear() { pv.size = 0 }

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}

func (e *Engine) clearPV(height int) { e.stack[height].pv.clear() }

func (e *Engine) assignPV(height int, m Move) {
	e.stack[height].pv.assign(m, &e.stack[height+1].pv)
}

func (e *Engine) aspirationWindow(depth, prevScore int) int {
	if e.Options.AspirationWindows && depth >= 5 && !(prevScore <= valueLoss || prevScore >= valueWin) {
		const window = 25
		var alpha = max(-valueInfinity, prevScore-window)
		var beta = min(valueInfinity, prevScore+window)
		var score = e.searchRoot(alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
		if score >= beta {
			beta = valueInfinity
		}
		if score <= alpha {
			alpha = -valueInfinity
		}
		score = e.searchRoot(alpha, beta, depth)
		if score > alpha && score < beta {
			return score
		}
	}
	return e.searchRoot(-valueInfinity, valueInfinity, depth)
}

func (e *Engine) searchRoot(alpha, beta, depth int) int {
	return e.alphaBeta(alpha, beta, depth, 0, MoveEmpty)
}

// alphaBeta is a negamax alpha-beta search with the usual modern trimmings:
// PVS, null-move pruning, reverse futility, probcut, singular extension,
// late-move/futility/SEE pruning, and late-move reductions.
func (e *Engine) alphaBeta(alpha, beta, depth, height int, skipMove Move) int {
	if depth <= 0 {
		return e.quiescence(alpha, beta, height)
	}
	e.clearPV(height)

	var position = e.position
	e.stack[height].key = position.Key
	e.stack[height].rule50 = position.Rule50
	e.stack[height].lastMove = position.LastMove

	var rootNode = height == 0
	var pvNode = beta != alpha+1
	var isCheck = position.IsCheck()
	var ttMoveIsSingular = false

	if !rootNode {
		if height >= maxHeight {
			return e.evaluator.Evaluate(position)
		}
		if e.isRepeat(height) || isDraw(position) {
			return valueDraw
		}
		if winIn(height+1) <= alpha {
			return alpha
		}
		if lossIn(height+2) >= beta && !isCheck {
			return beta
		}
	}

	var (
		ttDepth, ttValue, ttBound int
		ttMove                    Move
		ttHit                     bool
	)
	if skipMove == MoveEmpty {
		ttDepth, ttValue, ttBound, ttMove, ttHit = e.transTable.Read(position.Key)
	}
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttDepth >= depth && !pvNode && position.LastMove != MoveEmpty {
			if ttValue >= beta && ttBound&boundLower != 0 {
				if ttMove != MoveEmpty && !ttMove.IsCaptureOrPromotion() {
					e.updateKiller(ttMove, height)
				}
				return ttValue
			}
			if ttValue <= alpha && ttBound&boundUpper != 0 {
				return ttValue
			}
		}
	}

	var staticEval = e.evaluator.Evaluate(position)
	e.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > e.stack[height-2].staticEval

	var options = &e.Options
	if height+2 <= maxHeight {
		e.stack[height+2].killer1 = MoveEmpty
		e.stack[height+2].killer2 = MoveEmpty
	}

	if !rootNode && skipMove == MoveEmpty {
		if options.ReverseFutility && !pvNode && depth <= 8 && !isCheck {
			if score := staticEval - pawnValue*depth; score >= beta {
				return staticEval
			}
		}

		if options.NullMovePruning && !pvNode && depth >= 2 && !isCheck &&
			position.LastMove != MoveEmpty &&
			(height <= 1 || e.stack[height-1].lastMove != MoveEmpty) &&
			beta < valueWin &&
			!(ttHit && ttValue < beta && ttBound&boundUpper != 0) &&
			!isLateEndgame(position, position.WhiteMove) &&
			staticEval >= beta {
			var reduction = 4 + depth/6 + min(2, (staticEval-beta)/200)
			var u = position.MakeNullMove()
			var score = -e.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1, MoveEmpty)
			position.UnmakeNullMove(u)
			if score >= beta {
				if score >= valueWin {
					score = beta
				}
				return score
			}
		}

		var probcutBeta = min(valueWin-1, beta+150)
		if options.Probcut && !pvNode && depth >= 5 && !isCheck &&
			beta > valueLoss && beta < valueWin &&
			!(ttHit && ttDepth >= depth-4 && ttValue < probcutBeta && ttBound&boundUpper != 0) {
			var mi = moveIteratorQS{position: position, buffer: e.stack[height].moveList[:]}
			mi.Init()
			for mi.Reset(); ; {
				var move = mi.Next()
				if move == MoveEmpty {
					break
				}
				if !SeeGEZero(position, move) {
					continue
				}
				if !e.makeMove(move) {
					continue
				}
				var score = -e.quiescence(-probcutBeta, -probcutBeta+1, height+1)
				if score >= probcutBeta {
					score = -e.alphaBeta(-probcutBeta, -probcutBeta+1, depth-4, height+1, MoveEmpty)
				}
				e.unmakeMove(move)
				if score >= probcutBeta {
					return score
				}
			}
		}

		if options.SingularExt && depth >= 8 &&
			ttHit && ttMove != MoveEmpty &&
			ttBound&boundLower != 0 && ttDepth >= depth-3 &&
			ttValue > valueLoss && ttValue < valueWin {
			var singularBeta = max(-valueInfinity, ttValue-depth)
			var score = e.alphaBeta(singularBeta-1, singularBeta, depth/2, height, ttMove)
			ttMoveIsSingular = score < singularBeta
		}
	}

	var historyContext = e.getHistoryContext(height)
	var mi = moveIterator{
		position:  position,
		buffer:    e.stack[height].moveList[:],
		history:   historyContext,
		transMove: ttMove,
		killer1:   e.stack[height].killer1,
		killer2:   e.stack[height].killer2,
	}
	mi.Init()
	var killer1, killer2 = mi.killer1, mi.killer2

	var movesSearched = 0
	var hasLegalMove = false
	var quietsSeen = 0
	var quietsSearched = e.stack[height].quietsSearched[:0]
	var bestMove Move

	var lmp = 5 + (depth-1)*depth
	if !improving {
		lmp /= 2
	}

	var best = -valueInfinity
	var oldAlpha = alpha

	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if move == skipMove {
			continue
		}
		var isNoisy = move.IsCaptureOrPromotion()
		if !isNoisy {
			quietsSeen++
		}

		if depth <= 8 && best > valueLoss && hasLegalMove && !isCheck && !rootNode {
			var isKiller = move == killer1 || move == killer2
			if options.Lmp && !isNoisy && !isKiller && quietsSeen > lmp {
				continue
			}
			if options.Futility && !isNoisy && !isKiller && staticEval+100+pawnValue*depth <= alpha {
				continue
			}
			if options.See {
				var seeMargin int
				if isNoisy {
					seeMargin = max(depth, (staticEval+pawnValue-alpha)/pawnValue)
				} else {
					seeMargin = depth / 2
				}
				if !SeeGE(position, move, -seeMargin) {
					continue
				}
			}
		}

		if !e.makeMove(move) {
			continue
		}
		hasLegalMove = true
		movesSearched++

		var extension, reduction int
		if options.CheckExt && position.IsCheck() && depth >= 3 {
			extension = 1
		}
		if move == ttMove && ttMoveIsSingular {
			extension = 1
		}

		if depth >= 3 && movesSearched > 1 && !isNoisy {
			reduction = options.Lmr(depth, movesSearched)
			if move == killer1 || move == killer2 {
				reduction--
			}
			if !isCheck {
				var history = historyContext.ReadTotal(move)
				reduction -= max(-2, min(2, history/5000))
				if !improving {
					reduction++
				}
			}
			if pvNode {
				reduction -= 2
			}
			if isCheck || position.IsCheck() {
				reduction--
			}
			reduction = max(reduction, 0) + extension
			reduction = max(0, min(depth-2, reduction))
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		}

		var newDepth = depth - 1 + extension
		var score = alpha + 1
		if reduction > 0 {
			score = -e.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1, MoveEmpty)
		}
		if score > alpha && beta != alpha+1 && movesSearched > 1 && newDepth > 0 {
			score = -e.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1, MoveEmpty)
		}
		if score > alpha {
			score = -e.alphaBeta(-beta, -alpha, newDepth, height+1, MoveEmpty)
		}

		e.unmakeMove(move)

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			e.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if !hasLegalMove {
		if !isCheck && skipMove == MoveEmpty {
			return valueDraw
		}
		return lossIn(height)
	}

	if alpha > oldAlpha && bestMove != MoveEmpty && !bestMove.IsCaptureOrPromotion() {
		historyContext.Update(quietsSearched, bestMove, depth)
		e.updateKiller(bestMove, height)
	}

	if skipMove == MoveEmpty {
		var ttStoreBound = 0
		if best > oldAlpha {
			ttStoreBound |= boundLower
		}
		if best < beta {
			ttStoreBound |= boundUpper
		}
		if !(rootNode && ttStoreBound == boundUpper) {
			e.transTable.Update(position.Key, depth, valueToTT(best, height), ttStoreBound, bestMove)
		}
	}

	return best
}

func (e *Engine) quiescence(alpha, beta, height int) int {
	e.clearPV(height)
	var position = e.position
	if isDraw(position) {
		return valueDraw
	}
	if height >= maxHeight {
		return e.evaluator.Evaluate(position)
	}
	e.stack[height].key = position.Key
	e.stack[height].rule50 = position.Rule50
	e.stack[height].lastMove = position.LastMove
	if e.isRepeat(height) {
		return valueDraw
	}

	var _, ttValue, ttBound, _, ttHit = e.transTable.Read(position.Key)
	if ttHit {
		ttValue = valueFromTT(ttValue, height)
		if ttBound == boundExact ||
			ttBound == boundLower && ttValue >= beta ||
			ttBound == boundUpper && ttValue <= alpha {
			return ttValue
		}
	}

	var isCheck = position.IsCheck()
	var best = -valueInfinity
	var standPat int
	if !isCheck {
		standPat = e.evaluator.Evaluate(position)
		best = standPat
		if standPat > alpha {
			alpha = standPat
			if alpha >= beta {
				return alpha
			}
		}
	}

	var mi = moveIteratorQS{position: position, buffer: e.stack[height].moveList[:]}
	mi.Init()
	var hasLegalMove = false
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if !isCheck {
			if standPat+captureGain(move)+deltaMargin < alpha {
				continue
			}
			if !SeeGEZero(position, move) {
				continue
			}
		}
		if !e.makeMove(move) {
			continue
		}
		hasLegalMove = true
		var score = -e.quiescence(-beta, -alpha, height+1)
		e.unmakeMove(move)
		best = max(best, score)
		if score > alpha {
			alpha = score
			e.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if isCheck && !hasLegalMove {
		return lossIn(height)
	}
	return best
}

func (e *Engine) updateKiller(move Move, height int) {
	if e.stack[height].killer1 != move {
		e.stack[height].killer2 = e.stack[height].killer1
		e.stack[height].killer1 = move
	}
}

func (e *Engine) makeMove(move Move) bool {
	if !e.position.MakeMove(move) {
		return false
	}
	e.incNodes()
	return true
}

func (e *Engine) unmakeMove(move Move) {
	e.position.UnmakeMove()
}

func (e *Engine) incNodes() {
	e.nodes++
	if e.nodes&255 == 0 {
		e.timeManager.OnNodesChanged(int(e.nodes))
		if e.timeManager.IsDone() {
			panic(errSearchTimeout)
		}
	}
}

func (e *Engine) isRepeat(height int) bool {
	var p = e.position
	if p.Rule50 == 0 || p.LastMove == MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		if e.stack[i].key == p.Key {
			return true
		}
		if e.stack[i].rule50 == 0 || e.stack[i].lastMove == MoveEmpty {
			return false
		}
	}
	return e.historyKeys[p.Key] >= 2
}
