package engine

import . "github.com/topas-engine/topas/pkg/chess"

const sortTableKeyImportant = 100000

// moveIteratorQS drives quiescence search: captures only, or every evasion
// when in check, ordered by MVV-LVA with no history lookup.
type moveIteratorQS struct {
	position *Position
	buffer   []OrderedMove
	count    int
	index    int
}

func (mi *moveIteratorQS) Init() {
	if mi.position.IsCheck() {
		mi.count = len(mi.position.GenerateMoves(mi.buffer))
	} else {
		mi.count = len(mi.position.GenerateCaptures(mi.buffer))
	}
	for i := 0; i < mi.count; i++ {
		var m = mi.buffer[i].Move
		var score int32
		if m.IsCaptureOrPromotion() {
			score = 29000 + int32(mvvlva(m))
		}
		mi.buffer[i].Key = score
	}
	sortMoves(mi.buffer[:mi.count])
}

func (mi *moveIteratorQS) Reset() { mi.index = 0 }

func (mi *moveIteratorQS) Next() Move {
	if mi.index >= mi.count {
		return MoveEmpty
	}
	var m = mi.buffer[mi.index].Move
	mi.index++
	return m
}

// moveIterator drives the main search: transposition move first, then
// captures ordered by SEE-gated MVV-LVA, then killers, then quiet moves
// ordered by history score. Sorting is lazy: only the first couple of slots
// are picked out eagerly, the rest sorted once the iterator reaches them.
type moveIterator struct {
	position  *Position
	buffer    []OrderedMove
	history   historyContext
	transMove Move
	killer1   Move
	killer2   Move
	count     int
	index     int
}

func (mi *moveIterator) Init() {
	mi.count = len(mi.position.GenerateMoves(mi.buffer))
	for i := 0; i < mi.count; i++ {
		var m = mi.buffer[i].Move
		var score int32
		if m == mi.transMove {
			score = int32(sortTableKeyImportant + 2000)
		} else if m.IsCaptureOrPromotion() {
			if SeeGEZero(mi.position, m) {
				score = int32(sortTableKeyImportant + 1000 + mvvlva(m))
			} else {
				score = int32(mvvlva(m))
			}
		} else if m == mi.killer1 {
			score = int32(sortTableKeyImportant + 1)
		} else if m == mi.killer2 {
			score = int32(sortTableKeyImportant)
		} else {
			score = int32(mi.history.ReadTotal(m))
		}
		mi.buffer[i].Key = score
	}
}

func (mi *moveIterator) Reset() { mi.index = 0 }

func (mi *moveIterator) Next() Move {
	if mi.index >= mi.count {
		return MoveEmpty
	}
	const sortMovesIndex = 1
	if mi.index <= sortMovesIndex {
		if mi.index == sortMovesIndex {
			sortMoves(mi.buffer[mi.index:mi.count])
		} else {
			moveToTop(mi.buffer[mi.index:mi.count])
		}
	}
	var m = mi.buffer[mi.index].Move
	mi.index++
	return m
}

var sortPieceValues = [King + 1]int{Empty: 0, Pawn: 1, Knight: 2, Bishop: 3, Rook: 4, Queen: 5, King: 6}

func mvvlva(move Move) int {
	return 8*(sortPieceValues[move.CapturedPiece()]+sortPieceValues[move.Promotion()]) -
		sortPieceValues[move.MovingPiece()]
}

func sortMoves(moves []OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}

func moveToTop(ml []OrderedMove) {
	var bestIndex = 0
	for i := 1; i < len(ml); i++ {
		if ml[i].Key > ml[bestIndex].Key {
			bestIndex = i
		}
	}
	if bestIndex != 0 {
		ml[0], ml[bestIndex] = ml[bestIndex], ml[0]
	}
}
