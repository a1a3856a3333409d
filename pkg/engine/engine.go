package engine

import (
	"context"
	"errors"
	"time"

	. "github.com/topas-engine/topas/pkg/chess"
)

// errSearchTimeout is thrown as a panic value from deep inside alphaBeta once
// the time manager reports the deadline has passed. It is caught only in
// Search, so it never escapes this package; unwinding by panic avoids
// threading a cancellation error through every one of alphaBeta's many
// recursive call sites.
var errSearchTimeout = errors.New("search timeout")

// Engine runs a single-threaded iterative-deepening search. There is no
// worker pool: the Threads UCI option is advertised for compatibility but
// pinned to 1, matching the single-threaded-search Non-goal.
type Engine struct {
	Options
	evaluator  IEvaluator
	transTable TransTable

	timeManager TimeManager
	historyKeys map[uint64]int

	position *Position
	stack    [stackSize]searchStackEntry

	mainHistory          [1 << 13]int16
	continuationHistory  [1 << 10][1 << 10]int16

	mainLine mainLine
	nodes    int64
	start    time.Time
	progress func(SearchInfo)
}

func NewEngine(evaluator IEvaluator) *Engine {
	return &Engine{
		Options:   NewOptions(),
		evaluator: evaluator,
	}
}

func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Size() != e.Hash {
		e.transTable = newTransTable(e.Hash)
	}
}

// Search runs iterative deepening until the time manager or a Depth/Nodes
// limit stops it, and returns the last fully completed iteration.
func (e *Engine) Search(ctx context.Context, params SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()
	var p = &params.Positions[len(params.Positions)-1]

	var tmCtx, tm = newTimeManager(ctx, e.start, params.Limits, p)
	e.timeManager = tm
	defer tm.Close()

	e.transTable.IncDate()
	e.historyKeys = getHistoryKeys(params.Positions)
	e.clearHistory()
	e.nodes = 0
	e.mainLine = mainLine{}
	e.progress = params.Progress

	var rootPosition = *p
	e.position = &rootPosition

	e.runIterativeDeepening(tmCtx, params.Limits)

	return e.currentSearchResult()
}

func (e *Engine) runIterativeDeepening(ctx context.Context, limits LimitsType) {
	defer func() {
		if r := recover(); r != nil {
			if r != errSearchTimeout {
				panic(r)
			}
		}
	}()

	var prevScore = 0
	for depth := 1; depth < maxHeight; depth++ {
		if ctx.Err() != nil {
			return
		}
		var score = e.aspirationWindow(depth, prevScore)
		prevScore = score

		e.mainLine = mainLine{
			depth: depth,
			score: score,
			moves: e.stack[0].pv.toSlice(),
		}
		if e.progress != nil {
			e.progress(e.currentSearchResult())
		}
		e.timeManager.OnIterationComplete(e.mainLine)

		if limits.Depth != 0 && depth >= limits.Depth {
			return
		}
		if len(e.mainLine.moves) == 0 {
			return
		}
	}
}

func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	e.clearHistory()
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.nodes,
		Time:     time.Since(e.start),
	}
}
