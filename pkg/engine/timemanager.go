package engine

import (
	"context"
	"time"

	. "github.com/topas-engine/topas/pkg/chess"
)

// mainLine is the current best line reported to the UCI layer.
type mainLine struct {
	moves []Move
	score int
	depth int
}

// TimeManager decides when an in-progress search should stop.
type TimeManager interface {
	IsDone() bool
	OnNodesChanged(nodes int)
	OnIterationComplete(line mainLine)
	Close()
}

// simpleTimeManager converts UCI go-limits into a soft deadline (checked
// only between iterations, so a search can still return a completed
// iteration) and a hard deadline enforced via context.WithDeadline.
type simpleTimeManager struct {
	ctx       context.Context
	start     time.Time
	limits    LimitsType
	softLimit time.Duration
	hardLimit time.Duration
	cancel    context.CancelFunc
}

func newTimeManager(ctx context.Context, start time.Time, limits LimitsType, p *Position) (context.Context, *simpleTimeManager) {
	var tm = &simpleTimeManager{start: start, limits: limits}

	if limits.MoveTime > 0 {
		tm.hardLimit = time.Duration(limits.MoveTime) * time.Millisecond
	} else if limits.WhiteTime > 0 || limits.BlackTime > 0 {
		var main, inc time.Duration
		if p.WhiteMove {
			main = time.Duration(limits.WhiteTime) * time.Millisecond
			inc = time.Duration(limits.WhiteIncrement) * time.Millisecond
		} else {
			main = time.Duration(limits.BlackTime) * time.Millisecond
			inc = time.Duration(limits.BlackIncrement) * time.Millisecond
		}
		tm.softLimit, tm.hardLimit = calcLimits(main, inc, limits.MovesToGo)
	}

	var cancel context.CancelFunc
	if tm.hardLimit != 0 {
		ctx, cancel = context.WithDeadline(ctx, start.Add(tm.hardLimit))
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	tm.cancel = cancel
	tm.ctx = ctx
	return ctx, tm
}

func (tm *simpleTimeManager) IsDone() bool {
	return tm.ctx.Err() != nil
}

func (tm *simpleTimeManager) OnNodesChanged(nodes int) {
	if tm.limits.Nodes > 0 && nodes >= tm.limits.Nodes {
		tm.cancel()
	}
}

func (tm *simpleTimeManager) OnIterationComplete(line mainLine) {
	if tm.limits.Infinite {
		return
	}
	if tm.limits.Depth != 0 && line.depth >= tm.limits.Depth {
		tm.cancel()
		return
	}
	if line.score >= winIn(line.depth-5) || line.score <= lossIn(line.depth-5) {
		tm.cancel()
		return
	}
	if tm.softLimit != 0 && time.Since(tm.start) >= tm.softLimit {
		tm.cancel()
		return
	}
}

func (tm *simpleTimeManager) Close() {
	tm.cancel()
}

func calcLimits(main, inc time.Duration, moves int) (soft, hard time.Duration) {
	const (
		defaultMovesToGo = 40
		moveOverhead     = 300 * time.Millisecond
		minTimeLimit     = 1 * time.Millisecond
	)

	main -= moveOverhead
	if main < minTimeLimit {
		main = minTimeLimit
	}

	if moves == 0 {
		var ideal = main/35 + inc/2
		soft = ideal * 7 / 10
		hard = ideal * 21 / 10
	} else {
		moves = min(moves, defaultMovesToGo)
		soft = (main/time.Duration(moves+1) + inc) * 7 / 10
		hard = (main/time.Duration(moves+1) + inc) * 21 / 10
	}

	hard = limitDuration(hard, minTimeLimit, main)
	soft = limitDuration(soft, minTimeLimit, main)
	return
}

func limitDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
