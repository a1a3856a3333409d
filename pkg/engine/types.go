package engine

import (
	"time"

	"github.com/topas-engine/topas/pkg/chess"
)

// LimitsType mirrors the subset of UCI go-command limits this driver honors.
type LimitsType struct {
	Infinite       bool
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MoveTime       int
	MovesToGo      int
	Depth          int
	Nodes          int
}

// SearchParams is the request passed to Engine.Search: the game history up
// to and including the position to search, plus the limits for this move.
type SearchParams struct {
	Positions []chess.Position
	Limits    LimitsType
	Progress  func(SearchInfo)
}

// SearchInfo is a snapshot of search progress suitable for a UCI info line.
type SearchInfo struct {
	Depth    int
	Score    UciScore
	Nodes    int64
	Time     time.Duration
	MainLine []chess.Move
}

// UciScore holds either a centipawn score or a distance-to-mate count, never
// both, matching the UCI "score cp N" / "score mate N" alternative.
type UciScore struct {
	Centipawns int
	Mate       int
}

// TransTable is the storage interface the search driver requires; the
// production implementation is transTable in transtable.go.
type TransTable interface {
	Size() int
	IncDate()
	Clear()
	Read(key uint64) (depth, score, bound int, move chess.Move, found bool)
	Update(key uint64, depth, score, bound int, move chess.Move)
}

// IEvaluator is satisfied by pkg/eval.Evaluator; kept as an interface so the
// search driver does not import pkg/eval directly.
type IEvaluator interface {
	Evaluate(p *chess.Position) int
}
