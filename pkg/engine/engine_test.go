package engine

import (
	"context"
	"testing"

	"github.com/topas-engine/topas/pkg/chess"
	"github.com/topas-engine/topas/pkg/eval"
)

func newTestEngine() *Engine {
	return NewEngine(eval.NewEvaluator())
}

func TestSearchFindsMateInOne(t *testing.T) {
	var p, err = chess.NewPositionFromFEN("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var e = newTestEngine()
	e.Hash = 4
	var info = e.Search(context.Background(), SearchParams{
		Positions: []chess.Position{*p},
		Limits:    LimitsType{Depth: 4},
	})
	if len(info.MainLine) == 0 {
		t.Fatal("no move returned")
	}
	if got := info.MainLine[0].String(); got != "a1a8" {
		t.Errorf("bestmove = %s, want a1a8", got)
	}
	if info.Score.Mate != 1 {
		t.Errorf("score mate = %d, want 1", info.Score.Mate)
	}
}

func TestSearchRespectsDepthLimit(t *testing.T) {
	var p = chess.NewPosition()
	var e = newTestEngine()
	e.Hash = 4
	var info = e.Search(context.Background(), SearchParams{
		Positions: []chess.Position{*p},
		Limits:    LimitsType{Depth: 3},
	})
	if info.Depth > 3 {
		t.Errorf("depth = %d, want <= 3", info.Depth)
	}
	if len(info.MainLine) == 0 {
		t.Fatal("no move returned from starting position")
	}
}

func TestTransTableRoundTrip(t *testing.T) {
	var tt = newTransTable(1)
	tt.Update(0x1234, 5, 120, boundExact, chess.MoveEmpty)
	var depth, score, bound, _, ok = tt.Read(0x1234)
	if !ok {
		t.Fatal("expected a hit")
	}
	if depth != 5 || score != 120 || bound != boundExact {
		t.Errorf("got depth=%d score=%d bound=%d", depth, score, bound)
	}
	var _, _, _, _, missOk = tt.Read(0xabcd)
	if missOk {
		t.Errorf("expected a miss for an unwritten key")
	}
}
