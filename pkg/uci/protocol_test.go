package uci

import (
	"context"
	"testing"

	"github.com/topas-engine/topas/pkg/chess"
	"github.com/topas-engine/topas/pkg/engine"
)

type fakeEngine struct {
	lastParams engine.SearchParams
}

func (f *fakeEngine) Prepare() {}
func (f *fakeEngine) Clear()   {}
func (f *fakeEngine) Search(ctx context.Context, params engine.SearchParams) engine.SearchInfo {
	f.lastParams = params
	return engine.SearchInfo{MainLine: []chess.Move{chess.MoveEmpty}}
}

func TestPositionCommandStartpos(t *testing.T) {
	var fe = &fakeEngine{}
	var p = New("Test", "Test", "dev", fe, nil)
	if err := p.handle("position startpos moves e2e4 e7e5"); err != nil {
		t.Fatal(err)
	}
	if len(p.positions) != 3 {
		t.Fatalf("got %d positions, want 3", len(p.positions))
	}
	if p.positions[0].WhiteMove != true {
		t.Errorf("initial position should have white to move")
	}
	if p.positions[2].WhiteMove != true {
		t.Errorf("after e4 e5 it should be white to move again")
	}
}

func TestPositionCommandFen(t *testing.T) {
	var fe = &fakeEngine{}
	var p = New("Test", "Test", "dev", fe, nil)
	var fen = "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"
	if err := p.handle("position fen " + fen); err != nil {
		t.Fatal(err)
	}
	if got := p.positions[0].FEN(); got != fen {
		t.Errorf("got %q, want %q", got, fen)
	}
}

func TestSetOptionUpdatesValue(t *testing.T) {
	var hash = 16
	var opt = NewIntOption("Hash", 1, 1024, &hash)
	var fe = &fakeEngine{}
	var p = New("Test", "Test", "dev", fe, []*Option{opt})
	if err := p.handle("setoption name Hash value 64"); err != nil {
		t.Fatal(err)
	}
	if hash != 64 {
		t.Errorf("Hash = %d, want 64", hash)
	}
}
