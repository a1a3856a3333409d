package eval

import (
	"testing"

	. "github.com/topas-engine/topas/pkg/chess"
)

func TestEvaluateSymmetric(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	var e = NewEvaluator()
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		var direct = e.Evaluate(p)
		var mirrored = e.Evaluate(p.Mirror())
		if direct != mirrored {
			t.Errorf("%s: Evaluate(p) = %d, Evaluate(p.Mirror()) = %d, want equal", fen, direct, mirrored)
		}
	}
}

func TestEvaluateStartPosIsZero(t *testing.T) {
	var e = NewEvaluator()
	var p = NewPosition()
	if got := e.Evaluate(p); got != 0 {
		t.Errorf("Evaluate(startpos) = %d, want 0", got)
	}
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	var e = NewEvaluator()
	var p, err = NewPositionFromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Evaluate(p); got <= 0 {
		t.Errorf("Evaluate(extra rook) = %d, want > 0", got)
	}
}
