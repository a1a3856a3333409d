package chess

import "testing"

func TestMakeUnmakeRoundTrip(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		var before = *p
		var beforeUndoLen = len(p.undo)
		var buffer [MaxMoves]OrderedMove
		for _, om := range p.GenerateMoves(buffer[:0]) {
			var legal = p.MakeMove(om.Move)
			if legal {
				p.UnmakeMove()
			}
			if len(p.undo) != beforeUndoLen {
				t.Fatalf("%s: undo stack length changed by unmake for %v: got %d want %d",
					fen, om.Move, len(p.undo), beforeUndoLen)
			}
			if p.Key != before.Key || p.White != before.White || p.Black != before.Black ||
				p.WhiteMove != before.WhiteMove || p.CastleRights != before.CastleRights ||
				p.EpSquare != before.EpSquare || p.Rule50 != before.Rule50 {
				t.Fatalf("%s: unmake(make(%v)) did not restore position (legal=%v)", fen, om.Move, legal)
			}
		}
	}
}

func TestZobristMatchesRecompute(t *testing.T) {
	var p = NewPosition()
	var check func(depth int)
	check = func(depth int) {
		if p.Key != p.computeKey() {
			t.Fatalf("incremental key %x != recomputed key %x at depth %d, fen=%s",
				p.Key, p.computeKey(), depth, p.FEN())
		}
		if depth == 0 {
			return
		}
		var buffer [MaxMoves]OrderedMove
		for _, om := range p.GenerateMoves(buffer[:0]) {
			if p.MakeMove(om.Move) {
				check(depth - 1)
				p.UnmakeMove()
			}
		}
	}
	check(3)
}

func TestFENRoundTrip(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
	}
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.FEN(); got != fen {
			t.Errorf("FEN round trip: got %q, want %q", got, fen)
		}
	}
}

func TestIllegalPositionRejected(t *testing.T) {
	// White to move with Black's king sitting in check from White's rook:
	// only reachable if Black had illegally left itself in check.
	var _, err = NewPositionFromFEN("k3R3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err == nil {
		t.Errorf("expected rejection of a position where the side not to move is in check")
	}

	var _, err2 = NewPositionFromFEN("k7/8/8/8/8/8/8/1R2K3 w - - 0 1")
	if err2 != nil {
		t.Fatalf("unexpected rejection of legal position: %v", err2)
	}
}

func TestMirrorSwapsSide(t *testing.T) {
	var p = NewPosition()
	var m = p.Mirror()
	if m.WhiteMove == p.WhiteMove {
		t.Errorf("Mirror() did not flip side to move")
	}
	if m.Key != m.computeKey() {
		t.Errorf("Mirror() produced an inconsistent Zobrist key")
	}
}
