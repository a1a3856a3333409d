package chess

import "testing"

func TestSeeGEZero(t *testing.T) {
	p, err := NewPositionFromFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]OrderedMove
	var found Move
	for _, om := range p.GenerateMoves(buf[:0]) {
		if om.Move.String() == "e4d5" {
			found = om.Move
		}
	}
	if found == MoveEmpty {
		t.Fatal("move e4d5 not found")
	}
	if !SeeGEZero(p, found) {
		t.Errorf("SeeGEZero(e4xd5, undefended pawn) = false, want true")
	}
}

func TestSeeGENonCaptureIsZero(t *testing.T) {
	var p = NewPosition()
	var buf [MaxMoves]OrderedMove
	for _, om := range p.GenerateMoves(buf[:0]) {
		if om.Move.CapturedPiece() == Empty && om.Move.Promotion() == Empty {
			if !SeeGE(p, om.Move, 0) {
				t.Errorf("SeeGE(%v, 0) = false for a quiet move, want true (balance 0)", om.Move)
			}
			return
		}
	}
	t.Fatal("no quiet move found in starting position")
}
