package chess

import "testing"

// Perft counts leaf nodes reachable from p at exactly depth plies, used to
// validate move generation, make/unmake and check detection together.
func Perft(p *Position, depth int) int {
	if depth == 0 {
		return 1
	}
	var buffer [MaxMoves]OrderedMove
	var result = 0
	for _, om := range p.GenerateMoves(buffer[:0]) {
		if p.MakeMove(om.Move) {
			if depth > 1 {
				result += Perft(p, depth-1)
			} else {
				result++
			}
			p.UnmakeMove()
		}
	}
	return result
}

func TestPerftStartPos(t *testing.T) {
	var tests = []struct {
		depth int
		nodes int
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	}
	for _, tt := range tests {
		var p = NewPosition()
		if got := Perft(p, tt.depth); got != tt.nodes {
			t.Errorf("perft(startpos, %d) = %d, want %d", tt.depth, got, tt.nodes)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	var p, err = NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Perft(p, 4); got != 4085603 {
		t.Errorf("perft(kiwipete, 4) = %d, want 4085603", got)
	}
}

func TestPerftPosition3(t *testing.T) {
	var p, err = NewPositionFromFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Perft(p, 5); got != 674624 {
		t.Errorf("perft(position3, 5) = %d, want 674624", got)
	}
}

func TestPerftPosition4(t *testing.T) {
	var p, err = NewPositionFromFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Perft(p, 4); got != 422333 {
		t.Errorf("perft(position4, 4) = %d, want 422333", got)
	}
}
