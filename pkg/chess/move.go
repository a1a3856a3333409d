package chess

import "strings"

// Move packs (from, to, moving piece, captured piece, promotion) into a
// single comparable int32. Layout mirrors the classic CounterGo encoding:
// bits 0-5 from, 6-11 to, 12-14 moving piece, 15-17 captured piece,
// 18-20 promotion piece.
type Move int32

const MoveEmpty Move = 0

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15))
}

func makePromotionMove(from, to, capturedPiece, promotion int) Move {
	return Move(from ^ (to << 6) ^ (Pawn << 12) ^ (capturedPiece << 15) ^ (promotion << 18))
}

func (m Move) From() int          { return int(m & 63) }
func (m Move) To() int            { return int((m >> 6) & 63) }
func (m Move) MovingPiece() int   { return int((m >> 12) & 7) }
func (m Move) CapturedPiece() int { return int((m >> 15) & 7) }
func (m Move) Promotion() int     { return int((m >> 18) & 7) }

func (m Move) IsCaptureOrPromotion() bool {
	return m.CapturedPiece() != Empty || m.Promotion() != Empty
}

// String renders the move in long algebraic notation, e.g. "e2e4", "a7a8q".
func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.Promotion() != Empty {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

// ParseMove resolves a long-algebraic UCI move string against the legal
// moves of p. Returns MoveEmpty if lan does not name a legal move.
func ParseMove(p *Position, lan string) Move {
	var buffer [MaxMoves]OrderedMove
	for _, om := range p.GenerateLegalMoves(buffer[:0]) {
		if strings.EqualFold(om.Move.String(), lan) {
			return om.Move
		}
	}
	return MoveEmpty
}
