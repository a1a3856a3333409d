package chess

import "math/rand"

// Zobrist constants are generated once, from a fixed seed, at process
// start. A fixed seed keeps hash values (and therefore perft/search
// traces) reproducible across runs and machines.
var (
	sideKey        uint64
	enpassantKey   [8]uint64
	castlingKey    [16]uint64
	pieceSquareKey [7 * 2 * 64]uint64
)

func PieceSquareKey(piece int, white bool, square int) uint64 {
	return pieceSquareKey[MakePiece(piece, white)*64+square]
}

func initZobrist() {
	var r = rand.New(rand.NewSource(0))
	sideKey = r.Uint64()
	for i := range enpassantKey {
		enpassantKey[i] = r.Uint64()
	}
	for i := range pieceSquareKey {
		pieceSquareKey[i] = r.Uint64()
	}

	var castle [4]uint64
	for i := range castle {
		castle[i] = r.Uint64()
	}
	for i := range castlingKey {
		for j := 0; j < 4; j++ {
			if i&(1<<uint(j)) != 0 {
				castlingKey[i] ^= castle[j]
			}
		}
	}
}

func init() {
	initZobrist()
}
