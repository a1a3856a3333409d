package chess

const (
	f1g1Mask = (uint64(1) << SquareF1) | (uint64(1) << SquareG1)
	b1d1Mask = (uint64(1) << SquareB1) | (uint64(1) << SquareC1) | (uint64(1) << SquareD1)
	f8g8Mask = (uint64(1) << SquareF8) | (uint64(1) << SquareG8)
	b8d8Mask = (uint64(1) << SquareB8) | (uint64(1) << SquareC8) | (uint64(1) << SquareD8)
)

var (
	WhiteKingSideCastle  = makeMove(SquareE1, SquareG1, King, Empty)
	WhiteQueenSideCastle = makeMove(SquareE1, SquareC1, King, Empty)
	BlackKingSideCastle  = makeMove(SquareE8, SquareG8, King, Empty)
	BlackQueenSideCastle = makeMove(SquareE8, SquareC8, King, Empty)
)

func addPromotions(buf []OrderedMove, move Move) int {
	buf[0] = OrderedMove{Move: move ^ Move(Queen<<18)}
	buf[1] = OrderedMove{Move: move ^ Move(Rook<<18)}
	buf[2] = OrderedMove{Move: move ^ Move(Bishop<<18)}
	buf[3] = OrderedMove{Move: move ^ Move(Knight<<18)}
	return 4
}

// GenerateMoves appends every pseudo-legal move (quiet and capture) to
// buf and returns the used slice. When the side to move is in check,
// destinations for non-king pieces are restricted to the checker's
// square or the ray between the (single) checker and the king.
func (p *Position) GenerateMoves(buf []OrderedMove) []OrderedMove {
	var count = 0
	var ml = buf[:cap(buf)]
	if len(ml) < MaxMoves {
		var grown = make([]OrderedMove, MaxMoves)
		ml = grown
	}

	var ownPieces, oppPieces uint64
	if p.WhiteMove {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}

	var target = ^ownPieces
	if p.Checkers != 0 {
		var kingSq = FirstOne(p.Kings & ownPieces)
		target = p.Checkers | Between(FirstOne(p.Checkers), kingSq)
	}

	var allPieces = p.Occupied()
	var ownPawns = p.Pawns & ownPieces
	var from, to int
	var fromBB, toBB uint64

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			ml[count].Move = makeMove(from, p.EpSquare, Pawn, Pawn)
			count++
		}
	}

	if p.WhiteMove {
		for fromBB = ownPawns & ^Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if squareMask[from+8]&allPieces == 0 && squareMask[from+8]&target != 0 {
				ml[count].Move = makeMove(from, from+8, Pawn, Empty)
				count++
			}
			if Rank(from) == Rank2 && squareMask[from+8]&allPieces == 0 &&
				squareMask[from+16]&allPieces == 0 && squareMask[from+16]&target != 0 {
				ml[count].Move = makeMove(from, from+16, Pawn, Empty)
				count++
			}
			if File(from) > FileA && squareMask[from+7]&oppPieces&target != 0 {
				ml[count].Move = makeMove(from, from+7, Pawn, p.PieceOn(from+7))
				count++
			}
			if File(from) < FileH && squareMask[from+9]&oppPieces&target != 0 {
				ml[count].Move = makeMove(from, from+9, Pawn, p.PieceOn(from+9))
				count++
			}
		}
		for fromBB = ownPawns & Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if squareMask[from+8]&allPieces == 0 && squareMask[from+8]&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from+8, Pawn, Empty))
			}
			if File(from) > FileA && squareMask[from+7]&oppPieces&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from+7, Pawn, p.PieceOn(from+7)))
			}
			if File(from) < FileH && squareMask[from+9]&oppPieces&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from+9, Pawn, p.PieceOn(from+9)))
			}
		}
	} else {
		for fromBB = ownPawns & ^Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if squareMask[from-8]&allPieces == 0 && squareMask[from-8]&target != 0 {
				ml[count].Move = makeMove(from, from-8, Pawn, Empty)
				count++
			}
			if Rank(from) == Rank7 && squareMask[from-8]&allPieces == 0 &&
				squareMask[from-16]&allPieces == 0 && squareMask[from-16]&target != 0 {
				ml[count].Move = makeMove(from, from-16, Pawn, Empty)
				count++
			}
			if File(from) > FileA && squareMask[from-9]&oppPieces&target != 0 {
				ml[count].Move = makeMove(from, from-9, Pawn, p.PieceOn(from-9))
				count++
			}
			if File(from) < FileH && squareMask[from-7]&oppPieces&target != 0 {
				ml[count].Move = makeMove(from, from-7, Pawn, p.PieceOn(from-7))
				count++
			}
		}
		for fromBB = ownPawns & Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if squareMask[from-8]&allPieces == 0 && squareMask[from-8]&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from-8, Pawn, Empty))
			}
			if File(from) > FileA && squareMask[from-9]&oppPieces&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from-9, Pawn, p.PieceOn(from-9)))
			}
			if File(from) < FileH && squareMask[from-7]&oppPieces&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from-7, Pawn, p.PieceOn(from-7)))
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = knightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Knight, p.PieceOn(to))
			count++
		}
	}
	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Bishop, p.PieceOn(to))
			count++
		}
	}
	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Rook, p.PieceOn(to))
			count++
		}
	}
	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Queen, p.PieceOn(to))
			count++
		}
	}

	from = FirstOne(p.Kings & ownPieces)
	for toBB = kingAttacks[from] &^ ownPieces; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count].Move = makeMove(from, to, King, p.PieceOn(to))
		count++
	}

	if p.Checkers == 0 {
		if p.WhiteMove {
			if p.CastleRights&WhiteKingSide != 0 && allPieces&f1g1Mask == 0 &&
				!p.isAttackedBySide(SquareE1, false) && !p.isAttackedBySide(SquareF1, false) {
				ml[count].Move = WhiteKingSideCastle
				count++
			}
			if p.CastleRights&WhiteQueenSide != 0 && allPieces&b1d1Mask == 0 &&
				!p.isAttackedBySide(SquareE1, false) && !p.isAttackedBySide(SquareD1, false) {
				ml[count].Move = WhiteQueenSideCastle
				count++
			}
		} else {
			if p.CastleRights&BlackKingSide != 0 && allPieces&f8g8Mask == 0 &&
				!p.isAttackedBySide(SquareE8, true) && !p.isAttackedBySide(SquareF8, true) {
				ml[count].Move = BlackKingSideCastle
				count++
			}
			if p.CastleRights&BlackQueenSide != 0 && allPieces&b8d8Mask == 0 &&
				!p.isAttackedBySide(SquareE8, true) && !p.isAttackedBySide(SquareD8, true) {
				ml[count].Move = BlackQueenSideCastle
				count++
			}
		}
	}

	return ml[:count]
}

// GenerateCaptures appends every pseudo-legal capture and promotion to
// buf (plus, when the side to move is in check, every evasion, since a
// mating net can hide behind a quiet check evasion).
func (p *Position) GenerateCaptures(buf []OrderedMove) []OrderedMove {
	if p.Checkers != 0 {
		// In check, quiescence must see every evasion, not only captures:
		// a mate can hide behind a quiet-looking check response.
		return p.GenerateMoves(buf)
	}

	var count = 0
	var ml = buf[:cap(buf)]
	if len(ml) < MaxMoves {
		ml = make([]OrderedMove, MaxMoves)
	}

	var ownPieces, oppPieces uint64
	if p.WhiteMove {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}
	var target = oppPieces
	var allPieces = p.Occupied()
	var ownPawns = p.Pawns & ownPieces
	var from, to int
	var fromBB, toBB uint64

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			ml[count].Move = makeMove(from, p.EpSquare, Pawn, Pawn)
			count++
		}
	}

	if p.WhiteMove {
		for fromBB = (AllBlackPawnAttacks(oppPieces) | Rank7Mask) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			var promo = let(Rank(from) == Rank7, Queen, Empty)
			if Rank(from) == Rank7 && squareMask[from+8]&allPieces == 0 {
				if promo != Empty {
					count += addPromotions(ml[count:], makeMove(from, from+8, Pawn, Empty))
				}
			}
			if File(from) > FileA && squareMask[from+7]&oppPieces != 0 {
				if promo != Empty {
					count += addPromotions(ml[count:], makeMove(from, from+7, Pawn, p.PieceOn(from+7)))
				} else {
					ml[count].Move = makeMove(from, from+7, Pawn, p.PieceOn(from+7))
					count++
				}
			}
			if File(from) < FileH && squareMask[from+9]&oppPieces != 0 {
				if promo != Empty {
					count += addPromotions(ml[count:], makeMove(from, from+9, Pawn, p.PieceOn(from+9)))
				} else {
					ml[count].Move = makeMove(from, from+9, Pawn, p.PieceOn(from+9))
					count++
				}
			}
		}
	} else {
		for fromBB = (AllWhitePawnAttacks(oppPieces) | Rank2Mask) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			var promo = let(Rank(from) == Rank2, Queen, Empty)
			if Rank(from) == Rank2 && squareMask[from-8]&allPieces == 0 {
				if promo != Empty {
					count += addPromotions(ml[count:], makeMove(from, from-8, Pawn, Empty))
				}
			}
			if File(from) > FileA && squareMask[from-9]&oppPieces != 0 {
				if promo != Empty {
					count += addPromotions(ml[count:], makeMove(from, from-9, Pawn, p.PieceOn(from-9)))
				} else {
					ml[count].Move = makeMove(from, from-9, Pawn, p.PieceOn(from-9))
					count++
				}
			}
			if File(from) < FileH && squareMask[from-7]&oppPieces != 0 {
				if promo != Empty {
					count += addPromotions(ml[count:], makeMove(from, from-7, Pawn, p.PieceOn(from-7)))
				} else {
					ml[count].Move = makeMove(from, from-7, Pawn, p.PieceOn(from-7))
					count++
				}
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = knightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Knight, p.PieceOn(to))
			count++
		}
	}
	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Bishop, p.PieceOn(to))
			count++
		}
	}
	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Rook, p.PieceOn(to))
			count++
		}
	}
	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = makeMove(from, to, Queen, p.PieceOn(to))
			count++
		}
	}

	from = FirstOne(p.Kings & ownPieces)
	for toBB = kingAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count].Move = makeMove(from, to, King, p.PieceOn(to))
		count++
	}

	return ml[:count]
}

// GenerateLegalMoves filters GenerateMoves by actually applying each move
// and checking it does not leave the mover's own king in check.
func (p *Position) GenerateLegalMoves(buf []OrderedMove) []OrderedMove {
	var pseudo [MaxMoves]OrderedMove
	var result = buf[:0]
	for _, om := range p.GenerateMoves(pseudo[:0]) {
		if p.MakeMove(om.Move) {
			p.UnmakeMove()
			result = append(result, om)
		}
	}
	return result
}
