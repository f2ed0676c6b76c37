package board

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CastleRight returns the single right for a color and wing.
func CastleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&CastleRight(c, kingSide) != 0
}

// Of returns only the rights belonging to color c.
func (cr CastlingRights) Of(c Color) CastlingRights {
	if c == White {
		return cr & (WhiteKingSideCastle | WhiteQueenSideCastle)
	}
	return cr & (BlackKingSideCastle | BlackQueenSideCastle)
}

// AfterMove returns the rights left once color c has played m.
func (cr CastlingRights) AfterMove(c Color, m Move) CastlingRights {
	home := 0
	if c == Black {
		home = 7
	}
	switch {
	case m.Piece == King:
		cr &^= CastleRight(c, true) | CastleRight(c, false)
	case m.Piece == Rook && m.From == NewSquare(7, home):
		cr &^= CastleRight(c, true)
	case m.Piece == Rook && m.From == NewSquare(0, home):
		cr &^= CastleRight(c, false)
	}
	return cr
}
