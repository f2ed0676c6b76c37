package belief

import "github.com/Ludeme/Ludii-sub013/internal/board"

// Hash returns the Zobrist key of the owner's army and castling rights.
func (s *State) Hash() uint64 {
	var h uint64
	for sq, pt := range s.own {
		if pt != board.NoPieceType {
			h ^= board.ZobristPiece(pt, board.Square(sq))
		}
	}
	h ^= board.ZobristCastling(s.castling, s.owner)
	if s.owner == board.Black {
		h ^= board.ZobristOwner()
	}
	return h
}

// HashAfterMove updates h, the hash of s, for the owner playing m.
func (s *State) HashAfterMove(h uint64, m board.Move) uint64 {
	h ^= board.ZobristPiece(m.Piece, m.From)
	h ^= board.ZobristPiece(s.landed(m), m.To)
	if m.IsCastling() {
		rookFrom, rookTo := m.CastlingRook()
		h ^= board.ZobristPiece(board.Rook, rookFrom) ^ board.ZobristPiece(board.Rook, rookTo)
	}
	h ^= board.ZobristCastling(s.castling, s.owner)
	h ^= board.ZobristCastling(s.castling.AfterMove(s.owner, m), s.owner)
	return h
}
