package belief

import (
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

// AfterRejectedMove returns the belief after the umpire refused m. A refusal
// while in check carries no information about the enemy placement.
func (s *State) AfterRejectedMove(sc *Scratch, m board.Move, r umpire.RejectReport) *State {
	n := s.derive()
	if r.Checks().Empty() {
		switch {
		case m.Piece == board.Knight:
			n.explainPinnedKnight(m)
		case m.Piece == board.King && !m.IsCastling():
			n.explainKingRefusal(m)
		case m.Piece == board.Pawn && m.From.File() != m.To.File():
			n.clearSquare(m.To)
		default:
			n.explainObstruction(m)
		}
	}
	n.finish("afterRejectedMove")
	return n
}

// explainPinnedKnight handles a refused knight jump: the knight can only be
// pinned, so at least one enemy piece exists on the line behind it.
func (s *State) explainPinnedKnight(m board.Move) {
	if s.pieceCount < 1 {
		s.pieceCount = 1
	}

	if d := board.DirectionTo(s.ownKing, m.From); d != board.NoDirection && !s.ownBetween(s.ownKing, m.From) {
		for _, t := range board.Between(s.ownKing, m.From) {
			s.clearSquare(t)
		}
		var beam []board.Square
		for _, t := range board.Ray(m.From, d) {
			if s.isOwn(t) {
				break
			}
			beam = append(beam, t)
		}
		if len(beam) > 0 {
			total := s.piece.SumOver(beam)
			switch {
			case total <= massEps:
				for _, t := range beam {
					s.piece[t] = 1
				}
			case total < 1:
				for _, t := range beam {
					s.piece[t] /= total
				}
			}
			return
		}
	}

	if s.piece.Sum() <= massEps {
		for sq := board.A1; sq <= board.H8; sq++ {
			if !s.isOwn(sq) {
				s.piece[sq] = 1
			}
		}
	}
}

func (s *State) ownBetween(a, b board.Square) bool {
	for _, t := range board.Between(a, b) {
		if s.isOwn(t) {
			return true
		}
	}
	return false
}

// explainKingRefusal handles a refused king step. With no enemy material
// left, or nothing covering the destination, only the enemy king can guard
// it from next door.
func (s *State) explainKingRefusal(m board.Move) {
	if s.pieceCount+s.pawnCount > massEps && s.ProtectionLevel(m.To) > massEps {
		return
	}
	for sq := board.A1; sq <= board.H8; sq++ {
		if !board.Adjacent(sq, m.To) {
			s.king[sq] = 0
		}
	}
}

// explainObstruction handles a blocked slide, pawn push or castling: some
// enemy unit stands on the path.
func (s *State) explainObstruction(m board.Move) {
	path := m.Transit()
	if m.Piece == board.Pawn {
		path = append(append([]board.Square(nil), path...), m.To)
	}
	total := 0.0
	for _, t := range path {
		total += s.enemyMass(t)
	}
	if total <= massEps || total >= 1 {
		return
	}
	f := 1 / total
	for _, t := range path {
		s.piece[t] *= f
		s.pawn[t] *= f
		s.king[t] *= f
	}
}
