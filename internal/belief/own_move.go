package belief

import (
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

// landed returns the kind standing on m.To after the owner plays m. A pawn
// reaching the last rank without a promotion piece becomes a queen.
func (s *State) landed(m board.Move) board.PieceType {
	pt := m.Landed()
	if pt == board.Pawn && m.To.RelativeRank(s.owner) == 7 {
		return board.Queen
	}
	return pt
}

// applyOwn updates the owner's ground truth for m.
func (s *State) applyOwn(m board.Move) {
	pt := s.landed(m)
	s.own[m.From] = board.NoPieceType
	s.own[m.To] = pt
	if m.IsCastling() {
		rookFrom, rookTo := m.CastlingRook()
		s.own[rookFrom] = board.NoPieceType
		s.own[rookTo] = board.Rook
	}
	if pt == board.King {
		s.ownKing = m.To
	}
	s.castling = s.castling.AfterMove(s.owner, m)
}

// ApplyMove returns the state with only the owner's placement changed by m.
// The enemy belief is left as is apart from the squares m now occupies.
func (s *State) ApplyMove(m board.Move) *State {
	n := s.derive()
	n.applyOwn(m)
	n.finish("applyMove")
	return n
}

// AfterOwnMove returns the belief after the umpire accepted m with report r.
func (s *State) AfterOwnMove(sc *Scratch, m board.Move, r umpire.OwnMoveReport) *State {
	n := s.derive()
	n.applyOwn(m)
	n.inCheck = false

	if r.Capture != board.NoSquare {
		n.consume(r.Kind)
		n.clearSquare(r.Capture)
	}
	for _, sq := range m.Transit() {
		n.clearSquare(sq)
	}
	n.clearSquare(m.To)

	if r.PawnTries == 0 {
		n.excludeAttackingPawns()
	}
	if checks := r.Checks(); !checks.Empty() {
		n.propagateCheck(sc, m, checks)
	}

	n.record(r.Check1, r.Check2, r.Capture, r.PawnTries)
	n.finish("afterOwnMove")
	return n
}

// excludeAttackingPawns drops enemy pawns that would have a capture on any
// own unit: the opponent was announced no tries.
func (s *State) excludeAttackingPawns() {
	enemy := s.owner.Other()
	for sq := board.A1; sq <= board.H8; sq++ {
		if !s.isOwn(sq) {
			continue
		}
		for _, from := range board.PawnAttackers(enemy, sq) {
			s.pawn[from] = 0
		}
	}
}
