package belief

import (
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

// supportsCheck reports whether a piece of kind pt can give a check of kind c
// on its own.
func supportsCheck(pt board.PieceType, c umpire.Check) bool {
	switch c {
	case umpire.CheckKnight:
		return pt == board.Knight
	case umpire.CheckFile, umpire.CheckRank:
		return pt == board.Rook || pt == board.Queen
	case umpire.CheckLongDiagonal, umpire.CheckShortDiagonal:
		return pt == board.Bishop || pt == board.Queen || pt == board.Pawn
	}
	return false
}

// propagateCheck keeps enemy king mass only on squares explained by every
// check announced after the owner played m.
func (s *State) propagateCheck(sc *Scratch, m board.Move, checks umpire.Set) {
	sc = ensure(sc)
	hits := &sc.kingHits
	*hits = [64]uint8{}

	landed := s.own[m.To]
	rookTo := board.NoSquare
	if m.IsCastling() {
		_, rookTo = m.CastlingRook()
	}

	for i := 0; i < checks.Len(); i++ {
		c := checks.At(i)
		var seen [64]bool
		if supportsCheck(landed, c) {
			s.markDirect(m.To, landed, c, &seen)
		}
		if rookTo != board.NoSquare && supportsCheck(board.Rook, c) {
			s.markDirect(rookTo, board.Rook, c, &seen)
		}
		if c != umpire.CheckKnight {
			s.markDiscovery(m, c, &seen)
		}
		for sq, ok := range seen {
			if ok {
				hits[sq]++
			}
		}
	}

	need := uint8(checks.Len())
	for sq := range s.king {
		if hits[sq] < need {
			s.king[sq] = 0
		}
	}
}

// markDirect marks king squares that a pt on from attacks with a check of
// kind c.
func (s *State) markDirect(from board.Square, pt board.PieceType, c umpire.Check, seen *[64]bool) {
	switch pt {
	case board.Knight:
		for _, t := range board.KnightTargets(from) {
			if s.king[t] > 0 {
				seen[t] = true
			}
		}
	case board.Pawn:
		for _, t := range board.PawnAttacks(s.owner, from) {
			if s.king[t] > 0 && c.Matches(t, board.DirectionTo(from, t)) {
				seen[t] = true
			}
		}
	default:
		for _, d := range board.AllDirections {
			if !pt.Slides(d) {
				continue
			}
			for _, t := range board.Ray(from, d) {
				if s.isOwn(t) {
					break
				}
				if s.king[t] > 0 && c.Matches(t, d) {
					seen[t] = true
				}
			}
		}
	}
}

// markDiscovery marks king squares on lines through m.From that a sliding
// own piece behind the vacated square now attacks with a check of kind c.
// The mover's own line stays blocked by the mover and is skipped.
func (s *State) markDiscovery(m board.Move, c umpire.Check, seen *[64]bool) {
	moveDir := m.Direction()
	for _, d := range board.AllDirections {
		if moveDir != board.NoDirection && (d == moveDir || d == moveDir.Reverse()) {
			continue
		}
		attacker := board.NoSquare
		for _, t := range board.Ray(m.From, d) {
			if s.isOwn(t) {
				attacker = t
				break
			}
		}
		if attacker == board.NoSquare || !s.own[attacker].Slides(d) {
			continue
		}
		toward := d.Reverse()
		for _, t := range board.Ray(m.From, toward) {
			if s.isOwn(t) {
				break
			}
			if s.king[t] > 0 && c.Matches(t, toward) {
				seen[t] = true
			}
		}
	}
}
