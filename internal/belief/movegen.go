package belief

import (
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

var promotionPieces = [4]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

// GenerateMoves returns the owner's candidate moves. They are pseudo-legal
// against the own army only; the enemy is unknown, so any of them may be
// refused. At top level, while in check, only moves that can address every
// announced check are kept. The returned slice aliases sc.
func (s *State) GenerateMoves(sc *Scratch, topLevel bool) []board.Move {
	sc = ensure(sc)
	ml := &sc.moves
	ml.Clear()

	for sq := board.A1; sq <= board.H8; sq++ {
		switch pt := s.own[sq]; pt {
		case board.NoPieceType:
		case board.Pawn:
			s.genPawn(ml, sq)
		case board.Knight:
			for _, t := range board.KnightTargets(sq) {
				if !s.isOwn(t) {
					ml.Add(board.NewMove(sq, t, pt))
				}
			}
		case board.King:
			for _, t := range board.KingTargets(sq) {
				if !s.isOwn(t) {
					ml.Add(board.NewMove(sq, t, pt))
				}
			}
			s.genCastling(ml, sq)
		default:
			s.genSlider(ml, sq, pt)
		}
	}

	if topLevel && s.inCheck {
		s.filterCheckEvasions(ml)
	}
	return ml.Slice()
}

// GeneratePacked returns the candidate moves in packed form. The returned
// slice aliases sc.
func (s *State) GeneratePacked(sc *Scratch, topLevel bool) []board.Packed {
	sc = ensure(sc)
	moves := s.GenerateMoves(sc, topLevel)
	sc.packed = sc.packed[:0]
	for _, m := range moves {
		sc.packed = append(sc.packed, m.Pack())
	}
	return sc.packed
}

// Unpack decodes a packed move against the owner's army.
func (s *State) Unpack(p board.Packed) board.Move {
	return board.Unpack(p, s.OwnPiece)
}

func (s *State) genPawn(ml *board.MoveList, sq board.Square) {
	fwd := board.Forward(s.owner)
	one, ok := sq.Offset(0, fwd)
	if !ok {
		return
	}
	if !s.isOwn(one) {
		addPawnMove(ml, s.owner, sq, one)
		// Tried even when the single step might be blocked by an unseen
		// enemy: the umpire may still accept it.
		if sq.RelativeRank(s.owner) == 1 {
			if two, _ := one.Offset(0, fwd); !s.isOwn(two) {
				ml.Add(board.NewMove(sq, two, board.Pawn))
			}
		}
	}
	if s.pawnTries == 0 {
		return
	}
	for _, t := range board.PawnAttacks(s.owner, sq) {
		if !s.isOwn(t) && s.enemyMass(t) > massEps {
			addPawnMove(ml, s.owner, sq, t)
		}
	}
}

func addPawnMove(ml *board.MoveList, c board.Color, from, to board.Square) {
	if to.RelativeRank(c) == 7 {
		for _, promo := range promotionPieces {
			ml.Add(board.NewPromotion(from, to, promo))
		}
		return
	}
	ml.Add(board.NewMove(from, to, board.Pawn))
}

func (s *State) genCastling(ml *board.MoveList, king board.Square) {
	if s.inCheck {
		return
	}
	home := 0
	if s.owner == board.Black {
		home = 7
	}
	if king != board.NewSquare(4, home) {
		return
	}
	for _, kingSide := range []bool{true, false} {
		if !s.castling.CanCastle(s.owner, kingSide) {
			continue
		}
		rook, to := board.NewSquare(0, home), board.NewSquare(2, home)
		if kingSide {
			rook, to = board.NewSquare(7, home), board.NewSquare(6, home)
		}
		if s.own[rook] != board.Rook || s.ownBetween(king, rook) {
			continue
		}
		ml.Add(board.NewMove(king, to, board.King))
	}
}

func (s *State) genSlider(ml *board.MoveList, sq board.Square, pt board.PieceType) {
	for _, d := range board.AllDirections {
		if !pt.Slides(d) {
			continue
		}
		limit := s.envelopeLimit(sq, d)
		for _, t := range board.Ray(sq, d) {
			if s.isOwn(t) {
				break
			}
			if limit >= 0 && ((d == board.North && t.Rank() > limit) || (d == board.South && t.Rank() < limit)) {
				break
			}
			ml.Add(board.NewMove(sq, t, pt))
		}
	}
}

// envelopeLimit returns the farthest rank a vertical slide from sq can reach
// when the file's enemy pawns are certain to block it, or -1.
func (s *State) envelopeLimit(sq board.Square, d board.Direction) int {
	if !d.Vertical() {
		return -1
	}
	f := sq.File()
	env := &s.env
	if env.MinRank[f] < 0 || env.FileMass[f] < s.params.EnvelopeCertainty {
		return -1
	}
	switch {
	case d == board.North && sq.Rank() < env.MinRank[f]:
		return env.MaxRank[f]
	case d == board.South && sq.Rank() > env.MaxRank[f]:
		return env.MinRank[f]
	}
	return -1
}

// filterCheckEvasions keeps king moves and moves landing on the constraint
// line of every announced check.
func (s *State) filterCheckEvasions(ml *board.MoveList) {
	checks := s.Checks()
	ml.Filter(func(m board.Move) bool {
		return m.Piece == board.King || s.addressesAll(checks, m.To)
	})
}

func (s *State) addressesAll(checks umpire.Set, to board.Square) bool {
	for i := 0; i < checks.Len(); i++ {
		if !s.onCheckLine(checks.At(i), to) {
			return false
		}
	}
	return true
}

// onCheckLine reports whether landing on t can capture or block a checker of
// kind c.
func (s *State) onCheckLine(c umpire.Check, t board.Square) bool {
	k := s.ownKing
	if c == umpire.CheckKnight {
		return board.KnightApart(k, t)
	}
	d := board.DirectionTo(k, t)
	return d != board.NoDirection && c.Matches(k, d) && !s.ownBetween(k, t)
}
