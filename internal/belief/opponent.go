package belief

import (
	"math"

	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

// AfterOpponentMove returns the belief after the opponent moved and the
// umpire announced r.
func (s *State) AfterOpponentMove(sc *Scratch, r umpire.OpponentReport) *State {
	n := s.derive()
	checks := r.Checks()

	if r.Capture != board.NoSquare {
		n.loseOwnPiece(r.Capture)
		n.attributeCapture(r.Capture)
	} else {
		n.predict()
	}

	if !checks.Empty() {
		n.concentrateCheckers(checks)
	}
	switch {
	case r.PawnTries == 0 && checks.Empty():
		n.excludePawnTargets()
	case r.PawnTries > 0:
		n.liftPawnTargets(r.PawnTries)
	}
	if checks.Empty() {
		n.thinBehindOwnLines()
		n.restrictKingNoCheck()
	}

	n.updateDanger(r.Capture, checks)
	n.inCheck = !checks.Empty()
	n.record(r.Check1, r.Check2, r.Capture, r.PawnTries)
	n.finish("afterOpponentMove")
	return n
}

func (s *State) loseOwnPiece(sq board.Square) {
	s.own[sq] = board.NoPieceType
	s.castling &= s.own.HomeCastling(s.owner)
}

// attributeCapture splits the blame for a capture on x between an enemy
// pawn, piece and the king, then moves the matching mass onto x.
func (s *State) attributeCapture(x board.Square) {
	enemy := s.owner.Other()
	p := s.params

	pawnFrom := board.PawnAttackers(enemy, x)
	pawnSrc := s.pawn.SumOver(pawnFrom)
	kingFrom := board.KingTargets(x)
	kingSrc := s.king.SumOver(kingFrom)

	var pPawn, pPiece, pKing float64
	if s.pawnTries > 0 && pawnSrc > massEps {
		pPawn = p.PawnCapturePrior
	}
	if s.pieceCount > massEps {
		pPiece = p.PieceCapturePrior
	}
	if kingSrc > massEps {
		pKing = p.KingCapturePrior
	}

	if pPawn == 0 && pPiece == 0 {
		s.king = Grid{}
		s.king[x] = 1
		return
	}
	total := pPawn + pPiece + pKing
	pPawn, pPiece, pKing = pPawn/total, pPiece/total, pKing/total

	if pPawn > 0 {
		drawFrom(&s.pawn, pawnFrom, pPawn)
		if x.RelativeRank(enemy) == 7 {
			s.piece[x] += pPawn
			s.pawnCount = math.Max(0, s.pawnCount-pPawn)
			s.pieceCount += pPawn
		} else {
			s.pawn[x] = pPawn
		}
	}
	if pPiece > 0 {
		drawFrom(&s.piece, s.pieceSources(x), pPiece)
		s.piece[x] += pPiece
	}
	if pKing > 0 {
		drawFrom(&s.king, kingFrom, pKing)
		s.king[x] = pKing
	}
}

// pieceSources are the squares an enemy piece could have reached x from.
func (s *State) pieceSources(x board.Square) []board.Square {
	var out []board.Square
	for _, d := range board.AllDirections {
		for _, t := range board.Ray(x, d) {
			if s.isOwn(t) {
				break
			}
			out = append(out, t)
		}
	}
	for _, t := range board.KnightTargets(x) {
		if !s.isOwn(t) {
			out = append(out, t)
		}
	}
	return out
}

// drawFrom removes amount from the given squares in proportion to their
// mass, or from the whole grid when they hold none.
func drawFrom(g *Grid, from []board.Square, amount float64) {
	src := g.SumOver(from)
	if src > massEps {
		take := math.Min(1, amount/src)
		for _, sq := range from {
			g[sq] -= g[sq] * take
		}
		return
	}
	if total := g.Sum(); total > massEps {
		g.Scale(math.Max(0, total-amount) / total)
	}
}

// predict moves the enemy mass for a silent opponent move, through the
// registered model when it has an answer, otherwise by diffusion.
func (s *State) predict() {
	if m := s.params.Model; m != nil {
		if piece, pawn, king, ok := m.Predict(s); ok {
			s.piece, s.pawn, s.king = piece, pawn, king
			return
		}
	}
	s.diffuse()
}

// diffuse spreads enemy mass along the moves each kind could have made.
// Flows are computed from the occupancy before the move.
func (s *State) diffuse() {
	p := s.params
	enemy := s.owner.Other()

	var free Grid
	for sq := board.A1; sq <= board.H8; sq++ {
		if s.isOwn(sq) {
			continue
		}
		free[sq] = clamp(1-s.enemyMass(sq), 0, 1)
	}

	var dPiece, dPawn, dKing Grid
	promoted := 0.0

	for sq := board.A1; sq <= board.H8; sq++ {
		if m := s.piece[sq]; m > massEps {
			for _, t := range board.KingTargets(sq) {
				flow := p.SlideRate * m * free[t]
				dPiece[sq] -= flow
				dPiece[t] += flow
			}
			for _, t := range board.KnightTargets(sq) {
				flow := p.KnightRate * m * free[t]
				dPiece[sq] -= flow
				dPiece[t] += flow
			}
		}

		if m := s.pawn[sq]; m > massEps {
			one, ok := sq.Offset(0, board.Forward(enemy))
			if ok && !s.isOwn(one) {
				flow := p.PawnStepRate * m * free[one]
				dPawn[sq] -= flow
				if one.RelativeRank(enemy) == 7 {
					dPiece[one] += flow
					promoted += flow
				} else {
					dPawn[one] += flow
				}
				if sq.RelativeRank(enemy) == 1 {
					two, _ := one.Offset(0, board.Forward(enemy))
					if !s.isOwn(two) {
						flow := p.PawnDoubleRate * m * free[one] * free[two]
						dPawn[sq] -= flow
						dPawn[two] += flow
					}
				}
			}
		}

		if m := s.king[sq]; m > massEps {
			for _, t := range board.KingTargets(sq) {
				dKing[t] += p.KingStepRate * m * free[t]
			}
		}
	}

	for sq := range s.piece {
		s.piece[sq] += dPiece[sq]
		s.pawn[sq] += dPawn[sq]
		s.king[sq] += dKing[sq]
	}
	if promoted > 0 {
		s.pieceCount += promoted
		s.pawnCount = math.Max(0, s.pawnCount-promoted)
	}
}

// concentrateCheckers raises the attacker mass on the lines an announced
// check can come from.
func (s *State) concentrateCheckers(checks umpire.Set) {
	k := s.ownKing
	if k == board.NoSquare {
		return
	}
	enemy := s.owner.Other()
	for i := 0; i < checks.Len(); i++ {
		c := checks.At(i)
		var pieces, pawns []board.Square
		if c == umpire.CheckKnight {
			for _, t := range board.KnightTargets(k) {
				if !s.isOwn(t) {
					pieces = append(pieces, t)
				}
			}
		} else {
			for _, d := range board.AllDirections {
				if !c.Matches(k, d) {
					continue
				}
				for _, t := range board.Ray(k, d) {
					if s.isOwn(t) {
						break
					}
					pieces = append(pieces, t)
				}
			}
			if c.Diagonal() {
				for _, t := range board.PawnAttackers(enemy, k) {
					if !s.isOwn(t) && c.Matches(k, board.DirectionTo(k, t)) {
						pawns = append(pawns, t)
					}
				}
			}
		}

		total := s.piece.SumOver(pieces) + s.pawn.SumOver(pawns)
		if total <= massEps || total >= 1 {
			continue
		}
		f := 1 / total
		for _, t := range pieces {
			s.piece[t] *= f
		}
		for _, t := range pawns {
			s.pawn[t] *= f
		}
	}
}

// excludePawnTargets empties every square an own pawn attacks: the owner was
// announced no tries.
func (s *State) excludePawnTargets() {
	for sq := board.A1; sq <= board.H8; sq++ {
		if s.own[sq] != board.Pawn {
			continue
		}
		for _, t := range board.PawnAttacks(s.owner, sq) {
			if !s.isOwn(t) {
				s.clearSquare(t)
			}
		}
	}
}

// liftPawnTargets raises enemy mass on own pawn targets until it accounts
// for the announced tries.
func (s *State) liftPawnTargets(tries int) {
	var seen [64]bool
	var targets []board.Square
	for sq := board.A1; sq <= board.H8; sq++ {
		if s.own[sq] != board.Pawn {
			continue
		}
		for _, t := range board.PawnAttacks(s.owner, sq) {
			if !s.isOwn(t) && !seen[t] {
				seen[t] = true
				targets = append(targets, t)
			}
		}
	}
	total := s.piece.SumOver(targets) + s.pawn.SumOver(targets)
	if total <= massEps || total >= float64(tries) {
		return
	}
	f := float64(tries) / total
	for _, t := range targets {
		s.piece[t] *= f
		s.pawn[t] *= f
	}
}

// thinBehindOwnLines scales enemy king mass on own sliding lines by the
// probability that the line is blocked before it: no check was announced.
func (s *State) thinBehindOwnLines() {
	for sq := board.A1; sq <= board.H8; sq++ {
		pt := s.own[sq]
		if pt != board.Bishop && pt != board.Rook && pt != board.Queen {
			continue
		}
		for _, d := range board.AllDirections {
			if !pt.Slides(d) {
				continue
			}
			open := 1.0
			for _, t := range board.Ray(sq, d) {
				if s.isOwn(t) {
					break
				}
				s.king[t] *= 1 - open
				open *= 1 - s.blocking(t)
				if open < massEps {
					break
				}
			}
		}
	}
}

// updateDanger decays the danger counter and raises it where the opponent
// just struck.
func (s *State) updateDanger(capture board.Square, checks umpire.Set) {
	p := s.params
	for sq := range s.danger {
		s.danger[sq] = p.DangerFloor + (s.danger[sq]-p.DangerFloor)*p.DangerDecay
	}
	if capture != board.NoSquare {
		s.danger[capture] = 1
		for _, t := range board.KingTargets(capture) {
			s.danger[t] = math.Min(1, s.danger[t]+0.5)
		}
	}
	if !checks.Empty() && s.ownKing != board.NoSquare {
		s.danger[s.ownKing] = 1
	}
}
