package belief

import (
	"math"

	"github.com/Ludeme/Ludii-sub013/internal/board"
)

// kingPressure is the value of covering a square the enemy king may stand on.
const kingPressure = 50

func value(pt board.PieceType) float64 {
	return float64(board.PieceValue[pt])
}

// averagePieceValue is the value of an unknown enemy piece: the mean over a
// full set of knights, bishops, rooks and the queen.
var averagePieceValue = (2*value(board.Knight) + 2*value(board.Bishop) + 2*value(board.Rook) + value(board.Queen)) / 7

// AttackPower counts the owner's pieces attacking sq along queen lines and
// knight jumps. Enemy units are ignored; own pieces block.
func (s *State) AttackPower(sq board.Square) int {
	n := 0
	for _, d := range board.AllDirections {
		for i, t := range board.Ray(sq, d) {
			pt := s.own[t]
			if pt == board.NoPieceType {
				continue
			}
			switch {
			case pt.Slides(d):
				n++
			case i == 0 && pt == board.King:
				n++
			case i == 0 && pt == board.Pawn && attacksAsPawn(s.owner, t, sq):
				n++
			}
			break
		}
	}
	for _, t := range board.KnightTargets(sq) {
		if s.own[t] == board.Knight {
			n++
		}
	}
	return n
}

func attacksAsPawn(c board.Color, from, to board.Square) bool {
	for _, t := range board.PawnAttacks(c, from) {
		if t == to {
			return true
		}
	}
	return false
}

// ProtectionLevel estimates how strongly the enemy covers sq, weighting each
// possible attacker by its occupancy probability and the chance that the line
// to sq is open.
func (s *State) ProtectionLevel(sq board.Square) float64 {
	level := 0.0
	for _, d := range board.AllDirections {
		open := 1.0
		for i, t := range board.Ray(sq, d) {
			if s.isOwn(t) {
				break
			}
			if i == 0 {
				level += s.king[t]
			}
			level += open * s.piece[t] * s.params.LineWeight
			open *= 1 - s.blocking(t)
			if open < massEps {
				break
			}
		}
	}
	for _, t := range board.PawnAttackers(s.owner.Other(), sq) {
		level += s.pawn[t]
	}
	for _, t := range board.KnightTargets(sq) {
		level += s.piece[t] * s.params.KnightWeight
	}
	return level
}

// ProtectionMatrix returns the owner's coverage of every square. Sliding
// attacks are weighted by the probability that their path is free of enemy
// units. In soft mode a slider also sees through own pieces that move along
// the same line.
func (s *State) ProtectionMatrix(soft bool) Grid {
	g, _ := s.coverage(soft)
	return g
}

// coverage computes the protection matrix together with the squares the
// owner attacks for certain.
func (s *State) coverage(soft bool) (Grid, [64]bool) {
	var g Grid
	var certain [64]bool
	mark := func(t board.Square, w float64) {
		g[t] += w
		if w >= 1 {
			certain[t] = true
		}
	}

	for sq := board.A1; sq <= board.H8; sq++ {
		pt := s.own[sq]
		switch pt {
		case board.NoPieceType:
			continue
		case board.Pawn:
			for _, t := range board.PawnAttacks(s.owner, sq) {
				mark(t, 1)
			}
		case board.Knight:
			for _, t := range board.KnightTargets(sq) {
				mark(t, 1)
			}
		case board.King:
			for _, t := range board.KingTargets(sq) {
				mark(t, 1)
			}
		default:
			for _, d := range board.AllDirections {
				if !pt.Slides(d) {
					continue
				}
				open := 1.0
				for _, t := range board.Ray(sq, d) {
					mark(t, open)
					if s.isOwn(t) {
						if soft && s.own[t].Slides(d) {
							continue
						}
						break
					}
					open *= 1 - s.blocking(t)
					if open < massEps {
						break
					}
				}
			}
		}
	}
	return g, certain
}

// RestrictEnemyKingNoCheck returns the state with enemy king mass removed from
// every square the owner attacks for certain. It holds whenever the owner is
// to move: the enemy king cannot stand in check.
func (s *State) RestrictEnemyKingNoCheck() *State {
	n := s.derive()
	n.restrictKingNoCheck()
	n.finish("restrictEnemyKingNoCheck")
	return n
}

func (s *State) restrictKingNoCheck() {
	_, certain := s.coverage(false)
	for sq, hit := range certain {
		if hit {
			s.king[sq] = 0
		}
	}
}

// Risk estimates the material the owner stands to lose on the next enemy
// move, in centipawns.
func (s *State) Risk() float64 {
	cover := s.ProtectionMatrix(true)
	risk := 0.0
	for i, pt := range s.own {
		if pt == board.NoPieceType || pt == board.King {
			continue
		}
		sq := board.Square(i)
		threat := math.Min(1, s.ProtectionLevel(sq))
		if threat <= 0 {
			continue
		}
		risk += value(pt) * threat * (1 + s.danger[sq]) / (1 + cover[sq])
	}
	return risk
}

// Evaluate scores the belief for the owner in centipawns: material balance,
// pressure on squares the enemy probably occupies, minus weighted risk.
func (s *State) Evaluate() float64 {
	material := 0.0
	for _, pt := range s.own {
		if pt != board.NoPieceType && pt != board.King {
			material += value(pt)
		}
	}
	material -= s.pieceCount*averagePieceValue + s.pawnCount*value(board.Pawn)

	cover := s.ProtectionMatrix(true)
	pressure := 0.0
	for sq, c := range cover {
		if c <= 0 {
			continue
		}
		w := math.Min(1, c)
		pressure += w * (s.piece[sq]*averagePieceValue + s.pawn[sq]*value(board.Pawn) + s.king[sq]*kingPressure)
	}

	return material + s.params.CaptureWeight*pressure - s.params.RiskWeight*s.Risk()
}
