package belief

import (
	"golang.org/x/exp/constraints"

	"github.com/Ludeme/Ludii-sub013/internal/board"
)

// Grid holds one value per square, indexed by board.Square.
type Grid [64]float64

// normEps is the relative tolerance under which a grid counts as normalized.
const normEps = 1e-9

// massEps is the smallest mass treated as a possibility.
const massEps = 1e-9

// Sum returns the total of all cells.
func (g *Grid) Sum() float64 {
	total := 0.0
	for _, v := range g {
		total += v
	}
	return total
}

// Scale multiplies every cell by f.
func (g *Grid) Scale(f float64) {
	for i := range g {
		g[i] *= f
	}
}

// Nonzero returns the squares holding more than a negligible mass.
func (g *Grid) Nonzero() []board.Square {
	var out []board.Square
	for sq, v := range g {
		if v > massEps {
			out = append(out, board.Square(sq))
		}
	}
	return out
}

// SumOver returns the total of the given squares.
func (g *Grid) SumOver(squares []board.Square) float64 {
	total := 0.0
	for _, sq := range squares {
		total += g[sq]
	}
	return total
}

// rescale brings the grid total to count. It reports false when count is
// positive but the grid holds no mass.
func rescale(g *Grid, count float64) bool {
	if count <= 0 {
		*g = Grid{}
		return true
	}
	sum := g.Sum()
	if sum <= 0 {
		return false
	}
	if diff := sum - count; diff <= normEps*count && diff >= -normEps*count {
		return true
	}
	g.Scale(count / sum)
	return true
}

func clamp[T constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative[T constraints.Float](v T) T {
	if v < 0 {
		return 0
	}
	return v
}
