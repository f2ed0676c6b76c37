package board

// Direction is one of the eight line directions a queen can move along.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
	NoDirection Direction = 8
)

// AllDirections lists the eight line directions, orthogonals first.
var AllDirections = [8]Direction{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}

var dirDelta = [8][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

var dirReverse = [8]Direction{South, North, West, East, SouthWest, SouthEast, NorthWest, NorthEast}

var knightDelta = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}

// Pre-computed geometry tables
var (
	rays          [64][8][]Square
	knightTargets [64][]Square
	kingTargets   [64][]Square
	pawnAttacks   [2][64][]Square // [Color][Square] - squares attacked by a pawn on Square
	pawnAttackers [2][64][]Square // [Color][Square] - squares a pawn attacks Square from

	// Strict between squares and direction for aligned pairs
	betweenSq [64][64][]Square
	lineDir   [64][64]Direction
)

func init() {
	initRays()
	initLeapers()
	initPawnAttacks()
	initBetween()
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for _, d := range AllDirections {
			df, dr := d.Delta()
			var ray []Square
			cur := sq
			for {
				next, ok := cur.Offset(df, dr)
				if !ok {
					break
				}
				ray = append(ray, next)
				cur = next
			}
			rays[sq][d] = ray
		}
	}
}

func initLeapers() {
	for sq := A1; sq <= H8; sq++ {
		for _, k := range knightDelta {
			if to, ok := sq.Offset(k[0], k[1]); ok {
				knightTargets[sq] = append(knightTargets[sq], to)
			}
		}
		for _, d := range AllDirections {
			df, dr := d.Delta()
			if to, ok := sq.Offset(df, dr); ok {
				kingTargets[sq] = append(kingTargets[sq], to)
			}
		}
	}
}

func initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		for c := White; c <= Black; c++ {
			fwd := Forward(c)
			for _, df := range []int{-1, 1} {
				if to, ok := sq.Offset(df, fwd); ok {
					pawnAttacks[c][sq] = append(pawnAttacks[c][sq], to)
				}
				if from, ok := sq.Offset(df, -fwd); ok {
					pawnAttackers[c][sq] = append(pawnAttackers[c][sq], from)
				}
			}
		}
	}
}

func initBetween() {
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			lineDir[a][b] = NoDirection
		}
		for _, d := range AllDirections {
			ray := rays[a][d]
			for i, b := range ray {
				lineDir[a][b] = d
				if i > 0 {
					betweenSq[a][b] = ray[:i:i]
				}
			}
		}
	}
}

// Delta returns the file and rank step of the direction.
func (d Direction) Delta() (int, int) {
	return dirDelta[d][0], dirDelta[d][1]
}

// Orthogonal returns true for file and rank directions.
func (d Direction) Orthogonal() bool {
	return d < NorthEast
}

// Vertical returns true for the two file directions.
func (d Direction) Vertical() bool {
	return d == North || d == South
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return dirReverse[d]
}

// Ray returns the squares from sq (exclusive) to the board edge along d.
func Ray(sq Square, d Direction) []Square {
	return rays[sq][d]
}

// KnightTargets returns the squares a knight on sq attacks.
func KnightTargets(sq Square) []Square {
	return knightTargets[sq]
}

// KingTargets returns the squares adjacent to sq.
func KingTargets(sq Square) []Square {
	return kingTargets[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) []Square {
	return pawnAttacks[c][sq]
}

// PawnAttackers returns the squares from which a pawn of color c would attack sq.
func PawnAttackers(c Color, sq Square) []Square {
	return pawnAttackers[c][sq]
}

// DirectionTo returns the direction leading from a to b, or NoDirection
// when the squares do not share a line.
func DirectionTo(a, b Square) Direction {
	return lineDir[a][b]
}

// Between returns the squares strictly between a and b when they are aligned.
func Between(a, b Square) []Square {
	return betweenSq[a][b]
}

// Adjacent returns true if the squares touch (including diagonally).
func Adjacent(a, b Square) bool {
	if a == b {
		return false
	}
	df := a.File() - b.File()
	dr := a.Rank() - b.Rank()
	return df >= -1 && df <= 1 && dr >= -1 && dr <= 1
}

// KnightApart returns true if a knight on a attacks b.
func KnightApart(a, b Square) bool {
	df := abs(a.File() - b.File())
	dr := abs(a.Rank() - b.Rank())
	return (df == 1 && dr == 2) || (df == 2 && dr == 1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
