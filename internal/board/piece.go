package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// Symbol returns the FEN character for the piece type in the given color.
func (pt PieceType) Symbol(c Color) byte {
	ch := pt.Char()
	if c == White && ch != ' ' {
		return ch - 'a' + 'A'
	}
	return ch
}

// Slides reports whether the piece moves along the given direction any
// number of squares.
func (pt PieceType) Slides(d Direction) bool {
	switch pt {
	case Queen:
		return true
	case Rook:
		return d.Orthogonal()
	case Bishop:
		return !d.Orthogonal()
	}
	return false
}

// PieceValue returns the material value of the piece type in centipawns.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// PieceFromChar converts a FEN character to a piece type and color.
func PieceFromChar(c byte) (PieceType, Color) {
	switch c {
	case 'P':
		return Pawn, White
	case 'N':
		return Knight, White
	case 'B':
		return Bishop, White
	case 'R':
		return Rook, White
	case 'Q':
		return Queen, White
	case 'K':
		return King, White
	case 'p':
		return Pawn, Black
	case 'n':
		return Knight, Black
	case 'b':
		return Bishop, Black
	case 'r':
		return Rook, Black
	case 'q':
		return Queen, Black
	case 'k':
		return King, Black
	default:
		return NoPieceType, NoColor
	}
}
