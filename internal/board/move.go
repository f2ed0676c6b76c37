package board

import "fmt"

// Move is a move of one of the owner's pieces. Piece is the kind standing on
// From before the move; Promotion is NoPieceType unless a pawn promotes.
type Move struct {
	From      Square
	To        Square
	Piece     PieceType
	Promotion PieceType
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Piece: NoPieceType, Promotion: NoPieceType}

// NewMove creates a non-promoting move.
func NewMove(from, to Square, pt PieceType) Move {
	return Move{From: from, To: to, Piece: pt, Promotion: NoPieceType}
}

// NewPromotion creates a pawn move that promotes to promo.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Piece: Pawn, Promotion: promo}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Piece == Pawn && m.Promotion != NoPieceType
}

// IsCastling returns true if this is a castling move (king moves two files).
func (m Move) IsCastling() bool {
	return m.Piece == King && abs(m.From.File()-m.To.File()) == 2
}

// Landed returns the piece kind standing on To after the move.
func (m Move) Landed() PieceType {
	if m.IsPromotion() {
		return m.Promotion
	}
	return m.Piece
}

// CastlingRook returns the rook's origin and destination for a castling move.
func (m Move) CastlingRook() (from, to Square) {
	rank := m.From.Rank()
	if m.To.File() > m.From.File() {
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}

// Transit returns the squares the moving piece passes over, excluding From
// and To. For castling this is the whole corridor between king and rook.
func (m Move) Transit() []Square {
	if m.IsCastling() {
		rookFrom, _ := m.CastlingRook()
		return Between(m.From, rookFrom)
	}
	if m.Piece == Knight {
		return nil
	}
	return Between(m.From, m.To)
}

// Direction returns the line direction of the move, or NoDirection for
// knight jumps.
func (m Move) Direction() Direction {
	if m.Piece == Knight {
		return NoDirection
	}
	return DirectionTo(m.From, m.To)
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if !m.From.IsValid() || !m.To.IsValid() {
		return "0000"
	}

	s := m.From.String() + m.To.String()

	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}

	return s
}

// ParseMove parses a UCI format move string. pieceAt reports the owner's
// piece kind on a square.
func ParseMove(s string, pieceAt func(Square) PieceType) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	pt := pieceAt(from)
	if pt == NoPieceType {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	// Check for promotion
	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		if pt != Pawn {
			return NoMove, fmt.Errorf("only pawns promote: %s", s)
		}
		return NewPromotion(from, to, promo), nil
	}

	return NewMove(from, to, pt), nil
}

// Packed encodes a move in 16 bits for dense search buffers:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bits 14-15: flags (0=normal, 1=promotion, 3=castling)
type Packed uint16

// Packed move flags
const (
	FlagNormal    uint16 = 0 << 14
	FlagPromotion uint16 = 1 << 14
	FlagCastling  uint16 = 3 << 14
)

// NoPacked is the packed null move.
const NoPacked Packed = 0

// Pack returns the 16-bit encoding of the move. The piece kind is not stored;
// Unpack recovers it from the board.
func (m Move) Pack() Packed {
	p := Packed(m.From) | Packed(m.To)<<6
	switch {
	case m.IsPromotion():
		p |= Packed(m.Promotion-Knight)<<12 | Packed(FlagPromotion)
	case m.IsCastling():
		p |= Packed(FlagCastling)
	}
	return p
}

// From returns the origin square.
func (p Packed) From() Square {
	return Square(p & 0x3F)
}

// To returns the destination square.
func (p Packed) To() Square {
	return Square((p >> 6) & 0x3F)
}

// Flag returns the move flag.
func (p Packed) Flag() uint16 {
	return uint16(p) & 0xC000
}

// Unpack decodes a packed move; pieceAt reports the owner's piece kind on a
// square before the move.
func Unpack(p Packed, pieceAt func(Square) PieceType) Move {
	from, to := p.From(), p.To()
	if p.Flag() == FlagPromotion {
		return NewPromotion(from, to, PieceType((p>>12)&3)+Knight)
	}
	return NewMove(from, to, pieceAt(from))
}

// MoveList is a move list backed by a fixed array to avoid allocations. It
// grows onto the heap past the array, so no move is ever dropped. A list must
// not be copied once moves were added.
type MoveList struct {
	buf   [256]Move
	moves []Move
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	if ml.moves == nil {
		ml.moves = ml.buf[:0]
	}
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list, keeping its storage.
func (ml *MoveList) Clear() {
	ml.moves = ml.moves[:0]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves {
		if x == m {
			return true
		}
	}
	return false
}

// Filter keeps only the moves for which keep returns true.
func (ml *MoveList) Filter(keep func(Move) bool) {
	n := 0
	for _, m := range ml.moves {
		if keep(m) {
			ml.moves[n] = m
			n++
		}
	}
	ml.moves = ml.moves[:n]
}

// Slice returns the moves as a slice. The slice aliases the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves
}
