package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Army is the fully known placement of one side, indexed by square.
type Army [64]PieceType

// EmptyArmy returns an army with no pieces.
func EmptyArmy() Army {
	var a Army
	for i := range a {
		a[i] = NoPieceType
	}
	return a
}

// StartArmy returns the standard initial placement of color c.
func StartArmy(c Color) Army {
	a, _ := ParsePlacement(StartFEN, c)
	return a
}

// ParsePlacement parses the piece placement field of a FEN string (a full
// FEN is accepted; only its first field is read) and keeps color c's pieces.
func ParsePlacement(fen string, c Color) (Army, error) {
	army := EmptyArmy()
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return army, fmt.Errorf("invalid FEN: empty")
	}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return army, fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	kings := 0
	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, ch := range rankStr {
			if file > 7 {
				return army, fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if ch >= '1' && ch <= '8' {
				// Skip empty squares
				file += int(ch - '0')
				continue
			}

			pt, color := PieceFromChar(byte(ch))
			if pt == NoPieceType {
				return army, fmt.Errorf("invalid piece character: %c", ch)
			}
			if color == c {
				if pt == Pawn && (rank == 0 || rank == 7) {
					return army, fmt.Errorf("pawn on back rank at %s", NewSquare(file, rank))
				}
				if pt == King {
					kings++
				}
				army[NewSquare(file, rank)] = pt
			}
			file++
		}

		if file != 8 {
			return army, fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	if kings != 1 {
		return army, fmt.Errorf("%s must have exactly one king, got %d", c, kings)
	}

	return army, nil
}

// King returns the square of the army's king, or NoSquare.
func (a *Army) King() Square {
	for sq := A1; sq <= H8; sq++ {
		if a[sq] == King {
			return sq
		}
	}
	return NoSquare
}

// Count returns the number of pieces of kind pt.
func (a *Army) Count(pt PieceType) int {
	n := 0
	for _, p := range a {
		if p == pt {
			n++
		}
	}
	return n
}

// HomeCastling returns the castling rights color c could still hold given
// king and rooks standing on their home squares.
func (a *Army) HomeCastling(c Color) CastlingRights {
	home := 0
	if c == Black {
		home = 7
	}
	if a[NewSquare(4, home)] != King {
		return NoCastling
	}
	cr := NoCastling
	if a[NewSquare(7, home)] == Rook {
		cr |= CastleRight(c, true)
	}
	if a[NewSquare(0, home)] == Rook {
		cr |= CastleRight(c, false)
	}
	return cr
}

// Placement returns the FEN piece placement of the army in color c.
func (a *Army) Placement(c Color) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pt := a[NewSquare(file, rank)]
			if pt == NoPieceType {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pt.Symbol(c))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}
