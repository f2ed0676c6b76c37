// Package umpire defines the referee messages of Kriegspiel: check
// geometries, capture announcements and pawn-try counts.
package umpire

import (
	"fmt"
	"strings"

	"github.com/Ludeme/Ludii-sub013/internal/board"
)

// Check is the geometry of a check as announced by the umpire.
type Check uint8

const (
	NoCheck Check = iota
	CheckFile
	CheckRank
	CheckLongDiagonal
	CheckShortDiagonal
	CheckKnight
)

var checkNames = [...]string{"none", "file", "rank", "longdiag", "shortdiag", "knight"}

// String returns the protocol name of the check.
func (c Check) String() string {
	if int(c) < len(checkNames) {
		return checkNames[c]
	}
	return "invalid"
}

// ParseCheck parses a protocol check name.
func ParseCheck(s string) (Check, error) {
	for i, name := range checkNames {
		if s == name {
			return Check(i), nil
		}
	}
	switch s {
	case "long", "long-diagonal":
		return CheckLongDiagonal, nil
	case "short", "short-diagonal":
		return CheckShortDiagonal, nil
	case "", "-":
		return NoCheck, nil
	}
	return NoCheck, fmt.Errorf("invalid check: %s", s)
}

// Diagonal returns true for the two diagonal check kinds.
func (c Check) Diagonal() bool {
	return c == CheckLongDiagonal || c == CheckShortDiagonal
}

// Matches reports whether a line attack along d reaching a king on king is
// announced as c.
func (c Check) Matches(king board.Square, d board.Direction) bool {
	switch c {
	case CheckFile:
		return d == board.North || d == board.South
	case CheckRank:
		return d == board.East || d == board.West
	case CheckLongDiagonal, CheckShortDiagonal:
		return !d.Orthogonal() && DiagonalKind(king, d) == c
	}
	return false
}

// DiagonalKind classifies the diagonal through king along d as the long or
// the short one of the two diagonals crossing that square. On an 8x8 board
// the two lengths always differ.
func DiagonalKind(king board.Square, d board.Direction) Check {
	f, r := king.File(), king.Rank()
	rising := 8 - abs(f-r)     // a1-h8 orientation
	falling := 8 - abs(f+r-7) // a8-h1 orientation
	mine, other := rising, falling
	if d == board.NorthWest || d == board.SouthEast {
		mine, other = falling, rising
	}
	if mine > other {
		return CheckLongDiagonal
	}
	return CheckShortDiagonal
}

// Set is the distinct non-empty checks of a message.
type Set struct {
	kinds [2]Check
	n     int
}

// Checks collects the distinct reported checks.
func Checks(c1, c2 Check) Set {
	var s Set
	for _, c := range []Check{c1, c2} {
		if c == NoCheck || s.Has(c) {
			continue
		}
		s.kinds[s.n] = c
		s.n++
	}
	return s
}

// Len returns the number of distinct checks.
func (s Set) Len() int { return s.n }

// Empty returns true when no check was announced.
func (s Set) Empty() bool { return s.n == 0 }

// At returns the i-th check.
func (s Set) At(i int) Check { return s.kinds[i] }

// Has returns true if c is in the set.
func (s Set) Has(c Check) bool {
	for i := 0; i < s.n; i++ {
		if s.kinds[i] == c {
			return true
		}
	}
	return false
}

// String joins the checks with commas.
func (s Set) String() string {
	if s.n == 0 {
		return NoCheck.String()
	}
	names := make([]string, s.n)
	for i := 0; i < s.n; i++ {
		names[i] = s.kinds[i].String()
	}
	return strings.Join(names, ",")
}

// CaptureKind is what the umpire says was taken.
type CaptureKind uint8

const (
	NoCapture CaptureKind = iota
	PawnCaptured
	PieceCaptured
)

// String returns the protocol name of the capture kind.
func (k CaptureKind) String() string {
	switch k {
	case PawnCaptured:
		return "pawn"
	case PieceCaptured:
		return "piece"
	default:
		return "none"
	}
}

// OwnMoveReport is the umpire message after one of the owner's moves was
// accepted. PawnTries are the tries announced to the opponent.
type OwnMoveReport struct {
	Capture   board.Square
	Kind      CaptureKind
	Check1    Check
	Check2    Check
	PawnTries int
}

// RejectReport accompanies a rejected attempt: the check status the owner was
// under when trying, and the owner's currently announced tries.
type RejectReport struct {
	Check1    Check
	Check2    Check
	PawnTries int
}

// OpponentReport is the umpire message after the opponent moved. PawnTries
// are the tries announced to the owner.
type OpponentReport struct {
	Capture   board.Square
	Check1    Check
	Check2    Check
	PawnTries int
}

// SilentOwnMove is an accepted move with no capture, check or tries.
func SilentOwnMove() OwnMoveReport {
	return OwnMoveReport{Capture: board.NoSquare}
}

// SilentOpponentMove is an opponent move with no capture, check or tries.
func SilentOpponentMove() OpponentReport {
	return OpponentReport{Capture: board.NoSquare}
}

// Checks returns the distinct checks of the report.
func (r OwnMoveReport) Checks() Set { return Checks(r.Check1, r.Check2) }

// Checks returns the distinct checks of the report.
func (r RejectReport) Checks() Set { return Checks(r.Check1, r.Check2) }

// Checks returns the distinct checks of the report.
func (r OpponentReport) Checks() Set { return Checks(r.Check1, r.Check2) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
