package umpire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ludeme/Ludii-sub013/internal/board"
)

// fields holds the key=value tokens shared by all report kinds.
type fields struct {
	capture board.Square
	kind    CaptureKind
	check1  Check
	check2  Check
	tries   int
}

func parseFields(tokens []string, allowed ...string) (fields, error) {
	f := fields{capture: board.NoSquare}
	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			return f, fmt.Errorf("invalid report token: %s", tok)
		}
		if !contains(allowed, key) {
			return f, fmt.Errorf("unexpected report field: %s", key)
		}
		switch key {
		case "capture":
			sq, err := board.ParseSquare(value)
			if err != nil {
				return f, err
			}
			f.capture = sq
		case "kind":
			switch value {
			case "pawn":
				f.kind = PawnCaptured
			case "piece":
				f.kind = PieceCaptured
			default:
				return f, fmt.Errorf("invalid capture kind: %s", value)
			}
		case "check":
			names := strings.Split(value, ",")
			if len(names) > 2 {
				return f, fmt.Errorf("at most two checks, got %d", len(names))
			}
			c1, err := ParseCheck(names[0])
			if err != nil {
				return f, err
			}
			f.check1 = c1
			if len(names) == 2 {
				c2, err := ParseCheck(names[1])
				if err != nil {
					return f, err
				}
				f.check2 = c2
			}
		case "tries":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return f, fmt.Errorf("invalid pawn tries: %s", value)
			}
			f.tries = n
		}
	}
	return f, nil
}

// ParseOwnMoveReport parses tokens such as "capture=e5 kind=pawn check=file tries=1".
// A capture without a kind is read as a piece capture.
func ParseOwnMoveReport(tokens []string) (OwnMoveReport, error) {
	f, err := parseFields(tokens, "capture", "kind", "check", "tries")
	if err != nil {
		return OwnMoveReport{}, err
	}
	if f.capture != board.NoSquare && f.kind == NoCapture {
		f.kind = PieceCaptured
	}
	if f.capture == board.NoSquare && f.kind != NoCapture {
		return OwnMoveReport{}, fmt.Errorf("capture kind %s without a capture square", f.kind)
	}
	return OwnMoveReport{Capture: f.capture, Kind: f.kind, Check1: f.check1, Check2: f.check2, PawnTries: f.tries}, nil
}

// ParseRejectReport parses tokens such as "check=knight tries=0".
func ParseRejectReport(tokens []string) (RejectReport, error) {
	f, err := parseFields(tokens, "check", "tries")
	if err != nil {
		return RejectReport{}, err
	}
	return RejectReport{Check1: f.check1, Check2: f.check2, PawnTries: f.tries}, nil
}

// ParseOpponentReport parses tokens such as "capture=d4 check=rank tries=2".
func ParseOpponentReport(tokens []string) (OpponentReport, error) {
	f, err := parseFields(tokens, "capture", "check", "tries")
	if err != nil {
		return OpponentReport{}, err
	}
	return OpponentReport{Capture: f.capture, Check1: f.check1, Check2: f.check2, PawnTries: f.tries}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
