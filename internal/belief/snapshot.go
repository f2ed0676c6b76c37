package belief

import (
	"fmt"

	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

// Snapshot is the serializable form of a State. Model parameters other than
// the opponent model travel with it.
type Snapshot struct {
	Owner     string `json:"owner"`
	Placement string `json:"placement"`
	Castling  string `json:"castling"`

	Piece  Grid `json:"piece"`
	Pawn   Grid `json:"pawn"`
	King   Grid `json:"king"`
	Danger Grid `json:"danger"`

	PieceCount float64 `json:"pieceCount"`
	PawnCount  float64 `json:"pawnCount"`

	Checks      [2]string `json:"checks"`
	LastChecks  [2]string `json:"lastChecks"`
	InCheck     bool      `json:"inCheck"`
	LastCapture string    `json:"lastCapture"`
	PawnTries   int       `json:"pawnTries"`
	PrevTries   int       `json:"prevTries"`
	Broken      bool      `json:"broken"`

	Params Params `json:"params"`
}

// Snapshot captures the state for storage.
func (s *State) Snapshot() Snapshot {
	p := *s.params
	p.Model = nil
	return Snapshot{
		Owner:       s.owner.String(),
		Placement:   s.own.Placement(s.owner),
		Castling:    s.castling.String(),
		Piece:       s.piece,
		Pawn:        s.pawn,
		King:        s.king,
		Danger:      s.danger,
		PieceCount:  s.pieceCount,
		PawnCount:   s.pawnCount,
		Checks:      [2]string{s.check1.String(), s.check2.String()},
		LastChecks:  [2]string{s.lastCheck1.String(), s.lastCheck2.String()},
		InCheck:     s.inCheck,
		LastCapture: s.lastCapture.String(),
		PawnTries:   s.pawnTries,
		PrevTries:   s.prevPawnTries,
		Broken:      s.broken,
		Params:      p,
	}
}

// FromSnapshot rebuilds a state. Options are applied over the stored
// parameters, which is how an opponent model is attached again.
func FromSnapshot(sn Snapshot, opts ...Option) (*State, error) {
	var owner board.Color
	switch sn.Owner {
	case "White":
		owner = board.White
	case "Black":
		owner = board.Black
	default:
		return nil, fmt.Errorf("invalid owner: %q", sn.Owner)
	}

	own, err := board.ParsePlacement(sn.Placement, owner)
	if err != nil {
		return nil, err
	}

	castling, err := parseCastling(sn.Castling)
	if err != nil {
		return nil, err
	}
	capture, err := board.ParseSquare(sn.LastCapture)
	if err != nil {
		return nil, err
	}

	var checks [4]umpire.Check
	for i, name := range append(sn.Checks[:], sn.LastChecks[:]...) {
		if checks[i], err = umpire.ParseCheck(name); err != nil {
			return nil, err
		}
	}

	p := sn.Params
	for _, opt := range opts {
		opt(&p)
	}

	s := &State{
		params:        &p,
		owner:         owner,
		own:           own,
		ownKing:       own.King(),
		castling:      castling.Of(owner),
		piece:         sn.Piece,
		pawn:          sn.Pawn,
		king:          sn.King,
		danger:        sn.Danger,
		pieceCount:    sn.PieceCount,
		pawnCount:     sn.PawnCount,
		check1:        checks[0],
		check2:        checks[1],
		lastCheck1:    checks[2],
		lastCheck2:    checks[3],
		inCheck:       sn.InCheck,
		lastCapture:   capture,
		pawnTries:     sn.PawnTries,
		prevPawnTries: sn.PrevTries,
		broken:        sn.Broken,
	}
	s.finish("fromSnapshot")
	return s, nil
}

func parseCastling(s string) (board.CastlingRights, error) {
	cr := board.NoCastling
	if s == "-" {
		return cr, nil
	}
	for _, ch := range s {
		switch ch {
		case 'K':
			cr |= board.WhiteKingSideCastle
		case 'Q':
			cr |= board.WhiteQueenSideCastle
		case 'k':
			cr |= board.BlackKingSideCastle
		case 'q':
			cr |= board.BlackQueenSideCastle
		default:
			return cr, fmt.Errorf("invalid castling rights: %s", s)
		}
	}
	return cr, nil
}
