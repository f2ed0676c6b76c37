// Package belief maintains a Kriegspiel player's probabilistic picture of the
// hidden enemy army and supports constrained move generation over it.
//
// A State is immutable: every transition returns a new State and leaves its
// receiver untouched, so states can be shared freely between goroutines. The
// only mutable per-call memory lives in a Scratch slot owned by the caller.
package belief

import (
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

// Envelope bounds the squares that can still hold enemy pawn mass.
// Rank bounds are per file and file bounds are per rank; -1 marks an empty
// line.
type Envelope struct {
	MinRank  [8]int
	MaxRank  [8]int
	MinFile  [8]int
	MaxFile  [8]int
	FileMass [8]float64
}

// State is the owner's belief about the game.
type State struct {
	params *Params

	owner    board.Color
	own      board.Army
	ownKing  board.Square
	castling board.CastlingRights

	piece  Grid
	pawn   Grid
	king   Grid
	empty  Grid
	danger Grid

	pieceCount float64
	pawnCount  float64

	env Envelope

	// Checks of the latest message and of the one before it.
	check1, check2         umpire.Check
	lastCheck1, lastCheck2 umpire.Check
	inCheck                bool

	lastCapture   board.Square
	pawnTries     int // tries of the latest message
	prevPawnTries int

	broken      bool
	lightweight bool
}

// Initial returns the belief at the standard start of a game.
func Initial(owner board.Color, opts ...Option) *State {
	s := &State{
		params:      newParams(opts),
		owner:       owner,
		own:         board.StartArmy(owner),
		castling:    board.AllCastling.Of(owner),
		pieceCount:  7,
		pawnCount:   8,
		lastCapture: board.NoSquare,
	}
	s.ownKing = s.own.King()

	back, pawns := 7, 6
	if owner == board.Black {
		back, pawns = 0, 1
	}
	for file := 0; file < 8; file++ {
		if file == 4 {
			s.king[board.NewSquare(file, back)] = 1
		} else {
			s.piece[board.NewSquare(file, back)] = 1
		}
		s.pawn[board.NewSquare(file, pawns)] = 1
	}
	for sq := range s.danger {
		s.danger[sq] = s.params.DangerFloor
	}

	s.finish("initial")
	return s
}

// FromPlacement seeds a belief from a known own army with the enemy spread
// uniformly over every square it could occupy.
func FromPlacement(owner board.Color, own board.Army, castling board.CastlingRights, opts ...Option) *State {
	s := &State{
		params:      newParams(opts),
		owner:       owner,
		own:         own,
		castling:    castling.Of(owner) & own.HomeCastling(owner),
		lastCapture: board.NoSquare,
	}
	s.ownKing = own.King()
	s.pieceCount = s.params.EnemyPieces
	s.pawnCount = s.params.EnemyPawns
	for sq := range s.danger {
		s.danger[sq] = s.params.DangerFloor
	}
	s.spreadUniform()
	s.finish("fromPlacement")
	return s
}

// spreadUniform puts equal mass on every square each enemy kind could hold.
func (s *State) spreadUniform() {
	s.piece, s.pawn, s.king = Grid{}, Grid{}, Grid{}
	for sq := board.A1; sq <= board.H8; sq++ {
		if s.isOwn(sq) {
			continue
		}
		s.piece[sq] = 1
		if r := sq.Rank(); r > 0 && r < 7 {
			s.pawn[sq] = 1
		}
		if s.ownKing == board.NoSquare || !board.Adjacent(sq, s.ownKing) {
			s.king[sq] = 1
		}
	}
}

// UniformReset returns a state with the enemy mass spread uniformly over the
// squares still legal for it, counts preserved and the broken flag cleared.
// It is the recovery policy for broken states; no transition applies it.
func (s *State) UniformReset() *State {
	n := s.derive()
	n.broken = false
	n.spreadUniform()
	n.normalize()
	n.restrictKingNoCheck()
	n.finish("uniformReset")
	return n
}

// Clone returns a copy of the state. Lightweight clones skip envelope
// recomputation in their own transitions and keep the parent's envelope.
func (s *State) Clone(lightweight bool) *State {
	c := *s
	c.lightweight = lightweight
	return &c
}

func (s *State) derive() *State {
	n := *s
	return &n
}

// finish normalizes and refreshes derived data at the end of a transition.
func (s *State) finish(op string) {
	wasBroken := s.broken
	s.normalize()
	if !s.lightweight {
		s.computeEnvelope()
	}
	if s.broken && !wasBroken {
		log.Debug().
			Str("op", op).
			Str("owner", s.owner.String()).
			Float64("pieces", s.pieceCount).
			Float64("pawns", s.pawnCount).
			Msg("belief state became inconsistent")
	}
}

// Normalize returns a normalized copy of the state. Every transition already
// ends normalized, so on such states this is the identity.
func (s *State) Normalize() *State {
	n := s.derive()
	n.normalize()
	return n
}

func (s *State) normalize() {
	for sq := board.A1; sq <= board.H8; sq++ {
		if s.isOwn(sq) {
			s.piece[sq], s.pawn[sq], s.king[sq] = 0, 0, 0
			continue
		}
		s.piece[sq] = nonNegative(s.piece[sq])
		s.pawn[sq] = nonNegative(s.pawn[sq])
		s.king[sq] = nonNegative(s.king[sq])
	}
	for file := 0; file < 8; file++ {
		s.pawn[board.NewSquare(file, 0)] = 0
		s.pawn[board.NewSquare(file, 7)] = 0
	}

	s.pieceCount = nonNegative(s.pieceCount)
	s.pawnCount = nonNegative(s.pawnCount)

	if !rescale(&s.piece, s.pieceCount) {
		s.broken = true
	}
	if !rescale(&s.pawn, s.pawnCount) {
		s.broken = true
	}
	if !rescale(&s.king, 1) {
		s.broken = true
	}

	for sq := range s.empty {
		if s.isOwn(board.Square(sq)) {
			s.empty[sq] = 0
			continue
		}
		s.empty[sq] = clamp(1-s.piece[sq]-s.pawn[sq]-s.king[sq], 0, 1)
	}
}

func (s *State) computeEnvelope() {
	var env Envelope
	for i := 0; i < 8; i++ {
		env.MinRank[i], env.MaxRank[i] = -1, -1
		env.MinFile[i], env.MaxFile[i] = -1, -1
	}
	for sq := board.A1; sq <= board.H8; sq++ {
		v := s.pawn[sq]
		if v <= massEps {
			continue
		}
		f, r := sq.File(), sq.Rank()
		env.FileMass[f] += v
		if env.MinRank[f] < 0 || r < env.MinRank[f] {
			env.MinRank[f] = r
		}
		if r > env.MaxRank[f] {
			env.MaxRank[f] = r
		}
		if env.MinFile[r] < 0 || f < env.MinFile[r] {
			env.MinFile[r] = f
		}
		if f > env.MaxFile[r] {
			env.MaxFile[r] = f
		}
	}
	s.env = env
}

// consume removes one captured enemy unit from the counts. A piece taken
// while fewer than one piece is expected was a promoted pawn.
func (s *State) consume(kind umpire.CaptureKind) {
	switch kind {
	case umpire.PawnCaptured:
		s.pawnCount = math.Max(0, s.pawnCount-1)
	case umpire.PieceCaptured:
		if s.pieceCount >= 1 {
			s.pieceCount--
			return
		}
		deficit := 1 - s.pieceCount
		s.pieceCount = 0
		s.pawnCount = math.Max(0, s.pawnCount-deficit)
	}
}

// clearSquare removes every enemy hypothesis from sq.
func (s *State) clearSquare(sq board.Square) {
	s.piece[sq], s.pawn[sq], s.king[sq] = 0, 0, 0
}

func (s *State) record(c1, c2 umpire.Check, capture board.Square, tries int) {
	s.lastCheck1, s.lastCheck2 = s.check1, s.check2
	s.check1, s.check2 = c1, c2
	s.lastCapture = capture
	s.prevPawnTries = s.pawnTries
	s.pawnTries = tries
}

func (s *State) isOwn(sq board.Square) bool {
	return s.own[sq] != board.NoPieceType
}

// enemyMass is the probability that some enemy unit stands on sq.
func (s *State) enemyMass(sq board.Square) float64 {
	return s.piece[sq] + s.pawn[sq] + s.king[sq]
}

// blocking is the probability that a line through sq is obstructed by an
// enemy unit other than the king.
func (s *State) blocking(sq board.Square) float64 {
	return clamp(s.piece[sq]+s.pawn[sq], 0, 1)
}

// Owner returns the color of the side this belief belongs to.
func (s *State) Owner() board.Color { return s.owner }

// OwnPiece returns the owner's piece on sq, or NoPieceType.
func (s *State) OwnPiece(sq board.Square) board.PieceType { return s.own[sq] }

// OwnArmy returns a copy of the owner's placement.
func (s *State) OwnArmy() board.Army { return s.own }

// OwnKing returns the square of the owner's king.
func (s *State) OwnKing() board.Square { return s.ownKing }

// Castling returns the owner's remaining castling rights.
func (s *State) Castling() board.CastlingRights { return s.castling }

// PieceMass returns the probability of an enemy non-pawn, non-king on sq.
func (s *State) PieceMass(sq board.Square) float64 { return s.piece[sq] }

// PawnMass returns the probability of an enemy pawn on sq.
func (s *State) PawnMass(sq board.Square) float64 { return s.pawn[sq] }

// KingMass returns the probability of the enemy king on sq.
func (s *State) KingMass(sq board.Square) float64 { return s.king[sq] }

// EmptyMass returns the probability that sq holds no enemy unit.
func (s *State) EmptyMass(sq board.Square) float64 { return s.empty[sq] }

// Danger returns the danger counter of sq.
func (s *State) Danger(sq board.Square) float64 { return s.danger[sq] }

// PieceGrid returns a copy of the enemy piece grid.
func (s *State) PieceGrid() Grid { return s.piece }

// PawnGrid returns a copy of the enemy pawn grid.
func (s *State) PawnGrid() Grid { return s.pawn }

// KingGrid returns a copy of the enemy king grid.
func (s *State) KingGrid() Grid { return s.king }

// EmptyGrid returns a copy of the empty-square grid.
func (s *State) EmptyGrid() Grid { return s.empty }

// DangerGrid returns a copy of the danger grid.
func (s *State) DangerGrid() Grid { return s.danger }

// PieceCount returns the expected number of enemy pieces other than the king.
func (s *State) PieceCount() float64 { return s.pieceCount }

// PawnCount returns the expected number of enemy pawns.
func (s *State) PawnCount() float64 { return s.pawnCount }

// Envelope returns the enemy pawn envelope.
func (s *State) Envelope() Envelope { return s.env }

// Checks returns the checks of the latest umpire message.
func (s *State) Checks() umpire.Set { return umpire.Checks(s.check1, s.check2) }

// LastChecks returns the checks of the message before the latest one.
func (s *State) LastChecks() umpire.Set { return umpire.Checks(s.lastCheck1, s.lastCheck2) }

// InCheck returns true if the latest opponent move checked the owner.
func (s *State) InCheck() bool { return s.inCheck }

// LastCapture returns the capture square of the latest message, or NoSquare.
func (s *State) LastCapture() board.Square { return s.lastCapture }

// PawnTries returns the pawn tries of the latest message.
func (s *State) PawnTries() int { return s.pawnTries }

// Broken returns true once the belief has become inconsistent.
func (s *State) Broken() bool { return s.broken }

// Lightweight returns true for lightweight search clones.
func (s *State) Lightweight() bool { return s.lightweight }

// Params returns the model parameters of the state.
func (s *State) Params() Params { return *s.params }

// String renders the board from White's side: own pieces as letters, enemy
// squares as the tenths digit of their occupancy probability.
func (s *State) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sq := board.NewSquare(file, rank)
			switch {
			case s.isOwn(sq):
				sb.WriteByte(s.own[sq].Symbol(s.owner))
			case s.king[sq] >= 0.5:
				sb.WriteByte('*')
			default:
				m := s.enemyMass(sq)
				if m <= 0.05 {
					sb.WriteByte('.')
				} else {
					sb.WriteByte(byte('0' + int(math.Min(9, math.Round(m*10)))))
				}
			}
			if file < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
