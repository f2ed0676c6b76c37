// Package replay drives a belief state from a line-oriented transcript of
// umpire announcements.
package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Ludeme/Ludii-sub013/internal/belief"
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/engine"
	"github.com/Ludeme/Ludii-sub013/internal/storage"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

var (
	// ErrUnknownCommand is returned for a command word the session does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNoStore is returned by save and load when no storage is attached.
	ErrNoStore = errors.New("no snapshot store")
)

// Option configures a Session.
type Option func(*Session)

// WithStore attaches snapshot storage for the save and load commands.
func WithStore(st *storage.Storage) Option {
	return func(s *Session) { s.store = st }
}

// WithRanker sets the ranker used by the rank command.
func WithRanker(r *engine.Ranker) Option {
	return func(s *Session) { s.ranker = r }
}

// WithOwner sets the side of the initial belief.
func WithOwner(c board.Color) Option {
	return func(s *Session) { s.owner = c }
}

// WithBeliefOptions sets the model parameters of every belief the session
// creates or loads.
func WithBeliefOptions(opts ...belief.Option) Option {
	return func(s *Session) { s.beliefOpts = opts }
}

// Session holds the belief of one game and applies commands to it.
type Session struct {
	out        io.Writer
	store      *storage.Storage
	ranker     *engine.Ranker
	owner      board.Color
	beliefOpts []belief.Option

	sc    *belief.Scratch
	state *belief.State
	ply   int
	game  string
}

// New creates a session writing responses to out.
func New(out io.Writer, opts ...Option) *Session {
	s := &Session{out: out, owner: board.White, sc: belief.NewScratch()}
	for _, opt := range opts {
		opt(s)
	}
	if s.ranker == nil {
		s.ranker = engine.NewRanker(1)
	}
	s.state = belief.Initial(s.owner, s.beliefOpts...)
	s.game = uuid.NewString()
	return s
}

// State returns the current belief.
func (s *Session) State() *belief.State {
	return s.state
}

// Game returns the id save uses when no game is named. Every new or setup
// command starts a fresh game.
func (s *Session) Game() string {
	return s.game
}

// Ply returns the number of announcements applied since the last reset.
func (s *Session) Ply() int {
	return s.ply
}

// Run reads commands from in until quit or end of input. Command errors are
// reported on the output and do not stop the session.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil {
			log.Debug().Err(err).Str("line", scanner.Text()).Msg("command failed")
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line. Blank lines and lines starting with
// '#' are ignored.
func (s *Session) Execute(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new":
		err = s.handleNew(args)
	case "setup":
		err = s.handleSetup(args)
	case "own":
		err = s.handleOwn(args)
	case "reject":
		err = s.handleReject(args)
	case "opp":
		err = s.handleOpponent(args)
	case "show":
		fmt.Fprint(s.out, s.state.String())
	case "moves":
		s.handleMoves()
	case "eval":
		fmt.Fprintf(s.out, "eval %.2f risk %.2f\n", s.state.Evaluate(), s.state.Risk())
	case "hash":
		fmt.Fprintf(s.out, "hash %016x\n", s.state.Hash())
	case "rank":
		err = s.handleRank(ctx)
	case "save":
		err = s.handleSave(args)
	case "load":
		err = s.handleLoad(args)
	case "quit":
		return true, nil
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return false, err
}

func parseColor(s string) (board.Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return board.White, nil
	case "black", "b":
		return board.Black, nil
	}
	return board.NoColor, fmt.Errorf("invalid color: %s", s)
}

// handleNew resets to the standard start: new white|black
func (s *Session) handleNew(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: new white|black")
	}
	c, err := parseColor(args[0])
	if err != nil {
		return err
	}
	s.reset(belief.Initial(c, s.beliefOpts...))
	return nil
}

// handleSetup starts from an arbitrary own placement: setup <placement> white|black
func (s *Session) handleSetup(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: setup <placement> white|black")
	}
	c, err := parseColor(args[1])
	if err != nil {
		return err
	}
	army, err := board.ParsePlacement(args[0], c)
	if err != nil {
		return err
	}
	s.reset(belief.FromPlacement(c, army, board.AllCastling, s.beliefOpts...))
	return nil
}

func (s *Session) reset(st *belief.State) {
	s.state = st
	s.ply = 0
	s.game = uuid.NewString()
	fmt.Fprintf(s.out, "ok %s\n", st.Owner())
}

func (s *Session) parseMove(uci string) (board.Move, error) {
	m, err := board.ParseMove(uci, s.state.OwnPiece)
	if err != nil {
		return board.NoMove, err
	}
	if s.state.OwnPiece(m.To) != board.NoPieceType {
		return board.NoMove, fmt.Errorf("%s lands on an own piece", uci)
	}
	return m, nil
}

// handleOwn applies an accepted move: own <uci> [capture=..] [kind=..] [check=..] [tries=..]
func (s *Session) handleOwn(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: own <move> [capture=<sq>] [kind=pawn|piece] [check=a,b] [tries=n]")
	}
	m, err := s.parseMove(args[0])
	if err != nil {
		return err
	}
	r, err := umpire.ParseOwnMoveReport(args[1:])
	if err != nil {
		return err
	}
	s.advance(s.state.AfterOwnMove(s.sc, m, r), 1)
	return nil
}

// handleReject applies a refused attempt: reject <uci> [check=..] [tries=..]
func (s *Session) handleReject(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: reject <move> [check=a,b] [tries=n]")
	}
	m, err := s.parseMove(args[0])
	if err != nil {
		return err
	}
	r, err := umpire.ParseRejectReport(args[1:])
	if err != nil {
		return err
	}
	s.advance(s.state.AfterRejectedMove(s.sc, m, r), 0)
	return nil
}

// handleOpponent applies the opponent's move: opp [capture=..] [check=..] [tries=..]
func (s *Session) handleOpponent(args []string) error {
	r, err := umpire.ParseOpponentReport(args)
	if err != nil {
		return err
	}
	s.advance(s.state.AfterOpponentMove(s.sc, r), 1)
	return nil
}

func (s *Session) advance(st *belief.State, plies int) {
	s.state = st
	s.ply += plies
	if st.Broken() {
		fmt.Fprintln(s.out, "ok broken")
		return
	}
	fmt.Fprintln(s.out, "ok")
}

func (s *Session) handleMoves() {
	moves := s.state.GenerateMoves(s.sc, true)
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	fmt.Fprintf(s.out, "moves %d %s\n", len(moves), strings.Join(strs, " "))
}

func (s *Session) handleRank(ctx context.Context) error {
	ranked, err := s.ranker.Rank(ctx, s.state)
	if err != nil {
		return err
	}
	for _, sc := range ranked {
		fmt.Fprintf(s.out, "%s %.2f\n", sc.Move, sc.Score)
	}
	fmt.Fprintf(s.out, "ranked %d\n", len(ranked))
	return nil
}

// handleSave stores the current belief: save [game]
func (s *Session) handleSave(args []string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if len(args) > 1 {
		return fmt.Errorf("usage: save [game]")
	}
	game := s.game
	if len(args) == 1 {
		game = args[0]
	}
	if err := s.store.SaveSnapshot(game, s.ply, s.state); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "saved %s %d\n", game, s.ply)
	return nil
}

// handleLoad restores a stored belief: load <game> [ply]
func (s *Session) handleLoad(args []string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: load <game> [ply]")
	}

	var (
		ply int
		st  *belief.State
		err error
	)
	if len(args) == 2 {
		ply, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid ply: %s", args[1])
		}
		st, err = s.store.LoadSnapshot(args[0], ply, s.beliefOpts...)
	} else {
		ply, st, err = s.store.Latest(args[0], s.beliefOpts...)
	}
	if err != nil {
		return err
	}

	s.state = st
	s.ply = ply
	s.game = args[0]
	fmt.Fprintf(s.out, "loaded %s %d\n", args[0], ply)
	return nil
}
