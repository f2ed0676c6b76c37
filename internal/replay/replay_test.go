package replay

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ludeme/Ludii-sub013/internal/belief"
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/engine"
	"github.com/Ludeme/Ludii-sub013/internal/storage"
)

func run(t *testing.T, s *Session, out *bytes.Buffer, transcript string) []string {
	t.Helper()
	out.Reset()
	require.NoError(t, s.Run(context.Background(), strings.NewReader(transcript)))
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestTranscript(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)

	lines := run(t, s, &out, `
# opening
new white
own e2e4 tries=0
opp
hash
moves
`)
	require.Equal(t, "ok White", lines[0])
	require.Equal(t, "ok", lines[1])
	require.Equal(t, "ok", lines[2])
	require.True(t, strings.HasPrefix(lines[3], "hash "))
	require.True(t, strings.HasPrefix(lines[4], "moves "))
	require.Contains(t, lines[4], "e4e5")
	require.Equal(t, 2, s.Ply())
	require.Equal(t, board.Pawn, s.State().OwnPiece(board.E4))
}

func TestShowAndEval(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, WithOwner(board.Black))

	lines := run(t, s, &out, "show\neval\n")
	require.Len(t, lines, 10)
	require.Equal(t, "8 r n b q k b n r", lines[0])
	require.Equal(t, "  a b c d e f g h", lines[8])
	require.True(t, strings.HasPrefix(lines[9], "eval "))
}

func TestErrorsDoNotStopSession(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)

	lines := run(t, s, &out, "frobnicate\nown e2e5x\nown e1e2\nnew purple\nopp check=sideways\nown e2e4\nquit\nown d2d4\n")
	require.Equal(t, []string{
		"error: unknown command: frobnicate",
		"error: invalid promotion piece: x",
		"error: e1e2 lands on an own piece",
		"error: invalid color: purple",
		"error: invalid check: sideways",
		"ok",
	}, lines)
	require.Equal(t, board.NoPieceType, s.State().OwnPiece(board.D4))
}

func TestExecuteUnknownCommand(t *testing.T) {
	s := New(&bytes.Buffer{})
	quit, err := s.Execute(context.Background(), "jump")
	require.False(t, quit)
	require.ErrorIs(t, err, ErrUnknownCommand)

	quit, err = s.Execute(context.Background(), "quit")
	require.True(t, quit)
	require.NoError(t, err)
}

func TestSetupAndReject(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, WithBeliefOptions(belief.WithEnemyCounts(0, 8)))

	lines := run(t, s, &out, "setup 8/8/8/8/8/8/4N3/4K3 white\nreject e2c3\n")
	require.Equal(t, []string{"ok White", "ok"}, lines)
	require.Equal(t, 0, s.Ply())
	require.GreaterOrEqual(t, s.State().PieceCount(), 1.0)

	lines = run(t, s, &out, "setup 8/8/8/8/8/8/8/8 white\n")
	require.Equal(t, "error: White must have exactly one king, got 0", lines[0])
}

func TestRank(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, WithRanker(engine.NewRanker(2)))

	lines := run(t, s, &out, "rank\n")
	require.Len(t, lines, 21)
	require.Equal(t, "ranked 20", lines[20])
}

type vanishingModel struct{}

func (vanishingModel) Predict(*belief.State) (belief.Grid, belief.Grid, belief.Grid, bool) {
	return belief.Grid{}, belief.Grid{}, belief.Grid{}, true
}

func TestBrokenIsReported(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, WithBeliefOptions(belief.WithOpponentModel(vanishingModel{})))

	lines := run(t, s, &out, "opp\n")
	require.Equal(t, []string{"ok broken"}, lines)
	require.True(t, s.State().Broken())
}

func TestSaveLoad(t *testing.T) {
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	s := New(&out, WithStore(store))

	lines := run(t, s, &out, "own e2e4\nopp tries=1\nsave g1\n")
	require.Equal(t, "saved g1 2", lines[2])
	saved := s.State()

	lines = run(t, s, &out, "new white\nown d2d4\nsave g1\nload g1 2\n")
	require.Equal(t, "saved g1 1", lines[2])
	require.Equal(t, "loaded g1 2", lines[3])
	require.Equal(t, 2, s.Ply())
	require.Equal(t, saved.PawnGrid(), s.State().PawnGrid())
	require.Equal(t, saved.PieceGrid(), s.State().PieceGrid())
	require.Equal(t, saved.Hash(), s.State().Hash())

	lines = run(t, s, &out, "new white\nload g1\nload g2\nload g1 x\n")
	require.Equal(t, "loaded g1 2", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "error: "), lines[2])
	require.Contains(t, lines[2], storage.ErrNotFound.Error())
	require.Equal(t, "error: invalid ply: x", lines[3])
}

func TestSaveDefaultsToSessionGame(t *testing.T) {
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	s := New(&out, WithStore(store))
	first := s.Game()
	require.NotEmpty(t, first)

	lines := run(t, s, &out, "own e2e4\nsave\n")
	require.Equal(t, "saved "+first+" 1", lines[1])

	run(t, s, &out, "new black\n")
	require.NotEqual(t, first, s.Game())

	lines = run(t, s, &out, "load "+first+"\nsave\n")
	require.Equal(t, "loaded "+first+" 1", lines[0])
	require.Equal(t, first, s.Game())
	require.Equal(t, "saved "+first+" 1", lines[1])

	plies, err := store.Plies(first)
	require.NoError(t, err)
	require.Equal(t, []int{1}, plies)
}

func TestSaveWithoutStore(t *testing.T) {
	s := New(&bytes.Buffer{})
	_, err := s.Execute(context.Background(), "save g1")
	require.ErrorIs(t, err, ErrNoStore)
	_, err = s.Execute(context.Background(), "load g1")
	require.ErrorIs(t, err, ErrNoStore)
}
