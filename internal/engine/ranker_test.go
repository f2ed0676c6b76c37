package engine

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Ludeme/Ludii-sub013/internal/belief"
	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

var quiet = WithLogger(zerolog.New(io.Discard))

// emptyModel predicts that the enemy vanished, which no belief can absorb.
type emptyModel struct{}

func (emptyModel) Predict(*belief.State) (belief.Grid, belief.Grid, belief.Grid, bool) {
	return belief.Grid{}, belief.Grid{}, belief.Grid{}, true
}

func TestRankInitial(t *testing.T) {
	s := belief.Initial(board.White)
	r := NewRanker(4, quiet)

	var info RankInfo
	r.OnInfo = func(i RankInfo) { info = i }

	ranked, err := r.Rank(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, ranked, 20)
	require.Equal(t, 20, info.Candidates)
	require.Equal(t, 20, info.Ranked)
	require.Equal(t, uint64(20), info.Nodes)

	seen := make(map[uint64]bool)
	for i, sc := range ranked {
		require.False(t, sc.Broken, sc.Move.String())
		require.False(t, seen[sc.Hash], "duplicate hash for %s", sc.Move)
		seen[sc.Hash] = true
		if i > 0 {
			require.GreaterOrEqual(t, ranked[i-1].Score, sc.Score)
		}
	}
}

func TestRankScoresMatchSequentialExpansion(t *testing.T) {
	s := belief.Initial(board.White)
	ranked, err := NewRanker(2, quiet).Rank(context.Background(), s)
	require.NoError(t, err)

	for _, sc := range ranked {
		child := s.Clone(true).
			AfterOwnMove(nil, sc.Move, umpire.SilentOwnMove()).
			AfterOpponentMove(nil, umpire.SilentOpponentMove())
		require.Equal(t, child.Evaluate(), sc.Score, sc.Move.String())
		require.Equal(t, s.HashAfterMove(s.Hash(), sc.Move), sc.Hash)
	}
}

func TestRankDeterministicAcrossThreads(t *testing.T) {
	s := belief.Initial(board.Black)
	one, err := NewRanker(1, quiet).Rank(context.Background(), s)
	require.NoError(t, err)
	many, err := NewRanker(8, quiet).Rank(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, one, many)
}

func TestRankReusesRanker(t *testing.T) {
	s := belief.Initial(board.White)
	r := NewRanker(3, quiet)
	first, err := r.Rank(context.Background(), s)
	require.NoError(t, err)
	second, err := r.Rank(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRankCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ranked, err := NewRanker(2, quiet).Rank(ctx, belief.Initial(board.White))
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, ranked)
}

func TestRankBrokenPolicies(t *testing.T) {
	s := belief.Initial(board.White, belief.WithOpponentModel(emptyModel{}))

	t.Run("Skip", func(t *testing.T) {
		var info RankInfo
		r := NewRanker(2, quiet)
		r.OnInfo = func(i RankInfo) { info = i }
		ranked, err := r.Rank(context.Background(), s)
		require.NoError(t, err)
		require.Empty(t, ranked)
		require.Equal(t, 20, info.Dropped)

		best, err := r.Best(context.Background(), s)
		require.NoError(t, err)
		require.Equal(t, board.NoMove, best)
	})

	t.Run("Keep", func(t *testing.T) {
		ranked, err := NewRanker(2, quiet, WithSkipBroken(false)).Rank(context.Background(), s)
		require.NoError(t, err)
		require.Len(t, ranked, 20)
		for _, sc := range ranked {
			require.True(t, sc.Broken)
			require.False(t, sc.Recovered)
		}
	})

	t.Run("Recover", func(t *testing.T) {
		ranked, err := NewRanker(2, quiet, WithRecoverBroken(true)).Rank(context.Background(), s)
		require.NoError(t, err)
		require.Len(t, ranked, 20)
		for _, sc := range ranked {
			require.True(t, sc.Broken)
			require.True(t, sc.Recovered)
		}
	})
}

func TestRankReplyModel(t *testing.T) {
	s := belief.Initial(board.White)
	calls := make(chan struct{}, 64)
	reply := func(*belief.State) umpire.OpponentReport {
		calls <- struct{}{}
		r := umpire.SilentOpponentMove()
		r.PawnTries = 1
		return r
	}

	ranked, err := NewRanker(2, quiet, WithReplyModel(reply)).Rank(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, ranked, 20)
	require.Len(t, calls, 20)
}

func TestRankInCheckOnlyEvasions(t *testing.T) {
	army, err := board.ParsePlacement("8/8/8/8/8/8/8/R3K3", board.White)
	require.NoError(t, err)
	s := belief.FromPlacement(board.White, army, board.NoCastling, belief.WithEnemyCounts(0, 0))
	s = s.AfterOpponentMove(nil, umpire.OpponentReport{Capture: board.NoSquare, Check1: umpire.CheckRank})
	require.True(t, s.InCheck())

	ranked, err := NewRanker(2, quiet).Rank(context.Background(), s)
	require.NoError(t, err)
	for _, sc := range ranked {
		want := s.GenerateMoves(nil, true)
		require.Contains(t, want, sc.Move)
	}
}

func TestTableKeepsBestEntry(t *testing.T) {
	tt := NewTable(16)
	tt.NewSearch()

	_, ok := tt.Probe(42)
	require.False(t, ok)

	tt.Store(42, 1.0, 5)
	tt.Store(42, 0.5, 2)
	e, ok := tt.Probe(42)
	require.True(t, ok)
	require.Equal(t, int32(5), e.Index)

	tt.Store(42, 1.0, 3)
	e, _ = tt.Probe(42)
	require.Equal(t, int32(3), e.Index)

	tt.Store(42, 2.0, 9)
	e, _ = tt.Probe(42)
	require.Equal(t, int32(9), e.Index)
	require.Equal(t, 2.0, e.Score)

	tt.NewSearch()
	_, ok = tt.Probe(42)
	require.False(t, ok)

	tt.Store(42, -1.0, 7)
	e, ok = tt.Probe(42)
	require.True(t, ok)
	require.Equal(t, int32(7), e.Index)
	require.Greater(t, tt.HitRate(), 0.0)

	tt.Clear()
	_, ok = tt.Probe(42)
	require.False(t, ok)
}

func TestTableGenerationDoesNotWrap(t *testing.T) {
	tt := NewTable(16)
	tt.NewSearch()
	tt.Store(42, 5.0, 1)

	for i := 0; i < 256; i++ {
		tt.NewSearch()
	}
	_, ok := tt.Probe(42)
	require.False(t, ok)

	tt.Store(42, 1.0, 3)
	e, ok := tt.Probe(42)
	require.True(t, ok)
	require.Equal(t, int32(3), e.Index)
}

func TestRankIgnoresOldRankingsAfterManyGenerations(t *testing.T) {
	army, err := board.ParsePlacement("8/8/8/8/8/8/R7/7K", board.White)
	require.NoError(t, err)
	s := belief.FromPlacement(board.White, army, board.NoCastling)

	r := NewRanker(2, quiet)
	fresh, err := r.Rank(context.Background(), s)
	require.NoError(t, err)
	require.NotEmpty(t, fresh)

	// A better child under the same army, left over from an earlier ranking.
	m := board.NewMove(board.A2, board.A3, board.Rook)
	r.table.Store(s.HashAfterMove(s.Hash(), m), math.Inf(1), 999)
	for i := 0; i < 255; i++ {
		r.table.NewSearch()
	}

	again, err := r.Rank(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, fresh, again)

	found := false
	for _, sc := range again {
		if sc.Move == m {
			found = true
		}
	}
	require.True(t, found)
}

func TestNewTableRoundsUp(t *testing.T) {
	require.Equal(t, uint64(16), NewTable(9).Size())
	require.Equal(t, uint64(1), NewTable(0).Size())
}
