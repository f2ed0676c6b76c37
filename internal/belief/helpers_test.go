package belief

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

const tol = 1e-6

func mustMove(t *testing.T, s *State, uci string) board.Move {
	t.Helper()
	m, err := board.ParseMove(uci, s.OwnPiece)
	require.NoError(t, err)
	return m
}

func mustPlacement(t *testing.T, fen string, c board.Color, opts ...Option) *State {
	t.Helper()
	army, err := board.ParsePlacement(fen, c)
	require.NoError(t, err)
	return FromPlacement(c, army, board.AllCastling, opts...)
}

func silentOwn(t *testing.T, s *State, uci string) *State {
	t.Helper()
	return s.AfterOwnMove(nil, mustMove(t, s, uci), umpire.SilentOwnMove())
}

// requireConsistent checks the invariants every transition must keep.
func requireConsistent(t *testing.T, s *State) {
	t.Helper()
	for sq := board.A1; sq <= board.H8; sq++ {
		require.GreaterOrEqual(t, s.PieceMass(sq), 0.0, "piece mass on %s", sq)
		require.GreaterOrEqual(t, s.PawnMass(sq), 0.0, "pawn mass on %s", sq)
		require.GreaterOrEqual(t, s.KingMass(sq), 0.0, "king mass on %s", sq)
		require.GreaterOrEqual(t, s.EmptyMass(sq), 0.0, "empty mass on %s", sq)
		if s.OwnPiece(sq) != board.NoPieceType {
			require.Zero(t, s.PieceMass(sq)+s.PawnMass(sq)+s.KingMass(sq), "enemy mass on own %s", sq)
		}
		if r := sq.Rank(); r == 0 || r == 7 {
			require.Zero(t, s.PawnMass(sq), "pawn mass on back rank %s", sq)
		}
	}
	if s.Broken() {
		return
	}
	piece, pawn, king := s.PieceGrid(), s.PawnGrid(), s.KingGrid()
	require.InDelta(t, s.PieceCount(), piece.Sum(), tol*(1+s.PieceCount()))
	require.InDelta(t, s.PawnCount(), pawn.Sum(), tol*(1+s.PawnCount()))
	require.InDelta(t, 1.0, king.Sum(), tol)
}

func squaresOf(g Grid) map[board.Square]bool {
	out := map[board.Square]bool{}
	for _, sq := range g.Nonzero() {
		out[sq] = true
	}
	return out
}
