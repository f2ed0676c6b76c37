package belief

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

func TestInitial(t *testing.T) {
	t.Run("white", func(t *testing.T) {
		s := Initial(board.White)
		require.Equal(t, board.E1, s.OwnKing())
		require.Equal(t, board.WhiteKingSideCastle|board.WhiteQueenSideCastle, s.Castling())
		require.Equal(t, 7.0, s.PieceCount())
		require.Equal(t, 8.0, s.PawnCount())
		require.Equal(t, 1.0, s.KingMass(board.E8))
		require.Equal(t, 1.0, s.PieceMass(board.A8))
		require.Equal(t, 1.0, s.PieceMass(board.D8))
		require.Zero(t, s.PieceMass(board.E8))
		require.Equal(t, 1.0, s.PawnMass(board.C7))
		require.Equal(t, 1.0, s.EmptyMass(board.E4))
		require.Zero(t, s.EmptyMass(board.E7))
		require.False(t, s.Broken())
		requireConsistent(t, s)
	})

	t.Run("black", func(t *testing.T) {
		s := Initial(board.Black)
		require.Equal(t, board.E8, s.OwnKing())
		require.Equal(t, 1.0, s.KingMass(board.E1))
		require.Equal(t, 1.0, s.PawnMass(board.H2))
		require.Equal(t, board.Pawn, s.OwnPiece(board.H7))
		requireConsistent(t, s)
	})
}

func TestFromPlacement(t *testing.T) {
	s := mustPlacement(t, "8/8/8/8/8/8/8/R3K2R", board.White)
	require.Equal(t, board.WhiteKingSideCastle|board.WhiteQueenSideCastle, s.Castling())
	require.Equal(t, 7.0, s.PieceCount())
	require.Equal(t, 8.0, s.PawnCount())
	require.Zero(t, s.KingMass(board.D2))
	require.Positive(t, s.KingMass(board.E4))
	requireConsistent(t, s)

	s = mustPlacement(t, "8/8/8/8/8/8/8/4K2R", board.White, WithEnemyCounts(2, 0))
	require.Equal(t, board.WhiteKingSideCastle, s.Castling())
	require.Equal(t, 2.0, s.PieceCount())
	require.Zero(t, s.PawnCount())
	requireConsistent(t, s)
}

func TestNormalizeIdempotent(t *testing.T) {
	s := Initial(board.White)
	s = silentOwn(t, s, "e2e4")
	s = s.AfterOpponentMove(nil, umpire.SilentOpponentMove())

	once := s.Normalize()
	twice := once.Normalize()
	require.Equal(t, once.PieceGrid(), twice.PieceGrid())
	require.Equal(t, once.PawnGrid(), twice.PawnGrid())
	require.Equal(t, once.KingGrid(), twice.KingGrid())
	require.Equal(t, once.EmptyGrid(), twice.EmptyGrid())
	require.Equal(t, s.PieceGrid(), once.PieceGrid())
}

func TestNormalizeBreaksOnEmptyGrid(t *testing.T) {
	s := Initial(board.White).derive()
	s.king = Grid{}
	s.normalize()
	require.True(t, s.Broken())

	again := s.Normalize()
	require.True(t, again.Broken())
}

func TestConsumePromotedPiece(t *testing.T) {
	s := Initial(board.White).derive()
	s.pieceCount = 0.25
	s.consume(umpire.PieceCaptured)
	require.Zero(t, s.pieceCount)
	require.InDelta(t, 7.25, s.pawnCount, tol)
}

func TestCloneIsIndependent(t *testing.T) {
	s := Initial(board.White)
	c := s.Clone(true)
	require.True(t, c.Lightweight())
	require.False(t, s.Lightweight())

	next := silentOwn(t, c, "e2e4")
	require.Equal(t, board.Pawn, s.OwnPiece(board.E2))
	require.Equal(t, board.NoPieceType, s.OwnPiece(board.E4))
	require.Equal(t, board.Pawn, next.OwnPiece(board.E4))

	light := c.AfterOpponentMove(nil, umpire.SilentOpponentMove())
	full := s.AfterOpponentMove(nil, umpire.SilentOpponentMove())
	require.Equal(t, s.Envelope(), light.Envelope())
	require.Equal(t, 4, full.Envelope().MinRank[0])
	require.Equal(t, 6, full.Envelope().MaxRank[0])
}

func TestUniformReset(t *testing.T) {
	s := Initial(board.White).derive()
	s.king = Grid{}
	s.normalize()
	require.True(t, s.Broken())

	r := s.UniformReset()
	require.False(t, r.Broken())
	require.Equal(t, s.PieceCount(), r.PieceCount())
	require.Zero(t, r.KingMass(board.E3), "attacked by own pawns")
	requireConsistent(t, r)
}

func TestEnvelope(t *testing.T) {
	s := Initial(board.White)
	env := s.Envelope()
	for f := 0; f < 8; f++ {
		require.Equal(t, 6, env.MinRank[f])
		require.Equal(t, 6, env.MaxRank[f])
		require.InDelta(t, 1.0, env.FileMass[f], tol)
	}
	require.Equal(t, 0, env.MinFile[6])
	require.Equal(t, 7, env.MaxFile[6])
	require.Equal(t, -1, env.MinFile[3])
}

func TestString(t *testing.T) {
	out := Initial(board.White).String()
	require.Contains(t, out, "8 9 9 9 9 * 9 9 9")
	require.Contains(t, out, "1 R N B Q K B N R")
	require.Contains(t, out, "4 . . . . . . . .")
}
