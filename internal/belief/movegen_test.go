package belief

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

func moveStrings(moves []board.Move) map[string]bool {
	out := map[string]bool{}
	for _, m := range moves {
		out[m.String()] = true
	}
	return out
}

func TestGenerateMovesInitial(t *testing.T) {
	s := Initial(board.White)
	moves := s.GenerateMoves(nil, true)
	require.Len(t, moves, 20)

	got := moveStrings(moves)
	require.True(t, got["e2e4"])
	require.True(t, got["g1f3"])
	require.False(t, got["e2d3"], "no tries announced")
}

func TestGeneratePawnDiagonalsWithTries(t *testing.T) {
	s := Initial(board.White)
	s = silentOwn(t, s, "e2e4")
	s = s.AfterOpponentMove(nil, umpire.OpponentReport{Capture: board.NoSquare, PawnTries: 1})

	got := moveStrings(s.GenerateMoves(nil, true))
	require.True(t, got["e4d5"])
	require.True(t, got["e4f5"])
	require.False(t, got["d2c3"], "no enemy mass on c3")
}

func TestGeneratePromotions(t *testing.T) {
	s := mustPlacement(t, "8/P7/8/8/8/8/8/4K3", board.White)
	var promos []board.PieceType
	for _, m := range s.GenerateMoves(nil, true) {
		if m.Piece == board.Pawn {
			require.True(t, m.IsPromotion())
			promos = append(promos, m.Promotion)
		}
	}
	require.ElementsMatch(t, []board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}, promos)
}

func TestGenerateCastling(t *testing.T) {
	s := mustPlacement(t, "8/8/8/8/8/8/8/R3K2R", board.White)
	got := moveStrings(s.GenerateMoves(nil, true))
	require.True(t, got["e1g1"])
	require.True(t, got["e1c1"])

	s = mustPlacement(t, "8/8/8/8/8/8/8/RN2K2R", board.White)
	got = moveStrings(s.GenerateMoves(nil, true))
	require.True(t, got["e1g1"])
	require.False(t, got["e1c1"])

	s = mustPlacement(t, "8/8/8/8/8/8/8/R3K2R", board.White)
	r := umpire.SilentOpponentMove()
	r.Check1 = umpire.CheckRank
	s = s.AfterOpponentMove(nil, r)
	got = moveStrings(s.GenerateMoves(nil, false))
	require.False(t, got["e1g1"], "no castling out of check")
	require.False(t, got["e1c1"])
}

func TestGenerateDoubleStepSecondChance(t *testing.T) {
	s := Initial(board.White)
	s = s.AfterRejectedMove(nil, mustMove(t, s, "e2e3"), umpire.RejectReport{})
	got := moveStrings(s.GenerateMoves(nil, true))
	require.True(t, got["e2e4"])
}

func TestGenerateDoubleStepBlockedByOwnPiece(t *testing.T) {
	s := mustPlacement(t, "8/8/8/8/8/4N3/4P3/4K3", board.White)
	got := moveStrings(s.GenerateMoves(nil, true))
	require.False(t, got["e2e3"])
	require.False(t, got["e2e4"])
}

func TestGenerateEnvelopePruning(t *testing.T) {
	s := mustPlacement(t, "8/8/8/8/8/8/8/R3K3", board.White, WithEnemyCounts(0, 1)).derive()
	s.pawn = Grid{}
	s.pawn[board.A5] = 1
	s.finish("test")

	got := moveStrings(s.GenerateMoves(nil, true))
	require.True(t, got["a1a5"])
	require.False(t, got["a1a6"])
	require.False(t, got["a1a8"])
	require.True(t, got["a1d1"])
}

func TestGenerateCheckFilter(t *testing.T) {
	s := mustPlacement(t, "8/8/8/8/R7/8/8/4K3", board.White)
	r := umpire.SilentOpponentMove()
	r.Check1 = umpire.CheckFile
	s = s.AfterOpponentMove(nil, r)

	var others []string
	for _, m := range s.GenerateMoves(nil, true) {
		if m.Piece != board.King {
			others = append(others, m.String())
		}
	}
	require.Equal(t, []string{"a4e4"}, others)

	all := s.GenerateMoves(nil, false)
	require.Greater(t, len(all), 6)
}

func TestGeneratePackedRoundTrip(t *testing.T) {
	sc := NewScratch()
	s := mustPlacement(t, "8/P7/8/8/8/8/8/R3K2R", board.White)
	moves := append([]board.Move(nil), s.GenerateMoves(nil, true)...)
	packed := s.GeneratePacked(sc, true)
	require.Len(t, packed, len(moves))
	for i, p := range packed {
		require.Equal(t, moves[i], s.Unpack(p))
	}
}
