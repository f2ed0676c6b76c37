package belief

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ludeme/Ludii-sub013/internal/board"
	"github.com/Ludeme/Ludii-sub013/internal/umpire"
)

func TestSnapshotRestore(t *testing.T) {
	s := Initial(board.Black, WithDanger(0.5, 0.1))
	s = s.AfterOpponentMove(nil, umpire.OpponentReport{Capture: board.NoSquare, Check1: umpire.CheckKnight})
	s = silentOwn(t, s, "g8f6")

	restored, err := FromSnapshot(s.Snapshot())
	require.NoError(t, err)
	require.Equal(t, s.Owner(), restored.Owner())
	require.Equal(t, s.OwnArmy(), restored.OwnArmy())
	require.Equal(t, s.Castling(), restored.Castling())
	require.Equal(t, s.PieceGrid(), restored.PieceGrid())
	require.Equal(t, s.KingGrid(), restored.KingGrid())
	require.Equal(t, s.DangerGrid(), restored.DangerGrid())
	require.Equal(t, s.LastChecks(), restored.LastChecks())
	require.Equal(t, s.Hash(), restored.Hash())
	require.Equal(t, s.Params(), restored.Params())
}

func TestSnapshotReattachesModel(t *testing.T) {
	model := &fixedModel{}
	s := Initial(board.White, WithOpponentModel(model))
	sn := s.Snapshot()
	require.Nil(t, sn.Params.Model)

	restored, err := FromSnapshot(sn, WithOpponentModel(model))
	require.NoError(t, err)
	restored.AfterOpponentMove(nil, umpire.SilentOpponentMove())
	require.Equal(t, 1, model.calls)
}

func TestFromSnapshotErrors(t *testing.T) {
	good := Initial(board.White).Snapshot()

	bad := good
	bad.Owner = "Red"
	_, err := FromSnapshot(bad)
	require.Error(t, err)

	bad = good
	bad.Placement = "8/8/8/8/8/8/8/8"
	_, err = FromSnapshot(bad)
	require.Error(t, err)

	bad = good
	bad.Checks[0] = "sideways"
	_, err = FromSnapshot(bad)
	require.Error(t, err)
}
