package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	game, err := NewGame(Orange, Blue)
	require.NoError(t, err)
	for _, move := range []Move{
		{Side: Top, Position: 2},
		{Side: Left, Position: 4},
		{Side: Top, Position: 2},
		{Side: Right, Position: 4},
	} {
		_, err = game.ApplyMove(move, nil)
		require.NoError(t, err)
	}

	data, err := EncodeSnapshot(game)
	require.NoError(t, err)

	restored, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, game.Colours(), restored.Colours())
	assert.Equal(t, game.ColourToMove(), restored.ColourToMove())
	assert.Equal(t, game.CountOccupiedSlots(), restored.CountOccupiedSlots())
	assert.Equal(t, game.WinningLineLength(), restored.WinningLineLength())
	for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
		for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
			slot := Slot{HorPos: horPos, VerPos: verPos}
			assert.Equal(t, game.ColourAt(slot), restored.ColourAt(slot))
		}
	}
}

func TestSnapshotGridLayout(t *testing.T) {
	game, err := RestoreGame([]Colour{Blue, Orange}, map[Slot]Colour{
		{HorPos: 5, VerPos: 1}: Orange,
	})
	require.NoError(t, err)

	snap := game.TakeSnapshot()
	require.Len(t, snap.Board, NumSlotsPerSide)
	require.Len(t, snap.Board[1], NumSlotsPerSide)
	require.NotNil(t, snap.Board[1][5])
	assert.Equal(t, "O", *snap.Board[1][5])
	assert.Nil(t, snap.Board[0][0])
	assert.Equal(t, []string{"B", "O"}, snap.Colours)
}

func TestDecodeSnapshotRejectsMalformedInput(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{`))
	require.Error(t, err)

	// unknown colour symbol
	_, err = DecodeSnapshot([]byte(`{"colours":["B","X"],"board":[[],[],[],[],[],[],[]]}`))
	require.Error(t, err)

	// wrong grid dimensions
	_, err = DecodeSnapshot([]byte(`{"colours":["B","O"],"board":[[null,null]]}`))
	require.Error(t, err)

	// duplicate colours in the sequence
	_, err = DecodeSnapshot([]byte(`{"colours":["B","B"],"board":[]}`))
	require.ErrorIs(t, err, ErrDuplicateColours)
}
