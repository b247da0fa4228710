package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countByOrientation(lines []WinningLine) map[LineOrientation]int {
	counts := make(map[LineOrientation]int)
	for _, line := range lines {
		counts[line.Orientation]++
	}
	return counts
}

func TestAllWinningLinesOfFive(t *testing.T) {
	lines := AllWinningLines(5)
	counts := countByOrientation(lines)
	assert.Equal(t, 21, counts[Horizontal])
	assert.Equal(t, 21, counts[Vertical])
	assert.Equal(t, 9, counts[Ascending])
	assert.Equal(t, 9, counts[Descending])
	assert.Len(t, lines, 60)

	// idempotent and deterministic
	assert.Equal(t, lines, AllWinningLines(5))
}

func TestWinningLineSlotsAreConsecutive(t *testing.T) {
	for _, line := range AllWinningLines(4) {
		require.Len(t, line.Slots, 4)
		for i := 1; i < len(line.Slots); i++ {
			assert.Equal(t, line.Orientation.ToNeighbour(line.Slots[i-1]), line.Slots[i])
		}
		for _, slot := range line.Slots {
			_, err := NewSlot(slot.HorPos, slot.VerPos)
			require.NoError(t, err)
		}
	}
}

func TestWinningLinesAt(t *testing.T) {
	detector, err := NewWinningLinesDetector(5)
	require.NoError(t, err)
	assert.Len(t, detector.WinningLinesAt(Slot{HorPos: 0, VerPos: 0}), 3)
	assert.Len(t, detector.WinningLinesAt(Slot{HorPos: 0, VerPos: 3}), 4)
	assert.Len(t, detector.WinningLinesAt(Slot{HorPos: 3, VerPos: 3}), 12)
	assert.Len(t, detector.WinningLinesAt(Slot{HorPos: 6, VerPos: 2}), 5)
}

func TestDetectorLengthValidation(t *testing.T) {
	_, err := NewWinningLinesDetector(3)
	require.Error(t, err)
	_, err = NewWinningLinesDetector(6)
	require.Error(t, err)
}

func TestAnalyzeColourPlacements(t *testing.T) {
	game, err := RestoreGame([]Colour{Blue, Orange}, map[Slot]Colour{
		{HorPos: 0, VerPos: 0}: Blue,
		{HorPos: 1, VerPos: 0}: Blue,
		{HorPos: 2, VerPos: 0}: Blue,
		{HorPos: 0, VerPos: 1}: Orange,
	})
	require.NoError(t, err)

	groups := game.AnalyzeColourPlacements()

	ofBlue := groups[Blue]
	assert.Equal(t, 0, ofBlue[5])
	assert.Equal(t, 0, ofBlue[4])
	assert.Equal(t, 1, ofBlue[3])
	assert.Equal(t, 1, ofBlue[2])
	assert.Equal(t, 7, ofBlue[1])

	ofOrange := groups[Orange]
	assert.Equal(t, 0, ofOrange[5])
	assert.Equal(t, 0, ofOrange[2])
	assert.Equal(t, 4, ofOrange[1])
}
