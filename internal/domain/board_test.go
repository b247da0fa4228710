package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	shifted  []Slot
	dirs     []Side
	inserted []Slot
}

func (o *recordingObserver) MarbleShifted(slot Slot, direction Side) {
	o.shifted = append(o.shifted, slot)
	o.dirs = append(o.dirs, direction)
}

func (o *recordingObserver) MarbleInserted(slot Slot) {
	o.inserted = append(o.inserted, slot)
}

func TestNewGameValidation(t *testing.T) {
	_, err := NewGame(Blue)
	require.ErrorIs(t, err, ErrNumColours)
	_, err = NewGame(Blue, Green, Orange, Yellow, Blue)
	require.ErrorIs(t, err, ErrNumColours)
	_, err = NewGame(Blue, Blue)
	require.ErrorIs(t, err, ErrDuplicateColours)
	_, err = NewGame(Blue, Colour('X'))
	require.ErrorIs(t, err, ErrUnknownColour)

	two, err := NewGame(Blue, Orange)
	require.NoError(t, err)
	assert.Equal(t, 5, two.WinningLineLength())

	three, err := NewGame(Blue, Green, Orange)
	require.NoError(t, err)
	assert.Equal(t, 4, three.WinningLineLength())
}

func TestInsertionWithShift(t *testing.T) {
	game, err := RestoreGame([]Colour{Blue, Green, Orange}, map[Slot]Colour{
		{HorPos: 0, VerPos: 3}: Orange,
		{HorPos: 1, VerPos: 3}: Green,
		{HorPos: 2, VerPos: 3}: Green,
	})
	require.NoError(t, err)

	observer := &recordingObserver{}
	cond, err := game.ApplyMove(Move{Side: Left, Position: 3}, observer)
	require.NoError(t, err)
	assert.Nil(t, cond)

	// the whole group compacted one step away from the left edge
	assert.Equal(t, Blue, game.ColourAt(Slot{HorPos: 0, VerPos: 3}))
	assert.Equal(t, Orange, game.ColourAt(Slot{HorPos: 1, VerPos: 3}))
	assert.Equal(t, Green, game.ColourAt(Slot{HorPos: 2, VerPos: 3}))
	assert.Equal(t, Green, game.ColourAt(Slot{HorPos: 3, VerPos: 3}))
	assert.Equal(t, Empty, game.ColourAt(Slot{HorPos: 4, VerPos: 3}))

	// shifted events outermost first, then exactly one insert event
	assert.Equal(t, []Slot{{HorPos: 2, VerPos: 3}, {HorPos: 1, VerPos: 3}, {HorPos: 0, VerPos: 3}}, observer.shifted)
	for _, dir := range observer.dirs {
		assert.Equal(t, Right, dir)
	}
	assert.Equal(t, []Slot{{HorPos: 0, VerPos: 3}}, observer.inserted)

	// turn rotated to the next colour
	assert.Equal(t, Green, game.ColourToMove())
}

func TestInsertionDoesNotCrossGaps(t *testing.T) {
	game, err := RestoreGame([]Colour{Blue, Orange}, map[Slot]Colour{
		{HorPos: 0, VerPos: 2}: Orange,
		{HorPos: 1, VerPos: 2}: Orange,
		{HorPos: 3, VerPos: 2}: Blue,
	})
	require.NoError(t, err)

	_, err = game.ApplyMove(Move{Side: Left, Position: 2}, nil)
	require.NoError(t, err)

	// only the contiguous group next to the edge moves; the marble beyond
	// the gap stays put
	assert.Equal(t, Blue, game.ColourAt(Slot{HorPos: 0, VerPos: 2}))
	assert.Equal(t, Orange, game.ColourAt(Slot{HorPos: 1, VerPos: 2}))
	assert.Equal(t, Orange, game.ColourAt(Slot{HorPos: 2, VerPos: 2}))
	assert.Equal(t, Blue, game.ColourAt(Slot{HorPos: 3, VerPos: 2}))
}

func TestInsertionFromEachSide(t *testing.T) {
	game, err := NewGame(Blue, Orange)
	require.NoError(t, err)

	_, err = game.ApplyMove(Move{Side: Top, Position: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, Blue, game.ColourAt(Slot{HorPos: 4, VerPos: 0}))

	_, err = game.ApplyMove(Move{Side: Bottom, Position: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, Orange, game.ColourAt(Slot{HorPos: 4, VerPos: 6}))

	_, err = game.ApplyMove(Move{Side: Right, Position: 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, Blue, game.ColourAt(Slot{HorPos: 6, VerPos: 0}))

	// a second insertion from the top of column 4 pushes the first marble
	observer := &recordingObserver{}
	_, err = game.ApplyMove(Move{Side: Top, Position: 4}, observer)
	require.NoError(t, err)
	assert.Equal(t, Orange, game.ColourAt(Slot{HorPos: 4, VerPos: 0}))
	assert.Equal(t, Blue, game.ColourAt(Slot{HorPos: 4, VerPos: 1}))
	assert.Equal(t, []Slot{{HorPos: 4, VerPos: 0}}, observer.shifted)
	assert.Equal(t, []Side{Bottom}, observer.dirs)
}

func TestFindFirstEmptySlot(t *testing.T) {
	game, err := RestoreGame([]Colour{Blue, Orange}, map[Slot]Colour{
		{HorPos: 0, VerPos: 5}: Blue,
		{HorPos: 1, VerPos: 5}: Orange,
		{HorPos: 6, VerPos: 5}: Blue,
	})
	require.NoError(t, err)

	fromLeft, ok := game.FindFirstEmptySlot(Left, 5)
	require.True(t, ok)
	assert.Equal(t, Slot{HorPos: 2, VerPos: 5}, fromLeft)

	fromRight, ok := game.FindFirstEmptySlot(Right, 5)
	require.True(t, ok)
	assert.Equal(t, Slot{HorPos: 5, VerPos: 5}, fromRight)
}

func TestDetectAllPossibleMoves(t *testing.T) {
	game, err := NewGame(Blue, Orange)
	require.NoError(t, err)

	moves := game.DetectAllPossibleMoves()
	assert.Len(t, moves, 4*NumSlotsPerSide)

	// fill row 1 completely; both of its side moves disappear together
	board := make(map[Slot]Colour)
	for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
		if horPos%2 == 0 {
			board[Slot{HorPos: horPos, VerPos: 1}] = Blue
		} else {
			board[Slot{HorPos: horPos, VerPos: 1}] = Orange
		}
	}
	game, err = RestoreGame([]Colour{Blue, Orange}, board)
	require.NoError(t, err)

	moves = game.DetectAllPossibleMoves()
	assert.Len(t, moves, 4*NumSlotsPerSide-2)
	for _, move := range moves {
		if move.Side.IsVertical() {
			assert.NotEqual(t, 1, move.Position)
		}
	}
}

func TestApplyMoveOnFullLine(t *testing.T) {
	board := make(map[Slot]Colour)
	for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
		colour := Blue
		if horPos%2 == 1 {
			colour = Orange
		}
		board[Slot{HorPos: horPos, VerPos: 0}] = colour
	}
	game, err := RestoreGame([]Colour{Blue, Orange}, board)
	require.NoError(t, err)

	_, err = game.ApplyMove(Move{Side: Left, Position: 0}, nil)
	require.ErrorIs(t, err, ErrLineFull)
}

func TestWinOnAscendingDiagonal(t *testing.T) {
	game, err := RestoreGame([]Colour{Blue, Orange}, map[Slot]Colour{
		{HorPos: 1, VerPos: 5}: Blue,
		{HorPos: 2, VerPos: 4}: Blue,
		{HorPos: 3, VerPos: 3}: Blue,
		{HorPos: 4, VerPos: 2}: Blue,
		{HorPos: 6, VerPos: 0}: Orange,
		{HorPos: 6, VerPos: 1}: Orange,
		{HorPos: 5, VerPos: 6}: Orange,
		{HorPos: 6, VerPos: 6}: Orange,
	})
	require.NoError(t, err)

	cond, err := game.ApplyMove(Move{Side: Left, Position: 6}, nil)
	require.NoError(t, err)
	require.NotNil(t, cond)
	assert.Equal(t, Blue, cond.Winner)

	// terminal games refuse further moves
	_, err = game.ApplyMove(Move{Side: Left, Position: 0}, nil)
	require.ErrorIs(t, err, ErrGameOver)
}

// evenRow/oddRow tile the board with runs of at most two, so a fully
// occupied board carries no winning line.
var (
	evenRow = []Colour{Blue, Blue, Green, Green, Orange, Orange, Blue}
	oddRow  = []Colour{Orange, Orange, Blue, Blue, Green, Green, Orange}
)

func drawPatternBoard(skip map[Slot]bool) map[Slot]Colour {
	board := make(map[Slot]Colour)
	for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
		row := evenRow
		if verPos%2 == 1 {
			row = oddRow
		}
		for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
			slot := Slot{HorPos: horPos, VerPos: verPos}
			if skip[slot] {
				continue
			}
			board[slot] = row[horPos]
		}
	}
	return board
}

func TestDrawOnFullBoard(t *testing.T) {
	// leave the last corner open; Blue fills it without completing a line
	corner := Slot{HorPos: 6, VerPos: 6}
	game, err := RestoreGame([]Colour{Blue, Green, Orange}, drawPatternBoard(map[Slot]bool{corner: true}))
	require.NoError(t, err)

	cond, err := game.ApplyMove(Move{Side: Right, Position: 6}, nil)
	require.NoError(t, err)
	require.NotNil(t, cond)
	assert.Equal(t, Empty, cond.Winner)
	assert.Equal(t, NumSlots, game.CountOccupiedSlots())
}

func TestDrawOnSupplyExhaustion(t *testing.T) {
	// Orange already has all 22 marbles on the board; after Blue's move the
	// turn would rotate to Orange, which has nothing left to insert
	board := make(map[Slot]Colour)
	for verPos := 0; verPos < 4; verPos++ {
		for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
			if verPos == 3 && horPos > 4 {
				continue
			}
			colour := Orange
			if horPos == 3 {
				colour = Blue
			}
			board[Slot{HorPos: horPos, VerPos: verPos}] = colour
		}
	}

	game, err := RestoreGame([]Colour{Blue, Orange}, board)
	require.NoError(t, err)
	require.Equal(t, NumMarblesPerColour, game.CountSlotsPerColour()[Orange])

	cond, err := game.ApplyMove(Move{Side: Left, Position: 6}, nil)
	require.NoError(t, err)
	require.NotNil(t, cond)
	assert.Equal(t, Empty, cond.Winner)
	assert.Less(t, game.CountOccupiedSlots(), NumSlots)
}

func TestSupplyInvariantOnRestore(t *testing.T) {
	board := make(map[Slot]Colour)
	count := 0
	for verPos := 0; verPos < NumSlotsPerSide && count < 23; verPos++ {
		for horPos := 0; horPos < NumSlotsPerSide && count < 23; horPos++ {
			board[Slot{HorPos: horPos, VerPos: verPos}] = Blue
			count++
		}
	}
	_, err := RestoreGame([]Colour{Blue, Orange}, board)
	require.ErrorIs(t, err, ErrSupplyExceeded)
}

func TestCountersAndColourAccess(t *testing.T) {
	game, err := NewGame(Blue, Orange)
	require.NoError(t, err)

	assert.Equal(t, 0, game.CountOccupiedSlots())
	_, err = game.ColourOfOccupiedSlot(Slot{HorPos: 0, VerPos: 0})
	require.ErrorIs(t, err, ErrSlotNotOccupied)

	_, err = game.ApplyMove(Move{Side: Top, Position: 0}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, game.CountOccupiedSlots())
	assert.Equal(t, 1, game.CountSlotsPerColour()[Blue])
	assert.Equal(t, 0, game.CountSlotsPerColour()[Orange])
	colour, err := game.ColourOfOccupiedSlot(Slot{HorPos: 0, VerPos: 0})
	require.NoError(t, err)
	assert.Equal(t, Blue, colour)
	assert.LessOrEqual(t, game.CountOccupiedSlots(), NumSlots)
}

func TestCloneIsIndependent(t *testing.T) {
	game, err := NewGame(Blue, Orange)
	require.NoError(t, err)
	_, err = game.ApplyMove(Move{Side: Top, Position: 3}, nil)
	require.NoError(t, err)

	clone := game.Clone()
	_, err = clone.ApplyMove(Move{Side: Top, Position: 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, game.CountOccupiedSlots())
	assert.Equal(t, 2, clone.CountOccupiedSlots())
	assert.Equal(t, Orange, game.ColourToMove())
	assert.Equal(t, Blue, clone.ColourToMove())
}
