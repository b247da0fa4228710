package domain

// NumSlotsPerSide is the edge length of the board.
const (
	NumSlotsPerSide     = 7
	NumSlots            = NumSlotsPerSide * NumSlotsPerSide
	NumMarblesPerColour = 22
)

// Colour identifies a player and its marble supply. The zero value marks
// an empty slot.
type Colour byte

const (
	Empty  Colour = 0
	Blue   Colour = 'B'
	Green  Colour = 'G'
	Orange Colour = 'O'
	Yellow Colour = 'Y'
)

func (c Colour) String() string {
	if c == Empty {
		return "_"
	}
	return string(rune(c))
}

// ParseColour maps a one-letter symbol back to a Colour.
func ParseColour(symbol string) (Colour, error) {
	switch symbol {
	case "B":
		return Blue, nil
	case "G":
		return Green, nil
	case "O":
		return Orange, nil
	case "Y":
		return Yellow, nil
	}
	return Empty, ErrUnknownColour
}

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrGameOver         Error = "game is already over"
	ErrLineFull         Error = "targeted line has no empty slot"
	ErrIllegalPosition  Error = "illegal position"
	ErrSlotNotOccupied  Error = "slot is not occupied"
	ErrUnknownColour    Error = "unknown colour symbol"
	ErrDuplicateColours Error = "duplicate colours"
	ErrNumColours       Error = "illegal number of colours"
	ErrSupplyExceeded   Error = "colour exceeds its marble supply"
)

// GameOverCondition describes how a game ended. Winner == Empty means a draw.
type GameOverCondition struct {
	Winner Colour
}

func (c *GameOverCondition) String() string {
	if c.Winner == Empty {
		return "Game over: draw!"
	}
	return "Game over: " + c.Winner.String() + " has won!"
}
