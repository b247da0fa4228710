package domain

import (
	jsoniter "github.com/json-iterator/go"
)

// Snapshot is the wire form of a game: the ordered colour sequence plus a
// dense grid of nullable colour symbols. The colour to move is implied by
// the head of the sequence.
type Snapshot struct {
	Colours []string    `json:"colours"`
	Board   [][]*string `json:"board"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TakeSnapshot captures the current position.
func (g *Game) TakeSnapshot() *Snapshot {
	snap := &Snapshot{
		Colours: make([]string, len(g.colours)),
		Board:   make([][]*string, NumSlotsPerSide),
	}
	for i, c := range g.colours {
		snap.Colours[i] = c.String()
	}
	for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
		row := make([]*string, NumSlotsPerSide)
		for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
			if c := g.board[verPos][horPos]; c != Empty {
				symbol := c.String()
				row[horPos] = &symbol
			}
		}
		snap.Board[verPos] = row
	}
	return snap
}

// Restore reconstructs a game from the snapshot, re-validating the colour
// sequence and the supply invariants.
func (s *Snapshot) Restore() (*Game, error) {
	colours := make([]Colour, len(s.Colours))
	for i, symbol := range s.Colours {
		c, err := ParseColour(symbol)
		if err != nil {
			return nil, err
		}
		colours[i] = c
	}
	if err := validateColours(colours); err != nil {
		return nil, err
	}
	if len(s.Board) != NumSlotsPerSide {
		return nil, ErrIllegalPosition
	}
	board := make(map[Slot]Colour)
	for verPos, row := range s.Board {
		if len(row) != NumSlotsPerSide {
			return nil, ErrIllegalPosition
		}
		for horPos, symbol := range row {
			if symbol == nil {
				continue
			}
			c, err := ParseColour(*symbol)
			if err != nil {
				return nil, err
			}
			board[Slot{HorPos: horPos, VerPos: verPos}] = c
		}
	}
	return RestoreGame(colours, board)
}

// EncodeSnapshot serializes the current position to JSON.
func EncodeSnapshot(g *Game) ([]byte, error) {
	return json.Marshal(g.TakeSnapshot())
}

// DecodeSnapshot reconstructs a game from its JSON snapshot.
func DecodeSnapshot(data []byte) (*Game, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return snap.Restore()
}
