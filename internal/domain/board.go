package domain

import (
	"strings"
)

// Game owns the board occupancy, the rotating colour sequence and the
// marble supply accounting. It is mutated exclusively through ApplyMove
// and becomes immutable once a GameOverCondition is set. The AI searches
// on clones, never on the canonical instance.
type Game struct {
	// colours is the rotating sequence; the head is the colour to move.
	colours []Colour
	// board is indexed [verPos][horPos].
	board     [NumSlotsPerSide][NumSlotsPerSide]Colour
	occupied  int
	perColour map[Colour]int
	detector  *WinningLinesDetector
	gameOver  *GameOverCondition
}

func validateColours(colours []Colour) error {
	if len(colours) < 2 || len(colours) > 4 {
		return ErrNumColours
	}
	seen := make(map[Colour]bool, len(colours))
	for _, c := range colours {
		switch c {
		case Blue, Green, Orange, Yellow:
		default:
			return ErrUnknownColour
		}
		if seen[c] {
			return ErrDuplicateColours
		}
		seen[c] = true
	}
	return nil
}

// NewGame creates an empty board for the given colour sequence. Two
// colours play for lines of five, three or four colours for lines of four.
func NewGame(colours ...Colour) (*Game, error) {
	if err := validateColours(colours); err != nil {
		return nil, err
	}
	g := &Game{
		colours:   append([]Colour(nil), colours...),
		perColour: make(map[Colour]int, len(colours)),
	}
	for _, c := range colours {
		g.perColour[c] = 0
	}
	if len(colours) == 2 {
		g.detector = detectorFive
	} else {
		g.detector = detectorFour
	}
	return g, nil
}

// RestoreGame reconstructs a game from a colour sequence and a partial
// board, validating the supply invariants. Used by snapshot loading and
// by tests fabricating positions.
func RestoreGame(colours []Colour, board map[Slot]Colour) (*Game, error) {
	g, err := NewGame(colours...)
	if err != nil {
		return nil, err
	}
	for slot, c := range board {
		if _, err := NewSlot(slot.HorPos, slot.VerPos); err != nil {
			return nil, err
		}
		if _, ok := g.perColour[c]; !ok {
			return nil, ErrUnknownColour
		}
		if g.perColour[c] == NumMarblesPerColour {
			return nil, ErrSupplyExceeded
		}
		g.board[slot.VerPos][slot.HorPos] = c
		g.perColour[c]++
		g.occupied++
	}
	return g, nil
}

// Clone returns a deep copy sharing only the immutable line detector.
func (g *Game) Clone() *Game {
	clone := &Game{
		colours:   append([]Colour(nil), g.colours...),
		board:     g.board,
		occupied:  g.occupied,
		perColour: make(map[Colour]int, len(g.perColour)),
		detector:  g.detector,
		gameOver:  g.gameOver,
	}
	for c, n := range g.perColour {
		clone.perColour[c] = n
	}
	return clone
}

// Colours returns the rotating colour sequence; index 0 is next to move.
func (g *Game) Colours() []Colour {
	return g.colours
}

// ColourToMove is the head of the colour sequence.
func (g *Game) ColourToMove() Colour {
	return g.colours[0]
}

// GameOverCondition returns nil while the game is running.
func (g *Game) GameOverCondition() *GameOverCondition {
	return g.gameOver
}

func (g *Game) WinningLineLength() int {
	return g.detector.WinningLineLength()
}

// ColourAt returns Empty for unoccupied slots.
func (g *Game) ColourAt(slot Slot) Colour {
	return g.board[slot.VerPos][slot.HorPos]
}

func (g *Game) ColourOfOccupiedSlot(slot Slot) (Colour, error) {
	c := g.board[slot.VerPos][slot.HorPos]
	if c == Empty {
		return Empty, ErrSlotNotOccupied
	}
	return c, nil
}

func (g *Game) CountOccupiedSlots() int {
	return g.occupied
}

func (g *Game) CountSlotsPerColour() map[Colour]int {
	counts := make(map[Colour]int, len(g.perColour))
	for c, n := range g.perColour {
		counts[c] = n
	}
	return counts
}

// WinningLinesAt exposes the shared catalog's reverse index.
func (g *Game) WinningLinesAt(slot Slot) []WinningLine {
	return g.detector.WinningLinesAt(slot)
}

// AnalyzeColourPlacements groups the catalog lines per colour by how many
// of that colour's marbles they contain. Feeds the AI heuristic.
func (g *Game) AnalyzeColourPlacements() map[Colour][]int {
	return g.detector.analyze(g)
}

// FindFirstEmptySlot scans the line targeted by an insertion from the
// given side and returns the empty slot nearest the insertion edge, i.e.
// where the push chain ends. The second result is false if the line is
// full.
func (g *Game) FindFirstEmptySlot(side Side, insertPos int) (Slot, bool) {
	if side.IsVertical() {
		if side == Left {
			for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
				if g.board[insertPos][horPos] == Empty {
					return Slot{HorPos: horPos, VerPos: insertPos}, true
				}
			}
		} else {
			for horPos := NumSlotsPerSide - 1; horPos >= 0; horPos-- {
				if g.board[insertPos][horPos] == Empty {
					return Slot{HorPos: horPos, VerPos: insertPos}, true
				}
			}
		}
	} else {
		if side == Top {
			for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
				if g.board[verPos][insertPos] == Empty {
					return Slot{HorPos: insertPos, VerPos: verPos}, true
				}
			}
		} else {
			for verPos := NumSlotsPerSide - 1; verPos >= 0; verPos-- {
				if g.board[verPos][insertPos] == Empty {
					return Slot{HorPos: insertPos, VerPos: verPos}, true
				}
			}
		}
	}
	return Slot{}, false
}

// DetectAllPossibleMoves lists the legal moves: every row or column with
// at least one empty slot is insertable from both of its sides.
func (g *Game) DetectAllPossibleMoves() []Move {
	moves := make([]Move, 0, 4*NumSlotsPerSide)
	for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
		if _, ok := g.FindFirstEmptySlot(Top, horPos); ok {
			moves = append(moves, Move{Side: Top, Position: horPos}, Move{Side: Bottom, Position: horPos})
		}
	}
	for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
		if _, ok := g.FindFirstEmptySlot(Left, verPos); ok {
			moves = append(moves, Move{Side: Left, Position: verPos}, Move{Side: Right, Position: verPos})
		}
	}
	return moves
}

// ApplyMove performs insertion-with-shift and evaluates the terminal
// conditions in strict order: mover win, board full, then supply
// exhaustion of the upcoming colour. The observer may be nil.
func (g *Game) ApplyMove(move Move, observer MoveObserver) (*GameOverCondition, error) {
	if g.gameOver != nil {
		return nil, ErrGameOver
	}
	if move.Position < 0 || move.Position >= NumSlotsPerSide {
		return nil, ErrIllegalPosition
	}
	if observer == nil {
		observer = NopMoveObserver{}
	}

	if err := g.insertMarble(move.Side, move.Position, observer); err != nil {
		return nil, err
	}

	mover := g.colours[0]
	if g.detector.hasWinningLine(g, mover) {
		g.gameOver = &GameOverCondition{Winner: mover}
	} else if g.occupied == NumSlots {
		g.gameOver = &GameOverCondition{}
	} else {
		g.rotateColours()
		// the upcoming colour has to have at least one marble left to insert
		if g.perColour[g.colours[0]] == NumMarblesPerColour {
			g.gameOver = &GameOverCondition{}
		}
	}
	return g.gameOver, nil
}

func (g *Game) insertMarble(side Side, position int, observer MoveObserver) error {
	firstEmpty, ok := g.FindFirstEmptySlot(side, position)
	if !ok {
		return ErrLineFull
	}
	mover := g.colours[0]
	shift := side.ShiftDirection()
	var insertSlot Slot
	if side.IsVertical() {
		for horPos := firstEmpty.HorPos; horPos != side.Position(); horPos -= shift {
			occupied := Slot{HorPos: horPos - shift, VerPos: position}
			g.board[position][horPos] = g.board[position][horPos-shift]
			observer.MarbleShifted(occupied, side.Opposite())
		}
		insertSlot = Slot{HorPos: side.Position(), VerPos: position}
	} else {
		for verPos := firstEmpty.VerPos; verPos != side.Position(); verPos -= shift {
			occupied := Slot{HorPos: position, VerPos: verPos - shift}
			g.board[verPos][position] = g.board[verPos-shift][position]
			observer.MarbleShifted(occupied, side.Opposite())
		}
		insertSlot = Slot{HorPos: position, VerPos: side.Position()}
	}
	g.board[insertSlot.VerPos][insertSlot.HorPos] = mover
	g.perColour[mover]++
	g.occupied++
	observer.MarbleInserted(insertSlot)
	return nil
}

func (g *Game) rotateColours() {
	head := g.colours[0]
	copy(g.colours, g.colours[1:])
	g.colours[len(g.colours)-1] = head
}

// String renders the board the way the snapshot grid is laid out, one row
// per line.
func (g *Game) String() string {
	var b strings.Builder
	for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
		for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
			b.WriteString(g.board[verPos][horPos].String())
			if horPos < NumSlotsPerSide-1 {
				b.WriteByte('|')
			}
		}
		if verPos < NumSlotsPerSide-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
