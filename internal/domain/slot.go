package domain

import (
	"fmt"
	"strings"
)

// Side is one of the four board edges a marble can be inserted from.
type Side int

const (
	Left Side = iota
	Right
	Top
	Bottom
)

func (s Side) String() string {
	switch s {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Top:
		return "TOP"
	default:
		return "BOTTOM"
	}
}

// ParseSide maps a side name back to a Side, ignoring case.
func ParseSide(name string) (Side, error) {
	switch strings.ToUpper(name) {
	case "LEFT":
		return Left, nil
	case "RIGHT":
		return Right, nil
	case "TOP":
		return Top, nil
	case "BOTTOM":
		return Bottom, nil
	}
	return 0, ErrIllegalPosition
}

// Position is the fixed coordinate of the edge: 0 for Left/Top,
// NumSlotsPerSide-1 for Right/Bottom.
func (s Side) Position() int {
	if s == Left || s == Top {
		return 0
	}
	return NumSlotsPerSide - 1
}

// IsVertical reports whether the edge itself runs vertically, i.e. the
// side inserts along a row. Top and Bottom insert along columns.
func (s Side) IsVertical() bool {
	return s == Left || s == Right
}

// ShiftDirection is the direction marbles move when inserted from this
// side: +1 away from Left/Top, -1 away from Right/Bottom.
func (s Side) ShiftDirection() int {
	if s == Left || s == Top {
		return 1
	}
	return -1
}

func (s Side) Opposite() Side {
	switch s {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	default:
		return Top
	}
}

// Slot is one board cell. Plain value type with structural equality.
type Slot struct {
	HorPos int
	VerPos int
}

// NewSlot validates the coordinates.
func NewSlot(horPos, verPos int) (Slot, error) {
	if horPos < 0 || horPos >= NumSlotsPerSide || verPos < 0 || verPos >= NumSlotsPerSide {
		return Slot{}, ErrIllegalPosition
	}
	return Slot{HorPos: horPos, VerPos: verPos}, nil
}

func (s Slot) String() string {
	return fmt.Sprintf("[%d,%d]", s.HorPos, s.VerPos)
}

// Neighbour returns the adjacent slot one step against the side's shift
// direction along its axis.
func (s Slot) Neighbour(direction Side) Slot {
	if direction.IsVertical() {
		return Slot{HorPos: s.HorPos - direction.ShiftDirection(), VerPos: s.VerPos}
	}
	return Slot{HorPos: s.HorPos, VerPos: s.VerPos - direction.ShiftDirection()}
}

// SlotOnEdge returns the edge slot of the given side at the given offset.
func SlotOnEdge(side Side, position int) Slot {
	if side.IsVertical() {
		return Slot{HorPos: side.Position(), VerPos: position}
	}
	return Slot{HorPos: position, VerPos: side.Position()}
}

// Move is an (edge, index) pair identifying an insertion point.
type Move struct {
	Side     Side
	Position int
}

// NewMove validates the insertion index.
func NewMove(side Side, position int) (Move, error) {
	if position < 0 || position >= NumSlotsPerSide {
		return Move{}, ErrIllegalPosition
	}
	return Move{Side: side, Position: position}, nil
}

func (m Move) String() string {
	return fmt.Sprintf("Move(side = %s, position = %d)", m.Side, m.Position)
}
