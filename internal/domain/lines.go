package domain

// LineOrientation is one of the four directions a winning line can run in.
type LineOrientation int

const (
	Horizontal LineOrientation = iota
	Vertical
	Ascending
	Descending
)

// ToNeighbour returns the next slot of a line with this orientation.
func (o LineOrientation) ToNeighbour(s Slot) Slot {
	switch o {
	case Horizontal:
		return Slot{HorPos: s.HorPos + 1, VerPos: s.VerPos}
	case Vertical:
		return Slot{HorPos: s.HorPos, VerPos: s.VerPos + 1}
	case Ascending:
		return Slot{HorPos: s.HorPos + 1, VerPos: s.VerPos - 1}
	default:
		return Slot{HorPos: s.HorPos + 1, VerPos: s.VerPos + 1}
	}
}

// WinningLine is a straight run of slots of the configured winning length.
type WinningLine struct {
	Orientation LineOrientation
	Slots       []Slot
}

func newWinningLine(orientation LineOrientation, length int, start Slot) WinningLine {
	slots := make([]Slot, length)
	slots[0] = start
	for i := 1; i < length; i++ {
		slots[i] = orientation.ToNeighbour(slots[i-1])
	}
	return WinningLine{Orientation: orientation, Slots: slots}
}

// AllWinningLines enumerates every straight run of the given length on the
// board: one window per offset for rows and columns, plus all ascending and
// descending diagonal windows. The result is deterministic.
func AllWinningLines(length int) []WinningLine {
	lines := make([]WinningLine, 0, 4*NumSlotsPerSide*(NumSlotsPerSide-length+1))
	for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
		for horPos := 0; horPos <= NumSlotsPerSide-length; horPos++ {
			lines = append(lines, newWinningLine(Horizontal, length, Slot{HorPos: horPos, VerPos: verPos}))
		}
	}
	for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
		for verPos := 0; verPos <= NumSlotsPerSide-length; verPos++ {
			lines = append(lines, newWinningLine(Vertical, length, Slot{HorPos: horPos, VerPos: verPos}))
		}
	}
	// ascending diagonals run towards the upper right, so their origins sit
	// in the lower left region of the board
	for horPos := 0; horPos <= NumSlotsPerSide-length; horPos++ {
		for verPos := length - 1; verPos < NumSlotsPerSide; verPos++ {
			lines = append(lines, newWinningLine(Ascending, length, Slot{HorPos: horPos, VerPos: verPos}))
		}
	}
	for horPos := 0; horPos <= NumSlotsPerSide-length; horPos++ {
		for verPos := 0; verPos <= NumSlotsPerSide-length; verPos++ {
			lines = append(lines, newWinningLine(Descending, length, Slot{HorPos: horPos, VerPos: verPos}))
		}
	}
	return lines
}

// WinningLinesDetector indexes the line catalog for one winning length.
// Built once and shared between all games of that length; the reverse
// index makes win checking proportional to the lines through the touched
// slots instead of the whole catalog.
type WinningLinesDetector struct {
	length      int
	lines       []WinningLine
	slotToLines [NumSlotsPerSide][NumSlotsPerSide][]int
}

func NewWinningLinesDetector(length int) (*WinningLinesDetector, error) {
	if length < 4 || length > 5 {
		return nil, ErrIllegalPosition
	}
	d := &WinningLinesDetector{
		length: length,
		lines:  AllWinningLines(length),
	}
	for i, line := range d.lines {
		for _, slot := range line.Slots {
			d.slotToLines[slot.VerPos][slot.HorPos] = append(d.slotToLines[slot.VerPos][slot.HorPos], i)
		}
	}
	return d, nil
}

func mustDetector(length int) *WinningLinesDetector {
	d, err := NewWinningLinesDetector(length)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	detectorFour = mustDetector(4)
	detectorFive = mustDetector(5)
)

func (d *WinningLinesDetector) WinningLineLength() int {
	return d.length
}

// WinningLinesAt returns the lines passing through the given slot.
func (d *WinningLinesDetector) WinningLinesAt(slot Slot) []WinningLine {
	indexes := d.slotToLines[slot.VerPos][slot.HorPos]
	lines := make([]WinningLine, len(indexes))
	for i, li := range indexes {
		lines[i] = d.lines[li]
	}
	return lines
}

// hasWinningLine reports whether the colour fully occupies at least one line.
func (d *WinningLinesDetector) hasWinningLine(g *Game, colour Colour) bool {
	counts := make([]int, len(d.lines))
	for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
		for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
			if g.board[verPos][horPos] != colour {
				continue
			}
			for _, li := range d.slotToLines[verPos][horPos] {
				counts[li]++
				if counts[li] == d.length {
					return true
				}
			}
		}
	}
	return false
}

// analyze groups, per colour, the catalog lines by how many of that
// colour's marbles they contain: result[colour][k] is the number of lines
// holding exactly k of its marbles.
func (d *WinningLinesDetector) analyze(g *Game) map[Colour][]int {
	lineCounts := make(map[Colour][]int, len(g.colours))
	for _, c := range g.colours {
		lineCounts[c] = make([]int, len(d.lines))
	}
	for verPos := 0; verPos < NumSlotsPerSide; verPos++ {
		for horPos := 0; horPos < NumSlotsPerSide; horPos++ {
			c := g.board[verPos][horPos]
			if c == Empty {
				continue
			}
			counts := lineCounts[c]
			for _, li := range d.slotToLines[verPos][horPos] {
				counts[li]++
			}
		}
	}
	groups := make(map[Colour][]int, len(g.colours))
	for c, counts := range lineCounts {
		group := make([]int, d.length+1)
		for _, n := range counts {
			if n > 0 {
				group[n]++
			}
		}
		groups[c] = group
	}
	return groups
}
