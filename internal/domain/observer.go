package domain

// MoveObserver receives the physical effects of ApplyMove in order: one
// MarbleShifted per displaced marble, outermost first, then exactly one
// MarbleInserted for the new marble. Callbacks fire synchronously.
type MoveObserver interface {
	MarbleShifted(slot Slot, direction Side)
	MarbleInserted(slot Slot)
}

// NopMoveObserver is the default for callers not interested in animation.
type NopMoveObserver struct{}

func (NopMoveObserver) MarbleShifted(Slot, Side) {}

func (NopMoveObserver) MarbleInserted(Slot) {}
