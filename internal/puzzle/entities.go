package puzzle

// Carrier is the mobile agent.
type Carrier struct {
	Position Cell
	Facing   Direction

	carrying *Beam
}

// Carrying returns the held beam, or nil.
func (c *Carrier) Carrying() *Beam {
	return c.carrying
}

// IsCarrying reports whether the carrier holds a beam.
func (c *Carrier) IsCarrying() bool {
	return c.carrying != nil
}

// Front returns the cell directly ahead of the carrier.
func (c *Carrier) Front() Cell {
	return c.Position.Step(c.Facing)
}

// Beam is the two-cell rigid object. It occupies Root and the cell one step
// from Root in the Orientation direction.
type Beam struct {
	Root        Cell
	Orientation Direction

	holder *Carrier
}

// Holder returns the carrier holding the beam, or nil if it rests free.
func (b *Beam) Holder() *Carrier {
	return b.holder
}

// IsHeld reports whether a carrier holds the beam.
func (b *Beam) IsHeld() bool {
	return b.holder != nil
}

// End returns the beam's second occupied cell.
func (b *Beam) End() Cell {
	return b.Root.Step(b.Orientation)
}

// Cells returns both occupied cells, root first.
func (b *Beam) Cells() [2]Cell {
	return [2]Cell{b.Root, b.End()}
}

// Occupies reports whether either beam cell equals c.
func (b *Beam) Occupies(c Cell) bool {
	return b.Root == c || b.End() == c
}

// attach links carrier and beam in both directions.
func attach(c *Carrier, b *Beam) {
	c.carrying = b
	b.holder = c
}

// detach clears both sides of the carrier-beam link.
func detach(c *Carrier, b *Beam) {
	c.carrying = nil
	b.holder = nil
}
