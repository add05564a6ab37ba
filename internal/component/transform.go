package component

// Position is a cell coordinate on the window grid.
// Pure data, zero methods; all mutations happen in systems.
type Position struct {
	X int
	Y int
}

// Velocity is cells per second.
type Velocity struct {
	X float64
	Y float64
	// sub-cell remainder carried between frames
	AccX float64
	AccY float64
}
