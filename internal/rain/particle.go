package rain

// Particle is one falling glyph. Positions are free canvas coordinates, not
// grid cells; Y leaves the canvas on both edges while recycling.
type Particle struct {
	X, Y             float64
	Speed            float64
	Char             rune
	TicksUntilChange float64
	// Alpha is the per-particle opacity assigned at spawn.
	Alpha float64
}
