package main

const (
	StationCount     = 3
	StationMinSize   = 120.0
	StationMaxSize   = 260.0
	StationRamDamage = 10
	StationBounce    = 0.4
)

// Station is a static derelict structure ships crash into and projectiles
// splash against. The only axis-aligned rect colliders in the arena.
type Station struct {
	ID            string
	X, Y          float64
	Width, Height float64

	handle int
}

// NewStation places a station at a random spot away from the world edges
func NewStation(worldW, worldH float64) *Station {
	return &Station{
		ID:     GenerateID(4),
		X:      worldW*0.2 + randFloat()*worldW*0.6,
		Y:      worldH*0.2 + randFloat()*worldH*0.6,
		Width:  StationMinSize + randFloat()*(StationMaxSize-StationMinSize),
		Height: StationMinSize + randFloat()*(StationMaxSize-StationMinSize),
	}
}

// ToState converts to protocol state
func (s *Station) ToState() StationState {
	return StationState{
		ID: s.ID,
		X:  round1(s.X),
		Y:  round1(s.Y),
		W:  round1(s.Width),
		H:  round1(s.Height),
	}
}
