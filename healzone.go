package main

const (
	HealZoneRadius   = 150.0
	HealZoneDuration = 5.0
	HealZoneRate     = 10.0 // HP/s healed to ships inside
	HealZoneCooldown = 18.0 // per-player drop cooldown
)

// HealZone is an area-of-effect heal dropped by Support ships. Ships inside
// are tracked through trigger enter/exit events rather than re-queried.
type HealZone struct {
	ID      string
	X, Y    float64
	Radius  float64
	OwnerID string
	Life    float64
	Rate    float64

	handle  int
	healAcc float64          // fractional HP carried between ticks
	inside  map[int]struct{} // collision handles of ships currently in the zone
}

// NewHealZone creates a heal zone at the given position
func NewHealZone(x, y float64, ownerID string) *HealZone {
	return &HealZone{
		ID:      GenerateID(4),
		X:       x,
		Y:       y,
		Radius:  HealZoneRadius,
		OwnerID: ownerID,
		Life:    HealZoneDuration,
		Rate:    HealZoneRate,
		inside:  make(map[int]struct{}),
	}
}

// Update ticks the heal zone lifetime, returns false when expired
func (hz *HealZone) Update(dt float64) bool {
	hz.Life -= dt
	return hz.Life > 0
}

// ToState converts to protocol state
func (hz *HealZone) ToState() ZoneState {
	return ZoneState{
		ID:   hz.ID,
		X:    round1(hz.X),
		Y:    round1(hz.Y),
		Rad:  hz.Radius,
		Life: round1(hz.Life),
	}
}
