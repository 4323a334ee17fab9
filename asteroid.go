package main

import "math"

const (
	AsteroidMinRadius = 30.0
	AsteroidMaxRadius = 50.0
	AsteroidMinSpeed  = 60.0
	AsteroidMaxSpeed  = 150.0
	AsteroidSpinMin   = 0.5
	AsteroidSpinMax   = 2.0
	AsteroidRamDamage = 25
	AsteroidBounce    = 0.6 // bounciness of ship-asteroid impacts
)

// Asteroid flies in a straight line across the map
type Asteroid struct {
	Body
	ID       string
	Radius   float64
	Rotation float64
	Spin     float64
	Alive    bool
	worldW   float64
	worldH   float64

	handle int
}

// NewAsteroid spawns an asteroid at a random edge heading inward. Mass
// scales with area so big rocks barely notice a scout ramming them.
func NewAsteroid(worldW, worldH float64) *Asteroid {
	if worldW == 0 {
		worldW = WorldWidth
	}
	if worldH == 0 {
		worldH = WorldHeight
	}
	radius := AsteroidMinRadius + randFloat()*(AsteroidMaxRadius-AsteroidMinRadius)
	a := &Asteroid{
		ID:     GenerateID(4),
		Radius: radius,
		Alive:  true,
		worldW: worldW,
		worldH: worldH,
	}
	a.Mass = radius * radius / 100

	speed := AsteroidMinSpeed + randFloat()*(AsteroidMaxSpeed-AsteroidMinSpeed)

	a.Spin = AsteroidSpinMin + randFloat()*(AsteroidSpinMax-AsteroidSpinMin)
	if randFloat() < 0.5 {
		a.Spin = -a.Spin
	}

	// Pick a random edge and aim at a point in the far half
	var targetX, targetY float64
	switch int(randFloat() * 4) {
	case 0: // left
		a.X = -radius
		a.Y = randFloat() * worldH
		targetX = worldW/2 + randFloat()*worldW/2
		targetY = randFloat() * worldH
	case 1: // right
		a.X = worldW + radius
		a.Y = randFloat() * worldH
		targetX = randFloat() * worldW / 2
		targetY = randFloat() * worldH
	case 2: // top
		a.X = randFloat() * worldW
		a.Y = -radius
		targetX = randFloat() * worldW
		targetY = worldH/2 + randFloat()*worldH/2
	default: // bottom
		a.X = randFloat() * worldW
		a.Y = worldH + radius
		targetX = randFloat() * worldW
		targetY = randFloat() * worldH / 2
	}
	angle := math.Atan2(targetY-a.Y, targetX-a.X)
	a.VX = math.Cos(angle) * speed
	a.VY = math.Sin(angle) * speed

	a.Rotation = randFloat() * math.Pi * 2
	return a
}

// Update moves the asteroid and checks if it's off-map
func (a *Asteroid) Update(dt float64) {
	if !a.Alive {
		return
	}

	a.X += a.VX * dt
	a.Y += a.VY * dt
	a.Rotation += a.Spin * dt

	// Mark dead if fully off-map (no wrapping)
	margin := a.Radius * 2
	if a.X < -margin || a.X > a.worldW+margin ||
		a.Y < -margin || a.Y > a.worldH+margin {
		a.Alive = false
	}
}

// ToState converts to protocol state
func (a *Asteroid) ToState() AsteroidState {
	return AsteroidState{
		ID: a.ID,
		X:  round1(a.X),
		Y:  round1(a.Y),
		R:  math.Round(a.Rotation*100) / 100,
	}
}
