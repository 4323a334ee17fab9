package main

import "math"

const (
	PlayerFriction = 0.97 // velocity multiplier per tick
	FireCooldown   = 0.15 // seconds between shots
	RespawnTime    = 3.0  // seconds before respawn
	WorldWidth     = 4000.0
	WorldHeight    = 4000.0
)

// Player represents a player's ship
type Player struct {
	Body
	ID          string
	Name        string
	Class       ShipClass
	Rotation    float64
	HP          int
	MaxHP       int
	Score       int
	Alive       bool
	FireCD      float64 // fire cooldown remaining
	RespawnT    float64 // respawn timer remaining
	TargetR     float64 // target rotation (toward mouse)
	Firing      bool
	Boosting    bool
	AbilityHeld bool
	ZoneCD      float64 // heal zone drop cooldown remaining
	TargetX     float64 // mouse world X (for distance calc)
	TargetY     float64 // mouse world Y (for distance calc)
	SlowThresh  float64 // distance threshold for speed modulation

	handle       int   // collision handle
	AuthPlayerID int64 // linked account, 0 for guests
}

// NewPlayer creates a new player at a random position
func NewPlayer(id, name string, class ShipClass) *Player {
	def := GetClassDef(class)
	return &Player{
		Body: Body{
			X:    WorldWidth/4 + randFloat()*WorldWidth/2,
			Y:    WorldHeight/4 + randFloat()*WorldHeight/2,
			Mass: def.Mass,
		},
		ID:    id,
		Name:  name,
		Class: class,
		HP:    def.MaxHP,
		MaxHP: def.MaxHP,
		Alive: true,
	}
}

// Radius returns the hull radius for this player's class
func (p *Player) Radius() float64 {
	return GetClassDef(p.Class).Radius
}

// Update moves the player one tick (dt in seconds)
func (p *Player) Update(dt float64) {
	if !p.Alive {
		p.RespawnT -= dt
		if p.RespawnT <= 0 {
			p.Respawn()
		}
		return
	}

	def := GetClassDef(p.Class)

	// Rotate toward target
	diff := NormalizeAngle(p.TargetR - p.Rotation)
	maxTurn := def.TurnSpeed * dt
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	p.Rotation += diff

	// Accelerate in facing direction
	accel := def.Accel * dt
	if p.Boosting {
		accel *= def.BoostMul
	}

	// Distance-based speed modulation: slow down as pointer approaches ship
	dist := math.Hypot(p.TargetX-p.X, p.TargetY-p.Y)
	thresh := p.SlowThresh
	if thresh < 20 {
		thresh = 20
	}
	const deadZone = 50.0
	var speedFactor float64 = 1.0
	if dist <= deadZone {
		accel = 0
		speedFactor = 0
	} else if dist < thresh {
		speedFactor = (dist - deadZone) / (thresh - deadZone)
		accel *= speedFactor
	}

	p.VX += math.Cos(p.Rotation) * accel
	p.VY += math.Sin(p.Rotation) * accel

	// Heavy braking when the pointer is near the ship so it actually stops
	friction := PlayerFriction
	if speedFactor < 1.0 {
		friction = 0.95 + speedFactor*(PlayerFriction-0.95)
	}
	p.VX *= friction
	p.VY *= friction

	// Clamp speed
	maxSpd := def.MaxSpeed
	if p.Boosting {
		maxSpd *= def.BoostMul
	}
	speed := math.Hypot(p.VX, p.VY)
	if speed > maxSpd {
		scale := maxSpd / speed
		p.VX *= scale
		p.VY *= scale
	}

	// Move
	p.X += p.VX * dt
	p.Y += p.VY * dt

	// Wrap around world edges
	if p.X < 0 {
		p.X += WorldWidth
	} else if p.X > WorldWidth {
		p.X -= WorldWidth
	}
	if p.Y < 0 {
		p.Y += WorldHeight
	} else if p.Y > WorldHeight {
		p.Y -= WorldHeight
	}

	// Cooldown
	if p.FireCD > 0 {
		p.FireCD -= dt
	}
}

// Respawn resets the player after death
func (p *Player) Respawn() {
	p.X = WorldWidth/4 + randFloat()*WorldWidth/2
	p.Y = WorldHeight/4 + randFloat()*WorldHeight/2
	p.VX = 0
	p.VY = 0
	p.HP = p.MaxHP
	p.Alive = true
	p.FireCD = 0
	p.RespawnT = 0
}

// TakeDamage reduces HP and returns true if the player died
func (p *Player) TakeDamage(dmg int) bool {
	if !p.Alive {
		return false
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		p.RespawnT = RespawnTime
		return true
	}
	return false
}

// CanFire returns true if the player can fire a projectile
func (p *Player) CanFire() bool {
	return p.Alive && p.Firing && p.FireCD <= 0
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:    p.ID,
		Name:  p.Name,
		X:     round1(p.X),
		Y:     round1(p.Y),
		R:     round1(p.Rotation),
		VX:    round1(p.VX),
		VY:    round1(p.VY),
		HP:    p.HP,
		MaxHP: p.MaxHP,
		Ship:  int(p.Class),
		Score: p.Score,
		Alive: p.Alive,
		Boost: p.Boosting,
	}
}
