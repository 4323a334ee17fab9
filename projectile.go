package main

import "math"

const (
	ProjectileSpeed    = 800.0 // pixels/s
	ProjectileLifetime = 2.0   // seconds
	ProjectileRadius   = 4.0
	ProjectileOffset   = 30.0 // spawn distance from ship center
	ProjectileMass     = 0.1
	ProjectileKnock    = 60.0 // knockback impulse applied to the ship hit
)

// Projectile represents a laser projectile
type Projectile struct {
	Body
	ID       string
	OwnerID  string
	Rotation float64
	Life     float64
	Damage   int
	Alive    bool

	handle int
}

// NewProjectile creates a projectile from a player's position and facing direction
func NewProjectile(owner *Player) *Projectile {
	def := GetClassDef(owner.Class)
	vx := math.Cos(owner.Rotation) * ProjectileSpeed
	vy := math.Sin(owner.Rotation) * ProjectileSpeed
	return &Projectile{
		Body: Body{
			X:    owner.X + math.Cos(owner.Rotation)*ProjectileOffset,
			Y:    owner.Y + math.Sin(owner.Rotation)*ProjectileOffset,
			VX:   vx + owner.VX*0.3, // inherit some of ship velocity
			VY:   vy + owner.VY*0.3,
			Mass: ProjectileMass,
		},
		ID:       GenerateID(3),
		OwnerID:  owner.ID,
		Rotation: owner.Rotation,
		Life:     ProjectileLifetime,
		Damage:   def.ProjDamage,
		Alive:    true,
	}
}

// Update moves the projectile one tick
func (p *Projectile) Update(dt float64) {
	if !p.Alive {
		return
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Life -= dt

	// Wrap around world
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

	if p.Life <= 0 {
		p.Alive = false
	}
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:    p.ID,
		X:     round1(p.X),
		Y:     round1(p.Y),
		R:     round1(p.Rotation),
		Owner: p.OwnerID,
	}
}
