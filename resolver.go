package main

import "math"

// Post-detection physical response. The pipeline never calls into this file;
// gameplay code decides from its collision callbacks whether a pair gets
// separated, knocked back or bounced.

// SeparationBuffer is added on top of the overlap when separating so the
// pair does not re-collide on the very next tick
const SeparationBuffer = 0.1

// Body is the minimal physical view of an entity the resolver works on.
// A non-positive mass is treated as 1.
type Body struct {
	X, Y   float64
	VX, VY float64
	Mass   float64
}

func (b *Body) effectiveMass() float64 {
	if b.Mass <= 0 {
		return 1
	}
	return b.Mass
}

// SeparateBodies pushes the two bodies of a collision apart along its
// normal. The total displacement is overlap plus the separation buffer,
// split inversely proportional to mass: the heavier body moves less.
func SeparateBodies(col Collision, a, b *Body) {
	ma := a.effectiveMass()
	mb := b.effectiveMass()
	SeparateBodiesRatio(col, a, b, mb/(ma+mb))
}

// SeparateBodiesRatio separates with an explicit split: ratioA of the total
// displacement goes to a (along the negated normal), the rest to b.
func SeparateBodiesRatio(col Collision, a, b *Body, ratioA float64) {
	ratioA = Clamp(ratioA, 0, 1)
	total := col.Overlap + SeparationBuffer

	a.X -= col.NormalX * total * ratioA
	a.Y -= col.NormalY * total * ratioA
	b.X += col.NormalX * total * (1 - ratioA)
	b.Y += col.NormalY * total * (1 - ratioA)
}

// ApplyKnockback adds an impulse along the given unit direction to the
// body's existing velocity. Heavier bodies are pushed less.
func ApplyKnockback(b *Body, dirX, dirY, force float64) {
	m := b.effectiveMass()
	b.VX += dirX * force / m
	b.VY += dirY * force / m
}

// ApplyKnockbackFromCollision knocks both bodies apart along the collision
// normal with equal and opposite impulses
func ApplyKnockbackFromCollision(col Collision, a, b *Body, force float64) {
	ApplyKnockback(a, -col.NormalX, -col.NormalY, force)
	ApplyKnockback(b, col.NormalX, col.NormalY, force)
}

// BounceBody reflects the velocity component along the surface normal,
// scaled by bounciness in [0, 1]. A no-op unless the body is moving into
// the surface, so separating contacts never double-bounce.
func BounceBody(b *Body, nx, ny, bounciness float64) {
	dot := b.VX*nx + b.VY*ny
	if dot >= 0 {
		return
	}
	bounciness = Clamp(bounciness, 0, 1)
	b.VX -= (1 + bounciness) * dot * nx
	b.VY -= (1 + bounciness) * dot * ny
}

// PushAwayFromPoint shoves the body directly away from a point. A body
// sitting exactly on the point gets a uniformly random direction instead of
// a zero vector. When minDistance > 0 the body's position is also clamped
// to at least that far from the point.
func PushAwayFromPoint(b *Body, px, py, force, minDistance float64) {
	dx := b.X - px
	dy := b.Y - py
	dist := math.Hypot(dx, dy)

	if dist == 0 {
		angle := randFloat() * 2 * math.Pi
		dx = math.Cos(angle)
		dy = math.Sin(angle)
	} else {
		dx /= dist
		dy /= dist
	}

	ApplyKnockback(b, dx, dy, force)

	if minDistance > 0 && dist < minDistance {
		b.X = px + dx*minDistance
		b.Y = py + dy*minDistance
	}
}
