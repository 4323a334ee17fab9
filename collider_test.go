package main

import (
	"math"
	"testing"
)

func TestColliderValidate(t *testing.T) {
	if err := (Collider{Shape: CircleShape(10)}).Validate(); err != nil {
		t.Errorf("valid circle rejected: %v", err)
	}
	if err := (Collider{Shape: RectShape(10, 20)}).Validate(); err != nil {
		t.Errorf("valid rect rejected: %v", err)
	}

	if err := (Collider{Shape: CircleShape(0)}).Validate(); err == nil {
		t.Error("zero-radius circle accepted")
	}
	if err := (Collider{Shape: CircleShape(-3)}).Validate(); err == nil {
		t.Error("negative-radius circle accepted")
	}
	if err := (Collider{Shape: RectShape(10, 0)}).Validate(); err == nil {
		t.Error("zero-height rect accepted")
	}
	if err := (Collider{Shape: Shape{Kind: ShapeKind(99), Radius: 5}}).Validate(); err == nil {
		t.Error("unknown shape kind accepted")
	}
}

func TestColliderBoundingRadius(t *testing.T) {
	c := Collider{Shape: CircleShape(12)}
	if c.BoundingRadius() != 12 {
		t.Errorf("circle bounding radius %v, want 12", c.BoundingRadius())
	}

	// Rect bounding radius is half the diagonal
	r := Collider{Shape: RectShape(6, 8)}
	if !almostEq(r.BoundingRadius(), 5) {
		t.Errorf("rect bounding radius %v, want 5", r.BoundingRadius())
	}

	sq := Collider{Shape: RectShape(10, 10)}
	want := 5 * math.Sqrt2
	if !almostEq(sq.BoundingRadius(), want) {
		t.Errorf("square bounding radius %v, want %v", sq.BoundingRadius(), want)
	}
}
