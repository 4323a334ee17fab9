package main

import (
	"fmt"
	"math"
)

// ShapeKind discriminates collider shapes
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Shape is a tagged collision shape: a circle with a radius, or an
// axis-aligned rect with a width and height. Rotated rects are not supported.
type Shape struct {
	Kind   ShapeKind
	Radius float64 // circle only
	Width  float64 // rect only
	Height float64 // rect only
}

// CircleShape returns a circle shape with the given radius
func CircleShape(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// RectShape returns an axis-aligned rect shape with the given dimensions
func RectShape(width, height float64) Shape {
	return Shape{Kind: ShapeRect, Width: width, Height: height}
}

// Collider describes how an entity participates in collision detection.
// OffsetX/OffsetY shift the shape from the entity's origin. Layer is the
// category the entity belongs to, Mask the categories it wants to hit.
// Trigger colliders report overlap events but are never physically resolved.
type Collider struct {
	Shape   Shape
	OffsetX float64
	OffsetY float64
	Layer   uint32
	Mask    uint32
	Trigger bool
}

// Validate checks collider dimensions at registration time
func (c Collider) Validate() error {
	switch c.Shape.Kind {
	case ShapeCircle:
		if c.Shape.Radius <= 0 {
			return fmt.Errorf("circle collider radius must be positive, got %v", c.Shape.Radius)
		}
	case ShapeRect:
		if c.Shape.Width <= 0 || c.Shape.Height <= 0 {
			return fmt.Errorf("rect collider dimensions must be positive, got %vx%v", c.Shape.Width, c.Shape.Height)
		}
	default:
		return fmt.Errorf("unknown shape kind %d", c.Shape.Kind)
	}
	return nil
}

// BoundingRadius returns the radius of the smallest circle enclosing the
// shape. For rects that is half the diagonal.
func (c Collider) BoundingRadius() float64 {
	if c.Shape.Kind == ShapeRect {
		return math.Hypot(c.Shape.Width, c.Shape.Height) / 2
	}
	return c.Shape.Radius
}
