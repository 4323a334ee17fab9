package main

import "math"

// Collision describes one overlapping pair. A and B are canonically ordered
// (A < B), the normal is a unit vector pointing from A toward B, and Overlap
// is always positive: touching shapes do not collide.
type Collision struct {
	A, B               int
	Overlap            float64
	NormalX, NormalY   float64
	ContactX, ContactY float64
}

// CircleVsCircle tests two circles for overlap. Exactly coincident centers
// fall back to a +X normal so the caller never sees a zero-length normal.
func CircleVsCircle(ax, ay, ar, bx, by, br float64) (Collision, bool) {
	dx := bx - ax
	dy := by - ay
	sumR := ar + br
	dist2 := dx*dx + dy*dy
	if dist2 >= sumR*sumR {
		return Collision{}, false
	}

	dist := math.Sqrt(dist2)
	nx, ny := 1.0, 0.0
	if dist > 0 {
		nx = dx / dist
		ny = dy / dist
	}

	// contact at the midpoint of the penetration segment
	overlap := sumR - dist
	contactX := ax + nx*(ar-overlap/2)
	contactY := ay + ny*(ar-overlap/2)

	return Collision{
		Overlap:  overlap,
		NormalX:  nx,
		NormalY:  ny,
		ContactX: contactX,
		ContactY: contactY,
	}, true
}

// CircleVsRect tests a circle against an axis-aligned rect given by its
// center and half extents. When the circle center lies inside the rect the
// normal points toward the nearest edge; exact ties resolve in the fixed
// order left, right, top, bottom. That order is arbitrary but deterministic.
func CircleVsRect(cx, cy, cr, rx, ry, hw, hh float64) (Collision, bool) {
	// closest point on the rect via per-axis clamping
	px := Clamp(cx, rx-hw, rx+hw)
	py := Clamp(cy, ry-hh, ry+hh)

	dx := cx - px
	dy := cy - py
	dist2 := dx*dx + dy*dy

	if dist2 > 0 {
		if dist2 >= cr*cr {
			return Collision{}, false
		}
		dist := math.Sqrt(dist2)
		// normal points from the rect into the circle; flip so it runs
		// circle -> rect (A -> B with the circle as A)
		return Collision{
			Overlap:  cr - dist,
			NormalX:  -dx / dist,
			NormalY:  -dy / dist,
			ContactX: px,
			ContactY: py,
		}, true
	}

	// Center is inside the rect: push out through the nearest edge
	distLeft := cx - (rx - hw)
	distRight := (rx + hw) - cx
	distTop := cy - (ry - hh)
	distBottom := (ry + hh) - cy

	minDist := distLeft
	nx, ny := -1.0, 0.0
	if distRight < minDist {
		minDist = distRight
		nx, ny = 1.0, 0.0
	}
	if distTop < minDist {
		minDist = distTop
		nx, ny = 0.0, -1.0
	}
	if distBottom < minDist {
		minDist = distBottom
		nx, ny = 0.0, 1.0
	}

	// normal flipped to run circle -> rect
	return Collision{
		Overlap:  cr + minDist,
		NormalX:  -nx,
		NormalY:  -ny,
		ContactX: cx,
		ContactY: cy,
	}, true
}

// RectVsRect tests two axis-aligned rects given by centers and half extents.
// The axis with the smaller overlap becomes the separation axis (minimum
// translation vector); exact ties prefer X, again arbitrary but stable.
func RectVsRect(ax, ay, ahw, ahh, bx, by, bhw, bhh float64) (Collision, bool) {
	dx := bx - ax
	dy := by - ay
	overlapX := ahw + bhw - math.Abs(dx)
	if overlapX <= 0 {
		return Collision{}, false
	}
	overlapY := ahh + bhh - math.Abs(dy)
	if overlapY <= 0 {
		return Collision{}, false
	}

	var col Collision
	if overlapX <= overlapY {
		col.Overlap = overlapX
		if dx >= 0 {
			col.NormalX = 1
		} else {
			col.NormalX = -1
		}
	} else {
		col.Overlap = overlapY
		if dy >= 0 {
			col.NormalY = 1
		} else {
			col.NormalY = -1
		}
	}

	// contact at the center of the overlap region
	left := math.Max(ax-ahw, bx-bhw)
	right := math.Min(ax+ahw, bx+bhw)
	top := math.Max(ay-ahh, by-bhh)
	bottom := math.Min(ay+ahh, by+bhh)
	col.ContactX = (left + right) / 2
	col.ContactY = (top + bottom) / 2

	return col, true
}

// collideShapes dispatches to the narrow-phase test matching the two
// colliders' shapes. Positions are resolved world centers. The returned
// collision's normal always runs from the first shape toward the second.
func collideShapes(ax, ay float64, as Shape, bx, by float64, bs Shape) (Collision, bool) {
	switch {
	case as.Kind == ShapeCircle && bs.Kind == ShapeCircle:
		return CircleVsCircle(ax, ay, as.Radius, bx, by, bs.Radius)
	case as.Kind == ShapeCircle && bs.Kind == ShapeRect:
		return CircleVsRect(ax, ay, as.Radius, bx, by, bs.Width/2, bs.Height/2)
	case as.Kind == ShapeRect && bs.Kind == ShapeCircle:
		col, ok := CircleVsRect(bx, by, bs.Radius, ax, ay, as.Width/2, as.Height/2)
		if !ok {
			return Collision{}, false
		}
		col.NormalX = -col.NormalX
		col.NormalY = -col.NormalY
		return col, true
	default:
		return RectVsRect(ax, ay, as.Width/2, as.Height/2, bx, by, bs.Width/2, bs.Height/2)
	}
}
