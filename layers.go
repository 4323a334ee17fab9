package main

// Collision layers. An entity's Layer says what it is, its Mask says what
// it wants to be tested against; a pair is checked when either side's mask
// matches the other's layer.
const (
	LayerShip uint32 = 1 << iota
	LayerProjectile
	LayerAsteroid
	LayerPickup
	LayerZone
	LayerStation
)

func shipCollider(radius float64) Collider {
	return Collider{
		Shape: CircleShape(radius),
		Layer: LayerShip,
		Mask:  LayerShip | LayerProjectile | LayerAsteroid | LayerPickup | LayerZone | LayerStation,
	}
}

func projectileCollider() Collider {
	return Collider{
		Shape: CircleShape(ProjectileRadius),
		Layer: LayerProjectile,
		Mask:  LayerShip | LayerAsteroid | LayerStation,
	}
}

func asteroidCollider(radius float64) Collider {
	return Collider{
		Shape: CircleShape(radius),
		Layer: LayerAsteroid,
		Mask:  LayerShip | LayerProjectile | LayerAsteroid,
	}
}

func pickupCollider() Collider {
	return Collider{
		Shape:   CircleShape(PickupRadius),
		Layer:   LayerPickup,
		Mask:    LayerShip,
		Trigger: true,
	}
}

func zoneCollider(radius float64) Collider {
	return Collider{
		Shape:   CircleShape(radius),
		Layer:   LayerZone,
		Mask:    LayerShip,
		Trigger: true,
	}
}

func stationCollider(w, h float64) Collider {
	return Collider{
		Shape: RectShape(w, h),
		Layer: LayerStation,
		Mask:  LayerShip | LayerProjectile,
	}
}
