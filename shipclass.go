package main

// ShipClass identifies the class of ship
type ShipClass int

const (
	ClassFighter ShipClass = 0
	ClassTank    ShipClass = 1
	ClassScout   ShipClass = 2
	ClassSupport ShipClass = 3
)

// ShipClassDef holds the stats for a ship class. Mass feeds the collision
// resolver: heavier hulls get displaced and knocked back less.
type ShipClassDef struct {
	MaxHP      int
	Accel      float64
	MaxSpeed   float64
	BoostMul   float64
	FireCD     float64
	ProjDamage int
	Radius     float64
	TurnSpeed  float64
	Mass       float64
}

var ShipClasses = [4]ShipClassDef{
	// Fighter: balanced, standard stats
	{
		MaxHP: 100, Accel: 600, MaxSpeed: 350, BoostMul: 1.6,
		FireCD: 0.15, ProjDamage: 20, Radius: 20, TurnSpeed: 8.0, Mass: 1.0,
	},
	// Tank: slow, tanky, barely moved by impacts
	{
		MaxHP: 200, Accel: 350, MaxSpeed: 220, BoostMul: 1.4,
		FireCD: 0.4, ProjDamage: 15, Radius: 25, TurnSpeed: 6.0, Mass: 2.0,
	},
	// Scout: fast, fragile, flung around by anything it rams
	{
		MaxHP: 60, Accel: 800, MaxSpeed: 480, BoostMul: 1.8,
		FireCD: 0.1, ProjDamage: 12, Radius: 16, TurnSpeed: 10.0, Mass: 0.7,
	},
	// Support: medium stats, drops heal zones
	{
		MaxHP: 120, Accel: 500, MaxSpeed: 300, BoostMul: 1.5,
		FireCD: 0.2, ProjDamage: 15, Radius: 20, TurnSpeed: 8.0, Mass: 1.2,
	},
}

// GetClassDef returns the definition for a ship class
func GetClassDef(class ShipClass) ShipClassDef {
	if class < 0 || int(class) >= len(ShipClasses) {
		return ShipClasses[ClassFighter]
	}
	return ShipClasses[class]
}
