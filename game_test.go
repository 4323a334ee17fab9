package main

import (
	"math"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func newTestGame() *Game {
	return NewGame(DefaultServerConfig(), nil)
}

// parkPlayer pins a player at a position with no velocity and a pointer
// target on top of the ship, so movement code keeps it still
func parkPlayer(p *Player, x, y float64) {
	p.X = x
	p.Y = y
	p.VX = 0
	p.VY = 0
	p.TargetX = x
	p.TargetY = y
}

func TestGameAddRemovePlayer(t *testing.T) {
	g := newTestGame()

	p := g.AddPlayer("Alice")
	if p == nil {
		t.Fatal("AddPlayer returned nil")
	}
	if g.PlayerCount() != 1 {
		t.Errorf("expected 1 player, got %d", g.PlayerCount())
	}
	if p.handle == 0 {
		t.Error("player has no collision handle")
	}

	g.update()
	// Stations plus the player are tracked by the index
	if got := g.index.EntityCount(); got != StationCount+1 {
		t.Errorf("expected %d indexed entities, got %d", StationCount+1, got)
	}

	g.RemovePlayer(p.ID)
	if g.PlayerCount() != 0 {
		t.Errorf("expected 0 players after remove, got %d", g.PlayerCount())
	}
	g.update()
	if got := g.index.EntityCount(); got != StationCount {
		t.Errorf("expected only stations indexed, got %d", got)
	}
}

func TestGamePlayerCap(t *testing.T) {
	g := newTestGame()

	for i := 0; i < maxPlayersPerSession; i++ {
		if g.AddPlayer("p") == nil {
			t.Fatalf("player %d rejected below cap", i)
		}
	}
	if g.AddPlayer("overflow") != nil {
		t.Error("expected nil when session is full")
	}
}

func TestShipShipRam(t *testing.T) {
	g := newTestGame()

	pa := g.AddPlayer("A") // Fighter, r=20
	pb := g.AddPlayer("B") // Tank, r=25
	parkPlayer(pa, 300, 300)
	parkPlayer(pb, 310, 300)

	g.update()

	if pa.HP != pa.MaxHP-ShipRamDamage {
		t.Errorf("expected A at %d HP, got %d", pa.MaxHP-ShipRamDamage, pa.HP)
	}
	if pb.HP != pb.MaxHP-ShipRamDamage {
		t.Errorf("expected B at %d HP, got %d", pb.MaxHP-ShipRamDamage, pb.HP)
	}

	// Separation must leave the hulls clear of each other
	if d := Distance(pa.X, pa.Y, pb.X, pb.Y); d < pa.Radius()+pb.Radius() {
		t.Errorf("ships still overlapping after separation: dist %v", d)
	}

	// Knockback pushes them apart along the collision axis
	if pa.VX >= 0 || pb.VX <= 0 {
		t.Errorf("expected opposite knockback, got VX %v and %v", pa.VX, pb.VX)
	}

	// The heavier tank is displaced less than the fighter
	dispA := math.Abs(pa.X - 300)
	dispB := math.Abs(pb.X - 310)
	if dispA <= dispB {
		t.Errorf("expected lighter ship displaced more: fighter %v, tank %v", dispA, dispB)
	}
}

func TestShipProjectileHit(t *testing.T) {
	g := newTestGame()

	shooter := g.AddPlayer("shooter")
	target := g.AddPlayer("target")
	parkPlayer(shooter, 300, 300)
	parkPlayer(target, 450, 450)

	proj := NewProjectile(shooter)
	proj.X = target.X
	proj.Y = target.Y
	proj.VX = 0
	proj.VY = 0
	proj.handle = g.attachCollider(entityRef{kind: kindProjectile, proj: proj}, projectileCollider())
	g.projectiles[proj.ID] = proj

	g.update()

	if target.HP != target.MaxHP-proj.Damage {
		t.Errorf("expected target at %d HP, got %d", target.MaxHP-proj.Damage, target.HP)
	}
	if _, ok := g.projectiles[proj.ID]; ok {
		t.Error("projectile should be consumed on hit")
	}
	if target.VX == 0 && target.VY == 0 {
		t.Error("expected knockback on the ship hit")
	}
}

func TestProjectileOwnerImmune(t *testing.T) {
	g := newTestGame()

	shooter := g.AddPlayer("shooter")
	parkPlayer(shooter, 300, 300)

	proj := NewProjectile(shooter)
	proj.X = shooter.X
	proj.Y = shooter.Y
	proj.VX = 0
	proj.VY = 0
	proj.handle = g.attachCollider(entityRef{kind: kindProjectile, proj: proj}, projectileCollider())
	g.projectiles[proj.ID] = proj

	g.update()

	if shooter.HP != shooter.MaxHP {
		t.Errorf("shooter damaged by own projectile: %d HP", shooter.HP)
	}
	if _, ok := g.projectiles[proj.ID]; !ok {
		t.Error("projectile should pass through its owner")
	}
}

func TestShipAsteroidRam(t *testing.T) {
	g := newTestGame()

	p := g.AddPlayer("pilot")
	parkPlayer(p, 300, 300)

	a := NewAsteroid(g.cfg.WorldWidth, g.cfg.WorldHeight)
	a.X = p.X + 30
	a.Y = p.Y
	a.VX = 0
	a.VY = 0
	a.handle = g.attachCollider(entityRef{kind: kindAsteroid, asteroid: a}, asteroidCollider(a.Radius))
	g.asteroids[a.ID] = a

	g.update()

	if p.HP != p.MaxHP-AsteroidRamDamage {
		t.Errorf("expected %d HP after asteroid ram, got %d", p.MaxHP-AsteroidRamDamage, p.HP)
	}
	// The rock far outweighs the ship, so the ship takes most of the push
	if math.Abs(p.X-300) <= math.Abs(a.X-330) {
		t.Errorf("expected ship displaced more than asteroid: ship %v, rock %v", p.X-300, a.X-330)
	}
}

func TestPickupHeal(t *testing.T) {
	g := newTestGame()

	p := g.AddPlayer("pilot")
	parkPlayer(p, 300, 300)
	p.HP = 50

	pk := NewPickup(g.cfg.WorldWidth, g.cfg.WorldHeight)
	pk.X = p.X
	pk.Y = p.Y
	pk.handle = g.attachCollider(entityRef{kind: kindPickup, pickup: pk}, pickupCollider())
	g.pickups[pk.ID] = pk

	g.update()

	if p.HP != 50+PickupHeal {
		t.Errorf("expected %d HP after pickup, got %d", 50+PickupHeal, p.HP)
	}
	if _, ok := g.pickups[pk.ID]; ok {
		t.Error("pickup should be consumed")
	}
}

func TestPickupHealCapped(t *testing.T) {
	g := newTestGame()

	p := g.AddPlayer("pilot")
	parkPlayer(p, 300, 300)
	p.HP = p.MaxHP - 5

	pk := NewPickup(g.cfg.WorldWidth, g.cfg.WorldHeight)
	pk.X = p.X
	pk.Y = p.Y
	pk.handle = g.attachCollider(entityRef{kind: kindPickup, pickup: pk}, pickupCollider())
	g.pickups[pk.ID] = pk

	g.update()

	if p.HP != p.MaxHP {
		t.Errorf("heal must cap at max HP, got %d/%d", p.HP, p.MaxHP)
	}
}

func TestHealZoneMembership(t *testing.T) {
	g := newTestGame()

	p := g.AddPlayer("pilot")
	parkPlayer(p, 300, 300)
	p.HP = 50

	zone := NewHealZone(p.X, p.Y, "someone")
	zone.handle = g.attachCollider(entityRef{kind: kindZone, zone: zone}, zoneCollider(zone.Radius))
	g.zones[zone.ID] = zone

	// A second of ticks inside the zone
	for i := 0; i < TickRate; i++ {
		g.update()
		parkPlayer(p, 300, 300)
	}

	if _, ok := zone.inside[p.handle]; !ok {
		t.Error("player not tracked inside the zone")
	}
	healed := p.HP - 50
	if healed < int(HealZoneRate)-2 || healed > int(HealZoneRate)+2 {
		t.Errorf("expected roughly %v HP healed over a second, got %d", HealZoneRate, healed)
	}

	// Leaving the zone drops membership via the trigger exit
	parkPlayer(p, 2000, 2000)
	g.update()
	g.update()
	if _, ok := zone.inside[p.handle]; ok {
		t.Error("player still tracked after leaving the zone")
	}
}

func TestStationBlocksShip(t *testing.T) {
	g := newTestGame()

	p := g.AddPlayer("pilot")
	// Pin the stations so nothing else overlaps the contact point
	for i, st := range g.stations {
		st.X = 800 + float64(i)*1000
		st.Y = 3500
	}
	st := g.stations[0]
	// Park the ship centered on the station's right edge
	parkPlayer(p, st.X+st.Width/2, st.Y)

	g.update()

	if p.HP != p.MaxHP-StationRamDamage {
		t.Errorf("expected %d HP after station scrape, got %d", p.MaxHP-StationRamDamage, p.HP)
	}
	// The station never moves; the ship absorbs the full displacement
	if p.X <= st.X+st.Width/2 {
		t.Errorf("expected ship pushed out past the edge, at %v vs edge %v", p.X, st.X+st.Width/2)
	}
}

func TestDeathBlastPushesNeighbors(t *testing.T) {
	g := newTestGame()

	victim := g.AddPlayer("victim")
	rammer := g.AddPlayer("rammer")
	bystander := g.AddPlayer("bystander")

	parkPlayer(victim, 300, 300)
	parkPlayer(rammer, 310, 300)
	parkPlayer(bystander, 300, 450) // inside blast radius, clear of the crash
	victim.HP = 5

	g.update()

	if victim.Alive {
		t.Fatal("expected victim to die from ram damage")
	}
	if victim.handle != 0 {
		t.Error("dead ship must release its collision handle")
	}
	if bystander.VY <= 0 {
		t.Errorf("expected bystander shoved away from the blast, VY %v", bystander.VY)
	}
}

func TestDeadShipIgnoredThenRespawns(t *testing.T) {
	g := newTestGame()

	p := g.AddPlayer("pilot")
	other := g.AddPlayer("other")
	parkPlayer(p, 300, 300)
	parkPlayer(other, 500, 500)
	p.HP = 5
	p.TakeDamage(10)
	g.detachCollider(p.handle)
	p.handle = 0

	// Dead ships are not simulated for collisions
	parkPlayer(other, 300, 300)
	g.update()
	if other.HP != other.MaxHP {
		t.Errorf("collision with a dead ship dealt damage: %d HP", other.HP)
	}

	// After the respawn timer the ship comes back with a fresh collider
	p.RespawnT = 0.001
	g.update()
	if !p.Alive {
		t.Fatal("expected respawn")
	}
	if p.handle == 0 {
		t.Error("respawned ship has no collision handle")
	}
}

func TestSupportDropsHealZone(t *testing.T) {
	g := newTestGame()

	// Classes rotate: index 3 is Support
	var p *Player
	for i := 0; i < 4; i++ {
		p = g.AddPlayer("pilot")
	}
	if p.Class != ClassSupport {
		t.Fatalf("expected fourth player to be Support, got %v", p.Class)
	}
	parkPlayer(p, 300, 300)
	p.AbilityHeld = true

	g.update()

	if len(g.zones) != 1 {
		t.Fatalf("expected 1 heal zone, got %d", len(g.zones))
	}
	if p.ZoneCD <= 0 {
		t.Error("expected drop cooldown armed")
	}

	// Holding the key does not spam zones while on cooldown
	g.update()
	if len(g.zones) != 1 {
		t.Errorf("zone dropped while on cooldown, got %d", len(g.zones))
	}
}

type captureClient struct {
	jsonMsgs []interface{}
	binMsgs  [][]byte
}

func (c *captureClient) SendJSON(msg interface{}) { c.jsonMsgs = append(c.jsonMsgs, msg) }
func (c *captureClient) SendBinary(data []byte)   { c.binMsgs = append(c.binMsgs, data) }

func TestBroadcastState(t *testing.T) {
	g := newTestGame()

	p := g.AddPlayer("pilot")
	parkPlayer(p, 300, 300)
	client := &captureClient{}
	g.SetClient(p.ID, client)

	for i := 0; i < BroadcastEvery; i++ {
		g.update()
	}

	if len(client.binMsgs) != 1 {
		t.Fatalf("expected 1 state broadcast, got %d", len(client.binMsgs))
	}

	var state GameState
	if err := msgpack.Unmarshal(client.binMsgs[0], &state); err != nil {
		t.Fatalf("state frame is not valid msgpack: %v", err)
	}
	if len(state.Players) != 1 {
		t.Errorf("expected 1 player in state, got %d", len(state.Players))
	}
	if len(state.Stations) != StationCount {
		t.Errorf("expected %d stations in state, got %d", StationCount, len(state.Stations))
	}
	if state.Players[0].Name != "pilot" {
		t.Errorf("wrong player name in state: %q", state.Players[0].Name)
	}
}

func TestGameCollisionsSnapshot(t *testing.T) {
	g := newTestGame()

	pa := g.AddPlayer("A")
	pb := g.AddPlayer("B")
	parkPlayer(pa, 300, 300)
	parkPlayer(pb, 305, 300)

	g.update()

	cols := g.Collisions()
	if len(cols) == 0 {
		t.Fatal("expected the ram collision in the snapshot")
	}
	found := false
	for _, col := range cols {
		if (col.A == pa.handle && col.B == pb.handle) || (col.A == pb.handle && col.B == pa.handle) {
			found = true
		}
	}
	if !found {
		t.Error("snapshot missing the ship pair")
	}
}
