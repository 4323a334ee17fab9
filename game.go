package main

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

const (
	maxProjectilesPerSession = 500
	maxPlayersPerSession     = 20
	maxAsteroids             = 24
	maxPickups               = 10
	asteroidSpawnEvery       = 4.0 // seconds
	pickupSpawnEvery         = 8.0

	ShipRamDamage    = 10
	ShipRamKnock     = 150.0
	DeathBlastRadius = 250.0
	DeathBlastForce  = 300.0
)

// Entity kinds for collision-handle dispatch
const (
	kindPlayer     byte = 'p'
	kindProjectile byte = 'r'
	kindAsteroid   byte = 'a'
	kindPickup     byte = 'k'
	kindZone       byte = 'z'
	kindStation    byte = 's'
)

// entityRef resolves a collision handle back to the owning entity. Exactly
// one pointer is set, matching kind.
type entityRef struct {
	kind     byte
	player   *Player
	proj     *Projectile
	asteroid *Asteroid
	pickup   *Pickup
	zone     *HealZone
	station  *Station
}

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game holds the state for one arena session. All simulation state,
// including the collision index and pipeline, is mutated only under mu
// inside the tick loop.
type Game struct {
	mu          sync.RWMutex
	cfg         Config
	players     map[string]*Player
	projectiles map[string]*Projectile
	asteroids   map[string]*Asteroid
	pickups     map[string]*Pickup
	zones       map[string]*HealZone
	stations    []*Station
	clients     map[string]Broadcaster // playerID -> client
	tick        uint64
	running     bool
	stop        chan struct{}
	nextShip    int

	index    *SpatialIndex
	pipeline *CollisionPipeline

	nextHandle int
	refs       map[int]entityRef
	poseBuf    []EntityPose

	asteroidT float64
	pickupT   float64

	analytics *Analytics
}

// NewGame creates a new Game wired to a fresh spatial index and pipeline
func NewGame(cfg Config, analytics *Analytics) *Game {
	g := &Game{
		cfg:         cfg,
		players:     make(map[string]*Player),
		projectiles: make(map[string]*Projectile),
		asteroids:   make(map[string]*Asteroid),
		pickups:     make(map[string]*Pickup),
		zones:       make(map[string]*HealZone),
		clients:     make(map[string]Broadcaster),
		stop:        make(chan struct{}),
		refs:        make(map[int]entityRef),
		analytics:   analytics,
		asteroidT:   asteroidSpawnEvery,
		pickupT:     pickupSpawnEvery,
	}
	g.index = NewSpatialIndex(cfg.CellSize)
	g.pipeline = NewCollisionPipeline(g.index, cfg.QueryPad, cfg.CheckBudget)
	g.pipeline.OnCollision(g.handleCollision)
	g.pipeline.OnTriggerEnter(g.handleTriggerEnter)
	g.pipeline.OnTriggerExit(g.handleTriggerExit)

	for i := 0; i < StationCount; i++ {
		st := NewStation(cfg.WorldWidth, cfg.WorldHeight)
		st.handle = g.attachCollider(entityRef{kind: kindStation, station: st}, stationCollider(st.Width, st.Height))
		g.stations = append(g.stations, st)
	}
	return g
}

// attachCollider allocates a collision handle for the entity and queues the
// collider for attachment. Returns 0 on invalid colliders.
func (g *Game) attachCollider(ref entityRef, c Collider) int {
	g.nextHandle++
	h := g.nextHandle
	if err := g.pipeline.Attach(h, c); err != nil {
		log.Printf("attach collider: %v", err)
		return 0
	}
	g.refs[h] = ref
	return h
}

// detachCollider queues collider removal and drops the handle mapping
func (g *Game) detachCollider(h int) {
	if h == 0 {
		return
	}
	g.pipeline.Detach(h)
	delete(g.refs, h)
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// AddPlayer adds a new player to the game
func (g *Game) AddPlayer(name string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= maxPlayersPerSession {
		return nil
	}

	id := GenerateID(4)
	class := ShipClass(g.nextShip % len(ShipClasses))
	g.nextShip++
	player := NewPlayer(id, name, class)
	player.handle = g.attachCollider(entityRef{kind: kindPlayer, player: player}, shipCollider(player.Radius()))
	g.players[id] = player
	return player
}

// RemovePlayer removes a player from the game
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok {
		g.detachCollider(p.handle)
	}
	delete(g.players, id)
	delete(g.clients, id)
}

// HasPlayer reports whether a player id is in the session
func (g *Game) HasPlayer(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.players[id]
	return ok
}

// SetClient associates a broadcaster with a player
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// HandleInput processes input from a player
func (g *Game) HandleInput(playerID string, input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return
	}
	// Only update target rotation when target is far enough from ship
	// to produce a stable angle (avoids flickering when idle on mobile)
	dx := input.MX - p.X
	dy := input.MY - p.Y
	if dx*dx+dy*dy > 25 { // > 5px distance
		p.TargetR = math.Atan2(dy, dx)
	}
	p.Firing = input.Fire
	p.Boosting = input.Boost
	p.AbilityHeld = input.Ability
	p.TargetX = input.MX
	p.TargetY = input.MY
	p.SlowThresh = Clamp(input.Thresh, 50, 400)
}

// PlayerCount returns the number of players
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.players)
}

// Collisions returns the blocking collisions found by the last tick
func (g *Game) Collisions() []Collision {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pipeline.Collisions()
}

// update runs one game tick
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	dt := 1.0 / float64(TickRate)
	g.tick++

	g.updatePlayers(dt)
	g.updateProjectiles(dt)
	g.updateAsteroids(dt)
	g.updatePickups(dt)
	g.updateZones(dt)

	g.stepCollisions()

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

func (g *Game) updatePlayers(dt float64) {
	for _, p := range g.players {
		wasAlive := p.Alive
		p.Update(dt)

		// Re-attach the collider after respawn; death detached it
		if p.Alive && !wasAlive && p.handle == 0 {
			p.handle = g.attachCollider(entityRef{kind: kindPlayer, player: p}, shipCollider(p.Radius()))
		}

		if p.CanFire() && len(g.projectiles) < maxProjectilesPerSession {
			proj := NewProjectile(p)
			proj.handle = g.attachCollider(entityRef{kind: kindProjectile, proj: proj}, projectileCollider())
			g.projectiles[proj.ID] = proj
			p.FireCD = GetClassDef(p.Class).FireCD
		}

		// Support ships drop heal zones
		if p.Alive && p.Class == ClassSupport && p.AbilityHeld && p.ZoneCD <= 0 {
			zone := NewHealZone(p.X, p.Y, p.ID)
			zone.handle = g.attachCollider(entityRef{kind: kindZone, zone: zone}, zoneCollider(zone.Radius))
			g.zones[zone.ID] = zone
			p.ZoneCD = HealZoneCooldown
		}
		if p.ZoneCD > 0 {
			p.ZoneCD -= dt
		}
	}
}

func (g *Game) updateProjectiles(dt float64) {
	for id, proj := range g.projectiles {
		proj.Update(dt)
		if !proj.Alive {
			g.detachCollider(proj.handle)
			delete(g.projectiles, id)
		}
	}
}

func (g *Game) updateAsteroids(dt float64) {
	g.asteroidT -= dt
	if g.asteroidT <= 0 && len(g.asteroids) < maxAsteroids {
		a := NewAsteroid(g.cfg.WorldWidth, g.cfg.WorldHeight)
		a.handle = g.attachCollider(entityRef{kind: kindAsteroid, asteroid: a}, asteroidCollider(a.Radius))
		g.asteroids[a.ID] = a
		g.asteroidT = asteroidSpawnEvery
	}

	for id, a := range g.asteroids {
		a.Update(dt)
		if !a.Alive {
			g.detachCollider(a.handle)
			delete(g.asteroids, id)
		}
	}
}

func (g *Game) updatePickups(dt float64) {
	g.pickupT -= dt
	if g.pickupT <= 0 && len(g.pickups) < maxPickups {
		pk := NewPickup(g.cfg.WorldWidth, g.cfg.WorldHeight)
		pk.handle = g.attachCollider(entityRef{kind: kindPickup, pickup: pk}, pickupCollider())
		g.pickups[pk.ID] = pk
		g.pickupT = pickupSpawnEvery
	}

	for id, pk := range g.pickups {
		pk.Update(dt)
		if !pk.Alive {
			g.detachCollider(pk.handle)
			delete(g.pickups, id)
		}
	}
}

func (g *Game) updateZones(dt float64) {
	for id, zone := range g.zones {
		if !zone.Update(dt) {
			g.detachCollider(zone.handle)
			delete(g.zones, id)
			continue
		}
		// Heal whole HP points as they accrue, shared by everyone inside
		zone.healAcc += zone.Rate * dt
		if zone.healAcc < 1 {
			continue
		}
		heal := int(zone.healAcc)
		zone.healAcc -= float64(heal)
		for h := range zone.inside {
			ref, ok := g.refs[h]
			if !ok || ref.kind != kindPlayer || !ref.player.Alive {
				continue
			}
			ref.player.HP += heal
			if ref.player.HP > ref.player.MaxHP {
				ref.player.HP = ref.player.MaxHP
			}
		}
	}
}

// stepCollisions pushes every live entity's pose into the pipeline and runs
// one detection tick. Collision and trigger callbacks fire synchronously
// from inside Step.
func (g *Game) stepCollisions() {
	g.poseBuf = g.poseBuf[:0]
	for _, p := range g.players {
		if p.Alive && p.handle != 0 {
			g.poseBuf = append(g.poseBuf, EntityPose{ID: p.handle, X: p.X, Y: p.Y})
		}
	}
	for _, proj := range g.projectiles {
		g.poseBuf = append(g.poseBuf, EntityPose{ID: proj.handle, X: proj.X, Y: proj.Y})
	}
	for _, a := range g.asteroids {
		g.poseBuf = append(g.poseBuf, EntityPose{ID: a.handle, X: a.X, Y: a.Y})
	}
	for _, pk := range g.pickups {
		g.poseBuf = append(g.poseBuf, EntityPose{ID: pk.handle, X: pk.X, Y: pk.Y})
	}
	for _, zone := range g.zones {
		g.poseBuf = append(g.poseBuf, EntityPose{ID: zone.handle, X: zone.X, Y: zone.Y})
	}
	for _, st := range g.stations {
		g.poseBuf = append(g.poseBuf, EntityPose{ID: st.handle, X: st.X, Y: st.Y})
	}

	g.pipeline.Step(g.poseBuf)

	if g.analytics != nil {
		g.analytics.ObserveTick(g.pipeline.ChecksUsed(), g.pipeline.Truncations())
	}
}

// handleCollision dispatches a blocking collision to the pair-specific
// response. The collision normal always points from A toward B.
func (g *Game) handleCollision(col Collision) {
	ra, okA := g.refs[col.A]
	rb, okB := g.refs[col.B]
	if !okA || !okB {
		return
	}

	switch {
	case ra.kind == kindPlayer && rb.kind == kindPlayer:
		g.shipShipCollision(col, ra.player, rb.player)

	case ra.kind == kindPlayer && rb.kind == kindProjectile:
		g.shipProjectileCollision(col, ra.player, rb.proj, true)
	case ra.kind == kindProjectile && rb.kind == kindPlayer:
		g.shipProjectileCollision(col, rb.player, ra.proj, false)

	case ra.kind == kindPlayer && rb.kind == kindAsteroid:
		g.shipAsteroidCollision(col, ra.player, rb.asteroid, true)
	case ra.kind == kindAsteroid && rb.kind == kindPlayer:
		g.shipAsteroidCollision(col, rb.player, ra.asteroid, false)

	case ra.kind == kindProjectile && rb.kind == kindAsteroid:
		g.killProjectile(ra.proj)
	case ra.kind == kindAsteroid && rb.kind == kindProjectile:
		g.killProjectile(rb.proj)

	case ra.kind == kindAsteroid && rb.kind == kindAsteroid:
		SeparateBodies(col, &ra.asteroid.Body, &rb.asteroid.Body)
		BounceBody(&ra.asteroid.Body, -col.NormalX, -col.NormalY, 1)
		BounceBody(&rb.asteroid.Body, col.NormalX, col.NormalY, 1)

	case ra.kind == kindPlayer && rb.kind == kindStation:
		g.shipStationCollision(col, ra.player, true)
	case ra.kind == kindStation && rb.kind == kindPlayer:
		g.shipStationCollision(col, rb.player, false)

	case ra.kind == kindProjectile && rb.kind == kindStation:
		g.killProjectile(ra.proj)
	case ra.kind == kindStation && rb.kind == kindProjectile:
		g.killProjectile(rb.proj)
	}
}

func (g *Game) shipShipCollision(col Collision, pa, pb *Player) {
	if !pa.Alive || !pb.Alive {
		return
	}
	SeparateBodies(col, &pa.Body, &pb.Body)
	ApplyKnockbackFromCollision(col, &pa.Body, &pb.Body, ShipRamKnock)

	if pa.TakeDamage(ShipRamDamage) {
		g.onPlayerDeath(pa, pb)
	}
	if pb.TakeDamage(ShipRamDamage) {
		g.onPlayerDeath(pb, pa)
	}
}

func (g *Game) shipProjectileCollision(col Collision, p *Player, proj *Projectile, shipIsA bool) {
	if !p.Alive || !proj.Alive || proj.OwnerID == p.ID {
		return
	}

	// Knock the ship along the normal, away from the projectile
	nx, ny := col.NormalX, col.NormalY
	if shipIsA {
		nx, ny = -nx, -ny
	}
	ApplyKnockback(&p.Body, nx, ny, ProjectileKnock)
	g.killProjectile(proj)

	if p.TakeDamage(proj.Damage) {
		killer := g.players[proj.OwnerID]
		if killer != nil {
			killer.Score++
			g.broadcastMsg(Envelope{T: MsgKill, Data: KillMsg{
				KillerID:   killer.ID,
				KillerName: killer.Name,
				VictimID:   p.ID,
				VictimName: p.Name,
			}})
			if g.analytics != nil {
				g.analytics.Track(EvtPlayerKill, killer.AuthPlayerID, "", "")
			}
		}
		g.onPlayerDeath(p, killer)
	}
}

func (g *Game) shipAsteroidCollision(col Collision, p *Player, a *Asteroid, shipIsA bool) {
	if !p.Alive {
		return
	}
	// Mass-weighted separation: the rock barely moves, the ship bounces off
	if shipIsA {
		SeparateBodies(col, &p.Body, &a.Body)
		BounceBody(&p.Body, -col.NormalX, -col.NormalY, AsteroidBounce)
	} else {
		SeparateBodies(col, &a.Body, &p.Body)
		BounceBody(&p.Body, col.NormalX, col.NormalY, AsteroidBounce)
	}

	if p.TakeDamage(AsteroidRamDamage) {
		g.onPlayerDeath(p, nil)
	}
}

func (g *Game) shipStationCollision(col Collision, p *Player, shipIsA bool) {
	if !p.Alive {
		return
	}
	// Stations never move: the ship absorbs the full displacement
	nx, ny := col.NormalX, col.NormalY
	var static Body
	if shipIsA {
		SeparateBodiesRatio(col, &p.Body, &static, 1)
		nx, ny = -nx, -ny
	} else {
		SeparateBodiesRatio(col, &static, &p.Body, 0)
	}
	BounceBody(&p.Body, nx, ny, StationBounce)

	if p.TakeDamage(StationRamDamage) {
		g.onPlayerDeath(p, nil)
	}
}

func (g *Game) killProjectile(proj *Projectile) {
	if !proj.Alive {
		return
	}
	proj.Alive = false
	g.detachCollider(proj.handle)
	proj.handle = 0
	delete(g.projectiles, proj.ID)
}

// onPlayerDeath detaches the dead ship and shoves nearby ships away from
// the blast point
func (g *Game) onPlayerDeath(p *Player, killer *Player) {
	g.detachCollider(p.handle)
	p.handle = 0

	for _, id := range g.index.QueryRadiusWithLayer(p.X, p.Y, DeathBlastRadius, LayerShip) {
		ref, ok := g.refs[id]
		if !ok || ref.kind != kindPlayer || ref.player == p || !ref.player.Alive {
			continue
		}
		falloff := 1 - Distance(p.X, p.Y, ref.player.X, ref.player.Y)/DeathBlastRadius
		if falloff <= 0 {
			continue
		}
		PushAwayFromPoint(&ref.player.Body, p.X, p.Y, DeathBlastForce*falloff, 0)
	}

	if client, ok := g.clients[p.ID]; ok {
		msg := DeathMsg{}
		if killer != nil {
			msg.KillerID = killer.ID
			msg.KillerName = killer.Name
		}
		client.SendJSON(Envelope{T: MsgDeath, Data: msg})
	}
	if g.analytics != nil {
		g.analytics.Track(EvtPlayerDeath, p.AuthPlayerID, "", "")
	}
}

// handleTriggerEnter fires the first tick a trigger pair overlaps
func (g *Game) handleTriggerEnter(a, b int) {
	ship, other, shipHandle := g.resolveTriggerPair(a, b)
	if ship == nil {
		return
	}
	switch other.kind {
	case kindPickup:
		pk := other.pickup
		if !pk.Alive || !ship.Alive {
			return
		}
		ship.HP += PickupHeal
		if ship.HP > ship.MaxHP {
			ship.HP = ship.MaxHP
		}
		pk.Alive = false
		g.detachCollider(pk.handle)
		delete(g.pickups, pk.ID)
	case kindZone:
		other.zone.inside[shipHandle] = struct{}{}
	}
}

// handleTriggerExit fires the first tick a trigger pair stops overlapping
func (g *Game) handleTriggerExit(a, b int) {
	ship, other, shipHandle := g.resolveTriggerPair(a, b)
	if ship == nil {
		return
	}
	if other.kind == kindZone {
		delete(other.zone.inside, shipHandle)
	}
}

// resolveTriggerPair splits a trigger pair into the ship side and the
// trigger side; both pickups and zones only ever pair against ships
func (g *Game) resolveTriggerPair(a, b int) (*Player, entityRef, int) {
	ra, okA := g.refs[a]
	rb, okB := g.refs[b]
	if !okA || !okB {
		return nil, entityRef{}, 0
	}
	if ra.kind == kindPlayer {
		return ra.player, rb, a
	}
	if rb.kind == kindPlayer {
		return rb.player, ra, b
	}
	return nil, entityRef{}, 0
}

// broadcastState sends the current game state to all clients as a msgpack
// binary frame
func (g *Game) broadcastState() {
	state := GameState{
		Players:     make([]PlayerState, 0, len(g.players)),
		Projectiles: make([]ProjectileState, 0, len(g.projectiles)),
		Asteroids:   make([]AsteroidState, 0, len(g.asteroids)),
		Pickups:     make([]PickupState, 0, len(g.pickups)),
		Zones:       make([]ZoneState, 0, len(g.zones)),
		Stations:    make([]StationState, 0, len(g.stations)),
		Tick:        g.tick,
	}

	for _, p := range g.players {
		state.Players = append(state.Players, p.ToState())
	}
	for _, proj := range g.projectiles {
		state.Projectiles = append(state.Projectiles, proj.ToState())
	}
	for _, a := range g.asteroids {
		state.Asteroids = append(state.Asteroids, a.ToState())
	}
	for _, pk := range g.pickups {
		state.Pickups = append(state.Pickups, pk.ToState())
	}
	for _, zone := range g.zones {
		state.Zones = append(state.Zones, zone.ToState())
	}
	for _, st := range g.stations {
		state.Stations = append(state.Stations, st.ToState())
	}

	data, err := msgpack.Marshal(state)
	if err != nil {
		return
	}

	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a JSON message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}
