package main

import (
	"log"
	"sort"
)

// EntityPose is the per-tick position snapshot the host pushes for each
// collidable entity
type EntityPose struct {
	ID   int
	X, Y float64
}

// CollisionHandler receives blocking collisions the tick they are found
type CollisionHandler func(Collision)

// TriggerHandler receives trigger enter/exit pair events
type TriggerHandler func(a, b int)

// pairKey builds a symmetric key for an id pair; ids are already ordered a < b
func pairKey(a, b int) int64 {
	return int64(a)<<32 | int64(b)
}

// CollisionPipeline runs the per-tick detection sequence: apply queued
// attach/detach, push poses into the spatial index, gather candidates,
// filter by layer, run the narrow phase, classify trigger vs blocking and
// dispatch callbacks. Everything happens synchronously inside Step; the
// pipeline never resolves collisions itself.
type CollisionPipeline struct {
	index *SpatialIndex

	colliders map[int]Collider
	poses     map[int]EntityPose // last pushed world-space pose per entity

	pendingAttach []attachReq
	pendingDetach []int

	collisionHandlers []CollisionHandler
	enterHandlers     []TriggerHandler
	exitHandlers      []TriggerHandler

	collisions  []Collision
	activeTrig  map[int64]struct{}
	prevTrig    map[int64]struct{}
	trigPairBuf []int64
	idBuf       []int
	candBuf     []int

	queryPad    float64 // bounds the largest counterpart radius
	checkBudget int     // pair checks per tick, 0 = unlimited
	checksUsed  int
	truncations uint64 // ticks that hit the budget, for telemetry
}

type attachReq struct {
	id       int
	collider Collider
}

// NewCollisionPipeline creates a pipeline over the given index
func NewCollisionPipeline(index *SpatialIndex, queryPad float64, checkBudget int) *CollisionPipeline {
	return &CollisionPipeline{
		index:       index,
		colliders:   make(map[int]Collider),
		poses:       make(map[int]EntityPose),
		activeTrig:  make(map[int64]struct{}),
		prevTrig:    make(map[int64]struct{}),
		queryPad:    queryPad,
		checkBudget: checkBudget,
	}
}

// Attach queues a collider for the entity; applied at the start of the next
// Step. The descriptor is validated now so bad shapes fail at registration.
func (cp *CollisionPipeline) Attach(id int, c Collider) error {
	if err := c.Validate(); err != nil {
		return err
	}
	cp.pendingAttach = append(cp.pendingAttach, attachReq{id: id, collider: c})
	return nil
}

// Detach queues removal of the entity's collider
func (cp *CollisionPipeline) Detach(id int) {
	cp.pendingDetach = append(cp.pendingDetach, id)
}

// OnCollision registers a blocking-collision callback. Callbacks run
// synchronously inside Step, in registration order.
func (cp *CollisionPipeline) OnCollision(fn CollisionHandler) {
	cp.collisionHandlers = append(cp.collisionHandlers, fn)
}

// OnTriggerEnter registers a callback for the first tick a trigger pair overlaps
func (cp *CollisionPipeline) OnTriggerEnter(fn TriggerHandler) {
	cp.enterHandlers = append(cp.enterHandlers, fn)
}

// OnTriggerExit registers a callback for the first tick a pair stops overlapping
func (cp *CollisionPipeline) OnTriggerExit(fn TriggerHandler) {
	cp.exitHandlers = append(cp.exitHandlers, fn)
}

// Collisions returns the current tick's blocking collisions. The slice is
// reused next tick; copy to retain.
func (cp *CollisionPipeline) Collisions() []Collision {
	return cp.collisions
}

// ChecksUsed returns the pair checks consumed by the last Step
func (cp *CollisionPipeline) ChecksUsed() int {
	return cp.checksUsed
}

// Truncations returns how many ticks have hit the check budget
func (cp *CollisionPipeline) Truncations() uint64 {
	return cp.truncations
}

// Index exposes the underlying spatial index for read-only queries by other
// systems (area effects, AI targeting). Do not mutate it outside Step.
func (cp *CollisionPipeline) Index() *SpatialIndex {
	return cp.index
}

// Step runs one tick of detection over the pushed poses. Entities with no
// queued pose keep their previous one; entities without a collider are
// skipped. Work past the check budget is dropped for this tick, not queued:
// positions are re-read live next tick, so skipped pairs are simply found
// one tick late under sustained overload.
func (cp *CollisionPipeline) Step(poses []EntityPose) {
	cp.applyPending()

	// Push current poses into the index
	for _, p := range poses {
		c, ok := cp.colliders[p.ID]
		if !ok {
			continue
		}
		wx := p.X + c.OffsetX
		wy := p.Y + c.OffsetY
		cp.poses[p.ID] = EntityPose{ID: p.ID, X: wx, Y: wy}
		cp.index.Update(p.ID, wx, wy, c.BoundingRadius(), c.Layer)
	}

	cp.collisions = cp.collisions[:0]
	cp.checksUsed = 0
	budgetHit := false

	// iterate in id order so budget truncation cuts the same pairs every tick
	cp.idBuf = cp.idBuf[:0]
	for id := range cp.poses {
		cp.idBuf = append(cp.idBuf, id)
	}
	sort.Ints(cp.idBuf)

	for _, id := range cp.idBuf {
		pose := cp.poses[id]
		c := cp.colliders[id]
		// copy the candidates: callbacks may run their own index queries,
		// and the index reuses its result buffer
		candidates := cp.index.QueryRadius(pose.X, pose.Y, c.BoundingRadius()+cp.queryPad)
		cp.candBuf = append(cp.candBuf[:0], candidates...)
		for _, other := range cp.candBuf {
			if id >= other {
				continue
			}
			if cp.checkBudget > 0 && cp.checksUsed >= cp.checkBudget {
				budgetHit = true
				break
			}
			cp.checksUsed++
			cp.checkPair(id, other)
		}
		if budgetHit {
			break
		}
	}

	if budgetHit {
		cp.truncations++
		log.Printf("collision check budget (%d) exhausted, deferring remaining pairs to next tick", cp.checkBudget)
	}

	cp.flushTriggerExits()
}

func (cp *CollisionPipeline) applyPending() {
	for _, req := range cp.pendingAttach {
		cp.colliders[req.id] = req.collider
	}
	cp.pendingAttach = cp.pendingAttach[:0]

	for _, id := range cp.pendingDetach {
		delete(cp.colliders, id)
		delete(cp.poses, id)
		cp.index.Remove(id)
	}
	cp.pendingDetach = cp.pendingDetach[:0]
}

func (cp *CollisionPipeline) checkPair(a, b int) {
	ca, ok := cp.colliders[a]
	if !ok {
		return
	}
	cb, ok := cp.colliders[b]
	if !ok {
		return
	}
	pa, ok := cp.poses[a]
	if !ok {
		return
	}
	pb, ok := cp.poses[b]
	if !ok {
		return
	}

	// layer compatibility: either side wanting the other is enough
	if ca.Layer&cb.Mask == 0 && cb.Layer&ca.Mask == 0 {
		return
	}

	col, hit := collideShapes(pa.X, pa.Y, ca.Shape, pb.X, pb.Y, cb.Shape)
	if !hit {
		return
	}
	col.A = a
	col.B = b

	if ca.Trigger || cb.Trigger {
		key := pairKey(a, b)
		cp.activeTrig[key] = struct{}{}
		if _, was := cp.prevTrig[key]; !was {
			for _, fn := range cp.enterHandlers {
				fn(a, b)
			}
		}
		return
	}

	cp.collisions = append(cp.collisions, col)
	for _, fn := range cp.collisionHandlers {
		fn(col)
	}
}

// flushTriggerExits fires exit events for pairs active last tick but not
// seen this tick, then swaps the active sets
func (cp *CollisionPipeline) flushTriggerExits() {
	cp.trigPairBuf = cp.trigPairBuf[:0]
	for key := range cp.prevTrig {
		if _, still := cp.activeTrig[key]; !still {
			cp.trigPairBuf = append(cp.trigPairBuf, key)
		}
	}
	for _, key := range cp.trigPairBuf {
		a := int(key >> 32)
		b := int(key & 0xffffffff)
		for _, fn := range cp.exitHandlers {
			fn(a, b)
		}
	}

	cp.prevTrig, cp.activeTrig = cp.activeTrig, cp.prevTrig
	clear(cp.activeTrig)
}
