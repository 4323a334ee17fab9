package main

import (
	"log"
	"sync"
	"time"
)

// Event types for analytics tracking
const (
	EvtPlayerKill    = "player_kill"
	EvtPlayerDeath   = "player_death"
	EvtSessionCreate = "session_create"
	EvtSessionJoin   = "session_join"
)

// Event represents a single trackable event
type Event struct {
	Name      string
	PlayerID  int64
	SessionID string
	Data      string // JSON metadata (optional)
}

// CollisionMetrics aggregates collision pipeline telemetry across ticks
type CollisionMetrics struct {
	Ticks       uint64
	TotalChecks uint64
	PeakChecks  int
	Truncations uint64
}

// Analytics handles event tracking with batched background writes, plus
// in-memory collision telemetry sampled every tick
type Analytics struct {
	db     *DB
	events chan Event
	stop   chan struct{}
	wg     sync.WaitGroup

	mu      sync.RWMutex
	metrics CollisionMetrics
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan Event, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence (non-blocking)
func (a *Analytics) Track(name string, playerID int64, sessionID string, data string) {
	select {
	case a.events <- Event{
		Name:      name,
		PlayerID:  playerID,
		SessionID: sessionID,
		Data:      data,
	}:
	default:
		// Channel full — drop event rather than blocking game loop
	}
}

// ObserveTick records one collision tick's pair-check count and the running
// truncation total reported by the pipeline
func (a *Analytics) ObserveTick(checks int, truncations uint64) {
	a.mu.Lock()
	a.metrics.Ticks++
	a.metrics.TotalChecks += uint64(checks)
	if checks > a.metrics.PeakChecks {
		a.metrics.PeakChecks = checks
	}
	if truncations > a.metrics.Truncations {
		a.metrics.Truncations = truncations
	}
	a.mu.Unlock()
}

// Metrics returns a snapshot of collision telemetry
func (a *Analytics) Metrics() CollisionMetrics {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.metrics
}

// Stop gracefully shuts down the analytics writer
func (a *Analytics) Stop() {
	close(a.stop)
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]Event, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			// Flush immediately if batch is large
			if len(batch) >= 50 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			// Drain remaining events
			close(a.events)
			for evt := range a.events {
				batch = append(batch, evt)
			}
			if len(batch) > 0 {
				a.flush(batch)
			}
			return
		}
	}
}

// flush writes a batch of events and bumps persistent kill/death counters
// for authenticated players. DB work stays off the game loop.
func (a *Analytics) flush(events []Event) {
	if a.db == nil || len(events) == 0 {
		return
	}
	if err := a.db.InsertEvents(events); err != nil {
		log.Printf("analytics: insert error: %v", err)
		return
	}
	for _, evt := range events {
		if evt.PlayerID == 0 {
			continue
		}
		switch evt.Name {
		case EvtPlayerKill:
			if err := a.db.AddKill(evt.PlayerID); err != nil {
				log.Printf("analytics: kill counter: %v", err)
			}
		case EvtPlayerDeath:
			if err := a.db.AddDeath(evt.PlayerID); err != nil {
				log.Printf("analytics: death counter: %v", err)
			}
		}
	}
}

// DAUCount returns number of distinct players active today
func (a *Analytics) DAUCount() (int, error) {
	if a.db == nil {
		return 0, nil
	}
	var count int
	err := a.db.conn.QueryRow(`
		SELECT COUNT(DISTINCT player_id) FROM events
		WHERE player_id > 0 AND created_at >= date('now')
	`).Scan(&count)
	return count, err
}

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT event, COUNT(*) FROM events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			continue
		}
		result[name] = count
	}
	return result, rows.Err()
}
