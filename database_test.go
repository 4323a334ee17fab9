package main

import "testing"

func TestCreatePlayerAndStats(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreatePlayer("alice", "hash")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	// A fresh stats row exists alongside the account
	stats, err := db.GetStats(id)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats == nil {
		t.Fatal("expected stats row for new player")
	}
	if stats.Kills != 0 || stats.Deaths != 0 {
		t.Errorf("new player stats not zeroed: %+v", stats)
	}

	exists, err := db.UsernameExists("alice")
	if err != nil || !exists {
		t.Errorf("expected username to exist, got %v %v", exists, err)
	}
	exists, _ = db.UsernameExists("bob")
	if exists {
		t.Error("unknown username reported as existing")
	}

	p, err := db.GetPlayerByUsername("alice")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if p == nil || p.ID != id || p.PassHash != "hash" {
		t.Errorf("wrong player row: %+v", p)
	}

	// Unknown lookups return nil, not an error
	p, err = db.GetPlayerByUsername("bob")
	if err != nil || p != nil {
		t.Errorf("expected (nil,nil) for unknown player, got %v %v", p, err)
	}
}

func TestKillDeathCounters(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreatePlayer("alice", "")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := db.AddKill(id); err != nil {
			t.Fatalf("add kill: %v", err)
		}
	}
	if err := db.AddDeath(id); err != nil {
		t.Fatalf("add death: %v", err)
	}

	stats, err := db.GetStats(id)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.Kills != 3 || stats.Deaths != 1 {
		t.Errorf("expected 3 kills 1 death, got %d/%d", stats.Kills, stats.Deaths)
	}
}

func TestLeaderboardOrder(t *testing.T) {
	db := openTestDB(t)

	ida, _ := db.CreatePlayer("alice", "")
	idb, _ := db.CreatePlayer("bob", "")
	db.CreatePlayer("carol", "")

	db.AddKill(ida)
	for i := 0; i < 5; i++ {
		db.AddKill(idb)
	}

	entries, err := db.GetLeaderboard(10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Username != "bob" || entries[0].Kills != 5 {
		t.Errorf("expected bob on top with 5 kills, got %+v", entries[0])
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Errorf("ranks not sequential: %+v", entries)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if got := db.GetSetting("missing"); got != "" {
		t.Errorf("expected empty string for missing key, got %q", got)
	}

	if err := db.SetSetting("jwt_secret", "aabbcc"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if got := db.GetSetting("jwt_secret"); got != "aabbcc" {
		t.Errorf("expected aabbcc, got %q", got)
	}

	// Overwrite
	if err := db.SetSetting("jwt_secret", "ddeeff"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}
	if got := db.GetSetting("jwt_secret"); got != "ddeeff" {
		t.Errorf("expected ddeeff after overwrite, got %q", got)
	}
}

func TestInsertEvents(t *testing.T) {
	db := openTestDB(t)

	events := []Event{
		{Name: EvtPlayerKill, PlayerID: 1, SessionID: "s1"},
		{Name: EvtPlayerKill, PlayerID: 2, SessionID: "s1"},
		{Name: EvtPlayerDeath, PlayerID: 1, SessionID: "s1"},
	}
	if err := db.InsertEvents(events); err != nil {
		t.Fatalf("insert events: %v", err)
	}

	a := &Analytics{db: db}
	counts, err := a.EventCounts(1)
	if err != nil {
		t.Fatalf("event counts: %v", err)
	}
	if counts[EvtPlayerKill] != 2 || counts[EvtPlayerDeath] != 1 {
		t.Errorf("wrong event counts: %v", counts)
	}
}
