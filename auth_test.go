package main

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("alice", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatal("register returned empty id or token")
	}

	// The fresh token validates back to the same account
	gotID, gotName, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if gotID != id || gotName != "alice" {
		t.Errorf("token maps to (%d,%q), want (%d,%q)", gotID, gotName, id, "alice")
	}

	// Password login works and wrong password does not
	loginID, _, err := auth.Login("alice", "hunter2", "1.2.3.4")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loginID != id {
		t.Errorf("login returned id %d, want %d", loginID, id)
	}
	if _, _, err := auth.Login("alice", "wrong", "1.2.3.4"); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, _, err := auth.Login("nobody", "hunter2", "1.2.3.4"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, _, err := auth.Register("a", "hunter2"); err == nil {
		t.Error("expected error for too-short username")
	}
	if _, _, err := auth.Register("alice", "abc"); err == nil {
		t.Error("expected error for too-short password")
	}

	if _, _, err := auth.Register("alice", "hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := auth.Register("alice", "other-pass"); err == nil {
		t.Error("expected error for duplicate username")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, _, err := auth.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}

	// A token minted under a different secret must not validate
	otherDB := openTestDB(t)
	other := NewAuth(otherDB)
	_, token, err := other.Register("bob", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := auth.ValidateToken(token); err == nil {
		t.Error("expected error for token signed with foreign secret")
	}
}

func TestJWTSecretPersists(t *testing.T) {
	db := openTestDB(t)

	auth1 := NewAuth(db)
	_, token, err := auth1.Register("alice", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// A second Auth over the same database shares the persisted secret
	auth2 := NewAuth(db)
	if _, _, err := auth2.ValidateToken(token); err != nil {
		t.Errorf("token does not survive auth restart: %v", err)
	}
}

func TestLoginRateLimit(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, _, err := auth.Register("alice", "hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < maxLoginAttempts; i++ {
		auth.Login("alice", "wrong", "9.9.9.9")
	}
	if _, _, err := auth.Login("alice", "hunter2", "9.9.9.9"); err == nil {
		t.Error("expected rate limit to block the hammered IP")
	}
	// A different IP is unaffected
	if _, _, err := auth.Login("alice", "hunter2", "8.8.8.8"); err != nil {
		t.Errorf("unrelated IP blocked: %v", err)
	}
}
