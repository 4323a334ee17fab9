package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin   = "join"
	MsgLeave  = "leave"
	MsgInput  = "input"
	MsgCreate = "create" // create session
	MsgList   = "list"   // list sessions
	MsgCheck  = "check"  // check if session exists

	MsgRegister = "register" // create account
	MsgLogin    = "login"    // password login
	MsgAuth     = "auth"     // token login
)

// Server -> Client message types
const (
	MsgState    = "state"
	MsgWelcome  = "welcome"
	MsgDeath    = "death"
	MsgKill     = "kill"
	MsgSessions = "sessions"
	MsgJoined   = "joined"
	MsgCreated  = "created" // session created, client should navigate
	MsgError    = "error"
	MsgChecked  = "checked" // session check response
	MsgAuthOK   = "auth_ok" // authentication succeeded
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is sent by the client at 20Hz
type ClientInput struct {
	MX      float64 `json:"mx"`      // pointer X (world coords)
	MY      float64 `json:"my"`      // pointer Y (world coords)
	Fire    bool    `json:"fire"`    // W key held
	Boost   bool    `json:"boost"`   // Shift key held
	Ability bool    `json:"ability"` // E key held (class ability)
	Thresh  float64 `json:"thresh"`  // distance threshold for speed modulation
}

// JoinMsg is sent when player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
}

// PlayerState is broadcast per player each tick
type PlayerState struct {
	ID    string  `json:"id"`
	Name  string  `json:"n"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`  // rotation radians
	VX    float64 `json:"vx"` // velocity X
	VY    float64 `json:"vy"` // velocity Y
	HP    int     `json:"hp"`
	MaxHP int     `json:"mhp"`
	Ship  int     `json:"s"` // ship class 0-3
	Score int     `json:"sc"`
	Alive bool    `json:"a"`
	Boost bool    `json:"b,omitempty"`
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
	Owner string  `json:"o"`
}

// AsteroidState is broadcast per asteroid
type AsteroidState struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	R  float64 `json:"r"`
}

// PickupState is broadcast per pickup
type PickupState struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// ZoneState is broadcast per heal zone
type ZoneState struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Rad  float64 `json:"rad"`
	Life float64 `json:"life"`
}

// StationState is broadcast per station; stations never move but clients
// learn their layout from the state stream rather than a separate handshake
type StationState struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

// GameState is the full state broadcast
type GameState struct {
	Players     []PlayerState     `json:"p"`
	Projectiles []ProjectileState `json:"pr"`
	Asteroids   []AsteroidState   `json:"a"`
	Pickups     []PickupState     `json:"pk"`
	Zones       []ZoneState       `json:"z"`
	Stations    []StationState    `json:"st"`
	Tick        uint64            `json:"tick"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID   string `json:"id"`
	Ship int    `json:"s"`
}

// DeathMsg notifies a player they died
type DeathMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
}

// KillMsg is broadcast to all players in session
type KillMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
	VictimID   string `json:"vid"`
	VictimName string `json:"vn"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// RegisterMsg creates a new account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg logs into an existing account
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg resumes a session with a stored token
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms authentication and carries the bearer token
type AuthOKMsg struct {
	Token    string `json:"tok"`
	Username string `json:"u"`
	PlayerID int64  `json:"pid"`
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}
