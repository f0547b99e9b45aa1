package albjbot

import (
	"sync"
	"time"
)

// DiscordStatus is the gateway connection state reported by /health
type DiscordStatus string

const (
	DiscordStatusInitializing    DiscordStatus = "initializing"
	DiscordStatusOnline          DiscordStatus = "online"
	DiscordStatusDisconnected    DiscordStatus = "disconnected"
	DiscordStatusLoginFailed     DiscordStatus = "login failed"
	DiscordStatusConnectionError DiscordStatus = "connection error"
	DiscordStatusUncaughtPanic   DiscordStatus = "error: uncaught exception"
	DiscordStatusDisabled        DiscordStatus = "disabled"
)

// Status is the process state shared between the gateway connection,
// the scheduler and the health server. It's safe for concurrent use.
type Status struct {
	mu              sync.RWMutex
	startedAt       time.Time
	environment     string
	mode            string
	discord         DiscordStatus
	lastError       string
	lastErrorAt     time.Time
	lastDailyUpdate time.Time
	now             func() time.Time
}

// StatusSnapshot is a point-in-time copy of Status
type StatusSnapshot struct {
	StartedAt       time.Time     `json:"started_at"`
	Environment     string        `json:"environment"`
	Mode            string        `json:"mode"`
	Discord         DiscordStatus `json:"discord_status"`
	LastError       string        `json:"last_error,omitempty"`
	LastErrorAt     *time.Time    `json:"last_error_at,omitempty"`
	LastDailyUpdate *time.Time    `json:"last_daily_update,omitempty"`
}

func NewStatus(environment, mode string, now func() time.Time) *Status {
	if now == nil {
		now = time.Now
	}
	s := &Status{
		startedAt:   now(),
		environment: environment,
		mode:        mode,
		discord:     DiscordStatusInitializing,
		now:         now,
	}
	if mode == ModeHealth {
		s.discord = DiscordStatusDisabled
	}
	return s
}

func (s *Status) SetDiscord(v DiscordStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discord = v
}

func (s *Status) Discord() DiscordStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discord
}

// RecordError sets the discord status and remembers the error message
func (s *Status) RecordError(v DiscordStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discord = v
	if err != nil {
		s.lastError = err.Error()
		s.lastErrorAt = s.now()
	}
}

func (s *Status) SetLastDailyUpdate(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDailyUpdate = t
}

func (s *Status) Environment() string {
	return s.environment
}

// Uptime is the time elapsed since the status was created
func (s *Status) Uptime() time.Duration {
	return s.now().Sub(s.startedAt)
}

func (s *Status) Now() time.Time {
	return s.now()
}

func (s *Status) Snapshot() StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := StatusSnapshot{
		StartedAt:   s.startedAt,
		Environment: s.environment,
		Mode:        s.mode,
		Discord:     s.discord,
		LastError:   s.lastError,
	}
	if !s.lastErrorAt.IsZero() {
		t := s.lastErrorAt
		snap.LastErrorAt = &t
	}
	if !s.lastDailyUpdate.IsZero() {
		t := s.lastDailyUpdate
		snap.LastDailyUpdate = &t
	}
	return snap
}
