// Package guard implements the admin access gate: an identity check followed
// by a 4-digit PIN state machine with escalating, persisted lockouts.
package guard

import (
	"log/slog"
	"sync"
	"time"

	"promptvault/internal/apperr"
	"promptvault/internal/checksum"
)

// PIN length required before evaluation.
const pinLength = 4

// Lockout durations by consecutive failure count.
const (
	firstLockout  = 5 * time.Second
	secondLockout = 10 * time.Second
	longLockout   = time.Hour
)

// State of the PIN machine.
type State int

const (
	// Idle accepts digit input, 0-3 digits buffered.
	Idle State = iota
	// Success is terminal for the session; the success callback has fired.
	Success
	// Locked rejects all digit input until the persisted expiry passes.
	Locked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Success:
		return "success"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Record is the persisted lockout record. LockedUntil is an absolute unix
// millisecond timestamp so a restart does not reset a running lockout. The
// failure counter outlives lock expiry — only a successful PIN entry clears it.
type Record struct {
	FailedAttempts int   `json:"failedAttempts"`
	LockedUntil    int64 `json:"lockedUntil"`
}

// RecordStore persists the lockout record outside the main state blob.
type RecordStore interface {
	LoadGuardRecord() (Record, error)
	SaveGuardRecord(Record) error
	ClearGuardRecord() error
}

// Status is a point-in-time snapshot of the machine.
type Status struct {
	State      State
	Entered    int           // digits currently buffered
	RetryAfter time.Duration // remaining lockout, zero unless Locked
}

// PinGuard is the 4-digit PIN state machine. Safe for concurrent use.
type PinGuard struct {
	mu        sync.Mutex
	records   RecordStore
	pinHash   func() string // current stored PIN hash
	onSuccess func()

	buffer string
	state  State
	rec    Record
	now    func() time.Time
}

// NewPinGuard builds a guard over the persisted record store. pinHash must
// return the currently stored PIN hash; onSuccess (optional) fires once per
// successful entry. A lockout recorded before a restart is picked up here.
func NewPinGuard(records RecordStore, pinHash func() string, onSuccess func()) *PinGuard {
	g := &PinGuard{
		records:   records,
		pinHash:   pinHash,
		onSuccess: onSuccess,
		state:     Idle,
		now:       time.Now,
	}
	rec, err := records.LoadGuardRecord()
	if err != nil {
		slog.Warn("guard record load failed", slog.String("error", err.Error()))
	}
	g.rec = rec
	if rec.LockedUntil > g.now().UnixMilli() {
		g.state = Locked
	}
	return g
}

// Press feeds one digit ('0'-'9'). Input is only accepted in Idle with fewer
// than four digits buffered; the fourth digit triggers evaluation. Returns
// the resulting status and apperr.ErrLocked while a lockout is active, or
// apperr.ErrInvalidCredentials when an evaluation just failed.
func (g *PinGuard) Press(digit byte) (Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tickLocked()

	switch g.state {
	case Locked:
		return g.statusLocked(), apperr.ErrLocked
	case Success:
		return g.statusLocked(), nil
	}

	if digit < '0' || digit > '9' {
		return g.statusLocked(), apperr.ErrInvalidCredentials
	}
	if len(g.buffer) >= pinLength {
		return g.statusLocked(), nil
	}
	g.buffer += string(digit)
	if len(g.buffer) < pinLength {
		return g.statusLocked(), nil
	}
	return g.evaluateLocked()
}

// Erase drops the last buffered digit. No-op outside Idle.
func (g *PinGuard) Erase() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tickLocked()
	if g.state == Idle && len(g.buffer) > 0 {
		g.buffer = g.buffer[:len(g.buffer)-1]
	}
}

// Reset returns the machine to Idle with an empty buffer after a Success, so
// the same guard can serve the next admin session. Lockout state is untouched.
func (g *PinGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Success {
		g.state = Idle
		g.buffer = ""
	}
}

// Status reports the current state, expiring a finished lockout first.
func (g *PinGuard) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tickLocked()
	return g.statusLocked()
}

// Tick re-checks the lockout expiry. Driven at ~1 Hz by the entrypoint; also
// runs lazily before every operation, so a missed tick never extends a lock.
func (g *PinGuard) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tickLocked()
}

// SetClock overrides the time source. Test hook.
func (g *PinGuard) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// tickLocked transitions Locked back to Idle once the persisted expiry has
// passed. The failure counter deliberately survives expiry.
func (g *PinGuard) tickLocked() {
	if g.state != Locked {
		return
	}
	if g.rec.LockedUntil > g.now().UnixMilli() {
		return
	}
	g.rec.LockedUntil = 0
	if err := g.records.SaveGuardRecord(g.rec); err != nil {
		slog.Warn("guard record save failed", slog.String("error", err.Error()))
	}
	g.buffer = ""
	g.state = Idle
}

// evaluateLocked hashes the buffered digits and compares against the stored
// PIN hash. Plaintext never leaves the buffer and the buffer is always
// cleared before returning.
func (g *PinGuard) evaluateLocked() (Status, error) {
	entered := checksum.SumString(g.buffer)
	g.buffer = ""

	if entered == g.pinHash() {
		g.state = Success
		g.rec = Record{}
		if err := g.records.ClearGuardRecord(); err != nil {
			slog.Warn("guard record clear failed", slog.String("error", err.Error()))
		}
		if g.onSuccess != nil {
			g.onSuccess()
		}
		return g.statusLocked(), nil
	}

	g.rec.FailedAttempts++
	g.rec.LockedUntil = g.now().Add(lockoutFor(g.rec.FailedAttempts)).UnixMilli()
	if err := g.records.SaveGuardRecord(g.rec); err != nil {
		slog.Warn("guard record save failed", slog.String("error", err.Error()))
	}
	g.state = Locked
	return g.statusLocked(), apperr.ErrInvalidCredentials
}

func (g *PinGuard) statusLocked() Status {
	st := Status{State: g.state, Entered: len(g.buffer)}
	if g.state == Locked {
		if remaining := time.UnixMilli(g.rec.LockedUntil).Sub(g.now()); remaining > 0 {
			st.RetryAfter = remaining
		}
	}
	return st
}

// lockoutFor maps the consecutive failure count to its lockout duration:
// 5 s, 10 s, then one hour for every failure after the second.
func lockoutFor(failures int) time.Duration {
	switch {
	case failures <= 1:
		return firstLockout
	case failures == 2:
		return secondLockout
	default:
		return longLockout
	}
}
