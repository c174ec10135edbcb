package service

import (
	"sync"
	"time"
)

const (
	// DefaultLoginLimit is the number of login attempts allowed per identity
	// per window.
	DefaultLoginLimit = 10

	// DefaultLoginWindow is the trailing window attempts are counted over.
	DefaultLoginWindow = time.Minute
)

// LoginLimiter is a sliding-window admission gate applied before credential
// checks. It counts attempts (not successes) per identity over a trailing
// window, so a brute-force run is cut off regardless of outcome.
//
// State is process-local and ephemeral; windows are created on first use and
// trimmed on every check. Locking is per identity, so unrelated clients never
// serialize on each other.
type LoginLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	windows sync.Map // map[string]*attemptWindow

	mu          sync.Mutex
	lastSweep   time.Time
	sweepPeriod time.Duration
}

type attemptWindow struct {
	mu     sync.Mutex
	stamps []time.Time
}

// NewLoginLimiter builds a limiter. Non-positive arguments fall back to the
// defaults.
func NewLoginLimiter(limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = DefaultLoginLimit
	}
	if window <= 0 {
		window = DefaultLoginWindow
	}
	return &LoginLimiter{
		limit:       limit,
		window:      window,
		now:         time.Now,
		lastSweep:   time.Now(),
		sweepPeriod: 5 * time.Minute,
	}
}

// Admit reports whether the identity may attempt a login right now. Admitted
// attempts are recorded against the window; refused attempts are not, so a
// refused client regains admission as soon as older stamps age out.
func (l *LoginLimiter) Admit(identity string) bool {
	w := l.windowFor(identity)

	now := l.now()
	cutoff := now.Add(-l.window)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stamps = pruneBefore(w.stamps, cutoff)
	if len(w.stamps) >= l.limit {
		return false
	}
	w.stamps = append(w.stamps, now)
	return true
}

func (l *LoginLimiter) windowFor(identity string) *attemptWindow {
	if w, ok := l.windows.Load(identity); ok {
		return w.(*attemptWindow)
	}
	w, _ := l.windows.LoadOrStore(identity, &attemptWindow{})
	l.maybeSweep()
	return w.(*attemptWindow)
}

// maybeSweep drops identities whose window has fully aged out so the map does
// not grow without bound under churning client addresses.
func (l *LoginLimiter) maybeSweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastSweep) < l.sweepPeriod {
		return
	}
	l.lastSweep = time.Now()

	cutoff := l.now().Add(-l.window)
	l.windows.Range(func(key, value any) bool {
		w := value.(*attemptWindow)
		w.mu.Lock()
		w.stamps = pruneBefore(w.stamps, cutoff)
		idle := len(w.stamps) == 0
		w.mu.Unlock()
		if idle {
			l.windows.Delete(key)
		}
		return true
	})
}

func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
