package sink

import (
	"sync"
	"time"
)

// Notifier makes the alert audible. Notify may block; Alerter runs it on
// its own goroutine.
type Notifier interface {
	Notify()
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func()

func (f NotifierFunc) Notify() { f() }

// Alerter fires at most once per cooldown window.
type Alerter struct {
	cooldown time.Duration
	notifier Notifier

	mu    sync.Mutex
	last  time.Time
	fired bool
}

// NewAlerter returns an Alerter; n may be nil for a silent gate.
func NewAlerter(cooldown time.Duration, n Notifier) *Alerter {
	return &Alerter{cooldown: cooldown, notifier: n}
}

// Alert reports whether an alert fires at now. The first call always fires;
// later ones fire only when strictly more than the cooldown has passed since
// the last one that did.
func (a *Alerter) Alert(now time.Time) bool {
	a.mu.Lock()
	if a.fired && now.Sub(a.last) <= a.cooldown {
		a.mu.Unlock()
		return false
	}
	a.fired = true
	a.last = now
	n := a.notifier
	a.mu.Unlock()
	if n != nil {
		go n.Notify()
	}
	return true
}

// Last returns the time of the last fired alert, zero if none.
func (a *Alerter) Last() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}
