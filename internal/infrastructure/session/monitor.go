package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alchemorsel/recipeweb/internal/ports/outbound"
	"go.uber.org/zap"
)

// Defaults for the periodic expiry check
const (
	DefaultCheckInterval   = 5 * time.Minute
	DefaultProtectedMarker = "/profile"
	DefaultLoginPath       = "/login"
)

// Navigator exposes the client's current location and lets the monitor send
// the user somewhere else.
type Navigator interface {
	CurrentPath() string
	Redirect(path string)
}

// Monitor periodically drops an expired or unreadable credential from the
// session store.
type Monitor struct {
	store     outbound.SessionStore
	navigator Navigator
	logger    *zap.Logger

	interval        time.Duration
	protectedMarker string
	loginPath       string
	now             func() time.Time
	onClear         func()

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// MonitorOption configures a Monitor
type MonitorOption func(*Monitor)

// WithInterval sets the time between checks
func WithInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithProtectedMarker sets the path fragment that marks pages needing a login
func WithProtectedMarker(marker string) MonitorOption {
	return func(m *Monitor) { m.protectedMarker = marker }
}

// WithLoginPath sets where the user is sent after the session is dropped
func WithLoginPath(path string) MonitorOption {
	return func(m *Monitor) { m.loginPath = path }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) { m.now = now }
}

// WithClearHook registers a callback run after each dropped session
func WithClearHook(fn func()) MonitorOption {
	return func(m *Monitor) { m.onClear = fn }
}

// NewMonitor creates a monitor. navigator may be nil when there is nothing to
// redirect.
func NewMonitor(store outbound.SessionStore, navigator Navigator, logger *zap.Logger, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		store:           store,
		navigator:       navigator,
		logger:          logger.Named("session-monitor"),
		interval:        DefaultCheckInterval,
		protectedMarker: DefaultProtectedMarker,
		loginPath:       DefaultLoginPath,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Check inspects the stored credential once and reports whether the session
// was cleared. It never fails; problems are logged.
func (m *Monitor) Check(ctx context.Context) (cleared bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Session check panicked", zap.Any("panic", r))
			cleared = false
		}
	}()

	token, ok, err := m.store.Get(ctx, outbound.TokenKey)
	if err != nil {
		m.logger.Warn("Could not read stored credential", zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	cred, err := ParseCredential(token)
	switch {
	case err != nil:
		m.logger.Info("Dropping unreadable credential", zap.Error(err))
	case cred.Expired(m.now()):
		m.logger.Info("Dropping expired credential", zap.Timep("expires_at", cred.ExpiresAt))
	default:
		return false
	}

	if err := m.store.Clear(ctx, outbound.SessionKeys...); err != nil {
		m.logger.Warn("Could not clear session", zap.Error(err))
		return false
	}

	if m.onClear != nil {
		m.onClear()
	}

	if m.navigator != nil && m.protectedMarker != "" &&
		strings.Contains(m.navigator.CurrentPath(), m.protectedMarker) {
		m.navigator.Redirect(m.loginPath)
	}

	return true
}

// Start runs a check right away and then on every interval until ctx is done
// or Stop is called. Calling Start on a running monitor does nothing.
// The first check runs on the caller's goroutine without holding the lock, so
// Stop may be called concurrently or from the navigator's Redirect.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel, m.done = cancel, done
	m.mu.Unlock()

	checked := make(chan struct{})
	go m.run(runCtx, checked, done)

	m.Check(runCtx)
	close(checked)
}

// run ticks only once the first check has finished so checks never overlap
func (m *Monitor) run(ctx context.Context, checked <-chan struct{}, done chan struct{}) {
	defer close(done)

	select {
	case <-ctx.Done():
		return
	case <-checked:
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Stop cancels the periodic check and waits for it to finish
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
