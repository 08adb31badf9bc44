package flow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager runs wizard actions against stored sessions. Each action rehydrates
// the session, applies the change through a Controller and saves the result.
// Actions on the same session are serialised within this process; actions on
// different sessions never wait for each other.
type Manager struct {
	store      SessionStore
	backend    Backend
	calculator PriceCalculator
	order      StepOrder
	expiry     time.Duration
	now        func() time.Time
	logger     *zap.Logger

	locks sessionLocks
}

type ManagerConfig struct {
	Store      SessionStore
	Backend    Backend
	Calculator PriceCalculator
	Order      StepOrder
	Expiry     time.Duration
	Now        func() time.Time
	Logger     *zap.Logger
}

func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		store:      cfg.Store,
		backend:    cfg.Backend,
		calculator: cfg.Calculator,
		order:      cfg.Order,
		expiry:     cfg.Expiry,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}
	if m.order.Name == "" {
		m.order = StandardOrder
	}
	if m.expiry <= 0 {
		m.expiry = DefaultSessionExpiry
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// sessionLocks hands out one mutex per session id. An entry only exists while
// a caller holds or waits for it.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// lock blocks until the session is free and returns the matching unlock.
func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sessionLock)
	}
	sl, ok := l.locks[sessionID]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}

func (m *Manager) controller(state State) *Controller {
	return NewController(m.backend, m.calculator,
		WithStepOrder(m.order),
		WithSessionExpiry(m.expiry),
		WithClock(m.now),
		WithLogger(m.logger),
		WithState(state),
	)
}

// Create starts a new session and returns its id.
func (m *Manager) Create(ctx context.Context) (string, State, error) {
	id := uuid.NewString()
	state := NewState(m.now(), m.expiry)
	if err := m.store.Save(ctx, id, state.Snapshot()); err != nil {
		return "", State{}, err
	}
	m.logger.Debug("booking session created", zap.String("sessionId", id))
	return id, state, nil
}

// Get returns the rehydrated state of a session. An expired session comes back
// fresh and is stored that way.
func (m *Manager) Get(ctx context.Context, sessionID string) (State, error) {
	return m.Do(ctx, sessionID, func(context.Context, *Controller) error { return nil })
}

// Do applies fn to the session and saves the result, even when fn fails, so
// that the recorded error and any partial progress survive. The error from fn
// is returned alongside the new state.
func (m *Manager) Do(ctx context.Context, sessionID string, fn func(context.Context, *Controller) error) (State, error) {
	defer m.locks.lock(sessionID)()

	ctrl, err := m.open(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	actionErr := fn(ctx, ctrl)
	ctrl.touch()

	state := ctrl.State()
	if err := m.store.Save(ctx, sessionID, state.Snapshot()); err != nil {
		m.logger.Error("failed to save booking session", zap.String("sessionId", sessionID), zap.Error(err))
		return state, err
	}
	return state, actionErr
}

// Submit creates the booking for a session. A successful submission removes
// the session so the same wizard cannot book twice.
func (m *Manager) Submit(ctx context.Context, sessionID string) (SubmissionResult, State, error) {
	defer m.locks.lock(sessionID)()

	ctrl, err := m.open(ctx, sessionID)
	if err != nil {
		return SubmissionResult{}, State{}, err
	}
	result, submitErr := ctrl.SubmitBooking(ctx)
	state := ctrl.State()
	if submitErr != nil {
		ctrl.touch()
		if err := m.store.Save(ctx, sessionID, ctrl.State().Snapshot()); err != nil {
			m.logger.Error("failed to save booking session", zap.String("sessionId", sessionID), zap.Error(err))
		}
		return SubmissionResult{}, state, submitErr
	}

	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.Error("failed to remove submitted booking session", zap.String("sessionId", sessionID), zap.Error(err))
	}
	m.logger.Info("booking session completed",
		zap.String("sessionId", sessionID),
		zap.String("bookingId", result.BookingID))
	return result, state, nil
}

// Discard drops a session entirely.
func (m *Manager) Discard(ctx context.Context, sessionID string) error {
	defer m.locks.lock(sessionID)()
	return m.store.Delete(ctx, sessionID)
}

func (m *Manager) open(ctx context.Context, sessionID string) (*Controller, error) {
	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrSessionNotFound
	}
	now := m.now()
	if SnapshotExpired(*snap, now) {
		m.logger.Info("booking session expired, starting over", zap.String("sessionId", sessionID))
	}
	state := Rehydrate(snap, now)
	return m.controller(state), nil
}
