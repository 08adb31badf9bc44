package flow

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"detailbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestManager(backend Backend, store SessionStore, clk *testClock) *Manager {
	return NewManager(ManagerConfig{
		Store:   store,
		Backend: backend,
		Order:   StandardOrder,
		Expiry:  30 * time.Minute,
		Now:     clk.Now,
	})
}

func TestManager_CreateUpdateAndGet(t *testing.T) {
	ctx := context.Background()
	clk := &testClock{now: fixedNow}
	m := newTestManager(new(MockBackend), NewMemorySessionStore(), clk)

	id, state, err := m.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, FirstStep, state.CurrentStep)

	clk.now = fixedNow.Add(5 * time.Minute)
	state, err = m.Do(ctx, id, func(ctx context.Context, c *Controller) error {
		if err := c.UpdateFormData("service", json.RawMessage(`{"id":"svc-full","name":"Full Valet","basePrice":40}`)); err != nil {
			return err
		}
		c.NextStep()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, state.CurrentStep)
	assert.Equal(t, clk.now, state.SessionTimestamp)

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStep)
	require.NotNil(t, got.FormData.Service)
	assert.Equal(t, "svc-full", got.FormData.Service.ID)
}

func TestManager_ExpiredSessionIsReset(t *testing.T) {
	ctx := context.Background()
	clk := &testClock{now: fixedNow}
	m := newTestManager(new(MockBackend), NewMemorySessionStore(), clk)

	id, _, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.Do(ctx, id, func(_ context.Context, c *Controller) error {
		c.SetService(testService())
		c.SetStep(3)
		return nil
	})
	require.NoError(t, err)

	clk.now = fixedNow.Add(31 * time.Minute)
	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, FirstStep, got.CurrentStep)
	assert.Nil(t, got.FormData.Service)
	assert.Equal(t, clk.now, got.SessionTimestamp)
}

func TestManager_UnknownSession(t *testing.T) {
	m := newTestManager(new(MockBackend), NewMemorySessionStore(), &testClock{now: fixedNow})

	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, _, err = m.Submit(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SubmitRemovesSession(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	backend.On("CreateBooking", mock.Anything, mock.Anything).Return(models.CreateBookingResponse{
		BookingID:             "bk-1",
		BookingReference:      "DT-7QK2M9XA",
		CustomerID:            "cus-1",
		RequiresPasswordSetup: true,
		PasswordSetupToken:    "token",
	}, nil).Once()

	store := NewMemorySessionStore()
	m := newTestManager(backend, store, &testClock{now: fixedNow})
	id, _, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.Do(ctx, id, func(_ context.Context, c *Controller) error {
		form := completeForm()
		c.SetService(form.Service)
		c.SetVehicle(form.Vehicle)
		c.SetSlot(form.Slot)
		c.SetAddress(form.Address)
		c.SetUser(form.User)
		c.SetStep(LastStep)
		return nil
	})
	require.NoError(t, err)

	result, _, err := m.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "DT-7QK2M9XA", result.ConfirmationNumber)
	assert.True(t, result.RequiresPassword)

	_, _, err = m.Submit(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	backend.AssertNumberOfCalls(t, "CreateBooking", 1)
}

func TestManager_FailedSubmitKeepsSessionWithError(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(new(MockBackend), NewMemorySessionStore(), &testClock{now: fixedNow})
	id, _, err := m.Create(ctx)
	require.NoError(t, err)

	_, state, err := m.Submit(ctx, id)
	assert.ErrorIs(t, err, ErrIncompleteBooking)
	assert.NotEmpty(t, state.Error)

	got, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, FirstStep, got.CurrentStep)
}

func TestManager_Discard(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(new(MockBackend), NewMemorySessionStore(), &testClock{now: fixedNow})
	id, _, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Discard(ctx, id))

	_, err = m.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_SlowSessionDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(new(MockBackend), NewMemorySessionStore(), &testClock{now: fixedNow})
	slowID, _, err := m.Create(ctx)
	require.NoError(t, err)
	otherID, _, err := m.Create(ctx)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	slowDone := make(chan error, 1)
	go func() {
		_, err := m.Do(ctx, slowID, func(context.Context, *Controller) error {
			close(entered)
			<-release
			return nil
		})
		slowDone <- err
	}()
	<-entered

	otherDone := make(chan error, 1)
	go func() {
		_, err := m.Get(ctx, otherID)
		otherDone <- err
	}()
	select {
	case err := <-otherDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("unrelated session waited for a slow action")
	}

	sameDone := make(chan error, 1)
	go func() {
		_, err := m.Get(ctx, slowID)
		sameDone <- err
	}()
	select {
	case <-sameDone:
		t.Fatal("second action on the same session ran concurrently")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-slowDone)
	require.NoError(t, <-sameDone)

	m.locks.mu.Lock()
	defer m.locks.mu.Unlock()
	assert.Empty(t, m.locks.locks)
}
