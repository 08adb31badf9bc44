package cron

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"detailbook/models"
	"detailbook/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubLookup struct {
	booking models.Booking
	active  bool
	err     error
}

func (s stubLookup) Active(context.Context, string) (models.Booking, bool, error) {
	return s.booking, s.active, s.err
}

func reminderTask(t *testing.T, date, start string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(tasks.ReminderPayload{BookingID: "b-1", Date: date, StartTime: start})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeBookingReminder, payload)
}

func TestHandleReminderTask(t *testing.T) {
	onSlot := models.Booking{ID: "b-1", Reference: "DT-0000AAAA", Slot: models.SlotSelection{Date: "2026-11-02", StartTime: "09:00"}}

	tests := []struct {
		name    string
		lookup  stubLookup
		wantLog string
	}{
		{"due", stubLookup{booking: onSlot, active: true}, "booking reminder due"},
		{"cancelled", stubLookup{booking: onSlot, active: false}, "skipping reminder for inactive booking"},
		{"rescheduled", stubLookup{booking: models.Booking{ID: "b-1", Slot: models.SlotSelection{Date: "2026-11-03", StartTime: "09:00"}}, active: true}, "skipping reminder for rescheduled booking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			handler := HandleReminderTask(tt.lookup, zap.New(core))

			require.NoError(t, handler(context.Background(), reminderTask(t, "2026-11-02", "09:00")))
			assert.Equal(t, 1, logs.FilterMessage(tt.wantLog).Len())
		})
	}
}

func TestHandleReminderTask_BadPayloadSkipsRetry(t *testing.T) {
	handler := HandleReminderTask(stubLookup{}, zap.NewNop())
	err := handler(context.Background(), asynq.NewTask(tasks.TypeBookingReminder, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleReminderTask_LookupErrorRetries(t *testing.T) {
	handler := HandleReminderTask(stubLookup{err: errors.New("mongo down")}, zap.NewNop())
	err := handler(context.Background(), reminderTask(t, "2026-11-02", "09:00"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

type countingFiller struct{ calls atomic.Int32 }

func (f *countingFiller) EnsureHorizon(context.Context) (int, error) {
	f.calls.Add(1)
	return 0, nil
}

func TestStartSlotCron_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	filler := &countingFiller{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		StartSlotCron(ctx, filler, time.Hour, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return filler.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("slot cron did not stop")
	}
}

func TestStartSlotCron_RunsOnceWithoutInterval(t *testing.T) {
	filler := &countingFiller{}
	StartSlotCron(context.Background(), filler, 0, zap.NewNop())
	assert.EqualValues(t, 1, filler.calls.Load())
}
