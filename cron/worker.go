package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"detailbook/models"
	"detailbook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingLookup reports whether a booking still holds its slot.
type BookingLookup interface {
	Active(ctx context.Context, id string) (models.Booking, bool, error)
}

// ReminderWorker processes booking reminder tasks.
type ReminderWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewReminderWorker(redisOpts asynq.RedisClientOpt, queue string, bookings BookingLookup, logger *zap.Logger) *ReminderWorker {
	if queue == "" {
		queue = "default"
	}
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				queue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReminder, HandleReminderTask(bookings, logger))
	return &ReminderWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying start-up with backoff.
func (w *ReminderWorker) Start() {
	go func() {
		w.logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("reminder worker giving up; reminders will not be sent")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func (w *ReminderWorker) Shutdown() {
	w.srv.Shutdown()
}

// HandleReminderTask logs the reminder for bookings that are still active and
// still on the slot the reminder was scheduled for.
func HandleReminderTask(bookings BookingLookup, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		b, active, err := bookings.Active(ctx, p.BookingID)
		if err != nil {
			return err
		}
		if !active {
			logger.Info("skipping reminder for inactive booking", zap.String("bookingId", p.BookingID))
			return nil
		}
		if b.Slot.Date != p.Date || b.Slot.StartTime != p.StartTime {
			logger.Info("skipping reminder for rescheduled booking", zap.String("bookingId", p.BookingID))
			return nil
		}

		logger.Info("booking reminder due",
			zap.String("bookingId", b.ID),
			zap.String("reference", b.Reference),
			zap.String("customerId", b.CustomerID),
			zap.String("service", b.ServiceName),
			zap.String("date", b.Slot.Date),
			zap.String("startTime", b.Slot.StartTime),
			zap.String("postcode", b.Address.Postcode))
		return nil
	}
}
