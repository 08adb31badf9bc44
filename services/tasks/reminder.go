package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"detailbook/models"
	"detailbook/services/timeslot"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingReminder = "booking:reminder"

// ReminderPayload identifies the booking and the slot it was scheduled for.
// The worker skips the reminder when the booking has since moved or been cancelled.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	Reference   string `json:"reference"`
	CustomerID  string `json:"customerId"`
	ServiceName string `json:"serviceName"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
}

func PayloadFor(b models.Booking) ReminderPayload {
	return ReminderPayload{
		BookingID:   b.ID,
		Reference:   b.Reference,
		CustomerID:  b.CustomerID,
		ServiceName: b.ServiceName,
		Date:        b.Slot.Date,
		StartTime:   b.Slot.StartTime,
	}
}

func NewBookingReminderTask(payload ReminderPayload, fireAt time.Time, queue string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("reminder:%s:%sT%s", payload.BookingID, payload.Date, payload.StartTime)),
	}
	if queue != "" {
		opts = append(opts, asynq.Queue(queue))
	}
	return task, opts, nil
}

// Enqueuer is the part of asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues a reminder a fixed lead time before each booking.
type ReminderScheduler struct {
	client   Enqueuer
	queue    string
	lead     time.Duration
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewReminderScheduler(client Enqueuer, queue string, lead time.Duration, location *time.Location, logger *zap.Logger) *ReminderScheduler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{client: client, queue: queue, lead: lead, location: location, now: time.Now, logger: logger}
}

// ScheduleReminder enqueues the reminder for b. Bookings too close to their
// start get no reminder.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, b models.Booking) error {
	start, err := timeslot.SlotStart(b.Slot.Date, b.Slot.StartTime, s.location)
	if err != nil {
		return fmt.Errorf("reminder for booking %s: %w", b.ID, err)
	}
	fireAt := start.Add(-s.lead)
	if !fireAt.After(s.now()) {
		s.logger.Debug("booking starts too soon for a reminder", zap.String("bookingId", b.ID))
		return nil
	}

	task, opts, err := NewBookingReminderTask(PayloadFor(b), fireAt, s.queue)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue reminder for booking %s: %w", b.ID, err)
	}
	s.logger.Info("booking reminder scheduled",
		zap.String("bookingId", b.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
