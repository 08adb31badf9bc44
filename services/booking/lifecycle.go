package booking

import (
	"context"
	"errors"
	"time"

	"detailbook/models"

	"go.uber.org/zap"
)

// Get returns a booking with its service and customer. Missing reference
// data is left nil rather than failing the lookup.
func (s *Service) Get(ctx context.Context, id string) (models.BookingDetail, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return models.BookingDetail{}, err
	}
	detail := models.BookingDetail{Booking: *b}

	svc, err := s.catalog.Get(ctx, b.ServiceID)
	switch {
	case err == nil:
		detail.Service = &svc
	case !isNotFound(err):
		return models.BookingDetail{}, err
	}

	customer, err := s.customers.GetByID(ctx, b.CustomerID)
	if err != nil {
		return models.BookingDetail{}, err
	}
	detail.Customer = customer
	return detail, nil
}

func (s *Service) Confirm(ctx context.Context, id string) (models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status != models.BookingStatusPending {
		return models.Booking{}, ErrNotPending
	}
	b.Status = models.BookingStatusConfirmed
	if err := s.bookings.Update(ctx, b); err != nil {
		return models.Booking{}, err
	}
	s.logger.Info("booking confirmed", zap.String("bookingId", b.ID))
	return *b, nil
}

// Reschedule moves an active booking to another slot. The new slot must still
// be bookable for the booked service, and it is reserved before the old one is
// released.
func (s *Service) Reschedule(ctx context.Context, id, slotID string) (models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !b.Active() {
		return models.Booking{}, ErrBookingNotActive
	}
	if b.Slot.SlotID == slotID {
		return *b, nil
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return models.Booking{}, err
	}
	if slot == nil {
		return models.Booking{}, ErrSlotNotFound
	}
	duration := 0
	if svc, err := s.catalog.Get(ctx, b.ServiceID); err == nil {
		duration = svc.Duration
	} else if !isNotFound(err) {
		return models.Booking{}, err
	}
	if err := s.bookable(*slot, duration); err != nil {
		return models.Booking{}, err
	}
	if err := s.reserve(ctx, slot.ID); err != nil {
		return models.Booking{}, err
	}

	oldSlot := b.Slot.SlotID
	b.Slot = slot.Selection()
	if err := s.bookings.Update(ctx, b); err != nil {
		if relErr := s.slots.Release(ctx, slot.ID); relErr != nil {
			s.logger.Error("failed to release slot after reschedule failure", zap.String("slotId", slot.ID), zap.Error(relErr))
		}
		return models.Booking{}, err
	}
	if err := s.slots.Release(ctx, oldSlot); err != nil {
		s.logger.Error("failed to release previous slot", zap.String("slotId", oldSlot), zap.Error(err))
	}

	s.logger.Info("booking rescheduled",
		zap.String("bookingId", b.ID),
		zap.String("from", oldSlot),
		zap.String("to", slot.ID))
	s.scheduleReminder(ctx, *b)
	return *b, nil
}

func (s *Service) Cancel(ctx context.Context, id, reason string) (models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !b.Active() {
		return models.Booking{}, ErrBookingNotActive
	}

	now := time.Now()
	b.Status = models.BookingStatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	if err := s.bookings.Update(ctx, b); err != nil {
		return models.Booking{}, err
	}
	if err := s.slots.Release(ctx, b.Slot.SlotID); err != nil {
		s.logger.Error("failed to release cancelled booking slot", zap.String("slotId", b.Slot.SlotID), zap.Error(err))
	}
	s.logger.Info("booking cancelled", zap.String("bookingId", b.ID), zap.String("reason", reason))
	return *b, nil
}

// Active reports whether the booking still holds its slot. A missing booking
// is reported as inactive.
func (s *Service) Active(ctx context.Context, id string) (models.Booking, bool, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil || b == nil {
		return models.Booking{}, false, err
	}
	return *b, b.Active(), nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func isNotFound(err error) bool {
	var apiErr *models.APIError
	return errors.As(err, &apiErr) && apiErr.Code == models.CodeNotFound
}
