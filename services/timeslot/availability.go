package timeslot

import (
	"context"
	"time"

	timeslotRepo "detailbook/database/repository/timeslot"
	"detailbook/models"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

var ErrInvalidDate = models.NewAPIError(models.CodeValidation, "Date must be in YYYY-MM-DD format")

// Service reports slot availability.
type Service struct {
	repo     timeslotRepo.TimeSlotRepository
	location *time.Location
	now      func() time.Time
}

func NewService(repo timeslotRepo.TimeSlotRepository, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{repo: repo, location: location, now: time.Now}
}

// Availability lists every slot on the date with IsAvailable set. A slot is
// available when it has spare capacity, has not started yet and is long enough
// for the requested duration.
func (s *Service) Availability(ctx context.Context, q models.SlotQuery) ([]models.TimeSlot, error) {
	if _, err := time.ParseInLocation(dateLayout, q.Date, s.location); err != nil {
		return nil, ErrInvalidDate
	}
	slots, err := s.repo.ListByDate(ctx, q.Date)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.location)
	for i := range slots {
		slots[i].IsAvailable = s.available(slots[i], q.Duration, now)
	}
	return slots, nil
}

func (s *Service) available(slot models.TimeSlot, duration int, now time.Time) bool {
	return Bookable(slot, duration, now, s.location)
}

// Bookable reports whether a slot can still take a booking of duration
// minutes at now: it has spare capacity, is long enough and has not started.
// A non-positive duration skips the length check.
func Bookable(slot models.TimeSlot, duration int, now time.Time, loc *time.Location) bool {
	if !slot.HasCapacity() {
		return false
	}
	if duration > 0 && slot.Duration < duration {
		return false
	}
	start, err := SlotStart(slot.Date, slot.StartTime, loc)
	if err != nil {
		return false
	}
	return start.After(now)
}

// SlotStart is the wall-clock start of a slot in loc.
func SlotStart(date, startTime string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateTimeLayout, date+" "+startTime, loc)
}
