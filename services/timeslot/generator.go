package timeslot

import (
	"context"
	"fmt"
	"strings"
	"time"

	timeslotRepo "detailbook/database/repository/timeslot"
	"detailbook/models"

	"go.uber.org/zap"
)

// Window is one daily slot template entry, e.g. 09:00-11:00.
type Window struct {
	Start string
	End   string
}

func (w Window) minutes() (int, error) {
	start, err := time.Parse("15:04", w.Start)
	if err != nil {
		return 0, err
	}
	end, err := time.Parse("15:04", w.End)
	if err != nil {
		return 0, err
	}
	if !end.After(start) {
		return 0, fmt.Errorf("window %s-%s ends before it starts", w.Start, w.End)
	}
	return int(end.Sub(start).Minutes()), nil
}

// ParseWindows reads a comma separated list of HH:MM-HH:MM windows.
func ParseWindows(raw string) ([]Window, error) {
	var windows []Window
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		start, end, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("invalid slot window %q", part)
		}
		w := Window{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
		if _, err := w.minutes(); err != nil {
			return nil, fmt.Errorf("invalid slot window %q: %w", part, err)
		}
		windows = append(windows, w)
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("no slot windows in %q", raw)
	}
	return windows, nil
}

// Generator keeps the calendar filled with slots a fixed number of days ahead.
type Generator struct {
	repo        timeslotRepo.TimeSlotRepository
	windows     []Window
	capacity    int
	horizonDays int
	closedDays  map[time.Weekday]bool
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

type GeneratorConfig struct {
	Windows     []Window
	Capacity    int
	HorizonDays int
	ClosedDays  []time.Weekday
	Location    *time.Location
}

func NewGenerator(repo timeslotRepo.TimeSlotRepository, cfg GeneratorConfig, logger *zap.Logger) *Generator {
	g := &Generator{
		repo:        repo,
		windows:     cfg.Windows,
		capacity:    cfg.Capacity,
		horizonDays: cfg.HorizonDays,
		closedDays:  make(map[time.Weekday]bool),
		location:    cfg.Location,
		now:         time.Now,
		logger:      logger,
	}
	for _, d := range cfg.ClosedDays {
		g.closedDays[d] = true
	}
	if g.capacity <= 0 {
		g.capacity = 1
	}
	if g.location == nil {
		g.location = time.UTC
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// EnsureHorizon creates slots for every open day between the last generated
// date and the horizon. It returns the number of slots created.
func (g *Generator) EnsureHorizon(ctx context.Context) (int, error) {
	today := g.now().In(g.location)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, g.location)
	last := today.AddDate(0, 0, g.horizonDays)

	from := today
	maxDate, err := g.repo.MaxDate(ctx, today.Format(dateLayout))
	if err != nil {
		return 0, err
	}
	if maxDate != "" {
		d, err := time.ParseInLocation(dateLayout, maxDate, g.location)
		if err != nil {
			return 0, fmt.Errorf("stored slot date %q: %w", maxDate, err)
		}
		from = d.AddDate(0, 0, 1)
	}

	var slots []models.TimeSlot
	for day := from; !day.After(last); day = day.AddDate(0, 0, 1) {
		if g.closedDays[day.Weekday()] {
			continue
		}
		slots = append(slots, g.slotsFor(day)...)
	}
	if len(slots) == 0 {
		return 0, nil
	}
	if _, err := g.repo.CreateMany(ctx, slots); err != nil {
		return 0, err
	}
	g.logger.Info("time slots generated",
		zap.Int("slots", len(slots)),
		zap.String("from", from.Format(dateLayout)),
		zap.String("to", last.Format(dateLayout)))
	return len(slots), nil
}

func (g *Generator) slotsFor(day time.Time) []models.TimeSlot {
	date := day.Format(dateLayout)
	slots := make([]models.TimeSlot, 0, len(g.windows))
	for _, w := range g.windows {
		minutes, _ := w.minutes()
		slots = append(slots, models.TimeSlot{
			Date:      date,
			StartTime: w.Start,
			EndTime:   w.End,
			Duration:  minutes,
			Capacity:  g.capacity,
		})
	}
	return slots
}

// ParseWeekdays reads a comma separated list of day names such as "sunday,saturday".
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.ToLower(d.String()) == name {
				days = append(days, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
	}
	return days, nil
}
