package models

// TimeSlot is one bookable window on the detailing calendar.
type TimeSlot struct {
	ID          string `bson:"id" json:"id"`
	Date        string `bson:"date" json:"date"`             // YYYY-MM-DD
	StartTime   string `bson:"startTime" json:"start_time"`  // HH:MM
	EndTime     string `bson:"endTime" json:"end_time"`      // HH:MM
	Duration    int    `bson:"duration" json:"duration"`     // minutes
	Capacity    int    `bson:"capacity" json:"capacity"`     // vans on the road for this window
	Booked      int    `bson:"booked" json:"booked"`         // reserved units
	Blocked     bool   `bson:"blocked" json:"blocked"`
	IsAvailable bool   `bson:"-" json:"is_available"`
}

// HasCapacity reports whether the slot can take another booking.
func (t TimeSlot) HasCapacity() bool {
	return !t.Blocked && t.Booked < t.Capacity
}

// SlotSelection is the slot a customer picked in the booking flow.
type SlotSelection struct {
	SlotID    string `bson:"slotId" json:"slotId"`
	Date      string `bson:"date" json:"date"`
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
	Duration  int    `bson:"duration" json:"duration"`
}

// Selection converts an availability entry into a flow selection.
func (t TimeSlot) Selection() SlotSelection {
	return SlotSelection{
		SlotID:    t.ID,
		Date:      t.Date,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		Duration:  t.Duration,
	}
}

// SlotQuery filters the availability listing. ServiceID and Duration are optional.
type SlotQuery struct {
	Date      string `form:"date" json:"date" binding:"required"`
	ServiceID string `form:"service_id" json:"serviceId,omitempty"`
	Duration  int    `form:"duration" json:"duration,omitempty"`
}
