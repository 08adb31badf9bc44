package flow

import (
	"fmt"
	"strings"

	"detailbook/models"
)

// StepKind names what a wizard step collects.
type StepKind string

const (
	StepService      StepKind = "service"
	StepVehicle      StepKind = "vehicle"
	StepSlot         StepKind = "slot"
	StepAddress      StepKind = "address"
	StepUser         StepKind = "user"
	StepConfirmation StepKind = "confirmation"
)

const (
	FirstStep = 1
	LastStep  = 6
)

// StepOrder maps step numbers 1..6 onto step kinds.
type StepOrder struct {
	Name  string
	Kinds [LastStep]StepKind
}

var (
	StandardOrder = StepOrder{
		Name:  "standard",
		Kinds: [LastStep]StepKind{StepService, StepVehicle, StepSlot, StepAddress, StepUser, StepConfirmation},
	}
	SlotFirstOrder = StepOrder{
		Name:  "slot-first",
		Kinds: [LastStep]StepKind{StepSlot, StepUser, StepVehicle, StepService, StepAddress, StepConfirmation},
	}
)

func ParseStepOrder(name string) (StepOrder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StandardOrder.Name:
		return StandardOrder, nil
	case SlotFirstOrder.Name:
		return SlotFirstOrder, nil
	}
	return StepOrder{}, fmt.Errorf("unknown step order %q", name)
}

// Kind returns the kind of step n, or "" when n is out of range.
func (o StepOrder) Kind(n int) StepKind {
	if n < FirstStep || n > LastStep {
		return ""
	}
	return o.Kinds[n-FirstStep]
}

// StepOf returns the step number collecting kind, or 0.
func (o StepOrder) StepOf(kind StepKind) int {
	for i, k := range o.Kinds {
		if k == kind {
			return i + FirstStep
		}
	}
	return 0
}

func clampStep(n int) int {
	if n < FirstStep {
		return FirstStep
	}
	if n > LastStep {
		return LastStep
	}
	return n
}

// ValidKind reports whether form holds everything the step kind needs.
// Formats are not checked here; the booking API does that on submission.
func ValidKind(kind StepKind, form models.FormData) bool {
	switch kind {
	case StepService:
		return form.Service != nil && form.Service.ID != ""
	case StepVehicle:
		v := form.Vehicle
		return v != nil && v.Make != "" && v.Model != "" && v.Size != ""
	case StepSlot:
		s := form.Slot
		return s != nil && s.SlotID != "" && s.Date != ""
	case StepAddress:
		a := form.Address
		return a != nil && a.Line1 != "" && a.City != "" && a.Postcode != ""
	case StepUser:
		u := form.User
		if u == nil || u.Email == "" || u.Phone == "" || u.Name == "" {
			return false
		}
		return u.IsExistingUser || u.Password != ""
	case StepConfirmation:
		return form.Complete()
	}
	return false
}
