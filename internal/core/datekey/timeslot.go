package datekey

import "time"

// TimeSlot is a coarse part of the day used to bucket trigger events.
type TimeSlot string

const (
	SlotMadrugada TimeSlot = "Madrugada" // 00:00-05:59
	SlotManha     TimeSlot = "Manhã"     // 06:00-11:59
	SlotTarde     TimeSlot = "Tarde"     // 12:00-17:59
	SlotNoite     TimeSlot = "Noite"     // 18:00-23:59
)

// SlotOf returns the time slot of t in its own location.
func SlotOf(t time.Time) TimeSlot {
	switch h := t.Hour(); {
	case h < 6:
		return SlotMadrugada
	case h < 12:
		return SlotManha
	case h < 18:
		return SlotTarde
	default:
		return SlotNoite
	}
}

// ValidSlot reports whether s is one of the four known slots.
func ValidSlot(s TimeSlot) bool {
	switch s {
	case SlotMadrugada, SlotManha, SlotTarde, SlotNoite:
		return true
	}
	return false
}
