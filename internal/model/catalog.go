package model

import (
    "fmt"
    "time"
)

// ProcedureTypes is the fixed catalog of procedures an event can offer.
// Callback tokens reference procedures by index into this slice.
var ProcedureTypes = []string{
    "Laser hair removal",
    "Tattoo removal",
    "Vascular removal",
    "Mole removal",
    "Carbon facial peel",
    "Lip PM removal",
    "Eyeliner removal",
}

// TimeSlots returns the slot grid offered when creating an event:
// 09:00 through 17:00 in 10 minute steps.
func TimeSlots() []string {
    slots := make([]string, 0, 49)
    for hour := 9; hour <= 17; hour++ {
        for minute := 0; minute < 60; minute += 10 {
            if hour == 17 && minute > 0 {
                break
            }
            slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
        }
    }
    return slots
}

// DateOption pairs a machine date with its display label.
type DateOption struct {
    Date    string // YYYY-MM-DD
    Display string // e.g. "Today (27.08)" or "Wed, 28.08"
}

// DateOptions returns the dates offered when creating an event: today plus
// the following six days.
func DateOptions(now time.Time) []DateOption {
    opts := make([]DateOption, 0, 7)
    for i := 0; i < 7; i++ {
        d := now.AddDate(0, 0, i)
        display := fmt.Sprintf("%s, %02d.%02d", d.Weekday().String()[:3], d.Day(), int(d.Month()))
        if i == 0 {
            display = fmt.Sprintf("Today (%02d.%02d)", d.Day(), int(d.Month()))
        }
        opts = append(opts, DateOption{Date: d.Format("2006-01-02"), Display: display})
    }
    return opts
}

// ValidSlot reports whether t is one of the offered time slots.
func ValidSlot(t string) bool {
    for _, s := range TimeSlots() {
        if s == t {
            return true
        }
    }
    return false
}

// ValidDate reports whether date is one of the offered dates relative to now.
func ValidDate(date string, now time.Time) bool {
    for _, o := range DateOptions(now) {
        if o.Date == date {
            return true
        }
    }
    return false
}

// ProcedureByIndex resolves a proc_<index> callback value.  The boolean is
// false when the index falls outside the catalog.
func ProcedureByIndex(i int) (string, bool) {
    if i < 0 || i >= len(ProcedureTypes) {
        return "", false
    }
    return ProcedureTypes[i], true
}

// FormatDate rewrites YYYY-MM-DD into DD.MM.YYYY for outward messages.
// Malformed input is returned unchanged.
func FormatDate(date string) string {
    d, err := time.Parse("2006-01-02", date)
    if err != nil {
        return date
    }
    return d.Format("02.01.2006")
}
