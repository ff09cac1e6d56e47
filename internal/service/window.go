package service

import (
	"time"

	"github.com/nurpe/commute-results/internal/model"
	"github.com/nurpe/commute-results/internal/quota"
)

// Window is an inclusive range of calendar days.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	d := quota.DateOnly(t)
	return !d.Before(w.From) && !d.After(w.To)
}

// AsOf is the evaluation date for quotas: now, capped at the window end.
func (w Window) AsOf(now time.Time) time.Time {
	d := quota.DateOnly(now)
	if d.After(w.To) {
		return w.To
	}
	return d
}

func (w Window) Equal(other Window) bool {
	return w.From.Equal(other.From) && w.To.Equal(other.To)
}

// ResolveWindow picks the competition's own date range clipped to the
// competition phase, or the phase window when the competition has none.
func ResolveWindow(c *model.Competition, phase *model.Phase) (Window, error) {
	var from, to *time.Time
	if c.DateFrom != nil {
		from = c.DateFrom
	}
	if c.DateTo != nil {
		to = c.DateTo
	}
	if phase != nil {
		if phase.DateFrom != nil && (from == nil || phase.DateFrom.After(*from)) {
			from = phase.DateFrom
		}
		if phase.DateTo != nil && (to == nil || phase.DateTo.Before(*to)) {
			to = phase.DateTo
		}
	}
	if from == nil || to == nil {
		return Window{}, configError(c.ID, "date range is not set on the competition or its competition phase")
	}

	w := Window{From: quota.DateOnly(*from), To: quota.DateOnly(*to)}
	if w.To.Before(w.From) {
		return Window{}, configError(c.ID, "date range ends %s before it starts %s",
			w.To.Format("2006-01-02"), w.From.Format("2006-01-02"))
	}
	return w, nil
}

// PhaseWindow returns the full phase window when both bounds are set.
func PhaseWindow(phase *model.Phase) (Window, bool) {
	if phase == nil || phase.DateFrom == nil || phase.DateTo == nil {
		return Window{}, false
	}
	return Window{From: quota.DateOnly(*phase.DateFrom), To: quota.DateOnly(*phase.DateTo)}, true
}
