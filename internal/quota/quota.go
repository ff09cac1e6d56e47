package quota

import (
	"math"
	"time"
)

// Proportional scales baseQuota linearly by the share of the window that has
// elapsed at asOf. Days are counted inclusively and every calendar day counts.
func Proportional(windowStart, windowEnd time.Time, baseQuota int, asOf time.Time) int {
	start := DateOnly(windowStart)
	end := DateOnly(windowEnd)
	at := DateOnly(asOf)

	if !at.After(start) {
		return 0
	}
	if !at.Before(end) {
		return baseQuota
	}
	if !end.After(start) {
		return baseQuota
	}

	elapsed := Days(start, at)
	total := Days(start, end)
	return int(math.Round(float64(baseQuota) * float64(elapsed) / float64(total)))
}

// Days counts calendar days between from and to, both ends included.
func Days(from, to time.Time) int {
	from = DateOnly(from)
	to = DateOnly(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
