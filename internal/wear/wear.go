// Package wear decides how much of a calendar day each worn item occupies.
//
// A day holds at most one full day of wear. Logging a partial day next to an
// item that already holds the full day splits that day: the full-day entry
// drops to a half so both pieces fit.
package wear

import (
	"fmt"
	"math"

	"soravault/internal/models"
)

const (
	FullDay = 1.0
	HalfDay = 0.5

	eps = 1e-9
)

var ErrInvalidDays = fmt.Errorf("%w: days must be greater than 0 and at most 1", models.ErrInvalidInput)

// Entry is the slice of a wear record the balancer needs.
type Entry struct {
	ID   string
	Days float64
}

type Adjustment struct {
	ID   string  `json:"id"`
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

type Plan struct {
	Adjustments []Adjustment
	Total       float64
}

func (p Plan) Remaining() float64 {
	return math.Max(0, FullDay-p.Total)
}

// RoundDays rounds to the three decimals the days column stores.
func RoundDays(d float64) float64 {
	return math.Round(d*1000) / 1000
}

func ValidDays(d float64) bool {
	return d > eps && d <= FullDay+eps
}

// Balance checks candidate against the entries already logged for the same
// day. Entries sharing the candidate's ID are ignored so an update does not
// count against itself. On rejection nothing in the plan is applied and the
// returned CapacityError has no date; callers fill it in.
func Balance(existing []Entry, candidate Entry) (Plan, error) {
	if !ValidDays(candidate.Days) {
		return Plan{}, ErrInvalidDays
	}

	var (
		before      float64
		after       float64
		adjustments []Adjustment
	)
	partial := candidate.Days < FullDay-eps

	for _, e := range existing {
		if candidate.ID != "" && e.ID == candidate.ID {
			continue
		}
		before += e.Days
		if partial && e.Days >= FullDay-eps {
			adjustments = append(adjustments, Adjustment{ID: e.ID, From: e.Days, To: HalfDay})
			after += HalfDay
			continue
		}
		after += e.Days
	}

	if after+candidate.Days > FullDay+eps {
		return Plan{}, &models.CapacityError{
			Requested: candidate.Days,
			Remaining: math.Max(0, FullDay-before),
		}
	}

	return Plan{Adjustments: adjustments, Total: after + candidate.Days}, nil
}

// Remaining reports the unused capacity of a day.
func Remaining(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Days
	}
	if sum >= FullDay-eps {
		return 0
	}
	return FullDay - sum
}
