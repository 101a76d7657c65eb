package campaign

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	day     = 24 * time.Hour
)

// Progress is the derived display state of a campaign at an instant.
type Progress struct {
	Raised        decimal.Decimal `json:"raised"`
	Goal          decimal.Decimal `json:"goal"`
	Percent       float64         `json:"percent"`
	DaysRemaining int             `json:"daysRemaining"`
	Closed        bool            `json:"closed"`
}

// AcceptsContributions reports whether the donate action should be enabled.
func (p Progress) AcceptsContributions() bool {
	return !p.Closed
}

// RoundedPercent is Percent rounded down to a whole number for progress bars,
// so a nearly-met goal never displays as 100%.
func (p Progress) RoundedPercent() int {
	return int(math.Floor(p.Percent))
}

// ParseRaised reads a raised amount; blank or malformed input counts as zero.
func ParseRaised(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseGoal reads a goal amount.
// POST: returns ErrNoGoal for blank, malformed, zero or negative input
func ParseGoal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrNoGoal
	}
	return d, nil
}

// ParseEndDate reads an ISO-8601 end date. Date-only values mean midnight at the
// start of that day in loc.
// PRE: loc is non-nil
func ParseEndDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableEndDate, s)
}

// ComputeProgress derives the progress bar percentage and countdown for a campaign.
//   - Percent is raised/goal*100 clamped to [0, 100].
//   - DaysRemaining is ceil((end-now)/24h), never negative; zero means closed.
//
// PRE: loc is non-nil
// POST: returns ErrNoGoal when the goal is missing or not positive, and
// ErrUnparseableEndDate when the end date cannot be read; no NaN or Inf is ever produced
func ComputeProgress(raised, goal, endDate string, loc *time.Location, now time.Time) (Progress, error) {
	g, err := ParseGoal(goal)
	if err != nil {
		return Progress{}, err
	}
	end, err := ParseEndDate(endDate, loc)
	if err != nil {
		return Progress{}, err
	}
	r := ParseRaised(raised)

	pct := r.Mul(hundred).Div(g)
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}

	days := DaysRemaining(end, now)
	return Progress{
		Raised:        r,
		Goal:          g,
		Percent:       pct.InexactFloat64(),
		DaysRemaining: days,
		Closed:        days == 0,
	}, nil
}

// DaysRemaining returns the number of started 24h periods until end, floored at zero.
func DaysRemaining(end, now time.Time) int {
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	days := left / day
	if left%day != 0 {
		days++
	}
	return int(days)
}

// Progress computes the campaign's own progress.
func (c *Campaign) Progress(loc *time.Location, now time.Time) (Progress, error) {
	return ComputeProgress(c.Raised, c.Goal, c.EndDate, loc, now)
}
