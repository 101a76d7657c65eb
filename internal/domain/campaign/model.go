package campaign

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Max length constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// Domain errors
var (
	ErrEmptyTitle         = errors.New("campaign title cannot be empty")
	ErrTitleTooLong       = errors.New("campaign title cannot exceed 200 characters")
	ErrDescTooLong        = errors.New("campaign description cannot exceed 5000 characters")
	ErrEmptyEndDate       = errors.New("campaign end date is required")
	ErrInvalidAmount      = errors.New("contribution amount must be a positive decimal")
	ErrInvalidRaised      = errors.New("campaign raised amount must be a non-negative decimal")
	ErrCampaignClosed     = errors.New("this campaign is closed to new contributions")
	ErrNoGoal             = errors.New("no goal set")
	ErrUnparseableEndDate = errors.New("campaign end date cannot be parsed")
)

// Campaign is a fundraising drive with a money goal and an end date.
// Goal and Raised are decimal strings ("1500.00"); EndDate is an ISO-8601 date or date-time.
type Campaign struct {
	ID          string    `json:"id" yaml:"id,omitempty"`
	Title       string    `json:"title" yaml:"title,omitempty"`
	Description string    `json:"description" yaml:"description,omitempty"`
	Goal        string    `json:"goal" yaml:"goal,omitempty"`
	Raised      string    `json:"raised" yaml:"raised,omitempty"`
	EndDate     string    `json:"endDate" yaml:"endDate,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Validate checks the campaign's invariants at authoring time.
// A campaign must have a positive goal and a parseable end date to be saved;
// display code still treats stored bad values as an error state.
// PRE: none
// POST: returns nil if valid, the first violated rule otherwise
func (c *Campaign) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	if len(c.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(c.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	if _, err := ParseGoal(c.Goal); err != nil {
		return err
	}
	if strings.TrimSpace(c.Raised) != "" {
		r, err := decimal.NewFromString(strings.TrimSpace(c.Raised))
		if err != nil || r.IsNegative() {
			return ErrInvalidRaised
		}
	}
	if strings.TrimSpace(c.EndDate) == "" {
		return ErrEmptyEndDate
	}
	if _, err := ParseEndDate(c.EndDate, time.UTC); err != nil {
		return err
	}
	return nil
}

// AddContribution adds a positive decimal amount to Raised.
// PRE: amount parses as a decimal > 0
// POST: Raised is the exact decimal sum, formatted with two places
func (c *Campaign) AddContribution(amount string) error {
	a, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !a.IsPositive() {
		return ErrInvalidAmount
	}
	c.Raised = ParseRaised(c.Raised).Add(a).StringFixed(2)
	return nil
}
