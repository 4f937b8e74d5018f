package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionType represents the billing period of a field subscription
type SubscriptionType string

const (
	SubscriptionMonthly   SubscriptionType = "monthly"
	SubscriptionQuarterly SubscriptionType = "quarterly"
	SubscriptionYearly    SubscriptionType = "yearly"
)

// subscriptionMonths calendar months covered by one period of each type
var subscriptionMonths = map[SubscriptionType]int{
	SubscriptionMonthly:   1,
	SubscriptionQuarterly: 3,
	SubscriptionYearly:    12,
}

// ParseSubscriptionType normalizes raw input (trim + lowercase) to a known type
func ParseSubscriptionType(raw string) (SubscriptionType, bool) {
	t := SubscriptionType(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := subscriptionMonths[t]
	return t, ok
}

// Months returns the number of calendar months for the type, 0 for unknown types
func (t SubscriptionType) Months() int {
	return subscriptionMonths[t]
}

// SubscriptionStatus represents the status of a field subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// DefaultCurrency currency used when no plan is attached
const DefaultCurrency = "USD"

// FieldSubscription represents a recurring access grant to a field
type FieldSubscription struct {
	ID        int64
	FieldID   int64
	UserID    int64
	Type      SubscriptionType
	PlanID    *int64
	Price     decimal.NullDecimal
	Currency  string
	StartDate time.Time
	EndDate   time.Time // inclusive
	Status    SubscriptionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the subscription has status active
func (s *FieldSubscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// IsOverdue returns true if the subscription is active but its last day is before today
func (s *FieldSubscription) IsOverdue(today time.Time) bool {
	return s.IsActive() && s.EndDate.Before(today)
}

// CoversDate returns true if date falls within [StartDate, EndDate]
func (s *FieldSubscription) CoversDate(date time.Time) bool {
	return !date.Before(s.StartDate) && !date.After(s.EndDate)
}

// FieldSubscriptionPlan merchant-defined pricing for a (field, type) pair
type FieldSubscriptionPlan struct {
	ID          int64
	FieldID     int64
	Type        SubscriptionType
	Title       string
	Description *string
	Price       decimal.Decimal
	Currency    string
	IsActive    bool
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
