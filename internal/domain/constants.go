package domain

// Slot resolution defaults
const (
	DefaultSlotMinutes = 60
	DefaultRangeDays   = 7
	MaxRangeDays       = 31
	MaxSlotMinutes     = 24 * 60
)

// Cart limits
const (
	MinItemQuantity = 1
	MaxItemQuantity = 10000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Roles passed by the identity layer
const (
	RoleUser     = "user"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)
