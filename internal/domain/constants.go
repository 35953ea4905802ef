package domain

// Offer window
const (
	// OfferTTLMinutes is the acceptance window of a slot offer.
	// Fixed by product design, not runtime-tunable.
	OfferTTLMinutes = 15
)

// Proximity scoring constants. Additive, independent contributions;
// design parameters, not tunable at runtime.
const (
	ScoreSameStaff     = 1000 // slot staff matches the preferred staff
	ScoreCloseTime     = 500  // start within CloseTimeWindowMinutes of the preferred time, same date
	ScoreNearTime      = 300  // start within NearTimeWindowMinutes of the preferred time
	ScoreSameDate      = 200  // slot date matches the preferred date
	ScorePenaltyPerTen = 10   // minutes of distance per point of linear penalty

	CloseTimeWindowMinutes = 60
	NearTimeWindowMinutes  = 120
	SameWeekDays           = 7
)

// Search limits
const (
	DefaultMaxDaysAhead = 30
	MaxMaxDaysAhead     = 365
	DefaultMaxResults   = 20
	MaxMaxResults       = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
