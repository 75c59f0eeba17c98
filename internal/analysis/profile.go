package analysis

const (
	// DefaultMaxHR is used when neither max HR nor age is known
	DefaultMaxHR = 190
	// DefaultRestingHR is used when the profile has no resting HR
	DefaultRestingHR = 60
)

// UserProfile holds the athlete settings the analytics depend on.
// All fields are optional.
type UserProfile struct {
	MaxHeartRate     *float64
	RestingHeartRate *float64
	Age              *int
}

// EstimatedMaxHR returns the configured max HR, else 220 - age, else
// DefaultMaxHR. It is derived on every call so profile edits are never stale.
func (p UserProfile) EstimatedMaxHR() float64 {
	if p.MaxHeartRate != nil && *p.MaxHeartRate > 0 {
		return *p.MaxHeartRate
	}
	if p.Age != nil && *p.Age > 0 {
		return float64(220 - *p.Age)
	}
	return DefaultMaxHR
}

// RestingHR returns the configured resting HR or DefaultRestingHR
func (p UserProfile) RestingHR() float64 {
	if p.RestingHeartRate != nil && *p.RestingHeartRate > 0 {
		return *p.RestingHeartRate
	}
	return DefaultRestingHR
}
