package risk

type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

const (
	moderateFloor = 40.0
	highFloor     = 70.0
)

func TierFor(score float64) Tier {
	switch {
	case score >= highFloor:
		return TierHigh
	case score >= moderateFloor:
		return TierModerate
	default:
		return TierLow
	}
}

func (t Tier) Valid() bool {
	switch t {
	case TierLow, TierModerate, TierHigh:
		return true
	}
	return false
}

// Tiers lists tiers from lowest to highest.
func Tiers() []Tier {
	return []Tier{TierLow, TierModerate, TierHigh}
}
