package fov

// Tier is a display bucket for visibility falloff.
type Tier int

const (
	TierHidden Tier = iota
	TierFar
	TierMid
	TierNear
)

// Tier thresholds.
const (
	farBelow = 0.3
	midBelow = 0.6
)

// TierOf buckets a falloff value.
func TierOf(v float64) Tier {
	switch {
	case v <= 0:
		return TierHidden
	case v < farBelow:
		return TierFar
	case v < midBelow:
		return TierMid
	default:
		return TierNear
	}
}

// String returns a human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierHidden:
		return "hidden"
	case TierFar:
		return "far"
	case TierMid:
		return "mid"
	case TierNear:
		return "near"
	default:
		return "unknown"
	}
}
