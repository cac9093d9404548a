package stats

// Band is a severity bucket for a single reading
type Band int

const (
	BandLow Band = iota
	BandNormal
	BandElevated
	BandHigh
)

// Clinical thresholds in mg/dL
const (
	HypoglycemiaFloor  = 70
	FastingNormalMax   = 100
	FastingElevatedMax = 125
	NormalMax          = 140
	DangerThreshold    = 200
)

// String returns the band name
func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandNormal:
		return "normal"
	case BandElevated:
		return "elevated"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Classify puts a reading into exactly one band. Fasting readings use the
// stricter 100/125 ceilings; non-fasting readings use 140/200.
func Classify(glucose int, fasting bool) Band {
	if glucose < HypoglycemiaFloor {
		return BandLow
	}
	if fasting {
		switch {
		case glucose <= FastingNormalMax:
			return BandNormal
		case glucose <= FastingElevatedMax:
			return BandElevated
		default:
			return BandHigh
		}
	}
	switch {
	case glucose <= NormalMax:
		return BandNormal
	case glucose <= DangerThreshold:
		return BandElevated
	default:
		return BandHigh
	}
}
