package review

// Swipe classification: a continuous horizontal displacement signal becomes
// a discrete decision only at gesture release. The session never sees raw
// drag deltas, only the resolved decision.

// DefaultSwipeThreshold is the release displacement, in normalized
// screen-width-independent units, past which a swipe counts as a decision.
const DefaultSwipeThreshold = 120.0

// SwipeClassifier maps a terminal drag displacement to a decision.
// Positive displacement (right) keeps, negative (left) deletes.
type SwipeClassifier struct {
	Threshold float64
}

// NewSwipeClassifier returns a classifier with the default threshold
func NewSwipeClassifier() SwipeClassifier {
	return SwipeClassifier{Threshold: DefaultSwipeThreshold}
}

// Classify resolves a released drag. Insufficient displacement resolves to
// no decision and the visual resets to neutral.
func (c SwipeClassifier) Classify(displacement float64) (Decision, bool) {
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	if displacement > threshold {
		return DecisionKeep, true
	}
	if displacement < -threshold {
		return DecisionDelete, true
	}
	return DecisionKeep, false
}

// KeepLabelOpacity derives the "keep" label opacity from the live drag
// displacement: 0 at +20 units, fully opaque at +100, clamped.
func KeepLabelOpacity(displacement float64) float64 {
	return interpolateClamped(displacement, 20, 100, 0, 1)
}

// DeleteLabelOpacity derives the "delete" label opacity: fully opaque at
// -100 units, 0 at -20, clamped.
func DeleteLabelOpacity(displacement float64) float64 {
	return interpolateClamped(displacement, -100, -20, 1, 0)
}

// CardRotation derives the card tilt in degrees from the drag displacement,
// ±15° across ±half the reference width.
func CardRotation(displacement, halfWidth float64) float64 {
	if halfWidth <= 0 {
		return 0
	}
	return interpolateClamped(displacement, -halfWidth, halfWidth, -15, 15)
}

func interpolateClamped(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	t := (v - inLo) / (inHi - inLo)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return outLo + t*(outHi-outLo)
}
