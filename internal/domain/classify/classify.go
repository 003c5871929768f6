// Package classify maps PDG particle codes to signed pion classes.
package classify

// PDG codes of the charged pions.
const (
	PiPlus  = 211
	PiMinus = -211
	PiZero  = 111
)

// Class is the signed class of a particle.
type Class int

// Classes. Neutral covers every code that is neither charged pion.
const (
	Negative Class = -1
	Neutral  Class = 0
	Positive Class = 1
)

// Classify returns Positive for 211, Negative for -211 and Neutral otherwise.
func Classify(code int) Class {
	switch code {
	case PiPlus:
		return Positive
	case PiMinus:
		return Negative
	default:
		return Neutral
	}
}

func (c Class) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Describe names the particle species for human-readable listings.
func Describe(code int) string {
	switch code {
	case PiPlus:
		return "positive pion"
	case PiMinus:
		return "negative pion"
	case PiZero:
		return "neutral pion"
	default:
		return "not a pion"
	}
}
