package model

import "strings"

// TimePeriod identifies one of the dosing buckets of a day. Each bucket
// has its own classifier/regressor pair.
type TimePeriod string

const (
	Morning   TimePeriod = "morning"
	Afternoon TimePeriod = "afternoon"
	Night     TimePeriod = "night"
)

// TimePeriods returns the known periods in their canonical order.
func TimePeriods() []TimePeriod {
	return []TimePeriod{Morning, Afternoon, Night}
}

// ParseTimePeriod lower-cases raw client input. Surrounding whitespace is
// kept, so " morning " is not a known period. The second return value
// reports whether the result is a known period.
func ParseTimePeriod(raw string) (TimePeriod, bool) {
	p := TimePeriod(strings.ToLower(raw))
	switch p {
	case Morning, Afternoon, Night:
		return p, true
	}
	return p, false
}

// ArtifactSuffix is the period name used in model file names. The night
// bucket is trained on the evening dose, so its files carry "evening".
func (p TimePeriod) ArtifactSuffix() string {
	if p == Night {
		return "evening"
	}
	return string(p)
}

func (p TimePeriod) String() string { return string(p) }
