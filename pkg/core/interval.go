package core

import "math"

// Interval is a range of ray parameters. Missing bounds are infinite.
type Interval struct {
	Min, Max float64
}

// NewInterval creates an interval from min to max
func NewInterval(minVal, maxVal float64) Interval {
	return Interval{Min: minVal, Max: maxVal}
}

// Unbounded returns (-inf, +inf)
func Unbounded() Interval {
	return Interval{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Contains reports whether min <= t <= max
func (i Interval) Contains(t float64) bool {
	return i.Min <= t && t <= i.Max
}

// Surrounds reports whether min < t < max
func (i Interval) Surrounds(t float64) bool {
	return i.Min < t && t < i.Max
}

// Clamp limits t to the interval
func (i Interval) Clamp(t float64) float64 {
	if t < i.Min {
		return i.Min
	}
	if t > i.Max {
		return i.Max
	}
	return t
}

// WithMax returns a copy of the interval with a new upper bound
func (i Interval) WithMax(maxVal float64) Interval {
	return Interval{Min: i.Min, Max: maxVal}
}
