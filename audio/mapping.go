package audio

// Map linearly remaps v from [inMin, inMax] to [outMin, outMax]. Values
// outside the input range are extrapolated, not clamped. inMax must differ
// from inMin.
func Map(v, inMin, inMax, outMin, outMax float64) float64 {
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Range is a closed interval used by configuration and mapping.
type Range [2]float64

func (r Range) Min() float64   { return r[0] }
func (r Range) Max() float64   { return r[1] }
func (r Range) Width() float64 { return r[1] - r[0] }

// Normalize maps v from r onto [0, 1] and clamps.
func (r Range) Normalize(v float64) float64 {
	return Clamp(Map(v, r[0], r[1], 0, 1), 0, 1)
}

// Denormalize maps v from [0, 1] onto r without clamping.
func (r Range) Denormalize(v float64) float64 {
	return Map(v, 0, 1, r[0], r[1])
}
