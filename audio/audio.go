package audio

// Audio is a buffer of samples.
type Audio []float64

func (z Audio) Zero() Audio {
	for i := range z {
		z[i] = 0
	}
	return z
}
