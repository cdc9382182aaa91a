package render

import opensimplex "github.com/ojrac/opensimplex-go"

// Noise frequencies in cycles per pixel.
const (
	grainFreq  = 0.03
	wobbleFreq = 0.15
)

// fractal sums octaves of normalized simplex noise, halving the amplitude
// and doubling the frequency each time. The result stays in [0, 1].
func fractal(noise opensimplex.Noise, x, y, freq float64, octaves int) float64 {
	var sum, norm float64
	amp := 1.0
	for i := 0; i < octaves; i++ {
		sum += noise.Eval2(x*freq, y*freq) * amp
		norm += amp
		amp /= 2
		freq *= 2
	}
	return sum / norm
}

// grainAt is the paper brightness offset at an output pixel, in [-1, 1].
func grainAt(noise opensimplex.Noise, x, y float64) float64 {
	return fractal(noise, x, y, grainFreq, 3)*2 - 1
}

// wobble is the hand-drawn displacement of a path point, each axis in
// [-1, 1]. salt separates paths that share points.
func wobble(noise opensimplex.Noise, x, y, salt float64) (dx, dy float64) {
	dx = fractal(noise, x+salt*97, y, wobbleFreq, 2)*2 - 1
	dy = fractal(noise, x, y+salt*89+1000, wobbleFreq, 2)*2 - 1
	return dx, dy
}
