package statistics

import "math"

// Round rounds x half away from zero to the given number of decimal
// places
func Round(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

// Pearson returns the correlation coefficient between x and y rounded
// to two decimals; ok is false when the coefficient is undefined, that
// is with less than two paired observations or when either series has
// no variance. Series of different length are truncated to the shorter
// one. The result isn't clamped to [-1, 1].
func Pearson(x, y []float64) (coefficient float64, ok bool) {
	n := min(len(x), len(y))
	if n < 2 {
		return 0, false
	}
	x, y = x[:n], y[:n]

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)

	var numerator, denominatorX, denominatorY float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-meanX, y[i]-meanY
		numerator += dx * dy
		denominatorX += dx * dx
		denominatorY += dy * dy
	}
	denominator := math.Sqrt(denominatorX * denominatorY)
	if denominator == 0 {
		return 0, false
	}
	return Round(numerator/denominator, 2), true
}
