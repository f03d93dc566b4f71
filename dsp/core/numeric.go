package core

import "math"

const (
	defaultEpsilon = 1e-12

	// FloorDB is the level reported for silence and for non-positive amplitudes.
	FloorDB = -100.0

	// antiDenormal is added and subtracted again to push denormals to zero.
	antiDenormal = 1e-18
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// RoundToZero flushes denormal values by adding and subtracting a tiny offset.
// Values far above the offset pass through unchanged.
func RoundToZero(x float64) float64 {
	x += antiDenormal
	x -= antiDenormal

	return x
}

// BranchlessMax returns max(x, a) as a + (|x-a| + (x-a))/2.
func BranchlessMax(x, a float64) float64 {
	x -= a
	x += math.Abs(x)
	x *= 0.5

	return x + a
}

// Lerp interpolates linearly from a (f=0) to b (f=1).
func Lerp(f, a, b float64) float64 {
	return a + f*(b-a)
}

// RoundToInt rounds half away from zero and converts to int.
func RoundToInt(x float64) int {
	return int(math.Round(x))
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Zero and negative amplitudes map to FloorDB.
func LinearToDB(linear float64) float64 {
	if linear <= 0 {
		return FloorDB
	}

	return 20 * math.Log10(linear)
}
