package transform

import "math"

// Epsilon is the default tolerance used when comparing transforms.
const Epsilon = 1e-9

// NearlyEquals compares two floats using an absolute tolerance for values
// near zero and a relative one elsewhere.
func NearlyEquals(a, b, epsilon float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if a == 0 || b == 0 || diff < math.SmallestNonzeroFloat64 {
		return diff < epsilon
	}
	return diff/(math.Abs(a)+math.Abs(b)) < epsilon || diff < epsilon
}

func Deg2Rad(d float64) float64 { return d * math.Pi / 180 }
func Rad2Deg(r float64) float64 { return r * 180 / math.Pi }
