package common

import "math"

// DecimalToFixed rounds num to the given number of decimal places.
// Serialized floats carry pseudo-precision otherwise; nobody needs
// fourteen digits of a meter count.
func DecimalToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return math.Round(num*output) / output
}
