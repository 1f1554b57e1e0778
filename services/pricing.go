package services

import (
	"fmt"
	"math/rand/v2"
)

// Print pricing is flat-rate: page count is not modeled.
const (
	printBaseFee   = 5.0
	printColorRate = 3.0
	printBWRate    = 1.5
)

func printJobPrice(copies int, color string) float64 {
	rate := printBWRate
	if color == "color" {
		rate = printColorRate
	}
	return printBaseFee + float64(copies)*rate
}

// GeneratePickupCode returns a 6-digit code in [100000, 999999]. The code is
// shown to the vendor at pickup; it is informational, not a security
// boundary, and uniqueness across orders is not enforced.
func GeneratePickupCode() string {
	return fmt.Sprintf("%d", 100000+rand.IntN(900000))
}
