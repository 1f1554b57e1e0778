package utils

import "fmt"

// FormatINR renders an amount with the rupee sign and two decimals, the way
// menu and order amounts are shown in replies.
func FormatINR(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}
