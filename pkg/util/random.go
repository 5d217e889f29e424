package util

import (
	"fmt"
	"math/rand"
)

// GenerateRandomNumber generates a random number between min and max (inclusive)
func GenerateRandomNumber(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// GeneratePaymentCode builds the code a customer quotes at a convenience
// store terminal, e.g. "ORD-42-8317".
func GeneratePaymentCode(orderID uint) string {
	return fmt.Sprintf("ORD-%d-%04d", orderID, GenerateRandomNumber(0, 9999))
}
