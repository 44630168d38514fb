package expense

import (
	"fmt"
	"math"
	"time"
)

// NormalizeAmount converts a claimed amount to the base currency.
//
// For international items the caller-supplied exchange rate must be a finite
// number greater than zero; a missing or non-positive rate is a validation
// failure, never silently defaulted. Domestic items ignore the supplied rate
// and convert 1:1.
func NormalizeAmount(claimedAmount, exchangeRate float64, isInternational bool) (float64, error) {
	if !isInternational {
		return claimedAmount, nil
	}
	if math.IsNaN(exchangeRate) || math.IsInf(exchangeRate, 0) || exchangeRate <= 0 {
		return 0, fmt.Errorf("exchange rate must be a positive number for international items, got %v", exchangeRate)
	}
	return claimedAmount * exchangeRate, nil
}

// ComputeTotal returns the sum of base-currency amounts over all line items.
// The stored total of a claim must equal this sum at all times.
func ComputeTotal(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.BaseAmount
	}
	return total
}

// DeriveClaimDate returns the effective date of a claim: the expense date of
// the first line item, falling back to the creation time when no item carries
// a date.
func DeriveClaimDate(items []LineItem, createdAt time.Time) time.Time {
	if len(items) > 0 && !items[0].ExpenseDate.IsZero() {
		return items[0].ExpenseDate
	}
	return createdAt
}
