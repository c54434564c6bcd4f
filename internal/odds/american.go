// Package odds converts between American fixed-odds prices and implied
// probabilities. Probabilities are raw single-book values: no vig removal.
package odds

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroPrice is returned for a price of 0, which is not a legal
	// American price.
	ErrZeroPrice = errors.New("invalid American price: cannot be 0")

	// ErrInvalidProbability is returned for probabilities outside (0,1).
	ErrInvalidProbability = errors.New("invalid probability: must be between 0 and 1")
)

// AmericanToImpliedProbability converts an American price to its implied
// probability.
//
//	-150 → 0.600
//	+120 → 0.4545
func AmericanToImpliedProbability(price int) (float64, error) {
	return ImpliedProbability(float64(price))
}

// ImpliedProbability is AmericanToImpliedProbability over a real-valued
// price. Averaged prices are not integers, so the scorer converts through
// this form.
func ImpliedProbability(price float64) (float64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("invalid American price: %v", price)
	}
	if price == 0 {
		return 0, ErrZeroPrice
	}

	if price < 0 {
		// Favorite: |p| / (|p| + 100)
		return -price / (-price + 100), nil
	}
	// Underdog: 100 / (p + 100)
	return 100 / (price + 100), nil
}

// ProbabilityToAmerican converts an implied probability back to the nearest
// American price.
//
//	0.60 → -150
//	0.40 → +150
func ProbabilityToAmerican(p float64) (int, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, ErrInvalidProbability
	}

	if p > 0.5 {
		return int(math.Round(-100 * p / (1 - p))), nil
	}
	return int(math.Round(100 * (1 - p) / p)), nil
}
