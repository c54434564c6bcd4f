// Package reconcile collapses many bookmakers' quotes for one player and
// market into a single representative value, plus the most favorable quote.
package reconcile

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/albapepper/scoracle-props/internal/odds"
)

// evenMoney is the implied probability alternate lines are anchored to.
const evenMoney = 0.5

// Quote is one bookmaker's posted value for one player in one market.
// Line and Price are nil when the provider did not supply a usable value.
type Quote struct {
	Book   string   `json:"book"`
	Player string   `json:"player"`
	Line   *float64 `json:"line"`
	Price  *int     `json:"price"`
}

// Result is the representative value picked for a quote set. Price is only
// set when an alternate line was chosen by its price.
type Result struct {
	Line  *float64
	Price *int
}

// Lines picks the representative line for quotes.
//
// Main markets use the mean of all lines. Alternate markets are offered at
// many thresholds, so the quote priced closest to even money is used; if no
// quote carries both a line and a price the mean of the lines is used.
// A zero Result means no usable line exists.
func Lines(quotes []Quote, alternate bool) Result {
	if alternate {
		if line, price, ok := closestToEven(quotes); ok {
			return Result{Line: ptr(Round1(line)), Price: ptr(price)}
		}
	}

	mean, ok := MeanLine(quotes)
	if !ok {
		return Result{}
	}
	return Result{Line: ptr(mean)}
}

// closestToEven returns the quote whose implied probability is nearest 0.5.
// Ties keep the first quote seen, so the winner depends on input order.
func closestToEven(quotes []Quote) (line float64, price int, ok bool) {
	bestDiff := math.Inf(1)
	for _, q := range quotes {
		if q.Line == nil || q.Price == nil {
			continue
		}
		prob, err := odds.AmericanToImpliedProbability(*q.Price)
		if err != nil {
			continue
		}
		if d := math.Abs(prob - evenMoney); d < bestDiff {
			line, price, bestDiff, ok = *q.Line, *q.Price, d, true
		}
	}
	return line, price, ok
}

// MeanLine is the arithmetic mean of all present lines, rounded to one
// decimal place.
func MeanLine(quotes []Quote) (float64, bool) {
	var sum float64
	n := 0
	for _, q := range quotes {
		if q.Line != nil {
			sum += *q.Line
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return Round1(sum / float64(n)), true
}

// AveragePrice is the arithmetic mean of the raw American prices present.
func AveragePrice(quotes []Quote) (float64, bool) {
	var sum float64
	n := 0
	for _, q := range quotes {
		if q.Price != nil {
			sum += float64(*q.Price)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// BestLine returns the highest line and its book. First seen wins ties.
func BestLine(quotes []Quote) (*float64, *string) {
	var line *float64
	var book *string
	for _, q := range quotes {
		if q.Line == nil {
			continue
		}
		if line == nil || *q.Line > *line {
			line, book = ptr(*q.Line), ptr(q.Book)
		}
	}
	return line, book
}

// BestPrice returns the highest raw price and its book. First seen wins ties.
func BestPrice(quotes []Quote) (*int, *string) {
	var price *int
	var book *string
	for _, q := range quotes {
		if q.Price == nil {
			continue
		}
		if price == nil || *q.Price > *price {
			price, book = ptr(*q.Price), ptr(q.Book)
		}
	}
	return price, book
}

// Round1 rounds x to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return decimal.NewFromFloat(x).Round(1).InexactFloat64()
}

func ptr[T any](v T) *T { return &v }
