// Package scoring turns one player's reconciled quotes into a 0–100 score
// with an explanation detailed enough to reproduce the score by hand.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/albapepper/scoracle-props/internal/market"
	"github.com/albapepper/scoracle-props/internal/odds"
	"github.com/albapepper/scoracle-props/internal/reconcile"
)

// ErrNoUsableValue means a player has no price (price markets) or no
// representative line (line markets). Such players are left out of results.
var ErrNoUsableValue = errors.New("no usable value")

const (
	PriceFormula = "score = impliedProbability(averageAmericanPrice) × 100"
	LineFormula  = "score = representativeLine ÷ cap × 100"
)

// Explain is the per-regime breakdown attached to every row.
type Explain interface {
	Regime() market.Regime
}

// PriceExplain documents a price-regime score.
type PriceExplain struct {
	Kind         market.Regime `json:"kind"`
	Formula      string        `json:"formula"`
	AvgPrice     int           `json:"avgPrice"`
	AvgPriceRaw  float64       `json:"avgPriceRaw"`
	ImpliedProb  float64       `json:"impliedProb"` // percent, one decimal
	BaseScore    int           `json:"baseScore"`
	BestPrice    *int          `json:"bestPrice"`
	BestBook     *string       `json:"bestBook"`
	TotalContext *float64      `json:"totalContext"`
}

func (PriceExplain) Regime() market.Regime { return market.RegimePrice }

// LineExplain documents a line-regime score.
type LineExplain struct {
	Kind         market.Regime `json:"kind"`
	Formula      string        `json:"formula"`
	RepLine      float64       `json:"repLine"`
	RepPrice     *int          `json:"repPrice,omitempty"` // alternate markets only
	Cap          float64       `json:"cap"`
	BaseScore    int           `json:"baseScore"`
	BestLine     *float64      `json:"bestLine"`
	BestBook     *string       `json:"bestBook"`
	TotalContext *float64      `json:"totalContext"`
}

func (LineExplain) Regime() market.Regime { return market.RegimeLine }

// Row is one player's scored result for one game and market.
type Row struct {
	Player       string            `json:"player"`
	Market       string            `json:"market"`
	ValueType    market.Regime     `json:"valueType"`
	AvgLine      *float64          `json:"avgLine"`
	BestLine     *float64          `json:"bestLine"`
	BestBook     *string           `json:"bestBook"`
	AvgPrice     *int              `json:"avgPrice"`
	BestPrice    *int              `json:"bestPrice"`
	Score        int               `json:"score"`
	TotalContext *float64          `json:"totalContext"`
	Sources      []reconcile.Quote `json:"sources"`
	Explain      Explain           `json:"explain"`
}

// Scorer scores quotes for market keys resolved through its classifier.
type Scorer struct {
	classifier *market.Classifier
}

func NewScorer(c *market.Classifier) *Scorer {
	return &Scorer{classifier: c}
}

// Classify resolves a market key once so callers scoring many players in the
// same market can reuse the classification with Score.
func (s *Scorer) Classify(key string) market.Classification {
	return s.classifier.Classify(key)
}

// ScoreMarket classifies key and scores one player's quotes.
func (s *Scorer) ScoreMarket(player, key string, quotes []reconcile.Quote, totalContext *float64) (Row, error) {
	return Score(player, s.classifier.Classify(key), quotes, totalContext)
}

// Score scores one player's quotes under the market's regime. It returns an
// error wrapping ErrNoUsableValue when the player cannot be scored.
func Score(player string, class market.Classification, quotes []reconcile.Quote, totalContext *float64) (Row, error) {
	switch class.Regime {
	case market.RegimePrice:
		return scorePrice(player, class, quotes, totalContext)
	case market.RegimeLine:
		return scoreLine(player, class, quotes, totalContext)
	default:
		return Row{}, fmt.Errorf("unknown regime %q for market %s", class.Regime, class.Key)
	}
}

// scorePrice averages the raw American prices and converts the average.
// Averaging prices is not the same as averaging probabilities; the raw mean
// is kept so scores stay comparable with previously published numbers.
func scorePrice(player string, class market.Classification, quotes []reconcile.Quote, total *float64) (Row, error) {
	avg, ok := reconcile.AveragePrice(quotes)
	if !ok {
		return Row{}, fmt.Errorf("%w: %s has no price in %s", ErrNoUsableValue, player, class.Key)
	}
	prob, err := odds.ImpliedProbability(avg)
	if err != nil {
		return Row{}, fmt.Errorf("%w: %s average price: %w", ErrNoUsableValue, player, err)
	}

	base := Clamp100(prob * 100)
	score := roundScore(base)
	bestPrice, bestBook := reconcile.BestPrice(quotes)
	avgPrice := roundHalfUp(avg)

	return Row{
		Player:       player,
		Market:       class.Key,
		ValueType:    market.RegimePrice,
		BestBook:     bestBook,
		AvgPrice:     &avgPrice,
		BestPrice:    bestPrice,
		Score:        score,
		TotalContext: total,
		Sources:      quotes,
		Explain: PriceExplain{
			Kind:         market.RegimePrice,
			Formula:      PriceFormula,
			AvgPrice:     avgPrice,
			AvgPriceRaw:  avg,
			ImpliedProb:  reconcile.Round1(prob * 100),
			BaseScore:    score,
			BestPrice:    bestPrice,
			BestBook:     bestBook,
			TotalContext: total,
		},
	}, nil
}

func scoreLine(player string, class market.Classification, quotes []reconcile.Quote, total *float64) (Row, error) {
	rep := reconcile.Lines(quotes, class.Alternate)
	if rep.Line == nil {
		return Row{}, fmt.Errorf("%w: %s has no line in %s", ErrNoUsableValue, player, class.Key)
	}
	if class.Cap <= 0 {
		return Row{}, fmt.Errorf("market %s: cap must be positive, got %v", class.Key, class.Cap)
	}

	base := Clamp100(*rep.Line / class.Cap * 100)
	score := roundScore(base)
	bestLine, bestBook := reconcile.BestLine(quotes)

	return Row{
		Player:       player,
		Market:       class.Key,
		ValueType:    market.RegimeLine,
		AvgLine:      rep.Line,
		BestLine:     bestLine,
		BestBook:     bestBook,
		Score:        score,
		TotalContext: total,
		Sources:      quotes,
		Explain: LineExplain{
			Kind:         market.RegimeLine,
			Formula:      LineFormula,
			RepLine:      *rep.Line,
			RepPrice:     rep.Price,
			Cap:          class.Cap,
			BaseScore:    score,
			BestLine:     bestLine,
			BestBook:     bestBook,
			TotalContext: total,
		},
	}, nil
}

// Clamp100 clamps x into [0,100]. NaN clamps to 0.
func Clamp100(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(100, x))
}

func roundScore(x float64) int {
	return int(math.Round(Clamp100(x)))
}

// roundHalfUp rounds halves toward positive infinity: -15.5 → -15.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
