// Package market classifies odds-provider market keys into a valuation
// regime. Price markets are binary outcomes scored from the price; line
// markets are yardage/count thresholds scored against a per-stat cap.
package market

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Regime is how a market is valued.
type Regime string

const (
	RegimePrice Regime = "price"
	RegimeLine  Regime = "line"
)

// DefaultCap is used for line markets missing from the cap table.
const DefaultCap = 120.0

// Market keys as used by the odds provider.
const (
	KeyAnytimeTD           = "player_anytime_td"
	KeyFirstTD             = "player_1st_td"
	KeyLastTD              = "player_last_td"
	KeyPassYds             = "player_pass_yds"
	KeyPassYdsAlternate    = "player_pass_yds_alternate"
	KeyReceptionYds        = "player_reception_yds"
	KeyReceptionYdsAlt     = "player_reception_yds_alternate"
	KeyRushYds             = "player_rush_yds"
	KeyRushYdsAlternate    = "player_rush_yds_alternate"
	KeyReceptions          = "player_receptions"
	KeyTotals              = "totals"
	KeySpreads             = "spreads"
	PlayerMarketKeyPrefix  = "player_"
	DefaultRequestedMarket = KeyAnytimeTD
)

// Table is the static market configuration a Classifier is built from.
type Table struct {
	PriceKeys  map[string]bool    `yaml:"price_keys"`
	AltKeys    map[string]bool    `yaml:"alt_keys"`
	Caps       map[string]float64 `yaml:"caps"`
	DefaultCap float64            `yaml:"default_cap"`
}

// DefaultTable returns the built-in NFL prop market table.
func DefaultTable() Table {
	return Table{
		PriceKeys: map[string]bool{
			KeyAnytimeTD: true,
			KeyFirstTD:   true,
			KeyLastTD:    true,
		},
		AltKeys: map[string]bool{
			KeyPassYdsAlternate: true,
			KeyReceptionYdsAlt:  true,
			KeyRushYdsAlternate: true,
		},
		Caps: map[string]float64{
			KeyPassYds:          400,
			KeyPassYdsAlternate: 400,
			KeyReceptionYds:     160,
			KeyReceptionYdsAlt:  160,
			KeyRushYds:          160,
			KeyRushYdsAlternate: 160,
			KeyReceptions:       12,
		},
		DefaultCap: DefaultCap,
	}
}

// tableFile is the YAML overlay shape. Keys are lists for readability.
type tableFile struct {
	PriceKeys  []string           `yaml:"price_keys"`
	AltKeys    []string           `yaml:"alt_keys"`
	Caps       map[string]float64 `yaml:"caps"`
	DefaultCap float64            `yaml:"default_cap"`
}

// LoadTable reads a YAML overlay and merges it onto DefaultTable. Listed keys
// are added; caps override per key.
//
//	price_keys: [player_2nd_td]
//	alt_keys: [player_receptions_alternate]
//	caps:
//	  player_receptions_alternate: 12
//	default_cap: 120
func LoadTable(path string) (Table, error) {
	t := DefaultTable()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read market table: %w", err)
	}

	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return t, fmt.Errorf("parse market table %s: %w", path, err)
	}

	for _, k := range f.PriceKeys {
		t.PriceKeys[k] = true
	}
	for _, k := range f.AltKeys {
		t.AltKeys[k] = true
	}
	for k, v := range f.Caps {
		if v <= 0 {
			return t, fmt.Errorf("market table %s: cap for %q must be positive", path, k)
		}
		t.Caps[k] = v
	}
	if f.DefaultCap < 0 {
		return t, fmt.Errorf("market table %s: default_cap must be positive", path)
	}
	if f.DefaultCap > 0 {
		t.DefaultCap = f.DefaultCap
	}
	return t, nil
}

// Classification is the result of classifying a market key.
type Classification struct {
	Key       string  `json:"key"`
	Regime    Regime  `json:"regime"`
	Alternate bool    `json:"alternate"`
	Cap       float64 `json:"cap,omitempty"` // line regime only
}

// Classifier maps market keys to their valuation regime. It copies its table
// on construction and never mutates it, so it is safe for concurrent use.
type Classifier struct {
	table Table
}

// NewClassifier creates a classifier over a copy of t.
func NewClassifier(t Table) *Classifier {
	c := Table{
		PriceKeys:  make(map[string]bool, len(t.PriceKeys)),
		AltKeys:    make(map[string]bool, len(t.AltKeys)),
		Caps:       make(map[string]float64, len(t.Caps)),
		DefaultCap: t.DefaultCap,
	}
	for k, v := range t.PriceKeys {
		c.PriceKeys[k] = v
	}
	for k, v := range t.AltKeys {
		c.AltKeys[k] = v
	}
	for k, v := range t.Caps {
		c.Caps[k] = v
	}
	if c.DefaultCap <= 0 {
		c.DefaultCap = DefaultCap
	}
	return &Classifier{table: c}
}

// Classify returns the regime for key. Unknown keys are line markets with the
// default cap.
func (c *Classifier) Classify(key string) Classification {
	if c.table.PriceKeys[key] {
		return Classification{Key: key, Regime: RegimePrice}
	}

	limit, ok := c.table.Caps[key]
	if !ok {
		limit = c.table.DefaultCap
	}
	return Classification{
		Key:       key,
		Regime:    RegimeLine,
		Alternate: c.table.AltKeys[key],
		Cap:       limit,
	}
}
