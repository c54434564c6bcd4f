// Package matchup blends role, opponent-defense and game-context signals into
// a single 0–100 matchup score for one player against one opponent.
package matchup

import (
	"fmt"
	"math"
)

// Position is a fantasy-relevant offensive position.
type Position string

const (
	QB Position = "QB"
	RB Position = "RB"
	WR Position = "WR"
	TE Position = "TE"
)

// Role is a player's usage profile.
type Role struct {
	PlayerID             string   `json:"playerId"`
	Name                 string   `json:"name"`
	Team                 string   `json:"team"`
	Pos                  Position `json:"pos"`
	Opp                  string   `json:"opp"`
	RoutesPerGame        float64  `json:"routesPerGame"`
	TargetShare          float64  `json:"targetShare"`  // 0..1
	RushShare            float64  `json:"rushShare"`    // 0..1
	RedZoneShare         float64  `json:"redZoneShare"` // 0..1
	Last4GamesPerGameYds float64  `json:"last4GamesPerGameYds"`
	BaselineYdsPerGame   float64  `json:"baselineYdsPerGame"`
}

// Defense is an opponent's opponent-adjusted performance against a position.
type Defense struct {
	Team               string   `json:"team"`
	Pos                Position `json:"pos"`
	EPAPerPlayAllowed  float64  `json:"epaPerPlayAllowed"`
	SuccessRateAllowed float64  `json:"successRateAllowed"` // 0..1
	YdsPerGameAllowed  float64  `json:"ydsPerGameAllowed"`
}

// Vegas is the betting-market game context for the player's team.
type Vegas struct {
	ImpliedFor float64 `json:"impliedFor"`
	Spread     float64 `json:"spread"`
	Total      float64 `json:"total"`
}

// Inputs bundles everything needed to score one matchup.
type Inputs struct {
	Role    Role    `json:"role"`
	Defense Defense `json:"dvoaLike"`
	Vegas   Vegas   `json:"vegas"`
}

// Part is one weighted, normalized ingredient of a Component.
type Part struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Component is one weighted signal of the final score.
type Component struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
	Parts  []Part  `json:"parts,omitempty"`
}

// Breakdown is the blended score with every component surfaced.
type Breakdown struct {
	Score      float64     `json:"score"`
	Components []Component `json:"components"`
}

// Component labels, in output order.
const (
	LabelDefense = "Opponent Adjusted Defense"
	LabelRole    = "Role & Usage"
	LabelVegas   = "Vegas Context"
	LabelTrend   = "Recent Trend (4g)"
	LabelRedZone = "Red-Zone Share"
)

// Component weights. They sum to 1.
const (
	WeightDefense = 0.35
	WeightRole    = 0.25
	WeightVegas   = 0.15
	WeightTrend   = 0.15
	WeightRedZone = 0.10
)

const (
	routesCeiling  = 35.0
	minVegasTotal  = 10.0
	spreadCeiling  = 30.0
	neutralTrend   = 50.0
	defaultYardCap = 100.0
)

// YardCaps maps a position to the yards-allowed-per-game that scores 100.
type YardCaps map[Position]float64

// DefaultYardCaps returns the built-in position caps. Positions not listed
// use 100.
func DefaultYardCaps() YardCaps {
	return YardCaps{WR: 200, RB: 140}
}

// Blender computes matchup breakdowns. It is immutable and safe for
// concurrent use.
type Blender struct {
	caps YardCaps
}

// NewBlender creates a blender over a copy of caps. Nil caps means defaults.
func NewBlender(caps YardCaps) (*Blender, error) {
	if caps == nil {
		caps = DefaultYardCaps()
	}
	c := make(YardCaps, len(caps))
	for pos, v := range caps {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("yard cap for %s must be positive, got %v", pos, v)
		}
		c[pos] = v
	}
	return &Blender{caps: c}, nil
}

func (b *Blender) yardCap(pos Position) float64 {
	if v, ok := b.caps[pos]; ok {
		return v
	}
	return defaultYardCap
}

// Compute scores one matchup. Yards are capped by the player's position.
func (b *Blender) Compute(in Inputs) Breakdown {
	r, d, v := in.Role, in.Defense, in.Vegas

	components := []Component{
		blend(LabelDefense, WeightDefense,
			Part{"EPA/play allowed", clamp(60 - d.EPAPerPlayAllowed*100), 0.45},
			Part{"Success rate allowed", clamp(60 - d.SuccessRateAllowed*60), 0.25},
			Part{"Yards/game allowed", clamp(d.YdsPerGameAllowed / b.yardCap(r.Pos) * 100), 0.30},
		),
		blend(LabelRole, WeightRole,
			Part{"Routes/game", clamp(r.RoutesPerGame / routesCeiling * 100), 0.5},
			Part{"Target share", clamp(r.TargetShare * 100), 0.4},
			Part{"Rush share", clamp(r.RushShare * 100), 0.1},
		),
		blend(LabelVegas, WeightVegas,
			Part{"Implied points", clamp(v.ImpliedFor / math.Max(minVegasTotal, v.Total) * 100), 0.7},
			Part{"Spread closeness", clamp((spreadCeiling - math.Abs(v.Spread)) / spreadCeiling * 100), 0.3},
		),
		{Label: LabelTrend, Value: trend(r.Last4GamesPerGameYds, r.BaselineYdsPerGame), Weight: WeightTrend},
		{Label: LabelRedZone, Value: clamp(r.RedZoneShare * 100), Weight: WeightRedZone},
	}

	var score float64
	for _, c := range components {
		score += c.Value * c.Weight
	}
	return Breakdown{Score: clamp(score), Components: components}
}

func blend(label string, weight float64, parts ...Part) Component {
	var v float64
	for _, p := range parts {
		v += p.Value * p.Weight
	}
	return Component{Label: label, Value: v, Weight: weight, Parts: parts}
}

// trend maps the relative change of the last-4 average over the baseline onto
// 0..100 around a neutral 50. A non-positive baseline has no trend.
func trend(last4, baseline float64) float64 {
	if baseline <= 0 {
		return neutralTrend
	}
	delta := (last4 - baseline) / baseline
	return clamp(neutralTrend + delta*50)
}

func clamp(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(100, x))
}
