package matchup

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func mustBlender(t *testing.T, caps YardCaps) *Blender {
	t.Helper()
	b, err := NewBlender(caps)
	if err != nil {
		t.Fatalf("NewBlender: %v", err)
	}
	return b
}

func find(t *testing.T, bd Breakdown, label string) Component {
	t.Helper()
	for _, c := range bd.Components {
		if c.Label == label {
			return c
		}
	}
	t.Fatalf("component %q missing", label)
	return Component{}
}

func TestCompute_DefenseComponent(t *testing.T) {
	b := mustBlender(t, nil)
	bd := b.Compute(Inputs{
		Role:    Role{Pos: WR},
		Defense: Defense{EPAPerPlayAllowed: 0.1, SuccessRateAllowed: 0.4, YdsPerGameAllowed: 120},
	})

	// (60-10)×0.45 + (60-24)×0.25 + 60×0.30 = 22.5 + 9 + 18
	def := find(t, bd, LabelDefense)
	if !near(def.Value, 49.5) {
		t.Errorf("defense = %v, want 49.5", def.Value)
	}
	if def.Weight != WeightDefense || len(def.Parts) != 3 {
		t.Errorf("defense component = %+v", def)
	}
}

func TestCompute_YardCapByPosition(t *testing.T) {
	b := mustBlender(t, nil)
	tests := []struct {
		pos  Position
		yds  float64
		want float64
	}{
		{WR, 100, 50},
		{RB, 140, 100},
		{RB, 70, 50},
		{TE, 140, 100}, // clamped
		{QB, 50, 50},
	}

	for _, tt := range tests {
		bd := b.Compute(Inputs{Role: Role{Pos: tt.pos}, Defense: Defense{YdsPerGameAllowed: tt.yds}})
		got := find(t, bd, LabelDefense).Parts[2].Value
		if !near(got, tt.want) {
			t.Errorf("%s %v yds part = %v, want %v", tt.pos, tt.yds, got, tt.want)
		}
	}
}

func TestCompute_InjectedYardCaps(t *testing.T) {
	b := mustBlender(t, YardCaps{TE: 80})
	bd := b.Compute(Inputs{Role: Role{Pos: TE}, Defense: Defense{YdsPerGameAllowed: 40}})
	if got := find(t, bd, LabelDefense).Parts[2].Value; !near(got, 50) {
		t.Errorf("yards part = %v, want 50", got)
	}

	// Caps not listed fall back to 100, including WR once overridden.
	bd = b.Compute(Inputs{Role: Role{Pos: WR}, Defense: Defense{YdsPerGameAllowed: 40}})
	if got := find(t, bd, LabelDefense).Parts[2].Value; !near(got, 40) {
		t.Errorf("yards part = %v, want 40", got)
	}
}

func TestNewBlender_RejectsBadCaps(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewBlender(YardCaps{WR: v}); err == nil {
			t.Errorf("cap %v accepted", v)
		}
	}
}

func TestCompute_Trend(t *testing.T) {
	b := mustBlender(t, nil)
	tests := []struct {
		name        string
		last4, base float64
		want        float64
	}{
		{"no baseline", 80, 0, 50},
		{"negative baseline", 80, -5, 50},
		{"flat", 60, 60, 50},
		{"up 50%", 90, 60, 75},
		{"down 50%", 30, 60, 25},
		{"doubled clamps", 200, 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := b.Compute(Inputs{Role: Role{Last4GamesPerGameYds: tt.last4, BaselineYdsPerGame: tt.base}})
			if got := find(t, bd, LabelTrend).Value; !near(got, tt.want) {
				t.Errorf("trend = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompute_RoleAndVegas(t *testing.T) {
	b := mustBlender(t, nil)
	bd := b.Compute(Inputs{
		Role:  Role{RoutesPerGame: 35, TargetShare: 0.25, RushShare: 0},
		Vegas: Vegas{ImpliedFor: 24, Total: 48, Spread: -3},
	})

	// 100×0.5 + 25×0.4 + 0×0.1
	if got := find(t, bd, LabelRole).Value; !near(got, 60) {
		t.Errorf("role = %v, want 60", got)
	}
	// 50×0.7 + 90×0.3
	if got := find(t, bd, LabelVegas).Value; !near(got, 62) {
		t.Errorf("vegas = %v, want 62", got)
	}

	// Totals below 10 are floored.
	bd = b.Compute(Inputs{Vegas: Vegas{ImpliedFor: 5, Total: 2}})
	if got := find(t, bd, LabelVegas).Parts[0].Value; !near(got, 50) {
		t.Errorf("implied part = %v, want 50", got)
	}
}

func TestCompute_WeightsAndOrder(t *testing.T) {
	b := mustBlender(t, nil)
	bd := b.Compute(Inputs{})

	want := []string{LabelDefense, LabelRole, LabelVegas, LabelTrend, LabelRedZone}
	if len(bd.Components) != len(want) {
		t.Fatalf("got %d components", len(bd.Components))
	}
	var sum float64
	for i, c := range bd.Components {
		if c.Label != want[i] {
			t.Errorf("component %d = %q, want %q", i, c.Label, want[i])
		}
		sum += c.Weight
		var partSum float64
		for _, p := range c.Parts {
			partSum += p.Weight
		}
		if len(c.Parts) > 0 && !near(partSum, 1) {
			t.Errorf("%s part weights sum to %v", c.Label, partSum)
		}
	}
	if !near(sum, 1) {
		t.Errorf("weights sum to %v, want 1", sum)
	}
}

func TestCompute_ScoreIsWeightedSumAndClamped(t *testing.T) {
	b := mustBlender(t, nil)

	in := Inputs{
		Role:    Role{Pos: RB, RoutesPerGame: 20, TargetShare: 0.12, RushShare: 0.6, RedZoneShare: 0.4, Last4GamesPerGameYds: 70, BaselineYdsPerGame: 60},
		Defense: Defense{EPAPerPlayAllowed: 0.05, SuccessRateAllowed: 0.45, YdsPerGameAllowed: 110},
		Vegas:   Vegas{ImpliedFor: 23.5, Total: 44.5, Spread: -2.5},
	}
	bd := b.Compute(in)

	var want float64
	for _, c := range bd.Components {
		want += c.Value * c.Weight
	}
	if !near(bd.Score, want) {
		t.Errorf("score = %v, want %v", bd.Score, want)
	}

	extreme := b.Compute(Inputs{
		Role:    Role{RoutesPerGame: 1e6, TargetShare: 50, RushShare: 50, RedZoneShare: 50, Last4GamesPerGameYds: 1e6, BaselineYdsPerGame: 1},
		Defense: Defense{EPAPerPlayAllowed: -50, SuccessRateAllowed: -50, YdsPerGameAllowed: 1e6},
		Vegas:   Vegas{ImpliedFor: 1e6, Total: 1, Spread: 0},
	})
	if extreme.Score != 100 {
		t.Errorf("extreme score = %v, want 100", extreme.Score)
	}

	low := b.Compute(Inputs{
		Role:    Role{RoutesPerGame: -10, TargetShare: -1, Last4GamesPerGameYds: 0, BaselineYdsPerGame: 10},
		Defense: Defense{EPAPerPlayAllowed: 5, SuccessRateAllowed: 5, YdsPerGameAllowed: -100},
		Vegas:   Vegas{ImpliedFor: -10, Total: 40, Spread: 100},
	})
	if low.Score != 0 {
		t.Errorf("low score = %v, want 0", low.Score)
	}
}
