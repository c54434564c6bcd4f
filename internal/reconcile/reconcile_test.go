package reconcile

import (
	"testing"
)

func line(v float64) *float64 { return &v }
func price(v int) *int        { return &v }

func TestLines_MainMarketMean(t *testing.T) {
	quotes := []Quote{
		{Book: "A", Player: "P", Line: line(80), Price: price(-120)},
		{Book: "B", Player: "P", Line: line(85), Price: price(105)},
	}

	got := Lines(quotes, false)
	if got.Line == nil || *got.Line != 82.5 {
		t.Fatalf("representative line = %v, want 82.5", got.Line)
	}
	if got.Price != nil {
		t.Errorf("main market should not carry a price, got %d", *got.Price)
	}

	best, book := BestLine(quotes)
	if best == nil || *best != 85 || book == nil || *book != "B" {
		t.Errorf("best = %v/%v, want 85/B", best, book)
	}
}

func TestLines_MeanRoundsToOneDecimal(t *testing.T) {
	quotes := []Quote{
		{Book: "A", Line: line(60.5)},
		{Book: "B", Line: line(61.5)},
		{Book: "C", Line: line(62.5)},
		{Book: "D", Line: line(63)},
	}
	// mean = 61.875
	got := Lines(quotes, false)
	if got.Line == nil || *got.Line != 61.9 {
		t.Fatalf("line = %v, want 61.9", got.Line)
	}
}

func TestLines_MeanOrderIndependent(t *testing.T) {
	a := []Quote{
		{Book: "A", Line: line(44.5)},
		{Book: "B", Line: line(47.5)},
		{Book: "C", Line: line(45.5)},
	}
	b := []Quote{a[2], a[0], a[1]}

	la, lb := Lines(a, false), Lines(b, false)
	if *la.Line != *lb.Line {
		t.Errorf("mean depends on order: %v vs %v", *la.Line, *lb.Line)
	}
}

func TestLines_AlternateClosestToEven(t *testing.T) {
	quotes := []Quote{
		{Book: "A", Line: line(50), Price: price(-200)}, // 0.667
		{Book: "B", Line: line(100), Price: price(150)}, // 0.400
	}

	got := Lines(quotes, true)
	if got.Line == nil || *got.Line != 100 {
		t.Fatalf("line = %v, want 100", got.Line)
	}
	if got.Price == nil || *got.Price != 150 {
		t.Fatalf("price = %v, want 150", got.Price)
	}
}

func TestLines_AlternateTieFirstSeenWins(t *testing.T) {
	quotes := []Quote{
		{Book: "A", Line: line(70.5), Price: price(-110)},
		{Book: "B", Line: line(90.5), Price: price(-110)},
		{Book: "C", Line: line(40.5), Price: price(-400)},
	}
	got := Lines(quotes, true)
	if *got.Line != 70.5 {
		t.Errorf("first seen should win the tie, got %v", *got.Line)
	}

	reversed := []Quote{quotes[1], quotes[0], quotes[2]}
	got = Lines(reversed, true)
	if *got.Line != 90.5 {
		t.Errorf("first seen should win the tie after reorder, got %v", *got.Line)
	}
}

func TestLines_AlternateFallbackToMean(t *testing.T) {
	quotes := []Quote{
		{Book: "A", Line: line(60)},
		{Book: "B", Line: line(65)},
		{Book: "C", Price: price(-110)},
	}
	got := Lines(quotes, true)
	if got.Line == nil || *got.Line != 62.5 {
		t.Fatalf("line = %v, want 62.5", got.Line)
	}
	if got.Price != nil {
		t.Errorf("fallback must not carry a price, got %d", *got.Price)
	}
}

func TestLines_NoUsableLine(t *testing.T) {
	for _, alt := range []bool{true, false} {
		got := Lines([]Quote{{Book: "A", Price: price(120)}}, alt)
		if got.Line != nil || got.Price != nil {
			t.Errorf("alternate=%v: expected empty result, got %+v", alt, got)
		}
		got = Lines(nil, alt)
		if got.Line != nil {
			t.Errorf("alternate=%v: expected empty result for no quotes", alt)
		}
	}
}

func TestBestLine_TieFirstSeen(t *testing.T) {
	quotes := []Quote{
		{Book: "A", Line: line(70)},
		{Book: "B", Line: line(75)},
		{Book: "C", Line: line(75)},
	}
	best, book := BestLine(quotes)
	if *best != 75 || *book != "B" {
		t.Errorf("best = %v/%s, want 75/B", *best, *book)
	}
}

func TestBestPrice(t *testing.T) {
	quotes := []Quote{
		{Book: "A", Price: price(-150)},
		{Book: "B"},
		{Book: "C", Price: price(120)},
		{Book: "D", Price: price(120)},
	}
	best, book := BestPrice(quotes)
	if best == nil || *best != 120 || *book != "C" {
		t.Errorf("best = %v/%v, want 120/C", best, book)
	}

	if p, b := BestPrice([]Quote{{Book: "A"}}); p != nil || b != nil {
		t.Errorf("expected nil best price")
	}
}

func TestAveragePrice(t *testing.T) {
	avg, ok := AveragePrice([]Quote{
		{Book: "A", Price: price(-150)},
		{Book: "B", Price: price(120)},
		{Book: "C"},
	})
	if !ok || avg != -15 {
		t.Errorf("avg = %v/%v, want -15", avg, ok)
	}

	if _, ok := AveragePrice([]Quote{{Book: "A", Line: line(1)}}); ok {
		t.Error("expected no average without prices")
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{82.5, 82.5},
		{61.875, 61.9},
		{61.85, 61.9},
		{-2.25, -2.3},
		{100, 100},
	}
	for _, tt := range tests {
		if got := Round1(tt.in); got != tt.want {
			t.Errorf("Round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
