package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/glyphrain/internal/rain"
)

func TestDeltas(t *testing.T) {
	got := Deltas([]float64{3, 4, 4, 2})
	want := []float64{1, 0, -2}
	if len(got) != len(want) {
		t.Fatalf("expected %d deltas, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delta %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if len(Deltas([]float64{1})) != 0 {
		t.Error("expected no deltas for a single sample")
	}
}

func TestDominantPeriodSine(t *testing.T) {
	data := make([]float64, 600)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * float64(i) / 12)
	}
	period, power := DominantPeriod(data)
	if math.Abs(period-12) > 0.5 {
		t.Errorf("expected period 12, got %.2f", period)
	}
	if power <= 0 {
		t.Error("expected positive peak power")
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	data := make([]float64, 128)
	for i := range data {
		data[i] = 7
	}
	if period, _ := DominantPeriod(data); period != 0 {
		t.Errorf("expected no period for a flat series, got %.2f", period)
	}
}

func TestRefillCadenceFromCounts(t *testing.T) {
	e := rain.New(rain.Options{Width: 200, Height: 100, Density: 300, FaucetOn: false, Seed: 7})
	for i := 0; i < 200 && e.Len() > 0; i++ {
		e.Step()
	}
	if e.Len() != 0 {
		t.Fatalf("expected drained field, got %d particles", e.Len())
	}

	e.SetFaucet(true)
	counts := make([]float64, 0, 601)
	counts = append(counts, float64(e.Len()))
	for i := 0; i < 600; i++ {
		e.Step()
		counts = append(counts, float64(e.Len()))
	}

	period, _ := DominantPeriod(Deltas(counts))
	if math.Abs(period-rain.DefaultRefillEvery) > 0.5 {
		t.Errorf("expected refill period %d, got %.2f", rain.DefaultRefillEvery, period)
	}
}
