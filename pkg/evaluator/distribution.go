package evaluator

import (
	"math"

	"github.com/thomasrohde/riverflow/pkg/value"
)

// Days is the length of the rainfall window: the baseline vector and every
// synthesized distribution have one entry per day.
const Days = 10

// baseline is the daily rainfall reference used by flow scaling. It is
// never written after initialization, so concurrent interpreters may read it
// without synchronization.
var baseline = [Days]float64{11.4, 0.0, 0.4, 0.0, 0.0, 2.0, 0.2, 0.2, 0.2, 0.0}

// Baseline returns a copy of the rainfall reference vector.
func Baseline() []float64 {
	out := make([]float64, Days)
	copy(out, baseline[:])
	return out
}

// Round2 rounds x to two decimal places, halves away from zero. Values too
// large to carry a fractional part are returned unchanged.
func Round2(x float64) float64 {
	if math.Abs(x) >= 1e15 || math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	return math.Round(x*100) / 100
}

// SumFlows adds two distributions day by day. Callers guarantee equal length.
func SumFlows(a, b value.Flow) value.Flow {
	out := make([]float64, a.Len())
	for i := range out {
		out[i] = Round2(a.At(i) + b.At(i))
	}
	return value.NewFlow(out)
}

// ScaleFlow scales a distribution by a rain amount weighted with the
// baseline: out[i] = round2(flow[i] * rain * baseline[i]). Callers guarantee
// flow spans Days days.
func ScaleFlow(flow value.Flow, rain float64) value.Flow {
	out := make([]float64, flow.Len())
	for i := range out {
		out[i] = Round2(flow.At(i) * rain * baseline[i])
	}
	return value.NewFlow(out)
}

// SynthesizeFlow builds a Days-long Gaussian distribution centred on peak
// with width tail. Raw weights are normalized to sum to 1 before each day is
// rounded, so the rounded days may sum to slightly more or less than 1.
//
// Weights are taken relative to the day nearest the peak, so that day always
// has weight 1 and narrow tails or far-away peaks never underflow the sum.
// A zero tail or a NaN operand yields NaN days.
func SynthesizeFlow(peak, tail float64) value.Flow {
	raw := make([]float64, Days)
	if tail == 0 || math.IsNaN(tail) || math.IsNaN(peak) {
		for i := range raw {
			raw[i] = math.NaN()
		}
		return value.NewFlow(raw)
	}

	k := float64(nearestDay(peak))
	sum := 0.0
	for i := range raw {
		day := float64(i)
		// (day-peak)^2 - (k-peak)^2 factored as (day-k)(day+k-2peak).
		exponent := 0.0
		if day != k {
			exponent = -((day - k) / tail) * ((day + k - 2*peak) / tail) / 2
		}
		raw[i] = math.Exp(exponent)
		sum += raw[i]
	}
	for i := range raw {
		raw[i] = Round2(raw[i] / sum)
	}
	return value.NewFlow(raw)
}

// nearestDay returns the day index closest to x, clamped to the window.
func nearestDay(x float64) int {
	switch {
	case x <= 0:
		return 0
	case x >= Days-1:
		return Days - 1
	}
	return int(math.Round(x))
}
