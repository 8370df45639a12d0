package probability

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a single simulated price path.
type Summary struct {
	Steps          int     `json:"steps"`
	Finite         bool    `json:"finite"`
	DivergedAt     *int    `json:"diverged_at,omitempty"` // first non-finite price
	First          float64 `json:"first"`
	Last           float64 `json:"last"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	MeanPrice      float64 `json:"mean_price"`
	TotalLogReturn float64 `json:"total_log_return"`
	MeanLogReturn  float64 `json:"mean_log_return"`
	StdLogReturn   float64 `json:"std_log_return"`
	RealizedVol    float64 `json:"realized_vol"` // annualised with the path's dt
	VaR95          float64 `json:"var_95"`       // one-step loss quantile of log returns
}

// LogReturns returns log(S[i]/S[i-1]) for consecutive prices. Non-positive
// prices yield NaN entries.
func LogReturns(path []float64) []float64 {
	if len(path) < 2 {
		return nil
	}
	r := make([]float64, len(path)-1)
	for i := 1; i < len(path); i++ {
		if path[i] <= 0 || path[i-1] <= 0 {
			r[i-1] = math.NaN()
			continue
		}
		r[i-1] = math.Log(path[i] / path[i-1])
	}
	return r
}

// ReturnQuantile computes the one-step Value at Risk of the path at the
// given confidence level, expressed as a positive log-return loss.
func ReturnQuantile(path []float64, confidenceLevel float64) float64 {
	returns := LogReturns(path)
	if len(returns) == 0 {
		return 0
	}

	losses := make([]float64, len(returns))
	for i, r := range returns {
		losses[i] = -r
	}
	sort.Float64s(losses)

	return stat.Quantile(confidenceLevel, stat.Empirical, losses, nil)
}

// Summarize computes descriptive statistics for a path sampled every dt.
// A path holding a NaN or infinite price is reported as not finite with
// only Steps, First and DivergedAt set.
func Summarize(path []float64, dt float64) Summary {
	s := Summary{Steps: len(path), Finite: true}
	if len(path) == 0 {
		return s
	}

	for i, p := range path {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			s.Finite = false
			s.DivergedAt = &i
			if i > 0 {
				s.First = path[0]
			}
			return s
		}
	}

	s.First = path[0]
	s.Last = path[len(path)-1]
	s.Min = floats.Min(path)
	s.Max = floats.Max(path)
	s.MeanPrice = stat.Mean(path, nil)

	returns := LogReturns(path)
	if len(returns) == 0 || floats.HasNaN(returns) {
		return s
	}
	s.TotalLogReturn = floats.Sum(returns)
	if len(returns) > 1 {
		s.MeanLogReturn, s.StdLogReturn = stat.MeanStdDev(returns, nil)
	} else {
		s.MeanLogReturn = returns[0]
	}
	if dt > 0 {
		s.RealizedVol = s.StdLogReturn / math.Sqrt(dt)
	}
	s.VaR95 = ReturnQuantile(path, 0.95)

	return s
}

// RegimeOccupancy returns the fraction of entries in states equal to each
// of the k regimes.
func RegimeOccupancy(states []int, k int) []float64 {
	occ := make([]float64, k)
	if len(states) == 0 {
		return occ
	}
	for _, s := range states {
		if s >= 0 && s < k {
			occ[s]++
		}
	}
	floats.Scale(1/float64(len(states)), occ)
	return occ
}
