// Package stats implements running statistics for experiment aggregates.
// Values are pushed one at a time and never stored, so a Statistic stays
// constant-size no matter how many trials feed it.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic tracks a running mean and variance with Welford's algorithm,
// plus the smallest and largest value seen.
type Statistic struct {
	totalIterations int
	last            float64
	min             float64
	max             float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.totalIterations++
	if s.totalIterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min = val
		s.max = val
	} else {
		s.newM = s.oldM + (val-s.oldM)/float64(s.totalIterations)
		s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
		s.oldM = s.newM
		s.oldS = s.newS
		if val < s.min {
			s.min = val
		}
		if val > s.max {
			s.max = val
		}
	}
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.newM
	}
	return 0.0
}

func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.newS / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

// StandardError returns the standard error of the statistic.
func (s *Statistic) StandardError() float64 {
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

// CI returns the half-width of the confidence interval around the mean for
// the given two-tailed Z-value, e.g. stats.Z99.
func (s *Statistic) CI(zval float64) float64 {
	return zval * s.StandardError()
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}
