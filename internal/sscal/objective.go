// Public domain.

package sscal

import (
	"fmt"
	"math"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssengine"
	"github.com/soniakeys/siddhanta/internal/ssoracle"
)

// Objective is the mean squared angular error, in square degrees, of the
// model for one body against reference samples.
type Objective struct {
	body    ssbody.Body
	samples []ssoracle.Sample
	meanSun []float64 // parallel to samples, nil for zero
}

// NewObjective builds the objective for b.  meanSun, if not nil, gives the
// fixed mean Sun longitude at each sample.  Star bodies need it; without
// it the mean Sun is taken as zero.
func NewObjective(b ssbody.Body, samples []ssoracle.Sample, meanSun []float64) (*Objective, error) {
	if !b.Valid() || b == ssbody.Ketu {
		return nil, fmt.Errorf("%v is not calibrated", b)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%v: no samples", b)
	}
	if meanSun != nil && len(meanSun) != len(samples) {
		return nil, fmt.Errorf("%v: %d mean Sun values for %d samples",
			b, len(meanSun), len(samples))
	}
	return &Objective{b, samples, meanSun}, nil
}

// MeanSunSeries evaluates the mean Sun for sun at each sample time.
func MeanSunSeries(sun ssengine.Params, samples []ssoracle.Sample) []float64 {
	m := make([]float64, len(samples))
	for i, s := range samples {
		m[i] = sun.Mean(s.Days)
	}
	return m
}

// span returns the first and last sample times.
func (o *Objective) span() (first, last float64) {
	first, last = o.samples[0].Days, o.samples[0].Days
	for _, s := range o.samples[1:] {
		first = math.Min(first, s.Days)
		last = math.Max(last, s.Days)
	}
	return
}

// MSE evaluates the objective at p.  The node is compared by plain mean
// longitude.
func (o *Objective) MSE(p ssengine.Params) float64 {
	var sum float64
	for i, s := range o.samples {
		var lon float64
		if o.body == ssbody.Rahu {
			lon = p.Mean(s.Days)
		} else {
			var sun float64
			if o.meanSun != nil {
				sun = o.meanSun[i]
			}
			lon = ssengine.TrueLongitude(s.Days, o.body, p, sun)
		}
		d := ssangle.SignedDiff(lon, s.Longitude)
		sum += d * d
	}
	return sum / float64(len(o.samples))
}
