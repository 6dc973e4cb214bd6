// Public domain.

// Package ssengine implements the epicyclic position model.
//
// TrueLongitude is a pure function of time, body, parameters and the mean
// Sun.  Engine wraps a parameter set for callers that want longitudes by
// body and time alone.
package ssengine

import (
	"math"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
)

// Params are the free parameters of one body.  Revolutions are per
// Mahayuga, offsets in degrees.  The node uses Revolutions and Offset only.
type Params struct {
	Revolutions      float64 `toml:"revolutions" json:"revolutions" msgpack:"revolutions"`
	Offset           float64 `toml:"offset" json:"offset" msgpack:"offset"`
	ApsisOffset      float64 `toml:"apsis_offset" json:"apsis_offset" msgpack:"apsis_offset"`
	ApsisRevolutions float64 `toml:"apsis_revolutions" json:"apsis_revolutions" msgpack:"apsis_revolutions"`
}

// Guess returns the textbook starting parameters for b: table revolution
// counts with zero offsets.
func Guess(b ssbody.Body) Params {
	e := b.Entry()
	return Params{Revolutions: e.Revs, ApsisRevolutions: e.ApsisRevs}
}

// Mean returns the mean longitude of the body at days.
func (p Params) Mean(days float64) float64 {
	return ssangle.MeanLongitude(days, p.Revolutions, p.Offset)
}

// Ucca returns the longitude of the manda apsis at days.
func (p Params) Ucca(days float64) float64 {
	return ssangle.MeanLongitude(days, p.ApsisRevolutions, p.ApsisOffset)
}

// TrueLongitude computes the true geocentric longitude of b at days since
// the Kali epoch.
//
// meanSun is the mean longitude of the Sun at the same instant.  It is the
// mean of Mercury and Venus and the sighra point of Mars, Jupiter and
// Saturn; luminaries and nodes ignore it.
func TrueLongitude(days float64, b ssbody.Body, p Params, meanSun float64) float64 {
	e := b.Entry()
	switch e.Kind {
	case ssbody.Luminary:
		mean := p.Mean(days)
		return ssangle.Normalize(mean - manda(mean, p.Ucca(days), e.Manda))
	case ssbody.Inner:
		return star(meanSun, p.Mean(days), p.Ucca(days), e).lon
	case ssbody.Outer:
		return star(p.Mean(days), meanSun, p.Ucca(days), e).lon
	}
	lon := p.Mean(days)
	if b == ssbody.Ketu {
		lon = ssangle.Normalize(lon + 180)
	}
	return lon
}

// passes holds the successive approximations of the star correction.
type passes struct {
	s1, p1 float64 // first sighra, half applied
	m1, p2 float64 // first manda, half applied
	m2     float64 // second manda
	pManda float64 // manda corrected longitude
	s2     float64 // second sighra
	lon    float64 // true longitude
}

// star runs the two pass manda/sighra scheme.  The halving and the step
// count define the model; it is not iterated to convergence.
func star(mean, sighrocca, ucca float64, e *ssbody.Entry) (ps passes) {
	ps.s1 = sighra(mean, sighrocca, e.Sighra)
	ps.p1 = mean + ps.s1/2
	ps.m1 = manda(ps.p1, ucca, e.Manda)
	ps.p2 = mean + ps.m1/2
	ps.m2 = manda(ps.p2, ucca, e.Manda)
	ps.pManda = mean + ps.m2
	ps.s2 = sighra(ps.pManda, sighrocca, e.Sighra)
	ps.lon = ssangle.Normalize(ps.pManda + ps.s2)
	return
}

// radius interpolates epicycle circumference between even and odd
// quadrant values.  sa is the sine of the anomaly.
func radius(ep ssbody.Epicycle, sa float64) float64 {
	return ep.Even - (ep.Even-ep.Odd)*math.Abs(sa)
}

// manda returns the equation of center in degrees.  The sign is such
// that subtracting it from lon gives the corrected luminary.
func manda(lon, ucca float64, ep ssbody.Epicycle) float64 {
	sa := unit.AngleFromDeg(ssangle.Normalize(lon - ucca)).Sin()
	return unit.Angle(math.Asin(radius(ep, sa) * sa / 360)).Deg()
}

// sighra returns the conjunction equation in degrees.
func sighra(lon, sighrocca float64, ep ssbody.Epicycle) float64 {
	sa, ca := unit.AngleFromDeg(ssangle.Normalize(sighrocca - lon)).Sincos()
	r := radius(ep, sa) / 360 * ssangle.R
	return sighraEquation(r*sa, r*ca)
}

// sighraEquation solves the sighra triangle from its rectangular sides,
// doh and koti, in units of R.  A zero hypotenuse gives a zero equation.
func sighraEquation(doh, koti float64) float64 {
	k := ssangle.R + koti
	karna := math.Sqrt(k*k + doh*doh)
	if karna == 0 {
		return 0
	}
	s := doh * ssangle.R / karna
	switch {
	case s > ssangle.R:
		s = ssangle.R
	case s < -ssangle.R:
		s = -ssangle.R
	}
	return unit.Angle(math.Asin(s / ssangle.R)).Deg()
}
