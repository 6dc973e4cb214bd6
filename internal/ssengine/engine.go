// Public domain.

package ssengine

import (
	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
)

// Engine evaluates the model for a fixed parameter set.
type Engine struct {
	params map[ssbody.Body]Params
}

// New creates an Engine from a parameter set.  The map is copied.  Bodies
// missing from it use their textbook guess.  Ketu always uses the
// parameters of Rahu.
func New(params map[ssbody.Body]Params) *Engine {
	e := &Engine{params: make(map[ssbody.Body]Params, len(params))}
	for b, p := range params {
		e.params[b] = p
	}
	return e
}

// Params returns the parameters the engine uses for b.
func (e *Engine) Params(b ssbody.Body) Params {
	if b == ssbody.Ketu {
		b = ssbody.Rahu
	}
	if p, ok := e.params[b]; ok {
		return p
	}
	return Guess(b)
}

// MeanSun returns the mean longitude of the Sun.
func (e *Engine) MeanSun(days float64) float64 {
	return e.Params(ssbody.Sun).Mean(days)
}

// MeanLongitude returns the mean longitude of b from its own revolution
// count.  Ketu is offset 180 from Rahu.
func (e *Engine) MeanLongitude(b ssbody.Body, days float64) float64 {
	m := e.Params(b).Mean(days)
	if b == ssbody.Ketu {
		m = ssangle.Normalize(m + 180)
	}
	return m
}

// TrueLongitude returns the true longitude of b using the engine's own
// mean Sun.
func (e *Engine) TrueLongitude(b ssbody.Body, days float64) float64 {
	return e.TrueLongitudeWithSun(b, days, e.MeanSun(days))
}

// TrueLongitudeWithSun returns the true longitude of b, taking the mean
// Sun from the caller rather than from the engine's Sun parameters.
func (e *Engine) TrueLongitudeWithSun(b ssbody.Body, days, meanSun float64) float64 {
	return TrueLongitude(days, b, e.Params(b), meanSun)
}

// Position is one line of an ephemeris: the true longitude, the mean
// longitude the corrections start from, and the sighra point.  Sighra is
// zero for bodies without a sighra correction.
type Position struct {
	Body               ssbody.Body
	True, Mean, Sighra float64
}

// Position computes the Position of b at days.
func (e *Engine) Position(b ssbody.Body, days float64) Position {
	sun := e.MeanSun(days)
	pos := Position{Body: b, True: e.TrueLongitudeWithSun(b, days, sun)}
	switch b.Kind() {
	case ssbody.Inner:
		pos.Mean, pos.Sighra = sun, e.Params(b).Mean(days)
	case ssbody.Outer:
		pos.Mean, pos.Sighra = e.Params(b).Mean(days), sun
	default:
		pos.Mean = e.MeanLongitude(b, days)
	}
	return pos
}

// Positions computes Position for each of bodies.
func (e *Engine) Positions(bodies []ssbody.Body, days float64) []Position {
	ps := make([]Position, len(bodies))
	for i, b := range bodies {
		ps[i] = e.Position(b, days)
	}
	return ps
}
