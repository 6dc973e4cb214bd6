// Public domain.

package sscal_test

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/sscal"
	"github.com/soniakeys/siddhanta/internal/ssengine"
	"github.com/soniakeys/siddhanta/internal/ssoracle"
)

func analytic(t *testing.T) *ssoracle.Reference {
	r, err := ssoracle.Open(ssoracle.Config{
		Backend:  ssoracle.Analytic,
		Sidereal: ssoracle.Lahiri,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func windowSamples(t *testing.T, src sscal.Sampler, b ssbody.Body, w sscal.Window) []ssoracle.Sample {
	s, err := src.Samples(b, w.StartJD, w.StartJD+w.Days, w.Stride)
	require.NoError(t, err)
	return s
}

func TestCalibrateNode(t *testing.T) {
	s := windowSamples(t, analytic(t), ssbody.Rahu, sscal.DefaultWindow())
	o, err := sscal.NewObjective(ssbody.Rahu, s, nil)
	require.NoError(t, err)
	guess := ssengine.Guess(ssbody.Rahu)
	require.Equal(t, -232238., guess.Revolutions)
	require.Equal(t, 0., guess.Offset)

	r, err := sscal.Calibrate(o, guess, sscal.Options{Log: zerolog.Nop()})
	require.NoError(t, err)
	t.Logf("Rahu: rms %.3f' revs %.2f offset %.5f (%s, %d evaluations)",
		r.RMS, r.Params.Revolutions, r.Params.Offset, r.Status, r.Evaluations)
	assert.Less(t, r.RMS, 10.)
	assert.LessOrEqual(t, math.Abs(r.Params.Revolutions-guess.Revolutions), ssbody.Rahu.Wiggle())
	assert.GreaterOrEqual(t, r.Params.Offset, 0.)
	assert.Less(t, r.Params.Offset, 360.)
	assert.Zero(t, r.Params.ApsisRevolutions)

	// rerun from the fit
	r2, err := sscal.Calibrate(o, r.Params, sscal.Options{Log: zerolog.Nop()})
	require.NoError(t, err)
	assert.LessOrEqual(t, r2.RMS, r.RMS+.01)
}

func TestCalibrateSunIdempotent(t *testing.T) {
	s := windowSamples(t, analytic(t), ssbody.Sun, sscal.DefaultWindow())
	o, err := sscal.NewObjective(ssbody.Sun, s, nil)
	require.NoError(t, err)
	opt := sscal.Options{MaxEvaluations: 4000}
	r, err := sscal.Calibrate(o, ssengine.Guess(ssbody.Sun), opt)
	require.NoError(t, err)
	start := sscal.RMSArcmin(o.MSE(ssengine.Guess(ssbody.Sun)))
	t.Logf("Sun: rms %.3f' from %.3f', apsis revs %.3f", r.RMS, start, r.Params.ApsisRevolutions)
	assert.LessOrEqual(t, r.RMS, start)
	guess := ssengine.Guess(ssbody.Sun).ApsisRevolutions
	assert.LessOrEqual(t, math.Abs(r.Params.ApsisRevolutions-guess), ssbody.Sun.ApsisWiggle())

	r2, err := sscal.Calibrate(o, r.Params, opt)
	require.NoError(t, err)
	assert.LessOrEqual(t, r2.RMS, r.RMS+.01)
	assert.LessOrEqual(t, math.Abs(r2.Params.ApsisRevolutions-guess), 2*ssbody.Sun.ApsisWiggle())
}

// Planet apsis revolutions stay bounded even when the search is free to
// run through its whole budget.
func TestPinnedApsis(t *testing.T) {
	tr := truth()
	es := engineSampler{ssengine.New(tr)}
	w := sscal.DefaultWindow()
	w.Stride = 20
	for _, b := range []ssbody.Body{ssbody.Mars, ssbody.Saturn} {
		s := windowSamples(t, es, b, w)
		o, err := sscal.NewObjective(b, s, sscal.MeanSunSeries(tr[ssbody.Sun], s))
		require.NoError(t, err)
		g := ssengine.Guess(b)
		r, err := sscal.Calibrate(o, g, sscal.Options{MaxEvaluations: 3000})
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(r.Params.ApsisRevolutions-g.ApsisRevolutions), b.ApsisWiggle(), b.String())
	}
}

func TestBudgetReturnsBest(t *testing.T) {
	s := windowSamples(t, analytic(t), ssbody.Rahu, sscal.DefaultWindow())
	o, err := sscal.NewObjective(ssbody.Rahu, s, nil)
	require.NoError(t, err)
	guess := ssengine.Guess(ssbody.Rahu)
	r, err := sscal.Calibrate(o, guess, sscal.Options{MaxEvaluations: 5, Restarts: -1})
	require.NoError(t, err)
	assert.Equal(t, "FunctionEvaluationLimit", r.Status)
	assert.LessOrEqual(t, r.RMS, sscal.RMSArcmin(o.MSE(guess)))
}

func TestObjectiveErrors(t *testing.T) {
	s := []ssoracle.Sample{{Days: 1, Longitude: 2}}
	_, err := sscal.NewObjective(ssbody.Ketu, s, nil)
	assert.Error(t, err)
	_, err = sscal.NewObjective(ssbody.Sun, nil, nil)
	assert.Error(t, err)
	_, err = sscal.NewObjective(ssbody.Venus, s, []float64{1, 2})
	assert.Error(t, err)
}

func TestObjectiveMSE(t *testing.T) {
	p := ssengine.Params{Revolutions: -232238, Offset: 7}
	var s []ssoracle.Sample
	for d := 1870000.; d < 1870100; d += 10 {
		s = append(s, ssoracle.Sample{Days: d, Longitude: ssangle.Normalize(p.Mean(d) + 1)})
	}
	o, err := sscal.NewObjective(ssbody.Rahu, s, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, o.MSE(p), 1e-9)
	assert.InDelta(t, 60, sscal.RMSArcmin(o.MSE(p)), 1e-6)
}

// engineSampler produces exact model longitudes from a parameter set.
type engineSampler struct {
	e *ssengine.Engine
}

func (es engineSampler) Samples(b ssbody.Body, startJD, endJD, stride float64) ([]ssoracle.Sample, error) {
	var s []ssoracle.Sample
	for jd := startJD; jd < endJD; jd += stride {
		d := ssangle.DaysSinceEpoch(jd)
		s = append(s, ssoracle.Sample{Days: d, Longitude: es.e.TrueLongitude(b, d)})
	}
	return s, nil
}

func truth() map[ssbody.Body]ssengine.Params {
	m := map[ssbody.Body]ssengine.Params{}
	for _, b := range ssbody.Calibrated {
		m[b] = ssengine.Guess(b)
	}
	sun := m[ssbody.Sun]
	sun.Offset = 3
	m[ssbody.Sun] = sun
	return m
}

// Calibrating Venus against the raw Sun guess must do worse than against
// the Sun it was generated with.
func TestInnerNeedsFittedSun(t *testing.T) {
	tr := truth()
	es := engineSampler{ssengine.New(tr)}
	w := sscal.DefaultWindow()
	w.Stride = 10
	s := windowSamples(t, es, ssbody.Venus, w)
	opt := sscal.Options{MaxEvaluations: 2000}

	fitted, err := sscal.NewObjective(ssbody.Venus, s, sscal.MeanSunSeries(tr[ssbody.Sun], s))
	require.NoError(t, err)
	rf, err := sscal.Calibrate(fitted, ssengine.Guess(ssbody.Venus), opt)
	require.NoError(t, err)

	raw, err := sscal.NewObjective(ssbody.Venus, s, sscal.MeanSunSeries(ssengine.Guess(ssbody.Sun), s))
	require.NoError(t, err)
	rr, err := sscal.Calibrate(raw, ssengine.Guess(ssbody.Venus), opt)
	require.NoError(t, err)

	t.Logf("Venus rms with fitted Sun %.4f', with raw Sun %.4f'", rf.RMS, rr.RMS)
	assert.Less(t, rf.RMS, .01)
	assert.Greater(t, rr.RMS, 10*rf.RMS+1)
}

func TestCalibrateAll(t *testing.T) {
	tr := truth()
	es := engineSampler{ssengine.New(tr)}
	w := sscal.DefaultWindow()
	w.Stride = 20
	tab, rs, err := sscal.CalibrateAll(context.Background(), es, w, "engine",
		sscal.Options{MaxEvaluations: 3000, Log: zerolog.Nop()})
	require.NoError(t, err)
	require.Len(t, rs, len(ssbody.Calibrated))
	assert.Equal(t, ssbody.Sun, rs[0].Body)
	assert.Equal(t, "engine", tab.Reference)
	for _, b := range ssbody.Calibrated {
		_, ok := tab.Params[b]
		assert.True(t, ok, b.String())
	}
	_, ok := tab.Params[ssbody.Ketu]
	assert.False(t, ok)

	// fitted Sun tracks the true mean Sun over the window
	for d := ssangle.DaysSinceEpoch(w.StartJD); d < ssangle.DaysSinceEpoch(w.StartJD+w.Days); d += 50 {
		assert.InDelta(t, 0, ssangle.SignedDiff(tab.Params[ssbody.Sun].Mean(d), tr[ssbody.Sun].Mean(d)), .01)
	}
	for _, r := range rs {
		t.Logf("%-8v %.5f' %s", r.Body, r.RMS, r.Status)
		if r.Body.Kind() == ssbody.Inner {
			assert.Less(t, r.RMS, .5, r.Body.String())
		}
	}
}

func TestCalibrateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := sscal.CalibrateAll(ctx, engineSampler{ssengine.New(nil)},
		sscal.DefaultWindow(), "", sscal.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
