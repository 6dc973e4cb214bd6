// Public domain.

package ssoracle_test

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssoracle"
)

func open(t *testing.T, reckoning string) *ssoracle.Reference {
	r, err := ssoracle.Open(ssoracle.Config{
		Backend:  ssoracle.Analytic,
		Sidereal: reckoning,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOpenConfig(t *testing.T) {
	for _, cfg := range []ssoracle.Config{
		{Backend: "swiss"},
		{Backend: ssoracle.Analytic, Sidereal: "fagan"},
		{Backend: ssoracle.JPL},
	} {
		_, err := ssoracle.Open(cfg, zerolog.Nop())
		assert.ErrorIs(t, err, ssoracle.ErrConfig, "%+v", cfg)
	}
	_, err := ssoracle.Open(ssoracle.Config{
		Backend:       ssoracle.JPL,
		EphemerisPath: "testdata/no-such-file.440",
	}, zerolog.Nop())
	assert.Error(t, err)

	r := open(t, "")
	assert.Equal(t, ssoracle.Lahiri, r.Config().Sidereal)
}

func TestDeltaT(t *testing.T) {
	assert.InDelta(t, 63.8, ssoracle.DeltaT(2451545), .5)
	assert.InDelta(t, 69, ssoracle.DeltaT(ssangle.JD(ssangle.DaysFromDate(2023, 1, 1))), 6)
	assert.Greater(t, ssoracle.DeltaT(1000000), 10000.)
}

func TestAnalyticSun(t *testing.T) {
	r := open(t, ssoracle.Tropical)
	lon, err := r.LongitudeOf(ssbody.Sun, 2451545)
	require.NoError(t, err)
	assert.InDelta(t, 280.375, lon, .01)
}

func TestAnalyticMoon(t *testing.T) {
	// Meeus example 47.a, 1992 April 12 0h TD
	jde := 2448724.5
	r := open(t, ssoracle.Tropical)
	lon, err := r.LongitudeOf(ssbody.Moon, jde-ssoracle.DeltaT(jde)/86400)
	require.NoError(t, err)
	assert.InDelta(t, 133.162655, lon, 1e-3)
}

func TestSidereal(t *testing.T) {
	trop := open(t, ssoracle.Tropical)
	sid := open(t, ssoracle.Lahiri)
	jd := 2460000.5
	jde := jd + ssoracle.DeltaT(jd)/86400
	for _, b := range []ssbody.Body{ssbody.Sun, ssbody.Moon, ssbody.Rahu, ssbody.Ketu} {
		lt, err := trop.LongitudeOf(b, jd)
		require.NoError(t, err)
		ls, err := sid.LongitudeOf(b, jd)
		require.NoError(t, err)
		assert.InDelta(t, ssoracle.Ayanamsa(jde), ssangle.SignedDiff(lt, ls), 1e-9, b.String())
	}
	a := ssoracle.Ayanamsa(jde)
	assert.True(t, a > 24 && a < 24.3, "ayanamsa %v", a)
}

func TestKetu(t *testing.T) {
	r := open(t, ssoracle.Lahiri)
	rahu, err := r.LongitudeOf(ssbody.Rahu, 2460000.5)
	require.NoError(t, err)
	ketu, err := r.LongitudeOf(ssbody.Ketu, 2460000.5)
	require.NoError(t, err)
	assert.InDelta(t, 180, math.Abs(ssangle.SignedDiff(ketu, rahu)), 1e-9)
}

func TestUnsupported(t *testing.T) {
	r := open(t, ssoracle.Lahiri)
	_, err := r.LongitudeOf(ssbody.Mars, 2460000.5)
	assert.True(t, errors.Is(err, ssoracle.ErrUnsupported), "%v", err)
	_, err = r.Samples(ssbody.Mars, 2460000.5, 2460010.5, 1)
	assert.ErrorIs(t, err, ssoracle.ErrUnsupported)
	_, err = r.LongitudeOf(ssbody.Body(99), 2460000.5)
	assert.ErrorIs(t, err, ssbody.ErrUnknownBody)
}

func TestSamples(t *testing.T) {
	r := open(t, ssoracle.Lahiri)
	start := ssangle.JD(ssangle.DaysFromDate(2023, 1, 1))
	s, err := r.Samples(ssbody.Sun, start, start+3*365, 5)
	require.NoError(t, err)
	require.Len(t, s, 219)
	assert.Equal(t, ssangle.DaysSinceEpoch(start), s[0].Days)
	assert.Equal(t, ssangle.DaysSinceEpoch(start)+5, s[1].Days)
	for _, x := range s {
		require.GreaterOrEqual(t, x.Longitude, 0.)
		require.Less(t, x.Longitude, 360.)
	}
	_, err = r.Samples(ssbody.Sun, start, start+10, 0)
	assert.ErrorIs(t, err, ssoracle.ErrConfig)
}

func TestClosed(t *testing.T) {
	r, err := ssoracle.Open(ssoracle.Config{Backend: ssoracle.Analytic}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	_, err = r.LongitudeOf(ssbody.Sun, 2460000.5)
	assert.Error(t, err)
}

// TestJPL runs against a real DE file named by SIDDHANTA_TEST_EPHEMERIS.
func TestJPL(t *testing.T) {
	fn := os.Getenv("SIDDHANTA_TEST_EPHEMERIS")
	if fn == "" {
		t.Skip("SIDDHANTA_TEST_EPHEMERIS not set")
	}
	r, err := ssoracle.Open(ssoracle.Config{
		Backend:       ssoracle.JPL,
		EphemerisPath: fn,
		Sidereal:      ssoracle.Tropical,
	}, zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()
	an := open(t, ssoracle.Tropical)
	for _, b := range []ssbody.Body{ssbody.Sun, ssbody.Moon} {
		lj, err := r.LongitudeOf(b, 2451545)
		require.NoError(t, err)
		la, err := an.LongitudeOf(b, 2451545)
		require.NoError(t, err)
		t.Logf("%-5v jpl %.5f analytic %.5f", b, lj, la)
		assert.InDelta(t, 0, ssangle.SignedDiff(lj, la), .05, b.String())
	}
	for _, b := range []ssbody.Body{ssbody.Mars, ssbody.Mercury, ssbody.Jupiter, ssbody.Venus, ssbody.Saturn} {
		_, err := r.LongitudeOf(b, 2451545)
		assert.NoError(t, err, b.String())
	}
}
