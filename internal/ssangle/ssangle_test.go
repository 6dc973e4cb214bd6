// Public domain.

package ssangle_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/soniakeys/siddhanta/internal/ssangle"
)

func TestNormalizeRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 10000; i++ {
		x := (rnd.Float64() - .5) * 1e6
		n := ssangle.Normalize(x)
		require.GreaterOrEqual(t, n, 0., "x = %v", x)
		require.Less(t, n, 360., "x = %v", x)
		k := float64(rnd.Intn(200) - 100)
		assert.InDelta(t, 0, ssangle.SignedDiff(n, ssangle.Normalize(x+360*k)), 1e-6,
			"x = %v k = %v", x, k)
	}
}

func TestNormalizeEdges(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{-360, 0},
		{-90, 270},
		{725, 5},
		{-1e-17, 0},
	} {
		assert.Equal(t, tc.want, ssangle.Normalize(tc.in), "Normalize(%v)", tc.in)
	}
}

func TestSignedDiff(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 10000; i++ {
		a := rnd.Float64() * 720
		b := (rnd.Float64() - .5) * 720
		require.Equal(t, 0., ssangle.SignedDiff(a, a))
		d := ssangle.SignedDiff(a, b)
		require.Greater(t, d, -180.)
		require.LessOrEqual(t, d, 180.)
		assert.InDelta(t, 0, math.Sin((a-b-d)*math.Pi/360), 1e-9)
	}
	assert.Equal(t, 180., ssangle.SignedDiff(0, 180))
	assert.Equal(t, 180., ssangle.SignedDiff(180, 0))
	assert.Equal(t, -10., ssangle.SignedDiff(355, 5))
	assert.Equal(t, 10., ssangle.SignedDiff(5, 355))
}

func TestMeanLongitudeTruncates(t *testing.T) {
	// one and a quarter retrograde cycles leaves -0.25 of a cycle
	days := ssangle.Mahayuga * 1.25
	assert.InDelta(t, 270, ssangle.MeanLongitude(days, -1, 0), 1e-6)
	assert.InDelta(t, 90, ssangle.MeanLongitude(days, 1, 0), 1e-6)
	assert.InDelta(t, 100, ssangle.MeanLongitude(days, 1, 10), 1e-6)
	assert.InDelta(t, 10, ssangle.MeanLongitude(0, 4320000, 10), 0)
	// Sun textbook rate is close to one cycle per 365.2587 days
	yr := ssangle.Mahayuga / 4320000
	assert.InDelta(t, 0, ssangle.SignedDiff(ssangle.MeanLongitude(yr*1000, 4320000, 0), 0), 1e-6)
}

func TestDays(t *testing.T) {
	d := ssangle.DaysFromDate(2000, 1, 1.5)
	assert.Equal(t, 2451545.-588465.5, d)
	assert.Equal(t, 2451545., ssangle.JD(d))
	tm := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, d, ssangle.DaysFromTime(tm), 1e-9)
	assert.Equal(t, 0., ssangle.DaysSinceEpoch(ssangle.KaliEpochJD))
}

func ExampleSexa() {
	fmt.Printf("%.1s\n", ssangle.Sexa(12.5791))
	// Output:
	// 12°34′44.8″
}
