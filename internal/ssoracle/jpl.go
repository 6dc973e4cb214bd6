// Public domain.

package ssoracle

import (
	"fmt"
	"math"

	"github.com/mshafiee/jpleph"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/siddhanta/internal/ssbody"
)

// jplTarget maps bodies to ephemeris targets.  The node is not an
// ephemeris quantity and is taken from the mean node series.
var jplTarget = map[ssbody.Body]jpleph.Planet{
	ssbody.Sun:     jpleph.Sun,
	ssbody.Moon:    jpleph.Moon,
	ssbody.Mars:    jpleph.Mars,
	ssbody.Mercury: jpleph.Mercury,
	ssbody.Jupiter: jpleph.Jupiter,
	ssbody.Venus:   jpleph.Venus,
	ssbody.Saturn:  jpleph.Saturn,
}

type jpl struct {
	eph *jpleph.Ephemeris
}

func openJPL(path string) (*jpl, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: jpl backend needs an ephemeris path", ErrConfig)
	}
	eph, err := jpleph.NewEphemeris(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening ephemeris %s: %w", path, err)
	}
	return &jpl{eph}, nil
}

func (j *jpl) close() error { return j.eph.Close() }

func (j *jpl) longitude(b ssbody.Body, jde float64) (unit.Angle, bool, error) {
	if b == ssbody.Rahu {
		return moonposition.Node(jde), false, nil
	}
	t, ok := jplTarget[b]
	if !ok {
		return 0, false, ErrUnsupported
	}
	u, err := j.apparent(t, jde)
	if err != nil {
		return 0, false, err
	}
	return eclipticLongitude(u, base.SOblJ2000, base.COblJ2000), true, nil
}

// lightDay is the speed of light in AU/day.
const lightDay = 173.1446326846693

// apparent returns the geocentric direction of t at jde, corrected for
// light time and annual aberration.
func (j *jpl) apparent(t jpleph.Planet, jde float64) (coord.Cart, error) {
	e, ev, err := j.eph.CalculatePV(jde, jpleph.Earth, jpleph.CenterSolarSystemBarycenter, true)
	if err != nil {
		return coord.Cart{}, err
	}
	earth := coord.Cart{X: e.X, Y: e.Y, Z: e.Z}
	var rel coord.Cart
	τ := 0.
	for i := 0; i < 3; i++ {
		p, _, err := j.eph.CalculatePV(jde-τ, t, jpleph.CenterSolarSystemBarycenter, false)
		if err != nil {
			return coord.Cart{}, err
		}
		rel.Sub(&coord.Cart{X: p.X, Y: p.Y, Z: p.Z}, &earth)
		τ = math.Sqrt(rel.Square()) / lightDay
	}
	return aberrate(rel, coord.Cart{X: ev.DX, Y: ev.DY, Z: ev.DZ}), nil
}

// aberrate returns the unit direction of rel displaced by observer
// velocity v in AU/day, to first order in v/c.
func aberrate(rel, v coord.Cart) coord.Cart {
	var u, w coord.Cart
	u.MulScalar(&rel, 1/math.Sqrt(rel.Square()))
	w.MulScalar(&v, 1/lightDay)
	u.Add(&u, &w)
	return u
}

// eclipticLongitude rotates an equatorial vector to the ecliptic given the
// sine and cosine of the obliquity, and returns its longitude.
func eclipticLongitude(eq coord.Cart, soe, coe float64) unit.Angle {
	var ecl coord.Cart
	ecl.RotateX(&eq, soe, coe)
	return unit.Angle(math.Atan2(ecl.Y, ecl.X)).Mod1()
}
