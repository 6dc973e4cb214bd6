// Public domain.

package ssoracle

import (
	"github.com/soniakeys/astro"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/siddhanta/internal/ssbody"
)

// analytic needs no data files.  The Sun is the USNO approximation, good
// to about a minute of arc; the Moon and node are from Meeus chapter 47.
// Longitudes are referred to the mean equinox of date.
type analytic struct{}

func (analytic) close() error { return nil }

func (analytic) longitude(b ssbody.Body, jde float64) (unit.Angle, bool, error) {
	switch b {
	case ssbody.Sun:
		sunEarth, soe, coe := astro.Se2000(jde - 2400000.5)
		return eclipticLongitude(sunEarth, soe, coe), false, nil
	case ssbody.Moon:
		λ, _, _ := moonposition.Position(jde)
		return λ.Mod1(), false, nil
	case ssbody.Rahu:
		return moonposition.Node(jde), false, nil
	}
	return 0, false, ErrUnsupported
}
