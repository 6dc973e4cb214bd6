// Public domain.

// Package ssoracle supplies reference longitudes for calibration and
// validation.
//
// A Reference is opened from an explicit Config naming the backend, the
// ephemeris file and the reckoning.  Longitudes are geocentric ecliptic,
// in degrees [0,360), at an instant given as a UT Julian date.  JPL
// longitudes are apparent, corrected for light time and annual aberration.
package ssoracle

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/deltat"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
)

// Backend names.
const (
	JPL      = "jpl"      // JPL DE binary ephemeris file
	Analytic = "analytic" // series approximations, Sun, Moon and node only
)

// Reckoning names.
const (
	Lahiri   = "lahiri"   // sidereal, Lahiri ayanamsa
	Tropical = "tropical" // mean equinox of date
)

// LahiriJ2000 is the Lahiri ayanamsa at J2000, in degrees.
const LahiriJ2000 = 23.85306

var (
	ErrUnsupported = errors.New("body not supported by backend")
	ErrBadSample   = errors.New("invalid reference sample")
	ErrConfig      = errors.New("invalid oracle configuration")
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend       string
	EphemerisPath string
	Sidereal      string
}

func (c Config) String() string { return c.Backend + " " + c.Sidereal }

// Sample is one reference longitude, at days since the Kali epoch.
type Sample struct {
	Days, Longitude float64
}

// source is a backend.  It returns ecliptic longitude for a TT Julian
// date, either referred to J2000 or to the mean equinox of date.
type source interface {
	longitude(b ssbody.Body, jde float64) (lon unit.Angle, j2000 bool, err error)
	close() error
}

// Reference is an opened oracle.  It is safe for concurrent use.
type Reference struct {
	cfg Config
	log zerolog.Logger

	mu  sync.Mutex // serializes backend access
	src source
}

// Open validates cfg and opens its backend.
func Open(cfg Config, log zerolog.Logger) (*Reference, error) {
	cfg.Backend = strings.ToLower(cfg.Backend)
	cfg.Sidereal = strings.ToLower(cfg.Sidereal)
	if cfg.Sidereal == "" {
		cfg.Sidereal = Lahiri
	}
	if cfg.Sidereal != Lahiri && cfg.Sidereal != Tropical {
		return nil, fmt.Errorf("%w: reckoning %q", ErrConfig, cfg.Sidereal)
	}
	r := &Reference{cfg: cfg, log: log.With().Str("backend", cfg.Backend).Logger()}
	switch cfg.Backend {
	case JPL:
		src, err := openJPL(cfg.EphemerisPath)
		if err != nil {
			return nil, err
		}
		r.src = src
	case Analytic:
		r.src = analytic{}
	default:
		return nil, fmt.Errorf("%w: backend %q", ErrConfig, cfg.Backend)
	}
	r.log.Debug().Str("ephemeris", cfg.EphemerisPath).
		Str("reckoning", cfg.Sidereal).Msg("oracle open")
	return r, nil
}

// Config returns the configuration the reference was opened with.
func (r *Reference) Config() Config { return r.cfg }

// Close releases the backend.
func (r *Reference) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.src == nil {
		return nil
	}
	err := r.src.close()
	r.src = nil
	r.log.Debug().Err(err).Msg("oracle closed")
	return err
}

// LongitudeOf returns the reference longitude of b at UT Julian date jd.
func (r *Reference) LongitudeOf(b ssbody.Body, jd float64) (float64, error) {
	if !b.Valid() {
		return 0, fmt.Errorf("%w: %d", ssbody.ErrUnknownBody, int(b))
	}
	q := b
	if b == ssbody.Ketu {
		q = ssbody.Rahu
	}
	jde := jd + DeltaT(jd)/86400
	r.mu.Lock()
	if r.src == nil {
		r.mu.Unlock()
		return 0, errors.New("oracle closed")
	}
	lon, j2000, err := r.src.longitude(q, jde)
	r.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("%v at JD %.5f: %w", b, jd, err)
	}
	deg := lon.Deg()
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0, fmt.Errorf("%v at JD %.5f: %w", b, jd, ErrBadSample)
	}
	T := base.J2000Century(jde)
	switch {
	case r.cfg.Sidereal == Lahiri && j2000:
		deg -= LahiriJ2000
	case r.cfg.Sidereal == Lahiri:
		deg -= LahiriJ2000 + Precession(T)
	case j2000:
		deg += Precession(T)
	}
	if b == ssbody.Ketu {
		deg += 180
	}
	return ssangle.Normalize(deg), nil
}

// Samples returns reference longitudes of b from startJD, stepping by
// stride days, up to but not including endJD.  Any failed lookup fails
// the whole request.
func (r *Reference) Samples(b ssbody.Body, startJD, endJD, stride float64) ([]Sample, error) {
	if !(stride > 0) {
		return nil, fmt.Errorf("%w: stride %v", ErrConfig, stride)
	}
	var s []Sample
	for i := 0; ; i++ {
		jd := startJD + float64(i)*stride
		if jd >= endJD {
			break
		}
		lon, err := r.LongitudeOf(b, jd)
		if err != nil {
			return nil, err
		}
		s = append(s, Sample{ssangle.DaysSinceEpoch(jd), lon})
	}
	return s, nil
}

// Precession returns general precession in longitude from J2000, in
// degrees, for T Julian centuries.
func Precession(T float64) float64 {
	return base.Horner(T, 0, 5029.0966, 1.11113, -.000006) / 3600
}

// Ayanamsa returns the Lahiri ayanamsa in degrees at TT Julian date jde.
func Ayanamsa(jde float64) float64 {
	return LahiriJ2000 + Precession(base.J2000Century(jde))
}

// DeltaT returns TT - UT in seconds at Julian date jd.
func DeltaT(jd float64) float64 {
	y := base.JDEToJulianYear(jd)
	switch {
	case y < 948:
		return deltat.PolyBefore948(y).Sec()
	case y < 1620:
		return deltat.Poly948to1600(y).Sec()
	case y < 2010:
		return deltat.Interp10A(jd).Sec()
	case y < 2050:
		// Espenak and Meeus, 2005 to 2050
		return base.Horner(y-2000, 62.92, .32217, .005589)
	}
	return deltat.PolyAfter2000(y).Sec()
}
