// Public domain.

package ssharm

import (
	"context"
	"fmt"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/sswork"
)

// Reference supplies reference longitudes by Julian date.
type Reference interface {
	LongitudeOf(b ssbody.Body, jd float64) (float64, error)
}

// Longituder supplies model longitudes by days since the Kali epoch.
type Longituder interface {
	TrueLongitude(b ssbody.Body, days float64) float64
}

// Residuals samples reference minus model for b at each of days.  A
// reference failure is returned, never skipped.
func Residuals(ref Reference, model Longituder, b ssbody.Body, days []float64) ([]Sample, error) {
	s := make([]Sample, len(days))
	for i, d := range days {
		r, err := ref.LongitudeOf(b, ssangle.JD(d))
		if err != nil {
			return nil, fmt.Errorf("%v residual: %w", b, err)
		}
		s[i] = Sample{d, ssangle.SignedDiff(r, model.TrueLongitude(b, d))}
	}
	return s, nil
}

// Fitted is the correction fitted for one body.
type Fitted struct {
	Body   ssbody.Body
	Coeffs *Coefficients
	RMS    float64 // arc minutes of residual remaining after correction
}

// FitAll builds residual series for each of bodies and fits them in
// parallel.  Results are in the order of bodies.
func FitAll(ctx context.Context, m Model, ref Reference, model Longituder,
	bodies []ssbody.Body, days []float64) ([]Fitted, error) {
	return sswork.Run(ctx, len(bodies), func(i int) (Fitted, error) {
		b := bodies[i]
		s, err := Residuals(ref, model, b, days)
		if err != nil {
			return Fitted{}, err
		}
		c, err := m.Fit(s)
		if err != nil {
			return Fitted{}, fmt.Errorf("%v: %w", b, err)
		}
		rms, err := c.RMS(s)
		if err != nil {
			return Fitted{}, fmt.Errorf("%v: %w", b, err)
		}
		return Fitted{b, c, rms}, nil
	})
}
