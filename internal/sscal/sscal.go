// Public domain.

// Package sscal fits model parameters to reference longitudes.
//
// Each body is fitted by Nelder-Mead simplex search on the mean squared
// angular error.  Search margins around the textbook guess are advisory:
// a fit that leaves them is logged, and trial points outside them are
// evaluated like any other.
package sscal

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/optimize"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbin"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssengine"
	"github.com/soniakeys/siddhanta/internal/ssoracle"
	"github.com/soniakeys/siddhanta/internal/sswork"
)

// Options bound the search.  Zero values select defaults.
type Options struct {
	MaxIterations  int     // major iterations per search, default 4000
	MaxEvaluations int     // objective evaluations per search, default 20000
	Tolerance      float64 // relative improvement counted as progress, default 1e-5
	Restarts       int     // fresh simplex restarts from the best point, default 2, negative for none
	Log            zerolog.Logger
}

func (o *Options) setDefaults() {
	if o.MaxIterations == 0 {
		o.MaxIterations = 4000
	}
	if o.MaxEvaluations == 0 {
		o.MaxEvaluations = 20000
	}
	if o.Tolerance == 0 {
		o.Tolerance = 1e-5
	}
	if o.Restarts == 0 {
		o.Restarts = 2
	}
}

// Result is the fit for one body.
type Result struct {
	Body        ssbody.Body
	Params      ssengine.Params
	RMS         float64 // arc minutes
	Status      string  // termination of the last search
	Evaluations int
}

// RMSArcmin converts a mean squared error in square degrees to root mean
// square arc minutes.
func RMSArcmin(mse float64) float64 { return math.Sqrt(mse) * 60 }

// steps returns the initial simplex edge for each search variable.  A
// revolution edge turns the body one degree across the sample span.  Only
// the Moon's apsis moves fast enough to fit; other apsis revolutions get a
// small edge and stay near their start.
func steps(b ssbody.Body, span float64) []float64 {
	hr := b.Wiggle() / 100
	if span > 0 {
		hr = ssangle.Mahayuga / (span * 360)
	}
	s := []float64{hr, 1}
	if b == ssbody.Rahu {
		return s
	}
	if !freeApsis(b) {
		return append(s, 1, b.ApsisWiggle()/1000)
	}
	return append(s, 1, hr)
}

func freeApsis(b ssbody.Body) bool { return b == ssbody.Moon }

func toVec(b ssbody.Body, p ssengine.Params) []float64 {
	if b == ssbody.Rahu {
		return []float64{p.Revolutions, p.Offset}
	}
	return []float64{p.Revolutions, p.Offset, p.ApsisOffset, p.ApsisRevolutions}
}

func fromVec(x []float64) (p ssengine.Params) {
	p.Revolutions, p.Offset = x[0], x[1]
	if len(x) == 4 {
		p.ApsisOffset, p.ApsisRevolutions = x[2], x[3]
	}
	return
}

// Calibrate fits body parameters to the objective, starting from start.
//
// The search is unconstrained except for the apsis revolutions of bodies
// other than the Moon, which stay within the apsis margin of start.  Reaching an iteration or evaluation limit
// is not an error; the best point found is returned with its RMS.
func Calibrate(o *Objective, start ssengine.Params, opt Options) (Result, error) {
	opt.setDefaults()
	b := o.body
	x0 := toVec(b, start)
	first, last := o.span()
	h := steps(b, last-first)
	pivot := (first + last) / 2 / ssangle.Mahayuga * 360

	res := Result{Body: b}
	best := o.MSE(start)
	bestX := append([]float64(nil), x0...)
	for i := 0; i <= max(opt.Restarts, 0); i++ {
		// search in units of the simplex edge, z = (x - base) / h, with
		// revolution changes pivoting on the middle sample
		base := append([]float64(nil), bestX...)
		toX := func(z []float64) ssengine.Params {
			x := make([]float64, len(z))
			for j := range z {
				x[j] = base[j] + z[j]*h[j]
			}
			x[1] -= z[0] * h[0] * pivot
			switch {
			case len(x) < 4:
			case freeApsis(b):
				x[2] -= z[3] * h[3] * pivot
			default:
				// apsis revolutions bounded to the margin about the start
				w := b.ApsisWiggle()
				x[3] = math.Max(x0[3]-w, math.Min(x0[3]+w, x[3]))
			}
			return fromVec(x)
		}
		prob := optimize.Problem{Func: func(z []float64) float64 {
			return o.MSE(toX(z))
		}}
		settings := &optimize.Settings{
			MajorIterations: opt.MaxIterations,
			FuncEvaluations: opt.MaxEvaluations,
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-14,
				Relative:   opt.Tolerance,
				Iterations: 100,
			},
		}
		z0 := make([]float64, len(x0))
		mr, err := optimize.Minimize(prob, z0, settings, &optimize.NelderMead{SimplexSize: 1})
		if err != nil {
			return res, fmt.Errorf("%v: %w", b, err)
		}
		res.Evaluations += mr.Stats.FuncEvaluations
		res.Status = mr.Status.String()
		improved := best - mr.F
		if mr.F < best {
			best = mr.F
			bestX = toVec(b, toX(mr.X))
		}
		if !(improved > opt.Tolerance*best) {
			break
		}
	}
	p := fromVec(bestX)
	p.Offset = ssangle.Normalize(p.Offset)
	p.ApsisOffset = ssangle.Normalize(p.ApsisOffset)
	res.Params = p
	res.RMS = RMSArcmin(best)
	g := ssengine.Guess(b)
	if math.Abs(p.Revolutions-g.Revolutions) > b.Wiggle() ||
		math.Abs(p.ApsisRevolutions-g.ApsisRevolutions) > b.ApsisWiggle() {
		opt.Log.Warn().Str("body", b.String()).
			Float64("revolutions", p.Revolutions).
			Float64("apsis_revolutions", p.ApsisRevolutions).
			Msg("fit outside search margins")
	}
	return res, nil
}

// Sampler supplies reference samples.  *ssoracle.Reference implements it.
type Sampler interface {
	Samples(b ssbody.Body, startJD, endJD, stride float64) ([]ssoracle.Sample, error)
}

// Window is the training span.
type Window struct {
	StartJD float64 // UT Julian date of the first sample
	Days    float64 // span, samples are taken while t < StartJD + Days
	Stride  float64 // days between samples
}

// DefaultWindow is three years of five day samples from 2023 January 1.
func DefaultWindow() Window {
	return Window{
		StartJD: ssangle.JD(ssangle.DaysFromDate(2023, 1, 1)),
		Days:    3 * 365,
		Stride:  5,
	}
}

// Stages lists the calibration order.  Bodies within a stage are
// independent; the star stage depends on the fitted Sun.
var Stages = [][]ssbody.Body{
	{ssbody.Sun, ssbody.Moon, ssbody.Rahu},
	{ssbody.Mars, ssbody.Jupiter, ssbody.Saturn, ssbody.Mercury, ssbody.Venus},
}

// CalibrateAll fits every calibrated body of the model.
//
// The Sun, Moon and node are fitted first.  The star bodies are then
// fitted against the mean longitude series of the fitted Sun.  Within a
// stage bodies are fitted in parallel.  Results are returned as a table
// and in stage order.
func CalibrateAll(ctx context.Context, src Sampler, w Window, reference string,
	opt Options) (*ssbin.Table, []Result, error) {
	opt.setDefaults()
	tab := ssbin.New(reference)
	var all []Result
	var sun *ssengine.Params
	for _, stage := range Stages {
		rs, err := sswork.Run(ctx, len(stage), func(i int) (Result, error) {
			b := stage[i]
			s, err := src.Samples(b, w.StartJD, w.StartJD+w.Days, w.Stride)
			if err != nil {
				return Result{}, err
			}
			var ms []float64
			if b.Kind().IsStar() {
				ms = MeanSunSeries(*sun, s)
			}
			o, err := NewObjective(b, s, ms)
			if err != nil {
				return Result{}, err
			}
			r, err := Calibrate(o, ssengine.Guess(b), opt)
			if err != nil {
				return Result{}, err
			}
			opt.Log.Info().Str("body", b.String()).
				Float64("rms_arcmin", r.RMS).
				Float64("revolutions", r.Params.Revolutions).
				Int("evaluations", r.Evaluations).
				Str("status", r.Status).
				Msg("calibrated")
			return r, nil
		})
		if err != nil {
			return nil, nil, err
		}
		for _, r := range rs {
			tab.Set(r.Body, r.Params, r.RMS)
			if r.Body == ssbody.Sun {
				p := r.Params
				sun = &p
			}
		}
		all = append(all, rs...)
	}
	return tab, all, nil
}
