// Public domain.

// Package ssharm fits truncated Fourier series to residual longitude
// series.
//
// The fitted model is
//
//	Δλ(t) = a0 + Σ_f Σ_k [C_f_k cos(kω_f t) + S_f_k sin(kω_f t)]
//
// with t in days from the first sample of the series, ω_f = 2π/P_f for a
// period P_f in days, and k running from 1 to the harmonic order.
// Coefficients are kept in declaration order: a0, then for each
// frequency in the order given, C and S for k = 1, 2, ...
package ssharm

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// DefaultOrder is the number of harmonics fitted per frequency.
const DefaultOrder = 5

// Presets maps frequency names to periods in days.
var Presets = map[string]float64{
	"solar_year": 365.256363004,
	"jupiter":    4332.589,
	"saturn":     10759.22,
	"node":       6798.38,
}

// DefaultFrequencies lists the preset names used when none are given.
var DefaultFrequencies = []string{"solar_year", "jupiter", "saturn", "node"}

var (
	ErrNoSamples = errors.New("no samples")
	ErrFrequency = errors.New("invalid frequency")
)

// Frequency is a named base period.
type Frequency struct {
	Name   string  // preset name, or the period as written
	Period float64 // days per cycle
}

// Omega returns the angular frequency in radians per day.
func (f Frequency) Omega() float64 { return 2 * math.Pi / f.Period }

// ParseFrequency accepts a preset name or a period in days.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if p, ok := Presets[s]; ok {
		return Frequency{s, p}, nil
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || !(p > 0) || math.IsInf(p, 1) {
		return Frequency{}, fmt.Errorf("%w: %q", ErrFrequency, s)
	}
	return Frequency{s, p}, nil
}

// ParseFrequencies parses each of names.  An empty list gives the
// default frequencies.
func ParseFrequencies(names []string) ([]Frequency, error) {
	if len(names) == 0 {
		names = DefaultFrequencies
	}
	fs := make([]Frequency, len(names))
	for i, n := range names {
		f, err := ParseFrequency(n)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

// Model is the shape of a fit: base frequencies and harmonic order.
type Model struct {
	Freqs []Frequency
	Order int
}

// NewModel parses frequency names and applies DefaultOrder to a zero
// order.
func NewModel(names []string, order int) (Model, error) {
	fs, err := ParseFrequencies(names)
	if err != nil {
		return Model{}, err
	}
	if order < 0 {
		return Model{}, fmt.Errorf("negative harmonic order %d", order)
	}
	if order == 0 {
		order = DefaultOrder
	}
	return Model{fs, order}, nil
}

// NumCoeffs is the number of design matrix columns.
func (m Model) NumCoeffs() int { return 1 + 2*len(m.Freqs)*m.Order }

// Labels returns coefficient labels in column order.
func (m Model) Labels() []string {
	l := make([]string, 0, m.NumCoeffs())
	l = append(l, "a0")
	for _, f := range m.Freqs {
		for k := 1; k <= m.Order; k++ {
			l = append(l, cosLabel(f.Name, k), sinLabel(f.Name, k))
		}
	}
	return l
}

func cosLabel(name string, k int) string { return "C_" + name + "_" + strconv.Itoa(k) }
func sinLabel(name string, k int) string { return "S_" + name + "_" + strconv.Itoa(k) }

// row fills one design matrix row for time t.
func (m Model) row(t float64, r []float64) {
	r[0] = 1
	c := 1
	for _, f := range m.Freqs {
		w := f.Omega()
		for k := 1; k <= m.Order; k++ {
			r[c], r[c+1] = math.Cos(float64(k)*w*t), math.Sin(float64(k)*w*t)
			c += 2
		}
	}
}

// Sample is one residual: days since the Kali epoch and the residual in
// degrees.
type Sample struct {
	Days, Delta float64
}

// Fit solves for coefficients by least squares.  Times are taken relative
// to the first sample.  A rank deficient system, including one with more
// coefficients than samples, gives the minimum norm solution.
func (m Model) Fit(s []Sample) (*Coefficients, error) {
	if len(s) == 0 {
		return nil, ErrNoSamples
	}
	n, p := len(s), m.NumCoeffs()
	a := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	t0 := s[0].Days
	for i, r := range s {
		m.row(r.Days-t0, a.RawRowView(i))
		y.SetVec(i, r.Delta)
	}
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, errors.New("svd factorization failed")
	}
	// numpy lstsq default cutoff
	rank := svd.Rank(float64(max(n, p)) * 0x1p-52)
	x := mat.NewVecDense(p, nil)
	if rank > 0 {
		svd.SolveVecTo(x, y, rank)
	}
	c := &Coefficients{
		Labels: m.Labels(),
		Values: make([]float64, p),
	}
	for i := range c.Values {
		c.Values[i] = x.AtVec(i)
	}
	return c, nil
}
