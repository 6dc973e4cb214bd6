// Public domain.

package ssharm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coefficients is a fitted correction for one body.  Labels and Values
// are parallel and in column order.
type Coefficients struct {
	Labels []string
	Values []float64
}

// Term is one harmonic of the correction.
type Term struct {
	Freq float64 `json:"freq" msgpack:"freq"` // radians per day, k·ω
	Cos  float64 `json:"cos" msgpack:"cos"`
	Sin  float64 `json:"sin" msgpack:"sin"`
}

// Get returns the value for a label.
func (c *Coefficients) Get(label string) (float64, bool) {
	return c.getFrom(label, 0)
}

// getFrom returns the first value for label at or after index i.
func (c *Coefficients) getFrom(label string, i int) (float64, bool) {
	for ; i < len(c.Labels); i++ {
		if c.Labels[i] == label {
			return c.Values[i], true
		}
	}
	return 0, false
}

// Terms returns the constant term and the harmonic terms, one per cosine
// label, in label order.  Frequencies are recovered from the labels.
func (c *Coefficients) Terms() (a0 float64, terms []Term, err error) {
	a0, _ = c.Get("a0")
	for i, l := range c.Labels {
		if !strings.HasPrefix(l, "C_") {
			continue
		}
		name, k, err := splitLabel(l[2:])
		if err != nil {
			return 0, nil, err
		}
		f, err := ParseFrequency(name)
		if err != nil {
			return 0, nil, err
		}
		s, ok := c.getFrom(sinLabel(name, k), i+1)
		if !ok {
			return 0, nil, fmt.Errorf("%s has no matching sine term", l)
		}
		terms = append(terms, Term{float64(k) * f.Omega(), c.Values[i], s})
	}
	return
}

// splitLabel splits "<name>_<k>" at the last underscore; preset names
// contain underscores themselves.
func splitLabel(s string) (name string, k int, err error) {
	i := strings.LastIndexByte(s, '_')
	if i < 1 {
		return "", 0, fmt.Errorf("malformed label %q", s)
	}
	k, err = strconv.Atoi(s[i+1:])
	if err != nil || k < 1 {
		return "", 0, fmt.Errorf("malformed label %q", s)
	}
	return s[:i], k, nil
}

// Eval returns the correction in degrees at t days from the start of the
// fitted series.
func (c *Coefficients) Eval(t float64) (float64, error) {
	a0, terms, err := c.Terms()
	if err != nil {
		return 0, err
	}
	return EvalTerms(a0, terms, t), nil
}

// EvalTerms evaluates a constant plus harmonic terms at t.
func EvalTerms(a0 float64, terms []Term, t float64) float64 {
	v := a0
	for _, tm := range terms {
		s, c := math.Sincos(tm.Freq * t)
		v += tm.Cos*c + tm.Sin*s
	}
	return v
}

// MarshalJSON writes an object with keys in label order.
func (c *Coefficients) MarshalJSON() ([]byte, error) {
	if len(c.Labels) != len(c.Values) {
		return nil, fmt.Errorf("%d labels, %d values", len(c.Labels), len(c.Values))
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, l := range c.Labels {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(l)
		v, err := json.Marshal(c.Values[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l, err)
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads an object keeping keys in document order.
func (c *Coefficients) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	c.Labels, c.Values = c.Labels[:0], c.Values[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		l, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected %v", tok)
		}
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", l, err)
		}
		c.Labels = append(c.Labels, l)
		c.Values = append(c.Values, v)
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, d json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != d {
		return fmt.Errorf("expected %v, found %v", d, tok)
	}
	return nil
}

// RMS returns the root mean square, in arc minutes, of residuals s after
// the correction is applied.  Times are relative to s[0] as in Fit.
func (c *Coefficients) RMS(s []Sample) (float64, error) {
	if len(s) == 0 {
		return 0, ErrNoSamples
	}
	a0, terms, err := c.Terms()
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, r := range s {
		d := r.Delta - EvalTerms(a0, terms, r.Days-s[0].Days)
		sum += d * d
	}
	return math.Sqrt(sum/float64(len(s))) * 60, nil
}
