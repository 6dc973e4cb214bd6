// Public domain.

// Package ssbody defines the bodies of the model and their fixed tables:
// kind, epicycle dimensions, and the textbook revolution counts used as
// starting guesses for calibration.
package ssbody

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Body identifies one of the modeled bodies.
type Body int

const (
	Sun Body = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu // ascending lunar node
	Ketu // descending node, Rahu + 180
)

// ErrUnknownBody is returned by Parse and by text unmarshaling.
var ErrUnknownBody = errors.New("unknown body")

// Kind classifies bodies by the corrections the engine applies.
type Kind int

const (
	Luminary Kind = iota // manda correction only
	Inner                // star type, mean is the Sun, sighra is own motion
	Outer                // star type, mean is own motion, sighra is the Sun
	Node                 // mean motion only
)

// IsStar reports whether the kind takes the manda/sighra iteration.
func (k Kind) IsStar() bool { return k == Inner || k == Outer }

// Epicycle holds epicycle circumferences in degrees at even and odd
// quadrants.
type Epicycle struct {
	Even, Odd float64
}

// Entry is one row of the body table.
type Entry struct {
	Name   string
	Kind   Kind
	Manda  Epicycle
	Sighra Epicycle // zero for luminaries and nodes

	// textbook revolutions per Mahayuga, starting points for calibration
	Revs      float64
	ApsisRevs float64
}

// Table is indexed by Body.
var Table = [...]Entry{
	Sun:     {"Sun", Luminary, Epicycle{14, 13.67}, Epicycle{}, 4320000, 0},
	Moon:    {"Moon", Luminary, Epicycle{32, 31.67}, Epicycle{}, 57753336, 488203},
	Mars:    {"Mars", Outer, Epicycle{75, 72}, Epicycle{235, 232}, 2296832, 0},
	Mercury: {"Mercury", Inner, Epicycle{30, 28}, Epicycle{133, 132}, 17937060, 0},
	Jupiter: {"Jupiter", Outer, Epicycle{33, 32}, Epicycle{70, 72}, 364220, 0},
	Venus:   {"Venus", Inner, Epicycle{12, 11}, Epicycle{262, 260}, 7022376, 0},
	Saturn:  {"Saturn", Outer, Epicycle{49, 48}, Epicycle{39, 40}, 146568, 0},
	Rahu:    {"Rahu", Node, Epicycle{}, Epicycle{}, -232238, 0},
	Ketu:    {"Ketu", Node, Epicycle{}, Epicycle{}, -232238, 0},
}

// All lists every body in table order.
var All = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

// Calibrated lists the bodies that carry their own parameters.  Ketu is
// derived from Rahu.
var Calibrated = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu}

// Valid reports whether b is in the table.
func (b Body) Valid() bool { return b >= Sun && b <= Ketu }

func (b Body) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return Table[b].Name
}

// Kind returns the kind of b.
func (b Body) Kind() Kind { return Table[b].Kind }

// Entry returns the table row for b.
func (b Body) Entry() *Entry { return &Table[b] }

// Wiggle is the advisory search margin for the revolution count, five
// percent of the textbook value.
func (b Body) Wiggle() float64 { return .05 * math.Abs(Table[b].Revs) }

// ApsisWiggle is the advisory search margin for apsis revolutions.
func (b Body) ApsisWiggle() float64 {
	if b == Moon {
		return 50000
	}
	return 10
}

// Parse looks up a body by name, ignoring case.
func Parse(s string) (Body, error) {
	for b := range Table {
		if strings.EqualFold(s, Table[b].Name) {
			return Body(b), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBody, s)
}

// ParseList parses a comma separated list of names.  An empty string or
// "all" selects def.
func ParseList(s string, def []Body) ([]Body, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return def, nil
	}
	var l []Body
	for _, f := range strings.Split(s, ",") {
		b, err := Parse(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		l = append(l, b)
	}
	return l, nil
}

// MarshalText lets bodies key maps in text encodings.
func (b Body) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBody, int(b))
	}
	return []byte(Table[b].Name), nil
}

func (b *Body) UnmarshalText(text []byte) (err error) {
	*b, err = Parse(string(text))
	return
}
