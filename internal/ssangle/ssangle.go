// Public domain.

// Package ssangle holds the angle and time conventions shared by the
// siddhanta packages.
//
// Angles are float64 degrees throughout.  Time is days since the Kali
// epoch, the civil midnight of JD 588465.5.
package ssangle

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

const (
	// Mahayuga is the length in days of the great cycle in which every
	// revolution count is expressed.
	Mahayuga = 1577917828.

	// KaliEpochJD is the Julian date of day zero.
	KaliEpochJD = 588465.5

	// R is the trigonometric radius in arc minutes.
	R = 3438.
)

// Normalize reduces deg to the range [0,360).
func Normalize(deg float64) float64 {
	a := unit.PMod(deg, 360)
	if a >= 360 {
		// tiny negative remainders round up to exactly 360
		return 0
	}
	return a
}

// SignedDiff returns a-b as the shortest signed arc, in (-180,180].
func SignedDiff(a, b float64) float64 {
	d := Normalize(a-b+180) - 180
	if d == -180 {
		return 180
	}
	return d
}

// MeanLongitude returns the mean longitude after the given number of days
// for a body making revs revolutions per Mahayuga, starting at offset.
//
// Whole cycles are discarded by truncation toward zero, not floor, so a
// retrograde count gives a negative fraction before the offset is added.
func MeanLongitude(days, revs, offset float64) float64 {
	_, frac := math.Modf(days * revs / Mahayuga)
	return Normalize(frac*360 + offset)
}

// DaysSinceEpoch converts a Julian date to days since the Kali epoch.
func DaysSinceEpoch(jd float64) float64 {
	return jd - KaliEpochJD
}

// JD converts days since the Kali epoch back to a Julian date.
func JD(days float64) float64 {
	return days + KaliEpochJD
}

// DaysFromTime converts a time to days since the Kali epoch.
func DaysFromTime(t time.Time) float64 {
	return DaysSinceEpoch(julian.TimeToJD(t))
}

// DaysFromDate converts a Gregorian calendar date to days since the
// Kali epoch.  Fractional d carries the time of day.
func DaysFromDate(y, m int, d float64) float64 {
	return DaysSinceEpoch(julian.CalendarGregorianToJD(y, m, d))
}

// Sexa wraps a degree value for sexagesimal formatting, for example
// fmt.Sprintf("%.1s", ssangle.Sexa(lon)).
func Sexa(deg float64) *sexa.Angle {
	return sexa.FmtAngle(unit.AngleFromDeg(deg))
}
