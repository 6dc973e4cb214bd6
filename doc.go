/*
Command siddhanta computes sidereal longitudes of the Sun, Moon, the five
classical planets and the lunar nodes with the epicyclic model of the Surya
Siddhanta, calibrated against a modern ephemeris.

Contents

Version 0.1

  Program overview
  Installing
  Command line usage
  Configuration
  File formats
  Algorithm outline


Program overview

The Surya Siddhanta gives each body a number of revolutions in a Mahayuga
of 1,577,917,828 days counted from the Kali epoch, 18 February 3102 BC,
and corrects the resulting mean longitude with one or two epicycles.  With
the textbook revolution counts the model drifts by degrees over modern
dates.  Siddhanta treats the revolution counts, the epoch offsets and the
motion of the apsides as free parameters and fits them to a reference
ephemeris over a short training window.  What remains can be reduced
further with a harmonic correction fitted to the residuals over a long
baseline.

Sample run:

  $ siddhanta positions 2025-05-19T13:51:26
  Body|True|Mean|Sighra
  Sun|...

Each line gives the true longitude, the mean longitude and, for the five
planets, the sighra point, in degrees in [0,360).  For Mercury and Venus
the mean is the mean Sun and the sighra point is the planet's own mean;
for Mars, Jupiter and Saturn the mean is the planet's own and the sighra
point is the mean Sun.  Rahu is the mean ascending node and Ketu is Rahu
plus 180 degrees.


Installing

You need Go 1.23 or later.  Type

  go install github.com/soniakeys/siddhanta@latest

A built in parameter table from a previous calibration lets the positions
command run without any data files.  Calibration, corrections and
validation need a reference ephemeris: a JPL DE binary file such as
de440.bin, or the analytic backend, which provides the Sun, Moon and node
only.


Command line usage

  siddhanta calibrate
  siddhanta corrections [--start date] [--end date] [--step days] [--bodies list]
  siddhanta positions [--corrected] [--sexa] [--bodies list] [date]
  siddhanta validate [--corrected] [--start date] [--end date] [--step days] [date]

Dates are UT, YYYY-MM-DD with an optional THH:MM or THH:MM:SS.  Body lists
are comma separated names, or all.

Calibrate writes the parameter table.  Corrections reads it, fits the
residuals of every listed body, writes the correction file and lists the
terms as {freq, cos, sin} with freq in radians per day.  Positions prints
the table above.  Validate prints model and reference longitudes at one
date with the difference in arc minutes, then the RMS and largest
difference of each body over a date series.

Flags common to all commands: --config, --params, --coeffs, --backend,
--ephemeris, --sidereal and --log-level.  Logging goes to stderr; stdout
carries only results.


Configuration

Settings are read from built in defaults, then siddhanta.toml in the
working directory (or the file named by --config), then SIDDHANTA_*
environment variables, then command line flags.  A .env file in the
working directory is loaded into the environment first.

  ephemeris_path   JPL ephemeris file, default de440.bin
  backend          jpl or analytic, default jpl
  sidereal         lahiri or tropical, default lahiri
  start            first training date, default 2023-01-01
  years            training span, default 3
  stride_days      training sample spacing, default 5
  params_file      default siddhanta.params.toml
  coeffs_file      default siddhanta.coeffs.json
  harmonic_order   harmonics per frequency, default 5
  frequencies      default solar_year, jupiter, saturn, node
  max_iterations   simplex iterations per search, default 4000
  log_level        debug, info, warn or error
  log_pretty       console rather than JSON log lines

Frequencies are preset names (solar_year 365.256363004 days, jupiter
4332.589, saturn 10759.22, node 6798.38) or periods in days.


File formats

The parameter table is TOML if its name ends in .toml and gob otherwise.
The TOML form has a run id, a creation time, the reference it was fitted
against and one [[body]] entry per body with revolutions, offset,
apsis_offset, apsis_revolutions and rms_arcmin.

The correction file is JSON if its name ends in .json and msgpack
otherwise.  It records the run id of the parameter table it corrects, the
series start in days since the Kali epoch, the order and frequencies, and
for each body the coefficients keyed a0, C_<freq>_<k>, S_<freq>_<k> in
design matrix order.  The correction at t days after the series start is

  a0 + sum of C·cos(kωt) + S·sin(kωt)

and is added to the model's true longitude.


Algorithm outline

1.  Mean longitude is the fractional part of days·revolutions/Mahayuga,
as a full circle, plus the offset.  The apsis moves the same way with its
own count and offset.

2.  The Sun and Moon get one manda (equation of center) correction.  The
epicycle circumference is interpolated between its even and odd quadrant
values by the sine of the anomaly.

3.  Planets get the four step scheme: half the sighra correction, half the
manda correction, the full manda correction from the mean, then the full
sighra correction from the manda corrected longitude.

4.  Calibration minimizes the mean squared angular error against the
reference by Nelder-Mead simplex search from the textbook values.  The
Sun, Moon and node are fitted first, then the planets against the mean Sun
just fitted.  Searches are unconstrained, except that apsis revolutions
of bodies other than the Moon stay within ten of their start.  A fit that
moves a revolution count more than five percent from the textbook value
is reported.  The simplex is scaled so that one step of a revolution
count turns the body a degree across the training window, pivoting on its
middle.

5.  Harmonic corrections are linear least squares solutions, minimum norm
when the design matrix is rank deficient.

6.  Reference longitudes are geocentric and ecliptic.  JPL positions are
corrected for light time and annual aberration.  Lahiri sidereal
longitude subtracts an ayanamsa of 23.85306 degrees at J2000 plus general
precession.  Times are converted from UT with a ΔT model.

-------------
Public domain.
*/
package main
