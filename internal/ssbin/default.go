// Public domain.

package ssbin

import (
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssengine"
)

// Default returns the built in table, a fit against Lahiri sidereal
// longitudes sampled every five days over 2023 through 2025.
func Default() *Table {
	return &Table{
		Reference: "builtin lahiri",
		Params: map[ssbody.Body]ssengine.Params{
			ssbody.Sun:     {Revolutions: 4320848.34408488, Offset: 358.23069795, ApsisOffset: 150.65387626, ApsisRevolutions: -167.46602982},
			ssbody.Moon:    {Revolutions: 57753342.92393804, Offset: 0.00018896, ApsisOffset: 359.99999923, ApsisRevolutions: 494300.42432448},
			ssbody.Mars:    {Revolutions: 2296812.59669639, Offset: 11.08405200, ApsisOffset: 292.32580688, ApsisRevolutions: 41.43232597},
			ssbody.Mercury: {Revolutions: 17937100.89276243, Offset: 337.29402275, ApsisOffset: 45.06132833, ApsisRevolutions: 2.13840157},
			ssbody.Jupiter: {Revolutions: 364191.78110405, Offset: 7.81164608, ApsisOffset: 351.08026288, ApsisRevolutions: -2.89738145},
			ssbody.Venus:   {Revolutions: 7011399.58589762, Offset: 359.99978305, ApsisOffset: 0.00015868, ApsisRevolutions: 0.00015838},
			ssbody.Saturn:  {Revolutions: 146704.22608823, Offset: 309.70285787, ApsisOffset: 3.55375712, ApsisRevolutions: 143.30051754},
			ssbody.Rahu:    {Revolutions: -232269.44830466, Offset: 189.47238376},
		},
		RMS: map[ssbody.Body]float64{},
	}
}
