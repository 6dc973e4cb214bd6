// Public domain.

package ssprog

import (
	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbin"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssengine"
)

// model is the engine with an optional harmonic correction applied to the
// true longitude.
type model struct {
	*ssengine.Engine
	corr *ssbin.Corrections
}

// newModel checks that corr, if not nil, evaluates for every body.
func newModel(tab *ssbin.Table, corr *ssbin.Corrections) (*model, error) {
	if corr != nil {
		for _, b := range ssbody.All {
			if _, err := corr.Correction(b, corr.StartDays); err != nil {
				return nil, err
			}
		}
	}
	return &model{tab.Engine(), corr}, nil
}

func (m *model) TrueLongitude(b ssbody.Body, days float64) float64 {
	lon := m.Engine.TrueLongitude(b, days)
	if m.corr == nil {
		return lon
	}
	c, _ := m.corr.Correction(b, days)
	return ssangle.Normalize(lon + c)
}

func (m *model) Position(b ssbody.Body, days float64) ssengine.Position {
	pos := m.Engine.Position(b, days)
	pos.True = m.TrueLongitude(b, days)
	return pos
}

// model reads the parameter table and, if corrected, the correction file.
func (p *prog) model(corrected bool) (*model, error) {
	tab, err := p.table()
	if err != nil {
		return nil, err
	}
	var corr *ssbin.Corrections
	if corrected {
		if corr, err = ssbin.ReadCorrections(p.cfg.CoeffsFile); err != nil {
			return nil, err
		}
		if corr.RunID != tab.RunID {
			p.log.Warn().Str("params", tab.RunID.String()).
				Str("coeffs", corr.RunID.String()).
				Msg("corrections were fitted to a different parameter table")
		}
	}
	return newModel(tab, corr)
}
