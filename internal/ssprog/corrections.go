// Public domain.

package ssprog

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/soniakeys/siddhanta/internal/ssbin"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssharm"
)

func newCorrectionsCmd(p *prog) *cobra.Command {
	var start, end, bodies string
	var step float64
	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "Fit harmonic corrections to the model residuals",
		Long: `Corrections compares the calibrated model with the reference ephemeris
from start through end, fits a constant plus harmonics of the configured
frequencies to each body's residual, writes the coefficient file and
lists the terms.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := daySeries(start, end, step)
			if err != nil {
				return err
			}
			bs, err := ssbody.ParseList(bodies, ssbody.All)
			if err != nil {
				return err
			}
			hm, err := p.cfg.Model()
			if err != nil {
				return err
			}
			tab, err := p.table()
			if err != nil {
				return err
			}
			ref, err := p.oracle()
			if err != nil {
				return err
			}
			defer ref.Close()
			p.log.Info().Int("samples", len(days)).Int("bodies", len(bs)).
				Int("coefficients", hm.NumCoeffs()).Msg("fitting residuals")
			fits, err := ssharm.FitAll(cmd.Context(), hm, ref, tab.Engine(), bs, days)
			if err != nil {
				return err
			}
			c := ssbin.NewCorrections(tab, hm, days[0], fits)
			if err := c.WriteFile(p.cfg.CoeffsFile); err != nil {
				return err
			}
			p.log.Info().Str("file", p.cfg.CoeffsFile).Msg("corrections written")
			return writeTerms(cmd.OutOrStdout(), fits)
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", "1900-01-01", "first date")
	f.StringVar(&end, "end", "2100-01-01", "last date")
	f.Float64Var(&step, "step", 1, "days between samples")
	f.StringVar(&bodies, "bodies", "all", "comma separated bodies")
	return cmd
}

// writeTerms lists each correction as a constant and {freq, cos, sin}
// terms, freq in radians per day.
func writeTerms(w io.Writer, fits []ssharm.Fitted) error {
	for _, f := range fits {
		a0, terms, err := f.Coeffs.Terms()
		if err != nil {
			return fmt.Errorf("%v: %w", f.Body, err)
		}
		fmt.Fprintf(w, "%s rms %.3f′ after correction, %d terms\n", f.Body, f.RMS, len(terms))
		fmt.Fprintf(w, "  a0 %.12g\n", a0)
		for _, t := range terms {
			fmt.Fprintf(w, "  {freq: %.12g, cos: %.12g, sin: %.12g}\n", t.Freq, t.Cos, t.Sin)
		}
	}
	return nil
}
