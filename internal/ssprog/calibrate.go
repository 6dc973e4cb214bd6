// Public domain.

package ssprog

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soniakeys/siddhanta/internal/sscal"
)

func newCalibrateCmd(p *prog) *cobra.Command {
	var restarts int
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Fit model parameters to the reference ephemeris",
		Long: `Calibrate samples the reference ephemeris over the training window and
fits revolution counts, epoch offsets and apsis motion body by body.  The
Sun, Moon and node are fitted first; the planets are fitted against the
mean Sun just found.  The table is written to the parameters file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := p.cfg.Window()
			if err != nil {
				return err
			}
			ref, err := p.oracle()
			if err != nil {
				return err
			}
			defer ref.Close()
			opt := sscal.Options{
				MaxIterations: p.cfg.MaxIterations,
				Restarts:      restarts,
				Log:           p.log,
			}
			tab, rs, err := sscal.CalibrateAll(cmd.Context(), ref, w,
				ref.Config().String(), opt)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s %10s %20s %12s\n", "Body", "RMS(′)", "Revolutions", "Offset")
			for _, r := range rs {
				fmt.Fprintf(out, "%-8s %10.3f %20.6f %12.6f\n",
					r.Body, r.RMS, r.Params.Revolutions, r.Params.Offset)
			}
			if err := tab.WriteFile(p.cfg.ParamsFile); err != nil {
				return err
			}
			p.log.Info().Str("file", p.cfg.ParamsFile).
				Str("run_id", tab.RunID.String()).Msg("parameters written")
			return nil
		},
	}
	cmd.Flags().IntVar(&restarts, "restarts", 0, "simplex restarts per body, 0 for default, negative for none")
	return cmd
}
