// Public domain.

package ssprog

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssengine"
)

const defaultDate = "2025-05-19T13:51:26"

func newPositionsCmd(p *prog) *cobra.Command {
	var corrected, sexa bool
	var bodies string
	cmd := &cobra.Command{
		Use:   "positions [date]",
		Short: "Print model longitudes for a UT date",
		Long: `Positions prints, for each body, the true longitude, the mean longitude
and the sighra point in degrees, separated by |.  The sighra column is
zero for the luminaries and nodes.  The date is YYYY-MM-DD[THH:MM[:SS]]
UT, default ` + defaultDate + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := defaultDate
			if len(args) == 1 {
				date = args[0]
			}
			t, err := parseTime(date)
			if err != nil {
				return err
			}
			bs, err := ssbody.ParseList(bodies, ssbody.All)
			if err != nil {
				return err
			}
			m, err := p.model(corrected)
			if err != nil {
				return err
			}
			days := ssangle.DaysFromTime(t)
			ps := make([]ssengine.Position, len(bs))
			for i, b := range bs {
				ps[i] = m.Position(b, days)
			}
			if sexa {
				writeSexa(cmd.OutOrStdout(), ps)
			} else {
				writePositions(cmd.OutOrStdout(), ps)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&corrected, "corrected", false, "apply the harmonic correction file")
	f.BoolVar(&sexa, "sexa", false, "sexagesimal output")
	f.StringVar(&bodies, "bodies", "all", "comma separated bodies")
	return cmd
}

func writePositions(w io.Writer, ps []ssengine.Position) {
	fmt.Fprintln(w, "Body|True|Mean|Sighra")
	for _, pos := range ps {
		if pos.Body.Kind() == ssbody.Node {
			fmt.Fprintf(w, "%s|%.6f|%.6f|0.0\n", pos.Body, pos.True, pos.Mean)
			continue
		}
		fmt.Fprintf(w, "%s|%.6f|%.6f|%.6f\n", pos.Body, pos.True, pos.Mean, pos.Sighra)
	}
}

func writeSexa(w io.Writer, ps []ssengine.Position) {
	fmt.Fprintf(w, "%-8s %14s %14s\n", "Body", "True", "Mean")
	for _, pos := range ps {
		fmt.Fprintf(w, "%-8s %14s %14s\n", pos.Body,
			fmt.Sprintf("%.1s", ssangle.Sexa(pos.True)),
			fmt.Sprintf("%.1s", ssangle.Sexa(pos.Mean)))
	}
}
