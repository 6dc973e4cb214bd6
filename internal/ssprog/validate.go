// Public domain.

package ssprog

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbody"
	"github.com/soniakeys/siddhanta/internal/ssharm"
	"github.com/soniakeys/siddhanta/internal/sswork"
)

func newValidateCmd(p *prog) *cobra.Command {
	var start, end, bodies string
	var step float64
	var corrected bool
	cmd := &cobra.Command{
		Use:   "validate [date]",
		Short: "Compare the model with the reference ephemeris",
		Long: `Validate prints model and reference longitudes and their difference in
arc minutes at one UT date, then the RMS and largest difference of each
body over a date series.`,
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
			days, err := daySeries(start, end, step)
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
			ref, err := p.oracle()
			if err != nil {
				return err
			}
			defer ref.Close()

			out := cmd.OutOrStdout()
			epoch, err := compareEpoch(ref, m, bs, ssangle.DaysFromTime(t))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s UT, %s\n", date, ref.Config())
			writeEpoch(out, epoch)

			sums, err := sswork.Run(cmd.Context(), len(bs), func(i int) (summary, error) {
				return summarize(ref, m, bs[i], days)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s through %s, %d dates\n", start, end, len(days))
			writeSummaries(out, sums)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&start, "start", "2000-01-01", "first series date")
	f.StringVar(&end, "end", "2100-01-01", "last series date")
	f.Float64Var(&step, "step", 30, "days between series dates")
	f.StringVar(&bodies, "bodies", "all", "comma separated bodies")
	f.BoolVar(&corrected, "corrected", false, "apply the harmonic correction file")
	return cmd
}

type comparison struct {
	body        ssbody.Body
	model, ref  float64 // degrees
	deltaArcmin float64 // model minus reference
}

func compareEpoch(ref ssharm.Reference, m ssharm.Longituder, bs []ssbody.Body, days float64) ([]comparison, error) {
	cs := make([]comparison, len(bs))
	for i, b := range bs {
		r, err := ref.LongitudeOf(b, ssangle.JD(days))
		if err != nil {
			return nil, err
		}
		lon := m.TrueLongitude(b, days)
		cs[i] = comparison{b, lon, r, ssangle.SignedDiff(lon, r) * 60}
	}
	return cs, nil
}

func writeEpoch(w io.Writer, cs []comparison) {
	fmt.Fprintf(w, "%-8s%12s%12s%10s  %s\n", "Body", "Model", "Reference", "Δ(′)", "Δ")
	for _, c := range cs {
		fmt.Fprintf(w, "%-8s%12.6f%12.6f%10.2f  %.1s\n", c.body, c.model, c.ref,
			c.deltaArcmin, ssangle.Sexa(c.deltaArcmin/60))
	}
}

type summary struct {
	body     ssbody.Body
	rms, max float64 // arc minutes
}

// summarize reports the model error for b over days.
func summarize(ref ssharm.Reference, m ssharm.Longituder, b ssbody.Body, days []float64) (summary, error) {
	s, err := ssharm.Residuals(ref, m, b, days)
	if err != nil {
		return summary{}, err
	}
	sq := make([]float64, len(s))
	abs := make([]float64, len(s))
	for i, r := range s {
		d := r.Delta * 60
		sq[i] = d * d
		abs[i] = math.Abs(d)
	}
	return summary{b, math.Sqrt(stat.Mean(sq, nil)), floats.Max(abs)}, nil
}

func writeSummaries(w io.Writer, ss []summary) {
	fmt.Fprintf(w, "%-8s%10s%10s\n", "Body", "RMS(′)", "Max(′)")
	for _, s := range ss {
		fmt.Fprintf(w, "%-8s%10.2f%10.2f\n", s.body, s.rms, s.max)
	}
}
