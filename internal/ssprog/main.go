// Public domain.

// Package ssprog implements the siddhanta command.
package ssprog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soniakeys/exit"
	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbin"
	"github.com/soniakeys/siddhanta/internal/ssconf"
	"github.com/soniakeys/siddhanta/internal/sslog"
	"github.com/soniakeys/siddhanta/internal/ssoracle"
)

const version = "0.1"
const copyrightString = "Public domain."

// Main runs the command.  Errors terminate the process with exit code 1.
func Main() {
	defer exit.Handler()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		exit.Log(err)
	}
}

// prog holds what every subcommand needs, set up before the subcommand
// runs.
type prog struct {
	cfgFile string
	cfg     ssconf.Config
	log     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	p := &prog{}
	root := &cobra.Command{
		Use:   "siddhanta",
		Short: "Calibrated Surya Siddhanta planetary positions",
		Long: `Siddhanta computes sidereal longitudes of the Sun, Moon, five planets and
the lunar nodes with the epicyclic model of the Surya Siddhanta, calibrates
its parameters against a modern ephemeris, and fits harmonic corrections
to what the model leaves.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return p.setup()
		},
	}
	root.SetVersionTemplate("siddhanta version {{.Version}} Go source.\n" +
		copyrightString + "\n")

	pf := root.PersistentFlags()
	pf.StringVar(&p.cfgFile, "config", "", "config file (default ./siddhanta.toml)")
	pf.String("params", ssbin.Pfn, "parameter table file, .toml or gob")
	pf.String("coeffs", ssbin.Cfn, "correction file, .json or msgpack")
	pf.String("backend", ssoracle.JPL, "reference ephemeris, jpl or analytic")
	pf.String("ephemeris", "", "JPL ephemeris file")
	pf.String("sidereal", ssoracle.Lahiri, "reckoning, lahiri or tropical")
	pf.String("log-level", "info", "debug, info, warn or error")
	for key, flag := range map[string]string{
		"params_file":    "params",
		"coeffs_file":    "coeffs",
		"backend":        "backend",
		"ephemeris_path": "ephemeris",
		"sidereal":       "sidereal",
		"log_level":      "log-level",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newCalibrateCmd(p),
		newCorrectionsCmd(p),
		newPositionsCmd(p),
		newValidateCmd(p),
	)
	return root
}

func (p *prog) setup() error {
	if err := ssconf.Init(p.cfgFile); err != nil {
		return err
	}
	cfg, err := ssconf.Load()
	if err != nil {
		return err
	}
	p.cfg = cfg
	p.log = sslog.New(cfg.Log())
	return nil
}

// table reads the parameter table.  If the default file is absent the
// built in table is used.
func (p *prog) table() (*ssbin.Table, error) {
	t, err := ssbin.ReadFile(p.cfg.ParamsFile)
	if errors.Is(err, os.ErrNotExist) && p.cfg.ParamsFile == ssbin.Pfn {
		p.log.Info().Msg("no parameter file, using built in table")
		return ssbin.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	p.log.Debug().Str("file", p.cfg.ParamsFile).
		Str("run_id", t.RunID.String()).Msg("parameters read")
	return t, nil
}

func (p *prog) oracle() (*ssoracle.Reference, error) {
	return ssoracle.Open(p.cfg.Oracle(), p.log)
}

var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	ssconf.DateLayout,
}

// parseTime parses a UT date with optional time of day.
func parseTime(s string) (time.Time, error) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD[THH:MM[:SS]]", s)
}

// daySeries returns days since the Kali epoch from start through end
// inclusive at step days.
func daySeries(start, end string, step float64) ([]float64, error) {
	t0, err := parseTime(start)
	if err != nil {
		return nil, err
	}
	t1, err := parseTime(end)
	if err != nil {
		return nil, err
	}
	if !(step > 0) {
		return nil, fmt.Errorf("step %g: must be positive", step)
	}
	d0, d1 := ssangle.DaysFromTime(t0), ssangle.DaysFromTime(t1)
	if d1 < d0 {
		return nil, fmt.Errorf("end %s before start %s", end, start)
	}
	var days []float64
	for i := 0; ; i++ {
		d := d0 + float64(i)*step
		if d > d1 {
			break
		}
		days = append(days, d)
	}
	return days, nil
}
