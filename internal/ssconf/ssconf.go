// Public domain.

// Package ssconf loads program configuration.
//
// Values come from, in increasing precedence, built in defaults, a
// siddhanta.toml file, SIDDHANTA_* environment variables (a .env file in
// the working directory is loaded into the environment first) and command
// line flags bound by the command program.
package ssconf

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/soniakeys/siddhanta/internal/ssangle"
	"github.com/soniakeys/siddhanta/internal/ssbin"
	"github.com/soniakeys/siddhanta/internal/sscal"
	"github.com/soniakeys/siddhanta/internal/ssharm"
	"github.com/soniakeys/siddhanta/internal/sslog"
	"github.com/soniakeys/siddhanta/internal/ssoracle"
)

// EnvPrefix prefixes environment variable names.
const EnvPrefix = "SIDDHANTA"

// Name is the base name of the configuration file.
const Name = "siddhanta"

// DateLayout is the layout of date valued settings.
const DateLayout = "2006-01-02"

// Config holds all runtime configuration.
type Config struct {
	EphemerisPath string   `mapstructure:"ephemeris_path"`
	Backend       string   `mapstructure:"backend"`
	Sidereal      string   `mapstructure:"sidereal"`
	Start         string   `mapstructure:"start"` // first training date
	Years         float64  `mapstructure:"years"`
	StrideDays    float64  `mapstructure:"stride_days"`
	ParamsFile    string   `mapstructure:"params_file"`
	CoeffsFile    string   `mapstructure:"coeffs_file"`
	HarmonicOrder int      `mapstructure:"harmonic_order"`
	Frequencies   []string `mapstructure:"frequencies"`
	MaxIterations int      `mapstructure:"max_iterations"`
	LogLevel      string   `mapstructure:"log_level"`
	LogPretty     bool     `mapstructure:"log_pretty"`
}

// SetDefaults installs the built in defaults.
func SetDefaults() {
	viper.SetDefault("ephemeris_path", "de440.bin")
	viper.SetDefault("backend", ssoracle.JPL)
	viper.SetDefault("sidereal", ssoracle.Lahiri)
	viper.SetDefault("start", "2023-01-01")
	viper.SetDefault("years", 3)
	viper.SetDefault("stride_days", 5)
	viper.SetDefault("params_file", ssbin.Pfn)
	viper.SetDefault("coeffs_file", ssbin.Cfn)
	viper.SetDefault("harmonic_order", ssharm.DefaultOrder)
	viper.SetDefault("frequencies", ssharm.DefaultFrequencies)
	viper.SetDefault("max_iterations", 4000)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_pretty", true)
}

// Init prepares viper to read cfgFile, or siddhanta.toml from the working
// directory if cfgFile is empty, and the environment.  A missing default
// file is not an error.
func Init(cfgFile string) error {
	_ = godotenv.Load()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(Name)
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads configuration from viper, applying defaults for values not
// otherwise set.
func Load() (Config, error) {
	SetDefaults()
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Oracle returns the reference oracle configuration.
func (c Config) Oracle() ssoracle.Config {
	return ssoracle.Config{
		Backend:       c.Backend,
		EphemerisPath: c.EphemerisPath,
		Sidereal:      c.Sidereal,
	}
}

// Window returns the training window.
func (c Config) Window() (sscal.Window, error) {
	t, err := time.Parse(DateLayout, c.Start)
	if err != nil {
		return sscal.Window{}, fmt.Errorf("start: %w", err)
	}
	if !(c.Years > 0) || !(c.StrideDays > 0) {
		return sscal.Window{}, fmt.Errorf("years %g, stride_days %g: must be positive",
			c.Years, c.StrideDays)
	}
	return sscal.Window{
		StartJD: ssangle.JD(ssangle.DaysFromTime(t)),
		Days:    c.Years * 365,
		Stride:  c.StrideDays,
	}, nil
}

// Model returns the harmonic correction model.
func (c Config) Model() (ssharm.Model, error) {
	return ssharm.NewModel(c.Frequencies, c.HarmonicOrder)
}

// Log returns the logger configuration.
func (c Config) Log() sslog.Config {
	return sslog.Config{Level: c.LogLevel, Pretty: c.LogPretty}
}
