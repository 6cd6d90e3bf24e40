package config

import (
	"os"
	"strings"

	"codeberg.org/nfehr/enviroctl/internal/errors"
	"codeberg.org/nfehr/enviroctl/internal/screen"
	"codeberg.org/nfehr/enviroctl/internal/units"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel    = "info"
	DefaultInterval    = 1
	DefaultCapacity    = 160
	DefaultRounding    = 1
	DefaultSleep       = 600
	DefaultTempComp    = 2.25
	DefaultMetricsDB   = "/var/lib/enviroctl/metrics.db"
	defaultConfigName  = "enviroctl"
	defaultConfigType  = "toml"
	defaultConfigPath  = "/etc"
	configPathOverride = "ENVIROCTL_CONFIG"
)

type Config struct {
	Interval    int     `mapstructure:"interval"`
	Capacity    int     `mapstructure:"capacity"`
	DefaultFill float64 `mapstructure:"default_fill"`
	Rotation    int     `mapstructure:"rotation"`
	Display     string  `mapstructure:"display"`
	Progress    bool    `mapstructure:"progress"`
	Sleep       int     `mapstructure:"sleep"`
	TempUnit    string  `mapstructure:"unit_temps"`
	Rounding    int     `mapstructure:"rounding"`
	TempComp    float64 `mapstructure:"temp_comp"`
	Fake        bool    `mapstructure:"fake"`
	Uploads     int     `mapstructure:"uploads"`
	LogLevel    string  `mapstructure:"log_level"`
	Debug       bool    `mapstructure:"debug"`
	Verbose     bool    `mapstructure:"verbose"`
	Metrics     bool    `mapstructure:"metrics"`
	Database    string  `mapstructure:"database"`
}

func Load() (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	setDefaults(v)

	flags := defineFlags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("ENVIROCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, flags); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("capacity", DefaultCapacity)
	v.SetDefault("default_fill", 1.0)
	v.SetDefault("rotation", 0)
	v.SetDefault("display", string(screen.ModeText))
	v.SetDefault("progress", false)
	v.SetDefault("sleep", DefaultSleep)
	v.SetDefault("unit_temps", string(units.Celsius))
	v.SetDefault("rounding", DefaultRounding)
	v.SetDefault("temp_comp", DefaultTempComp)
	v.SetDefault("fake", false)
	v.SetDefault("uploads", 0)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("metrics", false)
	v.SetDefault("database", DefaultMetricsDB)
}

// A fresh FlagSet per Load keeps repeated loads (and tests) from
// tripping over flag redefinition in the global set.
func defineFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("enviroctl", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Int("uploads", 0, "Number of refresh periods to run before exiting (0 = run forever)")
	flags.Bool("progress", false, "Show a progress bar on the top row of the display")
	flags.String("dmode", "", "Initial display mode")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")
	flags.Bool("fake", false, "Use simulated sensors instead of the board")
	flags.Int("interval", DefaultInterval, "Seconds between sensor polls")
	flags.String("log-level", "", "Set the logging level (debug, info, warning, error)")
	flags.String("config", "", "Path to configuration file")

	return flags
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	errFactory := errors.New()

	bindings := map[string]string{
		"uploads":   "uploads",
		"progress":  "progress",
		"dmode":     "display",
		"debug":     "debug",
		"verbose":   "verbose",
		"fake":      "fake",
		"interval":  "interval",
		"log-level": "log_level",
	}
	for flagName, key := range bindings {
		f := flags.Lookup(flagName)
		if f == nil {
			return errFactory.WithData(errors.ErrBindFlags, flagName)
		}
		// Only flags the user actually set override file and env values.
		if f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	return nil
}

func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	errFactory := errors.New()

	path, _ := flags.GetString("config")
	if path == "" {
		path = os.Getenv(configPathOverride)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}

		return nil
	}

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)
	v.AddConfigPath(defaultConfigPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.Capacity <= 0 {
		return errFactory.WithData(errors.ErrInvalidArgument, c.Capacity)
	}
	switch c.Rotation {
	case 0, 90, 180, 270:
	default:
		return errFactory.WithData(errors.ErrBadRotation, c.Rotation)
	}
	if !units.TempUnit(c.TempUnit).IsValid() {
		return errFactory.WithData(errors.ErrUnknownUnit, c.TempUnit)
	}
	if _, err := screen.ParseMode(c.Display); err != nil {
		return err
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}
