package config

import (
	"strings"
	"time"

	"github.com/henderiw/timeranges/pkg/daterange"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "RANGESET"

const (
	KeyConfig       = "config"
	KeyFile         = "file"
	KeyLocation     = "location"
	KeyUnit         = "unit"
	KeyPrecise      = "precise"
	KeyAdjacent     = "adjacent"
	KeyExcludeStart = "exclude-start"
	KeyExcludeEnd   = "exclude-end"
	KeySelector     = "selector"
)

type Config struct {
	File         string `mapstructure:"file"`
	Location     string `mapstructure:"location"`
	Unit         string `mapstructure:"unit"`
	Precise      bool   `mapstructure:"precise"`
	Adjacent     bool   `mapstructure:"adjacent"`
	ExcludeStart bool   `mapstructure:"exclude-start"`
	ExcludeEnd   bool   `mapstructure:"exclude-end"`
	Selector     string `mapstructure:"selector"`
}

// New returns a viper instance with defaults and environment lookup set
// up, e.g. RANGESET_EXCLUDE_START.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyFile, "ranges.yaml")
	v.SetDefault(KeyLocation, "UTC")
	v.SetDefault(KeyUnit, string(daterange.Milliseconds))
	v.SetDefault(KeyPrecise, false)
	v.SetDefault(KeyAdjacent, false)
	v.SetDefault(KeyExcludeStart, false)
	v.SetDefault(KeyExcludeEnd, false)
	v.SetDefault(KeySelector, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load binds flags, reads the optional config file named by the config key
// and returns the resulting configuration.
func Load(v *viper.Viper, flags *pflag.FlagSet) (*Config, error) {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
	}
	if name := v.GetString(KeyConfig); name != "" {
		v.SetConfigFile(name)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", name)
		}
	}
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if _, err := c.TimeLocation(); err != nil {
		return nil, err
	}
	if _, err := c.DiffUnit(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid location %q", c.Location)
	}
	return loc, nil
}

func (c *Config) DiffUnit() (daterange.Unit, error) {
	u, err := daterange.ParseUnit(c.Unit)
	if err != nil {
		return "", errors.Wrap(err, "invalid unit")
	}
	return u, nil
}

func (c *Config) ContainsOptions() daterange.ContainsOptions {
	return daterange.ContainsOptions{ExcludeStart: c.ExcludeStart, ExcludeEnd: c.ExcludeEnd}
}

func (c *Config) OverlapOptions() daterange.OverlapOptions {
	return daterange.OverlapOptions{Adjacent: c.Adjacent}
}
