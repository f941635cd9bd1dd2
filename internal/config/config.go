package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/ygunayer/mangapdf/internal/errs"
	"github.com/ztrue/tracerr"
)

const (
	EnvPrefix = "MANGAPDF"

	CoverPolicyCrop      = "crop"
	CoverPolicyLetterbox = "letterbox"

	// DefaultMinVolumeSize is the smallest volume PDF, in bytes, that is not
	// flagged as suspiciously small.
	DefaultMinVolumeSize int64 = 100_000
)

// VolumeRange maps a volume number to an inclusive chapter range.
type VolumeRange struct {
	Volume       float64 `mapstructure:"volume" json:"volume" yaml:"volume"`
	FirstChapter float64 `mapstructure:"first_chapter" json:"first_chapter" yaml:"first_chapter"`
	LastChapter  float64 `mapstructure:"last_chapter" json:"last_chapter" yaml:"last_chapter"`
}

func (r VolumeRange) Contains(chapter float64) bool {
	return r.FirstChapter <= chapter && chapter <= r.LastChapter
}

// Config is the whole run configuration, loaded once at startup.
type Config struct {
	Name                   string        `mapstructure:"name"`
	Author                 string        `mapstructure:"author"`
	Root                   string        `mapstructure:"root"`
	VolumeFilenameTemplate string        `mapstructure:"volume_filename_template"`
	CoverSize              []int         `mapstructure:"cover_size"`
	Dictionary             []VolumeRange `mapstructure:"dictionary"`

	// optional
	CoverPolicy   string `mapstructure:"cover_policy"`
	MinVolumeSize int64  `mapstructure:"min_volume_size"`
	Jobs          int    `mapstructure:"jobs"`
}

func (c *Config) CoverWidth() int  { return c.CoverSize[0] }
func (c *Config) CoverHeight() int { return c.CoverSize[1] }

// Load reads the configuration file at path. The format is picked from the
// file extension and defaults to JSON. Every key may be overridden through
// MANGAPDF_<KEY> environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("cover_policy", CoverPolicyCrop)
	v.SetDefault("min_volume_size", DefaultMinVolumeSize)
	v.SetDefault("jobs", 1)
	for _, key := range []string{"name", "author", "root", "volume_filename_template"} {
		if err := v.BindEnv(key); err != nil {
			return nil, tracerr.Wrap(err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, tracerr.Wrap(errs.Configuration(path, err))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, tracerr.Wrap(errs.Configuration(path, err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, tracerr.Wrap(err)
	}

	return &cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []error
	add := func(key string, format string, args ...any) {
		problems = append(problems, errs.Newf(errs.KindConfiguration, key, format, args...))
	}

	if strings.TrimSpace(c.Root) == "" {
		add("root", "must not be empty")
	}
	if strings.TrimSpace(c.VolumeFilenameTemplate) == "" {
		add("volume_filename_template", "must not be empty")
	}
	if len(c.CoverSize) != 2 {
		add("cover_size", "must hold exactly two values (width, height), got %d", len(c.CoverSize))
	} else if c.CoverSize[0] <= 0 || c.CoverSize[1] <= 0 {
		add("cover_size", "width and height must be positive, got %v", c.CoverSize)
	}
	for i, r := range c.Dictionary {
		if r.FirstChapter > r.LastChapter {
			add(fmt.Sprintf("dictionary[%d]", i), "first_chapter %g is after last_chapter %g", r.FirstChapter, r.LastChapter)
		}
	}
	switch c.CoverPolicy {
	case "", CoverPolicyCrop, CoverPolicyLetterbox:
	default:
		add("cover_policy", "unknown policy %q", c.CoverPolicy)
	}
	if c.MinVolumeSize < 0 {
		add("min_volume_size", "must not be negative")
	}
	if c.Jobs < 0 {
		add("jobs", "must not be negative")
	}

	return errors.Join(problems...)
}
