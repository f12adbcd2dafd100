// Package config loads the optional TOML options file for the scanner.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultProbeBinary   = "ffprobe"
	defaultCacheCapacity = 100
	defaultModel         = "v1-5-pruned-emaonly.safetensors"
	defaultSize          = "512x512"
	defaultPairLimit     = 2
)

// Config holds the scanner's tunable options.
type Config struct {
	// ProbeBinary is the ffprobe executable used for video containers.
	ProbeBinary string `toml:"probe_binary"`
	// CacheCapacity bounds the video metadata cache.
	CacheCapacity int `toml:"cache_capacity"`
	// DefaultModel is the checkpoint written into synthesized workflows
	// when the source record names none.
	DefaultModel string `toml:"default_model"`
	// DefaultSize is the WxH fallback for synthesized latent images.
	DefaultSize string `toml:"default_size"`
	// PairLimit is the maximum prompt fragment count for which a confident
	// positive/negative display distinction is still asserted.
	PairLimit int `toml:"pair_limit"`
	// StrictDetection requires more than one node before a JSON object is
	// accepted as a map-encoded workflow.
	StrictDetection bool `toml:"strict_detection"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProbeBinary:   defaultProbeBinary,
		CacheCapacity: defaultCacheCapacity,
		DefaultModel:  defaultModel,
		DefaultSize:   defaultSize,
		PairLimit:     defaultPairLimit,
	}
}

// Load reads a TOML config file and fills unset fields with defaults. A
// missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	if c.ProbeBinary == "" {
		c.ProbeBinary = defaultProbeBinary
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = defaultCacheCapacity
	}
	if c.DefaultModel == "" {
		c.DefaultModel = defaultModel
	}
	if c.DefaultSize == "" {
		c.DefaultSize = defaultSize
	}
	if c.PairLimit <= 0 {
		c.PairLimit = defaultPairLimit
	}
}

var sizeForm = regexp.MustCompile(`^\d+x\d+$`)

// Validate rejects values the scanner cannot work with.
func (c Config) Validate() error {
	if !sizeForm.MatchString(c.DefaultSize) {
		return fmt.Errorf("default_size %q is not WxH", c.DefaultSize)
	}
	return nil
}
