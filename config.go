package particlefilter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidConfig is returned for a filter that cannot be constructed.
	ErrInvalidConfig = errors.New("invalid particle filter config")
	// ErrInvalidInput is returned for non-finite poses, deltas or noise factors.
	ErrInvalidInput = errors.New("invalid particle filter input")
)

// Config holds the parameters of a filter.
type Config struct {
	NumParticles int     `toml:"num_particles"`
	BoxWidth     float64 `toml:"box_width"`  // unit: arena units
	BoxHeight    float64 `toml:"box_height"` // unit: arena units

	// Predict noise. The x/y standard deviation is max(|delta|*NoiseFactor, NoiseFactor),
	// the heading one max(|delta|*NoiseFactor, HeadingNoiseFloor).
	NoiseFactor       float64 `toml:"noise_factor"`
	HeadingNoiseFloor float64 `toml:"heading_noise_floor"` // unit: rad

	SensorSigma float64 `toml:"sensor_sigma"` // rangefinder noise scale

	// Jitter added to every resampled particle.
	JitterXY      float64 `toml:"jitter_xy"`
	JitterHeading float64 `toml:"jitter_heading"` // unit: rad

	// CircularHeadingMean averages headings on the circle instead of
	// arithmetically. Off by default; changes the estimated heading.
	CircularHeadingMean bool `toml:"circular_heading_mean"`
}

// DefaultConfig returns the reference parameters: 200 particles in a 144x144 arena.
func DefaultConfig() Config {
	return Config{
		NumParticles:      200,
		BoxWidth:          144,
		BoxHeight:         144,
		NoiseFactor:       1.0,
		HeadingNoiseFloor: 0.001,
		SensorSigma:       7.0,
		JitterXY:          0.05,
		JitterHeading:     0.01,
	}
}

// Validate reports the first unusable parameter.
func (c Config) Validate() error {
	switch {
	case c.NumParticles <= 0:
		return fmt.Errorf("%w: num_particles must be positive, got %d", ErrInvalidConfig, c.NumParticles)
	case !positive(c.BoxWidth):
		return fmt.Errorf("%w: box_width must be positive, got %v", ErrInvalidConfig, c.BoxWidth)
	case !positive(c.BoxHeight):
		return fmt.Errorf("%w: box_height must be positive, got %v", ErrInvalidConfig, c.BoxHeight)
	case !nonNegative(c.NoiseFactor):
		return fmt.Errorf("%w: noise_factor must be >= 0, got %v", ErrInvalidConfig, c.NoiseFactor)
	case !nonNegative(c.HeadingNoiseFloor):
		return fmt.Errorf("%w: heading_noise_floor must be >= 0, got %v", ErrInvalidConfig, c.HeadingNoiseFloor)
	case !positive(c.SensorSigma):
		return fmt.Errorf("%w: sensor_sigma must be positive, got %v", ErrInvalidConfig, c.SensorSigma)
	case !nonNegative(c.JitterXY):
		return fmt.Errorf("%w: jitter_xy must be >= 0, got %v", ErrInvalidConfig, c.JitterXY)
	case !nonNegative(c.JitterHeading):
		return fmt.Errorf("%w: jitter_heading must be >= 0, got %v", ErrInvalidConfig, c.JitterHeading)
	}
	return nil
}

func positive(v float64) bool    { return isFinite(v) && v > 0 }
func nonNegative(v float64) bool { return isFinite(v) && v >= 0 }

const maxConfigSize = 1 << 20

// LoadConfig decodes a TOML file over DefaultConfig and validates the result.
// Keys not present in the file keep their default values.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".toml" {
		return conf, fmt.Errorf("config file must have .toml extension, got %q", ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return conf, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return conf, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	md, err := toml.DecodeFile(cleanPath, &conf)
	if err != nil {
		return conf, fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return conf, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

