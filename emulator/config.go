package emulator

import (
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DEFAULT_INTERVAL = 500 * time.Millisecond // Clock period of the reference machine.
)

// Config is the emulator configuration.
type Config struct {
	Interval time.Duration `toml:"interval"` // Clock period.
	Budget   int           `toml:"budget"`   // Maximum steps for Run, 0 for unlimited.
	Verbose  bool          `toml:"verbose"`  // Trace every instruction.
	Base     uint8         `toml:"base"`     // Load address and entry point of images.
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Interval: DEFAULT_INTERVAL,
	}
}

// LoadConfig reads a TOML configuration file. Keys absent from the file
// keep their default values.
func LoadConfig(path string) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return
	}

	err = cfg.check(md)
	return
}

// ParseConfig decodes a TOML configuration from text.
func ParseConfig(text string) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return
	}

	err = cfg.check(md)
	return
}

func (cfg *Config) check(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make(ErrConfigKey, len(undecoded))
		for n, key := range undecoded {
			keys[n] = key.String()
		}
		return keys
	}

	if cfg.Interval <= 0 {
		return ErrInterval
	}

	return nil
}
