package common

import (
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
)

// Config holds defaults read from a TOML file. Command line flags and
// environment variables take precedence over every value here.
type Config struct {
	CompressionLevel       string        `toml:"compression_level,omitempty" json:"compression_level"`
	Exclude                []string      `toml:"exclude,omitempty" json:"exclude"`
	MetricsFile            string        `toml:"metrics_file,omitempty" json:"metrics_file"`
	TransferMeterFrequency time.Duration `toml:"transfer_meter_frequency,omitempty" json:"transfer_meter_frequency"`

	Loaded bool `toml:"-"`
}

func NewConfig() *Config {
	return &Config{}
}

// LoadConfig reads configFile into c. A missing file leaves c untouched and
// is not an error; Loaded reports whether anything was read.
func (c *Config) LoadConfig(configFile string) error {
	_, err := os.Stat(configFile)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	if _, err = toml.DecodeFile(configFile, c); err != nil {
		return err
	}

	c.Loaded = true
	return nil
}

// Merge fills every setting of c that is still unset with the value from
// defaults. Values already set on c are kept.
func (c *Config) Merge(defaults *Config) error {
	return mergo.Merge(c, defaults)
}
