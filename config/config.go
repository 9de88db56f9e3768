// Package config reads run settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/sim/timing"
)

// Environment variables understood by Load.
const (
	EnvTONPreset   = "PLCSIM_TON_PRESET"
	EnvCTUPreset   = "PLCSIM_CTU_PRESET"
	EnvFreqMHz     = "PLCSIM_FREQ_MHZ"
	EnvRecord      = "PLCSIM_RECORD"
	EnvMonitorPort = "PLCSIM_MONITOR_PORT"
)

// Config holds the settings of a run.
type Config struct {
	Presets plc.Presets
	Freq    timing.Freq

	// RecordPath is the recording file name without extension. Empty disables
	// recording.
	RecordPath string

	// MonitorPort enables the monitoring server when positive.
	MonitorPort int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Presets: plc.Presets{TON: 20, CTU: 5},
		Freq:    50 * timing.MHz,
	}
}

// Load reads the given .env files, or ./.env when none is given, and then the
// process environment. Variables already set in the environment win over the
// files. A missing default .env is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: reading .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	c := Default()

	if err := lookupUint32(EnvTONPreset, &c.Presets.TON); err != nil {
		return Config{}, err
	}

	if err := lookupUint32(EnvCTUPreset, &c.Presets.CTU); err != nil {
		return Config{}, err
	}

	if v, ok := os.LookupEnv(EnvFreqMHz); ok {
		mhz, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvFreqMHz, err)
		}

		c.Freq = timing.Freq(mhz) * timing.MHz
		if err := c.Freq.Validate(); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvFreqMHz, err)
		}
	}

	c.RecordPath = os.Getenv(EnvRecord)

	if v, ok := os.LookupEnv(EnvMonitorPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvMonitorPort, err)
		}

		c.MonitorPort = port
	}

	return c, nil
}

func lookupUint32(key string, dst *uint32) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}

	*dst = uint32(n)

	return nil
}
