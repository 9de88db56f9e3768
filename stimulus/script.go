// Package stimulus describes pin waveforms as scripts of steps and replays them
// into a controller.
package stimulus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/plc/pins"
)

// Errors reported by Validate.
var (
	ErrEmptyScript = errors.New("stimulus: script has no steps")
	ErrBadCycles   = errors.New("stimulus: step must last at least one cycle")
)

// Expectation lists the outputs a step must produce on its last cycle. Nil
// fields are not checked.
type Expectation struct {
	Control *bool `yaml:"control,omitempty"`
	Q       *bool `yaml:"q,omitempty"`
}

// Step holds the inputs steady for a number of cycles.
type Step struct {
	Name   string `yaml:"name,omitempty"`
	Manual bool   `yaml:"manual,omitempty"`
	Auto   bool   `yaml:"auto,omitempty"`
	Start  bool   `yaml:"start,omitempty"`
	Stop   bool   `yaml:"stop,omitempty"`
	Reset  bool   `yaml:"reset,omitempty"`

	// Enable defaults to true when omitted.
	Enable *bool `yaml:"enable,omitempty"`

	// UIIn, when set, drives the raw input bus and overrides the mode, start
	// and stop fields.
	UIIn *uint8 `yaml:"ui_in,omitempty"`

	Cycles int          `yaml:"cycles"`
	Expect *Expectation `yaml:"expect,omitempty"`
}

// Enabled reports the value of the enable pin during the step.
func (s Step) Enabled() bool {
	return s.Enable == nil || *s.Enable
}

// Inputs returns the logical inputs held during the step.
func (s Step) Inputs() plc.Inputs {
	return pins.Decode(s.Pins())
}

// Pins returns the pin values held during the step.
func (s Step) Pins() pins.Pins {
	if s.UIIn != nil {
		return pins.Pins{UIIn: *s.UIIn, RstN: !s.Reset, Ena: s.Enabled()}
	}

	return pins.Encode(plc.Inputs{
		Manual: s.Manual,
		Auto:   s.Auto,
		Start:  s.Start,
		Stop:   s.Stop,
		Enable: s.Enabled(),
		Reset:  s.Reset,
	})
}

// Script is a named sequence of steps with optional presets. Nil presets
// leave the choice to the caller.
type Script struct {
	Name      string  `yaml:"name"`
	TONPreset *uint32 `yaml:"ton_preset,omitempty"`
	CTUPreset *uint32 `yaml:"ctu_preset,omitempty"`
	Steps     []Step  `yaml:"steps"`
}

// Validate checks that the script can be played.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyScript, s.Name)
	}

	for i, step := range s.Steps {
		if step.Cycles <= 0 {
			return fmt.Errorf("%w: step %d (%q) has %d cycles",
				ErrBadCycles, i, step.Name, step.Cycles)
		}
	}

	return nil
}

// TotalCycles returns the length of the script in cycles.
func (s *Script) TotalCycles() int {
	total := 0
	for _, step := range s.Steps {
		total += step.Cycles
	}

	return total
}

// Presets merges the script presets over the given defaults.
func (s *Script) Presets(defaults plc.Presets) plc.Presets {
	p := defaults

	if s.TONPreset != nil {
		p.TON = *s.TONPreset
	}

	if s.CTUPreset != nil {
		p.CTU = *s.CTUPreset
	}

	return p
}

// Load parses and validates a YAML script.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := &Script{}
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("stimulus: decoding script: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// LoadFile reads a YAML script from disk.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stimulus: %w", err)
	}

	s, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}
