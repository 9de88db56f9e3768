package simulation

import (
	"log"
	"math"

	"github.com/rs/xid"

	"github.com/sarchlab/plcsim/controller"
	"github.com/sarchlab/plcsim/datarecording"
	"github.com/sarchlab/plcsim/monitoring"
	"github.com/sarchlab/plcsim/plc"
	"github.com/sarchlab/plcsim/sim/timing"
	"github.com/sarchlab/plcsim/stimulus"
	"github.com/sarchlab/plcsim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	script         *stimulus.Script
	compName       string
	freq           timing.Freq
	defaultPresets plc.Presets
	tonPreset      *uint32
	ctuPreset      *uint32

	recordOn       bool
	outputFileName string
	traceFrom      uint64
	traceTo        uint64

	monitorOn   bool
	monitorPort int
	openBrowser bool

	eventLogger *log.Logger
	checkLogger *log.Logger
}

// MakeBuilder creates a new builder with monitoring and recording off.
func MakeBuilder() Builder {
	return Builder{
		compName:       "PLC",
		freq:           50 * timing.MHz,
		defaultPresets: plc.Presets{TON: 20, CTU: 5},
	}
}

// WithScript sets the stimulus to play.
func (b Builder) WithScript(s *stimulus.Script) Builder {
	b.script = s
	return b
}

// WithComponentName sets the name of the controller.
func (b Builder) WithComponentName(name string) Builder {
	b.compName = name
	return b
}

// WithFreq sets the controller clock.
func (b Builder) WithFreq(freq timing.Freq) Builder {
	b.freq = freq
	return b
}

// WithDefaultPresets sets the presets used where the script names none.
func (b Builder) WithDefaultPresets(p plc.Presets) Builder {
	b.defaultPresets = p
	return b
}

// WithTONPreset forces the timer preset regardless of the script.
func (b Builder) WithTONPreset(v uint32) Builder {
	b.tonPreset = &v
	return b
}

// WithCTUPreset forces the counter preset regardless of the script.
func (b Builder) WithCTUPreset(v uint32) Builder {
	b.ctuPreset = &v
	return b
}

// WithRecording stores every tick into filename + ".sqlite3". An empty name
// picks one from the simulation ID.
func (b Builder) WithRecording(filename string) Builder {
	b.recordOn = true
	b.outputFileName = filename
	return b
}

// WithTraceWindow records only the cycles in [from, to). A zero to means
// until the end of the script.
func (b Builder) WithTraceWindow(from, to uint64) Builder {
	b.traceFrom = from
	b.traceTo = to
	return b
}

// WithMonitor serves the monitoring API on the given port. Port 0 picks a
// free port.
func (b Builder) WithMonitor(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitor in a browser once it is up.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithEventLogger prints every engine event into logger.
func (b Builder) WithEventLogger(logger *log.Logger) Builder {
	b.eventLogger = logger
	return b
}

// WithCheckLogger prints the outputs at the end of every step into logger.
func (b Builder) WithCheckLogger(logger *log.Logger) Builder {
	b.checkLogger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.script == nil {
		panic("simulation: script is not set")
	}

	if !b.monitorOn && b.openBrowser {
		panic("simulation: browser cannot be opened when monitoring is disabled")
	}

	if b.traceTo != 0 && b.traceTo <= b.traceFrom {
		panic("simulation: trace window ends before it starts")
	}
}

// Presets returns the presets the built controller will use. Forced values
// win over the script, and the script wins over the defaults.
func (b Builder) Presets() plc.Presets {
	p := b.defaultPresets
	if b.script != nil {
		p = b.script.Presets(p)
	}

	if b.tonPreset != nil {
		p.TON = *b.tonPreset
	}

	if b.ctuPreset != nil {
		p.CTU = *b.ctuPreset
	}

	return p
}

// Build builds the simulation. Errors come from creating the recording file
// and from starting the monitoring server.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{}
	s.id = xid.New().String()

	s.engine = timing.NewSerialEngine()
	if b.eventLogger != nil {
		s.engine.AcceptHook(timing.NewEventLogger(b.eventLogger))
	}

	s.player = stimulus.NewPlayer(b.script)
	s.plc = controller.MakeBuilder().
		WithEngine(s.engine).
		WithFreq(b.freq).
		WithPresets(b.Presets()).
		WithInputSource(s.player).
		Build(b.compName)

	s.checker = stimulus.NewChecker(s.player)
	if b.checkLogger != nil {
		s.checker.WithLogger(b.checkLogger)
	}
	s.plc.AcceptHook(s.checker)

	s.edges = tracing.NewEdgeTracer()
	s.plc.AcceptHook(s.edges)

	if b.recordOn {
		if err := b.buildRecording(s); err != nil {
			return nil, err
		}
	}

	if b.monitorOn {
		if err := b.buildMonitor(s); err != nil {
			_ = s.Terminate()
			return nil, err
		}
	}

	return s, nil
}

func (b Builder) buildRecording(s *Simulation) error {
	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "plcsim_" + s.id
	}

	recorder, err := datarecording.New(outputPath)
	if err != nil {
		return err
	}

	s.dataRecorder = recorder

	p := s.plc.Presets()
	s.tickTracer = tracing.NewTickTracer(s.dataRecorder, tracing.SessionRow{
		ID:        s.id,
		Component: s.plc.Name(),
		Script:    b.script.Name,
		TONPreset: p.TON,
		CTUPreset: p.CTU,
		FreqHz:    float64(b.freq),
	})

	if b.traceFrom != 0 || b.traceTo != 0 {
		to := b.traceTo
		if to == 0 {
			to = math.MaxUint64
		}

		s.tickTracer.SetWindow(b.traceFrom, to)
	}

	s.plc.AcceptHook(s.tickTracer)

	return nil
}

func (b Builder) buildMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor().WithPortNumber(b.monitorPort)
	if b.openBrowser {
		s.monitor.WithBrowser()
	}

	s.monitor.RegisterEngine(s.engine)
	s.monitor.RegisterComponent(s.plc)

	s.progress = s.monitor.CreateProgressBar(
		b.script.Name, uint64(b.script.TotalCycles()))
	s.plc.AcceptHook(s.progress)

	url, err := s.monitor.StartServer()
	if err != nil {
		return err
	}

	s.monitorURL = url

	return nil
}
