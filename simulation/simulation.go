// Package simulation assembles an engine, a PLC controller and a stimulus
// script into a runnable simulation.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sarchlab/plcsim/controller"
	"github.com/sarchlab/plcsim/datarecording"
	"github.com/sarchlab/plcsim/monitoring"
	"github.com/sarchlab/plcsim/sim/timing"
	"github.com/sarchlab/plcsim/stimulus"
	"github.com/sarchlab/plcsim/tracing"
)

// ErrExpectationFailed is returned by Run when the outputs differ from the
// expectations of the script.
var ErrExpectationFailed = errors.New("simulation: expectation failed")

// A Simulation runs one stimulus script against one controller.
type Simulation struct {
	id     string
	engine *timing.SerialEngine
	plc    *controller.Comp

	player  *stimulus.Player
	checker *stimulus.Checker
	edges   *tracing.EdgeTracer

	dataRecorder datarecording.DataRecorder
	tickTracer   *tracing.TickTracer

	monitor    *monitoring.Monitor
	monitorURL string
	progress   *monitoring.ProgressBar
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() timing.Engine {
	return s.engine
}

// Controller returns the PLC component.
func (s *Simulation) Controller() *controller.Comp {
	return s.plc
}

// Checker returns the checker that compares outputs with the script.
func (s *Simulation) Checker() *stimulus.Checker {
	return s.checker
}

// Edges returns the signal summary collected during the run.
func (s *Simulation) Edges() *tracing.EdgeTracer {
	return s.edges
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns where the monitor is served.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Run plays the whole script. It returns an error wrapping
// ErrExpectationFailed if any expectation is not met.
func (s *Simulation) Run() error {
	s.plc.Start()

	err := s.engine.Run()

	if s.tickTracer != nil {
		s.tickTracer.Flush()
	}

	if s.monitor != nil {
		s.monitor.CompleteProgressBar(s.progress)
	}

	if err != nil {
		return fmt.Errorf("simulation %s: %w", s.id, err)
	}

	if n := len(s.checker.Mismatches()); n > 0 {
		return fmt.Errorf("%w: %d mismatches", ErrExpectationFailed, n)
	}

	return nil
}

// Serve keeps the monitor up until ctx is done. It returns at once when
// monitoring is off.
func (s *Simulation) Serve(ctx context.Context) {
	if s.monitor == nil {
		return
	}

	<-ctx.Done()
}

// Terminate stops the monitor and releases the resources held by the
// simulation.
func (s *Simulation) Terminate() error {
	var errs []error

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, s.monitor.StopServer(ctx))
		cancel()
	}

	if s.dataRecorder != nil {
		errs = append(errs, s.dataRecorder.Close())
	}

	return errors.Join(errs...)
}
