// Package machine wires the CPU core to its address translator, physical
// bus, and cartridge collaborators, and exposes the three operations an
// embedder needs: Reset, Step and LoadCartridge.
package machine

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/flga/vr4300/internal/cartridge"
	"github.com/flga/vr4300/internal/cpu"
	"github.com/flga/vr4300/internal/membus"
	"github.com/flga/vr4300/internal/mmu"
)

// Machine is the assembled system: the interpreter core plus everything it
// was constructed with.
type Machine struct {
	CPU *cpu.CPU
	bus *membus.Bus
	log *logrus.Entry

	lastRunCycles   uint64
	lastRunDuration time.Duration
}

// Option configures a Machine at construction time.
type Option func(*config)

type config struct {
	sink membus.FramebufferSink
	log  *logrus.Entry
}

// WithFramebufferSink attaches a display collaborator that receives VI
// register writes. Without one, VI writes are silently dropped — the
// correct behavior for a headless run.
func WithFramebufferSink(sink membus.FramebufferSink) Option {
	return func(c *config) { c.sink = sink }
}

// WithLogger overrides the default logrus logger used for per-cycle
// tracing and bus warnings.
func WithLogger(log *logrus.Entry) Option {
	return func(c *config) { c.log = log }
}

// New assembles a Machine with no cartridge loaded. Call LoadCartridge and
// Reset before stepping.
func New(opts ...Option) *Machine {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logrus.NewEntry(logrus.StandardLogger())
	}

	bus := membus.New(nil, cfg.sink, cfg.log)
	translator := mmu.New()
	core := cpu.New(translator, bus, cfg.log)

	return &Machine{CPU: core, bus: bus, log: cfg.log}
}

// LoadCartridge parses a ROM image and attaches it to the physical bus's
// cartridge domain. It does not reset the CPU — callers that want a clean
// boot should call Reset afterward.
func (m *Machine) LoadCartridge(r io.Reader) (*cartridge.Cartridge, error) {
	cart, err := cartridge.Load(r)
	if err != nil {
		return nil, errors.Wrap(err, "loading cartridge")
	}
	m.bus.AttachCartridge(cart)
	m.log.WithFields(logrus.Fields{"name": cart.Name(), "size": cart.Size()}).Info("cartridge loaded")
	return cart, nil
}

// LoadCartridgePath opens path and loads it as a cartridge.
func (m *Machine) LoadCartridgePath(path string) (*cartridge.Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening cartridge %s", path)
	}
	defer f.Close()
	return m.LoadCartridge(f)
}

// Reset clears CPU state and primes the pipeline from the reset vector.
func (m *Machine) Reset() {
	m.CPU.Reset()
}

// Step advances the pipeline by one cycle.
func (m *Machine) Step() error {
	return m.CPU.Step()
}

// Run steps the machine n cycles, stopping early and returning the first
// error encountered. The elapsed wall time and the number of cycles
// actually completed are recorded so CyclesPerSecond can report the
// throughput of this run, even one that stopped early on error.
func (m *Machine) Run(cycles uint64) error {
	start := time.Now()
	var n uint64
	defer func() {
		m.lastRunCycles = n
		m.lastRunDuration = time.Since(start)
	}()

	for ; n < cycles; n++ {
		if err := m.Step(); err != nil {
			return errors.Wrapf(err, "at cycle %d", n)
		}
	}
	return nil
}

// CyclesPerSecond reports the throughput of the most recent Run call:
// cycles completed divided by wall time elapsed.
func (m *Machine) CyclesPerSecond() int {
	if m.lastRunDuration <= 0 {
		return 0
	}
	return int(float64(m.lastRunCycles) / m.lastRunDuration.Seconds())
}
