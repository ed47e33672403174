// Command vr4300 is a headless debugging harness for the interpreter core:
// it loads a cartridge, steps it a fixed number of cycles (or until a
// boot failure), and optionally mirrors the framebuffer into a window.
package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flga/vr4300/internal/machine"
	"github.com/flga/vr4300/internal/rcp"
)

func init() {
	runtime.LockOSThread()
}

var (
	cycles     uint64
	traceLevel string
	useDisplay bool
	dump       bool
	cpuprofile string
	memprofile string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vr4300 [cartridge]",
		Short: "Step a VR4300 core against a cartridge image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}

	cmd.Flags().Uint64Var(&cycles, "cycles", 1_000_000, "number of pipeline cycles to run")
	cmd.Flags().StringVar(&traceLevel, "trace", "info", "logrus level: trace, debug, info, warn, error")
	cmd.Flags().BoolVar(&useDisplay, "display", false, "open a window and mirror the framebuffer")
	cmd.Flags().BoolVar(&dump, "dump", false, "print a hex dump of all GPRs after the run")
	cmd.Flags().StringVar(&cpuprofile, "cpuprofile", "", "write a CPU profile to this file")
	cmd.Flags().StringVar(&memprofile, "memprofile", "", "write a heap profile to this file")

	return cmd
}

func run(cartPath string) error {
	level, err := logrus.ParseLevel(traceLevel)
	if err != nil {
		return err
	}
	log := logrus.New()
	log.SetLevel(level)
	entry := logrus.NewEntry(log)

	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	var sink *rcp.MemorySink
	var opts []machine.Option
	if useDisplay {
		glw, err := newDisplay(entry)
		if err != nil {
			return err
		}
		defer glw.close()
		opts = append(opts, machine.WithFramebufferSink(glw.sink))
	} else {
		sink = &rcp.MemorySink{}
		opts = append(opts, machine.WithFramebufferSink(sink))
	}
	opts = append(opts, machine.WithLogger(entry))

	m := machine.New(opts...)
	if _, err := m.LoadCartridgePath(cartPath); err != nil {
		return err
	}
	m.Reset()

	runErr := m.Run(cycles)

	if memprofile != "" {
		f, err := os.Create(memprofile)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
	}

	if dump {
		fmt.Println(m.CPU.Registers())
	}

	if runErr != nil {
		entry.WithError(runErr).
			WithField("pc", fmt.Sprintf("%#08x", m.CPU.PC())).
			WithField("cycles/sec", m.CyclesPerSecond()).
			Error("run stopped")
		return runErr
	}
	entry.WithField("pc", fmt.Sprintf("%#08x", m.CPU.PC())).
		WithField("cycles/sec", m.CyclesPerSecond()).
		Info("run completed")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
