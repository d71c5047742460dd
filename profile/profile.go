// Package profile selects a pkg/profile mode by name.
package profile

import (
	"fmt"

	"github.com/pkg/profile"
)

// Profiler starts and stops one pkg/profile session.
type Profiler struct {
	Type    Opt
	Starter func(p *profile.Profile)
	Stopper func()
	// Path is the output directory. Empty uses a temporary directory.
	Path string
}

// Start profiling. Noop for None.
func (pfn *Profiler) Start() {
	if pfn.Starter == nil {
		return
	}
	opts := []func(*profile.Profile){pfn.Starter, profile.Quiet}
	if pfn.Path != "" {
		opts = append(opts, profile.ProfilePath(pfn.Path))
	}
	pfn.Stopper = profile.Start(opts...).Stop
}

// Stop profiling.
func (pfn *Profiler) Stop() {
	if pfn.Stopper != nil {
		pfn.Stopper()
		pfn.Stopper = nil
	}
}

// Opt specifies the various profiling options.
type Opt string

const (
	None      Opt = "none"
	CPU       Opt = "cpu"
	Memory    Opt = "mem"
	Block     Opt = "block"
	Goroutine Opt = "goroutine"
	Mutex     Opt = "mutex"
	Trace     Opt = "trace"
)

// Opts lists the accepted option names.
var Opts = []Opt{None, CPU, Memory, Block, Goroutine, Mutex, Trace}

// NewProfiler creates a profiler based on the selected option.
func (p Opt) NewProfiler() (Profiler, error) {
	switch p {
	case "", None:
		return Profiler{Type: None}, nil
	case CPU:
		return Profiler{Type: p, Starter: profile.CPUProfile}, nil
	case Memory:
		return Profiler{Type: p, Starter: profile.MemProfile}, nil
	case Block:
		return Profiler{Type: p, Starter: profile.BlockProfile}, nil
	case Goroutine:
		return Profiler{Type: p, Starter: profile.GoroutineProfile}, nil
	case Mutex:
		return Profiler{Type: p, Starter: profile.MutexProfile}, nil
	case Trace:
		return Profiler{Type: p, Starter: profile.TraceProfile}, nil
	}
	return Profiler{}, fmt.Errorf("unknown profile %q, want one of %v", string(p), Opts)
}
