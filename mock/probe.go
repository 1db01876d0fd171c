package mock

import (
	"sync"

	"github.com/centraunit/digo"
)

// Recorder collects the names of probes in the order they were booted.
type Recorder struct {
	mu     sync.Mutex
	booted []string
}

func (r *Recorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.booted = append(r.booted, name)
}

// Booted returns the boot sequence so far.
func (r *Recorder) Booted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.booted...)
}

// Count returns how many times name was booted.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, b := range r.Booted() {
		if b == name {
			n++
		}
	}
	return n
}

// Probe is a service that reports each boot to its Recorder and can be told
// to fail.
type Probe struct {
	Name     string
	Recorder *Recorder
	Err      error
	// Stop, when set, runs inside OnShutdown.
	Stop func() error
	// BootCtx is the context the last successful OnBoot received.
	BootCtx *digo.ContainerContext
}

func (p *Probe) OnBoot(ctx *digo.ContainerContext) error {
	if p.Err != nil {
		return p.Err
	}
	p.BootCtx = ctx
	p.Recorder.record(p.Name)
	return nil
}

func (p *Probe) OnShutdown(ctx *digo.ContainerContext) error {
	if p.Stop != nil {
		return p.Stop()
	}
	return nil
}

// Distinct service types a Probe can be bound as.
type (
	Alpha interface{ digo.Lifecycle }
	Beta  interface{ digo.Lifecycle }
	Gamma interface{ digo.Lifecycle }
	Delta interface{ digo.Lifecycle }
)
