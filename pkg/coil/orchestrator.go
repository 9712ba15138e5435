package coil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Options control an orchestrated run.
type Options struct {
	// Clear asks the design's Clearer to remove earlier geometry on the
	// phase nets before anything is written.
	Clear bool

	// Parallel builds the phases concurrently. Output order is unchanged.
	Parallel bool

	Logger *slog.Logger
}

// PhaseResult summarizes one phase of a run.
type PhaseResult struct {
	Phase  string
	Net    NetID
	Tracks int
	Vias   int
	Err    error
}

// Report lists per-phase results in declaration order.
type Report struct {
	Phases []PhaseResult
}

// Totals returns the number of tracks and vias written.
func (r *Report) Totals() (tracks, vias int) {
	for _, p := range r.Phases {
		if p.Err == nil {
			tracks += p.Tracks
			vias += p.Vias
		}
	}
	return tracks, vias
}

// Failed returns the phases that were not written.
func (r *Report) Failed() []PhaseResult {
	var failed []PhaseResult
	for _, p := range r.Phases {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

// Orchestrator runs every phase of a motor against a design.
type Orchestrator struct {
	geo    *Geometry
	design Design
	opts   Options
	log    *slog.Logger
}

// NewOrchestrator binds a geometry to a design.
func NewOrchestrator(geo *Geometry, design Design, opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{geo: geo, design: design, opts: opts, log: log}
}

type phaseRun struct {
	buf *Buffer
	net NetID
	err error
}

// Run generates all phases. Configuration problems, including phase layers
// missing from the design's LayerStack, abort before anything is written. A phase that fails on a pad or net lookup is dropped whole and
// the others are still written; the run then returns a *PartialError along
// with the report. Sink and Clearer errors abort immediately and are
// returned unmodified.
func (o *Orchestrator) Run(ctx context.Context, phases []PhaseSpec) (*Report, error) {
	if err := o.validate(phases); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if o.opts.Clear && o.design.Clearer != nil {
		filter := Filter{Nets: make([]string, len(phases))}
		for i, p := range phases {
			filter.Nets[i] = p.Net
		}
		o.log.Debug("clearing previous geometry", "nets", filter.Nets)
		if err := o.design.Clearer.Clear(filter); err != nil {
			return nil, err
		}
	}

	runs := make([]phaseRun, len(phases))
	if o.opts.Parallel {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var wg sync.WaitGroup
		for i := range phases {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				runs[i] = o.build(phases[i])
			}(i)
		}
		wg.Wait()
	} else {
		for i := range phases {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runs[i] = o.build(phases[i])
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Phases: make([]PhaseResult, len(phases))}
	partial := &PartialError{}
	for i, spec := range phases {
		run := runs[i]
		res := PhaseResult{Phase: spec.Name, Net: run.net}
		if run.err != nil {
			res.Err = run.err
			report.Phases[i] = res
			partial.Failed = append(partial.Failed, &PhaseError{Phase: spec.Name, Err: run.err})
			o.log.Error("phase failed", "phase", spec.Name, "error", run.err)
			continue
		}
		if err := run.buf.Flush(o.design.Sink); err != nil {
			return report, err
		}
		res.Tracks, res.Vias = run.buf.Totals()
		report.Phases[i] = res
		partial.Completed = append(partial.Completed, spec.Name)
		o.log.Info("phase written", "phase", spec.Name, "net", spec.Net,
			"layers", string(spec.From)+"->"+string(spec.To), "tracks", res.Tracks, "vias", res.Vias)
	}

	if len(partial.Failed) > 0 {
		return report, partial
	}
	return report, nil
}

// Build generates a single phase into a fresh buffer without writing it.
func (o *Orchestrator) Build(spec PhaseSpec) (*Buffer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	run := o.build(spec)
	return run.buf, run.err
}

func (o *Orchestrator) build(spec PhaseSpec) phaseRun {
	net, err := o.design.Nets.ResolveNet(spec.Net)
	if err != nil {
		return phaseRun{err: err}
	}
	ph := Phase{Spec: spec, Net: net, Origin: o.geo.PhaseOrigin(spec.ShiftSign)}
	buf := NewBuffer(spec.Name)
	gen := NewGenerator(o.geo, o.design.Pads)

	o.log.Debug("building phase", "phase", spec.Name, "net", spec.Net, "origin", ph.Origin.String())
	if err := gen.Forward(ph, buf); err != nil {
		return phaseRun{net: net, err: fmt.Errorf("forward leg: %w", err)}
	}
	if err := gen.Backward(ph, buf); err != nil {
		return phaseRun{net: net, err: fmt.Errorf("backward leg: %w", err)}
	}
	return phaseRun{buf: buf, net: net}
}

func (o *Orchestrator) validate(phases []PhaseSpec) error {
	if len(phases) != o.geo.PhaseCount {
		return configErrorf("phases", "got %d phase descriptions for a %d-phase motor", len(phases), o.geo.PhaseCount)
	}
	if o.design.Nets == nil || o.design.Sink == nil {
		return configErrorf("design", "net resolver and sink are required")
	}
	seen := make(map[string]bool, len(phases))
	for _, p := range phases {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return configErrorf("phase "+p.Name, "declared twice")
		}
		seen[p.Name] = true
		if err := o.checkLayers(p); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) checkLayers(p PhaseSpec) error {
	if o.design.Layers == nil {
		return nil
	}
	layers := []LayerID{p.From, p.To}
	if !p.SkipConnectors {
		layers = append(layers, o.geo.TopLayer)
	}
	for _, l := range layers {
		if !o.design.Layers.HasCopperLayer(l) {
			return configErrorf("phase "+p.Name, "layer %s is not a copper layer of the design", l)
		}
	}
	return nil
}
