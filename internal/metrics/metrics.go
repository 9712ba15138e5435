// Package metrics counts generated geometry with Prometheus collectors so
// CI jobs can track winding size across board revisions.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/OpenTraceLab/lincoil/pkg/coil"
)

// Recorder owns a private registry; nothing is registered globally.
type Recorder struct {
	reg *prometheus.Registry

	tracks   *prometheus.CounterVec
	vias     *prometheus.CounterVec
	length   *prometheus.CounterVec
	phases   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// New creates a Recorder with empty collectors.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		tracks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lincoil_tracks_total",
				Help: "Track segments written",
			},
			[]string{"net", "layer"},
		),
		vias: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lincoil_vias_total",
				Help: "Vias written",
			},
			[]string{"net", "from", "to"},
		),
		length: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lincoil_track_length_mm_total",
				Help: "Copper track length written, in millimetres",
			},
			[]string{"net", "layer"},
		),
		phases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lincoil_phases_written_total",
				Help: "Phases written completely",
			},
			[]string{"phase"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lincoil_phase_failures_total",
				Help: "Phases dropped because a pad or net lookup failed",
			},
			[]string{"phase"},
		),
	}
	r.reg.MustRegister(r.tracks, r.vias, r.length, r.phases, r.failures)
	return r
}

// Registry exposes the collectors, e.g. for promhttp or tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Sink wraps next so every successful emission is counted.
func (r *Recorder) Sink(next coil.Sink) coil.Sink {
	return &countingSink{next: next, r: r}
}

// ObserveReport records the per-phase outcome of a run.
func (r *Recorder) ObserveReport(rep *coil.Report) {
	if rep == nil {
		return
	}
	for _, p := range rep.Phases {
		if p.Err != nil {
			r.failures.WithLabelValues(p.Phase).Inc()
			continue
		}
		r.phases.WithLabelValues(p.Phase).Inc()
	}
}

// WriteTextfile dumps all metrics in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

type countingSink struct {
	next coil.Sink
	r    *Recorder
}

func (s *countingSink) EmitTrack(t coil.TrackSegment) error {
	if err := s.next.EmitTrack(t); err != nil {
		return err
	}
	net := strconv.Itoa(int(t.Net))
	s.r.tracks.WithLabelValues(net, string(t.Layer)).Inc()
	s.r.length.WithLabelValues(net, string(t.Layer)).Add(t.Len().Millimeters())
	return nil
}

func (s *countingSink) EmitVia(v coil.Via) error {
	if err := s.next.EmitVia(v); err != nil {
		return err
	}
	s.r.vias.WithLabelValues(strconv.Itoa(int(v.Net)), string(v.From), string(v.To)).Inc()
	return nil
}
