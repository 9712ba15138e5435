package coil

// Event is one item received by a Recorder.
type Event struct {
	IsVia bool
	Track TrackSegment
	Via   Via
}

// Recorder is a Sink that keeps everything it receives, in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) EmitTrack(t TrackSegment) error {
	r.Events = append(r.Events, Event{Track: t})
	return nil
}

func (r *Recorder) EmitVia(v Via) error {
	r.Events = append(r.Events, Event{IsVia: true, Via: v})
	return nil
}

// Tracks returns the recorded tracks in order.
func (r *Recorder) Tracks() []TrackSegment {
	var out []TrackSegment
	for _, e := range r.Events {
		if !e.IsVia {
			out = append(out, e.Track)
		}
	}
	return out
}

// Vias returns the recorded vias in order.
func (r *Recorder) Vias() []Via {
	var out []Via
	for _, e := range r.Events {
		if e.IsVia {
			out = append(out, e.Via)
		}
	}
	return out
}
