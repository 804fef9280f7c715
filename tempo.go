package smf

import "math"

// TempoAnchor is a point in the song where tempo and/or time signature
// take effect. Adjacent anchors define a linear pulses-to-seconds segment.
type TempoAnchor struct {
	TimePulses                 uint32
	TimeSeconds                float64
	MicrosecondsPerQuarterNote uint32
	Numerator                  uint8
	Denominator                uint8
	ClocksPerClick             uint8
	NotesPerNote               uint8
}

func defaultTempoAnchor() *TempoAnchor {
	return &TempoAnchor{
		TimePulses:                 0,
		TimeSeconds:                0,
		MicrosecondsPerQuarterNote: 500000,
		Numerator:                  4,
		Denominator:                4,
		ClocksPerClick:             24,
		NotesPerNote:               8,
	}
}

// TempoByNumber returns the anchor at the given 0-based position, or nil.
func (s *Smf) TempoByNumber(number int) *TempoAnchor {
	if number < 0 || number >= len(s.tempoAnchors) {
		return nil
	}
	return s.tempoAnchors[number]
}

// LastTempo returns the song's final tempo anchor.
func (s *Smf) LastTempo() *TempoAnchor {
	if len(s.tempoAnchors) == 0 {
		return nil
	}
	return s.tempoAnchors[len(s.tempoAnchors)-1]
}

// TempoByPulses returns the last anchor with TimePulses <= pulses.
func (s *Smf) TempoByPulses(pulses uint32) *TempoAnchor {
	for i := len(s.tempoAnchors) - 1; i >= 0; i-- {
		if s.tempoAnchors[i].TimePulses <= pulses {
			return s.tempoAnchors[i]
		}
	}
	return nil
}

// TempoBySeconds returns the last anchor with TimeSeconds <= seconds.
func (s *Smf) TempoBySeconds(seconds float64) *TempoAnchor {
	for i := len(s.tempoAnchors) - 1; i >= 0; i-- {
		if s.tempoAnchors[i].TimeSeconds <= seconds {
			return s.tempoAnchors[i]
		}
	}
	return nil
}

// PulsesToSeconds converts an absolute pulse position to seconds using the
// current tempo map. Returns ErrUnsupported for non-PPQN songs.
func (s *Smf) PulsesToSeconds(pulses uint32) (float64, error) {
	if !s.usesPPQN() {
		return 0, ErrUnsupported
	}
	a := s.TempoByPulses(pulses)
	if a == nil {
		return 0, nil
	}
	delta := float64(pulses-a.TimePulses) * float64(a.MicrosecondsPerQuarterNote) / (float64(s.PPQN) * 1e6)
	return a.TimeSeconds + delta, nil
}

// SecondsToPulses converts a time in seconds to the nearest absolute pulse
// position using the current tempo map. Returns ErrUnsupported for
// non-PPQN songs.
func (s *Smf) SecondsToPulses(seconds float64) (uint32, error) {
	if !s.usesPPQN() {
		return 0, ErrUnsupported
	}
	a := s.TempoBySeconds(seconds)
	if a == nil {
		return 0, nil
	}
	delta := (seconds - a.TimeSeconds) * float64(s.PPQN) * 1e6 / float64(a.MicrosecondsPerQuarterNote)
	return a.TimePulses + uint32(math.Round(delta)), nil
}

// findOrCreateAnchor returns the anchor at exactly the given pulse
// position, creating one (inheriting fields from the preceding anchor) if
// none exists yet.
func (s *Smf) findOrCreateAnchor(pulses uint32) *TempoAnchor {
	last := s.LastTempo()
	if last != nil && last.TimePulses == pulses {
		return last
	}
	next := &TempoAnchor{
		TimePulses:                 pulses,
		MicrosecondsPerQuarterNote: last.MicrosecondsPerQuarterNote,
		Numerator:                  last.Numerator,
		Denominator:                last.Denominator,
		ClocksPerClick:             last.ClocksPerClick,
		NotesPerNote:               last.NotesPerNote,
	}
	next.TimeSeconds, _ = s.PulsesToSeconds(pulses)
	s.tempoAnchors = append(s.tempoAnchors, next)
	return next
}

// applyTempoOrTimeSig updates the tempo map for e if it is a tempo or
// time-signature metaevent. A tempo value <= 0 is logged as a warning and
// discarded; the event itself is kept in the track regardless.
func (s *Smf) applyTempoOrTimeSig(e *Event) {
	if !e.IsMetadata() {
		return
	}
	if us, ok := e.isTempoEvent(); ok {
		if us <= 0 {
			s.logf(LogWarning, "ignoring invalid tempo change (%d microseconds per quarter note) at pulse %d", us, e.TimePulses)
			return
		}
		a := s.findOrCreateAnchor(e.TimePulses)
		a.MicrosecondsPerQuarterNote = uint32(us)
		return
	}
	if num, denomLog2, clocks, notes, ok := e.isTimeSignatureEvent(); ok {
		a := s.findOrCreateAnchor(e.TimePulses)
		a.Numerator = num
		a.Denominator = uint8(1 << denomLog2)
		a.ClocksPerClick = clocks
		a.NotesPerNote = notes
	}
}

// rebuildTempoMap fully regenerates the tempo map from scratch by walking
// the merged event stream in ascending pulse order, and recomputes every
// event's TimeSeconds along the way. Per §9, an implementer MAY defer this
// until the next pulses<->seconds query instead of calling it eagerly on
// every mutation; this implementation rebuilds eagerly for simplicity.
func (s *Smf) rebuildTempoMap() {
	s.tempoAnchors = []*TempoAnchor{defaultTempoAnchor()}
	if !s.usesPPQN() {
		return
	}
	s.forEachEventInOrder(func(e *Event) {
		s.applyTempoOrTimeSig(e)
		e.TimeSeconds, _ = s.PulsesToSeconds(e.TimePulses)
	})
}

// forEachEventInOrder walks every event across every track in ascending
// (TimePulses, track number) order, the same merge order the playback
// cursor uses, without touching the cursor's own seek state.
func (s *Smf) forEachEventInOrder(fn func(*Event)) {
	indices := make([]int, len(s.tracks))
	for {
		bestTrack := -1
		var bestTime uint32
		for i, t := range s.tracks {
			if indices[i] >= len(t.events) {
				continue
			}
			tm := t.events[indices[i]].TimePulses
			if bestTrack == -1 || tm < bestTime {
				bestTrack = i
				bestTime = tm
			}
		}
		if bestTrack == -1 {
			return
		}
		fn(s.tracks[bestTrack].events[indices[bestTrack]])
		indices[bestTrack]++
	}
}
