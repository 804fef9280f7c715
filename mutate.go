package smf

import "sort"

// AddTrack appends a new, empty track to the song and returns it. Format
// is auto-promoted from 0 to 1 once a second track is added.
func (s *Smf) AddTrack() *Track {
	t := NewTrack()
	t.smf = s
	t.TrackNumber = len(s.tracks) + 1
	s.tracks = append(s.tracks, t)
	if len(s.tracks) >= 2 && s.Format == 0 {
		s.Format = 1
	}
	return t
}

// RemoveTrack detaches track from its song and renumbers the remaining
// tracks to stay densely numbered 1..N-1. No-op if track is not attached
// to this song.
func (s *Smf) RemoveTrack(track *Track) {
	if track.smf != s {
		return
	}
	idx := track.TrackNumber - 1
	s.tracks = append(s.tracks[:idx], s.tracks[idx+1:]...)
	for i := idx; i < len(s.tracks); i++ {
		s.tracks[i].TrackNumber = i + 1
		s.tracks[i].renumber()
	}
	track.smf = nil
	track.TrackNumber = -1
}

// attachEventAt appends event to track at the given absolute pulse
// position, handling both the common append-at-end case and the
// out-of-order insert case described in §4.6.
func (t *Track) attachEventAt(e *Event, pulses uint32) {
	e.track = t
	e.TimePulses = pulses

	if len(t.events) == 0 || pulses >= t.lastEventPulses() {
		e.DeltaTimePulses = pulses - t.lastEventPulses()
		t.events = append(t.events, e)
		e.EventNumber = len(t.events)
		e.TrackNumber = t.TrackNumber
		if len(t.events) == 1 {
			// The track was empty, so its cursor was exhausted; point it
			// at the new first event.
			t.nextEventIndex = 0
			t.timeOfNextEvent = pulses
		}
		return
	}

	// Out-of-order insert: find the sorted position (stable on ties, i.e.
	// after any existing events at the same pulse), insert, then recompute
	// every delta and event number in the track from scratch.
	pos := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].TimePulses > pulses
	})
	t.events = append(t.events, nil)
	copy(t.events[pos+1:], t.events[pos:])
	t.events[pos] = e

	var prev uint32
	for i, ev := range t.events {
		if i > 0 {
			prev = t.events[i-1].TimePulses
		} else {
			prev = 0
		}
		ev.DeltaTimePulses = ev.TimePulses - prev
		ev.EventNumber = i + 1
		ev.TrackNumber = t.TrackNumber
	}
}

// AddEventByDeltaPulses appends event delta pulses after the track's last
// event (or at pulse delta if the track is empty), and attaches it.
func (s *Smf) AddEventByDeltaPulses(track *Track, e *Event, delta uint32) {
	s.AddEventByPulses(track, e, track.lastEventPulses()+delta)
}

// AddEventByPulses attaches event at absolute pulse position pulses,
// inserting in sorted order if it falls before the track's current last
// event. Triggers a tempo-map rebuild if the event is a tempo or
// time-signature metaevent.
func (s *Smf) AddEventByPulses(track *Track, e *Event, pulses uint32) {
	track.attachEventAt(e, pulses)
	if s.usesPPQN() {
		e.TimeSeconds, _ = s.PulsesToSeconds(pulses)
	}
	if e.IsMetadata() {
		if _, ok := e.isTempoEvent(); ok {
			s.rebuildTempoMap()
			return
		}
		if _, _, _, _, ok := e.isTimeSignatureEvent(); ok {
			s.rebuildTempoMap()
			return
		}
	}
}

// AddEventBySeconds converts seconds to an absolute pulse position via the
// tempo map, then behaves as AddEventByPulses.
func (s *Smf) AddEventBySeconds(track *Track, e *Event, seconds float64) error {
	pulses, err := s.SecondsToPulses(seconds)
	if err != nil {
		return err
	}
	s.AddEventByPulses(track, e, pulses)
	return nil
}

// AddEOT appends the canonical FF 2F 00 End-Of-Track metaevent to track.
func (s *Smf) AddEOT(track *Track) {
	e := NewEventFromBytes([]byte{0xFF, 0x2F, 0x00})
	s.AddEventByDeltaPulses(track, e, 0)
}

// RemoveEvent splices event out of its track, folding its delta into the
// following event (if any) and renumbering the remaining events. Triggers
// a tempo-map rebuild if the removed event was a tempo or time-signature
// metaevent. No-op if the event is already detached.
func (s *Smf) RemoveEvent(e *Event) {
	t := e.track
	if t == nil {
		return
	}
	idx := e.EventNumber - 1
	wasTempoRelated := false
	if e.IsMetadata() {
		if _, ok := e.isTempoEvent(); ok {
			wasTempoRelated = true
		} else if _, _, _, _, ok := e.isTimeSignatureEvent(); ok {
			wasTempoRelated = true
		}
	}

	t.events = append(t.events[:idx], t.events[idx+1:]...)
	if idx < len(t.events) {
		var prev uint32
		if idx > 0 {
			prev = t.events[idx-1].TimePulses
		}
		t.events[idx].DeltaTimePulses = t.events[idx].TimePulses - prev
	}
	for i := idx; i < len(t.events); i++ {
		t.events[i].EventNumber = i + 1
	}

	e.track = nil
	e.EventNumber = -1

	if wasTempoRelated {
		s.rebuildTempoMap()
	}
}
