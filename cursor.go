package smf

// Rewind resets every track's playback cursor to its first event (or
// exhausted, if the track is empty), and invalidates the seek cache. It
// does not touch the tempo map.
func (s *Smf) Rewind() {
	for _, t := range s.tracks {
		t.rewind()
	}
	s.lastSeekSeconds = -1
}

// findTrackWithNextEvent returns the track whose next event has the
// smallest TimePulses among all non-exhausted tracks, breaking ties by
// ascending track number (tracks are visited in that order, so the first
// minimum found wins), or nil if every track is exhausted.
func (s *Smf) findTrackWithNextEvent() *Track {
	var best *Track
	for _, t := range s.tracks {
		if t.nextEventIndex == cursorExhausted {
			continue
		}
		if best == nil || t.timeOfNextEvent < best.timeOfNextEvent {
			best = t
		}
	}
	return best
}

// PeekNextEvent returns the next event the cursor would produce, without
// advancing it. Returns nil if every track is exhausted.
func (s *Smf) PeekNextEvent() *Event {
	t := s.findTrackWithNextEvent()
	if t == nil {
		return nil
	}
	return t.events[t.nextEventIndex]
}

// NextEvent returns the next event in merge order and advances that
// track's cursor. Returns nil once every track is exhausted.
func (s *Smf) NextEvent() *Event {
	t := s.findTrackWithNextEvent()
	if t == nil {
		return nil
	}
	e := t.events[t.nextEventIndex]
	t.nextEventIndex++
	if t.nextEventIndex >= len(t.events) {
		t.nextEventIndex = cursorExhausted
	} else {
		t.timeOfNextEvent = t.events[t.nextEventIndex].TimePulses
	}
	s.lastSeekSeconds = -1
	return e
}

// SeekToSeconds positions the cursor at the first event at or after t
// seconds. A no-op if t equals the last seek target. Fails with
// ErrSeekPastEnd if the stream is exhausted before reaching t.
func (s *Smf) SeekToSeconds(t float64) error {
	if t == s.lastSeekSeconds {
		return nil
	}
	s.Rewind()
	for {
		e := s.PeekNextEvent()
		if e == nil {
			return ErrSeekPastEnd
		}
		if e.TimeSeconds >= t {
			break
		}
		s.NextEvent()
	}
	s.lastSeekSeconds = t
	return nil
}

// SeekToEvent positions the cursor so that PeekNextEvent returns target.
// Fails with ErrEventNotInSong if the cursor never produces it.
func (s *Smf) SeekToEvent(target *Event) error {
	s.Rewind()
	for {
		e := s.PeekNextEvent()
		if e == nil {
			return ErrEventNotInSong
		}
		if e == target {
			return nil
		}
		s.NextEvent()
	}
}
