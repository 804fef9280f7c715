package smf

// Smf is an in-memory Standard MIDI File: an ordered sequence of tracks
// plus the tempo map derived from their tempo/time-signature metaevents.
type Smf struct {
	Format uint16
	PPQN   uint16

	// FramesPerSecond/Resolution hold the SMPTE timing fields when the
	// division header's top bit is set. Only one of (PPQN) or
	// (FramesPerSecond, Resolution) is meaningful at a time; PulsesToSeconds
	// and SecondsToPulses return ErrUnsupported unless PPQN is in effect.
	FramesPerSecond uint8
	Resolution      uint8

	tracks       []*Track
	tempoAnchors []*TempoAnchor

	// lastSeekSeconds is -1 when the cursor has just been rewound or has
	// never been seeked, matching the invalidation rule in §4.8.
	lastSeekSeconds float64

	logSink LogSink
}

// New returns an empty song: format 0, ppqn 120, a single default tempo
// anchor at pulse 0 (500000 microseconds per quarter note, 4/4 time).
func New() *Smf {
	s := &Smf{
		Format:          0,
		PPQN:            120,
		lastSeekSeconds: -1,
	}
	s.tempoAnchors = []*TempoAnchor{defaultTempoAnchor()}
	return s
}

// NumberOfTracks returns the number of tracks currently attached.
func (s *Smf) NumberOfTracks() int {
	return len(s.tracks)
}

// TrackByNumber returns the track with the given 1-based number, or nil.
func (s *Smf) TrackByNumber(number int) *Track {
	if number < 1 || number > len(s.tracks) {
		return nil
	}
	return s.tracks[number-1]
}

// Tracks returns a copy of the song's track slice, in track-number order.
func (s *Smf) Tracks() []*Track {
	out := make([]*Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// usesPPQN reports whether this song's timing is pulses-per-quarter-note
// (as opposed to SMPTE frames/resolution).
func (s *Smf) usesPPQN() bool {
	return s.PPQN > 0
}

// LengthPulses returns the absolute pulse position of the last event
// across every track, or 0 for a song with no events.
func (s *Smf) LengthPulses() uint32 {
	var max uint32
	for _, t := range s.tracks {
		if p := t.lastEventPulses(); p > max {
			max = p
		}
	}
	return max
}

// LengthSeconds returns the time, in seconds, of the last event across
// every track. Returns ErrUnsupported for non-PPQN songs.
func (s *Smf) LengthSeconds() (float64, error) {
	if !s.usesPPQN() {
		return 0, ErrUnsupported
	}
	return s.PulsesToSeconds(s.LengthPulses())
}
