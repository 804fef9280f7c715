package smf

import (
	"fmt"
	"io"
)

// Load reads a Standard MIDI File from r and returns the parsed song.
func Load(r io.Reader) (*Smf, error) {
	data, e := io.ReadAll(r)
	if e != nil {
		return nil, fmt.Errorf("reading input: %w", e)
	}
	return LoadFromMemory(data)
}

// LoadFromMemory parses a complete Standard MIDI File already held in
// memory. This is the primary entry point; Load is a thin io.Reader
// wrapper around it.
func LoadFromMemory(buf []byte) (*Smf, error) {
	r := newByteReader(buf)
	s := &Smf{lastSeekSeconds: -1}

	declaredTracks, e := parseHeader(r, s)
	if e != nil {
		return nil, e
	}

	parsed := 0
	for parsed < declaredTracks {
		if r.remaining() < 4 {
			break
		}
		id, e := r.readBytes(4)
		if e != nil {
			return nil, fmt.Errorf("reading chunk id: %w", e)
		}
		length, e := r.readU32BE()
		if e != nil {
			return nil, fmt.Errorf("reading chunk length for %q: %w", id, e)
		}
		if string(id) != "MTrk" {
			s.logf(LogWarning, "skipping unknown chunk %q", id)
			if _, e := r.readBytes(int(length)); e != nil {
				return nil, fmt.Errorf("skipping unknown chunk %q: %w", id, e)
			}
			continue
		}

		chunkData, e := r.readBytes(int(length))
		if e != nil {
			return nil, fmt.Errorf("reading MTrk chunk body: %w", e)
		}
		track := s.AddTrack()
		tr := newByteReader(chunkData)
		if e := decodeTrack(tr, track, s.logSink); e != nil {
			return nil, fmt.Errorf("parsing track %d: %w", track.TrackNumber, e)
		}
		parsed++
	}

	if parsed < declaredTracks {
		s.logf(LogWarning, "MThd declared %d tracks, only found %d", declaredTracks, parsed)
	}

	s.rebuildTempoMap()
	s.Rewind()
	return s, nil
}

// parseHeader reads and validates the MThd chunk, populating s's Format,
// PPQN/FramesPerSecond/Resolution fields, and returns the declared track
// count.
func parseHeader(r *byteReader, s *Smf) (int, error) {
	id, e := r.readBytes(4)
	if e != nil || string(id) != "MThd" {
		return 0, fmt.Errorf("bad MThd signature: %w", ErrMalformedHeader)
	}
	length, e := r.readU32BE()
	if e != nil || length != 6 {
		return 0, fmt.Errorf("bad MThd length %d: %w", length, ErrMalformedHeader)
	}
	format, e := r.readU16BE()
	if e != nil || format > 2 {
		return 0, fmt.Errorf("bad format %d: %w", format, ErrMalformedHeader)
	}
	if format == 2 {
		s.logf(LogWarning, "format 2 file accepted; this library does not special-case independent-track semantics")
	}
	ntrks, e := r.readU16BE()
	if e != nil || ntrks < 1 {
		return 0, fmt.Errorf("bad track count %d: %w", ntrks, ErrMalformedHeader)
	}
	division, e := r.readU16BE()
	if e != nil {
		return 0, fmt.Errorf("reading division: %w", e)
	}

	s.Format = format
	if division&0x8000 == 0 {
		if division == 0 {
			return 0, fmt.Errorf("ppqn must be > 0: %w", ErrMalformedHeader)
		}
		s.PPQN = division
	} else {
		s.FramesPerSecond = uint8(-int8(division >> 8))
		s.Resolution = uint8(division & 0xff)
	}

	return int(ntrks), nil
}
