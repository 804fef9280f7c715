package smf

import (
	"fmt"
	"io"
)

// Save validates the song and writes it to w as a Standard MIDI File.
func Save(s *Smf, w io.Writer) error {
	data, e := SaveToMemory(s)
	if e != nil {
		return e
	}
	_, e = w.Write(data)
	if e != nil {
		return fmt.Errorf("writing output: %w", e)
	}
	return nil
}

// SaveToMemory validates the song and returns its serialized bytes.
func SaveToMemory(s *Smf) ([]byte, error) {
	if e := validateForSave(s); e != nil {
		return nil, e
	}

	w := newByteWriter()
	w.writeBytes([]byte("MThd"))
	w.writeU32BE(6)
	w.writeU16BE(s.Format)
	w.writeU16BE(uint16(len(s.tracks)))
	w.writeU16BE(s.division())

	for _, t := range s.tracks {
		if e := writeTrack(w, t); e != nil {
			return nil, fmt.Errorf("writing track %d: %w", t.TrackNumber, e)
		}
	}
	return w.Bytes(), nil
}

// division reconstructs the MThd division field from the song's timing
// mode.
func (s *Smf) division() uint16 {
	if s.usesPPQN() {
		return s.PPQN & 0x7fff
	}
	return uint16(uint8(-int8(s.FramesPerSecond)))<<8 | uint16(s.Resolution)
}

func validateForSave(s *Smf) error {
	if s.Format > 2 {
		return fmt.Errorf("format %d out of range: %w", s.Format, ErrInvalidSong)
	}
	if len(s.tracks) < 1 {
		return fmt.Errorf("song has no tracks: %w", ErrInvalidSong)
	}
	if s.Format == 0 && len(s.tracks) != 1 {
		return fmt.Errorf("format 0 song has %d tracks, must have exactly 1: %w", len(s.tracks), ErrInvalidSong)
	}
	if !s.usesPPQN() {
		return fmt.Errorf("ppqn must be > 0: %w", ErrInvalidSong)
	}
	for _, t := range s.tracks {
		if len(t.events) == 0 {
			return fmt.Errorf("track %d has no events: %w", t.TrackNumber, ErrInvalidSong)
		}
		if last := t.LastEvent(); !last.isEndOfTrack() {
			return fmt.Errorf("track %d's last event is not an End-Of-Track metaevent: %w", t.TrackNumber, ErrInvalidSong)
		}
	}
	return nil
}

func writeTrack(w *byteWriter, t *Track) error {
	w.writeBytes([]byte("MTrk"))
	lengthOffset := w.Len()
	w.writeU32BE(0) // placeholder, backpatched below
	start := w.Len()

	// A channel voice message whose status repeats the previous channel
	// voice status is written with running status (status byte omitted);
	// any other message clears the running status.
	var runningStatus byte
	for _, e := range t.events {
		if e2 := w.writeVLQ(e.DeltaTimePulses); e2 != nil {
			return fmt.Errorf("event %d: %w", e.EventNumber, e2)
		}
		buf := e.MIDIBuffer
		if len(buf) > 0 && buf[0] >= 0x80 && buf[0] <= 0xEF {
			if buf[0] == runningStatus {
				buf = buf[1:]
			} else {
				runningStatus = buf[0]
			}
		} else {
			runningStatus = 0
		}
		w.writeBytes(buf)
	}

	w.backpatchU32BE(lengthOffset, uint32(w.Len()-start))
	return nil
}
