package smf

import (
	"fmt"
	"math"
	"strings"
)

// Event is a single MIDI message (or metaevent) attached to a Track.
//
// MIDIBuffer is the only field callers should construct directly; the rest
// are populated by the loader or the mutation API and are only meaningful
// while the event is attached to a track (track is nil otherwise).
type Event struct {
	// MIDIBuffer holds the raw bytes of the message, status byte first.
	// For metaevents this includes the 0xFF type byte and the VLQ-encoded
	// length that precedes the payload, so the saver can re-emit it
	// unchanged.
	MIDIBuffer []byte

	DeltaTimePulses uint32
	TimePulses      uint32
	TimeSeconds     float64

	// EventNumber is this event's 1-based position within its track.
	EventNumber int
	// TrackNumber mirrors the owning track's number as of attach time.
	TrackNumber int

	track *Track
}

// NewEvent returns a detached, empty event. Callers normally use
// NewEventFromBytes instead.
func NewEvent() *Event {
	return &Event{}
}

// NewEventFromBytes copies data into a new detached event's MIDIBuffer.
func NewEventFromBytes(data []byte) *Event {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Event{MIDIBuffer: buf}
}

// NewEventFromMessage builds a detached event from 1..3 status/data bytes,
// mirroring the convenience constructor used when building events
// programmatically (e.g. from a hex string typed at a REPL). Pass -1 for
// secondByte/thirdByte to build a 1- or 2-byte message.
func NewEventFromMessage(firstByte, secondByte, thirdByte int) (*Event, error) {
	if firstByte < 0 || firstByte > 0xff {
		return nil, fmt.Errorf("first byte %d out of range", firstByte)
	}
	if !isStatusByte(byte(firstByte)) {
		return nil, fmt.Errorf("first byte 0x%02x is not a status byte", firstByte)
	}
	n := 1
	if secondByte >= 0 {
		n = 2
	}
	if thirdByte >= 0 {
		n = 3
	}
	buf := make([]byte, n)
	buf[0] = byte(firstByte)
	if n > 1 {
		if secondByte > 0xff {
			return nil, fmt.Errorf("second byte %d out of range", secondByte)
		}
		if isStatusByte(byte(secondByte)) {
			return nil, fmt.Errorf("second byte 0x%02x cannot be a status byte", secondByte)
		}
		buf[1] = byte(secondByte)
	}
	if n > 2 {
		if thirdByte > 0xff {
			return nil, fmt.Errorf("third byte %d out of range", thirdByte)
		}
		if isStatusByte(byte(thirdByte)) {
			return nil, fmt.Errorf("third byte 0x%02x cannot be a status byte", thirdByte)
		}
		buf[2] = byte(thirdByte)
	}
	return &Event{MIDIBuffer: buf}, nil
}

// Track returns the track this event is attached to, or nil if detached.
func (e *Event) Track() *Track {
	return e.track
}

func (e *Event) status() byte {
	if len(e.MIDIBuffer) == 0 {
		return 0
	}
	return e.MIDIBuffer[0]
}

// IsMetadata reports whether the event is a metaevent (0xFF prefix).
func (e *Event) IsMetadata() bool {
	return len(e.MIDIBuffer) > 0 && e.MIDIBuffer[0] == 0xFF
}

// IsSystemRealtime reports whether the event is a realtime status
// (0xF8..0xFE).
func (e *Event) IsSystemRealtime() bool {
	if e.IsMetadata() || len(e.MIDIBuffer) == 0 {
		return false
	}
	return e.MIDIBuffer[0] >= 0xF8
}

// IsSystemCommon reports whether the event's status is in 0xF0..0xF7.
func (e *Event) IsSystemCommon() bool {
	if len(e.MIDIBuffer) == 0 {
		return false
	}
	return isSystemCommonStatus(e.MIDIBuffer[0])
}

// IsSysex reports whether the event is a System Exclusive message.
func (e *Event) IsSysex() bool {
	return len(e.MIDIBuffer) > 0 && e.MIDIBuffer[0] == 0xF0
}

// IsValid reports whether MIDIBuffer's length is consistent with what its
// status byte implies. Metaevents and SysEx are accepted at any length
// greater than their minimal framing since their true length is
// self-describing; fixed-length channel voice and system common messages
// must match exactly.
func (e *Event) IsValid() bool {
	if len(e.MIDIBuffer) == 0 {
		return false
	}
	status := e.MIDIBuffer[0]
	if status == 0xFF {
		return len(e.MIDIBuffer) >= 3
	}
	if status == 0xF0 {
		return true
	}
	if isRealtimeByte(status) {
		return len(e.MIDIBuffer) == 1
	}
	if n, ok := channelVoiceDataLength(status); ok {
		return len(e.MIDIBuffer) == n+1
	}
	if n, ok := systemCommonDataLength(status); ok {
		return len(e.MIDIBuffer) == n+1
	}
	return false
}

// isTempoEvent reports whether the event is a Set Tempo metaevent with a
// well-formed 3-byte payload, and if so returns the microseconds-per-
// quarter-note value (which may still be <= 0 and thus invalid).
func (e *Event) isTempoEvent() (int32, bool) {
	if !e.IsMetadata() || len(e.MIDIBuffer) < 3 || e.MIDIBuffer[1] != 0x51 {
		return 0, false
	}
	payload := e.metaPayload()
	if len(payload) != 3 {
		return 0, false
	}
	us := int32(payload[0])<<16 | int32(payload[1])<<8 | int32(payload[2])
	return us, true
}

// isTimeSignatureEvent reports whether the event is a Time Signature
// metaevent with a well-formed 4-byte payload.
func (e *Event) isTimeSignatureEvent() (numerator, denomLog2, clocksPerClick, notesPerNote byte, ok bool) {
	if !e.IsMetadata() || len(e.MIDIBuffer) < 3 || e.MIDIBuffer[1] != 0x58 {
		return 0, 0, 0, 0, false
	}
	payload := e.metaPayload()
	if len(payload) != 4 {
		return 0, 0, 0, 0, false
	}
	return payload[0], payload[1], payload[2], payload[3], true
}

// isEndOfTrack reports whether the event is an End-Of-Track metaevent
// (0xFF followed by type 0x2F); the length byte is not checked.
func (e *Event) isEndOfTrack() bool {
	return e.IsMetadata() && len(e.MIDIBuffer) >= 2 && e.MIDIBuffer[1] == 0x2F
}

// metaPayload returns the payload bytes of a metaevent, skipping the
// 0xFF, type, and VLQ-length bytes. Returns nil if the event is not a
// well-formed metaevent.
func (e *Event) metaPayload() []byte {
	if !e.IsMetadata() || len(e.MIDIBuffer) < 3 {
		return nil
	}
	r := newByteReader(e.MIDIBuffer[2:])
	length, err := r.readVLQ()
	if err != nil {
		return nil
	}
	payload, err := r.readBytes(int(length))
	if err != nil {
		return nil
	}
	return payload
}

func noteName(n byte) string {
	names := [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	octave := int(n)/12 - 1
	return fmt.Sprintf("%s%d", names[int(n)%12], octave)
}

// DecodeEvent returns a human-readable description of the event, or the
// empty string if the event cannot be classified (an unknown metaevent
// type, or an invalid fixed-length message).
func (e *Event) DecodeEvent() string {
	if len(e.MIDIBuffer) == 0 {
		return ""
	}
	switch {
	case e.IsMetadata():
		return e.decodeMetadata()
	case e.IsSystemRealtime():
		return e.decodeSystemRealtime()
	case e.IsSystemCommon():
		return e.decodeSystemCommon()
	}
	if !e.IsValid() {
		return ""
	}
	b := e.MIDIBuffer
	channel := b[0] & 0x0F
	switch b[0] & 0xF0 {
	case 0x80:
		return fmt.Sprintf("Note Off, channel %d, note %s, velocity %d", channel, noteName(b[1]), b[2])
	case 0x90:
		return fmt.Sprintf("Note On, channel %d, note %s, velocity %d", channel, noteName(b[1]), b[2])
	case 0xA0:
		return fmt.Sprintf("Aftertouch, channel %d, note %s, pressure %d", channel, noteName(b[1]), b[2])
	case 0xB0:
		return fmt.Sprintf("Controller, channel %d, controller %d, value %d", channel, b[1], b[2])
	case 0xC0:
		return fmt.Sprintf("Program Change, channel %d, program %d", channel, b[1])
	case 0xD0:
		return fmt.Sprintf("Channel Pressure, channel %d, pressure %d", channel, b[1])
	case 0xE0:
		// Byte 2 carries the high 7 bits and byte 1 the low 7 bits.
		value := (uint16(b[2]) << 7) | uint16(b[1])
		return fmt.Sprintf("Pitch Wheel, channel %d, value %d", channel, value)
	}
	return ""
}

func (e *Event) decodeMetadata() string {
	payload := e.metaPayload()
	if payload == nil && len(e.MIDIBuffer) >= 3 {
		return ""
	}
	switch e.MIDIBuffer[1] {
	case 0x00:
		return "Sequence number"
	case 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09:
		names := map[byte]string{
			0x01: "Text", 0x02: "Copyright", 0x03: "Sequence/Track Name",
			0x04: "Instrument", 0x05: "Lyric", 0x06: "Marker",
			0x07: "Cue Point", 0x08: "Program Name", 0x09: "Device (Port) Name",
		}
		return fmt.Sprintf("%s: %s", names[e.MIDIBuffer[1]], string(payload))
	case 0x20:
		if len(payload) < 1 {
			return ""
		}
		return fmt.Sprintf("Channel Prefix: %d", payload[0])
	case 0x2F:
		return "End Of Track"
	case 0x51:
		if len(payload) != 3 {
			return ""
		}
		us := int(payload[0])<<16 | int(payload[1])<<8 | int(payload[2])
		return fmt.Sprintf("Tempo: %d microseconds per quarter note", us)
	case 0x54:
		return "SMPTE Offset"
	case 0x58:
		if len(payload) != 4 {
			return ""
		}
		denom := int(math.Pow(2, float64(payload[1])))
		return fmt.Sprintf("Time Signature: %d/%d, %d clocks per click, %d notated 32nd notes per quarter note",
			payload[0], denom, payload[2], payload[3])
	case 0x59:
		if len(payload) != 2 {
			return ""
		}
		sf := int8(payload[0])
		mode := "major"
		if payload[1] != 0 {
			mode = "minor"
		}
		sign := "flat"
		if sf > 0 {
			sign = "sharp"
		}
		n := sf
		if n < 0 {
			n = -n
		}
		return fmt.Sprintf("Key Signature, %d %s, %s", n, sign, mode)
	case 0x7F:
		return fmt.Sprintf("Proprietary (aka Sequencer) Event, length %d", len(e.MIDIBuffer))
	}
	return ""
}

func (e *Event) decodeSystemRealtime() string {
	if len(e.MIDIBuffer) != 1 {
		return ""
	}
	switch e.MIDIBuffer[0] {
	case 0xF8:
		return "MIDI Clock (realtime)"
	case 0xF9:
		return "Tick (realtime)"
	case 0xFA:
		return "MIDI Start (realtime)"
	case 0xFB:
		return "MIDI Continue (realtime)"
	case 0xFC:
		return "MIDI Stop (realtime)"
	case 0xFE:
		return "Active Sense (realtime)"
	}
	return ""
}

func (e *Event) decodeSystemCommon() string {
	if e.IsSysex() {
		return e.decodeSysex()
	}
	switch e.MIDIBuffer[0] {
	case 0xF1:
		return "MTC Quarter Frame"
	case 0xF2:
		return "Song Position Pointer"
	case 0xF3:
		return "Song Select"
	case 0xF6:
		return "Tune Request"
	}
	return ""
}

func (e *Event) decodeSysex() string {
	if len(e.MIDIBuffer) < 2 {
		return fmt.Sprintf("SysEx, %d bytes", len(e.MIDIBuffer))
	}
	return fmt.Sprintf("SysEx, manufacturer 0x%x, %d bytes", e.MIDIBuffer[1], len(e.MIDIBuffer)-1)
}

// StringFromEvent returns the textual payload of a text metaevent
// (0x01..0x09), or the empty string for any other event.
func (e *Event) StringFromEvent() string {
	if !e.IsMetadata() || len(e.MIDIBuffer) < 2 {
		return ""
	}
	t := e.MIDIBuffer[1]
	if t < 0x01 || t > 0x09 {
		return ""
	}
	payload := e.metaPayload()
	return strings.TrimRight(string(payload), "\x00")
}
