package smf

import "fmt"

// decodeTrack parses one MTrk chunk's event stream from r into track,
// stopping as soon as an End-Of-Track metaevent is produced. Running
// status and the system-realtime interleave rule (§4.4) are handled as an
// explicit state machine driven by track.lastStatus.
func decodeTrack(r *byteReader, track *Track, logSink LogSink) error {
	var runningPulses uint32
	first := true

	for {
		delta, e := r.readVLQ()
		if e != nil {
			return fmt.Errorf("reading delta time for event %d: %w", len(track.events)+1, e)
		}
		if first {
			runningPulses = delta
			first = false
		} else {
			runningPulses += delta
		}

		event, eotSeen, e := decodeOneEvent(r, track, delta, runningPulses, logSink)
		if e != nil {
			return fmt.Errorf("decoding event %d: %w", len(track.events)+1, e)
		}
		appendDecodedEvent(track, event)
		if eotSeen {
			return nil
		}
	}
}

func appendDecodedEvent(track *Track, e *Event) {
	e.track = track
	track.events = append(track.events, e)
	e.EventNumber = len(track.events)
	e.TrackNumber = track.TrackNumber
}

// decodeOneEvent decodes the message at the cursor, resolving running
// status against track.lastStatus, and returns the constructed event and
// whether it was the End-Of-Track metaevent.
func decodeOneEvent(r *byteReader, track *Track, delta, timePulses uint32, logSink LogSink) (*Event, bool, error) {
	b, e := r.peekByte()
	var status byte
	if e == nil && isStatusByte(b) {
		status, _ = r.readByte()
		track.lastStatus = status
	} else {
		if e != nil {
			return nil, false, e
		}
		status = track.lastStatus
		if status == 0 {
			return nil, false, fmt.Errorf("first event byte 0x%02x: %w", b, ErrBadStatus)
		}
	}

	var buf []byte
	mainDelta := delta
	switch {
	case status == 0xFF:
		buf, e = decodeMetaBytes(r, status)
	case status == 0xF0:
		buf, e = decodeSysexBytes(r, status, logSink)
	default:
		buf, mainDelta, e = decodeFixedLengthBytes(r, track, status, delta, timePulses, logSink)
	}
	if e != nil {
		return nil, false, e
	}

	ev := &Event{
		MIDIBuffer:      buf,
		DeltaTimePulses: mainDelta,
		TimePulses:      timePulses,
	}
	return ev, ev.isEndOfTrack(), nil
}

// decodeMetaBytes reads a metaevent's type byte, VLQ length, and payload,
// returning the verbatim bytes (including the 0xFF prefix and the VLQ
// length) per the representation decision in DESIGN.md.
func decodeMetaBytes(r *byteReader, status byte) ([]byte, error) {
	start := r.pos - 1 // status byte already consumed
	if _, e := r.readByte(); e != nil {
		return nil, fmt.Errorf("reading meta-event type: %w", e)
	}
	length, e := r.readVLQ()
	if e != nil {
		return nil, fmt.Errorf("reading meta-event length: %w", e)
	}
	if _, e := r.readBytes(int(length)); e != nil {
		return nil, fmt.Errorf("reading meta-event payload: %w", e)
	}
	out := make([]byte, r.pos-start)
	copy(out, r.buf[start:r.pos])
	return out, nil
}

// decodeSysexBytes consumes bytes until the next status byte, per §4.3/4.4:
// if it's 0xF7 it's included as the terminator; any other terminator
// produces a recoverable warning and is left unconsumed for the next
// event to reinterpret.
func decodeSysexBytes(r *byteReader, status byte, logSink LogSink) ([]byte, error) {
	out := []byte{status}
	for {
		b, e := r.peekByte()
		if e != nil {
			return nil, fmt.Errorf("scanning SysEx body: %w", e)
		}
		if isStatusByte(b) {
			if b == 0xF7 {
				r.readByte()
				out = append(out, b)
			} else {
				warn := logSink
				if warn == nil {
					warn = defaultLogSink
				}
				warn(LogWarning, fmt.Sprintf("SysEx terminated by 0x%02x instead of 0xF7", b))
			}
			return out, nil
		}
		r.readByte()
		out = append(out, b)
	}
}

// decodeFixedLengthBytes handles channel voice and fixed-length system
// common/realtime messages, splicing out any interleaved realtime bytes as
// synthesized one-byte events appended directly to the track. All of these
// events - the synthesized ones and the message decodeFixedLengthBytes
// returns bytes for - occur at the same timePulses, so only the first one
// to occur may carry the elapsed delta; every other one absorbs zero
// ticks. The first in program order is always a synthesized realtime
// splice (since those are read strictly before the byte that completes the
// main message), so delta is handed to the first splice encountered, and
// whatever remains - zero, if any splice occurred - is returned for the
// caller to use as the main event's own delta.
func decodeFixedLengthBytes(r *byteReader, track *Track, status byte, delta, timePulses uint32, logSink LogSink) ([]byte, uint32, error) {
	var dataLen int
	var ok bool
	if isRealtimeByte(status) {
		dataLen, ok = 0, true
	} else if n, found := channelVoiceDataLength(status); found {
		dataLen, ok = n, true
	} else if n, found := systemCommonDataLength(status); found {
		dataLen, ok = n, true
		if status == 0xF7 {
			warn := logSink
			if warn == nil {
				warn = defaultLogSink
			}
			warn(LogWarning, "status 0xF7 (End of SysEx) encountered without matching 0xF0")
		}
	} else {
		ok = false
	}
	if !ok {
		return nil, 0, fmt.Errorf("status 0x%02x: %w", status, ErrUnknownStatus)
	}

	remainingDelta := delta
	out := make([]byte, 1, dataLen+1)
	out[0] = status
	for len(out) <= dataLen {
		b, e := r.peekByte()
		if e != nil {
			return nil, 0, fmt.Errorf("reading data byte: %w", e)
		}
		if isRealtimeByte(b) {
			r.readByte()
			appendDecodedEvent(track, &Event{MIDIBuffer: []byte{b}, DeltaTimePulses: remainingDelta, TimePulses: timePulses})
			remainingDelta = 0
			continue
		}
		r.readByte()
		out = append(out, b)
	}
	return out, remainingDelta, nil
}
