package smf

import "errors"

// Sentinel errors for the taxonomy used throughout this package. Callers
// should use errors.Is against these, since the wrapped message usually
// carries more context (offsets, event numbers, chunk ids).
var (
	// ErrTruncated means a buffer ended mid-structure: a header, a chunk
	// length, a VLQ, or an event payload.
	ErrTruncated = errors.New("smf: truncated buffer")

	// ErrOverflow means a VLQ accumulated more than 28 bits.
	ErrOverflow = errors.New("smf: variable-length quantity overflows 28 bits")

	// ErrMalformedHeader means the MThd chunk failed validation.
	ErrMalformedHeader = errors.New("smf: malformed header")

	// ErrBadStatus means the first byte of an event was not a status byte
	// and no running status was set.
	ErrBadStatus = errors.New("smf: missing status and no running status set")

	// ErrUnknownStatus means a status byte could not be classified.
	ErrUnknownStatus = errors.New("smf: unrecognized status byte")

	// ErrInvalidEvent means an event's buffer length is inconsistent with
	// its classification.
	ErrInvalidEvent = errors.New("smf: invalid event")

	// ErrInvalidSong means save-time validation failed.
	ErrInvalidSong = errors.New("smf: invalid song")

	// ErrTempoInvalid means a tempo metaevent carried a non-positive
	// microseconds-per-quarter-note value. The event is kept; only the
	// tempo map anchor is discarded.
	ErrTempoInvalid = errors.New("smf: invalid tempo value")

	// ErrSeekPastEnd means a seek target is beyond the last event.
	ErrSeekPastEnd = errors.New("smf: seek target past end of song")

	// ErrEventNotInSong means seek_to_event was asked for an event the
	// cursor never produces.
	ErrEventNotInSong = errors.New("smf: event not found in song")

	// ErrUnsupported means the operation doesn't apply to this song's
	// timing mode (e.g. pulses/seconds conversion on an SMPTE-timed song).
	ErrUnsupported = errors.New("smf: unsupported for this song's timing mode")
)
