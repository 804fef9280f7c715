package smf

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: encoding then decoding any 28-bit value returns the original
// value and consumes exactly the bytes produced.
func TestVLQRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("VLQ round trips through encode and decode", prop.ForAll(
		func(n uint32) bool {
			n &= 0x0fffffff
			encoded, e := EncodeVLQ(n)
			if e != nil {
				t.Logf("EncodeVLQ(%d) failed: %s", n, e)
				return false
			}
			if len(encoded) < 1 || len(encoded) > 4 {
				return false
			}
			decoded, consumed, e := DecodeVLQ(encoded)
			if e != nil {
				t.Logf("DecodeVLQ failed: %s", e)
				return false
			}
			return decoded == n && consumed == len(encoded)
		},
		gen.UInt32(),
	))

	properties.TestingRun(t)
}

// Property: for any sequence of non-negative delta-pulse values appended to
// a single track, every event's absolute TimePulses equals the running sum
// of the deltas seen so far, and its stored DeltaTimePulses equals the delta
// it was appended with.
func TestDeltaPulsesConsistencyProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("absolute pulses track the running sum of deltas", prop.ForAll(
		func(deltas []uint16) bool {
			song := New()
			track := song.AddTrack()
			var running uint32
			for _, d := range deltas {
				running += uint32(d)
				song.AddEventByDeltaPulses(track, NewEventFromBytes([]byte{0x90, 60, 100}), uint32(d))
				last := track.LastEvent()
				if last.TimePulses != running {
					t.Logf("wrong absolute pulses: got %d, want %d", last.TimePulses, running)
					return false
				}
				if last.DeltaTimePulses != uint32(d) {
					t.Logf("wrong delta: got %d, want %d", last.DeltaTimePulses, d)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt16Range(0, 1000)),
	))

	properties.TestingRun(t)
}

// Property: the playback cursor always produces events in non-decreasing
// TimePulses order, regardless of how many tracks contribute events.
func TestMergeOrderNonDecreasingProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("the merged event stream is never out of order", prop.ForAll(
		func(trackDeltas [][]uint16) bool {
			song := New()
			for _, deltas := range trackDeltas {
				track := song.AddTrack()
				for _, d := range deltas {
					song.AddEventByDeltaPulses(track, NewEventFromBytes([]byte{0x90, 60, 100}), uint32(d))
				}
				song.AddEOT(track)
			}

			var lastPulses uint32
			first := true
			for {
				e := song.NextEvent()
				if e == nil {
					break
				}
				if !first && e.TimePulses < lastPulses {
					t.Logf("merge order violated: %d after %d", e.TimePulses, lastPulses)
					return false
				}
				lastPulses = e.TimePulses
				first = false
			}
			return true
		},
		gen.SliceOfN(3, gen.SliceOfN(4, gen.UInt16Range(0, 200))),
	))

	properties.TestingRun(t)
}

// Property: rewinding after any amount of playback always returns the
// cursor to the same first merged event.
func TestRewindIdempotenceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("rewind always returns to the first merged event", prop.ForAll(
		func(deltas []uint16, advanceCount int) bool {
			song := New()
			track := song.AddTrack()
			for _, d := range deltas {
				song.AddEventByDeltaPulses(track, NewEventFromBytes([]byte{0x90, 60, 100}), uint32(d))
			}
			song.AddEOT(track)

			song.Rewind()
			want := song.PeekNextEvent()

			for i := 0; i < advanceCount; i++ {
				if song.NextEvent() == nil {
					break
				}
			}
			song.Rewind()
			return song.PeekNextEvent() == want
		},
		gen.SliceOf(gen.UInt16Range(0, 200)),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
