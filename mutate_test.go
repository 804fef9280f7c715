package smf

import "testing"

func TestAddTrackPromotesFormat(t *testing.T) {
	song := New()
	if song.Format != 0 {
		t.Logf("Expected a fresh song to be format 0, got %d\n", song.Format)
		t.FailNow()
	}
	song.AddTrack()
	if song.Format != 0 {
		t.Logf("Format shouldn't change after the first track, got %d\n", song.Format)
		t.FailNow()
	}
	song.AddTrack()
	if song.Format != 1 {
		t.Logf("Expected format to be auto-promoted to 1 after a second track, got %d\n", song.Format)
		t.FailNow()
	}
}

func TestRemoveTrackRenumbers(t *testing.T) {
	song := New()
	t1 := song.AddTrack()
	t2 := song.AddTrack()
	t3 := song.AddTrack()
	song.RemoveTrack(t2)
	if t1.TrackNumber != 1 {
		t.Logf("Expected track 1 to keep its number, got %d\n", t1.TrackNumber)
		t.FailNow()
	}
	if t3.TrackNumber != 2 {
		t.Logf("Expected the former track 3 to be renumbered to 2, got %d\n", t3.TrackNumber)
		t.FailNow()
	}
	if song.NumberOfTracks() != 2 {
		t.Logf("Expected 2 remaining tracks, got %d\n", song.NumberOfTracks())
		t.FailNow()
	}
}

func TestOutOfOrderInsertRecomputesDeltas(t *testing.T) {
	song := New()
	track := song.AddTrack()
	song.AddEventByDeltaPulses(track, NewEventFromBytes([]byte{0x90, 60, 100}), 100)  // pulse 100
	song.AddEventByDeltaPulses(track, NewEventFromBytes([]byte{0x90, 64, 100}), 100)  // pulse 200
	// Insert an event at pulse 150, before the current last event.
	song.AddEventByPulses(track, NewEventFromBytes([]byte{0x90, 67, 100}), 150)
	song.AddEOT(track)

	events := track.Events()
	if len(events) != 4 {
		t.Logf("Expected 4 events after the out-of-order insert, got %d\n", len(events))
		t.FailNow()
	}
	wantPulses := []uint32{100, 150, 200, 200}
	wantDeltas := []uint32{100, 50, 50, 0}
	for i, e := range events {
		if e.TimePulses != wantPulses[i] {
			t.Logf("Event %d: wrong TimePulses, got %d want %d\n", i+1, e.TimePulses, wantPulses[i])
			t.FailNow()
		}
		if e.DeltaTimePulses != wantDeltas[i] {
			t.Logf("Event %d: wrong DeltaTimePulses, got %d want %d\n", i+1, e.DeltaTimePulses, wantDeltas[i])
			t.FailNow()
		}
		if e.EventNumber != i+1 {
			t.Logf("Event %d: wrong EventNumber, got %d\n", i+1, e.EventNumber)
			t.FailNow()
		}
	}
}

func TestRemoveEventRepairsDelta(t *testing.T) {
	song := New()
	track := song.AddTrack()
	e1 := NewEventFromBytes([]byte{0x90, 60, 100})
	e2 := NewEventFromBytes([]byte{0x90, 64, 100})
	e3 := NewEventFromBytes([]byte{0x90, 67, 100})
	song.AddEventByDeltaPulses(track, e1, 100)
	song.AddEventByDeltaPulses(track, e2, 50)
	song.AddEventByDeltaPulses(track, e3, 50)
	song.AddEOT(track)

	song.RemoveEvent(e2)

	events := track.Events()
	if len(events) != 3 {
		t.Logf("Expected 3 events after removal, got %d\n", len(events))
		t.FailNow()
	}
	if events[1] != e3 {
		t.Logf("Expected e3 to take e2's place.\n")
		t.FailNow()
	}
	if events[1].DeltaTimePulses != 100 {
		t.Logf("Expected the following event's delta to fold in the removed event's delta, got %d\n",
			events[1].DeltaTimePulses)
		t.FailNow()
	}
	if e2.Track() != nil {
		t.Logf("Expected the removed event to be detached from its track.\n")
		t.FailNow()
	}
}

func TestAddEOTAppendsCanonicalBytes(t *testing.T) {
	song := New()
	track := song.AddTrack()
	song.AddEOT(track)
	last := track.LastEvent()
	want := []byte{0xFF, 0x2F, 0x00}
	if len(last.MIDIBuffer) != len(want) {
		t.Logf("Wrong End Of Track bytes: got % x\n", last.MIDIBuffer)
		t.FailNow()
	}
	for i := range want {
		if last.MIDIBuffer[i] != want[i] {
			t.Logf("Wrong End Of Track bytes: got % x, want % x\n", last.MIDIBuffer, want)
			t.FailNow()
		}
	}
}
