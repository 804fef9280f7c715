package smf

import "testing"

func TestDefaultTempoMap(t *testing.T) {
	song := New()
	a := song.LastTempo()
	if a == nil {
		t.Logf("Expected a default tempo anchor.\n")
		t.FailNow()
	}
	if a.MicrosecondsPerQuarterNote != 500000 || a.Numerator != 4 || a.Denominator != 4 {
		t.Logf("Wrong default tempo anchor: %+v\n", a)
		t.FailNow()
	}
}

func TestTempoChangeMidSong(t *testing.T) {
	song := New()
	song.PPQN = 120
	track := song.AddTrack()

	// One second (two quarter notes) at the default 120 BPM, then double the tempo.
	song.AddEventByDeltaPulses(track, NewEventFromBytes([]byte{0x90, 60, 100}), 0)
	tempoChange := NewEventFromBytes([]byte{0xFF, 0x51, 0x03, 0x03, 0xD0, 0x90}) // 250000us/qn
	song.AddEventByDeltaPulses(track, tempoChange, 240)                         // 2 quarter notes in
	song.AddEOT(track)

	seconds, e := song.PulsesToSeconds(240)
	if e != nil {
		t.Logf("Unexpected error: %s\n", e)
		t.FailNow()
	}
	if seconds != 1.0 {
		t.Logf("Wrong seconds at the tempo boundary: got %f, want 1.0\n", seconds)
		t.FailNow()
	}

	secondsAfter, e := song.PulsesToSeconds(360)
	if e != nil {
		t.Logf("Unexpected error: %s\n", e)
		t.FailNow()
	}
	// 120 pulses at 250000us/qn and 120 PPQN is 0.25s, so 1.25s total.
	if secondsAfter != 1.25 {
		t.Logf("Wrong seconds after the tempo change: got %f, want 1.25\n", secondsAfter)
		t.FailNow()
	}
}

func TestPulsesToSecondsUnsupportedForSMPTE(t *testing.T) {
	song := New()
	song.PPQN = 0
	song.FramesPerSecond = 25
	song.Resolution = 40
	_, e := song.PulsesToSeconds(100)
	if e == nil {
		t.Logf("Didn't get expected ErrUnsupported for SMPTE timing.\n")
		t.FailNow()
	}
	t.Logf("Got expected error: %s\n", e)
}
