// smfsh is an interactive shell for inspecting and editing Standard MIDI
// Files, one command per line.
package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/stump/libsmf"
)

var (
	song          *smf.Smf
	selectedTrack *smf.Track
	selectedEvent *smf.Event
	lastFileName  string
)

var hexCharsRE = regexp.MustCompile(`^([a-fA-F0-9]{2})*$`)

func hexStringToBytes(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if !hexCharsRE.MatchString(s) {
		return nil, fmt.Errorf("invalid hex byte string %q", s)
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		v, _ := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		out[i] = byte(v)
	}
	return out, nil
}

func cmdLoad(arg string) error {
	name := arg
	if name == "" {
		if lastFileName == "" {
			return fmt.Errorf("please specify a file name")
		}
		name = lastFileName
	}
	f, e := os.Open(name)
	if e != nil {
		return fmt.Errorf("opening %s: %w", name, e)
	}
	defer f.Close()
	loaded, e := smf.Load(f)
	if e != nil {
		return fmt.Errorf("parsing %s: %w", name, e)
	}
	song = loaded
	selectedTrack = nil
	selectedEvent = nil
	lastFileName = name
	fmt.Printf("file %q loaded.\n", name)
	return nil
}

func cmdSave(arg string) error {
	name := arg
	if name == "" {
		name = lastFileName
	}
	if name == "" {
		return fmt.Errorf("please specify a file name")
	}
	f, e := os.Create(name)
	if e != nil {
		return fmt.Errorf("creating %s: %w", name, e)
	}
	defer f.Close()
	if e := smf.Save(song, f); e != nil {
		return fmt.Errorf("saving %s: %w", name, e)
	}
	lastFileName = name
	fmt.Printf("file %q saved.\n", name)
	return nil
}

func cmdPPQN(arg string) error {
	if arg == "" {
		fmt.Printf("pulses per quarter note is %d.\n", song.PPQN)
		return nil
	}
	n, e := strconv.Atoi(arg)
	if e != nil {
		return fmt.Errorf("invalid ppqn %q: %w", arg, e)
	}
	song.PPQN = uint16(n)
	fmt.Printf("pulses per quarter note changed to %d.\n", n)
	return nil
}

func cmdFormat(arg string) error {
	if arg == "" {
		fmt.Printf("format is %d.\n", song.Format)
		return nil
	}
	n, e := strconv.Atoi(arg)
	if e != nil || n < 0 || n > 2 {
		return fmt.Errorf("invalid format %q", arg)
	}
	song.Format = uint16(n)
	fmt.Printf("format changed to %d.\n", n)
	return nil
}

func cmdTracks(string) error {
	n := song.NumberOfTracks()
	if n > 0 {
		fmt.Printf("there are %d tracks, numbered from 1 to %d.\n", n, n)
	} else {
		fmt.Println("there are no tracks.")
	}
	return nil
}

func cmdTrack(arg string) error {
	if arg == "" {
		if selectedTrack == nil {
			fmt.Println("no track currently selected.")
		} else {
			fmt.Printf("currently selected is track number %d, containing %d events.\n",
				selectedTrack.TrackNumber, selectedTrack.NumberOfEvents())
		}
		return nil
	}
	n, e := strconv.Atoi(arg)
	if e != nil {
		return fmt.Errorf("invalid track number %q", arg)
	}
	t := song.TrackByNumber(n)
	if t == nil {
		return fmt.Errorf("invalid track number %d; valid choices are 1-%d", n, song.NumberOfTracks())
	}
	selectedTrack = t
	selectedEvent = nil
	fmt.Printf("track number %d selected; it contains %d events.\n", t.TrackNumber, t.NumberOfEvents())
	return nil
}

func cmdTrackAdd(string) error {
	selectedTrack = song.AddTrack()
	selectedEvent = nil
	fmt.Printf("created new track; track number %d selected.\n", selectedTrack.TrackNumber)
	return nil
}

func cmdTrackRm(string) error {
	if selectedTrack == nil {
		return fmt.Errorf("no track selected; use 'track N' first")
	}
	song.RemoveTrack(selectedTrack)
	selectedTrack = nil
	selectedEvent = nil
	fmt.Println("track removed.")
	return nil
}

func showEvent(e *smf.Event) {
	fmt.Printf("delta time from previous event: %d pulses.\n", e.DeltaTimePulses)
	fmt.Printf("time since start of the song: %f seconds.\n", e.TimeSeconds)
	fmt.Printf("message length: %d bytes.\n", len(e.MIDIBuffer))
	if s := e.DecodeEvent(); s != "" {
		fmt.Printf("event: %s\n", s)
	}
}

func cmdEvents(string) error {
	if selectedTrack == nil {
		return fmt.Errorf("no track selected; use 'track N' first")
	}
	fmt.Printf("events in track %d:\n", selectedTrack.TrackNumber)
	for _, e := range selectedTrack.Events() {
		fmt.Println("----------------------------------")
		showEvent(e)
	}
	fmt.Println("----------------------------------")
	return nil
}

func cmdEvent(arg string) error {
	if selectedTrack == nil {
		return fmt.Errorf("no track selected; use 'track N' first")
	}
	if arg == "" {
		if selectedEvent == nil {
			fmt.Println("no event currently selected.")
		} else {
			fmt.Printf("currently selected is event %d, track %d.\n",
				selectedEvent.EventNumber, selectedTrack.TrackNumber)
		}
		return nil
	}
	n, e := strconv.Atoi(arg)
	if e != nil {
		return fmt.Errorf("invalid event number %q", arg)
	}
	ev := selectedTrack.EventByNumber(n)
	if ev == nil {
		return fmt.Errorf("invalid event number %d; valid choices are 1-%d", n, selectedTrack.NumberOfEvents())
	}
	selectedEvent = ev
	fmt.Printf("event number %d selected.\n", n)
	return nil
}

func cmdEventAdd(arg string) error {
	if selectedTrack == nil {
		return fmt.Errorf("please select a track first")
	}
	fields := strings.SplitN(arg, " ", 2)
	if len(fields) != 2 {
		return fmt.Errorf("usage: eventadd DELTA HEXBYTES")
	}
	delta, e := strconv.ParseUint(fields[0], 10, 32)
	if e != nil {
		return fmt.Errorf("invalid delta time %q: %w", fields[0], e)
	}
	data, e := hexStringToBytes(fields[1])
	if e != nil {
		return fmt.Errorf("invalid event bytes: %w", e)
	}
	ev := smf.NewEventFromBytes(data)
	if !ev.IsValid() {
		return fmt.Errorf("event bytes do not form a valid MIDI message")
	}
	song.AddEventByDeltaPulses(selectedTrack, ev, uint32(delta))
	selectedEvent = ev
	fmt.Println("event created.")
	return nil
}

func cmdEventAddEOT(string) error {
	if selectedTrack == nil {
		return fmt.Errorf("please select a track first")
	}
	song.AddEOT(selectedTrack)
	selectedEvent = selectedTrack.LastEvent()
	fmt.Println("end-of-track event created.")
	return nil
}

func cmdEventRm(string) error {
	if selectedEvent == nil {
		return fmt.Errorf("no event selected; use 'event N' first")
	}
	song.RemoveEvent(selectedEvent)
	selectedEvent = nil
	fmt.Println("event removed.")
	return nil
}

func cmdTempo(string) error {
	a := song.LastTempo()
	if a == nil {
		fmt.Println("no tempo map.")
		return nil
	}
	fmt.Printf("current tempo: %d microseconds per quarter note, %d/%d time.\n",
		a.MicrosecondsPerQuarterNote, a.Numerator, a.Denominator)
	return nil
}

type command struct {
	name string
	fn   func(string) error
	help string
}

var commands []command

func cmdHelp(string) error {
	fmt.Println("available commands:")
	for _, c := range commands {
		if c.help == "" {
			continue
		}
		fmt.Printf("  %s: %s\n", c.name, c.help)
	}
	return nil
}

func init() {
	commands = []command{
		{"help", cmdHelp, "show this help."},
		{"load", cmdLoad, "load named file."},
		{"save", cmdSave, "save to named file."},
		{"ppqn", cmdPPQN, "show ppqn, or set ppqn if used with a parameter."},
		{"format", cmdFormat, "show format, or set format if used with a parameter."},
		{"tracks", cmdTracks, "show number of tracks."},
		{"track", cmdTrack, "show currently selected track, or select a track."},
		{"trackadd", cmdTrackAdd, "add a track and select it."},
		{"trackrm", cmdTrackRm, "remove currently selected track."},
		{"events", cmdEvents, "show events in the currently selected track."},
		{"event", cmdEvent, "show currently selected event, or select an event."},
		{"eventadd", cmdEventAdd, "add an event (delta time, then hex bytes) and select it."},
		{"eventaddeot", cmdEventAddEOT, "add an End Of Track event."},
		{"eot", cmdEventAddEOT, ""},
		{"eventrm", cmdEventRm, "remove currently selected event."},
		{"tempo", cmdTempo, "show the tempo/time signature in effect at the end of the song."},
		{"exit", nil, "exit to shell."},
		{"quit", nil, ""},
		{"bye", nil, ""},
	}
}

func executeCommand(line string) error {
	fields := strings.SplitN(line, " ", 2)
	name := fields[0]
	arg := ""
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}
	if name == "exit" || name == "quit" || name == "bye" {
		os.Exit(0)
	}
	for _, c := range commands {
		if c.name == name {
			return c.fn(arg)
		}
	}
	return fmt.Errorf("no such command: %q; type 'help' to see available commands", name)
}

func run() int {
	if len(os.Args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: smfsh [file]")
		return 1
	}

	song = smf.New()
	song.SetLogSink(func(level smf.LogLevel, message string) {
		if level == smf.LogDebug {
			return
		}
		fmt.Fprintf(os.Stderr, "smfsh: %s: %s\n", level, message)
	})

	if len(os.Args) == 2 {
		lastFileName = os.Args[1]
		if e := cmdLoad(lastFileName); e != nil {
			fmt.Fprintf(os.Stderr, "%s\n", e)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("smfsh> ")
		if !scanner.Scan() {
			fmt.Println("exit")
			return 0
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if e := executeCommand(line); e != nil {
			fmt.Fprintf(os.Stderr, "command finished with error: %s\n", e)
		}
	}
}

func main() {
	os.Exit(run())
}
