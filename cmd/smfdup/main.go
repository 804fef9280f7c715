// smfdup reads a Standard MIDI File and writes it back out unchanged,
// exercising a full load/save round trip.
package main

import (
	"fmt"
	"os"

	"github.com/stump/libsmf"
)

func run() int {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: smfdup source_file target_file")
		return 1
	}

	in, e := os.Open(os.Args[1])
	if e != nil {
		fmt.Fprintf(os.Stderr, "cannot load SMF file: %s\n", e)
		return 1
	}
	song, e := smf.Load(in)
	in.Close()
	if e != nil {
		fmt.Fprintf(os.Stderr, "cannot load SMF file: %s\n", e)
		return 1
	}

	out, e := os.Create(os.Args[2])
	if e != nil {
		fmt.Fprintf(os.Stderr, "cannot save SMF file: %s\n", e)
		return 2
	}
	defer out.Close()
	if e := smf.Save(song, out); e != nil {
		fmt.Fprintf(os.Stderr, "cannot save SMF file: %s\n", e)
		return 2
	}

	return 0
}

func main() {
	os.Exit(run())
}
