/*
Package vaire is a content aware video resize library, which reduces the width
of a video by carving out the least important vertical seams of every frame.
The seams of consecutive frames are coupled through a temporal bias, so the
carved output stays free of flicker, and a histogram based shot detector
resets the coupling across scene cuts.

The package provides a command line interface, supporting various flags for
the carving operation. To check the supported commands type:

	$ vaire --help

In case you wish to integrate the API in a self constructed environment here
is a simple example:

	package main

	import (
		"log"
		"os"

		"github.com/esimov/vaire"
		"github.com/esimov/vaire/y4m"
	)

	func main() {
		in, _ := os.Open("input.y4m")
		dec, err := y4m.NewReader(in)
		if err != nil {
			log.Fatal(err)
		}

		p := &vaire.Processor{
			Pixels:    100,
			Threshold: 0.3,
		}

		meta := dec.Metadata()
		meta.Width -= p.Pixels

		out, _ := os.Create("output.y4m")
		enc, err := y4m.NewWriter(out, meta)
		if err != nil {
			log.Fatal(err)
		}

		if err := p.Process(dec, enc); err != nil {
			log.Fatalf("error carving the video: %s", err.Error())
		}
		enc.Close()
	}
*/
package vaire
