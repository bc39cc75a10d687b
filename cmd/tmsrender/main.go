// Command tmsrender decodes a packed TMS5220 LPC bitstream file and
// writes the rendered speech as raw signed 16-bit little-endian PCM.
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vossloop/tms5220"
)

// CLI defines tmsrender's command-line interface.
type CLI struct {
	Input      string `arg:"" name:"input" help:"Packed LPC bitstream file" type:"existingfile"`
	Output     string `arg:"" name:"output" help:"Destination raw PCM file (signed 16-bit LE, 8kHz mono)"`
	MaxSeconds int    `help:"Safety cap on rendered audio, in seconds" default:"30"`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("tmsrender"),
		kong.Description("Render a TMS5220 LPC bitstream to raw PCM"),
		kong.UsageOnError(),
	)

	if err := run(cli); err != nil {
		fmt.Fprintln(os.Stderr, "tmsrender:", err)
		os.Exit(1)
	}
}

func run(cli *CLI) error {
	data, err := os.ReadFile(cli.Input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	engine := tms5220.NewEngine()
	maxSamples := cli.MaxSeconds * tms5220.SampleRate
	samples, err := engine.Render(data, maxSamples)
	if err != nil {
		// A malformed bitstream or a hit safety cap still yields usable
		// audio; report the condition but keep writing what we have.
		fmt.Fprintln(os.Stderr, "tmsrender: warning:", err)
	}

	out, err := os.Create(cli.Output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	if err := binary.Write(out, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}

	fmt.Fprintf(os.Stderr, "tmsrender: wrote %d samples (%.2fs)\n",
		len(samples), float64(len(samples))/float64(tms5220.SampleRate))
	return nil
}
