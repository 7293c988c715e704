package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/plot/vg"
)

// Default option values.
const (
	defaultAssessDir = "newick"
	defaultOutput    = "benchmark_result"
	defaultID        = "default"
)

// assessFormats lists the accepted --assess_dir values.
var assessFormats = []string{"newick", "nexus"}

// options holds the resolved command line.
type options struct {
	AssessDir     string
	Output        string
	EventID       string
	ParticipantID string
	Annotate      bool
	ShowVersion   bool
}

func defaultOptions() options {
	return options{
		AssessDir:     defaultAssessDir,
		Output:        defaultOutput,
		EventID:       defaultID,
		ParticipantID: defaultID,
	}
}

// choiceValue is a flag.Value restricted to a fixed set of strings.
type choiceValue struct {
	value   *string
	choices []string
}

func (c *choiceValue) String() string {
	if c == nil || c.value == nil {
		return ""
	}
	return *c.value
}

func (c *choiceValue) Set(s string) error {
	if !slices.Contains(c.choices, s) {
		return fmt.Errorf("invalid choice: %q (choose from %s)", s, strings.Join(c.choices, ", "))
	}
	*c.value = s
	return nil
}

// parseOptions resolves args into options. It returns flag.ErrHelp when
// -h/--help was requested.
func parseOptions(args []string) (options, error) {
	opts := defaultOptions()

	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	assess := &choiceValue{value: &opts.AssessDir, choices: assessFormats}
	fs.Var(assess, "assess_dir", "tree file format [newick,nexus]")
	fs.Var(assess, "a", "shorthand for --assess_dir")
	fs.StringVar(&opts.Output, "output", opts.Output, "path to result folder")
	fs.StringVar(&opts.Output, "o", opts.Output, "shorthand for --output")
	fs.StringVar(&opts.EventID, "event_id", opts.EventID, "OpenEBench event identifier")
	fs.StringVar(&opts.EventID, "e", opts.EventID, "shorthand for --event_id")
	fs.StringVar(&opts.ParticipantID, "participant_id", opts.ParticipantID, "OpenEBench participant identifier")
	fs.StringVar(&opts.ParticipantID, "p", opts.ParticipantID, "shorthand for --participant_id")
	fs.BoolVar(&opts.Annotate, "annotate", false, "print cell values inside the heatmap")
	fs.BoolVar(&opts.ShowVersion, "version", false, "print version and exit")
	fs.BoolVar(&opts.ShowVersion, "v", false, "shorthand for --version")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unrecognized arguments: %s", strings.Join(fs.Args(), " "))
	}
	if strings.TrimSpace(opts.Output) == "" {
		return options{}, errors.New("--output must not be empty")
	}
	return opts, nil
}

// renderConfig carries every knob the renderer reads. Nothing in the
// plotting path depends on process-wide state.
type renderConfig struct {
	Title         string
	Width         vg.Length
	Height        vg.Length
	LabelRotation float64 // radians, counter-clockwise
	Colors        int
	Annotate      bool
}

func defaultRenderConfig() renderConfig {
	return renderConfig{
		Title:         "Heat map for participants",
		Width:         18.5 * vg.Inch,
		Height:        10.5 * vg.Inch,
		LabelRotation: math.Pi / 4,
		Colors:        256,
	}
}
