package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Program identity.
const (
	progName    = "manageAssesmentRbHeatmap"
	progVersion = "0.3.5"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// msgAssessDirNotFound is printed verbatim when the input directory is missing.
const msgAssessDirNotFound = "Assess directory not found."

func main() {
	_ = godotenv.Load()
	log := newLogger()
	os.Exit(run(context.Background(), log, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, log *logger, args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	switch {
	case errors.Is(err, flag.ErrHelp):
		printUsage(stdout)
		return exitOK
	case err != nil:
		printUsage(stderr)
		_, _ = fmt.Fprintf(stderr, "%s: error: %v\n", progName, err)
		return exitUsage
	}

	if opts.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s %s\n", progName, progVersion)
		return exitOK
	}

	if _, err := os.Stat(opts.AssessDir); err != nil {
		_, _ = fmt.Fprintln(stdout, msgAssessDirNotFound)
		return exitError
	}

	log = log.with("event_id", opts.EventID).with("participant_id", opts.ParticipantID)
	if err := generate(ctx, log, opts); err != nil {
		log.err(err.Error())
		return exitError
	}
	return exitOK
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "manageAssesmentRbHeatmap: render a participant matrix as an SVG heatmap")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  manageAssesmentRbHeatmap [--assess_dir|-a {newick,nexus}] [--output|-o PATH]")
	_, _ = fmt.Fprintln(w, "                           [--event_id|-e ID] [--participant_id|-p ID]")
	_, _ = fmt.Fprintln(w, "                           [--annotate] [--version|-v]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Options:")
	_, _ = fmt.Fprintln(w, "  --assess_dir, -a      Input directory holding participant_matrix.json (default: newick)")
	_, _ = fmt.Fprintln(w, "  --output, -o          Path to result folder (default: benchmark_result)")
	_, _ = fmt.Fprintln(w, "  --event_id, -e        OpenEBench event identifier (default: default)")
	_, _ = fmt.Fprintln(w, "  --participant_id, -p  OpenEBench participant identifier (default: default)")
	_, _ = fmt.Fprintln(w, "  --annotate            Print cell values inside the heatmap")
	_, _ = fmt.Fprintln(w, "  --version, -v         Print version and exit")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Environment:")
	_, _ = fmt.Fprintln(w, "  NO_COLOR           Disable colored output")
	_, _ = fmt.Fprintln(w, "  HEATMAP_LOG_LEVEL  debug, info, warn or error (default: info)")
}

// generate runs load -> render -> save for opts.
func generate(ctx context.Context, log *logger, opts options) error {
	start := time.Now()
	log.debugf("options: assess_dir=%s output=%s annotate=%v", opts.AssessDir, opts.Output, opts.Annotate)

	outPath, err := outputPath(opts.Output)
	if err != nil {
		return err
	}

	m, err := loadMatrix(opts.AssessDir)
	if err != nil {
		return err
	}
	log.infof("loaded participant matrix: participants=%d", m.size())
	if lo, hi := m.valueRange(); lo == hi {
		log.warnf("all matrix values equal %g, heatmap will be uniform", lo)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := defaultRenderConfig()
	cfg.Annotate = opts.Annotate
	p, err := renderHeatmap(m, cfg)
	if err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	if err := writeHeatmap(outPath, p, cfg); err != nil {
		return err
	}

	log.okf("heatmap written: %s (elapsed %s)", outPath, time.Since(start).Round(time.Millisecond))
	return nil
}
