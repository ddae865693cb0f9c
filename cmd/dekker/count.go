// count.go implements the 'dekker count' command.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kolkov/dekker/dekker"
	"github.com/kolkov/dekker/internal/race/detector"
	"github.com/kolkov/dekker/internal/race/epoch"
)

// auditEnv turns on -audit by default when set to "1".
const auditEnv = "DEKKER_AUDIT"

// maxAuditIterations is the largest -n the detector can audit. Each
// participant's clock starts at 1 and advances on every release, including
// the teardown one, and must stay within an epoch's clock bits.
const maxAuditIterations = epoch.ClockMask - 2

// countConfig holds the parsed flags of the count command.
type countConfig struct {
	iterations int  // Increments per participant in each run.
	runs       int  // Number of independent runs.
	audit      bool // Attach a detector to every run.
	yield      bool // Yield while spinning.
}

// LostUpdateError reports a run whose final counter differs from the
// number of increments performed.
type LostUpdateError struct {
	Run  int
	Want int
	Got  int
}

func (e *LostUpdateError) Error() string {
	return fmt.Sprintf("run %d: counter is %d, want %d (%d updates lost)", e.Run, e.Got, e.Want, e.Want-e.Got)
}

// errViolations is returned when the detector reported violations.
var errViolations = errors.New("audit detected violations")

// countCommand implements the 'dekker count' command.
//
// Example:
//
//	dekker count -n 100000 -runs 10 -audit
func countCommand(args []string) {
	config, err := parseCountArgs(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runCount(config, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseCountArgs parses the count flags. Usage and flag errors go to
// output.
func parseCountArgs(args []string, output io.Writer) (*countConfig, error) {
	config := &countConfig{}

	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&config.iterations, "n", 1000, "increments per participant")
	fs.IntVar(&config.runs, "runs", 1, "number of runs")
	fs.BoolVar(&config.audit, "audit", os.Getenv(auditEnv) == "1",
		fmt.Sprintf("check every run with the detector, at most %d increments (default from %s)",
			maxAuditIterations, auditEnv))
	fs.BoolVar(&config.yield, "yield", false, "yield the processor while spinning")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if config.iterations < 0 {
		return nil, fmt.Errorf("invalid -n %d: must not be negative", config.iterations)
	}
	if config.audit && config.iterations > maxAuditIterations {
		return nil, fmt.Errorf("invalid -n %d with -audit: must be at most %d", config.iterations, maxAuditIterations)
	}
	if config.runs < 1 {
		return nil, fmt.Errorf("invalid -runs %d: must be at least 1", config.runs)
	}

	return config, nil
}

// runCount performs config.runs runs, printing one line per run to stdout.
// Detector reports go to stderr.
func runCount(config *countConfig, stdout, stderr io.Writer) error {
	var total time.Duration

	for run := 1; run <= config.runs; run++ {
		var d *detector.Detector
		if config.audit {
			d = detector.NewDetector()
			d.SetOutput(stderr)
		}

		start := time.Now()
		got, err := countOnce(config, d)
		elapsed := time.Since(start)
		total += elapsed
		if err != nil {
			return fmt.Errorf("run %d: %w", run, err)
		}

		want := 2 * config.iterations
		fmt.Fprintf(stdout, "run %d: counter=%d elapsed=%v\n", run, got, elapsed)

		if d != nil && d.Violations() > 0 {
			d.Summary(stderr)
			return fmt.Errorf("run %d: %w (%d)", run, errViolations, d.Violations())
		}
		if got != want {
			return &LostUpdateError{Run: run, Want: want, Got: got}
		}
	}

	fmt.Fprintf(stdout, "ok: %d run(s), %d increments per participant, total %v\n",
		config.runs, config.iterations, total)
	return nil
}

// countOnce runs both participants on one lock and returns the final
// counter, as seen by the finalizer when the lock is destroyed.
func countOnce(config *countConfig, d *detector.Detector) (int, error) {
	final := -1
	opts := []dekker.Option[int]{
		dekker.WithFinalizer(func(n int) { final = n }),
	}
	if d != nil {
		opts = append(opts, dekker.WithObserver[int](d))
	}
	if config.yield {
		opts = append(opts, dekker.WithYield[int]())
	}

	first, second := dekker.New(0, opts...)

	var g errgroup.Group
	g.Go(func() error { return participate(first, config.iterations) })
	g.Go(func() error { return participate(second, config.iterations) })
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if final < 0 {
		return 0, errors.New("lock was not destroyed after both handles closed")
	}
	return final, nil
}

// participate increments the counter n times through p, then closes p.
//
// The counter only grows, so a participant that sees it shrink has
// observed a torn critical section.
func participate(p *dekker.Process[int], n int) error {
	defer p.Close()

	last := 0
	for i := 0; i < n; i++ {
		var seen int
		p.Do(func(v *int) {
			seen = *v
			*v++
		})
		if seen < last {
			return fmt.Errorf("%s saw the counter go back from %d to %d", p.ID(), last, seen)
		}
		last = seen + 1
	}
	return nil
}
