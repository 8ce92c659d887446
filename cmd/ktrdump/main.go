// Command ktrdump decodes kernel trace files and prints one line per record.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/ktrdump/internal/logging"
	"github.com/danmuck/ktrdump/internal/observability"
	"github.com/danmuck/ktrdump/internal/protocol/sequence"
	"github.com/danmuck/ktrdump/internal/render"
	"github.com/danmuck/ktrdump/internal/tracefile"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/multierr"
)

func main() {
	logging.ConfigureRuntime()
	os.Exit(run(os.Args[1:], tracefile.OsOpener(), os.Stdout, os.Stderr))
}

// run is main without the process exit so tests can drive it.
func run(args []string, opener *tracefile.Opener, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ktrdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional TOML config (see configgen -kind ktrdump)")
	layout := fs.String("layout", "", "header layout: auto|legacy|current")
	unknown := fs.String("unknown", "", "unknown record types: abort|skip")
	byteOrder := fs.String("byte-order", "", "producer byte order: native|little|big")
	summary := fs.Bool("summary", false, "print per-input record and byte counts to stderr")
	metrics := fs.Bool("metrics", false, "print decode counters to stderr after decoding")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: ktrdump [flags] [file|glob|- ...]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := defaultRunConfig()
	if *configPath != "" {
		loaded, err := loadRunConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "ktrdump: %v\n", err)
			return 2
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "layout":
			cfg.Decoder.Layout = *layout
		case "unknown":
			cfg.Decoder.OnUnknownType = *unknown
		case "byte-order":
			cfg.Decoder.ByteOrder = *byteOrder
		case "summary":
			cfg.Summary = *summary
		case "metrics":
			cfg.Metrics = *metrics
		}
	})

	logger := observability.InitLogger("ktrdump", stderr)
	opts, err := cfg.Decoder.Options(logger, observability.NewDecodeObserver())
	if err != nil {
		fmt.Fprintf(stderr, "ktrdump: %v\n", err)
		return 2
	}

	names, err := opener.Expand(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "ktrdump: %v\n", err)
		return 2
	}

	out := bufio.NewWriter(stdout)
	var errs error
	for _, name := range names {
		err := dumpInput(opener, name, opts, out, stderr, cfg.Summary)
		if err != nil {
			fmt.Fprintf(stderr, "ktrdump: %v\n", err)
		}
		errs = multierr.Append(errs, err)
	}
	errs = multierr.Append(errs, out.Flush())

	if cfg.Metrics {
		errs = multierr.Append(errs, writeMetrics(stderr, prometheus.DefaultGatherer))
	}
	if errs != nil {
		logger.Debug().Int("failures", len(multierr.Errors(errs))).Msg("ktrdump finished with errors")
		return 1
	}
	return 0
}

func dumpInput(opener *tracefile.Opener, name string, opts sequence.Options, out *bufio.Writer, stderr io.Writer, summary bool) (err error) {
	in, err := opener.Open(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	opts.Logger = opts.Logger.With().Str("input", in.Name).Logger()
	seq, err := sequence.New(in, opts)
	if err != nil {
		return err
	}
	for rec, decodeErr := range seq.Records() {
		if decodeErr != nil {
			// Records before the failure are already written; keep them.
			err = fmt.Errorf("%s: %w", in.Name, decodeErr)
			break
		}
		if _, werr := fmt.Fprintln(out, render.Line(rec)); werr != nil {
			return werr
		}
	}
	if summary {
		fmt.Fprintln(stderr, summarize(in, seq.Stats()))
	}
	return err
}

func summarize(in *tracefile.Input, st sequence.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s records, %s decoded", in.Name, humanize.Comma(int64(st.Records)), humanize.Bytes(uint64(st.Bytes)))
	if st.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", st.Skipped)
	}
	if in.Size >= 0 {
		fmt.Fprintf(&b, " of %s", humanize.Bytes(uint64(in.Size)))
	}
	return b.String()
}

// writeMetrics prints the ktrdump counters in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "ktrdump_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
