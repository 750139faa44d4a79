// Package main is the fakevar command line tool.
package main

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-fakevar/fakevar"
)

const (
	// Flags.
	flagConfig        = "config"
	flagDebug         = "debug"
	flagLoci          = "loci"
	flagSamples       = "samples"
	flagDepth         = "depth"
	flagAlphabet      = "alphabet"
	flagErrorRate     = "error-rate"
	flagQualityLow    = "quality-low"
	flagQualityHigh   = "quality-high"
	flagSeed          = "seed"
	flagOut           = "out"
	flagPrint         = "print"
	flagMaxBufferSize = "max-buffer-size"
	flagMetricsFile   = "metrics-textfile"
	flagPerLocus      = "per-locus"
	flagChecksum      = "checksum"

	defaultOut = "file.bin"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fakevar: %v\n", err)
		os.Exit(1)
	}
}

// runner carries state shared by subcommands.
type runner struct {
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *fakevar.Metrics
}

func newApp(stdout, stderr io.Writer) *cli.App {
	r := &runner{}

	dimFlags := []cli.Flag{
		&cli.Uint64Flag{Name: flagLoci, Aliases: []string{"l"}, Usage: "number of loci"},
		&cli.Uint64Flag{Name: flagSamples, Aliases: []string{"s"}, Usage: "samples per locus"},
		&cli.Uint64Flag{Name: flagDepth, Aliases: []string{"d"}, Usage: "base calls per sample"},
	}
	contentFlags := []cli.Flag{
		&cli.StringFlag{Name: flagAlphabet, Usage: "base symbols, one byte each"},
		&cli.Float64Flag{Name: flagErrorRate, Usage: "probability a call is drawn from the whole alphabet"},
		&cli.UintFlag{Name: flagQualityLow, Usage: "lowest quality byte"},
		&cli.UintFlag{Name: flagQualityHigh, Usage: "highest quality byte"},
	}

	return &cli.App{
		Name:      "fakevar",
		Usage:     "generate and inspect synthetic variant call buffers",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load dataset parameters from JSON5 `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			r.logger = newLogger(c.Bool(flagDebug), stderr)
			r.registry = prometheus.NewRegistry()
			r.metrics = fakevar.NewMetrics(r.registry)
			return nil
		},
		After: func(c *cli.Context) error {
			if r.logger == nil {
				return nil
			}
			// Syncing a terminal stderr fails on some platforms.
			_ = r.logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "encode a dataset and write it to a file",
				Flags: append(append(append([]cli.Flag{}, dimFlags...), contentFlags...),
					&cli.Uint64Flag{Name: flagSeed, Usage: "random seed; chosen at random when unset"},
					&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Value: defaultOut, Usage: "output `FILE`"},
					&cli.BoolFlag{Name: flagPrint, Value: true, Usage: "print the decoded view to stdout"},
					&cli.Uint64Flag{Name: flagMaxBufferSize, Usage: "refuse datasets larger than this many bytes"},
					&cli.StringFlag{Name: flagMetricsFile, Usage: "write metrics in node-exporter textfile format to `FILE`"},
				),
				Action: r.generate,
			},
			{
				Name:      "inspect",
				Usage:     "print the decoded view of a dataset file",
				ArgsUsage: "FILE",
				Flags:     dimFlags,
				Action:    r.inspect,
			},
			{
				Name:      "summary",
				Usage:     "tabulate base call statistics of a dataset file",
				ArgsUsage: "FILE",
				Flags: append(append([]cli.Flag{}, dimFlags...),
					&cli.BoolFlag{Name: flagPerLocus, Usage: "add a row per locus"},
				),
				Action: r.summary,
			},
			{
				Name:      "validate",
				Usage:     "check every record of a dataset file against its parameters",
				ArgsUsage: "FILE",
				Flags: append(append(append([]cli.Flag{}, dimFlags...), contentFlags...),
					&cli.Uint64Flag{Name: flagChecksum, Usage: "expected lookup3 checksum, as logged by generate"},
				),
				Action: r.validate,
			},
		},
	}
}

// newLogger writes console-encoded logs to w. Debug mode adds debug level
// and the development encoder.
func newLogger(debug bool, w io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	level := zapcore.InfoLevel
	if debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}

// config resolves dataset parameters: defaults, then the --config file,
// then any flag set on the command line.
func config(c *cli.Context) (fakevar.Config, error) {
	cfg := fakevar.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		loaded, err := fakevar.LoadConfig(path)
		if err != nil {
			return fakevar.Config{}, err
		}
		cfg = loaded
	}

	if c.IsSet(flagLoci) {
		cfg.NumLoci = c.Uint64(flagLoci)
	}
	if c.IsSet(flagSamples) {
		cfg.NumSamples = c.Uint64(flagSamples)
	}
	if c.IsSet(flagDepth) {
		cfg.Depth = c.Uint64(flagDepth)
	}
	if c.IsSet(flagAlphabet) {
		cfg.Alphabet = c.String(flagAlphabet)
	}
	if c.IsSet(flagErrorRate) {
		cfg.ErrorRate = c.Float64(flagErrorRate)
	}
	for _, q := range []struct {
		flag string
		dst  *byte
	}{
		{flagQualityLow, &cfg.QualityLow},
		{flagQualityHigh, &cfg.QualityHigh},
	} {
		if !c.IsSet(q.flag) {
			continue
		}
		v := c.Uint(q.flag)
		if v > 0xff {
			return fakevar.Config{}, errors.Wrapf(fakevar.ErrInvalidParameter, "--%s %d is not a byte", q.flag, v)
		}
		*q.dst = byte(v)
	}
	if c.IsSet(flagSeed) {
		cfg = cfg.WithSeed(c.Uint64(flagSeed))
	}
	return cfg, nil
}

func (r *runner) decoder() *fakevar.Decoder {
	return fakevar.NewDecoder(fakevar.WithLogger(r.logger), fakevar.WithMetrics(r.metrics))
}

// readArg loads the dataset file named by the first argument.
func readArg(c *cli.Context, cfg fakevar.Config) ([]byte, error) {
	if c.NArg() != 1 {
		return nil, errors.Errorf("%s takes exactly one FILE argument", c.Command.Name)
	}
	return fakevar.ReadFile(c.Args().First(), cfg.Dims())
}

func (r *runner) generate(c *cli.Context) error {
	cfg, err := config(c)
	if err != nil {
		return err
	}

	opts := []fakevar.Option{fakevar.WithLogger(r.logger), fakevar.WithMetrics(r.metrics)}
	if c.IsSet(flagMaxBufferSize) {
		opts = append(opts, fakevar.WithMaxBufferSize(c.Uint64(flagMaxBufferSize)))
	}
	ds, err := fakevar.Encode(cfg, opts...)
	if err != nil {
		return err
	}

	// The buffer is read-only from here on, so the file sink and the
	// printer can share it.
	out := c.String(flagOut)
	var view bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		return fakevar.WriteFile(out, ds)
	})
	if c.Bool(flagPrint) {
		g.Go(func() error {
			return r.decoder().Render(&view, ds.Bytes(), ds.Dims())
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if _, err := view.WriteTo(c.App.Writer); err != nil {
		return errors.Wrap(err, "printing dataset")
	}

	seed, _ := ds.Seed()
	r.logger.Info("wrote dataset",
		zap.String("path", out),
		zap.Stringer("run", ds.ID()),
		zap.Uint64("seed", seed),
		zap.Int("bytes", ds.Len()),
		zap.Uint32("checksum", ds.Checksum()),
	)

	if path := c.String(flagMetricsFile); path != "" {
		if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}

func (r *runner) inspect(c *cli.Context) error {
	cfg, err := config(c)
	if err != nil {
		return err
	}
	data, err := readArg(c, cfg)
	if err != nil {
		return err
	}
	return r.decoder().Render(c.App.Writer, data, cfg.Dims())
}

func (r *runner) summary(c *cli.Context) error {
	cfg, err := config(c)
	if err != nil {
		return err
	}
	data, err := readArg(c, cfg)
	if err != nil {
		return err
	}
	sum, err := r.decoder().Summarize(data, cfg.Dims())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, summaryTable(sum, c.Bool(flagPerLocus)))
	return errors.Wrap(err, "printing summary")
}

// summaryTable renders totals, optionally per locus, followed by the base
// composition.
func summaryTable(sum *fakevar.Summary, perLocus bool) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Locus", "Alleles", "Base calls", "Mismatches", "Mismatch rate", "Het samples", "Mean quality"})
	if perLocus {
		for _, l := range sum.Loci {
			t.AppendRow(table.Row{
				l.Index,
				fakevar.Symbol(l.Alleles[0])+"/"+fakevar.Symbol(l.Alleles[1]),
				l.BaseCalls,
				l.Mismatches,
				fmt.Sprintf("%.4f", l.MismatchRate()),
				l.Heterozygous,
				fmt.Sprintf("%.2f", l.MeanQuality()),
			})
		}
		t.AppendSeparator()
	}
	t.AppendFooter(table.Row{
		"all",
		sum.Dims.String(),
		sum.BaseCalls,
		sum.Mismatches,
		fmt.Sprintf("%.4f", sum.MismatchRate()),
		sum.Heterozygous,
		fmt.Sprintf("%.2f", sum.MeanQuality()),
	})

	symbols := make([]byte, 0, len(sum.Composition))
	for b := range sum.Composition {
		symbols = append(symbols, b)
	}
	slices.Sort(symbols)

	comp := table.NewWriter()
	comp.AppendHeader(table.Row{"Symbol", "Calls", "Fraction"})
	for _, b := range symbols {
		n := sum.Composition[b]
		comp.AppendRow(table.Row{fakevar.Symbol(b), n, fmt.Sprintf("%.4f", float64(n)/float64(sum.BaseCalls))})
	}
	return t.Render() + "\n" + comp.Render()
}

func (r *runner) validate(c *cli.Context) error {
	cfg, err := config(c)
	if err != nil {
		return err
	}
	data, err := readArg(c, cfg)
	if err != nil {
		return err
	}

	if c.IsSet(flagChecksum) {
		want := c.Uint64(flagChecksum)
		if want > math.MaxUint32 {
			return errors.Wrapf(fakevar.ErrInvalidParameter, "--%s %d is not a 32-bit checksum", flagChecksum, want)
		}
		if err := fakevar.VerifyChecksum(data, uint32(want)); err != nil {
			return err
		}
	}

	err = r.decoder().Validate(data, cfg)
	if err == nil {
		_, err = fmt.Fprintf(c.App.Writer, "ok: %s, %d bytes\n", cfg.Dims(), len(data))
		return errors.Wrap(err, "printing result")
	}
	if !errors.Is(err, fakevar.ErrInvalidRecord) {
		return err
	}

	violations := multierr.Errors(err)
	for _, v := range violations {
		fmt.Fprintln(c.App.Writer, v)
	}
	return errors.Errorf("%s: %d violations reported", c.Args().First(), len(violations))
}
