package unify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"

	"unifier/internal/catalog"
	"unifier/internal/logger"
	"unifier/internal/metrics"
	"unifier/internal/normalize"
	"unifier/internal/record"
	"unifier/internal/schema"
	"unifier/internal/sink"
	"unifier/internal/source"
)

// OutputSuffix is the extension of the written file.
const OutputSuffix = "csv"

var dump = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

// dumped renders a record when a log line is actually written, so
// filtered debug lines cost nothing.
type dumped record.Record

func (d dumped) String() string {
	return dump.Sdump(record.Record(d))
}

// Unifier writes the records of many inputs as one canonical CSV file.
type Unifier struct {
	pipeline *normalize.Pipeline
	schema   *schema.Schema
	policy   Policy
	output   string
	metrics  *metrics.Metrics
}

type Option func(*Unifier)

// WithPolicy sets the record failure policy. The default is PolicyAbort.
func WithPolicy(p Policy) Option {
	return func(u *Unifier) {
		u.policy = p
	}
}

// WithOutput sets the requested output name. Its extension is replaced
// with .csv; an empty name picks a random one.
func WithOutput(name string) Option {
	return func(u *Unifier) {
		u.output = name
	}
}

// WithMetrics counts the run on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(u *Unifier) {
		u.metrics = m
	}
}

// New returns a unifier for the target schema.
func New(p *normalize.Pipeline, target string, opts ...Option) (*Unifier, error) {
	s, ok := p.Schemas().Lookup(target)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrTarget, target, p.Schemas().Names())
	}

	u := &Unifier{pipeline: p, schema: s, policy: PolicyAbort}
	for _, opt := range opts {
		opt(u)
	}

	if _, err := ParsePolicy(string(u.policy)); err != nil {
		return nil, err
	}

	u.output = sink.OutputFilename(u.output, OutputSuffix)

	return u, nil
}

// Output returns the path Unify writes to.
func (u *Unifier) Output() string {
	return u.output
}

// Unify checks files, then writes their records to the output file. On
// error nothing is written and the report covers the work done so far.
func (u *Unifier) Unify(ctx context.Context, files ...string) (Report, error) {
	log := logger.FromContext(ctx)

	if err := Check(files...); err != nil {
		return Report{}, err
	}

	out, err := sink.CreateFile(u.output, u.schema)
	if err != nil {
		return Report{}, err
	}

	report, err := u.Write(ctx, out.CSV, files...)
	if err != nil {
		out.Discard()
		return report, err
	}

	if err := out.Commit(); err != nil {
		return report, err
	}

	report.Output = out.Path()
	log.Info("Output written", "path", report.Output, "records", report.Rows, "skipped", report.Skipped())

	return report, nil
}

// Write normalizes files into w and flushes it. Files are not checked
// up front; use Check first when partial output matters.
func (u *Unifier) Write(ctx context.Context, w *sink.CSV, files ...string) (Report, error) {
	start := time.Now()
	defer func() { u.metrics.ObserveRun(time.Since(start)) }()

	report := Report{Providers: map[string]int{}}
	log := logger.FromContext(ctx)

	for _, p := range u.pipeline.Catalog().Providers() {
		if !p.Supports(u.schema.Name()) {
			log.Warn("Provider cannot produce the target; its records stop the run",
				"provider", p.Name(), "target", u.schema.Name())
		}
	}

	if len(files) == 0 {
		log.Warn("No input files, writing header only")
	}

	for _, path := range files {
		fr, err := u.file(ctx, w, path, &report)
		report.Files = append(report.Files, fr)

		if err != nil {
			return report, err
		}

		u.metrics.FileProcessed()
	}

	if err := w.Flush(); err != nil {
		return report, fmt.Errorf("flush output: %w", err)
	}

	report.Rows = w.Rows()

	return report, nil
}

func (u *Unifier) file(ctx context.Context, w *sink.CSV, path string, report *Report) (FileReport, error) {
	fr := FileReport{Path: path}

	src, err := source.Open(path)
	if err != nil {
		return fr, err
	}
	defer src.Close()

	fr.Format = src.Format()

	log := logger.FromContext(ctx).With("file", path)
	log.Info("Processing file", "format", fr.Format)

	stream := u.pipeline.Stream(u.schema.Name())

	for rec, err := range src.Records() {
		if err != nil {
			return fr, fmt.Errorf("read %s: %w", path, err)
		}

		if err := ctx.Err(); err != nil {
			return fr, fmt.Errorf("unify %s: %w", path, err)
		}

		fr.Read++
		u.metrics.RecordRead()

		res, err := stream.Normalize(rec)
		if err != nil {
			rerr := &RecordError{File: path, Format: fr.Format, Pos: src.Pos(), Err: err}
			if err := u.reject(log, rec, rerr, report); err != nil {
				return fr, err
			}

			fr.Skipped++

			continue
		}

		if err := w.Emit(res.Record); err != nil {
			return fr, fmt.Errorf("%s: %s: %w", path, location(fr.Format, src.Pos()), err)
		}

		fr.Emitted++
		report.Providers[res.Provider.Name()]++
		u.metrics.RecordEmitted(res.Provider.Name())
	}

	log.Info("File done", "read", fr.Read, "emitted", fr.Emitted, "skipped", fr.Skipped)

	return fr, nil
}

// reject handles a failed record. It returns the error when the run must
// stop and records a diagnostic otherwise.
func (u *Unifier) reject(log logger.Logger, rec record.Record, rerr *RecordError, report *Report) error {
	kind := normalize.KindOf(rerr.Err)
	u.metrics.RecordRejected(kind.String())

	log.Debug("Rejected record", "at", rerr.Location(), "kind", kind, "record", dumped(rec))

	if u.policy == PolicyAbort || normalize.IsFatal(rerr.Err) {
		return rerr
	}

	var (
		hints []string
		ierr  *catalog.IdentificationError
	)

	if errors.As(rerr.Err, &ierr) {
		hints = ierr.Hints()
	}

	report.Diagnostics.AddWarning(kind.String(), rerr.Err.Error(), rerr.File, rerr.Location(), hints...)
	log.Warn("Skipped record", "at", rerr.Location(), "kind", kind, "error", rerr.Err)

	return nil
}

// Check verifies that every path names an existing regular file of a
// supported type.
func Check(files ...string) error {
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("input %s: %w", path, err)
		}

		if !info.Mode().IsRegular() {
			return fmt.Errorf("input %s: %w", path, ErrNotRegular)
		}

		if _, _, err := source.Detect(path); err != nil {
			return fmt.Errorf("input %s: %w", path, err)
		}
	}

	return nil
}
