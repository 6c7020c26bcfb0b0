package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ftrotter/endpoint-test/internal/registry"
	"github.com/ftrotter/endpoint-test/internal/validate"
)

// Session is one run's transient state. It is rebuilt from the output
// file's contents at the start of every run and discarded at exit;
// durability lives only in the output file itself.
type Session struct {
	// PriorRows is the count of data rows found in the output at start.
	PriorRows int

	// Resuming is true when the run appends to existing output.
	Resuming bool

	// TotalRows is the count of rows ever durably represented in the
	// output: PriorRows plus the rows written so far this run.
	TotalRows int

	// SessionRows is the count of rows written by this run.
	SessionRows int
}

// NextRow is the 1-based data row at which the next run resumes.
func (s *Session) NextRow() int {
	return s.TotalRows + 1
}

// How a run ended.
type disposition int

const (
	dispComplete disposition = iota
	dispInterrupted
	dispAborted
)

// Controller drives the record loop: read, dispatch, transform, write,
// periodically flush. One run is strictly sequential; the only
// cancellation honored is the context, checked between records and never
// mid-record.
type Controller struct {
	Dispatcher    *validate.Dispatcher
	FlushInterval int
	Log           *slog.Logger
}

// Run processes the input file into the output file. If the output
// already holds data rows the run appends, skipping that many input rows
// first; otherwise it truncates and writes a fresh header.
//
// Cancellation through ctx is a clean stop, not an error. Any other
// failure mid-record aborts the run after a best-effort flush; rows
// written before the failure stay durable, and the returned session
// still carries the counts so the caller can report them.
func (c *Controller) Run(ctx context.Context, inputPath, outputPath string) (*Session, error) {
	prior := CountOutputRows(outputPath, c.Log)

	sess := &Session{
		PriorRows: prior,
		Resuming:  prior > 0,
		TotalRows: prior,
	}

	if sess.Resuming {
		c.Log.Info("found existing output, resuming",
			"rows", prior, "resume_row", prior+1, "output", outputPath)
	} else {
		c.Log.Info("starting fresh processing", "output", outputPath)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return sess, fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	outFlags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if sess.Resuming {
		outFlags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	out, err := os.OpenFile(outputPath, outFlags, 0o644)
	if err != nil {
		return sess, fmt.Errorf("opening output: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	flusher := NewFlusher(w, out, c.FlushInterval)
	// Whatever way the run ends, push buffered rows to disk first.
	defer func() {
		if ferr := flusher.Flush(); ferr != nil {
			c.Log.Warn("final flush failed", "error", ferr)
		}
	}()

	if !sess.Resuming {
		if err := w.Write(registry.OutputHeader); err != nil {
			return sess, fmt.Errorf("writing output header: %w", err)
		}
	}

	cursor := NewCursor(in)
	if err := cursor.SkipHeader(); err != nil {
		return sess, err
	}
	if sess.Resuming {
		c.Log.Info("skipping already-processed rows", "rows", prior)
		skipped, err := cursor.Skip(prior)
		if err != nil {
			return sess, err
		}
		if skipped < prior {
			// Input shorter than recorded output. Deliberately a warning
			// and not a failure; see the resume contract.
			c.Log.Warn("input has fewer rows than output, continuing from end of input",
				"skipped", skipped, "expected", prior)
		}
	}

	for {
		if ctx.Err() != nil {
			c.report(sess, dispInterrupted, outputPath)
			return sess, nil
		}

		row, err := cursor.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.report(sess, dispAborted, outputPath)
			return sess, fmt.Errorf("reading input row %d: %w", sess.NextRow(), err)
		}

		rec, err := registry.FromRow(row)
		if err != nil {
			c.report(sess, dispAborted, outputPath)
			return sess, fmt.Errorf("input row %d: %w", sess.NextRow(), err)
		}

		verdict, err := c.Dispatcher.Dispatch(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				// The interrupt landed while a validator was blocked; the
				// row was not written, so this is still a clean stop.
				c.report(sess, dispInterrupted, outputPath)
				return sess, nil
			}
			c.report(sess, dispAborted, outputPath)
			return sess, fmt.Errorf("row %d: %w", sess.NextRow(), err)
		}

		annotated, status := Transform(rec, verdict)
		c.Log.Info(fmt.Sprintf("Processing %s for NPI %s: %s", rec.Endpoint, rec.NPI, status))

		if err := w.Write(annotated.Row()); err != nil {
			c.report(sess, dispAborted, outputPath)
			return sess, fmt.Errorf("writing row %d: %w", sess.NextRow(), err)
		}
		sess.SessionRows++
		sess.TotalRows++

		flushed, err := flusher.Record(sess.SessionRows)
		if err != nil {
			c.report(sess, dispAborted, outputPath)
			return sess, err
		}
		if flushed {
			c.Log.Info("progress",
				"session_rows", sess.SessionRows, "total_rows", sess.TotalRows)
		}
	}

	c.report(sess, dispComplete, outputPath)
	return sess, nil
}

// report emits the end-of-run summary. It runs on every exit path so the
// operator always learns how many rows are safe and where the next run
// resumes.
func (c *Controller) report(sess *Session, d disposition, outputPath string) {
	switch d {
	case dispComplete:
		c.Log.Info("processing complete",
			"output", outputPath, "total_rows", sess.TotalRows)
		if sess.Resuming {
			c.Log.Info("resumed session summary",
				"resumed_from_row", sess.PriorRows+1, "session_rows", sess.SessionRows)
		}
	case dispInterrupted:
		c.Log.Info("processing interrupted, progress saved",
			"total_rows", sess.TotalRows, "resume_row", sess.NextRow())
	case dispAborted:
		c.Log.Error("processing failed, progress saved",
			"total_rows", sess.TotalRows, "resume_row", sess.NextRow())
	}
}
