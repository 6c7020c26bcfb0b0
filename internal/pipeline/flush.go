package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
)

// DefaultFlushInterval is how many rows may be written before the output
// buffer must be forced to stable storage. Abrupt termination therefore
// loses at most interval-1 rows of the current run.
const DefaultFlushInterval = 50

// Flusher decides when buffered output must be forced to disk.
type Flusher struct {
	w        *csv.Writer
	f        *os.File
	interval int
}

// NewFlusher pairs a CSV writer with its backing file. A non-positive
// interval falls back to DefaultFlushInterval.
func NewFlusher(w *csv.Writer, f *os.File, interval int) *Flusher {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Flusher{w: w, f: f, interval: interval}
}

// Record notes that sessionRows rows have now been written this run and
// flushes when the count hits a multiple of the interval. It reports
// whether a flush happened so the caller can emit a progress line.
func (fl *Flusher) Record(sessionRows int) (bool, error) {
	if sessionRows%fl.interval != 0 {
		return false, nil
	}
	return true, fl.Flush()
}

// Flush forces all buffered rows through the CSV writer and syncs the
// file to stable storage.
func (fl *Flusher) Flush() error {
	fl.w.Flush()
	if err := fl.w.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	if err := fl.f.Sync(); err != nil {
		return fmt.Errorf("syncing output: %w", err)
	}
	return nil
}
