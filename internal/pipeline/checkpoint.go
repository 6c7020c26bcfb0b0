// Package pipeline implements the resumable streaming transformation from
// the NPPES endpoint file to the annotated output file.
//
// The output file is the only durable state: resumption is reconstructed
// on every run by counting the data rows it already holds and skipping
// that many rows of input. There is no separate manifest or index.
package pipeline

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// CountOutputRows reports how many data rows (excluding the header) the
// output file already holds. A missing, empty, or unreadable file counts
// as zero so the run starts fresh; read problems are logged as warnings,
// never surfaced as errors.
func CountOutputRows(path string, log *slog.Logger) int {
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("could not read output file, starting fresh", "path", path, "error", err)
		}
		return 0
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Header row.
	if _, err := r.Read(); err != nil {
		if err != io.EOF {
			log.Warn("could not read output file header, starting fresh", "path", path, "error", err)
		}
		return 0
	}

	n := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("could not count output rows, starting fresh", "path", path, "error", err)
			return 0
		}
		n++
	}
	return n
}
