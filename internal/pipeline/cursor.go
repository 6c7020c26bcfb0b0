package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Cursor reads the input stream row by row and can advance past rows that
// a previous run already wrote to the output.
type Cursor struct {
	r *csv.Reader
}

// NewCursor wraps an input stream, discarding a UTF-8 BOM if present.
// Rows of varying width are accepted; width is checked later, when a
// record is extracted.
func NewCursor(r io.Reader) *Cursor {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1
	return &Cursor{r: cr}
}

// SkipHeader discards the input header row. An input with no header row
// at all is malformed and fatal.
func (c *Cursor) SkipHeader() error {
	if _, err := c.r.Read(); err != nil {
		if err == io.EOF {
			return fmt.Errorf("input has no header row")
		}
		return fmt.Errorf("reading input header: %w", err)
	}
	return nil
}

// Skip discards up to n rows and reports how many were actually
// discarded. Input running out before n rows is reported through the
// short count, not an error; the caller decides how loudly to complain.
func (c *Cursor) Skip(n int) (int, error) {
	for i := 0; i < n; i++ {
		if _, err := c.r.Read(); err != nil {
			if err == io.EOF {
				return i, nil
			}
			return i, fmt.Errorf("skipping already-processed rows: %w", err)
		}
	}
	return n, nil
}

// Next yields the next input row. io.EOF marks the end of input.
func (c *Cursor) Next() ([]string, error) {
	return c.r.Read()
}
