package pipeline

import (
	"bufio"
	"bytes"
	"io"
)

// utf8BOM is prepended to CSV exports by many Windows tools. Left in
// place it corrupts the first header cell, so the input stream drops it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM wraps an input stream, discarding a leading UTF-8 byte order
// mark if one is present.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}
