// Package streams provides small io building blocks for the engine.
package streams

import (
	"errors"
	"io"
)

// combinedReader lazily concatenates two byte sources into one logical
// forward-only source. Neither source is buffered; the second is not touched
// until the first is exhausted. Only Read and Close are exposed, so seeking
// or writing through it is a compile-time impossibility rather than a
// runtime failure.
type combinedReader struct {
	first      io.ReadCloser
	second     io.ReadCloser
	firstDone  bool
	secondDone bool
}

// NewCombinedReader splices supplemental content (second) onto a primary
// source (first). Closing the returned reader closes both sources
// unconditionally.
func NewCombinedReader(first, second io.ReadCloser) io.ReadCloser {
	return &combinedReader{first: first, second: second}
}

func (c *combinedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	var total int
	if !c.firstDone {
		n, err := c.first.Read(p)
		total = n
		if err != nil && err != io.EOF {
			return total, err
		}
		if total == len(p) && err == nil {
			return total, nil
		}
		// A short (or EOF) read exhausts the primary source; the remainder
		// of the request is served from the second source in the same call.
		c.firstDone = true
		if total == len(p) {
			return total, nil
		}
	}

	if !c.secondDone {
		n, err := c.second.Read(p[total:])
		total += n
		if err == io.EOF {
			c.secondDone = true
		} else if err != nil {
			return total, err
		}
	}

	if total == 0 {
		return 0, io.EOF
	}
	return total, nil
}

func (c *combinedReader) Close() error {
	return errors.Join(c.first.Close(), c.second.Close())
}
