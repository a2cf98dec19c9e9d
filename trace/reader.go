// Package trace reads request streams for the cache simulator. Traces are
// line oriented, one request per line: "timestamp id size", whitespace
// separated. Compressed traces are handled transparently based on the
// file extension.
package trace

import (
	"bufio"
	"compress/gzip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"

	"cachesim/cache"
)

// Reader streams requests from a trace. Malformed lines are skipped and
// counted; the first one is reported.
type Reader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	skipped uint64
	warned  bool
}

// Open opens a trace file, selecting decompression by extension:
// .gz (gzip), .sz (snappy), .lz4 (lz4); anything else is read as-is.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cache.WrapError(cache.ErrCodeTraceOpen, "trace.Open", "failed to open trace", err)
	}

	var src io.Reader
	closers := []io.Closer{f}
	switch filepath.Ext(path) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, cache.WrapError(cache.ErrCodeTraceOpen, "trace.Open", "failed to open gzip trace", err)
		}
		closers = append(closers, gz)
		src = gz
	case ".sz":
		src = snappy.NewReader(f)
	case ".lz4":
		src = lz4.NewReader(f)
	default:
		src = f
	}

	r := NewReader(src)
	r.closers = closers
	return r, nil
}

// NewReader wraps an already-open stream.
func NewReader(src io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(src)}
}

// Next returns the next request, or io.EOF at end of trace.
func (r *Reader) Next() (cache.Request, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		req, ok := parseLine(line)
		if !ok {
			r.skipped++
			if !r.warned {
				r.warned = true
				slog.Warn("skipping malformed trace line", "line", line)
			}
			continue
		}
		return req, nil
	}
	if err := r.scanner.Err(); err != nil {
		return cache.Request{}, cache.WrapError(cache.ErrCodeTraceParse, "trace.Next", "failed to read trace", err)
	}
	return cache.Request{}, io.EOF
}

// Skipped returns the number of malformed lines dropped so far.
func (r *Reader) Skipped() uint64 {
	return r.skipped
}

// Close releases the underlying stream.
func (r *Reader) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReadAll reads a whole trace into memory. Convenient for replaying the
// same stream against several policies.
func ReadAll(path string) ([]cache.Request, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var reqs []cache.Request
	for {
		req, err := r.Next()
		if err == io.EOF {
			return reqs, nil
		}
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
}

// parseLine parses one "timestamp id size" line.
func parseLine(line string) (cache.Request, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return cache.Request{}, false
	}
	if _, err := strconv.ParseUint(fields[0], 10, 64); err != nil {
		return cache.Request{}, false
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return cache.Request{}, false
	}
	size, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return cache.Request{}, false
	}
	return cache.Request{ID: id, Size: size}, true
}
