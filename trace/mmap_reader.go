package trace

import (
	"bytes"
	"io"
	"log/slog"

	"cachesim/cache"
)

// MmapReader replays an uncompressed trace from a memory-mapped file,
// avoiding the copy through a buffered reader for very large traces. On
// platforms without mmap support the file is read into memory instead.
type MmapReader struct {
	data    []byte
	pos     int
	mapped  bool
	skipped uint64
	warned  bool
}

// OpenMmap maps an uncompressed trace file. Compressed traces must go
// through Open instead.
func OpenMmap(path string) (*MmapReader, error) {
	data, mapped, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &MmapReader{data: data, mapped: mapped}, nil
}

// Next returns the next request, or io.EOF at end of trace.
func (m *MmapReader) Next() (cache.Request, error) {
	for m.pos < len(m.data) {
		end := bytes.IndexByte(m.data[m.pos:], '\n')
		var line []byte
		if end < 0 {
			line = m.data[m.pos:]
			m.pos = len(m.data)
		} else {
			line = m.data[m.pos : m.pos+end]
			m.pos += end + 1
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		req, ok := parseLine(string(line))
		if !ok {
			m.skipped++
			if !m.warned {
				m.warned = true
				slog.Warn("skipping malformed trace line", "line", string(line))
			}
			continue
		}
		return req, nil
	}
	return cache.Request{}, io.EOF
}

// Skipped returns the number of malformed lines dropped so far.
func (m *MmapReader) Skipped() uint64 {
	return m.skipped
}

// Close releases the mapping.
func (m *MmapReader) Close() error {
	data, mapped := m.data, m.mapped
	m.data, m.mapped = nil, false
	return unmapFile(data, mapped)
}
