//go:build linux

package trace

import (
	"os"

	"golang.org/x/sys/unix"

	"cachesim/cache"
)

// mapFile maps an uncompressed trace read-only into memory.
func mapFile(path string) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, cache.WrapError(cache.ErrCodeTraceOpen, "trace.mapFile", "failed to open trace", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, false, cache.WrapError(cache.ErrCodeTraceOpen, "trace.mapFile", "failed to stat trace", err)
	}
	if info.Size() == 0 {
		return nil, false, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, false, cache.WrapError(cache.ErrCodeTraceOpen, "trace.mapFile", "failed to mmap trace", err)
	}
	return data, true, nil
}

// unmapFile releases a mapping created by mapFile.
func unmapFile(data []byte, mapped bool) error {
	if !mapped || data == nil {
		return nil
	}
	return unix.Munmap(data)
}
