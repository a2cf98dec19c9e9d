//go:build !linux

package trace

import (
	"os"

	"cachesim/cache"
)

// mapFile reads the trace into memory on platforms without the mmap fast
// path.
func mapFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, cache.WrapError(cache.ErrCodeTraceOpen, "trace.mapFile", "failed to read trace", err)
	}
	return data, false, nil
}

func unmapFile(data []byte, mapped bool) error {
	return nil
}
