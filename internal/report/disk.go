package report

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// FreeSpace returns the bytes available on the volume containing path.
func FreeSpace(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, fmt.Errorf("disk usage of %s: %w", path, err)
	}
	return usage.Free, nil
}
