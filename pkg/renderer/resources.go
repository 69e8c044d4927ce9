package renderer

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// bytesPerPixel covers the frame buffer plus one RGBA copy for encoding
const bytesPerPixel = 3 + 4

// DefaultWorkerCount returns the number of logical CPUs on the host
func DefaultWorkerCount() int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		return runtime.NumCPU()
	}
	return count
}

// EstimateFrameBytes returns the memory needed to render and encode a frame
func EstimateFrameBytes(width, height int) uint64 {
	return uint64(width) * uint64(height) * bytesPerPixel
}

// CheckFrameMemory rejects frames that would not fit in available memory.
// If memory statistics are unavailable the check passes.
func CheckFrameMemory(width, height int) error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}

	needed := EstimateFrameBytes(width, height)
	if needed > vm.Available {
		return fmt.Errorf("a %dx%d frame needs %d MiB but only %d MiB is available",
			width, height, needed>>20, vm.Available>>20)
	}
	return nil
}
