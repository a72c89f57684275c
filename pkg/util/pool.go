package util

import "runtime"

const (
	minPoolSize = 4
	maxPoolSize = 32
)

// GetOptimalPoolSize sizes parser pools and analysis fan-out: twice the
// CPU count, clamped to [4, 32]. Parsing spends much of its time in cgo, so
// more workers than cores still helps.
func GetOptimalPoolSize() int {
	return min(max(runtime.NumCPU()*2, minPoolSize), maxPoolSize)
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
