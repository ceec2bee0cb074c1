// benchmark.go
// A reusable benchmarking module for the analysis tools
// Measures execution time and memory usage for any wrapped function

package benchmark

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// Run wraps any function to measure its runtime and memory usage.
func Run(label string, f func()) {
	log.Infof("[Benchmark] Running: %s", label)
	log.Infof("[Benchmark] Go Version: %s, OS/Arch: %s/%s",
		runtime.Version(), runtime.GOOS, runtime.GOARCH)

	runtime.GC()
	var memStart, memEnd runtime.MemStats
	runtime.ReadMemStats(&memStart)
	start := time.Now()

	f()

	elapsed := time.Since(start)
	runtime.ReadMemStats(&memEnd)

	log.Infof("[Benchmark] Time Elapsed: %v", elapsed)
	log.Infof("[Benchmark] Memory Used: %.2f MB", float64(memEnd.Alloc-memStart.Alloc)/1024.0/1024.0)
	log.Infof("[Benchmark] Total Allocated: %.2f MB", float64(memEnd.TotalAlloc-memStart.TotalAlloc)/1024.0/1024.0)
	log.Infof("[Benchmark] GC Cycles: %d", memEnd.NumGC-memStart.NumGC)
}
