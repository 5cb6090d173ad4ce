// Package resource bounds the memory and write throughput of a conversion run.
//
// A dump is decoded entirely into memory, so a run over billion-vector files
// can be capped with a memory budget: loaders reserve the header-implied
// payload size up front and fail fast with [ErrMemoryLimit] instead of
// letting the process be OOM-killed halfway through a stage. Writes to the
// output sink can be throttled to a byte rate with [RateLimitedWriter].
package resource
