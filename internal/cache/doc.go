// Package cache provides a small thread-safe LRU cache.
//
// It backs the lookup tables that are costly to rebuild but cheap to keep:
// Gaussian kernels keyed by sigma and decoded colour glyph bitmaps.
//
//	c := cache.New[int, []float32](64)
//	k := c.GetOrCreate(150, func() []float32 { return build(1.5) })
//
// A Cache must not be copied after first use.
package cache
