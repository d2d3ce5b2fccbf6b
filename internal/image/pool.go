package image

import "sync"

// ScratchPool recycles float32 working buffers for multi-pass filters.
//
// Buffers are bucketed by exact length; a full bucket drops the buffer.
// All methods are safe for concurrent use.
type ScratchPool struct {
	mu      sync.Mutex
	buckets map[int][][]float32
	maxSize int // max buffers per bucket
}

// NewScratchPool creates a pool that keeps at most maxPerBucket buffers of
// each length. Zero means unlimited.
func NewScratchPool(maxPerBucket int) *ScratchPool {
	return &ScratchPool{
		buckets: make(map[int][][]float32),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer of length n.
func (p *ScratchPool) Get(n int) []float32 {
	p.mu.Lock()
	bucket := p.buckets[n]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		clear(buf)
		return buf
	}
	p.mu.Unlock()
	return make([]float32, n)
}

// Put hands buf back for reuse. The caller must not touch it afterwards.
func (p *ScratchPool) Put(buf []float32) {
	if buf == nil {
		return
	}
	n := len(buf)

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[n]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[n] = append(bucket, buf)
}

// Len returns the number of buffers currently held.
func (p *ScratchPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

var defaultScratch = NewScratchPool(4)

// GetScratch takes a buffer from the shared pool.
func GetScratch(n int) []float32 {
	return defaultScratch.Get(n)
}

// PutScratch returns a buffer to the shared pool.
func PutScratch(buf []float32) {
	defaultScratch.Put(buf)
}
