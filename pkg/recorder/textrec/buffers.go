package textrec

import (
	"bytes"
	"sync"
)

// Buffer pool sizes for different record sizes.
const (
	smallBufferSize  = 1024
	mediumBufferSize = 4096
	largeBufferSize  = 16384

	// Only reuse buffers within this ratio of the bucket size.
	bufferReuseRatio = 0.6
)

type bufferPoolBucket struct {
	size int
	pool sync.Pool
}

type bufferPool []*bufferPoolBucket

func newBufferPool() bufferPool {
	sizes := []int{smallBufferSize, mediumBufferSize, largeBufferSize}
	buckets := make(bufferPool, 0, len(sizes))

	for _, size := range sizes {
		buckets = append(buckets, &bufferPoolBucket{
			size: size,
			pool: sync.Pool{
				New: func() any {
					return bytes.NewBuffer(make([]byte, 0, size))
				},
			},
		})
	}

	return buckets
}

// get returns a reset buffer from the smallest bucket that fits size.
func (p bufferPool) get(size int) *bytes.Buffer {
	for _, bucket := range p {
		if size > bucket.size {
			continue
		}

		if buf, ok := bucket.pool.Get().(*bytes.Buffer); ok {
			buf.Reset()

			return buf
		}

		return bytes.NewBuffer(make([]byte, 0, bucket.size))
	}

	return bytes.NewBuffer(make([]byte, 0, size))
}

// put returns buf to its bucket. Buffers that outgrew every bucket, or that
// are much smaller than theirs, are left to the GC.
func (p bufferPool) put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}

	bufCap := buf.Cap()

	for _, bucket := range p {
		if bufCap > bucket.size {
			continue
		}

		if float64(bufCap) >= float64(bucket.size)*bufferReuseRatio {
			bucket.pool.Put(buf)
		}

		return
	}
}
