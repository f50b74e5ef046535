package encoding

import (
	"bytes"
	"sync"
)

// BufferPool pools bytes.Buffer for XML request assembly. Every outbound
// document is built into one of these and copied out as a string.
var BufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// GetBuffer retrieves an empty bytes.Buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a bytes.Buffer to the pool. Buffers that grew past
// 64KB are dropped so an outlier document cannot pin memory.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	buf.Reset()
	BufferPool.Put(buf)
}
