package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds scratch buffers for encoding cache keys.
var BufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer([]byte{})
	},
}

// Buffer takes a reset buffer from the pool. Return it with PutBuffer.
func Buffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool.
func PutBuffer(buf *bytes.Buffer) {
	BufferPool.Put(buf)
}
