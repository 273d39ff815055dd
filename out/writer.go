package out

import (
	"bytes"
	"sync"
)

// BufferWriter is an in-memory writer safe to share between goroutines,
// eg. as the sink of a logger used by several connections.
type BufferWriter struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func NewBufferWriter() *BufferWriter {
	return &BufferWriter{}
}

func (bw *BufferWriter) Write(p []byte) (nn int, err error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.b.Write(p)
}

func (bw *BufferWriter) String() string {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.b.String()
}
