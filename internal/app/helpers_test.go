package app

import (
	"bytes"
	"strings"
	"sync"
)

// syncBuffer is a thread-safe buffer for output written by a watch loop.
type syncBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

func countSummaries(out string) int {
	return strings.Count(out, " warnings\n") + strings.Count(out, " warning\n")
}
