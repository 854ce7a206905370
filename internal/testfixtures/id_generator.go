package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator yields deterministic identifiers of the form "<prefix>-<n>".
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

// NewIDGenerator constructs a generator for the given prefix, defaulting to
// "id" when prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Reset rewinds the counter and optionally swaps the prefix, so a test can
// restart the sequence deterministically.
func (g *IDGenerator) Reset(prefix string) {
	g.mu.Lock()
	if prefix != "" {
		g.prefix = prefix
	}
	g.counter = 0
	g.mu.Unlock()
}
