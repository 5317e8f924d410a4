package ticket

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// NumberGenerator produces the human-readable ticket number, immutable
// once assigned.
type NumberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// DefaultNumberGenerator issues TKT-YYYYMMDD-NNNN numbers with an
// in-process daily counter. Deployments with multiple instances replace
// it with a store-backed implementation.
type DefaultNumberGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewDefaultNumberGenerator() *DefaultNumberGenerator {
	return &DefaultNumberGenerator{
		counters: make(map[string]int),
	}
}

func (g *DefaultNumberGenerator) Generate(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	dateKey := time.Now().UTC().Format("20060102")

	g.counters[dateKey]++

	return fmt.Sprintf("TKT-%s-%04d", dateKey, g.counters[dateKey]), nil
}
