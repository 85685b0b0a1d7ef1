// Package idgen allocates the human-readable sequential identifiers used for
// customers and sessions (CB00001, Session000123).
package idgen

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Class describes one identifier namespace. Each class has its own prefix,
// zero-pad width and independent sequence.
type Class struct {
	Name   string
	Prefix string
	Width  int
}

var (
	Sessions  = Class{Name: "session", Prefix: "Session", Width: 6}
	Customers = Class{Name: "customer", Prefix: "CB", Width: 5}
)

// SequenceSource reports the highest numeric suffix currently persisted for
// a class, 0 when no record exists.
type SequenceSource interface {
	MaxSequence(ctx context.Context, class Class) (uint64, error)
}

type classCounter struct {
	mu     sync.Mutex
	seeded bool
	last   uint64
}

// Generator hands out identifiers. The first allocation per class seeds a
// counter from the store's max-suffix query; after that the counter advances
// in memory. The per-class mutex serializes read-then-increment so
// concurrent creates never see duplicate ids.
type Generator struct {
	source SequenceSource

	mu       sync.Mutex
	counters map[string]*classCounter
}

func New(source SequenceSource) *Generator {
	return &Generator{
		source:   source,
		counters: make(map[string]*classCounter),
	}
}

// Next returns the next identifier for the class. On a seed failure no
// identifier is returned and the counter stays unseeded, so the enclosing
// operation aborts cleanly and a later call retries the query.
func (g *Generator) Next(ctx context.Context, class Class) (string, error) {
	c := g.counter(class)
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seeded {
		max, err := g.source.MaxSequence(ctx, class)
		if err != nil {
			return "", fmt.Errorf("seed %s sequence: %w", class.Name, err)
		}
		c.last = max
		c.seeded = true
	}

	c.last++
	return Format(class, c.last), nil
}

func (g *Generator) counter(class Class) *classCounter {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.counters[class.Name]
	if !ok {
		c = &classCounter{}
		g.counters[class.Name] = c
	}
	return c
}

// Format renders prefix + zero-padded sequence number. Numbers wider than
// the class width are printed in full rather than truncated.
func Format(class Class, n uint64) string {
	return class.Prefix + fmt.Sprintf("%0*d", class.Width, n)
}

// Parse extracts the numeric suffix from an identifier of the class.
func Parse(class Class, id string) (uint64, error) {
	if !strings.HasPrefix(id, class.Prefix) {
		return 0, fmt.Errorf("identifier %q does not carry prefix %q", id, class.Prefix)
	}
	digits := id[len(class.Prefix):]
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("identifier %q has a non-numeric suffix: %w", id, err)
	}
	return n, nil
}
