package diagnostics

import (
	"fmt"
	"io"
	"sync"

	"hegel/colors"
)

// Bag collects diagnostics during a module build, in the order they were
// reported. A build always returns its bag, possibly non-empty, alongside
// the module scope.
type Bag struct {
	mu     sync.Mutex
	errors []*HegelError
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{errors: make([]*HegelError, 0)}
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(err *HegelError) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errors = append(b.errors, err)
}

// HasErrors returns true if any diagnostic was reported.
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.errors) > 0
}

// Count returns the number of collected diagnostics.
func (b *Bag) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.errors)
}

// Errors returns a copy of all collected diagnostics in report order.
func (b *Bag) Errors() []*HegelError {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*HegelError, len(b.errors))
	copy(out, b.errors)
	return out
}

// Emit writes every diagnostic to w, one per line, colorized.
func (b *Bag) Emit(w io.Writer, filename string) {
	for _, err := range b.Errors() {
		colors.RED.Fprint(w, "error")
		if filename != "" {
			fmt.Fprintf(w, " %s:%s", filename, err.Loc)
		} else {
			fmt.Fprintf(w, " %s", err.Loc)
		}
		fmt.Fprintf(w, ": %s\n", err.Message)
	}
}
