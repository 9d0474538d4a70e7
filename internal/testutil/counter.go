// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/joshuapare/dskit/mem"
)

// Tally counts Counter constructions and disposals. Tests create one per
// scenario so counts never leak between tests.
type Tally struct {
	Constructed int
	Disposed    int
	Active      int
}

// Counter is an instrumented value: constructing it through a Tally and
// disposing it are both counted.
type Counter struct {
	Value int
	tally *Tally
}

// Make returns an initializer that sets the value and records a construction.
//
// Example:
//
//	var tally testutil.Tally
//	s, err := own.ConstructShared(a, tally.Make(5))
func (t *Tally) Make(v int) func(*Counter) error {
	return func(c *Counter) error {
		c.Value = v
		c.tally = t
		t.Constructed++
		t.Active++
		return nil
	}
}

// Dispose records the destruction of a counted value. Values not built by a
// Tally are ignored.
func (c *Counter) Dispose() {
	if c.tally == nil {
		return
	}
	c.tally.Disposed++
	c.tally.Active--
	c.tally = nil
}

// LeakCheck returns a counting allocator over the Go heap and registers a
// cleanup that fails the test if any block is still live or was freed twice.
func LeakCheck(t testing.TB) *mem.Counting {
	t.Helper()
	c := mem.NewCounting(nil)
	t.Cleanup(func() {
		s := c.Stats()
		if s.LiveBlocks != 0 {
			t.Errorf("leak: %d blocks (%d bytes) still live", s.LiveBlocks, s.LiveBytes)
		}
		if s.InvalidFrees != 0 {
			t.Errorf("%d invalid deallocations (double or foreign free)", s.InvalidFrees)
		}
	})
	return c
}
