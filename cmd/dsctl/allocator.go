package main

import (
	"fmt"

	"github.com/joshuapare/dskit/internal/logger"
	"github.com/joshuapare/dskit/mem"
)

type allocKind int

const (
	kindHeap allocKind = iota
	kindHeapNT
	kindMmap
	kindBump
)

func allocatorKind(name string) (allocKind, error) {
	switch name {
	case "heap":
		return kindHeap, nil
	case "heap-nt":
		return kindHeapNT, nil
	case "mmap":
		return kindMmap, nil
	case "bump":
		return kindBump, nil
	default:
		return 0, fmt.Errorf("unknown allocator %q (want heap, heap-nt, mmap or bump)", name)
	}
}

// allocatorStack is the allocator chain built from a Config:
// Counting -> Logged -> [Limited] -> base.
type allocatorStack struct {
	counting *mem.Counting
	closer   interface{ Close() error }
}

func newAllocatorStack(c *Config) (*allocatorStack, error) {
	kind, err := allocatorKind(c.Allocator)
	if err != nil {
		return nil, err
	}

	s := &allocatorStack{}
	var base mem.Allocator
	switch kind {
	case kindHeapNT:
		base = mem.Checked(mem.HeapNT{})
	case kindMmap:
		m := mem.NewMmap()
		s.closer, base = m, m
	case kindBump:
		b := mem.NewBump(0)
		s.closer, base = b, b
	default:
		base = mem.Heap{}
	}

	if c.Limit > 0 {
		base = mem.NewLimited(base, uintptr(c.Limit))
	}
	s.counting = mem.NewCounting(mem.NewLogged(base, logger.L, c.Allocator))
	return s, nil
}

func (s *allocatorStack) allocator() mem.Allocator { return s.counting }

func (s *allocatorStack) close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
