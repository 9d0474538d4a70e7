package mem

import (
	"fmt"
	"reflect"
)

// Checked adapts a non-throwing allocator to the Allocator interface.
// A null block becomes ErrOutOfMemory.
func Checked(nt AllocatorNT) Allocator {
	return checked{nt: nt}
}

type checked struct {
	nt AllocatorNT
}

func (c checked) Allocate(size uintptr, align Align) (Block, error) {
	if _, err := align.resolve(); err != nil {
		return Block{}, err
	}
	b := c.nt.Allocate(size, align)
	if b.IsNull() {
		return Block{}, fmt.Errorf("%w: %d bytes", ErrOutOfMemory, size)
	}
	return b, nil
}

func (c checked) AllocateType(t reflect.Type) (Block, error) {
	tn, ok := c.nt.(typedNT)
	if !ok {
		return Block{}, fmt.Errorf("%w: %s", ErrUnscannable, t)
	}
	b := tn.AllocateType(t)
	if b.IsNull() {
		return Block{}, fmt.Errorf("%w: %s", ErrOutOfMemory, t)
	}
	return b, nil
}

func (c checked) Deallocate(b Block) {
	if b.IsNull() {
		return
	}
	c.nt.Deallocate(b)
}

// NoFail adapts a throwing allocator to the AllocatorNT interface.
// Errors become the null block.
func NoFail(a Allocator) AllocatorNT {
	return noFail{a: Or(a)}
}

type noFail struct {
	a Allocator
}

func (n noFail) Allocate(size uintptr, align Align) Block {
	b, err := n.a.Allocate(size, align)
	if err != nil {
		return Block{}
	}
	return b
}

func (n noFail) AllocateType(t reflect.Type) Block {
	ta, ok := n.a.(TypedAllocator)
	if !ok {
		return Block{}
	}
	b, err := ta.AllocateType(t)
	if err != nil {
		return Block{}
	}
	return b
}

func (n noFail) Deallocate(b Block) {
	if b.IsNull() {
		return
	}
	n.a.Deallocate(b)
}
