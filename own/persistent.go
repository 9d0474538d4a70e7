package own

import "github.com/joshuapare/dskit/mem"

const persistentName = "Persistent"

// Persistent is a reference-counted handle whose default construction always
// yields a value. It aliases and transfers like Shared but has no owner flag
// and no early Destroy. The zero value is a null handle.
type Persistent[T any] struct {
	_     noCopy
	ref   alias[T]
	alloc mem.Allocator
}

// NullPersistent returns a null handle. Nothing is allocated.
func NullPersistent[T any]() *Persistent[T] {
	return &Persistent[T]{}
}

// NewPersistent default-constructs a T: zeroed, then Init when *T is a
// mem.Initializer. The handle is valid with a count of 1.
func NewPersistent[T any](a mem.Allocator) (*Persistent[T], error) {
	return ConstructPersistent(a, initDefault[T])
}

// NewPersistentValue allocates storage and stores v in it.
func NewPersistentValue[T any](a mem.Allocator, v T) (*Persistent[T], error) {
	return ConstructPersistent(a, assign(v))
}

// ConstructPersistent allocates a zero T and initializes it in place.
func ConstructPersistent[T any](a mem.Allocator, init func(*T) error) (*Persistent[T], error) {
	a = mem.Or(a)
	p, blk, err := construct(a, persistentName, init)
	if err != nil {
		return nil, err
	}
	return &Persistent[T]{
		ref:   alias[T]{ptr: p, ctl: newControl(a, p, blk)},
		alloc: a,
	}, nil
}

// Clone returns a new alias and increments the count.
func (p *Persistent[T]) Clone() *Persistent[T] {
	if p == nil {
		return &Persistent[T]{}
	}
	return &Persistent[T]{ref: p.ref.acquire(), alloc: p.alloc}
}

// CopyFrom makes p an alias of src's value, taking the new claim before
// dropping the old one.
func (p *Persistent[T]) CopyFrom(src *Persistent[T]) {
	var next alias[T]
	alloc := p.alloc
	if src != nil {
		if src.ref.ctl != nil && src.ref.ctl == p.ref.ctl {
			return
		}
		next, alloc = src.ref.acquire(), src.alloc
	}
	old := p.ref
	p.ref, p.alloc = next, alloc
	old.drop()
}

// Move transfers p's claim into a new handle and leaves p null.
func (p *Persistent[T]) Move() *Persistent[T] {
	v := &Persistent[T]{ref: p.ref, alloc: p.alloc}
	p.ref = alias[T]{}
	return v
}

// MoveFrom drops p's claim and takes src's, leaving src null.
func (p *Persistent[T]) MoveFrom(src *Persistent[T]) {
	if p == src {
		return
	}
	old := p.ref
	p.ref = alias[T]{}
	if src != nil {
		p.ref, p.alloc = src.ref, src.alloc
		src.ref = alias[T]{}
	}
	old.drop()
}

// Release drops this handle's claim and leaves it null.
func (p *Persistent[T]) Release() {
	if p == nil {
		return
	}
	p.ref.drop()
}

// RefCount returns the number of live handles in the alias group, 0 when null.
func (p *Persistent[T]) RefCount() int {
	if p == nil {
		return 0
	}
	return p.ref.count()
}

// Deref returns the value. It panics with a KindNullPointer error on a null handle.
func (p *Persistent[T]) Deref() *T {
	if p.IsNull() {
		panic(nullPointer(persistentName))
	}
	return p.ref.ptr
}

// Ref returns the value or ErrNullPointer.
func (p *Persistent[T]) Ref() (*T, error) {
	if p.IsNull() {
		return nil, nullPointer(persistentName)
	}
	return p.ref.ptr, nil
}

// Ptr returns the value, nil for a null handle.
func (p *Persistent[T]) Ptr() *T {
	if p == nil {
		return nil
	}
	return p.ref.ptr
}

// Valid reports whether p holds a value.
func (p *Persistent[T]) Valid() bool { return p != nil && p.ref.ptr != nil }

// IsNull reports whether p is null.
func (p *Persistent[T]) IsNull() bool { return !p.Valid() }

// Allocator returns the allocator the value is released into.
func (p *Persistent[T]) Allocator() mem.Allocator {
	if p == nil {
		return mem.Heap{}
	}
	return mem.Or(p.alloc)
}
