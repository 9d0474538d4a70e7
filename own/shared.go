package own

import "github.com/joshuapare/dskit/mem"

const sharedName = "Shared"

// control is the reference count shared by one alias group. release runs
// exactly once, when refs drops from 1 to 0.
type control struct {
	refs    int
	release func()
}

func newControl[T any](a mem.Allocator, p *T, blk mem.Block) *control {
	return &control{
		refs:    1,
		release: func() { mem.Delete(a, p, blk) },
	}
}

// alias is one claim on an alias group.
type alias[T any] struct {
	ptr *T
	ctl *control
}

func (r alias[T]) count() int {
	if r.ctl == nil {
		return 0
	}
	return r.ctl.refs
}

// acquire returns a new claim on r's group.
func (r alias[T]) acquire() alias[T] {
	if r.ctl != nil {
		r.ctl.refs++
	}
	return r
}

// drop gives up the claim in *r and leaves it empty.
func (r *alias[T]) drop() {
	ctl := r.ctl
	r.ptr, r.ctl = nil, nil
	if ctl == nil {
		return
	}
	ctl.refs--
	if ctl.refs == 0 {
		release := ctl.release
		ctl.release = nil
		release()
	}
}

// Shared is a reference-counted handle. Every handle in an alias group
// points at one control block; the value is disposed and freed when the
// last handle lets go. The zero value is a null handle.
type Shared[T any] struct {
	_     noCopy
	ref   alias[T]
	owner bool
	alloc mem.Allocator
}

// NullShared returns a null handle with a count of 0. Nothing is allocated.
func NullShared[T any]() *Shared[T] {
	return &Shared[T]{}
}

// NewShared allocates storage from a (Heap when nil) and stores v in it.
func NewShared[T any](a mem.Allocator, v T) (*Shared[T], error) {
	return ConstructShared(a, assign(v))
}

// DefaultShared allocates a zero T and calls Init when *T is a mem.Initializer.
func DefaultShared[T any](a mem.Allocator) (*Shared[T], error) {
	return ConstructShared(a, initDefault[T])
}

// ConstructShared allocates a zero T and initializes it in place. The
// returned handle is the owner and the count is 1.
func ConstructShared[T any](a mem.Allocator, init func(*T) error) (*Shared[T], error) {
	a = mem.Or(a)
	p, blk, err := construct(a, sharedName, init)
	if err != nil {
		return nil, err
	}
	return &Shared[T]{
		ref:   alias[T]{ptr: p, ctl: newControl(a, p, blk)},
		owner: true,
		alloc: a,
	}, nil
}

// SharedFromUnique moves u's value into a new alias group with a count of 1.
// u is left null. A null u yields a null handle.
func SharedFromUnique[T any](u *Unique[T]) *Shared[T] {
	if u.IsNull() {
		return &Shared[T]{alloc: u.Allocator()}
	}
	a := u.Allocator()
	p, blk := u.ptr, u.blk
	u.ptr, u.blk = nil, mem.Block{}
	return &Shared[T]{
		ref:   alias[T]{ptr: p, ctl: newControl(a, p, blk)},
		owner: true,
		alloc: a,
	}
}

// Clone returns a new alias of s's value and increments the count.
// The clone is never the owner. Cloning a null handle yields a null handle.
func (s *Shared[T]) Clone() *Shared[T] {
	if s == nil {
		return &Shared[T]{}
	}
	return &Shared[T]{ref: s.ref.acquire(), alloc: s.alloc}
}

// CopyFrom makes s an alias of src's value. The claim on src's group is
// taken before s's old claim is dropped, so copying from a handle that is
// kept alive only by s's old value is safe.
func (s *Shared[T]) CopyFrom(src *Shared[T]) {
	var next alias[T]
	alloc := s.alloc
	if src != nil {
		if src.ref.ctl != nil && src.ref.ctl == s.ref.ctl {
			return
		}
		next, alloc = src.ref.acquire(), src.alloc
	}
	old := s.ref
	s.ref, s.owner, s.alloc = next, false, alloc
	old.drop()
}

// Move transfers s's claim into a new handle and leaves s null. The count
// does not change.
func (s *Shared[T]) Move() *Shared[T] {
	v := &Shared[T]{ref: s.ref, owner: s.owner, alloc: s.alloc}
	s.ref, s.owner = alias[T]{}, false
	return v
}

// MoveFrom drops s's claim and takes src's, leaving src null. Moving a
// handle into itself does nothing.
func (s *Shared[T]) MoveFrom(src *Shared[T]) {
	if s == src {
		return
	}
	old := s.ref
	s.ref, s.owner = alias[T]{}, false
	if src != nil {
		s.ref, s.owner, s.alloc = src.ref, src.owner, src.alloc
		src.ref, src.owner = alias[T]{}, false
	}
	old.drop()
}

// Release drops this handle's claim and leaves it null. The value is
// disposed and freed when this was the last claim. No-op on a null handle.
func (s *Shared[T]) Release() {
	if s == nil {
		return
	}
	s.owner = false
	s.ref.drop()
}

// Destroy releases this handle's claim early. It is idempotent.
func (s *Shared[T]) Destroy() { s.Release() }

// RefCount returns the number of live handles in s's alias group, 0 when null.
func (s *Shared[T]) RefCount() int {
	if s == nil {
		return 0
	}
	return s.ref.count()
}

// IsOwner reports whether s is the handle that allocated the value, or one
// it was moved into.
func (s *Shared[T]) IsOwner() bool { return s != nil && s.owner }

// Deref returns the shared value. It panics with a KindNullPointer error on
// a null handle.
func (s *Shared[T]) Deref() *T {
	if s.IsNull() {
		panic(nullPointer(sharedName))
	}
	return s.ref.ptr
}

// Ref returns the shared value or ErrNullPointer.
func (s *Shared[T]) Ref() (*T, error) {
	if s.IsNull() {
		return nil, nullPointer(sharedName)
	}
	return s.ref.ptr, nil
}

// Ptr returns the shared value, nil for a null handle.
func (s *Shared[T]) Ptr() *T {
	if s == nil {
		return nil
	}
	return s.ref.ptr
}

// Valid reports whether s holds a value.
func (s *Shared[T]) Valid() bool { return s != nil && s.ref.ptr != nil }

// IsNull reports whether s is null.
func (s *Shared[T]) IsNull() bool { return !s.Valid() }

// Allocator returns the allocator the value is released into.
func (s *Shared[T]) Allocator() mem.Allocator {
	if s == nil {
		return mem.Heap{}
	}
	return mem.Or(s.alloc)
}
