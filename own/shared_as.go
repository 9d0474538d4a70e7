package own

import (
	"fmt"
	"reflect"

	"github.com/joshuapare/dskit/mem"
)

// NewSharedAs constructs a D in storage from a (Heap when nil) and returns a
// Shared handle that sees it through the base type B.
//
// B must have a Dispose method, so a base without the destructor hook does
// not compile. *D must implement B; this is checked before anything is
// allocated and fails with a KindConversion error. When the last handle is
// released, Dispose runs through B and the D storage is freed.
//
//	type Shape interface {
//	    mem.Disposer
//	    Area() float64
//	}
//
//	s, err := own.NewSharedAs[Shape](a, func(c *Circle) error {
//	    c.R = 2
//	    return nil
//	})
//	area := (*s.Deref()).Area()
func NewSharedAs[B mem.Disposer, D any](a mem.Allocator, init func(*D) error) (*Shared[B], error) {
	if _, ok := any((*D)(nil)).(B); !ok {
		return nil, &Error{
			Kind:    KindConversion,
			Wrapper: sharedName,
			Msg:     fmt.Sprintf("*%s does not implement %s", reflect.TypeFor[D](), reflect.TypeFor[B]()),
		}
	}

	a = mem.Or(a)
	d, blk, err := construct(a, sharedName, init)
	if err != nil {
		return nil, err
	}

	base := new(B)
	*base = any(d).(B)
	ctl := &control{
		refs: 1,
		release: func() {
			b := *base
			var zero B
			*base = zero
			b.Dispose()
			mem.Free(a, d, blk)
		},
	}
	return &Shared[B]{
		ref:   alias[B]{ptr: base, ctl: ctl},
		owner: true,
		alloc: a,
	}, nil
}
