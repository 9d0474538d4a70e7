package own

import "github.com/joshuapare/dskit/mem"

// noCopy makes go vet's copylocks check report wrappers copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// construct allocates a zeroed T and runs init on it. When init fails or
// panics the storage is freed without Dispose, since the value never
// finished construction.
func construct[T any](a mem.Allocator, wrapper string, init func(*T) error) (*T, mem.Block, error) {
	p, blk, err := mem.New[T](a)
	if err != nil {
		return nil, mem.Block{}, &Error{Kind: KindAllocation, Wrapper: wrapper, Msg: "allocation failure", Err: err}
	}
	if init == nil {
		return p, blk, nil
	}

	done := false
	defer func() {
		if !done {
			mem.Free(a, p, blk)
		}
	}()
	if err := init(p); err != nil {
		return nil, mem.Block{}, &Error{Kind: KindConstruct, Wrapper: wrapper, Msg: "construction failed", Err: err}
	}
	done = true
	return p, blk, nil
}

func assign[T any](v T) func(*T) error {
	return func(p *T) error {
		*p = v
		return nil
	}
}

func initDefault[T any](p *T) error {
	return mem.Init(p)
}
