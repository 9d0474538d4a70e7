// Package withdispose instantiates NewSharedAs with a Disposer base. It
// compiles.
package withdispose

import (
	"github.com/joshuapare/dskit/mem"
	"github.com/joshuapare/dskit/own"
)

type closer interface {
	mem.Disposer
	Name() string
}

type file struct{ name string }

func (f *file) Name() string { return f.name }
func (f *file) Dispose()     {}

func build() (*own.Shared[closer], error) {
	return own.NewSharedAs[closer](nil, func(f *file) error {
		f.name = "log"
		return nil
	})
}
