// Package nodispose instantiates NewSharedAs with a base type that has no
// Dispose method. It must not compile.
package nodispose

import "github.com/joshuapare/dskit/own"

type plain struct{ n int }

func build() {
	_, _ = own.NewSharedAs[plain, plain](nil, nil)
}
