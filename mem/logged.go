package mem

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/joshuapare/dskit/internal/logger"
)

// Logged wraps an allocator and writes a debug record for every call and a
// warning for every failed request.
type Logged struct {
	inner Allocator
	log   *slog.Logger
	name  string
}

// NewLogged wraps inner (Heap when nil). A nil log writes to the module
// logger, resolved at call time so a later logger.Init takes effect.
func NewLogged(inner Allocator, log *slog.Logger, name string) *Logged {
	return &Logged{inner: Or(inner), log: log, name: name}
}

func (l *Logged) logger() *slog.Logger {
	if l.log != nil {
		return l.log
	}
	return logger.L
}

// Allocate forwards and logs the outcome.
func (l *Logged) Allocate(size uintptr, align Align) (Block, error) {
	b, err := l.inner.Allocate(size, align)
	l.report("allocate", size, uintptr(align), b, err)
	return b, err
}

// AllocateType forwards when the wrapped allocator is a TypedAllocator.
func (l *Logged) AllocateType(t reflect.Type) (Block, error) {
	var (
		b   Block
		err error
	)
	if ta, ok := l.inner.(TypedAllocator); ok {
		b, err = ta.AllocateType(t)
	} else {
		err = fmt.Errorf("%w: %s", ErrUnscannable, t)
	}
	l.report("allocate type "+t.String(), t.Size(), uintptr(t.Align()), b, err)
	return b, err
}

// Deallocate logs and forwards.
func (l *Logged) Deallocate(b Block) {
	if !b.IsNull() {
		l.logger().Debug("deallocate",
			"allocator", l.name,
			"ptr", fmt.Sprintf("%p", b.ptr),
			"size", b.size)
	}
	l.inner.Deallocate(b)
}

func (l *Logged) report(op string, size, align uintptr, b Block, err error) {
	log := l.logger()
	if err != nil || b.IsNull() {
		if err == nil {
			err = ErrOutOfMemory
		}
		log.Warn(op+" failed",
			"allocator", l.name,
			"size", size,
			"align", align,
			"error", err)
		return
	}
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	log.Debug(op,
		"allocator", l.name,
		"ptr", fmt.Sprintf("%p", b.ptr),
		"size", size,
		"align", align)
}
