package own

// ErrKind classifies wrapper errors.
type ErrKind int

const (
	KindNullPointer ErrKind = iota + 1 // checked access on a null handle
	KindAllocation                     // the allocator could not provide storage
	KindConstruct                      // the value initializer failed
	KindConversion                     // derived type does not implement the base
)

func (k ErrKind) String() string {
	switch k {
	case KindNullPointer:
		return "null pointer"
	case KindAllocation:
		return "allocation failure"
	case KindConstruct:
		return "construction failed"
	case KindConversion:
		return "bad conversion"
	default:
		return "unknown"
	}
}

// Error is a wrapper error. Wrapper names the wrapper type that raised it.
type Error struct {
	Kind    ErrKind
	Wrapper string
	Msg     string
	Err     error // optional underlying cause
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Wrapper != "" {
		msg = e.Wrapper + ": " + msg
	}
	if e.Err != nil {
		return "own: " + msg + ": " + e.Err.Error()
	}
	return "own: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels below regardless of wrapper and cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Wrapper != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

var (
	// ErrNullPointer is returned by Ref on a null handle.
	ErrNullPointer = &Error{Kind: KindNullPointer, Msg: "null pointer"}
	// ErrAllocation is returned when the allocator fails during construction.
	// The allocator's error is kept as the cause.
	ErrAllocation = &Error{Kind: KindAllocation, Msg: "allocation failure"}
	// ErrConstruct is returned when an initializer fails. Storage is released first.
	ErrConstruct = &Error{Kind: KindConstruct, Msg: "construction failed"}
	// ErrConversion is returned by NewSharedAs when *D does not implement the base.
	ErrConversion = &Error{Kind: KindConversion, Msg: "bad conversion"}
)

func nullPointer(wrapper string) *Error {
	return &Error{Kind: KindNullPointer, Wrapper: wrapper, Msg: "null pointer"}
}
