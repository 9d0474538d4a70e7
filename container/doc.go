// Package container provides fixed-capacity containers whose element
// storage comes from a mem.Allocator.
//
// Fixed is an array whose length is chosen at construction. Stack is a
// bounded LIFO whose Push reports a full stack by returning nil instead of
// growing. Neither type reallocates after construction, so pointers returned
// by Index, Push and Top stay valid until the element is removed or the
// container is released.
//
// Elements implementing mem.Disposer are disposed when they are removed and
// when the container is released.
package container
