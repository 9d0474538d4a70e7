// Package own provides ownership wrappers over the mem allocator contract.
//
// # Wrappers
//
//   - Unique: exclusive ownership; move only
//   - Shared: reference-counted aliases, with owner introspection and early Destroy
//   - Persistent: reference-counted aliases whose default construction is never null
//
// Every wrapper stores its value in a block obtained from a mem.Allocator and
// returns that block when the last claim is released. Values implementing
// mem.Disposer have Dispose called first.
//
// # Usage
//
//	u, err := own.NewUnique(a, 7)
//	if err != nil {
//	    return err
//	}
//	defer u.Release()
//
//	v := u.Move() // u is now null
//	fmt.Println(*v.Deref())
//
// Shared handles alias one value through a control block:
//
//	s, _ := own.NewShared(a, Config{Name: "x"})
//	s2 := s.Clone()      // RefCount() == 2
//	s2.Destroy()         // RefCount() == 1
//	s.Release()          // value disposed and freed
//
// # Copies
//
// Go cannot forbid copying a struct. Wrappers are handled through pointers and
// carry a noCopy marker so go vet reports accidental value copies. Copying a
// wrapper by value bypasses the reference count.
//
// # Thread Safety
//
// Wrappers are not thread-safe. An alias group must not be used from more
// than one goroutine without external synchronization.
package own
