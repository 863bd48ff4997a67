package heap

import "errors"

// ErrOutOfMemory is returned by Alloc when the heap cannot satisfy a
// request even after a full collection. It is the only client-facing
// error the collector raises (spec.md §7) — non-fatal at this layer, the
// caller decides how to respond.
var ErrOutOfMemory = errors.New("heap: out of memory")
