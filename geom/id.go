package geom

import (
	"fmt"
	"sync/atomic"
	"time"
)

// ID is an opaque 128-bit identity token. Two buffers never share an ID
// unless one was built by literally copying the other's ID field; identity
// is provenance-based, not a content hash.
type ID struct {
	hi uint64
	lo uint64
}

var idCounter atomic.Uint64

// processSalt distinguishes IDs minted by distinct process runs even if
// the counter restarts at zero.
var processSalt = uint64(time.Now().UnixNano())

func newID() ID {
	return ID{hi: processSalt, lo: idCounter.Add(1)}
}

func (id ID) String() string {
	return fmt.Sprintf("%016x%016x", id.hi, id.lo)
}

// IsZero reports whether id is the zero value (never returned by newID).
func (id ID) IsZero() bool {
	return id.hi == 0 && id.lo == 0
}
