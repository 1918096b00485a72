package geom

// Flags is a bitset of derived geometry properties. Flags are computed by
// the constructors and RecomputeBounds, never set directly.
type Flags uint8

const (
	HasZ Flags = 1 << iota
	HasM
	IsEmpty
	HasRect
	HasSrid
)

// Has reports whether all bits in f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }
