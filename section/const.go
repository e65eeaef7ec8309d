// Package section implements the container framing above wire primitives:
// the common file header, the MG2-specific header, and the UV/attribute map
// registry (spec.md §4.2, §4.6.1, §9).
package section

import "github.com/octmgo/octm/wire"

const (
	// CurrentVersion is the on-wire format version this codec writes and the
	// only version it natively decodes (spec.md §4.2). A v5 stream would need
	// the separate transcoding shim spec.md §9 notes is out of scope here.
	CurrentVersion uint32 = 6
)

// Four-character section tags (spec.md §4.2).
var (
	TagOCTM = wire.FourCC("OCTM")
	TagVERT = wire.FourCC("VERT")
	TagINDX = wire.FourCC("INDX")
	TagNORM = wire.FourCC("NORM")
	TagTEXC = wire.FourCC("TEXC")
	TagATTR = wire.FourCC("ATTR")
	TagGIDX = wire.FourCC("GIDX")
	TagMG2H = wire.FourCC("MG2H")
)

// Flag bits within the common header's flags field (spec.md §4.2: "bit 0 =
// has-normals; other bits reserved 0").
const (
	FlagHasNormals uint32 = 1 << 0
)
