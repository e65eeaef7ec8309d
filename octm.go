// Package octm implements the OpenCTM container codec (spec.md): a context
// object that owns configuration (back-end method, quantization precisions,
// comment, UV/attribute map registries), binds caller-owned typed-array
// views for export, and dispatches Save/Load to the matching RAW/MG1/MG2
// back-end.
//
// # Basic usage
//
// Encoding a mesh:
//
//	ctx := octm.NewContext(octm.ModeExport)
//	ctx.SetVertexCount(4)
//	ctx.SetTriangleCount(2)
//	ctx.BindArray(format.TargetPositions, 3, format.F32, 0, positionBytes)
//	ctx.BindArray(format.TargetIndices, 3, format.U32, 0, indexBytes)
//	if err := ctx.Save(writeFunc); err != nil {
//	    log.Fatal(ctx.Error())
//	}
//
// Decoding a stream:
//
//	ctx := octm.NewContext(octm.ModeImport)
//	if err := ctx.Load(readFunc); err != nil {
//	    log.Fatal(ctx.Error())
//	}
//	positions := ctx.Positions() // array.View owned by ctx, valid until reuse
package octm

import (
	"math"

	"github.com/octmgo/octm/array"
	"github.com/octmgo/octm/codec/mg1"
	"github.com/octmgo/octm/codec/mg2"
	"github.com/octmgo/octm/codec/raw"
	"github.com/octmgo/octm/errs"
	"github.com/octmgo/octm/format"
	"github.com/octmgo/octm/internal/pool"
	"github.com/octmgo/octm/mesh"
	"github.com/octmgo/octm/section"
	"github.com/octmgo/octm/wire"
)

// Mode fixes a Context to either binding and writing a mesh (ModeExport) or
// reading one (ModeImport); configuration calls are export-only (spec.md
// §4.7).
type Mode uint8

const (
	ModeImport Mode = iota + 1
	ModeExport
)

// lifecycle is the FRESH -> CONFIGURED -> TERMINAL state machine from
// spec.md §4.7. A terminal Context may still answer query calls but rejects
// any further configuration or save/load.
type lifecycle uint8

const (
	lifecycleFresh lifecycle = iota
	lifecycleConfigured
	lifecycleTerminal
)

// Defaults from spec.md §6.
const (
	defaultVertexPrecision   float32 = 1.0 / 1024
	defaultNormalPrecision   float32 = 1.0 / 256
	defaultUVMapPrecision    float32 = 1.0 / 4096
	defaultAttribMapPrecision float32 = 1.0 / 256
	defaultCompressionLevel  int     = 1
)

// UVHandle addresses one UV map added via AddUVMap.
type UVHandle int

// AttribHandle addresses one attribute map added via AddAttribMap.
type AttribHandle int

// Context is the single stateful object the programmatic surface revolves
// around (spec.md §4.7, §6). It is not safe for concurrent use from more
// than one goroutine at a time (spec.md §5).
type Context struct {
	mode  Mode
	phase lifecycle
	err   format.ErrorCode

	method           format.Method
	compressionLevel int
	comment          string

	vertexPrecision    float32
	vertexPrecisionRel float32
	useRelPrecision    bool
	normalPrecision    float32

	vertexCount   int
	triangleCount int

	positions  array.View
	hasPositions bool
	indices    array.View
	hasIndices bool
	normals    array.View
	hasNormals bool

	uvRegistry     section.Registry
	uvViews        []array.View
	attribRegistry section.Registry
	attribViews    []array.View

	// m is populated at Save/Load time: for export it's built from the
	// fields above just before encoding, for import it's the back-end's
	// decode target and becomes the query surface afterward.
	m mesh.Mesh
}

// NewContext creates a Context in the given mode, in lifecycleFresh state,
// with the defaults spec.md §6 specifies.
func NewContext(mode Mode) *Context {
	return &Context{
		mode:             mode,
		phase:            lifecycleFresh,
		method:           format.MethodMG1,
		compressionLevel: defaultCompressionLevel,
		vertexPrecision:  defaultVertexPrecision,
		normalPrecision:  defaultNormalPrecision,
	}
}

// Error returns the sticky error code set by the last failing call, clearing
// it (spec.md §4.7).
func (c *Context) Error() format.ErrorCode {
	e := c.err
	c.err = format.ErrorNone

	return e
}

func (c *Context) fail(err error) error {
	c.err = errs.CodeOf(err)

	return err
}

// requireExportConfig rejects configuration calls outside export mode or
// after a terminal call (spec.md §4.7: "Configuration calls ... are only
// valid in export mode").
func (c *Context) requireExportConfig() error {
	if c.mode != ModeExport {
		return c.fail(errs.ErrInvalidOperation)
	}
	if c.phase == lifecycleTerminal {
		return c.fail(errs.ErrInvalidOperation)
	}

	return nil
}

// SetVertexCount sets the number of vertices the export will write.
func (c *Context) SetVertexCount(n int) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if n < 1 {
		return c.fail(errs.ErrInvalidArgument)
	}

	c.vertexCount = n
	c.phase = lifecycleConfigured

	return nil
}

// SetTriangleCount sets the number of triangles the export will write.
func (c *Context) SetTriangleCount(n int) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if n < 1 {
		return c.fail(errs.ErrInvalidArgument)
	}

	c.triangleCount = n
	c.phase = lifecycleConfigured

	return nil
}

// SetComment sets the container's free-text comment.
func (c *Context) SetComment(s string) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}

	c.comment = s
	c.phase = lifecycleConfigured

	return nil
}

// SetMethod selects the back-end Save will use. It has no effect on Load:
// decoding always dispatches on the stream's own header (spec.md §4.7).
func (c *Context) SetMethod(m format.Method) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	switch m {
	case format.MethodRaw, format.MethodMG1, format.MethodMG2:
	default:
		return c.fail(errs.ErrInvalidArgument)
	}

	c.method = m
	c.phase = lifecycleConfigured

	return nil
}

// SetCompressionLevel sets the LZMA level (0..9) MG1/MG2 compress with.
func (c *Context) SetCompressionLevel(level int) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if level < 0 || level > 9 {
		return c.fail(errs.ErrInvalidArgument)
	}

	c.compressionLevel = level
	c.phase = lifecycleConfigured

	return nil
}

// SetVertexPrecision sets MG2's absolute vertex quantization step directly,
// overriding any previous SetVertexPrecisionRel call.
func (c *Context) SetVertexPrecision(p float32) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if p <= 0 {
		return c.fail(errs.ErrInvalidArgument)
	}

	c.vertexPrecision = p
	c.useRelPrecision = false
	c.phase = lifecycleConfigured

	return nil
}

// SetVertexPrecisionRel sets MG2's vertex precision as a multiple of the
// mean edge length of the bound mesh, resolved at Save time once positions
// and indices are both bound (spec.md §6: "derives precision from mean edge
// length").
func (c *Context) SetVertexPrecisionRel(rel float32) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if rel <= 0 {
		return c.fail(errs.ErrInvalidArgument)
	}

	c.vertexPrecisionRel = rel
	c.useRelPrecision = true
	c.phase = lifecycleConfigured

	return nil
}

// SetNormalPrecision sets MG2's normal quantization step.
func (c *Context) SetNormalPrecision(p float32) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if p <= 0 {
		return c.fail(errs.ErrInvalidArgument)
	}

	c.normalPrecision = p
	c.phase = lifecycleConfigured

	return nil
}

// BindArray attaches caller-owned memory for one of the fixed-cardinality
// targets (positions, indices, normals). UV and attribute maps are bound
// per-handle via BindUVMap/BindAttribMap instead, since there can be many of
// them. The view aliases base; the codec never copies it (spec.md §5).
func (c *Context) BindArray(target format.Target, components int, elemType format.ElementType, stride int, base []byte) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}

	v, err := array.Bind(target, components, elemType, stride, base)
	if err != nil {
		return c.fail(err)
	}

	switch target {
	case format.TargetPositions:
		c.positions, c.hasPositions = v, true
	case format.TargetIndices:
		c.indices, c.hasIndices = v, true
	case format.TargetNormals:
		c.normals, c.hasNormals = v, true
	default:
		return c.fail(errs.ErrInvalidArgument)
	}

	c.phase = lifecycleConfigured

	return nil
}

// AddUVMap registers a new UV map with the default precision and returns its
// handle. filename may be empty.
func (c *Context) AddUVMap(name, filename string) (UVHandle, error) {
	if err := c.requireExportConfig(); err != nil {
		return 0, err
	}

	h, err := c.uvRegistry.Add(section.MapDescriptor{
		Name: name, Filename: filename, Precision: defaultUVMapPrecision, Components: 2,
	})
	if err != nil {
		return 0, c.fail(err)
	}
	c.uvViews = append(c.uvViews, array.View{})
	c.phase = lifecycleConfigured

	return UVHandle(h), nil
}

// BindUVMap attaches caller-owned memory to a UV map handle.
func (c *Context) BindUVMap(h UVHandle, elemType format.ElementType, stride int, base []byte) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if h < 0 || int(h) >= len(c.uvViews) {
		return c.fail(errs.ErrInvalidArgument)
	}

	v, err := array.Bind(format.TargetUVMap, 2, elemType, stride, base)
	if err != nil {
		return c.fail(err)
	}
	c.uvViews[h] = v
	c.phase = lifecycleConfigured

	return nil
}

// SetUVMapPrecision sets the quantization precision for an already-added UV
// map.
func (c *Context) SetUVMapPrecision(h UVHandle, precision float32) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if precision <= 0 {
		return c.fail(errs.ErrInvalidArgument)
	}

	d, ok := c.uvRegistry.Get(section.MapHandle(h))
	if !ok {
		return c.fail(errs.ErrInvalidArgument)
	}
	d.Precision = precision
	c.uvRegistry.Set(section.MapHandle(h), d)
	c.phase = lifecycleConfigured

	return nil
}

// NamedUVMap looks up a UV map handle by name.
func (c *Context) NamedUVMap(name string) (UVHandle, bool) {
	h, ok := c.uvRegistry.ByName(name)

	return UVHandle(h), ok
}

// AddAttribMap registers a new attribute map with the default precision and
// returns its handle. The component count (1..4) is fixed once BindAttribMap
// is called.
func (c *Context) AddAttribMap(name string) (AttribHandle, error) {
	if err := c.requireExportConfig(); err != nil {
		return 0, err
	}

	h, err := c.attribRegistry.Add(section.MapDescriptor{
		Name: name, Precision: defaultAttribMapPrecision,
	})
	if err != nil {
		return 0, c.fail(err)
	}
	c.attribViews = append(c.attribViews, array.View{})
	c.phase = lifecycleConfigured

	return AttribHandle(h), nil
}

// BindAttribMap attaches caller-owned memory to an attribute map handle.
// components (1..4) is the caller's logical view; the wire payload is
// always 4-wide (spec.md §3, §4.6.11).
func (c *Context) BindAttribMap(h AttribHandle, components int, elemType format.ElementType, stride int, base []byte) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if h < 0 || int(h) >= len(c.attribViews) {
		return c.fail(errs.ErrInvalidArgument)
	}

	v, err := array.Bind(format.TargetAttribMap, components, elemType, stride, base)
	if err != nil {
		return c.fail(err)
	}
	c.attribViews[h] = v

	d, _ := c.attribRegistry.Get(section.MapHandle(h))
	d.Components = components
	c.attribRegistry.Set(section.MapHandle(h), d)
	c.phase = lifecycleConfigured

	return nil
}

// SetAttribMapPrecision sets the quantization precision for an already-added
// attribute map.
func (c *Context) SetAttribMapPrecision(h AttribHandle, precision float32) error {
	if err := c.requireExportConfig(); err != nil {
		return err
	}
	if precision <= 0 {
		return c.fail(errs.ErrInvalidArgument)
	}

	d, ok := c.attribRegistry.Get(section.MapHandle(h))
	if !ok {
		return c.fail(errs.ErrInvalidArgument)
	}
	d.Precision = precision
	c.attribRegistry.Set(section.MapHandle(h), d)
	c.phase = lifecycleConfigured

	return nil
}

// NamedAttribMap looks up an attribute map handle by name.
func (c *Context) NamedAttribMap(name string) (AttribHandle, bool) {
	h, ok := c.attribRegistry.ByName(name)

	return AttribHandle(h), ok
}

// Property getters (spec.md §6's get_integer/get_float/get_string,
// expressed as typed Go methods instead of a generic property enum). In
// export mode the mesh getters (VertexCount, TriangleCount, HasNormals,
// Positions, Indices, Normals, UVMap, AttribMap) read the mesh that Save
// assembles from the bound arrays, so they return zero values until Save has
// run.

// Method returns the method Save will use (export) or the method the last
// Load decoded with (import).
func (c *Context) Method() format.Method { return c.method }

// VertexCount returns the bound/decoded vertex count.
func (c *Context) VertexCount() int { return c.m.VertexCount }

// TriangleCount returns the bound/decoded triangle count.
func (c *Context) TriangleCount() int { return c.m.TriangleCount }

// UVMapCount returns the number of UV maps.
func (c *Context) UVMapCount() int { return c.uvRegistry.Len() }

// AttribMapCount returns the number of attribute maps.
func (c *Context) AttribMapCount() int { return c.attribRegistry.Len() }

// HasNormals reports whether the mesh carries per-vertex normals.
func (c *Context) HasNormals() bool { return c.m.HasNormals }

// Comment returns the container's free-text comment.
func (c *Context) Comment() string { return c.comment }

// CompressionLevel returns the configured LZMA level.
func (c *Context) CompressionLevel() int { return c.compressionLevel }

// VertexPrecision returns the configured vertex precision. Meaningless for
// RAW/MG1, which are lossless. Load does not read it back from an MG2
// stream, so on an import Context it is the default value.
func (c *Context) VertexPrecision() float32 { return c.vertexPrecision }

// NormalPrecision returns the configured normal precision. Load does not
// read it back from an MG2 stream, so on an import Context it is the default
// value.
func (c *Context) NormalPrecision() float32 { return c.normalPrecision }

// Positions returns the decoded position view after a successful Load, or,
// during export, the bound position view once Save has run.
func (c *Context) Positions() array.View { return c.m.Positions }

// Indices returns the decoded/bound index view.
func (c *Context) Indices() array.View { return c.m.Indices }

// Normals returns the decoded/bound normal view. Only meaningful when
// HasNormals is true.
func (c *Context) Normals() array.View { return c.m.Normals }

// UVMap returns the decoded/bound view for the given UV map handle.
func (c *Context) UVMap(h UVHandle) (array.View, bool) {
	if h < 0 || int(h) >= len(c.m.UVMaps) {
		return array.View{}, false
	}

	return c.m.UVMaps[h].Values, true
}

// AttribMap returns the decoded/bound view for the given attribute map
// handle.
func (c *Context) AttribMap(h AttribHandle) (array.View, bool) {
	if h < 0 || int(h) >= len(c.m.AttribMaps) {
		return array.View{}, false
	}

	return c.m.AttribMaps[h].Values, true
}

// Save validates the bound mesh and writes it with the configured method
// (spec.md §4.4-§4.6). It is the terminal call for an export Context.
func (c *Context) Save(write wire.WriteFunc) error {
	if c.mode != ModeExport {
		return c.fail(errs.ErrInvalidOperation)
	}
	if c.phase == lifecycleTerminal {
		return c.fail(errs.ErrInvalidOperation)
	}
	if !c.hasPositions || !c.hasIndices {
		return c.fail(errs.ErrInvalidOperation)
	}

	uvDescs := c.uvRegistry.All()
	c.m.UVMaps = make([]mesh.UVMap, len(uvDescs))
	for i, d := range uvDescs {
		c.m.UVMaps[i] = mesh.UVMap{Name: d.Name, Filename: d.Filename, Precision: d.Precision, Values: c.uvViews[i]}
	}

	attribDescs := c.attribRegistry.All()
	c.m.AttribMaps = make([]mesh.AttribMap, len(attribDescs))
	for i, d := range attribDescs {
		c.m.AttribMaps[i] = mesh.AttribMap{Name: d.Name, Precision: d.Precision, Values: c.attribViews[i]}
	}

	c.m.VertexCount = c.vertexCount
	c.m.TriangleCount = c.triangleCount
	c.m.Positions = c.positions
	c.m.Indices = c.indices
	c.m.HasNormals = c.hasNormals
	c.m.Normals = c.normals

	vertexPrecision := c.vertexPrecision
	if c.useRelPrecision {
		if mean := meanEdgeLength(&c.m); mean > 0 {
			vertexPrecision = c.vertexPrecisionRel * mean
		}
	}

	if err := c.m.Validate(); err != nil {
		c.phase = lifecycleTerminal

		return c.fail(err)
	}

	hdr := section.Header{
		Version:        section.CurrentVersion,
		Method:         c.method,
		VertexCount:    uint32(c.m.VertexCount),
		TriangleCount:  uint32(c.m.TriangleCount),
		UVMapCount:     uint32(len(uvDescs)),
		AttribMapCount: uint32(len(attribDescs)),
		Comment:        c.comment,
	}
	hdr.SetHasNormals(c.m.HasNormals)

	// The common header, map-name table, and every section below are built
	// from many small PutU32/PutF32/PutFourCC calls; staging them in one
	// whole-mesh scratch buffer and flushing to the caller's write callback
	// once, instead of one callback invocation per primitive, is what
	// pool.GetMeshBuffer/PutMeshBuffer exists for.
	mb := pool.GetMeshBuffer()
	defer pool.PutMeshBuffer(mb)

	w := wire.NewWriter(func(p []byte) (int, error) {
		mb.MustWrite(p)

		return len(p), nil
	})

	if err := hdr.Write(w); err != nil {
		c.phase = lifecycleTerminal

		return c.fail(err)
	}
	if err := section.WriteMapNames(w, uvDescs, attribDescs); err != nil {
		c.phase = lifecycleTerminal

		return c.fail(err)
	}

	var encErr error
	switch c.method {
	case format.MethodRaw:
		encErr = raw.Encode(w, &c.m)
	case format.MethodMG1:
		encErr = mg1.Encode(w, &c.m, c.compressionLevel)
	case format.MethodMG2:
		encErr = mg2.Encode(w, &c.m, vertexPrecision, c.normalPrecision, c.compressionLevel)
	default:
		encErr = errs.ErrInternalError
	}

	c.phase = lifecycleTerminal
	if encErr != nil {
		return c.fail(encErr)
	}

	if n, err := write(mb.Bytes()); err != nil || n != mb.Len() {
		return c.fail(errs.ErrFileError)
	}

	return nil
}

// Load reads a stream's header and dispatches to the back-end the header's
// method field names (never the context's pre-set method, spec.md §4.7),
// allocating fresh owned backing storage sized from the header's counts. It
// is the terminal call for an import Context.
func (c *Context) Load(read wire.ReadFunc) error {
	if c.mode != ModeImport {
		return c.fail(errs.ErrInvalidOperation)
	}
	if c.phase == lifecycleTerminal {
		return c.fail(errs.ErrInvalidOperation)
	}

	r := wire.NewReader(read)

	hdr, err := section.ReadHeader(r)
	if err != nil {
		c.phase = lifecycleTerminal

		return c.fail(err)
	}

	uvDescs, attribDescs, err := section.ReadMapNames(r, hdr.UVMapCount, hdr.AttribMapCount)
	if err != nil {
		c.phase = lifecycleTerminal

		return c.fail(err)
	}

	vCount := int(hdr.VertexCount)
	tCount := int(hdr.TriangleCount)

	c.m = mesh.Mesh{
		VertexCount:   vCount,
		TriangleCount: tCount,
		HasNormals:    hdr.HasNormals(),
	}
	c.m.Positions = ownedView(format.TargetPositions, 3, vCount)
	c.m.Indices = ownedView(format.TargetIndices, 3, tCount)
	if c.m.HasNormals {
		c.m.Normals = ownedView(format.TargetNormals, 3, vCount)
	}

	c.m.UVMaps = make([]mesh.UVMap, len(uvDescs))
	for i, d := range uvDescs {
		c.m.UVMaps[i] = mesh.UVMap{Name: d.Name, Filename: d.Filename, Precision: d.Precision, Values: ownedView(format.TargetUVMap, 2, vCount)}
	}

	c.m.AttribMaps = make([]mesh.AttribMap, len(attribDescs))
	for i, d := range attribDescs {
		c.m.AttribMaps[i] = mesh.AttribMap{Name: d.Name, Precision: d.Precision, Values: ownedView(format.TargetAttribMap, 4, vCount)}
	}

	var decErr error
	switch hdr.Method {
	case format.MethodRaw:
		decErr = raw.Decode(r, &c.m)
	case format.MethodMG1:
		decErr = mg1.Decode(r, &c.m)
	case format.MethodMG2:
		decErr = mg2.Decode(r, &c.m)
	default:
		decErr = errs.ErrBadFormat
	}
	if decErr == nil {
		decErr = c.m.Validate()
	}

	c.method = hdr.Method
	c.comment = hdr.Comment
	c.uvRegistry = section.Registry{}
	for _, d := range uvDescs {
		_, _ = c.uvRegistry.Add(d)
	}
	c.attribRegistry = section.Registry{}
	for _, d := range attribDescs {
		_, _ = c.attribRegistry.Add(d)
	}

	c.phase = lifecycleTerminal
	if decErr != nil {
		return c.fail(decErr)
	}

	return nil
}

// ownedView allocates a tightly-packed f32 (or u32 for indices) backing
// buffer the codec itself owns, for the decode-target arrays a Load builds.
func ownedView(target format.Target, components, n int) array.View {
	elemType := format.F32
	if target == format.TargetIndices {
		elemType = format.U32
	}

	v, _ := array.Bind(target, components, elemType, 0, make([]byte, n*components*elemType.Size()))

	return v
}

// meanEdgeLength computes the mean triangle-edge length over m's bound
// positions and indices, used to resolve SetVertexPrecisionRel at Save time.
func meanEdgeLength(m *mesh.Mesh) float32 {
	if m.TriangleCount == 0 {
		return 0
	}

	var sum float64
	var count int

	for t := 0; t < m.TriangleCount; t++ {
		var p [3][3]float32
		for corner := 0; corner < 3; corner++ {
			idx := int(m.Indices.GetI(t, corner))
			for c := 0; c < 3; c++ {
				p[corner][c] = m.Positions.GetF(idx, c)
			}
		}

		for e := 0; e < 3; e++ {
			a, b := p[e], p[(e+1)%3]
			var sq float64
			for c := 0; c < 3; c++ {
				d := float64(a[c] - b[c])
				sq += d * d
			}
			sum += math.Sqrt(sq)
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return float32(sum / float64(count))
}
