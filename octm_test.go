package octm

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/octmgo/octm/format"
	"github.com/stretchr/testify/require"
)

func f32Buf(values ...float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	return buf
}

func u32Buf(values ...uint32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}

	return buf
}

func readerFrom(data []byte) func([]byte) (int, error) {
	pos := 0

	return func(p []byte) (int, error) {
		n := copy(p, data[pos:])
		pos += n

		return n, nil
	}
}

// Scenario 1 (spec.md §8): a triangle encoded with RAW produces the exact
// byte layout the conformance suite inspects.
func TestSaveRawProducesExactByteLayout(t *testing.T) {
	ctx := NewContext(ModeExport)
	require.NoError(t, ctx.SetMethod(format.MethodRaw))
	require.NoError(t, ctx.SetVertexCount(3))
	require.NoError(t, ctx.SetTriangleCount(1))
	require.NoError(t, ctx.BindArray(format.TargetPositions, 3, format.F32, 0,
		f32Buf(0, 0, 0, 1, 0, 0, 0, 1, 0)))
	require.NoError(t, ctx.BindArray(format.TargetIndices, 3, format.U32, 0,
		u32Buf(0, 1, 2)))

	var buf bytes.Buffer
	require.NoError(t, ctx.Save(func(p []byte) (int, error) { return buf.Write(p) }))

	var want bytes.Buffer
	want.WriteString("OCTM")
	want.Write(u32Buf(6))
	want.WriteString("RAW\x00")
	want.Write(u32Buf(3)) // vertex_count
	want.Write(u32Buf(1)) // triangle_count
	want.Write(u32Buf(0)) // uv_map_count
	want.Write(u32Buf(0)) // attrib_map_count
	want.Write(u32Buf(0)) // flags
	want.Write(u32Buf(0)) // comment length
	want.WriteString("INDX")
	want.Write(u32Buf(0, 1, 2))
	want.WriteString("VERT")
	want.Write(f32Buf(0, 0, 0, 1, 0, 0, 0, 1, 0))

	require.Equal(t, want.Bytes(), buf.Bytes())
}

// Scenario 2 (spec.md §8): MG1 round-trips a mesh already in canonical
// corner order bitwise.
func TestSaveLoadMG1RoundTripExact(t *testing.T) {
	ctx := NewContext(ModeExport)
	require.NoError(t, ctx.SetMethod(format.MethodMG1))
	require.NoError(t, ctx.SetCompressionLevel(1))
	require.NoError(t, ctx.SetVertexCount(3))
	require.NoError(t, ctx.SetTriangleCount(1))
	require.NoError(t, ctx.BindArray(format.TargetPositions, 3, format.F32, 0,
		f32Buf(0, 0, 0, 1, 0, 0, 0, 1, 0)))
	require.NoError(t, ctx.BindArray(format.TargetIndices, 3, format.U32, 0,
		u32Buf(0, 1, 2)))

	var buf bytes.Buffer
	require.NoError(t, ctx.Save(func(p []byte) (int, error) { return buf.Write(p) }))

	dst := NewContext(ModeImport)
	require.NoError(t, dst.Load(readerFrom(buf.Bytes())))

	require.Equal(t, format.MethodMG1, dst.Method())
	require.Equal(t, 3, dst.VertexCount())
	require.Equal(t, 1, dst.TriangleCount())

	for c := 0; c < 3; c++ {
		require.Equal(t, uint32(c), dst.Indices().GetI(0, c))
	}

	wantPositions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for v := 0; v < 3; v++ {
		for c := 0; c < 3; c++ {
			require.Equal(t, wantPositions[v][c], dst.Positions().GetF(v, c))
		}
	}
}

func unitCube() (positions []float32, indices []uint32, normals []float32) {
	// An axis-aligned unit cube, 8 vertices, 12 triangles (2 per face),
	// each vertex normal pointing away from the cube center.
	corners := [8][3]float32{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	for _, c := range corners {
		positions = append(positions, c[0], c[1], c[2])
		n := [3]float32{c[0]*2 - 1, c[1]*2 - 1, c[2]*2 - 1}
		var mag float32
		for _, v := range n {
			mag += v * v
		}
		mag = float32(math.Sqrt(float64(mag)))
		if mag == 0 {
			mag = 1
		}
		normals = append(normals, n[0]/mag, n[1]/mag, n[2]/mag)
	}

	faces := [6][4]uint32{
		{0, 1, 2, 3}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	}
	for _, f := range faces {
		indices = append(indices, f[0], f[1], f[2])
		indices = append(indices, f[0], f[2], f[3])
	}

	return positions, indices, normals
}

// Scenario 3 (spec.md §8): MG2 round-trips a quantized unit cube within its
// configured precisions and never flips a normal's sign.
func TestSaveLoadMG2WithinPrecision(t *testing.T) {
	positions, indices, normals := unitCube()

	ctx := NewContext(ModeExport)
	require.NoError(t, ctx.SetMethod(format.MethodMG2))
	require.NoError(t, ctx.SetVertexCount(8))
	require.NoError(t, ctx.SetTriangleCount(12))
	require.NoError(t, ctx.SetVertexPrecision(1.0/1024))
	require.NoError(t, ctx.SetNormalPrecision(1.0/256))
	require.NoError(t, ctx.BindArray(format.TargetPositions, 3, format.F32, 0, f32Buf(positions...)))
	require.NoError(t, ctx.BindArray(format.TargetIndices, 3, format.U32, 0, u32Buf(indices...)))
	require.NoError(t, ctx.BindArray(format.TargetNormals, 3, format.F32, 0, f32Buf(normals...)))

	var buf bytes.Buffer
	require.NoError(t, ctx.Save(func(p []byte) (int, error) { return buf.Write(p) }))

	dst := NewContext(ModeImport)
	require.NoError(t, dst.Load(readerFrom(buf.Bytes())))

	require.Equal(t, format.MethodMG2, dst.Method())
	require.True(t, dst.HasNormals())

	// Load returns vertices in MG2's grid-sorted order. The unit cube gets
	// 4x4x4 divisions, which puts corners 0..7 in cells 0, 3, 15, 12, 48, 51,
	// 63 and 60, so decoded vertex v is source corner sortedOrder[v].
	sortedOrder := []int{0, 1, 3, 2, 4, 5, 7, 6}

	for v := 0; v < 8; v++ {
		o := sortedOrder[v]
		for c := 0; c < 3; c++ {
			want := positions[o*3+c]
			got := dst.Positions().GetF(v, c)
			require.InDelta(t, want, got, 1.0/1024)
		}

		var dot float32
		for c := 0; c < 3; c++ {
			dot += normals[o*3+c] * dst.Normals().GetF(v, c)
		}
		require.GreaterOrEqual(t, dot, float32(0))
	}
}

// Scenario 4 (spec.md §8): a stream with an unrecognized method FOURCC
// fails BAD_FORMAT without touching caller memory, since Load allocates its
// own decode buffers and only the header has been parsed.
func TestLoadRejectsUnknownMethodFourCC(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("OCTM")
	buf.Write(u32Buf(6))
	buf.WriteString("XYZ\x00")
	buf.Write(u32Buf(3, 1, 0, 0, 0, 0))

	ctx := NewContext(ModeImport)
	err := ctx.Load(readerFrom(buf.Bytes()))
	require.Error(t, err)
	require.Equal(t, format.ErrorBadFormat, ctx.Error())
}

// Scenario 5 (spec.md §8): vertex_count = 0 fails BAD_FORMAT.
func TestLoadRejectsZeroVertexCount(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("OCTM")
	buf.Write(u32Buf(6))
	buf.WriteString("RAW\x00")
	buf.Write(u32Buf(0, 1, 0, 0, 0, 0))

	ctx := NewContext(ModeImport)
	err := ctx.Load(readerFrom(buf.Bytes()))
	require.Error(t, err)
	require.Equal(t, format.ErrorBadFormat, ctx.Error())
}

// Scenario 6 (spec.md §8): an out-of-range index fails INVALID_MESH at
// Save.
func TestSaveRejectsOutOfRangeIndex(t *testing.T) {
	ctx := NewContext(ModeExport)
	require.NoError(t, ctx.SetVertexCount(3))
	require.NoError(t, ctx.SetTriangleCount(1))
	require.NoError(t, ctx.BindArray(format.TargetPositions, 3, format.F32, 0,
		f32Buf(0, 0, 0, 1, 0, 0, 0, 1, 0)))
	require.NoError(t, ctx.BindArray(format.TargetIndices, 3, format.U32, 0,
		u32Buf(0, 1, 5)))

	err := ctx.Save(func(p []byte) (int, error) { return len(p), nil })
	require.Error(t, err)
	require.Equal(t, format.ErrorInvalidMesh, ctx.Error())
}

// Configuration calls are only valid in export mode, and are rejected after
// the context has gone terminal (spec.md §4.7).
func TestConfigurationRejectedOutsideExportOrAfterTerminal(t *testing.T) {
	importCtx := NewContext(ModeImport)
	err := importCtx.SetVertexCount(3)
	require.Error(t, err)
	require.Equal(t, format.ErrorInvalidOperation, importCtx.Error())

	exportCtx := NewContext(ModeExport)
	require.NoError(t, exportCtx.SetVertexCount(3))
	require.NoError(t, exportCtx.SetTriangleCount(1))
	require.NoError(t, exportCtx.BindArray(format.TargetPositions, 3, format.F32, 0,
		f32Buf(0, 0, 0, 1, 0, 0, 0, 1, 0)))
	require.NoError(t, exportCtx.BindArray(format.TargetIndices, 3, format.U32, 0,
		u32Buf(0, 1, 2)))
	require.NoError(t, exportCtx.Save(func(p []byte) (int, error) { return len(p), nil }))

	err = exportCtx.SetComment("too late")
	require.Error(t, err)
	require.Equal(t, format.ErrorInvalidOperation, exportCtx.Error())
}

// Reading the error clears it (spec.md §4.7: "Reading the error returns it
// and clears it").
func TestErrorClearsOnRead(t *testing.T) {
	ctx := NewContext(ModeImport)
	require.Error(t, ctx.SetVertexCount(3))
	require.Equal(t, format.ErrorInvalidOperation, ctx.Error())
	require.Equal(t, format.ErrorNone, ctx.Error())
}

// Named UV/attribute map lookups resolve the handle a prior Add call
// returned.
func TestNamedMapLookup(t *testing.T) {
	ctx := NewContext(ModeExport)
	h, err := ctx.AddUVMap("diffuse", "")
	require.NoError(t, err)

	got, ok := ctx.NamedUVMap("diffuse")
	require.True(t, ok)
	require.Equal(t, h, got)

	_, ok = ctx.NamedUVMap("missing")
	require.False(t, ok)
}
