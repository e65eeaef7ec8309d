package section

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMG2HeaderRoundTrip(t *testing.T) {
	h := MG2Header{
		VertexPrecision: 1.0 / 1024,
		NormalPrecision: 1.0 / 256,
		Min:             [3]float32{-1, -1, -1},
		Max:             [3]float32{1, 1, 1},
		Div:             [3]uint32{4, 4, 4},
	}

	var buf bytes.Buffer
	require.NoError(t, h.Write(writerTo(&buf)))

	got, err := ReadMG2Header(readerFrom(&buf))
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestMG2HeaderCellSize(t *testing.T) {
	h := MG2Header{Min: [3]float32{0, 0, 0}, Max: [3]float32{2, 4, 8}, Div: [3]uint32{2, 4, 8}}
	size := h.CellSize()
	require.Equal(t, [3]float32{1, 1, 1}, size)
}

func TestReadMG2HeaderRejectsInvalidDivisions(t *testing.T) {
	h := MG2Header{
		VertexPrecision: 1, NormalPrecision: 1,
		Min: [3]float32{0, 0, 0}, Max: [3]float32{1, 1, 1},
		Div: [3]uint32{0, 1, 1},
	}
	var buf bytes.Buffer
	require.NoError(t, h.Write(writerTo(&buf)))

	_, err := ReadMG2Header(readerFrom(&buf))
	require.Error(t, err)
}

func TestReadMG2HeaderRejectsMaxLessThanMin(t *testing.T) {
	h := MG2Header{
		VertexPrecision: 1, NormalPrecision: 1,
		Min: [3]float32{1, 0, 0}, Max: [3]float32{0, 1, 1},
		Div: [3]uint32{1, 1, 1},
	}
	var buf bytes.Buffer
	require.NoError(t, h.Write(writerTo(&buf)))

	_, err := ReadMG2Header(readerFrom(&buf))
	require.Error(t, err)
}

func TestReadMG2HeaderRejectsNonPositivePrecision(t *testing.T) {
	h := MG2Header{
		VertexPrecision: 0, NormalPrecision: 1,
		Min: [3]float32{0, 0, 0}, Max: [3]float32{1, 1, 1},
		Div: [3]uint32{1, 1, 1},
	}
	var buf bytes.Buffer
	require.NoError(t, h.Write(writerTo(&buf)))

	_, err := ReadMG2Header(readerFrom(&buf))
	require.Error(t, err)
}
