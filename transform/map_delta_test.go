package transform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapDeltasRoundTrip(t *testing.T) {
	values := [][4]float32{
		{0.1, 0.2, 0, 0},
		{0.3, 0.2, 0, 0},
		{0.3, 0.9, 0, 0},
	}
	precision := float32(1.0 / 4096)

	deltas := MapDeltas(values, 2, precision)
	require.Len(t, deltas, 6)

	got := InverseMapDeltas(deltas, 2, precision)
	for i := range values {
		require.InDelta(t, values[i][0], got[i][0], float64(precision))
		require.InDelta(t, values[i][1], got[i][1], float64(precision))
	}
}

func TestMapDeltasFourComponentAttribute(t *testing.T) {
	values := [][4]float32{
		{1, 1, 1, 1},
		{0.5, 0.5, 0.5, 0.5},
	}
	precision := float32(1.0 / 255)

	deltas := MapDeltas(values, 4, precision)
	got := InverseMapDeltas(deltas, 4, precision)

	for i := range values {
		for c := 0; c < 4; c++ {
			require.InDelta(t, values[i][c], got[i][c], float64(precision))
		}
	}
}
