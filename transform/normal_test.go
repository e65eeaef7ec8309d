package transform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildFrameIsOrthonormal(t *testing.T) {
	smooth := [3]float32{0.267, 0.535, 0.802}
	f := BuildFrame(smooth)

	require.InDelta(t, 1.0, norm3(f.X), 1e-4)
	require.InDelta(t, 1.0, norm3(f.Y), 1e-4)
	require.InDelta(t, 1.0, norm3(f.Z), 1e-4)
	require.InDelta(t, 0.0, dot3(f.X, f.Y), 1e-4)
	require.InDelta(t, 0.0, dot3(f.Y, f.Z), 1e-4)
	require.InDelta(t, 0.0, dot3(f.X, f.Z), 1e-4)
}

func TestBuildFrameDegenerateFallsBackToZ(t *testing.T) {
	f := BuildFrame([3]float32{0, 0, 0})
	require.Equal(t, [3]float32{0, 0, 1}, f.Z)
}

func TestEncodeDecodeNormalRoundTrip(t *testing.T) {
	smooth := [3]float32{0, 0, 1}
	n0 := [3]float32{0.1, 0.2, 0.9747}
	precision := float32(1.0 / 1024)

	m, phi, theta := EncodeNormal(n0, smooth, precision)
	got := DecodeNormal(m, phi, theta, smooth, precision)

	require.InDelta(t, n0[0], got[0], 0.05)
	require.InDelta(t, n0[1], got[1], 0.05)
	require.InDelta(t, n0[2], got[2], 0.05)
}

func TestEncodeNormalAlignedWithPredictionHasZeroPhi(t *testing.T) {
	smooth := [3]float32{0, 0, 1}
	n0 := [3]float32{0, 0, 1}
	precision := float32(1.0 / 1024)

	m, phi, theta := EncodeNormal(n0, smooth, precision)
	require.Equal(t, int32(0), phi)
	require.Equal(t, int32(0), theta)
	require.InDelta(t, float64(1.0/precision), float64(m), 1)
}

func TestEncodeNormalOpposingPredictionNegatesMagnitude(t *testing.T) {
	smooth := [3]float32{0, 0, 1}
	n0 := [3]float32{0, 0, -1}
	precision := float32(1.0 / 1024)

	m, _, _ := EncodeNormal(n0, smooth, precision)
	require.Less(t, m, int32(0))
}
