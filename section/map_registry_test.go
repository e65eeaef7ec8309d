package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryAddAndLookup(t *testing.T) {
	var r Registry

	h1, err := r.Add(MapDescriptor{Name: "diffuse", Precision: 1.0 / 4096, Components: 2})
	require.NoError(t, err)

	h2, err := r.Add(MapDescriptor{Name: "color", Precision: 1.0 / 256, Components: 4})
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.Equal(t, 2, r.Len())

	got, ok := r.Get(h1)
	require.True(t, ok)
	require.Equal(t, "diffuse", got.Name)

	h, ok := r.ByName("color")
	require.True(t, ok)
	require.Equal(t, h2, h)
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	var r Registry
	_, err := r.Add(MapDescriptor{Name: "uv0", Components: 2})
	require.NoError(t, err)

	_, err = r.Add(MapDescriptor{Name: "uv0", Components: 2})
	require.Error(t, err)
}

func TestRegistryResetClearsMaps(t *testing.T) {
	var r Registry
	_, err := r.Add(MapDescriptor{Name: "uv0", Components: 2})
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())

	r.Reset()
	require.Equal(t, 0, r.Len())

	// Reusing a name after reset must succeed.
	_, err = r.Add(MapDescriptor{Name: "uv0", Components: 2})
	require.NoError(t, err)
}

func TestRegistryGetOutOfRange(t *testing.T) {
	var r Registry
	_, ok := r.Get(0)
	require.False(t, ok)
}
