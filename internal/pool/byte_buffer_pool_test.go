package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, len(bb.B))
	assert.Equal(t, 1024, cap(bb.B))
}

func TestByteBufferMustWriteAndReset(t *testing.T) {
	bb := NewByteBuffer(SectionBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	bb.MustWrite([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.B)

	bb.Reset()
	assert.Equal(t, 0, bb.Len())
}

func TestByteBufferWrite(t *testing.T) {
	bb := NewByteBuffer(SectionBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, bb.Len())
}

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(SectionBufferDefaultSize)
	bb.MustWrite([]byte("test data"))

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

type errorWriter struct{ err error }

func (ew *errorWriter) Write(p []byte) (int, error) { return 0, ew.err }

func TestByteBufferWriteToPropagatesError(t *testing.T) {
	bb := NewByteBuffer(SectionBufferDefaultSize)
	bb.MustWrite([]byte("test"))

	_, err := bb.WriteTo(&errorWriter{err: io.ErrShortWrite})
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestByteBufferGrowSufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(SectionBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(100)
	assert.Equal(t, originalCap, cap(bb.B))
}

func TestByteBufferGrowReallocatesAndPreservesData(t *testing.T) {
	bb := NewByteBuffer(SectionBufferDefaultSize)
	data := []byte("important data that must be preserved")
	bb.MustWrite(data)

	bb.Grow(SectionBufferDefaultSize * 2)

	assert.GreaterOrEqual(t, cap(bb.B), SectionBufferDefaultSize*2)
	assert.Equal(t, data, bb.B)
}

func TestByteBufferExtendAndSetLength(t *testing.T) {
	bb := NewByteBuffer(16)

	ok := bb.Extend(8)
	assert.True(t, ok)
	assert.Equal(t, 8, bb.Len())

	bb.SetLength(4)
	assert.Equal(t, 4, bb.Len())
}

func TestByteBufferPoolCustomSizes(t *testing.T) {
	tests := []struct {
		name         string
		defaultSize  int
		maxThreshold int
	}{
		{"Small pool", 1024, 4096},
		{"Medium pool", 16384, 131072},
		{"No threshold", 8192, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewByteBufferPool(tt.defaultSize, tt.maxThreshold)
			bb := p.Get()
			assert.GreaterOrEqual(t, cap(bb.B), tt.defaultSize)
			p.Put(bb)
		})
	}
}

func TestByteBufferPoolDiscardsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)

	bb := p.Get()
	bb.Grow(10000)
	require.Greater(t, cap(bb.B), 4096)

	p.Put(bb)

	bb2 := p.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2)
}

func TestGetPutSectionBufferResets(t *testing.T) {
	bb := GetSectionBuffer()
	bb.MustWrite([]byte("sensitive"))

	PutSectionBuffer(bb)
	assert.Equal(t, 0, len(bb.B))

	bb2 := GetSectionBuffer()
	assert.Equal(t, 0, len(bb2.B))
	assert.GreaterOrEqual(t, cap(bb2.B), SectionBufferDefaultSize)
	PutSectionBuffer(bb2)
}

func TestPutSectionBufferNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { PutSectionBuffer(nil) })
}

func TestGetMeshBufferDefaultSize(t *testing.T) {
	bb := GetMeshBuffer()
	defer PutMeshBuffer(bb)

	assert.GreaterOrEqual(t, cap(bb.B), MeshBufferDefaultSize)
}

func TestSectionAndMeshPoolsAreIndependent(t *testing.T) {
	section := GetSectionBuffer()
	mesh := GetMeshBuffer()

	assert.NotEqual(t, cap(section.B), cap(mesh.B))

	PutSectionBuffer(section)
	PutMeshBuffer(mesh)
}

func TestSectionBufferPoolConcurrentAccess(t *testing.T) {
	const goroutines = 32
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bb := GetSectionBuffer()
				bb.MustWrite([]byte("data"))
				PutSectionBuffer(bb)
			}
		}()
	}

	wg.Wait()
}
