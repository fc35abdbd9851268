package face

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingSet_RoundTrip(t *testing.T) {
	sets := []EmbeddingSet{
		{},
		{{0.1, -0.2, 0.3}},
		{{1, 2}, {3, 4}, {math.MaxFloat64, -math.SmallestNonzeroFloat64}},
	}

	for _, set := range sets {
		data, err := set.MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, "NVFE", string(data[:4]))

		var got EmbeddingSet
		require.NoError(t, got.UnmarshalBinary(data))
		assert.Equal(t, len(set), len(got))
		for i := range set {
			assert.Equal(t, set[i], got[i])
		}
	}
}

func TestEmbeddingSet_HeaderLayout(t *testing.T) {
	data, err := EmbeddingSet{{1, 2, 3}, {4, 5, 6}}.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(data[4:6]))
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(data[6:10]))
	assert.Equal(t, uint32(3), binary.BigEndian.Uint32(data[10:14]))
	assert.Len(t, data, setHeaderSize+2*3*8)
}

func TestSetHeader_mapper(t *testing.T) {
	var buf bytes.Buffer
	h := setHeader{magic: setMagic, version: setVersion, count: 7, dim: 128}
	require.NoError(t, h.mapper().Write(&buf, binary.BigEndian))
	assert.Equal(t, setHeaderSize, buf.Len())

	var got setHeader
	require.NoError(t, got.mapper().Read(&buf, binary.BigEndian))
	assert.Equal(t, h, got)
}

func TestEmbeddingSet_UnmarshalForgedCount(t *testing.T) {
	var buf bytes.Buffer
	h := setHeader{magic: setMagic, version: setVersion, count: 1 << 31, dim: 1 << 31}
	require.NoError(t, h.mapper().Write(&buf, binary.BigEndian))

	var set EmbeddingSet
	assert.ErrorIs(t, set.UnmarshalBinary(buf.Bytes()), ErrInvalidEncoding)
}

func TestEmbeddingSet_MarshalRejectsMixedDimensions(t *testing.T) {
	_, err := EmbeddingSet{{1, 2}, {1}}.MarshalBinary()
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEmbeddingSet_UnmarshalInvalid(t *testing.T) {
	valid, err := EmbeddingSet{{1, 2}}.MarshalBinary()
	require.NoError(t, err)

	badMagic := append([]byte{}, valid...)
	badMagic[0] = 'X'

	badVersion := append([]byte{}, valid...)
	binary.BigEndian.PutUint16(badVersion[4:6], 9)

	countWithoutDim := append([]byte{}, valid[:setHeaderSize]...)
	binary.BigEndian.PutUint32(countWithoutDim[10:14], 0)

	tests := map[string][]byte{
		"empty":             nil,
		"short header":      valid[:5],
		"bad magic":         badMagic,
		"unknown version":   badVersion,
		"truncated body":    valid[:len(valid)-1],
		"trailing bytes":    append(append([]byte{}, valid...), 0),
		"count without dim": countWithoutDim,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			var set EmbeddingSet
			assert.ErrorIs(t, set.UnmarshalBinary(data), ErrInvalidEncoding)
		})
	}
}
