package npy

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/binvec/dataset"
	"github.com/hupe1980/binvec/testutil"
)

func TestHeader_MarshalBinary(t *testing.T) {
	pre, err := Header{Descr: "<i4", Shape: []int{2, 3}}.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, 0, len(pre)%Alignment)
	assert.Equal(t, Magic, string(pre[:6]))
	assert.Equal(t, []byte{1, 0}, pre[6:8])
	assert.Equal(t, len(pre)-10, int(binary.LittleEndian.Uint16(pre[8:10])))

	dict := string(pre[10:])
	assert.True(t, strings.HasPrefix(dict, "{'descr': '<i4', 'fortran_order': False, 'shape': (2, 3), }"))
	assert.True(t, strings.HasSuffix(dict, " \n"))
}

func TestHeader_Shapes(t *testing.T) {
	assert.Equal(t, "()", formatShape(nil))
	assert.Equal(t, "(5,)", formatShape([]int{5}))
	assert.Equal(t, "(0, 128)", formatShape([]int{0, 128}))
}

func TestHeader_NegativeDimension(t *testing.T) {
	_, err := Header{Descr: "<f4", Shape: []int{-1, 2}}.MarshalBinary()
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestHeader_Version2(t *testing.T) {
	shape := make([]int, 30000)
	for i := range shape {
		shape[i] = 1
	}
	pre, err := Header{Descr: "|i1", Shape: shape}.MarshalBinary()
	require.NoError(t, err)

	assert.Equal(t, byte(2), pre[6])
	assert.Equal(t, 0, len(pre)%Alignment)
	assert.Equal(t, len(pre)-12, int(binary.LittleEndian.Uint32(pre[8:12])))

	h, err := ReadHeader(bytes.NewReader(pre))
	require.NoError(t, err)
	assert.Equal(t, shape, h.Shape)
}

func TestWriteRead_Matrix(t *testing.T) {
	m, err := dataset.NewMatrix(2, 3, []int8{1, 2, 3, 4, 5, -6})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := WriteMatrix(&buf, m)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	assert.Equal(t, int64(2*Alignment+6), n)

	a, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "|i1", a.Descr)
	assert.False(t, a.FortranOrder)
	assert.Equal(t, []int{2, 3}, a.Shape)

	got, err := ToMatrix[int8](a)
	require.NoError(t, err)
	assert.Equal(t, m.Data, got.Data)

	_, err = ToMatrix[int32](a)
	assert.Error(t, err)
}

func TestWriteRead_Random(t *testing.T) {
	rng := testutil.NewRNG(99)
	q, err := dataset.NewMatrix(17, 33, rng.Int32s(17*33, 1<<30))
	require.NoError(t, err)
	d, err := dataset.NewMatrix(17, 33, rng.Float32s(17*33, 10))
	require.NoError(t, err)

	var qb, db bytes.Buffer
	_, err = WriteMatrix(&qb, q)
	require.NoError(t, err)
	_, err = WriteMatrix(&db, d)
	require.NoError(t, err)

	qa, err := Read(&qb)
	require.NoError(t, err)
	qm, err := ToMatrix[int32](qa)
	require.NoError(t, err)
	assert.Equal(t, q.Data, qm.Data)

	da, err := Read(&db)
	require.NoError(t, err)
	assert.Equal(t, "<f4", da.Descr)
	dm, err := ToMatrix[float32](da)
	require.NoError(t, err)
	assert.Equal(t, d.Data, dm.Data)
}

func TestWrite_SizeMismatch(t *testing.T) {
	_, err := Write(&bytes.Buffer{}, "<i4", []int{2, 2}, make([]byte, 8))
	assert.Error(t, err)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("NOTNUMPY"))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = Read(strings.NewReader(Magic + "\x09\x00"))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	dict := "{'descr': '<i4', 'shape': (1,), }\n"
	raw := append([]byte(Magic+"\x01\x00"), byte(len(dict)), 0)
	_, err = Read(bytes.NewReader(append(raw, dict...)))
	assert.ErrorIs(t, err, ErrBadHeader)

	var buf bytes.Buffer
	_, err = Write(&buf, "<i4", []int{4}, make([]byte, 16))
	require.NoError(t, err)
	_, err = Read(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRead_OversizedShape(t *testing.T) {
	pre, err := Header{Descr: "<f4", Shape: []int{1 << 20, 1 << 20}}.MarshalBinary()
	require.NoError(t, err)

	_, err = Read(bytes.NewReader(append(pre, make([]byte, 32)...)))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "32 of 4398046511104 bytes")
}

func TestZip_RoundTrip(t *testing.T) {
	idx, err := dataset.NewMatrix(1, 2, []int32{7, 9})
	require.NoError(t, err)
	dist, err := dataset.NewMatrix(1, 2, []float32{0.5, 1.5})
	require.NoError(t, err)

	for _, compressed := range []bool{false, true} {
		var buf bytes.Buffer
		z := NewZipWriter(&buf, compressed)
		_, err = WriteEntry(z, "indices", idx)
		require.NoError(t, err)
		_, err = WriteEntry(z, "distances.npy", dist)
		require.NoError(t, err)
		require.NoError(t, z.Close())

		arrays, err := ReadZip(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		require.NoError(t, err)
		assert.Equal(t, []string{"distances", "indices"}, Names(arrays))

		gotIdx, err := ToMatrix[int32](arrays["indices"])
		require.NoError(t, err)
		assert.Equal(t, []int32{7, 9}, gotIdx.Data)

		gotDist, err := ToMatrix[float32](arrays["distances"])
		require.NoError(t, err)
		assert.Equal(t, []float32{0.5, 1.5}, gotDist.Data)
	}
}
