package format

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knestlabs/knest/pkg/crypto"
)

func testHeader(t *testing.T) Header {
	t.Helper()

	kdf, err := crypto.NewKdfParams(65536, 3, 2)
	require.NoError(t, err)

	h, err := New(kdf, bytes.Repeat([]byte{1}, crypto.SaltLen), bytes.Repeat([]byte{2}, crypto.NonceLen))
	require.NoError(t, err)
	return h
}

func TestHeaderRoundtrip(t *testing.T) {
	t.Parallel()

	h := testHeader(t)

	raw, err := h.Bytes()
	require.NoError(t, err)
	require.Len(t, raw, HeaderLenV1)

	parsed, consumed, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, HeaderLenV1, consumed)
	assert.Equal(t, h, parsed)
}

func TestHeaderWireLayout(t *testing.T) {
	t.Parallel()

	h := testHeader(t)
	raw, err := h.Bytes()
	require.NoError(t, err)

	assert.Equal(t, []byte("KNST"), raw[0:4])
	assert.Equal(t, uint8(1), raw[4])
	assert.Equal(t, uint32(65536), binary.LittleEndian.Uint32(raw[5:9]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(raw[9:13]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(raw[13:17]))
	assert.Equal(t, bytes.Repeat([]byte{1}, 16), raw[17:33])
	assert.Equal(t, bytes.Repeat([]byte{2}, 24), raw[33:57])
}

func TestParseLeavesCiphertextSliceable(t *testing.T) {
	t.Parallel()

	raw, err := testHeader(t).Bytes()
	require.NoError(t, err)

	ciphertext := []byte("opaque blob, arbitrary length")
	file := append(raw, ciphertext...)

	_, consumed, err := Parse(file)
	require.NoError(t, err)
	assert.Equal(t, ciphertext, file[consumed:])
}

func TestParseTooShort(t *testing.T) {
	t.Parallel()

	_, _, err := Parse(nil)
	assert.ErrorIs(t, err, ErrTooShort)

	_, _, err = Parse([]byte("KNS"))
	assert.ErrorIs(t, err, ErrTooShort)

	raw, err := testHeader(t).Bytes()
	require.NoError(t, err)
	_, _, err = Parse(raw[:HeaderLenV1-1])
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestParseBadMagic(t *testing.T) {
	t.Parallel()

	raw, err := testHeader(t).Bytes()
	require.NoError(t, err)
	copy(raw[:4], "FAIL")

	_, _, err = Parse(raw)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestParseUnsupportedVersion(t *testing.T) {
	t.Parallel()

	raw, err := testHeader(t).Bytes()
	require.NoError(t, err)
	raw[4] = 99

	_, _, err = Parse(raw)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestParseInvalidKdfParams(t *testing.T) {
	t.Parallel()

	raw, err := testHeader(t).Bytes()
	require.NoError(t, err)
	// Zero out the time cost field.
	binary.LittleEndian.PutUint32(raw[9:13], 0)

	_, _, err = Parse(raw)
	assert.ErrorIs(t, err, crypto.ErrInvalidParams)

	// A lane count huge enough to wrap 8*parallelism in uint32 must still
	// fail the memory-per-lane invariant.
	raw, err = testHeader(t).Bytes()
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(raw[5:9], 8)
	binary.LittleEndian.PutUint32(raw[13:17], 1<<29)

	_, _, err = Parse(raw)
	assert.ErrorIs(t, err, crypto.ErrInvalidParams)
}

func TestNewRejectsBadLengths(t *testing.T) {
	t.Parallel()

	kdf := crypto.DefaultKdfParams()

	_, err := New(kdf, []byte("short"), bytes.Repeat([]byte{2}, crypto.NonceLen))
	assert.Error(t, err)

	_, err = New(kdf, bytes.Repeat([]byte{1}, crypto.SaltLen), []byte("short"))
	assert.Error(t, err)

	_, err = New(crypto.KdfParams{}, bytes.Repeat([]byte{1}, crypto.SaltLen), bytes.Repeat([]byte{2}, crypto.NonceLen))
	assert.ErrorIs(t, err, crypto.ErrInvalidParams)
}
