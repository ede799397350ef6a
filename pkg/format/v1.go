package format

import (
	"encoding/binary"
	"fmt"

	"github.com/knestlabs/knest/pkg/crypto"
)

const (
	memLen  = 4
	timeLen = 4
	parLen  = 4

	// HeaderLenV1 is the fixed v1 header length: 57 bytes.
	HeaderLenV1 = magicLen + versionLen + memLen + timeLen + parLen + crypto.SaltLen + crypto.NonceLen
)

func (h Header) appendV1(buf []byte) []byte {
	buf = append(buf, Magic...)
	buf = append(buf, VersionV1)

	buf = binary.LittleEndian.AppendUint32(buf, h.KDF.MemCostKiB)
	buf = binary.LittleEndian.AppendUint32(buf, h.KDF.TimeCost)
	buf = binary.LittleEndian.AppendUint32(buf, h.KDF.Parallelism)

	buf = append(buf, h.Salt[:]...)
	buf = append(buf, h.Nonce[:]...)
	return buf
}

func parseV1(data []byte) (Header, int, error) {
	if len(data) < HeaderLenV1 {
		return Header{}, 0, fmt.Errorf("%w: v1 header needs %d bytes, have %d", ErrTooShort, HeaderLenV1, len(data))
	}

	offset := magicLen + versionLen

	memCost := binary.LittleEndian.Uint32(data[offset : offset+memLen])
	offset += memLen
	timeCost := binary.LittleEndian.Uint32(data[offset : offset+timeLen])
	offset += timeLen
	parallelism := binary.LittleEndian.Uint32(data[offset : offset+parLen])
	offset += parLen

	kdf, err := crypto.NewKdfParams(memCost, timeCost, parallelism)
	if err != nil {
		return Header{}, 0, err
	}

	h := Header{Version: VersionV1, KDF: kdf}
	offset += copy(h.Salt[:], data[offset:offset+crypto.SaltLen])
	offset += copy(h.Nonce[:], data[offset:offset+crypto.NonceLen])

	return h, offset, nil
}
