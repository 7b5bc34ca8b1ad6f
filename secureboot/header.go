package secureboot

import "encoding/binary"

// headerMagic is "LWCF" read as a little-endian u32.
const headerMagic = 0x4C435746

// headerSize is the packed on-flash firmware header size in bytes.
const headerSize = 256

// Byte offsets within the packed header, per the flash image layout this
// verifier reads against. The header is decoded field-by-field rather
// than cast from a Go struct: struct layout (padding, alignment, field
// order under different GOARCH) is not a stable wire format.
const (
	offMagic     = 0
	offVersion   = 4
	offSize      = 8
	offEntry     = 12
	offDigest    = 16
	offSignature = 48
	offRollback  = 112
	offFlags     = 116
)

const (
	digestSize    = 32
	signatureSize = 64
)

// header is the decoded contents of the 256-byte packed firmware header.
type header struct {
	magic     uint32
	version   uint32
	size      uint32
	entry     uint32
	digest    [digestSize]byte
	signature [signatureSize]byte
	rollback  uint32
	flags     uint32
}

// decodeHeader parses a packed header from the first headerSize bytes of
// raw.
func decodeHeader(raw []byte) (*header, error) {
	if len(raw) < headerSize {
		return nil, ErrHeaderTooShort
	}

	h := &header{
		magic:    binary.LittleEndian.Uint32(raw[offMagic:]),
		version:  binary.LittleEndian.Uint32(raw[offVersion:]),
		size:     binary.LittleEndian.Uint32(raw[offSize:]),
		entry:    binary.LittleEndian.Uint32(raw[offEntry:]),
		rollback: binary.LittleEndian.Uint32(raw[offRollback:]),
		flags:    binary.LittleEndian.Uint32(raw[offFlags:]),
	}
	copy(h.digest[:], raw[offDigest:offDigest+digestSize])
	copy(h.signature[:], raw[offSignature:offSignature+signatureSize])
	return h, nil
}

// encodeHeader serializes h into a headerSize-byte packed record, the
// inverse of decodeHeader. Used by tests to construct firmware images.
func encodeHeader(h *header) []byte {
	raw := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(raw[offMagic:], h.magic)
	binary.LittleEndian.PutUint32(raw[offVersion:], h.version)
	binary.LittleEndian.PutUint32(raw[offSize:], h.size)
	binary.LittleEndian.PutUint32(raw[offEntry:], h.entry)
	copy(raw[offDigest:offDigest+digestSize], h.digest[:])
	copy(raw[offSignature:offSignature+signatureSize], h.signature[:])
	binary.LittleEndian.PutUint32(raw[offRollback:], h.rollback)
	binary.LittleEndian.PutUint32(raw[offFlags:], h.flags)
	return raw
}
