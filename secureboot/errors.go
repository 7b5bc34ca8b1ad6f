package secureboot

import "errors"

// ErrHeaderTooShort is returned by decodeHeader when the input is smaller
// than headerSize bytes.
var ErrHeaderTooShort = errors.New("secureboot: firmware header shorter than 256 bytes")
