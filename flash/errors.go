package flash

import "errors"

var (
	// ErrOutOfRange is returned when an access falls outside the region.
	ErrOutOfRange = errors.New("flash: access out of range")

	// ErrNotSectorAligned is returned when Erase is called with an offset
	// that does not fall on a sector boundary.
	ErrNotSectorAligned = errors.New("flash: erase offset not sector-aligned")

	// ErrPageTooLarge is returned when Program is called with more bytes
	// than a single page holds.
	ErrPageTooLarge = errors.New("flash: program length exceeds page size")
)
