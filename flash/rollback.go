package flash

import "encoding/binary"

// rollbackSlots is the number of 4-byte counter cells in the
// rollback-counter sector.
const rollbackSlots = SectorSize / 4

// erasedSlot is the value of a slot flash has never programmed, or has
// been erased back to.
const erasedSlot = 0xFFFFFFFF

// RollbackStore is the wear-leveled monotonic counter built on a single
// flash sector: the logical value is the maximum of all non-erased
// slots, and a bump writes the next free slot instead of re-erasing on
// every update.
type RollbackStore struct {
	region Region
	offset uint32
}

// NewRollbackStore returns a RollbackStore over the sector at offset,
// which must be SectorSize-aligned.
func NewRollbackStore(region Region, offset uint32) *RollbackStore {
	return &RollbackStore{region: region, offset: offset}
}

// Read returns the maximum value of all non-erased slots, or 0 if every
// slot is erased.
func (s *RollbackStore) Read() (uint32, error) {
	var max uint32
	var buf [4]byte
	for i := 0; i < rollbackSlots; i++ {
		if err := s.region.Read(s.offset+uint32(i*4), buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint32(buf[:])
		if v != erasedSlot && v > max {
			max = v
		}
	}
	return max, nil
}

// Write persists a new counter value: it locates the first erased slot
// and programs it there, or erases the whole sector and programs slot 0
// if none is free. The caller is responsible for masking interrupts
// around the call, per the hardware interface's erase/program
// discipline.
func (s *RollbackStore) Write(value uint32) error {
	var buf [4]byte
	for i := 0; i < rollbackSlots; i++ {
		slotOffset := s.offset + uint32(i*4)
		if err := s.region.Read(slotOffset, buf[:]); err != nil {
			return err
		}
		if binary.LittleEndian.Uint32(buf[:]) == erasedSlot {
			binary.LittleEndian.PutUint32(buf[:], value)
			return s.region.Program(slotOffset, buf[:])
		}
	}

	if err := s.region.Erase(s.offset); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[:], value)
	return s.region.Program(s.offset, buf[:])
}
