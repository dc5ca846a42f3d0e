// Package eeprom persists calibration values as little-endian int32 slots in
// a small byte-addressable store, mirroring the EEPROM layout of the MCU the
// machine originally ran on.
package eeprom

import (
	"fmt"
	"os"
)

// SlotSize is the width of one calibration slot in bytes.
const SlotSize = 4

// DefaultSize is the default capacity of a store image. Three preset slots
// are in use; the rest is spare.
const DefaultSize = 16

// ByteStore is a byte-addressable non-volatile store. No bounds checking is
// performed at this layer; the fixed slot table guarantees valid addresses.
type ByteStore interface {
	ReadByte(addr int) byte
	WriteByte(addr int, b byte)
}

// Slot returns the store address of preset slot i. Slots are packed
// contiguously and never overlap.
func Slot(i int) int { return i * SlotSize }

// Store encodes and decodes signed 32-bit values on top of a ByteStore.
type Store struct {
	b ByteStore
}

// NewStore wraps a ByteStore.
func NewStore(b ByteStore) *Store {
	return &Store{b: b}
}

// WriteInt32 splits v into four bytes, least-significant first, and writes
// them to addr..addr+3.
func (s *Store) WriteInt32(addr int, v int32) {
	u := uint32(v)
	s.b.WriteByte(addr, byte(u))
	s.b.WriteByte(addr+1, byte(u>>8))
	s.b.WriteByte(addr+2, byte(u>>16))
	s.b.WriteByte(addr+3, byte(u>>24))
}

// ReadInt32 reconstructs the value written by WriteInt32 at addr.
func (s *Store) ReadInt32(addr int) int32 {
	u := uint32(s.b.ReadByte(addr)) |
		uint32(s.b.ReadByte(addr+1))<<8 |
		uint32(s.b.ReadByte(addr+2))<<16 |
		uint32(s.b.ReadByte(addr+3))<<24
	return int32(u)
}

// Image is a file-backed ByteStore. A fresh image is initialized to 0xFF the
// way an erased EEPROM reads, so an uncalibrated slot decodes as -1. Writes
// go through to the backing file immediately; with an empty path the image
// is volatile (used by the simulator and tests).
type Image struct {
	path string
	data []byte
	err  error
}

var _ ByteStore = (*Image)(nil)

// OpenImage loads the image at path, creating it when absent. size is the
// capacity of a newly created image; an existing file keeps its own length.
func OpenImage(path string, size int) (*Image, error) {
	if size <= 0 {
		size = DefaultSize
	}

	img := &Image{path: path, data: make([]byte, size)}
	for i := range img.data {
		img.data[i] = 0xFF
	}
	if path == "" {
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := img.flush(); err != nil {
				return nil, err
			}
			return img, nil
		}
		return nil, fmt.Errorf("failed to read eeprom image: %w", err)
	}
	if len(data) > 0 {
		img.data = data
	}
	return img, nil
}

// ReadByte returns the byte at addr.
func (img *Image) ReadByte(addr int) byte {
	return img.data[addr]
}

// WriteByte stores b at addr and flushes the image to disk. A flush failure
// is retained and reported by Err; the in-memory value always sticks.
func (img *Image) WriteByte(addr int, b byte) {
	img.data[addr] = b
	if img.path != "" {
		if err := img.flush(); err != nil {
			img.err = err
		}
	}
}

// Err returns the last flush error, if any.
func (img *Image) Err() error { return img.err }

func (img *Image) flush() error {
	if err := os.WriteFile(img.path, img.data, 0644); err != nil {
		return fmt.Errorf("failed to write eeprom image: %w", err)
	}
	return nil
}
