package vm

import "fmt"

// Memory is the engine's flat, byte-addressable, little-endian memory
// (spec.md §3/§4.1): a single contiguous region starting at address 0,
// with no segments or permissions. Address 0 is the first byte.
// Unaligned multi-byte access is permitted (spec.md §9.5).
type Memory struct {
	bytes []byte
}

// NewMemory allocates a zero-filled memory region of the given capacity.
func NewMemory(capacity uint64) *Memory {
	return &Memory{bytes: make([]byte, capacity)}
}

// Len returns the memory's capacity in bytes.
func (m *Memory) Len() uint64 {
	return uint64(len(m.bytes))
}

func (m *Memory) bounds(addr, size uint64) error {
	if addr+size < addr || addr+size > m.Len() {
		return fmt.Errorf("memory access out of range: address 0x%X size %d exceeds capacity 0x%X", addr, size, m.Len())
	}
	return nil
}

// ReadByte reads a single byte at addr.
func (m *Memory) ReadByte(addr uint64) (byte, error) {
	if err := m.bounds(addr, 1); err != nil {
		return 0, err
	}
	return m.bytes[addr], nil
}

// WriteByte writes a single byte at addr.
func (m *Memory) WriteByte(addr uint64, value byte) error {
	if err := m.bounds(addr, 1); err != nil {
		return err
	}
	m.bytes[addr] = value
	return nil
}

// ReadHalfword reads a little-endian 16-bit value at addr.
func (m *Memory) ReadHalfword(addr uint64) (uint16, error) {
	if err := m.bounds(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.bytes[addr]) | uint16(m.bytes[addr+1])<<8, nil
}

// WriteHalfword writes a little-endian 16-bit value at addr.
func (m *Memory) WriteHalfword(addr uint64, value uint16) error {
	if err := m.bounds(addr, 2); err != nil {
		return err
	}
	m.bytes[addr] = byte(value)
	m.bytes[addr+1] = byte(value >> 8)
	return nil
}

// ReadWord reads a little-endian 32-bit value at addr.
func (m *Memory) ReadWord(addr uint64) (uint32, error) {
	if err := m.bounds(addr, 4); err != nil {
		return 0, err
	}
	return uint32(m.bytes[addr]) |
		uint32(m.bytes[addr+1])<<8 |
		uint32(m.bytes[addr+2])<<16 |
		uint32(m.bytes[addr+3])<<24, nil
}

// WriteWord writes a little-endian 32-bit value at addr.
func (m *Memory) WriteWord(addr uint64, value uint32) error {
	if err := m.bounds(addr, 4); err != nil {
		return err
	}
	m.bytes[addr] = byte(value)
	m.bytes[addr+1] = byte(value >> 8)
	m.bytes[addr+2] = byte(value >> 16)
	m.bytes[addr+3] = byte(value >> 24)
	return nil
}

// ReadDoubleword reads a little-endian 64-bit value at addr.
func (m *Memory) ReadDoubleword(addr uint64) (uint64, error) {
	if err := m.bounds(addr, 8); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(m.bytes[addr+uint64(i)]) << (8 * i)
	}
	return v, nil
}

// WriteDoubleword writes a little-endian 64-bit value at addr.
func (m *Memory) WriteDoubleword(addr uint64, value uint64) error {
	if err := m.bounds(addr, 8); err != nil {
		return err
	}
	for i := 0; i < 8; i++ {
		m.bytes[addr+uint64(i)] = byte(value >> (8 * i))
	}
	return nil
}

// LoadBytes copies src verbatim into memory starting at addr.
func (m *Memory) LoadBytes(addr uint64, src []byte) error {
	if err := m.bounds(addr, uint64(len(src))); err != nil {
		return fmt.Errorf("failed to load segment: %w", err)
	}
	copy(m.bytes[addr:], src)
	return nil
}

// GetBytes returns a copy of the length bytes starting at addr.
func (m *Memory) GetBytes(addr, length uint64) ([]byte, error) {
	if err := m.bounds(addr, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.bytes[addr:addr+length])
	return out, nil
}

// Reset zeroes the entire memory region.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}
