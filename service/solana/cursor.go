package solana

import (
	"encoding/binary"
	"fmt"
)

// cursor is a bounds-checked sequential reader over a byte slice. Every
// read advances the offset by the consumed amount; a read that would run
// past the end fails with ErrShortBuffer and leaves the offset where it
// was. The cursor never reads out of bounds and never panics.
type cursor struct {
	data []byte
	off  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

// offset returns the number of bytes consumed so far.
func (c *cursor) offset() int { return c.off }

// remaining returns the number of bytes left to read.
func (c *cursor) remaining() int { return len(c.data) - c.off }

// read consumes the next n bytes. The returned slice aliases the input
// buffer and must be copied if it outlives the parse.
func (c *cursor) read(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, c.off, c.remaining())
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// readByte consumes a single byte.
func (c *cursor) readByte() (byte, error) {
	if c.remaining() < 1 {
		return 0, fmt.Errorf("%w: need 1 byte at offset %d", ErrShortBuffer, c.off)
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

// readUint32 consumes 4 bytes as a little-endian uint32.
func (c *cursor) readUint32() (uint32, error) {
	b, err := c.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// readUint64 consumes 8 bytes as a little-endian uint64.
func (c *cursor) readUint64() (uint64, error) {
	b, err := c.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readCompactU16 consumes a compact-u16 length prefix: 1 to 3 bytes with
// 7 value bits each and the high bit set while more bytes follow. The
// third byte may only carry the top two value bits; anything more would
// push the value past 16 bits and fails with ErrCompactOverflow.
func (c *cursor) readCompactU16() (int, error) {
	var value uint16
	for shift := uint(0); ; shift += 7 {
		b, err := c.readByte()
		if err != nil {
			return 0, err
		}
		if shift == 14 && b&0xfc != 0 {
			return 0, fmt.Errorf("%w at offset %d", ErrCompactOverflow, c.off-1)
		}
		value |= uint16(b&0x7f) << shift
		if b&0x80 == 0 {
			return int(value), nil
		}
	}
}

// readCompactBytes consumes a compact-u16 count followed by that many
// bytes, returning a copy that is safe to retain.
func (c *cursor) readCompactBytes() ([]byte, error) {
	n, err := c.readCompactU16()
	if err != nil {
		return nil, err
	}
	b, err := c.read(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// appendCompactU16 appends the compact-u16 encoding of v to dst.
func appendCompactU16(dst []byte, v uint16) []byte {
	for {
		if v < 0x80 {
			return append(dst, byte(v))
		}
		dst = append(dst, byte(v&0x7f|0x80))
		v >>= 7
	}
}
