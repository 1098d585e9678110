package steim

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder selects the wire byte order used to serialize 32-bit words.
// Mini-SEED records may be written in either order; the actual order in
// effect for a given record is discovered from its fixed header (see
// DetectByteOrder).
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// WordBuffer is a fixed-capacity buffer of 32-bit words with an explicit
// byte order and a write/read cursor. It is the bit-I/O primitive that
// Frame builds on: mini-SEED frames are addressed word-by-word, never
// byte-by-byte, so the buffer's unit of storage is a word rather than a
// byte.
type WordBuffer struct {
	words     []int32
	position  int
	byteOrder ByteOrder
}

// NewWordBuffer allocates a zeroed buffer of the given word capacity.
func NewWordBuffer(capacity int, byteOrder ByteOrder) *WordBuffer {
	if capacity < 0 {
		panic(fmt.Sprintf("steim: negative word buffer capacity %d", capacity))
	}
	return &WordBuffer{words: make([]int32, capacity), byteOrder: byteOrder}
}

// WrapWordBuffer interprets data (which must be word-aligned) as a buffer of
// 32-bit words in the given byte order, with the cursor parked at the end —
// a wrapped buffer represents already-written, immutable data.
func WrapWordBuffer(data []byte, byteOrder ByteOrder) (*WordBuffer, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not word-aligned", ErrTruncatedInput, len(data))
	}
	order := byteOrder.binary()
	words := make([]int32, len(data)/4)
	for i := range words {
		words[i] = int32(order.Uint32(data[i*4:]))
	}
	return &WordBuffer{words: words, byteOrder: byteOrder, position: len(words)}, nil
}

func (b *WordBuffer) Capacity() int        { return len(b.words) }
func (b *WordBuffer) Position() int        { return b.position }
func (b *WordBuffer) Remaining() int       { return len(b.words) - b.position }
func (b *WordBuffer) IsFull() bool         { return b.position >= len(b.words) }
func (b *WordBuffer) IsEmpty() bool        { return b.position == 0 }
func (b *WordBuffer) ByteOrder() ByteOrder { return b.byteOrder }

// Put writes value at the current cursor position and advances it by one.
func (b *WordBuffer) Put(value int32) {
	if b.IsFull() {
		panic("steim: word buffer is full")
	}
	b.words[b.position] = value
	b.position++
}

// PutAt writes value at an explicit index without requiring the cursor to
// be there. The cursor advances past idx if it was lagging behind, so that
// a header word (e.g. a control sequence written before its payload words)
// doesn't retroactively rewind Position.
func (b *WordBuffer) PutAt(index int, value int32) {
	if index < 0 || index >= len(b.words) {
		panic(fmt.Sprintf("steim: word index %d out of range [0,%d)", index, len(b.words)))
	}
	b.words[index] = value
	if b.position <= index {
		b.position = index + 1
	}
}

// Get returns the word at index.
func (b *WordBuffer) Get(index int) int32 {
	if index < 0 || index >= len(b.words) {
		panic(fmt.Sprintf("steim: word index %d out of range [0,%d)", index, len(b.words)))
	}
	return b.words[index]
}

// ToBytes serializes the buffer to its on-disk form in the declared byte
// order.
func (b *WordBuffer) ToBytes() []byte {
	order := b.byteOrder.binary()
	out := make([]byte, len(b.words)*4)
	for i, w := range b.words {
		order.PutUint32(out[i*4:], uint32(w))
	}
	return out
}
