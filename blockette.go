package steim

import (
	"fmt"
	"math"
)

const (
	BlocketteTypeB100  = 100
	BlocketteTypeB1000 = 1000
	BlocketteTypeB1001 = 1001
)

// BlocketteHeader is the two-field header common to every blockette type: a
// type code and the byte offset, from the start of the record, of the next
// blockette in the chain (0 if this is the last one).
type BlocketteHeader struct {
	Type                uint16
	NextBlocketteOffset uint16
}

func parseBlocketteHeader(data []byte, offset int, byteOrder ByteOrder) (BlocketteHeader, error) {
	if offset < 0 || offset+4 > len(data) {
		return BlocketteHeader{}, fmt.Errorf("%w: blockette header at offset %d exceeds record", ErrTruncatedInput, offset)
	}
	bo := byteOrder.binary()
	return BlocketteHeader{
		Type:                bo.Uint16(data[offset : offset+2]),
		NextBlocketteOffset: bo.Uint16(data[offset+2 : offset+4]),
	}, nil
}

// Blockette100 carries the record's actual (as opposed to nominal) sample
// rate.
type Blockette100 struct {
	BlocketteHeader
	ActualSampleRate float32
	Flags            uint8
	Reserved         [3]byte
}

// ParseBlockette100 reads a B100 starting at offset within data.
func ParseBlockette100(data []byte, offset int, byteOrder ByteOrder) (*Blockette100, error) {
	header, err := parseBlocketteHeader(data, offset, byteOrder)
	if err != nil {
		return nil, err
	}
	if offset+12 > len(data) {
		return nil, fmt.Errorf("%w: B100 at offset %d exceeds record", ErrTruncatedInput, offset)
	}
	bo := byteOrder.binary()
	rate := math.Float32frombits(bo.Uint32(data[offset+4 : offset+8]))
	b := &Blockette100{
		BlocketteHeader:  header,
		ActualSampleRate: rate,
		Flags:            data[offset+8],
	}
	copy(b.Reserved[:], data[offset+9:offset+12])
	return b, nil
}

// Blockette1000 declares the record's data encoding format, word order, and
// length.
type Blockette1000 struct {
	BlocketteHeader
	Format               EncodingFormat
	WordOrder            ByteOrder
	DataRecordLengthLog2 uint8
	Reserved             uint8
}

// ParseBlockette1000 reads a B1000 starting at offset within data.
func ParseBlockette1000(data []byte, offset int, byteOrder ByteOrder) (*Blockette1000, error) {
	header, err := parseBlocketteHeader(data, offset, byteOrder)
	if err != nil {
		return nil, err
	}
	if offset+8 > len(data) {
		return nil, fmt.Errorf("%w: B1000 at offset %d exceeds record", ErrTruncatedInput, offset)
	}
	wordOrder := BigEndian
	if data[offset+5] == 0 {
		wordOrder = LittleEndian
	}
	return &Blockette1000{
		BlocketteHeader:      header,
		Format:               EncodingFormat(data[offset+4]),
		WordOrder:            wordOrder,
		DataRecordLengthLog2: data[offset+6],
		Reserved:             data[offset+7],
	}, nil
}

// Blockette1001 carries timing quality and the µsec clock correction for the
// record's start time.
//
// The source this package was ported from parses B1001 by reusing B1000's
// struct layout, which misreads every field past the header; this package
// parses B1001 with its own, correct field offsets instead.
type Blockette1001 struct {
	BlocketteHeader
	TimingQuality uint8
	Microseconds  int8
	Reserved      uint8
	FrameCount    uint8
}

// ParseBlockette1001 reads a B1001 starting at offset within data.
func ParseBlockette1001(data []byte, offset int, byteOrder ByteOrder) (*Blockette1001, error) {
	header, err := parseBlocketteHeader(data, offset, byteOrder)
	if err != nil {
		return nil, err
	}
	if offset+8 > len(data) {
		return nil, fmt.Errorf("%w: B1001 at offset %d exceeds record", ErrTruncatedInput, offset)
	}
	return &Blockette1001{
		BlocketteHeader: header,
		TimingQuality:   data[offset+4],
		Microseconds:    int8(data[offset+5]),
		Reserved:        data[offset+6],
		FrameCount:      data[offset+7],
	}, nil
}
