package steim

import (
	"errors"
	"fmt"
	"io"
)

const (
	minRecordLength = 256
	maxRecordLength = 32768
)

// RecordLength probes source for the fixed record length mini-SEED files
// use throughout: the distance from one header signature to the next. It
// seeks to increasing powers of two starting at 256 bytes, checking whether
// a header signature begins there; if source ends exactly at one of those
// offsets first, that offset is taken as the length instead (a file holding
// exactly one record). The source's position is left at 0 on return.
func RecordLength(source io.ReadSeeker) (int, error) {
	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	defer source.Seek(0, io.SeekStart)

	var first [7]byte
	if _, err := io.ReadFull(source, first[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRecordLengthUndetermined, err)
	}
	if !recordHeaderPattern.Match(first[:]) {
		return 0, fmt.Errorf("%w: source does not begin with a mini-SEED header", ErrRecordLengthUndetermined)
	}
	end, err := source.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}

	for size := minRecordLength; size <= maxRecordLength; size *= 2 {
		if _, err := source.Seek(int64(size), io.SeekStart); err != nil {
			return 0, err
		}
		var probe [7]byte
		n, err := io.ReadFull(source, probe[:])
		switch {
		case err == nil:
			if recordHeaderPattern.Match(probe[:]) {
				return size, nil
			}
		case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
			if n == 0 && end == int64(size) {
				// Source ends exactly at this power-of-two offset: one
				// record, exactly this long.
				return size, nil
			}
		default:
			return 0, err
		}
	}
	return 0, ErrRecordLengthUndetermined
}

// DecodedRecord is one parsed mini-SEED record: its fixed header, whichever
// of the three supported blockettes it carries, and — when decoding was
// requested — the sample stream its data region encodes.
type DecodedRecord struct {
	Header        *Header
	Blockette100  *Blockette100
	Blockette1000 *Blockette1000
	Blockette1001 *Blockette1001
	Data          []byte
	Samples       []int32
}

// Iterator yields DecodedRecords, in file order, from a seekable byte
// source holding back-to-back fixed-length mini-SEED records. It is not
// safe for concurrent use: callers needing parallel access should open
// their own Iterator per goroutine.
type Iterator struct {
	source       io.ReadSeeker
	recordLength int
	decompress   bool
	carryOver    int32
	haveCarry    bool
}

// NewIterator discovers source's record length and returns an Iterator
// ready to read from its first record. When decompress is false, Next
// leaves DecodedRecord.Samples nil and skips the Steim decode step
// entirely, which is useful for callers that only need header metadata.
func NewIterator(source io.ReadSeeker, decompress bool) (*Iterator, error) {
	length, err := RecordLength(source)
	if err != nil {
		return nil, err
	}
	return &Iterator{source: source, recordLength: length, decompress: decompress}, nil
}

// Next reads and parses the next record, returning io.EOF once the source
// is exhausted.
func (it *Iterator) Next() (*DecodedRecord, error) {
	buf := make([]byte, it.recordLength)
	if _, err := io.ReadFull(it.source, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: short record at end of source", ErrTruncatedInput)
		}
		return nil, err
	}

	byteOrder, err := DetectByteOrder(buf)
	if err != nil {
		return nil, err
	}
	header, err := ParseHeader(buf, byteOrder)
	if err != nil {
		return nil, err
	}

	out := &DecodedRecord{Header: header}

	offset := int(header.FirstBlockette)
	for i := 0; i < int(header.NumberOfBlockettesThatFollow) && offset != 0; i++ {
		bh, err := parseBlocketteHeader(buf, offset, byteOrder)
		if err != nil {
			return nil, err
		}
		switch bh.Type {
		case BlocketteTypeB100:
			b, err := ParseBlockette100(buf, offset, byteOrder)
			if err != nil {
				return nil, err
			}
			out.Blockette100 = b
		case BlocketteTypeB1000:
			b, err := ParseBlockette1000(buf, offset, byteOrder)
			if err != nil {
				return nil, err
			}
			out.Blockette1000 = b
		case BlocketteTypeB1001:
			b, err := ParseBlockette1001(buf, offset, byteOrder)
			if err != nil {
				return nil, err
			}
			out.Blockette1001 = b
		}
		offset = int(bh.NextBlocketteOffset)
	}

	dataStart := int(header.BeginningOfData)
	if dataStart < fixedHeaderSize || dataStart > len(buf) {
		return nil, fmt.Errorf("%w: beginning-of-data offset %d invalid for a %d-byte record", ErrTruncatedInput, dataStart, len(buf))
	}
	out.Data = buf[dataStart:]

	if it.decompress && out.Blockette1000 != nil {
		variant, err := out.Blockette1000.Format.Variant()
		if err != nil {
			return nil, err
		}

		var carry *int32
		if it.haveCarry {
			carry = &it.carryOver
		}
		samples, err := Decode(out.Data, byteOrder, variant, carry, int(header.NumberOfSamples))
		if err != nil {
			return nil, err
		}
		out.Samples = samples
		if len(samples) > 0 {
			it.carryOver = samples[len(samples)-1]
			it.haveCarry = true
		}
	}

	return out, nil
}
