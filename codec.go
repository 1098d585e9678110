package steim

import "fmt"

// EncodingFormat identifies a mini-SEED data encoding, per the numeric
// scheme a B1000 blockette declares it in. Only Steim-1 and Steim-2 decode;
// every other value (including Steim-3) is recognized but unsupported.
type EncodingFormat uint8

const (
	FormatASCII             EncodingFormat = 0
	FormatSixteenBit        EncodingFormat = 1
	FormatTwentyFourBit     EncodingFormat = 2
	FormatThirtyTwoBit      EncodingFormat = 3
	FormatIEEEFloat         EncodingFormat = 4
	FormatIEEEDouble        EncodingFormat = 5
	FormatSteim1            EncodingFormat = 10
	FormatSteim2            EncodingFormat = 11
	FormatGEOSCOPE24        EncodingFormat = 12
	FormatGEOSCOPE163       EncodingFormat = 13
	FormatGEOSCOPE164       EncodingFormat = 14
	FormatUSNationalNetwork EncodingFormat = 15
	FormatCDSN              EncodingFormat = 16
	FormatGraefenberg       EncodingFormat = 17
	FormatIPG               EncodingFormat = 18
	FormatSteim3            EncodingFormat = 19
	FormatSRO               EncodingFormat = 30
	FormatHGLP              EncodingFormat = 31
	FormatDWWSSN            EncodingFormat = 32
	FormatRSTN              EncodingFormat = 33
)

func (f EncodingFormat) String() string {
	switch f {
	case FormatSteim1:
		return "STEIM-1"
	case FormatSteim2:
		return "STEIM-2"
	case FormatSteim3:
		return "STEIM-3"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Variant returns the Steim bucket variant this format decodes with. Only
// Steim-1 and Steim-2 are implemented.
func (f EncodingFormat) Variant() (Variant, error) {
	switch f {
	case FormatSteim1:
		return Steim1, nil
	case FormatSteim2:
		return Steim2, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, f)
	}
}

// Encode compresses samples[offset:] into a single Record of numberOfFrames
// frames, stopping once the record is full. It returns the record and the
// number of samples actually consumed (which may be fewer than len(samples)
// - offset, when the record fills first).
//
// carryOver, if non-nil, holds the last sample of the previous record; it is
// used only to decide the delta for samples[offset] and is itself updated to
// the last sample this call encodes.
func Encode(samples []int32, offset int, numberOfFrames int, variant Variant, byteOrder ByteOrder, carryOver *int32) (*Record, int, error) {
	if numberOfFrames < 1 {
		panic(fmt.Sprintf("steim: encode needs at least one frame, got %d", numberOfFrames))
	}
	if offset < 0 || offset > len(samples) {
		panic(fmt.Sprintf("steim: encode offset %d out of range [0,%d]", offset, len(samples)))
	}

	record := NewRecord(numberOfFrames, byteOrder)
	if offset == len(samples) {
		return record, 0, nil
	}

	record.SetForwardIntegrationFactor(samples[offset])

	var previous int32
	if carryOver != nil {
		previous = *carryOver
	} else {
		previous = samples[offset]
	}

	bucket := NewBucket(variant)
	consumed := 0
	last := samples[offset]

	flush := func() error {
		if bucket.IsEmpty() {
			return nil
		}
		control, word, count, err := bucket.Pack(true)
		if err != nil {
			return err
		}
		ok, err := record.Append(control, int32(word), count)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: record ran out of room while flushing a packed bucket", ErrTruncatedInput)
		}
		return nil
	}

	for i := offset; i < len(samples); i++ {
		sample := samples[i]
		delta := sample - previous

		if !bucket.Put(delta) {
			if bucket.IsEmpty() {
				return nil, 0, fmt.Errorf("%w: delta %d cannot be represented by %s", ErrDeltaOverflow, delta, variant)
			}
			if record.IsFull() {
				break
			}
			if err := flush(); err != nil {
				return nil, 0, err
			}
			if record.IsFull() {
				break
			}
			if !bucket.Put(delta) {
				if bucket.IsEmpty() {
					return nil, 0, fmt.Errorf("%w: delta %d cannot be represented by %s", ErrDeltaOverflow, delta, variant)
				}
				// A Steim-1 count=3 pack keeps its third value in the bucket;
				// when delta does not fit beside it, flush that value as well.
				if err := flush(); err != nil {
					return nil, 0, err
				}
				if record.IsFull() {
					break
				}
				if !bucket.Put(delta) {
					return nil, 0, fmt.Errorf("%w: delta %d cannot be represented by %s", ErrDeltaOverflow, delta, variant)
				}
			}
		}

		previous = sample
		last = sample
		consumed++
	}

	// Loop rather than flush once: a Steim-1 count=3 pack leaves its third
	// value in the bucket, and that value needs a word of its own.
	for !bucket.IsEmpty() && !record.IsFull() {
		if err := flush(); err != nil {
			return nil, 0, err
		}
	}

	record.SetReverseIntegrationFactor(last)
	if carryOver != nil {
		*carryOver = last
	}
	return record, consumed, nil
}

// Decode expands data (one record's worth of frame bytes) into its sample
// stream. expectedNumberOfSamples is checked against the count of samples
// actually produced; a mismatch is ErrIntegrityMismatch, not a panic, since
// it reflects corrupt or foreign input rather than a programming error.
func Decode(data []byte, byteOrder ByteOrder, variant Variant, carryOver *int32, expectedNumberOfSamples int) ([]int32, error) {
	record, err := WrapBytes(data, byteOrder)
	if err != nil {
		return nil, err
	}
	return DecodeRecord(record, variant, carryOver, expectedNumberOfSamples)
}

// DecodeRecord is Decode for an already-parsed Record.
func DecodeRecord(record *Record, variant Variant, carryOver *int32, expectedNumberOfSamples int) ([]int32, error) {
	samples := make([]int32, 0, expectedNumberOfSamples)

	var previous int32
	if carryOver != nil {
		previous = *carryOver
	}
	firstSampleEmitted := false

	for row, frame := range record.frames {
		cs, err := frame.Control()
		if err != nil {
			return nil, err
		}
		firstCol := 1
		if row == 0 {
			firstCol = 3
		}
		for col := firstCol; col < wordsPerFrame; col++ {
			if len(samples) >= expectedNumberOfSamples {
				break
			}
			code, err := cs.Get(col)
			if err != nil {
				return nil, err
			}
			if code == 0 {
				continue
			}
			deltas, err := unpackWord(variant, code, uint32(frame.Word(col)))
			if err != nil {
				return nil, err
			}
			for _, d := range deltas {
				if len(samples) >= expectedNumberOfSamples {
					break
				}
				var sample int32
				if !firstSampleEmitted {
					// Always clamp the first emitted sample to the record's
					// own forward integration factor rather than trusting
					// carryOver + delta[0], even when a carry-over was
					// supplied: the two can drift apart across records, and
					// the forward factor is ground truth.
					sample = record.ForwardIntegrationFactor()
					firstSampleEmitted = true
				} else {
					sample = previous + d
				}
				samples = append(samples, sample)
				previous = sample
			}
		}
	}

	if len(samples) != expectedNumberOfSamples {
		return nil, fmt.Errorf("%w: decoded %d samples, expected %d", ErrIntegrityMismatch, len(samples), expectedNumberOfSamples)
	}
	if len(samples) > 0 && samples[len(samples)-1] != record.ReverseIntegrationFactor() {
		return nil, fmt.Errorf("%w: last decoded sample %d does not match reverse integration factor %d",
			ErrIntegrityMismatch, samples[len(samples)-1], record.ReverseIntegrationFactor())
	}

	if carryOver != nil && len(samples) > 0 {
		*carryOver = samples[len(samples)-1]
	}
	return samples, nil
}
