package steim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleEncode() {
	samples := []int32{100, 105, 110, 90, 90, 200}

	record, consumed, err := Encode(samples, 0, 1, Steim1, BigEndian, nil)
	if err != nil {
		panic(err)
	}
	fmt.Println("consumed:", consumed)

	decoded, err := DecodeRecord(record, Steim1, nil, consumed)
	if err != nil {
		panic(err)
	}
	fmt.Println("decoded:", decoded)

	// Output:
	// consumed: 6
	// decoded: [100 105 110 90 90 200]
}

func TestEncodingFormatVariant(t *testing.T) {
	v, err := FormatSteim1.Variant()
	assert.NoError(t, err)
	assert.Equal(t, Steim1, v)

	v, err = FormatSteim2.Variant()
	assert.NoError(t, err)
	assert.Equal(t, Steim2, v)

	_, err = FormatSteim3.Variant()
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)

	_, err = FormatASCII.Variant()
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
}

func TestEncodeDecodeRoundTripSteim1(t *testing.T) {
	samples := []int32{100, 105, 110, 90, 90, 200, -500, -500, -500}
	record, consumed, err := Encode(samples, 0, 1, Steim1, BigEndian, nil)
	assert.NoError(t, err)
	assert.Equal(t, len(samples), consumed)

	decoded, err := DecodeRecord(record, Steim1, nil, len(samples))
	assert.NoError(t, err)
	assert.Equal(t, samples, decoded)
}

func TestEncodeDecodeRoundTripSteim2(t *testing.T) {
	samples := []int32{1, 2, 2, 2, 3, 5, 8, 13, 21, 34, -5000, 70000}
	record, consumed, err := Encode(samples, 0, 2, Steim2, BigEndian, nil)
	assert.NoError(t, err)
	assert.Equal(t, len(samples), consumed)

	decoded, err := DecodeRecord(record, Steim2, nil, len(samples))
	assert.NoError(t, err)
	assert.Equal(t, samples, decoded)
}

func TestEncodeDecodeCarryOverAcrossRecords(t *testing.T) {
	samples := []int32{10, 20, 30, 40, 50}

	var carry int32
	record1, consumed1, err := Encode(samples, 0, 1, Steim1, BigEndian, &carry)
	assert.NoError(t, err)
	assert.True(t, consumed1 > 0)

	var decodeCarry int32
	decoded1, err := DecodeRecord(record1, Steim1, &decodeCarry, consumed1)
	assert.NoError(t, err)
	assert.Equal(t, samples[:consumed1], decoded1)
	assert.Equal(t, carry, decodeCarry)
}

// The first decoded sample must always come from the record's own forward
// integration factor, never from carryOver + delta[0] - even when a caller
// supplies a carry-over that has drifted from the true previous sample.
func TestDecodeClampsFirstSampleToForwardFactorDespiteDriftedCarry(t *testing.T) {
	samples := []int32{100, 105, 110}
	trueCarry := int32(100)
	record, _, err := Encode(samples, 0, 1, Steim1, BigEndian, &trueCarry)
	assert.NoError(t, err)

	driftedCarry := int32(90)
	decoded, err := DecodeRecord(record, Steim1, &driftedCarry, len(samples))
	assert.NoError(t, err)
	assert.Equal(t, int32(100), decoded[0])
}

func TestEncodeStopsWhenRecordFills(t *testing.T) {
	samples := make([]int32, 1000)
	for i := range samples {
		samples[i] = int32(i * 123457)
	}
	record, consumed, err := Encode(samples, 0, 1, Steim1, BigEndian, nil)
	assert.NoError(t, err)
	assert.Less(t, consumed, len(samples))
	assert.True(t, record.IsFull())
}

func TestDecodeDetectsSampleCountMismatch(t *testing.T) {
	samples := []int32{100, 300, -500, 900, 1400}
	record, consumed, err := Encode(samples, 0, 1, Steim1, BigEndian, nil)
	assert.NoError(t, err)
	assert.Equal(t, len(samples), consumed)

	_, err = DecodeRecord(record, Steim1, nil, consumed+1)
	assert.ErrorIs(t, err, ErrIntegrityMismatch)
}

// A bucket holding exactly three Steim-1 values flushes only the first two
// and slides the third down into a one-value bucket rather than discarding
// it (see Bucket.Pack). Encode keeps flushing until the bucket is empty at
// the end of the input, so that third value gets a word of its own and all
// three samples decode, ending on the reverse integration factor.
func TestEncodeSteim1CountThreeKeepsLastSample(t *testing.T) {
	samples := []int32{1, 2, 3}
	record, consumed, err := Encode(samples, 0, 1, Steim1, BigEndian, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, consumed)

	decoded, err := DecodeRecord(record, Steim1, nil, 3)
	assert.NoError(t, err)
	assert.Equal(t, samples, decoded)
}

func TestEncodeRejectsSteim2DeltaOverflow(t *testing.T) {
	samples := []int32{0, 1 << 30}
	_, _, err := Encode(samples, 0, 1, Steim2, BigEndian, nil)
	assert.ErrorIs(t, err, ErrDeltaOverflow)
}
