package steim

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildRecordBytes assembles one on-disk mini-SEED record: a 48-byte fixed
// header, a B1000 blockette describing the encoding, eight bytes of padding
// up to a 64-byte data start, and numberOfFrames worth of Steim-encoded
// data.
func buildRecordBytes(t *testing.T, order ByteOrder, sequence int, variant Variant, samples []int32, numberOfFrames int, carryOver *int32) ([]byte, int) {
	t.Helper()

	format := FormatSteim1
	if variant == Steim2 {
		format = FormatSteim2
	}

	record, consumed, err := Encode(samples, 0, numberOfFrames, variant, order, carryOver)
	assert.NoError(t, err)

	const dataStart = 64
	total := dataStart + numberOfFrames*64
	buf := make([]byte, total)

	bo := order.binary()
	seq := []byte("000000")
	seq[5] = byte('0' + sequence%10)
	copy(buf[0:6], seq)
	buf[6] = 'D'
	copy(buf[8:13], []byte("STA  "))
	copy(buf[13:15], []byte("00"))
	copy(buf[15:18], []byte("BHZ"))
	copy(buf[18:20], []byte("XX"))
	bo.PutUint16(buf[20:22], 2020)
	bo.PutUint16(buf[22:24], 1)
	bo.PutUint16(buf[30:32], uint16(consumed))
	bo.PutUint16(buf[32:34], 40)
	bo.PutUint16(buf[34:36], 1)
	buf[39] = 1 // one blockette follows
	bo.PutUint16(buf[44:46], uint16(dataStart))
	bo.PutUint16(buf[46:48], 48)

	// B1000 at offset 48.
	bo.PutUint16(buf[48:50], BlocketteTypeB1000)
	bo.PutUint16(buf[50:52], 0)
	buf[52] = byte(format)
	if order == BigEndian {
		buf[53] = 1
	} else {
		buf[53] = 0
	}

	copy(buf[dataStart:], record.ToBytes())
	return buf, consumed
}

func TestRecordLengthDiscoversSingleRecordFile(t *testing.T) {
	samples := []int32{1, 2, 3, 4, 5}
	data, _ := buildRecordBytes(t, BigEndian, 1, Steim1, samples, 63, nil)
	assert.Len(t, data, 4096)

	length, err := RecordLength(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, 4096, length)
}

func TestRecordLengthDiscoversTwoRecordFile(t *testing.T) {
	samples := []int32{1, 2, 3, 4, 5}
	var carry int32
	rec1, _ := buildRecordBytes(t, BigEndian, 1, Steim1, samples, 7, &carry)
	rec2, _ := buildRecordBytes(t, BigEndian, 2, Steim1, samples, 7, &carry)
	assert.Len(t, rec1, 512)

	data := append(append([]byte{}, rec1...), rec2...)
	length, err := RecordLength(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, 512, length)
}

func TestIteratorDecodesRecordsInOrder(t *testing.T) {
	samplesA := []int32{10, 20, 30, 40, 50}
	samplesB := []int32{60, 55, 70, 1000, -200}

	var carry int32
	recA, consumedA := buildRecordBytes(t, BigEndian, 1, Steim1, samplesA, 7, &carry)
	recB, consumedB := buildRecordBytes(t, BigEndian, 2, Steim1, samplesB, 7, &carry)
	assert.Equal(t, len(samplesA), consumedA)
	assert.Equal(t, len(samplesB), consumedB)

	data := append(append([]byte{}, recA...), recB...)
	it, err := NewIterator(bytes.NewReader(data), true)
	assert.NoError(t, err)
	assert.Equal(t, 512, it.recordLength)

	first, err := it.Next()
	assert.NoError(t, err)
	assert.Equal(t, samplesA, first.Samples)
	assert.NotNil(t, first.Blockette1000)
	assert.Equal(t, FormatSteim1, first.Blockette1000.Format)

	second, err := it.Next()
	assert.NoError(t, err)
	assert.Equal(t, samplesB, second.Samples)

	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestIteratorSkipsDecodeWhenNotRequested(t *testing.T) {
	samples := []int32{1, 2, 3}
	data, _ := buildRecordBytes(t, BigEndian, 1, Steim1, samples, 7, nil)

	it, err := NewIterator(bytes.NewReader(data), false)
	assert.NoError(t, err)

	rec, err := it.Next()
	assert.NoError(t, err)
	assert.Nil(t, rec.Samples)
	assert.NotNil(t, rec.Header)
}
