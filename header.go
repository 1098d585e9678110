package steim

import (
	"fmt"
	"regexp"
	"time"
)

const fixedHeaderSize = 48

// recordHeaderPattern matches the six-digit sequence number and single
// record-type letter every mini-SEED fixed header begins with.
var recordHeaderPattern = regexp.MustCompile(`^[0-9]{6}[VASTDRQM]`)

// Header is the 48-byte fixed section every mini-SEED data record opens
// with.
type Header struct {
	SequenceNumber               string
	RecordType                   byte
	StationIdentifier            string
	LocationIdentifier           string
	ChannelIdentifier            string
	NetworkCode                  string
	StartTime                    time.Time
	NumberOfSamples              uint16
	SampleRateFactor             int16
	SampleRateMultiplier         int16
	ActivityFlags                uint8
	IOAndClockFlags              uint8
	DataQualityFlags             uint8
	NumberOfBlockettesThatFollow uint8
	TimeCorrection               int32
	BeginningOfData              uint16
	FirstBlockette               uint16
	ByteOrder                    ByteOrder
}

// DetectByteOrder inspects the start-time field of a 48-byte header (bytes
// 20 through 29: year, day-of-year, hour, minute, second, unused, fraction)
// under both byte orders and accepts whichever produces a plausible year.
// Neither order producing 1900 < year < 2600 is reported as
// ErrByteOrderUndetermined.
func DetectByteOrder(data []byte) (ByteOrder, error) {
	if len(data) < fixedHeaderSize {
		return 0, fmt.Errorf("%w: header is %d bytes, want %d", ErrTruncatedInput, len(data), fixedHeaderSize)
	}
	for _, order := range []ByteOrder{BigEndian, LittleEndian} {
		year := order.binary().Uint16(data[20:22])
		if year > 1900 && year < 2600 {
			return order, nil
		}
	}
	return 0, ErrByteOrderUndetermined
}

// ParseHeader reads the fixed 48-byte header from the front of data. The
// byte order must already be known (see DetectByteOrder); ParseHeader does
// not attempt to discover it itself since a caller iterating many records
// only needs to do that once per record length, not once per record.
func ParseHeader(data []byte, byteOrder ByteOrder) (*Header, error) {
	if len(data) < fixedHeaderSize {
		return nil, fmt.Errorf("%w: header is %d bytes, want %d", ErrTruncatedInput, len(data), fixedHeaderSize)
	}
	if !recordHeaderPattern.Match(data[0:7]) {
		return nil, fmt.Errorf("%w: %q does not match the mini-SEED header signature", ErrRecordLengthUndetermined, data[0:7])
	}

	bo := byteOrder.binary()
	h := &Header{
		SequenceNumber:               string(data[0:6]),
		RecordType:                   data[6],
		StationIdentifier:            trimFixed(data[8:13]),
		LocationIdentifier:           trimFixed(data[13:15]),
		ChannelIdentifier:            trimFixed(data[15:18]),
		NetworkCode:                  trimFixed(data[18:20]),
		NumberOfSamples:              bo.Uint16(data[30:32]),
		SampleRateFactor:             int16(bo.Uint16(data[32:34])),
		SampleRateMultiplier:         int16(bo.Uint16(data[34:36])),
		ActivityFlags:                data[36],
		IOAndClockFlags:              data[37],
		DataQualityFlags:             data[38],
		NumberOfBlockettesThatFollow: data[39],
		TimeCorrection:               int32(bo.Uint32(data[40:44])),
		BeginningOfData:              bo.Uint16(data[44:46]),
		FirstBlockette:               bo.Uint16(data[46:48]),
		ByteOrder:                    byteOrder,
	}

	year := bo.Uint16(data[20:22])
	dayOfYear := bo.Uint16(data[22:24])
	hour, minute, second := data[24], data[25], data[26]
	// data[27] is unused, per the fixed header layout.
	fraction := bo.Uint16(data[28:30])

	h.StartTime = time.Date(int(year), time.January, 1, int(hour), int(minute), int(second), 0, time.UTC).
		AddDate(0, 0, int(dayOfYear)-1).
		Add(time.Duration(fraction) * 100 * time.Microsecond)

	return h, nil
}

func trimFixed(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}
	return string(b[:end])
}

// SampleRate computes the record's nominal sample rate in Hz from the
// factor/multiplier pair: factor > 0 gives factor * multiplier directly;
// factor < 0 gives -multiplier / factor; factor == 0 means the rate is not
// specified. This is the documented formula, taken literally - it does not
// special-case a negative multiplier as a reciprocal scale.
func (h *Header) SampleRate() float64 {
	if h.SampleRateFactor == 0 {
		return 0
	}
	if h.SampleRateFactor > 0 {
		return float64(h.SampleRateFactor) * float64(h.SampleRateMultiplier)
	}
	return -float64(h.SampleRateMultiplier) / float64(h.SampleRateFactor)
}
