package steim

import "errors"

// Sentinel errors returned by this package. Callers should compare with
// errors.Is since most are wrapped with additional context via fmt.Errorf.
var (
	// ErrInvalidControlCode is returned when a control sequence cell holds a
	// value outside {0..3}, when cell 0 is nonzero, or when a packed word
	// carries a control/sub-code combination no codec table defines.
	ErrInvalidControlCode = errors.New("steim: invalid control code")

	// ErrPackUnderflow is returned by Bucket.Pack when called on an empty
	// bucket; there is nothing to emit.
	ErrPackUnderflow = errors.New("steim: pack called on an empty bucket")

	// ErrUnsupportedEncoding is returned when a B1000 blockette names an
	// encoding format this package does not implement (anything other than
	// Steim-1 or Steim-2, including Steim-3).
	ErrUnsupportedEncoding = errors.New("steim: unsupported encoding format")

	// ErrByteOrderUndetermined is returned when a 48-byte header's start-time
	// year field doesn't fall in (1900, 2600) under either byte order.
	ErrByteOrderUndetermined = errors.New("steim: byte order could not be determined")

	// ErrRecordLengthUndetermined is returned when record-length discovery
	// exhausts its probe offsets without finding a repeated header signature
	// or a valid power-of-two end of file.
	ErrRecordLengthUndetermined = errors.New("steim: record length could not be determined")

	// ErrIntegrityMismatch is returned when a decoded record's sample count
	// or last sample disagrees with the record's own bookkeeping (expected
	// count, reverse integration factor).
	ErrIntegrityMismatch = errors.New("steim: integrity check failed")

	// ErrTruncatedInput is returned when a byte slice is shorter than the
	// record length, frame size, or fixed header it is required to hold.
	ErrTruncatedInput = errors.New("steim: truncated input")

	// ErrDeltaOverflow is returned when a single delta cannot be represented
	// in any Steim-2 slot width (magnitude beyond the 30-bit signed range).
	// Steim-1 has no equivalent failure mode: its widest slot is a full
	// signed 32-bit word.
	ErrDeltaOverflow = errors.New("steim: delta exceeds steim-2 representable range")
)

// BucketFull is deliberately not an error. Bucket.Put signals "no room"
// with a plain bool return; the caller (the encoder) flushes and retries.
// This mirrors the source's treatment of a full bucket as routine control
// flow rather than an exceptional condition.
