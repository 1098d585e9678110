package steim

import (
	"fmt"
	"math/bits"
)

// Variant selects which Steim bit-packing tables a Bucket uses. It replaces
// the source's Bucket class hierarchy (Steim1Bucket/Steim2Bucket) with a
// tagged variant over a single implementation, so the hot put/pack/fill path
// has no virtual dispatch.
type Variant uint8

const (
	Steim1 Variant = iota
	Steim2
)

func (v Variant) String() string {
	if v == Steim2 {
		return "steim-2"
	}
	return "steim-1"
}

const (
	steim1Capacity = 4
	steim2Capacity = 7
)

// Bucket greedily packs successive signed deltas into a single 32-bit word,
// widening its span to the narrowest slot that fits every value buffered so
// far. It is an ephemeral accumulator: the encoder owns exactly one at a
// time and discards it (or resets it) once packed.
type Bucket struct {
	variant Variant
	values  [steim2Capacity]int32
	count   int
	span    int
}

// NewBucket returns an empty bucket for the given Steim variant.
func NewBucket(variant Variant) *Bucket {
	return &Bucket{variant: variant}
}

func (b *Bucket) capacity() int {
	if b.variant == Steim1 {
		return steim1Capacity
	}
	return steim2Capacity
}

// IsEmpty reports whether no value has been put yet.
func (b *Bucket) IsEmpty() bool { return b.count == 0 }

// Reset clears the bucket back to empty, ready for reuse.
func (b *Bucket) Reset() {
	b.count = 0
	b.span = 0
}

// IsFull reports whether the bucket cannot accept another value without
// violating its variant's width bound, per the Data Model invariants.
func (b *Bucket) IsFull() bool {
	if b.count >= b.capacity() {
		return true
	}
	width := b.count * b.span
	if b.variant == Steim1 {
		return width >= 32
	}
	switch b.span {
	case 4:
		return width >= 28
	case 8:
		return width >= 32
	default:
		return width >= 30
	}
}

// Put attempts to accumulate delta into the bucket. It returns false (not an
// error) when the bucket is already full or — for Steim-2 only — when delta
// cannot be represented in any Steim-2 slot width at all.
func (b *Bucket) Put(delta int32) bool {
	if b.IsFull() {
		return false
	}

	var slot int
	if b.variant == Steim1 {
		slot = steim1SlotWidth(delta)
	} else {
		slot = steim2SlotWidth(delta)
		if slot > 30 {
			return false
		}
	}
	if slot < b.span {
		slot = b.span
	}

	width := slot * (b.count + 1)
	if b.variant == Steim1 {
		if width > 32 {
			return false
		}
	} else {
		switch slot {
		case 4:
			if width > 28 {
				return false
			}
		case 8:
			if width > 32 {
				return false
			}
		default:
			if width > 30 {
				return false
			}
		}
	}

	b.values[b.count] = delta
	b.count++
	b.span = slot
	return true
}

// Pack emits the word matching the bucket's current count and span, per the
// bit layouts in pack.go. When reset is true the bucket is cleared
// afterward — except for the Steim-1 count=3 special case, which slides the
// third value to slot 0 and reduces count to 1 instead of clearing.
func (b *Bucket) Pack(reset bool) (control uint8, word uint32, packedCount int, err error) {
	if b.count == 0 {
		return 0, 0, 0, fmt.Errorf("%w: %s bucket", ErrPackUnderflow, b.variant)
	}
	if b.variant == Steim1 {
		return b.packSteim1(reset)
	}
	return b.packSteim2(reset)
}

func (b *Bucket) packSteim1(reset bool) (uint8, uint32, int, error) {
	switch b.count {
	case 1:
		w := pack1(b.values[0])
		if reset {
			b.Reset()
		}
		return 3, w, 1, nil
	case 2:
		w := pack2(b.values[0], b.values[1])
		if reset {
			b.Reset()
		}
		return 2, w, 2, nil
	case 3:
		// Special case preserved from the source: flush only the first two
		// values (control=2, two 16-bit deltas) and slide the third value
		// down to slot 0 rather than discard it. Deliberately does NOT reset
		// span — a later Put sees the span already widened by whatever the
		// third value required, even though the bucket logically holds just
		// that one value now. Preserved for faithfulness (spec §9); flagged
		// as suspect there.
		w := pack2(b.values[0], b.values[1])
		if reset {
			b.values[0] = b.values[2]
			b.count = 1
		}
		return 2, w, 2, nil
	case 4:
		w := pack4(b.values[0], b.values[1], b.values[2], b.values[3])
		if reset {
			b.Reset()
		}
		return 1, w, 4, nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: invalid steim-1 bucket count %d", ErrPackUnderflow, b.count)
	}
}

func (b *Bucket) packSteim2(reset bool) (uint8, uint32, int, error) {
	var control uint8
	var w uint32
	n := b.count
	switch n {
	case 1:
		control, w = 2, pack2d1(b.values[0])
	case 2:
		control, w = 2, pack2d2(b.values[0], b.values[1])
	case 3:
		control, w = 2, pack2d3(b.values[0], b.values[1], b.values[2])
	case 4:
		control, w = 1, pack4(b.values[0], b.values[1], b.values[2], b.values[3])
	case 5:
		control, w = 3, pack3d0(b.values[0], b.values[1], b.values[2], b.values[3], b.values[4])
	case 6:
		control, w = 3, pack3d1(b.values[0], b.values[1], b.values[2], b.values[3], b.values[4], b.values[5])
	case 7:
		control, w = 3, pack3d2(b.values[0], b.values[1], b.values[2], b.values[3], b.values[4], b.values[5], b.values[6])
	default:
		return 0, 0, 0, fmt.Errorf("%w: invalid steim-2 bucket count %d", ErrPackUnderflow, n)
	}
	if reset {
		b.Reset()
	}
	return control, w, n, nil
}

// Fill reconstructs a Bucket from a packed (control, word) pair: the inverse
// of Pack. It unpacks the word's deltas per the bit-packing tables and
// re-inserts each via Put, so a filled bucket's span/count bookkeeping ends
// up exactly as if the deltas had been put one at a time.
func Fill(variant Variant, control uint8, word uint32) (*Bucket, error) {
	deltas, err := unpackWord(variant, control, word)
	if err != nil {
		return nil, err
	}
	b := NewBucket(variant)
	for _, d := range deltas {
		if !b.Put(d) {
			return nil, fmt.Errorf("%w: reconstructed %s bucket rejected value %d", ErrInvalidControlCode, variant, d)
		}
	}
	return b, nil
}

// signedBitWidth returns the number of bits a two's-complement representation
// of delta needs, including its sign bit. It mirrors requiredBitWidth in
// fastpfor.go - bits.Len32 on the value's magnitude - but on the ones'
// complement for negatives, since a signed n-bit slot covers
// [-2^(n-1), 2^(n-1)-1] rather than a symmetric range.
func signedBitWidth(delta int32) int {
	var magnitude uint32
	if delta >= 0 {
		magnitude = uint32(delta)
	} else {
		magnitude = uint32(^delta)
	}
	return bits.Len32(magnitude) + 1
}

// steim1SlotWidth returns the narrowest Steim-1 slot (8, 16, or 32 bits)
// that holds delta.
func steim1SlotWidth(delta int32) int {
	switch width := signedBitWidth(delta); {
	case width <= 8:
		return 8
	case width <= 16:
		return 16
	default:
		return 32
	}
}

// steim2Slots lists the Steim-2 slot widths in ascending order.
var steim2Slots = [...]int{4, 5, 6, 8, 10, 15, 30}

// steim2SlotWidth returns the narrowest Steim-2 slot width that holds delta,
// from {4, 5, 6, 8, 10, 15, 30}, or 32 if delta exceeds even the widest
// Steim-2 slot (signaling ErrDeltaOverflow to the caller).
func steim2SlotWidth(delta int32) int {
	width := signedBitWidth(delta)
	for _, slot := range steim2Slots {
		if width <= slot {
			return slot
		}
	}
	return 32
}
