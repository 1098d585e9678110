package steim

import "fmt"

// The functions in this file implement the raw bit layouts of Steim-1 and
// Steim-2 data words: packing a fixed tuple of signed deltas into a 32-bit
// word, and the corresponding unpacking back into deltas. Bucket and the
// decoder (DecodeRecord, via unpackWord) are the only callers; these are kept
// free of Bucket's bookkeeping so the bit arithmetic can be read (and checked
// against the tables) on its own.

func mask(v int32, bits int) uint32 {
	return uint32(v) & ((uint32(1) << uint(bits)) - 1)
}

// signExtend reinterprets the low `bits` bits of v as a signed two's
// complement integer.
func signExtend(v uint32, bits int) int32 {
	shift := uint(32 - bits)
	return int32(v<<shift) >> shift
}

// --- shared layouts (Steim-1 control 1..3, and Steim-2 control 1) ---

// pack1 stores a single delta across the full 32 bits.
func pack1(v0 int32) uint32 {
	return uint32(v0)
}

func unpack1(word uint32) int32 {
	return int32(word)
}

// pack2 stores two 16-bit deltas.
func pack2(v0, v1 int32) uint32 {
	return mask(v0, 16)<<16 | mask(v1, 16)
}

func unpack2(word uint32) []int32 {
	return []int32{
		signExtend(word>>16, 16),
		signExtend(word, 16),
	}
}

// pack4 stores four 8-bit deltas; shared by Steim-1 control 1 and Steim-2
// control 1.
func pack4(v0, v1, v2, v3 int32) uint32 {
	return mask(v0, 8)<<24 | mask(v1, 8)<<16 | mask(v2, 8)<<8 | mask(v3, 8)
}

func unpack4(word uint32) []int32 {
	return []int32{
		signExtend(word>>24, 8),
		signExtend(word>>16, 8),
		signExtend(word>>8, 8),
		signExtend(word, 8),
	}
}

// --- Steim-2 control 2: one of three sub-codes stored in the top two bits ---

// pack2d1 stores a single 30-bit delta (sub-code 1).
func pack2d1(v0 int32) uint32 {
	return 1<<30 | mask(v0, 30)
}

func unpack2d1(word uint32) []int32 {
	return []int32{signExtend(word, 30)}
}

// pack2d2 stores two 15-bit deltas (sub-code 2).
func pack2d2(v0, v1 int32) uint32 {
	return 2<<30 | mask(v0, 15)<<15 | mask(v1, 15)
}

func unpack2d2(word uint32) []int32 {
	return []int32{
		signExtend(word>>15, 15),
		signExtend(word, 15),
	}
}

// pack2d3 stores three 10-bit deltas (sub-code 3).
func pack2d3(v0, v1, v2 int32) uint32 {
	return 3<<30 | mask(v0, 10)<<20 | mask(v1, 10)<<10 | mask(v2, 10)
}

func unpack2d3(word uint32) []int32 {
	return []int32{
		signExtend(word>>20, 10),
		signExtend(word>>10, 10),
		signExtend(word, 10),
	}
}

// --- Steim-2 control 3: one of three sub-codes stored in the top two bits ---

// pack3d0 stores five 6-bit deltas (sub-code 0).
func pack3d0(v0, v1, v2, v3, v4 int32) uint32 {
	return 0<<30 | mask(v0, 6)<<24 | mask(v1, 6)<<18 | mask(v2, 6)<<12 | mask(v3, 6)<<6 | mask(v4, 6)
}

func unpack3d0(word uint32) []int32 {
	return []int32{
		signExtend(word>>24, 6),
		signExtend(word>>18, 6),
		signExtend(word>>12, 6),
		signExtend(word>>6, 6),
		signExtend(word, 6),
	}
}

// pack3d1 stores six 5-bit deltas (sub-code 1).
func pack3d1(v0, v1, v2, v3, v4, v5 int32) uint32 {
	return 1<<30 | mask(v0, 5)<<25 | mask(v1, 5)<<20 | mask(v2, 5)<<15 | mask(v3, 5)<<10 | mask(v4, 5)<<5 | mask(v5, 5)
}

func unpack3d1(word uint32) []int32 {
	return []int32{
		signExtend(word>>25, 5),
		signExtend(word>>20, 5),
		signExtend(word>>15, 5),
		signExtend(word>>10, 5),
		signExtend(word>>5, 5),
		signExtend(word, 5),
	}
}

// pack3d2 stores seven 4-bit deltas (sub-code 2), filling bits 27..0 with
// the values packed left to right and leaving bits 29..28 zero.
func pack3d2(v0, v1, v2, v3, v4, v5, v6 int32) uint32 {
	return 2<<30 |
		mask(v0, 4)<<24 | mask(v1, 4)<<20 | mask(v2, 4)<<16 | mask(v3, 4)<<12 |
		mask(v4, 4)<<8 | mask(v5, 4)<<4 | mask(v6, 4)
}

func unpack3d2(word uint32) []int32 {
	return []int32{
		signExtend(word>>24, 4),
		signExtend(word>>20, 4),
		signExtend(word>>16, 4),
		signExtend(word>>12, 4),
		signExtend(word>>8, 4),
		signExtend(word>>4, 4),
		signExtend(word, 4),
	}
}

// unpackWord dispatches a packed (control, word) pair to the bit layout its
// variant and control code select, returning the deltas it carries in
// original order.
func unpackWord(variant Variant, control uint8, word uint32) ([]int32, error) {
	if variant == Steim1 {
		return unpackSteim1(control, word)
	}
	return unpackSteim2(control, word)
}

func unpackSteim1(control uint8, word uint32) ([]int32, error) {
	switch control {
	case 1:
		return unpack4(word), nil
	case 2:
		return unpack2(word), nil
	case 3:
		return []int32{unpack1(word)}, nil
	default:
		return nil, fmt.Errorf("%w: steim-1 control code %d carries no samples", ErrInvalidControlCode, control)
	}
}

func unpackSteim2(control uint8, word uint32) ([]int32, error) {
	switch control {
	case 1:
		return unpack4(word), nil
	case 2:
		switch word >> 30 {
		case 1:
			return unpack2d1(word), nil
		case 2:
			return unpack2d2(word), nil
		case 3:
			return unpack2d3(word), nil
		default:
			return nil, fmt.Errorf("%w: steim-2 control 2 sub-code %d is undefined", ErrInvalidControlCode, word>>30)
		}
	case 3:
		switch word >> 30 {
		case 0:
			return unpack3d0(word), nil
		case 1:
			return unpack3d1(word), nil
		case 2:
			return unpack3d2(word), nil
		default:
			return nil, fmt.Errorf("%w: steim-2 control 3 sub-code %d is undefined", ErrInvalidControlCode, word>>30)
		}
	default:
		return nil, fmt.Errorf("%w: steim-2 control code %d carries no samples", ErrInvalidControlCode, control)
	}
}
