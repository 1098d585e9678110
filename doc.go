// Package steim implements the Steim-1 and Steim-2 compression codecs used by
// the mini-SEED seismic data format, plus the record framing and iteration
// layer needed to read mini-SEED files.
//
// The codec packs a stream of signed 32-bit sample deltas into fixed 16-word
// (64-byte) frames. Each frame's first word is a control sequence of sixteen
// 2-bit codes describing how the remaining 15 words are packed; the first
// frame of a record additionally reserves its second and third words for the
// forward and reverse integration factors (the first and last decoded
// samples, stored verbatim for an end-to-end integrity check).
//
// On top of the codec sits a thin record iterator: given a seekable byte
// source it discovers the fixed record length by probing power-of-two
// offsets for the mini-SEED header signature, determines byte order from the
// record start-time field, parses the B100/B1000/B1001 blockettes needed to
// locate the encoding format and the sample data, and yields decoded records
// in file order.
//
// The package keeps no global mutable state. A Record, once wrapped from
// bytes, is an immutable value that can be shared freely across goroutines;
// an Encoder's working Bucket and Record are not safe to share while
// encoding is in progress.
//
// Steim-3 and blockette types beyond B100/B1000/B1001 are out of scope; see
// EncodingFormat for the full set of mini-SEED encoding identifiers a B1000
// blockette may declare, most of which this package does not decode.
package steim
