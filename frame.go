package steim

import "fmt"

const wordsPerFrame = 16

// Frame is one 16-word (64-byte) slice of a Record. Word 0 is always a
// control sequence; in frame 0, words 1 and 2 are additionally reserved for
// the record's forward and reverse integration factors, leaving only 13
// data words in that frame versus 15 in every other.
type Frame struct {
	buf *WordBuffer
}

func newFrame(byteOrder ByteOrder) *Frame {
	return &Frame{buf: NewWordBuffer(wordsPerFrame, byteOrder)}
}

func frameFromWords(words []int32, byteOrder ByteOrder) (*Frame, error) {
	if len(words) != wordsPerFrame {
		return nil, fmt.Errorf("%w: frame has %d words, want %d", ErrTruncatedInput, len(words), wordsPerFrame)
	}
	buf := NewWordBuffer(wordsPerFrame, byteOrder)
	for i, w := range words {
		buf.PutAt(i, w)
	}
	return &Frame{buf: buf}, nil
}

// Control returns the frame's control sequence (word 0).
func (f *Frame) Control() (ControlSequence, error) {
	return NewControlSequence(uint32(f.buf.Get(0)))
}

func (f *Frame) setControlCell(col int, code uint8) error {
	cs, err := NewControlSequence(uint32(f.buf.Get(0)))
	if err != nil {
		// An empty/zero word 0 is a valid starting control sequence.
		cs = 0
	}
	if err := cs.Set(col, code); err != nil {
		return err
	}
	f.buf.PutAt(0, int32(cs))
	return nil
}

// Word returns the raw word at index i (0..15).
func (f *Frame) Word(i int) int32 { return f.buf.Get(i) }

func (f *Frame) setWord(i int, v int32) { f.buf.PutAt(i, v) }

func (f *Frame) toBytes() []byte { return f.buf.ToBytes() }

// Record is a fixed number of Frames sharing one byte order, built up one
// packed Bucket at a time by Append, or reconstructed whole from an
// on-disk byte range by WrapBytes.
type Record struct {
	frames          []*Frame
	byteOrder       ByteOrder
	index           int
	numberOfSamples int
}

// NewRecord allocates an empty record of numberOfFrames frames. Word 1 and
// word 2 of frame 0 are reserved for the integration factors from the
// start; Append begins writing data at word 3 of frame 0.
func NewRecord(numberOfFrames int, byteOrder ByteOrder) *Record {
	if numberOfFrames < 1 {
		panic(fmt.Sprintf("steim: record needs at least one frame, got %d", numberOfFrames))
	}
	frames := make([]*Frame, numberOfFrames)
	for i := range frames {
		frames[i] = newFrame(byteOrder)
	}
	return &Record{frames: frames, byteOrder: byteOrder}
}

// ForwardIntegrationFactor returns frame 0's word 1: the first decoded
// sample of the record, stored verbatim.
func (r *Record) ForwardIntegrationFactor() int32 { return r.frames[0].Word(1) }

// SetForwardIntegrationFactor sets frame 0's word 1.
func (r *Record) SetForwardIntegrationFactor(v int32) { r.frames[0].setWord(1, v) }

// ReverseIntegrationFactor returns frame 0's word 2: the last decoded
// sample of the record, stored verbatim.
func (r *Record) ReverseIntegrationFactor() int32 { return r.frames[0].Word(2) }

// SetReverseIntegrationFactor sets frame 0's word 2.
func (r *Record) SetReverseIntegrationFactor(v int32) { r.frames[0].setWord(2, v) }

// FrameCount returns the number of frames the record holds.
func (r *Record) FrameCount() int { return len(r.frames) }

// NumberOfSamples returns the count of deltas accumulated via Append so far.
func (r *Record) NumberOfSamples() int { return r.numberOfSamples }

// IsFull reports whether every data-bearing word slot has been written.
func (r *Record) IsFull() bool { return r.index >= len(r.frames)*wordsPerFrame }

// IsEmpty reports whether no data has been appended yet.
func (r *Record) IsEmpty() bool { return r.index == 0 }

// ByteOrder returns the record's byte order.
func (r *Record) ByteOrder() ByteOrder { return r.byteOrder }

// Append writes one packed bucket (control code, data word, and the count
// of samples it represents) into the next free frame slot. It returns false
// without modifying the record if the record has no room left.
//
// The first word ever appended to a record always lands at frame 0, word 3
// (words 1 and 2 having been reserved for the integration factors); every
// frame's word 0 is skipped automatically as that frame's control sequence.
func (r *Record) Append(control uint8, word int32, sampleCount int) (bool, error) {
	if r.IsFull() {
		return false, nil
	}
	if r.IsEmpty() {
		r.index = 3
	}

	row, col := r.index/wordsPerFrame, r.index%wordsPerFrame
	if col == 0 {
		// Word 0 of every frame is its control sequence; skip past it.
		r.index++
		row, col = r.index/wordsPerFrame, r.index%wordsPerFrame
	}
	if row >= len(r.frames) {
		return false, nil
	}

	frame := r.frames[row]
	if err := frame.setControlCell(col, control); err != nil {
		return false, err
	}
	frame.setWord(col, word)
	r.index++
	r.numberOfSamples += sampleCount
	return true, nil
}

// ToBytes serializes every frame of the record, in order, to its on-disk
// byte form.
func (r *Record) ToBytes() []byte {
	out := make([]byte, 0, len(r.frames)*wordsPerFrame*4)
	for _, f := range r.frames {
		out = append(out, f.toBytes()...)
	}
	return out
}

// WrapBytes interprets data as a sequence of 64-byte frames in the given
// byte order. The record is marked full: it represents already-encoded,
// read-only data, not a record under construction.
func WrapBytes(data []byte, byteOrder ByteOrder) (*Record, error) {
	const frameBytes = wordsPerFrame * 4
	if len(data)%frameBytes != 0 || len(data) == 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of frames", ErrTruncatedInput, len(data))
	}
	numberOfFrames := len(data) / frameBytes
	frames := make([]*Frame, numberOfFrames)
	for i := range frames {
		buf, err := WrapWordBuffer(data[i*frameBytes:(i+1)*frameBytes], byteOrder)
		if err != nil {
			return nil, err
		}
		frames[i] = &Frame{buf: buf}
	}
	return &Record{
		frames:    frames,
		byteOrder: byteOrder,
		index:     numberOfFrames * wordsPerFrame,
	}, nil
}
