// Package hamming74 implements the Hamming(7,4) single-error-correcting
// code: 4 raw bits are encoded into a 7-bit block carrying 3 parity bits
// at 1-indexed positions 1, 2, and 4.
//
// It cannot reliably distinguish a double-bit error from a different
// single-bit error and may silently miscorrect such blocks; this
// limitation is inherent to the code and is not reported as a detected
// error.
package hamming74

import "github.com/aionix/optical5d-codec/ecc"

var _ ecc.Codec = (*Codec)(nil)

// Codec is the Hamming(7,4) ECC scheme.
type Codec struct{}

// New creates a Hamming(7,4) Codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "hamming74".
func (c *Codec) Name() string {
	return "hamming74"
}

// Encode maps raw bits in blocks of 4 to encoded blocks of 7. len(bits)
// must be a multiple of 4.
func (c *Codec) Encode(bits []byte) ([]byte, error) {
	if len(bits)%4 != 0 {
		return nil, ecc.ErrInvalidLength
	}
	out := make([]byte, 0, len(bits)/4*7)
	for i := 0; i < len(bits); i += 4 {
		out = append(out, encodeBlock(bits[i:i+4])...)
	}
	return out, nil
}

// Decode maps encoded blocks of 7 back to raw blocks of 4, correcting any
// single-bit error per block. len(bits) must be a multiple of 7.
func (c *Codec) Decode(bits []byte) (ecc.DecodingResult, error) {
	if len(bits)%7 != 0 {
		return ecc.DecodingResult{}, ecc.ErrInvalidLength
	}
	out := make([]byte, 0, len(bits)/7*4)
	corrected := 0
	for i := 0; i < len(bits); i += 7 {
		data, fixed := decodeBlock(bits[i : i+7])
		out = append(out, data...)
		if fixed {
			corrected++
		}
	}
	return ecc.DecodingResult{Bits: out, CorrectedErrors: corrected}, nil
}

// EncodedLen returns ceil(rawBits/4)*7.
func (c *Codec) EncodedLen(rawBits int) int {
	blocks := (rawBits + 3) / 4
	return blocks * 7
}

// encodeBlock packs 4 raw bits (d0..d3) into a 7-bit codeword at
// 1-indexed positions [1..7] = [p1, p2, d0, p4, d1, d2, d3].
func encodeBlock(d []byte) []byte {
	d0, d1, d2, d3 := d[0]&1, d[1]&1, d[2]&1, d[3]&1
	p1 := d0 ^ d1 ^ d3
	p2 := d0 ^ d2 ^ d3
	p4 := d1 ^ d2 ^ d3
	return []byte{p1, p2, d0, p4, d1, d2, d3}
}

// decodeBlock corrects at most one bit flip in a 7-bit codeword and
// returns the 4 data bits, plus whether a correction was applied.
func decodeBlock(c []byte) ([]byte, bool) {
	pos := make([]byte, 8) // 1-indexed; pos[0] unused
	copy(pos[1:], c)

	c1 := pos[1] ^ pos[3] ^ pos[5] ^ pos[7]
	c2 := pos[2] ^ pos[3] ^ pos[6] ^ pos[7]
	c4 := pos[4] ^ pos[5] ^ pos[6] ^ pos[7]
	syndrome := int(c1) | int(c2)<<1 | int(c4)<<2

	if syndrome != 0 {
		pos[syndrome] ^= 1
		return []byte{pos[3], pos[5], pos[6], pos[7]}, true
	}
	return []byte{pos[3], pos[5], pos[6], pos[7]}, false
}

func init() {
	ecc.Register(New())
}
