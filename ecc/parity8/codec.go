// Package parity8 implements a single-even-parity-per-byte ECC scheme:
// 8 raw bits are encoded into a 9-bit block by appending one even-parity
// bit. It detects but never corrects a flipped bit.
package parity8

import "github.com/aionix/optical5d-codec/ecc"

var _ ecc.Codec = (*Codec)(nil)

// Codec is the parity-per-byte ECC scheme.
type Codec struct{}

// New creates a parity8 Codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "parity8".
func (c *Codec) Name() string {
	return "parity8"
}

// Encode maps raw bits in blocks of 8 to encoded blocks of 9 (8 data
// bits plus one even-parity bit). len(bits) must be a multiple of 8.
func (c *Codec) Encode(bits []byte) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, ecc.ErrInvalidLength
	}
	out := make([]byte, 0, len(bits)/8*9)
	for i := 0; i < len(bits); i += 8 {
		block := bits[i : i+8]
		out = append(out, block...)
		out = append(out, evenParity(block))
	}
	return out, nil
}

// Decode maps encoded blocks of 9 back to raw blocks of 8, flagging but
// not correcting any block whose parity disagrees. len(bits) must be a
// multiple of 9.
func (c *Codec) Decode(bits []byte) (ecc.DecodingResult, error) {
	if len(bits)%9 != 0 {
		return ecc.DecodingResult{}, ecc.ErrInvalidLength
	}
	out := make([]byte, 0, len(bits)/9*8)
	uncorrectable := 0
	for i := 0; i < len(bits); i += 9 {
		data := bits[i : i+8]
		received := bits[i+8]
		if evenParity(data) != received {
			uncorrectable++
		}
		out = append(out, data...)
	}
	return ecc.DecodingResult{Bits: out, DetectedUncorrectable: uncorrectable}, nil
}

// EncodedLen returns ceil(rawBits/8)*9.
func (c *Codec) EncodedLen(rawBits int) int {
	blocks := (rawBits + 7) / 8
	return blocks * 9
}

func evenParity(bits []byte) byte {
	var p byte
	for _, b := range bits {
		p ^= b & 1
	}
	return p
}

func init() {
	ecc.Register(New())
}
