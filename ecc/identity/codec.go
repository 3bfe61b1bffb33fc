// Package identity implements the "none" ECC scheme: encode and decode
// are both the identity function, with zero redundancy and zero
// correction power.
package identity

import "github.com/aionix/optical5d-codec/ecc"

var _ ecc.Codec = (*Codec)(nil)

// Codec is the identity ECC scheme.
type Codec struct{}

// New creates an identity Codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "none".
func (c *Codec) Name() string {
	return "none"
}

// Encode returns a copy of bits unchanged.
func (c *Codec) Encode(bits []byte) ([]byte, error) {
	out := make([]byte, len(bits))
	copy(out, bits)
	return out, nil
}

// Decode returns bits unchanged with zero error counters.
func (c *Codec) Decode(bits []byte) (ecc.DecodingResult, error) {
	out := make([]byte, len(bits))
	copy(out, bits)
	return ecc.DecodingResult{Bits: out}, nil
}

// EncodedLen returns rawBits unchanged.
func (c *Codec) EncodedLen(rawBits int) int {
	return rawBits
}

func init() {
	ecc.Register(New())
}
