// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"math/big"
)

// These constants define the lengths and format bytes of serialized public
// keys.
const (
	PubKeyFormatCompressedEven byte = 0x02
	PubKeyFormatCompressedOdd  byte = 0x03
	PubKeyFormatUncompressed   byte = 0x04
)

// Key is implemented by both key variants.  A PublicKey holds only the point,
// a PrivateKey holds the point and the scalar.
type Key interface {
	Curve() *Curve
	PubKey() *PublicKey
	IsPrivate() bool
}

// PublicKey provides facilities for efficiently working with public keys on
// any registry or custom curve.  The point is always a finite point on the
// curve.
type PublicKey struct {
	curve *Curve
	x     *big.Int
	y     *big.Int
}

// NewPublicKey instantiates a new public key with the given affine
// coordinates after checking the point is on the curve.
func NewPublicKey(curve *Curve, x, y *big.Int) (*PublicKey, error) {
	if curve == nil {
		return nil, makeError(ErrInvalidCurve, "nil curve")
	}
	if !curve.IsOnCurve(x, y) {
		return nil, makeError(ErrPointNotOnCurve, "public key point is not on the curve")
	}
	return &PublicKey{
		curve: curve,
		x:     new(big.Int).Set(x),
		y:     new(big.Int).Set(y),
	}, nil
}

// publicFromJacobian converts a multiplication result into a public key.
func publicFromJacobian(curve *Curve, p *JacobianPoint) (*PublicKey, error) {
	if p.IsInfinity() {
		return nil, makeError(ErrPointNotOnCurve, "public key is the point at infinity")
	}
	p.ToAffine(curve)
	return NewPublicKey(curve, p.X, p.Y)
}

// Curve returns the curve domain of the key.
func (p *PublicKey) Curve() *Curve {
	return p.curve
}

// PubKey returns the key itself.
func (p *PublicKey) PubKey() *PublicKey {
	return p
}

// IsPrivate returns false for public keys.
func (p *PublicKey) IsPrivate() bool {
	return false
}

// X returns a copy of the x coordinate.
func (p *PublicKey) X() *big.Int {
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate.
func (p *PublicKey) Y() *big.Int {
	return new(big.Int).Set(p.y)
}

// AsJacobian converts the public key into a Jacobian point with Z=1 and
// stores the result in the provided result param.
func (p *PublicKey) AsJacobian(result *JacobianPoint) {
	result.setAffine(p.x, p.y)
}

// IsEqual compares this public key instance to the one passed, returning
// true if both public keys are equivalent.
func (p *PublicKey) IsEqual(other *PublicKey) bool {
	return p.curve.Equal(other.curve) && p.x.Cmp(other.x) == 0 && p.y.Cmp(other.y) == 0
}

// validate rejects zero value keys and keys whose point left the curve.
func (p *PublicKey) validate() error {
	if p == nil || p.curve == nil || p.x == nil || p.y == nil {
		return makeError(ErrPointNotOnCurve, "public key is not initialized")
	}
	if !p.curve.IsOnCurve(p.x, p.y) {
		return makeError(ErrPointNotOnCurve, "public key point is not on the curve")
	}
	return nil
}

// Size returns the encoded field width of the key's curve in octets.
func (p *PublicKey) Size() int {
	return p.curve.params.Size
}

// SigSize returns the maximum size of a DER encoded signature made with a key
// on this curve.
func (p *PublicKey) SigSize() int {
	return p.curve.SigSize()
}

// X963Size returns the length of the X9.63 encoding.
func (p *PublicKey) X963Size(compressed bool) int {
	if compressed {
		return 1 + p.curve.params.Size
	}
	return 1 + 2*p.curve.params.Size
}

// SerializeUncompressed serializes a public key in the 65-byte (for 256 bit
// curves) uncompressed format 0x04 || X || Y.
func (p *PublicKey) SerializeUncompressed() []byte {
	out := make([]byte, p.X963Size(false))
	p.putX963(out, false)
	return out
}

// SerializeCompressed serializes a public key as 0x02 || X when Y is even or
// 0x03 || X when Y is odd.
func (p *PublicKey) SerializeCompressed() []byte {
	out := make([]byte, p.X963Size(true))
	p.putX963(out, true)
	return out
}

// ExportX963 serializes the public key in the X9.63 format, compressed or
// not.
func (p *PublicKey) ExportX963(compressed bool) []byte {
	if compressed {
		return p.SerializeCompressed()
	}
	return p.SerializeUncompressed()
}

// PutX963 writes the X9.63 encoding into out and returns the number of bytes
// written.  Nothing is written when out is too small.
func (p *PublicKey) PutX963(out []byte, compressed bool) (int, error) {
	need := p.X963Size(compressed)
	if len(out) < need {
		str := fmt.Sprintf("need %d bytes for public key, got %d", need, len(out))
		return 0, makeError(ErrBufferTooSmall, str)
	}
	p.putX963(out[:need], compressed)
	return need, nil
}

func (p *PublicKey) putX963(out []byte, compressed bool) {
	size := p.curve.params.Size
	fill(out[1:1+size], p.x)
	if compressed {
		out[0] = PubKeyFormatCompressedEven | byte(p.y.Bit(0))
		return
	}
	out[0] = PubKeyFormatUncompressed
	fill(out[1+size:1+2*size], p.y)
}

// ParsePubKey parses a public key for the given curve from bytes in the X9.63
// format, compressed or uncompressed.  The point is validated.
func ParsePubKey(curve *Curve, data []byte) (*PublicKey, error) {
	if curve == nil {
		return nil, makeError(ErrInvalidCurve, "nil curve")
	}
	size := curve.params.Size
	if len(data) == 0 {
		return nil, makeError(ErrMalformedEncoding, "empty public key")
	}

	switch format := data[0]; format {
	case PubKeyFormatUncompressed:
		if len(data) != 1+2*size {
			str := fmt.Sprintf("malformed public key: invalid length %d for "+
				"uncompressed %s key", len(data), curve.Name())
			return nil, makeError(ErrMalformedEncoding, str)
		}
		x := new(big.Int).SetBytes(data[1 : 1+size])
		y := new(big.Int).SetBytes(data[1+size:])
		return NewPublicKey(curve, x, y)

	case PubKeyFormatCompressedEven, PubKeyFormatCompressedOdd:
		if len(data) != 1+size {
			str := fmt.Sprintf("malformed public key: invalid length %d for "+
				"compressed %s key", len(data), curve.Name())
			return nil, makeError(ErrMalformedEncoding, str)
		}
		x := new(big.Int).SetBytes(data[1:])
		y, err := curve.DecompressY(x, format == PubKeyFormatCompressedOdd)
		if err != nil {
			return nil, err
		}
		return NewPublicKey(curve, x, y)
	}

	str := fmt.Sprintf("malformed public key: unknown format 0x%02x", data[0])
	return nil, makeError(ErrMalformedEncoding, str)
}

// ParsePubKeyX963 parses an X9.63 public key and infers the curve from the
// encoded length.  The first registry curve with a matching field size is
// used, so P-256 is chosen over secp256k1 for 32 byte coordinates.  Use
// ParsePubKey to select the curve explicitly.
func ParsePubKeyX963(data []byte) (*PublicKey, error) {
	if len(data) < 2 {
		return nil, makeError(ErrMalformedEncoding, "public key too short")
	}
	var size int
	switch data[0] {
	case PubKeyFormatUncompressed:
		if (len(data)-1)%2 != 0 {
			return nil, makeError(ErrMalformedEncoding, "odd uncompressed public key length")
		}
		size = (len(data) - 1) / 2
	case PubKeyFormatCompressedEven, PubKeyFormatCompressedOdd:
		size = len(data) - 1
	default:
		str := fmt.Sprintf("malformed public key: unknown format 0x%02x", data[0])
		return nil, makeError(ErrMalformedEncoding, str)
	}
	curve, err := curveByEncodedSize(size)
	if err != nil {
		return nil, err
	}
	return ParsePubKey(curve, data)
}

// stdlibCurve maps NIST registry curves to crypto/elliptic.
func stdlibCurve(curve *Curve) (elliptic.Curve, bool) {
	switch {
	case curve.Equal(P224):
		return elliptic.P224(), true
	case curve.Equal(P256):
		return elliptic.P256(), true
	case curve.Equal(P384):
		return elliptic.P384(), true
	case curve.Equal(P521):
		return elliptic.P521(), true
	}
	return nil, false
}

// ToECDSA returns the public key as a *ecdsa.PublicKey.  Only the NIST curves
// known to crypto/elliptic can be converted.
func (p *PublicKey) ToECDSA() (*ecdsa.PublicKey, error) {
	std, ok := stdlibCurve(p.curve)
	if !ok {
		str := fmt.Sprintf("curve %s has no crypto/elliptic counterpart", p.curve.Name())
		return nil, makeError(ErrInvalidCurve, str)
	}
	return &ecdsa.PublicKey{Curve: std, X: p.X(), Y: p.Y()}, nil
}
