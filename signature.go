// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	cryptorand "crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/ModChain/ecc/internal/zeroize"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// maxSignAttempts bounds the internal retries on degenerate nonces.
const maxSignAttempts = 32

// Signature is a type representing an ECDSA signature.
type Signature struct {
	r *big.Int
	s *big.Int

	// curve is the domain of the signing key.  Parsed signatures carry no
	// curve.
	curve *Curve
}

// NewSignature instantiates a new signature given some r and s values.
func NewSignature(r, s *big.Int) *Signature {
	return &Signature{r: new(big.Int).Set(r), s: new(big.Int).Set(s)}
}

// R returns a copy of the r component.
func (sig *Signature) R() *big.Int {
	return new(big.Int).Set(sig.r)
}

// S returns a copy of the s component.
func (sig *Signature) S() *big.Int {
	return new(big.Int).Set(sig.s)
}

// IsEqual compares this Signature instance to the one passed, returning true
// if both Signatures are equivalent.
func (sig *Signature) IsEqual(other *Signature) bool {
	return sig.r.Cmp(other.r) == 0 && sig.s.Cmp(other.s) == 0
}

// Serialize returns the ECDSA signature in the Distinguished Encoding Rules
// (DER) format:
//
//	0x30 <length> 0x02 <length r> r 0x02 <length s> s
func (sig *Signature) Serialize() []byte {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(sig.r)
		b.AddASN1BigInt(sig.s)
	})
	out, err := b.Bytes()
	if err != nil {
		// Only negative values fail and those never leave the package.
		panic(fmt.Sprintf("signature serialization failed: %v", err))
	}
	return out
}

// SerializeRaw returns r || s, each left padded to size octets.
func (sig *Signature) SerializeRaw(size int) ([]byte, error) {
	if (sig.r.BitLen()+7)/8 > size || (sig.s.BitLen()+7)/8 > size {
		return nil, makeError(ErrBufferTooSmall, "signature component exceeds size")
	}
	out := make([]byte, 2*size)
	fill(out[:size], sig.r)
	fill(out[size:], sig.s)
	return out, nil
}

// ParseDERSignature parses a DER encoded signature.  Range checks against a
// curve order happen during verification.
func ParseDERSignature(sig []byte) (*Signature, error) {
	r, s := new(big.Int), new(big.Int)
	var inner cryptobyte.String
	input := cryptobyte.String(sig)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() ||
		!inner.ReadASN1Integer(r) || !inner.ReadASN1Integer(s) ||
		!inner.Empty() {

		return nil, makeError(ErrMalformedEncoding, "malformed DER signature")
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return nil, makeError(ErrInvalidSignature, "signature component is not positive")
	}
	return &Signature{r: r, s: s}, nil
}

// ParseRawSignature parses r || s where both halves have the curve size.
func ParseRawSignature(curve *Curve, sig []byte) (*Signature, error) {
	size := curve.params.Size
	if len(sig) != 2*size {
		str := fmt.Sprintf("malformed raw signature: invalid length %d", len(sig))
		return nil, makeError(ErrMalformedEncoding, str)
	}
	return &Signature{
		r:     new(big.Int).SetBytes(sig[:size]),
		s:     new(big.Int).SetBytes(sig[size:]),
		curve: curve,
	}, nil
}

// RSToSig assembles a DER signature from hex encoded r and s components
// without signing anything.
func RSToSig(r, s string) ([]byte, error) {
	rr, err := parseHexInt(r)
	if err != nil {
		return nil, err
	}
	ss, err := parseHexInt(s)
	if err != nil {
		return nil, err
	}
	if rr.Sign() == 0 || ss.Sign() == 0 {
		return nil, makeError(ErrInvalidSignature, "signature component is zero")
	}
	return NewSignature(rr, ss).Serialize(), nil
}

// maxDERSigSize returns the size of the largest DER signature for the order.
func maxDERSigSize(n *big.Int) int {
	derLen := func(l int) int {
		switch {
		case l < 0x80:
			return 1
		case l < 0x100:
			return 2
		default:
			return 3
		}
	}
	// A leading zero byte is only needed when the top bit of the order
	// length is set.
	intLen := n.BitLen()/8 + 1
	intEnc := 1 + derLen(intLen) + intLen
	content := 2 * intEnc
	return 1 + derLen(content) + content
}

// hashToInt converts a hash value to an integer.  Per FIPS 186-4, Section
// 6.4, the leftmost bits of the hash are used up to the bit length of the
// group order.
func hashToInt(hash []byte, curve *Curve) *big.Int {
	orderBits := curve.params.N.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}
	ret := new(big.Int).SetBytes(hash)
	excess := len(hash)*8 - orderBits
	if excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}

// signWithNonce computes the signature for the hash value e with nonce k.
// It reports false for the degenerate cases r = 0 and s = 0.
func signWithNonce(priv *PrivateKey, e, k *big.Int) (*Signature, bool) {
	curve := priv.curve
	n := curve.params.N

	var rPoint JacobianPoint
	curve.ScalarBaseMult(k, &rPoint)
	if rPoint.IsInfinity() {
		return nil, false
	}
	rPoint.ToAffine(curve)
	r := new(big.Int).Mod(rPoint.X, n)
	if r.Sign() == 0 {
		return nil, false
	}

	// k⁻¹ through Fermat's little theorem keeps the inversion free of
	// scalar dependent branches in this code.
	kInv := new(big.Int).Exp(k, new(big.Int).Sub(n, big.NewInt(2)), n)

	s := new(big.Int).Mul(r, priv.d)
	s.Add(s, e)
	s.Mul(s, kInv)
	s.Mod(s, n)
	if s.Sign() == 0 {
		return nil, false
	}
	return &Signature{r: r, s: s, curve: curve}, true
}

// SignHash signs the hash with the private key using a fresh random nonce
// drawn from rand, crypto/rand when nil.  Degenerate nonces are retried
// internally.
func SignHash(rand io.Reader, priv *PrivateKey, hash []byte) (*Signature, error) {
	if !priv.hasScalar() {
		return nil, makeError(ErrNoPrivateKey, "missing private key")
	}
	if rand == nil {
		rand = cryptorand.Reader
	}
	e := hashToInt(hash, priv.curve)
	for i := 0; i < maxSignAttempts; i++ {
		k, err := randScalar(rand, priv.curve)
		if err != nil {
			return nil, err
		}
		sig, ok := signWithNonce(priv, e, k)
		zeroize.BigInt(k)
		if ok {
			return sig, nil
		}
	}
	return nil, makeError(ErrRandomSource, "no usable nonce produced")
}

// VerifySignature reports whether sig is a valid signature of hash by pub.
// It fails with ErrCurveMismatch when the signature was produced on another
// curve and with ErrInvalidSignature when r or s is outside [1, N-1].
func VerifySignature(sig *Signature, hash []byte, pub *PublicKey) (bool, error) {
	if err := pub.validate(); err != nil {
		return false, err
	}
	curve := pub.curve
	if sig.curve != nil && !sig.curve.Equal(curve) {
		str := fmt.Sprintf("signature made on %s cannot be verified with a %s key",
			sig.curve.Name(), curve.Name())
		return false, makeError(ErrCurveMismatch, str)
	}
	n := curve.params.N
	if sig.r.Sign() <= 0 || sig.r.Cmp(n) >= 0 || sig.s.Sign() <= 0 || sig.s.Cmp(n) >= 0 {
		return false, makeError(ErrInvalidSignature, "signature component is not in [1, N-1]")
	}

	e := hashToInt(hash, curve)
	w := new(big.Int).ModInverse(sig.s, n)
	u1 := e.Mul(e, w)
	u1.Mod(u1, n)
	u2 := w.Mul(sig.r, w)
	u2.Mod(u2, n)

	var q, x JacobianPoint
	pub.AsJacobian(&q)
	curve.doubleScalarMultVartime(u1, u2, &q, &x)
	if x.IsInfinity() {
		return false, nil
	}
	x.ToAffine(curve)
	v := x.X.Mod(x.X, n)
	return v.Cmp(sig.r) == 0, nil
}

// Verify returns whether or not the signature is valid for the provided hash
// and public key.  Any error counts as invalid.
func (sig *Signature) Verify(hash []byte, pub *PublicKey) bool {
	ok, err := VerifySignature(sig, hash, pub)
	return err == nil && ok
}

// VerifyHash verifies a DER encoded signature.  Malformed encodings and out of
// range components are reported as errors, a well formed signature that does
// not match returns false.
func VerifyHash(sig, hash []byte, pub *PublicKey) (bool, error) {
	parsed, err := ParseDERSignature(sig)
	if err != nil {
		return false, err
	}
	return VerifySignature(parsed, hash, pub)
}
