// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"crypto"
	"crypto/ecdsa"
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ModChain/ecc/internal/zeroize"
	"go.uber.org/zap"
)

// maxGenerateAttempts bounds rejection sampling.  For every registry curve a
// draw is rejected with probability below one half, so hitting the bound
// means the random source is broken.
const maxGenerateAttempts = 128

// PrivateKey provides facilities for working with private keys.  It embeds
// the public key, so every public key method is available as well.
type PrivateKey struct {
	PublicKey
	d *big.Int
}

// IsPrivate returns true for private keys.
func (p *PrivateKey) IsPrivate() bool {
	return true
}

// Public returns the public key corresponding to the private key.  It
// satisfies crypto.Signer.
func (p *PrivateKey) Public() crypto.PublicKey {
	return p.PubKey()
}

// D returns a copy of the private scalar.
func (p *PrivateKey) D() *big.Int {
	return new(big.Int).Set(p.d)
}

// Zero manually clears the memory associated with the private key.  This can
// be used to explicitly clear key material from memory for enhanced security
// against memory scraping.  The key is unusable afterwards.
func (p *PrivateKey) Zero() {
	zeroize.BigInt(p.d)
}

// hasScalar reports whether p holds a usable private scalar, which is not
// the case for nil keys and keys cleared by Zero.
func (p *PrivateKey) hasScalar() bool {
	return p != nil && p.d != nil && p.d.Sign() != 0
}

// randScalar draws a uniform scalar in [1, N-1] by rejection sampling.
func randScalar(rand io.Reader, curve *Curve) (*big.Int, error) {
	n := curve.params.N
	buf := make([]byte, (n.BitLen()+7)/8)
	defer zeroize.Bytes(buf)
	mask := byte(0xff >> uint(len(buf)*8-n.BitLen()))

	k := new(big.Int)
	for i := 0; i < maxGenerateAttempts; i++ {
		if _, err := io.ReadFull(rand, buf); err != nil {
			str := fmt.Sprintf("random source failed: %v", err)
			return nil, Error{Err: ErrRandomSource, Description: str}
		}
		buf[0] &= mask
		k.SetBytes(buf)
		if k.Sign() != 0 && k.Cmp(n) < 0 {
			return k, nil
		}
	}
	return nil, makeError(ErrRandomSource, "random source produced no valid scalar")
}

// GeneratePrivateKey returns a private key on the given curve that is
// suitable for use with cryptography.  The scalar is drawn uniformly from
// [1, N-1] and the public point is d*G.  A nil rand uses crypto/rand.
func GeneratePrivateKey(rand io.Reader, curve *Curve) (*PrivateKey, error) {
	if curve == nil {
		return nil, makeError(ErrInvalidCurve, "nil curve")
	}
	if rand == nil {
		rand = cryptorand.Reader
	}
	d, err := randScalar(rand, curve)
	if err != nil {
		return nil, err
	}
	key, err := NewPrivateKey(curve, d)
	zeroize.BigInt(d)
	if err != nil {
		return nil, err
	}
	log.Debug("generated private key", zap.String("curve", curve.Name()))
	return key, nil
}

// GenerateKeySize generates a key on the first registry curve whose field
// size is at least size octets.
func GenerateKeySize(rand io.Reader, size int) (*PrivateKey, error) {
	curve, err := CurveBySize(size)
	if err != nil {
		return nil, err
	}
	return GeneratePrivateKey(rand, curve)
}

// checkScalar ensures 1 <= d <= N-1.
func checkScalar(curve *Curve, d *big.Int) error {
	if d == nil || d.Sign() <= 0 || d.Cmp(curve.params.N) >= 0 {
		return makeError(ErrScalarOutOfRange, "private scalar is not in [1, N-1]")
	}
	return nil
}

// NewPrivateKey instantiates a private key from the scalar d and computes
// the public point.  The scalar is copied.
func NewPrivateKey(curve *Curve, d *big.Int) (*PrivateKey, error) {
	if curve == nil {
		return nil, makeError(ErrInvalidCurve, "nil curve")
	}
	if err := checkScalar(curve, d); err != nil {
		return nil, err
	}
	var q JacobianPoint
	curve.ScalarBaseMult(d, &q)
	pub, err := publicFromJacobian(curve, &q)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PublicKey: *pub, d: new(big.Int).Set(d)}, nil
}

// PrivKeyFromBytes returns a private key for the curve from the raw
// big-endian scalar.
func PrivKeyFromBytes(curve *Curve, b []byte) (*PrivateKey, error) {
	if curve == nil {
		return nil, makeError(ErrInvalidCurve, "nil curve")
	}
	if len(b) == 0 || len(b) > curve.params.Size {
		str := fmt.Sprintf("malformed private key: invalid length %d", len(b))
		return nil, makeError(ErrMalformedEncoding, str)
	}
	d := new(big.Int).SetBytes(b)
	defer zeroize.BigInt(d)
	return NewPrivateKey(curve, d)
}

// ImportPrivateKey builds a private key from the raw scalar and an optional
// X9.63 public key.  When the public key is given it has to match d*G.
func ImportPrivateKey(curve *Curve, priv, pub []byte) (*PrivateKey, error) {
	key, err := PrivKeyFromBytes(curve, priv)
	if err != nil {
		return nil, err
	}
	if len(pub) == 0 {
		return key, nil
	}
	given, err := ParsePubKey(curve, pub)
	if err != nil {
		key.Zero()
		return nil, err
	}
	if !given.IsEqual(&key.PublicKey) {
		key.Zero()
		return nil, makeError(ErrScalarOutOfRange, "private scalar does not match public key")
	}
	return key, nil
}

func parseHexInt(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) == 0 {
		return nil, makeError(ErrMalformedEncoding, "invalid hex integer")
	}
	return new(big.Int).SetBytes(b), nil
}

// ImportRaw builds a key from big-endian hex coordinates on the named
// registry curve.  When d is empty a *PublicKey is returned, otherwise a
// *PrivateKey whose scalar must be in range and consistent with (qx, qy).
func ImportRaw(qx, qy, d, curveName string) (Key, error) {
	curve, err := CurveByName(curveName)
	if err != nil {
		return nil, err
	}
	x, err := parseHexInt(qx)
	if err != nil {
		return nil, err
	}
	y, err := parseHexInt(qy)
	if err != nil {
		return nil, err
	}
	var dd *big.Int
	if d != "" {
		if dd, err = parseHexInt(d); err != nil {
			return nil, err
		}
		defer zeroize.BigInt(dd)
	}
	return importRaw(curve, x, y, dd)
}

// ImportRawBytes is ImportRaw for binary big-endian values.  A nil or empty d
// yields a public key.
func ImportRawBytes(curve *Curve, qx, qy, d []byte) (Key, error) {
	if curve == nil {
		return nil, makeError(ErrInvalidCurve, "nil curve")
	}
	size := curve.params.Size
	if len(qx) > size || len(qy) > size || len(d) > size {
		return nil, makeError(ErrMalformedEncoding, "raw value exceeds the field size")
	}
	var dd *big.Int
	if len(d) > 0 {
		dd = new(big.Int).SetBytes(d)
		defer zeroize.BigInt(dd)
	}
	return importRaw(curve, new(big.Int).SetBytes(qx), new(big.Int).SetBytes(qy), dd)
}

func importRaw(curve *Curve, x, y, d *big.Int) (Key, error) {
	pub, err := NewPublicKey(curve, x, y)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return pub, nil
	}
	priv, err := NewPrivateKey(curve, d)
	if err != nil {
		return nil, err
	}
	if !priv.PublicKey.IsEqual(pub) {
		priv.Zero()
		return nil, makeError(ErrScalarOutOfRange, "private scalar does not match public key")
	}
	return priv, nil
}

// ExportPrivateOnly returns the raw big-endian scalar padded to the curve
// size.
func (p *PrivateKey) ExportPrivateOnly() []byte {
	out := make([]byte, p.curve.params.Size)
	fill(out, p.d)
	return out
}

// PutPrivate writes the raw scalar into out and returns the number of bytes
// written.  Nothing is written when out is too small.
func (p *PrivateKey) PutPrivate(out []byte) (int, error) {
	size := p.curve.params.Size
	if len(out) < size {
		str := fmt.Sprintf("need %d bytes for private key, got %d", size, len(out))
		return 0, makeError(ErrBufferTooSmall, str)
	}
	fill(out[:size], p.d)
	return size, nil
}

// ExportPrivateOnly returns the raw scalar of k, failing with
// ErrNoPrivateKey for public keys.
func ExportPrivateOnly(k Key) ([]byte, error) {
	priv, ok := k.(*PrivateKey)
	if !ok {
		return nil, makeError(ErrNoPrivateKey, "key has no private component")
	}
	return priv.ExportPrivateOnly(), nil
}

// ToECDSA returns the private key as a *ecdsa.PrivateKey for the NIST curves
// known to crypto/elliptic.
func (p *PrivateKey) ToECDSA() (*ecdsa.PrivateKey, error) {
	pub, err := p.PublicKey.ToECDSA()
	if err != nil {
		return nil, err
	}
	return &ecdsa.PrivateKey{PublicKey: *pub, D: p.D()}, nil
}

// PrivKeyFromECDSA converts a crypto/ecdsa private key on a NIST curve.
func PrivKeyFromECDSA(key *ecdsa.PrivateKey) (*PrivateKey, error) {
	if key == nil || key.Curve == nil {
		return nil, makeError(ErrInvalidCurve, "nil ecdsa key")
	}
	curve, err := CurveByName(key.Curve.Params().Name)
	if err != nil {
		return nil, err
	}
	return NewPrivateKey(curve, key.D)
}
