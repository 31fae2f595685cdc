// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"crypto"
	"crypto/hmac"
	_ "crypto/sha256" // registers SHA-224 and SHA-256 for crypto.Hash
	_ "crypto/sha512" // registers SHA-384 and SHA-512 for crypto.Hash
	"fmt"
	"math/big"

	"github.com/ModChain/ecc/internal/zeroize"
)

// bits2octets converts the hash to an integer reduced modulo the group order
// and encodes it with the order length.  See RFC 6979 section 2.3.4.
func bits2octets(curve *Curve, hash []byte) []byte {
	n := curve.params.N
	z := hashToInt(hash, curve)
	if z.Cmp(n) >= 0 {
		z.Sub(z, n)
	}
	return z.FillBytes(make([]byte, (n.BitLen()+7)/8))
}

// NonceRFC6979 generates a nonce deterministically according to RFC 6979
// using HMAC with the given hash function.  The extra data, when not empty,
// is appended to the seed material as described in section 3.6.
func NonceRFC6979(curve *Curve, privKey *big.Int, hash []byte, h crypto.Hash, extra []byte) (*big.Int, error) {
	if !h.Available() {
		return nil, makeError(ErrUnsupportedAlgorithm, fmt.Sprintf("hash function %v is not available", h))
	}
	n := curve.params.N
	qlen := n.BitLen()
	rlen := (qlen + 7) / 8

	x := privKey.FillBytes(make([]byte, rlen))
	defer zeroize.Bytes(x)
	h1 := bits2octets(curve, hash)

	hlen := h.Size()
	v := make([]byte, hlen)
	k := make([]byte, hlen)
	for i := range v {
		v[i] = 0x01
	}

	mac := func(key []byte, parts ...[]byte) []byte {
		m := hmac.New(h.New, key)
		for _, part := range parts {
			m.Write(part)
		}
		return m.Sum(nil)
	}

	// Step D through G.
	k = mac(k, v, []byte{0x00}, x, h1, extra)
	v = mac(k, v)
	k = mac(k, v, []byte{0x01}, x, h1, extra)
	v = mac(k, v)

	// Step H.
	for {
		var t []byte
		for len(t)*8 < qlen {
			v = mac(k, v)
			t = append(t, v...)
		}
		nonce := new(big.Int).SetBytes(t[:rlen])
		if excess := rlen*8 - qlen; excess > 0 {
			nonce.Rsh(nonce, uint(excess))
		}
		if nonce.Sign() > 0 && nonce.Cmp(n) < 0 {
			return nonce, nil
		}
		k = mac(k, v, []byte{0x00})
		v = mac(k, v)
	}
}

// SignHashDeterministic signs the hash with a nonce derived per RFC 6979
// from the private key and the hash, using h as the HMAC hash function.
func SignHashDeterministic(priv *PrivateKey, hash []byte, h crypto.Hash) (*Signature, error) {
	if !priv.hasScalar() {
		return nil, makeError(ErrNoPrivateKey, "missing private key")
	}
	e := hashToInt(hash, priv.curve)
	var extra []byte
	for iteration := uint32(0); iteration < maxSignAttempts; iteration++ {
		k, err := NonceRFC6979(priv.curve, priv.d, hash, h, extra)
		if err != nil {
			return nil, err
		}
		sig, ok := signWithNonce(priv, e, k)
		zeroize.BigInt(k)
		if ok {
			return sig, nil
		}
		// Degenerate results are astronomically unlikely.  Fold an
		// iteration counter into the extra data to move on.
		extra = []byte{byte(iteration >> 24), byte(iteration >> 16),
			byte(iteration >> 8), byte(iteration + 1)}
	}
	return nil, makeError(ErrInvalidSignature, "no usable deterministic nonce")
}
