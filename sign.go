// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"crypto"
	"crypto/rand"
	"io"
)

// SignOptions selects the hash keying the RFC 6979 nonce when Sign is
// called without a random source.  A zero Hash means SHA-256.
type SignOptions struct {
	Hash crypto.Hash
}

// HashFunc returns the configured nonce hash, making SignOptions a
// crypto.SignerOpts.
func (s *SignOptions) HashFunc() crypto.Hash {
	return s.Hash
}

// Sign will sign the provided digest, returning the resulting signature. [SignOptions] can be used
// to pass options.  A nil rand signs deterministically per RFC 6979 with the hash from opts,
// defaulting to SHA-256.
func (privkey *PrivateKey) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	if rand == nil {
		h := crypto.SHA256
		if opts != nil && opts.HashFunc() != 0 {
			h = opts.HashFunc()
		}
		sig, err := SignHashDeterministic(privkey, digest, h)
		if err != nil {
			return nil, err
		}
		return sig.Serialize(), nil // DER
	}
	sig, err := SignHash(rand, privkey, digest)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil // DER
}

// SignRandom signs the digest with a nonce from crypto/rand.
func (privkey *PrivateKey) SignRandom(digest []byte) (*Signature, error) {
	return SignHash(rand.Reader, privkey, digest)
}
