// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import "fmt"

// checkAgreement validates the operands of a key agreement.
func checkAgreement(privkey *PrivateKey, pubkey *PublicKey) error {
	if !privkey.hasScalar() {
		return makeError(ErrNoPrivateKey, "missing private key")
	}
	if err := pubkey.validate(); err != nil {
		return err
	}
	if !privkey.curve.Equal(pubkey.curve) {
		str := fmt.Sprintf("cannot combine %s key with %s key",
			privkey.curve.Name(), pubkey.curve.Name())
		return makeError(ErrCurveMismatch, str)
	}
	return nil
}

// sharedSecretInto multiplies and writes the x coordinate into out, which
// must have the curve size.
func sharedSecretInto(privkey *PrivateKey, pubkey *PublicKey, cache *FixedPointCache, out []byte) error {
	var result JacobianPoint
	cache.ScalarMult(privkey.d, pubkey, &result)
	if result.IsInfinity() {
		return makeError(ErrPointNotOnCurve, "shared secret is the point at infinity")
	}
	result.ToAffine(privkey.curve)
	fill(out, result.X)
	return nil
}

// GenerateSharedSecret generates a shared secret based on a private key and a
// public key using Diffie-Hellman key exchange (ECDH) (RFC 5903).
// RFC5903 Section 9 states we should only return x.  The result is left
// padded to the curve size.
//
// It is recommended to securely hash the result before using as a cryptographic
// key.
func GenerateSharedSecret(privkey *PrivateKey, pubkey *PublicKey) ([]byte, error) {
	if err := checkAgreement(privkey, pubkey); err != nil {
		return nil, err
	}
	out := make([]byte, privkey.curve.params.Size)
	if err := sharedSecretInto(privkey, pubkey, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateSharedSecretInto is GenerateSharedSecret writing into out.  It
// returns the number of bytes written and writes nothing on failure.
func GenerateSharedSecretInto(privkey *PrivateKey, pubkey *PublicKey, out []byte) (int, error) {
	if err := checkAgreement(privkey, pubkey); err != nil {
		return 0, err
	}
	size := privkey.curve.params.Size
	if len(out) < size {
		str := fmt.Sprintf("need %d bytes for shared secret, got %d", size, len(out))
		return 0, makeError(ErrBufferTooSmall, str)
	}
	secret := make([]byte, size)
	if err := sharedSecretInto(privkey, pubkey, nil, secret); err != nil {
		return 0, err
	}
	copy(out, secret)
	return size, nil
}

// ECDH generates a shared secret and is an alias to GenerateSharedSecret, however
// by being part of the private key it is closer to go's own ecdh api.
func (privkey *PrivateKey) ECDH(remote *PublicKey) ([]byte, error) {
	return GenerateSharedSecret(privkey, remote)
}

// ECDHCached is ECDH using the window table of the remote key when the cache
// holds one.  A nil cache is allowed.
func (privkey *PrivateKey) ECDHCached(remote *PublicKey, cache *FixedPointCache) ([]byte, error) {
	if err := checkAgreement(privkey, remote); err != nil {
		return nil, err
	}
	out := make([]byte, privkey.curve.params.Size)
	if err := sharedSecretInto(privkey, remote, cache, out); err != nil {
		return nil, err
	}
	return out, nil
}
