// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
)

// KDF identifies the key derivation function.
type KDF int

// MAC identifies the message authentication code.
type MAC int

// Cipher identifies the symmetric cipher.
type Cipher int

// Algorithm identifiers.  The numeric values are stable and match the
// identifiers used by other implementations of this exchange.
const (
	KDFHKDFSHA256 KDF = 1 // default
	KDFHKDFSHA1   KDF = 2

	MACHMACSHA256 MAC = 1 // default
	MACHMACSHA1   MAC = 2

	CipherAES128CBC Cipher = 1 // default
	CipherAES256CBC Cipher = 2
)

const (
	// SaltSize is the length of an exchange salt.
	SaltSize = 16

	// DefaultInfo is bound into the key derivation unless SetInfo replaces
	// it.
	DefaultInfo = "Secure Message Exchange"

	ivSize    = 16
	blockSize = 16
)

func (k KDF) String() string {
	switch k {
	case KDFHKDFSHA256:
		return "hkdf-sha256"
	case KDFHKDFSHA1:
		return "hkdf-sha1"
	}
	return fmt.Sprintf("KDF(%d)", int(k))
}

func (k KDF) hash() (func() hash.Hash, error) {
	switch k {
	case KDFHKDFSHA256:
		return sha256.New, nil
	case KDFHKDFSHA1:
		return sha1.New, nil
	}
	return nil, makeError(ErrUnsupportedAlgorithm, fmt.Sprintf("unknown kdf %d", int(k)))
}

func (m MAC) String() string {
	switch m {
	case MACHMACSHA256:
		return "hmac-sha256"
	case MACHMACSHA1:
		return "hmac-sha1"
	}
	return fmt.Sprintf("MAC(%d)", int(m))
}

func (m MAC) hash() (func() hash.Hash, int, error) {
	switch m {
	case MACHMACSHA256:
		return sha256.New, sha256.Size, nil
	case MACHMACSHA1:
		return sha1.New, sha1.Size, nil
	}
	return nil, 0, makeError(ErrUnsupportedAlgorithm, fmt.Sprintf("unknown mac %d", int(m)))
}

func (c Cipher) String() string {
	switch c {
	case CipherAES128CBC:
		return "aes128-cbc"
	case CipherAES256CBC:
		return "aes256-cbc"
	}
	return fmt.Sprintf("Cipher(%d)", int(c))
}

func (c Cipher) keySize() (int, error) {
	switch c {
	case CipherAES128CBC:
		return 16, nil
	case CipherAES256CBC:
		return 32, nil
	}
	return 0, makeError(ErrUnsupportedAlgorithm, fmt.Sprintf("unknown cipher %d", int(c)))
}

// ParseKDF returns the KDF with the given String name.
func ParseKDF(name string) (KDF, error) {
	for _, k := range []KDF{KDFHKDFSHA256, KDFHKDFSHA1} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, makeError(ErrUnsupportedAlgorithm, fmt.Sprintf("unknown kdf %q", name))
}

// ParseMAC returns the MAC with the given String name.
func ParseMAC(name string) (MAC, error) {
	for _, m := range []MAC{MACHMACSHA256, MACHMACSHA1} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, makeError(ErrUnsupportedAlgorithm, fmt.Sprintf("unknown mac %q", name))
}

// ParseCipher returns the Cipher with the given String name.
func ParseCipher(name string) (Cipher, error) {
	for _, c := range []Cipher{CipherAES128CBC, CipherAES256CBC} {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, makeError(ErrUnsupportedAlgorithm, fmt.Sprintf("unknown cipher %q", name))
}

// suite is a validated algorithm selection.
type suite struct {
	kdf     func() hash.Hash
	mac     func() hash.Hash
	macSize int
	keySize int
}

func newSuite(k KDF, m MAC, c Cipher) (suite, error) {
	var s suite
	var err error
	if s.kdf, err = k.hash(); err != nil {
		return s, err
	}
	if s.mac, s.macSize, err = m.hash(); err != nil {
		return s, err
	}
	if s.keySize, err = c.keySize(); err != nil {
		return s, err
	}
	return s, nil
}
