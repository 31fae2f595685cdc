// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/ModChain/ecc"
	"github.com/ModChain/ecc/internal/zeroize"
	"go.uber.org/zap"
	"golang.org/x/crypto/hkdf"
)

// keys holds the material expanded from one shared secret.
type keys struct {
	buf []byte
	enc []byte
	iv  []byte
	mac []byte
}

func (k *keys) zero() {
	zeroize.Bytes(k.buf)
}

// deriveKeys agrees the shared secret and expands it into encKey || iv ||
// macKey.
func deriveKeys(priv *ecc.PrivateKey, peer *ecc.PublicKey, s suite,
	kdfSalt, info []byte, cache *ecc.FixedPointCache) (*keys, error) {

	secret, err := priv.ECDHCached(peer, cache)
	if err != nil {
		return nil, err
	}
	defer zeroize.Bytes(secret)

	buf := make([]byte, s.keySize+ivSize+s.macSize)
	r := hkdf.New(s.kdf, secret, kdfSalt, info)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("key expansion failed: %w", err)
	}
	return &keys{
		buf: buf,
		enc: buf[:s.keySize],
		iv:  buf[s.keySize : s.keySize+ivSize],
		mac: buf[s.keySize+ivSize:],
	}, nil
}

func tag(s suite, key, ciphertext, macSalt []byte) []byte {
	m := hmac.New(s.mac, key)
	m.Write(ciphertext)
	m.Write(macSalt)
	return m.Sum(nil)
}

// EncryptedSize returns the ciphertext length for a message of n bytes.
func (c *Context) EncryptedSize(n int) int {
	s, _, _, _, _ := c.params()
	return (n/blockSize+1)*blockSize + s.macSize
}

// Encrypt encrypts msg for the owner of peer.  The result is
// AES-CBC(PKCS#7(msg)) || HMAC.  With a non nil ctx the call must follow the
// exchange order of the context role.
func Encrypt(priv *ecc.PrivateKey, peer *ecc.PublicKey, msg []byte, ctx *Context) ([]byte, error) {
	if err := ctx.begin(opEncrypt); err != nil {
		return nil, err
	}
	s, kdfSalt, macSalt, info, cache := ctx.params()
	k, err := deriveKeys(priv, peer, s, kdfSalt, info, cache)
	if err != nil {
		return nil, err
	}
	defer k.zero()

	block, err := aes.NewCipher(k.enc)
	if err != nil {
		return nil, err
	}
	padLen := blockSize - len(msg)%blockSize
	out := make([]byte, len(msg)+padLen, len(msg)+padLen+s.macSize)
	copy(out, msg)
	for i := len(msg); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	cipher.NewCBCEncrypter(block, k.iv).CryptBlocks(out, out)
	out = append(out, tag(s, k.mac, out, macSalt)...)

	ctx.advance()
	log.Debug("message encrypted", zap.Int("len", len(out)))
	return out, nil
}

// Decrypt authenticates and decrypts a ciphertext produced by Encrypt from
// the owner of peer.  Every integrity fault is reported as ErrAuthentication.
func Decrypt(priv *ecc.PrivateKey, peer *ecc.PublicKey, ciphertext []byte, ctx *Context) ([]byte, error) {
	if err := ctx.begin(opDecrypt); err != nil {
		return nil, err
	}
	s, kdfSalt, macSalt, info, cache := ctx.params()

	bodyLen := len(ciphertext) - s.macSize
	if bodyLen < blockSize || bodyLen%blockSize != 0 {
		return nil, makeError(ErrAuthentication, "message authentication failed")
	}
	k, err := deriveKeys(priv, peer, s, kdfSalt, info, cache)
	if err != nil {
		return nil, err
	}
	defer k.zero()

	body := ciphertext[:bodyLen]
	want := tag(s, k.mac, body, macSalt)
	if !hmac.Equal(want, ciphertext[bodyLen:]) {
		return nil, makeError(ErrAuthentication, "message authentication failed")
	}

	block, err := aes.NewCipher(k.enc)
	if err != nil {
		return nil, err
	}
	plain := make([]byte, bodyLen)
	cipher.NewCBCDecrypter(block, k.iv).CryptBlocks(plain, body)

	n, ok := unpad(plain)
	if ok != 1 {
		zeroize.Bytes(plain)
		return nil, makeError(ErrAuthentication, "message authentication failed")
	}

	ctx.advance()
	log.Debug("message decrypted", zap.Int("len", n))
	return plain[:n], nil
}

// unpad returns the message length of a PKCS#7 padded buffer and 1 when the
// padding is valid.  The final block is always scanned completely.
func unpad(buf []byte) (int, int) {
	padLen := int(buf[len(buf)-1])
	ok := subtle.ConstantTimeLessOrEq(1, padLen) &
		subtle.ConstantTimeLessOrEq(padLen, blockSize)

	last := buf[len(buf)-blockSize:]
	for i := range last {
		// Bytes within the padding must equal the padding length.
		inPad := subtle.ConstantTimeLessOrEq(blockSize-i, padLen)
		match := subtle.ConstantTimeByteEq(last[i], byte(padLen))
		ok &= match | (inPad ^ 1)
	}
	n := subtle.ConstantTimeSelect(ok, len(buf)-padLen, 0)
	return n, ok
}
