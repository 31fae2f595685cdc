// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

// hexToBytes converts the passed hex string into bytes and will panic if
// there is an error.  This is only provided for the hard-coded constants so
// errors in the source code can be detected.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

func TestGeneratePrivateKey(t *testing.T) {
	for _, c := range Curves() {
		key, err := GeneratePrivateKey(rand.Reader, c)
		require.NoError(t, err, c.Name())
		require.True(t, key.IsPrivate())
		require.Same(t, c, key.Curve())

		d := key.D()
		require.True(t, d.Sign() > 0 && d.Cmp(c.N()) < 0, c.Name())
		require.True(t, c.IsOnCurve(key.X(), key.Y()), c.Name())

		var q JacobianPoint
		c.ScalarBaseMult(d, &q)
		x, y := affineOf(c, &q)
		require.Equal(t, 0, x.Cmp(key.X()), c.Name())
		require.Equal(t, 0, y.Cmp(key.Y()), c.Name())

		require.Equal(t, c.Size(), key.Size())
		require.Len(t, key.ExportPrivateOnly(), c.Size())
	}
}

func TestGenerateKeySize(t *testing.T) {
	key, err := GenerateKeySize(rand.Reader, 32)
	require.NoError(t, err)
	require.Same(t, P256, key.Curve())

	key, err = GenerateKeySize(rand.Reader, 66)
	require.NoError(t, err)
	require.Same(t, P521, key.Curve())

	_, err = GenerateKeySize(rand.Reader, 100)
	require.ErrorIs(t, err, ErrInvalidCurve)
}

// failingReader always returns an error.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestGenerateRandomFailure(t *testing.T) {
	_, err := GeneratePrivateKey(failingReader{}, P256)
	require.ErrorIs(t, err, ErrRandomSource)

	// A source that only ever yields zero never produces a valid scalar.
	zeros := bytes.NewReader(make([]byte, 1<<16))
	_, err = GeneratePrivateKey(zeros, P256)
	require.ErrorIs(t, err, ErrRandomSource)

	_, err = GeneratePrivateKey(rand.Reader, nil)
	require.ErrorIs(t, err, ErrInvalidCurve)
}

func TestX963RoundTrip(t *testing.T) {
	for _, c := range Curves() {
		key, err := GeneratePrivateKey(rand.Reader, c)
		require.NoError(t, err)
		pub := key.PubKey()

		for _, compressed := range []bool{false, true} {
			enc := pub.ExportX963(compressed)
			require.Len(t, enc, pub.X963Size(compressed))

			parsed, err := ParsePubKey(c, enc)
			require.NoError(t, err, "%s compressed=%v", c.Name(), compressed)
			require.True(t, parsed.IsEqual(pub), spew.Sdump(parsed, pub))

			buf := make([]byte, pub.X963Size(compressed)+3)
			n, err := pub.PutX963(buf, compressed)
			require.NoError(t, err)
			require.Equal(t, enc, buf[:n])

			_, err = pub.PutX963(buf[:n-1], compressed)
			require.ErrorIs(t, err, ErrBufferTooSmall)
		}
		require.Equal(t, PubKeyFormatUncompressed, pub.SerializeUncompressed()[0])
		format := pub.SerializeCompressed()[0]
		require.Equal(t, PubKeyFormatCompressedEven+byte(pub.Y().Bit(0)), format)
	}
}

func TestParsePubKeyX963(t *testing.T) {
	key, err := NewPrivateKey(P384, big.NewInt(31337))
	require.NoError(t, err)
	parsed, err := ParsePubKeyX963(key.SerializeCompressed())
	require.NoError(t, err)
	require.Same(t, P384, parsed.Curve())

	// 32 byte coordinates resolve to P-256 rather than secp256k1.
	key, err = NewPrivateKey(P256, big.NewInt(31337))
	require.NoError(t, err)
	parsed, err = ParsePubKeyX963(key.SerializeUncompressed())
	require.NoError(t, err)
	require.Same(t, P256, parsed.Curve())

	// secp256k1 keys round trip through ParsePubKey with the curve named.
	k1, err := GeneratePrivateKey(nil, Secp256k1)
	require.NoError(t, err)
	for _, compressed := range []bool{false, true} {
		enc := k1.ExportX963(compressed)
		parsed, err = ParsePubKey(Secp256k1, enc)
		require.NoError(t, err)
		require.True(t, parsed.IsEqual(k1.PubKey()))
		require.Equal(t, enc, parsed.ExportX963(compressed))
	}
}

func TestParsePubKeyErrors(t *testing.T) {
	key, err := NewPrivateKey(P256, big.NewInt(2))
	require.NoError(t, err)
	uncompressed := key.SerializeUncompressed()
	compressed := key.SerializeCompressed()

	offCurve := append([]byte(nil), uncompressed...)
	offCurve[len(offCurve)-1] ^= 0x01

	badFormat := append([]byte(nil), compressed...)
	badFormat[0] = 0x05

	tests := []struct {
		name string
		data []byte
		err  ErrorKind
	}{
		{"empty", nil, ErrMalformedEncoding},
		{"short uncompressed", uncompressed[:40], ErrMalformedEncoding},
		{"short compressed", compressed[:20], ErrMalformedEncoding},
		{"unknown format", badFormat, ErrMalformedEncoding},
		{"not on curve", offCurve, ErrPointNotOnCurve},
	}
	for _, test := range tests {
		_, err := ParsePubKey(P256, test.data)
		require.ErrorIs(t, err, test.err, test.name)
	}

	_, err = ParsePubKeyX963([]byte{0x04, 1, 2, 3})
	require.ErrorIs(t, err, ErrMalformedEncoding)
	_, err = ParsePubKeyX963(append([]byte{0x02}, make([]byte, 40)...))
	require.ErrorIs(t, err, ErrInvalidCurve)
}

// TestSecp256k1Keys ensures keys match the dcrd implementation including the
// serialized forms.
func TestSecp256k1Keys(t *testing.T) {
	for i := 0; i < 8; i++ {
		want, err := secp256k1.GeneratePrivateKey()
		require.NoError(t, err)
		raw := want.Serialize()

		key, err := PrivKeyFromBytes(Secp256k1, raw)
		require.NoError(t, err)
		require.Equal(t, raw, key.ExportPrivateOnly())
		require.Equal(t, want.PubKey().SerializeCompressed(), key.SerializeCompressed())
		require.Equal(t, want.PubKey().SerializeUncompressed(), key.SerializeUncompressed())

		parsed, err := secp256k1.ParsePubKey(key.SerializeCompressed())
		require.NoError(t, err)
		require.True(t, parsed.IsEqual(want.PubKey()))
	}
}

func TestImportRaw(t *testing.T) {
	// RFC 6979 A.2.5 key pair.
	const (
		d  = "C9AFA9D845BA75166B5C215767B1D6934E50C3DB36E89B127B8A622B120F6721"
		qx = "60FED4BA255A9D31C961EB74C6356D68C049B8923B61FA6CE669622E60F29FB6"
		qy = "7903FE1008B8BC99A41AE9E95628BC64F2F1B20C2D7E9F5177A3C294D4462299"
	)

	k, err := ImportRaw(qx, qy, d, "prime256v1")
	require.NoError(t, err)
	require.True(t, k.IsPrivate())
	priv := k.(*PrivateKey)
	require.Equal(t, hexToBytes(d), priv.ExportPrivateOnly())

	k, err = ImportRaw(qx, qy, "", "P-256")
	require.NoError(t, err)
	require.False(t, k.IsPrivate())
	require.True(t, k.PubKey().IsEqual(priv.PubKey()))
	_, err = ExportPrivateOnly(k)
	require.ErrorIs(t, err, ErrNoPrivateKey)

	raw, err := ExportPrivateOnly(priv)
	require.NoError(t, err)
	require.Equal(t, hexToBytes(d), raw)

	k, err = ImportRawBytes(P256, hexToBytes(qx), hexToBytes(qy), hexToBytes(d))
	require.NoError(t, err)
	require.True(t, k.IsPrivate())

	tests := []struct {
		name          string
		qx, qy, d, cv string
		err           ErrorKind
	}{
		{"unknown curve", qx, qy, d, "P-999", ErrInvalidCurve},
		{"bad hex", "zz", qy, d, "P-256", ErrMalformedEncoding},
		{"point not on curve", qy, qx, "", "P-256", ErrPointNotOnCurve},
		{"scalar out of range", qx, qy, "00", "P-256", ErrScalarOutOfRange},
		{"scalar mismatch", qx, qy, "01", "P-256", ErrScalarOutOfRange},
		{
			"scalar equals order", qx, qy,
			"FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551",
			"P-256", ErrScalarOutOfRange,
		},
	}
	for _, test := range tests {
		_, err := ImportRaw(test.qx, test.qy, test.d, test.cv)
		require.ErrorIs(t, err, test.err, test.name)
	}
}

func TestImportPrivateKey(t *testing.T) {
	key, err := GeneratePrivateKey(rand.Reader, P521)
	require.NoError(t, err)
	raw := key.ExportPrivateOnly()

	got, err := ImportPrivateKey(P521, raw, key.SerializeCompressed())
	require.NoError(t, err)
	require.True(t, got.PubKey().IsEqual(key.PubKey()))

	got, err = ImportPrivateKey(P521, raw, nil)
	require.NoError(t, err)
	require.Equal(t, 0, got.D().Cmp(key.D()))

	other, err := GeneratePrivateKey(rand.Reader, P521)
	require.NoError(t, err)
	_, err = ImportPrivateKey(P521, raw, other.SerializeUncompressed())
	require.ErrorIs(t, err, ErrScalarOutOfRange)

	_, err = PrivKeyFromBytes(P256, make([]byte, 33))
	require.ErrorIs(t, err, ErrMalformedEncoding)
	_, err = PrivKeyFromBytes(P256, make([]byte, 32))
	require.ErrorIs(t, err, ErrScalarOutOfRange)

	out := make([]byte, 10)
	_, err = key.PutPrivate(out)
	require.ErrorIs(t, err, ErrBufferTooSmall)
	out = make([]byte, 70)
	n, err := key.PutPrivate(out)
	require.NoError(t, err)
	require.Equal(t, raw, out[:n])
}

func TestECDSAConversion(t *testing.T) {
	std, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	key, err := PrivKeyFromECDSA(std)
	require.NoError(t, err)
	require.Same(t, P384, key.Curve())
	require.Equal(t, 0, key.X().Cmp(std.X))
	require.Equal(t, 0, key.Y().Cmp(std.Y))

	back, err := key.ToECDSA()
	require.NoError(t, err)
	require.True(t, back.Equal(std))

	k1, err := GeneratePrivateKey(rand.Reader, Secp256k1)
	require.NoError(t, err)
	_, err = k1.ToECDSA()
	require.ErrorIs(t, err, ErrInvalidCurve)
}

func TestZero(t *testing.T) {
	key, err := NewPrivateKey(P256, big.NewInt(1234))
	require.NoError(t, err)
	peer, err := NewPrivateKey(P256, big.NewInt(5678))
	require.NoError(t, err)
	key.Zero()
	require.Equal(t, 0, key.d.Sign())

	hash := make([]byte, 32)
	_, err = SignHash(nil, key, hash)
	require.ErrorIs(t, err, ErrNoPrivateKey)
	_, err = SignHashDeterministic(key, hash, crypto.SHA256)
	require.ErrorIs(t, err, ErrNoPrivateKey)
	_, err = key.Sign(nil, hash, nil)
	require.ErrorIs(t, err, ErrNoPrivateKey)
	_, err = key.ECDH(peer.PubKey())
	require.ErrorIs(t, err, ErrNoPrivateKey)
	_, err = GenerateSharedSecretInto(key, peer.PubKey(), make([]byte, 32))
	require.ErrorIs(t, err, ErrNoPrivateKey)
}
