// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/ModChain/ecc"
	"github.com/stretchr/testify/require"
)

// pair returns a client and a server context with exchanged salts.
func pair(t *testing.T, opts ...Option) (*Context, *Context) {
	t.Helper()
	cli, err := NewContext(RoleClient, rand.Reader, opts...)
	require.NoError(t, err)
	srv, err := NewContext(RoleServer, rand.Reader, opts...)
	require.NoError(t, err)
	require.NoError(t, cli.SetPeerSalt(srv.OwnSalt()))
	require.NoError(t, srv.SetPeerSalt(cli.OwnSalt()))
	return cli, srv
}

func keyPair(t *testing.T, curve *ecc.Curve) (*ecc.PrivateKey, *ecc.PrivateKey) {
	t.Helper()
	a, err := ecc.GeneratePrivateKey(rand.Reader, curve)
	require.NoError(t, err)
	b, err := ecc.GeneratePrivateKey(rand.Reader, curve)
	require.NoError(t, err)
	return a, b
}

func TestRoundTrip(t *testing.T) {
	cliKey, srvKey := keyPair(t, ecc.P256)
	msgs := [][]byte{
		{},
		[]byte("hello"),
		bytes.Repeat([]byte{0xaa}, 16),
		bytes.Repeat([]byte("exchange "), 100),
	}

	for _, kdf := range []KDF{KDFHKDFSHA256, KDFHKDFSHA1} {
		for _, mac := range []MAC{MACHMACSHA256, MACHMACSHA1} {
			for _, ci := range []Cipher{CipherAES128CBC, CipherAES256CBC} {
				for _, msg := range msgs {
					name := kdf.String() + "/" + mac.String() + "/" + ci.String()
					cli, srv := pair(t, WithKDF(kdf), WithMAC(mac), WithCipher(ci))

					req, err := Encrypt(cliKey, srvKey.PubKey(), msg, cli)
					require.NoError(t, err, name)
					require.Len(t, req, cli.EncryptedSize(len(msg)), name)
					got, err := Decrypt(srvKey, cliKey.PubKey(), req, srv)
					require.NoError(t, err, name)
					require.Equal(t, len(msg), len(got), name)
					require.True(t, bytes.Equal(msg, got), name)

					resp, err := Encrypt(srvKey, cliKey.PubKey(), []byte("response"), srv)
					require.NoError(t, err, name)
					got, err = Decrypt(cliKey, srvKey.PubKey(), resp, cli)
					require.NoError(t, err, name)
					require.Equal(t, "response", string(got), name)
				}
			}
		}
	}
}

func TestRoundTripCurves(t *testing.T) {
	for _, curve := range ecc.Curves() {
		cliKey, srvKey := keyPair(t, curve)
		cli, srv := pair(t)
		req, err := Encrypt(cliKey, srvKey.PubKey(), []byte(curve.Name()), cli)
		require.NoError(t, err)
		got, err := Decrypt(srvKey, cliKey.PubKey(), req, srv)
		require.NoError(t, err)
		require.Equal(t, curve.Name(), string(got))
	}
}

func TestStateless(t *testing.T) {
	a, b := keyPair(t, ecc.P384)
	ct, err := Encrypt(a, b.PubKey(), []byte("no context"), nil)
	require.NoError(t, err)
	got, err := Decrypt(b, a.PubKey(), ct, nil)
	require.NoError(t, err)
	require.Equal(t, "no context", string(got))

	// A stateless message does not open a salted exchange.
	_, srv := pair(t)
	_, err = Decrypt(b, a.PubKey(), ct, srv)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestTamper(t *testing.T) {
	cliKey, srvKey := keyPair(t, ecc.P256)
	cli, srv := pair(t)
	req, err := Encrypt(cliKey, srvKey.PubKey(), []byte("attack at dawn"), cli)
	require.NoError(t, err)

	for i := range req {
		tampered := append([]byte(nil), req...)
		tampered[i] ^= 0x01
		_, err := Decrypt(srvKey, cliKey.PubKey(), tampered, srv)
		require.ErrorIs(t, err, ErrAuthentication, "byte %d", i)
	}
	for _, n := range []int{0, 1, 15, 16, len(req) - 1} {
		_, err := Decrypt(srvKey, cliKey.PubKey(), req[:n], srv)
		require.ErrorIs(t, err, ErrAuthentication, "length %d", n)
	}
	_, err = Decrypt(srvKey, cliKey.PubKey(), append(append([]byte(nil), req...), 0), srv)
	require.ErrorIs(t, err, ErrAuthentication)

	// Failed attempts leave the exchange usable.
	got, err := Decrypt(srvKey, cliKey.PubKey(), req, srv)
	require.NoError(t, err)
	require.Equal(t, "attack at dawn", string(got))
}

func TestWrongKeyOrInfo(t *testing.T) {
	cliKey, srvKey := keyPair(t, ecc.P256)
	other, _ := keyPair(t, ecc.P256)

	cli, srv := pair(t)
	req, err := Encrypt(cliKey, srvKey.PubKey(), []byte("secret"), cli)
	require.NoError(t, err)
	_, err = Decrypt(other, cliKey.PubKey(), req, srv)
	require.ErrorIs(t, err, ErrAuthentication)

	cli, srv = pair(t)
	require.NoError(t, srv.SetInfo([]byte("another protocol")))
	req, err = Encrypt(cliKey, srvKey.PubKey(), []byte("secret"), cli)
	require.NoError(t, err)
	_, err = Decrypt(srvKey, cliKey.PubKey(), req, srv)
	require.ErrorIs(t, err, ErrAuthentication)

	// Mismatched algorithms fail authentication too.
	cli, _ = pair(t, WithCipher(CipherAES256CBC))
	_, srv = pair(t)
	require.NoError(t, cli.SetPeerSalt(srv.OwnSalt()))
	require.NoError(t, srv.SetPeerSalt(cli.OwnSalt()))
	req, err = Encrypt(cliKey, srvKey.PubKey(), []byte("secret"), cli)
	require.NoError(t, err)
	_, err = Decrypt(srvKey, cliKey.PubKey(), req, srv)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestCurveMismatch(t *testing.T) {
	a, _ := keyPair(t, ecc.P256)
	_, b := keyPair(t, ecc.Secp256k1)
	cli, _ := pair(t)
	_, err := Encrypt(a, b.PubKey(), []byte("x"), cli)
	require.ErrorIs(t, err, ecc.ErrCurveMismatch)

	// The failed call did not consume the request slot.
	_, c := keyPair(t, ecc.P256)
	_, err = Encrypt(a, c.PubKey(), []byte("x"), cli)
	require.NoError(t, err)
}

func TestFixedPointCacheOption(t *testing.T) {
	cache := ecc.NewFixedPointCache(0)
	defer cache.Free()

	cliKey, srvKey := keyPair(t, ecc.P521)
	require.NoError(t, cache.Precompute(srvKey.PubKey()))
	require.NoError(t, cache.Precompute(cliKey.PubKey()))

	cli, srv := pair(t, WithFixedPointCache(cache))
	req, err := Encrypt(cliKey, srvKey.PubKey(), []byte("cached"), cli)
	require.NoError(t, err)
	got, err := Decrypt(srvKey, cliKey.PubKey(), req, srv)
	require.NoError(t, err)
	require.Equal(t, "cached", string(got))
}

func TestUnpad(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		n    int
		ok   int
	}{
		{"full block", bytes.Repeat([]byte{16}, 16), 0, 1},
		{"one byte", append(bytes.Repeat([]byte{7}, 15), 1), 15, 1},
		{"zero", make([]byte, 16), 0, 0},
		{"too long", bytes.Repeat([]byte{17}, 32), 0, 0},
		{"inconsistent", append(bytes.Repeat([]byte{0}, 14), 3, 2), 0, 0},
		{"inconsistent in pad", append(append(bytes.Repeat([]byte{0}, 12), 4, 3), 4, 4), 0, 0},
	}
	for _, test := range tests {
		n, ok := unpad(test.buf)
		require.Equal(t, test.ok, ok, test.name)
		if ok == 1 {
			require.Equal(t, test.n, n, test.name)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	var kind ecc.ErrorKind
	err := error(makeError(ErrNotReady, "x"))
	require.True(t, errors.As(err, &kind))
	require.Equal(t, ecc.ErrNotReady, kind)
}
