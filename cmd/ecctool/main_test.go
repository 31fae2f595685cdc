// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ModChain/ecc"
	"github.com/ModChain/ecc/ecckd"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// execute runs the tool in process with an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(viper.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "%v: %s", args, out)
	return out
}

// keygen returns the private and public hex of a fresh key.
func keygen(t *testing.T, curve string) (string, string) {
	t.Helper()
	fields := map[string]string{}
	for _, line := range strings.Split(mustExecute(t, "keygen", "--curve", curve), "\n") {
		parts := strings.Fields(line)
		require.Len(t, parts, 2, line)
		fields[strings.TrimSuffix(parts[0], ":")] = parts[1]
	}
	require.Equal(t, curve, fields["curve"])
	return fields["private"], fields["public"]
}

func hexToBytes(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func isolateHome(t *testing.T) string {
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestCurvesCommand(t *testing.T) {
	isolateHome(t)
	out := mustExecute(t, "curves")
	for _, c := range ecc.Curves() {
		require.Contains(t, out, c.Name())
	}
	require.Contains(t, out, "SIGSIZE")
}

func TestKeygenAndPubkey(t *testing.T) {
	isolateHome(t)
	for _, curve := range []string{"P-256", "P-384", "secp256k1"} {
		priv, pub := keygen(t, curve)
		require.Equal(t, pub, mustExecute(t, "pubkey", "--curve", curve, "--key", priv))

		compressed := mustExecute(t, "pubkey", "--curve", curve, "--key", priv, "--compressed")
		c, err := ecc.CurveByName(curve)
		require.NoError(t, err)
		require.Len(t, compressed, 2*(1+c.Size()))
	}
}

func TestSignRFC6979(t *testing.T) {
	isolateHome(t)
	const key = "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"
	want, err := ecc.RSToSig(
		"efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716",
		"f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8")
	require.NoError(t, err)

	out := mustExecute(t, "sign", "--curve", "P-256", "--key", key, "sample")
	require.Equal(t, hex.EncodeToString(want), out)
}

func TestSignVerify(t *testing.T) {
	isolateHome(t)
	for _, digest := range []string{"sha256", "sha512", "blake256"} {
		priv, pub := keygen(t, "secp256k1")
		common := []string{"--curve", "secp256k1", "--digest", digest}

		sig := mustExecute(t, append([]string{"sign", "--key", priv, "hello"}, common...)...)
		again := mustExecute(t, append([]string{"sign", "--key", priv, "hello"}, common...)...)
		require.Equal(t, sig, again, digest)

		out := mustExecute(t, append([]string{"verify", "--pub", pub, "--sig", sig, "hello"}, common...)...)
		require.Equal(t, "signature valid", out)

		_, err := execute(t, append([]string{"verify", "--pub", pub, "--sig", sig, "hullo"}, common...)...)
		require.Error(t, err, digest)

		random := mustExecute(t, append([]string{"sign", "--random", "--key", priv, "hello"}, common...)...)
		mustExecute(t, append([]string{"verify", "--pub", pub, "--sig", random, "hello"}, common...)...)
	}
}

func TestSignPrehashed(t *testing.T) {
	isolateHome(t)
	priv, pub := keygen(t, "P-384")
	hash := strings.Repeat("ab", 48)
	sig := mustExecute(t, "sign", "--curve", "P-384", "--key", priv, "--prehashed", hash)
	mustExecute(t, "verify", "--curve", "P-384", "--pub", pub, "--sig", sig, "--prehashed", hash)
}

func TestECDHCommand(t *testing.T) {
	isolateHome(t)
	privA, pubA := keygen(t, "P-521")
	privB, pubB := keygen(t, "P-521")
	ab := mustExecute(t, "ecdh", "--curve", "P-521", "--key", privA, "--peer", pubB)
	ba := mustExecute(t, "ecdh", "--curve", "P-521", "--key", privB, "--peer", pubA)
	require.Equal(t, ab, ba)
	require.Len(t, ab, 2*66)
}

func TestEncryptDecrypt(t *testing.T) {
	isolateHome(t)
	privA, pubA := keygen(t, "P-256")
	privB, pubB := keygen(t, "P-256")

	ct := mustExecute(t, "encrypt", "--key", privA, "--peer", pubB, "attack at dawn")
	msg := mustExecute(t, "decrypt", "--key", privB, "--peer", pubA, ct)
	require.Equal(t, "attack at dawn", msg)

	const (
		clientSalt = "00112233445566778899aabbccddeeff"
		serverSalt = "ffeeddccbbaa99887766554433221100"
	)
	ct = mustExecute(t, "encrypt", "--key", privA, "--peer", pubB,
		"--salt", clientSalt, "--peer-salt", serverSalt, "--info", "test",
		"--cipher", "aes256-cbc", "--hex", "cafe")
	msg = mustExecute(t, "decrypt", "--key", privB, "--peer", pubA,
		"--salt", serverSalt, "--peer-salt", clientSalt, "--info", "test",
		"--cipher", "aes256-cbc", "--hex", ct)
	require.Equal(t, "cafe", msg)

	// Mismatched algorithms or salts fail authentication.
	_, err := execute(t, "decrypt", "--key", privB, "--peer", pubA,
		"--salt", serverSalt, "--peer-salt", clientSalt, "--info", "test", ct)
	require.Error(t, err)
	_, err = execute(t, "decrypt", "--key", privB, "--peer", pubA,
		"--salt", clientSalt, "--peer-salt", serverSalt, "--info", "test",
		"--cipher", "aes256-cbc", ct)
	require.Error(t, err)

	_, err = execute(t, "encrypt", "--key", privA, "--peer", pubB, "--info", "x", "msg")
	require.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	isolateHome(t)
	privA, pubA := keygen(t, "P-224")
	privB, pubB := keygen(t, "P-224")

	t.Setenv("ECCTOOL_CURVE", "P-224")
	t.Setenv("ECCTOOL_KDF", "hkdf-sha1")
	t.Setenv("ECCTOOL_MAC", "hmac-sha1")

	const s1, s2 = "0102030405060708090a0b0c0d0e0f10", "1112131415161718191a1b1c1d1e1f20"
	ct := mustExecute(t, "encrypt", "--key", privA, "--peer", pubB,
		"--salt", s1, "--peer-salt", s2, "hello")
	msg := mustExecute(t, "decrypt", "--key", privB, "--peer", pubA,
		"--salt", s2, "--peer-salt", s1, ct)
	require.Equal(t, "hello", msg)

	t.Setenv("ECCTOOL_LOGGING_LEVEL", "loud")
	_, err := execute(t, "curves")
	require.Error(t, err)
}

const bip32Seed = "000102030405060708090a0b0c0d0e0f"

func TestDeriveCommand(t *testing.T) {
	isolateHome(t)
	out := mustExecute(t, "derive", "--curve", "secp256k1", "--seed", bip32Seed,
		"--path", "m/0'/1", "--public")
	require.Equal(t, "xpub6ASuArnXKPbfEwhqN6e3mwBcDTgzisQN1wXN9BJcM47sSikHjJf3UFHKkNAWbWMiGj7Wf5uMash7SyYq527Hqck2AxYysAA7xmALppuCkwQ", out)

	// Deriving in two steps through the serialized key gives the same node.
	parent := mustExecute(t, "derive", "--curve", "secp256k1", "--seed", bip32Seed, "--path", "m/0h")
	out2 := mustExecute(t, "derive", "--curve", "secp256k1", "--xkey", parent, "--path", "m/1", "--public")
	require.Equal(t, out, out2)

	master, err := ecckd.FromNist256p1Seed(hexToBytes(t, bip32Seed))
	require.NoError(t, err)
	require.Equal(t, master.String(), mustExecute(t, "derive", "--seed", bip32Seed))

	_, err = execute(t, "derive", "--curve", "P-384", "--seed", bip32Seed)
	require.Error(t, err)
	_, err = execute(t, "derive", "--curve", "secp256k1", "--seed", "00")
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	home := isolateHome(t)
	err := os.WriteFile(filepath.Join(home, configName+".yaml"),
		[]byte("curve: secp256k1\ndigest: blake256\n"), 0600)
	require.NoError(t, err)

	out := mustExecute(t, "derive", "--seed", bip32Seed, "--path", "m/0H/1", "--public")
	require.True(t, strings.HasPrefix(out, "xpub6ASuArnXKPbf"), out)

	priv, _ := keygen(t, "secp256k1")
	sig := mustExecute(t, "sign", "--key", priv, "msg")
	explicit := mustExecute(t, "sign", "--curve", "secp256k1", "--digest", "blake256", "--key", priv, "msg")
	require.Equal(t, explicit, sig)

	// Flags win over the file.
	privP256, pubP256 := keygen(t, "P-256")
	sig = mustExecute(t, "sign", "--curve", "P-256", "--key", privP256, "msg")
	mustExecute(t, "verify", "--curve", "P-256", "--pub", pubP256, "--sig", sig, "msg")

	other := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("curve: P-384\n"), 0600))
	priv384, pub384 := keygen(t, "P-384")
	require.Equal(t, pub384, mustExecute(t, "--config", other, "pubkey", "--key", priv384))

	_, err = execute(t, "--config", filepath.Join(home, "missing.yaml"), "curves")
	require.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	isolateHome(t)
	priv, _ := keygen(t, "P-256")
	tests := [][]string{
		{"keygen", "--curve", "P-999"},
		{"pubkey", "--key", "zz"},
		{"pubkey"},
		{"sign", "--key", priv, "--digest", "md5", "msg"},
		{"sign", "--key", priv},
		{"sign", "--key", priv, "--hex", "xyz"},
		{"verify", "--pub", "04", "--sig", "3000", "msg"},
		{"ecdh", "--key", priv, "--peer", "02ff"},
		{"encrypt", "--key", priv, "--peer", "", "msg"},
		{"derive", "--seed", bip32Seed, "--path", "x/1"},
	}
	for _, args := range tests {
		_, err := execute(t, args...)
		require.Error(t, err, "%v", args)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		want []uint32
		ok   bool
	}{
		{"m", []uint32{}, true},
		{"m/0", []uint32{0}, true},
		{"m/0'/1h/2H/3", []uint32{ecckd.HardenedBit, ecckd.HardenedBit | 1, ecckd.HardenedBit | 2, 3}, true},
		{"M/44'", []uint32{ecckd.HardenedBit | 44}, true},
		{"", nil, false},
		{"0/1", nil, false},
		{"m/", nil, false},
		{"m/-1", nil, false},
		{"m/2147483648", nil, false},
		{"m/1''", nil, false},
	}
	for _, test := range tests {
		got, err := parsePath(test.path)
		if !test.ok {
			require.Error(t, err, test.path)
			continue
		}
		require.NoError(t, err, test.path)
		require.Equal(t, test.want, got, test.path)
	}
}
