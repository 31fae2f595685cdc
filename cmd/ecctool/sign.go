// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/ModChain/ecc"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type digest struct {
	sum func([]byte) []byte

	// nonceHash keys the RFC 6979 HMAC.
	nonceHash crypto.Hash
}

var digests = map[string]digest{
	"sha256": {
		sum:       func(b []byte) []byte { h := sha256.Sum256(b); return h[:] },
		nonceHash: crypto.SHA256,
	},
	"sha512": {
		sum:       func(b []byte) []byte { h := sha512.Sum512(b); return h[:] },
		nonceHash: crypto.SHA512,
	},
	"blake256": {
		sum:       chainhash.HashB,
		nonceHash: crypto.SHA256,
	},
}

func configuredDigest(v *viper.Viper) (digest, error) {
	name := v.GetString("digest")
	d, ok := digests[name]
	if !ok {
		names := make([]string, 0, len(digests))
		for n := range digests {
			names = append(names, n)
		}
		sort.Strings(names)
		return digest{}, errors.Errorf("unknown digest %q, expected one of %v", name, names)
	}
	return d, nil
}

// hashArg digests the message argument unless prehashed is set, in which
// case the argument is the hex hash itself.
func hashArg(v *viper.Viper, args []string, isHex, prehashed bool) ([]byte, digest, error) {
	d, err := configuredDigest(v)
	if err != nil {
		return nil, d, err
	}
	if prehashed {
		if len(args) != 1 {
			return nil, d, errors.Errorf("expected one hash argument, got %d", len(args))
		}
		hash, err := decodeHex("hash", args[0])
		return hash, d, err
	}
	msg, err := messageArg(args, isHex)
	if err != nil {
		return nil, d, err
	}
	return d.sum(msg), d, nil
}

func signCmd(v *viper.Viper) *cobra.Command {
	var (
		key       string
		isHex     bool
		prehashed bool
		random    bool
	)
	cmd := &cobra.Command{
		Use:   "sign [message]",
		Short: "Sign a message and print the DER signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			curve, err := configuredCurve(v)
			if err != nil {
				return err
			}
			hash, d, err := hashArg(v, args, isHex, prehashed)
			if err != nil {
				return err
			}
			priv, err := loadPrivateKey(curve, key)
			if err != nil {
				return err
			}
			defer priv.Zero()

			var sig *ecc.Signature
			if random {
				sig, err = ecc.SignHash(nil, priv, hash)
			} else {
				sig, err = ecc.SignHashDeterministic(priv, hash, d.nonceHash)
			}
			if err != nil {
				return errors.WithMessage(err, "signing failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sig.Serialize()))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&key, "key", "", "hex private key")
	flags.BoolVar(&isHex, "hex", false, "the message is hex encoded")
	flags.BoolVar(&prehashed, "prehashed", false, "the argument is the hex digest to sign")
	flags.BoolVar(&random, "random", false, "use a random nonce instead of RFC 6979")
	return cmd
}

func verifyCmd(v *viper.Viper) *cobra.Command {
	var (
		pubHex    string
		sigHex    string
		isHex     bool
		prehashed bool
	)
	cmd := &cobra.Command{
		Use:   "verify [message]",
		Short: "Verify a DER signature over a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			curve, err := configuredCurve(v)
			if err != nil {
				return err
			}
			hash, _, err := hashArg(v, args, isHex, prehashed)
			if err != nil {
				return err
			}
			pub, err := loadPublicKey(curve, "public key", pubHex)
			if err != nil {
				return err
			}
			der, err := decodeHex("signature", sigHex)
			if err != nil {
				return err
			}
			sig, err := ecc.ParseDERSignature(der)
			if err != nil {
				return errors.WithMessage(err, "invalid signature")
			}
			if !sig.Verify(hash, pub) {
				return errors.New("signature verification failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signature valid")
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&pubHex, "pub", "", "hex X9.63 public key")
	flags.StringVar(&sigHex, "sig", "", "hex DER signature")
	flags.BoolVar(&isHex, "hex", false, "the message is hex encoded")
	flags.BoolVar(&prehashed, "prehashed", false, "the argument is the hex digest")
	return cmd
}
