// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ModChain/ecc"
	"github.com/ModChain/ecc/ecckd"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// parsePath parses a derivation path such as m/44'/0'/0/1.  Hardened
// indexes take a ', h or H suffix.
func parsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if parts[0] != "m" && parts[0] != "M" {
		return nil, errors.Errorf("derivation path %q must start with m", path)
	}
	out := make([]uint32, 0, len(parts)-1)
	for _, p := range parts[1:] {
		var idx uint32
		if n := len(p); n > 0 && strings.ContainsAny(p[n-1:], "'hH") {
			idx = ecckd.HardenedBit
			p = p[:n-1]
		}
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil || v >= ecckd.HardenedBit {
			return nil, errors.Errorf("invalid index %q in derivation path %q", p, path)
		}
		out = append(out, idx|uint32(v))
	}
	return out, nil
}

func masterSecret(curve *ecc.Curve) []byte {
	if curve == ecc.Secp256k1 {
		return ecckd.BitcoinSeed
	}
	return ecckd.Nist256p1Seed
}

func deriveCmd(v *viper.Viper) *cobra.Command {
	var (
		seedHex string
		xkey    string
		path    string
		public  bool
	)
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a hierarchical deterministic key from a seed or extended key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			curve, err := configuredCurve(v)
			if err != nil {
				return err
			}
			indexes, err := parsePath(path)
			if err != nil {
				return err
			}

			var key *ecckd.ExtendedKey
			switch {
			case xkey != "" && seedHex != "":
				return errors.New("--seed and --xkey are exclusive")
			case xkey != "":
				key, err = ecckd.FromStringCurve(curve, xkey)
			default:
				var seed []byte
				seed, err = decodeHex("seed", seedHex)
				if err != nil {
					return err
				}
				key, err = ecckd.FromSeedCurve(curve, seed, masterSecret(curve))
			}
			if err != nil {
				return errors.Wrapf(err, "cannot load %s master key", curve.Name())
			}

			key, err = key.Derive(indexes)
			if err != nil {
				return errors.Wrapf(err, "cannot derive %s", path)
			}
			if public {
				if key, err = key.Public(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), key.String())
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&seedHex, "seed", "", "hex seed of 16 to 64 bytes")
	flags.StringVar(&xkey, "xkey", "", "base58 extended key to derive from")
	flags.StringVar(&path, "path", "m", "derivation path")
	flags.BoolVar(&public, "public", false, "print the public extended key")
	return cmd
}
