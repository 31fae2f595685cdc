// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/ModChain/ecc"
	"github.com/ModChain/ecc/ecies"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func ecdhCmd(v *viper.Viper) *cobra.Command {
	var key, peerHex string
	cmd := &cobra.Command{
		Use:   "ecdh",
		Short: "Print the shared secret of a private key and a peer public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			curve, err := configuredCurve(v)
			if err != nil {
				return err
			}
			priv, peer, err := loadPair(curve, key, peerHex)
			if err != nil {
				return err
			}
			defer priv.Zero()

			secret, err := ecc.GenerateSharedSecret(priv, peer)
			if err != nil {
				return errors.WithMessage(err, "key agreement failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&key, "key", "", "hex private key")
	flags.StringVar(&peerHex, "peer", "", "hex X9.63 public key of the peer")
	return cmd
}

func loadPair(curve *ecc.Curve, key, peerHex string) (*ecc.PrivateKey, *ecc.PublicKey, error) {
	peer, err := loadPublicKey(curve, "peer public key", peerHex)
	if err != nil {
		return nil, nil, err
	}
	priv, err := loadPrivateKey(curve, key)
	if err != nil {
		return nil, nil, err
	}
	return priv, peer, nil
}

// exchangeFlags select between the stateless mode and a salted context.
type exchangeFlags struct {
	key      string
	peer     string
	salt     string
	peerSalt string
	info     string
}

func (f *exchangeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.key, "key", "", "hex private key")
	flags.StringVar(&f.peer, "peer", "", "hex X9.63 public key of the peer")
	flags.StringVar(&f.salt, "salt", "", "hex 16 byte salt of this side")
	flags.StringVar(&f.peerSalt, "peer-salt", "", "hex 16 byte salt of the peer")
	flags.StringVar(&f.info, "info", "", "context info, defaults to "+fmt.Sprintf("%q", ecies.DefaultInfo))
}

// context returns nil for the stateless mode, which only supports the
// default algorithms.  Otherwise both salts are required.
func (f *exchangeFlags) context(v *viper.Viper, role ecies.Role) (*ecies.Context, error) {
	kdf, err := ecies.ParseKDF(v.GetString("kdf"))
	if err != nil {
		return nil, err
	}
	mac, err := ecies.ParseMAC(v.GetString("mac"))
	if err != nil {
		return nil, err
	}
	ci, err := ecies.ParseCipher(v.GetString("cipher"))
	if err != nil {
		return nil, err
	}

	if f.salt == "" && f.peerSalt == "" {
		if f.info != "" || kdf != ecies.KDFHKDFSHA256 || mac != ecies.MACHMACSHA256 ||
			ci != ecies.CipherAES128CBC {
			return nil, errors.New("--info and non default algorithms need --salt and --peer-salt")
		}
		return nil, nil
	}

	own, err := decodeHex("salt", f.salt)
	if err != nil {
		return nil, err
	}
	if len(own) != ecies.SaltSize {
		return nil, errors.Errorf("salt must be %d bytes, got %d", ecies.SaltSize, len(own))
	}
	peer, err := decodeHex("peer salt", f.peerSalt)
	if err != nil {
		return nil, err
	}

	ctx, err := ecies.NewContext(role, bytes.NewReader(own),
		ecies.WithKDF(kdf), ecies.WithMAC(mac), ecies.WithCipher(ci))
	if err != nil {
		return nil, err
	}
	if f.info != "" {
		if err := ctx.SetInfo([]byte(f.info)); err != nil {
			return nil, err
		}
	}
	if err := ctx.SetPeerSalt(peer); err != nil {
		return nil, errors.WithMessage(err, "invalid peer salt")
	}
	return ctx, nil
}

func encryptCmd(v *viper.Viper) *cobra.Command {
	var (
		f     exchangeFlags
		isHex bool
	)
	cmd := &cobra.Command{
		Use:   "encrypt [message]",
		Short: "Encrypt a message for the peer, as the client of an exchange",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			curve, err := configuredCurve(v)
			if err != nil {
				return err
			}
			msg, err := messageArg(args, isHex)
			if err != nil {
				return err
			}
			priv, peer, err := loadPair(curve, f.key, f.peer)
			if err != nil {
				return err
			}
			defer priv.Zero()
			ctx, err := f.context(v, ecies.RoleClient)
			if err != nil {
				return err
			}
			if ctx != nil {
				defer ctx.Free()
			}

			ct, err := ecies.Encrypt(priv, peer, msg, ctx)
			if err != nil {
				return errors.WithMessage(err, "encryption failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ct))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&isHex, "hex", false, "the message is hex encoded")
	return cmd
}

func decryptCmd(v *viper.Viper) *cobra.Command {
	var (
		f      exchangeFlags
		hexOut bool
	)
	cmd := &cobra.Command{
		Use:   "decrypt [ciphertext]",
		Short: "Decrypt a hex ciphertext from the peer, as the server of an exchange",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			curve, err := configuredCurve(v)
			if err != nil {
				return err
			}
			ct, err := messageArg(args, true)
			if err != nil {
				return err
			}
			priv, peer, err := loadPair(curve, f.key, f.peer)
			if err != nil {
				return err
			}
			defer priv.Zero()
			ctx, err := f.context(v, ecies.RoleServer)
			if err != nil {
				return err
			}
			if ctx != nil {
				defer ctx.Free()
			}

			msg, err := ecies.Decrypt(priv, peer, ct, ctx)
			if err != nil {
				return errors.WithMessage(err, "decryption failed")
			}
			out := cmd.OutOrStdout()
			if hexOut {
				fmt.Fprintln(out, hex.EncodeToString(msg))
			} else {
				fmt.Fprintln(out, string(msg))
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&hexOut, "hex", false, "print the message hex encoded")
	return cmd
}
