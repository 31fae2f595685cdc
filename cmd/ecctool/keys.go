// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"text/tabwriter"

	"github.com/ModChain/ecc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func curvesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "List the builtin curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSIZE\tBITS\tSIGSIZE")
			for _, c := range ecc.Curves() {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", c.ID(), c.Name(), c.Size(),
					c.BitSize(), c.SigSize())
			}
			return w.Flush()
		},
	}
}

func keygenCmd(v *viper.Viper) *cobra.Command {
	var compressed bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair on the configured curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			curve, err := configuredCurve(v)
			if err != nil {
				return err
			}
			priv, err := ecc.GeneratePrivateKey(nil, curve)
			if err != nil {
				return err
			}
			defer priv.Zero()

			out := cmd.OutOrStdout()
			printField(out, "curve", curve.Name())
			printField(out, "private", hex.EncodeToString(priv.ExportPrivateOnly()))
			printField(out, "public", hex.EncodeToString(priv.PubKey().ExportX963(compressed)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&compressed, "compressed", false, "print the compressed public key")
	return cmd
}

func pubkeyCmd(v *viper.Viper) *cobra.Command {
	var (
		key        string
		compressed bool
	)
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the public key of a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			curve, err := configuredCurve(v)
			if err != nil {
				return err
			}
			priv, err := loadPrivateKey(curve, key)
			if err != nil {
				return err
			}
			defer priv.Zero()

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(priv.PubKey().ExportX963(compressed)))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&key, "key", "", "hex private key")
	flags.BoolVar(&compressed, "compressed", false, "print the compressed public key")
	return cmd
}
