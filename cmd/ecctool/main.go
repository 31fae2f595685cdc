// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command ecctool exposes the ecc, ecies and ecckd packages on the command
// line.  Keys, signatures and ciphertexts are exchanged as hex strings.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ModChain/ecc"
	"github.com/ModChain/ecc/ecies"
	"github.com/ModChain/ecc/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	cmdRoot      = "ecctool"
	envPrefix    = "ECCTOOL"
	configName   = ".ecctool"
	defaultCurve = "P-256"
)

// newRootCmd builds the command tree.  Settings resolve, in order, from
// flags, ECCTOOL_* environment variables, the config file and the flag
// defaults.
func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	mainCmd := &cobra.Command{
		Use:           cmdRoot,
		Short:         "Elliptic curve key, signature and encryption tool",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v, cfgFile); err != nil {
				return err
			}
			logger, err := logging.New(v.GetString("logging_level"))
			if err != nil {
				return err
			}
			ecc.UseLogger(logger)
			ecies.UseLogger(logger)
			logger.Debug("configuration loaded", zap.String("config", v.ConfigFileUsed()),
				zap.String("curve", v.GetString("curve")))
			return nil
		},
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	mainFlags := mainCmd.PersistentFlags()
	mainFlags.StringVar(&cfgFile, "config", "", "config file (default $HOME/"+configName+".yaml)")
	mainFlags.String("curve", defaultCurve, "curve name, see the curves command")
	mainFlags.String("digest", "sha256", "message digest: sha256, sha512 or blake256")
	mainFlags.String("kdf", ecies.KDFHKDFSHA256.String(), "ecies key derivation function")
	mainFlags.String("mac", ecies.MACHMACSHA256.String(), "ecies message authentication code")
	mainFlags.String("cipher", ecies.CipherAES128CBC.String(), "ecies block cipher")
	mainFlags.String("logging-level", logging.DefaultLevel, "logging level")

	for key, flag := range map[string]string{
		"curve":         "curve",
		"digest":        "digest",
		"kdf":           "kdf",
		"mac":           "mac",
		"cipher":        "cipher",
		"logging_level": "logging-level",
	} {
		if err := v.BindPFlag(key, mainFlags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	mainCmd.AddCommand(curvesCmd())
	mainCmd.AddCommand(keygenCmd(v))
	mainCmd.AddCommand(pubkeyCmd(v))
	mainCmd.AddCommand(signCmd(v))
	mainCmd.AddCommand(verifyCmd(v))
	mainCmd.AddCommand(ecdhCmd(v))
	mainCmd.AddCommand(encryptCmd(v))
	mainCmd.AddCommand(decryptCmd(v))
	mainCmd.AddCommand(deriveCmd(v))

	return mainCmd
}

// readConfig loads cfgFile, or $HOME/.ecctool.yaml when it exists.
func readConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return errors.Wrap(v.ReadInConfig(), "error reading config file")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return errors.Wrapf(err, "error reading %s", filepath.Join(home, configName+".yaml"))
	}
	return nil
}

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
