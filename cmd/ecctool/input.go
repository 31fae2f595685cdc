// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/ModChain/ecc"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

func configuredCurve(v *viper.Viper) (*ecc.Curve, error) {
	curve, err := ecc.CurveByName(v.GetString("curve"))
	if err != nil {
		return nil, errors.WithMessage(err, "invalid --curve")
	}
	return curve, nil
}

func decodeHex(what, s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, errors.Errorf("missing %s", what)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", what)
	}
	return b, nil
}

func loadPrivateKey(curve *ecc.Curve, s string) (*ecc.PrivateKey, error) {
	raw, err := decodeHex("private key", s)
	if err != nil {
		return nil, err
	}
	priv, err := ecc.PrivKeyFromBytes(curve, raw)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid private key")
	}
	return priv, nil
}

func loadPublicKey(curve *ecc.Curve, what, s string) (*ecc.PublicKey, error) {
	raw, err := decodeHex(what, s)
	if err != nil {
		return nil, err
	}
	pub, err := ecc.ParsePubKey(curve, raw)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid %s", what)
	}
	return pub, nil
}

// messageArg returns the single positional argument, hex decoded when
// isHex is set.
func messageArg(args []string, isHex bool) ([]byte, error) {
	if len(args) != 1 {
		return nil, errors.Errorf("expected one message argument, got %d", len(args))
	}
	if isHex {
		return decodeHex("message", args[0])
	}
	return []byte(args[0]), nil
}

func printField(w io.Writer, name string, value interface{}) {
	fmt.Fprintf(w, "%-8s %v\n", name+":", value)
}
