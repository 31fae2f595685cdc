// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import "github.com/ModChain/ecc"

// Error kinds raised by this package.  They are the kinds of the ecc package,
// so errors.Is works against either name.
const (
	ErrAuthentication       = ecc.ErrAuthentication
	ErrInvalidRolePairing   = ecc.ErrInvalidRolePairing
	ErrNotReady             = ecc.ErrNotReady
	ErrRandomSource         = ecc.ErrRandomSource
	ErrMalformedEncoding    = ecc.ErrMalformedEncoding
	ErrUnsupportedAlgorithm = ecc.ErrUnsupportedAlgorithm
)

func makeError(kind ecc.ErrorKind, desc string) ecc.Error {
	return ecc.Error{Err: kind, Description: desc}
}
