// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zeroize wipes sensitive memory.
package zeroize

import (
	"math/big"
	"runtime"
)

// Bytes overwrites the provided slice with zeros and keeps it alive until
// the writes happened so they are not eliminated as dead stores.
//
// Go's garbage collector may have copied the data before, so this is a best
// effort that covers the buffers this module owns.
func Bytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// BigInt overwrites the words backing v and sets it to zero.
func BigInt(v *big.Int) {
	if v == nil {
		return
	}
	words := v.Bits()
	for i := range words {
		words[i] = 0
	}
	runtime.KeepAlive(words)
	v.SetInt64(0)
}
