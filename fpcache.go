// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"crypto/subtle"
	"math/big"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"go.uber.org/zap"
)

const (
	// fpWindowBits is the window width of cached multiplications.
	fpWindowBits = 4

	// fpTableEntries is the number of precomputed multiples per point.
	fpTableEntries = 1 << fpWindowBits

	// DefaultFixedPointCacheBytes is the storage budget used when
	// NewFixedPointCache is given a non-positive size.
	DefaultFixedPointCacheBytes = 32 * 1024 * 1024
)

// FixedPointCache holds precomputed window tables for points that are
// multiplied repeatedly, typically a long lived public key used for many key
// agreements.  The cache only accelerates multiplication, every operation is
// correct without it.
//
// Building and freeing tables is exclusive, lookups may run concurrently.
// Call Free once the cached points are no longer needed or before shutdown.
type FixedPointCache struct {
	mtx   sync.RWMutex
	store *fastcache.Cache
}

// NewFixedPointCache returns an empty cache that keeps at most maxBytes of
// tables.  Tables are evicted when the budget is exceeded.
func NewFixedPointCache(maxBytes int) *FixedPointCache {
	if maxBytes <= 0 {
		maxBytes = DefaultFixedPointCacheBytes
	}
	return &FixedPointCache{store: fastcache.New(maxBytes)}
}

// cacheKey identifies a point by its curve domain and uncompressed encoding.
func cacheKey(pub *PublicKey) []byte {
	params := &pub.curve.params
	key := make([]byte, 0, len(params.Name)+1+params.Size*3+1)
	key = append(key, params.Name...)
	key = append(key, 0)
	key = append(key, params.P.Bytes()...)
	return append(key, pub.SerializeUncompressed()...)
}

// Precompute builds and stores the window table of the public key point.
// Building a table that already exists is a no-op.
func (fc *FixedPointCache) Precompute(pub *PublicKey) error {
	if err := pub.validate(); err != nil {
		return err
	}
	key := cacheKey(pub)

	fc.mtx.Lock()
	defer fc.mtx.Unlock()
	if fc.store.Has(key) {
		return nil
	}

	curve := pub.curve
	size := curve.params.Size
	entrySize := 3 * size
	table := make([]byte, fpTableEntries*entrySize)

	var base, acc JacobianPoint
	pub.AsJacobian(&base)
	acc.setInfinity()
	for i := 0; i < fpTableEntries; i++ {
		var entry JacobianPoint
		entry.Set(&acc)
		entry.ToAffine(curve)
		off := i * entrySize
		fill(table[off:off+size], entry.X)
		fill(table[off+size:off+2*size], entry.Y)
		fill(table[off+2*size:off+3*size], entry.Z)
		curve.AddJacobian(&acc, &base, &acc)
	}
	fc.store.Set(key, table)
	log.Debug("fixed point table built", zap.String("curve", curve.Name()),
		zap.Int("bytes", len(table)))
	return nil
}

// Contains reports whether a table for the public key is cached.
func (fc *FixedPointCache) Contains(pub *PublicKey) bool {
	fc.mtx.RLock()
	defer fc.mtx.RUnlock()
	return fc.store.Has(cacheKey(pub))
}

// Len returns the number of cached tables.
func (fc *FixedPointCache) Len() int {
	fc.mtx.RLock()
	defer fc.mtx.RUnlock()
	var stats fastcache.Stats
	fc.store.UpdateStats(&stats)
	return int(stats.EntriesCount)
}

// Free drops every cached table.  The cache stays usable and later lookups
// fall back to the uncached multiplication until tables are rebuilt.
func (fc *FixedPointCache) Free() {
	fc.mtx.Lock()
	defer fc.mtx.Unlock()
	fc.store.Reset()
	log.Debug("fixed point cache freed")
}

// ScalarMult multiplies the public key point by k.  When a table for the
// point is cached the windowed path is used, otherwise the ladder.  Both give
// identical results.
func (fc *FixedPointCache) ScalarMult(k *big.Int, pub *PublicKey, result *JacobianPoint) {
	curve := pub.curve
	var table []byte
	var ok bool
	if fc != nil {
		fc.mtx.RLock()
		table, ok = fc.store.HasGet(nil, cacheKey(pub))
		fc.mtx.RUnlock()
	}
	if !ok || len(table) != fpTableEntries*3*curve.params.Size {
		var p JacobianPoint
		pub.AsJacobian(&p)
		curve.ScalarMult(k, &p, result)
		return
	}
	curve.scalarMultTable(k, table, result)
}

// scalarMultTable performs a fixed window multiplication over a table of
// the multiples 0..15 of a point.  Every window costs four doublings, a full
// constant time scan of the table and one addition.
func (c *Curve) scalarMultTable(k *big.Int, table []byte, result *JacobianPoint) {
	scalar := c.paddedScalar(k)
	size := c.params.Size
	entrySize := 3 * size
	nBits := len(scalar) * 8
	windows := (nBits + fpWindowBits - 1) / fpWindowBits

	sel := make([]byte, entrySize)
	var acc, entry JacobianPoint
	acc.setInfinity()
	entry.init()
	for w := windows - 1; w >= 0; w-- {
		for i := 0; i < fpWindowBits; i++ {
			c.DoubleJacobian(&acc, &acc)
		}

		idx := 0
		for i := fpWindowBits - 1; i >= 0; i-- {
			bit := w*fpWindowBits + i
			idx <<= 1
			if bit < nBits {
				idx |= int(scalarBit(scalar, bit))
			}
		}

		trace(traceSelect)
		for i := 0; i < fpTableEntries; i++ {
			off := i * entrySize
			subtle.ConstantTimeCopy(subtle.ConstantTimeEq(int32(i), int32(idx)),
				sel, table[off:off+entrySize])
		}
		entry.X.SetBytes(sel[:size])
		entry.Y.SetBytes(sel[size : 2*size])
		entry.Z.SetBytes(sel[2*size:])
		c.AddJacobian(&acc, &entry, &acc)
	}
	for i := range scalar {
		scalar[i] = 0
	}
	result.Set(&acc)
}
