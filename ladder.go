// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"crypto/subtle"
	"math/big"
)

// Operation labels recorded by the trace hook.
const (
	traceDouble = "double"
	traceAdd    = "add"
	traceSwap   = "swap"
	traceSelect = "select"
)

// traceHook, when set, observes every group operation performed by the
// constant structure multiplication routines.  Tests use it to assert the
// operation sequence does not depend on the scalar.
var traceHook func(op string)

func trace(op string) {
	if traceHook != nil {
		traceHook(op)
	}
}

// paddedScalar returns k mod N plus either N or 2N, whichever has bit
// bitlen(N) set, as a fixed-width big-endian buffer.  Every scalar therefore
// has the same bit length so the ladder runs the same number of steps and
// starts from a known top bit.
func (c *Curve) paddedScalar(k *big.Int) []byte {
	n := c.params.N
	width := (n.BitLen() + 2 + 7) / 8

	kk := new(big.Int).Mod(k, n)
	t1 := new(big.Int).Add(kk, n)
	t2 := new(big.Int).Add(t1, n)

	b1 := t1.FillBytes(make([]byte, width))
	b2 := t2.FillBytes(make([]byte, width))
	top := int(scalarBit(b1, n.BitLen()))
	subtle.ConstantTimeCopy(1-top, b1, b2)
	return b1
}

// scalarBit returns bit i of the big-endian buffer.
func scalarBit(buf []byte, i int) uint {
	return uint(buf[len(buf)-1-i/8]>>(uint(i)%8)) & 1
}

// ScalarMult multiplies the Jacobian point p by the scalar k and stores the
// result in result.  The scalar is reduced modulo the group order.
//
// The multiplication is a Montgomery ladder: for every bit of the padded
// scalar it performs one conditional swap, one addition, one doubling and a
// second conditional swap, so the sequence of group operations and memory
// accesses is independent of the scalar value.
func (c *Curve) ScalarMult(k *big.Int, p, result *JacobianPoint) {
	scalar := c.paddedScalar(k)
	nBits := c.params.N.BitLen()

	var r0, r1 JacobianPoint
	r0.Set(p)
	c.DoubleJacobian(p, &r1)

	for i := nBits - 1; i >= 0; i-- {
		bit := int(scalarBit(scalar, i))
		c.condSwap(&r0, &r1, bit)
		c.AddJacobian(&r0, &r1, &r1)
		c.DoubleJacobian(&r0, &r0)
		c.condSwap(&r0, &r1, bit)
	}
	for i := range scalar {
		scalar[i] = 0
	}
	result.Set(&r0)
}

// ScalarBaseMult multiplies the base point of the curve by k and stores the
// result in result.
func (c *Curve) ScalarBaseMult(k *big.Int, result *JacobianPoint) {
	var g JacobianPoint
	g.setAffine(c.params.Gx, c.params.Gy)
	c.ScalarMult(k, &g, result)
}

// scalarMultVartime is a plain double-and-add multiplication for public
// scalars only.  The scalar is not reduced.
func (c *Curve) scalarMultVartime(k *big.Int, p, result *JacobianPoint) {
	var acc JacobianPoint
	acc.setInfinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		c.DoubleJacobian(&acc, &acc)
		if k.Bit(i) == 1 {
			c.AddJacobian(&acc, p, &acc)
		}
	}
	result.Set(&acc)
}

// doubleScalarMultVartime computes u1*G + u2*Q with interleaved double and
// add (Shamir's trick).  Only for public scalars such as those of signature
// verification.
func (c *Curve) doubleScalarMultVartime(u1, u2 *big.Int, q, result *JacobianPoint) {
	var g, gq, acc JacobianPoint
	g.setAffine(c.params.Gx, c.params.Gy)
	c.AddJacobian(&g, q, &gq)
	acc.setInfinity()

	bits := u1.BitLen()
	if u2.BitLen() > bits {
		bits = u2.BitLen()
	}
	for i := bits - 1; i >= 0; i-- {
		c.DoubleJacobian(&acc, &acc)
		switch {
		case u1.Bit(i) == 1 && u2.Bit(i) == 1:
			c.AddJacobian(&acc, &gq, &acc)
		case u1.Bit(i) == 1:
			c.AddJacobian(&acc, &g, &acc)
		case u2.Bit(i) == 1:
			c.AddJacobian(&acc, q, &acc)
		}
	}
	result.Set(&acc)
}
