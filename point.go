// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

// References:
//   [EFD]: Explicit-Formulas Database
//     https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian.html
//
//   [SEC1]: Elliptic Curve Cryptography (May 31, 2009, Version 2.0)
//     https://www.secg.org/sec1-v2.pdf

import (
	"crypto/subtle"
	"math/big"
)

// JacobianPoint is an element of the group formed by a curve in Jacobian
// projective coordinates and thus represents a point on the curve.  The
// affine value is (X/Z², Y/Z³).  Z = 1 denotes an affine point and Z = 0 the
// point at infinity.
type JacobianPoint struct {
	X *big.Int
	Y *big.Int
	Z *big.Int
}

// MakeJacobian returns a Jacobian point with the provided coordinates.  The
// values are copied.
func MakeJacobian(x, y, z *big.Int) JacobianPoint {
	return JacobianPoint{
		X: new(big.Int).Set(x),
		Y: new(big.Int).Set(y),
		Z: new(big.Int).Set(z),
	}
}

// Set sets the Jacobian point to the provided point.
func (p *JacobianPoint) Set(other *JacobianPoint) {
	p.init()
	p.X.Set(other.X)
	p.Y.Set(other.Y)
	p.Z.Set(other.Z)
}

// IsInfinity reports whether the point is the point at infinity.
func (p *JacobianPoint) IsInfinity() bool {
	return p.Z == nil || p.Z.Sign() == 0
}

func (p *JacobianPoint) init() {
	if p.X == nil {
		p.X = new(big.Int)
	}
	if p.Y == nil {
		p.Y = new(big.Int)
	}
	if p.Z == nil {
		p.Z = new(big.Int)
	}
}

func (p *JacobianPoint) setAffine(x, y *big.Int) {
	p.init()
	p.X.Set(x)
	p.Y.Set(y)
	p.Z.SetInt64(1)
}

func (p *JacobianPoint) setInfinity() {
	p.init()
	p.X.SetInt64(0)
	p.Y.SetInt64(0)
	p.Z.SetInt64(0)
}

// ToAffine reduces the Z value of the point to 1 in place.  This requires
// the one field inversion of the computation.  The point at infinity is left
// with Z = 0 and zero coordinates.
func (p *JacobianPoint) ToAffine(curve *Curve) {
	p.init()
	if p.IsInfinity() {
		p.setInfinity()
		return
	}
	prime := curve.params.P
	zInv := new(big.Int).ModInverse(p.Z, prime)
	zInv2 := new(big.Int).Mul(zInv, zInv)
	zInv2.Mod(zInv2, prime)
	zInv3 := new(big.Int).Mul(zInv2, zInv)
	zInv3.Mod(zInv3, prime)

	p.X.Mul(p.X, zInv2)
	p.X.Mod(p.X, prime)
	p.Y.Mul(p.Y, zInv3)
	p.Y.Mod(p.Y, prime)
	p.Z.SetInt64(1)
}

// polynomial returns x³ + ax + b mod P.
func (c *Curve) polynomial(x *big.Int) *big.Int {
	prime := c.params.P
	x3 := new(big.Int).Mul(x, x)
	x3.Add(x3, c.params.A)
	x3.Mul(x3, x)
	x3.Add(x3, c.params.B)
	return x3.Mod(x3, prime)
}

// IsOnCurve reports whether the affine point (x, y) is a finite point on the
// curve.
func (c *Curve) IsOnCurve(x, y *big.Int) bool {
	prime := c.params.P
	if x == nil || y == nil || x.Sign() < 0 || y.Sign() < 0 ||
		x.Cmp(prime) >= 0 || y.Cmp(prime) >= 0 {

		return false
	}
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, prime)
	return c.polynomial(x).Cmp(y2) == 0
}

// IsJacobianOnCurve reports whether the Jacobian point is a finite point on
// the curve.
func (c *Curve) IsJacobianOnCurve(p *JacobianPoint) bool {
	if p.IsInfinity() {
		return false
	}
	var affine JacobianPoint
	affine.Set(p)
	affine.ToAffine(c)
	return c.IsOnCurve(affine.X, affine.Y)
}

// DecompressY attempts to calculate the Y coordinate for the given X
// coordinate such that the result pair is a point on the curve.  The odd
// parameter selects the root.  See [SEC1] section 2.3.4.
func (c *Curve) DecompressY(x *big.Int, odd bool) (*big.Int, error) {
	prime := c.params.P
	if x.Sign() < 0 || x.Cmp(prime) >= 0 {
		return nil, makeError(ErrMalformedEncoding, "x coordinate is not a field element")
	}
	y := new(big.Int).ModSqrt(c.polynomial(x), prime)
	if y == nil {
		return nil, makeError(ErrPointNotOnCurve, "x coordinate has no point on the curve")
	}
	if (y.Bit(0) == 1) != odd {
		y.Sub(prime, y)
		y.Mod(y, prime)
	}
	if (y.Bit(0) == 1) != odd {
		// Only y = 0 has no root of the requested parity.
		return nil, makeError(ErrPointNotOnCurve, "no y coordinate with requested oddness")
	}
	return y, nil
}

// DoubleJacobian doubles the passed Jacobian point and stores the result in
// result.  The result may alias p.  Doubling the point at infinity or a point
// of order two yields the point at infinity without special casing.
//
// It uses dbl-2001-b when a = -3 and dbl-2007-bl otherwise [EFD].
func (c *Curve) DoubleJacobian(p, result *JacobianPoint) {
	trace(traceDouble)
	prime := c.params.P

	delta := new(big.Int).Mul(p.Z, p.Z)
	delta.Mod(delta, prime)
	gamma := new(big.Int).Mul(p.Y, p.Y)
	gamma.Mod(gamma, prime)

	// alpha = 3*X² + a*Z⁴
	alpha := new(big.Int)
	if c.aIsMinus3 {
		// 3*(X-delta)*(X+delta)
		t := new(big.Int).Add(p.X, delta)
		alpha.Sub(p.X, delta)
		alpha.Mul(alpha, t)
		t.Lsh(alpha, 1)
		alpha.Add(alpha, t)
	} else {
		xx := new(big.Int).Mul(p.X, p.X)
		alpha.Lsh(xx, 1)
		alpha.Add(alpha, xx)
		if !c.aIsZero {
			z4 := new(big.Int).Mul(delta, delta)
			z4.Mul(z4, c.params.A)
			alpha.Add(alpha, z4)
		}
	}
	alpha.Mod(alpha, prime)

	// beta = X*gamma, 4*beta kept
	beta4 := new(big.Int).Mul(p.X, gamma)
	beta4.Lsh(beta4, 2)
	beta4.Mod(beta4, prime)

	// X3 = alpha² - 8*beta
	x3 := new(big.Int).Mul(alpha, alpha)
	x3.Sub(x3, new(big.Int).Lsh(beta4, 1))
	x3.Mod(x3, prime)

	// Z3 = 2*Y*Z
	z3 := new(big.Int).Mul(p.Y, p.Z)
	z3.Lsh(z3, 1)
	z3.Mod(z3, prime)

	// Y3 = alpha*(4*beta - X3) - 8*gamma²
	beta4.Sub(beta4, x3)
	y3 := alpha.Mul(alpha, beta4)
	gamma.Mul(gamma, gamma)
	gamma.Lsh(gamma, 3)
	y3.Sub(y3, gamma)
	y3.Mod(y3, prime)

	result.init()
	result.X.Set(x3)
	result.Y.Set(y3)
	result.Z.Set(z3)
}

// AddJacobian adds the passed Jacobian points and stores the result in
// result.  The result may alias either input.
//
// The generic add-2007-bl formula [EFD] is always evaluated and the points at
// infinity are folded in with constant time selection afterwards.  Adding a
// point to itself falls back to doubling.
func (c *Curve) AddJacobian(p1, p2, result *JacobianPoint) {
	trace(traceAdd)
	prime := c.params.P

	z1z1 := new(big.Int).Mul(p1.Z, p1.Z)
	z1z1.Mod(z1z1, prime)
	z2z2 := new(big.Int).Mul(p2.Z, p2.Z)
	z2z2.Mod(z2z2, prime)

	u1 := new(big.Int).Mul(p1.X, z2z2)
	u1.Mod(u1, prime)
	u2 := new(big.Int).Mul(p2.X, z1z1)
	u2.Mod(u2, prime)

	s1 := new(big.Int).Mul(p1.Y, p2.Z)
	s1.Mul(s1, z2z2)
	s1.Mod(s1, prime)
	s2 := new(big.Int).Mul(p2.Y, p1.Z)
	s2.Mul(s2, z1z1)
	s2.Mod(s2, prime)

	h := new(big.Int).Sub(u2, u1)
	h.Mod(h, prime)
	r := new(big.Int).Sub(s2, s1)
	r.Mod(r, prime)

	inf1 := 1 - p1.Z.Sign()
	inf2 := 1 - p2.Z.Sign()
	if h.Sign() == 0 && r.Sign() == 0 && inf1 == 0 && inf2 == 0 {
		// Equal finite inputs.  This never happens in the ladder where
		// both operands differ by the input point.
		c.DoubleJacobian(p1, result)
		return
	}

	// I = (2*H)², J = H*I, r = 2*(S2-S1), V = U1*I
	i := new(big.Int).Lsh(h, 1)
	i.Mul(i, i)
	i.Mod(i, prime)
	j := new(big.Int).Mul(h, i)
	j.Mod(j, prime)
	r.Lsh(r, 1)
	v := new(big.Int).Mul(u1, i)
	v.Mod(v, prime)

	// X3 = r² - J - 2*V
	x3 := new(big.Int).Mul(r, r)
	x3.Sub(x3, j)
	x3.Sub(x3, new(big.Int).Lsh(v, 1))
	x3.Mod(x3, prime)

	// Y3 = r*(V - X3) - 2*S1*J
	y3 := v.Sub(v, x3)
	y3.Mul(y3, r)
	s1.Mul(s1, j)
	s1.Lsh(s1, 1)
	y3.Sub(y3, s1)
	y3.Mod(y3, prime)

	// Z3 = ((Z1+Z2)² - Z1Z1 - Z2Z2)*H
	z3 := new(big.Int).Add(p1.Z, p2.Z)
	z3.Mul(z3, z3)
	z3.Sub(z3, z1z1)
	z3.Sub(z3, z2z2)
	z3.Mul(z3, h)
	z3.Mod(z3, prime)

	sum := JacobianPoint{X: x3, Y: y3, Z: z3}
	c.condAssign(&sum, p2, inf1)
	c.condAssign(&sum, p1, inf2)

	result.init()
	result.X.Set(sum.X)
	result.Y.Set(sum.Y)
	result.Z.Set(sum.Z)
}

// NegateJacobian stores -p in result.
func (c *Curve) NegateJacobian(p, result *JacobianPoint) {
	result.Set(p)
	result.Y.Sub(c.params.P, result.Y)
	result.Y.Mod(result.Y, c.params.P)
}

// fill writes v as a fixed-width big-endian value.  A coordinate that does not
// fit the field width means the arithmetic has gone wrong and FillBytes
// panics.
func fill(buf []byte, v *big.Int) []byte {
	return v.FillBytes(buf)
}

// condAssign sets dst to src when cond is 1 and leaves it unchanged when cond
// is 0, without branching on cond.
func (c *Curve) condAssign(dst, src *JacobianPoint, cond int) {
	size := c.params.Size
	a := make([]byte, size)
	b := make([]byte, size)
	for _, pair := range [3][2]*big.Int{{dst.X, src.X}, {dst.Y, src.Y}, {dst.Z, src.Z}} {
		fill(a, pair[0])
		fill(b, pair[1])
		subtle.ConstantTimeCopy(cond, a, b)
		pair[0].SetBytes(a)
	}
}

// condSwap exchanges a and b when cond is 1 without branching on cond.
func (c *Curve) condSwap(a, b *JacobianPoint, cond int) {
	trace(traceSwap)
	size := c.params.Size
	mask := byte(-cond)
	ba := make([]byte, size)
	bb := make([]byte, size)
	for _, pair := range [3][2]*big.Int{{a.X, b.X}, {a.Y, b.Y}, {a.Z, b.Z}} {
		fill(ba, pair[0])
		fill(bb, pair[1])
		for i := range ba {
			t := mask & (ba[i] ^ bb[i])
			ba[i] ^= t
			bb[i] ^= t
		}
		pair[0].SetBytes(ba)
		pair[1].SetBytes(bb)
	}
}
