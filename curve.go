// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// CustomCurveID is the id reported by curves that are not part of the
// builtin registry.
const CustomCurveID = -1

// CurveParams contains the domain parameters of a short Weierstrass curve
// y² = x³ + ax + b over the prime field GF(P).
type CurveParams struct {
	Name    string   // canonical name of the curve
	P       *big.Int // field prime
	A       *big.Int // linear coefficient of the curve equation
	B       *big.Int // constant of the curve equation
	N       *big.Int // order of the base point
	Gx, Gy  *big.Int // base point
	BitSize int      // bit length of the field prime
	Size    int      // encoded field size in octets
}

// copyParams returns a deep copy so callers can never mutate registry
// entries through the returned values.
func (p *CurveParams) copyParams() CurveParams {
	return CurveParams{
		Name:    p.Name,
		P:       new(big.Int).Set(p.P),
		A:       new(big.Int).Set(p.A),
		B:       new(big.Int).Set(p.B),
		N:       new(big.Int).Set(p.N),
		Gx:      new(big.Int).Set(p.Gx),
		Gy:      new(big.Int).Set(p.Gy),
		BitSize: p.BitSize,
		Size:    p.Size,
	}
}

// Curve is a resolved curve domain.  It is either a named entry of the
// builtin registry or an owned set of validated user supplied parameters.
// A Curve is immutable and safe for concurrent use.
type Curve struct {
	params    CurveParams
	id        int
	aIsMinus3 bool
	aIsZero   bool
}

// Params returns a copy of the domain parameters.
func (c *Curve) Params() CurveParams {
	return c.params.copyParams()
}

// Name returns the canonical name of the curve.
func (c *Curve) Name() string {
	return c.params.Name
}

// ID returns the registry index of the curve, or CustomCurveID.
func (c *Curve) ID() int {
	return c.id
}

// IsNamed reports whether the curve is a builtin registry entry.
func (c *Curve) IsNamed() bool {
	return c.id != CustomCurveID
}

// Size returns the encoded field size in octets.
func (c *Curve) Size() int {
	return c.params.Size
}

// BitSize returns the bit length of the field prime.
func (c *Curve) BitSize() int {
	return c.params.BitSize
}

// SigSize returns the maximum size of a DER signature over the curve.
func (c *Curve) SigSize() int {
	return maxDERSigSize(c.params.N)
}

// N returns a copy of the group order.
func (c *Curve) N() *big.Int {
	return new(big.Int).Set(c.params.N)
}

// String returns the curve name.
func (c *Curve) String() string {
	return c.params.Name
}

// Equal reports whether both curves describe the same domain.  The name and
// registry id are not compared, only the parameters that define the group.
func (c *Curve) Equal(other *Curve) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	a, b := &c.params, &other.params
	return a.P.Cmp(b.P) == 0 && a.N.Cmp(b.N) == 0 &&
		a.Gx.Cmp(b.Gx) == 0 && a.Gy.Cmp(b.Gy) == 0 &&
		a.A.Cmp(b.A) == 0 && a.B.Cmp(b.B) == 0
}

func newCurve(params CurveParams, id int) *Curve {
	params.BitSize = params.P.BitLen()
	params.Size = (params.BitSize + 7) / 8
	minus3 := new(big.Int).Sub(params.P, big.NewInt(3))
	return &Curve{
		params:    params,
		id:        id,
		aIsMinus3: params.A.Cmp(minus3) == 0,
		aIsZero:   params.A.Sign() == 0,
	}
}

// NewCurveParams validates user supplied domain parameters and returns the
// resulting custom curve.  The parameters are copied, so the caller keeps
// ownership of the passed values.
func NewCurveParams(name string, p, a, b, n, gx, gy *big.Int) (*Curve, error) {
	for _, v := range []*big.Int{p, a, b, n, gx, gy} {
		if v == nil {
			return nil, makeError(ErrInvalidCurve, "missing curve parameter")
		}
	}
	if p.Sign() <= 0 || p.Bit(0) == 0 || !p.ProbablyPrime(20) {
		return nil, makeError(ErrInvalidCurve, "field prime is not an odd prime")
	}
	if n.Cmp(big.NewInt(2)) <= 0 || !n.ProbablyPrime(20) {
		return nil, makeError(ErrInvalidCurve, "group order is not prime")
	}
	for _, v := range []*big.Int{a, b, gx, gy} {
		if v.Sign() < 0 || v.Cmp(p) >= 0 {
			return nil, makeError(ErrInvalidCurve, "curve parameter is not a field element")
		}
	}

	// 4a³ + 27b² must not vanish or the curve is singular.
	disc := new(big.Int).Exp(a, big.NewInt(3), p)
	disc.Mul(disc, big.NewInt(4))
	b2 := new(big.Int).Mul(b, b)
	b2.Mul(b2, big.NewInt(27))
	disc.Add(disc, b2)
	disc.Mod(disc, p)
	if disc.Sign() == 0 {
		return nil, makeError(ErrInvalidCurve, "curve is singular")
	}

	if name == "" {
		name = "custom"
	}
	c := newCurve(CurveParams{
		Name: name,
		P:    new(big.Int).Set(p),
		A:    new(big.Int).Set(a),
		B:    new(big.Int).Set(b),
		N:    new(big.Int).Set(n),
		Gx:   new(big.Int).Set(gx),
		Gy:   new(big.Int).Set(gy),
	}, CustomCurveID)

	// Private scalars and signature components are encoded with the field
	// width.
	if n.BitLen() > 8*c.params.Size {
		return nil, makeError(ErrInvalidCurve, "group order is wider than the field encoding")
	}
	if !c.IsOnCurve(gx, gy) {
		return nil, makeError(ErrInvalidCurve, "base point is not on the curve")
	}
	var g, check JacobianPoint
	g.setAffine(gx, gy)
	c.scalarMultVartime(n, &g, &check)
	if !check.IsInfinity() {
		return nil, makeError(ErrInvalidCurve, "base point order does not match N")
	}
	log.Debug("custom curve accepted")
	return c, nil
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex in curve table: " + s)
	}
	return v
}

// fromStdlib converts NIST parameters from crypto/elliptic, which always use
// a = -3.
func fromStdlib(name string, std *elliptic.CurveParams) CurveParams {
	return CurveParams{
		Name: name,
		P:    new(big.Int).Set(std.P),
		A:    new(big.Int).Sub(std.P, big.NewInt(3)),
		B:    new(big.Int).Set(std.B),
		N:    new(big.Int).Set(std.N),
		Gx:   new(big.Int).Set(std.Gx),
		Gy:   new(big.Int).Set(std.Gy),
	}
}

var (
	curves      []*Curve
	curveByName = map[string]*Curve{}

	// P192 is NIST P-192 (secp192r1).
	P192 *Curve

	// P224 is NIST P-224 (secp224r1).
	P224 *Curve

	// P256 is NIST P-256 (secp256r1, prime256v1).
	P256 *Curve

	// P384 is NIST P-384 (secp384r1).
	P384 *Curve

	// P521 is NIST P-521 (secp521r1).
	P521 *Curve

	// Secp256k1 is the SEC2 Koblitz curve secp256k1.  Its encodings have the
	// same length as P-256 ones, so ParsePubKeyX963 resolves them to P-256.
	// Parse secp256k1 keys with ParsePubKey(Secp256k1, ...).
	Secp256k1 *Curve
)

var curveAliases = map[string]string{
	"secp192r1":  "P-192",
	"prime192v1": "P-192",
	"secp224r1":  "P-224",
	"secp256r1":  "P-256",
	"prime256v1": "P-256",
	"secp384r1":  "P-384",
	"secp521r1":  "P-521",
}

func register(params CurveParams) *Curve {
	c := newCurve(params, len(curves))
	curves = append(curves, c)
	curveByName[strings.ToLower(params.Name)] = c
	return c
}

func init() {
	P192 = register(CurveParams{
		Name: "P-192",
		P:    mustHex("fffffffffffffffffffffffffffffffeffffffffffffffff"),
		A:    mustHex("fffffffffffffffffffffffffffffffefffffffffffffffc"),
		B:    mustHex("64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1"),
		N:    mustHex("ffffffffffffffffffffffff99def836146bc9b1b4d22831"),
		Gx:   mustHex("188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012"),
		Gy:   mustHex("07192b95ffc8da78631011ed6b24cdd573f977a11e794811"),
	})
	P224 = register(fromStdlib("P-224", elliptic.P224().Params()))
	P256 = register(fromStdlib("P-256", elliptic.P256().Params()))
	P384 = register(fromStdlib("P-384", elliptic.P384().Params()))
	P521 = register(fromStdlib("P-521", elliptic.P521().Params()))

	k1 := secp256k1.S256().Params()
	Secp256k1 = register(CurveParams{
		Name: "secp256k1",
		P:    new(big.Int).Set(k1.P),
		A:    new(big.Int),
		B:    new(big.Int).Set(k1.B),
		N:    new(big.Int).Set(k1.N),
		Gx:   new(big.Int).Set(k1.Gx),
		Gy:   new(big.Int).Set(k1.Gy),
	})
}

// Curves returns the builtin registry in id order.
func Curves() []*Curve {
	out := make([]*Curve, len(curves))
	copy(out, curves)
	return out
}

// CurveByName looks up a builtin curve by its canonical name or a common
// alias.  The match is case insensitive.
func CurveByName(name string) (*Curve, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := curveAliases[key]; ok {
		key = strings.ToLower(canonical)
	}
	if c, ok := curveByName[key]; ok {
		return c, nil
	}
	return nil, makeError(ErrInvalidCurve, fmt.Sprintf("unknown curve %q", name))
}

// CurveByID looks up a builtin curve by its registry index.
func CurveByID(id int) (*Curve, error) {
	if id < 0 || id >= len(curves) {
		return nil, makeError(ErrInvalidCurve, fmt.Sprintf("unknown curve id %d", id))
	}
	return curves[id], nil
}

// CurveBySize returns the first registry curve whose encoded field size is at
// least size octets.
func CurveBySize(size int) (*Curve, error) {
	if size <= 0 {
		return nil, makeError(ErrInvalidCurve, fmt.Sprintf("invalid key size %d", size))
	}
	for _, c := range curves {
		if c.params.Size >= size {
			return c, nil
		}
	}
	return nil, makeError(ErrInvalidCurve, fmt.Sprintf("no curve for key size %d", size))
}

// curveByEncodedSize returns the first registry curve whose encoded field size
// is exactly size octets.
func curveByEncodedSize(size int) (*Curve, error) {
	for _, c := range curves {
		if c.params.Size == size {
			return c, nil
		}
	}
	return nil, makeError(ErrInvalidCurve, fmt.Sprintf("no curve with field size %d", size))
}
