// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ecc implements elliptic curve cryptography over short Weierstrass
curves in pure Go.

The package is parameterized by curve.  A registry of named curves is built in
(P-192, P-224, P-256, P-384, P-521 and secp256k1) and callers may supply their
own validated domain parameters through NewCurveParams.  See
https://www.secg.org/sec1-v2.pdf and https://www.secg.org/sec2-v2.pdf for
details on the standards.

An overview of the features provided by this package are as follows:

  - Curve registry lookups by name, alias, id and key size
  - Elliptic curve operations in Jacobian projective coordinates
  - Point addition and doubling for arbitrary curve coefficients
  - Scalar multiplication with a Montgomery ladder whose sequence of group
    operations does not depend on the scalar
  - An optional fixed point cache of window tables for public keys that are
    multiplied repeatedly
  - Private key generation by rejection sampling, serialization, and parsing
  - Public key serialization and parsing per ANSI X9.63 in compressed and
    uncompressed form, including point decompression
  - Elliptic curve Diffie-Hellman shared secrets
  - ECDSA signing with random or RFC 6979 deterministic nonces, verification,
    and DER signature encoding

The ecies sub package provides a salted, role based encryption context built
from these primitives, and the ecckd sub package provides hierarchical key
derivation.

Errors returned by this package are of type Error and wrap an ErrorKind, so
they may be inspected with errors.Is and errors.As.

Keys and curves are immutable once created and may be shared between
goroutines for read only operations such as verification.  Zeroing a private
key is the only mutation.
*/
package ecc
