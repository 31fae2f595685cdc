// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidCurve is returned when a curve name or id does not match any
	// registry entry, or when user supplied curve parameters are malformed.
	ErrInvalidCurve = ErrorKind("ErrInvalidCurve")

	// ErrPointNotOnCurve is returned when a point does not satisfy the curve
	// equation or is the point at infinity where a finite point is required.
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")

	// ErrScalarOutOfRange is returned when a private scalar is not in the
	// range [1, N-1].
	ErrScalarOutOfRange = ErrorKind("ErrScalarOutOfRange")

	// ErrCurveMismatch is returned when two operands belong to different
	// curve domains.
	ErrCurveMismatch = ErrorKind("ErrCurveMismatch")

	// ErrBufferTooSmall is returned when a caller provided output buffer
	// cannot hold the result.  Nothing is written in that case.
	ErrBufferTooSmall = ErrorKind("ErrBufferTooSmall")

	// ErrRandomSource is returned when the random source fails to provide
	// the requested bytes.
	ErrRandomSource = ErrorKind("ErrRandomSource")

	// ErrAuthentication is returned when an encrypted payload fails its
	// integrity check.  Padding and length faults are reported with the same
	// kind.
	ErrAuthentication = ErrorKind("ErrAuthentication")

	// ErrMalformedEncoding is returned when point, scalar or signature bytes
	// cannot be parsed.
	ErrMalformedEncoding = ErrorKind("ErrMalformedEncoding")

	// ErrInvalidRolePairing is returned when both ends of an encrypted
	// exchange use the same role.
	ErrInvalidRolePairing = ErrorKind("ErrInvalidRolePairing")

	// ErrNotReady is returned when an encryption context is used before the
	// peer salt is known, or after its exchange has completed.
	ErrNotReady = ErrorKind("ErrNotReady")

	// ErrNoPrivateKey is returned when an operation needs the private scalar
	// of a key that only holds the public point.
	ErrNoPrivateKey = ErrorKind("ErrNoPrivateKey")

	// ErrInvalidSignature is returned when signature components are outside
	// of [1, N-1].
	ErrInvalidSignature = ErrorKind("ErrInvalidSignature")

	// ErrUnsupportedAlgorithm is returned when a KDF, MAC, cipher or digest
	// identifier is not known.
	ErrUnsupportedAlgorithm = ErrorKind("ErrUnsupportedAlgorithm")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to elliptic curve operations.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
