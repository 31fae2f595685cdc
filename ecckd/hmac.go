package ecckd

import (
	"crypto/hmac"
	"crypto/sha512"
	"errors"
	"math/big"

	"github.com/ModChain/ecc"
)

var (
	ErrShaKeyInvalid = errors.New("generated key zero or overflow, try next one")
)

// hmacCKD returns key and chainCode for a given seed and salt.
//
// See: https://github.com/bitcoin/bips/blob/master/bip-0032.mediawiki
func hmacCKD(seed, salt []byte) (key, chainCode []byte) {
	data := hmac.New(sha512.New, salt)
	data.Write(seed)
	I := data.Sum(nil)

	key = I[:32]       // IL
	chainCode = I[32:] // IR
	return
}

// validIL reports whether parse256(IL) is a usable scalar for the curve.
func validIL(curve *ecc.Curve, key []byte) bool {
	keyI := new(big.Int).SetBytes(key)
	return keyI.Sign() != 0 && keyI.Cmp(curve.Params().N) < 0
}

// retries reports whether invalid intermediate values are skipped by
// rehashing (SLIP-10) instead of failing (BIP32).
func retries(curve *ecc.Curve) bool {
	return !curve.Equal(ecc.Secp256k1)
}
