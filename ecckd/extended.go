package ecckd

import (
	"crypto/ecdsa"
	"crypto/subtle"
	"encoding/binary"
	"math/big"

	"github.com/ModChain/ecc"
	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// HardenedBit marks hardened child indexes.
const HardenedBit = 0x80000000

const serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33

// Master secrets of the supported curves.
var (
	BitcoinSeed   = []byte("Bitcoin seed")
	Nist256p1Seed = []byte("Nist256p1 seed")
)

type ExtendedKey struct {
	Version     KeyVersion
	Depth       uint8
	Fingerprint [4]byte
	ChildNumber uint32 // ser32(i) for i in xi = xpar/i, with xi the key being serialized. (0x00000000 if master key)
	KeyData     []byte // 33 bytes compressed public key, or the 32 byte private scalar
	ChainCode   []byte // 32 bytes, the chain code

	curve *ecc.Curve
}

// checkCurve accepts curves whose keys fit the 33 byte serialization.
func checkCurve(curve *ecc.Curve) error {
	if curve == nil || curve.Size() != 32 {
		return ErrUnsupportedCurve
	}
	return nil
}

// FromBitcoinSeed returns a master node for a bitcoin wallet
func FromBitcoinSeed(seed []byte) (*ExtendedKey, error) {
	return FromSeed(seed, BitcoinSeed)
}

// FromNist256p1Seed returns a SLIP-10 master node on P-256.
func FromNist256p1Seed(seed []byte) (*ExtendedKey, error) {
	return FromSeedCurve(ecc.P256, seed, Nist256p1Seed)
}

// FromSeed returns a secp256k1 master node keyed with masterSecret.
func FromSeed(seed, masterSecret []byte) (*ExtendedKey, error) {
	return FromSeedCurve(ecc.Secp256k1, seed, masterSecret)
}

// FromSeedCurve returns a master node on curve.  On secp256k1 an unusable
// master key is an error as in BIP32, other curves rehash as in SLIP-10.
func FromSeedCurve(curve *ecc.Curve, seed, masterSecret []byte) (*ExtendedKey, error) {
	if err := checkCurve(curve); err != nil {
		return nil, err
	}
	if len(seed) < 16 || len(seed) > 64 {
		return nil, ErrInvalidSeed
	}

	key, chainCode := hmacCKD(seed, masterSecret)
	for !validIL(curve, key) {
		if !retries(curve) {
			return nil, ErrShaKeyInvalid
		}
		key, chainCode = hmacCKD(append(key, chainCode...), masterSecret)
	}

	res := &ExtendedKey{
		Version:     BitcoinMainnetPrivate,
		Depth:       0,
		Fingerprint: [4]byte{0, 0, 0, 0},
		ChildNumber: 0,
		KeyData:     key,
		ChainCode:   chainCode,
		curve:       curve,
	}
	return res, nil
}

// FromPublicKey returns a public master node for an existing key and chain
// code.
func FromPublicKey(pub *ecc.PublicKey, chainCode []byte) (*ExtendedKey, error) {
	if err := checkCurve(pub.Curve()); err != nil {
		return nil, err
	}
	if len(chainCode) != 32 {
		return nil, ErrInvalidChainCode
	}
	return &ExtendedKey{
		Version:   BitcoinMainnetPublic,
		KeyData:   pub.SerializeCompressed(),
		ChainCode: append([]byte(nil), chainCode...),
		curve:     pub.Curve(),
	}, nil
}

// FromPrivateKey returns a private master node for an existing key and chain
// code.
func FromPrivateKey(priv *ecc.PrivateKey, chainCode []byte) (*ExtendedKey, error) {
	if err := checkCurve(priv.Curve()); err != nil {
		return nil, err
	}
	if len(chainCode) != 32 {
		return nil, ErrInvalidChainCode
	}
	return &ExtendedKey{
		Version:   BitcoinMainnetPrivate,
		KeyData:   priv.ExportPrivateOnly(),
		ChainCode: append([]byte(nil), chainCode...),
		curve:     priv.Curve(),
	}, nil
}

// FromString parses a base58 secp256k1 extended key.
func FromString(str string) (*ExtendedKey, error) {
	return FromStringCurve(ecc.Secp256k1, str)
}

// FromStringCurve parses a base58 extended key whose key data belongs to
// curve.  The serialization does not record the curve.
func FromStringCurve(curve *ecc.Curve, str string) (*ExtendedKey, error) {
	bin := base58.Decode(str)
	if len(bin) == 0 {
		return nil, ErrInvalidKeyLen
	}

	e := &ExtendedKey{curve: curve}
	if err := e.UnmarshalBinary(bin); err != nil {
		return nil, err
	}
	return e, nil
}

// Curve returns the curve of the key, secp256k1 unless set otherwise.
func (k *ExtendedKey) Curve() *ecc.Curve {
	if k.curve == nil {
		return ecc.Secp256k1
	}
	return k.curve
}

func (k *ExtendedKey) IsPrivate() bool {
	return k.Version.IsPrivate()
}

// Child derives extended key at a given index i.
// If parent is private, then derived key is also private. If parent is public, then derived is public.
//
// If i >= HardenedBit, then hardened key is generated.
// You can only generate hardened keys from private parent keys.
// If you try generating hardened key form public parent key, ErrDerivingHardenedFromPublic is returned.
//
// There are four CKD (child key derivation) scenarios:
// 1) Private extended key -> Hardened child private extended key
// 2) Private extended key -> Non-hardened child private extended key
// 3) Public extended key -> Non-hardened child public extended key
// 4) Public extended key -> Hardened child public extended key (INVALID!)
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	child, _, err := k.childWithIL(i)
	return child, err
}

// childWithIL derives the child at index i and also returns parse256(IL),
// the scalar added to the parent key.
func (k *ExtendedKey) childWithIL(i uint32) (*ExtendedKey, *big.Int, error) {
	if k.Depth == 0xff {
		return nil, nil, ErrMaxDepthExceeded
	}
	curve := k.Curve()

	// A hardened child may not be created from a public extended key (Case #4).
	isChildHardened := i&HardenedBit == HardenedBit
	if !k.IsPrivate() && isChildHardened {
		return nil, nil, ErrDerivingHardenedFromPublic
	}

	parentPub, err := k.pubKeyBytes()
	if err != nil {
		return nil, nil, err
	}

	keyLen := 33
	seed := make([]byte, keyLen+4)
	if isChildHardened {
		// Case #1: 0x00 || ser256(parentKey) || ser32(i)
		copy(seed[1:], k.KeyData)
	} else {
		// Case #2 and #3: serP(parentPubKey) || ser32(i)
		copy(seed, parentPub)
	}
	binary.BigEndian.PutUint32(seed[keyLen:], i)

	child := &ExtendedKey{
		Depth:       k.Depth + 1,
		ChildNumber: i,
		curve:       k.curve,
	}
	// The fingerprint for the derived child is the first 4 bytes of the
	// parent's hash160.
	copy(child.Fingerprint[:], rmd160sha256(parentPub))

	for {
		il, chainCode := hmacCKD(seed, k.ChainCode)
		ilNum := new(big.Int).SetBytes(il)

		var keyData []byte
		ok := validIL(curve, il)
		if ok && k.IsPrivate() {
			keyData, ok = privateChild(curve, k.KeyData, ilNum)
		} else if ok {
			keyData, ok = publicChild(curve, k.KeyData, ilNum)
		}
		if ok {
			child.KeyData = keyData
			child.ChainCode = chainCode
			child.Version = k.Version
			return child, ilNum, nil
		}
		if !retries(curve) {
			return nil, nil, ErrShaKeyInvalid
		}
		// SLIP-10: 0x01 || IR || ser32(i)
		seed = append(append([]byte{0x01}, chainCode...), seed[keyLen:]...)
	}
}

// privateChild computes parse256(IL) + parentKey.
func privateChild(curve *ecc.Curve, parent []byte, il *big.Int) ([]byte, bool) {
	n := curve.Params().N
	keyNum := new(big.Int).SetBytes(parent)
	keyNum.Add(keyNum, il)
	keyNum.Mod(keyNum, n)
	if keyNum.Sign() == 0 {
		return nil, false
	}
	// The key data is always 32 bytes so the hardened derivation of
	// grandchildren hashes the same seed.
	return keyNum.FillBytes(make([]byte, 32)), true
}

// publicChild computes serP(point(parse256(IL)) + parentKey).
func publicChild(curve *ecc.Curve, parent []byte, il *big.Int) ([]byte, bool) {
	parentKey, err := ecc.ParsePubKey(curve, parent)
	if err != nil {
		return nil, false
	}
	var tweak, point, sum ecc.JacobianPoint
	curve.ScalarBaseMult(il, &tweak)
	parentKey.AsJacobian(&point)
	curve.AddJacobian(&tweak, &point, &sum)
	if sum.IsInfinity() {
		return nil, false
	}
	sum.ToAffine(curve)
	childKey, err := ecc.NewPublicKey(curve, sum.X, sum.Y)
	if err != nil {
		return nil, false
	}
	return childKey.SerializeCompressed(), true
}

// Derive returns a derived child key at a given path
func (k *ExtendedKey) Derive(path []uint32) (*ExtendedKey, error) {
	_, extKey, err := k.DeriveWithIL(path)
	return extKey, err
}

// DeriveWithIL derives the key at path and returns the sum of the IL values
// of all steps modulo the group order.  The derived key equals the parent key
// plus that scalar, times the base point for public keys.
func (k *ExtendedKey) DeriveWithIL(path []uint32) (*big.Int, *ExtendedKey, error) {
	n := k.Curve().Params().N
	total := new(big.Int)
	extKey := k
	for _, i := range path {
		child, il, err := extKey.childWithIL(i)
		if err != nil {
			return nil, nil, ErrDerivingChild
		}
		total.Add(total, il)
		total.Mod(total, n)
		extKey = child
	}

	return total, extKey, nil
}

// Public returns a new extended public key from a give extended private key.
// If the input extended key is already public, it will be returned unaltered.
func (k *ExtendedKey) Public() (*ExtendedKey, error) {
	// Already an extended public key.
	if !k.IsPrivate() {
		return k, nil
	}

	// Convert it to an extended public key.  The key for the new extended
	// key will simply be the pubkey of the current extended private key.
	pub, err := k.pubKeyBytes()
	if err != nil {
		return nil, err
	}
	return &ExtendedKey{
		Version:     k.Version.ToPublic(),
		KeyData:     pub,
		ChainCode:   k.ChainCode,
		Fingerprint: k.Fingerprint,
		Depth:       k.Depth,
		ChildNumber: k.ChildNumber,
		curve:       k.curve,
	}, nil
}

// MarshalBinary encodes the key in standard format that can be base58 encoded for humans
func (k *ExtendedKey) MarshalBinary() ([]byte, error) {
	var childNumBytes [4]byte
	binary.BigEndian.PutUint32(childNumBytes[:], k.ChildNumber)

	// The serialized format is:
	//   version (4) || depth (1) || parent fingerprint (4)) ||
	//   child num (4) || chain code (32) || key data (33) || checksum (4)
	serializedBytes := make([]byte, 0, serializedKeyLen+4)
	serializedBytes = append(serializedBytes, k.Version[:]...)
	serializedBytes = append(serializedBytes, k.Depth)
	serializedBytes = append(serializedBytes, k.Fingerprint[:]...)
	serializedBytes = append(serializedBytes, childNumBytes[:]...)
	serializedBytes = append(serializedBytes, k.ChainCode...)
	if k.IsPrivate() {
		serializedBytes = append(serializedBytes, 0x00)
		serializedBytes = paddedAppend(32, serializedBytes, k.KeyData)
	} else {
		serializedBytes = append(serializedBytes, k.KeyData...)
	}
	if len(serializedBytes) != serializedKeyLen {
		return nil, ErrInvalidKeyLen
	}

	checkSum := doubleSha256(serializedBytes)[:4]
	serializedBytes = append(serializedBytes, checkSum...)
	return serializedBytes, nil
}

func (k *ExtendedKey) String() string {
	bin, err := k.MarshalBinary()
	if err != nil {
		return ""
	}
	return base58.Encode(bin)
}

// pubKeyBytes returns the serialized compressed public key of the extended
// key.  For a private key it is computed from the scalar.
func (k *ExtendedKey) pubKeyBytes() ([]byte, error) {
	// Just return the key if it's already an extended public key.
	if !k.IsPrivate() {
		return k.KeyData, nil
	}

	priv, err := k.PrivKey()
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	return priv.SerializeCompressed(), nil
}

// PubKey returns the public key of the extended key.
func (k *ExtendedKey) PubKey() (*ecc.PublicKey, error) {
	pub, err := k.pubKeyBytes()
	if err != nil {
		return nil, err
	}
	return ecc.ParsePubKey(k.Curve(), pub)
}

// PrivKey returns the private key of an extended private key.
func (k *ExtendedKey) PrivKey() (*ecc.PrivateKey, error) {
	if !k.IsPrivate() {
		return nil, ErrInvalidKey
	}
	return ecc.PrivKeyFromBytes(k.Curve(), k.KeyData)
}

// ToECDSA returns the key data as ecdsa.PrivateKey
func (k *ExtendedKey) ToECDSA() (*ecdsa.PrivateKey, error) {
	if !k.IsPrivate() {
		return nil, ErrInvalidKey
	}
	if k.Curve().Equal(ecc.Secp256k1) {
		return secp256k1.PrivKeyFromBytes(k.KeyData).ToECDSA(), nil
	}
	priv, err := k.PrivKey()
	if err != nil {
		return nil, err
	}
	return priv.ToECDSA()
}

func (k *ExtendedKey) UnmarshalBinary(data []byte) error {
	if len(data) != serializedKeyLen+4 {
		return ErrInvalidKeyLen
	}

	// The serialized format is:
	//   version (4) || depth (1) || parent fingerprint (4)) ||
	//   child num (4) || chain code (32) || key data (33) || checksum (4)

	// Split the payload and checksum up and ensure the checksum matches.
	payload := data[:len(data)-4]
	checkSum := data[len(data)-4:]
	expectedCheckSum := doubleSha256(payload)[:4]
	if subtle.ConstantTimeCompare(checkSum, expectedCheckSum) != 1 {
		return ErrBadChecksum
	}

	// Deserialize each of the payload fields.
	var version KeyVersion
	copy(version[:], payload[:4])
	if !version.IsKnown() {
		return ErrInvalidKey
	}
	depth := payload[4]
	var fingerprint [4]byte
	copy(fingerprint[:], payload[5:9])
	childNumber := binary.BigEndian.Uint32(payload[9:13])
	chainCode := append([]byte(nil), payload[13:45]...)
	keyData := append([]byte(nil), payload[45:78]...)

	// The key data is a private key if it starts with 0x00.  Serialized
	// compressed pubkeys either start with 0x02 or 0x03.
	isPrivate := keyData[0] == 0x00
	if isPrivate != version.IsPrivate() {
		return ErrInvalidPrivateFlag
	}

	curve := k.Curve()
	if isPrivate {
		// Ensure the private key is valid.  It must be within the range
		// of the order of the curve and not be 0.
		keyData = keyData[1:]
		if !validIL(curve, keyData) {
			return ErrInvalidSeed
		}
	} else {
		// Ensure the public key parses correctly and is actually on the
		// curve.
		if _, err := ecc.ParsePubKey(curve, keyData); err != nil {
			return err
		}
	}

	k.Version = version
	k.KeyData = keyData
	k.ChainCode = chainCode
	k.Fingerprint = fingerprint
	k.Depth = depth
	k.ChildNumber = childNumber
	k.curve = curve
	return nil
}
