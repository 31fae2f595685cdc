// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/ModChain/ecc"
	"github.com/ModChain/ecc/internal/zeroize"
	"go.uber.org/zap"
)

// Role is the side a Context plays in an exchange.
type Role int

// The two ends of an exchange must use different roles.
const (
	RoleClient Role = 1
	RoleServer Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// state tracks the progress of one request/response exchange.
type state uint8

const (
	stateInit    state = iota // own salt drawn, peer salt missing
	stateReady                // peer salt set
	stateRequest              // request sent (client) or received (server)
	stateDone                 // response handled, Reset required
)

type operation uint8

const (
	opEncrypt operation = iota
	opDecrypt
)

func (op operation) String() string {
	if op == opEncrypt {
		return "encrypt"
	}
	return "decrypt"
}

// Option configures a Context.
type Option func(*Context)

// WithKDF selects the key derivation function.
func WithKDF(k KDF) Option {
	return func(c *Context) {
		c.kdf = k
	}
}

// WithMAC selects the message authentication code.
func WithMAC(m MAC) Option {
	return func(c *Context) {
		c.mac = m
	}
}

// WithCipher selects the symmetric cipher.
func WithCipher(ci Cipher) Option {
	return func(c *Context) {
		c.cipher = ci
	}
}

// WithFixedPointCache makes the key agreement use the window tables cached
// for the peer public keys.
func WithFixedPointCache(cache *ecc.FixedPointCache) Option {
	return func(c *Context) {
		c.cache = cache
	}
}

// Context carries the negotiated parameters of one exchange.  It is not safe
// for concurrent use.
type Context struct {
	role   Role
	kdf    KDF
	mac    MAC
	cipher Cipher
	suite  suite
	cache  *ecc.FixedPointCache

	ownSalt  [SaltSize]byte
	peerSalt [SaltSize]byte
	kdfSalt  [SaltSize]byte
	macSalt  [SaltSize]byte
	info     []byte
	state    state
}

// NewContext returns a context for the role with a fresh salt drawn from
// rand.  A nil rand uses crypto/rand.
func NewContext(role Role, rand io.Reader, opts ...Option) (*Context, error) {
	if role != RoleClient && role != RoleServer {
		return nil, makeError(ErrInvalidRolePairing, fmt.Sprintf("invalid role %d", int(role)))
	}
	c := &Context{
		role:   role,
		kdf:    KDFHKDFSHA256,
		mac:    MACHMACSHA256,
		cipher: CipherAES128CBC,
	}
	for _, opt := range opts {
		opt(c)
	}
	s, err := newSuite(c.kdf, c.mac, c.cipher)
	if err != nil {
		return nil, err
	}
	c.suite = s
	if err := c.Reset(rand); err != nil {
		return nil, err
	}
	log.Debug("encryption context created", zap.Stringer("role", role),
		zap.Stringer("kdf", c.kdf), zap.Stringer("mac", c.mac),
		zap.Stringer("cipher", c.cipher))
	return c, nil
}

// Role returns the role of the context.
func (c *Context) Role() Role {
	return c.role
}

// KDF returns the selected key derivation function.
func (c *Context) KDF() KDF {
	return c.kdf
}

// MAC returns the selected message authentication code.
func (c *Context) MAC() MAC {
	return c.mac
}

// Cipher returns the selected symmetric cipher.
func (c *Context) Cipher() Cipher {
	return c.cipher
}

// OwnSalt returns a copy of the local salt to be sent to the peer.
func (c *Context) OwnSalt() []byte {
	out := make([]byte, SaltSize)
	copy(out, c.ownSalt[:])
	return out
}

// SetPeerSalt records the salt received from the peer.  It fails with
// ErrInvalidRolePairing when the peer echoed our own salt.
func (c *Context) SetPeerSalt(salt []byte) error {
	if c.state > stateReady {
		return makeError(ErrNotReady, "peer salt cannot change during an exchange")
	}
	if len(salt) != SaltSize {
		str := fmt.Sprintf("peer salt must be %d bytes, got %d", SaltSize, len(salt))
		return makeError(ErrMalformedEncoding, str)
	}
	if subtle.ConstantTimeCompare(salt, c.ownSalt[:]) == 1 {
		return makeError(ErrInvalidRolePairing, "peer salt equals own salt")
	}
	copy(c.peerSalt[:], salt)

	client, server := c.ownSalt[:], c.peerSalt[:]
	if c.role == RoleServer {
		client, server = server, client
	}
	const half = SaltSize / 2
	copy(c.kdfSalt[:half], client[:half])
	copy(c.kdfSalt[half:], server[:half])
	copy(c.macSalt[:half], client[half:])
	copy(c.macSalt[half:], server[half:])
	c.state = stateReady
	return nil
}

// SetInfo replaces the info bytes bound into the key derivation.  Both ends
// must use the same info.
func (c *Context) SetInfo(info []byte) error {
	if c.state > stateReady {
		return makeError(ErrNotReady, "info cannot change during an exchange")
	}
	c.info = append(c.info[:0], info...)
	return nil
}

// Reset draws a new salt and clears the peer salt and info so the context
// can serve another exchange.  The algorithm selection is kept.  When no
// salt can be drawn the context is left freed.
func (c *Context) Reset(rand io.Reader) error {
	if rand == nil {
		rand = defaultRand
	}
	var salt [SaltSize]byte
	defer zeroize.Bytes(salt[:])
	if _, err := io.ReadFull(rand, salt[:]); err != nil {
		c.Free()
		str := fmt.Sprintf("cannot draw salt: %v", err)
		return ecc.Error{Err: ErrRandomSource, Description: str}
	}
	c.wipe()
	c.ownSalt = salt
	c.info = append(c.info[:0], DefaultInfo...)
	c.state = stateInit
	return nil
}

// Free zeroes the salts.  The context fails with ErrNotReady until Reset.
func (c *Context) Free() {
	c.wipe()
	c.info = nil
	c.state = stateDone
}

func (c *Context) wipe() {
	zeroize.Bytes(c.ownSalt[:])
	zeroize.Bytes(c.peerSalt[:])
	zeroize.Bytes(c.kdfSalt[:])
	zeroize.Bytes(c.macSalt[:])
	zeroize.Bytes(c.info)
}

var defaultRand io.Reader = rand.Reader

// firstOp returns the operation that opens an exchange for the role.
func (c *Context) firstOp() operation {
	if c.role == RoleClient {
		return opEncrypt
	}
	return opDecrypt
}

// begin checks op is allowed in the current state.  A nil context performs
// stateless exchanges.
func (c *Context) begin(op operation) error {
	if c == nil {
		return nil
	}
	switch c.state {
	case stateInit:
		return makeError(ErrNotReady, "peer salt not set")
	case stateReady:
		if op != c.firstOp() {
			str := fmt.Sprintf("%s cannot %s before the request", c.role, op)
			return makeError(ErrInvalidRolePairing, str)
		}
	case stateRequest:
		if op == c.firstOp() {
			str := fmt.Sprintf("%s already handled the request", c.role)
			return makeError(ErrNotReady, str)
		}
	default:
		return makeError(ErrNotReady, "exchange completed, reset the context")
	}
	return nil
}

// advance moves the exchange forward after a successful operation.
func (c *Context) advance() {
	if c == nil {
		return
	}
	c.state++
}

func (c *Context) params() (suite, []byte, []byte, []byte, *ecc.FixedPointCache) {
	if c == nil {
		s, _ := newSuite(KDFHKDFSHA256, MACHMACSHA256, CipherAES128CBC)
		return s, nil, nil, nil, nil
	}
	return c.suite, c.kdfSalt[:], c.macSalt[:], c.info, c.cache
}
