// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ecies implements a salted request/response encryption exchange on top
of the ecc package.

Both ends create a Context, one with RoleClient and one with RoleServer, and
swap the salts returned by OwnSalt through the surrounding protocol.  Once the
peer salt is set, the client encrypts a request that the server decrypts, and
the server encrypts a response that the client decrypts:

	cli, _ := ecies.NewContext(ecies.RoleClient, rand.Reader)
	srv, _ := ecies.NewContext(ecies.RoleServer, rand.Reader)
	_ = cli.SetPeerSalt(srv.OwnSalt())
	_ = srv.SetPeerSalt(cli.OwnSalt())

	req, _ := ecies.Encrypt(cliKey, srvKey.PubKey(), msg, cli)
	msg, _ = ecies.Decrypt(srvKey, cliKey.PubKey(), req, srv)

Every message is keyed from the ECDH shared secret of the two keys.  HKDF
expands the secret, salted with half of both exchange salts and bound to the
info bytes, into a cipher key, an IV and a MAC key.  The payload is encrypted
with AES-CBC and PKCS#7 padding and followed by an HMAC over the ciphertext
and the other half of the salts.

Passing a nil Context performs a single stateless exchange with the default
algorithms and neither salt nor info.
*/
package ecies
