// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plutusdata

import (
	"golang.org/x/crypto/blake2b"
)

// HashSize is the size of a datum hash.
const HashSize = blake2b.Size256

// Hash returns the datum hash of d, the blake2b-256 digest of its canonical
// encoding.
func Hash(d PlutusData) [HashSize]byte {
	return blake2b.Sum256(Encode(d))
}
