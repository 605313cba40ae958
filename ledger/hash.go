// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// Hash28Size is the size of key, script and policy hashes.
	Hash28Size = 28

	// Hash32Size is the size of transaction ids and datum hashes.
	Hash32Size = blake2b.Size256
)

// Hash28 is a blake2b-224 digest.
type Hash28 [Hash28Size]byte

// Hash32 is a blake2b-256 digest.
type Hash32 [Hash32Size]byte

type (
	// KeyHash identifies a verification key.
	KeyHash = Hash28

	// ScriptHash identifies a script.
	ScriptHash = Hash28

	// PolicyID identifies a minting policy by the hash of its script.
	PolicyID = Hash28

	// TxID identifies a transaction.
	TxID = Hash32

	// DatumHash identifies a datum.
	DatumHash = Hash32
)

// String returns the hash as a hexadecimal string.
func (h Hash28) String() string {
	return hex.EncodeToString(h[:])
}

// String returns the hash as a hexadecimal string.
func (h Hash32) String() string {
	return hex.EncodeToString(h[:])
}

// NewHash28FromStr decodes a hexadecimal hash.
func NewHash28FromStr(s string) (Hash28, error) {
	var h Hash28
	err := decodeHash(h[:], s)
	return h, err
}

// NewHash32FromStr decodes a hexadecimal hash.
func NewHash32FromStr(s string) (Hash32, error) {
	var h Hash32
	err := decodeHash(h[:], s)
	return h, err
}

func decodeHash(dst []byte, s string) error {
	if len(s) != hex.EncodedLen(len(dst)) {
		return fmt.Errorf("hash string %q has length %d, want %d", s,
			len(s), hex.EncodedLen(len(dst)))
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}

// Blake2b224 returns the blake2b-224 digest of b.
func Blake2b224(b []byte) Hash28 {
	h, _ := blake2b.New(Hash28Size, nil)
	h.Write(b)
	var out Hash28
	copy(out[:], h.Sum(nil))
	return out
}

// Blake2b256 returns the blake2b-256 digest of b.
func Blake2b256(b []byte) Hash32 {
	return blake2b.Sum256(b)
}
