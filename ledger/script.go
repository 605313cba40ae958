// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/btcsuite/uplcd/uplc"
)

// Script is a Plutus script as it appears in a witness set or a reference
// script: the CBOR byte string holding the flat encoded program.
type Script struct {
	Language uplc.Language
	Bytes    []byte
}

// Hash returns the script hash, the blake2b-224 digest of the language
// prefix byte followed by the script bytes.
func (s Script) Hash() ScriptHash {
	buf := make([]byte, 0, len(s.Bytes)+1)
	buf = append(buf, byte(s.Language))
	buf = append(buf, s.Bytes...)
	return Blake2b224(buf)
}
