// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package plutusdata implements the PlutusData structured value used for datums,
redeemers and script contexts, along with its canonical CBOR encoding.

A PlutusData is one of five shapes: a constructor application (Constr), an
association list (Map), a list (List), an arbitrary precision integer
(Integer) or a byte string (ByteString).  Maps preserve the order and the
multiplicity of their pairs since both are significant to scripts.

Encoding follows the ledger rules: constructor tags 0-6 use CBOR tags
121-127, tags 7-127 use 1280-1400 and anything else uses tag 102 with an
explicit index.  Non-empty lists are emitted with indefinite length and
byte strings longer than 64 bytes are chunked.

Errors

Decoding errors are of type plutusdata.Error and can be tested against the
ErrorKind values with errors.Is.
*/
package plutusdata
