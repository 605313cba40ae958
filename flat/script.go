// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flat

import (
	"fmt"

	"github.com/btcsuite/uplcd/uplc"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// cborMajorBytes is the CBOR major type of byte strings.
const cborMajorBytes = 2

// isCBORBytes reports whether b starts with a CBOR byte string head.
func isCBORBytes(b []byte) bool {
	return len(b) > 0 && b[0]>>5 == cborMajorBytes
}

// UnwrapScript strips the CBOR byte string envelope from script bytes and
// returns the flat encoded program inside.  Scripts wrapped twice are
// unwrapped twice.  A flat program never starts with a CBOR byte string
// head since its first byte is the major version, so the second layer can
// be detected unambiguously.
func UnwrapScript(b []byte) ([]byte, error) {
	if !isCBORBytes(b) {
		return nil, flatError(ErrEnvelope, "script is not wrapped in a "+
			"CBOR byte string")
	}
	var inner []byte
	if err := cbor.Unmarshal(b, &inner); err != nil {
		return nil, Error{
			Err:         ErrEnvelope,
			Description: fmt.Sprintf("script envelope: %v", err),
		}
	}

	if isCBORBytes(inner) {
		var flat []byte
		if err := cbor.Unmarshal(inner, &flat); err == nil {
			return flat, nil
		}
	}
	return inner, nil
}

// WrapScript wraps flat encoded program bytes in a single CBOR byte string.
func WrapScript(flatBytes []byte) ([]byte, error) {
	b, err := cbor.Marshal(flatBytes)
	if err != nil {
		return nil, errors.Wrap(err, "wrapping script")
	}
	return b, nil
}

// DecodeScript unwraps and decodes script bytes as they appear in a
// transaction.
func DecodeScript(b []byte) (*uplc.Program, error) {
	inner, err := UnwrapScript(b)
	if err != nil {
		return nil, err
	}
	return DecodeProgram(inner)
}

// EncodeScript encodes p and wraps it in a single CBOR byte string.
func EncodeScript(p *uplc.Program) ([]byte, error) {
	b, err := EncodeProgram(p)
	if err != nil {
		return nil, err
	}
	return WrapScript(b)
}
