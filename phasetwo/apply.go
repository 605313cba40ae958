// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"context"
	"fmt"

	"github.com/btcsuite/uplcd/flat"
	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
	"github.com/pkg/errors"
)

// ApplyParamsToScript specializes a parameterized script given in its
// transaction form, a CBOR wrapped flat program.  params is the CBOR
// encoding of a PlutusData list whose first element binds the outermost
// parameter.  The result is the specialized program wrapped the same way,
// keeping the program version of the input.
func ApplyParamsToScript(ctx context.Context, params,
	script []byte) ([]byte, error) {

	decoded, err := plutusdata.Decode(params)
	if err != nil {
		str := fmt.Sprintf("decoding parameters: %v", err)
		return nil, validationError(ErrDecoding, str)
	}
	list, ok := decoded.(plutusdata.List)
	if !ok {
		str := fmt.Sprintf("parameters must be a data list, got %v",
			decoded)
		return nil, validationError(ErrDecoding, str)
	}

	program, err := flat.DecodeScript(script)
	if err != nil {
		str := fmt.Sprintf("decoding script: %v", err)
		return nil, validationError(ErrDecoding, str)
	}

	term, err := uplc.ApplyParamsData(ctx, program.Term, list.Items, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "applying %d parameters",
			len(list.Items))
	}

	out, err := flat.EncodeScript(&uplc.Program{
		Version: program.Version,
		Term:    term,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding specialized script")
	}

	log.Debugf("Applied %d parameters to a %d byte script, %d bytes "+
		"after", len(list.Items), len(script), len(out))
	return out, nil
}
