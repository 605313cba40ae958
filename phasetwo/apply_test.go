// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"context"
	"testing"

	"github.com/btcsuite/uplcd/flat"
	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
	"github.com/stretchr/testify/require"
)

// TestApplyParamsToScript ensures parameters bind the outermost lambdas of
// a serialized script in order.
func TestApplyParamsToScript(t *testing.T) {
	t.Parallel()

	// \a b x -> ifThenElse (equalsData a b) x error
	cond := app(builtin(uplc.EqualsData), vr(2), vr(1))
	term := lam(lam(lam(force(app(force(builtin(uplc.IfThenElse)), cond,
		delay(vr(0)), delay(fail()))))))
	script := newScript(t, uplc.LanguageV2, term)

	tests := []struct {
		name   string
		params []plutusdata.PlutusData
		arg    uplc.Term
		ok     bool
	}{{
		name: "equal parameters",
		params: []plutusdata.PlutusData{
			plutusdata.NewInteger(1),
			plutusdata.NewInteger(1),
		},
		arg: conInt(5),
		ok:  true,
	}, {
		name: "different parameters",
		params: []plutusdata.PlutusData{
			plutusdata.NewInteger(1),
			plutusdata.NewInteger(2),
		},
		arg: conInt(5),
	}}

	for _, test := range tests {
		params := plutusdata.Encode(plutusdata.NewList(test.params...))
		out, err := ApplyParamsToScript(context.Background(), params,
			script.Bytes)
		require.NoError(t, err, test.name)

		program, err := flat.DecodeScript(out)
		require.NoError(t, err, test.name)
		require.Equal(t, uplc.Version100, program.Version, test.name)
		_, isLambda := program.Term.(*uplc.Lambda)
		require.True(t, isLambda, test.name)

		res := uplc.Eval(context.Background(),
			app(program.Term, test.arg), DefaultBudget,
			uplc.DefaultCostModel(), 0)
		if !test.ok {
			require.ErrorIs(t, res.Err, uplc.ErrScriptError, test.name)
			continue
		}
		require.NoError(t, res.Err, test.name)
		c, ok := res.Value.(*uplc.ConstValue)
		require.True(t, ok, test.name)
		require.True(t, uplc.ConstEqual(uplc.NewInteger(5), c.Const),
			test.name)
	}
}

// TestApplyParamsToScriptErrors ensures malformed parameters and scripts
// are rejected.
func TestApplyParamsToScriptErrors(t *testing.T) {
	t.Parallel()

	script := newScript(t, uplc.LanguageV2, lam(lam(vr(1))))
	list := plutusdata.Encode(plutusdata.NewList(plutusdata.NewInteger(1)))

	tests := []struct {
		name   string
		params []byte
		script []byte
	}{{
		name:   "malformed parameters",
		params: []byte{0x9f},
		script: script.Bytes,
	}, {
		name:   "parameters not a list",
		params: plutusdata.Encode(plutusdata.NewInteger(1)),
		script: script.Bytes,
	}, {
		name:   "bare flat script",
		params: list,
		script: []byte{0x01, 0x00, 0x00, 0x20, 0x01, 0x01},
	}}

	for _, test := range tests {
		_, err := ApplyParamsToScript(context.Background(), test.params,
			test.script)
		require.ErrorIs(t, err, ErrDecoding, test.name)
	}
}
