// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flat

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/btcsuite/uplcd/uplc"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in test source: " + s)
	}
	return b
}

func lam(body uplc.Term) uplc.Term { return &uplc.Lambda{Body: body} }
func vr(i int) uplc.Term           { return &uplc.Var{Index: i} }

func conInt(v int64) uplc.Term {
	return uplc.NewConstant(uplc.NewInteger(v))
}

// TestEncodeKnownPrograms ensures programs serialize to their known byte
// sequences and decode back.
func TestEncodeKnownPrograms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		program *uplc.Program
		hex     string
	}{{
		name:    "integer constant",
		program: &uplc.Program{Version: uplc.Version100, Term: conInt(11)},
		hex:     "010000480581",
	}, {
		name:    "identity",
		program: &uplc.Program{Version: uplc.Version100, Term: lam(vr(0))},
		hex:     "010000200101",
	}, {
		name: "builtin",
		program: &uplc.Program{
			Version: uplc.Version100,
			Term:    &uplc.Builtin{Fn: uplc.AddInteger},
		},
		hex: "0100007001",
	}, {
		name: "error",
		program: &uplc.Program{
			Version: uplc.Version110,
			Term:    &uplc.ErrorTerm{},
		},
		hex: "01010061",
	}}

	for _, test := range tests {
		got, err := EncodeProgram(test.program)
		require.NoError(t, err, test.name)
		require.Equal(t, test.hex, hex.EncodeToString(got), test.name)

		p, err := DecodeProgram(got)
		require.NoError(t, err, test.name)
		require.Equal(t, uplc.PrettyProgram(test.program),
			uplc.PrettyProgram(p), test.name)
	}
}

// TestRoundTrip ensures every term and constant shape survives encoding.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	huge, ok := new(big.Int).SetString("-123456789012345678901234567890", 10)
	require.True(t, ok)

	data := plutusdata.NewConstr(2,
		plutusdata.NewMap(plutusdata.Pair{
			Key:   plutusdata.NewByteString([]byte{0xab}),
			Value: plutusdata.NewList(plutusdata.NewInteger(-1)),
		}),
	)

	constants := []uplc.Const{
		uplc.NewInteger(0),
		uplc.NewInteger(-1),
		uplc.NewInteger(300),
		uplc.NewBigInteger(huge),
		uplc.NewByteString(nil),
		uplc.NewByteString(bytes.Repeat([]byte{7}, 600)),
		uplc.String{Text: "héllo"},
		uplc.Unit{},
		uplc.Bool{Value: true},
		uplc.NewList(uplc.IntegerType),
		uplc.NewList(uplc.ListOf(uplc.BoolType),
			uplc.NewList(uplc.BoolType, uplc.Bool{Value: true}),
			uplc.NewList(uplc.BoolType)),
		uplc.Pair{First: uplc.NewInteger(1), Second: uplc.NewData(data)},
		uplc.NewData(data),
	}

	var fields []uplc.Term
	for _, c := range constants {
		fields = append(fields, uplc.NewConstant(c))
	}

	term := &uplc.Apply{
		Function: lam(&uplc.Case{
			Scrutinee: vr(0),
			Branches: []uplc.Term{
				lam(&uplc.Force{Body: &uplc.Delay{Body: vr(1)}}),
				&uplc.ErrorTerm{},
			},
		}),
		Argument: &uplc.Constr{Tag: 1 << 40, Fields: fields},
	}
	program := &uplc.Program{Version: uplc.Version110, Term: term}

	encoded, err := EncodeProgram(program)
	require.NoError(t, err)
	decoded, err := DecodeProgram(encoded)
	require.NoError(t, err, spew.Sdump(encoded))
	require.Equal(t, uplc.PrettyProgram(program), uplc.PrettyProgram(decoded))

	reencoded, err := EncodeProgram(decoded)
	require.NoError(t, err)
	require.Equal(t, encoded, reencoded)
}

// TestBitWriter ensures the primitive encodings match the format.
func TestBitWriter(t *testing.T) {
	t.Parallel()

	var w bitWriter
	w.natural(128)
	require.Equal(t, []byte{0x80, 0x01}, w.bytes())

	w = bitWriter{}
	w.filler()
	require.Equal(t, []byte{0x01}, w.bytes())

	w = bitWriter{}
	w.bit(true)
	w.filler()
	require.Equal(t, []byte{0x81}, w.bytes())

	w = bitWriter{}
	w.byteString(bytes.Repeat([]byte{0xee}, 256))
	got := w.bytes()
	require.Len(t, got, 1+1+255+1+1+1)
	require.Equal(t, byte(0x01), got[0])
	require.Equal(t, byte(255), got[1])
	require.Equal(t, byte(1), got[257])
	require.Equal(t, byte(0), got[259])

	for _, v := range []int64{0, 1, -1, 63, -64, 1 << 40, -(1 << 40)} {
		var w bitWriter
		w.integer(big.NewInt(v))
		w.filler()
		r := bitReader{buf: w.bytes()}
		got, err := r.integer()
		require.NoError(t, err)
		require.Equal(t, v, got.Int64())
	}
}

// TestDecodeErrors ensures malformed input is rejected with the right kind.
func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	constrV100, err := EncodeProgram(&uplc.Program{
		Version: uplc.Version100,
		Term:    &uplc.Constr{Tag: 0},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
		kind  ErrorKind
	}{
		{"empty", nil, ErrMalformed},
		{"truncated", hexToBytes("0100002001"), ErrMalformed},
		{"trailing bytes", hexToBytes("01000020010100"), ErrTrailingBytes},
		{"major version", hexToBytes("020000200101"), ErrUnsupportedVersion},
		{"unknown builtin", hexToBytes("0100007c81"), ErrUnknownBuiltin},
		{"zero variable index", hexToBytes("01000000000001"), ErrMalformed},
		{"unknown term tag", hexToBytes("010000f1"), ErrMalformed},
		{"constr before 1.1.0", constrV100, ErrUnsupportedVersion},
		{"bad type tags", hexToBytes("010000" + "4ba0" + "0081"), ErrMalformed},
	}

	for _, test := range tests {
		_, err := DecodeProgram(test.input)
		require.ErrorIs(t, err, test.kind, test.name)
	}
}

// TestEncodeErrors ensures terms without a flat form are rejected.
func TestEncodeErrors(t *testing.T) {
	t.Parallel()

	_, err := EncodeProgram(&uplc.Program{
		Version: uplc.Version100,
		Term:    &uplc.Builtin{Fn: uplc.BuiltinID(60)},
	})
	require.ErrorIs(t, err, ErrUnencodable)

	_, err = EncodeProgram(&uplc.Program{Version: uplc.Version100, Term: vr(-1)})
	require.ErrorIs(t, err, ErrUnencodable)
}
