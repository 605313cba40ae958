// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"unicode/utf8"
)

func evalAppendString(_ *Machine, args []Value) (Value, error) {
	x, err := argString(AppendString, args, 0)
	if err != nil {
		return nil, err
	}
	y, err := argString(AppendString, args, 1)
	if err != nil {
		return nil, err
	}
	return constValue(String{Text: x + y}), nil
}

func evalEqualsString(_ *Machine, args []Value) (Value, error) {
	x, err := argString(EqualsString, args, 0)
	if err != nil {
		return nil, err
	}
	y, err := argString(EqualsString, args, 1)
	if err != nil {
		return nil, err
	}
	return boolValue(x == y), nil
}

func evalEncodeUtf8(_ *Machine, args []Value) (Value, error) {
	s, err := argString(EncodeUtf8, args, 0)
	if err != nil {
		return nil, err
	}
	return bytesValue([]byte(s)), nil
}

func evalDecodeUtf8(_ *Machine, args []Value) (Value, error) {
	b, err := argBytes(DecodeUtf8, args, 0)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(b) {
		return nil, builtinFailure(DecodeUtf8, "invalid UTF-8")
	}
	return constValue(String{Text: string(b)}), nil
}

func evalIfThenElse(_ *Machine, args []Value) (Value, error) {
	cond, err := argBool(IfThenElse, args, 0)
	if err != nil {
		return nil, err
	}
	if cond {
		return args[1], nil
	}
	return args[2], nil
}

func evalChooseUnit(_ *Machine, args []Value) (Value, error) {
	if err := argUnit(ChooseUnit, args, 0); err != nil {
		return nil, err
	}
	return args[1], nil
}

// evalTrace records its message and returns its second argument.
func evalTrace(m *Machine, args []Value) (Value, error) {
	msg, err := argString(Trace, args, 0)
	if err != nil {
		return nil, err
	}
	m.trace(msg)
	return args[1], nil
}
