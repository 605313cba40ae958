// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"bytes"
	"math/big"
)

// bytesArgs unlifts the two byte string arguments of fn.
func bytesArgs(fn BuiltinID, args []Value) ([]byte, []byte, error) {
	x, err := argBytes(fn, args, 0)
	if err != nil {
		return nil, nil, err
	}
	y, err := argBytes(fn, args, 1)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func evalAppendByteString(_ *Machine, args []Value) (Value, error) {
	x, y, err := bytesArgs(AppendByteString, args)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(x)+len(y))
	out = append(out, x...)
	return bytesValue(append(out, y...)), nil
}

// evalConsByteString prepends a byte.  Before PlutusV3 the integer is taken
// modulo 256, afterwards it must already be a byte.
func evalConsByteString(m *Machine, args []Value) (Value, error) {
	n, err := argInteger(ConsByteString, args, 0)
	if err != nil {
		return nil, err
	}
	bs, err := argBytes(ConsByteString, args, 1)
	if err != nil {
		return nil, err
	}

	var b byte
	if m.costs.Language < LanguageV3 {
		b = byte(new(big.Int).Mod(n, big.NewInt(256)).Uint64())
	} else {
		if n.Sign() < 0 || n.Cmp(big.NewInt(255)) > 0 {
			return nil, builtinFailure(ConsByteString,
				"%v is not a byte", n)
		}
		b = byte(n.Uint64())
	}

	out := make([]byte, 0, len(bs)+1)
	out = append(out, b)
	return bytesValue(append(out, bs...)), nil
}

// evalSliceByteString takes a start offset, a length and a byte string and
// returns the clamped substring.
func evalSliceByteString(_ *Machine, args []Value) (Value, error) {
	start, err := argInteger(SliceByteString, args, 0)
	if err != nil {
		return nil, err
	}
	length, err := argInteger(SliceByteString, args, 1)
	if err != nil {
		return nil, err
	}
	bs, err := argBytes(SliceByteString, args, 2)
	if err != nil {
		return nil, err
	}

	n := big.NewInt(int64(len(bs)))
	lo := clampInt(start, n)
	hi := clampInt(new(big.Int).Add(start, length), n)
	if hi <= lo {
		return bytesValue([]byte{}), nil
	}
	out := make([]byte, hi-lo)
	copy(out, bs[lo:hi])
	return bytesValue(out), nil
}

// clampInt clamps v to [0, limit].
func clampInt(v, limit *big.Int) int {
	switch {
	case v.Sign() <= 0:
		return 0
	case v.Cmp(limit) >= 0:
		return int(limit.Int64())
	}
	return int(v.Int64())
}

func evalLengthOfByteString(_ *Machine, args []Value) (Value, error) {
	bs, err := argBytes(LengthOfByteString, args, 0)
	if err != nil {
		return nil, err
	}
	return intValue(big.NewInt(int64(len(bs)))), nil
}

func evalIndexByteString(_ *Machine, args []Value) (Value, error) {
	bs, err := argBytes(IndexByteString, args, 0)
	if err != nil {
		return nil, err
	}
	idx, err := argInteger(IndexByteString, args, 1)
	if err != nil {
		return nil, err
	}
	if idx.Sign() < 0 || idx.Cmp(big.NewInt(int64(len(bs)))) >= 0 {
		return nil, builtinFailure(IndexByteString,
			"index %v out of range for length %d", idx, len(bs))
	}
	return intValue(big.NewInt(int64(bs[idx.Int64()]))), nil
}

func evalEqualsByteString(_ *Machine, args []Value) (Value, error) {
	x, y, err := bytesArgs(EqualsByteString, args)
	if err != nil {
		return nil, err
	}
	return boolValue(bytes.Equal(x, y)), nil
}

func evalLessThanByteString(_ *Machine, args []Value) (Value, error) {
	x, y, err := bytesArgs(LessThanByteString, args)
	if err != nil {
		return nil, err
	}
	return boolValue(bytes.Compare(x, y) < 0), nil
}

func evalLessThanEqualsByteString(_ *Machine, args []Value) (Value, error) {
	x, y, err := bytesArgs(LessThanEqualsByteString, args)
	if err != nil {
		return nil, err
	}
	return boolValue(bytes.Compare(x, y) <= 0), nil
}
