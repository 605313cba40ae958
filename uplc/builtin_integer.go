// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"math/big"
)

// integerArgs unlifts the two integer arguments of fn.
func integerArgs(fn BuiltinID, args []Value) (*big.Int, *big.Int, error) {
	x, err := argInteger(fn, args, 0)
	if err != nil {
		return nil, nil, err
	}
	y, err := argInteger(fn, args, 1)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func evalAddInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := integerArgs(AddInteger, args)
	if err != nil {
		return nil, err
	}
	return intValue(new(big.Int).Add(x, y)), nil
}

func evalSubtractInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := integerArgs(SubtractInteger, args)
	if err != nil {
		return nil, err
	}
	return intValue(new(big.Int).Sub(x, y)), nil
}

func evalMultiplyInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := integerArgs(MultiplyInteger, args)
	if err != nil {
		return nil, err
	}
	return intValue(new(big.Int).Mul(x, y)), nil
}

// divisionArgs unlifts the operands of a division builtin and rejects a zero
// divisor.
func divisionArgs(fn BuiltinID, args []Value) (*big.Int, *big.Int, error) {
	x, y, err := integerArgs(fn, args)
	if err != nil {
		return nil, nil, err
	}
	if y.Sign() == 0 {
		return nil, nil, builtinFailure(fn, "division by zero")
	}
	return x, y, nil
}

// floorDivMod returns the quotient rounded towards negative infinity and the
// matching modulus, which has the sign of the divisor.
func floorDivMod(x, y *big.Int) (*big.Int, *big.Int) {
	q, r := new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (y.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
		r.Add(r, y)
	}
	return q, r
}

func evalDivideInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := divisionArgs(DivideInteger, args)
	if err != nil {
		return nil, err
	}
	q, _ := floorDivMod(x, y)
	return intValue(q), nil
}

func evalModInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := divisionArgs(ModInteger, args)
	if err != nil {
		return nil, err
	}
	_, r := floorDivMod(x, y)
	return intValue(r), nil
}

func evalQuotientInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := divisionArgs(QuotientInteger, args)
	if err != nil {
		return nil, err
	}
	return intValue(new(big.Int).Quo(x, y)), nil
}

func evalRemainderInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := divisionArgs(RemainderInteger, args)
	if err != nil {
		return nil, err
	}
	return intValue(new(big.Int).Rem(x, y)), nil
}

func evalEqualsInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := integerArgs(EqualsInteger, args)
	if err != nil {
		return nil, err
	}
	return boolValue(x.Cmp(y) == 0), nil
}

func evalLessThanInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := integerArgs(LessThanInteger, args)
	if err != nil {
		return nil, err
	}
	return boolValue(x.Cmp(y) < 0), nil
}

func evalLessThanEqualsInteger(_ *Machine, args []Value) (Value, error) {
	x, y, err := integerArgs(LessThanEqualsInteger, args)
	if err != nil {
		return nil, err
	}
	return boolValue(x.Cmp(y) <= 0), nil
}
