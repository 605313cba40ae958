// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const (
	// g1ElementMem, g2ElementMem and mlResultMem are the memory sizes, in
	// 64-bit words, charged for BLS12-381 values.
	g1ElementMem = 18
	g2ElementMem = 36
	mlResultMem  = 72

	// maxHashToGroupDSTLen is the longest domain separation tag accepted
	// by the hash to group builtins.
	maxHashToGroupDSTLen = 255
)

// blsScalarOrder is the order of the BLS12-381 G1 and G2 subgroups.
// Scalars are reduced modulo it before multiplication.
var blsScalarOrder = fr.Modulus()

func argG1(fn BuiltinID, args []Value, idx int) (*bls12381.G1Affine, error) {
	c, err := argConst(fn, args, idx, "bls12_381_G1_element")
	if err != nil {
		return nil, err
	}
	g, ok := c.(G1Element)
	if !ok {
		return nil, typeMismatch(fn, idx, "bls12_381_G1_element", args[idx])
	}
	return &g.Point, nil
}

func argG2(fn BuiltinID, args []Value, idx int) (*bls12381.G2Affine, error) {
	c, err := argConst(fn, args, idx, "bls12_381_G2_element")
	if err != nil {
		return nil, err
	}
	g, ok := c.(G2Element)
	if !ok {
		return nil, typeMismatch(fn, idx, "bls12_381_G2_element", args[idx])
	}
	return &g.Point, nil
}

func argMlResult(fn BuiltinID, args []Value, idx int) (*bls12381.GT, error) {
	c, err := argConst(fn, args, idx, "bls12_381_mlresult")
	if err != nil {
		return nil, err
	}
	r, ok := c.(MlResult)
	if !ok {
		return nil, typeMismatch(fn, idx, "bls12_381_mlresult", args[idx])
	}
	return &r.Value, nil
}

func g1Value(p *bls12381.G1Affine) Value {
	return constValue(G1Element{Point: *p})
}

func g2Value(p *bls12381.G2Affine) Value {
	return constValue(G2Element{Point: *p})
}

// reduceScalar returns k modulo the subgroup order as a non-negative
// integer.
func reduceScalar(k *big.Int) *big.Int {
	return new(big.Int).Mod(k, blsScalarOrder)
}

// hashToGroupArgs unlifts the message and domain separation tag of the hash
// to group builtins.
func hashToGroupArgs(fn BuiltinID, args []Value) ([]byte, []byte, error) {
	msg, err := argBytes(fn, args, 0)
	if err != nil {
		return nil, nil, err
	}
	dst, err := argBytes(fn, args, 1)
	if err != nil {
		return nil, nil, err
	}
	if len(dst) > maxHashToGroupDSTLen {
		return nil, nil, builtinFailure(fn, "domain separation tag has "+
			"length %d, want at most %d", len(dst), maxHashToGroupDSTLen)
	}
	return msg, dst, nil
}

func evalBls12_381_G1_Add(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G1_Add
	a, err := argG1(fn, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argG1(fn, args, 1)
	if err != nil {
		return nil, err
	}

	var sum, other bls12381.G1Jac
	sum.FromAffine(a)
	other.FromAffine(b)
	sum.AddAssign(&other)

	var res bls12381.G1Affine
	res.FromJacobian(&sum)
	return g1Value(&res), nil
}

func evalBls12_381_G1_Neg(_ *Machine, args []Value) (Value, error) {
	a, err := argG1(Bls12_381_G1_Neg, args, 0)
	if err != nil {
		return nil, err
	}
	var res bls12381.G1Affine
	res.Neg(a)
	return g1Value(&res), nil
}

func evalBls12_381_G1_ScalarMul(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G1_ScalarMul
	k, err := argInteger(fn, args, 0)
	if err != nil {
		return nil, err
	}
	a, err := argG1(fn, args, 1)
	if err != nil {
		return nil, err
	}

	var p bls12381.G1Jac
	p.FromAffine(a)
	p.ScalarMultiplication(&p, reduceScalar(k))

	var res bls12381.G1Affine
	res.FromJacobian(&p)
	return g1Value(&res), nil
}

func evalBls12_381_G1_Equal(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G1_Equal
	a, err := argG1(fn, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argG1(fn, args, 1)
	if err != nil {
		return nil, err
	}
	return boolValue(a.Equal(b)), nil
}

func evalBls12_381_G1_Compress(_ *Machine, args []Value) (Value, error) {
	a, err := argG1(Bls12_381_G1_Compress, args, 0)
	if err != nil {
		return nil, err
	}
	b := a.Bytes()
	return bytesValue(b[:]), nil
}

// evalBls12_381_G1_Uncompress decodes a compressed point.  Encodings of
// points off the curve or outside the subgroup are failures.
func evalBls12_381_G1_Uncompress(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G1_Uncompress
	b, err := argBytes(fn, args, 0)
	if err != nil {
		return nil, err
	}
	if len(b) != bls12381.SizeOfG1AffineCompressed {
		return nil, builtinFailure(fn, "encoding has length %d, want %d",
			len(b), bls12381.SizeOfG1AffineCompressed)
	}

	var res bls12381.G1Affine
	if _, err := res.SetBytes(b); err != nil {
		return nil, builtinFailure(fn, "invalid point: %v", err)
	}
	return g1Value(&res), nil
}

func evalBls12_381_G1_HashToGroup(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G1_HashToGroup
	msg, dst, err := hashToGroupArgs(fn, args)
	if err != nil {
		return nil, err
	}
	res, err := bls12381.HashToG1(msg, dst)
	if err != nil {
		return nil, builtinFailure(fn, "%v", err)
	}
	return g1Value(&res), nil
}

func evalBls12_381_G2_Add(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G2_Add
	a, err := argG2(fn, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argG2(fn, args, 1)
	if err != nil {
		return nil, err
	}

	var sum, other bls12381.G2Jac
	sum.FromAffine(a)
	other.FromAffine(b)
	sum.AddAssign(&other)

	var res bls12381.G2Affine
	res.FromJacobian(&sum)
	return g2Value(&res), nil
}

func evalBls12_381_G2_Neg(_ *Machine, args []Value) (Value, error) {
	a, err := argG2(Bls12_381_G2_Neg, args, 0)
	if err != nil {
		return nil, err
	}
	var res bls12381.G2Affine
	res.Neg(a)
	return g2Value(&res), nil
}

func evalBls12_381_G2_ScalarMul(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G2_ScalarMul
	k, err := argInteger(fn, args, 0)
	if err != nil {
		return nil, err
	}
	a, err := argG2(fn, args, 1)
	if err != nil {
		return nil, err
	}

	var p bls12381.G2Jac
	p.FromAffine(a)
	p.ScalarMultiplication(&p, reduceScalar(k))

	var res bls12381.G2Affine
	res.FromJacobian(&p)
	return g2Value(&res), nil
}

func evalBls12_381_G2_Equal(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G2_Equal
	a, err := argG2(fn, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argG2(fn, args, 1)
	if err != nil {
		return nil, err
	}
	return boolValue(a.Equal(b)), nil
}

func evalBls12_381_G2_Compress(_ *Machine, args []Value) (Value, error) {
	a, err := argG2(Bls12_381_G2_Compress, args, 0)
	if err != nil {
		return nil, err
	}
	b := a.Bytes()
	return bytesValue(b[:]), nil
}

func evalBls12_381_G2_Uncompress(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G2_Uncompress
	b, err := argBytes(fn, args, 0)
	if err != nil {
		return nil, err
	}
	if len(b) != bls12381.SizeOfG2AffineCompressed {
		return nil, builtinFailure(fn, "encoding has length %d, want %d",
			len(b), bls12381.SizeOfG2AffineCompressed)
	}

	var res bls12381.G2Affine
	if _, err := res.SetBytes(b); err != nil {
		return nil, builtinFailure(fn, "invalid point: %v", err)
	}
	return g2Value(&res), nil
}

func evalBls12_381_G2_HashToGroup(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_G2_HashToGroup
	msg, dst, err := hashToGroupArgs(fn, args)
	if err != nil {
		return nil, err
	}
	res, err := bls12381.HashToG2(msg, dst)
	if err != nil {
		return nil, builtinFailure(fn, "%v", err)
	}
	return g2Value(&res), nil
}

func evalBls12_381_MillerLoop(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_MillerLoop
	p, err := argG1(fn, args, 0)
	if err != nil {
		return nil, err
	}
	q, err := argG2(fn, args, 1)
	if err != nil {
		return nil, err
	}

	res, err := bls12381.MillerLoop([]bls12381.G1Affine{*p},
		[]bls12381.G2Affine{*q})
	if err != nil {
		return nil, builtinFailure(fn, "%v", err)
	}
	return constValue(MlResult{Value: res}), nil
}

func evalBls12_381_MulMlResult(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_MulMlResult
	a, err := argMlResult(fn, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argMlResult(fn, args, 1)
	if err != nil {
		return nil, err
	}

	var res bls12381.GT
	res.Mul(a, b)
	return constValue(MlResult{Value: res}), nil
}

// evalBls12_381_FinalVerify reports whether two Miller loop results are
// equal after the final exponentiation.
func evalBls12_381_FinalVerify(_ *Machine, args []Value) (Value, error) {
	fn := Bls12_381_FinalVerify
	a, err := argMlResult(fn, args, 0)
	if err != nil {
		return nil, err
	}
	b, err := argMlResult(fn, args, 1)
	if err != nil {
		return nil, err
	}

	left := bls12381.FinalExponentiation(a)
	right := bls12381.FinalExponentiation(b)
	return boolValue(left.Equal(&right)), nil
}
