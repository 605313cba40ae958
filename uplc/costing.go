// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/btcsuite/uplcd/plutusdata"
)

// CostingShape identifies the formula of a CostingFunc.  Arguments sizes are
// named x, y and z in argument order.
type CostingShape uint8

// These constants define the costing function shapes.  The parameters each
// shape reads are listed in order.
const (
	// ShapeConstant: c.
	ShapeConstant CostingShape = iota

	// ShapeLinearInX: intercept, slope over x.
	ShapeLinearInX

	// ShapeLinearInY: intercept, slope over y.
	ShapeLinearInY

	// ShapeLinearInZ: intercept, slope over z.
	ShapeLinearInZ

	// ShapeAddedSizes: intercept, slope over x+y.
	ShapeAddedSizes

	// ShapeSubtractedSizes: intercept, slope over max(minimum, x-y),
	// minimum.
	ShapeSubtractedSizes

	// ShapeMultipliedSizes: intercept, slope over x*y.
	ShapeMultipliedSizes

	// ShapeMinSize: intercept, slope over min(x, y).
	ShapeMinSize

	// ShapeMaxSize: intercept, slope over max(x, y).
	ShapeMaxSize

	// ShapeLinearOnDiagonal: constant off the diagonal, intercept and
	// slope over x when x == y.
	ShapeLinearOnDiagonal

	// ShapeConstAboveDiagonal: constant when x < y, otherwise intercept and
	// slope over x*y.
	ShapeConstAboveDiagonal

	// ShapeConstBelowDiagonal: constant when x > y, otherwise intercept and
	// slope over x*y.
	ShapeConstBelowDiagonal

	// ShapeQuadraticInY: c0 + c1*y + c2*y*y.
	ShapeQuadraticInY

	// ShapeQuadraticInZ: c0 + c1*z + c2*z*z.
	ShapeQuadraticInZ

	// ShapeLiteralInYOrLinearInZ: y when y is non zero, otherwise
	// intercept and slope over z.
	ShapeLiteralInYOrLinearInZ

	// ShapeLinearInMaxYZ: intercept, slope over max(y, z).
	ShapeLinearInMaxYZ

	// ShapeLinearInYAndZ: intercept, slope over y, slope over z.
	ShapeLinearInYAndZ

	// ShapeConstAboveDiagonalQuadratic: constant when x < y, otherwise
	// max(minimum, c00 + c10*x + c01*y + c20*x*x + c11*x*y + c02*y*y).
	// Parameters are constant, c00, c10, c01, c20, c11, c02, minimum.
	ShapeConstAboveDiagonalQuadratic

	numCostingShapes
)

// shapeParams is the number of parameters read by each shape.
var shapeParams = [numCostingShapes]int{
	ShapeConstant:              1,
	ShapeLinearInX:             2,
	ShapeLinearInY:             2,
	ShapeLinearInZ:             2,
	ShapeAddedSizes:            2,
	ShapeSubtractedSizes:       3,
	ShapeMultipliedSizes:       2,
	ShapeMinSize:               2,
	ShapeMaxSize:               2,
	ShapeLinearOnDiagonal:      3,
	ShapeConstAboveDiagonal:    3,
	ShapeConstBelowDiagonal:    3,
	ShapeQuadraticInY:          3,
	ShapeQuadraticInZ:          3,
	ShapeLiteralInYOrLinearInZ: 2,
	ShapeLinearInMaxYZ:         2,
	ShapeLinearInYAndZ:         3,

	ShapeConstAboveDiagonalQuadratic: 8,
}

// maxShapeParams is the largest number of parameters read by a shape.
const maxShapeParams = 8

// CostingFunc computes a cost from argument sizes.
type CostingFunc struct {
	Shape  CostingShape
	Params [maxShapeParams]int64
}

// NumParams returns the number of parameters the function reads.
func (f CostingFunc) NumParams() int {
	return shapeParams[f.Shape]
}

func constantCost(c int64) CostingFunc {
	return CostingFunc{Shape: ShapeConstant, Params: [maxShapeParams]int64{c}}
}

func costing(shape CostingShape, params ...int64) CostingFunc {
	f := CostingFunc{Shape: shape}
	copy(f.Params[:], params)
	return f
}

// Cost evaluates the function for the given argument sizes.  Missing sizes
// are treated as zero and the arithmetic saturates instead of overflowing.
func (f CostingFunc) Cost(sizes ...int64) int64 {
	var x, y, z int64
	switch len(sizes) {
	default:
		z = sizes[2]
		fallthrough
	case 2:
		y = sizes[1]
		fallthrough
	case 1:
		x = sizes[0]
	case 0:
	}

	p := f.Params
	switch f.Shape {
	case ShapeConstant:
		return p[0]
	case ShapeLinearInX:
		return linear(p[0], p[1], x)
	case ShapeLinearInY:
		return linear(p[0], p[1], y)
	case ShapeLinearInZ:
		return linear(p[0], p[1], z)
	case ShapeAddedSizes:
		return linear(p[0], p[1], satAdd(x, y))
	case ShapeSubtractedSizes:
		return linear(p[0], p[1], max(p[2], x-y))
	case ShapeMultipliedSizes:
		return linear(p[0], p[1], satMul(x, y))
	case ShapeMinSize:
		return linear(p[0], p[1], min(x, y))
	case ShapeMaxSize:
		return linear(p[0], p[1], max(x, y))
	case ShapeLinearOnDiagonal:
		if x == y {
			return linear(p[1], p[2], x)
		}
		return p[0]
	case ShapeConstAboveDiagonal:
		if x < y {
			return p[0]
		}
		return linear(p[1], p[2], satMul(x, y))
	case ShapeConstBelowDiagonal:
		if x > y {
			return p[0]
		}
		return linear(p[1], p[2], satMul(x, y))
	case ShapeQuadraticInY:
		return satAdd(linear(p[0], p[1], y), satMul(p[2], satMul(y, y)))
	case ShapeQuadraticInZ:
		return satAdd(linear(p[0], p[1], z), satMul(p[2], satMul(z, z)))
	case ShapeLiteralInYOrLinearInZ:
		if y != 0 {
			return y
		}
		return linear(p[0], p[1], z)
	case ShapeLinearInMaxYZ:
		return linear(p[0], p[1], max(y, z))
	case ShapeLinearInYAndZ:
		return satAdd(linear(p[0], p[1], y), satMul(p[2], z))
	case ShapeConstAboveDiagonalQuadratic:
		if x < y {
			return p[0]
		}
		c := p[1]
		c = satAdd(c, satMul(p[2], x))
		c = satAdd(c, satMul(p[3], y))
		c = satAdd(c, satMul(p[4], satMul(x, x)))
		c = satAdd(c, satMul(p[5], satMul(x, y)))
		c = satAdd(c, satMul(p[6], satMul(y, y)))
		return max(p[7], c)
	}
	panic(fmt.Sprintf("uplc: unknown costing shape %d", f.Shape))
}

func linear(intercept, slope, size int64) int64 {
	return satAdd(intercept, satMul(slope, size))
}

func satAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) ||
		(b == -1 && a == math.MinInt64) {

		if (a < 0) != (b < 0) {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return c
}

// toUnits clamps a computed cost to the unsigned budget domain.
func toUnits(c int64) uint64 {
	if c < 0 {
		return 0
	}
	return uint64(c)
}

// sizeFunc measures one builtin argument.
type sizeFunc func(Value) int64

// exMem returns the memory usage of a value in the units used by costing
// functions.  Values that are not constants count as a single unit.
func exMem(v Value) int64 {
	c, ok := v.(*ConstValue)
	if !ok {
		return 1
	}
	return constMem(c.Const)
}

func constMem(c Const) int64 {
	switch c := c.(type) {
	case Integer:
		return integerMem(c.Value)
	case ByteString:
		return bytesMem(len(c.Bytes))
	case String:
		return int64(utf8.RuneCountInString(c.Text))
	case Unit, Bool:
		return 1
	case List:
		var total int64
		for _, item := range c.Items {
			total = satAdd(total, constMem(item))
		}
		return total
	case Pair:
		return satAdd(1, satAdd(constMem(c.First), constMem(c.Second)))
	case Data:
		return dataMem(c.Value)
	case G1Element:
		return g1ElementMem
	case G2Element:
		return g2ElementMem
	case MlResult:
		return mlResultMem
	}
	return 1
}

// integerMem is the number of 64-bit words needed for the magnitude, with
// zero counting as one word.
func integerMem(v *big.Int) int64 {
	if v.Sign() == 0 {
		return 1
	}
	return int64((v.BitLen()-1)/64 + 1)
}

// bytesMem is the number of 8-byte words of a byte string, with the empty
// string counting as one word.
func bytesMem(n int) int64 {
	if n == 0 {
		return 1
	}
	return int64((n-1)/8 + 1)
}

// dataMem charges four units per node plus the size of integer and byte
// string leaves.
func dataMem(d plutusdata.PlutusData) int64 {
	const nodeCost = 4

	total := int64(0)
	stack := []plutusdata.PlutusData{d}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total = satAdd(total, nodeCost)

		switch top := top.(type) {
		case plutusdata.Constr:
			stack = append(stack, top.Fields...)
		case plutusdata.Map:
			for _, p := range top.Pairs {
				stack = append(stack, p.Key, p.Value)
			}
		case plutusdata.List:
			stack = append(stack, top.Items...)
		case plutusdata.Integer:
			total = satAdd(total, integerMem(top.Value))
		case plutusdata.ByteString:
			total = satAdd(total, bytesMem(len(top.Bytes)))
		}
	}
	return total
}

// literalSize measures an integer argument by its value rather than its
// memory usage.  Negative and non-integer arguments measure as zero.
func literalSize(v Value) int64 {
	c, ok := v.(*ConstValue)
	if !ok {
		return 0
	}
	i, ok := c.Const.(Integer)
	if !ok || i.Value.Sign() < 0 {
		return 0
	}
	if !i.Value.IsInt64() {
		return math.MaxInt64
	}
	return i.Value.Int64()
}

// absLiteralSize measures an integer argument by its absolute value.
func absLiteralSize(v Value) int64 {
	c, ok := v.(*ConstValue)
	if !ok {
		return 0
	}
	i, ok := c.Const.(Integer)
	if !ok {
		return 0
	}
	a := new(big.Int).Abs(i.Value)
	if !a.IsInt64() {
		return math.MaxInt64
	}
	return a.Int64()
}

// wordsSize measures an integer byte count as the number of 8-byte words it
// covers.
func wordsSize(v Value) int64 {
	n := literalSize(v)
	if n == 0 {
		return 0
	}
	return (n-1)/8 + 1
}

// listLength measures a list argument by its number of elements.
func listLength(v Value) int64 {
	c, ok := v.(*ConstValue)
	if !ok {
		return 0
	}
	l, ok := c.Const.(List)
	if !ok {
		return 0
	}
	return int64(len(l.Items))
}
