// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"math"
	"math/big"
	"testing"

	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/stretchr/testify/require"
)

// TestCostingFuncs ensures every costing shape evaluates its formula.
func TestCostingFuncs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		f     CostingFunc
		sizes []int64
		want  int64
	}{
		{"constant", constantCost(7), []int64{100, 200}, 7},
		{"linear in x", costing(ShapeLinearInX, 10, 3), []int64{4}, 22},
		{"linear in y", costing(ShapeLinearInY, 10, 3), []int64{4, 5}, 25},
		{"linear in z", costing(ShapeLinearInZ, 20467, 1), []int64{1, 1, 6}, 20473},
		{"added sizes", costing(ShapeAddedSizes, 1000, 173), []int64{2, 3}, 1865},
		{"subtracted sizes", costing(ShapeSubtractedSizes, 0, 1, 1), []int64{5, 2}, 3},
		{"subtracted sizes minimum", costing(ShapeSubtractedSizes, 0, 1, 1), []int64{2, 5}, 1},
		{"multiplied sizes", costing(ShapeMultipliedSizes, 1, 2), []int64{3, 4}, 25},
		{"min size", costing(ShapeMinSize, 51775, 558), []int64{3, 1}, 52333},
		{"max size", costing(ShapeMaxSize, 100788, 420), []int64{1, 3}, 102048},
		{"on diagonal", costing(ShapeLinearOnDiagonal, 24548, 29498, 38), []int64{2, 2}, 29574},
		{"off diagonal", costing(ShapeLinearOnDiagonal, 24548, 29498, 38), []int64{1, 2}, 24548},
		{"above diagonal", costing(ShapeConstAboveDiagonal, 85848, 123203, 122), []int64{1, 2}, 85848},
		{"below diagonal", costing(ShapeConstAboveDiagonal, 85848, 123203, 122), []int64{2, 1}, 123447},
		{"const below diagonal", costing(ShapeConstBelowDiagonal, 5, 1, 1), []int64{3, 1}, 5},
		{"quadratic in y", costing(ShapeQuadraticInY, 1, 2, 3), []int64{0, 2}, 17},
		{"quadratic in z", costing(ShapeQuadraticInZ, 1293828, 28716, 63), []int64{0, 0, 2}, 1351512},
		{"literal in y", costing(ShapeLiteralInYOrLinearInZ, 0, 1), []int64{0, 3, 9}, 3},
		{"linear in z fallback", costing(ShapeLiteralInYOrLinearInZ, 0, 1), []int64{0, 0, 5}, 5},
		{"linear in max yz", costing(ShapeLinearInMaxYZ, 0, 1), []int64{9, 2, 4}, 4},
		{"linear in y and z", costing(ShapeLinearInYAndZ, 100181, 726, 719), []int64{0, 2, 3}, 103790},
		{"quadratic above diagonal", costing(ShapeConstAboveDiagonalQuadratic,
			85848, 123203, 1716, 7305, 57, 549, -900, 85848), []int64{2, 1}, 134366},
		{"quadratic below diagonal", costing(ShapeConstAboveDiagonalQuadratic,
			85848, 123203, 1716, 7305, 57, 549, -900, 85848), []int64{1, 2}, 85848},
		{"quadratic minimum", costing(ShapeConstAboveDiagonalQuadratic,
			5, 0, 0, 0, 0, 0, -1, 40), []int64{3, 3}, 40},
		{"saturates", costing(ShapeLinearInX, 1, math.MaxInt64), []int64{2}, math.MaxInt64},
	}

	for _, test := range tests {
		require.Equal(t, test.want, test.f.Cost(test.sizes...), test.name)
	}
}

// TestExMem ensures argument sizes are measured in the units the costing
// functions expect.
func TestExMem(t *testing.T) {
	t.Parallel()

	twoWords := new(big.Int).Lsh(big.NewInt(1), 64)
	tests := []struct {
		name string
		c    Const
		want int64
	}{
		{"zero", NewInteger(0), 1},
		{"small", NewInteger(-5), 1},
		{"two words", NewBigInteger(twoWords), 2},
		{"empty bytes", NewByteString(nil), 1},
		{"eight bytes", NewByteString(make([]byte, 8)), 1},
		{"nine bytes", NewByteString(make([]byte, 9)), 2},
		{"string", String{Text: "héllo"}, 5},
		{"unit", Unit{}, 1},
		{"list", NewList(IntegerType, NewInteger(1), NewInteger(2)), 2},
		{"data integer", NewData(plutusdata.NewInteger(1)), 5},
		{"data constr", NewData(plutusdata.NewConstr(0,
			plutusdata.NewInteger(1),
			plutusdata.NewByteString(nil))), 14},
	}

	for _, test := range tests {
		require.Equal(t, test.want, exMem(constValue(test.c)), test.name)
	}

	require.Equal(t, int64(2), wordsSize(intValue(big.NewInt(9))))
	require.Equal(t, int64(0), wordsSize(intValue(big.NewInt(-9))))
	require.Equal(t, int64(9), absLiteralSize(intValue(big.NewInt(-9))))
}

// TestCostModelParamsRoundTrip ensures a parameter list produced by Params
// rebuilds the same cost model for every language and that the main network
// models reproduce the main network lists.
func TestCostModelParamsRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang Language
		n    int
	}{
		{LanguageV1, 166},
		{LanguageV2, 175},
		{LanguageV3, 297},
	}

	for _, test := range tests {
		want := DefaultCostModelFor(test.lang)
		params := want.Params()
		require.Len(t, params, test.n, test.lang.String())
		require.Len(t, ParamNames(test.lang), test.n, test.lang.String())
		require.Equal(t, MainnetParams(test.lang), params, test.lang.String())

		got, err := NewCostModelFromParams(test.lang, params)
		require.NoError(t, err, test.lang.String())
		require.Equal(t, want, got, test.lang.String())
	}
}

// paramIndex returns the position of the named parameter in the list of l.
func paramIndex(t *testing.T, l Language, name string) int {
	t.Helper()

	for i, n := range ParamNames(l) {
		if n == name {
			return i
		}
	}
	t.Fatalf("%v has no parameter %q", l, name)
	return -1
}

// TestCostModelParamNames ensures the parameter lists follow the ledger
// naming and order.
func TestCostModelParamNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang  Language
		index int
		name  string
	}{
		{LanguageV1, 0, "addInteger-cpu-arguments-intercept"},
		{LanguageV1, 17, "cekApplyCost-exBudgetCPU"},
		{LanguageV1, 29, "cekStartupCost-exBudgetCPU"},
		{LanguageV1, 165, "verifyEd25519Signature-memory-arguments"},
		{LanguageV2, 29, "cekStartupCost-exBudgetCPU"},
		{LanguageV2, 30, "cekStartupCost-exBudgetMemory"},
		{LanguageV2, 49, "divideInteger-cpu-arguments-constant"},
		{LanguageV2, 174, "verifySchnorrSecp256k1Signature-memory-arguments"},
		{LanguageV3, 52, "divideInteger-cpu-arguments-model-arguments-c02"},
		{LanguageV3, 56, "divideInteger-cpu-arguments-model-arguments-minimum"},
		{LanguageV3, 193, "cekConstrCost-exBudgetCPU"},
		{LanguageV3, 196, "cekCaseCost-exBudgetMemory"},
		{LanguageV3, 197, "bls12_381_G1_add-cpu-arguments"},
		{LanguageV3, 296, "ripemd_160-memory-arguments"},
	}

	for _, test := range tests {
		names := ParamNames(test.lang)
		require.Equal(t, test.name, names[test.index], test.lang.String())
	}
}

// TestCostModelFromParams ensures named parameters land on the step or
// costing function they name and malformed lists are rejected.
func TestCostModelFromParams(t *testing.T) {
	t.Parallel()

	// Main network values reach their slots.
	v2, err := NewCostModelFromParams(LanguageV2, MainnetParams(LanguageV2))
	require.NoError(t, err)
	require.Equal(t, ExBudget{CPU: 100, Mem: 100}, v2.Startup)
	require.Equal(t, ExBudget{CPU: 23000, Mem: 100}, v2.Steps[StepApply])
	require.Equal(t, v2.Steps[StepApply], v2.Steps[StepConstr])
	require.Equal(t, v2.Steps[StepApply], v2.Steps[StepCase])
	require.Equal(t, ExBudget{CPU: 206477, Mem: 2},
		v2.BuiltinCost(AddInteger, 1, 1))

	v3, err := NewCostModelFromParams(LanguageV3, MainnetParams(LanguageV3))
	require.NoError(t, err)
	require.Equal(t, ExBudget{CPU: 16000, Mem: 100}, v3.Steps[StepCase])
	div := v3.Builtins[DivideInteger].CPU
	require.Equal(t, ShapeConstAboveDiagonalQuadratic, div.Shape)
	require.Equal(t, int64(-900), div.Params[6])
	require.Equal(t, int64(7305), div.Params[3])
	require.Equal(t, int64(1716), div.Params[2])

	// A custom value follows its name.
	params := MainnetParams(LanguageV3)
	params[paramIndex(t, LanguageV3, "cekStartupCost-exBudgetMemory")] = 8
	params[paramIndex(t, LanguageV3, "cekApplyCost-exBudgetCPU")] = 99
	params[paramIndex(t, LanguageV3, "bls12_381_G1_add-cpu-arguments")] = 1234
	params[paramIndex(t, LanguageV3,
		"integerToByteString-memory-arguments-slope")] = 5
	params = append(params, 1, 2, 3)
	cm, err := NewCostModelFromParams(LanguageV3, params)
	require.NoError(t, err)
	require.Equal(t, ExBudget{CPU: 100, Mem: 8}, cm.Startup)
	require.Equal(t, uint64(99), cm.Steps[StepApply].CPU)
	require.Equal(t, int64(1234), cm.Builtins[Bls12_381_G1_Add].CPU.Params[0])
	require.Equal(t, int64(5), cm.Builtins[IntegerToByteString].Mem.Params[1])

	// Lists from before the latest builtins keep the main network values
	// for the parameters they lack.
	chang, err := NewCostModelFromParams(LanguageV3,
		MainnetParams(LanguageV3)[:251])
	require.NoError(t, err)
	require.Equal(t, DefaultCostModel(), chang)

	_, err = NewCostModelFromParams(LanguageV2, MainnetParams(LanguageV2)[:174])
	require.ErrorIs(t, err, ErrInvalidCostModel)

	_, err = NewCostModelFromParams(Language(9), MainnetParams(LanguageV3))
	require.ErrorIs(t, err, ErrInvalidCostModel)

	neg := MainnetParams(LanguageV1)
	neg[paramIndex(t, LanguageV1, "cekVarCost-exBudgetMemory")] = -1
	_, err = NewCostModelFromParams(LanguageV1, neg)
	require.ErrorIs(t, err, ErrInvalidCostModel)

	zeroApply := MainnetParams(LanguageV3)
	zeroApply[paramIndex(t, LanguageV3, "cekApplyCost-exBudgetCPU")] = 0
	_, err = NewCostModelFromParams(LanguageV3, zeroApply)
	require.ErrorIs(t, err, ErrInvalidCostModel)
}

// TestCostModelValidate ensures step kinds that drive evaluation must cost
// something.
func TestCostModelValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultCostModel().Validate())
	require.NoError(t, UniformCostModel(ExBudget{CPU: 1, Mem: 1}).Validate())
	require.ErrorIs(t, UniformCostModel(ExBudget{}).Validate(),
		ErrInvalidCostModel)

	cm := DefaultCostModel()
	cm.Steps[StepCase] = ExBudget{CPU: 1}
	require.ErrorIs(t, cm.Validate(), ErrInvalidCostModel)
}

// TestBuiltinAvailability ensures builtins appear in the language that
// introduced them.
func TestBuiltinAvailability(t *testing.T) {
	t.Parallel()

	require.True(t, LanguageV1.Supports(AddInteger))
	require.False(t, LanguageV1.Supports(SerialiseData))
	require.True(t, LanguageV2.Supports(SerialiseData))
	require.False(t, LanguageV2.Supports(IntegerToByteString))
	require.True(t, LanguageV3.Supports(Ripemd_160))
	require.True(t, LanguageV3.Supports(Bls12_381_FinalVerify))
	require.False(t, LanguageV2.Supports(Bls12_381_G1_Add))
	require.False(t, LanguageV3.Supports(BuiltinID(90)))

	require.Len(t, Builtins(LanguageV1), 51)
	require.Len(t, Builtins(LanguageV2), 54)
	require.Len(t, Builtins(LanguageV3), 87)

	id, ok := BuiltinByName("verifySchnorrSecp256k1Signature")
	require.True(t, ok)
	require.Equal(t, VerifySchnorrSecp256k1Signature, id)
	require.Equal(t, "builtin_90", BuiltinID(90).String())
}
