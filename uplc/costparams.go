// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"sort"
	"sync"
)

// slotKind identifies the part of a cost model a ledger parameter sets.
type slotKind uint8

const (
	slotStartup slotKind = iota
	slotStep
	slotBuiltinCPU
	slotBuiltinMem
)

// costSlot addresses one number of a cost model.  For startup and step slots
// index 0 is the cpu cost and index 1 the memory cost.  For builtin slots it
// is the position in the costing function parameters.
type costSlot struct {
	kind  slotKind
	step  StepKind
	fn    BuiltinID
	index int
}

// get returns the value held in the slot.
func (s costSlot) get(cm *CostModel) int64 {
	switch s.kind {
	case slotStartup:
		return budgetDimension(cm.Startup, s.index)
	case slotStep:
		return budgetDimension(cm.Steps[s.step], s.index)
	case slotBuiltinCPU:
		return cm.Builtins[s.fn].CPU.Params[s.index]
	default:
		return cm.Builtins[s.fn].Mem.Params[s.index]
	}
}

// set stores v in the slot.  Startup and step costs are never negative.
func (s costSlot) set(cm *CostModel, v int64) {
	switch s.kind {
	case slotStartup:
		setBudgetDimension(&cm.Startup, s.index, uint64(v))
	case slotStep:
		setBudgetDimension(&cm.Steps[s.step], s.index, uint64(v))
	case slotBuiltinCPU:
		cm.Builtins[s.fn].CPU.Params[s.index] = v
	default:
		cm.Builtins[s.fn].Mem.Params[s.index] = v
	}
}

// unsigned reports whether the slot holds a budget rather than a costing
// function coefficient.
func (s costSlot) unsigned() bool {
	return s.kind == slotStartup || s.kind == slotStep
}

func budgetDimension(b ExBudget, index int) int64 {
	if index == 0 {
		return int64(b.CPU)
	}
	return int64(b.Mem)
}

func setBudgetDimension(b *ExBudget, index int, v uint64) {
	if index == 0 {
		b.CPU = v
		return
	}
	b.Mem = v
}

// costParam is one named entry of a ledger cost model parameter list.
type costParam struct {
	name string
	slot costSlot
}

// shapeParamNames holds, in parameter order, the suffixes the ledger appends
// to "<builtin>-cpu-arguments" and "<builtin>-memory-arguments" for each
// costing shape.
var shapeParamNames = [numCostingShapes][]string{
	ShapeConstant:              {""},
	ShapeLinearInX:             {"-intercept", "-slope"},
	ShapeLinearInY:             {"-intercept", "-slope"},
	ShapeLinearInZ:             {"-intercept", "-slope"},
	ShapeAddedSizes:            {"-intercept", "-slope"},
	ShapeSubtractedSizes:       {"-intercept", "-slope", "-minimum"},
	ShapeMultipliedSizes:       {"-intercept", "-slope"},
	ShapeMinSize:               {"-intercept", "-slope"},
	ShapeMaxSize:               {"-intercept", "-slope"},
	ShapeLinearOnDiagonal:      {"-constant", "-intercept", "-slope"},
	ShapeConstAboveDiagonal:    {"-constant", "-model-arguments-intercept", "-model-arguments-slope"},
	ShapeConstBelowDiagonal:    {"-constant", "-model-arguments-intercept", "-model-arguments-slope"},
	ShapeQuadraticInY:          {"-c0", "-c1", "-c2"},
	ShapeQuadraticInZ:          {"-c0", "-c1", "-c2"},
	ShapeLiteralInYOrLinearInZ: {"-intercept", "-slope"},
	ShapeLinearInMaxYZ:         {"-intercept", "-slope"},
	ShapeLinearInYAndZ:         {"-intercept", "-slope1", "-slope2"},

	ShapeConstAboveDiagonalQuadratic: {"-constant",
		"-model-arguments-c00", "-model-arguments-c10",
		"-model-arguments-c01", "-model-arguments-c20",
		"-model-arguments-c11", "-model-arguments-c02",
		"-model-arguments-minimum"},
}

// stepParamNames maps step kinds to their ledger parameter names.
var stepParamNames = map[StepKind]string{
	StepConst:   "cekConstCost",
	StepVar:     "cekVarCost",
	StepLambda:  "cekLamCost",
	StepApply:   "cekApplyCost",
	StepDelay:   "cekDelayCost",
	StepForce:   "cekForceCost",
	StepBuiltin: "cekBuiltinCost",
	StepConstr:  "cekConstrCost",
	StepCase:    "cekCaseCost",
}

// costShapes pairs the cpu and memory costing shapes of a builtin.
type costShapes struct {
	cpu, mem CostingShape
}

// builtinShapes holds the costing shapes of the current protocol.  Builtins
// missing from the map cost a constant in both dimensions.
var builtinShapes = map[BuiltinID]costShapes{
	AddInteger:            {ShapeMaxSize, ShapeMaxSize},
	SubtractInteger:       {ShapeMaxSize, ShapeMaxSize},
	MultiplyInteger:       {ShapeMultipliedSizes, ShapeAddedSizes},
	DivideInteger:         {ShapeConstAboveDiagonalQuadratic, ShapeSubtractedSizes},
	QuotientInteger:       {ShapeConstAboveDiagonalQuadratic, ShapeSubtractedSizes},
	RemainderInteger:      {ShapeConstAboveDiagonalQuadratic, ShapeLinearInY},
	ModInteger:            {ShapeConstAboveDiagonalQuadratic, ShapeLinearInY},
	EqualsInteger:         {ShapeMinSize, ShapeConstant},
	LessThanInteger:       {ShapeMinSize, ShapeConstant},
	LessThanEqualsInteger: {ShapeMinSize, ShapeConstant},

	AppendByteString:         {ShapeAddedSizes, ShapeAddedSizes},
	ConsByteString:           {ShapeLinearInY, ShapeAddedSizes},
	SliceByteString:          {ShapeLinearInZ, ShapeLinearInZ},
	EqualsByteString:         {ShapeLinearOnDiagonal, ShapeConstant},
	LessThanByteString:       {ShapeMinSize, ShapeConstant},
	LessThanEqualsByteString: {ShapeMinSize, ShapeConstant},

	Sha2_256:                        {ShapeLinearInX, ShapeConstant},
	Sha3_256:                        {ShapeLinearInX, ShapeConstant},
	Blake2b_256:                     {ShapeLinearInX, ShapeConstant},
	Blake2b_224:                     {ShapeLinearInX, ShapeConstant},
	Keccak_256:                      {ShapeLinearInX, ShapeConstant},
	Ripemd_160:                      {ShapeLinearInX, ShapeConstant},
	VerifyEd25519Signature:          {ShapeLinearInY, ShapeConstant},
	VerifySchnorrSecp256k1Signature: {ShapeLinearInY, ShapeConstant},

	AppendString: {ShapeAddedSizes, ShapeAddedSizes},
	EqualsString: {ShapeLinearOnDiagonal, ShapeConstant},
	EncodeUtf8:   {ShapeLinearInX, ShapeLinearInX},
	DecodeUtf8:   {ShapeLinearInX, ShapeLinearInX},

	EqualsData:    {ShapeMinSize, ShapeConstant},
	SerialiseData: {ShapeLinearInX, ShapeLinearInX},

	Bls12_381_G1_ScalarMul:   {ShapeLinearInX, ShapeConstant},
	Bls12_381_G1_HashToGroup: {ShapeLinearInX, ShapeConstant},
	Bls12_381_G2_ScalarMul:   {ShapeLinearInX, ShapeConstant},
	Bls12_381_G2_HashToGroup: {ShapeLinearInX, ShapeConstant},

	IntegerToByteString:  {ShapeQuadraticInZ, ShapeLiteralInYOrLinearInZ},
	ByteStringToInteger:  {ShapeQuadraticInY, ShapeLinearInY},
	AndByteString:        {ShapeLinearInYAndZ, ShapeLinearInMaxYZ},
	OrByteString:         {ShapeLinearInYAndZ, ShapeLinearInMaxYZ},
	XorByteString:        {ShapeLinearInYAndZ, ShapeLinearInMaxYZ},
	ComplementByteString: {ShapeLinearInX, ShapeLinearInX},
	WriteBits:            {ShapeLinearInY, ShapeLinearInX},
	ReplicateByte:        {ShapeLinearInX, ShapeLinearInX},
	ShiftByteString:      {ShapeLinearInX, ShapeLinearInX},
	RotateByteString:     {ShapeLinearInX, ShapeLinearInX},
	CountSetBits:         {ShapeLinearInX, ShapeConstant},
	FindFirstSetBit:      {ShapeLinearInX, ShapeConstant},
}

// legacyBuiltinShapes overrides builtinShapes for PlutusV1 and PlutusV2,
// whose cost models predate the quadratic division costs.
var legacyBuiltinShapes = map[BuiltinID]costShapes{
	MultiplyInteger:        {ShapeAddedSizes, ShapeAddedSizes},
	DivideInteger:          {ShapeConstAboveDiagonal, ShapeSubtractedSizes},
	QuotientInteger:        {ShapeConstAboveDiagonal, ShapeSubtractedSizes},
	RemainderInteger:       {ShapeConstAboveDiagonal, ShapeSubtractedSizes},
	ModInteger:             {ShapeConstAboveDiagonal, ShapeSubtractedSizes},
	VerifyEd25519Signature: {ShapeLinearInZ, ShapeConstant},
}

// shapesFor returns the costing shapes of fn in the cost model of l.
func shapesFor(l Language, fn BuiltinID) costShapes {
	if l < LanguageV3 {
		if shapes, ok := legacyBuiltinShapes[fn]; ok {
			return shapes
		}
	}
	if shapes, ok := builtinShapes[fn]; ok {
		return shapes
	}
	return costShapes{ShapeConstant, ShapeConstant}
}

// v3AppendedBuiltins lists, in ledger order, the builtins whose parameters
// follow the step costs of constr and case in the PlutusV3 list.
var v3AppendedBuiltins = []BuiltinID{
	Bls12_381_G1_Add, Bls12_381_G1_Compress, Bls12_381_G1_Equal,
	Bls12_381_G1_HashToGroup, Bls12_381_G1_Neg, Bls12_381_G1_ScalarMul,
	Bls12_381_G1_Uncompress,
	Bls12_381_G2_Add, Bls12_381_G2_Compress, Bls12_381_G2_Equal,
	Bls12_381_G2_HashToGroup, Bls12_381_G2_Neg, Bls12_381_G2_ScalarMul,
	Bls12_381_G2_Uncompress,
	Bls12_381_FinalVerify, Bls12_381_MillerLoop, Bls12_381_MulMlResult,
	Keccak_256, Blake2b_224, IntegerToByteString, ByteStringToInteger,
	AndByteString, OrByteString, XorByteString, ComplementByteString,
	ReadBit, WriteBits, ReplicateByte, ShiftByteString, RotateByteString,
	CountSetBits, FindFirstSetBit, Ripemd_160,
}

func budgetParams(name string, kind slotKind, step StepKind) []costParam {
	return []costParam{
		{name + "-exBudgetCPU", costSlot{kind: kind, step: step, index: 0}},
		{name + "-exBudgetMemory", costSlot{kind: kind, step: step, index: 1}},
	}
}

// functionParams names the parameters of one costing function of fn, sorted
// by name as the ledger orders them.
func functionParams(fn BuiltinID, shape CostingShape, dimension string,
	kind slotKind) []costParam {

	prefix := fn.String() + "-" + dimension + "-arguments"
	suffixes := shapeParamNames[shape]
	params := make([]costParam, 0, len(suffixes))
	for i, suffix := range suffixes {
		params = append(params, costParam{
			name: prefix + suffix,
			slot: costSlot{kind: kind, fn: fn, index: i},
		})
	}
	sort.Slice(params, func(i, j int) bool {
		return params[i].name < params[j].name
	})
	return params
}

// builtinParams names the cpu and then the memory parameters of fn.
func builtinParams(l Language, fn BuiltinID) []costParam {
	shapes := shapesFor(l, fn)
	params := functionParams(fn, shapes.cpu, "cpu", slotBuiltinCPU)
	return append(params, functionParams(fn, shapes.mem, "memory",
		slotBuiltinMem)...)
}

// buildLedgerParams returns the parameter layout of the ledger cost model of
// l.  The PlutusV1 and PlutusV2 lists are sorted by parameter name.  The
// PlutusV3 list starts with the PlutusV2 parameters in that order and then
// appends the parameters introduced since.
func buildLedgerParams(l Language) []costParam {
	params := budgetParams("cekStartupCost", slotStartup, 0)
	for kind := StepConst; kind <= StepBuiltin; kind++ {
		params = append(params, budgetParams(stepParamNames[kind],
			slotStep, kind)...)
	}
	base := l
	if base > LanguageV2 {
		base = LanguageV2
	}
	for _, fn := range Builtins(base) {
		params = append(params, builtinParams(l, fn)...)
	}
	sort.Slice(params, func(i, j int) bool {
		return params[i].name < params[j].name
	})
	if l < LanguageV3 {
		return params
	}

	params = append(params, budgetParams(stepParamNames[StepConstr],
		slotStep, StepConstr)...)
	params = append(params, budgetParams(stepParamNames[StepCase],
		slotStep, StepCase)...)
	for _, fn := range v3AppendedBuiltins {
		params = append(params, builtinParams(l, fn)...)
	}
	return params
}

// ledgerLayout describes the parameter list of one language.  minParams is
// the length of the list when the language was introduced, shorter lists
// are rejected.
type ledgerLayout struct {
	params    []costParam
	minParams int
}

var (
	layoutsOnce sync.Once
	layouts     map[Language]ledgerLayout
)

// ledgerLayouts returns the parameter layouts of every language.  They are
// derived from the builtin table on first use.
func ledgerLayouts() map[Language]ledgerLayout {
	layoutsOnce.Do(func() {
		layouts = map[Language]ledgerLayout{
			LanguageV1: {buildLedgerParams(LanguageV1), 166},
			LanguageV2: {buildLedgerParams(LanguageV2), 175},
			LanguageV3: {buildLedgerParams(LanguageV3), 251},
		}
	})
	return layouts
}

// ledgerLayoutFor returns the layout of l, or that of PlutusV3 for unknown
// languages.
func ledgerLayoutFor(l Language) ledgerLayout {
	if layout, ok := ledgerLayouts()[l]; ok {
		return layout
	}
	return ledgerLayouts()[LanguageV3]
}

// ParamNames returns the ledger names of the cost model parameters of l in
// list order.
func ParamNames(l Language) []string {
	layout := ledgerLayouts()[l]
	names := make([]string, 0, len(layout.params))
	for _, p := range layout.params {
		names = append(names, p.name)
	}
	return names
}

// mainnetParams holds the cost model parameters of the main network for each
// language.
var mainnetParams = map[Language][]int64{
	LanguageV1: {
		205665, 812, 1, 1, 1000, 571, 0, 1, 1000, 24177, 4, 1, 1000, 32,
		117366, 10475, 4, 23000, 100, 23000, 100, 23000, 100, 23000, 100,
		23000, 100, 23000, 100, 100, 100, 23000, 100, 19537, 32, 175354,
		32, 46417, 4, 221973, 511, 0, 1, 89141, 32, 497525, 14068, 4, 2,
		196500, 453240, 220, 0, 1, 1, 1000, 28662, 4, 2, 245000, 216773,
		62, 1, 1060367, 12586, 1, 208512, 421, 1, 187000, 1000, 52998, 1,
		80436, 32, 43249, 32, 1000, 32, 80556, 1, 57667, 4, 1000, 10,
		197145, 156, 1, 197145, 156, 1, 204924, 473, 1, 208896, 511, 1,
		52467, 32, 64832, 32, 65493, 32, 22558, 32, 16563, 32, 76511, 32,
		196500, 453240, 220, 0, 1, 1, 69522, 11687, 0, 1, 60091, 32,
		196500, 453240, 220, 0, 1, 1, 196500, 453240, 220, 0, 1, 1,
		806990, 30482, 4, 1927926, 82523, 4, 265318, 0, 4, 0, 85931, 32,
		205665, 812, 1, 1, 41182, 32, 212342, 32, 31220, 32, 32696, 32,
		43357, 32, 32247, 32, 38314, 32, 57996947, 18975, 10,
	},
	LanguageV2: {
		205665, 812, 1, 1, 1000, 571, 0, 1, 1000, 24177, 4, 1, 1000, 32,
		117366, 10475, 4, 23000, 100, 23000, 100, 23000, 100, 23000, 100,
		23000, 100, 23000, 100, 100, 100, 23000, 100, 19537, 32, 175354,
		32, 46417, 4, 221973, 511, 0, 1, 89141, 32, 497525, 14068, 4, 2,
		196500, 453240, 220, 0, 1, 1, 1000, 28662, 4, 2, 245000, 216773,
		62, 1, 1060367, 12586, 1, 208512, 421, 1, 187000, 1000, 52998, 1,
		80436, 32, 43249, 32, 1000, 32, 80556, 1, 57667, 4, 1000, 10,
		197145, 156, 1, 197145, 156, 1, 204924, 473, 1, 208896, 511, 1,
		52467, 32, 64832, 32, 65493, 32, 22558, 32, 16563, 32, 76511, 32,
		196500, 453240, 220, 0, 1, 1, 69522, 11687, 0, 1, 60091, 32,
		196500, 453240, 220, 0, 1, 1, 196500, 453240, 220, 0, 1, 1,
		1159724, 392670, 0, 2, 806990, 30482, 4, 1927926, 82523, 4,
		265318, 0, 4, 0, 85931, 32, 205665, 812, 1, 1, 41182, 32, 212342,
		32, 31220, 32, 32696, 32, 43357, 32, 32247, 32, 38314, 32,
		35892428, 10, 57996947, 18975, 10, 38887044, 32947, 10,
	},
	LanguageV3: {
		100788, 420, 1, 1, 1000, 173, 0, 1, 1000, 59957, 4, 1, 11183, 32,
		201305, 8356, 4, 16000, 100, 16000, 100, 16000, 100, 16000, 100,
		16000, 100, 16000, 100, 100, 100, 16000, 100, 94375, 32, 132994,
		32, 61462, 4, 72010, 178, 0, 1, 22151, 32, 91189, 769, 4, 2,
		85848, 123203, 7305, -900, 1716, 549, 57, 85848, 0, 1, 1, 1000,
		42921, 4, 2, 24548, 29498, 38, 1, 898148, 27279, 1, 51775, 558, 1,
		39184, 1000, 60594, 1, 141895, 32, 83150, 32, 15299, 32, 76049, 1,
		13169, 4, 22100, 10, 28999, 74, 1, 28999, 74, 1, 43285, 552, 1,
		44749, 541, 1, 33852, 32, 68246, 32, 72362, 32, 7243, 32, 7391,
		32, 11546, 32, 85848, 123203, 7305, -900, 1716, 549, 57, 85848, 0,
		1, 90434, 519, 0, 1, 74433, 32, 85848, 123203, 7305, -900, 1716,
		549, 57, 85848, 0, 1, 1, 85848, 123203, 7305, -900, 1716, 549, 57,
		85848, 0, 1, 955506, 213312, 0, 2, 270652, 22588, 4, 1457325,
		64566, 4, 20467, 1, 4, 0, 141992, 32, 100788, 420, 1, 1, 81663,
		32, 59498, 32, 20142, 32, 24588, 32, 20744, 32, 25933, 32, 24623,
		32, 43053543, 10, 53384111, 14333, 10, 43574283, 26308, 10, 16000,
		100, 16000, 100, 962335, 18, 2780678, 6, 442008, 1, 52538055,
		3756, 18, 267929, 18, 76433006, 8868, 18, 52948122, 18, 1995836,
		36, 3227919, 12, 901022, 1, 166917843, 4307, 36, 284546, 36,
		158221314, 26549, 36, 74698472, 36, 333849714, 1, 254006273, 72,
		2174038, 72, 2261318, 64571, 4, 207616, 8310, 4, 1293828, 28716,
		63, 0, 1, 1006041, 43623, 251, 0, 1, 100181, 726, 719, 0, 1,
		100181, 726, 719, 0, 1, 100181, 726, 719, 0, 1, 107878, 680, 0, 1,
		95336, 1, 281145, 18848, 0, 1, 180194, 159, 1, 1, 158519, 8942, 0,
		1, 159378, 8813, 0, 1, 107490, 3298, 1, 106057, 655, 1, 1964219,
		24520, 3,
	},
}

// MainnetParams returns a copy of the main network cost model parameters of
// l in ledger order.
func MainnetParams(l Language) []int64 {
	return append([]int64(nil), mainnetParams[l]...)
}
