// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"fmt"
	"math/big"
)

// Language identifies a Plutus language version.  It selects which builtins
// are available and the semantics variant of the few builtins whose
// behavior changed between versions.
type Language uint8

// These constants define the supported language versions.
const (
	LanguageV1 Language = iota + 1
	LanguageV2
	LanguageV3
)

// String returns the Language as a human-readable name.
func (l Language) String() string {
	switch l {
	case LanguageV1:
		return "PlutusV1"
	case LanguageV2:
		return "PlutusV2"
	case LanguageV3:
		return "PlutusV3"
	}
	return fmt.Sprintf("Unknown Language (%d)", uint8(l))
}

// Supports reports whether fn can be used by scripts of language l.
func (l Language) Supports(fn BuiltinID) bool {
	if int(fn) >= len(builtinTable) || builtinTable[fn].eval == nil {
		return false
	}
	return builtinTable[fn].since <= l
}

// BuiltinID identifies a builtin function.  The numeric values are the tags
// used by the flat encoding.
type BuiltinID uint8

// These constants define the builtin functions.
const (
	AddInteger                      BuiltinID = 0
	SubtractInteger                 BuiltinID = 1
	MultiplyInteger                 BuiltinID = 2
	DivideInteger                   BuiltinID = 3
	QuotientInteger                 BuiltinID = 4
	RemainderInteger                BuiltinID = 5
	ModInteger                      BuiltinID = 6
	EqualsInteger                   BuiltinID = 7
	LessThanInteger                 BuiltinID = 8
	LessThanEqualsInteger           BuiltinID = 9
	AppendByteString                BuiltinID = 10
	ConsByteString                  BuiltinID = 11
	SliceByteString                 BuiltinID = 12
	LengthOfByteString              BuiltinID = 13
	IndexByteString                 BuiltinID = 14
	EqualsByteString                BuiltinID = 15
	LessThanByteString              BuiltinID = 16
	LessThanEqualsByteString        BuiltinID = 17
	Sha2_256                        BuiltinID = 18
	Sha3_256                        BuiltinID = 19
	Blake2b_256                     BuiltinID = 20
	VerifyEd25519Signature          BuiltinID = 21
	AppendString                    BuiltinID = 22
	EqualsString                    BuiltinID = 23
	EncodeUtf8                      BuiltinID = 24
	DecodeUtf8                      BuiltinID = 25
	IfThenElse                      BuiltinID = 26
	ChooseUnit                      BuiltinID = 27
	Trace                           BuiltinID = 28
	FstPair                         BuiltinID = 29
	SndPair                         BuiltinID = 30
	ChooseList                      BuiltinID = 31
	MkCons                          BuiltinID = 32
	HeadList                        BuiltinID = 33
	TailList                        BuiltinID = 34
	NullList                        BuiltinID = 35
	ChooseData                      BuiltinID = 36
	ConstrData                      BuiltinID = 37
	MapData                         BuiltinID = 38
	ListData                        BuiltinID = 39
	IData                           BuiltinID = 40
	BData                           BuiltinID = 41
	UnConstrData                    BuiltinID = 42
	UnMapData                       BuiltinID = 43
	UnListData                      BuiltinID = 44
	UnIData                         BuiltinID = 45
	UnBData                         BuiltinID = 46
	EqualsData                      BuiltinID = 47
	MkPairData                      BuiltinID = 48
	MkNilData                       BuiltinID = 49
	MkNilPairData                   BuiltinID = 50
	SerialiseData                   BuiltinID = 51
	VerifyEcdsaSecp256k1Signature   BuiltinID = 52
	VerifySchnorrSecp256k1Signature BuiltinID = 53
	Bls12_381_G1_Add                BuiltinID = 54
	Bls12_381_G1_Neg                BuiltinID = 55
	Bls12_381_G1_ScalarMul          BuiltinID = 56
	Bls12_381_G1_Equal              BuiltinID = 57
	Bls12_381_G1_Compress           BuiltinID = 58
	Bls12_381_G1_Uncompress         BuiltinID = 59
	Bls12_381_G1_HashToGroup        BuiltinID = 60
	Bls12_381_G2_Add                BuiltinID = 61
	Bls12_381_G2_Neg                BuiltinID = 62
	Bls12_381_G2_ScalarMul          BuiltinID = 63
	Bls12_381_G2_Equal              BuiltinID = 64
	Bls12_381_G2_Compress           BuiltinID = 65
	Bls12_381_G2_Uncompress         BuiltinID = 66
	Bls12_381_G2_HashToGroup        BuiltinID = 67
	Bls12_381_MillerLoop            BuiltinID = 68
	Bls12_381_MulMlResult           BuiltinID = 69
	Bls12_381_FinalVerify           BuiltinID = 70

	Keccak_256           BuiltinID = 71
	Blake2b_224          BuiltinID = 72
	IntegerToByteString  BuiltinID = 73
	ByteStringToInteger  BuiltinID = 74
	AndByteString        BuiltinID = 75
	OrByteString         BuiltinID = 76
	XorByteString        BuiltinID = 77
	ComplementByteString BuiltinID = 78
	ReadBit              BuiltinID = 79
	WriteBits            BuiltinID = 80
	ReplicateByte        BuiltinID = 81
	ShiftByteString      BuiltinID = 82
	RotateByteString     BuiltinID = 83
	CountSetBits         BuiltinID = 84
	FindFirstSetBit      BuiltinID = 85
	Ripemd_160           BuiltinID = 86

	numBuiltins = 87
)

// builtinFunc executes a saturated builtin.  Arguments are in application
// order.
type builtinFunc func(m *Machine, args []Value) (Value, error)

// builtinInfo describes a builtin: its name, how many forces and arguments it
// takes, the first language it appears in, its implementation and optional
// argument size measures overriding exMem.
type builtinInfo struct {
	name   string
	forces int
	arity  int
	since  Language
	eval   builtinFunc
	sizes  []sizeFunc
}

// builtinTable is indexed by BuiltinID.  Entries with a nil eval are not
// implemented.  It is populated by init to avoid an initialization cycle
// through the builtin implementations.
var builtinTable [numBuiltins]builtinInfo

// builtinsByName maps builtin names to their identifiers.
var builtinsByName = make(map[string]BuiltinID)

func init() {
	type b = builtinInfo
	v1, v2, v3 := LanguageV1, LanguageV2, LanguageV3

	table := map[BuiltinID]builtinInfo{
		AddInteger:            b{"addInteger", 0, 2, v1, evalAddInteger, nil},
		SubtractInteger:       b{"subtractInteger", 0, 2, v1, evalSubtractInteger, nil},
		MultiplyInteger:       b{"multiplyInteger", 0, 2, v1, evalMultiplyInteger, nil},
		DivideInteger:         b{"divideInteger", 0, 2, v1, evalDivideInteger, nil},
		QuotientInteger:       b{"quotientInteger", 0, 2, v1, evalQuotientInteger, nil},
		RemainderInteger:      b{"remainderInteger", 0, 2, v1, evalRemainderInteger, nil},
		ModInteger:            b{"modInteger", 0, 2, v1, evalModInteger, nil},
		EqualsInteger:         b{"equalsInteger", 0, 2, v1, evalEqualsInteger, nil},
		LessThanInteger:       b{"lessThanInteger", 0, 2, v1, evalLessThanInteger, nil},
		LessThanEqualsInteger: b{"lessThanEqualsInteger", 0, 2, v1, evalLessThanEqualsInteger, nil},

		AppendByteString:         b{"appendByteString", 0, 2, v1, evalAppendByteString, nil},
		ConsByteString:           b{"consByteString", 0, 2, v1, evalConsByteString, nil},
		SliceByteString:          b{"sliceByteString", 0, 3, v1, evalSliceByteString, nil},
		LengthOfByteString:       b{"lengthOfByteString", 0, 1, v1, evalLengthOfByteString, nil},
		IndexByteString:          b{"indexByteString", 0, 2, v1, evalIndexByteString, nil},
		EqualsByteString:         b{"equalsByteString", 0, 2, v1, evalEqualsByteString, nil},
		LessThanByteString:       b{"lessThanByteString", 0, 2, v1, evalLessThanByteString, nil},
		LessThanEqualsByteString: b{"lessThanEqualsByteString", 0, 2, v1, evalLessThanEqualsByteString, nil},

		Sha2_256:                        b{"sha2_256", 0, 1, v1, evalSha2_256, nil},
		Sha3_256:                        b{"sha3_256", 0, 1, v1, evalSha3_256, nil},
		Blake2b_256:                     b{"blake2b_256", 0, 1, v1, evalBlake2b_256, nil},
		VerifyEd25519Signature:          b{"verifyEd25519Signature", 0, 3, v1, evalVerifyEd25519Signature, nil},
		VerifyEcdsaSecp256k1Signature:   b{"verifyEcdsaSecp256k1Signature", 0, 3, v2, evalVerifyEcdsaSecp256k1Signature, nil},
		VerifySchnorrSecp256k1Signature: b{"verifySchnorrSecp256k1Signature", 0, 3, v2, evalVerifySchnorrSecp256k1Signature, nil},
		Keccak_256:                      b{"keccak_256", 0, 1, v3, evalKeccak_256, nil},
		Blake2b_224:                     b{"blake2b_224", 0, 1, v3, evalBlake2b_224, nil},
		Ripemd_160:                      b{"ripemd_160", 0, 1, v3, evalRipemd_160, nil},

		Bls12_381_G1_Add:         b{"bls12_381_G1_add", 0, 2, v3, evalBls12_381_G1_Add, nil},
		Bls12_381_G1_Neg:         b{"bls12_381_G1_neg", 0, 1, v3, evalBls12_381_G1_Neg, nil},
		Bls12_381_G1_ScalarMul:   b{"bls12_381_G1_scalarMul", 0, 2, v3, evalBls12_381_G1_ScalarMul, nil},
		Bls12_381_G1_Equal:       b{"bls12_381_G1_equal", 0, 2, v3, evalBls12_381_G1_Equal, nil},
		Bls12_381_G1_Compress:    b{"bls12_381_G1_compress", 0, 1, v3, evalBls12_381_G1_Compress, nil},
		Bls12_381_G1_Uncompress:  b{"bls12_381_G1_uncompress", 0, 1, v3, evalBls12_381_G1_Uncompress, nil},
		Bls12_381_G1_HashToGroup: b{"bls12_381_G1_hashToGroup", 0, 2, v3, evalBls12_381_G1_HashToGroup, nil},
		Bls12_381_G2_Add:         b{"bls12_381_G2_add", 0, 2, v3, evalBls12_381_G2_Add, nil},
		Bls12_381_G2_Neg:         b{"bls12_381_G2_neg", 0, 1, v3, evalBls12_381_G2_Neg, nil},
		Bls12_381_G2_ScalarMul:   b{"bls12_381_G2_scalarMul", 0, 2, v3, evalBls12_381_G2_ScalarMul, nil},
		Bls12_381_G2_Equal:       b{"bls12_381_G2_equal", 0, 2, v3, evalBls12_381_G2_Equal, nil},
		Bls12_381_G2_Compress:    b{"bls12_381_G2_compress", 0, 1, v3, evalBls12_381_G2_Compress, nil},
		Bls12_381_G2_Uncompress:  b{"bls12_381_G2_uncompress", 0, 1, v3, evalBls12_381_G2_Uncompress, nil},
		Bls12_381_G2_HashToGroup: b{"bls12_381_G2_hashToGroup", 0, 2, v3, evalBls12_381_G2_HashToGroup, nil},
		Bls12_381_MillerLoop:     b{"bls12_381_millerLoop", 0, 2, v3, evalBls12_381_MillerLoop, nil},
		Bls12_381_MulMlResult:    b{"bls12_381_mulMlResult", 0, 2, v3, evalBls12_381_MulMlResult, nil},
		Bls12_381_FinalVerify:    b{"bls12_381_finalVerify", 0, 2, v3, evalBls12_381_FinalVerify, nil},

		AppendString: b{"appendString", 0, 2, v1, evalAppendString, nil},
		EqualsString: b{"equalsString", 0, 2, v1, evalEqualsString, nil},
		EncodeUtf8:   b{"encodeUtf8", 0, 1, v1, evalEncodeUtf8, nil},
		DecodeUtf8:   b{"decodeUtf8", 0, 1, v1, evalDecodeUtf8, nil},

		IfThenElse: b{"ifThenElse", 1, 3, v1, evalIfThenElse, nil},
		ChooseUnit: b{"chooseUnit", 1, 2, v1, evalChooseUnit, nil},
		Trace:      b{"trace", 1, 2, v1, evalTrace, nil},

		FstPair:    b{"fstPair", 2, 1, v1, evalFstPair, nil},
		SndPair:    b{"sndPair", 2, 1, v1, evalSndPair, nil},
		ChooseList: b{"chooseList", 2, 3, v1, evalChooseList, nil},
		MkCons:     b{"mkCons", 1, 2, v1, evalMkCons, nil},
		HeadList:   b{"headList", 1, 1, v1, evalHeadList, nil},
		TailList:   b{"tailList", 1, 1, v1, evalTailList, nil},
		NullList:   b{"nullList", 1, 1, v1, evalNullList, nil},

		ChooseData:    b{"chooseData", 1, 6, v1, evalChooseData, nil},
		ConstrData:    b{"constrData", 0, 2, v1, evalConstrData, nil},
		MapData:       b{"mapData", 0, 1, v1, evalMapData, nil},
		ListData:      b{"listData", 0, 1, v1, evalListData, nil},
		IData:         b{"iData", 0, 1, v1, evalIData, nil},
		BData:         b{"bData", 0, 1, v1, evalBData, nil},
		UnConstrData:  b{"unConstrData", 0, 1, v1, evalUnConstrData, nil},
		UnMapData:     b{"unMapData", 0, 1, v1, evalUnMapData, nil},
		UnListData:    b{"unListData", 0, 1, v1, evalUnListData, nil},
		UnIData:       b{"unIData", 0, 1, v1, evalUnIData, nil},
		UnBData:       b{"unBData", 0, 1, v1, evalUnBData, nil},
		EqualsData:    b{"equalsData", 0, 2, v1, evalEqualsData, nil},
		MkPairData:    b{"mkPairData", 0, 2, v1, evalMkPairData, nil},
		MkNilData:     b{"mkNilData", 0, 1, v1, evalMkNilData, nil},
		MkNilPairData: b{"mkNilPairData", 0, 1, v1, evalMkNilPairData, nil},
		SerialiseData: b{"serialiseData", 0, 1, v2, evalSerialiseData, nil},

		IntegerToByteString: b{"integerToByteString", 0, 3, v3,
			evalIntegerToByteString, []sizeFunc{exMem, wordsSize, exMem}},
		ByteStringToInteger:  b{"byteStringToInteger", 0, 2, v3, evalByteStringToInteger, nil},
		AndByteString:        b{"andByteString", 0, 3, v3, evalAndByteString, nil},
		OrByteString:         b{"orByteString", 0, 3, v3, evalOrByteString, nil},
		XorByteString:        b{"xorByteString", 0, 3, v3, evalXorByteString, nil},
		ComplementByteString: b{"complementByteString", 0, 1, v3, evalComplementByteString, nil},
		ReadBit:              b{"readBit", 0, 2, v3, evalReadBit, nil},
		WriteBits: b{"writeBits", 0, 3, v3, evalWriteBits,
			[]sizeFunc{exMem, listLength, exMem}},
		ReplicateByte: b{"replicateByte", 0, 2, v3, evalReplicateByte,
			[]sizeFunc{wordsSize, exMem}},
		ShiftByteString: b{"shiftByteString", 0, 2, v3, evalShiftByteString,
			[]sizeFunc{exMem, absLiteralSize}},
		RotateByteString: b{"rotateByteString", 0, 2, v3, evalRotateByteString,
			[]sizeFunc{exMem, absLiteralSize}},
		CountSetBits:    b{"countSetBits", 0, 1, v3, evalCountSetBits, nil},
		FindFirstSetBit: b{"findFirstSetBit", 0, 1, v3, evalFindFirstSetBit, nil},
	}

	for id, info := range table {
		builtinTable[id] = info
		builtinsByName[info.name] = id
	}
}

// String returns the builtin name as written in UPLC listings.
func (fn BuiltinID) String() string {
	if int(fn) < len(builtinTable) && builtinTable[fn].name != "" {
		return builtinTable[fn].name
	}
	return fmt.Sprintf("builtin_%d", uint8(fn))
}

// Arity returns the number of term arguments fn takes.
func (fn BuiltinID) Arity() int {
	return builtinTable[fn].arity
}

// Forces returns the number of forces fn expects before its arguments.
func (fn BuiltinID) Forces() int {
	return builtinTable[fn].forces
}

// Implemented reports whether fn has an implementation.
func (fn BuiltinID) Implemented() bool {
	return int(fn) < len(builtinTable) && builtinTable[fn].eval != nil
}

// BuiltinByName looks up a builtin by its UPLC name.
func BuiltinByName(name string) (BuiltinID, bool) {
	id, ok := builtinsByName[name]
	return id, ok
}

// Builtins returns the implemented builtins available to language l in
// identifier order.
func Builtins(l Language) []BuiltinID {
	var ids []BuiltinID
	for id := range builtinTable {
		if l.Supports(BuiltinID(id)) {
			ids = append(ids, BuiltinID(id))
		}
	}
	return ids
}

// argSizes measures the arguments of a saturated builtin for costing.
func argSizes(fn BuiltinID, args []Value) []int64 {
	sizes := make([]int64, len(args))
	measures := builtinTable[fn].sizes
	for i, arg := range args {
		if i < len(measures) && measures[i] != nil {
			sizes[i] = measures[i](arg)
			continue
		}
		sizes[i] = exMem(arg)
	}
	return sizes
}

// constValue wraps a constant as a value.
func constValue(c Const) Value {
	return &ConstValue{Const: c}
}

func boolValue(b bool) Value {
	return constValue(Bool{Value: b})
}

func intValue(v *big.Int) Value {
	return constValue(Integer{Value: v})
}

func bytesValue(b []byte) Value {
	return constValue(NewByteString(b))
}

// typeMismatch reports an argument of the wrong shape.
func typeMismatch(fn BuiltinID, idx int, want string, got Value) error {
	str := fmt.Sprintf("%v: argument %d is %s, want %s", fn, idx,
		describeValue(got), want)
	return scriptError(ErrTypeMismatch, str)
}

// builtinFailure reports a builtin rejecting well typed arguments.
func builtinFailure(fn BuiltinID, format string, args ...interface{}) error {
	str := fmt.Sprintf("%v: %s", fn, fmt.Sprintf(format, args...))
	return scriptError(ErrBuiltinFailure, str)
}

func describeValue(v Value) string {
	switch v := v.(type) {
	case *ConstValue:
		return "a constant of type " + v.Const.Type().String()
	case *LambdaValue:
		return "a lambda"
	case *DelayValue:
		return "a delayed term"
	case *BuiltinValue:
		return "the builtin " + v.Fn.String()
	case *ConstrValue:
		return fmt.Sprintf("a constr value with tag %d", v.Tag)
	}
	return fmt.Sprintf("an unknown value %T", v)
}

func argConst(fn BuiltinID, args []Value, idx int, want string) (Const, error) {
	c, ok := args[idx].(*ConstValue)
	if !ok {
		return nil, typeMismatch(fn, idx, want, args[idx])
	}
	return c.Const, nil
}

func argInteger(fn BuiltinID, args []Value, idx int) (*big.Int, error) {
	c, err := argConst(fn, args, idx, "integer")
	if err != nil {
		return nil, err
	}
	i, ok := c.(Integer)
	if !ok {
		return nil, typeMismatch(fn, idx, "integer", args[idx])
	}
	return i.Value, nil
}

func argBytes(fn BuiltinID, args []Value, idx int) ([]byte, error) {
	c, err := argConst(fn, args, idx, "bytestring")
	if err != nil {
		return nil, err
	}
	b, ok := c.(ByteString)
	if !ok {
		return nil, typeMismatch(fn, idx, "bytestring", args[idx])
	}
	return b.Bytes, nil
}

func argString(fn BuiltinID, args []Value, idx int) (string, error) {
	c, err := argConst(fn, args, idx, "string")
	if err != nil {
		return "", err
	}
	s, ok := c.(String)
	if !ok {
		return "", typeMismatch(fn, idx, "string", args[idx])
	}
	return s.Text, nil
}

func argBool(fn BuiltinID, args []Value, idx int) (bool, error) {
	c, err := argConst(fn, args, idx, "bool")
	if err != nil {
		return false, err
	}
	b, ok := c.(Bool)
	if !ok {
		return false, typeMismatch(fn, idx, "bool", args[idx])
	}
	return b.Value, nil
}

func argUnit(fn BuiltinID, args []Value, idx int) error {
	c, err := argConst(fn, args, idx, "unit")
	if err != nil {
		return err
	}
	if _, ok := c.(Unit); !ok {
		return typeMismatch(fn, idx, "unit", args[idx])
	}
	return nil
}

func argList(fn BuiltinID, args []Value, idx int) (List, error) {
	c, err := argConst(fn, args, idx, "list")
	if err != nil {
		return List{}, err
	}
	l, ok := c.(List)
	if !ok {
		return List{}, typeMismatch(fn, idx, "list", args[idx])
	}
	return l, nil
}

func argPair(fn BuiltinID, args []Value, idx int) (Pair, error) {
	c, err := argConst(fn, args, idx, "pair")
	if err != nil {
		return Pair{}, err
	}
	p, ok := c.(Pair)
	if !ok {
		return Pair{}, typeMismatch(fn, idx, "pair", args[idx])
	}
	return p, nil
}

func argData(fn BuiltinID, args []Value, idx int) (Data, error) {
	c, err := argConst(fn, args, idx, "data")
	if err != nil {
		return Data{}, err
	}
	d, ok := c.(Data)
	if !ok {
		return Data{}, typeMismatch(fn, idx, "data", args[idx])
	}
	return d, nil
}
