// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/uplcd/plutusdata"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// TypeKind identifies the head of a constant type.
type TypeKind uint8

// These constants define the builtin constant types.
const (
	TypeInteger TypeKind = iota
	TypeByteString
	TypeString
	TypeUnit
	TypeBool
	TypeList
	TypePair
	TypeData
	TypeG1Element
	TypeG2Element
	TypeMlResult
)

// Type is a constant type.  List types carry their element type in Args[0]
// and pair types carry both component types.
type Type struct {
	Kind TypeKind
	Args []Type
}

var (
	IntegerType    = Type{Kind: TypeInteger}
	ByteStringType = Type{Kind: TypeByteString}
	StringType     = Type{Kind: TypeString}
	UnitType       = Type{Kind: TypeUnit}
	BoolType       = Type{Kind: TypeBool}
	DataType       = Type{Kind: TypeData}
	G1ElementType  = Type{Kind: TypeG1Element}
	G2ElementType  = Type{Kind: TypeG2Element}
	MlResultType   = Type{Kind: TypeMlResult}
)

// ListOf returns the type of lists of elem.
func ListOf(elem Type) Type {
	return Type{Kind: TypeList, Args: []Type{elem}}
}

// PairOf returns the type of pairs of first and second.
func PairOf(first, second Type) Type {
	return Type{Kind: TypePair, Args: []Type{first, second}}
}

// Equal reports whether t and o denote the same type.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// String returns the type in UPLC syntax.
func (t Type) String() string {
	switch t.Kind {
	case TypeInteger:
		return "integer"
	case TypeByteString:
		return "bytestring"
	case TypeString:
		return "string"
	case TypeUnit:
		return "unit"
	case TypeBool:
		return "bool"
	case TypeData:
		return "data"
	case TypeG1Element:
		return "bls12_381_G1_element"
	case TypeG2Element:
		return "bls12_381_G2_element"
	case TypeMlResult:
		return "bls12_381_mlresult"
	case TypeList:
		return "(list " + t.Args[0].String() + ")"
	case TypePair:
		return "(pair " + t.Args[0].String() + " " +
			t.Args[1].String() + ")"
	}
	return "unknown"
}

// Const is the interface implemented by constant literals: Integer,
// ByteString, String, Unit, Bool, List, Pair and Data, and the BLS12-381
// values G1Element, G2Element and MlResult.
type Const interface {
	// Type returns the type of the constant.
	Type() Type

	// String returns the literal in UPLC syntax without its type.
	String() string

	isConst()
}

// Integer is an arbitrary precision integer constant.
type Integer struct {
	Value *big.Int
}

// ByteString is a byte string constant.
type ByteString struct {
	Bytes []byte
}

// String is a text constant.
type String struct {
	Text string
}

// Unit is the unit constant.
type Unit struct{}

// Bool is a boolean constant.
type Bool struct {
	Value bool
}

// List is a homogeneous list constant.
type List struct {
	ElemType Type
	Items    []Const
}

// Pair is a pair constant.
type Pair struct {
	First  Const
	Second Const
}

// Data is a PlutusData constant.
type Data struct {
	Value plutusdata.PlutusData
}

// G1Element is a point of the BLS12-381 G1 subgroup.
type G1Element struct {
	Point bls12381.G1Affine
}

// G2Element is a point of the BLS12-381 G2 subgroup.
type G2Element struct {
	Point bls12381.G2Affine
}

// MlResult is the result of a BLS12-381 Miller loop.  It has no literal
// syntax and cannot be serialized.
type MlResult struct {
	Value bls12381.GT
}

func (Integer) isConst()    {}
func (ByteString) isConst() {}
func (String) isConst()     {}
func (Unit) isConst()       {}
func (Bool) isConst()       {}
func (List) isConst()       {}
func (Pair) isConst()       {}
func (Data) isConst()       {}
func (G1Element) isConst()  {}
func (G2Element) isConst()  {}
func (MlResult) isConst()   {}

// Type returns the type of the constant.
func (Integer) Type() Type { return IntegerType }

// Type returns the type of the constant.
func (ByteString) Type() Type { return ByteStringType }

// Type returns the type of the constant.
func (String) Type() Type { return StringType }

// Type returns the type of the constant.
func (Unit) Type() Type { return UnitType }

// Type returns the type of the constant.
func (Bool) Type() Type { return BoolType }

// Type returns the type of the constant.
func (l List) Type() Type { return ListOf(l.ElemType) }

// Type returns the type of the constant.
func (p Pair) Type() Type { return PairOf(p.First.Type(), p.Second.Type()) }

// Type returns the type of the constant.
func (Data) Type() Type { return DataType }

// Type returns the type of the constant.
func (G1Element) Type() Type { return G1ElementType }

// Type returns the type of the constant.
func (G2Element) Type() Type { return G2ElementType }

// Type returns the type of the constant.
func (MlResult) Type() Type { return MlResultType }

// String returns the literal in UPLC syntax.
func (i Integer) String() string { return i.Value.String() }

// String returns the literal in UPLC syntax.
func (b ByteString) String() string { return "#" + hex.EncodeToString(b.Bytes) }

// String returns the literal in UPLC syntax.
func (s String) String() string { return strconv.Quote(s.Text) }

// String returns the literal in UPLC syntax.
func (Unit) String() string { return "()" }

// String returns the literal in UPLC syntax.
func (b Bool) String() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// String returns the literal in UPLC syntax.
func (l List) String() string {
	parts := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		parts = append(parts, item.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// String returns the literal in UPLC syntax.
func (p Pair) String() string {
	return "(" + p.First.String() + ", " + p.Second.String() + ")"
}

// String returns the literal in UPLC syntax.
func (d Data) String() string { return "(" + d.Value.String() + ")" }

// String returns the compressed point in UPLC syntax.
func (g G1Element) String() string {
	b := g.Point.Bytes()
	return "0x" + hex.EncodeToString(b[:])
}

// String returns the compressed point in UPLC syntax.
func (g G2Element) String() string {
	b := g.Point.Bytes()
	return "0x" + hex.EncodeToString(b[:])
}

// String returns a placeholder since Miller loop results have no literal
// syntax.
func (MlResult) String() string { return "<opaque>" }

// NewInteger returns an integer constant for v.
func NewInteger(v int64) Integer {
	return Integer{Value: big.NewInt(v)}
}

// NewBigInteger returns an integer constant holding a copy of v.
func NewBigInteger(v *big.Int) Integer {
	return Integer{Value: new(big.Int).Set(v)}
}

// NewByteString returns a byte string constant.
func NewByteString(b []byte) ByteString {
	if b == nil {
		b = []byte{}
	}
	return ByteString{Bytes: b}
}

// NewList returns a list constant with the given element type.
func NewList(elem Type, items ...Const) List {
	if items == nil {
		items = []Const{}
	}
	return List{ElemType: elem, Items: items}
}

// NewData returns a data constant.
func NewData(d plutusdata.PlutusData) Data {
	return Data{Value: d}
}

// ConstEqual reports whether two constants have the same type and value.
func ConstEqual(a, b Const) bool {
	switch a := a.(type) {
	case Integer:
		b, ok := b.(Integer)
		return ok && a.Value.Cmp(b.Value) == 0
	case ByteString:
		b, ok := b.(ByteString)
		return ok && bytes.Equal(a.Bytes, b.Bytes)
	case String:
		b, ok := b.(String)
		return ok && a.Text == b.Text
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Bool:
		b, ok := b.(Bool)
		return ok && a.Value == b.Value
	case List:
		b, ok := b.(List)
		if !ok || !a.ElemType.Equal(b.ElemType) ||
			len(a.Items) != len(b.Items) {

			return false
		}
		for i := range a.Items {
			if !ConstEqual(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case Pair:
		b, ok := b.(Pair)
		return ok && ConstEqual(a.First, b.First) &&
			ConstEqual(a.Second, b.Second)
	case Data:
		b, ok := b.(Data)
		return ok && plutusdata.Equal(a.Value, b.Value)
	case G1Element:
		b, ok := b.(G1Element)
		return ok && a.Point.Equal(&b.Point)
	case G2Element:
		b, ok := b.(G2Element)
		return ok && a.Point.Equal(&b.Point)
	case MlResult:
		b, ok := b.(MlResult)
		return ok && a.Value.Equal(&b.Value)
	}
	return false
}
