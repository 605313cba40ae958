// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plutusdata

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// PlutusData is the interface implemented by every PlutusData shape.  The set
// of implementations is closed: Constr, Map, List, Integer and ByteString.
type PlutusData interface {
	fmt.Stringer

	isPlutusData()
}

// Constr is a constructor application with a tag and ordered fields.
type Constr struct {
	Tag    uint64
	Fields []PlutusData
}

// Pair is a single key/value entry of a Map.
type Pair struct {
	Key   PlutusData
	Value PlutusData
}

// Map is an ordered association list.  Duplicate keys are permitted.
type Map struct {
	Pairs []Pair
}

// List is an ordered list of values.
type List struct {
	Items []PlutusData
}

// Integer is an arbitrary precision signed integer.
type Integer struct {
	Value *big.Int
}

// ByteString is an opaque byte string.
type ByteString struct {
	Bytes []byte
}

func (Constr) isPlutusData()     {}
func (Map) isPlutusData()        {}
func (List) isPlutusData()       {}
func (Integer) isPlutusData()    {}
func (ByteString) isPlutusData() {}

// NewConstr returns a constructor application with the given tag and fields.
func NewConstr(tag uint64, fields ...PlutusData) Constr {
	if fields == nil {
		fields = []PlutusData{}
	}
	return Constr{Tag: tag, Fields: fields}
}

// NewMap returns a map from the passed pairs.
func NewMap(pairs ...Pair) Map {
	if pairs == nil {
		pairs = []Pair{}
	}
	return Map{Pairs: pairs}
}

// NewList returns a list holding the passed items.
func NewList(items ...PlutusData) List {
	if items == nil {
		items = []PlutusData{}
	}
	return List{Items: items}
}

// NewInteger returns an Integer for a machine sized value.
func NewInteger(v int64) Integer {
	return Integer{Value: big.NewInt(v)}
}

// NewBigInteger returns an Integer holding a copy of v.
func NewBigInteger(v *big.Int) Integer {
	return Integer{Value: new(big.Int).Set(v)}
}

// NewByteString returns a ByteString holding b.
func NewByteString(b []byte) ByteString {
	if b == nil {
		b = []byte{}
	}
	return ByteString{Bytes: b}
}

// Unit is the conventional encoding of the unit value, Constr 0 [].
func Unit() Constr {
	return NewConstr(0)
}

// Bool returns the conventional encoding of a boolean: Constr 1 [] for true
// and Constr 0 [] for false.
func Bool(b bool) Constr {
	if b {
		return NewConstr(1)
	}
	return NewConstr(0)
}

// Just wraps v in the Maybe encoding used by the ledger, Constr 0 [v].
func Just(v PlutusData) Constr {
	return NewConstr(0, v)
}

// Nothing is the empty Maybe, Constr 1 [].
func Nothing() Constr {
	return NewConstr(1)
}

// Equal reports whether a and b are structurally identical.  Map pairs are
// compared in order.
func Equal(a, b PlutusData) bool {
	switch a := a.(type) {
	case Constr:
		b, ok := b.(Constr)
		if !ok || a.Tag != b.Tag || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !Equal(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true

	case Map:
		b, ok := b.(Map)
		if !ok || len(a.Pairs) != len(b.Pairs) {
			return false
		}
		for i := range a.Pairs {
			if !Equal(a.Pairs[i].Key, b.Pairs[i].Key) ||
				!Equal(a.Pairs[i].Value, b.Pairs[i].Value) {

				return false
			}
		}
		return true

	case List:
		b, ok := b.(List)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true

	case Integer:
		b, ok := b.(Integer)
		return ok && a.Value.Cmp(b.Value) == 0

	case ByteString:
		b, ok := b.(ByteString)
		return ok && bytes.Equal(a.Bytes, b.Bytes)
	}
	return false
}

// String returns the value in the textual form used by UPLC listings.
func (c Constr) String() string {
	return fmt.Sprintf("Constr %d %s", c.Tag, joinData(c.Fields))
}

// String returns the value in the textual form used by UPLC listings.
func (m Map) String() string {
	parts := make([]string, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		parts = append(parts, fmt.Sprintf("(%s, %s)", p.Key, p.Value))
	}
	return "Map [" + strings.Join(parts, ", ") + "]"
}

// String returns the value in the textual form used by UPLC listings.
func (l List) String() string {
	return "List " + joinData(l.Items)
}

// String returns the value in the textual form used by UPLC listings.
func (i Integer) String() string {
	return "I " + i.Value.String()
}

// String returns the value in the textual form used by UPLC listings.
func (b ByteString) String() string {
	return "B #" + hex.EncodeToString(b.Bytes)
}

func joinData(items []PlutusData) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
