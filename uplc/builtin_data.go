// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"math/big"

	"github.com/btcsuite/uplcd/plutusdata"
)

var pairDataType = PairOf(DataType, DataType)

func evalFstPair(_ *Machine, args []Value) (Value, error) {
	p, err := argPair(FstPair, args, 0)
	if err != nil {
		return nil, err
	}
	return constValue(p.First), nil
}

func evalSndPair(_ *Machine, args []Value) (Value, error) {
	p, err := argPair(SndPair, args, 0)
	if err != nil {
		return nil, err
	}
	return constValue(p.Second), nil
}

func evalChooseList(_ *Machine, args []Value) (Value, error) {
	l, err := argList(ChooseList, args, 0)
	if err != nil {
		return nil, err
	}
	if len(l.Items) == 0 {
		return args[1], nil
	}
	return args[2], nil
}

// evalMkCons prepends an element whose type must match the element type of
// the list.
func evalMkCons(_ *Machine, args []Value) (Value, error) {
	head, err := argConst(MkCons, args, 0, "constant")
	if err != nil {
		return nil, err
	}
	l, err := argList(MkCons, args, 1)
	if err != nil {
		return nil, err
	}
	if !head.Type().Equal(l.ElemType) {
		return nil, typeMismatch(MkCons, 0, l.ElemType.String(), args[0])
	}
	items := make([]Const, 0, len(l.Items)+1)
	items = append(items, head)
	items = append(items, l.Items...)
	return constValue(List{ElemType: l.ElemType, Items: items}), nil
}

func evalHeadList(_ *Machine, args []Value) (Value, error) {
	l, err := argList(HeadList, args, 0)
	if err != nil {
		return nil, err
	}
	if len(l.Items) == 0 {
		return nil, builtinFailure(HeadList, "empty list")
	}
	return constValue(l.Items[0]), nil
}

func evalTailList(_ *Machine, args []Value) (Value, error) {
	l, err := argList(TailList, args, 0)
	if err != nil {
		return nil, err
	}
	if len(l.Items) == 0 {
		return nil, builtinFailure(TailList, "empty list")
	}
	return constValue(List{ElemType: l.ElemType, Items: l.Items[1:]}), nil
}

func evalNullList(_ *Machine, args []Value) (Value, error) {
	l, err := argList(NullList, args, 0)
	if err != nil {
		return nil, err
	}
	return boolValue(len(l.Items) == 0), nil
}

// evalChooseData selects one of five branches by the variant of its data
// argument: constr, map, list, integer and bytes.
func evalChooseData(_ *Machine, args []Value) (Value, error) {
	d, err := argData(ChooseData, args, 0)
	if err != nil {
		return nil, err
	}
	switch d.Value.(type) {
	case plutusdata.Constr:
		return args[1], nil
	case plutusdata.Map:
		return args[2], nil
	case plutusdata.List:
		return args[3], nil
	case plutusdata.Integer:
		return args[4], nil
	default:
		return args[5], nil
	}
}

// dataItems unlifts a list of data.
func dataItems(fn BuiltinID, args []Value, idx int) ([]plutusdata.PlutusData, error) {
	l, err := argList(fn, args, idx)
	if err != nil {
		return nil, err
	}
	if !l.ElemType.Equal(DataType) {
		return nil, typeMismatch(fn, idx, "(list data)", args[idx])
	}
	items := make([]plutusdata.PlutusData, 0, len(l.Items))
	for _, item := range l.Items {
		items = append(items, item.(Data).Value)
	}
	return items, nil
}

// dataList lifts a slice of data into a list constant.
func dataList(items []plutusdata.PlutusData) List {
	consts := make([]Const, 0, len(items))
	for _, item := range items {
		consts = append(consts, Data{Value: item})
	}
	return NewList(DataType, consts...)
}

func evalConstrData(_ *Machine, args []Value) (Value, error) {
	tag, err := argInteger(ConstrData, args, 0)
	if err != nil {
		return nil, err
	}
	fields, err := dataItems(ConstrData, args, 1)
	if err != nil {
		return nil, err
	}
	if tag.Sign() < 0 || !tag.IsUint64() {
		return nil, builtinFailure(ConstrData, "tag %v out of range", tag)
	}
	return constValue(Data{Value: plutusdata.NewConstr(tag.Uint64(),
		fields...)}), nil
}

func evalMapData(_ *Machine, args []Value) (Value, error) {
	l, err := argList(MapData, args, 0)
	if err != nil {
		return nil, err
	}
	if !l.ElemType.Equal(pairDataType) {
		return nil, typeMismatch(MapData, 0, "(list (pair data data))",
			args[0])
	}
	pairs := make([]plutusdata.Pair, 0, len(l.Items))
	for _, item := range l.Items {
		p := item.(Pair)
		pairs = append(pairs, plutusdata.Pair{
			Key:   p.First.(Data).Value,
			Value: p.Second.(Data).Value,
		})
	}
	return constValue(Data{Value: plutusdata.NewMap(pairs...)}), nil
}

func evalListData(_ *Machine, args []Value) (Value, error) {
	items, err := dataItems(ListData, args, 0)
	if err != nil {
		return nil, err
	}
	return constValue(Data{Value: plutusdata.NewList(items...)}), nil
}

func evalIData(_ *Machine, args []Value) (Value, error) {
	i, err := argInteger(IData, args, 0)
	if err != nil {
		return nil, err
	}
	return constValue(Data{Value: plutusdata.NewBigInteger(i)}), nil
}

func evalBData(_ *Machine, args []Value) (Value, error) {
	b, err := argBytes(BData, args, 0)
	if err != nil {
		return nil, err
	}
	return constValue(Data{Value: plutusdata.NewByteString(b)}), nil
}

func evalUnConstrData(_ *Machine, args []Value) (Value, error) {
	d, err := argData(UnConstrData, args, 0)
	if err != nil {
		return nil, err
	}
	c, ok := d.Value.(plutusdata.Constr)
	if !ok {
		return nil, builtinFailure(UnConstrData, "not a constr: %v", d.Value)
	}
	tag := new(big.Int).SetUint64(c.Tag)
	return constValue(Pair{
		First:  Integer{Value: tag},
		Second: dataList(c.Fields),
	}), nil
}

func evalUnMapData(_ *Machine, args []Value) (Value, error) {
	d, err := argData(UnMapData, args, 0)
	if err != nil {
		return nil, err
	}
	m, ok := d.Value.(plutusdata.Map)
	if !ok {
		return nil, builtinFailure(UnMapData, "not a map: %v", d.Value)
	}
	pairs := make([]Const, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		pairs = append(pairs, Pair{
			First:  Data{Value: p.Key},
			Second: Data{Value: p.Value},
		})
	}
	return constValue(NewList(pairDataType, pairs...)), nil
}

func evalUnListData(_ *Machine, args []Value) (Value, error) {
	d, err := argData(UnListData, args, 0)
	if err != nil {
		return nil, err
	}
	l, ok := d.Value.(plutusdata.List)
	if !ok {
		return nil, builtinFailure(UnListData, "not a list: %v", d.Value)
	}
	return constValue(dataList(l.Items)), nil
}

func evalUnIData(_ *Machine, args []Value) (Value, error) {
	d, err := argData(UnIData, args, 0)
	if err != nil {
		return nil, err
	}
	i, ok := d.Value.(plutusdata.Integer)
	if !ok {
		return nil, builtinFailure(UnIData, "not an integer: %v", d.Value)
	}
	return intValue(i.Value), nil
}

func evalUnBData(_ *Machine, args []Value) (Value, error) {
	d, err := argData(UnBData, args, 0)
	if err != nil {
		return nil, err
	}
	b, ok := d.Value.(plutusdata.ByteString)
	if !ok {
		return nil, builtinFailure(UnBData, "not a byte string: %v", d.Value)
	}
	return bytesValue(b.Bytes), nil
}

func evalEqualsData(_ *Machine, args []Value) (Value, error) {
	x, err := argData(EqualsData, args, 0)
	if err != nil {
		return nil, err
	}
	y, err := argData(EqualsData, args, 1)
	if err != nil {
		return nil, err
	}
	return boolValue(plutusdata.Equal(x.Value, y.Value)), nil
}

func evalMkPairData(_ *Machine, args []Value) (Value, error) {
	x, err := argData(MkPairData, args, 0)
	if err != nil {
		return nil, err
	}
	y, err := argData(MkPairData, args, 1)
	if err != nil {
		return nil, err
	}
	return constValue(Pair{First: x, Second: y}), nil
}

func evalMkNilData(_ *Machine, args []Value) (Value, error) {
	if err := argUnit(MkNilData, args, 0); err != nil {
		return nil, err
	}
	return constValue(NewList(DataType)), nil
}

func evalMkNilPairData(_ *Machine, args []Value) (Value, error) {
	if err := argUnit(MkNilPairData, args, 0); err != nil {
		return nil, err
	}
	return constValue(NewList(pairDataType)), nil
}

func evalSerialiseData(_ *Machine, args []Value) (Value, error) {
	d, err := argData(SerialiseData, args, 0)
	if err != nil {
		return nil, err
	}
	return bytesValue(plutusdata.Encode(d.Value)), nil
}
