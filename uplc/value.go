// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

// Value is the result of reducing a term.  Values are only produced by the
// Machine.
type Value interface {
	isValue()
}

// ConstValue is an evaluated constant.
type ConstValue struct {
	Const Const
}

// LambdaValue is a closure: a lambda body together with the environment it
// was created in.
type LambdaValue struct {
	body Term
	env  *env
}

// DelayValue is a suspended computation with its environment.
type DelayValue struct {
	body Term
	env  *env
}

// BuiltinValue is a builtin function with the forces and arguments it has
// received so far.
type BuiltinValue struct {
	Fn     BuiltinID
	forces int
	args   []Value
}

// ConstrValue is an evaluated constructor value.
type ConstrValue struct {
	Tag    uint64
	Fields []Value
}

func (*ConstValue) isValue()   {}
func (*LambdaValue) isValue()  {}
func (*DelayValue) isValue()   {}
func (*BuiltinValue) isValue() {}
func (*ConstrValue) isValue()  {}

// env is an immutable environment frame.  Frames are shared by every closure
// captured while they were current and are never modified after creation.
type env struct {
	value Value
	next  *env
}

// extend returns a new frame binding v in front of e.
func (e *env) extend(v Value) *env {
	return &env{value: v, next: e}
}

// lookup returns the value bound at de Bruijn index idx.
func (e *env) lookup(idx int) (Value, bool) {
	if idx < 0 {
		return nil, false
	}
	for ; e != nil; e = e.next {
		if idx == 0 {
			return e.value, true
		}
		idx--
	}
	return nil, false
}

// newBuiltinValue returns an unapplied builtin.
func newBuiltinValue(fn BuiltinID) *BuiltinValue {
	return &BuiltinValue{Fn: fn, forces: builtinTable[fn].forces}
}

// withArg returns a copy of b with arg appended.  The argument slice is
// copied since partially applied builtins may be shared.
func (b *BuiltinValue) withArg(arg Value) *BuiltinValue {
	args := make([]Value, len(b.args)+1)
	copy(args, b.args)
	args[len(b.args)] = arg
	return &BuiltinValue{Fn: b.Fn, forces: b.forces, args: args}
}

// saturated reports whether b has all of its arguments.
func (b *BuiltinValue) saturated() bool {
	return b.forces == 0 && len(b.args) == builtinTable[b.Fn].arity
}
