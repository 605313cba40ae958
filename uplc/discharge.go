// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

// Discharge converts a value back into a closed term by substituting the
// environment of every closure into its body.  Partially applied builtins
// become the builtin with its forces and arguments reapplied.
func Discharge(v Value) Term {
	switch v := v.(type) {
	case *ConstValue:
		return &Constant{Value: v.Const}

	case *LambdaValue:
		return &Lambda{Body: dischargeTerm(v.body, v.env, 1)}

	case *DelayValue:
		return &Delay{Body: dischargeTerm(v.body, v.env, 0)}

	case *BuiltinValue:
		var t Term = &Builtin{Fn: v.Fn}
		for i := v.forces; i < builtinTable[v.Fn].forces; i++ {
			t = &Force{Body: t}
		}
		for _, arg := range v.args {
			t = &Apply{Function: t, Argument: Discharge(arg)}
		}
		return t

	case *ConstrValue:
		fields := make([]Term, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, Discharge(f))
		}
		return &Constr{Tag: v.Tag, Fields: fields}
	}
	return &ErrorTerm{}
}

// envLen returns the number of bindings in e.
func envLen(e *env) int {
	n := 0
	for ; e != nil; e = e.next {
		n++
	}
	return n
}

// dischargeTerm substitutes the bindings of e into t, which sits under depth
// binders that are not part of e.
func dischargeTerm(t Term, e *env, depth int) Term {
	if e == nil {
		return t
	}

	switch t := t.(type) {
	case *Var:
		if t.Index < depth {
			return t
		}
		if v, ok := e.lookup(t.Index - depth); ok {
			return Discharge(v)
		}
		return &Var{Index: t.Index - envLen(e)}

	case *Lambda:
		return &Lambda{Body: dischargeTerm(t.Body, e, depth+1)}

	case *Apply:
		return &Apply{
			Function: dischargeTerm(t.Function, e, depth),
			Argument: dischargeTerm(t.Argument, e, depth),
		}

	case *Delay:
		return &Delay{Body: dischargeTerm(t.Body, e, depth)}

	case *Force:
		return &Force{Body: dischargeTerm(t.Body, e, depth)}

	case *Constr:
		fields := make([]Term, 0, len(t.Fields))
		for _, f := range t.Fields {
			fields = append(fields, dischargeTerm(f, e, depth))
		}
		return &Constr{Tag: t.Tag, Fields: fields}

	case *Case:
		branches := make([]Term, 0, len(t.Branches))
		for _, b := range t.Branches {
			branches = append(branches, dischargeTerm(b, e, depth))
		}
		return &Case{
			Scrutinee: dischargeTerm(t.Scrutinee, e, depth),
			Branches:  branches,
		}
	}

	// Constants, builtins and the error term have no variables.
	return t
}
