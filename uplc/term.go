// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import "fmt"

// Term is the interface implemented by every UPLC term.  The set of
// implementations is closed and all of them are pointers to immutable
// structs.
type Term interface {
	isTerm()
}

// Var references a binder by de Bruijn index.  Index 0 is the innermost
// enclosing lambda.
type Var struct {
	Index int
}

// Lambda is a single argument abstraction.
type Lambda struct {
	Body Term
}

// Apply applies Function to Argument.
type Apply struct {
	Function Term
	Argument Term
}

// Delay suspends the evaluation of Body until it is forced.
type Delay struct {
	Body Term
}

// Force evaluates Body, which must produce a delayed computation or a
// builtin awaiting a type instantiation, and runs it.
type Force struct {
	Body Term
}

// Constant is a typed literal.
type Constant struct {
	Value Const
}

// Builtin references a builtin function.
type Builtin struct {
	Fn BuiltinID
}

// ErrorTerm aborts evaluation.
type ErrorTerm struct{}

// Constr builds a constructor value with a tag and evaluated fields.
type Constr struct {
	Tag    uint64
	Fields []Term
}

// Case evaluates Scrutinee to a constructor value and applies the branch
// selected by its tag to its fields.
type Case struct {
	Scrutinee Term
	Branches  []Term
}

func (*Var) isTerm()       {}
func (*Lambda) isTerm()    {}
func (*Apply) isTerm()     {}
func (*Delay) isTerm()     {}
func (*Force) isTerm()     {}
func (*Constant) isTerm()  {}
func (*Builtin) isTerm()   {}
func (*ErrorTerm) isTerm() {}
func (*Constr) isTerm()    {}
func (*Case) isTerm()      {}

// Version is a program version triple.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// String returns the version in dotted form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

var (
	// Version100 is the program version understood by every language.
	Version100 = Version{1, 0, 0}

	// Version110 is the program version that adds constr and case.
	Version110 = Version{1, 1, 0}
)

// Program is a versioned term.
type Program struct {
	Version Version
	Term    Term
}

// ApplyTerms returns fn applied to each of args in order, so that the first
// argument ends up in the innermost application.
func ApplyTerms(fn Term, args ...Term) Term {
	for _, arg := range args {
		fn = &Apply{Function: fn, Argument: arg}
	}
	return fn
}

// NewConstant returns a constant term for c.
func NewConstant(c Const) *Constant {
	return &Constant{Value: c}
}
