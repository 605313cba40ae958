// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"context"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// Term construction shorthands used throughout the tests.
func conInt(i int64) Term { return NewConstant(NewInteger(i)) }
func conBool(b bool) Term { return NewConstant(Bool{Value: b}) }
func conStr(s string) Term { return NewConstant(String{Text: s}) }
func conBytes(b []byte) Term { return NewConstant(NewByteString(b)) }
func lam(body Term) Term { return &Lambda{Body: body} }
func vr(i int) Term { return &Var{Index: i} }
func force(t Term) Term { return &Force{Body: t} }
func delay(t Term) Term { return &Delay{Body: t} }
func builtin(fn BuiltinID) Term { return &Builtin{Fn: fn} }
func app(fn Term, args ...Term) Term { return ApplyTerms(fn, args...) }

// omega is the non-terminating term (\x -> x x) (\x -> x x).
func omega() Term {
	self := lam(app(vr(0), vr(0)))
	return app(self, self)
}

// charging returns a cost model with no startup cost that charges one unit
// for each of the given step kinds and nothing for the rest.
func charging(kinds ...StepKind) *CostModel {
	cm := UniformCostModel(ExBudget{})
	for _, kind := range kinds {
		cm.Steps[kind] = ExBudget{CPU: 1, Mem: 1}
	}
	return cm
}

func requireConst(t *testing.T, res *EvalResult, want Const) {
	t.Helper()

	require.NoError(t, res.Err)
	c, ok := res.Value.(*ConstValue)
	require.True(t, ok, "value is %s", spew.Sdump(res.Value))
	require.True(t, ConstEqual(want, c.Const), "got %v, want %v",
		c.Const, want)
}

// TestEvalConstantExactBudget ensures a constant evaluated under a budget of
// exactly one step succeeds and leaves nothing.
func TestEvalConstantExactBudget(t *testing.T) {
	t.Parallel()

	costs := UniformCostModel(ExBudget{CPU: 1, Mem: 1})
	res := Eval(context.Background(), conInt(42), ExBudget{CPU: 1, Mem: 1},
		costs, 0)
	requireConst(t, res, NewInteger(42))
	require.Equal(t, ExBudget{}, res.Remaining)
	require.Equal(t, ExBudget{CPU: 1, Mem: 1}, res.Consumed)
	require.Equal(t, "(con integer 42)", Pretty(res.Term))
}

// TestEvalIdentity ensures beta reduction and the variable lookup are the
// only charged steps of applying the identity.
func TestEvalIdentity(t *testing.T) {
	t.Parallel()

	costs := charging(StepApply, StepVar)
	term := app(lam(vr(0)), conInt(7))
	res := Eval(context.Background(), term, ExBudget{CPU: 10, Mem: 10},
		costs, MachineRecordBudget)
	requireConst(t, res, NewInteger(7))
	require.Equal(t, ExBudget{CPU: 2, Mem: 2}, res.Consumed)

	// The log holds every debit, including the free ones.
	require.NotEmpty(t, res.BudgetLog)
	require.Equal(t, res.Remaining, res.BudgetLog[len(res.BudgetLog)-1])
}

// TestEvalErrorTerm ensures the error term fails with a script error no
// matter the budget and consumes only what was spent to reach it.
func TestEvalErrorTerm(t *testing.T) {
	t.Parallel()

	costs := UniformCostModel(ExBudget{CPU: 1, Mem: 1})
	budgets := []ExBudget{{}, {CPU: 1, Mem: 1}, {CPU: 1000, Mem: 1000}}
	for _, budget := range budgets {
		res := Eval(context.Background(), &ErrorTerm{}, budget, costs, 0)
		require.ErrorIs(t, res.Err, ErrScriptError)
		require.Nil(t, res.Term)
		require.Equal(t, ExBudget{}, res.Consumed)
	}

	// Reaching the error under a delay costs the force and the delay.
	term := force(delay(&ErrorTerm{}))
	res := Eval(context.Background(), term, ExBudget{CPU: 10, Mem: 10},
		costs, 0)
	require.ErrorIs(t, res.Err, ErrScriptError)
	require.Equal(t, ExBudget{CPU: 2, Mem: 2}, res.Consumed)
}

// TestEvalZeroBudget ensures a zero budget fails before any step under the
// default cost model.
func TestEvalZeroBudget(t *testing.T) {
	t.Parallel()

	for _, term := range []Term{conInt(1), &ErrorTerm{}, omega()} {
		res := Eval(context.Background(), term, ExBudget{},
			DefaultCostModel(), 0)
		require.ErrorIs(t, res.Err, ErrOutOfBudget)

		var berr BudgetError
		require.True(t, errors.As(res.Err, &berr))
		require.Equal(t, DimensionBoth, berr.Dimension)
		require.Equal(t, ExBudget{}, res.Consumed)
	}
}

// TestEvalBuiltinCost ensures builtins are charged by the sizes of their
// actual arguments on top of the step costs.
func TestEvalBuiltinCost(t *testing.T) {
	t.Parallel()

	term := app(builtin(AddInteger), conInt(2), conInt(3))
	res := Eval(context.Background(), term, MaxExBudget,
		DefaultCostModel(), 0)
	requireConst(t, res, NewInteger(5))

	// Startup, five steps of 16000/100 and addInteger on one word
	// arguments.
	require.Equal(t, ExBudget{CPU: 100 + 5*16000 + 101208,
		Mem: 100 + 5*100 + 2}, res.Consumed)
}

// TestEvalDeterminism ensures repeated evaluation yields identical results
// and budgets.
func TestEvalDeterminism(t *testing.T) {
	t.Parallel()

	// Sum of an integer list through a self applied recursive function.
	ints := NewList(IntegerType, NewInteger(1), NewInteger(2),
		NewInteger(3), NewInteger(4))
	// rec = \self \xs -> chooseList xs (\_ -> 0) (\_ -> head xs + self self (tail xs)) ()
	body := app(
		force(force(builtin(ChooseList))),
		vr(0),
		lam(conInt(0)),
		lam(app(builtin(AddInteger),
			app(force(builtin(HeadList)), vr(1)),
			app(vr(2), vr(2), app(force(builtin(TailList)), vr(1))))),
		NewConstant(Unit{}),
	)
	rec := lam(lam(body))
	term := app(rec, rec, NewConstant(ints))

	first := Eval(context.Background(), term, MaxExBudget,
		DefaultCostModel(), MachineRecordBudget)
	second := Eval(context.Background(), term, MaxExBudget,
		DefaultCostModel(), MachineRecordBudget)
	requireConst(t, first, NewInteger(10))
	require.Equal(t, first.Consumed, second.Consumed)
	require.Equal(t, first.BudgetLog, second.BudgetLog)
	require.Equal(t, Pretty(first.Term), Pretty(second.Term))
}

// TestEvalFailures ensures ill formed reductions fail with the expected
// error kinds.
func TestEvalFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		term Term
		kind ErrorKind
	}{
		{"open term", vr(0), ErrOpenTermEvaluated},
		{"open term under lambda", app(lam(vr(1)), conInt(1)), ErrOpenTermEvaluated},
		{"force constant", force(conInt(1)), ErrTypeMismatch},
		{"apply constant", app(conInt(1), conInt(2)), ErrTypeMismatch},
		{"apply delay", app(delay(conInt(1)), conInt(2)), ErrTypeMismatch},
		{"builtin applied before force", app(builtin(IfThenElse), conBool(true)), ErrTypeMismatch},
		{"builtin forced twice", force(force(builtin(IfThenElse))), ErrTypeMismatch},
		{"builtin forced without forces", force(builtin(AddInteger)), ErrTypeMismatch},
		{"builtin argument type", app(builtin(AddInteger), conInt(1), conStr("x")), ErrTypeMismatch},
		{"builtin failure", app(builtin(DivideInteger), conInt(1), conInt(0)), ErrBuiltinFailure},
		{"case on constant", &Case{Scrutinee: conInt(1), Branches: []Term{conInt(1)}}, ErrTypeMismatch},
		{"case without branch", &Case{Scrutinee: &Constr{Tag: 2}, Branches: []Term{conInt(1)}}, ErrTypeMismatch},
		{"unimplemented builtin", builtin(BuiltinID(60)), ErrInvalidTerm},
		{"diverges", omega(), ErrOutOfBudget},
	}

	budget := ExBudget{CPU: 1000000, Mem: 1000000}
	for _, test := range tests {
		res := Eval(context.Background(), test.term, budget,
			DefaultCostModel(), 0)
		require.ErrorIs(t, res.Err, test.kind, test.name)
		require.Nil(t, res.Value, test.name)
	}
}

// TestEvalLanguageAvailability ensures builtins introduced in later
// languages are rejected by earlier cost models.
func TestEvalLanguageAvailability(t *testing.T) {
	t.Parallel()

	term := app(builtin(SerialiseData),
		NewConstant(NewData(nil)))
	res := Eval(context.Background(), term, MaxExBudget,
		DefaultCostModelFor(LanguageV1), 0)
	require.ErrorIs(t, res.Err, ErrInvalidTerm)
}

// TestEvalConstrCase ensures case applies the selected branch to the fields
// of the constructor in order.
func TestEvalConstrCase(t *testing.T) {
	t.Parallel()

	scrutinee := &Constr{Tag: 1, Fields: []Term{conInt(10), conInt(3)}}
	term := &Case{
		Scrutinee: scrutinee,
		Branches: []Term{
			&ErrorTerm{},
			lam(lam(app(builtin(SubtractInteger), vr(1), vr(0)))),
		},
	}
	res := Eval(context.Background(), term, MaxExBudget, DefaultCostModel(),
		0)
	requireConst(t, res, NewInteger(7))

	// Constructor values discharge back to constr terms.
	res = Eval(context.Background(), scrutinee, MaxExBudget,
		DefaultCostModel(), 0)
	require.NoError(t, res.Err)
	require.Equal(t, "(constr 1 (con integer 10) (con integer 3))",
		Pretty(res.Term))
}

// TestEvalTrace ensures trace messages are collected in order unless the
// machine discards them.
func TestEvalTrace(t *testing.T) {
	t.Parallel()

	trace := func(msg string, next Term) Term {
		return app(force(builtin(Trace)), conStr(msg), next)
	}
	term := trace("first", trace("second", conInt(1)))

	res := Eval(context.Background(), term, MaxExBudget, DefaultCostModel(),
		0)
	requireConst(t, res, NewInteger(1))
	require.Equal(t, []string{"second", "first"}, res.Logs)

	res = Eval(context.Background(), term, MaxExBudget, DefaultCostModel(),
		MachineNoTrace)
	requireConst(t, res, NewInteger(1))
	require.Empty(t, res.Logs)
}

// TestMachineLimits ensures the step limit and context cancellation stop a
// diverging evaluation.
func TestMachineLimits(t *testing.T) {
	t.Parallel()

	m := NewMachine(DefaultCostModel(), MaxExBudget, 0)
	m.SetStepLimit(500)
	_, err := m.Run(context.Background(), omega())
	require.ErrorIs(t, err, ErrStepLimit)
	require.Equal(t, uint64(501), m.Steps())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m = NewMachine(DefaultCostModel(), MaxExBudget, 0)
	_, err = m.Run(ctx, omega())
	require.ErrorIs(t, err, ErrAborted)
	require.Equal(t, uint64(ctxCheckInterval), m.Steps())
}

// TestDischargePartialBuiltin ensures partially applied builtins discharge to
// the builtin with its forces and arguments.
func TestDischargePartialBuiltin(t *testing.T) {
	t.Parallel()

	term := app(force(builtin(IfThenElse)), conBool(true))
	res := Eval(context.Background(), term, MaxExBudget, DefaultCostModel(),
		0)
	require.NoError(t, res.Err)
	require.Equal(t, "[(force (builtin ifThenElse)) (con bool True)]",
		Pretty(res.Term))

	// A closure discharges with its environment substituted.
	term = app(lam(lam(app(vr(1), vr(0)))), builtin(Sha2_256))
	res = Eval(context.Background(), term, MaxExBudget, DefaultCostModel(),
		0)
	require.NoError(t, res.Err)
	require.Equal(t, "(lam i_0 [(builtin sha2_256) i_0])", Pretty(res.Term))
}
