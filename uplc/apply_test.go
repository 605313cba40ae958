// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

import (
	"context"
	"testing"

	"github.com/btcsuite/uplcd/plutusdata"
	"github.com/stretchr/testify/require"
)

// twoParamScript is \a \b -> \ctx -> a - b, a validator taking two
// parameters before its context.
func twoParamScript() Term {
	return lam(lam(lam(app(builtin(SubtractInteger), vr(2), vr(1)))))
}

// TestApplyParams ensures parameters bind the outermost lambdas in order and
// the result is normalized.
func TestApplyParams(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, err := ApplyParams(ctx, twoParamScript(),
		[]Term{conInt(10), conInt(3)}, nil)
	require.NoError(t, err)
	require.Equal(t, "(lam i_0 [[(builtin subtractInteger) (con integer 10)] "+
		"(con integer 3)])", Pretty(got))

	// No parameter slots remain: applying the context finishes the
	// computation.
	res := Eval(ctx, app(got, NewConstant(Unit{})), MaxExBudget,
		DefaultCostModel(), 0)
	requireConst(t, res, NewInteger(7))

	// Swapping the parameters silently yields a different script.
	swapped, err := ApplyParams(ctx, twoParamScript(),
		[]Term{conInt(3), conInt(10)}, nil)
	require.NoError(t, err)
	require.NotEqual(t, Pretty(got), Pretty(swapped))
}

// TestApplyParamsAssociative ensures applying parameters one at a time with
// normalization in between matches applying them together.
func TestApplyParamsAssociative(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, b := conInt(4), NewConstant(NewData(plutusdata.NewInteger(9)))

	both, err := ApplyParams(ctx, twoParamScript(), []Term{a, b}, nil)
	require.NoError(t, err)

	partial, err := ApplyParams(ctx, twoParamScript(), []Term{a}, nil)
	require.NoError(t, err)
	stepwise, err := ApplyParams(ctx, partial, []Term{b}, nil)
	require.NoError(t, err)

	require.Equal(t, Pretty(both), Pretty(stepwise))
}

// TestApplyParamsMissing ensures a script given too few parameters keeps an
// unresolved parameter slot that fails once the script is used.
func TestApplyParamsMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	got, err := ApplyParams(ctx, twoParamScript(), []Term{conInt(10)}, nil)
	require.NoError(t, err)
	require.Equal(t, "(lam i_0 (lam i_1 [[(builtin subtractInteger) "+
		"(con integer 10)] i_0]))", Pretty(got))

	// The context lands in the missing parameter slot and the script
	// returns a closure instead of a result.
	res := Eval(ctx, app(got, NewConstant(Unit{})), MaxExBudget,
		DefaultCostModel(), 0)
	require.NoError(t, res.Err)
	_, isLambda := res.Value.(*LambdaValue)
	require.True(t, isLambda)

	// Using that closure as a result fails.
	term := app(builtin(AddInteger), conInt(1), app(got, conInt(2)))
	res = Eval(ctx, term, MaxExBudget, DefaultCostModel(), 0)
	require.ErrorIs(t, res.Err, ErrTypeMismatch)
}

// TestApplyParamsErrors ensures normalization failures are reported.
func TestApplyParamsErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// A script that rejects its parameter while specializing.
	rejecting := lam(&ErrorTerm{})
	_, err := ApplyParams(ctx, rejecting, []Term{conInt(1)}, nil)
	require.ErrorIs(t, err, ErrScriptError)

	// A script that never normalizes hits the configured ceiling.
	looping := lam(omega())
	cfg := &ApplyConfig{Budget: &ExBudget{CPU: 1000, Mem: 1000}}
	_, err = ApplyParams(ctx, looping, []Term{conInt(1)}, cfg)
	require.ErrorIs(t, err, ErrOutOfBudget)

	// Without a configured ceiling the loop stops at MaxApplyBudget.
	_, err = ApplyParams(ctx, looping, []Term{conInt(1)}, nil)
	require.ErrorIs(t, err, ErrOutOfBudget)

	// A zero ceiling is honored rather than replaced by the default.
	identity := lam(vr(0))
	cfg = &ApplyConfig{Budget: &ExBudget{}}
	_, err = ApplyParams(ctx, identity, []Term{conInt(1)}, cfg)
	require.ErrorIs(t, err, ErrOutOfBudget)

	// A builtin fault during specialization.
	dividing := lam(app(builtin(DivideInteger), vr(0), conInt(0)))
	_, err = ApplyParams(ctx, dividing, []Term{conInt(1)}, nil)
	require.ErrorIs(t, err, ErrBuiltinFailure)
}

// TestApplyParamsData ensures data parameters are applied as data
// constants.
func TestApplyParamsData(t *testing.T) {
	t.Parallel()

	script := lam(lam(app(builtin(UnIData), vr(1))))
	got, err := ApplyParamsData(context.Background(), script,
		[]plutusdata.PlutusData{plutusdata.NewInteger(5)}, nil)
	require.NoError(t, err)
	require.Equal(t, "(lam i_0 [(builtin unIData) (con data (I 5))])",
		Pretty(got))
}

// TestPrettyProgram ensures programs print with their version.
func TestPrettyProgram(t *testing.T) {
	t.Parallel()

	p := &Program{
		Version: Version110,
		Term: &Case{
			Scrutinee: &Constr{Tag: 0, Fields: []Term{conBool(false)}},
			Branches:  []Term{lam(vr(0)), &ErrorTerm{}},
		},
	}
	require.Equal(t, "(program 1.1.0 (case (constr 0 (con bool False)) "+
		"(lam i_0 i_0) (error)))", PrettyProgram(p))
	require.Equal(t, "free_3", Pretty(vr(3)))
	require.Equal(t, "(con (list integer) [1, 2])", Pretty(intList(1, 2)))
}
