// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package uplc implements evaluation of untyped Plutus core (UPLC) programs.

Terms

A program is a tree of terms: variables addressed by de Bruijn index, lambda
abstractions, applications, delayed and forced computations, typed constants,
references to builtin functions, constructor values with case analysis, and
the explicit error term.  Terms are immutable once built and may be shared
freely between goroutines.

Machine

Terms are reduced by a CEK machine (Machine) that keeps an explicit frame
stack instead of recursing on the Go stack.  Every step charges the cost of
its step kind against a Budget, and every saturated builtin charges a cost
computed from the sizes of its actual arguments, so a script can never run
for free.  A Machine is single use and not safe for concurrent access;
independent evaluations should each use their own Machine while sharing the
read-only CostModel.

Parameter application

ApplyParams specializes a parameterized script by applying it to its
parameters and normalizing the result with the machine.

Errors

Errors returned by this package are of type uplc.Error, or BudgetError for
budget exhaustion.  Both support errors.Is against the ErrorKind values, for
example errors.Is(err, uplc.ErrOutOfBudget).
*/
package uplc
