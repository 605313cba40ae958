// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uplc

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrOutOfBudget indicates a step or builtin cost exceeded the
	// remaining budget in at least one dimension.  It is returned wrapped
	// in a BudgetError.
	ErrOutOfBudget = ErrorKind("ErrOutOfBudget")

	// ErrTypeMismatch indicates a value was used at the wrong shape: forcing
	// something that is not delayed, applying something that is not a
	// function, passing a constant of the wrong type to a builtin, or a case
	// over a value that is not a constructor.
	ErrTypeMismatch = ErrorKind("ErrTypeMismatch")

	// ErrOpenTermEvaluated indicates a variable index did not resolve in
	// the current environment.  Well formed scripts never trigger it.
	ErrOpenTermEvaluated = ErrorKind("ErrOpenTermEvaluated")

	// ErrScriptError indicates the script evaluated the explicit error term.
	ErrScriptError = ErrorKind("ErrScriptError")

	// ErrBuiltinFailure indicates a saturated builtin rejected its
	// arguments, for example a division by zero or the head of an empty
	// list.
	ErrBuiltinFailure = ErrorKind("ErrBuiltinFailure")

	// ErrStepLimit indicates the configured step limit was reached.
	ErrStepLimit = ErrorKind("ErrStepLimit")

	// ErrAborted indicates the evaluation was cancelled through its
	// context.
	ErrAborted = ErrorKind("ErrAborted")

	// ErrInvalidCostModel indicates a cost model could not be built from
	// the supplied parameters or violates the positive step cost rule.
	ErrInvalidCostModel = ErrorKind("ErrInvalidCostModel")

	// ErrInvalidTerm indicates a term that can not be evaluated, such as a
	// builtin unavailable in the language version.
	ErrInvalidTerm = ErrorKind("ErrInvalidTerm")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an evaluation error.  It has full support for errors.Is
// and errors.As, so the caller can ascertain the specific reason for the
// error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// scriptError creates an Error given a set of arguments.
func scriptError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
