// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"fmt"

	"github.com/btcsuite/uplcd/ledger"
)

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrScriptResolution indicates a redeemer or a script locked item
	// could not be matched up: a missing UTXO, script or datum, a redeemer
	// pointing at a key locked item or past the end of its list, a script
	// locked input without a redeemer, or a transaction feature the
	// script's language can not observe.
	ErrScriptResolution = ErrorKind("ErrScriptResolution")

	// ErrDecoding indicates a script, cost model table or parameter list
	// could not be decoded.
	ErrDecoding = ErrorKind("ErrDecoding")

	// ErrScriptFailed indicates a script rejected its redeemer.
	ErrScriptFailed = ErrorKind("ErrScriptFailed")

	// ErrMissingCostModel indicates no cost model was supplied for the
	// language of a script.
	ErrMissingCostModel = ErrorKind("ErrMissingCostModel")

	// ErrUnsupportedLanguage indicates a script or cost model for an
	// unknown language version.
	ErrUnsupportedLanguage = ErrorKind("ErrUnsupportedLanguage")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies a phase-two validation error.  It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific reason
// for the error by checking the underlying error.
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

// validationError creates an Error given a set of arguments.
func validationError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}

// ScriptFailureError is returned in strict mode when a script rejects its
// redeemer.  Cause holds the evaluation error and is what Unwrap returns,
// so errors.Is reports both ErrScriptFailed and the underlying uplc error
// kind.
type ScriptFailureError struct {
	Tag        ledger.RedeemerTag
	Index      uint32
	ScriptHash ledger.ScriptHash
	Cause      error
}

// Error satisfies the error interface and prints human-readable errors.
func (e *ScriptFailureError) Error() string {
	return fmt.Sprintf("script %v for redeemer %v/%d failed: %v",
		e.ScriptHash, e.Tag, e.Index, e.Cause)
}

// Is reports whether target is ErrScriptFailed.
func (e *ScriptFailureError) Is(target error) bool {
	return target == ErrScriptFailed
}

// Unwrap returns the evaluation error.
func (e *ScriptFailureError) Unwrap() error {
	return e.Cause
}
