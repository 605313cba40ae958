// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plutusdata

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrMalformed indicates the input is not well formed CBOR or does not
	// describe a PlutusData value.
	ErrMalformed = ErrorKind("ErrMalformed")

	// ErrTrailingBytes indicates a complete value was decoded but input
	// remained afterwards.
	ErrTrailingBytes = ErrorKind("ErrTrailingBytes")

	// ErrUnsupportedTag indicates a CBOR tag that has no PlutusData meaning.
	ErrUnsupportedTag = ErrorKind("ErrUnsupportedTag")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies a PlutusData decoding error.  It has full support for
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

// dataError creates an Error given a set of arguments.
func dataError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
