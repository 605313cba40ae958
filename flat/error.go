// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package flat

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrMalformed indicates the input ended early or holds a value that
	// has no meaning in the flat format.
	ErrMalformed = ErrorKind("ErrMalformed")

	// ErrUnknownBuiltin indicates a builtin tag that does not name an
	// implemented builtin.
	ErrUnknownBuiltin = ErrorKind("ErrUnknownBuiltin")

	// ErrUnsupportedVersion indicates a program version or a term that the
	// program version does not allow.
	ErrUnsupportedVersion = ErrorKind("ErrUnsupportedVersion")

	// ErrTrailingBytes indicates input remained after a complete program.
	ErrTrailingBytes = ErrorKind("ErrTrailingBytes")

	// ErrEnvelope indicates the script bytes are not wrapped in a CBOR byte
	// string.
	ErrEnvelope = ErrorKind("ErrEnvelope")

	// ErrUnencodable indicates a term or constant that has no flat form.
	ErrUnencodable = ErrorKind("ErrUnencodable")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies a serialization error.  It has full support for errors.Is
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

// flatError creates an Error given a set of arguments.
func flatError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
