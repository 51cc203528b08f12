// Copyright (c) 2026 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dirmgr

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific ErrorKind.
const (
	// ErrUnwanted indicates a response carried no document that was still
	// wanted.
	ErrUnwanted = ErrorKind("ErrUnwanted")

	// ErrBadArgument indicates a caller provided an invalid argument or
	// configuration value.
	ErrBadArgument = ErrorKind("ErrBadArgument")

	// ErrBadNetworkConfig indicates the network configuration can't be used
	// to bootstrap, for example because it lists no authorities.
	ErrBadNetworkConfig = ErrorKind("ErrBadNetworkConfig")

	// ErrDirectoryNotPresent indicates a usable directory was requested
	// before enough information was downloaded.
	ErrDirectoryNotPresent = ErrorKind("ErrDirectoryNotPresent")

	// ErrCantAdvanceState indicates no request is left to make while the
	// directory is still not usable.
	ErrCantAdvanceState = ErrorKind("ErrCantAdvanceState")

	// ErrUnknownRequest indicates an outcome was reported for a request that
	// is not in flight.
	ErrUnknownRequest = ErrorKind("ErrUnknownRequest")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to downloading the directory.  It has
// full support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
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

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
