// Copyright (c) 2014 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entry

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of entry decoding error.
type ErrorCode int

const (
	// ErrTruncatedInput indicates the input ends before a complete entry
	// was read.
	ErrTruncatedInput ErrorCode = iota

	// ErrTrailingBytes indicates the input holds bytes past the end of the
	// entry.
	ErrTrailingBytes

	// ErrKeyParse indicates a serialized account key is not a valid x-only
	// public key.
	ErrKeyParse

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrTruncatedInput: "ErrTruncatedInput",
	ErrTrailingBytes:  "ErrTrailingBytes",
	ErrKeyParse:       "ErrKeyParse",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies an entry decoding error.
type Error struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying cause, if any.
func (e Error) Unwrap() error {
	return e.Err
}

// entryError creates an Error given a set of arguments.
func entryError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether or not the provided error is an entry error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var eerr Error
	return errors.As(err, &eerr) && eerr.ErrorCode == c
}
