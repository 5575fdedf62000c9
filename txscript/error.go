// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of script encoding or commitment error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrLengthOutOfRange is returned when data is too long to be
	// represented by the requested length prefix.
	ErrLengthOutOfRange ErrorCode = iota

	// ErrLeafScriptTooLarge is returned when a tapscript leaf is built
	// from a script whose length does not fit in the single length byte
	// of the leaf commitment.
	ErrLeafScriptTooLarge

	// ErrEmptyTree is returned when a script tree is assembled from zero
	// leaves.
	ErrEmptyTree

	// ErrKeyTweak is returned when tweaking an internal key fails, either
	// because the tweak overflows the curve order or because the tweaked
	// point is the point at infinity.
	ErrKeyTweak

	// ErrLeafNotFound is returned when a control block is requested for a
	// leaf that is not committed to by the tree.
	ErrLeafNotFound

	// ErrCSVOutOfRange is returned when a relative timelock does not fit
	// in the block based sequence lock field.
	ErrCSVOutOfRange

	// ErrMissingInternalKey is returned when a taproot output is built
	// without an internal key.
	ErrMissingInternalKey

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrLengthOutOfRange:   "ErrLengthOutOfRange",
	ErrLeafScriptTooLarge: "ErrLeafScriptTooLarge",
	ErrEmptyTree:          "ErrEmptyTree",
	ErrKeyTweak:           "ErrKeyTweak",
	ErrLeafNotFound:       "ErrLeafNotFound",
	ErrCSVOutOfRange:      "ErrCSVOutOfRange",
	ErrMissingInternalKey: "ErrMissingInternalKey",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script related error.  The caller can use type assertions
// to access the ErrorCode field to ascertain the specific reason for the
// failure.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var serr Error
	return errors.As(err, &serr) && serr.ErrorCode == c
}
