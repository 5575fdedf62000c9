// Copyright (c) 2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"testing"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrLengthOutOfRange, "ErrLengthOutOfRange"},
		{ErrLeafScriptTooLarge, "ErrLeafScriptTooLarge"},
		{ErrEmptyTree, "ErrEmptyTree"},
		{ErrKeyTweak, "ErrKeyTweak"},
		{ErrLeafNotFound, "ErrLeafNotFound"},
		{ErrCSVOutOfRange, "ErrCSVOutOfRange"},
		{ErrMissingInternalKey, "ErrMissingInternalKey"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	// Detect additional error codes that don't have the stringer added.
	if len(tests)-1 != int(numErrorCodes) {
		t.Errorf("It appears an error code was added without adding an " +
			"associated stringer test")
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}

// TestError tests the error output for the Error type.
func TestError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Error
		want string
	}{
		{
			Error{Description: "some error"},
			"some error",
		},
		{
			Error{Description: "human-readable error"},
			"human-readable error",
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("Error #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}

// TestIsErrorCode ensures IsErrorCode sees through wrapping and rejects
// foreign errors.
func TestIsErrorCode(t *testing.T) {
	t.Parallel()

	err := scriptError(ErrKeyTweak, "tweak")
	wrapped := fmt.Errorf("outer: %w", err)

	if !IsErrorCode(err, ErrKeyTweak) {
		t.Fatalf("IsErrorCode: direct error not matched")
	}
	if !IsErrorCode(wrapped, ErrKeyTweak) {
		t.Fatalf("IsErrorCode: wrapped error not matched")
	}
	if IsErrorCode(err, ErrEmptyTree) {
		t.Fatalf("IsErrorCode: matched the wrong code")
	}
	if IsErrorCode(fmt.Errorf("plain"), ErrKeyTweak) {
		t.Fatalf("IsErrorCode: matched a foreign error")
	}
}
