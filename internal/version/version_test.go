// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestString ensures invalid characters are dropped from the pre-release and
// build portions of the version.
func TestString(t *testing.T) {
	oldPre, oldBuild := PreRelease, BuildMetadata
	defer func() {
		PreRelease, BuildMetadata = oldPre, oldBuild
	}()

	PreRelease, BuildMetadata = "beta", "abc.123"
	require.Equal(t, "0.1.0-beta+abc.123", String())

	PreRelease, BuildMetadata = "be_ta!", "a+b"
	require.Equal(t, "0.1.0-beta+ab", String())

	PreRelease, BuildMetadata = "", ""
	require.Equal(t, "0.1.0", String())
}
