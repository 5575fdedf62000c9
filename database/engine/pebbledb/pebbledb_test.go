// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import (
	"path/filepath"
	"testing"

	"github.com/bitcoinvm/bvm/database/engine"
	"github.com/stretchr/testify/require"
)

func TestSuitePebbleDB(t *testing.T) {
	engine.TestSuiteEngine(t, func() engine.Engine {
		dbPath := filepath.Join(t.TempDir(), "pebbledb-testsuite")

		pebbledb, err := NewDB(dbPath, true, 0, 0)
		require.NoErrorf(t, err, "failed to create pebbledb")
		return pebbledb
	})
}

func TestSuitePebbleMemDB(t *testing.T) {
	engine.TestSuiteEngine(t, func() engine.Engine {
		memdb, err := NewMemDB()
		require.NoErrorf(t, err, "failed to create pebble memdb")
		return memdb
	})
}
