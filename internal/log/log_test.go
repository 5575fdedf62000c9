// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

// TestParseAndSetDebugLevels checks the accepted debug level forms.
func TestParseAndSetDebugLevels(t *testing.T) {
	require.Equal(t, []string{"BVMC", "SCRP", "STCH"}, SupportedSubsystems())

	require.NoError(t, ParseAndSetDebugLevels("debug"))
	for _, id := range SupportedSubsystems() {
		require.Equal(t, btclog.LevelDebug, subsystemLoggers[id].Level())
	}

	require.NoError(t, ParseAndSetDebugLevels("SCRP=trace,STCH=warn"))
	require.Equal(t, btclog.LevelTrace, scrpLog.Level())
	require.Equal(t, btclog.LevelWarn, stchLog.Level())
	require.Equal(t, btclog.LevelDebug, BvmcLog.Level())

	tests := []string{
		"loud",
		"SCRP=loud",
		"NOPE=info",
		"SCRP=info,STCH",
	}
	for _, level := range tests {
		require.Error(t, ParseAndSetDebugLevels(level), level)
	}

	SetLogLevels("info")
}
