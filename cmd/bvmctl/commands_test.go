// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/bitcoinvm/bvm/entry"
	"github.com/bitcoinvm/bvm/internal/version"
	"github.com/bitcoinvm/bvm/valtype"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcscript "github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

// runCommand runs bvmctl with args against fresh data and log directories
// and returns what the command printed.
func runCommand(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	oldStdout := stdout
	stdout = &buf
	defer func() { stdout = oldStdout }()

	full := append([]string{
		"--datadir", dataDir,
		"--logdir", t.TempDir(),
		"--debuglevel", "warn",
	}, args...)

	err := bvmctlMain(full)
	return buf.String(), err
}

// testKey returns a deterministic key pair byte repeated from b.
func testKey(b byte) *btcec.PublicKey {
	_, pub := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{b}, 32))
	return pub
}

func TestVersionFlag(t *testing.T) {
	out, err := runCommand(t, t.TempDir(), "--version")
	require.NoError(t, err)
	require.Contains(t, out, version.String())
}

func TestShowSubsystems(t *testing.T) {
	var buf bytes.Buffer
	oldStdout := stdout
	stdout = &buf
	defer func() { stdout = oldStdout }()

	require.NoError(t, bvmctlMain([]string{"--debuglevel", "show"}))
	require.Contains(t, buf.String(), "STCH")
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"both networks", []string{"--testnet", "--regtest", "csv", "1"}},
		{"bad db type", []string{"--dbtype", "bolt", "csv", "1"}},
		{"bad genesis", []string{"--genesis", "abcd", "csv", "1"}},
		{"bad level", []string{"--debuglevel", "loud", "csv", "1"}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			_, err := runCommand(t, t.TempDir(), test.args...)
			require.Error(t, err)
		})
	}
}

func TestCSVCommand(t *testing.T) {
	out, err := runCommand(t, t.TempDir(), "csv", "14")
	require.NoError(t, err)
	require.Contains(t, out, "blocks:   2016\n")
	require.Contains(t, out, "sequence: e0070000\n")
	require.Contains(t, out, "script:   02e007b275\n")

	out, err = runCommand(t, t.TempDir(), "csv", "--unit", "blocks", "16")
	require.NoError(t, err)
	require.Contains(t, out, "script:   60b275\n")

	_, err = runCommand(t, t.TempDir(), "csv", "--unit", "weeks", "100")
	require.Error(t, err)

	_, err = runCommand(t, t.TempDir(), "csv")
	require.Error(t, err)
}

func TestPushDataCommand(t *testing.T) {
	out, err := runCommand(t, t.TempDir(), "pushdata", "05", "aabb", "")
	require.NoError(t, err)
	require.Equal(t, "55\n02aabb\n00\n", out)

	_, err = runCommand(t, t.TempDir(), "pushdata", "zz")
	require.Error(t, err)
}

func TestCompactSizeCommand(t *testing.T) {
	out, err := runCommand(t, t.TempDir(), "compactsize", "252", "253",
		"65536")
	require.NoError(t, err)
	require.Equal(t, "fc\nfdfd00\nfe00000100\n", out)

	out, err = runCommand(t, t.TempDir(), "compactsize", "--data", "aabb")
	require.NoError(t, err)
	require.Equal(t, "02aabb\n", out)
}

func TestTapKeyCommand(t *testing.T) {
	key := testKey(0x11)
	script := []byte{0x51}

	out, err := runCommand(t, t.TempDir(), "--regtest", "tapkey",
		"--key", hex.EncodeToString(key.SerializeCompressed()),
		"--leaf", hex.EncodeToString(script))
	require.NoError(t, err)

	leaf := btcscript.NewBaseTapLeaf(script)
	leafHash := leaf.TapHash()
	outputKey := btcscript.ComputeTaprootOutputKey(key, leafHash[:])
	addr, err := btcutil.NewAddressTaproot(
		schnorr.SerializePubKey(outputKey), &chaincfg.RegressionNetParams,
	)
	require.NoError(t, err)
	wantSPK, err := btcscript.PayToTaprootScript(outputKey)
	require.NoError(t, err)

	require.Contains(t, out, addr.EncodeAddress())
	require.Contains(t, out, fmt.Sprintf("script:       %x\n", wantSPK))
	require.Contains(t, out, fmt.Sprintf("leaf 0: %x\n", leafHash[:]))

	// An x-only key and a timelock leaf are accepted too.
	out, err = runCommand(t, t.TempDir(), "tapkey",
		"--key", hex.EncodeToString(schnorr.SerializePubKey(key)),
		"--leaf", "51", "--csvdays", "14")
	require.NoError(t, err)
	require.Contains(t, out, "leaf 1: ")
	require.Contains(t, out, "bc1p")

	_, err = runCommand(t, t.TempDir(), "tapkey",
		"--key", hex.EncodeToString(key.SerializeCompressed()))
	require.Error(t, err, "a tree needs at least one leaf")
}

func TestSighashCommand(t *testing.T) {
	from, to := testKey(0x11), testKey(0x22)
	fromHex := hex.EncodeToString(schnorr.SerializePubKey(from))
	toHex := hex.EncodeToString(schnorr.SerializePubKey(to))

	tr := entry.NewUncommonTransfer(valtype.NewAccount(from),
		valtype.NewAccount(to), valtype.NewShortVal(500))

	out, err := runCommand(t, t.TempDir(), "sighash",
		"--from", fromHex, "--to", toHex, "--amount", "500")
	require.NoError(t, err)

	sighash := tr.Sighash(chainhash.Hash{})
	require.Contains(t, out, fmt.Sprintf("serialized: %x\n", tr.Serialize()))
	require.Contains(t, out, fmt.Sprintf("sighash:    %x\n", sighash[:]))

	// Registry and common table indices only change the compact encoding.
	tr.SetFromAccountIndex(3)
	tr.SetAmountCommonIndex(1)
	bits := tr.CPE()

	prev := chainhash.HashH([]byte("prev"))
	out, err = runCommand(t, t.TempDir(), "sighash",
		"--from", fromHex, "--to", toHex, "--amount", "500",
		"--fromindex", "3", "--amountcommon", "1",
		"--prev", hex.EncodeToString(prev[:]))
	require.NoError(t, err)

	sighash = tr.Sighash(prev)
	require.Contains(t, out, fmt.Sprintf("cpe:        %x (%d bits)\n",
		bits.Bytes(), bits.Len()))
	require.Contains(t, out, fmt.Sprintf("sighash:    %x\n", sighash[:]))

	_, err = runCommand(t, t.TempDir(), "sighash",
		"--from", "00", "--to", toHex, "--amount", "1")
	require.Error(t, err)
}

func TestJournalCommands(t *testing.T) {
	fromHex := hex.EncodeToString(schnorr.SerializePubKey(testKey(0x11)))
	toHex := hex.EncodeToString(schnorr.SerializePubKey(testKey(0x22)))

	for _, dbType := range knownDbTypes {
		dbType := dbType
		t.Run(dbType, func(t *testing.T) {
			dataDir := t.TempDir()

			for _, amount := range []string{"10", "20"} {
				_, err := runCommand(t, dataDir, "--dbtype", dbType,
					"journal-apply", "--from", fromHex,
					"--to", toHex, "--amount", amount)
				require.NoError(t, err)
			}

			out, err := runCommand(t, dataDir, "--dbtype", dbType,
				"journal-show", "--verify")
			require.NoError(t, err)
			require.Contains(t, out, "(height 2)")
			require.Contains(t, out, "records: 2\n")
			require.Contains(t, out, "chain verified")
		})
	}
}
