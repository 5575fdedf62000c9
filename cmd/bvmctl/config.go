// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitcoinvm/bvm/internal/log"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultDbType      = "leveldb"
	defaultLogLevel    = "info"
	defaultLogFilename = "bvmctl.log"
)

var (
	bvmctlHomeDir  = btcutil.AppDataDir("bvmctl", false)
	defaultDataDir = filepath.Join(bvmctlHomeDir, "data")
	defaultLogDir  = filepath.Join(bvmctlHomeDir, "logs")
	knownDbTypes   = []string{"leveldb", "pebble"}
)

// config defines the global configuration options for bvmctl.  Every
// subcommand adds its own options.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion    bool   `short:"V" long:"version" description:"Display version information and exit"`
	DataDir        string `short:"b" long:"datadir" description:"Directory to store the state journal"`
	LogDir         string `long:"logdir" description:"Directory to log output"`
	DebugLevel     string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	DbType         string `long:"dbtype" description:"Database backend to use for the state journal {leveldb, pebble}"`
	Genesis        string `long:"genesis" description:"Hex encoded genesis state of the journal"`
	RegressionTest bool   `long:"regtest" description:"Use the regression test network"`
	TestNet3       bool   `long:"testnet" description:"Use the test network"`

	genesis   chainhash.Hash
	netParams *chaincfg.Params
	finalized bool
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(bvmctlHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// netName returns the name used when referring to a bitcoin network.  Testnet
// version 3 data lives in "testnet", which does not match the Name field of
// the chaincfg parameters.
func netName(chainParams *chaincfg.Params) string {
	switch chainParams.Net {
	case wire.TestNet3:
		return "testnet"
	default:
		return chainParams.Name
	}
}

// parseHash decodes a 32 byte hex string in byte order.
func parseHash(s string) (chainhash.Hash, error) {
	var h chainhash.Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != chainhash.HashSize {
		return h, fmt.Errorf("hash is %d bytes, want %d", len(b),
			chainhash.HashSize)
	}
	copy(h[:], b)
	return h, nil
}

// defaultConfig returns the configuration before any option is applied.
func defaultConfig() config {
	return config{
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		DbType:     defaultDbType,
		Genesis:    strings.Repeat("00", chainhash.HashSize),
	}
}

// finalize validates the parsed options, selects the network and sets the
// log levels.  It runs after option parsing and before the chosen command.
func (cfg *config) finalize() error {
	if cfg.finalized {
		return nil
	}
	funcName := "loadConfig"

	// Multiple networks can't be selected simultaneously.
	numNets := 0
	cfg.netParams = &chaincfg.MainNetParams
	if cfg.TestNet3 {
		numNets++
		cfg.netParams = &chaincfg.TestNet3Params
	}
	if cfg.RegressionTest {
		numNets++
		cfg.netParams = &chaincfg.RegressionNetParams
	}
	if numNets > 1 {
		str := "%s: The testnet and regtest params can't be used " +
			"together -- choose one of the two"
		return fmt.Errorf(str, funcName)
	}

	if err := log.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return fmt.Errorf("%s: %v", funcName, err)
	}

	if !validDbType(cfg.DbType) {
		str := "%s: The specified database type [%v] is invalid -- " +
			"supported types %v"
		return fmt.Errorf(str, funcName, cfg.DbType, knownDbTypes)
	}

	genesis, err := parseHash(cfg.Genesis)
	if err != nil {
		return fmt.Errorf("%s: invalid genesis: %v", funcName, err)
	}
	cfg.genesis = genesis

	// Append the network type to the data and log directories so they
	// are "namespaced" per network.
	cfg.DataDir = filepath.Join(cleanAndExpandPath(cfg.DataDir),
		netName(cfg.netParams))
	cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir),
		netName(cfg.netParams))

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	if log.LogRotator == nil {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := log.InitLogRotator(logFile); err != nil {
			return fmt.Errorf("%s: %v", funcName, err)
		}
	}

	cfg.finalized = true
	return nil
}

// subcommand is implemented by every bvmctl command.
type subcommand interface {
	flags.Commander
	Register(parser *flags.Parser) error
}

// loadConfig builds the option parser with every subcommand registered.  The
// chosen command runs from parser.Parse and validates the global options with
// finalize before doing any work.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Parse CLI options and overwrite/add any specified options
//  3. Validate the options and run the subcommand
func loadConfig(cfg *config) (*flags.Parser, error) {
	parser := flags.NewParser(cfg, flags.Default)

	for _, c := range commands(cfg) {
		if err := c.Register(parser); err != nil {
			return nil, err
		}
	}

	return parser, nil
}
