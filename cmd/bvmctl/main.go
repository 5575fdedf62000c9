// Copyright (c) 2013 Conformal Systems LLC.
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitcoinvm/bvm/internal/log"
	"github.com/bitcoinvm/bvm/internal/version"
	flags "github.com/jessevdk/go-flags"
)

// stdout receives the output of every command.
var stdout io.Writer = os.Stdout

// bvmctlMain is the real main function for bvmctl.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func bvmctlMain(args []string) error {
	cfg := defaultConfig()

	// Pre-parse the command line options to see if the version flag or
	// the subsystem listing was requested.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.IgnoreUnknown)
	_, _ = preParser.ParseArgs(args)

	if preCfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Fprintln(stdout, appName, "version", version.String())
		return nil
	}
	if preCfg.DebugLevel == "show" {
		fmt.Fprintln(stdout, "Supported subsystems",
			log.SupportedSubsystems())
		return nil
	}

	parser, err := loadConfig(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
			log.LogRotator = nil
		}
	}()

	_, err = parser.ParseArgs(args)
	return err
}

func main() {
	if err := bvmctlMain(os.Args[1:]); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		// Errors have already been printed by the parser.
		os.Exit(1)
	}
}
