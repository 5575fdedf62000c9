// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitcoinvm/bvm/database/engine"
	"github.com/bitcoinvm/bvm/database/engine/leveldb"
	"github.com/bitcoinvm/bvm/database/engine/pebbledb"
	"github.com/bitcoinvm/bvm/entry"
	"github.com/bitcoinvm/bvm/internal/log"
	"github.com/bitcoinvm/bvm/statechain"
	"github.com/bitcoinvm/bvm/txscript"
	"github.com/bitcoinvm/bvm/valtype"
	"github.com/bitcoinvm/bvm/wire"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	flags "github.com/jessevdk/go-flags"
)

// commands returns every subcommand bound to cfg.
func commands(cfg *config) []subcommand {
	return []subcommand{
		&tapKeyCommand{cfg: cfg},
		&sighashCommand{cfg: cfg},
		&csvCommand{cfg: cfg, Unit: "days"},
		&pushDataCommand{cfg: cfg},
		&compactSizeCommand{cfg: cfg},
		&journalApplyCommand{cfg: cfg},
		&journalShowCommand{cfg: cfg},
	}
}

// parseInternalKey accepts a 33 byte compressed or a 32 byte x-only key.
func parseInternalKey(s string) (*btcec.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) == schnorr.PubKeyBytesLen {
		return schnorr.ParsePubKey(b)
	}
	return btcec.ParsePubKey(b)
}

// parseAccount decodes a hex x-only key into an account.
func parseAccount(s string) (valtype.Account, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return valtype.Account{}, err
	}
	return valtype.ParseAccount(b)
}

// transferOptions are the options shared by commands that build a transfer.
type transferOptions struct {
	From   string `long:"from" required:"true" description:"Hex encoded x-only key of the sender"`
	To     string `long:"to" required:"true" description:"Hex encoded x-only key of the receiver"`
	Amount uint32 `long:"amount" required:"true" description:"Amount to transfer"`
}

// transfer builds the transfer described by the options.
func (o *transferOptions) transfer() (entry.Transfer, error) {
	from, err := parseAccount(o.From)
	if err != nil {
		return entry.Transfer{}, fmt.Errorf("invalid sender: %w", err)
	}
	to, err := parseAccount(o.To)
	if err != nil {
		return entry.Transfer{}, fmt.Errorf("invalid receiver: %w", err)
	}
	return entry.NewUncommonTransfer(from, to, valtype.NewShortVal(o.Amount)), nil
}

type tapKeyCommand struct {
	cfg *config

	InternalKey string   `long:"key" required:"true" description:"Hex encoded internal key, compressed or x-only"`
	Leaves      []string `long:"leaf" description:"Hex encoded leaf script, may be repeated"`
	CSVDays     uint32   `long:"csvdays" description:"Add a leaf enforcing a relative timelock of this many days"`
}

func (x *tapKeyCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"tapkey",
		"Derive a taproot output from an internal key and leaf scripts",
		"Commit the internal key to a script tree assembled from the "+
			"given leaves and print the output key, the output "+
			"script, the address and a control block per leaf",
		x,
	)
	return err
}

func (x *tapKeyCommand) Execute(_ []string) error {
	if err := x.cfg.finalize(); err != nil {
		return err
	}

	key, err := parseInternalKey(x.InternalKey)
	if err != nil {
		return fmt.Errorf("invalid internal key: %w", err)
	}

	leaves := make([]txscript.TapLeaf, 0, len(x.Leaves)+1)
	for _, s := range x.Leaves {
		script, err := hex.DecodeString(s)
		if err != nil {
			return fmt.Errorf("invalid leaf %q: %w", s, err)
		}
		leaf, err := txscript.NewBaseTapLeaf(script)
		if err != nil {
			return err
		}
		leaves = append(leaves, leaf)
	}
	if x.CSVDays > 0 {
		script, err := txscript.NewCSVDays(x.CSVDays).Script()
		if err != nil {
			return err
		}
		leaf, err := txscript.NewBaseTapLeaf(script)
		if err != nil {
			return err
		}
		leaves = append(leaves, leaf)
	}

	tree, err := txscript.AssembleTapTree(leaves...)
	if err != nil {
		return err
	}
	root, err := txscript.NewTapRoot(key, tree)
	if err != nil {
		return err
	}

	outputKey, err := root.TweakedKeyXOnly()
	if err != nil {
		return err
	}
	isOdd, err := root.TweakedKeyIsOdd()
	if err != nil {
		return err
	}
	spk, err := root.SPK()
	if err != nil {
		return err
	}
	addr, err := btcutil.NewAddressTaproot(outputKey[:], x.cfg.netParams)
	if err != nil {
		return err
	}

	innerKey := root.InnerKeyXOnly()
	treeHash := tree.TapHash()
	tweak := root.TapTweak()

	log.BvmcLog.Debugf("Derived taproot output for %d leaves", len(leaves))

	fmt.Fprintf(stdout, "internal key: %x\n", innerKey[:])
	fmt.Fprintf(stdout, "tree hash:    %x\n", treeHash[:])
	fmt.Fprintf(stdout, "tweak:        %x\n", tweak[:])
	fmt.Fprintf(stdout, "output key:   %x (odd: %v)\n", outputKey[:], isOdd)
	fmt.Fprintf(stdout, "script:       %x\n", spk)
	fmt.Fprintf(stdout, "address:      %s\n", addr.EncodeAddress())

	for i, leaf := range leaves {
		ctrl, err := root.ControlBlock(leaf)
		if err != nil {
			return err
		}
		leafHash := leaf.TapHash()
		fmt.Fprintf(stdout, "leaf %d: %x\n  script:  %x\n  control: %x\n",
			i, leafHash[:], leaf.Script, ctrl)
	}

	return nil
}

type sighashCommand struct {
	cfg *config

	transferOptions

	Prev         string `long:"prev" description:"Hex encoded previous state hash, defaults to the genesis state"`
	FromIndex    int64  `long:"fromindex" default:"-1" description:"Registry index of the sender"`
	ToIndex      int64  `long:"toindex" default:"-1" description:"Registry index of the receiver"`
	ToCommon     int    `long:"tocommon" default:"-1" description:"Common table index of the receiver"`
	AmountCommon int    `long:"amountcommon" default:"-1" description:"Common table index of the amount"`
}

func (x *sighashCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"sighash",
		"Encode a transfer and compute its signature hash",
		"Print the serialization, the compact payload encoding and "+
			"the signature hash of a transfer over the previous "+
			"state",
		x,
	)
	return err
}

func (x *sighashCommand) Execute(_ []string) error {
	if err := x.cfg.finalize(); err != nil {
		return err
	}

	tr, err := x.transfer()
	if err != nil {
		return err
	}

	if x.FromIndex >= 0 {
		tr.SetFromAccountIndex(uint32(x.FromIndex))
	}
	if x.ToIndex >= 0 {
		tr.SetToAccountIndex(uint32(x.ToIndex))
	}
	if x.ToCommon >= 0 {
		tr.SetToCommonIndex(byte(x.ToCommon))
	}
	if x.AmountCommon >= 0 {
		tr.SetAmountCommonIndex(byte(x.AmountCommon))
	}

	prev := x.cfg.genesis
	if x.Prev != "" {
		prev, err = parseHash(x.Prev)
		if err != nil {
			return fmt.Errorf("invalid previous state: %w", err)
		}
	}

	sighash := tr.Sighash(prev)
	bits := tr.CPE()

	fmt.Fprintf(stdout, "serialized: %x\n", tr.Serialize())
	fmt.Fprintf(stdout, "cpe:        %x (%d bits)\n", bits.Bytes(), bits.Len())
	fmt.Fprintf(stdout, "sighash:    %x\n", sighash[:])

	return nil
}

type csvCommand struct {
	cfg *config

	Unit string `long:"unit" choice:"blocks" choice:"hours" choice:"days" choice:"weeks" description:"Unit of the delay"`
}

func (x *csvCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"csv",
		"Build a relative timelock script",
		"Print the sequence and the OP_CHECKSEQUENCEVERIFY script "+
			"for a delay given as the only argument",
		x,
	)
	return err
}

func (x *csvCommand) Execute(args []string) error {
	if err := x.cfg.finalize(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("csv takes the delay as its only argument")
	}

	count, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid delay: %w", err)
	}

	units := map[string]txscript.CSVUnit{
		"blocks": txscript.CSVBlocks,
		"hours":  txscript.CSVHours,
		"days":   txscript.CSVDays,
		"weeks":  txscript.CSVWeeks,
	}
	delay := txscript.CSVDelay{Unit: units[x.Unit], Count: uint32(count)}

	blocks, err := delay.Blocks()
	if err != nil {
		return err
	}
	seq, err := delay.SequenceBytes()
	if err != nil {
		return err
	}
	script, err := delay.Script()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "blocks:   %d\n", blocks)
	fmt.Fprintf(stdout, "sequence: %x\n", seq)
	fmt.Fprintf(stdout, "script:   %x\n", script)

	return nil
}

type pushDataCommand struct {
	cfg *config
}

func (x *pushDataCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"pushdata",
		"Encode hex arguments as script pushes",
		"Print every hex argument with its minimal script push prefix",
		x,
	)
	return err
}

func (x *pushDataCommand) Execute(args []string) error {
	if err := x.cfg.finalize(); err != nil {
		return err
	}

	for _, arg := range args {
		data, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("invalid data %q: %w", arg, err)
		}
		push, err := txscript.WithPrefixPushData(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%x\n", push)
	}

	return nil
}

type compactSizeCommand struct {
	cfg *config

	Data bool `long:"data" description:"Treat the arguments as hex data to prefix instead of numbers"`
}

func (x *compactSizeCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"compactsize",
		"Encode numbers or data with a compact size prefix",
		"Print the compact size encoding of every decimal argument, "+
			"or with --data every hex argument with its length "+
			"prefix",
		x,
	)
	return err
}

func (x *compactSizeCommand) Execute(args []string) error {
	if err := x.cfg.finalize(); err != nil {
		return err
	}

	for _, arg := range args {
		if x.Data {
			data, err := hex.DecodeString(arg)
			if err != nil {
				return fmt.Errorf("invalid data %q: %w", arg, err)
			}
			fmt.Fprintf(stdout, "%x\n", wire.WithPrefixCompactSize(data))
			continue
		}

		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", arg, err)
		}
		fmt.Fprintf(stdout, "%x\n", wire.CompactSizePrefix(n))
	}

	return nil
}

// openJournal opens the state journal in the configured data directory.  The
// returned function closes the database.
func openJournal(cfg *config) (*statechain.Journal, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, nil, err
	}
	dbPath := filepath.Join(cfg.DataDir, "journal_"+cfg.DbType)

	log.BvmcLog.Infof("Loading state journal from '%s'", dbPath)

	var (
		db  engine.Engine
		err error
	)
	switch cfg.DbType {
	case "pebble":
		db, err = pebbledb.NewDB(dbPath, false, 0, 0)
	default:
		db, err = leveldb.NewDB(dbPath, false)
	}
	if err != nil {
		return nil, nil, err
	}

	j, err := statechain.Open(db, cfg.genesis)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return j, func() { db.Close() }, nil
}

type journalApplyCommand struct {
	cfg *config

	transferOptions
}

func (x *journalApplyCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"journal-apply",
		"Apply a transfer to the state journal",
		"Append a transfer to the state journal and print the new tip",
		x,
	)
	return err
}

func (x *journalApplyCommand) Execute(_ []string) error {
	if err := x.cfg.finalize(); err != nil {
		return err
	}

	tr, err := x.transfer()
	if err != nil {
		return err
	}

	j, closeDB, err := openJournal(x.cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	tip, err := j.Apply(tr)
	if err != nil {
		return err
	}
	_, height := j.Tip()

	fmt.Fprintf(stdout, "tip:    %x\n", tip[:])
	fmt.Fprintf(stdout, "height: %d\n", height)

	return nil
}

type journalShowCommand struct {
	cfg *config

	Verify bool `long:"verify" description:"Recompute every link of the chain"`
}

func (x *journalShowCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"journal-show",
		"Print the state journal",
		"Print every applied transfer from the tip back to genesis",
		x,
	)
	return err
}

func (x *journalShowCommand) Execute(_ []string) error {
	if err := x.cfg.finalize(); err != nil {
		return err
	}

	j, closeDB, err := openJournal(x.cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	tip, height := j.Tip()
	genesis := j.Genesis()
	fmt.Fprintf(stdout, "genesis: %x\n", genesis[:])
	fmt.Fprintf(stdout, "tip:     %x (height %d)\n", tip[:], height)

	records, err := j.RecordCount()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "records: %d\n", records)

	err = j.Walk(func(state chainhash.Hash, tr entry.Transfer,
		prev chainhash.Hash) error {

		fmt.Fprintf(stdout, "%x <- %x: %v\n", state[:], prev[:], tr)
		return nil
	})
	if err != nil {
		return err
	}

	if x.Verify {
		if err := j.Verify(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "chain verified")
	}

	return nil
}
