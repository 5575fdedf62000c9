// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the CompactSize length prefix used to delimit byte
strings that are embedded in other protocol encodings.

The prefix follows the four tier variable length integer scheme of the bitcoin
wire protocol, and is delegated to btcd's wire package so both codecs stay
byte for byte identical.
*/
package wire
