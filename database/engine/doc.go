// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package engine defines the key/value storage interface persistent bvm state is
kept in.

Backends live in sub packages: leveldb wraps goleveldb and also offers an in
memory store, pebbledb wraps CockroachDB's pebble.  Every backend reports a
missing key as ErrNotFound and must pass TestSuiteEngine.
*/
package engine
