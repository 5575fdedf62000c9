// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package valtype provides the value types entries are built from: accounts,
// short integers and values that may be replaced by a common table index.
package valtype
