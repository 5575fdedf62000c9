// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cpe implements the bit vectors behind the compact payload encoding.
//
// Compact payload encoding packs an entry into as few bits as possible: flags
// are single bits, registered accounts and common values are replaced by
// short indexes, and integers only carry the bytes they need.  Values that can
// encode themselves implement Encoder.
package cpe
