// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version holds the bvmctl version reported by --version.
package version

import (
	"fmt"
	"strings"
)

// Semantic version of bvmctl.
const (
	Major uint = 0
	Minor uint = 1
	Patch uint = 0
)

// PreRelease and BuildMetadata can be set at link time, for example
//
//	-ldflags "-X github.com/bitcoinvm/bvm/internal/version.BuildMetadata=$(git rev-parse --short HEAD)"
var (
	PreRelease    = "pre"
	BuildMetadata = "dev"
)

// semver identifier characters.  Build metadata may also contain dots.
const identChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

// keepOnly drops every rune of s not in allowed.
func keepOnly(s, allowed string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(allowed, r) {
			return r
		}
		return -1
	}, s)
}

// String returns the version as major.minor.patch[-pre][+build].  Characters
// a semver identifier cannot hold are dropped, and an empty pre-release or
// build part is left out together with its separator.
func String() string {
	v := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
	if pre := keepOnly(PreRelease, identChars); pre != "" {
		v += "-" + pre
	}
	if build := keepOnly(BuildMetadata, identChars+"."); build != "" {
		v += "+" + build
	}
	return v
}
