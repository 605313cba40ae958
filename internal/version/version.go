// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version provides a single location to house the version information
// for the utilities provided in this repository.
package version

import (
	"fmt"
	"strings"
)

// semanticAlphabet defines the allowed characters for the pre-release and
// build metadata portions of a semantic version string.
const semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

// These constants define the application version and follow the semantic
// versioning 2.0.0 (http://semver.org/).
const (
	Major uint = 0
	Minor uint = 3
	Patch uint = 0
)

// PreRelease is defined as a variable so it can be overridden during the
// build process with:
// '-ldflags "-X github.com/btcsuite/uplcd/internal/version.PreRelease=foo"'
// if needed.
var PreRelease = "beta"

// String returns the application version as a properly formed string per the
// semantic versioning 2.0.0 (http://semver.org/).
func String() string {
	version := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)

	// The hyphen called for by the semantic versioning rules is appended
	// here and should not be contained in the pre-release string.
	preRelease := normalizeSemString(PreRelease)
	if preRelease != "" {
		version = fmt.Sprintf("%s-%s", version, preRelease)
	}
	return version
}

// normalizeSemString returns the passed string stripped of all characters
// which are not valid in a semantic version.
func normalizeSemString(str string) string {
	var result strings.Builder
	for _, r := range str {
		if strings.ContainsRune(semanticAlphabet, r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
