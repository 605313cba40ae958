// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/uplcd/uplc"
	"github.com/stretchr/testify/require"
)

func TestParseAndSetDebugLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{"all subsystems", "debug", false},
		{"per subsystem", "UPLC=trace,PTWO=info", false},
		{"invalid level", "loud", true},
		{"invalid subsystem", "NOPE=debug", true},
		{"missing pair separator", "UPLC=trace,PTWO", true},
	}

	for _, test := range tests {
		err := parseAndSetDebugLevels(test.level)
		if test.wantErr {
			require.Error(t, err, test.name)
			continue
		}
		require.NoError(t, err, test.name)
	}
}

func TestReadOperand(t *testing.T) {
	b, err := readOperand("46010000200101")
	require.NoError(t, err)
	require.Equal(t, []byte{0x46, 0x01, 0x00, 0x00, 0x20, 0x01, 0x01}, b)

	path := filepath.Join(t.TempDir(), "script.hex")
	require.NoError(t, os.WriteFile(path, []byte("46010000200101\n"), 0600))
	fromFile, err := readOperand("@" + path)
	require.NoError(t, err)
	require.Equal(t, b, fromFile)

	_, err = readOperand("zz")
	require.Error(t, err)
}

func TestDecodeProgramForms(t *testing.T) {
	wrapped, err := decodeProgram([]byte{0x46, 0x01, 0x00, 0x00, 0x20, 0x01, 0x01})
	require.NoError(t, err)

	bare, err := decodeProgram([]byte{0x01, 0x00, 0x00, 0x20, 0x01, 0x01})
	require.NoError(t, err)

	require.Equal(t, uplc.PrettyProgram(wrapped), uplc.PrettyProgram(bare))
}
