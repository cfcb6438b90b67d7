// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIntFromUInt64Flag(t *testing.T) {
	got, err := readIntFromUInt64Flag(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = readIntFromUInt64Flag(uint64(math.MaxInt))
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got)

	_, err = readIntFromUInt64Flag(uint64(math.MaxInt) + 1)
	assert.Error(t, err)
}

func TestLoadOrGeneratePrivateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")

	generated, err := loadOrGeneratePrivateKey(path)
	require.NoError(t, err)

	loaded, err := loadOrGeneratePrivateKey(path)
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(generated), crypto.FromECDSA(loaded))

	_, err = loadOrGeneratePrivateKey(t.TempDir())
	assert.Error(t, err)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 128, normalizeCacheSize(1))
	assert.LessOrEqual(t, normalizeCacheSize(math.MaxInt32), math.MaxInt32)
}
