// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rentnet

// Constants of block chain.
const (
	BlockInterval uint64 = 10   // time interval between two consecutive blocks.
	BlocksPerEra  uint32 = 2880 // 8 hours worth of blocks.

	MaxActionsPerBlock = 2048
	MaxActionSize      = 64 * 1024
)

// CurrentEra returns the era containing the given block height.
func CurrentEra(height uint32) uint32 {
	return height / BlocksPerEra
}

// IsEraStart reports whether the block opens a new era.
func IsEraStart(height uint32) bool {
	return height > 0 && height%BlocksPerEra == 0
}
