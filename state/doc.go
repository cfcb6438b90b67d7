// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage of builtin modules.
// Writes are journaled in memory on top of the committed kv store and can be
// reverted to any checkpoint until staged and committed.
package state
