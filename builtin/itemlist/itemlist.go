// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package itemlist keeps ids in sorted, duplicate free slices.
// The slices are stored as is, so iteration order is reproducible across nodes.
package itemlist

import (
	"cmp"
	"slices"
)

// Add inserts item keeping list sorted. Adding an existing item is a no-op.
func Add[S ~[]E, E cmp.Ordered](list S, item E) S {
	i, found := slices.BinarySearch(list, item)
	if found {
		return list
	}
	return slices.Insert(list, i, item)
}

// Remove deletes item from list. Removing a missing item is a no-op.
func Remove[S ~[]E, E cmp.Ordered](list S, item E) S {
	i, found := slices.BinarySearch(list, item)
	if !found {
		return list
	}
	return slices.Delete(list, i, i+1)
}

// Contains reports whether item is in list.
func Contains[S ~[]E, E cmp.Ordered](list S, item E) bool {
	_, found := slices.BinarySearch(list, item)
	return found
}

// AddFunc is Add for types ordered by a compare method, such as addresses.
func AddFunc[S ~[]E, E interface{ Compare(E) int }](list S, item E) S {
	i, found := slices.BinarySearchFunc(list, item, E.Compare)
	if found {
		return list
	}
	return slices.Insert(list, i, item)
}

// RemoveFunc is Remove for types ordered by a compare method.
func RemoveFunc[S ~[]E, E interface{ Compare(E) int }](list S, item E) S {
	i, found := slices.BinarySearchFunc(list, item, E.Compare)
	if !found {
		return list
	}
	return slices.Delete(list, i, i+1)
}

// ContainsFunc is Contains for types ordered by a compare method.
func ContainsFunc[S ~[]E, E interface{ Compare(E) int }](list S, item E) bool {
	_, found := slices.BinarySearchFunc(list, item, E.Compare)
	return found
}
