// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/rentnet/rentnet/metrics"

var (
	metricActionKindCounter   = metrics.LazyLoadCounterVec("packer_action_kind", []string{"kind", "reverted"})
	metricBlockPackedDuration = metrics.LazyLoadHistogramVec("packer_block_packed_duration_ms", []string{"actions"}, metrics.BucketBlockPacking)
	metricEventCounter        = metrics.LazyLoadCounterVec("packer_event_count", []string{"module", "name"})
)
