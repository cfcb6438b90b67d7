// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actionpool

import (
	"github.com/rentnet/rentnet/metrics"
)

var (
	metricPoolGauge  = metrics.LazyLoadGaugeVec("actionpool_current_action_count", []string{"source"})
	metricBadActions = metrics.LazyLoadCounterVec("actionpool_bad_action_count", []string{"reason"})
)
