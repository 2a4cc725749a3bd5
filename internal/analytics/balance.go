package analytics

import (
	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
	"github.com/brewgator/lightning-node-analytics/pkg/utils"
)

// DefaultBalanceThresholdPct is the imbalance threshold used when the
// caller passes 0.
const DefaultBalanceThresholdPct = 20

// AnalyzeBalances classifies every channel's liquidity split. A channel is
// depleted_local when its local ratio is strictly below thresholdPct,
// depleted_remote when strictly above 100-thresholdPct, balanced otherwise.
// A ratio exactly at the threshold is not flagged. Output order matches
// input order.
func AnalyzeBalances(channels []lnd.Channel, thresholdPct int64) BalanceReport {
	if thresholdPct == 0 {
		thresholdPct = DefaultBalanceThresholdPct
	}

	report := BalanceReport{
		Channels: make([]ChannelBalance, 0, len(channels)),
		Alerts:   []ChannelBalance{},
	}

	for _, ch := range channels {
		ratio := utils.RoundPct(ch.LocalBalance, ch.Capacity)

		status := StatusBalanced
		switch {
		case ratio < thresholdPct:
			status = StatusDepletedLocal
		case ratio > 100-thresholdPct:
			status = StatusDepletedRemote
		}

		balance := ChannelBalance{
			ChanID:         ch.ChanID,
			RemotePubkey:   ch.RemotePubkey,
			Capacity:       ch.Capacity,
			LocalBalance:   ch.LocalBalance,
			RemoteBalance:  ch.RemoteBalance,
			LocalRatioPct:  ratio,
			UptimePct:      utils.RoundPct(ch.Uptime, ch.Lifetime),
			Status:         status,
			NeedsRebalance: status != StatusBalanced,
		}

		report.Channels = append(report.Channels, balance)
		if balance.NeedsRebalance {
			report.ImbalancedCount++
			report.Alerts = append(report.Alerts, balance)
		} else {
			report.BalancedCount++
		}
	}

	return report
}
