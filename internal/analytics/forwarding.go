package analytics

import (
	"sort"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

// SummarizeForwarding aggregates forwarding events per channel and computes
// grand totals. Each channel accumulates its inbound and outbound roles in
// one entry; events with a missing channel id fall under "unknown". The
// result is sorted descending by fee earned with ties keeping encounter
// order.
func SummarizeForwarding(events []lnd.ForwardingEvent, startTime, endTime int64) ForwardingSummary {
	stats := make(map[lnd.ChannelID]*ChannelForwardingStats)
	var order []lnd.ChannelID

	entry := func(id lnd.ChannelID) *ChannelForwardingStats {
		if id == "" {
			id = lnd.UnknownChannelID
		}
		s, ok := stats[id]
		if !ok {
			s = &ChannelForwardingStats{ChanID: id}
			stats[id] = s
			order = append(order, id)
		}
		return s
	}

	summary := ForwardingSummary{
		StartTime: startTime,
		EndTime:   endTime,
	}

	for _, event := range events {
		in := entry(event.ChanIDIn)
		in.InboundCount++
		in.InboundAmount += event.AmtIn

		out := entry(event.ChanIDOut)
		out.OutboundCount++
		out.OutboundAmount += event.AmtOut
		out.FeeEarned += event.Fee

		summary.TotalEvents++
		summary.TotalFee += event.Fee
		summary.TotalAmountIn += event.AmtIn
		summary.TotalAmountOut += event.AmtOut
	}

	summary.Channels = make([]ChannelForwardingStats, 0, len(order))
	for _, id := range order {
		summary.Channels = append(summary.Channels, *stats[id])
	}

	sort.SliceStable(summary.Channels, func(i, j int) bool {
		return summary.Channels[i].FeeEarned > summary.Channels[j].FeeEarned
	})

	return summary
}
