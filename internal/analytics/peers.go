package analytics

import (
	"math"
	"sort"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
	"github.com/brewgator/lightning-node-analytics/pkg/utils"
)

// forwardCountCap bounds the forward-count term of the score so a single
// busy peer cannot drown out the revenue and uptime terms.
const forwardCountCap = 1000

// ScorePeers fuses channel and forwarding data into one ranked score per
// remote peer. Revenue is attributed to the outbound channel of each event;
// forward counts credit a channel once for its inbound role and once for
// its outbound role. Peers are the channels grouped by remote pubkey, so a
// peer with no channels never appears.
func ScorePeers(channels []lnd.Channel, events []lnd.ForwardingEvent, windowStart, windowEnd int64) PeerScoreReport {
	revenueByChannel := make(map[lnd.ChannelID]int64)
	forwardsByChannel := make(map[lnd.ChannelID]int64)

	for _, event := range events {
		revenueByChannel[event.ChanIDOut] += event.Fee
		forwardsByChannel[event.ChanIDIn]++
		forwardsByChannel[event.ChanIDOut]++
	}

	peers := make(map[string]*PeerScore)
	uptimeSums := make(map[string]int64)
	var order []string

	for _, ch := range channels {
		peer, ok := peers[ch.RemotePubkey]
		if !ok {
			peer = &PeerScore{Pubkey: ch.RemotePubkey}
			peers[ch.RemotePubkey] = peer
			order = append(order, ch.RemotePubkey)
		}

		peer.ChannelCount++
		peer.TotalCapacity += ch.Capacity
		peer.TotalLocal += ch.LocalBalance
		peer.Revenue += revenueByChannel[ch.ChanID]
		peer.ForwardCount += forwardsByChannel[ch.ChanID]
		uptimeSums[ch.RemotePubkey] += utils.RoundPct(ch.Uptime, ch.Lifetime)
	}

	report := PeerScoreReport{
		Peers:       make([]PeerScore, 0, len(order)),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}

	for _, pubkey := range order {
		peer := peers[pubkey]

		// Simple mean, not capacity-weighted
		peer.AvgUptimePct = int64(math.Round(float64(uptimeSums[pubkey]) / float64(peer.ChannelCount)))
		peer.RevenuePerMillion = utils.RoundRatio(peer.Revenue, peer.TotalCapacity, 1000)

		forwards := peer.ForwardCount
		if forwards > forwardCountCap {
			forwards = forwardCountCap
		}
		peer.Score = int64(math.Round(
			float64(peer.RevenuePerMillion)*0.5 +
				float64(peer.AvgUptimePct)*0.3 +
				float64(forwards)*0.2))

		report.Peers = append(report.Peers, *peer)
	}

	sort.SliceStable(report.Peers, func(i, j int) bool {
		return report.Peers[i].Score > report.Peers[j].Score
	})

	return report
}
