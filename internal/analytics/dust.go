package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/brewgator/lightning-node-analytics/pkg/bitcoin"
	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
	"github.com/brewgator/lightning-node-analytics/pkg/utils"
)

// DefaultDustThreshold is the dust classification boundary in sats used
// when the caller passes 0.
const DefaultDustThreshold = 100

type routeKey struct {
	in  lnd.ChannelID
	out lnd.ChannelID
}

// DetectDustForwards partitions forwarding events into dust and normal by
// outbound amount and aggregates the dust partition two ways: per ordered
// (inbound, outbound) route, and per inbound channel alone to flag dust
// sources regardless of where the dust routes next. Both aggregations share
// rateThreshold for the suspicious flag.
func DetectDustForwards(events []lnd.ForwardingEvent, dustThreshold int64, rateThreshold int) ForwardDustReport {
	if dustThreshold == 0 {
		dustThreshold = DefaultDustThreshold
	}

	report := ForwardDustReport{
		DustThreshold:   dustThreshold,
		Routes:          []DustRoute{},
		Sources:         []DustSource{},
		Recommendations: []DustRecommendation{},
	}

	routes := make(map[routeKey]*DustRoute)
	var routeOrder []routeKey
	sources := make(map[lnd.ChannelID]*DustSource)
	var sourceOrder []lnd.ChannelID

	for _, event := range events {
		if event.AmtOut > dustThreshold {
			report.NormalCount++
			report.NormalFees += event.Fee
			continue
		}

		report.DustCount++
		report.DustFees += event.Fee

		in := event.ChanIDIn
		if in == "" {
			in = lnd.UnknownChannelID
		}
		out := event.ChanIDOut
		if out == "" {
			out = lnd.UnknownChannelID
		}

		key := routeKey{in: in, out: out}
		route, ok := routes[key]
		if !ok {
			route = &DustRoute{
				ChanIDIn:  in,
				ChanIDOut: out,
				MinAmount: event.AmtOut,
				MaxAmount: event.AmtOut,
			}
			routes[key] = route
			routeOrder = append(routeOrder, key)
		}
		route.Count++
		route.TotalAmount += event.AmtOut
		route.TotalFee += event.Fee
		if event.AmtOut < route.MinAmount {
			route.MinAmount = event.AmtOut
		}
		if event.AmtOut > route.MaxAmount {
			route.MaxAmount = event.AmtOut
		}

		source, ok := sources[in]
		if !ok {
			source = &DustSource{ChanIDIn: in}
			sources[in] = source
			sourceOrder = append(sourceOrder, in)
		}
		source.DustCount++
	}

	for _, key := range routeOrder {
		route := routes[key]
		route.Suspicious = route.Count >= rateThreshold
		report.Routes = append(report.Routes, *route)
	}
	sort.SliceStable(report.Routes, func(i, j int) bool {
		return report.Routes[i].Count > report.Routes[j].Count
	})

	for _, id := range sourceOrder {
		source := sources[id]
		source.Suspicious = source.DustCount >= rateThreshold
		report.Sources = append(report.Sources, *source)

		if source.Suspicious {
			report.Recommendations = append(report.Recommendations, DustRecommendation{
				ChanIDIn:    id,
				Action:      "raise_min_htlc",
				MinHtlcMsat: (dustThreshold + 1) * 1000,
				Reason: fmt.Sprintf("channel %s forwarded %d dust payments; raising the minimum HTLC size blocks them at the source",
					id, source.DustCount),
			})
		}
	}

	if report.DustFees > 0 && report.NormalFees > 0 {
		pct := utils.RoundPct(report.DustFees, report.DustFees+report.NormalFees)
		report.FeeEfficiencyWarning = fmt.Sprintf(
			"dust forwards earned %d%% of routing fees for %d of %d forwards",
			pct, report.DustCount, report.DustCount+report.NormalCount)
	}

	return report
}

// AnalyzeDustUtxos partitions a UTXO set into dust and normal by amount
// alone. Both partitions and their totals are always well-defined, an empty
// input yields zero counts and the healthy alert.
func AnalyzeDustUtxos(utxos []lnd.UTXO, dustThreshold int64) UtxoDustReport {
	if dustThreshold == 0 {
		dustThreshold = DefaultDustThreshold
	}

	report := UtxoDustReport{
		DustThreshold: dustThreshold,
		DustUtxos:     []lnd.UTXO{},
		NormalUtxos:   []lnd.UTXO{},
	}

	for _, utxo := range utxos {
		if utxo.Amount <= dustThreshold {
			report.DustUtxos = append(report.DustUtxos, utxo)
			report.DustCount++
			report.DustTotal += utxo.Amount
		} else {
			report.NormalUtxos = append(report.NormalUtxos, utxo)
			report.NormalCount++
			report.NormalTotal += utxo.Amount
		}
	}

	if report.DustCount == 0 {
		report.Alert = "No dust UTXOs detected"
	} else {
		report.Alert = fmt.Sprintf("%d dust UTXOs totaling %d sats", report.DustCount, report.DustTotal)
	}

	return report
}

// FreezeDustUtxos leases each dust UTXO for expirySeconds, recording a
// per-UTXO outcome. A single failure does not abort the batch; callers get
// the full frozen/freeze_failed breakdown.
func FreezeDustUtxos(ctx context.Context, freezer lnd.UtxoFreezer, utxos []lnd.UTXO, expirySeconds int64) []UtxoFreezeResult {
	results := make([]UtxoFreezeResult, 0, len(utxos))

	for _, utxo := range utxos {
		outpoint := utxo.Outpoint()
		result := UtxoFreezeResult{
			Outpoint: outpoint,
			Amount:   utxo.Amount,
		}

		if _, err := bitcoin.ParseOutpoint(outpoint); err != nil {
			result.Status = FreezeFailed
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		expiration, err := freezer.FreezeUtxo(ctx, outpoint, expirySeconds)
		if err != nil {
			result.Status = FreezeFailed
			result.Error = err.Error()
		} else {
			result.Status = FreezeOK
			result.Expiration = expiration
		}
		results = append(results, result)
	}

	return results
}
