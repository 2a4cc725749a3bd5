package analytics

import (
	"fmt"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
	"github.com/brewgator/lightning-node-analytics/pkg/utils"
)

// MaxConcurrentHtlcs is the protocol ceiling on simultaneous HTLCs per
// channel. Not configurable.
const MaxConcurrentHtlcs = 483

// DefaultHtlcWarnThreshold is the pending-HTLC count that triggers a
// warning when the caller passes 0.
const DefaultHtlcWarnThreshold = 300

// AnalyzeHtlcRisk classifies each channel's pending-HTLC exposure.
//
// Risk levels are assigned by first match: critical when the pending count
// reaches 90% of the protocol ceiling, warning when it reaches
// warnThreshold, dust_attack_suspected when dust HTLCs are the majority of
// more than 10 pending. A channel that is both near exhaustion and
// dust-dominated reports critical, never dust_attack_suspected; the order
// is load-bearing and must not change.
func AnalyzeHtlcRisk(channels []lnd.Channel, dustThreshold int64, warnThreshold int) HtlcRiskReport {
	if warnThreshold == 0 {
		warnThreshold = DefaultHtlcWarnThreshold
	}

	report := HtlcRiskReport{
		Channels: make([]ChannelHtlcRisk, 0, len(channels)),
	}

	dustSuspects := 0
	atRisk := 0

	for _, ch := range channels {
		count := len(ch.PendingHTLCs)
		dustCount := 0
		for _, htlc := range ch.PendingHTLCs {
			if htlc.Amount <= dustThreshold {
				dustCount++
			}
		}

		risk := RiskNormal
		switch {
		case float64(count) >= MaxConcurrentHtlcs*0.9:
			risk = RiskCritical
		case count >= warnThreshold:
			risk = RiskWarning
		case float64(dustCount) > float64(count)*0.5 && count > 10:
			risk = RiskDustAttack
		}

		switch risk {
		case RiskDustAttack:
			dustSuspects++
		case RiskCritical, RiskWarning:
			atRisk++
		}

		report.Channels = append(report.Channels, ChannelHtlcRisk{
			ChanID:         ch.ChanID,
			PendingCount:   count,
			DustCount:      dustCount,
			UtilizationPct: utils.RoundPct(int64(count), MaxConcurrentHtlcs),
			Risk:           risk,
		})
		report.TotalPending += count
		report.TotalDust += dustCount
	}

	switch {
	case dustSuspects > 0:
		report.Alert = fmt.Sprintf("DUST ATTACK SUSPECTED on %d channel(s)", dustSuspects)
	case atRisk > 0:
		report.Alert = fmt.Sprintf("%d channel(s) at risk of HTLC exhaustion", atRisk)
	default:
		report.Alert = "All channels healthy"
	}

	return report
}
