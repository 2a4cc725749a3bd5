package analytics

import (
	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
	"github.com/brewgator/lightning-node-analytics/pkg/utils"
)

// Rebalance planner defaults used when the caller passes 0.
const (
	DefaultRebalanceTargetPct    = 50
	DefaultRebalanceMinDeviation = 20
)

// PlanRebalance splits active channels whose local ratio deviates from the
// target by at least minDeviationPct into sources (excess outbound
// liquidity) and sinks (excess inbound), then pairs them positionally:
// source[i] with sink[i], suggested amount the smaller of the two sides'
// amount_to_move. The pairing is a simple greedy bound, not an optimal
// matching; unpaired endpoints still appear in the full lists.
func PlanRebalance(channels []lnd.Channel, targetPct, minDeviationPct int64) RebalancePlan {
	if targetPct == 0 {
		targetPct = DefaultRebalanceTargetPct
	}
	if minDeviationPct == 0 {
		minDeviationPct = DefaultRebalanceMinDeviation
	}

	plan := RebalancePlan{
		TargetPct:       targetPct,
		MinDeviationPct: minDeviationPct,
		Sources:         []RebalanceEndpoint{},
		Sinks:           []RebalanceEndpoint{},
		Pairs:           []RebalanceSuggestion{},
	}

	for _, ch := range channels {
		if !ch.Active {
			continue
		}

		ratio := utils.RoundPct(ch.LocalBalance, ch.Capacity)
		deviation := ratio - targetPct
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation < minDeviationPct {
			continue
		}

		targetLocal := ch.Capacity * targetPct / 100
		amount := ch.LocalBalance - targetLocal
		if amount < 0 {
			amount = -amount
		}

		endpoint := RebalanceEndpoint{
			ChanID:        ch.ChanID,
			RemotePubkey:  ch.RemotePubkey,
			Capacity:      ch.Capacity,
			LocalBalance:  ch.LocalBalance,
			LocalRatioPct: ratio,
			DeviationPct:  deviation,
			AmountToMove:  amount,
		}

		if ch.LocalBalance > targetLocal {
			plan.Sources = append(plan.Sources, endpoint)
		} else {
			plan.Sinks = append(plan.Sinks, endpoint)
		}
	}

	pairs := len(plan.Sources)
	if len(plan.Sinks) < pairs {
		pairs = len(plan.Sinks)
	}
	for i := 0; i < pairs; i++ {
		amount := plan.Sources[i].AmountToMove
		if plan.Sinks[i].AmountToMove < amount {
			amount = plan.Sinks[i].AmountToMove
		}
		plan.Pairs = append(plan.Pairs, RebalanceSuggestion{
			FromChanID: plan.Sources[i].ChanID,
			ToChanID:   plan.Sinks[i].ChanID,
			Amount:     amount,
		})
	}

	return plan
}
