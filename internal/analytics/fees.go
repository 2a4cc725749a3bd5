package analytics

import (
	"context"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
	"github.com/brewgator/lightning-node-analytics/pkg/utils"
)

// Liquidity bands for fee tiering.
const (
	lowBalanceRatioPct  = 30
	highBalanceRatioPct = 70
)

// FeeConfig holds the fee rate per tier plus the policy fields every update
// carries.
type FeeConfig struct {
	LowBalanceFeePpm  int64 `json:"low_balance_fee_ppm"`
	BalancedFeePpm    int64 `json:"balanced_fee_ppm"`
	HighBalanceFeePpm int64 `json:"high_balance_fee_ppm"`
	BaseFeeMsat       int64 `json:"base_fee_msat"`
	TimeLockDelta     int64 `json:"time_lock_delta"`
}

// DefaultFeeConfig returns the stock tier rates: expensive when local
// liquidity is scarce, cheap when there is too much of it.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		LowBalanceFeePpm:  1000,
		BalancedFeePpm:    250,
		HighBalanceFeePpm: 50,
		BaseFeeMsat:       1000,
		TimeLockDelta:     80,
	}
}

// SuggestFees maps each channel's local ratio to a fee tier: below 30%
// local the low-balance rate discourages further drain, above 70% the
// high-balance rate encourages outflow, in between the balanced rate
// applies. Output order matches input order.
func SuggestFees(channels []lnd.Channel, cfg FeeConfig) FeeSuggestionSet {
	set := FeeSuggestionSet{
		Suggestions: make([]FeeSuggestion, 0, len(channels)),
		Config:      cfg,
	}

	for _, ch := range channels {
		ratio := utils.RoundPct(ch.LocalBalance, ch.Capacity)

		suggestion := FeeSuggestion{
			ChanID:        ch.ChanID,
			ChannelPoint:  ch.ChannelPoint,
			LocalRatioPct: ratio,
		}

		switch {
		case ratio < lowBalanceRatioPct:
			suggestion.Tier = TierLowBalance
			suggestion.FeeRatePpm = cfg.LowBalanceFeePpm
			suggestion.Reason = "local balance below 30%, raising fees to discourage further drain"
		case ratio > highBalanceRatioPct:
			suggestion.Tier = TierHighBalance
			suggestion.FeeRatePpm = cfg.HighBalanceFeePpm
			suggestion.Reason = "local balance above 70%, lowering fees to encourage outflow"
		default:
			suggestion.Tier = TierBalanced
			suggestion.FeeRatePpm = cfg.BalancedFeePpm
			suggestion.Reason = "liquidity balanced, keeping the standard rate"
		}

		set.Suggestions = append(set.Suggestions, suggestion)
	}

	return set
}

// ApplyFeeSuggestions pushes each suggestion through the policy capability
// sequentially. There is no rollback: a failure partway leaves earlier
// updates applied, and the per-channel results report exactly what
// happened.
func ApplyFeeSuggestions(ctx context.Context, updater lnd.PolicyUpdater, set FeeSuggestionSet) []FeeApplyResult {
	results := make([]FeeApplyResult, 0, len(set.Suggestions))

	for _, suggestion := range set.Suggestions {
		err := updater.ApplyFeePolicy(ctx, lnd.FeePolicyRequest{
			ChannelPoint:  suggestion.ChannelPoint,
			BaseFeeMsat:   set.Config.BaseFeeMsat,
			FeeRatePpm:    suggestion.FeeRatePpm,
			TimeLockDelta: set.Config.TimeLockDelta,
		})

		result := FeeApplyResult{ChanID: suggestion.ChanID}
		if err != nil {
			result.Status = ApplyFailed
			result.Error = err.Error()
		} else {
			result.Status = ApplyOK
		}
		results = append(results, result)
	}

	return results
}
