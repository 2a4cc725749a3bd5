// Package analytics turns raw LND snapshots and forwarding history into
// actionable reports: balance and HTLC risk classification, forwarding
// revenue breakdowns, dust-attack detection, peer scoring, rebalance
// pairing, and fee suggestions.
//
// Every analysis is a pure function of its inputs. The engine keeps no
// state between calls and performs no I/O of its own; pagination and
// mutations go through the capability interfaces in pkg/lnd.
package analytics

import "github.com/brewgator/lightning-node-analytics/pkg/lnd"

// BalanceStatus classifies a channel's liquidity split.
type BalanceStatus string

const (
	StatusBalanced       BalanceStatus = "balanced"
	StatusDepletedLocal  BalanceStatus = "depleted_local"
	StatusDepletedRemote BalanceStatus = "depleted_remote"
)

// ChannelBalance is the per-channel output of the balance analyzer.
type ChannelBalance struct {
	ChanID         lnd.ChannelID `json:"chan_id"`
	RemotePubkey   string        `json:"remote_pubkey"`
	Capacity       int64         `json:"capacity"`
	LocalBalance   int64         `json:"local_balance"`
	RemoteBalance  int64         `json:"remote_balance"`
	LocalRatioPct  int64         `json:"local_ratio_pct"`
	UptimePct      int64         `json:"uptime_pct"`
	Status         BalanceStatus `json:"status"`
	NeedsRebalance bool          `json:"needs_rebalance"`
}

// BalanceReport summarizes liquidity across all channels. Channels keeps
// input order; Alerts is the imbalanced subset.
type BalanceReport struct {
	Channels        []ChannelBalance `json:"channels"`
	BalancedCount   int              `json:"balanced_count"`
	ImbalancedCount int              `json:"imbalanced_count"`
	Alerts          []ChannelBalance `json:"alerts"`
}

// HtlcRisk is the risk level assigned to a channel's pending HTLC load.
type HtlcRisk string

const (
	RiskNormal     HtlcRisk = "normal"
	RiskWarning    HtlcRisk = "warning"
	RiskCritical   HtlcRisk = "critical"
	RiskDustAttack HtlcRisk = "dust_attack_suspected"
)

// ChannelHtlcRisk is the per-channel output of the HTLC risk analyzer.
type ChannelHtlcRisk struct {
	ChanID         lnd.ChannelID `json:"chan_id"`
	PendingCount   int           `json:"pending_count"`
	DustCount      int           `json:"dust_count"`
	UtilizationPct int64         `json:"htlc_utilization_pct"`
	Risk           HtlcRisk      `json:"risk"`
}

// HtlcRiskReport aggregates pending-HTLC exposure across channels.
type HtlcRiskReport struct {
	Channels     []ChannelHtlcRisk `json:"channels"`
	TotalPending int               `json:"total_pending"`
	TotalDust    int               `json:"total_dust"`
	Alert        string            `json:"alert"`
}

// ChannelForwardingStats accumulates both legs a channel can play in
// forwarding events. A channel appearing inbound in one event and outbound
// in another accumulates both roles here.
type ChannelForwardingStats struct {
	ChanID         lnd.ChannelID `json:"chan_id"`
	InboundCount   int           `json:"inbound_count"`
	InboundAmount  int64         `json:"inbound_amount"`
	OutboundCount  int           `json:"outbound_count"`
	OutboundAmount int64         `json:"outbound_amount"`
	FeeEarned      int64         `json:"fee_earned"`
}

// ForwardingSummary is the per-channel breakdown plus grand totals over a
// window. Channels is sorted descending by fee earned.
type ForwardingSummary struct {
	Channels       []ChannelForwardingStats `json:"channels"`
	TotalEvents    int                      `json:"total_events"`
	TotalFee       int64                    `json:"total_fee"`
	TotalAmountIn  int64                    `json:"total_amount_in"`
	TotalAmountOut int64                    `json:"total_amount_out"`
	StartTime      int64                    `json:"start_time"`
	EndTime        int64                    `json:"end_time"`
}

// DustRoute is the dust statistics for one ordered (inbound, outbound)
// channel pair.
type DustRoute struct {
	ChanIDIn    lnd.ChannelID `json:"chan_id_in"`
	ChanIDOut   lnd.ChannelID `json:"chan_id_out"`
	Count       int           `json:"count"`
	TotalAmount int64         `json:"total_amount"`
	TotalFee    int64         `json:"total_fee"`
	MinAmount   int64         `json:"min_amount"`
	MaxAmount   int64         `json:"max_amount"`
	Suspicious  bool          `json:"suspicious"`
}

// DustSource flags an inbound channel that injects dust regardless of where
// it routes next.
type DustSource struct {
	ChanIDIn   lnd.ChannelID `json:"chan_id_in"`
	DustCount  int           `json:"dust_count"`
	Suspicious bool          `json:"suspicious"`
}

// DustRecommendation is a remediation suggestion for one suspicious inbound
// channel.
type DustRecommendation struct {
	ChanIDIn    lnd.ChannelID `json:"chan_id_in"`
	Action      string        `json:"action"`
	MinHtlcMsat int64         `json:"min_htlc_msat"`
	Reason      string        `json:"reason"`
}

// ForwardDustReport is the forwarding-based dust analysis.
type ForwardDustReport struct {
	DustThreshold        int64                `json:"dust_threshold"`
	DustCount            int                  `json:"dust_forward_count"`
	NormalCount          int                  `json:"normal_forward_count"`
	DustFees             int64                `json:"dust_fees"`
	NormalFees           int64                `json:"normal_fees"`
	Routes               []DustRoute          `json:"routes"`
	Sources              []DustSource         `json:"sources"`
	FeeEfficiencyWarning string               `json:"fee_efficiency_warning,omitempty"`
	Recommendations      []DustRecommendation `json:"recommendations"`
}

// FreezeStatus records the outcome of one freeze attempt.
type FreezeStatus string

const (
	FreezeOK     FreezeStatus = "frozen"
	FreezeFailed FreezeStatus = "freeze_failed"
)

// UtxoFreezeResult is the per-UTXO outcome of an auto-freeze batch.
type UtxoFreezeResult struct {
	Outpoint   string       `json:"outpoint"`
	Amount     int64        `json:"amount"`
	Status     FreezeStatus `json:"status"`
	Expiration int64        `json:"expiration,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// UtxoDustReport is the UTXO-based dust analysis.
type UtxoDustReport struct {
	DustThreshold int64              `json:"dust_threshold"`
	DustUtxos     []lnd.UTXO         `json:"dust_utxos"`
	NormalUtxos   []lnd.UTXO         `json:"normal_utxos"`
	DustCount     int                `json:"dust_utxos_count"`
	NormalCount   int                `json:"normal_utxos_count"`
	DustTotal     int64              `json:"dust_total"`
	NormalTotal   int64              `json:"normal_total"`
	Alert         string             `json:"alert"`
	FrozenResults []UtxoFreezeResult `json:"frozen_results,omitempty"`
}

// PeerScore is the fused quality score for one remote peer.
type PeerScore struct {
	Pubkey            string `json:"pubkey"`
	ChannelCount      int    `json:"channel_count"`
	TotalCapacity     int64  `json:"total_capacity"`
	TotalLocal        int64  `json:"total_local"`
	Revenue           int64  `json:"revenue"`
	ForwardCount      int64  `json:"forward_count"`
	AvgUptimePct      int64  `json:"avg_uptime_pct"`
	RevenuePerMillion int64  `json:"revenue_per_million_capacity"`
	Score             int64  `json:"score"`
}

// PeerScoreReport ranks peers descending by score.
type PeerScoreReport struct {
	Peers       []PeerScore `json:"peers"`
	WindowStart int64       `json:"window_start"`
	WindowEnd   int64       `json:"window_end"`
}

// RebalanceEndpoint is a channel participating in a rebalance plan, either
// as a source of outbound liquidity or a sink needing it.
type RebalanceEndpoint struct {
	ChanID        lnd.ChannelID `json:"chan_id"`
	RemotePubkey  string        `json:"remote_pubkey"`
	Capacity      int64         `json:"capacity"`
	LocalBalance  int64         `json:"local_balance"`
	LocalRatioPct int64         `json:"local_ratio_pct"`
	DeviationPct  int64         `json:"deviation_pct"`
	AmountToMove  int64         `json:"amount_to_move"`
}

// RebalanceSuggestion pairs one source with one sink.
type RebalanceSuggestion struct {
	FromChanID lnd.ChannelID `json:"from_chan_id"`
	ToChanID   lnd.ChannelID `json:"to_chan_id"`
	Amount     int64         `json:"amount"`
}

// RebalancePlan lists every imbalanced channel and the greedy pairing.
type RebalancePlan struct {
	TargetPct       int64                 `json:"target_pct"`
	MinDeviationPct int64                 `json:"min_deviation_pct"`
	Sources         []RebalanceEndpoint   `json:"sources"`
	Sinks           []RebalanceEndpoint   `json:"sinks"`
	Pairs           []RebalanceSuggestion `json:"pairs"`
}

// FeeTier names the liquidity band a fee suggestion falls into.
type FeeTier string

const (
	TierLowBalance  FeeTier = "low_balance"
	TierBalanced    FeeTier = "balanced"
	TierHighBalance FeeTier = "high_balance"
)

// FeeSuggestion is the recommended fee rate for one channel.
type FeeSuggestion struct {
	ChanID        lnd.ChannelID `json:"chan_id"`
	ChannelPoint  string        `json:"channel_point"`
	LocalRatioPct int64         `json:"local_ratio_pct"`
	Tier          FeeTier       `json:"tier"`
	FeeRatePpm    int64         `json:"fee_rate_ppm"`
	Reason        string        `json:"reason"`
}

// FeeSuggestionSet holds suggestions for every channel in input order.
type FeeSuggestionSet struct {
	Suggestions []FeeSuggestion `json:"suggestions"`
	Config      FeeConfig       `json:"config"`
}

// ApplyStatus records the outcome of one policy update.
type ApplyStatus string

const (
	ApplyOK     ApplyStatus = "applied"
	ApplyFailed ApplyStatus = "apply_failed"
)

// FeeApplyResult is the per-channel outcome of applying a suggestion set.
type FeeApplyResult struct {
	ChanID lnd.ChannelID `json:"chan_id"`
	Status ApplyStatus   `json:"status"`
	Error  string        `json:"error,omitempty"`
}
