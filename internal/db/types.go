package db

import (
	"time"

	"github.com/brewgator/lightning-node-analytics/internal/analytics"
)

// StoredBalanceReport is a balance report snapshot as archived, with the
// headline counts broken out into queryable columns.
type StoredBalanceReport struct {
	ID              int64                   `json:"id" db:"id"`
	Timestamp       time.Time               `json:"timestamp" db:"timestamp"`
	ChannelCount    int                     `json:"channel_count" db:"channel_count"`
	BalancedCount   int                     `json:"balanced_count" db:"balanced_count"`
	ImbalancedCount int                     `json:"imbalanced_count" db:"imbalanced_count"`
	Report          analytics.BalanceReport `json:"report" db:"-"`
}

// StoredForwardingSummary is a forwarding summary snapshot as archived.
type StoredForwardingSummary struct {
	ID          int64                       `json:"id" db:"id"`
	Timestamp   time.Time                   `json:"timestamp" db:"timestamp"`
	WindowStart int64                       `json:"window_start" db:"window_start"`
	WindowEnd   int64                       `json:"window_end" db:"window_end"`
	TotalEvents int                         `json:"total_events" db:"total_events"`
	TotalFee    int64                       `json:"total_fee" db:"total_fee"`
	Summary     analytics.ForwardingSummary `json:"summary" db:"-"`
}

// StoredPeerScore is one peer's score at one collection timestamp. A full
// score report fans out to one row per peer so score history is queryable
// per pubkey.
type StoredPeerScore struct {
	ID           int64     `json:"id" db:"id"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	Pubkey       string    `json:"pubkey" db:"pubkey"`
	Score        int64     `json:"score" db:"score"`
	Revenue      int64     `json:"revenue" db:"revenue"`
	ForwardCount int64     `json:"forward_count" db:"forward_count"`
	ChannelCount int       `json:"channel_count" db:"channel_count"`
	AvgUptimePct int64     `json:"avg_uptime_pct" db:"avg_uptime_pct"`
}

// DailyFeeData represents aggregated fee data for a specific day
type DailyFeeData struct {
	Date         string `json:"date" db:"date"`
	TotalFee     int64  `json:"total_fee" db:"total_fee"`
	ForwardCount int64  `json:"forward_count" db:"forward_count"`
}
