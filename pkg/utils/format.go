package utils

import (
	"fmt"
	"math"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
)

// FormatSats formats satoshi amounts in a human-readable way
func FormatSats(amount int64) string {
	if amount >= 100000000 {
		// Show in BTC for amounts >= 1 BTC
		return fmt.Sprintf("%.8f BTC", btcutil.Amount(amount).ToBTC())
	} else if amount >= 1000000 {
		// Show in millions for amounts >= 1M sats
		return fmt.Sprintf("%.2fM sats", float64(amount)/1000000)
	} else if amount >= 1000 {
		// Show in thousands for amounts >= 1K sats
		return fmt.Sprintf("%.1fK sats", float64(amount)/1000)
	}
	return fmt.Sprintf("%d sats", amount)
}

// FormatSatsCompact formats satoshi amounts in a compact way for tables
func FormatSatsCompact(amount int64) string {
	if amount >= 100000000 {
		return fmt.Sprintf("%.3f BTC", btcutil.Amount(amount).ToBTC())
	} else if amount >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(amount)/1000000)
	} else if amount >= 1000 {
		return fmt.Sprintf("%.0fK", float64(amount)/1000)
	}
	return fmt.Sprintf("%d", amount)
}

// ParseInt parses a stringified integer from LND output, returning 0 on
// missing or malformed input. Every "0 on missing/invalid" fallback in the
// codebase goes through here so the policy stays in one place.
func ParseInt(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseUint is ParseInt for unsigned offsets and counters.
func ParseUint(s string) uint64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// RoundRatio returns round(num/den*scale) with half-away-from-zero rounding,
// or 0 when the denominator is 0.
func RoundRatio(num, den, scale int64) int64 {
	if den == 0 {
		return 0
	}
	return int64(math.Round(float64(num) / float64(den) * float64(scale)))
}

// RoundPct returns the percentage num/den rounded to the nearest integer,
// 0 when den is 0.
func RoundPct(num, den int64) int64 {
	return RoundRatio(num, den, 100)
}
