package analytics

import (
	"testing"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

func makeHTLCs(count int, amount int64) []lnd.PendingHTLC {
	htlcs := make([]lnd.PendingHTLC, count)
	for i := range htlcs {
		htlcs[i] = lnd.PendingHTLC{Direction: lnd.HTLCIncoming, Amount: amount}
	}
	return htlcs
}

func TestAnalyzeHtlcRisk(t *testing.T) {
	testCases := []struct {
		name     string
		htlcs    []lnd.PendingHTLC
		wantRisk HtlcRisk
	}{
		{"no pending is normal", nil, RiskNormal},
		{"few large HTLCs is normal", makeHTLCs(5, 50000), RiskNormal},
		{"at warn threshold is warning", makeHTLCs(300, 50000), RiskWarning},
		{"just below warn threshold is normal", makeHTLCs(299, 50000), RiskNormal},
		{"90% of ceiling is critical", makeHTLCs(435, 50000), RiskCritical},
		{"just below 90% of ceiling is warning", makeHTLCs(434, 50000), RiskWarning},
		{"dust majority over ten pending is suspected", makeHTLCs(11, 50), RiskDustAttack},
		{"dust majority at exactly ten pending is normal", makeHTLCs(10, 50), RiskNormal},
		{"critical wins over dust", makeHTLCs(440, 50), RiskCritical},
		{"warning wins over dust", makeHTLCs(310, 50), RiskWarning},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			channels := []lnd.Channel{{ChanID: "1", PendingHTLCs: tc.htlcs}}

			report := AnalyzeHtlcRisk(channels, 100, 300)
			if len(report.Channels) != 1 {
				t.Fatalf("Expected 1 channel, got %d", len(report.Channels))
			}
			if report.Channels[0].Risk != tc.wantRisk {
				t.Errorf("Risk = %s, want %s (pending %d, dust %d)",
					report.Channels[0].Risk, tc.wantRisk,
					report.Channels[0].PendingCount, report.Channels[0].DustCount)
			}
		})
	}
}

func TestAnalyzeHtlcRiskDustBoundary(t *testing.T) {
	// Exactly half dust is not a majority
	htlcs := append(makeHTLCs(10, 50), makeHTLCs(10, 50000)...)
	channels := []lnd.Channel{{ChanID: "1", PendingHTLCs: htlcs}}

	report := AnalyzeHtlcRisk(channels, 100, 300)
	if report.Channels[0].Risk != RiskNormal {
		t.Errorf("Risk = %s, want normal for exactly half dust", report.Channels[0].Risk)
	}

	// An HTLC exactly at the dust threshold counts as dust
	if report.Channels[0].DustCount != 10 {
		t.Errorf("DustCount = %d, want 10", report.Channels[0].DustCount)
	}
}

func TestAnalyzeHtlcRiskAlerts(t *testing.T) {
	t.Run("dust suspicion leads the alert", func(t *testing.T) {
		channels := []lnd.Channel{
			{ChanID: "1", PendingHTLCs: makeHTLCs(20, 50)},
			{ChanID: "2", PendingHTLCs: makeHTLCs(310, 50000)},
		}

		report := AnalyzeHtlcRisk(channels, 100, 300)
		want := "DUST ATTACK SUSPECTED on 1 channel(s)"
		if report.Alert != want {
			t.Errorf("Alert = %q, want %q", report.Alert, want)
		}
	})

	t.Run("exhaustion alert without dust", func(t *testing.T) {
		channels := []lnd.Channel{
			{ChanID: "1", PendingHTLCs: makeHTLCs(310, 50000)},
			{ChanID: "2", PendingHTLCs: makeHTLCs(440, 50000)},
		}

		report := AnalyzeHtlcRisk(channels, 100, 300)
		want := "2 channel(s) at risk of HTLC exhaustion"
		if report.Alert != want {
			t.Errorf("Alert = %q, want %q", report.Alert, want)
		}
	})

	t.Run("healthy when nothing pending", func(t *testing.T) {
		channels := []lnd.Channel{{ChanID: "1"}}

		report := AnalyzeHtlcRisk(channels, 100, 300)
		if report.Alert != "All channels healthy" {
			t.Errorf("Alert = %q, want healthy", report.Alert)
		}
	})
}

func TestAnalyzeHtlcRiskTotals(t *testing.T) {
	channels := []lnd.Channel{
		{ChanID: "1", PendingHTLCs: append(makeHTLCs(3, 50), makeHTLCs(2, 50000)...)},
		{ChanID: "2", PendingHTLCs: makeHTLCs(4, 10)},
	}

	report := AnalyzeHtlcRisk(channels, 100, 300)
	if report.TotalPending != 9 {
		t.Errorf("TotalPending = %d, want 9", report.TotalPending)
	}
	if report.TotalDust != 7 {
		t.Errorf("TotalDust = %d, want 7", report.TotalDust)
	}
}
