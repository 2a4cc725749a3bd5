package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

func dustEvents(route lnd.ForwardingEvent, n int) []lnd.ForwardingEvent {
	events := make([]lnd.ForwardingEvent, n)
	for i := range events {
		events[i] = route
	}
	return events
}

func TestDetectDustForwards(t *testing.T) {
	events := []lnd.ForwardingEvent{
		{ChanIDIn: "1", ChanIDOut: "2", AmtOut: 50, Fee: 1},
		{ChanIDIn: "1", ChanIDOut: "2", AmtOut: 80, Fee: 1},
		{ChanIDIn: "1", ChanIDOut: "3", AmtOut: 100, Fee: 1},
		{ChanIDIn: "2", ChanIDOut: "3", AmtOut: 5000, Fee: 5},
		{ChanIDIn: "3", ChanIDOut: "1", AmtOut: 101, Fee: 2},
	}

	report := DetectDustForwards(events, 100, 10)

	// Partition is exhaustive and disjoint: amounts <= threshold are dust
	if report.DustCount != 3 || report.NormalCount != 2 {
		t.Errorf("Partition = (%d dust, %d normal), want (3, 2)", report.DustCount, report.NormalCount)
	}
	if report.DustCount+report.NormalCount != len(events) {
		t.Errorf("Partition does not cover all %d events", len(events))
	}
	if report.DustFees != 3 || report.NormalFees != 7 {
		t.Errorf("Fees = (%d dust, %d normal), want (3, 7)", report.DustFees, report.NormalFees)
	}

	if len(report.Routes) != 2 {
		t.Fatalf("Routes length = %d, want 2", len(report.Routes))
	}
	top := report.Routes[0]
	if top.ChanIDIn != "1" || top.ChanIDOut != "2" || top.Count != 2 {
		t.Errorf("Top route = %s->%s x%d, want 1->2 x2", top.ChanIDIn, top.ChanIDOut, top.Count)
	}
	if top.MinAmount != 50 || top.MaxAmount != 80 || top.TotalAmount != 130 {
		t.Errorf("Top route amounts = (min %d, max %d, total %d), want (50, 80, 130)",
			top.MinAmount, top.MaxAmount, top.TotalAmount)
	}

	if len(report.Sources) != 1 || report.Sources[0].ChanIDIn != "1" || report.Sources[0].DustCount != 3 {
		t.Fatalf("Sources = %+v, want one entry for channel 1 with 3 dust forwards", report.Sources)
	}
	if report.Sources[0].Suspicious {
		t.Error("Source below rate threshold flagged suspicious")
	}
	if len(report.Recommendations) != 0 {
		t.Errorf("Recommendations = %d, want 0 below the rate threshold", len(report.Recommendations))
	}
}

func TestDetectDustForwardsSuspiciousRoute(t *testing.T) {
	// A burst of 300 dust forwards over a single route plus normal traffic
	events := dustEvents(lnd.ForwardingEvent{ChanIDIn: "7", ChanIDOut: "8", AmtOut: 1, Fee: 1}, 300)
	events = append(events, lnd.ForwardingEvent{ChanIDIn: "8", ChanIDOut: "9", AmtOut: 10000, Fee: 10})

	report := DetectDustForwards(events, 100, 50)

	if len(report.Routes) != 1 || !report.Routes[0].Suspicious {
		t.Fatalf("Expected one suspicious route, got %+v", report.Routes)
	}
	if len(report.Sources) != 1 || !report.Sources[0].Suspicious {
		t.Fatalf("Expected one suspicious source, got %+v", report.Sources)
	}

	if len(report.Recommendations) != 1 {
		t.Fatalf("Recommendations length = %d, want 1", len(report.Recommendations))
	}
	rec := report.Recommendations[0]
	if rec.ChanIDIn != "7" || rec.Action != "raise_min_htlc" {
		t.Errorf("Recommendation = %+v, want raise_min_htlc on channel 7", rec)
	}
	if rec.MinHtlcMsat != 101000 {
		t.Errorf("MinHtlcMsat = %d, want 101000 (threshold+1 in msat)", rec.MinHtlcMsat)
	}

	if report.FeeEfficiencyWarning == "" {
		t.Error("Expected a fee efficiency warning when both partitions earned fees")
	}
}

func TestDetectDustForwardsNoWarningWithoutNormalFees(t *testing.T) {
	events := dustEvents(lnd.ForwardingEvent{ChanIDIn: "1", ChanIDOut: "2", AmtOut: 10, Fee: 1}, 5)

	report := DetectDustForwards(events, 100, 50)
	if report.FeeEfficiencyWarning != "" {
		t.Errorf("Unexpected warning with no normal traffic: %q", report.FeeEfficiencyWarning)
	}
}

func TestDetectDustForwardsUnknownChannels(t *testing.T) {
	events := []lnd.ForwardingEvent{
		{ChanIDIn: "", ChanIDOut: "", AmtOut: 10, Fee: 1},
	}

	report := DetectDustForwards(events, 100, 1)
	if len(report.Routes) != 1 {
		t.Fatalf("Routes length = %d, want 1", len(report.Routes))
	}
	if report.Routes[0].ChanIDIn != lnd.UnknownChannelID || report.Routes[0].ChanIDOut != lnd.UnknownChannelID {
		t.Errorf("Route = %s->%s, want unknown->unknown", report.Routes[0].ChanIDIn, report.Routes[0].ChanIDOut)
	}
}

func TestAnalyzeDustUtxos(t *testing.T) {
	t.Run("partition by amount", func(t *testing.T) {
		utxos := []lnd.UTXO{
			{TxID: "aa", OutputIndex: 0, Amount: 50},
			{TxID: "bb", OutputIndex: 1, Amount: 100},
			{TxID: "cc", OutputIndex: 0, Amount: 101},
			{TxID: "dd", OutputIndex: 2, Amount: 500000},
		}

		report := AnalyzeDustUtxos(utxos, 100)

		if report.DustCount != 2 || report.NormalCount != 2 {
			t.Errorf("Partition = (%d dust, %d normal), want (2, 2)", report.DustCount, report.NormalCount)
		}
		if report.DustTotal != 150 || report.NormalTotal != 500101 {
			t.Errorf("Totals = (%d, %d), want (150, 500101)", report.DustTotal, report.NormalTotal)
		}
		want := "2 dust UTXOs totaling 150 sats"
		if report.Alert != want {
			t.Errorf("Alert = %q, want %q", report.Alert, want)
		}
	})

	t.Run("empty wallet is healthy", func(t *testing.T) {
		report := AnalyzeDustUtxos(nil, 100)
		if report.Alert != "No dust UTXOs detected" {
			t.Errorf("Alert = %q, want healthy message", report.Alert)
		}
		if report.DustCount != 0 || report.NormalCount != 0 {
			t.Errorf("Empty input produced non-zero counts: %+v", report)
		}
	})
}

// fakeFreezer fails any outpoint whose txid appears in failTxids.
type fakeFreezer struct {
	failTxids map[string]bool
	frozen    []string
}

func (f *fakeFreezer) FreezeUtxo(_ context.Context, outpoint string, _ int64) (int64, error) {
	txid := strings.SplitN(outpoint, ":", 2)[0]
	if f.failTxids[txid] {
		return 0, errors.New("output already leased")
	}
	f.frozen = append(f.frozen, outpoint)
	return 1700000600, nil
}

func (f *fakeFreezer) ReleaseUtxo(_ context.Context, _ string) error { return nil }

const (
	testTxidA = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	testTxidB = "6fe28c0ab6f1b372c1a6a246ae63f74f931e8365e15a089c68d6190000000000"
)

func TestFreezeDustUtxos(t *testing.T) {
	freezer := &fakeFreezer{failTxids: map[string]bool{testTxidB: true}}
	utxos := []lnd.UTXO{
		{TxID: testTxidA, OutputIndex: 0, Amount: 50},
		{TxID: testTxidB, OutputIndex: 1, Amount: 60},
		{TxID: "not-a-txid", OutputIndex: 0, Amount: 70},
		{TxID: testTxidA, OutputIndex: 1, Amount: 80},
	}

	results := FreezeDustUtxos(context.Background(), freezer, utxos, 3600)

	if len(results) != 4 {
		t.Fatalf("Results length = %d, want 4", len(results))
	}

	wantStatus := []FreezeStatus{FreezeOK, FreezeFailed, FreezeFailed, FreezeOK}
	for i, want := range wantStatus {
		if results[i].Status != want {
			t.Errorf("Results[%d].Status = %s, want %s (%s)", i, results[i].Status, want, results[i].Error)
		}
	}

	if results[0].Expiration != 1700000600 {
		t.Errorf("Expiration = %d, want 1700000600", results[0].Expiration)
	}
	if results[1].Error == "" || results[2].Error == "" {
		t.Error("Failed results missing error detail")
	}

	// Invalid outpoints never reach the freezer
	if len(freezer.frozen) != 2 {
		t.Errorf("Freezer saw %d outpoints, want 2", len(freezer.frozen))
	}
}
