package analytics

import (
	"testing"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

func TestSummarizeForwarding(t *testing.T) {
	events := []lnd.ForwardingEvent{
		{ChanIDIn: "100", ChanIDOut: "200", AmtIn: 1010, AmtOut: 1000, Fee: 10},
		{ChanIDIn: "100", ChanIDOut: "300", AmtIn: 2020, AmtOut: 2000, Fee: 20},
		{ChanIDIn: "200", ChanIDOut: "100", AmtIn: 505, AmtOut: 500, Fee: 5},
	}

	summary := SummarizeForwarding(events, 1000, 2000)

	if summary.TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3", summary.TotalEvents)
	}
	if summary.TotalFee != 35 {
		t.Errorf("TotalFee = %d, want 35", summary.TotalFee)
	}
	if summary.TotalAmountIn != 3535 || summary.TotalAmountOut != 3500 {
		t.Errorf("Totals = (%d in, %d out), want (3535, 3500)", summary.TotalAmountIn, summary.TotalAmountOut)
	}
	if summary.StartTime != 1000 || summary.EndTime != 2000 {
		t.Errorf("Window = (%d, %d), want (1000, 2000)", summary.StartTime, summary.EndTime)
	}

	stats := make(map[lnd.ChannelID]ChannelForwardingStats)
	for _, ch := range summary.Channels {
		stats[ch.ChanID] = ch
	}

	// Channel 100 plays both roles: inbound twice, outbound once
	ch100 := stats["100"]
	if ch100.InboundCount != 2 || ch100.InboundAmount != 3030 {
		t.Errorf("100 inbound = (%d, %d), want (2, 3030)", ch100.InboundCount, ch100.InboundAmount)
	}
	if ch100.OutboundCount != 1 || ch100.OutboundAmount != 500 || ch100.FeeEarned != 5 {
		t.Errorf("100 outbound = (%d, %d, fee %d), want (1, 500, 5)",
			ch100.OutboundCount, ch100.OutboundAmount, ch100.FeeEarned)
	}

	// Fee attribution goes to the outbound leg only
	ch300 := stats["300"]
	if ch300.FeeEarned != 20 || ch300.InboundCount != 0 {
		t.Errorf("300 = (fee %d, inbound %d), want (20, 0)", ch300.FeeEarned, ch300.InboundCount)
	}
}

func TestSummarizeForwardingFeeConservation(t *testing.T) {
	events := []lnd.ForwardingEvent{
		{ChanIDIn: "1", ChanIDOut: "2", AmtOut: 100, Fee: 3},
		{ChanIDIn: "2", ChanIDOut: "3", AmtOut: 200, Fee: 7},
		{ChanIDIn: "3", ChanIDOut: "1", AmtOut: 300, Fee: 11},
		{ChanIDIn: "", ChanIDOut: "2", AmtOut: 50, Fee: 2},
	}

	summary := SummarizeForwarding(events, 0, 0)

	var perChannel int64
	for _, ch := range summary.Channels {
		perChannel += ch.FeeEarned
	}
	if perChannel != summary.TotalFee {
		t.Errorf("Per-channel fees sum to %d, total is %d", perChannel, summary.TotalFee)
	}
}

func TestSummarizeForwardingSortAndTies(t *testing.T) {
	events := []lnd.ForwardingEvent{
		{ChanIDIn: "9", ChanIDOut: "1", AmtOut: 100, Fee: 5},
		{ChanIDIn: "9", ChanIDOut: "2", AmtOut: 100, Fee: 9},
		{ChanIDIn: "9", ChanIDOut: "3", AmtOut: 100, Fee: 5},
	}

	summary := SummarizeForwarding(events, 0, 0)

	// Descending by fee; 1 and 3 tie at 5 and keep encounter order
	wantOrder := []lnd.ChannelID{"2", "9", "1", "3"}
	if len(summary.Channels) != len(wantOrder) {
		t.Fatalf("Channels length = %d, want %d", len(summary.Channels), len(wantOrder))
	}
	for i, want := range wantOrder {
		if summary.Channels[i].ChanID != want {
			t.Errorf("Channels[%d] = %s, want %s", i, summary.Channels[i].ChanID, want)
		}
	}
}

func TestSummarizeForwardingUnknownChannel(t *testing.T) {
	events := []lnd.ForwardingEvent{
		{ChanIDIn: "", ChanIDOut: "2", AmtIn: 100, AmtOut: 99, Fee: 1},
		{ChanIDIn: "1", ChanIDOut: "", AmtIn: 200, AmtOut: 198, Fee: 2},
	}

	summary := SummarizeForwarding(events, 0, 0)

	var unknown *ChannelForwardingStats
	for i := range summary.Channels {
		if summary.Channels[i].ChanID == lnd.UnknownChannelID {
			unknown = &summary.Channels[i]
		}
	}
	if unknown == nil {
		t.Fatal("Expected an unknown channel entry")
	}
	if unknown.InboundCount != 1 || unknown.OutboundCount != 1 {
		t.Errorf("unknown = (%d in, %d out), want (1, 1)", unknown.InboundCount, unknown.OutboundCount)
	}
	if unknown.FeeEarned != 2 {
		t.Errorf("unknown FeeEarned = %d, want 2", unknown.FeeEarned)
	}
}

func TestSummarizeForwardingEmpty(t *testing.T) {
	summary := SummarizeForwarding(nil, 100, 200)
	if summary.TotalEvents != 0 || len(summary.Channels) != 0 {
		t.Errorf("Empty input produced non-empty summary: %+v", summary)
	}
}
