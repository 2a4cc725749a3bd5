package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

// pagedSource simulates LND forwarding-history pagination over a fixed
// event set, tracking how many pages were requested.
type pagedSource struct {
	events []lnd.ForwardingEvent
	calls  int
}

func (s *pagedSource) fetch(_ context.Context, _, _ int64, limit, offset uint64) ([]lnd.ForwardingEvent, uint64, error) {
	s.calls++
	if offset >= uint64(len(s.events)) {
		return nil, offset, nil
	}
	end := offset + limit
	if end > uint64(len(s.events)) {
		end = uint64(len(s.events))
	}
	return s.events[offset:end], end, nil
}

func makeEvents(n int) []lnd.ForwardingEvent {
	events := make([]lnd.ForwardingEvent, n)
	for i := range events {
		events[i] = lnd.ForwardingEvent{
			ChanIDIn:  "1",
			ChanIDOut: "2",
			AmtOut:    int64(i + 1),
			Fee:       1,
		}
	}
	return events
}

func TestCollectForwardingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("multiple pages concatenated in order", func(t *testing.T) {
		source := &pagedSource{events: makeEvents(25)}

		collected, err := CollectForwardingEvents(ctx, source.fetch, 0, 100, 10)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(collected) != 25 {
			t.Fatalf("Collected %d events, want 25", len(collected))
		}
		for i, event := range collected {
			if event.AmtOut != int64(i+1) {
				t.Fatalf("Event %d out of order: AmtOut = %d", i, event.AmtOut)
			}
		}
	})

	t.Run("exactly one full page needs a second call to terminate", func(t *testing.T) {
		source := &pagedSource{events: makeEvents(10)}

		collected, err := CollectForwardingEvents(ctx, source.fetch, 0, 100, 10)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(collected) != 10 {
			t.Errorf("Collected %d events, want 10", len(collected))
		}
		if source.calls != 2 {
			t.Errorf("Source called %d times, want 2 (full page then short page)", source.calls)
		}
	})

	t.Run("short first page terminates after one call", func(t *testing.T) {
		source := &pagedSource{events: makeEvents(4)}

		collected, err := CollectForwardingEvents(ctx, source.fetch, 0, 100, 10)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(collected) != 4 {
			t.Errorf("Collected %d events, want 4", len(collected))
		}
		if source.calls != 1 {
			t.Errorf("Source called %d times, want 1", source.calls)
		}
	})

	t.Run("empty source yields empty result", func(t *testing.T) {
		source := &pagedSource{}

		collected, err := CollectForwardingEvents(ctx, source.fetch, 0, 100, 10)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(collected) != 0 {
			t.Errorf("Collected %d events, want 0", len(collected))
		}
	})

	t.Run("page failure aborts with no partial result", func(t *testing.T) {
		failAt := 2
		calls := 0
		fetch := func(_ context.Context, _, _ int64, limit, offset uint64) ([]lnd.ForwardingEvent, uint64, error) {
			calls++
			if calls == failAt {
				return nil, 0, errors.New("connection reset")
			}
			return makeEvents(int(limit)), offset + limit, nil
		}

		collected, err := CollectForwardingEvents(ctx, fetch, 0, 100, 10)
		if err == nil {
			t.Fatal("Expected error from failing page")
		}
		if collected != nil {
			t.Errorf("Expected nil result on failure, got %d events", len(collected))
		}
	})

	t.Run("stalled cursor on full page terminates", func(t *testing.T) {
		calls := 0
		fetch := func(_ context.Context, _, _ int64, limit, offset uint64) ([]lnd.ForwardingEvent, uint64, error) {
			calls++
			// Full page but the offset never advances
			return makeEvents(int(limit)), offset, nil
		}

		collected, err := CollectForwardingEvents(ctx, fetch, 0, 100, 10)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("Source called %d times, want 1", calls)
		}
		if len(collected) != 10 {
			t.Errorf("Collected %d events, want 10", len(collected))
		}
	})

	t.Run("zero page size falls back to default", func(t *testing.T) {
		source := &pagedSource{events: makeEvents(5)}

		collected, err := CollectForwardingEvents(ctx, source.fetch, 0, 100, 0)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(collected) != 5 {
			t.Errorf("Collected %d events, want 5", len(collected))
		}
		if source.calls != 1 {
			t.Errorf("Source called %d times, want 1 (5 < default page size)", source.calls)
		}
	})
}
