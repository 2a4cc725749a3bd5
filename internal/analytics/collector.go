package analytics

import (
	"context"
	"fmt"

	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

// DefaultPageSize is the forwarding-history page size used when the caller
// passes 0.
const DefaultPageSize = 10000

// PageFunc fetches one page of forwarding events. It returns the events and
// the source-reported offset for the next page. The offset semantics are
// opaque to the collector: LND may skip or coalesce records, so the
// collector never increments by page size itself.
type PageFunc func(ctx context.Context, startTime, endTime int64, limit, offset uint64) ([]lnd.ForwardingEvent, uint64, error)

// CollectForwardingEvents drains a paginated forwarding-history source into
// a single slice. A page shorter than the requested size is the completion
// signal; the source's "has more" indication is not trusted. Any page
// failure aborts the whole collection with no partial result.
func CollectForwardingEvents(ctx context.Context, fetch PageFunc, startTime, endTime int64, pageSize uint64) ([]lnd.ForwardingEvent, error) {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	var all []lnd.ForwardingEvent
	var offset uint64

	for {
		events, nextOffset, err := fetch(ctx, startTime, endTime, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("forwarding history page at offset %d: %w", offset, err)
		}

		all = append(all, events...)

		if uint64(len(events)) < pageSize {
			break
		}
		if nextOffset <= offset {
			// A full page with a non-advancing cursor would loop forever
			break
		}
		offset = nextOffset
	}

	return all, nil
}
