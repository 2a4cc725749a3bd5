package lnd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/brewgator/lightning-node-analytics/pkg/utils"
)

// Capability interfaces consumed by the analytics engine. The lncli-backed
// Client satisfies all of them; tests substitute fakes.

// ChannelLister fetches the current channel snapshot.
type ChannelLister interface {
	FetchChannels(ctx context.Context) ([]Channel, error)
}

// ForwardingSource serves one page of forwarding history at a time.
type ForwardingSource interface {
	ForwardingPage(ctx context.Context, startTime, endTime int64, limit, offset uint64) ([]ForwardingEvent, uint64, error)
}

// UtxoLister fetches the wallet's unspent outputs.
type UtxoLister interface {
	FetchUtxos(ctx context.Context, minConfs int64) ([]UTXO, error)
}

// UtxoFreezer leases and releases wallet outputs.
type UtxoFreezer interface {
	FreezeUtxo(ctx context.Context, outpoint string, expirySeconds int64) (int64, error)
	ReleaseUtxo(ctx context.Context, outpoint string) error
}

// FeePolicyRequest describes one updatechanpolicy call. An empty
// ChannelPoint applies the policy to all channels.
type FeePolicyRequest struct {
	ChannelPoint  string
	BaseFeeMsat   int64
	FeeRatePpm    int64
	TimeLockDelta int64
	MinHtlcMsat   *int64
}

// PolicyUpdater applies a routing fee policy.
type PolicyUpdater interface {
	ApplyFeePolicy(ctx context.Context, req FeePolicyRequest) error
}

// Client talks to LND through lncli. Calls are throttled by a token bucket
// so batch operations don't hammer the node.
type Client struct {
	limiter *RateLimiter
}

// NewClient creates a new LND client and verifies connectivity.
func NewClient() (*Client, error) {
	c := &Client{
		limiter: NewRateLimiter(30, time.Minute),
	}
	if _, err := c.run(context.Background(), "getinfo"); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to LND: %w", err)
	}
	return c, nil
}

// Close stops the client's rate limiter.
func (c *Client) Close() {
	c.limiter.Stop()
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if err := c.limiter.WaitWithContext(ctx); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "lncli", args...)
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("lncli command failed: %v, stderr: %s", err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("lncli command failed: %w", err)
	}
	return output, nil
}

// FetchChannels retrieves and parses all channels.
func (c *Client) FetchChannels(ctx context.Context) ([]Channel, error) {
	output, err := c.run(ctx, "listchannels")
	if err != nil {
		return nil, err
	}

	var response rawChannelResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse listchannels response: %w", err)
	}

	channels := make([]Channel, 0, len(response.Channels))
	for _, raw := range response.Channels {
		channels = append(channels, raw.parse())
	}
	return channels, nil
}

// ForwardingPage fetches one page of forwarding history. It returns the
// parsed events and the offset LND reports for the next page.
func (c *Client) ForwardingPage(ctx context.Context, startTime, endTime int64, limit, offset uint64) ([]ForwardingEvent, uint64, error) {
	output, err := c.run(ctx, "fwdinghistory",
		"--start_time", strconv.FormatInt(startTime, 10),
		"--end_time", strconv.FormatInt(endTime, 10),
		"--max_events", strconv.FormatUint(limit, 10),
		"--index_offset", strconv.FormatUint(offset, 10),
	)
	if err != nil {
		return nil, 0, err
	}

	var response rawForwardingResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, 0, fmt.Errorf("failed to parse fwdinghistory response: %w", err)
	}

	events := make([]ForwardingEvent, 0, len(response.ForwardingEvents))
	for _, raw := range response.ForwardingEvents {
		events = append(events, raw.parse())
	}
	return events, uint64(response.LastOffsetIndex), nil
}

// FetchUtxos retrieves unspent wallet outputs with at least minConfs
// confirmations.
func (c *Client) FetchUtxos(ctx context.Context, minConfs int64) ([]UTXO, error) {
	output, err := c.run(ctx, "listunspent", "--min_confs", strconv.FormatInt(minConfs, 10))
	if err != nil {
		return nil, err
	}

	var response rawUTXOResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse listunspent response: %w", err)
	}

	utxos := make([]UTXO, 0, len(response.Utxos))
	for _, raw := range response.Utxos {
		utxos = append(utxos, raw.parse())
	}
	return utxos, nil
}

// FreezeUtxo leases an output so wallet logic treats it as unspendable.
// Returns the Unix expiration time of the lease.
func (c *Client) FreezeUtxo(ctx context.Context, outpoint string, expirySeconds int64) (int64, error) {
	output, err := c.run(ctx, "wallet", "leaseoutput",
		"--outpoint", outpoint,
		"--expiry", strconv.FormatInt(expirySeconds, 10),
	)
	if err != nil {
		return 0, err
	}

	var response rawLeaseResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return 0, fmt.Errorf("failed to parse leaseoutput response: %w", err)
	}
	return utils.ParseInt(response.Expiration), nil
}

// ReleaseUtxo releases a previously leased output.
func (c *Client) ReleaseUtxo(ctx context.Context, outpoint string) error {
	_, err := c.run(ctx, "wallet", "releaseoutput", "--outpoint", outpoint)
	return err
}

// ApplyFeePolicy pushes a routing fee policy to one channel, or to all
// channels when the request carries no channel point.
func (c *Client) ApplyFeePolicy(ctx context.Context, req FeePolicyRequest) error {
	args := []string{"updatechanpolicy",
		"--base_fee_msat", strconv.FormatInt(req.BaseFeeMsat, 10),
		"--fee_rate_ppm", strconv.FormatInt(req.FeeRatePpm, 10),
		"--time_lock_delta", strconv.FormatInt(req.TimeLockDelta, 10),
	}
	if req.MinHtlcMsat != nil {
		args = append(args, "--min_htlc_msat", strconv.FormatInt(*req.MinHtlcMsat, 10))
	}
	if req.ChannelPoint != "" {
		args = append(args, "--chan_point", req.ChannelPoint)
	}

	_, err := c.run(ctx, args...)
	return err
}

func fmtOutpoint(txid string, index uint32) string {
	return fmt.Sprintf("%s:%d", txid, index)
}
