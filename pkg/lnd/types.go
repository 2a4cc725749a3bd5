package lnd

import "github.com/brewgator/lightning-node-analytics/pkg/utils"

// ChannelID identifies a channel in forwarding events and channel listings.
// It is a distinct type so channel ids cannot be mixed up with route keys or
// outpoint strings.
type ChannelID string

// UnknownChannelID is substituted when an event carries no channel id.
const UnknownChannelID ChannelID = "unknown"

// HTLCDirection indicates which side of the channel a pending HTLC sits on.
type HTLCDirection string

const (
	HTLCIncoming HTLCDirection = "incoming"
	HTLCOutgoing HTLCDirection = "outgoing"
)

// PendingHTLC is a conditional payment held open on a channel.
type PendingHTLC struct {
	Direction        HTLCDirection `json:"direction"`
	Amount           int64         `json:"amount"`
	HashLock         string        `json:"hash_lock"`
	ExpirationHeight int64         `json:"expiration_height"`
}

// Channel is a parsed channel snapshot with all amounts in sats.
type Channel struct {
	ChanID        ChannelID     `json:"chan_id"`
	ChannelPoint  string        `json:"channel_point"`
	RemotePubkey  string        `json:"remote_pubkey"`
	Capacity      int64         `json:"capacity"`
	LocalBalance  int64         `json:"local_balance"`
	RemoteBalance int64         `json:"remote_balance"`
	Active        bool          `json:"active"`
	Private       bool          `json:"private"`
	Initiator     bool          `json:"initiator"`
	Uptime        int64         `json:"uptime"`
	Lifetime      int64         `json:"lifetime"`
	TotalSent     int64         `json:"total_satoshis_sent"`
	TotalReceived int64         `json:"total_satoshis_received"`
	NumUpdates    int64         `json:"num_updates"`
	PendingHTLCs  []PendingHTLC `json:"pending_htlcs"`
}

// ForwardingEvent is one payment routed through the node, amounts in sats.
type ForwardingEvent struct {
	ChanIDIn  ChannelID `json:"chan_id_in"`
	ChanIDOut ChannelID `json:"chan_id_out"`
	AmtIn     int64     `json:"amt_in"`
	AmtOut    int64     `json:"amt_out"`
	Fee       int64     `json:"fee"`
	Timestamp int64     `json:"timestamp"`
}

// UTXO is an unspent wallet output, amount in sats.
type UTXO struct {
	TxID          string `json:"txid"`
	OutputIndex   uint32 `json:"output_index"`
	Amount        int64  `json:"amount_sat"`
	Address       string `json:"address"`
	Confirmations int64  `json:"confirmations"`
}

// Outpoint returns the txid:index key identifying this UTXO.
func (u UTXO) Outpoint() string {
	return fmtOutpoint(u.TxID, u.OutputIndex)
}

// --- lncli wire format ---
//
// lncli emits most integers as strings. The raw* types mirror that format
// and are converted to the parsed types above through utils.ParseInt, which
// defaults missing or malformed values to 0.

type rawHTLC struct {
	Incoming         bool   `json:"incoming"`
	Amount           string `json:"amount"`
	HashLock         string `json:"hash_lock"`
	ExpirationHeight uint32 `json:"expiration_height"`
}

type rawChannel struct {
	ChanID        string    `json:"chan_id"`
	ChannelPoint  string    `json:"channel_point"`
	RemotePubkey  string    `json:"remote_pubkey"`
	Capacity      string    `json:"capacity"`
	LocalBalance  string    `json:"local_balance"`
	RemoteBalance string    `json:"remote_balance"`
	Active        bool      `json:"active"`
	Private       bool      `json:"private"`
	Initiator     bool      `json:"initiator"`
	Uptime        string    `json:"uptime"`
	Lifetime      string    `json:"lifetime"`
	TotalSent     string    `json:"total_satoshis_sent"`
	TotalReceived string    `json:"total_satoshis_received"`
	NumUpdates    string    `json:"num_updates"`
	PendingHTLCs  []rawHTLC `json:"pending_htlcs"`
}

type rawChannelResponse struct {
	Channels []rawChannel `json:"channels"`
}

type rawForwardingEvent struct {
	ChanIDIn  string `json:"chan_id_in"`
	ChanIDOut string `json:"chan_id_out"`
	AmtIn     string `json:"amt_in"`
	AmtOut    string `json:"amt_out"`
	Fee       string `json:"fee"`
	FeeMsat   string `json:"fee_msat"`
	Timestamp string `json:"timestamp"`
}

type rawForwardingResponse struct {
	ForwardingEvents []rawForwardingEvent `json:"forwarding_events"`
	LastOffsetIndex  uint32               `json:"last_offset_index"`
}

type rawOutpoint struct {
	TxidStr     string `json:"txid_str"`
	OutputIndex uint32 `json:"output_index"`
}

type rawUTXO struct {
	Address       string      `json:"address"`
	AmountSat     string      `json:"amount_sat"`
	Outpoint      rawOutpoint `json:"outpoint"`
	Confirmations string      `json:"confirmations"`
}

type rawUTXOResponse struct {
	Utxos []rawUTXO `json:"utxos"`
}

type rawLeaseResponse struct {
	Expiration string `json:"expiration"`
}

func (r rawChannel) parse() Channel {
	htlcs := make([]PendingHTLC, 0, len(r.PendingHTLCs))
	for _, h := range r.PendingHTLCs {
		direction := HTLCOutgoing
		if h.Incoming {
			direction = HTLCIncoming
		}
		htlcs = append(htlcs, PendingHTLC{
			Direction:        direction,
			Amount:           utils.ParseInt(h.Amount),
			HashLock:         h.HashLock,
			ExpirationHeight: int64(h.ExpirationHeight),
		})
	}

	return Channel{
		ChanID:        ChannelID(r.ChanID),
		ChannelPoint:  r.ChannelPoint,
		RemotePubkey:  r.RemotePubkey,
		Capacity:      utils.ParseInt(r.Capacity),
		LocalBalance:  utils.ParseInt(r.LocalBalance),
		RemoteBalance: utils.ParseInt(r.RemoteBalance),
		Active:        r.Active,
		Private:       r.Private,
		Initiator:     r.Initiator,
		Uptime:        utils.ParseInt(r.Uptime),
		Lifetime:      utils.ParseInt(r.Lifetime),
		TotalSent:     utils.ParseInt(r.TotalSent),
		TotalReceived: utils.ParseInt(r.TotalReceived),
		NumUpdates:    utils.ParseInt(r.NumUpdates),
		PendingHTLCs:  htlcs,
	}
}

func (r rawForwardingEvent) parse() ForwardingEvent {
	// Prefer fee_msat when present, it keeps sub-sat fees from rounding to 0
	// twice; amt_in/amt_out are already sats
	fee := utils.ParseInt(r.Fee)
	if r.FeeMsat != "" {
		fee = utils.ParseInt(r.FeeMsat) / 1000
	}

	return ForwardingEvent{
		ChanIDIn:  ChannelID(r.ChanIDIn),
		ChanIDOut: ChannelID(r.ChanIDOut),
		AmtIn:     utils.ParseInt(r.AmtIn),
		AmtOut:    utils.ParseInt(r.AmtOut),
		Fee:       fee,
		Timestamp: utils.ParseInt(r.Timestamp),
	}
}

func (r rawUTXO) parse() UTXO {
	return UTXO{
		TxID:          r.Outpoint.TxidStr,
		OutputIndex:   r.Outpoint.OutputIndex,
		Amount:        utils.ParseInt(r.AmountSat),
		Address:       r.Address,
		Confirmations: utils.ParseInt(r.Confirmations),
	}
}
