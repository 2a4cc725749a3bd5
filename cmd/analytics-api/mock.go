package main

import (
	"github.com/brewgator/lightning-node-analytics/pkg/lnd"
)

// Mock data for running the API without a node.

func mockChannels() []lnd.Channel {
	return []lnd.Channel{
		{
			ChanID:        "850572598231367681",
			ChannelPoint:  "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b:0",
			RemotePubkey:  "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
			Capacity:      5000000,
			LocalBalance:  2400000,
			RemoteBalance: 2600000,
			Active:        true,
			Uptime:        86000,
			Lifetime:      86400,
		},
		{
			ChanID:        "850572598231367682",
			ChannelPoint:  "6fe28c0ab6f1b372c1a6a246ae63f74f931e8365e15a089c68d6190000000000:1",
			RemotePubkey:  "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5",
			Capacity:      2000000,
			LocalBalance:  150000,
			RemoteBalance: 1850000,
			Active:        true,
			Uptime:        80000,
			Lifetime:      86400,
			PendingHTLCs: []lnd.PendingHTLC{
				{Direction: lnd.HTLCIncoming, Amount: 50, ExpirationHeight: 880100},
				{Direction: lnd.HTLCIncoming, Amount: 80, ExpirationHeight: 880120},
			},
		},
		{
			ChanID:        "850572598231367683",
			ChannelPoint:  "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b:1",
			RemotePubkey:  "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
			Capacity:      3000000,
			LocalBalance:  2700000,
			RemoteBalance: 300000,
			Active:        true,
			Uptime:        86400,
			Lifetime:      86400,
		},
	}
}

func mockForwardingEvents(start, end int64) []lnd.ForwardingEvent {
	span := end - start
	return []lnd.ForwardingEvent{
		{ChanIDIn: "850572598231367681", ChanIDOut: "850572598231367682", AmtIn: 100100, AmtOut: 100000, Fee: 100, Timestamp: start + span/4},
		{ChanIDIn: "850572598231367682", ChanIDOut: "850572598231367683", AmtIn: 50050, AmtOut: 50000, Fee: 50, Timestamp: start + span/2},
		{ChanIDIn: "850572598231367681", ChanIDOut: "850572598231367683", AmtIn: 75, AmtOut: 70, Fee: 5, Timestamp: start + 3*span/4},
		{ChanIDIn: "850572598231367683", ChanIDOut: "850572598231367681", AmtIn: 200200, AmtOut: 200000, Fee: 200, Timestamp: end - 60},
	}
}

func mockUtxos() []lnd.UTXO {
	return []lnd.UTXO{
		{
			TxID:          "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b",
			OutputIndex:   2,
			Amount:        546,
			Address:       "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
			Confirmations: 12,
		},
		{
			TxID:          "6fe28c0ab6f1b372c1a6a246ae63f74f931e8365e15a089c68d6190000000000",
			OutputIndex:   0,
			Amount:        75,
			Address:       "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
			Confirmations: 400,
		},
		{
			TxID:          "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b",
			OutputIndex:   0,
			Amount:        1500000,
			Address:       "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
			Confirmations: 210,
		},
	}
}
