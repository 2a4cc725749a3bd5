package lnd

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
)

// IsValidPubkey reports whether s is a valid hex-encoded secp256k1 public
// key, the form LND uses for node identities. Used to reject malformed peer
// ids before filtering per-peer reports.
func IsValidPubkey(s string) bool {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return false
	}
	if len(raw) != 33 {
		return false
	}
	_, err = btcec.ParsePubKey(raw)
	return err == nil
}
