package bitcoin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// ParseOutpoint parses a "txid:index" string into a wire.OutPoint,
// validating that the txid is a well-formed transaction hash. Freeze and
// release operations go through this before touching the wallet.
func ParseOutpoint(s string) (*wire.OutPoint, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid outpoint %q: expected txid:index", s)
	}

	hash, err := chainhash.NewHashFromStr(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid outpoint txid %q: %w", parts[0], err)
	}

	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid outpoint index %q: %w", parts[1], err)
	}

	return wire.NewOutPoint(hash, uint32(index)), nil
}

// ValidateAddress reports whether address parses as a mainnet Bitcoin
// address (legacy, segwit, or taproot).
func ValidateAddress(address string) bool {
	if address == "" {
		return false
	}
	_, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams)
	return err == nil
}
