package swap

import (
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// DecodeBlob decodes a transaction that may or may not be signed. The two
// wire shapes are not self describing, so the unsigned shape is tried first.
func DecodeBlob(blob []byte) (txn types.Transaction, signed bool, err error) {
	if err := msgpack.Decode(blob, &txn); err == nil {
		return txn, false, nil
	}
	var stxn types.SignedTxn
	if err := msgpack.Decode(blob, &stxn); err != nil {
		return types.Transaction{}, false, fmt.Errorf("blob is neither a signed nor an unsigned transaction: %w", err)
	}
	return stxn.Txn, true, nil
}

// BlobTxID returns the id of the transaction in blob.
func BlobTxID(blob []byte) (string, error) {
	txn, _, err := DecodeBlob(blob)
	if err != nil {
		return "", err
	}
	return crypto.GetTxID(txn), nil
}

// Merge places signed blobs over the originals they sign and keeps every
// other original untouched. The result has len(originals) entries.
//
// signed is consumed left to right: it must follow the same relative order
// as the originals it signs. The ids only decide whether a position takes
// the next signed blob, not which one.
func Merge(signed [][]byte, originals [][]byte) ([][]byte, error) {
	signedIDs := make(map[string]bool, len(signed))
	for i, blob := range signed {
		id, err := BlobTxID(blob)
		if err != nil {
			return nil, fmt.Errorf("signed transaction %d: %w", i+1, err)
		}
		signedIDs[id] = true
	}

	merged := make([][]byte, 0, len(originals))
	next := 0
	for i, blob := range originals {
		id, err := BlobTxID(blob)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		if signedIDs[id] && next < len(signed) {
			merged = append(merged, signed[next])
			next++
			continue
		}
		merged = append(merged, blob)
	}
	return merged, nil
}
