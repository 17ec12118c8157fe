package reader

import "github.com/etnz/bookkeeping"

// Merge concatenates lists, dropping a transaction already present in an
// earlier list. Two transactions are the same when they share a TransferID,
// or a TradeID or an OrderID together with their type and ticker.
// Transactions without identifiers are always kept, and so are duplicates
// within one list, as partial fills of one order legitimately share it.
func Merge(lists ...[]bookkeeping.Transaction) []bookkeeping.Transaction {
	var merged []bookkeeping.Transaction
	seen := make(map[string]bool)
	for _, list := range lists {
		var added []string
		for _, tx := range list {
			keys := identities(tx)
			if anySeen(seen, keys) {
				continue
			}
			merged = append(merged, tx)
			added = append(added, keys...)
		}
		for _, k := range added {
			seen[k] = true
		}
	}
	return merged
}

func identities(tx bookkeeping.Transaction) []string {
	var keys []string
	suffix := "|" + string(tx.Type) + "|" + tx.Ticker
	if tx.TransferID != "" {
		keys = append(keys, "transfer|"+tx.TransferID)
	}
	if tx.TradeID != "" {
		keys = append(keys, "trade|"+tx.TradeID+suffix)
	}
	if tx.OrderID != "" {
		keys = append(keys, "order|"+tx.OrderID+suffix)
	}
	return keys
}

func anySeen(seen map[string]bool, keys []string) bool {
	for _, k := range keys {
		if seen[k] {
			return true
		}
	}
	return false
}
