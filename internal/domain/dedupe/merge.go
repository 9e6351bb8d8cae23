package dedupe

import (
	"context"
	"encoding/json"
)

// KeyFunc extracts the identity of an item. ok=false means the item has no
// identity and is always kept.
type KeyFunc func(item json.RawMessage) (key string, ok bool)

// Merge concatenates batches in order, dropping any item whose key was
// already taken by an earlier item.
func Merge(ctx context.Context, d Deduper, key KeyFunc, batches ...[]json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0)
	for _, batch := range batches {
		for _, item := range batch {
			if k, ok := key(item); ok && d.SeenAndRecord(ctx, k) {
				continue
			}
			out = append(out, item)
		}
	}
	return out
}
