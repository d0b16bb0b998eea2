package mint

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// ItemResult is the outcome of a single batch item. Error is empty when
// the item was applied.
type ItemResult struct {
	Index   uint32 `json:"index"`
	TokenID uint64 `json:"token_id"`
	Error   string `json:"error,omitempty"`
}

// OK returns true if the item was applied.
func (r ItemResult) OK() bool {
	return r.Error == ""
}

// BatchResult lists the outcome of every batch item in request order.
type BatchResult struct {
	Items []ItemResult `json:"items"`
}

// Applied returns ids of all items that succeeded.
func (b *BatchResult) Applied() []uint64 {
	var ids []uint64
	for _, it := range b.Items {
		if it.OK() {
			ids = append(ids, it.TokenID)
		}
	}
	return ids
}

// Failed returns the number of items that did not succeed.
func (b *BatchResult) Failed() int {
	var n int
	for _, it := range b.Items {
		if !it.OK() {
			n++
		}
	}
	return n
}

func (b *BatchResult) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(b)
}

func (b *BatchResult) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, b)
}

// TransferPair is a single destination of a heterogeneous transfer.
type TransferPair struct {
	TokenID uint64        `json:"token_id"`
	To      weave.Address `json:"to"`
}

// itemFunc applies a single batch item against db.
type itemFunc func(db weave.KVStore, i int) error

// runBatch applies every item in its own savepoint. A failed item is
// discarded and recorded, items applied before it are kept.
func runBatch(ctx weave.Context, db weave.KVStore, action string, ids []uint64, fn itemFunc) *BatchResult {
	logger := weave.GetLogger(ctx).With("action", action)
	res := &BatchResult{Items: make([]ItemResult, len(ids))}
	for i, id := range ids {
		res.Items[i] = ItemResult{Index: uint32(i), TokenID: id}
		if err := applyItem(db, i, fn); err != nil {
			res.Items[i].Error = err.Error()
			logger.Info("Batch item failed", "token", id, "err", err)
			continue
		}
		logger.Info("Batch item applied", "token", id)
	}
	return res
}

func applyItem(db weave.KVStore, i int, fn itemFunc) error {
	cstore, ok := db.(weave.CacheableKVStore)
	if !ok {
		return fn(db, i)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache, i); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}

// BatchTransfer transfers every token to the same recipient.
func (a *Authority) BatchTransfer(ctx weave.Context, db weave.KVStore, caller, to weave.Address, ids []uint64) *BatchResult {
	return runBatch(ctx, db, "transfer", ids, func(db weave.KVStore, i int) error {
		return a.Transfer(db, caller, ids[i], to)
	})
}

// BatchHeterogeneousTransfer transfers every token to its own recipient.
func (a *Authority) BatchHeterogeneousTransfer(ctx weave.Context, db weave.KVStore, caller weave.Address, pairs []TransferPair) *BatchResult {
	ids := make([]uint64, len(pairs))
	for i, p := range pairs {
		ids[i] = p.TokenID
	}
	return runBatch(ctx, db, "transfer", ids, func(db weave.KVStore, i int) error {
		return a.Transfer(db, caller, pairs[i].TokenID, pairs[i].To)
	})
}

// BatchTransferFrom transfers tokens owned by from to the same
// recipient.
func (a *Authority) BatchTransferFrom(ctx weave.Context, db weave.KVStore, caller, from, to weave.Address, ids []uint64) *BatchResult {
	return runBatch(ctx, db, "transfer_from", ids, func(db weave.KVStore, i int) error {
		return a.TransferFrom(db, caller, ids[i], from, to)
	})
}

// BatchBurn burns every token.
func (a *Authority) BatchBurn(ctx weave.Context, db weave.KVStore, caller weave.Address, ids []uint64) *BatchResult {
	return runBatch(ctx, db, "burn", ids, func(db weave.KVStore, i int) error {
		return a.Burn(db, caller, ids[i])
	})
}
