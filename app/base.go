package app

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
)

// BaseApp runs decoded transactions through a handler on top of the
// stores managed by StoreApp.
type BaseApp struct {
	*StoreApp
	decoder weave.TxDecoder
	handler weave.Handler
}

func NewBaseApp(store *StoreApp, decoder weave.TxDecoder, handler weave.Handler) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
	}
}

// DeliverTx executes the transaction against the deliver store. The
// changes are persisted by the next Commit.
func (b BaseApp) DeliverTx(raw []byte) (*weave.DeliverResult, error) {
	ctx, tx, err := b.prepare(raw, "deliver_tx")
	if err != nil {
		return nil, err
	}
	return b.handler.Deliver(ctx, b.DeliverStore(), tx)
}

// CheckTx validates the transaction against the check store, which is
// reset to the committed state on every Commit.
func (b BaseApp) CheckTx(raw []byte) (*weave.CheckResult, error) {
	ctx, tx, err := b.prepare(raw, "check_tx")
	if err != nil {
		return nil, err
	}
	return b.handler.Check(ctx, b.CheckStore(), tx)
}

// prepare decodes raw and builds the context the handler runs with.
func (b BaseApp) prepare(raw []byte, call string) (weave.Context, weave.Tx, error) {
	if len(raw) == 0 {
		return nil, nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	tx, err := b.decode(raw)
	if err != nil {
		return nil, nil, err
	}
	ctx := weave.WithLogInfo(b.BlockContext(), "call", call)
	return ctx, tx, nil
}

// decode turns a panicking decoder into an error.
func (b BaseApp) decode(raw []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(raw); err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}
	return tx, nil
}
