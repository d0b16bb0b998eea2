package mint

import (
	"fmt"
	"strconv"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/market"
	"github.com/mintbase/weave/x"
)

const (
	configCost    int64 = 50
	accessCost    int64 = 20
	mintTokenCost int64 = 100
	tokenCost     int64 = 20
	batchItemCost int64 = 20
	listingCost   int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Listing messages are only handled when notifier is not nil.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, notifier market.Notifier) {
	a := NewAuthority(NewRegistry())

	conf := ConfigHandler{auth: auth, authority: a}
	r.Handle(&SetMarketplaceMsg{}, conf)
	r.Handle(&GrantMinterMsg{}, conf)
	r.Handle(&RevokeMinterMsg{}, conf)
	r.Handle(&TransferMintOwnershipMsg{}, conf)
	r.Handle(&SetIconMsg{}, conf)
	r.Handle(&SetBaseURIMsg{}, conf)
	r.Handle(&SetSymbolMsg{}, conf)

	access := AccessHandler{auth: auth, authority: a}
	r.Handle(&TokenGrantAccessMsg{}, access)
	r.Handle(&TokenRevokeAccessMsg{}, access)
	r.Handle(&AccountGrantAccessMsg{}, access)
	r.Handle(&AccountRevokeAccessMsg{}, access)

	r.Handle(&MintTokenMsg{}, MintTokenHandler{auth: auth, authority: a})

	token := TokenHandler{auth: auth, authority: a}
	r.Handle(&TransferMsg{}, token)
	r.Handle(&BurnTokenMsg{}, token)

	batch := BatchHandler{auth: auth, authority: a}
	r.Handle(&BatchTransferMsg{}, batch)
	r.Handle(&BatchHeterogeneousTransferMsg{}, batch)
	r.Handle(&BatchTransferFromMsg{}, batch)
	r.Handle(&BatchBurnMsg{}, batch)

	if notifier != nil {
		listing := ListingHandler{auth: auth, authority: a, notifier: notifier}
		r.Handle(&ListTokenMsg{}, listing)
		r.Handle(&BatchListTokenMsg{}, listing)
	}
}

// RegisterQuery will register the token bucket as "/tokens" together
// with the read only views of the mint, see query.go.
func RegisterQuery(qr weave.QueryRouter) {
	a := NewAuthority(NewRegistry())
	a.RegisterQuery(qr)
	qr.Register("/mint", configQuery{authority: a})
	qr.Register("/mint/counters", countersQuery{authority: a})
	qr.Register("/minters", mintersQuery{authority: a})
	qr.Register("/permissions/token", tokenPermsQuery{authority: a})
	qr.Register("/permissions/account", accountPermsQuery{authority: a})
	qr.Register("/tokens/uri", tokenURIQuery{authority: a})
	qr.Register("/tokens/unique_id", uniqueIDQuery{authority: a})
}

// loadMsg returns the validated message together with the address of
// the caller.
func loadMsg(ctx weave.Context, auth x.Authenticator, tx weave.Tx) (weave.Msg, weave.Address, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if msg == nil {
		return nil, nil, errors.Wrap(errors.ErrInput, "no message")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	caller, err := x.Caller(ctx, auth)
	if err != nil {
		return nil, nil, err
	}
	return msg, caller, nil
}

// ConfigHandler processes all owner only changes of the mint.
type ConfigHandler struct {
	auth      x.Authenticator
	authority *Authority
}

var _ weave.Handler = ConfigHandler{}

func (h ConfigHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: configCost}, nil
}

func (h ConfigHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	a := h.authority
	switch m := msg.(type) {
	case *SetMarketplaceMsg:
		err = a.SetMarketplace(db, caller, m.Marketplace)
	case *GrantMinterMsg:
		err = a.GrantMinter(db, caller, m.Account)
	case *RevokeMinterMsg:
		err = a.RevokeMinter(db, caller, m.Account)
	case *TransferMintOwnershipMsg:
		err = a.TransferOwnership(db, caller, m.NewOwner, m.KeepOldMinters)
		if err == nil {
			weave.GetLogger(ctx).Info("Mint ownership transferred",
				"new_owner", m.NewOwner, "keep_old_minters", m.KeepOldMinters)
		}
	case *SetIconMsg:
		err = a.SetIcon(db, caller, m.Icon)
	case *SetBaseURIMsg:
		err = a.SetBaseURI(db, caller, m.BaseURI)
	case *SetSymbolMsg:
		err = a.SetSymbol(db, caller, m.Symbol)
	default:
		err = errors.Wrapf(errors.ErrMsg, "%T", msg)
	}
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h ConfigHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Msg, weave.Address, error) {
	msg, caller, err := loadMsg(ctx, h.auth, tx)
	if err != nil {
		return nil, nil, err
	}
	if _, err := h.authority.requireMintOwner(db, caller); err != nil {
		return nil, nil, err
	}
	return msg, caller, nil
}

// AccessHandler grants and revokes the right to act on tokens.
type AccessHandler struct {
	auth      x.Authenticator
	authority *Authority
}

var _ weave.Handler = AccessHandler{}

func (h AccessHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := loadMsg(ctx, h.auth, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: accessCost}, nil
}

func (h AccessHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, caller, err := loadMsg(ctx, h.auth, tx)
	if err != nil {
		return nil, err
	}

	a := h.authority
	switch m := msg.(type) {
	case *TokenGrantAccessMsg:
		err = a.GrantAccess(db, caller, m.TokenID, m.Account)
	case *TokenRevokeAccessMsg:
		err = a.RevokeAccess(db, caller, m.TokenID, m.Account)
	case *AccountGrantAccessMsg:
		err = a.GrantAccountAccess(db, caller, m.Account)
	case *AccountRevokeAccessMsg:
		err = a.RevokeAccountAccess(db, caller, m.Account)
	default:
		err = errors.Wrapf(errors.ErrMsg, "%T", msg)
	}
	if err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

// MintTokenHandler creates new tokens.
type MintTokenHandler struct {
	auth      x.Authenticator
	authority *Authority
}

var _ weave.Handler = MintTokenHandler{}

func (h MintTokenHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	switch ok, err := h.authority.IsMinter(db, caller); {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a minter", caller)
	}
	return &weave.CheckResult{GasAllocated: mintTokenCost * int64(msg.NumToMint)}, nil
}

func (h MintTokenHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	roy, err := msg.RoyaltyValue()
	if err != nil {
		return nil, err
	}
	ids, err := h.authority.Mint(db, caller, msg.Owner, msg.MetaID, msg.NumToMint, roy)
	if err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Info("Tokens minted",
		"owner", msg.Owner, "meta_id", msg.MetaID, "first", ids[0], "count", len(ids))

	res := BatchResult{Items: make([]ItemResult, len(ids))}
	for i, id := range ids {
		res.Items[i] = ItemResult{Index: uint32(i), TokenID: id}
	}
	return batchDeliverResult("mint", &res)
}

func (h MintTokenHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*MintTokenMsg, weave.Address, error) {
	var msg MintTokenMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}

// TokenHandler transfers and burns single tokens.
type TokenHandler struct {
	auth      x.Authenticator
	authority *Authority
}

var _ weave.Handler = TokenHandler{}

func (h TokenHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := loadMsg(ctx, h.auth, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: tokenCost}, nil
}

func (h TokenHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, caller, err := loadMsg(ctx, h.auth, tx)
	if err != nil {
		return nil, err
	}

	logger := weave.GetLogger(ctx)
	var event weave.Event
	switch m := msg.(type) {
	case *TransferMsg:
		if err := h.authority.Transfer(db, caller, m.TokenID, m.To); err != nil {
			return nil, err
		}
		logger.Info("Token transferred", "token", m.TokenID, "to", m.To)
		event = weave.Event{Key: "transfer", Value: strconv.FormatUint(m.TokenID, 10)}
	case *BurnTokenMsg:
		if err := h.authority.Burn(db, caller, m.TokenID); err != nil {
			return nil, err
		}
		logger.Info("Token burned", "token", m.TokenID)
		event = weave.Event{Key: "burn", Value: strconv.FormatUint(m.TokenID, 10)}
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "%T", msg)
	}
	return &weave.DeliverResult{Events: []weave.Event{event}}, nil
}

// BatchHandler applies transfers and burns to several tokens, each in
// isolation.
type BatchHandler struct {
	auth      x.Authenticator
	authority *Authority
}

var _ weave.Handler = BatchHandler{}

func (h BatchHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, _, err := loadMsg(ctx, h.auth, tx)
	if err != nil {
		return nil, err
	}
	var n int
	switch m := msg.(type) {
	case *BatchTransferMsg:
		n = len(m.TokenIDs)
	case *BatchHeterogeneousTransferMsg:
		n = len(m.Transfers)
	case *BatchTransferFromMsg:
		n = len(m.TokenIDs)
	case *BatchBurnMsg:
		n = len(m.TokenIDs)
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "%T", msg)
	}
	return &weave.CheckResult{GasAllocated: batchItemCost * int64(n)}, nil
}

func (h BatchHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, caller, err := loadMsg(ctx, h.auth, tx)
	if err != nil {
		return nil, err
	}

	a := h.authority
	var action string
	var res *BatchResult
	switch m := msg.(type) {
	case *BatchTransferMsg:
		action, res = "transfer", a.BatchTransfer(ctx, db, caller, m.To, m.TokenIDs)
	case *BatchHeterogeneousTransferMsg:
		action, res = "transfer", a.BatchHeterogeneousTransfer(ctx, db, caller, m.Transfers)
	case *BatchTransferFromMsg:
		action, res = "transfer", a.BatchTransferFrom(ctx, db, caller, m.From, m.To, m.TokenIDs)
	case *BatchBurnMsg:
		action, res = "burn", a.BatchBurn(ctx, db, caller, m.TokenIDs)
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "%T", msg)
	}
	return batchDeliverResult(action, res)
}

// batchDeliverResult encodes res as the result data and emits an event
// for every applied item.
func batchDeliverResult(action string, res *BatchResult) (*weave.DeliverResult, error) {
	data, err := res.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal batch result")
	}
	out := &weave.DeliverResult{
		Data: data,
		Log:  fmt.Sprintf("%d of %d applied", len(res.Items)-res.Failed(), len(res.Items)),
	}
	for _, id := range res.Applied() {
		out.Events = append(out.Events, weave.Event{Key: action, Value: strconv.FormatUint(id, 10)})
	}
	return out, nil
}

// ListingHandler sends listings to the marketplace.
type ListingHandler struct {
	auth      x.Authenticator
	authority *Authority
	notifier  market.Notifier
}

var _ weave.Handler = ListingHandler{}

func (h ListingHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, caller, err := loadMsg(ctx, h.auth, tx)
	if err != nil {
		return nil, err
	}
	if m, ok := msg.(*ListTokenMsg); ok {
		terms, err := m.Terms()
		if err != nil {
			return nil, err
		}
		if _, err := h.authority.ListToken(db, caller, m.TokenID, terms); err != nil {
			return nil, err
		}
	}
	return &weave.CheckResult{GasAllocated: listingCost}, nil
}

func (h ListingHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, caller, err := loadMsg(ctx, h.auth, tx)
	if err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *ListTokenMsg:
		terms, err := m.Terms()
		if err != nil {
			return nil, err
		}
		listing, err := h.authority.ListToken(db, caller, m.TokenID, terms)
		if err != nil {
			return nil, err
		}
		if err := h.notifier.ListToken(ctx, *listing); err != nil {
			return nil, errors.Wrap(err, "notify marketplace")
		}
		weave.GetLogger(ctx).Info("Token listed", "unique_id", listing.UniqueID, "marketplace", listing.Marketplace)
		return &weave.DeliverResult{
			Events: []weave.Event{{Key: "list", Value: listing.UniqueID}},
		}, nil
	case *BatchListTokenMsg:
		terms, err := m.Terms()
		if err != nil {
			return nil, err
		}
		listing, res, err := h.authority.BatchListToken(ctx, db, caller, m.TokenIDs, terms, m.PermissionsIntermediary)
		if err != nil {
			return nil, err
		}
		if listing != nil {
			if err := h.notifier.BatchListToken(ctx, *listing); err != nil {
				return nil, errors.Wrap(err, "notify marketplace")
			}
		}
		return batchDeliverResult("list", res)
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "%T", msg)
	}
}
