package mint

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/market"
	"github.com/mintbase/weave/x/royalty"
	"github.com/shopspring/decimal"
)

// ListingTerms are the sale terms shared by single and batch listings.
type ListingTerms struct {
	Autotransfer bool
	AskingPrice  decimal.Decimal
	// SplitOwners, if set, splits the sale proceeds. Shares must sum to
	// one.
	SplitOwners *royalty.Royalty
}

func (t ListingTerms) validate() error {
	if t.AskingPrice.IsNegative() {
		return errors.Wrapf(errors.ErrAmount, "asking price %s", t.AskingPrice)
	}
	if t.SplitOwners != nil {
		if err := t.SplitOwners.Validate(); err != nil {
			return errors.Wrap(err, "split owners")
		}
	}
	return nil
}

func (t ListingTerms) shares() []royalty.Share {
	if t.SplitOwners == nil {
		return nil
	}
	return t.SplitOwners.Copy().SplitBetween
}

func (a *Authority) marketplace(db weave.ReadOnlyKVStore) (*Configuration, error) {
	conf, err := a.Config(db)
	if err != nil {
		return nil, err
	}
	if len(conf.Marketplace) == 0 {
		return nil, errors.Wrap(ErrNoMarketplace, "cannot list")
	}
	return conf, nil
}

// ListToken builds the listing of a single token. The caller must be
// allowed to act on the token. State is not modified.
func (a *Authority) ListToken(db weave.ReadOnlyKVStore, caller weave.Address, id uint64, terms ListingTerms) (*market.Listing, error) {
	if err := terms.validate(); err != nil {
		return nil, err
	}
	conf, err := a.marketplace(db)
	if err != nil {
		return nil, err
	}
	t, err := a.authorize(db, id, caller)
	if err != nil {
		return nil, err
	}
	return &market.Listing{
		Marketplace:  conf.Marketplace,
		MintID:       conf.MintID,
		TokenID:      id,
		UniqueID:     UniqueID{TokenID: id, MintID: conf.MintID}.String(),
		Owner:        t.Owner,
		Autotransfer: terms.Autotransfer,
		AskingPrice:  terms.AskingPrice,
		SplitOwners:  terms.shares(),
	}, nil
}

// BatchListToken builds a single listing of all tokens the caller may
// act on. Every listed token must have the same owner as the first
// listed one. The listing is nil when no token can be listed.
func (a *Authority) BatchListToken(ctx weave.Context, db weave.KVStore, caller weave.Address, ids []uint64, terms ListingTerms, intermediary weave.Address) (*market.BatchListing, *BatchResult, error) {
	if err := terms.validate(); err != nil {
		return nil, nil, err
	}
	conf, err := a.marketplace(db)
	if err != nil {
		return nil, nil, err
	}

	var owner weave.Address
	res := runBatch(ctx, db, "list", ids, func(db weave.KVStore, i int) error {
		t, err := a.authorize(db, ids[i], caller)
		if err != nil {
			return err
		}
		if owner != nil && !owner.Equals(t.Owner) {
			return errors.Wrapf(errors.ErrInput, "token %d is owned by %s, not %s", ids[i], t.Owner, owner)
		}
		owner = t.Owner
		return nil
	})
	listed := res.Applied()
	if len(listed) == 0 {
		return nil, res, nil
	}
	return &market.BatchListing{
		Marketplace:             conf.Marketplace,
		MintID:                  conf.MintID,
		TokenIDs:                listed,
		Owner:                   owner,
		Autotransfer:            terms.Autotransfer,
		AskingPrice:             terms.AskingPrice,
		SplitOwners:             terms.shares(),
		PermissionsIntermediary: intermediary,
	}, res, nil
}
