package mint

import (
	"context"
	"testing"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/weavetest"
	"github.com/mintbase/weave/weavetest/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestListTokenRequiresMarketplace(t *testing.T) {
	db, a, owner := newTestMint(t)
	id := mustMint(t, db, a, owner, owner, 1, nil)[0]

	_, err := a.ListToken(db, owner, id, ListingTerms{AskingPrice: decimal.New(10, 0)})
	assert.IsErr(t, ErrNoMarketplace, err)
}

func TestListToken(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	cases := map[string]struct {
		caller  weave.Address
		terms   ListingTerms
		wantErr *errors.Error
	}{
		"owner": {
			caller: alice,
			terms:  ListingTerms{Autotransfer: true, AskingPrice: decimal.New(10, 0)},
		},
		"with split owners": {
			caller: alice,
			terms: ListingTerms{
				AskingPrice: decimal.New(10, 0),
				SplitOwners: testRoyalty(t, alice, bob),
			},
		},
		"stranger": {
			caller:  bob,
			terms:   ListingTerms{AskingPrice: decimal.New(10, 0)},
			wantErr: errors.ErrUnauthorized,
		},
		"negative price": {
			caller:  alice,
			terms:   ListingTerms{AskingPrice: decimal.New(-1, 0)},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, a, owner := newTestMint(t)
			market := weavetest.NewCondition().Address()
			require.NoError(t, a.SetMarketplace(db, owner, market))
			id := mustMint(t, db, a, owner, alice, 1, nil)[0]

			listing, err := a.ListToken(db, tc.caller, id, tc.terms)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, market, listing.Marketplace)
			assert.Equal(t, alice, listing.Owner)
			assert.Equal(t, "0:mymint", listing.UniqueID)
			assert.Equal(t, tc.terms.Autotransfer, listing.Autotransfer)
			assert.Nil(t, listing.Validate())
			if tc.terms.SplitOwners != nil {
				assert.Equal(t, 2, len(listing.SplitOwners))
			}
		})
	}
}

func TestBatchListToken(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	middle := weavetest.NewCondition().Address()
	require.NoError(t, a.SetMarketplace(db, owner, weavetest.NewCondition().Address()))

	aliceTokens := mustMint(t, db, a, owner, alice, 2, nil)
	bobToken := mustMint(t, db, a, owner, bob, 1, nil)[0]
	// alice may act on bob's token but it has a different owner
	require.NoError(t, a.GrantAccess(db, bob, bobToken, alice))

	ids := []uint64{aliceTokens[0], bobToken, 99, aliceTokens[1]}
	terms := ListingTerms{AskingPrice: decimal.New(5, 0)}
	listing, res, err := a.BatchListToken(context.Background(), db, alice, ids, terms, middle)
	require.NoError(t, err)
	assert.Equal(t, aliceTokens, listing.TokenIDs)
	assert.Equal(t, alice, listing.Owner)
	assert.Equal(t, middle, listing.PermissionsIntermediary)
	assert.Equal(t, 2, res.Failed())

	listing, res, err = a.BatchListToken(context.Background(), db, bob, aliceTokens, terms, nil)
	require.NoError(t, err)
	if listing != nil {
		t.Fatalf("want no listing, got %+v", listing)
	}
	assert.Equal(t, 2, res.Failed())
}
