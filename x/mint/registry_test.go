package mint

import (
	"testing"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/weavetest"
	"github.com/mintbase/weave/weavetest/assert"
	"github.com/mintbase/weave/x/permission"
	"github.com/mintbase/weave/x/royalty"
	"github.com/stretchr/testify/require"
)

func TestMintAssignsFreshIDs(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()

	first := mustMint(t, db, a, owner, alice, 3, nil)
	assert.Equal(t, []uint64{0, 1, 2}, first)
	second := mustMint(t, db, a, owner, alice, 2, nil)
	assert.Equal(t, []uint64{3, 4}, second)

	n, err := a.NumMinted(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), n)

	for _, id := range first {
		tok, err := a.Token(db, id)
		require.NoError(t, err)
		assert.Equal(t, owner, tok.Minter)
		assert.Equal(t, alice, tok.Owner)
		assert.Equal(t, uint64(3), tok.Copies)
		assert.Equal(t, "meta", tok.MetaID)
	}
}

func TestMintQuantity(t *testing.T) {
	db, a, owner := newTestMint(t)

	_, err := a.Mint(db, owner, owner, "meta", 0, nil)
	assert.IsErr(t, ErrInvalidQuantity, err)
	_, err = a.Mint(db, owner, owner, "meta", maxMintQuantity+1, nil)
	assert.IsErr(t, ErrInvalidQuantity, err)

	n, err := a.NumMinted(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestMintRequiresMinter(t *testing.T) {
	db, a, owner := newTestMint(t)
	bob := weavetest.NewCondition().Address()

	_, err := a.Mint(db, bob, bob, "meta", 1, nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	require.NoError(t, a.GrantMinter(db, owner, bob))
	ids := mustMint(t, db, a, bob, bob, 1, nil)
	minter, err := a.Minter(db, ids[0])
	assert.Nil(t, err)
	assert.Equal(t, bob, minter)
}

func TestTransferAuthorization(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	carol := weavetest.NewCondition().Address()

	cases := map[string]struct {
		setup   func(t *testing.T, db weave.KVStore, a *Authority, id uint64)
		caller  weave.Address
		wantErr *errors.Error
	}{
		"owner": {
			caller: alice,
		},
		"stranger": {
			caller:  bob,
			wantErr: errors.ErrUnauthorized,
		},
		"token permissioner": {
			setup: func(t *testing.T, db weave.KVStore, a *Authority, id uint64) {
				require.NoError(t, a.GrantAccess(db, alice, id, bob))
			},
			caller: bob,
		},
		"revoked token permissioner": {
			setup: func(t *testing.T, db weave.KVStore, a *Authority, id uint64) {
				require.NoError(t, a.GrantAccess(db, alice, id, bob))
				require.NoError(t, a.RevokeAccess(db, alice, id, bob))
			},
			caller:  bob,
			wantErr: errors.ErrUnauthorized,
		},
		"account permissioner": {
			setup: func(t *testing.T, db weave.KVStore, a *Authority, id uint64) {
				require.NoError(t, a.GrantAccountAccess(db, alice, bob))
			},
			caller: bob,
		},
		"permissioner of another account": {
			setup: func(t *testing.T, db weave.KVStore, a *Authority, id uint64) {
				require.NoError(t, a.GrantAccountAccess(db, carol, bob))
			},
			caller:  bob,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db, a, owner := newTestMint(t)
			id := mustMint(t, db, a, owner, alice, 1, nil)[0]
			if tc.setup != nil {
				tc.setup(t, db, a, id)
			}

			err := a.Transfer(db, tc.caller, id, carol)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}

			tok, err := a.Token(db, id)
			require.NoError(t, err)
			if tc.wantErr != nil {
				assert.Equal(t, alice, tok.Owner)
			} else {
				assert.Equal(t, carol, tok.Owner)
			}
		})
	}
}

func TestTransferUnknownToken(t *testing.T) {
	db, a, owner := newTestMint(t)
	err := a.Transfer(db, owner, 42, owner)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestPermissionersSurviveTransfer(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	carol := weavetest.NewCondition().Address()

	id := mustMint(t, db, a, owner, alice, 1, nil)[0]
	require.NoError(t, a.GrantAccess(db, alice, id, bob))
	require.NoError(t, a.Transfer(db, alice, id, carol))

	ok, err := a.IsPermissioner(db, id, bob)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	// The previous owner lost every right.
	err = a.Transfer(db, alice, id, alice)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// Only the new owner manages access.
	err = a.RevokeAccess(db, bob, id, bob)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	require.NoError(t, a.RevokeAccess(db, carol, id, bob))
	perms, err := a.Permissioners(db, id)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(perms))
}

func TestPermissionerCannotDelegate(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	carol := weavetest.NewCondition().Address()

	id := mustMint(t, db, a, owner, alice, 1, nil)[0]
	require.NoError(t, a.GrantAccess(db, alice, id, bob))

	err := a.GrantAccess(db, bob, id, carol)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	err = a.GrantAccess(db, alice, 99, carol)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestBurn(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	ids := mustMint(t, db, a, owner, alice, 2, nil)
	require.NoError(t, a.GrantAccess(db, alice, ids[0], bob))

	err := a.Burn(db, owner, ids[0])
	assert.IsErr(t, errors.ErrUnauthorized, err)

	require.NoError(t, a.Burn(db, bob, ids[0]))

	_, err = a.Minter(db, ids[0])
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = a.MetaID(db, ids[0])
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = a.NumCopies(db, ids[0])
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = a.Royalty(db, ids[0])
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = a.IsPermissioner(db, ids[0], bob)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = a.UniqueID(db, ids[0])
	assert.IsErr(t, errors.ErrNotFound, err)

	err = a.Burn(db, alice, ids[0])
	assert.IsErr(t, errors.ErrNotFound, err)

	// Copies of the same mint call are not affected.
	copies, err := a.NumCopies(db, ids[1])
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), copies)

	burned, err := a.NumBurned(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), burned)

	// A burned id is never assigned again.
	next := mustMint(t, db, a, owner, alice, 1, nil)
	assert.Equal(t, []uint64{2}, next)
}

func TestBurnReleasesPermissioners(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	id := mustMint(t, db, a, owner, alice, 1, nil)[0]
	require.NoError(t, a.GrantAccess(db, alice, id, bob))
	require.NoError(t, a.Burn(db, alice, id))

	perms, err := a.perms.List(db, permission.TokenScope(id))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(perms))
}

func TestRoyaltyIsNeverAltered(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	roy := testRoyalty(t, alice, bob)
	want := roy.Copy()

	ids := mustMint(t, db, a, owner, alice, 2, roy)

	// Changing the input value must not affect stored tokens.
	roy.SplitBetween[0].Fraction.Numerator = 1

	require.NoError(t, a.GrantAccess(db, alice, ids[0], bob))
	require.NoError(t, a.Transfer(db, bob, ids[0], bob))
	require.NoError(t, a.Transfer(db, bob, ids[0], alice))
	require.NoError(t, a.Burn(db, alice, ids[1]))
	require.NoError(t, a.TransferOwnership(db, owner, bob, false))

	got, err := a.Royalty(db, ids[0])
	assert.Nil(t, err)
	if !want.Equal(got) {
		t.Fatalf("royalty changed: want %+v, got %+v", want, got)
	}
}

func TestMintWithoutRoyalty(t *testing.T) {
	db, a, owner := newTestMint(t)
	id := mustMint(t, db, a, owner, owner, 1, nil)[0]

	got, err := a.Royalty(db, id)
	assert.Nil(t, err)
	if got != nil {
		t.Fatalf("want no royalty, got %+v", got)
	}
}

func TestCountersFollowCalls(t *testing.T) {
	db, a, owner := newTestMint(t)

	var total uint64
	var all []uint64
	for _, n := range []uint64{1, 4, 2} {
		all = append(all, mustMint(t, db, a, owner, owner, n, nil)...)
		total += n
	}
	for _, id := range all[:3] {
		require.NoError(t, a.Burn(db, owner, id))
	}
	// failed burns are not counted
	_ = a.Burn(db, owner, all[0])

	minted, err := a.NumMinted(db)
	assert.Nil(t, err)
	assert.Equal(t, total, minted)
	burned, err := a.NumBurned(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), burned)
}

func TestTransferFrom(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	id := mustMint(t, db, a, owner, alice, 1, nil)[0]
	require.NoError(t, a.GrantAccountAccess(db, alice, bob))

	err := a.TransferFrom(db, bob, id, bob, bob)
	assert.IsErr(t, errors.ErrInput, err)

	// a stranger learns nothing about the owner
	carol := weavetest.NewCondition().Address()
	err = a.TransferFrom(db, carol, id, bob, carol)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	err = a.TransferFrom(db, carol, id, alice, carol)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	require.NoError(t, a.TransferFrom(db, bob, id, alice, bob))
	tok, err := a.Token(db, id)
	require.NoError(t, err)
	assert.Equal(t, bob, tok.Owner)
}

func TestTokensByOwner(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()

	mustMint(t, db, a, owner, alice, 2, nil)
	mustMint(t, db, a, owner, owner, 1, nil)
	require.NoError(t, a.Transfer(db, alice, 0, owner))

	tokens, err := a.TokensByOwner(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(tokens))
	assert.Equal(t, uint64(1), tokens[0].TokenID)

	tokens, err = a.TokensByOwner(db, owner)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(tokens))
	assert.Equal(t, uint64(0), tokens[0].TokenID)
	assert.Equal(t, uint64(2), tokens[1].TokenID)
}

func TestTokenSerialization(t *testing.T) {
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	tok := &Token{
		Minter:  alice,
		Owner:   bob,
		TokenID: 7,
		MetaID:  "meta",
		Copies:  3,
		Royalty: testRoyalty(t, alice, bob),
	}
	assert.Nil(t, tok.Validate())

	raw, err := tok.Marshal()
	require.NoError(t, err)
	var got Token
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, tok.Owner, got.Owner)
	assert.Equal(t, tok.TokenID, got.TokenID)
	if !tok.Royalty.Equal(got.Royalty) {
		t.Fatalf("royalty mismatch: %+v", got.Royalty)
	}

	invalid := tok.Copy()
	invalid.Royalty = &royalty.Royalty{}
	if err := invalid.Validate(); err == nil {
		t.Fatal("want invalid royalty error")
	}
	invalid = tok.Copy()
	invalid.Copies = 0
	assert.IsErr(t, ErrInvalidQuantity, invalid.Validate())
}
