package mint

import (
	"context"
	"testing"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/weavetest"
	"github.com/mintbase/weave/weavetest/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchTransferPartialFailure(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	carol := weavetest.NewCondition().Address()

	valid := mustMint(t, db, a, owner, alice, 1, nil)[0]
	foreign := mustMint(t, db, a, owner, bob, 1, nil)[0]

	res := a.BatchTransfer(context.Background(), db, alice, carol, []uint64{valid, foreign, 99})
	require.Len(t, res.Items, 3)
	assert.Equal(t, true, res.Items[0].OK())
	assert.Equal(t, false, res.Items[1].OK())
	assert.Equal(t, false, res.Items[2].OK())
	assert.Equal(t, uint32(1), res.Items[1].Index)
	assert.Equal(t, foreign, res.Items[1].TokenID)
	assert.Equal(t, 2, res.Failed())
	assert.Equal(t, []uint64{valid}, res.Applied())

	tok, err := a.Token(db, valid)
	require.NoError(t, err)
	assert.Equal(t, carol, tok.Owner)
	tok, err = a.Token(db, foreign)
	require.NoError(t, err)
	assert.Equal(t, bob, tok.Owner)
}

func TestBatchItemsAreIsolated(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	ids := mustMint(t, db, a, owner, alice, 2, nil)

	// The second transfer of the same token fails because alice is no
	// longer its owner. The first one stays applied.
	res := a.BatchHeterogeneousTransfer(context.Background(), db, alice, []TransferPair{
		{TokenID: ids[0], To: bob},
		{TokenID: ids[0], To: alice},
		{TokenID: ids[1], To: bob},
	})
	assert.Equal(t, []uint64{ids[0], ids[1]}, res.Applied())
	assert.Equal(t, 1, res.Failed())

	tokens, err := a.TokensByOwner(db, bob)
	require.NoError(t, err)
	assert.Equal(t, 2, len(tokens))
}

func TestBatchTransferFrom(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()
	operator := weavetest.NewCondition().Address()

	aliceTokens := mustMint(t, db, a, owner, alice, 2, nil)
	bobToken := mustMint(t, db, a, owner, bob, 1, nil)[0]
	require.NoError(t, a.GrantAccountAccess(db, alice, operator))
	require.NoError(t, a.GrantAccountAccess(db, bob, operator))

	ids := []uint64{aliceTokens[0], aliceTokens[1], bobToken}
	res := a.BatchTransferFrom(context.Background(), db, operator, alice, operator, ids)
	assert.Equal(t, aliceTokens, res.Applied())
	assert.Equal(t, 1, res.Failed())

	tok, err := a.Token(db, bobToken)
	require.NoError(t, err)
	assert.Equal(t, bob, tok.Owner)
}

func TestBatchBurn(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()

	mine := mustMint(t, db, a, owner, owner, 2, nil)
	theirs := mustMint(t, db, a, owner, alice, 1, nil)

	res := a.BatchBurn(context.Background(), db, owner, append(mine, theirs...))
	assert.Equal(t, mine, res.Applied())

	burned, err := a.NumBurned(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), burned)

	for _, id := range mine {
		_, err := a.Token(db, id)
		assert.IsErr(t, errors.ErrNotFound, err)
	}
}

type plainStore struct {
	weave.KVStore
}

func TestBatchWithoutSavepoints(t *testing.T) {
	db, a, owner := newTestMint(t)
	alice := weavetest.NewCondition().Address()
	ids := mustMint(t, db, a, owner, owner, 2, nil)

	res := a.BatchTransfer(context.Background(), plainStore{db}, owner, alice, []uint64{ids[0], 77, ids[1]})
	assert.Equal(t, ids, res.Applied())
}

func TestBatchResultSerialization(t *testing.T) {
	res := &BatchResult{Items: []ItemResult{
		{Index: 0, TokenID: 4},
		{Index: 1, TokenID: 9, Error: "unauthorized"},
	}}
	raw, err := res.Marshal()
	require.NoError(t, err)

	var got BatchResult
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, res.Items, got.Items)
}
