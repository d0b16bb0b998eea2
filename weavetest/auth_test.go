package weavetest

import (
	"context"
	"testing"

	"github.com/mintbase/weave"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a, b, c := NewCondition(), NewCondition(), NewCondition()

	cases := map[string]struct {
		auth Auth
		want []weave.Condition
	}{
		"nobody": {},
		"signer only": {
			auth: Auth{Signer: a},
			want: []weave.Condition{a},
		},
		"signers only": {
			auth: Auth{Signers: []weave.Condition{a, b}},
			want: []weave.Condition{a, b},
		},
		"signer is listed last": {
			auth: Auth{Signer: c, Signers: []weave.Condition{a, b}},
			want: []weave.Condition{a, b, c},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			got := tc.auth.GetConditions(ctx)
			assert.Equal(t, tc.want, got)
			for _, cond := range tc.want {
				assert.True(t, tc.auth.HasAddress(ctx, cond.Address()))
			}
			assert.False(t, tc.auth.HasAddress(ctx, NewCondition().Address()))
		})
	}
}

func TestAuthDoesNotAliasSigners(t *testing.T) {
	signers := make([]weave.Condition, 1, 4)
	signers[0] = NewCondition()
	a := Auth{Signer: NewCondition(), Signers: signers}

	a.GetConditions(nil)
	assert.Len(t, a.Signers, 1)
	assert.Nil(t, signers[:2][1])
}

func TestCtxAuth(t *testing.T) {
	a := CtxAuth{Key: "auth"}
	owner, minter := NewCondition(), NewCondition()

	empty := context.Background()
	assert.Nil(t, a.GetConditions(empty))
	assert.False(t, a.HasAddress(empty, owner.Address()))

	ctx := a.SetConditions(empty, owner, minter)
	assert.Equal(t, []weave.Condition{owner, minter}, a.GetConditions(ctx))
	assert.True(t, a.HasAddress(ctx, minter.Address()))
	assert.False(t, a.HasAddress(ctx, NewCondition().Address()))

	bad := context.WithValue(empty, "auth", "owner")
	assert.Panics(t, func() { a.GetConditions(bad) })
}
