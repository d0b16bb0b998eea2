package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticQuery []Model

func (q staticQuery) Query(ReadOnlyKVStore, string, []byte) ([]Model, error) {
	return q, nil
}

func TestQueryRouter(t *testing.T) {
	r := NewQueryRouter()
	r.RegisterAll(
		func(qr QueryRouter) { qr.Register("/tokens", staticQuery{Pair([]byte("a"), []byte("1"))}) },
		func(qr QueryRouter) { qr.Register("/mint", staticQuery{}) },
	)

	assert.Equal(t, []string{"/mint", "/tokens"}, r.Paths())
	assert.Nil(t, r.Handler("/missing"))

	models, err := r.Handler("/tokens").Query(nil, KeyQueryMod, nil)
	assert.NoError(t, err)
	assert.Equal(t, []Model{{Key: []byte("a"), Value: []byte("1")}}, models)

	assert.Panics(t, func() { r.Register("/mint", staticQuery{}) })
}
