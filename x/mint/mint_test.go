package mint

import (
	"testing"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/gconf"
	"github.com/mintbase/weave/store"
	"github.com/mintbase/weave/weavetest"
	"github.com/mintbase/weave/x/royalty"
)

// newTestMint returns a configured mint owned by a random account.
func newTestMint(t testing.TB) (weave.CacheableKVStore, *Authority, weave.Address) {
	t.Helper()
	db := store.MemStore()
	owner := weavetest.NewCondition().Address()
	conf := &Configuration{
		Owner:   owner,
		MintID:  "mymint",
		BaseURI: "https://arweave.net",
	}
	if err := gconf.Save(db, configPkg, conf); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}
	return db, NewAuthority(NewRegistry()), owner
}

func mustMint(t testing.TB, db weave.KVStore, a *Authority, minter, owner weave.Address, num uint64, roy *royalty.Royalty) []uint64 {
	t.Helper()
	ids, err := a.Mint(db, minter, owner, "meta", num, roy)
	if err != nil {
		t.Fatalf("cannot mint: %+v", err)
	}
	return ids
}

func testRoyalty(t testing.TB, a, b weave.Address) *royalty.Royalty {
	t.Helper()
	shares := map[string]float32{a.String(): 0.7, b.String(): 0.3}
	r, err := royalty.FromFloatMap(shares, 0.1)
	if err != nil {
		t.Fatalf("cannot build royalty: %+v", err)
	}
	return r
}
