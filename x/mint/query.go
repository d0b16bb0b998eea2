package mint

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/orm"
)

// Keys of the models returned by "/mint/counters".
const (
	MintedKey = "minted"
	BurnedKey = "burned"
)

func keyQueryOnly(mod string) error {
	if mod != weave.KeyQueryMod {
		return errors.Wrapf(errors.ErrInput, "unsupported mod: %s", mod)
	}
	return nil
}

// tokenID decodes the query data of the per token views, which is the
// token key.
func tokenID(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "token key must be 8 bytes, got %d", len(data))
	}
	return uint64(orm.DecodeSequence(data)), nil
}

func addressPairs(addrs []weave.Address) []weave.Model {
	res := make([]weave.Model, 0, len(addrs))
	for _, a := range addrs {
		res = append(res, weave.Pair(a, a))
	}
	return res
}

// configQuery returns the mint configuration.
type configQuery struct {
	authority *Authority
}

var _ weave.QueryHandler = configQuery{}

func (q configQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if err := keyQueryOnly(mod); err != nil {
		return nil, err
	}
	conf, err := q.authority.Config(db)
	if err != nil {
		return nil, err
	}
	raw, err := conf.Marshal()
	if err != nil {
		return nil, err
	}
	return []weave.Model{weave.Pair([]byte(configPkg), raw)}, nil
}

// countersQuery returns the number of minted and burned tokens, each
// encoded as an 8 byte big endian value.
type countersQuery struct {
	authority *Authority
}

var _ weave.QueryHandler = countersQuery{}

func (q countersQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if err := keyQueryOnly(mod); err != nil {
		return nil, err
	}
	minted, err := q.authority.NumMinted(db)
	if err != nil {
		return nil, err
	}
	burned, err := q.authority.NumBurned(db)
	if err != nil {
		return nil, err
	}
	return []weave.Model{
		weave.Pair([]byte(MintedKey), orm.EncodeSequence(int64(minted))),
		weave.Pair([]byte(BurnedKey), orm.EncodeSequence(int64(burned))),
	}, nil
}

// mintersQuery lists the granted minters. With an address as data it
// returns that address only if it may mint, the owner included.
type mintersQuery struct {
	authority *Authority
}

var _ weave.QueryHandler = mintersQuery{}

func (q mintersQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if err := keyQueryOnly(mod); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		minters, err := q.authority.Minters(db)
		if err != nil {
			return nil, err
		}
		return addressPairs(minters), nil
	}

	account := weave.Address(data)
	if err := account.Validate(); err != nil {
		return nil, errors.Wrap(err, "account")
	}
	ok, err := q.authority.IsMinter(db, account)
	if err != nil || !ok {
		return nil, err
	}
	return addressPairs([]weave.Address{account}), nil
}

// tokenPermsQuery lists the accounts granted access to the token whose
// key is given as data.
type tokenPermsQuery struct {
	authority *Authority
}

var _ weave.QueryHandler = tokenPermsQuery{}

func (q tokenPermsQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if err := keyQueryOnly(mod); err != nil {
		return nil, err
	}
	id, err := tokenID(data)
	if err != nil {
		return nil, err
	}
	perms, err := q.authority.Permissioners(db, id)
	if err != nil {
		return nil, err
	}
	return addressPairs(perms), nil
}

// accountPermsQuery lists the accounts acting on behalf of the owner
// given as data.
type accountPermsQuery struct {
	authority *Authority
}

var _ weave.QueryHandler = accountPermsQuery{}

func (q accountPermsQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if err := keyQueryOnly(mod); err != nil {
		return nil, err
	}
	owner := weave.Address(data)
	if err := owner.Validate(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	perms, err := q.authority.AccountPermissioners(db, owner)
	if err != nil {
		return nil, err
	}
	return addressPairs(perms), nil
}

// tokenURIQuery returns the content location of a token.
type tokenURIQuery struct {
	authority *Authority
}

var _ weave.QueryHandler = tokenURIQuery{}

func (q tokenURIQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if err := keyQueryOnly(mod); err != nil {
		return nil, err
	}
	id, err := tokenID(data)
	if err != nil {
		return nil, err
	}
	uri, err := q.authority.TokenURI(db, id)
	if err != nil {
		return nil, err
	}
	return []weave.Model{weave.Pair(data, []byte(uri))}, nil
}

// uniqueIDQuery returns the "<token_id>:<mint_id>" identifier of a
// token.
type uniqueIDQuery struct {
	authority *Authority
}

var _ weave.QueryHandler = uniqueIDQuery{}

func (q uniqueIDQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if err := keyQueryOnly(mod); err != nil {
		return nil, err
	}
	id, err := tokenID(data)
	if err != nil {
		return nil, err
	}
	uid, err := q.authority.UniqueID(db, id)
	if err != nil {
		return nil, err
	}
	return []weave.Model{weave.Pair(data, []byte(uid.String()))}, nil
}
