package mint

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/orm"
	"github.com/mintbase/weave/x/permission"
	"github.com/mintbase/weave/x/royalty"
)

// Registry holds all tokens of the mint together with the per token
// permissioners.
type Registry struct {
	tokens orm.ModelBucket
	perms  permission.Set
	minted orm.Sequence
	burned orm.Sequence
}

// NewRegistry returns a registry using the default buckets.
func NewRegistry() *Registry {
	return &Registry{
		tokens: NewTokenBucket(),
		perms:  permission.NewSet(),
		minted: orm.NewSequence("mint", "minted"),
		burned: orm.NewSequence("mint", "burned"),
	}
}

// Mint creates num copies of a token. Every copy gets a fresh id taken
// from the minted counter. The caller is responsible for authorizing
// the minter.
func (r *Registry) Mint(db weave.KVStore, minter, owner weave.Address, metaID string, num uint64, roy *royalty.Royalty) ([]uint64, error) {
	if num == 0 {
		return nil, errors.Wrap(ErrInvalidQuantity, "nothing to mint")
	}
	if num > maxMintQuantity {
		return nil, errors.Wrapf(ErrInvalidQuantity, "cannot mint more than %d at once", maxMintQuantity)
	}
	last, err := r.minted.Increment(db, int64(num))
	if err != nil {
		return nil, errors.Wrap(err, "minted counter")
	}

	first := uint64(last) - num
	ids := make([]uint64, 0, num)
	for id := first; id < uint64(last); id++ {
		t := &Token{
			Minter:  minter,
			Owner:   owner,
			TokenID: id,
			MetaID:  metaID,
			Copies:  num,
			Royalty: roy.Copy(),
		}
		if err := r.tokens.Put(db, TokenKey(id), t); err != nil {
			return nil, errors.Wrapf(err, "token %d", id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

const maxMintQuantity = 1000

// Token returns the token with given id or ErrNotFound.
func (r *Registry) Token(db weave.ReadOnlyKVStore, id uint64) (*Token, error) {
	var t Token
	if err := r.tokens.One(db, TokenKey(id), &t); err != nil {
		return nil, errors.Wrapf(err, "token %d", id)
	}
	return &t, nil
}

// Minter returns the account that minted the token.
func (r *Registry) Minter(db weave.ReadOnlyKVStore, id uint64) (weave.Address, error) {
	t, err := r.Token(db, id)
	if err != nil {
		return nil, err
	}
	return t.Minter, nil
}

// MetaID returns the content identifier of the token.
func (r *Registry) MetaID(db weave.ReadOnlyKVStore, id uint64) (string, error) {
	t, err := r.Token(db, id)
	if err != nil {
		return "", err
	}
	return t.MetaID, nil
}

// NumCopies returns the number of copies minted together with the token.
func (r *Registry) NumCopies(db weave.ReadOnlyKVStore, id uint64) (uint64, error) {
	t, err := r.Token(db, id)
	if err != nil {
		return 0, err
	}
	return t.Copies, nil
}

// Royalty returns the royalty of the token, or nil if it has none.
func (r *Registry) Royalty(db weave.ReadOnlyKVStore, id uint64) (*royalty.Royalty, error) {
	t, err := r.Token(db, id)
	if err != nil {
		return nil, err
	}
	return t.Royalty, nil
}

// IsPermissioner returns true if account was granted access to the
// token. The owner is not a permissioner of its own token.
func (r *Registry) IsPermissioner(db weave.ReadOnlyKVStore, id uint64, account weave.Address) (bool, error) {
	if _, err := r.Token(db, id); err != nil {
		return false, err
	}
	return r.perms.Contains(db, permission.TokenScope(id), account)
}

// Permissioners returns all accounts granted access to the token.
func (r *Registry) Permissioners(db weave.ReadOnlyKVStore, id uint64) ([]weave.Address, error) {
	if _, err := r.Token(db, id); err != nil {
		return nil, err
	}
	return r.perms.List(db, permission.TokenScope(id))
}

// CheckOwnerOrPermissioner returns true if account may act on the
// token: it is the owner, it was granted access to the token or it was
// granted access on behalf of the owner.
func (r *Registry) CheckOwnerOrPermissioner(db weave.ReadOnlyKVStore, id uint64, account weave.Address) (bool, error) {
	t, err := r.Token(db, id)
	if err != nil {
		return false, err
	}
	return r.canAct(db, t, account)
}

func (r *Registry) canAct(db weave.ReadOnlyKVStore, t *Token, account weave.Address) (bool, error) {
	if t.Owner.Equals(account) {
		return true, nil
	}
	switch ok, err := r.perms.Contains(db, permission.TokenScope(t.TokenID), account); {
	case err != nil:
		return false, err
	case ok:
		return true, nil
	}
	return r.perms.Contains(db, permission.AccountScope(t.Owner), account)
}

// authorize loads the token and ensures caller may act on it.
func (r *Registry) authorize(db weave.ReadOnlyKVStore, id uint64, caller weave.Address) (*Token, error) {
	t, err := r.Token(db, id)
	if err != nil {
		return nil, err
	}
	ok, err := r.canAct(db, t, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s cannot act on token %d", caller, id)
	}
	return t, nil
}

// Transfer changes the owner of the token. Accounts granted access to
// the token keep it.
func (r *Registry) Transfer(db weave.KVStore, caller weave.Address, id uint64, to weave.Address) error {
	return r.transfer(db, caller, id, nil, to)
}

// TransferFrom changes the owner of a token currently owned by from.
// The caller is authorized first, only then it fails with ErrInput if
// from does not own the token.
func (r *Registry) TransferFrom(db weave.KVStore, caller weave.Address, id uint64, from, to weave.Address) error {
	return r.transfer(db, caller, id, from, to)
}

// transfer moves the token to a new owner. A nil from skips the
// ownership comparison.
func (r *Registry) transfer(db weave.KVStore, caller weave.Address, id uint64, from, to weave.Address) error {
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	t, err := r.authorize(db, id, caller)
	if err != nil {
		return err
	}
	if from != nil && !t.Owner.Equals(from) {
		return errors.Wrapf(errors.ErrInput, "token %d is not owned by %s", id, from)
	}
	t.Owner = to
	if err := r.tokens.Put(db, TokenKey(id), t); err != nil {
		return errors.Wrapf(err, "token %d", id)
	}
	return nil
}

// Burn removes the token together with its permissioners. The id is
// never assigned again.
func (r *Registry) Burn(db weave.KVStore, caller weave.Address, id uint64) error {
	if _, err := r.authorize(db, id, caller); err != nil {
		return err
	}
	if err := r.tokens.Delete(db, TokenKey(id)); err != nil {
		return errors.Wrapf(err, "token %d", id)
	}
	if err := r.perms.Clear(db, permission.TokenScope(id)); err != nil {
		return errors.Wrapf(err, "token %d permissioners", id)
	}
	if _, err := r.burned.NextInt(db); err != nil {
		return errors.Wrap(err, "burned counter")
	}
	return nil
}

// GrantAccess allows account to act on the token. Only the owner may
// grant access.
func (r *Registry) GrantAccess(db weave.KVStore, caller weave.Address, id uint64, account weave.Address) error {
	if err := r.requireOwner(db, caller, id); err != nil {
		return err
	}
	return r.perms.Grant(db, permission.TokenScope(id), account)
}

// RevokeAccess removes access granted with GrantAccess. Only the owner
// may revoke access.
func (r *Registry) RevokeAccess(db weave.KVStore, caller weave.Address, id uint64, account weave.Address) error {
	if err := r.requireOwner(db, caller, id); err != nil {
		return err
	}
	return r.perms.Revoke(db, permission.TokenScope(id), account)
}

func (r *Registry) requireOwner(db weave.ReadOnlyKVStore, caller weave.Address, id uint64) error {
	t, err := r.Token(db, id)
	if err != nil {
		return err
	}
	if !t.Owner.Equals(caller) {
		return errors.Wrapf(errors.ErrUnauthorized, "only the owner manages access to token %d", id)
	}
	return nil
}

// TokensByOwner returns all tokens of given owner ordered by id.
func (r *Registry) TokensByOwner(db weave.ReadOnlyKVStore, owner weave.Address) ([]Token, error) {
	var tokens []Token
	if _, err := r.tokens.ByIndex(db, "owner", owner, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// NumMinted returns the number of tokens minted so far.
func (r *Registry) NumMinted(db weave.ReadOnlyKVStore) (uint64, error) {
	n, err := r.minted.Latest(db)
	return uint64(n), err
}

// NumBurned returns the number of tokens burned so far.
func (r *Registry) NumBurned(db weave.ReadOnlyKVStore) (uint64, error) {
	n, err := r.burned.Latest(db)
	return uint64(n), err
}

// RegisterQuery registers the token bucket and its indexes under
// "/tokens".
func (r *Registry) RegisterQuery(qr weave.QueryRouter) {
	r.tokens.Register("tokens", qr)
}
