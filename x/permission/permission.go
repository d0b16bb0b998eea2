/*
Package permission stores sets of accounts granted a right within a
scope.

A scope names what the right applies to: the mint wide minter set, a
single token, or everything an account owns. Grant and Revoke are
idempotent. The package does not decide who may change a set; callers
authorize before they write.
*/
package permission

import (
	"encoding/binary"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/orm"
)

// Scope identifies a single permission set.
type Scope []byte

// MintScope holds the accounts allowed to mint.
var MintScope = Scope("minters")

// TokenScope holds the accounts allowed to act on a single token.
func TokenScope(tokenID uint64) Scope {
	s := make([]byte, 6+8)
	copy(s, "token/")
	binary.BigEndian.PutUint64(s[6:], tokenID)
	return s
}

// AccountScope holds the accounts allowed to act on behalf of owner.
func AccountScope(owner weave.Address) Scope {
	return append(Scope("acct/"), owner...)
}

var granted = []byte{1}

// Set is the collection of all permission sets, keyed by scope.
type Set struct {
	bucket orm.Bucket
}

// NewSet returns a Set stored in the "perm" bucket.
func NewSet() Set {
	return Set{bucket: orm.NewBucket("perm")}
}

// key joins scope and account. Every scope has a fixed length so the
// prefix of one scope never covers another.
func key(scope Scope, account weave.Address) []byte {
	k := make([]byte, 0, len(scope)+1+len(account))
	k = append(k, scope...)
	k = append(k, ':')
	return append(k, account...)
}

// Grant adds account to the scope. Granting twice is a noop.
func (s Set) Grant(db weave.KVStore, scope Scope, account weave.Address) error {
	if err := account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if err := s.bucket.Set(db, key(scope, account), granted); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Revoke removes account from the scope. Revoking a missing account is
// a noop.
func (s Set) Revoke(db weave.KVStore, scope Scope, account weave.Address) error {
	if err := account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if err := s.bucket.Delete(db, key(scope, account)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Contains returns true if account was granted within the scope.
func (s Set) Contains(db weave.ReadOnlyKVStore, scope Scope, account weave.Address) (bool, error) {
	if len(account) == 0 {
		return false, nil
	}
	return s.bucket.Has(db, key(scope, account))
}

// List returns all accounts of the scope ordered by address.
func (s Set) List(db weave.ReadOnlyKVStore, scope Scope) ([]weave.Address, error) {
	prefix := key(scope, nil)
	models, err := s.bucket.PrefixScan(db, prefix, false)
	if err != nil {
		return nil, err
	}
	accounts := make([]weave.Address, len(models))
	for i, m := range models {
		accounts[i] = weave.Address(m.Key[len(prefix):])
	}
	return accounts, nil
}

// Clear removes every account from the scope.
func (s Set) Clear(db weave.KVStore, scope Scope) error {
	accounts, err := s.List(db, scope)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if err := s.bucket.Delete(db, key(scope, a)); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return nil
}
