package mint

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/gconf"
	"github.com/mintbase/weave/x/permission"
	"github.com/mintbase/weave/x/royalty"
)

// Authority holds the mint wide state: the mint description, the owner
// and the minter set. It authorizes calls before delegating token
// changes to the Registry.
type Authority struct {
	*Registry
	perms permission.Set
}

// NewAuthority returns an authority over the given registry.
func NewAuthority(r *Registry) *Authority {
	return &Authority{Registry: r, perms: permission.NewSet()}
}

// Config loads the mint configuration.
func (a *Authority) Config(db weave.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, configPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "mint configuration")
	}
	return &conf, nil
}

// update loads the configuration, ensures caller is the owner, applies
// fn and stores the result.
func (a *Authority) update(db weave.KVStore, caller weave.Address, fn func(*Configuration) error) error {
	conf, err := a.requireMintOwner(db, caller)
	if err != nil {
		return err
	}
	if err := fn(conf); err != nil {
		return err
	}
	return gconf.Save(db, configPkg, conf)
}

func (a *Authority) requireMintOwner(db weave.ReadOnlyKVStore, caller weave.Address) (*Configuration, error) {
	conf, err := a.Config(db)
	if err != nil {
		return nil, err
	}
	if !conf.Owner.Equals(caller) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not the mint owner", caller)
	}
	return conf, nil
}

// SetMarketplace sets the account listings are sent to.
func (a *Authority) SetMarketplace(db weave.KVStore, caller, marketplace weave.Address) error {
	return a.update(db, caller, func(c *Configuration) error {
		c.Marketplace = marketplace
		return nil
	})
}

// SetIcon replaces the base64 encoded mint icon. An empty value removes
// the icon.
func (a *Authority) SetIcon(db weave.KVStore, caller weave.Address, icon string) error {
	return a.update(db, caller, func(c *Configuration) error {
		c.Icon = icon
		return nil
	})
}

// SetBaseURI replaces the location the token content is stored at.
func (a *Authority) SetBaseURI(db weave.KVStore, caller weave.Address, uri string) error {
	return a.update(db, caller, func(c *Configuration) error {
		c.BaseURI = uri
		return nil
	})
}

// SetSymbol replaces the mint symbol. An empty value removes the symbol.
func (a *Authority) SetSymbol(db weave.KVStore, caller weave.Address, symbol string) error {
	return a.update(db, caller, func(c *Configuration) error {
		c.Symbol = symbol
		return nil
	})
}

// GrantMinter allows account to mint tokens.
func (a *Authority) GrantMinter(db weave.KVStore, caller, account weave.Address) error {
	if _, err := a.requireMintOwner(db, caller); err != nil {
		return err
	}
	return a.perms.Grant(db, permission.MintScope, account)
}

// RevokeMinter removes account from the minter set. Revoking the owner
// has no effect unless ExplicitOwnerMinting is set.
func (a *Authority) RevokeMinter(db weave.KVStore, caller, account weave.Address) error {
	if _, err := a.requireMintOwner(db, caller); err != nil {
		return err
	}
	return a.perms.Revoke(db, permission.MintScope, account)
}

// TransferOwnership hands the mint over to newOwner. Unless
// keepOldMinters is set, the minter set is cleared.
func (a *Authority) TransferOwnership(db weave.KVStore, caller, newOwner weave.Address, keepOldMinters bool) error {
	if err := newOwner.Validate(); err != nil {
		return errors.Wrap(err, "new owner")
	}
	return a.update(db, caller, func(c *Configuration) error {
		c.Owner = newOwner
		if keepOldMinters {
			return nil
		}
		return a.perms.Clear(db, permission.MintScope)
	})
}

// IsMinter returns true if account may mint tokens.
func (a *Authority) IsMinter(db weave.ReadOnlyKVStore, account weave.Address) (bool, error) {
	conf, err := a.Config(db)
	if err != nil {
		return false, err
	}
	if !conf.ExplicitOwnerMinting && conf.Owner.Equals(account) {
		return true, nil
	}
	return a.perms.Contains(db, permission.MintScope, account)
}

// Minters returns all accounts explicitly granted the minter role.
func (a *Authority) Minters(db weave.ReadOnlyKVStore) ([]weave.Address, error) {
	return a.perms.List(db, permission.MintScope)
}

// Mint creates num copies of a token after ensuring caller is a minter.
func (a *Authority) Mint(db weave.KVStore, caller, owner weave.Address, metaID string, num uint64, roy *royalty.Royalty) ([]uint64, error) {
	switch ok, err := a.IsMinter(db, caller); {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not a minter", caller)
	}
	return a.Registry.Mint(db, caller, owner, metaID, num, roy)
}

// GrantAccountAccess allows account to act on every token owned by
// caller, now and in the future.
func (a *Authority) GrantAccountAccess(db weave.KVStore, caller, account weave.Address) error {
	if caller.Equals(account) {
		return errors.Wrap(errors.ErrInput, "cannot grant access to self")
	}
	return a.perms.Grant(db, permission.AccountScope(caller), account)
}

// RevokeAccountAccess removes access granted with GrantAccountAccess.
func (a *Authority) RevokeAccountAccess(db weave.KVStore, caller, account weave.Address) error {
	return a.perms.Revoke(db, permission.AccountScope(caller), account)
}

// CheckSelfOrPermissioner returns true if account is onBehalf or was
// granted access on its behalf.
func (a *Authority) CheckSelfOrPermissioner(db weave.ReadOnlyKVStore, account, onBehalf weave.Address) (bool, error) {
	if account.Equals(onBehalf) {
		return true, nil
	}
	return a.perms.Contains(db, permission.AccountScope(onBehalf), account)
}

// AccountPermissioners returns the accounts acting on behalf of owner.
func (a *Authority) AccountPermissioners(db weave.ReadOnlyKVStore, owner weave.Address) ([]weave.Address, error) {
	return a.perms.List(db, permission.AccountScope(owner))
}

// Description returns the public description of the mint.
func (a *Authority) Description(db weave.ReadOnlyKVStore) (*Description, error) {
	conf, err := a.Config(db)
	if err != nil {
		return nil, err
	}
	return &Description{
		MintID:  conf.MintID,
		Owner:   conf.Owner,
		Icon:    conf.Icon,
		Symbol:  conf.Symbol,
		BaseURI: conf.BaseURI,
	}, nil
}

// Description is the public part of the mint configuration.
type Description struct {
	MintID  string        `json:"mint_id"`
	Owner   weave.Address `json:"owner"`
	Icon    string        `json:"icon,omitempty"`
	Symbol  string        `json:"symbol,omitempty"`
	BaseURI string        `json:"base_uri"`
}

// UniqueID returns the identifier of the token across all mints.
func (a *Authority) UniqueID(db weave.ReadOnlyKVStore, id uint64) (UniqueID, error) {
	if _, err := a.Token(db, id); err != nil {
		return UniqueID{}, err
	}
	conf, err := a.Config(db)
	if err != nil {
		return UniqueID{}, err
	}
	return UniqueID{TokenID: id, MintID: conf.MintID}, nil
}

// TokenURI returns the location of the token content.
func (a *Authority) TokenURI(db weave.ReadOnlyKVStore, id uint64) (string, error) {
	t, err := a.Token(db, id)
	if err != nil {
		return "", err
	}
	conf, err := a.Config(db)
	if err != nil {
		return "", err
	}
	return conf.BaseURI + "/" + t.MetaID, nil
}
