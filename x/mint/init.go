package mint

import (
	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/gconf"
	"github.com/mintbase/weave/x/permission"
)

// Initializer fulfils the Initializer interface to load data from the genesis file
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis stores the mint configuration found under conf.mint and
// grants the minter role to all accounts listed under mint.minters.
func (*Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, configPkg, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var state struct {
		Minters []weave.Address `json:"minters"`
	}
	if err := opts.ReadOptions("mint", &state); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read mint state: %s", err)
	}
	perms := permission.NewSet()
	for i, m := range state.Minters {
		if err := perms.Grant(db, permission.MintScope, m); err != nil {
			return errors.Wrapf(err, "minter #%d", i)
		}
	}
	return nil
}
