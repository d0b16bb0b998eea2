package app

import (
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/app"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/x/mint"
	"github.com/tendermint/tendermint/libs/log"
)

// GenesisOptions describe the mint created when the chain starts.
type GenesisOptions struct {
	ChainID string
	Mint    mint.Configuration
	Minters []weave.Address
}

// NewGenesis builds the genesis document for the given options.
func NewGenesis(o GenesisOptions) (app.Genesis, error) {
	if !weave.IsValidChainID(o.ChainID) {
		return app.Genesis{}, errors.Wrapf(errors.ErrInput, "invalid chain id %q", o.ChainID)
	}
	if err := o.Mint.Validate(); err != nil {
		return app.Genesis{}, errors.Wrap(err, "mint configuration")
	}
	for i, m := range o.Minters {
		if err := m.Validate(); err != nil {
			return app.Genesis{}, errors.Wrapf(err, "minter #%d", i)
		}
	}

	conf, err := json.Marshal(map[string]interface{}{"mint": o.Mint})
	if err != nil {
		return app.Genesis{}, errors.Wrapf(errors.ErrInput, "serialize configuration: %s", err)
	}
	minters := o.Minters
	if minters == nil {
		minters = []weave.Address{}
	}
	state, err := json.Marshal(map[string]interface{}{"minters": minters})
	if err != nil {
		return app.Genesis{}, errors.Wrapf(errors.ErrInput, "serialize minters: %s", err)
	}
	return app.Genesis{
		ChainID: o.ChainID,
		AppState: weave.Options{
			"conf": conf,
			"mint": state,
		},
	}, nil
}

// InitCmd writes a genesis file describing a new mint. It refuses to
// overwrite an existing file.
func InitCmd(conf Config, logger log.Logger, args []string) error {
	var (
		chainID, owner, mintID, baseURI, minters string
		explicit                                 bool
	)
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.StringVar(&chainID, "chain-id", "mint-local", "chain id of the new mint")
	fs.StringVar(&owner, "owner", "", "address of the mint owner")
	fs.StringVar(&mintID, "mint-id", "", "unique name of the mint")
	fs.StringVar(&baseURI, "base-uri", "", "prefix of every token metadata uri")
	fs.StringVar(&minters, "minters", "", "comma separated list of minter addresses")
	fs.BoolVar(&explicit, "explicit-owner-minting", false, "require the owner to hold the minter role")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	ownerAddr, err := weave.ParseAddress(owner)
	if err != nil {
		return errors.Wrap(err, "owner")
	}
	opts := GenesisOptions{
		ChainID: chainID,
		Mint: mint.Configuration{
			Owner:                ownerAddr,
			MintID:               mintID,
			BaseURI:              baseURI,
			ExplicitOwnerMinting: explicit,
		},
	}
	for _, raw := range strings.Split(minters, ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		addr, err := weave.ParseAddress(raw)
		if err != nil {
			return errors.Wrapf(err, "minter %q", raw)
		}
		opts.Minters = append(opts.Minters, addr)
	}

	gen, err := NewGenesis(opts)
	if err != nil {
		return err
	}
	return WriteGenesis(conf.Genesis, gen, logger)
}

// WriteGenesis stores gen as JSON under path.
func WriteGenesis(path string, gen app.Genesis, logger log.Logger) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "genesis file %s already exists", path)
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "serialize genesis: %s", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "write genesis: %s", err)
	}
	logger.Info("Generated genesis file", "path", path, "chain_id", gen.ChainID)
	return nil
}
