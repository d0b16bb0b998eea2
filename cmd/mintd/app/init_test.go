package app

import (
	"path/filepath"
	"testing"

	"github.com/mintbase/weave/app"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/weavetest"
	"github.com/mintbase/weave/x/mint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestInitCmd(t *testing.T) {
	home := t.TempDir()
	conf := Config{Genesis: filepath.Join(home, "genesis.json")}
	owner := weavetest.NewCondition().Address()
	minter := weavetest.NewCondition().Address()

	args := []string{
		"-chain-id", "mint-test",
		"-owner", owner.String(),
		"-mint-id", "testmint",
		"-base-uri", "https://arweave.net",
		"-minters", minter.String() + ", ",
	}
	require.NoError(t, InitCmd(conf, log.NewNopLogger(), args))

	gen, err := app.LoadGenesis(conf.Genesis)
	require.NoError(t, err)
	assert.Equal(t, "mint-test", gen.ChainID)

	base, err := Application(Name, Stack(nil), TxDecoder, "")
	require.NoError(t, err)
	base.WithInit(app.ChainInitializers(&mint.Initializer{}))
	require.NoError(t, Ensure(base, conf.Genesis))
	assert.Equal(t, "mint-test", base.GetChainID())

	res, err := Query(base, "/mint", nil)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, owner, res[0].Value.(mint.Configuration).Owner)

	// a second init must not overwrite the genesis
	err = InitCmd(conf, log.NewNopLogger(), args)
	assert.True(t, errors.ErrDuplicate.Is(err), "got %v", err)
}

func TestInitCmdInvalidOwner(t *testing.T) {
	conf := Config{Genesis: filepath.Join(t.TempDir(), "genesis.json")}
	err := InitCmd(conf, log.NewNopLogger(), []string{"-owner", "zz", "-mint-id", "testmint", "-base-uri", "x"})
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)
}
