/*
Package app links together all the various components
to construct the mintd application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/app"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/market"
	"github.com/mintbase/weave/store/iavl"
	"github.com/mintbase/weave/x"
	"github.com/mintbase/weave/x/auth"
	"github.com/mintbase/weave/x/mint"
	"github.com/mintbase/weave/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by the store info.
const Name = "mintd"

// Authenticator returns the caller attribution used by all handlers.
func Authenticator() x.Authenticator {
	return auth.Authenticate{}
}

// Chain returns a chain of decorators, to handle caller attribution,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad calls don't affect state
		utils.NewSavepoint().OnCheck(),
		auth.NewDecorator(),
		// on DeliverTx, a failing call leaves no partial writes
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to all mint handlers. Listing
// messages are only routed when notifier is not nil.
func Router(authFn x.Authenticator, notifier market.Notifier) *app.Router {
	r := app.NewRouter()
	mint.RegisterRoutes(r, authFn, notifier)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/tokens" and "/mint"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		mint.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(notifier market.Notifier) weave.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, notifier))
}

// Application constructs a basic application with the given arguments.
// If you are not sure what to use for the Handler, just use Stack().
func Application(name string, h weave.Handler, tx weave.TxDecoder, dbPath string) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h), nil
}

// GenerateApp builds the full application described by the given
// configuration, together with the notifier it publishes listings
// through. The caller must close the notifier, if any.
func GenerateApp(conf Config, logger log.Logger) (app.BaseApp, Closer, error) {
	notifier, closer, err := Notifier(conf, logger)
	if err != nil {
		return app.BaseApp{}, nil, err
	}
	application, err := Application(Name, Stack(notifier), TxDecoder, conf.DBPath)
	if err != nil {
		closer()
		return app.BaseApp{}, nil, err
	}
	application.WithInit(app.ChainInitializers(
		&mint.Initializer{},
	))
	application.WithLogger(logger)
	return application, closer, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	kv, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return kv, nil
}
