package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed
// to perform queries and to initialize state from the genesis.
//
// Calls are grouped into blocks. Every Commit persists the delivered
// state as a new version and opens the next block.
type StoreApp struct {
	logger log.Logger

	// name is reported by Info
	name string

	// Database state (committed, check, deliver....)
	store *CommitStore

	// Code to initialize from a genesis file
	initializer weave.Initializer

	// How to handle queries
	queryRouter weave.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext weave.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height), reset on Commit
	blockContext weave.Context
}

// NewStoreApp initializes this app into a ready state with some defaults
//
// panics if unable to properly load the state from the given store
func NewStoreApp(name string, store weave.CommitKVStore,
	queryRouter weave.QueryRouter, baseContext weave.Context) *StoreApp {
	s := &StoreApp{
		name: name,
		// note: panics if trouble initializing from store
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	// load the chainID from the db
	s.chainID = mustLoadChainID(s.DeliverStore())
	if s.chainID != "" {
		s.baseContext = weave.WithChainID(s.baseContext, s.chainID)
	}

	s.resetBlock()
	return s
}

// resetBlock prepares the context for the block following the last
// committed version.
func (s *StoreApp) resetBlock() {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = weave.WithHeight(s.baseContext, info.Version+1)
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// parseAppState is called from InitChain, the first time the chain
// starts, and not on restarts.
func (s *StoreApp) parseAppState(data []byte, chainID string, init weave.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "appState previously loaded for chain: %s", s.chainID)
	}

	if len(data) == 0 {
		return errors.Wrap(errors.ErrState, "app_state not set in genesis.json, please initialize application before launching")
	}

	var appState weave.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}

	if err := s.storeChainID(chainID); err != nil {
		return err
	}

	if init == nil {
		return nil
	}
	return init.FromGenesis(appState, s.DeliverStore())
}

// store chainID and update context
func (s *StoreApp) storeChainID(chainID string) error {
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	// and update the context
	s.baseContext = weave.WithChainID(s.baseContext, s.chainID)
	s.resetBlock()
	return nil
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = weave.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the block context for public use
func (s *StoreApp) BlockContext() weave.Context {
	return s.blockContext
}

// DeliverStore returns the current deliver cache for methods
func (s *StoreApp) DeliverStore() weave.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the current check cache for methods
func (s *StoreApp) CheckStore() weave.CacheableKVStore {
	return s.store.CheckStore()
}

// Info returns the last committed version and its hash.
func (s *StoreApp) Info() (weave.CommitID, error) {
	info, err := s.store.CommitInfo()
	if err != nil {
		return info, err
	}
	s.logger.Info("Info synced",
		"name", s.name,
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))
	return info, nil
}

// InitChain stores the chain id and runs the initializer against the
// given app state. It can only succeed once for a given store.
func (s *StoreApp) InitChain(chainID string, appState []byte) error {
	return s.parseAppState(appState, chainID, s.initializer)
}

// InitChainWithGenesis is InitChain for an already parsed genesis.
func (s *StoreApp) InitChainWithGenesis(gen Genesis) error {
	raw, err := json.Marshal(gen.AppState)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot serialize app state: %s", err)
	}
	return s.InitChain(gen.ChainID, raw)
}

/*
Query gets data from the committed app store.

Path may be "/", "/<bucket>", or "/<bucket>/<index>".
It may be followed by "?prefix" to make a prefix query.
*/
func (s *StoreApp) Query(path string, data []byte) ([]weave.Model, error) {
	path, mod := splitPath(path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path %q, known paths: %s",
			path, strings.Join(s.queryRouter.Paths(), " "))
	}

	db := s.store.committed.CacheWrap()
	defer db.Discard()
	return qh.Query(db, mod, data)
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

// Commit flushes the delivered state to disk and opens the next
// block.
func (s *StoreApp) Commit() (weave.CommitID, error) {
	res, err := s.store.Commit()
	if err != nil {
		return res, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.logger.Info("Commit synced",
		"height", res.Version,
		"hash", fmt.Sprintf("%X", res.Hash))
	s.resetBlock()
	return res, nil
}
