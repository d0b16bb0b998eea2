package weave

import (
	"encoding/json"
)

// Handler is a core engine that can process a few specific messages
// This could represent "mint a token", or "transfer a token"
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like logging, or savepoints, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(m Msg, h Handler)
}

// CheckResult captures any non-error check results.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// GasAllocated is the cost of executing this call
	GasAllocated int64
}

// DeliverResult captures any non-error deliver results.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// GasUsed is the cost of executing this call
	GasUsed int64
	// Events are the key/value attributes describing what happened
	Events []Event
}

// Event is a single key/value pair describing a state change.
type Event struct {
	Key   string
	Value string
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(opts Options, kv KVStore) error
}

// GenesisInitializer is a list of Initializer implementations that are
// called in sequence.
type GenesisInitializer []Initializer

// FromGenesis will pass the options to all initializers.
func (g GenesisInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, initializer := range g {
		if err := initializer.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
