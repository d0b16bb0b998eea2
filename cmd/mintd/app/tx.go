package app

import (
	"encoding/json"
	"reflect"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/x/auth"
	"github.com/mintbase/weave/x/mint"
)

// Tx is the envelope of a single call. It names the message by its path
// and carries the identity of the account issuing it.
type Tx struct {
	Caller weave.Condition `json:"caller,omitempty"`
	Path   string          `json:"path"`
	Msg    json.RawMessage `json:"msg"`
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ auth.CallerTx = (*Tx)(nil)

// messages maps a message path to the type of the message.
var messages = map[string]reflect.Type{}

func init() {
	for _, m := range mint.Messages() {
		messages[m.Path()] = reflect.TypeOf(m).Elem()
	}
}

// NewTx wraps msg into a transaction issued by caller.
func NewTx(caller weave.Condition, msg weave.Msg) (*Tx, error) {
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal msg")
	}
	return &Tx{Caller: caller, Path: msg.Path(), Msg: raw}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg decodes the message registered under the transaction path.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	typ, ok := messages[tx.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown message path %q", tx.Path)
	}
	msg := reflect.New(typ).Interface().(weave.Msg)
	if err := msg.Unmarshal(tx.Msg); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode %s: %s", tx.Path, err)
	}
	return msg, nil
}

// GetCaller returns the account issuing this transaction.
func (tx *Tx) GetCaller() weave.Condition {
	return tx.Caller
}

func (tx *Tx) Marshal() ([]byte, error) {
	return json.Marshal(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := json.Unmarshal(raw, tx); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode transaction: %s", err)
	}
	return nil
}
