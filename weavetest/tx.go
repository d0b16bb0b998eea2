package weavetest

import "github.com/mintbase/weave"

// Tx carries a single message. Err, when set, is returned by GetMsg.
type Tx struct {
	Msg weave.Msg
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	return nil, nil
}

func (tx *Tx) Unmarshal([]byte) error {
	return nil
}

// Msg routes to RoutePath. Marshal returns Serialized and Validate
// returns ValidErr. Err is returned by the encoding methods.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
	ValidErr   error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

func (m *Msg) Validate() error {
	return m.ValidErr
}
