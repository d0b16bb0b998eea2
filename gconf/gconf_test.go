package gconf

import (
	"encoding/json"
	"testing"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/store"
	"github.com/mintbase/weave/weavetest"
	"github.com/mintbase/weave/weavetest/assert"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

type myConfig struct {
	Number int64         `json:"number"`
	Text   string        `json:"text"`
	Addr   weave.Address `json:"addr"`
}

func (c *myConfig) Validate() error {
	if c.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	if c.Addr != nil {
		return c.Addr.Validate()
	}
	return nil
}

func (c *myConfig) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(c) }
func (c *myConfig) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }

func TestSaveLoad(t *testing.T) {
	addr := weavetest.RandomAddr(t)

	cases := map[string]struct {
		Conf        *myConfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &myConfig{Number: 852151421, Text: "foobar", Addr: addr},
		},
		"no address": {
			Conf: &myConfig{Text: "foobar"},
		},
		"invalid address cannot be saved": {
			Conf:        &myConfig{Text: "foo", Addr: weave.Address("too short")},
			WantSaveErr: errors.ErrInput,
		},
		"invalid configuration cannot be saved": {
			Conf:        &myConfig{Number: 1},
			WantSaveErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got myConfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got myConfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mypkg", &got))
}

func TestInitConfig(t *testing.T) {
	addr := weavetest.RandomAddr(t)
	genesis := `{"conf": {"mypkg": {"number": 7, "text": "hello", "addr": "` + addr.String() + `"}}}`

	var opts weave.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "mypkg", &myConfig{}))

	var got myConfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, myConfig{Number: 7, Text: "hello", Addr: addr}, got)

	err := InitConfig(db, opts, "otherpkg", &myConfig{})
	assert.IsErr(t, errors.ErrNotFound, err)
}
