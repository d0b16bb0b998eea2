package app

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/app"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/orm"
	"github.com/mintbase/weave/x/mint"
)

const maxTxSize = 4 << 20

// Result describes the outcome of a single call.
type Result struct {
	Line   int           `json:"line"`
	Height int64         `json:"height"`
	Path   string        `json:"path"`
	Data   []byte        `json:"data,omitempty"`
	Log    string        `json:"log,omitempty"`
	Events []weave.Event `json:"events,omitempty"`
	Error  string        `json:"error,omitempty"`
	Code   uint32        `json:"code,omitempty"`
}

// Ensure initializes the chain from the genesis file, unless the store
// was initialized before.
func Ensure(base app.BaseApp, genesisFile string) error {
	if base.GetChainID() != "" {
		return nil
	}
	gen, err := app.LoadGenesis(genesisFile)
	if err != nil {
		return err
	}
	if err := base.InitChainWithGenesis(gen); err != nil {
		return errors.Wrap(err, "init chain")
	}
	_, err = base.Commit()
	return err
}

// Execute delivers every call read from r, one JSON encoded Tx per
// line, and writes a Result for each of them to w. A failing call does
// not stop the execution. The state is committed every blockSize calls
// and after the last one.
func Execute(base app.BaseApp, r io.Reader, w io.Writer, blockSize int) error {
	var pending int
	err := eachTx(r, w, func(raw []byte) (Result, error) {
		res := deliver(base, raw)
		pending++
		if pending >= blockSize {
			pending = 0
			if _, err := base.Commit(); err != nil {
				return res, err
			}
		}
		return res, nil
	})
	if err != nil {
		return err
	}
	if pending > 0 {
		if _, err := base.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Check runs the check phase of every call read from r against the
// committed state, without delivering any of them.
func Check(base app.BaseApp, r io.Reader, w io.Writer) error {
	return eachTx(r, w, func(raw []byte) (Result, error) {
		res := newResult(base, raw)
		cres, err := base.CheckTx(raw)
		if err != nil {
			res.setError(err)
			return res, nil
		}
		res.Data = cres.Data
		res.Log = cres.Log
		return res, nil
	})
}

// eachTx calls fn for every non empty line of r that is not a comment
// and writes the returned result to w.
func eachTx(r io.Reader, w io.Writer, fn func(raw []byte) (Result, error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTxSize)
	enc := json.NewEncoder(w)

	var line int
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		res, err := fn([]byte(raw))
		res.Line = line
		if encErr := enc.Encode(res); encErr != nil {
			return errors.Wrapf(errors.ErrInput, "write result: %s", encErr)
		}
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(errors.ErrInput, "read line %d: %s", line+1, err)
	}
	return nil
}

func newResult(base app.BaseApp, raw []byte) Result {
	var res Result
	res.Height, _ = weave.GetHeight(base.BlockContext())
	if tx, err := TxDecoder(raw); err == nil {
		res.Path = weave.GetPath(tx)
	}
	return res
}

func deliver(base app.BaseApp, raw []byte) Result {
	res := newResult(base, raw)
	dres, err := base.DeliverTx(raw)
	if err != nil {
		res.setError(err)
		return res
	}
	res.Data = dres.Data
	res.Log = dres.Log
	res.Events = dres.Events
	return res
}

func (r *Result) setError(err error) {
	r.Error = err.Error()
	r.Code = errors.Code(err)
}

// QueryResult is a single model returned by Query.
type QueryResult struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Query runs a read only query against the committed state. Values of
// the mint paths are decoded, anything else is returned as hex.
func Query(base app.BaseApp, path string, data []byte) ([]QueryResult, error) {
	models, err := base.Query(path, data)
	if err != nil {
		return nil, err
	}
	out := make([]QueryResult, 0, len(models))
	for _, m := range models {
		v, err := decodeValue(path, m.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "key %X", m.Key)
		}
		out = append(out, QueryResult{Key: strings.ToUpper(hex.EncodeToString(m.Key)), Value: v})
	}
	return out, nil
}

func decodeValue(path string, raw []byte) (interface{}, error) {
	path, _ = splitQuery(path)
	switch path {
	case "/tokens/uri", "/tokens/unique_id":
		return string(raw), nil
	case "/tokens":
		var t mint.Token
		if err := t.Unmarshal(raw); err != nil {
			return nil, err
		}
		return t, nil
	case "/mint":
		var c mint.Configuration
		if err := c.Unmarshal(raw); err != nil {
			return nil, err
		}
		return c, nil
	case "/mint/counters", "/tokens/owner", "/tokens/minter":
		// counters and the token keys referenced by an index
		if len(raw) != 8 {
			return nil, errors.Wrapf(errors.ErrInput, "expected 8 bytes, got %d", len(raw))
		}
		return uint64(orm.DecodeSequence(raw)), nil
	case "/minters", "/permissions/token", "/permissions/account":
		return weave.Address(raw), nil
	default:
		return strings.ToUpper(hex.EncodeToString(raw)), nil
	}
}

func splitQuery(path string) (string, string) {
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		return chunks[0], chunks[1]
	}
	return path, ""
}
