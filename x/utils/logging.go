package utils

import (
	"time"

	"github.com/mintbase/weave"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging writes one log entry per call with the message path, the
// elapsed time and the outcome. Failures are logged as errors,
// successful deliveries as info and successful checks as debug.
type Logging struct{}

var _ weave.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)

	logger := callLogger(ctx, tx, start, err)
	if err != nil {
		logger.Error(err.Error())
	} else {
		logger.Debug(res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)

	logger := callLogger(ctx, tx, start, err)
	if err != nil {
		logger.Error(err.Error())
	} else {
		// Written even when res.Log is empty.
		logger.With("events", len(res.Events)).Info(res.Log)
	}
	return res, err
}

func callLogger(ctx weave.Context, tx weave.Tx, start time.Time, err error) log.Logger {
	logger := weave.GetLogger(ctx).With(
		"path", weave.GetPath(tx),
		"duration", time.Since(start),
	)
	if err != nil {
		logger = logger.With("err", err)
	}
	return logger
}
