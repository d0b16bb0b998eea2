package utils

import "github.com/mintbase/weave"

// ActionKey is the event key under which ActionTagger records the path
// of every delivered message.
const ActionKey = "action"

// ActionTagger appends an {action, <message path>} event to every
// successful delivery, so that clients can filter calls by kind, for
// example all mint/transfer calls. Checks are not tagged.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	// A transaction without a message is rejected before running the
	// handler.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Events = append(res.Events, weave.Event{Key: ActionKey, Value: msg.Path()})
	return res, nil
}
