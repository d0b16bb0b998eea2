/*
Package natsmarket publishes marketplace listings on NATS subjects.

Listings are sent as JSON with a fire and forget publish. The NATS
client buffers outgoing messages, so a call never waits for the
marketplace.
*/
package natsmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/market"
	"github.com/nats-io/nats.go"
	"github.com/tendermint/tendermint/libs/log"
)

// Config holds the configuration for the NATS connection
type Config struct {
	URL            string        `mapstructure:"url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// DefaultSubjectPrefix is used when the configuration does not set one.
const DefaultSubjectPrefix = "market"

// Conn is the subset of *nats.Conn used by the publisher.
type Conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Publisher implements market.Notifier on top of a NATS connection.
type Publisher struct {
	nc     Conn
	prefix string
	logger log.Logger
}

var _ market.Notifier = (*Publisher)(nil)

// Connect dials the NATS server and returns a publisher using it.
func Connect(cfg Config, logger log.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error("Disconnected from NATS", "err", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "cannot connect to NATS: %s", err)
	}
	return NewPublisher(nc, cfg.SubjectPrefix, logger), nil
}

// NewPublisher returns a publisher using an already open connection.
func NewPublisher(nc Conn, prefix string, logger log.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{nc: nc, prefix: prefix, logger: logger}
}

// ListToken publishes a single listing
func (p *Publisher) ListToken(ctx context.Context, l market.Listing) error {
	if err := l.Validate(); err != nil {
		return errors.Wrap(err, "listing")
	}
	return p.publish(p.subject("list", l.MintID), l)
}

// BatchListToken publishes a batch listing
func (p *Publisher) BatchListToken(ctx context.Context, l market.BatchListing) error {
	if err := l.Validate(); err != nil {
		return errors.Wrap(err, "batch listing")
	}
	return p.publish(p.subject("batch_list", l.MintID), l)
}

func (p *Publisher) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot marshal listing: %s", err)
	}
	p.logger.Debug("Publishing listing", "subject", subject)
	if err := p.nc.Publish(subject, data); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot publish listing: %s", err)
	}
	return nil
}

// subject constructs the NATS subject for a listing
// Format: {prefix}.{kind}.{mint}
// e.g., market.list.mymint, market.batch_list.store~mintbase1~near
//
// A mint id is a single subject token, its dots are written as "~",
// which mint ids never contain.
func (p *Publisher) subject(kind, mintID string) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, kind, strings.ReplaceAll(mintID, ".", "~"))
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	p.nc.Close()
}
