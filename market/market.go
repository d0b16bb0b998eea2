/*
Package market describes the notifications a mint sends to the
marketplace it lists tokens on.

The marketplace is an external collaborator. A mint never waits for it
to act on a listing; it only hands the listing over through a Notifier.
*/
package market

import (
	"context"
	"sync"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/x/royalty"
	"github.com/shopspring/decimal"
)

// Notifier delivers listings to a marketplace.
type Notifier interface {
	ListToken(ctx context.Context, l Listing) error
	BatchListToken(ctx context.Context, l BatchListing) error
}

// Listing offers a single token for sale.
type Listing struct {
	Marketplace  weave.Address   `json:"marketplace"`
	MintID       string          `json:"mint_id"`
	TokenID      uint64          `json:"token_id"`
	UniqueID     string          `json:"unique_id"`
	Owner        weave.Address   `json:"owner"`
	Autotransfer bool            `json:"autotransfer"`
	AskingPrice  decimal.Decimal `json:"asking_price"`
	SplitOwners  []royalty.Share `json:"split_owners,omitempty"`
}

// Validate returns an error if the listing cannot be sent.
func (l Listing) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Marketplace", l.Marketplace.Validate())
	errs = errors.AppendField(errs, "Owner", l.Owner.Validate())
	if l.AskingPrice.IsNegative() {
		errs = errors.AppendField(errs, "AskingPrice", errors.ErrAmount)
	}
	return errs
}

// BatchListing offers several tokens for sale under the same terms.
type BatchListing struct {
	Marketplace  weave.Address   `json:"marketplace"`
	MintID       string          `json:"mint_id"`
	TokenIDs     []uint64        `json:"token_ids"`
	Owner        weave.Address   `json:"owner"`
	Autotransfer bool            `json:"autotransfer"`
	AskingPrice  decimal.Decimal `json:"asking_price"`
	SplitOwners  []royalty.Share `json:"split_owners,omitempty"`
	// PermissionsIntermediary, if set, is the account the marketplace
	// must use to act on the listed tokens.
	PermissionsIntermediary weave.Address `json:"permissions_intermediary,omitempty"`
}

// Validate returns an error if the listing cannot be sent.
func (l BatchListing) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Marketplace", l.Marketplace.Validate())
	errs = errors.AppendField(errs, "Owner", l.Owner.Validate())
	if len(l.TokenIDs) == 0 {
		errs = errors.AppendField(errs, "TokenIDs", errors.ErrEmpty)
	}
	if l.AskingPrice.IsNegative() {
		errs = errors.AppendField(errs, "AskingPrice", errors.ErrAmount)
	}
	if l.PermissionsIntermediary != nil {
		errs = errors.AppendField(errs, "PermissionsIntermediary", l.PermissionsIntermediary.Validate())
	}
	return errs
}

// Recorder is a Notifier that keeps every listing in memory.
type Recorder struct {
	mu      sync.Mutex
	single  []Listing
	batches []BatchListing
}

var _ Notifier = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ListToken(ctx context.Context, l Listing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.single = append(r.single, l)
	return nil
}

func (r *Recorder) BatchListToken(ctx context.Context, l BatchListing) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, l)
	return nil
}

// Listings returns all single listings received so far.
func (r *Recorder) Listings() []Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Listing(nil), r.single...)
}

// BatchListings returns all batch listings received so far.
func (r *Recorder) BatchListings() []BatchListing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]BatchListing(nil), r.batches...)
}
