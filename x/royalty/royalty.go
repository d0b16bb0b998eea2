package royalty

import (
	"bytes"
	"math"
	"sort"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/shopspring/decimal"
	amino "github.com/tendermint/go-amino"
)

// Precision is the denominator used when converting floating point
// input into fractions. Four decimal places are kept.
const Precision = 10000

var cdc = amino.NewCodec()

// Share is the part of the royalty pool paid to a single account.
type Share struct {
	Account  weave.Address  `json:"account"`
	Fraction weave.Fraction `json:"fraction"`
}

// Royalty is the split of sale proceeds among beneficiaries.
//
// SplitBetween holds at most one share per account, ordered by account
// address, so that the serialized form is deterministic.
type Royalty struct {
	SplitBetween []Share        `json:"split_between"`
	Percentage   weave.Fraction `json:"percentage"`
}

// FromFloatMap builds a royalty from share values keyed by account
// address. Every value, as well as the overall percentage, must be
// within [0, 1]. Values are scaled by Precision and rounded half away
// from zero. The rounded shares must sum to exactly Precision.
func FromFloatMap(shares map[string]float32, percentage float32) (*Royalty, error) {
	if len(shares) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "royalty shares")
	}
	pct, err := toFraction(percentage)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPercentage, "%v", percentage)
	}

	r := Royalty{Percentage: pct}
	var total uint64
	for enc, value := range shares {
		addr, err := weave.ParseAddress(enc)
		if err != nil {
			return nil, errors.Wrapf(err, "share account %q", enc)
		}
		frac, err := toFraction(value)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidShare, "%s: %v", addr, value)
		}
		total += uint64(frac.Numerator)
		r.SplitBetween = append(r.SplitBetween, Share{Account: addr, Fraction: frac})
	}
	if total != Precision {
		return nil, errors.Wrapf(ErrRoyaltySumMismatch, "shares sum to %d/%d", total, Precision)
	}

	sort.Slice(r.SplitBetween, func(i, j int) bool {
		return bytes.Compare(r.SplitBetween[i].Account, r.SplitBetween[j].Account) < 0
	})
	for i := range r.SplitBetween {
		r.SplitBetween[i].Fraction = r.SplitBetween[i].Fraction.Normalize()
	}
	r.Percentage = r.Percentage.Normalize()

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// toFraction converts a value in [0, 1] into a fraction with Precision
// as the denominator.
func toFraction(value float32) (weave.Fraction, error) {
	if math.IsNaN(float64(value)) || value < 0 || value > 1 {
		return weave.Fraction{}, errors.ErrInput
	}
	scaled := decimal.NewFromFloat32(value).Mul(decimal.New(Precision, 0)).Round(0)
	return weave.Fraction{
		Numerator:   uint32(scaled.IntPart()),
		Denominator: Precision,
	}, nil
}

// Validate returns an error if the royalty breaks any of its
// invariants.
func (r *Royalty) Validate() error {
	if r == nil {
		return errors.Wrap(errors.ErrEmpty, "royalty")
	}
	if err := r.Percentage.Validate(); err != nil {
		return errors.Wrap(ErrInvalidPercentage, err.Error())
	}
	if r.Percentage.Numerator > r.Percentage.Denominator {
		return errors.Wrapf(ErrInvalidPercentage, "%s exceeds one", r.Percentage)
	}
	if len(r.SplitBetween) == 0 {
		return errors.Wrap(errors.ErrEmpty, "royalty shares")
	}

	sum := weave.Fraction{Numerator: 0, Denominator: 1}
	for i, s := range r.SplitBetween {
		if err := s.Account.Validate(); err != nil {
			return errors.Wrapf(err, "share %d account", i)
		}
		if i > 0 && bytes.Compare(r.SplitBetween[i-1].Account, s.Account) >= 0 {
			return errors.Wrapf(ErrInvalidShare, "share %d not ordered or duplicated", i)
		}
		if err := s.Fraction.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidShare, "share %d: %s", i, err)
		}
		if s.Fraction.Numerator > s.Fraction.Denominator {
			return errors.Wrapf(ErrInvalidShare, "share %d exceeds one", i)
		}
		next, err := sum.Add(s.Fraction)
		if err != nil {
			return errors.Wrapf(ErrInvalidShare, "share %d: %s", i, err)
		}
		sum = next
	}
	if !sum.IsOne() {
		return errors.Wrapf(ErrRoyaltySumMismatch, "shares sum to %s", sum)
	}
	return nil
}

// Share returns the fraction of the pool paid to given account, or zero
// if the account is not a beneficiary.
func (r *Royalty) Share(account weave.Address) weave.Fraction {
	for _, s := range r.SplitBetween {
		if s.Account.Equals(account) {
			return s.Fraction
		}
	}
	return weave.Fraction{Numerator: 0, Denominator: 1}
}

// Copy returns a deep copy of the royalty.
func (r *Royalty) Copy() *Royalty {
	if r == nil {
		return nil
	}
	cpy := &Royalty{
		Percentage:   r.Percentage,
		SplitBetween: make([]Share, len(r.SplitBetween)),
	}
	for i, s := range r.SplitBetween {
		cpy.SplitBetween[i] = Share{Account: s.Account.Clone(), Fraction: s.Fraction}
	}
	return cpy
}

// Equal returns true if both royalties describe the same split.
func (r *Royalty) Equal(o *Royalty) bool {
	if r == nil || o == nil {
		return r == o
	}
	if !r.Percentage.Equal(o.Percentage) || len(r.SplitBetween) != len(o.SplitBetween) {
		return false
	}
	for i := range r.SplitBetween {
		if !r.SplitBetween[i].Account.Equals(o.SplitBetween[i].Account) {
			return false
		}
		if !r.SplitBetween[i].Fraction.Equal(o.SplitBetween[i].Fraction) {
			return false
		}
	}
	return true
}

func (r *Royalty) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

func (r *Royalty) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, r)
}

// Payout is the amount owed to a single beneficiary.
type Payout struct {
	Account weave.Address   `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// Distribute splits the royalty pool of a sale at given price. The pool
// is price times percentage, rounded down to a whole base unit. Each
// beneficiary receives its share of the pool rounded down. The part of
// the pool left by rounding is returned as dust.
func (r *Royalty) Distribute(price decimal.Decimal) ([]Payout, decimal.Decimal, error) {
	if price.IsNegative() {
		return nil, decimal.Zero, errors.Wrapf(errors.ErrAmount, "negative price %s", price)
	}
	if !price.Equal(price.Truncate(0)) {
		return nil, decimal.Zero, errors.Wrapf(errors.ErrAmount, "price %s is not in base units", price)
	}
	pool := portion(price, r.Percentage)

	payouts := make([]Payout, len(r.SplitBetween))
	paid := decimal.Zero
	for i, s := range r.SplitBetween {
		amount := portion(pool, s.Fraction)
		payouts[i] = Payout{Account: s.Account, Amount: amount}
		paid = paid.Add(amount)
	}
	return payouts, pool.Sub(paid), nil
}

// portion returns value times f rounded down to an integer.
func portion(value decimal.Decimal, f weave.Fraction) decimal.Decimal {
	num := decimal.New(int64(f.Numerator), 0)
	den := decimal.New(int64(f.Denominator), 0)
	return value.Mul(num).Div(den).Floor()
}
