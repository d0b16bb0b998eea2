package weave

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mintbase/weave/errors"
)

// Fraction is a ratio of two unsigned integers. It is used wherever a
// rational value must be stored without loss of precision, for example to
// describe a royalty share.
//
// Fractions are always compared by cross multiplication. Never convert a
// fraction to a float in order to compare it.
type Fraction struct {
	Numerator   uint32 `json:"numerator"`
	Denominator uint32 `json:"denominator"`
}

// NewFraction returns a fraction of given numerator and denominator. It fails
// when the denominator is zero.
func NewFraction(numerator, denominator uint32) (Fraction, error) {
	f := Fraction{Numerator: numerator, Denominator: denominator}
	if err := f.Validate(); err != nil {
		return Fraction{}, err
	}
	return f, nil
}

// String returns a human readable fraction representation.
func (f Fraction) String() string {
	if f.Numerator == 0 {
		return "0"
	}
	if f.Denominator == 1 {
		return fmt.Sprint(f.Numerator)
	}
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Numerator   uint32 `json:"numerator"`
		Denominator uint32 `json:"denominator"`
	}{
		Numerator:   f.Numerator,
		Denominator: f.Denominator,
	})
}

func (f *Fraction) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format.
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		frac, err := ParseFractionString(human)
		if err != nil {
			return errors.Wrap(err, "fraction string")
		}
		*f = frac
		return nil
	}

	var frac struct {
		Numerator   uint32
		Denominator uint32
	}
	if err := json.Unmarshal(raw, &frac); err != nil {
		return err
	}
	f.Numerator = frac.Numerator
	f.Denominator = frac.Denominator
	return nil
}

// Validate returns an error if this fraction represents an invalid value.
func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errors.Wrap(errors.ErrFraction, "zero denominator")
	}
	return nil
}

// Normalize returns a new fraction instance that has its numerator and
// denominator reduced to the smallest possible representation.
func (f Fraction) Normalize() Fraction {
	div := uintGcd(f.Numerator, f.Denominator)
	if div == 0 {
		return f
	}
	return Fraction{
		Numerator:   f.Numerator / div,
		Denominator: f.Denominator / div,
	}
}

// Compare returns an integer comparing two fractions. The result will be 0
// if a==b, -1 if a < b, and +1 if a > b.
// A fraction with a zero numerator is equal to zero regardless of its
// denominator.
func (f Fraction) Compare(b Fraction) int {
	switch {
	case f.Numerator == 0 && b.Numerator == 0:
		return 0
	case f.Numerator == 0:
		return -1
	case b.Numerator == 0:
		return 1
	}

	left := uint64(f.Numerator) * uint64(b.Denominator)
	right := uint64(b.Numerator) * uint64(f.Denominator)
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

// Equal returns true if both fractions represent the same value.
func (f Fraction) Equal(b Fraction) bool {
	return f.Compare(b) == 0
}

// IsZero returns true if this fraction represents zero.
func (f Fraction) IsZero() bool {
	return f.Numerator == 0
}

// IsOne returns true if this fraction represents the value of one.
func (f Fraction) IsOne() bool {
	return f.Denominator != 0 && f.Numerator == f.Denominator
}

// Add returns the sum of two fractions, normalized. An error is returned if
// the result cannot be represented using 32 bit numerator and denominator.
func (f Fraction) Add(b Fraction) (Fraction, error) {
	if err := f.Validate(); err != nil {
		return Fraction{}, err
	}
	if err := b.Validate(); err != nil {
		return Fraction{}, err
	}
	num := uint64(f.Numerator)*uint64(b.Denominator) + uint64(b.Numerator)*uint64(f.Denominator)
	den := uint64(f.Denominator) * uint64(b.Denominator)
	div := gcd64(num, den)
	if div != 0 {
		num, den = num/div, den/div
	}
	if num > math.MaxUint32 || den > math.MaxUint32 {
		return Fraction{}, errors.Wrap(errors.ErrOverflow, "fraction sum")
	}
	return Fraction{Numerator: uint32(num), Denominator: uint32(den)}, nil
}

func uintGcd(a, b uint32) uint32 {
	for b != 0 {
		t := b
		b = a % b
		a = t
	}
	return a
}

func gcd64(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ParseFractionString returns a fraction value that is represented by given
// string. This function fails if given string does not represent a fraction
// value.
// This fuction does not fail if representation format is correct but the value
// is invalid (i.e. value of "2/0").
func ParseFractionString(raw string) (Fraction, error) {
	chunks := strings.SplitN(raw, "/", 2)
	n, err := strconv.ParseUint(strings.TrimSpace(chunks[0]), 10, 32)
	if err != nil {
		return Fraction{}, errors.Wrap(errors.ErrInput, "numerator")
	}
	if len(chunks) == 1 {
		return Fraction{Numerator: uint32(n), Denominator: 1}, nil
	}
	d, err := strconv.ParseUint(strings.TrimSpace(chunks[1]), 10, 32)
	if err != nil {
		return Fraction{}, errors.Wrap(errors.ErrInput, "denominator")
	}
	return Fraction{Numerator: uint32(n), Denominator: uint32(d)}, nil
}
