package weave

import (
	"encoding/json"
	"testing"

	"github.com/mintbase/weave/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractionJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Fraction
		wantErr bool
	}{
		"integer":                    {raw: `"4"`, want: Fraction{Numerator: 4, Denominator: 1}},
		"zero":                       {raw: `"0"`, want: Fraction{Denominator: 1}},
		"zero over any":              {raw: `"0/123"`, want: Fraction{Denominator: 123}},
		"royalty share":              {raw: `"1/4"`, want: Fraction{Numerator: 1, Denominator: 4}},
		"spaces are ignored":         {raw: `"\t 3 / \t 2 "`, want: Fraction{Numerator: 3, Denominator: 2}},
		"object":                     {raw: `{"numerator": 1, "denominator": 2}`, want: Fraction{Numerator: 1, Denominator: 2}},
		"object without numerator":   {raw: `{"denominator": 2}`, want: Fraction{Denominator: 2}},
		"object without denominator": {raw: `{"numerator": 2}`, want: Fraction{Numerator: 2}},
		"two separators":             {raw: `"1/2/3"`, wantErr: true},
		"decimal denominator":        {raw: `"1/3.3"`, wantErr: true},
		"negative":                   {raw: `"-1"`, wantErr: true},
		"not a number":               {raw: `"half"`, wantErr: true},
		"bare number":                {raw: `12345`, wantErr: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Fraction
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	raw, err := json.Marshal(Fraction{Numerator: 4, Denominator: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"numerator":4,"denominator":5}`, string(raw))
}

func TestNewFraction(t *testing.T) {
	if _, err := NewFraction(1, 0); !errors.ErrFraction.Is(err) {
		t.Fatalf("want fraction error, got %+v", err)
	}
	f, err := NewFraction(3, 4)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if f.Numerator != 3 || f.Denominator != 4 {
		t.Fatalf("unexpected fraction: %v", f)
	}
}

func TestFractionAdd(t *testing.T) {
	cases := map[string]struct {
		a, b    Fraction
		want    Fraction
		wantErr *errors.Error
	}{
		"halves": {
			a:    Fraction{Numerator: 1, Denominator: 2},
			b:    Fraction{Numerator: 1, Denominator: 2},
			want: Fraction{Numerator: 1, Denominator: 1},
		},
		"different denominators": {
			a:    Fraction{Numerator: 1, Denominator: 3},
			b:    Fraction{Numerator: 1, Denominator: 6},
			want: Fraction{Numerator: 1, Denominator: 2},
		},
		"zero denominator": {
			a:       Fraction{Numerator: 1, Denominator: 0},
			b:       Fraction{Numerator: 1, Denominator: 6},
			wantErr: errors.ErrFraction,
		},
		"overflow": {
			a:       Fraction{Numerator: 1, Denominator: 4294967291},
			b:       Fraction{Numerator: 1, Denominator: 4294967279},
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil && got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFractionIsOne(t *testing.T) {
	if !(Fraction{Numerator: 7, Denominator: 7}).IsOne() {
		t.Fatal("7/7 must be one")
	}
	if (Fraction{Numerator: 0, Denominator: 0}).IsOne() {
		t.Fatal("zero value must not be one")
	}
	if (Fraction{Numerator: 6, Denominator: 7}).IsOne() {
		t.Fatal("6/7 must not be one")
	}
}

func TestFractionCompare(t *testing.T) {
	half := Fraction{Numerator: 1, Denominator: 2}
	cases := map[string]struct {
		a, b Fraction
		want int
	}{
		"equal after normalizing": {a: half, b: Fraction{Numerator: 2, Denominator: 4}, want: 0},
		"greater":                 {a: Fraction{Numerator: 3, Denominator: 5}, b: half, want: 1},
		"smaller":                 {a: Fraction{Numerator: 3, Denominator: 5}, b: Fraction{Numerator: 3, Denominator: 4}, want: -1},
		"zero numerator":          {a: Fraction{Denominator: 2}, b: half, want: -1},
		"zero value":              {a: Fraction{}, b: half, want: -1},
		"other is zero value":     {a: half, b: Fraction{}, want: 1},
		"both zero":               {a: Fraction{Denominator: 123}, b: Fraction{}, want: 0},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Compare(tc.b), "%v compare %v", tc.a, tc.b)
		})
	}
}
