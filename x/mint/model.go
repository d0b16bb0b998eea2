package mint

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/orm"
	"github.com/mintbase/weave/x/royalty"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

const (
	maxMetaIDLength  = 256
	maxSymbolLength  = 16
	maxBaseURILength = 512
)

var isMintID = regexp.MustCompile(`^[a-z0-9_\-.]{2,64}$`).MatchString

// Token is a single minted copy.
type Token struct {
	// Minter is the account that created this token.
	Minter weave.Address `json:"minter"`
	Owner  weave.Address `json:"owner"`
	// TokenID is unique within the mint and never reused.
	TokenID uint64 `json:"token_id"`
	// MetaID points to the token content on the storage used by the
	// mint. It is not required to be unique.
	MetaID string `json:"meta_id"`
	// Copies is the number of tokens created by the same mint call. It
	// does not change when any of them is burned.
	Copies uint64 `json:"copies"`
	// Royalty is set once when the token is minted.
	Royalty *royalty.Royalty `json:"royalty,omitempty"`
}

var _ orm.Model = (*Token)(nil)

// Validate ensures the token is valid
func (t *Token) Validate() error {
	if err := t.Minter.Validate(); err != nil {
		return errors.Wrap(err, "minter")
	}
	if err := t.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := validateMetaID(t.MetaID); err != nil {
		return err
	}
	if t.Copies == 0 {
		return errors.Wrap(ErrInvalidQuantity, "copies")
	}
	if t.Royalty != nil {
		if err := t.Royalty.Validate(); err != nil {
			return errors.Wrap(err, "royalty")
		}
	}
	return nil
}

// Copy returns a deep copy of the token.
func (t *Token) Copy() *Token {
	return &Token{
		Minter:  t.Minter.Clone(),
		Owner:   t.Owner.Clone(),
		TokenID: t.TokenID,
		MetaID:  t.MetaID,
		Copies:  t.Copies,
		Royalty: t.Royalty.Copy(),
	}
}

func (t *Token) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *Token) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

func validateMetaID(id string) error {
	switch {
	case id == "":
		return errors.Wrap(errors.ErrEmpty, "meta id")
	case len(id) > maxMetaIDLength:
		return errors.Wrapf(errors.ErrInput, "meta id longer than %d", maxMetaIDLength)
	}
	return nil
}

// TokenKey returns the primary key of a token.
func TokenKey(id uint64) []byte {
	return orm.EncodeSequence(int64(id))
}

func idxOwner(m orm.Model) ([]byte, error) {
	t, ok := m.(*Token)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return t.Owner, nil
}

func idxMinter(m orm.Model) ([]byte, error) {
	t, ok := m.(*Token)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return t.Minter, nil
}

// NewTokenBucket returns the bucket holding all tokens of the mint,
// indexed by owner and minter.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("token", &Token{},
		orm.WithIndex("owner", idxOwner),
		orm.WithIndex("minter", idxMinter),
	)
}

// Configuration describes the mint and holds its authority state.
type Configuration struct {
	Owner  weave.Address `json:"owner"`
	MintID string        `json:"mint_id"`
	// Marketplace receives listings. It may be unset until the owner
	// configures it.
	Marketplace weave.Address `json:"marketplace,omitempty"`
	// Icon is the base64 encoded mint logo.
	Icon    string `json:"icon,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	BaseURI string `json:"base_uri"`
	// ExplicitOwnerMinting requires the owner to be granted the minter
	// role like any other account.
	ExplicitOwnerMinting bool `json:"explicit_owner_minting,omitempty"`
}

const configPkg = "mint"

// Validate ensures the configuration is valid
func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if !isMintID(c.MintID) {
		errs = errors.AppendField(errs, "MintID", errors.Wrapf(errors.ErrInput, "invalid mint id %q", c.MintID))
	}
	if c.Marketplace != nil {
		errs = errors.AppendField(errs, "Marketplace", c.Marketplace.Validate())
	}
	errs = errors.AppendField(errs, "Icon", validateIcon(c.Icon))
	errs = errors.AppendField(errs, "Symbol", validateSymbol(c.Symbol))
	errs = errors.AppendField(errs, "BaseURI", validateBaseURI(c.BaseURI))
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

func validateIcon(icon string) error {
	if icon == "" {
		return nil
	}
	if _, err := base64.StdEncoding.DecodeString(icon); err != nil {
		return errors.Wrapf(errors.ErrInput, "icon is not base64: %s", err)
	}
	return nil
}

func validateSymbol(symbol string) error {
	if len(symbol) > maxSymbolLength {
		return errors.Wrapf(errors.ErrInput, "symbol longer than %d", maxSymbolLength)
	}
	return nil
}

func validateBaseURI(uri string) error {
	switch {
	case uri == "":
		return errors.Wrap(errors.ErrEmpty, "base uri")
	case len(uri) > maxBaseURILength:
		return errors.Wrapf(errors.ErrInput, "base uri longer than %d", maxBaseURILength)
	}
	return nil
}

// UniqueID identifies a token across all mints.
type UniqueID struct {
	TokenID uint64
	MintID  string
}

// String returns the "<token id>:<mint id>" form.
func (u UniqueID) String() string {
	return fmt.Sprintf("%d:%s", u.TokenID, u.MintID)
}

// ParseUniqueID reverses UniqueID.String.
func ParseUniqueID(s string) (UniqueID, error) {
	chunks := strings.SplitN(s, ":", 2)
	if len(chunks) != 2 || !isMintID(chunks[1]) {
		return UniqueID{}, errors.Wrapf(errors.ErrInput, "unique id %q", s)
	}
	id, err := strconv.ParseUint(chunks[0], 10, 64)
	if err != nil {
		return UniqueID{}, errors.Wrapf(errors.ErrInput, "unique id %q", s)
	}
	return UniqueID{TokenID: id, MintID: chunks[1]}, nil
}
