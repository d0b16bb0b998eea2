package mint

import (
	"encoding/json"

	"github.com/mintbase/weave"
	"github.com/mintbase/weave/errors"
	"github.com/mintbase/weave/x/royalty"
	"github.com/shopspring/decimal"
)

const maxBatchSize = 200

// Messages returns an empty instance of every message handled by this
// package.
func Messages() []weave.Msg {
	return []weave.Msg{
		&SetMarketplaceMsg{},
		&GrantMinterMsg{},
		&RevokeMinterMsg{},
		&TransferMintOwnershipMsg{},
		&SetIconMsg{},
		&SetBaseURIMsg{},
		&SetSymbolMsg{},
		&TokenGrantAccessMsg{},
		&TokenRevokeAccessMsg{},
		&AccountGrantAccessMsg{},
		&AccountRevokeAccessMsg{},
		&MintTokenMsg{},
		&TransferMsg{},
		&BatchTransferMsg{},
		&BatchHeterogeneousTransferMsg{},
		&BatchTransferFromMsg{},
		&BurnTokenMsg{},
		&BatchBurnMsg{},
		&ListTokenMsg{},
		&BatchListTokenMsg{},
	}
}

func validateIDs(ids []uint64) error {
	switch n := len(ids); {
	case n == 0:
		return errors.ErrEmpty
	case n > maxBatchSize:
		return errors.Wrapf(errors.ErrInput, "more than %d items", maxBatchSize)
	}
	return nil
}

// SetMarketplaceMsg sets the account listings are sent to.
type SetMarketplaceMsg struct {
	Marketplace weave.Address `json:"marketplace"`
}

func (SetMarketplaceMsg) Path() string { return "mint/set_marketplace" }

func (m *SetMarketplaceMsg) Validate() error {
	return errors.AppendField(nil, "Marketplace", m.Marketplace.Validate())
}

func (m *SetMarketplaceMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *SetMarketplaceMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// GrantMinterMsg adds an account to the minter set.
type GrantMinterMsg struct {
	Account weave.Address `json:"account"`
}

func (GrantMinterMsg) Path() string { return "mint/grant_minter" }

func (m *GrantMinterMsg) Validate() error {
	return errors.AppendField(nil, "Account", m.Account.Validate())
}

func (m *GrantMinterMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *GrantMinterMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// RevokeMinterMsg removes an account from the minter set.
type RevokeMinterMsg struct {
	Account weave.Address `json:"account"`
}

func (RevokeMinterMsg) Path() string { return "mint/revoke_minter" }

func (m *RevokeMinterMsg) Validate() error {
	return errors.AppendField(nil, "Account", m.Account.Validate())
}

func (m *RevokeMinterMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *RevokeMinterMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// TransferMintOwnershipMsg hands the mint over to a new owner.
type TransferMintOwnershipMsg struct {
	NewOwner       weave.Address `json:"new_owner"`
	KeepOldMinters bool          `json:"keep_old_minters"`
}

func (TransferMintOwnershipMsg) Path() string { return "mint/transfer_ownership" }

func (m *TransferMintOwnershipMsg) Validate() error {
	return errors.AppendField(nil, "NewOwner", m.NewOwner.Validate())
}

func (m *TransferMintOwnershipMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *TransferMintOwnershipMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// SetIconMsg replaces the base64 encoded mint icon.
type SetIconMsg struct {
	Icon string `json:"icon"`
}

func (SetIconMsg) Path() string { return "mint/set_icon" }

func (m *SetIconMsg) Validate() error {
	return errors.AppendField(nil, "Icon", validateIcon(m.Icon))
}

func (m *SetIconMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *SetIconMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// SetBaseURIMsg replaces the location of the token content.
type SetBaseURIMsg struct {
	BaseURI string `json:"base_uri"`
}

func (SetBaseURIMsg) Path() string { return "mint/set_base_uri" }

func (m *SetBaseURIMsg) Validate() error {
	return errors.AppendField(nil, "BaseURI", validateBaseURI(m.BaseURI))
}

func (m *SetBaseURIMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *SetBaseURIMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// SetSymbolMsg replaces the mint symbol.
type SetSymbolMsg struct {
	Symbol string `json:"symbol"`
}

func (SetSymbolMsg) Path() string { return "mint/set_symbol" }

func (m *SetSymbolMsg) Validate() error {
	return errors.AppendField(nil, "Symbol", validateSymbol(m.Symbol))
}

func (m *SetSymbolMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *SetSymbolMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// TokenGrantAccessMsg allows an account to act on a single token.
type TokenGrantAccessMsg struct {
	TokenID uint64        `json:"token_id"`
	Account weave.Address `json:"account"`
}

func (TokenGrantAccessMsg) Path() string { return "mint/token_grant_access" }

func (m *TokenGrantAccessMsg) Validate() error {
	return errors.AppendField(nil, "Account", m.Account.Validate())
}

func (m *TokenGrantAccessMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *TokenGrantAccessMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// TokenRevokeAccessMsg removes access to a single token.
type TokenRevokeAccessMsg struct {
	TokenID uint64        `json:"token_id"`
	Account weave.Address `json:"account"`
}

func (TokenRevokeAccessMsg) Path() string { return "mint/token_revoke_access" }

func (m *TokenRevokeAccessMsg) Validate() error {
	return errors.AppendField(nil, "Account", m.Account.Validate())
}

func (m *TokenRevokeAccessMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *TokenRevokeAccessMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// AccountGrantAccessMsg allows an account to act on every token of the
// caller.
type AccountGrantAccessMsg struct {
	Account weave.Address `json:"account"`
}

func (AccountGrantAccessMsg) Path() string { return "mint/account_grant_access" }

func (m *AccountGrantAccessMsg) Validate() error {
	return errors.AppendField(nil, "Account", m.Account.Validate())
}

func (m *AccountGrantAccessMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *AccountGrantAccessMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// AccountRevokeAccessMsg removes access to the tokens of the caller.
type AccountRevokeAccessMsg struct {
	Account weave.Address `json:"account"`
}

func (AccountRevokeAccessMsg) Path() string { return "mint/account_revoke_access" }

func (m *AccountRevokeAccessMsg) Validate() error {
	return errors.AppendField(nil, "Account", m.Account.Validate())
}

func (m *AccountRevokeAccessMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *AccountRevokeAccessMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// MintTokenMsg mints NumToMint copies of a token for Owner.
//
// Royalty shares and percentage are given as floating point values
// within [0, 1]. They are converted to fractions once, when the tokens
// are minted.
type MintTokenMsg struct {
	Owner             weave.Address      `json:"owner"`
	MetaID            string             `json:"meta_id"`
	NumToMint         uint64             `json:"num_to_mint"`
	Royalty           map[string]float32 `json:"royalty,omitempty"`
	RoyaltyPercentage float32            `json:"royalty_percentage,omitempty"`
}

func (MintTokenMsg) Path() string { return "mint/mint_token" }

func (m *MintTokenMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "MetaID", validateMetaID(m.MetaID))
	if m.NumToMint == 0 {
		errs = errors.AppendField(errs, "NumToMint", ErrInvalidQuantity)
	}
	if m.NumToMint > maxMintQuantity {
		errs = errors.AppendField(errs, "NumToMint", errors.Wrapf(ErrInvalidQuantity, "more than %d", maxMintQuantity))
	}
	_, err := m.RoyaltyValue()
	errs = errors.AppendField(errs, "Royalty", err)
	return errs
}

// RoyaltyValue converts the royalty input. It returns nil if the
// message carries no royalty.
func (m *MintTokenMsg) RoyaltyValue() (*royalty.Royalty, error) {
	if m.Royalty == nil {
		if m.RoyaltyPercentage != 0 {
			return nil, errors.Wrap(errors.ErrInput, "percentage without shares")
		}
		return nil, nil
	}
	return royalty.FromFloatMap(m.Royalty, m.RoyaltyPercentage)
}

func (m *MintTokenMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *MintTokenMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// TransferMsg transfers a single token.
type TransferMsg struct {
	TokenID uint64        `json:"token_id"`
	To      weave.Address `json:"to"`
}

func (TransferMsg) Path() string { return "mint/transfer" }

func (m *TransferMsg) Validate() error {
	return errors.AppendField(nil, "To", m.To.Validate())
}

func (m *TransferMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *TransferMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// BatchTransferMsg transfers several tokens to the same recipient.
type BatchTransferMsg struct {
	To       weave.Address `json:"to"`
	TokenIDs []uint64      `json:"token_ids"`
}

func (BatchTransferMsg) Path() string { return "mint/batch_transfer" }

func (m *BatchTransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "To", m.To.Validate())
	errs = errors.AppendField(errs, "TokenIDs", validateIDs(m.TokenIDs))
	return errs
}

func (m *BatchTransferMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *BatchTransferMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// BatchHeterogeneousTransferMsg transfers every token to its own
// recipient.
type BatchHeterogeneousTransferMsg struct {
	Transfers []TransferPair `json:"transfers"`
}

func (BatchHeterogeneousTransferMsg) Path() string { return "mint/batch_heterogeneous_transfer" }

func (m *BatchHeterogeneousTransferMsg) Validate() error {
	ids := make([]uint64, len(m.Transfers))
	var errs error
	for i, p := range m.Transfers {
		ids[i] = p.TokenID
		if err := p.To.Validate(); err != nil {
			errs = errors.AppendField(errs, "Transfers", errors.Wrapf(err, "item %d", i))
		}
	}
	return errors.AppendField(errs, "Transfers", validateIDs(ids))
}

func (m *BatchHeterogeneousTransferMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *BatchHeterogeneousTransferMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// BatchTransferFromMsg transfers tokens owned by From to the same
// recipient.
type BatchTransferFromMsg struct {
	From     weave.Address `json:"from"`
	To       weave.Address `json:"to"`
	TokenIDs []uint64      `json:"token_ids"`
}

func (BatchTransferFromMsg) Path() string { return "mint/batch_transfer_from" }

func (m *BatchTransferFromMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "From", m.From.Validate())
	errs = errors.AppendField(errs, "To", m.To.Validate())
	errs = errors.AppendField(errs, "TokenIDs", validateIDs(m.TokenIDs))
	return errs
}

func (m *BatchTransferFromMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *BatchTransferFromMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// BurnTokenMsg burns a single token.
type BurnTokenMsg struct {
	TokenID uint64 `json:"token_id"`
}

func (BurnTokenMsg) Path() string { return "mint/burn_token" }

func (m *BurnTokenMsg) Validate() error { return nil }

func (m *BurnTokenMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *BurnTokenMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// BatchBurnMsg burns several tokens.
type BatchBurnMsg struct {
	TokenIDs []uint64 `json:"token_ids"`
}

func (BatchBurnMsg) Path() string { return "mint/batch_burn" }

func (m *BatchBurnMsg) Validate() error {
	return errors.AppendField(nil, "TokenIDs", validateIDs(m.TokenIDs))
}

func (m *BatchBurnMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *BatchBurnMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// ListTokenMsg lists a single token on the marketplace.
type ListTokenMsg struct {
	TokenID      uint64             `json:"token_id"`
	Autotransfer bool               `json:"autotransfer"`
	AskingPrice  decimal.Decimal    `json:"asking_price"`
	SplitOwners  map[string]float32 `json:"split_owners,omitempty"`
}

func (ListTokenMsg) Path() string { return "mint/list_token" }

func (m *ListTokenMsg) Validate() error {
	_, err := listingTerms(m.Autotransfer, m.AskingPrice, m.SplitOwners)
	return err
}

// Terms returns the sale terms of the listing.
func (m *ListTokenMsg) Terms() (ListingTerms, error) {
	return listingTerms(m.Autotransfer, m.AskingPrice, m.SplitOwners)
}

func (m *ListTokenMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *ListTokenMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

// BatchListTokenMsg lists several tokens under the same terms.
type BatchListTokenMsg struct {
	TokenIDs     []uint64           `json:"token_ids"`
	Autotransfer bool               `json:"autotransfer"`
	AskingPrice  decimal.Decimal    `json:"asking_price"`
	SplitOwners  map[string]float32 `json:"split_owners,omitempty"`
	// PermissionsIntermediary is passed to the marketplace as the
	// account acting on the listed tokens.
	PermissionsIntermediary weave.Address `json:"permissions_intermediary,omitempty"`
}

func (BatchListTokenMsg) Path() string { return "mint/batch_list_token" }

func (m *BatchListTokenMsg) Validate() error {
	_, errs := listingTerms(m.Autotransfer, m.AskingPrice, m.SplitOwners)
	errs = errors.AppendField(errs, "TokenIDs", validateIDs(m.TokenIDs))
	if m.PermissionsIntermediary != nil {
		errs = errors.AppendField(errs, "PermissionsIntermediary", m.PermissionsIntermediary.Validate())
	}
	return errs
}

// Terms returns the sale terms of the listing.
func (m *BatchListTokenMsg) Terms() (ListingTerms, error) {
	return listingTerms(m.Autotransfer, m.AskingPrice, m.SplitOwners)
}

func (m *BatchListTokenMsg) Marshal() ([]byte, error)   { return json.Marshal(m) }
func (m *BatchListTokenMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, m) }

func listingTerms(autotransfer bool, price decimal.Decimal, split map[string]float32) (ListingTerms, error) {
	terms := ListingTerms{Autotransfer: autotransfer, AskingPrice: price}
	var errs error
	if price.IsNegative() {
		errs = errors.AppendField(errs, "AskingPrice", errors.ErrAmount)
	}
	if split != nil {
		r, err := royalty.FromFloatMap(split, 1)
		errs = errors.AppendField(errs, "SplitOwners", err)
		terms.SplitOwners = r
	}
	return terms, errs
}
