/*
Package mint implements a registry of non fungible tokens issued by a
single minting authority.

The mint owner manages the mint description, the marketplace address
and the set of accounts allowed to mint. Minters create tokens for any
owner, optionally attaching a royalty that is fixed for the lifetime of
the token. A token owner may transfer or burn the token and may grant
other accounts the right to do so on their behalf, either for a single
token or for everything they own.

Token actions are authorized in this order: the token owner, then an
account granted access to that token, then an account granted access on
behalf of the owner. Batch operations apply each item in isolation and
report one result per item.
*/
package mint
