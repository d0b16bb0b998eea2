/*
Package x is the root of the mint registry extensions.

Each subpackage contributes handlers, decorators or models: x/mint holds
the token registry, x/permission and x/royalty the value types it
stores, x/auth and x/utils the decorators every call passes through.
This package only defines Authenticator, which handlers use to learn
who is calling.
*/
package x
