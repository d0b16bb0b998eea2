/*
Package weave defines the building blocks shared by every part of the
mint: addresses and conditions identifying accounts, fractions, the
key value store interfaces, transactions, handlers and decorators.

Business logic lives in the x/ packages. The app package glues them
together into an application that executes calls against a committed
store.
*/
package weave
