/*
Package royalty describes how the proceeds of a token sale are split.

A Royalty is set once when a token is minted and never changes. The
overall percentage and every beneficiary share are kept as exact
fractions. Input given as floating point values is converted at a fixed
precision before it is stored.
*/
package royalty
