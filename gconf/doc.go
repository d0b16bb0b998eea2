/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package owns a single configuration entity stored under the "_c:<pkg>"
key. A configuration is validated every time it is saved and can be
initialized from the genesis file using InitConfig, which reads the
"conf"/"<pkg>" section of the genesis options.
*/
package gconf
