// Package sqlite implements the store interfaces on an embedded sqlite
// database using the pure-Go modernc.org/sqlite driver. Schema changes are
// applied through goose migrations embedded in the binary.
package sqlite
