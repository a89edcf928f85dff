// Package store defines the persistence contracts for the review engine:
// card scheduling state, collections, and the experience ledger records.
// Implementations live under internal/platform; services depend only on
// these interfaces.
package store
