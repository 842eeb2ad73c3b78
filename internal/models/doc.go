// Package models defines the core domain models for Xpense.
//
// # Money
//
// All monetary amounts are int64 values in minor currency units (cents).
// Floating point is never used for money.
//
// # Immutability
//
// Expense, ExpenseMember and Transaction records are append-only: once
// written they are never updated or deleted. Corrections happen by
// recording new offsetting entries. Balances are always derived from the
// full history, never stored, so they cannot drift from the records.
//
// # Identifiers
//
// Users are keyed by username. Groups get a store-assigned id. Expense and
// Transaction ids are sequential per group, starting at 1; allocation is
// serialized per group by the ledger.
package models
