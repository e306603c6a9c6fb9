// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package votes is the write-once vote ledger.

One vote per (proposal, voter), enforced by the table's composite primary
key so concurrent duplicates resolve at the database: exactly one insert
wins, the rest surface ErrAlreadyVoted.

Joint proposals take yes/no votes where a yes carries the voter's pledged
allocation; the proposal's computed amount is the sum of those pledges.
Discretionary proposals take acknowledged/flagged votes, which are advisory
and never carry money.

Votes are blind by default: this package always returns full rows, and
masking is applied above it in the proposal registry, because aggregates
must include masked votes.
*/
package votes
