// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements HTTP request handlers for the Grantwell API.

This is the lifecycle controller: each handler composes the budget, vote,
proposal, and member stores and enforces the cross-component rules the
stores can't see on their own (role gates, the per-member discretionary
cap, budget existence before submission).

# Handler Groups

  - ProposalHandler: submit, fetch with progress, oversight edits
  - VoteHandler: blind vote casting with per-type choice rules
  - DecisionHandler: reveal toggling and meeting decisions
  - BudgetHandler: per-year budget reads and upserts with pool math
  - SnapshotHandler: foundation-wide and per-member workspace views
  - MemberHandler: role directory management

# Error Mapping

Domain sentinel errors map to stable HTTP statuses in errors.go:
validation 400, forbidden 403, not found 404, conflict 409. Budget pools
are deliberately never a 4xx: they are soft caps reported as remainders.
*/
package handlers
