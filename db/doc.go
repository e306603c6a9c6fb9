// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

The schema is idempotent (IF NOT EXISTS) and is applied on every server
start. Four tables:

  - member: role directory (member, oversight, manager, admin)
  - budget: one row per fiscal year with pool ratios and rollover
  - proposal: grant proposals with their status state machine fields
  - vote: write-once votes keyed (proposal_id, voter_id)

The composite primary key on vote is what makes duplicate voting a database
conflict rather than an application-level race. All money columns are BIGINT
cents.
*/
package db
