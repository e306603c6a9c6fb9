// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package members is the foundation's role directory.

Authentication is handled outside this server; what the engine needs is a
lookup from caller identity to role, and a count of eligible voters per
proposal. Roles:

  - member: votes, submits joint and discretionary proposals
  - oversight: votes, submits, reveals tallies, records decisions
  - manager: submits joint proposals only, reveals, records decisions; no vote
  - admin: marks approved grants as sent; no vote

Eligible-voter counts drive the "all votes are in" meeting-readiness check,
so they are always computed at evaluation time rather than stored.
*/
package members
