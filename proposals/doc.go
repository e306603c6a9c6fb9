// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package proposals is the registry for grant proposals: their records, the
status state machine, and the derived voting progress.

# State Machine

	to_review -> approved -> sent
	to_review -> declined

Decisions are final. Re-deciding a decided proposal is a conflict; every
other move is an invalid transition. Approving locks the computed final
amount into final_amount_cents at that instant, inside the same database
transaction, so later reads (and hypothetical later votes) can never change
what was approved.

# Progress

Progress is derived on every read from the proposal, its votes, and the
eligible-voter count. Blind voting is enforced here: until reveal_votes is
set, the per-vote breakdown is withheld from non-oversight viewers while
the aggregate counts and computed amount still include every vote.

# Concurrency

Writes use read-validate-conditional-update against the status column.
Two racing decisions produce exactly one winner; the loser's UPDATE matches
zero rows and surfaces ErrAlreadyDecided.
*/
package proposals
