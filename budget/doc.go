// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package budget is the ledger for per-year giving budgets.

A budget row holds the year's total, the joint/discretionary split ratios
(must sum to 1 within 0.001), and rollover carried from the previous year.
Derived values are never stored:

	jointPool         = round((total + rollover) * jointRatio)
	discretionaryPool = round((total + rollover) * discretionaryRatio)
	perMemberCap      = min($5,000,000, discretionaryPool / eligibleVoters)

Pools are advisory: allocated totals may exceed them and the engine only
reports the (possibly negative) remainder. The per-member discretionary cap
is the one hard limit, enforced when a member commits discretionary money.

Allocated totals sum final_amount over approved and sent proposals only;
a decision locks its amount forever, so these sums never move retroactively.
*/
package budget
