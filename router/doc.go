// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the API routes using Go 1.22+ ServeMux patterns.

All routes except /health and / sit behind the identity middleware, which
resolves the X-Member-Token header into a member record. Role gating is the
handlers' job; the router only guarantees that a caller is known.

	POST  /proposals                 submit a proposal
	GET   /proposals/{id}            proposal with derived progress
	PATCH /proposals/{id}            oversight/manager edits
	POST  /proposals/{id}/votes      cast a blind vote
	POST  /proposals/{id}/reveal     toggle vote visibility
	POST  /proposals/{id}/decision   record the meeting decision
	GET   /budgets/{year}            budget with pools and remainders
	PUT   /budgets/{year}            upsert the year's budget
	GET   /foundation                foundation-wide snapshot
	GET   /workspace                 caller's personal snapshot
	POST  /members                   add a member
	GET   /members                   list members
*/
package router
