// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types and request/response structures
shared across handlers.

# Domain Types

Proposal, Vote, Budget, and Member mirror their database rows. Progress is
derived on every read and never stored; its Votes slice is populated only
when the viewer is allowed to see the breakdown.

# Money

All amounts are int64 cents. JSON field names carry a _cents suffix so
clients cannot mistake them for dollar floats.

# Patch Requests

PatchProposalRequest uses pointer fields to distinguish "absent" from
"set to zero value". A nil field is left untouched; a present field is
validated before any mutation is applied.
*/
package models
