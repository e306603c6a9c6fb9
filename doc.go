// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Grantwell API server.

Grantwell runs a family foundation's annual giving round: members submit
grant proposals, vote on them blindly, and the oversight board reveals the
tallies and records the binding decisions at the meeting stage. The server
enforces the proposal state machine, the one-vote-per-member rule, and the
joint/discretionary budget pool math.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3419 -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - MEMBER_TOKEN_SALT (--member-salt): Secret for member token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3419)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (proposals, votes, decisions, budgets, snapshots)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Identity resolution, logging, JSON helpers
  - models: Domain and request/response types
  - budget: Pool math, per-member caps, allocated totals
  - votes: Vote validation and the write-once vote store
  - proposals: Proposal store, progress aggregation, status state machine
  - members: Member directory and voter eligibility counts
  - auth: Member token generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
