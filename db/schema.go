// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Members (role directory; authentication lives elsewhere)
CREATE TABLE IF NOT EXISTS member (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL CHECK (role IN ('member', 'oversight', 'manager', 'admin')),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_member_role ON member(role);

-- Budgets (one row per fiscal year; upserts supersede, never delete)
CREATE TABLE IF NOT EXISTS budget (
    year INT PRIMARY KEY,
    total_amount_cents BIGINT NOT NULL CHECK (total_amount_cents >= 0),
    joint_ratio DOUBLE PRECISION NOT NULL,
    discretionary_ratio DOUBLE PRECISION NOT NULL,
    rollover_cents BIGINT NOT NULL DEFAULT 0 CHECK (rollover_cents >= 0),
    meeting_reveal_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    updated_by TEXT,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Grant proposals
CREATE TABLE IF NOT EXISTS proposal (
    id TEXT PRIMARY KEY,
    proposal_type TEXT NOT NULL CHECK (proposal_type IN ('joint', 'discretionary')),
    proposer_id TEXT NOT NULL REFERENCES member(id),
    budget_year INT NOT NULL,
    organization_id TEXT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    proposed_amount_cents BIGINT NOT NULL CHECK (proposed_amount_cents >= 0),
    status TEXT NOT NULL DEFAULT 'to_review' CHECK (status IN ('to_review', 'approved', 'declined', 'sent')),
    allocation_mode TEXT NOT NULL DEFAULT 'sum' CHECK (allocation_mode IN ('sum', 'average')),
    reveal_votes BOOLEAN NOT NULL DEFAULT FALSE,
    final_amount_cents BIGINT,
    notes TEXT,
    website TEXT,
    charity_navigator_url TEXT,
    sent_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_proposal_budget_year ON proposal(budget_year);
CREATE INDEX IF NOT EXISTS idx_proposal_proposer ON proposal(proposer_id);
CREATE INDEX IF NOT EXISTS idx_proposal_status ON proposal(status);

-- Votes (write-once; composite key enforces one vote per voter per proposal)
CREATE TABLE IF NOT EXISTS vote (
    proposal_id TEXT NOT NULL REFERENCES proposal(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES member(id),
    choice TEXT NOT NULL CHECK (choice IN ('yes', 'no', 'acknowledged', 'flagged')),
    allocation_amount_cents BIGINT NOT NULL DEFAULT 0 CHECK (allocation_amount_cents >= 0),
    flag_comment TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (proposal_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_proposal ON vote(proposal_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(voter_id);
`
