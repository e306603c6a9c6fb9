// Copyright (c) 2025 Lena Matteson.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lmatteson/grantwell/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Cast inserts a vote. Votes are write-once: the (proposal_id, voter_id)
// primary key turns a duplicate - including two concurrent casts from the
// same voter - into ErrAlreadyVoted.
func (s *Store) Cast(ctx context.Context, v models.Vote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote (proposal_id, voter_id, choice, allocation_amount_cents, flag_comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ProposalID, v.VoterID, v.Choice, v.AllocationAmountCents, v.FlagComment, v.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// ListByProposal returns a proposal's votes in insertion order.
func (s *Store) ListByProposal(ctx context.Context, proposalID string) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT proposal_id, voter_id, choice, allocation_amount_cents, flag_comment, created_at
		FROM vote
		WHERE proposal_id = $1
		ORDER BY created_at, voter_id
	`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

// ListByVoter returns every vote a member has cast, newest first.
func (s *Store) ListByVoter(ctx context.Context, voterID string) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT proposal_id, voter_id, choice, allocation_amount_cents, flag_comment, created_at
		FROM vote
		WHERE voter_id = $1
		ORDER BY created_at DESC
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

func (s *Store) HasVoted(ctx context.Context, proposalID, voterID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM vote WHERE proposal_id = $1 AND voter_id = $2)
	`, proposalID, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}
	return exists, nil
}

func scanVotes(rows *sql.Rows) ([]models.Vote, error) {
	out := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		var comment sql.NullString
		if err := rows.Scan(&v.ProposalID, &v.VoterID, &v.Choice, &v.AllocationAmountCents, &comment, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		if comment.Valid {
			v.FlagComment = &comment.String
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
